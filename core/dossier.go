package core

import "encoding/json"

// ComponentType selects the presentation shape of a dashboard panel.
type ComponentType string

const (
	// TypePeople renders a roster of people with roles.
	TypePeople ComponentType = "people"
	// TypeText renders prose with optional labeled facts.
	TypeText ComponentType = "text"
	// TypeList renders titled items with detail lines.
	TypeList ComponentType = "list"
	// TypeStat renders labeled figures.
	TypeStat ComponentType = "stat"
	// TypeRaw renders unshaped JSON; the fallback when shaping fails.
	TypeRaw ComponentType = "raw"
)

// ComponentSize is the layout size class of a panel.
type ComponentSize string

const (
	// SizeSmall is a compact panel.
	SizeSmall ComponentSize = "small"
	// SizeMedium is a half-width panel.
	SizeMedium ComponentSize = "medium"
	// SizeLarge is a full-width panel.
	SizeLarge ComponentSize = "large"
)

// Fact is one labeled value inside a text panel.
type Fact struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Person is one entry of a people panel.
type Person struct {
	Name       string `json:"name"`
	Role       string `json:"role,omitempty"`
	Background string `json:"background,omitempty"`
	LinkedIn   string `json:"linkedin,omitempty"`
}

// ListItem is one entry of a list panel.
type ListItem struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// Stat is one figure of a stat panel.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Trend string `json:"trend,omitempty"`
}

// TextPayload backs TypeText components.
type TextPayload struct {
	Text  string `json:"text"`
	Facts []Fact `json:"facts,omitempty"`
}

// PeoplePayload backs TypePeople components.
type PeoplePayload struct {
	People  []Person `json:"people"`
	Summary string   `json:"summary,omitempty"`
}

// ListPayload backs TypeList components.
type ListPayload struct {
	Items []ListItem `json:"items"`
	Note  string     `json:"note,omitempty"`
}

// StatPayload backs TypeStat components.
type StatPayload struct {
	Stats []Stat `json:"stats"`
	Note  string `json:"note,omitempty"`
}

// RawPayload backs TypeRaw components, passing the task output through
// unshaped.
type RawPayload struct {
	JSON json.RawMessage `json:"json"`
}

// DashboardComponent is one panel of the dossier. ID is stable across runs
// for the same task (it is the task identity), so clients can key panels.
type DashboardComponent struct {
	ID      string        `json:"id"`
	Title   string        `json:"title"`
	Type    ComponentType `json:"type"`
	Size    ComponentSize `json:"size"`
	Payload any           `json:"payload"`
}

// CompanySummary is the header record of a dossier, seeded from the static
// company-data lookup rather than agent output.
type CompanySummary struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Website      string   `json:"website,omitempty"`
	Industry     string   `json:"industry,omitempty"`
	FoundedYear  int      `json:"founded_year,omitempty"`
	Location     string   `json:"location,omitempty"`
	Status       string   `json:"status,omitempty"`
	TotalFunding float64  `json:"total_funding,omitempty"`
	Founders     []string `json:"founders,omitempty"`
}

// Dossier is the terminal artifact of a completed run: a company summary
// plus panels in registry order. Created once, immutable thereafter, and
// intentionally free of timestamps so equal inputs compose to equal bytes.
type Dossier struct {
	Company    CompanySummary       `json:"company"`
	Components []DashboardComponent `json:"components"`
}
