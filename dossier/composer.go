// Package dossier composes the partial results of a run into the final
// dashboard dossier. Composition is pure and deterministic: panels appear
// in task-catalog order, absent results are skipped, and a result that
// cannot be shaped degrades to a raw panel instead of failing the run.
package dossier

import (
	"fmt"
	"strconv"

	"github.com/venturescope/venturescope/core"
	"github.com/venturescope/venturescope/task"
)

// overviewFactKeys is the presentation order of labeled facts on a text
// panel. Keys absent from the result are skipped.
var overviewFactKeys = []struct {
	key   string
	label string
}{
	{"tagline", "Tagline"},
	{"website", "Website"},
	{"founded_year", "Founded"},
	{"headquarters", "Headquarters"},
	{"company_stage", "Stage"},
	{"employee_count", "Employees"},
	{"business_model", "Business model"},
	{"revenue_model", "Revenue model"},
	{"industry", "Industry"},
}

// marketKeys is the presentation order of market-sizing figures.
var marketKeys = []struct {
	key   string
	label string
}{
	{"tam", "TAM"},
	{"sam", "SAM"},
	{"som", "SOM"},
}

// Composer builds dossiers. Stateless and safe for concurrent use.
type Composer struct{}

// New constructs a Composer.
func New() *Composer { return &Composer{} }

// Compose assembles a dossier from the succeeded results, in the order of
// defs. The company summary comes from the curated record when one exists,
// otherwise it carries just the subject name.
func (c *Composer) Compose(
	subject string,
	record *core.CompanyRecord,
	defs []task.Definition,
	results map[string]*core.PartialResult,
) *core.Dossier {
	d := &core.Dossier{
		Company:    core.CompanySummary{Name: subject},
		Components: []core.DashboardComponent{},
	}
	if record != nil {
		d.Company = record.Summary()
	}

	for _, def := range defs {
		res, ok := results[def.Key]
		if !ok {
			continue
		}
		payload, err := shape(def, res)
		comp := core.DashboardComponent{
			ID:      def.Key,
			Title:   def.Label,
			Type:    def.Shape,
			Size:    def.Size,
			Payload: payload,
		}
		if err != nil {
			// Unshapeable output still reaches the client, just unstyled.
			comp.Type = core.TypeRaw
			comp.Size = core.SizeSmall
			comp.Payload = core.RawPayload{JSON: res.Raw}
		}
		d.Components = append(d.Components, comp)
	}
	return d
}

// shape maps a task's fields onto the payload for its declared panel type.
func shape(def task.Definition, res *core.PartialResult) (any, error) {
	switch def.Shape {
	case core.TypeText:
		return shapeText(res.Fields), nil
	case core.TypePeople:
		return shapePeople(res.Fields)
	case core.TypeList:
		return shapeList(res.Fields)
	case core.TypeStat:
		return shapeStats(res.Fields)
	default:
		return nil, fmt.Errorf("no shaping for panel type %q", def.Shape)
	}
}

func shapeText(fields map[string]any) core.TextPayload {
	payload := core.TextPayload{Text: str(fields["description"])}
	for _, fk := range overviewFactKeys {
		if v := str(fields[fk.key]); v != "" {
			payload.Facts = append(payload.Facts, core.Fact{Label: fk.label, Value: v})
		}
	}
	return payload
}

func shapePeople(fields map[string]any) (core.PeoplePayload, error) {
	entries, ok := fields["key_people"].([]any)
	if !ok {
		return core.PeoplePayload{}, fmt.Errorf("key_people is not a list")
	}
	payload := core.PeoplePayload{
		People:  make([]core.Person, 0, len(entries)),
		Summary: str(fields["team_strength"]),
	}
	for _, entry := range entries {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		payload.People = append(payload.People, core.Person{
			Name:       str(m["name"]),
			Role:       str(m["role"]),
			Background: str(m["background"]),
			LinkedIn:   str(m["linkedin"]),
		})
	}
	return payload, nil
}

func shapeList(fields map[string]any) (core.ListPayload, error) {
	direct, ok := fields["direct_competitors"].([]any)
	if !ok {
		return core.ListPayload{}, fmt.Errorf("direct_competitors is not a list")
	}
	indirect, _ := fields["indirect_competitors"].([]any)

	payload := core.ListPayload{
		Items: make([]core.ListItem, 0, len(direct)+len(indirect)),
		Note:  str(fields["competitive_advantage"]),
	}
	appendItems := func(entries []any) {
		for _, entry := range entries {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			payload.Items = append(payload.Items, core.ListItem{
				Title:    str(m["name"]),
				Subtitle: str(m["funding"]),
				Detail:   str(m["description"]),
			})
		}
	}
	appendItems(direct)
	appendItems(indirect)
	return payload, nil
}

func shapeStats(fields map[string]any) (core.StatPayload, error) {
	if metrics, ok := fields["key_metrics"].([]any); ok {
		payload := core.StatPayload{Stats: make([]core.Stat, 0, len(metrics))}
		for _, entry := range metrics {
			m, ok := entry.(map[string]any)
			if !ok {
				continue
			}
			payload.Stats = append(payload.Stats, core.Stat{
				Label: str(m["metric"]),
				Value: str(m["value"]),
				Trend: str(m["growth"]),
			})
		}
		return payload, nil
	}

	var payload core.StatPayload
	for _, mk := range marketKeys {
		m, ok := fields[mk.key].(map[string]any)
		if !ok {
			continue
		}
		payload.Stats = append(payload.Stats, core.Stat{
			Label: mk.label,
			Value: str(m["size"]),
			Trend: str(m["cagr"]),
		})
		if mk.key == "tam" {
			payload.Note = str(m["description"])
		}
	}
	if len(payload.Stats) == 0 {
		return payload, fmt.Errorf("no stat figures found")
	}
	return payload, nil
}

// str renders a loosely typed JSON value as display text. Integral floats
// print without a decimal point; nil and unsupported types print empty.
func str(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
