package core

// FundingRound is one financing event in a company record.
type FundingRound struct {
	Date      string   `json:"date"`
	Amount    float64  `json:"amount"`
	Series    string   `json:"series"`
	Investors []string `json:"investors"`
}

// CompanyRecord is the static company-data shape served by the lookup
// collaborator. It seeds the dossier's company summary and the /getData
// endpoint; it plays no part in the orchestration state machine.
type CompanyRecord struct {
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	FundingRounds []FundingRound `json:"funding_rounds"`
	Founders      []string       `json:"founders"`
	Industry      string         `json:"industry"`
	FoundedYear   int            `json:"founded_year"`
	TotalFunding  float64        `json:"total_funding"`
	Website       string         `json:"website"`
	Location      string         `json:"location"`
	Status        string         `json:"status"`
}

// Summary projects the record into the dossier header shape.
func (r *CompanyRecord) Summary() CompanySummary {
	return CompanySummary{
		Name:         r.Name,
		Description:  r.Description,
		Website:      r.Website,
		Industry:     r.Industry,
		FoundedYear:  r.FoundedYear,
		Location:     r.Location,
		Status:       r.Status,
		TotalFunding: r.TotalFunding,
		Founders:     r.Founders,
	}
}
