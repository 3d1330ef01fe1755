package task

import "github.com/venturescope/venturescope/core"

// Task identities. These are the values accepted in a request's focus_areas
// and the stable panel IDs in the composed dossier.
const (
	KeyCompanyOverview     = "company_overview"
	KeyKeyPeople           = "key_people"
	KeyMarketSizing        = "market_sizing"
	KeyCompetitorLandscape = "competitor_landscape"
	KeyGrowthMetrics       = "growth_metrics"
)

// Default returns the standard five-task catalog.
func Default() *Registry {
	return NewRegistry(
		Definition{
			Key:          KeyCompanyOverview,
			Label:        "Company overview",
			Requires:     []core.Capability{core.CapabilitySearch, core.CapabilityScrape},
			Shape:        core.TypeText,
			Size:         core.SizeLarge,
			Instructions: companyOverviewInstructions,
			RequiredKeys: []string{"name", "description"},
		},
		Definition{
			Key:          KeyKeyPeople,
			Label:        "Key people",
			Requires:     []core.Capability{core.CapabilitySearch, core.CapabilityScrape},
			Shape:        core.TypePeople,
			Size:         core.SizeMedium,
			Instructions: keyPeopleInstructions,
			RequiredKeys: []string{"key_people"},
		},
		Definition{
			Key:          KeyMarketSizing,
			Label:        "Market sizing",
			Requires:     []core.Capability{core.CapabilitySearch},
			Shape:        core.TypeStat,
			Size:         core.SizeSmall,
			Instructions: marketSizingInstructions,
			RequiredKeys: []string{"tam"},
		},
		Definition{
			Key:          KeyCompetitorLandscape,
			Label:        "Competitor landscape",
			Requires:     []core.Capability{core.CapabilitySearch},
			Shape:        core.TypeList,
			Size:         core.SizeMedium,
			Instructions: competitorInstructions,
			RequiredKeys: []string{"direct_competitors"},
		},
		Definition{
			Key:          KeyGrowthMetrics,
			Label:        "Growth metrics",
			Requires:     []core.Capability{core.CapabilitySearch},
			Shape:        core.TypeStat,
			Size:         core.SizeMedium,
			Instructions: growthMetricsInstructions,
			RequiredKeys: []string{"key_metrics"},
		},
	)
}

const companyOverviewInstructions = `You are a company research agent gathering basic information about a startup.

Research the following: official company name, tagline, a comprehensive description of what the company does, official website, founding year, headquarters location, company stage (Seed, Series A, ...), approximate employee count, business model, revenue model, and industry.

Use the search_google tool to find relevant sources and the scrape_website tool to extract details from specific pages. Prefer authoritative sources: the company's own website, its LinkedIn page, Crunchbase, and reputable tech press. If a fact cannot be found, say so and give your best estimate.

Your final answer MUST be a single JSON object with exactly this structure and nothing else:
{
  "name": "Company name",
  "tagline": "Short tagline",
  "description": "What the company does",
  "website": "https://example.com",
  "founded_year": 2020,
  "headquarters": "City, Country",
  "company_stage": "Series A",
  "employee_count": 50,
  "business_model": "B2B",
  "revenue_model": "SaaS",
  "industry": "AI/ML"
}`

const keyPeopleInstructions = `You are a team research agent gathering information about the people behind a startup: founders, C-level executives, board members and advisors.

For each person collect their full name, current role, background (previous companies, education, relevant experience) and LinkedIn URL when available. Also form an overall assessment of the team's strength.

Use the search_google tool to find sources and the scrape_website tool to read team and about pages. Aim for at least 3-5 key people, prioritizing founders and C-level executives.

Your final answer MUST be a single JSON object with exactly this structure and nothing else:
{
  "key_people": [{"name": "...", "role": "CEO", "background": "...", "linkedin": "https://..."}],
  "board_members": [{"name": "...", "role": "...", "organization": "...", "background": "..."}],
  "advisors": [{"name": "...", "role": "...", "background": "..."}],
  "team_strength": "Overall assessment"
}`

const marketSizingInstructions = `You are a market research agent estimating the market a startup operates in.

Estimate the Total Addressable Market (TAM), Serviceable Addressable Market (SAM) and Serviceable Obtainable Market (SOM). Combine top-down figures from industry reports with bottom-up estimates (potential customers times average revenue per customer). Always include a dollar figure, the year of the estimate, a growth rate (CAGR) and a one-line methodology note. Also list the most important market trends.

Use the search_google tool to find industry reports and analyst figures. When estimates conflict, give a range and explain the discrepancy.

Your final answer MUST be a single JSON object with exactly this structure and nothing else:
{
  "tam": {"size": "$50B", "year": 2025, "cagr": "22%", "description": "..."},
  "sam": {"size": "$8B", "year": 2025, "cagr": "25%", "description": "..."},
  "som": {"size": "$400M", "year": 2025, "cagr": "30%", "description": "..."},
  "market_trends": [{"trend": "...", "description": "..."}]
}`

const competitorInstructions = `You are a competitive-landscape research agent mapping a startup's competitors.

Identify direct competitors (same product category) and indirect competitors (alternative solutions). For each, collect name, a one-line description and known funding. Finish with a statement of the subject company's competitive advantage.

Use the search_google tool to find competitor lists, funding announcements and positioning statements.

Your final answer MUST be a single JSON object with exactly this structure and nothing else:
{
  "direct_competitors": [{"name": "...", "description": "...", "funding": "$120M"}],
  "indirect_competitors": [{"name": "...", "description": "...", "funding": "..."}],
  "competitive_advantage": "..."
}`

const growthMetricsInstructions = `You are a growth research agent collecting a startup's growth indicators.

Find user/customer growth (current figures and growth rate), revenue growth, and the key performance metrics investors in this sector track. Prefer recent figures (last 1-2 years) and always state the metric, its current value, and its growth.

Use the search_google tool to find funding announcements, press coverage and public statements.

Your final answer MUST be a single JSON object with exactly this structure and nothing else:
{
  "key_metrics": [{"metric": "ARR", "value": "$12M", "growth": "+180% YoY"}],
  "user_growth": {"current_users": "...", "growth_rate": "...", "description": "..."},
  "revenue_growth": {"description": "..."}
}`
