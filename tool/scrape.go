package tool

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/venturescope/venturescope/core"
)

// maxContentChars caps how much extracted page text a single scrape returns.
const maxContentChars = 5000

// maxRedirects bounds redirect chains when fetching a page.
const maxRedirects = 10

var whitespaceRE = regexp.MustCompile(`\s+`)

// mainContentSelectors are tried in order; the first match supplies the
// page's main content. Falls back to the whole body.
var mainContentSelectors = []string{"main", "article", ".content", "#content", ".main"}

// PageScraperOptions configures a PageScraper backend.
type PageScraperOptions struct {
	// HTTPClient overrides the HTTP client used to fetch pages. When set,
	// its redirect policy is used as-is.
	HTTPClient *http.Client
	// UserAgent is sent on every fetch.
	UserAgent string
}

// PageScraper fetches a web page and extracts its title, meta description
// and main text content as plain text.
type PageScraper struct {
	httpClient *http.Client
	userAgent  string
}

var _ Backend = (*PageScraper)(nil)

// NewPageScraper constructs a scrape backend.
func NewPageScraper(optFns ...func(o *PageScraperOptions)) *PageScraper {
	opts := PageScraperOptions{
		UserAgent: "Mozilla/5.0 (compatible; venturescope/1.0)",
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		}
	}
	return &PageScraper{httpClient: client, userAgent: opts.UserAgent}
}

// Capability returns core.CapabilityScrape.
func (s *PageScraper) Capability() core.Capability { return core.CapabilityScrape }

// Invoke fetches the URL and returns a structured plain-text digest of the
// page: title, meta description, and the main content capped at
// maxContentChars characters.
func (s *PageScraper) Invoke(ctx context.Context, url string) (string, error) {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return "", fmt.Errorf("scrape: unsupported URL %q", url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("scrape: build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("scrape: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("scrape: status %d fetching %s", resp.StatusCode, url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("scrape: parse %s: %w", url, err)
	}

	doc.Find("script, style, noscript, iframe").Remove()

	title := collapse(doc.Find("title").First().Text())
	description, _ := doc.Find(`meta[name="description"]`).Attr("content")
	description = collapse(description)

	content := extractMainContent(doc)
	if len(content) > maxContentChars {
		content = content[:maxContentChars] + "..."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Content from %s\n", url)
	if title != "" {
		fmt.Fprintf(&b, "Title: %s\n", title)
	}
	if description != "" {
		fmt.Fprintf(&b, "Description: %s\n", description)
	}
	b.WriteString("\n--- MAIN CONTENT ---\n")
	b.WriteString(content)
	return b.String(), nil
}

func extractMainContent(doc *goquery.Document) string {
	for _, sel := range mainContentSelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			if text := collapse(s.Text()); text != "" {
				return text
			}
		}
	}
	return collapse(doc.Find("body").Text())
}

func collapse(s string) string {
	return strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
}
