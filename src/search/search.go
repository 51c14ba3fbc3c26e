// Package search looks up fitness information for the fitness_search tool.
package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

type Result struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Source  string `json:"source"`
	URL     string `json:"url,omitempty"`
}

type Response struct {
	Query    string   `json:"query"`
	Category string   `json:"category"`
	Results  []Result `json:"results"`
}

type Searcher interface {
	Search(ctx context.Context, query, category string) (Response, error)
}

// Stub answers every query with a single placeholder result.
type Stub struct{}

func (Stub) Search(_ context.Context, query, category string) (Response, error) {
	return Response{
		Query:    query,
		Category: category,
		Results: []Result{{
			Title:   fmt.Sprintf("Information about %s", query),
			Summary: "Detailed information would be retrieved from search API",
			Source:  "Fitness Database",
		}},
	}, nil
}

// HTMLSearcher queries an HTML search page (DuckDuckGo's html endpoint by
// default) and scrapes the result blocks.
type HTMLSearcher struct {
	endpoint   string
	client     *http.Client
	maxResults int
}

const DefaultEndpoint = "https://html.duckduckgo.com/html/"

func NewHTMLSearcher(endpoint string, maxResults int) *HTMLSearcher {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if maxResults <= 0 {
		maxResults = 5
	}
	return &HTMLSearcher{
		endpoint:   endpoint,
		client:     &http.Client{Timeout: 15 * time.Second},
		maxResults: maxResults,
	}
}

func (s *HTMLSearcher) Search(ctx context.Context, query, category string) (Response, error) {
	q := strings.TrimSpace(query + " " + category)
	u, err := url.Parse(s.endpoint)
	if err != nil {
		return Response{}, fmt.Errorf("bad search endpoint: %w", err)
	}
	params := u.Query()
	params.Set("q", q)
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Response{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "fitgenius/1.0")
	res, err := s.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("search request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("search returned status %d", res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return Response{}, fmt.Errorf("parse search page: %w", err)
	}

	out := Response{Query: query, Category: category, Results: []Result{}}
	doc.Find(".result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		link := sel.Find(".result__a").First()
		title := strings.TrimSpace(link.Text())
		if title == "" {
			return true
		}
		href := link.AttrOr("href", "")
		out.Results = append(out.Results, Result{
			Title:   title,
			Summary: strings.TrimSpace(sel.Find(".result__snippet").First().Text()),
			Source:  sourceOf(href, sel.Find(".result__url").First().Text()),
			URL:     href,
		})
		return len(out.Results) < s.maxResults
	})
	return out, nil
}

// sourceOf prefers the host of href, falling back to the displayed URL.
func sourceOf(href, shown string) string {
	if u, err := url.Parse(href); err == nil && u.Host != "" {
		return u.Host
	}
	return strings.TrimSpace(shown)
}
