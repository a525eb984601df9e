package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a search query.
type SearchParams struct {
	Query string

	// Published, when set, keeps only published (true) or draft (false) posts.
	Published *bool

	Limit  int
	Offset int

	Highlight bool
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:     20,
		Highlight: true,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// SearchHit represents a single search result.
type SearchHit struct {
	ID         string            `json:"id"`
	Score      float64           `json:"score"`
	Title      string            `json:"title"`
	Tags       string            `json:"tags,omitempty"`
	Published  bool              `json:"published"`
	Touched    int64             `json:"touched"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search executes a search query. An empty query lists every post, most
// recently touched first; otherwise hits are ranked by relevance.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = DefaultSearchParams().Limit
	}

	searchRequest := bleve.NewSearchRequestOptions(buildSearchQuery(params), params.Limit, params.Offset, false)

	if strings.TrimSpace(params.Query) == "" {
		searchRequest.SortBy([]string{"-touched"})
	} else {
		searchRequest.SortBy([]string{"-_score", "-touched"})
	}

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("title")
		searchRequest.Highlight.AddField("tags")
	}

	searchRequest.Fields = []string{"title", "tags", "published", "touched"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if t, ok := hit.Fields["title"].(string); ok {
			searchHit.Title = t
		}
		if t, ok := hit.Fields["tags"].(string); ok {
			searchHit.Tags = t
		}
		if p, ok := hit.Fields["published"].(bool); ok {
			searchHit.Published = p
		}
		if t, ok := hit.Fields["touched"].(float64); ok {
			searchHit.Touched = int64(t)
		}

		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	q := strings.TrimSpace(params.Query)
	if q != "" {
		titleMatch := bleve.NewMatchQuery(q)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)

		tagsMatch := bleve.NewMatchQuery(q)
		tagsMatch.SetField("tags")
		tagsMatch.SetBoost(2.0)

		contentMatch := bleve.NewMatchQuery(q)
		contentMatch.SetField("content")

		// Typo tolerance on titles
		fuzzyQuery := bleve.NewFuzzyQuery(strings.ToLower(q))
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("title")
		fuzzyQuery.SetBoost(0.8)

		textQueries := []query.Query{titleMatch, tagsMatch, contentMatch, fuzzyQuery}

		// Prefix query for search-as-you-type (minimum 2 chars)
		if len(q) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(q))
			prefixQuery.SetField("title")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.Published != nil {
		publishedQuery := bleve.NewBoolFieldQuery(*params.Published)
		publishedQuery.SetField("published")
		queries = append(queries, publishedQuery)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}
