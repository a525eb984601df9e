package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell/internal/listview"
	"github.com/inkwellapp/inkwell/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "search",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search posts",
		Description: "Ranked full-text search over titles, tags and content. Falls back to the list filter when the index is disabled.",
		Tags:        []string{"Search"},
	}, s.handleSearch)
}

// === DTOs ===

// SearchInput contains parameters for searching posts.
type SearchInput struct {
	Query     string `query:"q" validate:"max=200" doc:"Search query. Empty lists every post."`
	Published string `query:"published" validate:"omitempty,oneof=true false" doc:"Keep only published (true) or draft (false) posts"`
	Limit     int    `query:"limit" validate:"omitempty,gte=1,lte=100" doc:"Max results (default 20)"`
	Offset    int    `query:"offset" validate:"omitempty,gte=0" doc:"Pagination offset (default 0)"`
}

// SearchResponse contains search results.
type SearchResponse struct {
	Query    string             `json:"query" doc:"Original search query"`
	Total    uint64             `json:"total" doc:"Total matches"`
	TookMs   int64              `json:"took_ms" doc:"Search duration in milliseconds"`
	Hits     []search.SearchHit `json:"hits" doc:"Search results"`
	FullText bool               `json:"full_text" doc:"Whether the full-text index answered"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body SearchResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	params := search.DefaultSearchParams()
	params.Query = input.Query
	params.Offset = input.Offset
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	if input.Published != "" {
		published := input.Published == "true"
		params.Published = &published
	}

	s.logger.Debug("Search request received",
		"query", params.Query,
		"limit", params.Limit,
	)

	if s.search == nil {
		return &SearchOutput{Body: s.filterSearch(params)}, nil
	}

	result, err := s.search.Search(ctx, params)
	if err != nil {
		s.logger.Warn("full-text search failed, using list filter", "error", err)
		return &SearchOutput{Body: s.filterSearch(params)}, nil
	}

	return &SearchOutput{
		Body: SearchResponse{
			Query:    result.Query,
			Total:    result.Total,
			TookMs:   result.TookMs,
			Hits:     result.Hits,
			FullText: true,
		},
	}, nil
}

// filterSearch answers from the list view's substring filter.
func (s *Server) filterSearch(params search.SearchParams) SearchResponse {
	rows := listview.Render(s.store.All(), params.Query, s.loc)

	hits := make([]search.SearchHit, 0, len(rows))
	for _, row := range rows {
		if params.Published != nil && row.Published != *params.Published {
			continue
		}
		hits = append(hits, search.SearchHit{
			ID:        row.ID,
			Title:     row.Title,
			Tags:      row.Tags,
			Published: row.Published,
			Touched:   row.Touched,
		})
	}

	total := uint64(len(hits))
	start := min(params.Offset, len(hits))
	end := min(start+params.Limit, len(hits))

	return SearchResponse{
		Query: params.Query,
		Total: total,
		Hits:  hits[start:end],
	}
}
