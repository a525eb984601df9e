package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell/internal/domain"
	"github.com/inkwellapp/inkwell/internal/listview"
	"github.com/inkwellapp/inkwell/internal/store"
)

func (s *Server) registerPostRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts",
		Summary:     "List posts",
		Description: "Returns posts most recently touched first, filtered by an optional query",
		Tags:        []string{"Posts"},
	}, s.handleListPosts)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPost",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/{id}",
		Summary:     "Get post",
		Description: "Returns a post by ID",
		Tags:        []string{"Posts"},
	}, s.handleGetPost)
}

// === DTOs ===

// ListPostsInput contains parameters for listing posts.
type ListPostsInput struct {
	Query string `query:"q" maxLength:"500" doc:"Case-insensitive filter over title, tags and content"`
}

// ListPostsResponse contains the rendered list.
type ListPostsResponse struct {
	Query string         `json:"query" doc:"Filter applied"`
	Total int            `json:"total" doc:"Number of rows"`
	Rows  []listview.Row `json:"rows" doc:"List rows"`
}

// ListPostsOutput wraps the list response for Huma.
type ListPostsOutput struct {
	Body ListPostsResponse
}

// GetPostInput contains parameters for getting a post.
type GetPostInput struct {
	ID string `path:"id" doc:"Post ID"`
}

// PostResponse contains post data in API responses.
type PostResponse struct {
	ID        string `json:"id" doc:"Post ID"`
	Title     string `json:"title" doc:"Title, possibly empty"`
	Tags      string `json:"tags" doc:"Free-text tags"`
	Content   string `json:"content" doc:"Markdown body"`
	Published bool   `json:"published" doc:"Published flag"`
	Status    string `json:"status" doc:"Published or Draft"`
	Created   int64  `json:"created" doc:"Creation time (Unix ms)"`
	Updated   *int64 `json:"updated,omitempty" doc:"Last save time (Unix ms)"`
	Touched   int64  `json:"touched" doc:"Updated if set, else created"`
}

// PostOutput wraps a post for Huma.
type PostOutput struct {
	Body PostResponse
}

func toPostResponse(p *domain.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Tags:      p.Tags,
		Content:   p.Content,
		Published: p.Published,
		Status:    p.Status(),
		Created:   p.Created,
		Updated:   p.Updated,
		Touched:   p.Touched(),
	}
}

// === Handlers ===

func (s *Server) handleListPosts(_ context.Context, input *ListPostsInput) (*ListPostsOutput, error) {
	rows := listview.Render(s.store.All(), input.Query, s.loc)

	return &ListPostsOutput{
		Body: ListPostsResponse{
			Query: input.Query,
			Total: len(rows),
			Rows:  rows,
		},
	}, nil
}

func (s *Server) handleGetPost(_ context.Context, input *GetPostInput) (*PostOutput, error) {
	if err := s.validator.Var("id", input.ID, "post_id"); err != nil {
		return nil, err
	}

	post, ok := s.store.FindByID(input.ID)
	if !ok {
		return nil, store.ErrPostNotFound
	}

	return &PostOutput{Body: toPostResponse(post)}, nil
}
