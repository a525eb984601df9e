package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell/internal/editor"
)

func (s *Server) registerEditorRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getEditor",
		Method:      http.MethodGet,
		Path:        "/api/v1/editor",
		Summary:     "Get editor state",
		Description: "Returns the open post, staged form, preview and list",
		Tags:        []string{"Editor"},
	}, s.handleGetEditor)

	huma.Register(s.api, huma.Operation{
		OperationID: "newPost",
		Method:      http.MethodPost,
		Path:        "/api/v1/editor/new",
		Summary:     "New post",
		Description: "Creates a blank draft and opens it",
		Tags:        []string{"Editor"},
	}, s.handleNewPost)

	huma.Register(s.api, huma.Operation{
		OperationID: "openPost",
		Method:      http.MethodPost,
		Path:        "/api/v1/editor/open/{id}",
		Summary:     "Open post",
		Description: "Loads a post into the editor. Unknown IDs leave the editor unchanged.",
		Tags:        []string{"Editor"},
	}, s.handleOpenPost)

	huma.Register(s.api, huma.Operation{
		OperationID: "navigate",
		Method:      http.MethodPost,
		Path:        "/api/v1/editor/navigate",
		Summary:     "Navigate to fragment",
		Description: "Opens the post named by a #post-<id> location fragment",
		Tags:        []string{"Editor"},
	}, s.handleNavigate)

	huma.Register(s.api, huma.Operation{
		OperationID: "savePost",
		Method:      http.MethodPost,
		Path:        "/api/v1/editor/save",
		Summary:     "Save",
		Description: "Saves the form to the open post, or creates a post when none is open",
		Tags:        []string{"Editor"},
	}, s.handleSave)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePost",
		Method:      http.MethodPost,
		Path:        "/api/v1/editor/delete",
		Summary:     "Delete open post",
		Description: "Deletes the open post. Requires confirm=true.",
		Tags:        []string{"Editor"},
	}, s.handleDelete)

	huma.Register(s.api, huma.Operation{
		OperationID: "clearEditor",
		Method:      http.MethodPost,
		Path:        "/api/v1/editor/clear",
		Summary:     "Clear editor",
		Description: "Blanks the form and preview without closing the open post",
		Tags:        []string{"Editor"},
	}, s.handleClear)

	huma.Register(s.api, huma.Operation{
		OperationID: "setContent",
		Method:      http.MethodPost,
		Path:        "/api/v1/editor/content",
		Summary:     "Stage content",
		Description: "Stages content and returns the refreshed preview. Nothing is saved.",
		Tags:        []string{"Editor"},
	}, s.handleSetContent)

	huma.Register(s.api, huma.Operation{
		OperationID: "viewPost",
		Method:      http.MethodPost,
		Path:        "/api/v1/editor/view",
		Summary:     "View open post",
		Description: "Renders the saved state of the open post as a standalone page and returns a short-lived link to it",
		Tags:        []string{"Editor"},
	}, s.handleViewCurrent)
}

// === DTOs ===

// EditorOutput wraps the editor result for Huma.
type EditorOutput struct {
	Body *editor.Result
}

// OpenPostInput contains parameters for opening a post.
type OpenPostInput struct {
	ID string `path:"id" doc:"Post ID"`
}

// NavigateRequest is the request body for navigation.
type NavigateRequest struct {
	Fragment string `json:"fragment" doc:"Location fragment, e.g. #post-abc"`
}

// NavigateInput wraps the navigate request for Huma.
type NavigateInput struct {
	Body NavigateRequest
}

// SaveRequest is the request body for saving the form.
type SaveRequest struct {
	Title     string `json:"title" validate:"max=1000" doc:"Title"`
	Tags      string `json:"tags" validate:"max=1000" doc:"Free-text tags"`
	Content   string `json:"content" doc:"Markdown body"`
	Published bool   `json:"published" doc:"Published flag"`
}

// SaveInput wraps the save request for Huma.
type SaveInput struct {
	Body SaveRequest
}

// DeleteInput contains parameters for deleting the open post.
type DeleteInput struct {
	Confirm bool `query:"confirm" doc:"Must be true to delete"`
}

// ContentRequest is the request body for staging content.
type ContentRequest struct {
	Content string `json:"content" doc:"Markdown body"`
}

// ContentInput wraps the content request for Huma.
type ContentInput struct {
	Body ContentRequest
}

// ViewLinkResponse points at a rendered standalone page.
type ViewLinkResponse struct {
	URL       string    `json:"url" doc:"Path of the standalone page"`
	Filename  string    `json:"filename" doc:"Suggested file name"`
	ExpiresAt time.Time `json:"expires_at" doc:"Link expiry"`
}

// ViewLinkOutput wraps the view link for Huma.
type ViewLinkOutput struct {
	Body ViewLinkResponse
}

// === Handlers ===

func (s *Server) handleGetEditor(_ context.Context, _ *struct{}) (*EditorOutput, error) {
	return &EditorOutput{Body: &editor.Result{View: s.session.View()}}, nil
}

func (s *Server) handleNewPost(ctx context.Context, _ *struct{}) (*EditorOutput, error) {
	return s.dispatch(ctx, editor.NewPost{})
}

func (s *Server) handleOpenPost(ctx context.Context, input *OpenPostInput) (*EditorOutput, error) {
	return s.dispatch(ctx, editor.OpenPost{ID: input.ID})
}

func (s *Server) handleNavigate(ctx context.Context, input *NavigateInput) (*EditorOutput, error) {
	return s.dispatch(ctx, editor.Navigate{Fragment: input.Body.Fragment})
}

func (s *Server) handleSave(ctx context.Context, input *SaveInput) (*EditorOutput, error) {
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	return s.dispatch(ctx, editor.SaveCurrent{Form: editor.Form{
		Title:     input.Body.Title,
		Tags:      input.Body.Tags,
		Content:   input.Body.Content,
		Published: input.Body.Published,
	}})
}

func (s *Server) handleDelete(ctx context.Context, input *DeleteInput) (*EditorOutput, error) {
	return s.dispatch(ctx, editor.DeleteCurrent{Confirmed: input.Confirm})
}

func (s *Server) handleClear(ctx context.Context, _ *struct{}) (*EditorOutput, error) {
	return s.dispatch(ctx, editor.ClearEditor{})
}

func (s *Server) handleSetContent(ctx context.Context, input *ContentInput) (*EditorOutput, error) {
	if err := s.checkRateLimit(ctx, s.renderLimiter, "preview"); err != nil {
		return nil, err
	}
	s.session.SetContent(input.Body.Content)
	return &EditorOutput{Body: &editor.Result{View: s.session.View()}}, nil
}

func (s *Server) handleViewCurrent(_ context.Context, _ *struct{}) (*ViewLinkOutput, error) {
	doc, err := s.session.ViewCurrent()
	if err != nil {
		return nil, err
	}

	token := s.views.Put(doc)
	return &ViewLinkOutput{
		Body: ViewLinkResponse{
			URL:       viewPath(token),
			Filename:  doc.Filename,
			ExpiresAt: time.Now().Add(s.views.TTL()),
		},
	}, nil
}

func (s *Server) dispatch(ctx context.Context, cmd editor.Command) (*EditorOutput, error) {
	res, err := s.session.Dispatch(ctx, cmd)
	if err != nil {
		return nil, err
	}
	return &EditorOutput{Body: res}, nil
}
