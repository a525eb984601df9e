package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/inkwellapp/inkwell/internal/errors"
	"github.com/inkwellapp/inkwell/internal/render"
)

func (s *Server) registerRenderRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:  "renderPreview",
		Method:       http.MethodPost,
		Path:         "/api/v1/render/preview",
		Summary:      "Render Markdown",
		Description:  "Converts Markdown to the HTML shown in the preview pane",
		Tags:         []string{"Render"},
		MaxBodyBytes: MaxRenderSize,
	}, s.handleRenderPreview)

	huma.Register(s.api, huma.Operation{
		OperationID:  "renderMarkdown",
		Method:       http.MethodPost,
		Path:         "/api/v1/render/markdown",
		Summary:      "Convert HTML to Markdown",
		Description:  "Converts pasted HTML into Markdown for the editor",
		Tags:         []string{"Render"},
		MaxBodyBytes: MaxRenderSize,
	}, s.handleRenderMarkdown)
}

// === DTOs ===

// PreviewInput wraps Markdown to render.
type PreviewInput struct {
	Body struct {
		Markdown string `json:"markdown" doc:"Markdown source"`
	}
}

// PreviewResponse contains rendered HTML.
type PreviewResponse struct {
	HTML string `json:"html" doc:"Rendered HTML"`
}

// PreviewOutput wraps the preview for Huma.
type PreviewOutput struct {
	Body PreviewResponse
}

// MarkdownInput wraps HTML to convert.
type MarkdownInput struct {
	Body struct {
		HTML string `json:"html" doc:"HTML source"`
	}
}

// MarkdownResponse contains converted Markdown.
type MarkdownResponse struct {
	Markdown string `json:"markdown" doc:"Markdown output"`
}

// MarkdownOutput wraps the conversion for Huma.
type MarkdownOutput struct {
	Body MarkdownResponse
}

// === Handlers ===

func (s *Server) handleRenderPreview(ctx context.Context, input *PreviewInput) (*PreviewOutput, error) {
	if err := s.checkRateLimit(ctx, s.renderLimiter, "preview"); err != nil {
		return nil, err
	}

	return &PreviewOutput{
		Body: PreviewResponse{HTML: s.renderer.Preview(input.Body.Markdown)},
	}, nil
}

func (s *Server) handleRenderMarkdown(ctx context.Context, input *MarkdownInput) (*MarkdownOutput, error) {
	if err := s.checkRateLimit(ctx, s.renderLimiter, "markdown"); err != nil {
		return nil, err
	}

	md, err := render.FromHTML(input.Body.HTML)
	if err != nil {
		return nil, domainerrors.InvalidFormat("html could not be converted", err)
	}

	return &MarkdownOutput{Body: MarkdownResponse{Markdown: md}}, nil
}
