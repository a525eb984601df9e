package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/inkwellapp/inkwell/internal/errors"
)

const viewPrefix = "/view/"

func viewPath(token string) string {
	return viewPrefix + token
}

func (s *Server) registerViewRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getView",
		Method:      http.MethodGet,
		Path:        viewPrefix + "{token}",
		Summary:     "Standalone page",
		Description: "Serves a page rendered by the view operation until its link expires",
		Tags:        []string{"Editor"},
	}, s.handleGetView)
}

// GetViewInput contains parameters for fetching a standalone page.
type GetViewInput struct {
	Token string `path:"token" format:"uuid" doc:"View token"`
}

func (s *Server) handleGetView(_ context.Context, input *GetViewInput) (*huma.StreamResponse, error) {
	doc, ok := s.views.Get(input.Token)
	if !ok {
		return nil, domainerrors.NotFound("view link not found or expired")
	}

	return &huma.StreamResponse{
		Body: func(ctx huma.Context) {
			ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
			ctx.SetHeader("Content-Disposition", "inline; filename=\""+doc.Filename+"\"")
			ctx.SetHeader("Content-Length", strconv.Itoa(len(doc.HTML)))
			ctx.SetHeader("Cache-Control", CacheNoStore)
			if _, err := ctx.BodyWriter().Write(doc.HTML); err != nil {
				s.logger.Warn("view write failed", "error", err)
			}
		},
	}, nil
}
