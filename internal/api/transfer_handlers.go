package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/inkwellapp/inkwell/internal/backup"
	"github.com/inkwellapp/inkwell/internal/editor"
	domainerrors "github.com/inkwellapp/inkwell/internal/errors"
)

func (s *Server) registerTransferRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "exportPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/export",
		Summary:     "Export posts",
		Description: "Downloads every post as a JSON array",
		Tags:        []string{"Transfer"},
	}, s.handleExport)

	huma.Register(s.api, huma.Operation{
		OperationID:  "importPosts",
		Method:       http.MethodPost,
		Path:         "/api/v1/import",
		Summary:      "Import posts",
		Description:  "Adds the posts of an export file under fresh IDs. The request body is the file itself.",
		Tags:         []string{"Transfer"},
		MaxBodyBytes: MaxImportSize,
	}, s.handleImport)
}

// === DTOs ===

// ImportInput carries the raw export file.
type ImportInput struct {
	RawBody []byte
}

// ImportResponse reports the outcome of an import.
type ImportResponse struct {
	Imported int         `json:"imported" doc:"Number of posts added"`
	Notice   string      `json:"notice" doc:"Message for the user"`
	View     editor.View `json:"view" doc:"Editor state after the import"`
}

// ImportOutput wraps the import response for Huma.
type ImportOutput struct {
	Body ImportResponse
}

// === Handlers ===

func (s *Server) handleExport(_ context.Context, _ *struct{}) (*huma.StreamResponse, error) {
	file, err := s.session.Export()
	if err != nil {
		return nil, err
	}

	return &huma.StreamResponse{
		Body: func(ctx huma.Context) {
			ctx.SetHeader("Content-Type", file.ContentType)
			ctx.SetHeader("Content-Disposition", "attachment; filename=\""+file.Name+"\"")
			ctx.SetHeader("Content-Length", strconv.Itoa(len(file.Data)))
			ctx.SetHeader("Cache-Control", CacheNoStore)
			if _, err := ctx.BodyWriter().Write(file.Data); err != nil {
				s.logger.Warn("export write failed", "error", err)
			}
		},
	}, nil
}

func (s *Server) handleImport(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	if err := s.checkRateLimit(ctx, s.importLimiter, "import"); err != nil {
		return nil, err
	}

	n, err := s.session.Import(ctx, input.RawBody)
	if err != nil {
		if domainerrors.Is(err, backup.ErrInvalidFormat) {
			return nil, domainerrors.InvalidFormat(editor.NoticeImportFailed, err)
		}
		return nil, err
	}

	s.logger.Info("posts imported", "count", n, "ip", clientIP(ctx))

	return &ImportOutput{
		Body: ImportResponse{
			Imported: n,
			Notice:   editor.ImportedNotice(n),
			View:     s.session.View(),
		},
	}, nil
}
