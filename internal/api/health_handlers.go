package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"store":  s.checkStore(),
		"search": s.checkSearchIndex(),
	}

	overall := "healthy"
	for _, c := range components {
		switch c.Status {
		case "unhealthy":
			overall = "unhealthy"
		case "degraded":
			if overall == "healthy" {
				overall = "degraded"
			}
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkStore reports the size of the in-memory collection.
func (s *Server) checkStore() ComponentHealth {
	if s.store == nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Message: "store not configured",
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Message: formatCount(s.store.Len(), "post"),
	}
}

// checkSearchIndex verifies the Bleve index is accessible and in step.
func (s *Server) checkSearchIndex() ComponentHealth {
	if s.search == nil {
		return ComponentHealth{
			Status:  "degraded",
			Message: "full-text search disabled",
		}
	}

	start := time.Now()
	docCount, err := s.search.DocumentCount()
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "search index unreachable",
		}
	}

	if s.store != nil && docCount != uint64(s.store.Len()) {
		return ComponentHealth{
			Status:  "degraded",
			Latency: latency.String(),
			Message: "search index out of step with store",
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
		Message: formatCount(int(docCount), "document"),
	}
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
