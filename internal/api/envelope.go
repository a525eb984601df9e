package api

import (
	"errors"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/inkwellapp/inkwell/internal/errors"
)

// EnvelopeVersion is bumped whenever the envelope shape changes.
const EnvelopeVersion = 1

// APIEnvelope wraps every successful response and simple errors.
type APIEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// APIErrorEnvelope wraps coded errors.
type APIErrorEnvelope struct { //nolint:revive // API prefix is intentional for clarity
	Version int    `json:"v"`
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// EnvelopeTransformer wraps response bodies in the API envelope.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	code, _ := strconv.Atoi(status)

	if err, ok := v.(error); ok {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Code != "" {
			return APIErrorEnvelope{
				Version: EnvelopeVersion,
				Error:   apiErr.Message,
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: apiErr.Details,
			}, nil
		}
		var domainErr *domainerrors.Error
		if errors.As(err, &domainErr) {
			return APIErrorEnvelope{
				Version: EnvelopeVersion,
				Error:   domainErr.Message,
				Code:    string(domainErr.Code),
				Message: domainErr.Message,
				Details: domainErr.Details,
			}, nil
		}
		return APIEnvelope{Version: EnvelopeVersion, Error: err.Error()}, nil
	}

	if code >= 400 {
		return APIEnvelope{Version: EnvelopeVersion, Error: "request failed"}, nil
	}

	return APIEnvelope{
		Version: EnvelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
