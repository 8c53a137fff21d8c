package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is the wire format version for API responses.
const envelopeVersion = 1

// Envelope is the standard response wrapper for all API endpoints.
type Envelope struct {
	V       int  `json:"v" doc:"Envelope format version"`
	Success bool `json:"success" doc:"Whether the request succeeded"`
	Data    any  `json:"data,omitempty" doc:"Response payload on success"`
	Error   any  `json:"error,omitempty" doc:"Error details on failure"`
}

// EnvelopeTransformer wraps every response body in the standard
// envelope. Registered as a huma transformer so handlers return plain
// payloads.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	code, err := strconv.Atoi(status)
	if err != nil {
		code = 200
	}

	if code >= 400 {
		return &Envelope{
			V:       envelopeVersion,
			Success: false,
			Error:   v,
		}, nil
	}

	return &Envelope{
		V:       envelopeVersion,
		Success: true,
		Data:    v,
	}, nil
}
