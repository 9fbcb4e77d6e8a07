package api

import (
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion lets clients detect envelope format changes.
const envelopeVersion = 1

// Envelope is the uniform JSON response wrapper.
type Envelope struct {
	V       int    `json:"v" doc:"Envelope format version"`
	Success bool   `json:"success" doc:"Whether the request succeeded"`
	Data    any    `json:"data,omitempty" doc:"Response payload"`
	Error   any    `json:"error,omitempty" doc:"Error payload when success is false"`
}

// EnvelopeTransformer wraps every response body in the shared envelope so
// clients can parse success and error payloads uniformly.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	code, err := strconv.Atoi(status)
	if err != nil {
		code = 200
	}
	success := code < 400

	env := Envelope{V: envelopeVersion, Success: success}
	if success {
		env.Data = v
	} else {
		env.Error = v
	}
	return env, nil
}
