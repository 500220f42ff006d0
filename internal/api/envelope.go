package api

import (
	"errors"
	"strconv"

	"github.com/danielgtaylor/huma/v2"

	"github.com/penwellapp/penwell-server/internal/http/response"
)

// EnvelopeVersion is the "v" field of every response body.
const EnvelopeVersion = response.Version

// EnvelopeTransformer wraps every huma response body in the shared envelope.
// Errors become {"success":false,"error":{code,message,details}}.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	err, ok := v.(error)
	if !ok {
		return response.Ok(v), nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return response.Failure(apiErr.Code, apiErr.Message, apiErr.Details), nil
	}
	code, _ := strconv.Atoi(status)
	return response.Failure(statusToCode(code), err.Error(), nil), nil
}
