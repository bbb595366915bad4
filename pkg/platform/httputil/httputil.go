// Package httputil holds the JSON response and request decoding helpers shared
// by every handler.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "ptacheck/pkg/domain-errors"
)

// maxBodyBytes caps decoded request bodies.
const maxBodyBytes = 1 << 20

// Validatable is implemented by request DTOs that normalize and check
// themselves after decoding.
type Validatable interface {
	Validate() error
}

// ErrorResponse is the wire shape of every error reply.
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into a JSON error reply. Internal errors never
// leak their message to the client.
func WriteError(w http.ResponseWriter, err error) {
	de, ok := dErrors.As(err)
	if !ok {
		de = dErrors.New(dErrors.CodeInternal, "internal error")
	}
	status := dErrors.HTTPStatus(de.Code)
	resp := ErrorResponse{Error: string(de.Code)}
	if status < http.StatusInternalServerError {
		resp.Description = de.Message
	}
	WriteJSON(w, status, resp)
}

// DecodeAndPrepare decodes the body into T and runs its validation. On
// failure the error reply is already written and ok is false.
func DecodeAndPrepare[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	var req T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty body")
		}
		logger.WarnContext(ctx, "failed to decode request body",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return nil, false
	}

	if v, ok := any(&req).(Validatable); ok {
		if err := v.Validate(); err != nil {
			logger.WarnContext(ctx, "request validation failed",
				"request_id", requestID,
				"error", err,
			)
			WriteError(w, err)
			return nil, false
		}
	}
	return &req, true
}
