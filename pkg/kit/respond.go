package kit

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 20

type ErrorResponse struct {
	Error     string `json:"error"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string, details any) {
	reqID := chimw.GetReqID(r.Context())
	WriteJSON(w, status, ErrorResponse{
		Error:     msg,
		Details:   details,
		RequestID: reqID,
	})
}

var errTrailingData = errors.New("extra data after json object")

// DecodeJSON reads exactly one JSON value from a size-capped request body.
// Unknown fields are ignored.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errTrailingData
	}
	return nil
}
