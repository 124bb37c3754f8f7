// Package httpx holds the request/response plumbing shared by all handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"trainyard/internal/inventory"
	"trainyard/pkg/jsonstore"
)

const maxBodyBytes = 1 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// Error maps err onto a status code. Persistence details stay in the server log.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, jsonstore.ErrNotFound):
		status, msg = http.StatusNotFound, "resource not found"
	case errors.Is(err, inventory.ErrValidation):
		status, msg = http.StatusBadRequest, err.Error()
	}

	logger := zerolog.Ctx(r.Context())
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).Msg("request failed")
	} else {
		logger.Debug().Err(err).Int("status", status).Msg("request rejected")
	}
	JSON(w, status, ErrorBody{Error: msg, RequestID: RequestIDFrom(r.Context())})
}

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", inventory.ErrValidation, err)
	}
	return nil
}

// IDParam reads a positive integer URL parameter.
func IDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", inventory.ErrValidation, name, raw)
	}
	return id, nil
}

// PageParams reads the optional page and page_size query parameters.
func PageParams(r *http.Request) (inventory.Page, error) {
	var p inventory.Page
	q := r.URL.Query()
	for key, dst := range map[string]*int{"page": &p.Number, "page_size": &p.Size} {
		raw := q.Get(key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return inventory.Page{}, fmt.Errorf("%w: invalid %s %q", inventory.ErrValidation, key, raw)
		}
		*dst = n
	}
	return p, p.Validate()
}

// StatusBody is the payload of the status-only update endpoints. Both field names are accepted.
type StatusBody struct {
	Status            string `json:"status"`
	MaintenanceStatus string `json:"maintenanceStatus"`
}

// DecodeStatus reads a StatusBody and parses the requested status, which must be present.
func DecodeStatus(r *http.Request) (inventory.MaintenanceStatus, error) {
	var body StatusBody
	if err := Decode(r, &body); err != nil {
		return "", err
	}
	raw := body.Status
	if raw == "" {
		raw = body.MaintenanceStatus
	}
	if raw == "" {
		return "", fmt.Errorf("%w: status is required", inventory.ErrValidation)
	}
	return inventory.ParseStatus(raw)
}
