package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/CTAG07/wordwalk/pkg/grammar"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error  string          `json:"error"`
	Kind   string          `json:"kind,omitempty"`
	Issues []grammar.Issue `json:"issues,omitempty"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// respondWithGenerationError maps a generation failure to its status code.
// Invalid input is a 400; a grammar that cannot produce the paragraph is a 422.
func respondWithGenerationError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: err.Error(), Kind: grammar.ErrorKind(err)}
	var cfgErr *grammar.ConfigError
	if errors.As(err, &cfgErr) {
		resp.Issues = cfgErr.Issues
	}

	code := http.StatusUnprocessableEntity
	switch {
	case errors.Is(err, grammar.ErrInvalidLength), errors.Is(err, grammar.ErrInvalidWord):
		code = http.StatusBadRequest
	case resp.Kind == "":
		code = http.StatusInternalServerError
	}
	respondWithJSON(w, code, resp)
}

// decodeJSON decodes an optional request body into v. An empty body leaves
// v untouched.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid JSON request body: %w", err)
	}
	return nil
}

// isNotFound reports whether err means the grammar does not exist.
func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
