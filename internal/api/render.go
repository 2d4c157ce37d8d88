package api

import (
	"bytes"
	"fmt"
	"net/http"
)

// RenderRequest renders either a named template or an inline template string.
// Exactly one of Template and Content must be set.
type RenderRequest struct {
	Template string `json:"template"`
	Content  string `json:"content"`
	Data     any    `json:"data"`
}

func (a *API) handleRender(w http.ResponseWriter, r *http.Request) {
	if a.tm == nil {
		respondWithError(w, http.StatusNotImplemented, "Templating is disabled")
		return
	}
	var req RenderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if (req.Template == "") == (req.Content == "") {
		respondWithError(w, http.StatusBadRequest, "Exactly one of 'template' and 'content' is required")
		return
	}

	var buf bytes.Buffer
	var err error
	if req.Template != "" {
		err = a.tm.Execute(&buf, req.Template, req.Data)
	} else {
		err = a.tm.ExecuteTemplateString(&buf, req.Content, req.Data)
	}
	if err != nil {
		a.logger.Warn("Template rendering failed", "template", req.Template, "error", err)
		respondWithError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Render failed: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
