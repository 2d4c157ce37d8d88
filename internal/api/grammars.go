package api

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	"github.com/CTAG07/wordwalk/pkg/grammar"
	"github.com/CTAG07/wordwalk/pkg/store"
	"github.com/go-chi/chi/v5"
)

type CreateGrammarRequest struct {
	Name       string                `json:"name"`
	Length     int                   `json:"length"`
	Followers  grammar.FollowerTable `json:"followers"`
	Vocabulary []grammar.Word        `json:"vocabulary"`
}

type AddWordsRequest struct {
	Words []grammar.Word `json:"words"`
}

type SetFollowersRequest struct {
	Followers []string `json:"followers"`
}

// ValidateResponse reports whether a stored grammar passes Validate.
type ValidateResponse struct {
	Valid  bool            `json:"valid"`
	Issues []grammar.Issue `json:"issues,omitempty"`
}

// grammarInfo resolves the {name} path parameter, writing the error response
// itself when the grammar cannot be found.
func (a *API) grammarInfo(w http.ResponseWriter, r *http.Request) (store.GrammarInfo, bool) {
	name := chi.URLParam(r, "name")
	info, err := a.store.GetGrammarInfo(r.Context(), name)
	if err != nil {
		if isNotFound(err) {
			respondWithError(w, http.StatusNotFound, fmt.Sprintf("Grammar '%s' not found", name))
			return store.GrammarInfo{}, false
		}
		a.logger.Error("Failed to get grammar info by name", "name", name, "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Database error: %v", err))
		return store.GrammarInfo{}, false
	}
	return info, true
}

// refreshTemplates reloads the template manager's grammars after a write.
func (a *API) refreshTemplates(ctx context.Context) {
	if a.tm == nil {
		return
	}
	if err := a.tm.Refresh(ctx); err != nil {
		a.logger.Warn("Failed to refresh templates after grammar change", "error", err)
	}
}

func (a *API) handleListGrammars(w http.ResponseWriter, r *http.Request) {
	infos, err := a.store.GetGrammarInfos(r.Context())
	if err != nil {
		a.logger.Error("Failed to get grammar infos", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve grammars: %v", err))
		return
	}
	list := make([]store.GrammarInfo, 0, len(infos))
	for _, info := range infos {
		list = append(list, info)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	respondWithJSON(w, http.StatusOK, list)
}

func (a *API) handleCreateGrammar(w http.ResponseWriter, r *http.Request) {
	var req CreateGrammarRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		respondWithError(w, http.StatusBadRequest, "Grammar name is required")
		return
	}
	if _, err := a.store.GetGrammarInfo(r.Context(), req.Name); err == nil {
		respondWithError(w, http.StatusConflict, fmt.Sprintf("Grammar '%s' already exists", req.Name))
		return
	}

	g := grammar.Grammar{Followers: req.Followers, Vocabulary: req.Vocabulary}
	if _, err := grammar.NewGenerator(g); err != nil {
		respondWithGenerationError(w, err)
		return
	}

	info, err := a.store.SaveGrammar(r.Context(), store.GrammarInfo{Name: req.Name, Length: req.Length}, g)
	if err != nil {
		a.logger.Error("Failed to create grammar", "name", req.Name, "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to create grammar: %v", err))
		return
	}
	a.refreshTemplates(r.Context())
	respondWithJSON(w, http.StatusCreated, info)
}

func (a *API) handleDeleteGrammar(w http.ResponseWriter, r *http.Request) {
	info, ok := a.grammarInfo(w, r)
	if !ok {
		return
	}
	if err := a.store.RemoveGrammar(r.Context(), info); err != nil {
		a.logger.Error("Failed to remove grammar", "name", info.Name, "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to remove grammar: %v", err))
		return
	}
	a.refreshTemplates(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleAddWords(w http.ResponseWriter, r *http.Request) {
	info, ok := a.grammarInfo(w, r)
	if !ok {
		return
	}
	var req AddWordsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, word := range req.Words {
		if word.Text == "" || word.Type == "" {
			respondWithJSON(w, http.StatusBadRequest, errorResponse{
				Error: "Every word needs a text and a type",
				Kind:  grammar.ErrorKind(grammar.ErrInvalidWord),
			})
			return
		}
	}
	if err := a.store.AddWords(r.Context(), info, req.Words); err != nil {
		a.logger.Error("Failed to add words", "name", info.Name, "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to add words: %v", err))
		return
	}
	a.refreshTemplates(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleSetFollowers(w http.ResponseWriter, r *http.Request) {
	info, ok := a.grammarInfo(w, r)
	if !ok {
		return
	}
	wordType := chi.URLParam(r, "type")
	var req SetFollowersRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, f := range req.Followers {
		if f == "" {
			respondWithError(w, http.StatusBadRequest, "Follower types must not be empty")
			return
		}
	}
	if err := a.store.SetFollowers(r.Context(), info, wordType, req.Followers); err != nil {
		a.logger.Error("Failed to set followers", "name", info.Name, "type", wordType, "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to set followers: %v", err))
		return
	}
	a.refreshTemplates(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleValidate(w http.ResponseWriter, r *http.Request) {
	info, ok := a.grammarInfo(w, r)
	if !ok {
		return
	}
	gen, err := a.store.NewGenerator(r.Context(), info)
	if err != nil {
		respondWithGenerationError(w, err)
		return
	}
	resp := ValidateResponse{Valid: true}
	if cfgErr, ok := gen.Validate().(*grammar.ConfigError); ok {
		resp.Valid = false
		resp.Issues = cfgErr.Issues
	}
	respondWithJSON(w, http.StatusOK, resp)
}

func (a *API) handleExport(w http.ResponseWriter, r *http.Request) {
	info, ok := a.grammarInfo(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.json\"", info.Name))
	if err := a.store.ExportGrammar(r.Context(), info, w); err != nil {
		a.logger.Error("Failed to export grammar", "name", info.Name, "error", err)
	}
}

func (a *API) handleImport(w http.ResponseWriter, r *http.Request) {
	info, err := a.store.ImportGrammar(r.Context(), r.Body)
	if err != nil {
		a.logger.Error("Failed to import grammar", "error", err)
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Import failed: %v", err))
		return
	}
	a.refreshTemplates(r.Context())
	respondWithJSON(w, http.StatusOK, info)
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.store.GetStats(r.Context())
	if err != nil {
		a.logger.Error("Failed to get stats", "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to get stats: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}
