package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/CTAG07/wordwalk/internal/cache"
	"github.com/CTAG07/wordwalk/pkg/grammar"
	"github.com/CTAG07/wordwalk/pkg/store"
)

// GenerateRequest is the optional body of a generation request. Nil fields
// fall back to the grammar's defaults.
type GenerateRequest struct {
	Length    *int    `json:"length"`
	Seed      *int64  `json:"seed"`
	Separator *string `json:"separator"`
	Strict    bool    `json:"strict"`
	Trim      bool    `json:"trim"`
}

// GenerateResponse is returned by a successful generation.
type GenerateResponse struct {
	Grammar string `json:"grammar"`
	Text    string `json:"text"`
	Length  int    `json:"length"`
	Seed    *int64 `json:"seed,omitempty"`
	Cached  bool   `json:"cached"`
}

// generation is a resolved request, ready to run.
type generation struct {
	length    int
	seed      *int64
	separator string
	strict    bool
}

func (g generation) options() []grammar.GenerateOption {
	opts := []grammar.GenerateOption{
		grammar.WithLength(g.length),
		grammar.WithSeparator(g.separator),
		grammar.WithStrict(g.strict),
	}
	if g.seed != nil {
		opts = append(opts, grammar.WithSeed(*g.seed))
	}
	return opts
}

func (a *API) resolveGeneration(info store.GrammarInfo, req GenerateRequest) (generation, error) {
	gen := generation{
		length:    info.Length,
		seed:      req.Seed,
		separator: " ",
		strict:    req.Strict,
	}
	if req.Length != nil {
		gen.length = *req.Length
	}
	if req.Separator != nil {
		gen.separator = *req.Separator
	}
	if gen.length < 0 {
		return gen, fmt.Errorf("%w: %d", grammar.ErrInvalidLength, gen.length)
	}
	if gen.length > a.config.MaxLength {
		return gen, fmt.Errorf("%w: %d exceeds the maximum of %d", grammar.ErrInvalidLength, gen.length, a.config.MaxLength)
	}
	return gen, nil
}

func (a *API) handleGenerate(w http.ResponseWriter, r *http.Request) {
	info, ok := a.grammarInfo(w, r)
	if !ok {
		return
	}
	var req GenerateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	params, err := a.resolveGeneration(info, req)
	if err != nil {
		respondWithGenerationError(w, err)
		return
	}

	text, cached, err := a.generate(r.Context(), info, params)
	if err != nil {
		a.logger.Warn("Generation failed", "grammar", info.Name, "kind", grammar.ErrorKind(err), "error", err)
		respondWithGenerationError(w, err)
		return
	}
	if req.Trim {
		text = strings.TrimSuffix(text, params.separator)
	}

	respondWithJSON(w, http.StatusOK, GenerateResponse{
		Grammar: info.Name,
		Text:    text,
		Length:  params.length,
		Seed:    params.seed,
		Cached:  cached,
	})
}

// generate runs one generation, serving seeded runs from the cache when possible.
func (a *API) generate(ctx context.Context, info store.GrammarInfo, params generation) (string, bool, error) {
	g, err := a.store.Load(ctx, info)
	if err != nil {
		return "", false, fmt.Errorf("could not load grammar '%s': %w", info.Name, err)
	}
	gen, err := grammar.NewGenerator(g)
	if err != nil {
		a.metrics.observeGeneration(grammar.ErrorKind(err), 0)
		return "", false, err
	}
	gen.SetLogger(a.logger.With("grammar_name", info.Name))

	if params.strict {
		if err = gen.Validate(); err != nil {
			a.metrics.observeGeneration(grammar.ErrorKind(err), 0)
			return "", false, err
		}
	}

	var key string
	if params.seed != nil {
		key = cache.Key(g.Fingerprint(), params.length, *params.seed, params.separator)
		text, err := a.cache.Get(ctx, key)
		switch {
		case err == nil:
			a.metrics.cacheLookups.WithLabelValues("hit").Inc()
			return text, true, nil
		case errors.Is(err, cache.ErrMiss):
			a.metrics.cacheLookups.WithLabelValues("miss").Inc()
		default:
			a.metrics.cacheLookups.WithLabelValues("error").Inc()
			a.logger.Warn("Cache lookup failed", "error", err)
		}
	}

	start := time.Now()
	text, err := gen.Generate(ctx, params.options()...)
	if err != nil {
		a.metrics.observeGeneration(grammar.ErrorKind(err), 0)
		return "", false, err
	}
	a.metrics.observeGeneration("", params.length)
	a.logger.Debug("Generated paragraph", "grammar", info.Name, "length", params.length, "took", time.Since(start))

	if key != "" {
		if err = a.cache.Set(ctx, key, text); err != nil {
			a.logger.Warn("Cache store failed", "error", err)
		}
	}
	return text, false, nil
}

// handleStream writes the paragraph word by word as plain text. The length
// and seed come from the query string. Failures after the first word can
// only end the stream early.
func (a *API) handleStream(w http.ResponseWriter, r *http.Request) {
	info, ok := a.grammarInfo(w, r)
	if !ok {
		return
	}

	var req GenerateRequest
	q := r.URL.Query()
	if v := q.Get("length"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "length must be an integer")
			return
		}
		req.Length = &n
	}
	if v := q.Get("seed"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "seed must be an integer")
			return
		}
		req.Seed = &seed
	}
	req.Strict = q.Get("strict") == "true"

	params, err := a.resolveGeneration(info, req)
	if err != nil {
		respondWithGenerationError(w, err)
		return
	}
	gen, err := a.store.NewGenerator(r.Context(), info)
	if err != nil {
		respondWithGenerationError(w, err)
		return
	}
	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	steps, err := gen.GenerateStream(ctx, params.options()...)
	if err != nil {
		respondWithGenerationError(w, err)
		return
	}

	flusher, _ := w.(http.Flusher)
	started := false
	count := 0
	for step := range steps {
		if step.Err != nil {
			a.metrics.observeGeneration(grammar.ErrorKind(step.Err), count)
			a.logger.Warn("Stream generation failed", "grammar", info.Name, "error", step.Err)
			if !started {
				respondWithGenerationError(w, step.Err)
			}
			return
		}
		if !started {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		if _, err = w.Write([]byte(step.Text)); err != nil {
			return
		}
		count++
		if flusher != nil {
			flusher.Flush()
		}
	}
	if !started {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
	}
	a.metrics.observeGeneration("", count)
}
