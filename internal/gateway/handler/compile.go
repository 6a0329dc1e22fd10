package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"promptcanvas/internal/compiler"
	"promptcanvas/internal/gateway/events"
	"promptcanvas/internal/gateway/repository/projectstore"
	"promptcanvas/internal/globalctx"
	"promptcanvas/internal/imagegen"
)

// providerTimeout bounds one refine or generate call end to end; expiry
// counts as a provider failure and follows the usual fallback chain.
const providerTimeout = 60 * time.Second

// CompileHandler runs the graph-to-prompt pipeline: refine (reasoning
// provider with deterministic fallback) and generate (provider chain,
// results appended to the project's generation log).
type CompileHandler struct {
	store      *projectstore.Store
	compiler   *compiler.Compiler
	dispatcher *imagegen.Dispatcher
	hub        *events.Hub
	inflight   *inflight
}

func NewCompileHandler(
	store *projectstore.Store,
	comp *compiler.Compiler,
	dispatcher *imagegen.Dispatcher,
	hub *events.Hub,
) *CompileHandler {
	return &CompileHandler{
		store:      store,
		compiler:   comp,
		dispatcher: dispatcher,
		hub:        hub,
		inflight:   newInflight(),
	}
}

type compileRequest struct {
	Prompt     string `json:"prompt"`
	PerRoleCap int    `json:"per_role_cap,omitempty"`
	TotalCap   int    `json:"total_cap,omitempty"`
	WordBudget int    `json:"word_budget,omitempty"`
	Provider   string `json:"provider,omitempty"`
}

func (in compileRequest) options() globalctx.CompileOptions {
	return globalctx.CompileOptions{
		PerRoleCap:  in.PerRoleCap,
		TotalCap:    in.TotalCap,
		WordBudget:  in.WordBudget,
		ProviderPin: in.Provider,
	}
}

func (h *CompileHandler) HandleRefine(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	state, ok := h.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	var in compileRequest
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	key := id + ":refine"
	if !h.inflight.tryAcquire(key) {
		writeError(w, http.StatusConflict, "refine already in progress")
		return
	}
	defer h.inflight.release(key)

	ctx, cancel := context.WithTimeout(r.Context(), providerTimeout)
	defer cancel()
	ctx = globalctx.WithCompileOptions(ctx, in.options())

	h.hub.Publish(events.Event{Type: events.TypeRefineStarted, ProjectID: id})

	snap := state.Snapshot.Clone()
	prompt := h.compiler.Compile(ctx, snap, in.Prompt)

	h.store.Update(id, func(st *projectstore.State) { st.Prompt = prompt })
	h.hub.Publish(events.Event{
		Type:      events.TypeRefineDone,
		ProjectID: id,
		Payload:   map[string]any{"prompt": prompt},
	})
	writeJSON(w, http.StatusOK, map[string]any{"prompt": prompt})
}

func (h *CompileHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	state, ok := h.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	var in compileRequest
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	key := id + ":generate"
	if !h.inflight.tryAcquire(key) {
		writeError(w, http.StatusConflict, "generation already in progress")
		return
	}
	defer h.inflight.release(key)

	ctx, cancel := context.WithTimeout(r.Context(), providerTimeout)
	defer cancel()
	ctx = globalctx.WithCompileOptions(ctx, in.options())

	h.hub.Publish(events.Event{Type: events.TypeGenerateStarted, ProjectID: id})

	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		prompt = strings.TrimSpace(state.Prompt)
	}
	snap := state.Snapshot.Clone()
	refs := compiler.AssembleContext(snap, prompt, globalctx.CompileOptionsFrom(ctx)).Images()

	results, err := h.dispatcher.Generate(ctx, prompt, refs)
	if err != nil {
		h.hub.Publish(events.Event{
			Type:      events.TypeGenerateFailed,
			ProjectID: id,
			Payload:   map[string]any{"error": err.Error()},
		})
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	items := make([]projectstore.GeneratedItem, 0, len(results))
	for _, res := range results {
		item, addErr := h.store.AddGenerated(projectstore.GeneratedItem{
			ProjectID: id,
			URL:       res.URL,
			Prompt:    res.Prompt,
		})
		if addErr != nil {
			writeError(w, http.StatusInternalServerError, addErr.Error())
			return
		}
		items = append(items, item)
	}

	h.hub.Publish(events.Event{
		Type:      events.TypeGenerateDone,
		ProjectID: id,
		Payload:   map[string]any{"count": len(items)},
	})
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
