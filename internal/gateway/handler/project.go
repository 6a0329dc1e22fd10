package handler

import (
	"net/http"
	"strings"

	"promptcanvas/internal/canvas"
	"promptcanvas/internal/gateway/repository/projectstore"
)

// ProjectHandler serves project state: snapshots and the generation log.
type ProjectHandler struct {
	store *projectstore.Store
}

func NewProjectHandler(store *projectstore.Store) *ProjectHandler {
	return &ProjectHandler{store: store}
}

func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	states := h.store.ListByUser(userID)
	out := make([]map[string]any, 0, len(states))
	for _, s := range states {
		out = append(out, map[string]any{
			"project_id":   s.ProjectID,
			"project_name": s.ProjectName,
			"user_id":      s.UserID,
			"is_active":    s.IsActive,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": out})
}

func (h *ProjectHandler) HandleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	state, ok := h.store.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"project_id": state.ProjectID,
		"prompt":     state.Prompt,
		"snapshot":   state.Snapshot,
	})
}

func (h *ProjectHandler) HandlePutSnapshot(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "project id is required")
		return
	}
	var in struct {
		ProjectName string          `json:"project_name"`
		UserID      string          `json:"user_id"`
		Prompt      string          `json:"prompt"`
		Snapshot    canvas.Snapshot `json:"snapshot"`
	}
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	prev, existed := h.store.Get(id)
	state := projectstore.State{
		ProjectID:   id,
		ProjectName: in.ProjectName,
		UserID:      in.UserID,
		Prompt:      in.Prompt,
		Snapshot:    in.Snapshot,
	}
	if existed {
		if state.ProjectName == "" {
			state.ProjectName = prev.ProjectName
		}
		if state.UserID == "" {
			state.UserID = prev.UserID
		}
		state.IsActive = prev.IsActive
	}
	h.store.Put(state)
	stored, _ := h.store.Get(id)
	writeJSON(w, http.StatusOK, map[string]any{
		"project_id": stored.ProjectID,
		"prompt":     stored.Prompt,
		"snapshot":   stored.Snapshot,
	})
}

func (h *ProjectHandler) HandleListGenerated(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	items, err := h.store.ListGenerated(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []projectstore.GeneratedItem{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *ProjectHandler) HandleDeleteGenerated(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	itemID := strings.TrimSpace(r.PathValue("itemID"))
	if err := h.store.DeleteGenerated(id, itemID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}
