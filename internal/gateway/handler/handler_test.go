package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"promptcanvas/internal/canvas"
	"promptcanvas/internal/compiler"
	"promptcanvas/internal/gateway/events"
	"promptcanvas/internal/gateway/repository/projectstore"
	"promptcanvas/internal/imagegen"
	llmclient "promptcanvas/internal/llmClient"
)

type stubReasoner struct {
	out string
	err error
}

func (s *stubReasoner) Name() string { return "stub" }

func (s *stubReasoner) RefineText(_ context.Context, _ llmclient.ReasonRequest) (string, error) {
	return s.out, s.err
}

func newTestStore(t *testing.T) *projectstore.Store {
	t.Helper()
	return projectstore.New(filepath.Join(t.TempDir(), "projects.json"))
}

func seedProject(t *testing.T, store *projectstore.Store, id string) {
	t.Helper()
	store.Put(projectstore.State{
		ProjectID: id,
		Snapshot: canvas.Snapshot{
			Nodes: []canvas.Node{
				{ID: "n1", Kind: canvas.KindText, Text: "misty harbor at dawn"},
			},
		},
	})
}

func newCompileHandler(store *projectstore.Store, reasoner llmclient.Reasoner) *CompileHandler {
	comp := compiler.New(reasoner, nil)
	disp := imagegen.New(nil, nil)
	return NewCompileHandler(store, comp, disp, events.NewHub())
}

func TestHandleRefineUnknownProject(t *testing.T) {
	h := newCompileHandler(newTestStore(t), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/projects/nope/refine", strings.NewReader(`{}`))
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()

	h.HandleRefine(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleRefineStoresPrompt(t *testing.T) {
	store := newTestStore(t)
	seedProject(t, store, "p1")
	h := newCompileHandler(store, &stubReasoner{out: "a misty harbor rendered in oil paint"})

	req := httptest.NewRequest(http.MethodPost, "/api/projects/p1/refine",
		strings.NewReader(`{"prompt":"oil paint style"}`))
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()

	h.HandleRefine(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "oil paint")

	state, ok := store.Get("p1")
	require.True(t, ok)
	require.Equal(t, "a misty harbor rendered in oil paint", state.Prompt)
}

func TestHandleRefineProviderFailureFallsBack(t *testing.T) {
	store := newTestStore(t)
	seedProject(t, store, "p1")
	h := newCompileHandler(store, &stubReasoner{err: context.DeadlineExceeded})

	req := httptest.NewRequest(http.MethodPost, "/api/projects/p1/refine",
		strings.NewReader(`{"prompt":"oil paint style"}`))
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()

	h.HandleRefine(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	state, _ := store.Get("p1")
	require.Contains(t, state.Prompt, "oil paint style")
	require.NotEmpty(t, state.Prompt)
}

func TestHandleRefineBusy(t *testing.T) {
	store := newTestStore(t)
	seedProject(t, store, "p1")
	h := newCompileHandler(store, nil)
	require.True(t, h.inflight.tryAcquire("p1:refine"))

	req := httptest.NewRequest(http.MethodPost, "/api/projects/p1/refine", strings.NewReader(`{}`))
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()

	h.HandleRefine(rec, req)
	require.Equal(t, http.StatusConflict, rec.Code)

	h.inflight.release("p1:refine")
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/projects/p1/refine", strings.NewReader(`{}`))
	req.SetPathValue("id", "p1")
	h.HandleRefine(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleGenerateAppendsItems(t *testing.T) {
	store := newTestStore(t)
	seedProject(t, store, "p1")
	h := newCompileHandler(store, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/projects/p1/generate",
		strings.NewReader(`{"prompt":"misty harbor"}`))
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()

	h.HandleGenerate(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "image.pollinations.ai")

	items, err := store.ListGenerated("p1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "misty harbor", items[0].Prompt)
}

func TestHandleGenerateUsesStoredPrompt(t *testing.T) {
	store := newTestStore(t)
	seedProject(t, store, "p1")
	store.Update("p1", func(st *projectstore.State) { st.Prompt = "stored harbor prompt" })
	h := newCompileHandler(store, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/projects/p1/generate", strings.NewReader(`{}`))
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()

	h.HandleGenerate(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	items, err := store.ListGenerated("p1")
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "stored harbor prompt", items[0].Prompt)
}

func TestHandlePutAndGetSnapshot(t *testing.T) {
	store := newTestStore(t)
	h := NewProjectHandler(store)

	body := `{"project_name":"Harbor","snapshot":{"nodes":[{"id":"n1","kind":"text","text":"harbor"}],"edges":[]}}`
	req := httptest.NewRequest(http.MethodPut, "/api/projects/p1/snapshot", strings.NewReader(body))
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()
	h.HandlePutSnapshot(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/projects/p1/snapshot", nil)
	req.SetPathValue("id", "p1")
	rec = httptest.NewRecorder()
	h.HandleGetSnapshot(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "harbor")
}

func TestHandlePutSnapshotPreservesName(t *testing.T) {
	store := newTestStore(t)
	store.Put(projectstore.State{ProjectID: "p1", ProjectName: "Harbor", UserID: "u1"})
	h := NewProjectHandler(store)

	req := httptest.NewRequest(http.MethodPut, "/api/projects/p1/snapshot",
		strings.NewReader(`{"snapshot":{"nodes":[],"edges":[]}}`))
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()
	h.HandlePutSnapshot(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	state, ok := store.Get("p1")
	require.True(t, ok)
	require.Equal(t, "Harbor", state.ProjectName)
	require.Equal(t, "u1", state.UserID)
}

func TestHandleListGeneratedEmpty(t *testing.T) {
	h := NewProjectHandler(newTestStore(t))

	req := httptest.NewRequest(http.MethodGet, "/api/projects/p1/generated", nil)
	req.SetPathValue("id", "p1")
	rec := httptest.NewRecorder()
	h.HandleListGenerated(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"items":[]}`, rec.Body.String())
}

func TestInflight(t *testing.T) {
	f := newInflight()
	require.True(t, f.tryAcquire("k"))
	require.False(t, f.tryAcquire("k"))
	f.release("k")
	require.True(t, f.tryAcquire("k"))
}
