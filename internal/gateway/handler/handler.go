package handler

import (
	"io"
	"net/http"
	"sync"

	"promptcanvas/internal/util/jsonutil"
)

const maxBodyBytes = 16 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := jsonutil.MarshalNoEscape(v)
	if err != nil {
		http.Error(w, "encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

func readJSON(r *http.Request, v any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	return jsonutil.UnmarshalFlex(body, v)
}

// inflight enforces at most one running operation per key (admission
// control by rejection, no queue).
type inflight struct {
	mu   sync.Mutex
	busy map[string]bool
}

func newInflight() *inflight {
	return &inflight{busy: make(map[string]bool)}
}

func (f *inflight) tryAcquire(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busy[key] {
		return false
	}
	f.busy[key] = true
	return true
}

func (f *inflight) release(key string) {
	f.mu.Lock()
	delete(f.busy, key)
	f.mu.Unlock()
}
