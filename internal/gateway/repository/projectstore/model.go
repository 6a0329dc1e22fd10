package projectstore

import (
	"strings"
	"time"

	"promptcanvas/internal/canvas"
	"promptcanvas/internal/utils"
)

// State is one project's persisted editor state: its canvas snapshot and
// the user-editable working prompt.
type State struct {
	ProjectID   string          `json:"project_id,omitempty"`
	ProjectName string          `json:"project_name,omitempty"`
	UserID      string          `json:"user_id"`
	Prompt      string          `json:"prompt,omitempty"`
	Snapshot    canvas.Snapshot `json:"snapshot"`
	IsActive    bool            `json:"is_active,omitempty"`

	// Generated is only populated by the file backend; the postgres
	// backend keeps generated items in their own table.
	Generated []GeneratedItem `json:"generated,omitempty"`
}

// GeneratedItem is one append-only entry of the project's generation log.
// Never mutated; deleted explicitly by the user.
type GeneratedItem struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	URL       string    `json:"url"`
	Prompt    string    `json:"prompt"`
	CreatedAt time.Time `json:"created_at"`
}

func normalizeState(state State) State {
	state.ProjectID = strings.TrimSpace(state.ProjectID)
	state.ProjectName = strings.TrimSpace(state.ProjectName)
	state.UserID = strings.TrimSpace(state.UserID)
	if state.ProjectName == "" {
		state.ProjectName = "Project"
	}
	state.Snapshot = normalizeSnapshot(state.Snapshot)
	return state
}

// normalizeSnapshot assigns IDs to imported nodes that arrive without one
// and de-duplicates colliding IDs, so the stored graph always honors the
// unique-stable-ID invariant.
func normalizeSnapshot(snap canvas.Snapshot) canvas.Snapshot {
	seen := make([]string, 0, len(snap.Nodes))
	for _, n := range snap.Nodes {
		if id := strings.TrimSpace(n.ID); id != "" {
			seen = append(seen, id)
		}
	}
	gen := utils.NewUIDGenerator(seen...)
	used := make(map[string]struct{}, len(snap.Nodes))
	for i := range snap.Nodes {
		id := strings.TrimSpace(snap.Nodes[i].ID)
		if id == "" {
			id = gen.Generate(seedFor(snap.Nodes[i]))
		} else if _, dup := used[id]; dup {
			id = gen.Generate(id)
		}
		snap.Nodes[i].ID = id
		used[id] = struct{}{}
	}
	return snap
}

func seedFor(n canvas.Node) string {
	if n.Kind == canvas.KindText {
		return n.Text
	}
	if n.AltLabel != "" {
		return n.AltLabel
	}
	return string(n.Kind)
}

type rowScanner interface {
	Scan(dest ...any) error
}
