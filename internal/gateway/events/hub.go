package events

import "sync"

// Event is one progress notification pushed to canvas clients watching a
// project (refine/generate lifecycle).
type Event struct {
	Type      string         `json:"type"`
	ProjectID string         `json:"project_id"`
	Payload   map[string]any `json:"payload,omitempty"`
}

const (
	TypeRefineStarted   = "refine_started"
	TypeRefineDone      = "refine_done"
	TypeGenerateStarted = "generate_started"
	TypeGenerateDone    = "generate_done"
	TypeGenerateFailed  = "generate_failed"
)

// Hub fans events out to per-project subscribers. Slow subscribers drop
// events rather than blocking the publisher.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[chan Event]struct{})}
}

// Subscribe registers a listener for projectID. The returned cancel
// function unregisters and closes the channel.
func (h *Hub) Subscribe(projectID string) (<-chan Event, func()) {
	ch := make(chan Event, 16)
	h.mu.Lock()
	if h.subs[projectID] == nil {
		h.subs[projectID] = make(map[chan Event]struct{})
	}
	h.subs[projectID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs[projectID], ch)
			if len(h.subs[projectID]) == 0 {
				delete(h.subs, projectID)
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers evt to every subscriber of its project.
func (h *Hub) Publish(evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs[evt.ProjectID] {
		select {
		case ch <- evt:
		default:
		}
	}
}
