package projectstore

import (
	"os"
	"strings"

	"promptcanvas/internal/safeio"
	"promptcanvas/internal/util/jsonutil"
)

func (s *Store) ensureLoadedFile() {
	s.loadOnce.Do(func() {
		b, err := os.ReadFile(s.path)
		if err != nil {
			return
		}
		var rows []State
		if err := jsonutil.UnmarshalFlex(b, &rows); err != nil {
			return
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		for _, row := range rows {
			id := strings.TrimSpace(row.ProjectID)
			if id == "" {
				continue
			}
			s.byID[id] = normalizeState(row)
		}
	})
}

func (s *Store) saveFile() {
	s.mu.RLock()
	rows := make([]State, 0, len(s.byID))
	for _, state := range s.byID {
		rows = append(rows, state)
	}
	s.mu.RUnlock()

	b, err := jsonutil.MarshalNoEscape(rows)
	if err != nil {
		return
	}
	_ = safeio.WriteFileAtomic(s.path, b, 0o644)
}

func (s *Store) getFile(projectID string) (State, bool) {
	s.ensureLoadedFile()
	id := strings.TrimSpace(projectID)
	if id == "" {
		return State{}, false
	}
	s.mu.RLock()
	state, ok := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return State{}, false
	}
	return state, true
}

func (s *Store) putFile(state State) {
	s.ensureLoadedFile()
	normalized := normalizeState(state)
	if normalized.ProjectID == "" {
		return
	}
	s.mu.Lock()
	// generation log is owned by Add/DeleteGenerated, not by Put
	normalized.Generated = s.byID[normalized.ProjectID].Generated
	s.byID[normalized.ProjectID] = normalized
	s.mu.Unlock()
	s.saveFile()
}

func (s *Store) updateFile(projectID string, fn func(*State)) (State, bool) {
	s.ensureLoadedFile()
	id := strings.TrimSpace(projectID)
	if id == "" {
		return State{}, false
	}
	s.mu.Lock()
	state, ok := s.byID[id]
	if !ok {
		s.mu.Unlock()
		return State{}, false
	}
	fn(&state)
	state.ProjectID = id
	state = normalizeState(state)
	s.byID[id] = state
	s.mu.Unlock()
	s.saveFile()
	return state, true
}

func (s *Store) listByUserFile(userID string) []State {
	s.ensureLoadedFile()
	uid := strings.TrimSpace(userID)
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]State, 0, len(s.byID))
	for _, state := range s.byID {
		if uid != "" && strings.TrimSpace(state.UserID) != uid {
			continue
		}
		out = append(out, state)
	}
	return out
}

func (s *Store) addGeneratedFile(item GeneratedItem) error {
	s.ensureLoadedFile()
	if item.ProjectID == "" {
		return nil
	}
	s.mu.Lock()
	state, ok := s.byID[item.ProjectID]
	if !ok {
		state = normalizeState(State{ProjectID: item.ProjectID})
	}
	state.Generated = append(state.Generated, item)
	s.byID[item.ProjectID] = state
	s.mu.Unlock()
	s.saveFile()
	return nil
}

func (s *Store) listGeneratedFile(projectID string) ([]GeneratedItem, error) {
	s.ensureLoadedFile()
	if projectID == "" {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.byID[projectID]
	if !ok {
		return nil, nil
	}
	// stored append-order ascending; return newest first
	out := make([]GeneratedItem, 0, len(state.Generated))
	for i := len(state.Generated) - 1; i >= 0; i-- {
		out = append(out, state.Generated[i])
	}
	return out, nil
}

func (s *Store) deleteGeneratedFile(projectID, itemID string) error {
	s.ensureLoadedFile()
	if projectID == "" || itemID == "" {
		return nil
	}
	s.mu.Lock()
	state, ok := s.byID[projectID]
	if ok {
		kept := state.Generated[:0]
		for _, item := range state.Generated {
			if item.ID != itemID {
				kept = append(kept, item)
			}
		}
		state.Generated = kept
		s.byID[projectID] = state
	}
	s.mu.Unlock()
	if ok {
		s.saveFile()
	}
	return nil
}
