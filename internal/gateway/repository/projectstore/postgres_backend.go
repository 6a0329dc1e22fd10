package projectstore

import (
	"log"
	"strings"

	"promptcanvas/internal/canvas"
	"promptcanvas/internal/util/jsonutil"
)

func (s *Store) ensureSchema() error {
	if s == nil || s.db == nil {
		return nil
	}
	s.schemaOnce.Do(func() {
		_, s.schemaErr = s.db.Exec(`
CREATE TABLE IF NOT EXISTS projects (
  project_id TEXT PRIMARY KEY,
  project_name TEXT NOT NULL DEFAULT 'Project',
  user_id TEXT NOT NULL DEFAULT '',
  prompt TEXT NOT NULL DEFAULT '',
  snapshot JSONB NOT NULL DEFAULT '{}',
  is_active BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS generated_items (
  id TEXT PRIMARY KEY,
  project_id TEXT NOT NULL,
  url TEXT NOT NULL,
  prompt TEXT NOT NULL DEFAULT '',
  created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_generated_items_project_id ON generated_items (project_id);
`)
	})
	return s.schemaErr
}

func scanStateDB(row rowScanner) (State, bool) {
	var state State
	var snapJSON []byte
	err := row.Scan(
		&state.ProjectID,
		&state.ProjectName,
		&state.UserID,
		&state.Prompt,
		&snapJSON,
		&state.IsActive,
	)
	if err != nil {
		return State{}, false
	}
	if len(snapJSON) > 0 {
		var snap canvas.Snapshot
		if err := jsonutil.UnmarshalFlex(snapJSON, &snap); err == nil {
			state.Snapshot = snap
		}
	}
	return normalizeState(state), true
}

func (s *Store) getDB(projectID string) (State, bool) {
	if err := s.ensureSchema(); err != nil {
		return State{}, false
	}
	id := strings.TrimSpace(projectID)
	if id == "" {
		return State{}, false
	}
	row := s.db.QueryRow(`SELECT project_id, project_name, user_id, prompt, snapshot, is_active
FROM projects WHERE project_id = $1`, id)
	return scanStateDB(row)
}

func (s *Store) putDB(state State) {
	if err := s.ensureSchema(); err != nil {
		log.Printf("projectstore: ensure schema: %v", err)
		return
	}
	state = normalizeState(state)
	if state.ProjectID == "" {
		return
	}
	snapJSON, err := jsonutil.MarshalNoEscape(state.Snapshot)
	if err != nil {
		log.Printf("projectstore: encode snapshot: %v", err)
		return
	}
	_, err = s.db.Exec(`
INSERT INTO projects (project_id, project_name, user_id, prompt, snapshot, is_active)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (project_id) DO UPDATE SET
  project_name = EXCLUDED.project_name,
  user_id = EXCLUDED.user_id,
  prompt = EXCLUDED.prompt,
  snapshot = EXCLUDED.snapshot,
  is_active = EXCLUDED.is_active`,
		state.ProjectID, state.ProjectName, state.UserID, state.Prompt, snapJSON, state.IsActive)
	if err != nil {
		log.Printf("projectstore: put project: %v", err)
	}
}

func (s *Store) updateDB(projectID string, fn func(*State)) (State, bool) {
	state, ok := s.getDB(projectID)
	if !ok {
		return State{}, false
	}
	fn(&state)
	state.ProjectID = strings.TrimSpace(projectID)
	s.putDB(state)
	return normalizeState(state), true
}

func (s *Store) listByUserDB(userID string) []State {
	if err := s.ensureSchema(); err != nil {
		return nil
	}
	uid := strings.TrimSpace(userID)
	query := `SELECT project_id, project_name, user_id, prompt, snapshot, is_active FROM projects`
	args := []any{}
	if uid != "" {
		query += ` WHERE user_id = $1`
		args = append(args, uid)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil
	}
	defer rows.Close()
	out := []State{}
	for rows.Next() {
		if state, ok := scanStateDB(rows); ok {
			out = append(out, state)
		}
	}
	return out
}

func (s *Store) addGeneratedDB(item GeneratedItem) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.Exec(`
INSERT INTO generated_items (id, project_id, url, prompt, created_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO NOTHING`,
		item.ID, item.ProjectID, item.URL, item.Prompt, item.CreatedAt)
	return err
}

func (s *Store) listGeneratedDB(projectID string) ([]GeneratedItem, error) {
	if err := s.ensureSchema(); err != nil {
		return nil, err
	}
	rows, err := s.db.Query(`
SELECT id, project_id, url, prompt, created_at
FROM generated_items WHERE project_id = $1 ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []GeneratedItem{}
	for rows.Next() {
		var item GeneratedItem
		if err := rows.Scan(&item.ID, &item.ProjectID, &item.URL, &item.Prompt, &item.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

func (s *Store) deleteGeneratedDB(projectID, itemID string) error {
	if err := s.ensureSchema(); err != nil {
		return err
	}
	_, err := s.db.Exec(`DELETE FROM generated_items WHERE project_id = $1 AND id = $2`,
		projectID, itemID)
	return err
}
