package projectstore

import (
	"database/sql"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Store persists project states and their generated-item logs. Two
// backends share one front: a JSON file (local/dev) and postgres via the
// pgx stdlib driver. Methods dispatch on whether a DB handle is present.
type Store struct {
	path string
	db   *sql.DB

	loadOnce sync.Once
	mu       sync.RWMutex
	byID     map[string]State

	schemaOnce sync.Once
	schemaErr  error

	generatedCache *lru.Cache[string, []GeneratedItem]
}

func New(path string) *Store {
	return &Store{
		path: path,
		byID: make(map[string]State),
	}
}

func NewPostgres(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	cache, err := lru.New[string, []GeneratedItem](1024)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{
		db:             db,
		generatedCache: cache,
	}, nil
}

// NewFromConfig picks postgres when a DSN is configured, else the file
// backend. A failed postgres connection falls back to the file store so
// local development works without a database.
func NewFromConfig(path, dsn string) *Store {
	if strings.TrimSpace(dsn) == "" {
		return New(path)
	}
	s, err := NewPostgres(dsn)
	if err != nil {
		log.Printf("projectstore: postgres unavailable (%v), using file store", err)
		return New(path)
	}
	return s
}

func (s *Store) Close() error {
	if s != nil && s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Get returns the project state for projectID.
func (s *Store) Get(projectID string) (State, bool) {
	if s.db != nil {
		return s.getDB(projectID)
	}
	return s.getFile(projectID)
}

// Put upserts the project state. The snapshot is normalized (node IDs
// minted/deduplicated) before it is stored.
func (s *Store) Put(state State) {
	if s.db != nil {
		s.putDB(state)
		return
	}
	s.putFile(state)
}

// Update applies fn to the stored state and persists the result.
func (s *Store) Update(projectID string, fn func(*State)) (State, bool) {
	if s.db != nil {
		return s.updateDB(projectID, fn)
	}
	return s.updateFile(projectID, fn)
}

// ListByUser returns every project owned by userID ("" means all).
func (s *Store) ListByUser(userID string) []State {
	if s.db != nil {
		return s.listByUserDB(userID)
	}
	return s.listByUserFile(userID)
}

// AddGenerated appends an item to the project's generation log. A missing
// ID is minted; CreatedAt defaults to now.
func (s *Store) AddGenerated(item GeneratedItem) (GeneratedItem, error) {
	item.ProjectID = strings.TrimSpace(item.ProjectID)
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	if s.db != nil {
		if err := s.addGeneratedDB(item); err != nil {
			return GeneratedItem{}, err
		}
		s.generatedCache.Remove(item.ProjectID)
		return item, nil
	}
	return item, s.addGeneratedFile(item)
}

// ListGenerated returns the project's generation log, newest first.
func (s *Store) ListGenerated(projectID string) ([]GeneratedItem, error) {
	projectID = strings.TrimSpace(projectID)
	if s.db != nil {
		if cached, ok := s.generatedCache.Get(projectID); ok {
			return cached, nil
		}
		items, err := s.listGeneratedDB(projectID)
		if err != nil {
			return nil, err
		}
		s.generatedCache.Add(projectID, items)
		return items, nil
	}
	return s.listGeneratedFile(projectID)
}

// DeleteGenerated removes one item from the log. Deleting a missing item
// is not an error.
func (s *Store) DeleteGenerated(projectID, itemID string) error {
	projectID = strings.TrimSpace(projectID)
	itemID = strings.TrimSpace(itemID)
	if s.db != nil {
		if err := s.deleteGeneratedDB(projectID, itemID); err != nil {
			return err
		}
		s.generatedCache.Remove(projectID)
		return nil
	}
	return s.deleteGeneratedFile(projectID, itemID)
}
