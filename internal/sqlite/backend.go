package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// Store implements types.Store on a SQLite database.
type Store struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
}

// Compile-time interface check: Store must implement types.Store.
var _ types.Store = (*Store)(nil)

// NewStore creates a new SQLite store instance.
// The store is not attached; call Attach with a Config to initialize.
func NewStore() *Store {
	return &Store{}
}

// Attach opens the database under config.DataDir, creating the
// directory and schema as needed.
// Returns ErrAlreadyAttached if already attached.
func (s *Store) Attach(config types.Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "satchel.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return fmt.Errorf("enabling foreign keys: %w", err)
	}
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("initializing schema: %w", err)
		}
	}

	s.db = db
	s.config = config
	s.attached = true
	return nil
}

// Detach closes the database. Idempotent.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.attached = false
	if err != nil {
		return fmt.Errorf("closing database: %w", err)
	}
	return nil
}

// handle returns the open database or ErrStoreDetached.
func (s *Store) handle() (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.attached {
		return nil, types.ErrStoreDetached
	}
	return s.db, nil
}
