// Package sqlite provides the public factory for the SQLite Satchel
// store while keeping implementation details internal.
package sqlite

import (
	"github.com/mesh-intelligence/satchel/internal/sqlite"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

// NewStore creates a new SQLite store instance.
// The store is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	store := sqlite.NewStore()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".satchel",
//	})
//	defer store.Detach()
func NewStore() types.Store {
	return sqlite.NewStore()
}
