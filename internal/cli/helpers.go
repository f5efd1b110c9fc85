// Shared helpers for satchel CLI commands.

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/satchel/internal/sqlite"
	"github.com/mesh-intelligence/satchel/pkg/types"
)

// attachStore loads config, creates a SQLite store, and attaches it.
// The caller must defer store.Detach().
func attachStore() (*sqlite.Store, error) {
	v, err := loadConfig(resolveConfigDir())
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	store := sqlite.NewStore()
	if err := store.Attach(storeConfig(v)); err != nil {
		return nil, fmt.Errorf("attach store: %w", err)
	}
	return store, nil
}

// newLogger builds the CLI logger: production JSON output, debug
// level when --verbose is set.
func newLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if flags.verbose {
		config.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return config.Build()
}

// printEnvelope writes the envelope as indented JSON to stdout.
// Commands exit non-zero on failure envelopes so scripts can branch
// without parsing.
func printEnvelope(env types.Envelope) error {
	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	fmt.Println(string(out))
	if !env.Success {
		os.Exit(1)
	}
	return nil
}
