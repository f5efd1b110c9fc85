// Config loading for the satchel CLI.

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"

	cfgKeyBackend = "backend"
	cfgKeyDataDir = "data_dir"
	cfgKeyAddr    = "addr"

	defaultBackend = types.BackendSQLite
	defaultDataDir = ".satchel-db"
	defaultAddr    = ":8080"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Satchel configuration

# Backend selection
backend: sqlite

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# HTTP listen address for "satchel serve"
# addr: :8080
`

// loadConfig reads config.yaml from the resolved config directory
// using Viper, creating the directory and a default config.yaml on
// first run. A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	configPath := filepath.Join(configDir, configFileName+"."+configFileType)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.WriteFile(configPath, []byte(defaultConfigYAML), 0o644); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyDataDir, defaultDataDir)
	v.SetDefault(cfgKeyAddr, defaultAddr)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

// storeConfig resolves the backend Config from config file and flags.
// The --data-dir flag overrides the config file value.
func storeConfig(v *viper.Viper) types.Config {
	dataDir := v.GetString(cfgKeyDataDir)
	if flags.dataDir != "" {
		dataDir = flags.dataDir
	}
	return types.Config{
		Backend: v.GetString(cfgKeyBackend),
		DataDir: dataDir,
	}
}
