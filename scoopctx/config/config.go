// Package config is the typed document backing Context.Config: the
// user-editable settings file read from disk once and held immutable
// except through explicit Save calls, a plain encoding/json config-struct
// rather than a generic key-value store.
package config

import (
	"encoding/json"
	"os"

	"github.com/winpax/gscoop/scooperr"
)

// Config is the on-disk configuration document.
type Config struct {
	RootPath    string            `json:"root_path,omitempty"`
	GlobalPath  string            `json:"global_path,omitempty"`
	CachePath   string            `json:"cache_path,omitempty"`
	ScoopBranch string            `json:"scoop_branch,omitempty"`
	Proxy       string            `json:"proxy,omitempty"`
	LastUpdate  string            `json:"last_update,omitempty"`
	Aliases     map[string]string `json:"aliases,omitempty"`
}

// Default returns the zero-value config with its one required default
// filled in.
func Default() Config {
	return Config{ScoopBranch: "master"}
}

// Load reads and parses the config document at path. A missing file is
// not an error: it returns Default().
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, scooperr.New("config.Load", scooperr.IO, path, err)
	}
	var c Config
	if err := json.Unmarshal(raw, &c); err != nil {
		return Config{}, scooperr.New("config.Load", scooperr.ParsingManifest, path, err)
	}
	return c, nil
}

// Save writes c to path as indented JSON.
func Save(path string, c Config) error {
	raw, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return scooperr.New("config.Save", scooperr.IO, path, err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return scooperr.New("config.Save", scooperr.IO, path, err)
	}
	return nil
}
