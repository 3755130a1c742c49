package scoopctx

import (
	"os"
	"path/filepath"

	"github.com/winpax/gscoop/scoopctx/config"
	"github.com/winpax/gscoop/scooperr"
)

// UserContext is the per-user installation root: SCOOP env var, then
// config.RootPath, then "$HOME/scoop".
type UserContext struct{ *base }

var _ Context = UserContext{}

// NewUserContext resolves the user root (SCOOP env var, then config, then
// "$HOME/scoop") and opens its config.json. The resolved root must
// already exist.
func NewUserContext() (UserContext, error) {
	root, err := resolveUserRoot()
	if err != nil {
		return UserContext{}, err
	}
	if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
		return UserContext{}, scooperr.Errorf(scooperr.Context, "user root %q does not exist", root)
	}
	b, err := newBase(root, filepath.Join(root, "config.json"))
	if err != nil {
		return UserContext{}, err
	}
	return UserContext{b}, nil
}

// resolveUserRoot applies SCOOP env var > config.root_path > $HOME/scoop.
// The config lives inside the root it can override, so the default
// location's config.json (if any) is consulted for root_path before
// falling back to the default itself.
func resolveUserRoot() (string, error) {
	if env := os.Getenv("SCOOP"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", scooperr.New("scoopctx.resolveUserRoot", scooperr.Context, "", err)
	}
	defaultRoot := filepath.Join(home, "scoop")
	if cfg, err := config.Load(filepath.Join(defaultRoot, "config.json")); err == nil && cfg.RootPath != "" {
		return cfg.RootPath, nil
	}
	return defaultRoot, nil
}
