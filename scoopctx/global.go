package scoopctx

import (
	"os"
	"path/filepath"

	"github.com/winpax/gscoop/scoopctx/config"
	"github.com/winpax/gscoop/scooperr"
)

// commonAppDataFallback is the non-Windows stand-in for CSIDL_COMMON_APPDATA,
// consulted only when ProgramData isn't set (development/test builds off
// Windows); on Windows it's always set by the OS.
const commonAppDataFallback = "/var/lib"

// GlobalContext is the per-machine installation root: SCOOP_GLOBAL env
// var, then config.GlobalPath, then "<ProgramData>/scoop".
type GlobalContext struct{ *base }

var _ Context = GlobalContext{}

// NewGlobalContext resolves the global root (SCOOP_GLOBAL env var, then
// config, then "<ProgramData>/scoop") and opens its config.json, creating
// the root if it doesn't exist (unlike the user context, which requires
// its root to pre-exist).
func NewGlobalContext() (GlobalContext, error) {
	root, err := resolveGlobalRoot()
	if err != nil {
		return GlobalContext{}, err
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return GlobalContext{}, scooperr.New("scoopctx.NewGlobalContext", scooperr.Context, root, err)
	}
	b, err := newBase(root, filepath.Join(root, "config.json"))
	if err != nil {
		return GlobalContext{}, err
	}
	return GlobalContext{b}, nil
}

func resolveGlobalRoot() (string, error) {
	if env := os.Getenv("SCOOP_GLOBAL"); env != "" {
		return env, nil
	}
	programData := os.Getenv("ProgramData")
	if programData == "" {
		programData = commonAppDataFallback
	}
	defaultRoot := filepath.Join(programData, "scoop")
	if cfg, err := config.Load(filepath.Join(defaultRoot, "config.json")); err == nil && cfg.GlobalPath != "" {
		return cfg.GlobalPath, nil
	}
	return defaultRoot, nil
}
