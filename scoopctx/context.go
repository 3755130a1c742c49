// Package scoopctx is the abstract "installation root" every other
// component is parameterized over: a User variant rooted at a per-user
// home directory and a Global variant rooted at a machine-wide
// directory, both satisfying the same Context interface.
package scoopctx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/winpax/gscoop/gitrepo"
	"github.com/winpax/gscoop/scoopctx/config"
	"github.com/winpax/gscoop/scooperr"
)

// Context is the shared contract both User and Global contexts satisfy.
type Context interface {
	Config() config.Config
	SetConfig(config.Config)
	ConfigSave() error

	Path() string
	ScoopSubPath(segment string) (string, error)

	AppsPath() string
	BucketsPath() string
	CachePath() string
	PersistPath() string
	ShimsPath() string
	WorkspacePath() string

	InstalledApps() ([]string, error)
	AppInstalled(name string) bool

	OpenRepo() (*gitrepo.Repository, error)
	Outdated() (bool, error)

	LoggingDir() (string, error)
	NewLog() (*os.File, error)
	NewLogSync(ctx context.Context) (*os.File, error)
}

// base implements every Context operation; UserContext and GlobalContext
// differ only in the root each resolves and passes to newBase.
type base struct {
	root       string
	configPath string
	cfg        config.Config
	debug      bool
}

func newBase(root, configPath string) (*base, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return &base{root: root, configPath: configPath, cfg: cfg}, nil
}

func (b *base) Config() config.Config     { return b.cfg }
func (b *base) SetConfig(c config.Config) { b.cfg = c }
func (b *base) ConfigSave() error         { return config.Save(b.configPath, b.cfg) }

func (b *base) Path() string { return b.root }

// ScoopSubPath joins segment onto the root, creating the directory if it
// doesn't exist.
func (b *base) ScoopSubPath(segment string) (string, error) {
	p := filepath.Join(b.root, segment)
	if err := os.MkdirAll(p, 0o755); err != nil {
		return "", scooperr.New("Context.ScoopSubPath", scooperr.Context, p, err)
	}
	return p, nil
}

func (b *base) AppsPath() string      { p, _ := b.ScoopSubPath("apps"); return p }
func (b *base) BucketsPath() string   { p, _ := b.ScoopSubPath("buckets"); return p }
func (b *base) PersistPath() string   { p, _ := b.ScoopSubPath("persist"); return p }
func (b *base) ShimsPath() string     { p, _ := b.ScoopSubPath("shims"); return p }
func (b *base) WorkspacePath() string { p, _ := b.ScoopSubPath("workspace"); return p }

// CachePath honours SCOOP_CACHE env var, then config.CachePath, then the
// default "<root>/cache" subdirectory, in that precedence order.
func (b *base) CachePath() string {
	if env := os.Getenv("SCOOP_CACHE"); env != "" {
		return env
	}
	if b.cfg.CachePath != "" {
		return b.cfg.CachePath
	}
	p, _ := b.ScoopSubPath("cache")
	return p
}

// InstalledApps enumerates AppsPath's directory entries, excluding the
// entry literally named "scoop" (the host manager's own checkout).
func (b *base) InstalledApps() ([]string, error) {
	entries, err := os.ReadDir(b.AppsPath())
	if err != nil {
		return nil, scooperr.New("Context.InstalledApps", scooperr.Context, b.AppsPath(), err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() || e.Name() == "scoop" {
			continue
		}
		out = append(out, e.Name())
	}
	return out, nil
}

func (b *base) AppInstalled(name string) bool {
	apps, err := b.InstalledApps()
	if err != nil {
		return false
	}
	for _, a := range apps {
		if a == name {
			return true
		}
	}
	return false
}

// OpenRepo opens the host manager's own checkout.
func (b *base) OpenRepo() (*gitrepo.Repository, error) {
	return gitrepo.Open(filepath.Join(b.AppsPath(), "scoop", "current"))
}

// Outdated reports true when config.ScoopBranch is set and differs from
// the repo's current branch; it does not switch branches. Otherwise it
// delegates to the repo's own Outdated check.
func (b *base) Outdated() (bool, error) {
	repo, err := b.OpenRepo()
	if err != nil {
		return false, err
	}
	branch, err := repo.CurrentBranch()
	if err != nil {
		return false, err
	}
	if b.cfg.ScoopBranch != "" && branch != b.cfg.ScoopBranch {
		return true, nil
	}
	return repo.Outdated()
}

// LoggingDir returns "<apps>/sfsu/current/logs" in a release build, or
// "<cwd>/logs" when built with the debug tag, creating it if missing.
func (b *base) LoggingDir() (string, error) {
	dir := loggingDir(b.AppsPath())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", scooperr.New("Context.LoggingDir", scooperr.Context, dir, err)
	}
	return dir, nil
}

// NewLog allocates a fresh log file named "sfsu-YYYY-MM-DD-HH-MM-SS-<n>.log",
// probing increasing n until one doesn't already exist.
func (b *base) NewLog() (*os.File, error) {
	dir, err := b.LoggingDir()
	if err != nil {
		return nil, err
	}
	stamp := time.Now().Format("2006-01-02-15-04-05")
	for n := 0; ; n++ {
		name := fmt.Sprintf("sfsu-%s-%d.log", stamp, n)
		p := filepath.Join(dir, name)
		f, err := os.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, nil
		}
		if !os.IsExist(err) {
			return nil, scooperr.New("Context.NewLog", scooperr.Context, p, err)
		}
	}
}

// NewLogSync is NewLog with a 5-second timeout.
func (b *base) NewLogSync(ctx context.Context) (*os.File, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	type result struct {
		f   *os.File
		err error
	}
	done := make(chan result, 1)
	go func() {
		f, err := b.NewLog()
		done <- result{f, err}
	}()
	select {
	case r := <-done:
		return r.f, r.err
	case <-ctx.Done():
		return nil, scooperr.New("Context.NewLogSync", scooperr.Context, "", ctx.Err())
	}
}
