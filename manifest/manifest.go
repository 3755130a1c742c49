// Package manifest models the canonical descriptor for one package at one
// version. It unifies on the newer of the two manifest dialects found in
// the source this was distilled from (see DESIGN.md Open Question
// decisions): architecture overlays and autoupdate.hash are both modeled
// as explicit sum types rather than flattened optional fields.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/winpax/gscoop/hash"
	"github.com/winpax/gscoop/scooperr"
	"github.com/winpax/gscoop/version"
)

// Architecture is a target CPU architecture tag.
type Architecture string

const (
	Arm64 Architecture = "arm64"
	X64   Architecture = "64bit"
	X86   Architecture = "32bit"
)

// Fallback implements the "on x64 fall back to x86, otherwise no fallback"
// rule. It returns the architecture to retry with, and false
// if there is no fallback for a.
func (a Architecture) Fallback() (Architecture, bool) {
	if a == X64 {
		return X86, true
	}
	return "", false
}

// Manifest is the canonical descriptor for one package at one version.
type Manifest struct {
	// Bucket and Name are filled in by the loader from the on-disk path,
	// never read from the JSON document itself.
	Bucket string `json:"-"`
	Name   string `json:"-"`

	Version      version.Version       `json:"version"`
	Description  string                `json:"description,omitempty"`
	Homepage     string                `json:"homepage,omitempty"`
	License      json.RawMessage       `json:"license,omitempty"`
	Depends      StringList            `json:"depends,omitempty"`
	Notes        StringList            `json:"notes,omitempty"`
	Suggest      map[string][]string   `json:"suggest,omitempty"`
	Persist      StringList            `json:"persist,omitempty"`
	Architecture *ManifestArchitecture `json:"architecture,omitempty"`
	Autoupdate   *Autoupdate           `json:"autoupdate,omitempty"`
	InstallConfig
}

// ManifestArchitecture holds per-architecture overlays of InstallConfig.
type ManifestArchitecture struct {
	X86   *InstallConfig `json:"32bit,omitempty"`
	X64   *InstallConfig `json:"64bit,omitempty"`
	Arm64 *InstallConfig `json:"arm64,omitempty"`
}

// Get returns the overlay for a, or nil if there is none.
func (ma *ManifestArchitecture) Get(a Architecture) *InstallConfig {
	if ma == nil {
		return nil
	}
	switch a {
	case X86:
		return ma.X86
	case X64:
		return ma.X64
	case Arm64:
		return ma.Arm64
	}
	return nil
}

// InstallConfig is the set of fields describing how to fetch and lay out
// one installable artifact.
type InstallConfig struct {
	URL           StringList        `json:"url,omitempty"`
	Hash          hash.List         `json:"hash,omitempty"`
	Bin           StringList        `json:"bin,omitempty"`
	Shortcuts     [][]string        `json:"shortcuts,omitempty"`
	ExtractDir    StringList        `json:"extract_dir,omitempty"`
	Installer     *Installer        `json:"installer,omitempty"`
	Uninstaller   *Installer        `json:"uninstaller,omitempty"`
	PreInstall    StringList        `json:"pre_install,omitempty"`
	PostInstall   StringList        `json:"post_install,omitempty"`
	PreUninstall  StringList        `json:"pre_uninstall,omitempty"`
	PostUninstall StringList        `json:"post_uninstall,omitempty"`
	EnvAddPath    StringList        `json:"env_add_path,omitempty"`
	EnvSet        map[string]string `json:"env_set,omitempty"`
}

// Installer describes an installer/uninstaller script block.
type Installer struct {
	File   string   `json:"file,omitempty"`
	Args   []string `json:"args,omitempty"`
	Keep   bool     `json:"keep,omitempty"`
	Script []string `json:"script,omitempty"`
}

// FromPath reads, trims a BOM if present, and parses the manifest JSON
// file at p, then derives Name from the file stem and Bucket from the
// grandparent directory name (p is expected to be
// ".../<bucketDir>/bucket/<name>.json" or ".../<bucketDir>/<name>.json").
func FromPath(p string) (*Manifest, error) {
	raw, err := os.ReadFile(p)
	if err != nil {
		return nil, scooperr.New("manifest.FromPath", scooperr.IO, p, err)
	}
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})

	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, scooperr.New("manifest.FromPath", scooperr.ParsingManifest, p, err)
	}

	base := filepath.Base(p)
	m.Name = base[:len(base)-len(filepath.Ext(base))]

	dir := filepath.Dir(p)
	if filepath.Base(dir) == "bucket" {
		dir = filepath.Dir(dir)
	}
	m.Bucket = filepath.Base(dir)

	return &m, nil
}

// EffectiveInstallConfig applies the architecture-merge rule from spec
// §4.3: every non-zero field of the arch-specific overlay wins, falling
// back field-by-field to the manifest's default InstallConfig. If a has no
// overlay and has a fallback architecture (x64→x86), the fallback
// is tried before giving up and returning the default config unmodified.
func (m *Manifest) EffectiveInstallConfig(a Architecture) InstallConfig {
	overlay := m.Architecture.Get(a)
	if overlay == nil {
		if fb, ok := a.Fallback(); ok {
			overlay = m.Architecture.Get(fb)
		}
	}
	return mergeInstallConfig(m.InstallConfig, overlay)
}

func mergeInstallConfig(base InstallConfig, overlay *InstallConfig) InstallConfig {
	if overlay == nil {
		return base
	}
	out := base
	if overlay.URL != nil {
		out.URL = overlay.URL
	}
	if overlay.Hash != nil {
		out.Hash = overlay.Hash
	}
	if overlay.Bin != nil {
		out.Bin = overlay.Bin
	}
	if overlay.Shortcuts != nil {
		out.Shortcuts = overlay.Shortcuts
	}
	if overlay.ExtractDir != nil {
		out.ExtractDir = overlay.ExtractDir
	}
	if overlay.Installer != nil {
		out.Installer = overlay.Installer
	}
	if overlay.Uninstaller != nil {
		out.Uninstaller = overlay.Uninstaller
	}
	if overlay.PreInstall != nil {
		out.PreInstall = overlay.PreInstall
	}
	if overlay.PostInstall != nil {
		out.PostInstall = overlay.PostInstall
	}
	if overlay.PreUninstall != nil {
		out.PreUninstall = overlay.PreUninstall
	}
	if overlay.PostUninstall != nil {
		out.PostUninstall = overlay.PostUninstall
	}
	if overlay.EnvAddPath != nil {
		out.EnvAddPath = overlay.EnvAddPath
	}
	if overlay.EnvSet != nil {
		out.EnvSet = overlay.EnvSet
	}
	return out
}

// InstallManifest is the sidecar describing how a specific local
// installation was produced.
type InstallManifest struct {
	Bucket       string `json:"bucket,omitempty"`
	URL          string `json:"url,omitempty"`
	Architecture string `json:"architecture,omitempty"`
	Hold         bool   `json:"hold,omitempty"`
}

// GetSource returns the bucket name if present, else the URL, else
// "Unknown".
func (im *InstallManifest) GetSource() string {
	switch {
	case im.Bucket != "":
		return im.Bucket
	case im.URL != "":
		return im.URL
	default:
		return "Unknown"
	}
}

// LoadInstallManifest reads and parses an install.json sidecar.
func LoadInstallManifest(p string) (*InstallManifest, error) {
	raw, err := os.ReadFile(p)
	if err != nil {
		return nil, scooperr.New("manifest.LoadInstallManifest", scooperr.IO, p, err)
	}
	var im InstallManifest
	if err := json.Unmarshal(raw, &im); err != nil {
		return nil, scooperr.New("manifest.LoadInstallManifest", scooperr.ParsingManifest, p, err)
	}
	return &im, nil
}

func (m *Manifest) String() string {
	return fmt.Sprintf("%s/%s@%s", m.Bucket, m.Name, m.Version)
}
