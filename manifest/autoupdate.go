package manifest

import (
	"github.com/winpax/gscoop/hash"
	"github.com/winpax/gscoop/scooperr"
)

// Autoupdate describes how to recompute a manifest's url/hash fields for a
// new upstream version.
type Autoupdate struct {
	AutoupdateConfig
	Architecture *AutoupdateArchitecture `json:"architecture,omitempty"`
}

// AutoupdateConfig is the portion of an autoupdate block that varies by
// architecture: the templated download URL(s), how to recompute their
// hash, and the fields that get re-substituted once the new version is
// known.
type AutoupdateConfig struct {
	URL        StringList      `json:"url,omitempty"`
	Hash       hash.Extraction `json:"hash,omitempty"`
	ExtractDir StringList      `json:"extract_dir,omitempty"`
	Bin        StringList      `json:"bin,omitempty"`
	Shortcuts  [][]string      `json:"shortcuts,omitempty"`
}

// AutoupdateArchitecture holds per-architecture autoupdate overlays.
type AutoupdateArchitecture struct {
	X86   *AutoupdateConfig `json:"32bit,omitempty"`
	X64   *AutoupdateConfig `json:"64bit,omitempty"`
	Arm64 *AutoupdateConfig `json:"arm64,omitempty"`
}

func (aa *AutoupdateArchitecture) Get(a Architecture) *AutoupdateConfig {
	if aa == nil {
		return nil
	}
	switch a {
	case X86:
		return aa.X86
	case X64:
		return aa.X64
	case Arm64:
		return aa.Arm64
	}
	return nil
}

// EffectiveAutoupdateConfig merges the default autoupdate block with its
// architecture overlay, applying the same x64->x86 fallback rule as
// EffectiveInstallConfig.
func (au *Autoupdate) EffectiveAutoupdateConfig(a Architecture) AutoupdateConfig {
	overlay := au.Architecture.Get(a)
	if overlay == nil {
		if fb, ok := a.Fallback(); ok {
			overlay = au.Architecture.Get(fb)
		}
	}
	if overlay == nil {
		return au.AutoupdateConfig
	}
	out := au.AutoupdateConfig
	if overlay.URL != nil {
		out.URL = overlay.URL
	}
	if !overlay.Hash.Empty() {
		out.Hash = overlay.Hash
	}
	if overlay.ExtractDir != nil {
		out.ExtractDir = overlay.ExtractDir
	}
	if overlay.Bin != nil {
		out.Bin = overlay.Bin
	}
	if overlay.Shortcuts != nil {
		out.Shortcuts = overlay.Shortcuts
	}
	return out
}

// ErrMissingAutoupdate signals that SetVersion was called on a manifest
// with no autoupdate block.
var ErrMissingAutoupdate = scooperr.Errorf(scooperr.ParsingManifest, "manifest has no autoupdate block")

// HashExtraction is re-exported from hash so callers working with
// manifests don't need a second import for the common case.
type HashExtraction = hash.Extraction
