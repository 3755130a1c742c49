package hash

import (
	"context"
	"strings"

	"github.com/winpax/gscoop/hash/formats/json"
	"github.com/winpax/gscoop/hash/formats/rdf"
	"github.com/winpax/gscoop/hash/formats/text"
	"github.com/winpax/gscoop/hash/formats/xml"
	"github.com/winpax/gscoop/scooperr"
	"github.com/winpax/gscoop/version"
)

// Mode selects which of the four extraction strategies an Extraction uses
// to pull a checksum out of a checker page's body, or whether it defers
// to hashing the downloaded artifact directly.
type Mode string

const (
	// ModeText scans the body as plain text with a regex (expanding any
	// $md5/$sha1/$sha256/$sha512/$checksum/$base64 shorthand first).
	ModeText Mode = "text"
	// ModeJSON evaluates a JSONPath expression against the body.
	ModeJSON Mode = "json"
	// ModeXML evaluates an XPath expression against the body.
	ModeXML Mode = "xml"
	// ModeRDF streams the body as XML looking for a specific
	// digest-bearing element, the shape SourceForge's RDF feeds use.
	ModeRDF Mode = "rdf"
	// ModeDownload skips checker-page extraction entirely: the artifact
	// itself is streamed and hashed locally with Algorithm.
	ModeDownload Mode = "download"
)

// Extraction is the tagged union describing how to recompute a hash
// during autoupdate. Only the field(s) relevant to Mode are consulted.
type Extraction struct {
	Mode Mode `json:"mode,omitempty"`

	// Find is the mode-specific locator: a regexp for ModeText, a
	// JSONPath expression for ModeJSON, an XPath expression for ModeXML.
	// Unused for ModeRDF and ModeDownload.
	Find string `json:"find,omitempty"`

	// Algorithm names the digest algorithm used to hash a freshly
	// downloaded artifact under ModeDownload. Defaults to SHA256 when
	// unset, matching the overwhelming majority of manifests.
	Algorithm Algorithm `json:"algorithm,omitempty"`
}

// Empty reports whether e carries no extraction rule, meaning the
// manifest inherits whatever hash the download URL implies (the "no hash
// block" case).
func (e Extraction) Empty() bool { return e.Mode == "" && e.Find == "" && e.Algorithm == "" }

// Downloads reports whether e defers to hashing the downloaded artifact
// rather than extracting a digest from a checker page's body.
func (e Extraction) Downloads() bool { return e.Mode == ModeDownload }

// DownloadAlgorithm returns the algorithm ModeDownload should hash the
// artifact with, defaulting to SHA256 when e.Algorithm is unset.
func (e Extraction) DownloadAlgorithm() Algorithm {
	if e.Algorithm != "" {
		return e.Algorithm
	}
	return SHA256
}

// Extract runs e against body (a checker page's raw response),
// substituting subs (the $version/$url/$basename tokens a manifest's
// extraction rule may reference) into e.Find before dispatching to the
// format matching e.Mode. JSONPath queries only escape substituted
// values for regex metacharacters when they contain "=~"; XPath
// expressions never escape; every other mode does, since its locator is
// itself a regex.
func Extract(ctx context.Context, e Extraction, body []byte, subs version.SubstitutionMap) (Hash, error) {
	find := version.Substitute(e.Find, subs, escapeForMode(e))

	var (
		raw string
		err error
	)
	switch e.Mode {
	case "", ModeText:
		raw, err = text.Extract(body, find, subs["$basename"])
	case ModeJSON:
		raw, err = json.Extract(body, find)
	case ModeXML:
		raw, err = xml.Extract(body, find)
	case ModeRDF:
		raw, err = rdf.Extract(ctx, body, subs["$basename"])
	case ModeDownload:
		return Hash{}, scooperr.Errorf(scooperr.Hash, "mode %q hashes the downloaded artifact, not a checker page body", e.Mode)
	default:
		return Hash{}, scooperr.Errorf(scooperr.Hash, "unknown extraction mode %q", e.Mode)
	}
	if err != nil {
		return Hash{}, scooperr.New("hash.Extract", scooperr.Hash, string(e.Mode), err)
	}
	return Parse(raw)
}

func escapeForMode(e Extraction) bool {
	switch e.Mode {
	case ModeJSON:
		return strings.Contains(e.Find, "=~")
	case ModeXML:
		return false
	default:
		return true
	}
}
