// Package compute streams a file or reader through an Algorithm to
// produce a Hash without holding the whole payload in memory, the same
// io.Copy-into-hash.Hash pattern claircore uses when verifying layer
// blobs against their Digest.
package compute

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/winpax/gscoop/hash"
)

// Reader streams r through algo and returns the resulting Hash.
func Reader(algo hash.Algorithm, r io.Reader) (hash.Hash, error) {
	hh := algo.New()
	if hh == nil {
		return hash.Hash{}, fmt.Errorf("unsupported algorithm %q", algo)
	}
	if _, err := io.Copy(hh, r); err != nil {
		return hash.Hash{}, fmt.Errorf("hash reader: %w", err)
	}
	sum := hh.Sum(nil)
	return hash.Parse(fmt.Sprintf("%s:%s", algo, hex.EncodeToString(sum)))
}

// File streams the file at path through algo and returns the resulting
// Hash.
func File(algo hash.Algorithm, path string) (hash.Hash, error) {
	f, err := os.Open(path)
	if err != nil {
		return hash.Hash{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Reader(algo, f)
}

// Verify streams the file at path and reports whether its digest under
// want's algorithm equals want.
func Verify(path string, want hash.Hash) (bool, error) {
	got, err := File(want.Algorithm(), path)
	if err != nil {
		return false, err
	}
	return got.Equal(want), nil
}
