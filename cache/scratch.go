// scratch.go provides a uuid-named, self-deleting scratch file (a
// *os.File that removes itself on Close) for the one place the cache
// package needs throwaway storage: downloading an autoupdate artifact to
// disk so it can be hashed (FetchToScratch) without being kept.
package cache

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// scratchFile wraps a *os.File that removes itself from disk on Close,
// named with a random uuid rather than os.CreateTemp's PRNG pattern so
// concurrent downloads in the same cache directory can never collide.
type scratchFile struct {
	*os.File
}

func newScratchFile(dir string) (*scratchFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	name := uuid.NewString() + ".scratch"
	f, err := os.OpenFile(filepath.Join(dir, name), os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, err
	}
	return &scratchFile{f}, nil
}

// Close closes the file handle and removes it from disk.
func (s *scratchFile) Close() error {
	if err := s.File.Close(); err != nil {
		return err
	}
	return os.Remove(s.File.Name())
}
