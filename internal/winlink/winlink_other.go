//go:build !windows

package winlink

import (
	"os"
	"path/filepath"
)

// Resolve returns the target of the "current" symlink inside appDir, or
// appDir itself if no such link exists. Non-Windows builds exist only for
// development and testing against a fixture tree; the host package
// manager itself is Windows-only.
func Resolve(appDir string) (string, error) {
	current := filepath.Join(appDir, "current")
	target, err := os.Readlink(current)
	if err != nil {
		if os.IsNotExist(err) {
			return appDir, nil
		}
		return "", err
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(appDir, target)
	}
	return target, nil
}

// Create points "current" inside appDir at version using a plain symlink.
func Create(appDir, version string) error {
	current := filepath.Join(appDir, "current")
	target := filepath.Join(appDir, version)
	_ = os.Remove(current)
	return os.Symlink(target, current)
}
