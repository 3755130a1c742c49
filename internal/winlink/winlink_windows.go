//go:build windows

// Package winlink resolves an app's "current" version directory, which on
// the real host is a directory junction rather than a symlink (Windows
// junctions don't require the elevated privilege symlinks do). On
// Windows this shells out to golang.org/x/sys/windows for the
// CreateSymbolicLink/reparse-point primitives the plain os package
// doesn't expose.
package winlink

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/windows"
)

// Resolve returns the target of the "current" junction/symlink inside
// appDir, or appDir itself if no such link exists (an app with only one
// version installed may skip the indirection).
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

// Create points "current" inside appDir at version with a directory
// symbolic link (windows.CreateSymbolicLink with
// SYMBOLIC_LINK_FLAG_DIRECTORY); it does not create a junction.
func Create(appDir, version string) error {
	current := filepath.Join(appDir, "current")
	target := filepath.Join(appDir, version)
	_ = os.Remove(current)

	curPtr, err := windows.UTF16PtrFromString(current)
	if err != nil {
		return err
	}
	targetPtr, err := windows.UTF16PtrFromString(target)
	if err != nil {
		return err
	}
	return windows.CreateSymbolicLink(curPtr, targetPtr, windows.SYMBOLIC_LINK_FLAG_DIRECTORY)
}
