//go:build debug

package scoopctx

import (
	"os"
	"path/filepath"
)

func loggingDir(appsPath string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Join(appsPath, "sfsu", "current", "logs")
	}
	return filepath.Join(cwd, "logs")
}
