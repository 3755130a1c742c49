//go:build !debug

package scoopctx

import "path/filepath"

func loggingDir(appsPath string) string {
	return filepath.Join(appsPath, "sfsu", "current", "logs")
}
