//go:build integration

// Package itest drives the autoclip binary end to end. Everything here
// needs external tools (go, ffmpeg, espeak-ng) and local fixtures, so the
// whole package sits behind the integration build tag.
package itest

import (
	"fmt"
	"os"
	"path/filepath"
)

// maxAscend bounds the parent-directory walk when looking for go.mod.
const maxAscend = 10

// findRepoRoot walks up from the test's working directory to the module
// root, where `go run ./cmd/autoclip` resolves.
func findRepoRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	dir := wd
	for i := 0; i < maxAscend; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("no go.mod found above %s", wd)
}
