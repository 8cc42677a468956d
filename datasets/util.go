package datasets

import (
	"os"
	"path/filepath"
	"strings"
)

// Companion file naming: depth and normal maps sit next to the RGBA image with
// the suffix swapped.
const (
	rgbaSuffix   = "_rgba.png"
	depthSuffix  = "_depth.png"
	normalSuffix = "_normal.png"
)

// companionPath swaps the RGBA suffix of path for suffix. ok is false when
// path does not follow the naming contract.
func companionPath(path, suffix string) (companion string, ok bool) {
	if !strings.Contains(path, rgbaSuffix) {
		return "", false
	}
	return strings.ReplaceAll(path, rgbaSuffix, suffix), true
}

func resolvePath(dir, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
