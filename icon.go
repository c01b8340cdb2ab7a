package main

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
)

// iconApplier sets the displayed window icon from an image file on disk.
// Exactly one variant exists per windowing backend; the locator itself stays
// platform-agnostic.
type iconApplier interface {
	Apply(path string)
}

// ebitenIconApplier decodes the PNG and hands it to the running window.
type ebitenIconApplier struct{}

func (ebitenIconApplier) Apply(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		logWarn("read icon %s: %v", path, err)
		return
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		logWarn("decode icon %s: %v", path, err)
		return
	}
	ebiten.SetWindowIcon([]image.Image{img})
}

// fileExists reports whether path names an existing file.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// iconCandidates returns the fixed, ordered icon search list for the given
// executable path hint: next to the executable, in a resources directory next
// to the executable, then the same two locations relative to the working
// directory. Order matters; the first existing entry wins.
func iconCandidates(exePath string) []string {
	dir := filepath.Dir(exePath)
	return []string{
		filepath.Join(dir, "icon.png"),
		filepath.Join(dir, "resources", "icon.png"),
		filepath.Join("resources", "icon.png"),
		"icon.png",
	}
}

// locateIcon probes the candidates with exists and returns the first match,
// or "" when none is present.
func locateIcon(exePath string, exists func(string) bool) string {
	for _, p := range iconCandidates(exePath) {
		if exists(p) {
			return p
		}
	}
	return ""
}

// setWindowIcon looks for icon.png near the executable and applies the first
// match to the window. A missing icon is normal: the window keeps the default
// icon and a single warning is logged.
func setWindowIcon(exePath string, exists func(string) bool, applier iconApplier) {
	path := locateIcon(exePath, exists)
	if path == "" {
		logWarn("icon file not found in any of the expected locations")
		return
	}
	logInfo("using icon from: %s", path)
	applier.Apply(path)
}
