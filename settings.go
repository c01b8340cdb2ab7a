package main

import (
	"encoding/json"
	"os"
	"path/filepath"
)

const SETTINGS_VERSION = 1

const settingsFile = "settings.json"

type settings struct {
	Version int

	WindowWidth  int
	WindowHeight int
	Fullscreen   bool

	// Geometry is the voxel grid size as WxHxL.
	Geometry   string
	ListenPort int

	ShowStats  bool
	VoxelGap   int
	Brightness float64
}

var gsdef = settings{
	Version: SETTINGS_VERSION,

	WindowWidth:  1024,
	WindowHeight: 768,

	Geometry:   "16x16x16",
	ListenPort: artNetPort,

	ShowStats:  true,
	VoxelGap:   1,
	Brightness: 1.0,
}

var gs settings = gsdef

// settingsLoaded reports whether settings were successfully loaded from disk.
var settingsLoaded bool

func loadSettings() bool {
	path := filepath.Join(dataDirPath, settingsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		gs = gsdef
		settingsLoaded = false
		return false
	}

	tmp := gsdef
	if err := json.Unmarshal(data, &tmp); err != nil {
		gs = gsdef
		settingsLoaded = false
		return false
	}

	if tmp.Version != SETTINGS_VERSION {
		// Older file: keep defaults but preserve window placement.
		gsdef.WindowWidth = tmp.WindowWidth
		gsdef.WindowHeight = tmp.WindowHeight
		gs = gsdef
		settingsLoaded = false
		return false
	}

	gs = tmp
	if gs.Brightness <= 0 || gs.Brightness > 1 {
		gs.Brightness = gsdef.Brightness
	}
	if gs.VoxelGap < 0 {
		gs.VoxelGap = 0
	}
	settingsLoaded = true
	return true
}

func saveSettings() {
	gs.Version = SETTINGS_VERSION
	data, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		logError("save settings: %v", err)
		return
	}
	if err := os.MkdirAll(dataDirPath, 0755); err != nil {
		logError("save settings: %v", err)
		return
	}
	path := filepath.Join(dataDirPath, settingsFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		logError("save settings: %v", err)
	}
}
