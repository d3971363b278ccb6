// Package config manages persistent runtime defaults for the audio engine.
// Settings are stored as JSON at os.UserConfigDir()/wgpu-signal-processor/config.json.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config holds the engine's persistent runtime defaults.
type Config struct {
	SampleRate     uint32 `json:"sample_rate"`
	Stereo         bool   `json:"stereo"`
	RootSeconds    int    `json:"root_seconds"`
	InputDeviceID  int    `json:"input_device_id"`
	OutputDeviceID int    `json:"output_device_id"`
	VisualizerAddr string `json:"visualizer_addr"`
	VisualizerOn   bool   `json:"visualizer_on"`
}

// Default returns a Config populated with sensible defaults: 44.1 kHz
// stereo, a 5-second root buffer, system-default devices, visualizer off.
func Default() Config {
	return Config{
		SampleRate:     44100,
		Stereo:         true,
		RootSeconds:    5,
		InputDeviceID:  -1,
		OutputDeviceID: -1,
		VisualizerAddr: "localhost:9191",
		VisualizerOn:   false,
	}
}

// Path returns the absolute path to the config file.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "wgpu-signal-processor", "config.json"), nil
}

// Load reads the config file and returns it. If the file is missing or
// unreadable, the default config is returned — never an error.
func Load() Config {
	path, err := Path()
	if err != nil {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Default()
	}
	return cfg
}

// Save writes cfg to disk, creating the directory if needed.
func Save(cfg Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
