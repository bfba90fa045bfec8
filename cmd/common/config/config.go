// Package config provides configuration loading for scales.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config represents the scales configuration file structure.
type Config struct {
	Server   *ServerConfig   `json:"server,omitempty"`
	Playback *PlaybackConfig `json:"playback,omitempty"`
}

// ServerConfig says where the synth server listens.
type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// PlaybackConfig holds defaults for the play command.
type PlaybackConfig struct {
	Synth  string  `json:"synth"`
	Group  int     `json:"group"`
	Tempo  float64 `json:"tempo"`
	Octave *int    `json:"octave,omitempty"`
	Tonic  string  `json:"tonic,omitempty"`
	Mode   string  `json:"mode,omitempty"`
	Sink   string  `json:"sink,omitempty"`
}

// DefaultConfig returns a config matching a stock scsynth install.
func DefaultConfig() *Config {
	octave := 4
	return &Config{
		Server: &ServerConfig{
			Host: "127.0.0.1",
			Port: 57110,
		},
		Playback: &PlaybackConfig{
			Synth:  "default",
			Group:  1000,
			Tempo:  140,
			Octave: &octave,
			Tonic:  "c",
			Mode:   "major",
			Sink:   "osc",
		},
	}
}

// ConfigDir returns the scales config directory (~/.scales).
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".scales")
}

// ConfigPath returns the path to the config file (~/.scales/config.json).
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

// Load loads the config from ~/.scales/config.json.
// Returns default config if file doesn't exist.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom loads the config at path, filling in defaults for anything the
// file leaves out.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	defaults := DefaultConfig()
	if config.Server == nil {
		config.Server = defaults.Server
	} else {
		if config.Server.Host == "" {
			config.Server.Host = defaults.Server.Host
		}
		if config.Server.Port == 0 {
			config.Server.Port = defaults.Server.Port
		}
	}

	if config.Playback == nil {
		config.Playback = defaults.Playback
	} else {
		p, d := config.Playback, defaults.Playback
		if p.Synth == "" {
			p.Synth = d.Synth
		}
		if p.Group == 0 {
			p.Group = d.Group
		}
		if p.Tempo == 0 {
			p.Tempo = d.Tempo
		}
		if p.Octave == nil {
			p.Octave = d.Octave
		}
		if p.Tonic == "" {
			p.Tonic = d.Tonic
		}
		if p.Mode == "" {
			p.Mode = d.Mode
		}
		if p.Sink == "" {
			p.Sink = d.Sink
		}
	}

	return &config, nil
}

// Save saves the config to ~/.scales/config.json.
func Save(config *Config) error {
	return SaveTo(ConfigPath(), config)
}

// SaveTo writes config as indented JSON, creating parent directories.
func SaveTo(path string, config *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
