// Package config loads formatting settings from TOML or YAML files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pgavlin/cmfmt/renderer"
	"gopkg.in/yaml.v3"
)

// FileNames lists the names of the configuration files recognized by Find, in order of preference.
var FileNames = []string{".mdfmt.toml", ".mdfmt.yaml", ".mdfmt.yml"}

// Config holds the settings read from a configuration file.
type Config struct {
	// Width is the column at which wrappable text is broken. Zero disables wrapping.
	Width int `toml:"width" yaml:"width"`
	// HardBreaks renders soft breaks as spaces and line breaks as bare newlines.
	HardBreaks bool `toml:"hardbreaks" yaml:"hardbreaks"`
	// Style names the chroma style used when colored output is requested.
	Style string `toml:"style" yaml:"style"`
}

// Options returns the renderer options described by the configuration.
func (c Config) Options() renderer.Options {
	return renderer.Options{Width: c.Width, HardBreaks: c.HardBreaks}
}

// Load reads the configuration file at path. The format is chosen by the file's extension.
func Load(path string) (Config, error) {
	var c Config

	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), &c); err != nil {
			return Config{}, fmt.Errorf("parsing %v: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &c); err != nil {
			return Config{}, fmt.Errorf("parsing %v: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported configuration format %q", ext)
	}

	if c.Width < 0 {
		return Config{}, fmt.Errorf("%v: width must not be negative (got %d)", path, c.Width)
	}
	return c, nil
}

// Find searches dir and its ancestors for a configuration file. It returns the empty string if none is found.
func Find(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			info, err := os.Stat(path)
			switch {
			case err == nil && !info.IsDir():
				return path, nil
			case err != nil && !errors.Is(err, os.ErrNotExist):
				return "", err
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}
