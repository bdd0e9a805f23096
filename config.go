// Package mosox is the root package of the GMPL-to-MPS compiler: it holds
// the project-wide cascading configuration file format shared by the
// check/comp CLI subcommands in cmd/mosox. The compiler pipeline itself
// lives in the gmpl/model/resolve/expand/compile/mpsfmt subpackages.
package mosox

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when no .mosox.yaml is found walking up
// from the starting directory.
var ErrConfigNotFound = errors.New("mosox: no .mosox.yaml found")

// DefaultConfigNames are the filenames searched for at each directory level.
var DefaultConfigNames = []string{".mosox.yaml", ".mosox.yml"}

// ColorMode controls whether CLI output is styled with lipgloss.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Config represents a .mosox.yaml file: default CLI behavior for the
// check/comp subcommands, cascading upward from the model file's directory.
type Config struct {
	Verbose  bool      `yaml:"verbose,omitempty"`
	Color    ColorMode `yaml:"color,omitempty"`
	RowWidth int       `yaml:"rowWidth,omitempty"`
	ColWidth int       `yaml:"colWidth,omitempty"`
}

// LoadConfig finds and loads the nearest .mosox.yaml walking up from dir.
func LoadConfig(dir string) (*Config, error) {
	path, err := FindConfig(dir)
	if err != nil {
		return nil, err
	}

	return LoadConfigFile(path)
}

// FindConfig searches dir and each of its ancestors for a file named in
// DefaultConfigNames, returning ErrConfigNotFound if none is found before
// reaching the filesystem root.
func FindConfig(dir string) (string, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for d := absDir; ; {
		for _, name := range DefaultConfigNames {
			path := filepath.Join(d, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}

		parent := filepath.Dir(d)
		if parent == d {
			return "", ErrConfigNotFound
		}

		d = parent
	}
}

// LoadConfigFile loads a config from an exact path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}

	var cfg Config

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
