// Package config handles carbon.toml project configuration, in the
// same shape as the teacher's manifest package: a TOML file naming a
// project, its source layout, and its entry point, loaded by walking
// upward from a starting directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents a carbon.toml project configuration.
type Config struct {
	Project Project `toml:"project"`
	Source  Source  `toml:"source"`
	Trace   Trace   `toml:"trace"`

	// Dir is the directory containing the carbon.toml file, set at load
	// time rather than read from the file itself.
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Source configures where to find .carbon source files and which file
// is the program's entry point.
type Source struct {
	Dirs  []string `toml:"dirs"`
	Entry string   `toml:"entry"`
}

// Trace configures the step-trace recorder (see the trace package).
// Enabled defaults to false: tracing is off unless a carbon.toml or the
// CLI's --trace flag turns it on, since it writes to disk on every
// step and most runs don't want that overhead.
type Trace struct {
	Enabled bool   `toml:"enabled"`
	DBPath  string `toml:"db-path"`
}

// Load parses a carbon.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "carbon.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("config: cannot resolve path %s: %w", dir, err)
	}

	if len(c.Source.Dirs) == 0 {
		c.Source.Dirs = []string{"."}
	}
	if c.Source.Entry == "" {
		c.Source.Entry = "main.carbon"
	}
	if c.Trace.DBPath == "" {
		c.Trace.DBPath = filepath.Join(c.Dir, ".carbon", "trace.db")
	}

	return &c, nil
}

// FindAndLoad walks up from startDir looking for a carbon.toml file,
// then loads it. It returns the Default config for startDir (not an
// error) if none is found, so a bare `carbon foo.carbon` invocation
// with no project file still works.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	for {
		path := filepath.Join(dir, "carbon.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(startDir)
		}
		dir = parent
	}
}

// Default returns the configuration a bare directory gets with no
// carbon.toml present.
func Default(dir string) (*Config, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	return &Config{
		Dir:    abs,
		Source: Source{Dirs: []string{"."}, Entry: "main.carbon"},
		Trace:  Trace{Enabled: false, DBPath: filepath.Join(abs, ".carbon", "trace.db")},
	}, nil
}

// SourceDirPaths returns absolute paths for the configured source
// directories.
func (c *Config) SourceDirPaths() []string {
	paths := make([]string, len(c.Source.Dirs))
	for i, d := range c.Source.Dirs {
		paths[i] = filepath.Join(c.Dir, d)
	}
	return paths
}

// EntryPath returns the absolute path of the configured entry file.
func (c *Config) EntryPath() string {
	if filepath.IsAbs(c.Source.Entry) {
		return c.Source.Entry
	}
	return filepath.Join(c.Dir, c.Source.Entry)
}
