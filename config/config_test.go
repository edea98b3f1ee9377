package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTOML(t *testing.T, dir, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "carbon.toml"), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaultsSourceDirs(t *testing.T) {
	dir := t.TempDir()
	writeTOML(t, dir, `
[project]
name = "demo"
`)
	c, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Source.Dirs) != 1 || c.Source.Dirs[0] != "." {
		t.Errorf("got Source.Dirs %v, want [.]", c.Source.Dirs)
	}
	if c.Source.Entry != "main.carbon" {
		t.Errorf("got Source.Entry %q, want main.carbon", c.Source.Entry)
	}
}

func TestLoadExplicitValues(t *testing.T) {
	dir := t.TempDir()
	writeTOML(t, dir, `
[project]
name = "demo"
version = "0.1.0"

[source]
dirs = ["src", "vendor/src"]
entry = "app.carbon"

[trace]
enabled = true
`)
	c, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if c.Project.Name != "demo" || c.Project.Version != "0.1.0" {
		t.Errorf("got Project %+v", c.Project)
	}
	if len(c.Source.Dirs) != 2 {
		t.Errorf("got %d source dirs, want 2", len(c.Source.Dirs))
	}
	if !c.Trace.Enabled {
		t.Errorf("trace should be enabled")
	}
}

func TestFindAndLoadWalksUpward(t *testing.T) {
	root := t.TempDir()
	writeTOML(t, root, `
[project]
name = "demo"
`)
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	c, err := FindAndLoad(nested)
	if err != nil {
		t.Fatal(err)
	}
	absRoot, _ := filepath.Abs(root)
	if c.Dir != absRoot {
		t.Errorf("got Dir %q, want %q", c.Dir, absRoot)
	}
}

func TestFindAndLoadFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	c, err := FindAndLoad(dir)
	if err != nil {
		t.Fatal(err)
	}
	if c.Trace.Enabled {
		t.Errorf("default config should not enable tracing")
	}
	if c.EntryPath() != filepath.Join(c.Dir, "main.carbon") {
		t.Errorf("got EntryPath %q", c.EntryPath())
	}
}
