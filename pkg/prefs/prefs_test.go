package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	p := Load(filepath.Join(t.TempDir(), "prefs.toml"))
	if p.ControlsOpen {
		t.Error("ControlsOpen should default to false")
	}
	if len(p.ColumnVisibility) != 0 {
		t.Errorf("ColumnVisibility should be empty, got %v", p.ColumnVisibility)
	}
}

func TestLoadMalformedFileReturnsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("not [valid toml"), 0644); err != nil {
		t.Fatal(err)
	}
	p := Load(path)
	if p.ControlsOpen || len(p.ColumnVisibility) != 0 {
		t.Errorf("expected defaults for malformed file, got %+v", p)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.toml")

	p := Default()
	p.ControlsOpen = true
	p.SetColumn("createdAt", true)
	p.SetColumn("salary", false)
	if err := p.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got := Load(path)
	if !got.ControlsOpen {
		t.Error("ControlsOpen not persisted")
	}
	if v, ok := got.ColumnVisibility["createdAt"]; !ok || !v {
		t.Errorf("createdAt override = %v, %v", v, ok)
	}
	if v, ok := got.ColumnVisibility["salary"]; !ok || v {
		t.Errorf("salary override = %v, %v", v, ok)
	}
	if _, ok := got.ColumnVisibility["status"]; ok {
		t.Error("status should have no override")
	}
}
