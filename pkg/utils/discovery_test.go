package utils

import (
	"os"
	"path/filepath"
	"testing"
)

const paramFileDoc = `Inst:
  instrument: NIRISS
  mode: soss
Readout:
  array_name: NIS_SUBSTRIP256
Output:
  target_name: WASP-80
`

const unrelatedDoc = `services:
  api:
    image: nginx:latest
`

func TestDiscoverParamFiles(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	write("obs1.yaml", paramFileDoc)
	write("nested/obs2.yml", paramFileDoc)
	write("docker-compose.yaml", unrelatedDoc)
	write("notes.txt", "not yaml at all")
	write("broken.yaml", "Inst: [unclosed")

	found, err := DiscoverParamFiles(dir)
	if err != nil {
		t.Fatalf("Failed to discover paramfiles: %v", err)
	}

	if len(found) != 2 {
		t.Fatalf("Expected 2 paramfiles, got %d: %+v", len(found), found)
	}

	for _, pf := range found {
		if pf.Instrument != "NIRISS" {
			t.Errorf("Expected instrument 'NIRISS', got '%s'", pf.Instrument)
		}
		if pf.Mode != "soss" {
			t.Errorf("Expected mode 'soss', got '%s'", pf.Mode)
		}
		if pf.ArrayName != "NIS_SUBSTRIP256" {
			t.Errorf("Expected array 'NIS_SUBSTRIP256', got '%s'", pf.ArrayName)
		}
		if pf.TargetName != "WASP-80" {
			t.Errorf("Expected target 'WASP-80', got '%s'", pf.TargetName)
		}
	}
}

func TestDiscoverParamFilesEmptyDir(t *testing.T) {
	found, err := DiscoverParamFiles(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to scan empty directory: %v", err)
	}
	if len(found) != 0 {
		t.Errorf("Expected no paramfiles, got %d", len(found))
	}
}
