package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvironmentsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "environments.yaml")
	doc := `environments:
  - name: Lab
    data_dir: /data/mirage
    crds_url: https://jwst-crds.stsci.edu
    crds_cache: /data/crds_cache
  - name: Laptop
    data_dir: /home/obs/mirage_data
selected: Lab
`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config, err := LoadEnvironmentsFromFile(path)
	if err != nil {
		t.Fatalf("Failed to load environments: %v", err)
	}

	if len(config.Environments) != 2 {
		t.Fatalf("Expected 2 environments, got %d", len(config.Environments))
	}

	if config.Selected != "Lab" {
		t.Errorf("Expected selected environment 'Lab', got '%s'", config.Selected)
	}

	env, ok := config.Find("Lab")
	if !ok {
		t.Fatalf("Expected to find environment 'Lab'")
	}

	if env.DataDir != "/data/mirage" {
		t.Errorf("Expected data dir '/data/mirage', got '%s'", env.DataDir)
	}

	if env.CRDSCache != "/data/crds_cache" {
		t.Errorf("Expected CRDS cache '/data/crds_cache', got '%s'", env.CRDSCache)
	}

	if _, ok := config.Find("Cluster"); ok {
		t.Errorf("Did not expect to find environment 'Cluster'")
	}
}

func TestLoadEnvironmentsMissingFile(t *testing.T) {
	config, err := LoadEnvironmentsFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Missing file should fall back to defaults: %v", err)
	}

	if len(config.Environments) != 1 {
		t.Fatalf("Expected one default environment, got %d", len(config.Environments))
	}

	if config.Environments[0].Name != "Local" {
		t.Errorf("Expected default environment 'Local', got '%s'", config.Environments[0].Name)
	}
}
