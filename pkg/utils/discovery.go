package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParamFileInfo summarizes a discovered paramfile without fully validating
// it.
type ParamFileInfo struct {
	Path       string
	Instrument string
	Mode       string
	ArrayName  string
	TargetName string
}

// probe is a loose view of a paramfile used during discovery.
type probe struct {
	Inst struct {
		Instrument string `yaml:"instrument"`
		Mode       string `yaml:"mode"`
	} `yaml:"Inst"`
	Readout struct {
		ArrayName string `yaml:"array_name"`
	} `yaml:"Readout"`
	Output struct {
		TargetName string `yaml:"target_name"`
	} `yaml:"Output"`
}

// DiscoverParamFiles finds simulator paramfiles under dir. A YAML file
// counts as a paramfile when it carries a top-level Inst section.
func DiscoverParamFiles(dir string) ([]ParamFileInfo, error) {
	var found []ParamFileInfo

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		pf, err := probeParamFile(path)
		if err != nil {
			// Not every YAML file is a paramfile, keep scanning
			return nil
		}
		if pf != nil {
			found = append(found, *pf)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan for paramfiles: %w", err)
	}

	return found, nil
}

// probeParamFile returns nil when the file is YAML but not a paramfile.
func probeParamFile(path string) (*ParamFileInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var p probe
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if p.Inst.Instrument == "" {
		return nil, nil
	}

	return &ParamFileInfo{
		Path:       path,
		Instrument: p.Inst.Instrument,
		Mode:       p.Inst.Mode,
		ArrayName:  p.Readout.ArrayName,
		TargetName: p.Output.TargetName,
	}, nil
}
