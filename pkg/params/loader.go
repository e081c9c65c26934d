package params

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// section describes one top-level document section and where it decodes to.
type section struct {
	name   string
	target func(*Config) interface{}
}

var sections = []section{
	{"Inst", func(c *Config) interface{} { return &c.Inst }},
	{"Readout", func(c *Config) interface{} { return &c.Readout }},
	{"Reffiles", func(c *Config) interface{} { return &c.Reffiles }},
	{"nonlin", func(c *Config) interface{} { return &c.NonLin }},
	{"cosmicRay", func(c *Config) interface{} { return &c.CosmicRay }},
	{"simSignals", func(c *Config) interface{} { return &c.SimSignals }},
	{"Telescope", func(c *Config) interface{} { return &c.Telescope }},
	{"newRamp", func(c *Config) interface{} { return &c.RampFitting }},
	{"Output", func(c *Config) interface{} { return &c.Output }},
}

// Fields that must be present in the document, per section. Other fields
// fall back to their zero values and are policed by Validate.
var requiredFields = map[string][]string{
	"Inst":      {"instrument", "mode"},
	"Readout":   {"readpatt", "ngroup", "nint", "array_name"},
	"Telescope": {"ra", "dec", "tracking"},
	"Output":    {"file", "datatype", "format"},
}

// sectionFields maps each section to its allowed field names, derived from
// the yaml struct tags.
var sectionFields = map[string]map[string]bool{}

func init() {
	cfg := &Config{}
	for _, sec := range sections {
		sectionFields[sec.name] = yamlFieldSet(reflect.TypeOf(sec.target(cfg)).Elem())
	}
}

func yamlFieldSet(t reflect.Type) map[string]bool {
	fields := make(map[string]bool, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("yaml")
		if tag == "" || tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		fields[name] = true
	}
	return fields
}

// Load reads a paramfile and returns the validated configuration. Malformed
// documents fail with *ParseError, missing or unexpected sections and fields
// with *SchemaError, and out-of-domain values with *TypeError.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("paramfile not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading paramfile: %w", err)
	}

	return Parse(data, path)
}

// Parse decodes and validates a paramfile document. The path is used only
// for error reporting.
func Parse(data []byte, path string) (*Config, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if len(doc.Content) == 0 {
		return nil, &ParseError{Path: path, Err: errors.New("empty document")}
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, &ParseError{Path: path, Err: errors.New("top level must be a mapping of sections")}
	}

	present := make(map[string]*yaml.Node, len(sections))
	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		if _, known := sectionFields[name]; !known {
			return nil, &SchemaError{Path: path, Section: name}
		}
		present[name] = root.Content[i+1]
	}

	cfg := &Config{}
	for _, sec := range sections {
		node, ok := present[sec.name]
		if !ok {
			return nil, &SchemaError{Path: path, Section: sec.name, Missing: true}
		}
		if err := decodeSection(path, sec.name, node, sec.target(cfg)); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func decodeSection(path, name string, node *yaml.Node, target interface{}) error {
	if node.Kind != yaml.MappingNode {
		return &ParseError{Path: path, Err: fmt.Errorf("section %q must be a mapping", name)}
	}

	seen := make(map[string]bool, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		field := node.Content[i].Value
		if !sectionFields[name][field] {
			return &SchemaError{Path: path, Section: name, Field: field}
		}
		seen[field] = true
	}
	for _, field := range requiredFields[name] {
		if !seen[field] {
			return &SchemaError{Path: path, Section: name, Field: field, Missing: true}
		}
	}

	if err := node.Decode(target); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return &TypeError{Section: name, Err: err}
		}
		return &ParseError{Path: path, Err: err}
	}
	return nil
}

// LoadOrDefault loads a paramfile when a path is given, falls back to the
// baseline document otherwise, and always applies environment overrides.
func LoadOrDefault(path string) (*Config, error) {
	var cfg *Config

	if path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = Default()
	}

	MergeWithEnvironment(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save validates the configuration and writes it as YAML.
func Save(cfg *Config, path string) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling paramfile: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing paramfile: %w", err)
	}

	return nil
}

// MergeWithEnvironment applies MIRAGE_* environment variable overrides.
func MergeWithEnvironment(cfg *Config) {
	if pattern := os.Getenv("MIRAGE_READPATT"); pattern != "" {
		cfg.Readout.ReadPattern = pattern
	}

	if ngroup := os.Getenv("MIRAGE_NGROUP"); ngroup != "" {
		if n, err := strconv.Atoi(ngroup); err == nil && n > 0 {
			cfg.Readout.NGroup = n
		}
	}

	if nint := os.Getenv("MIRAGE_NINT"); nint != "" {
		if n, err := strconv.Atoi(nint); err == nil && n > 0 {
			cfg.Readout.NInt = n
		}
	}

	if array := os.Getenv("MIRAGE_ARRAY_NAME"); array != "" {
		cfg.Readout.ArrayName = array
	}

	if filter := os.Getenv("MIRAGE_FILTER"); filter != "" {
		cfg.Readout.Filter = filter
	}

	if pupil := os.Getenv("MIRAGE_PUPIL"); pupil != "" {
		cfg.Readout.Pupil = pupil
	}

	if ra := os.Getenv("MIRAGE_RA"); ra != "" {
		if v, err := strconv.ParseFloat(ra, 64); err == nil && v >= 0 && v < 360 {
			cfg.Telescope.RA = v
		}
	}

	if dec := os.Getenv("MIRAGE_DEC"); dec != "" {
		if v, err := strconv.ParseFloat(dec, 64); err == nil && v >= -90 && v <= 90 {
			cfg.Telescope.Dec = v
		}
	}

	if rotation := os.Getenv("MIRAGE_ROTATION"); rotation != "" {
		if v, err := strconv.ParseFloat(rotation, 64); err == nil {
			cfg.Telescope.Rotation = v
		}
	}

	if tracking := os.Getenv("MIRAGE_TRACKING"); tracking != "" {
		if inSet(tracking, knownTracking) {
			cfg.Telescope.Tracking = strings.ToLower(tracking)
		}
	}

	if library := os.Getenv("MIRAGE_COSMIC_RAY_LIBRARY"); library != "" {
		if inSet(library, knownCRLibraries) {
			cfg.CosmicRay.Library = strings.ToUpper(library)
		}
	}

	if scale := os.Getenv("MIRAGE_COSMIC_RAY_SCALE"); scale != "" {
		if v, err := strconv.ParseFloat(scale, 64); err == nil && v >= 0 {
			cfg.CosmicRay.Scale = v
		}
	}

	if rate := os.Getenv("MIRAGE_BKGDRATE"); rate != "" {
		lower := strings.ToLower(rate)
		if inSet(lower, backgroundLevels) {
			cfg.SimSignals.BackgroundRate = BackgroundRate{Level: lower}
		} else if v, err := strconv.ParseFloat(rate, 64); err == nil && v >= 0 {
			cfg.SimSignals.BackgroundRate = BackgroundRate{Rate: v}
		}
	}

	if dir := os.Getenv("MIRAGE_OUTPUT_DIR"); dir != "" {
		cfg.Output.Directory = dir
	}

	if file := os.Getenv("MIRAGE_OUTPUT_FILE"); file != "" {
		cfg.Output.File = file
	}

	if datatype := os.Getenv("MIRAGE_DATATYPE"); datatype != "" {
		if inSet(datatype, knownDataTypes) {
			cfg.Output.DataType = strings.ToLower(datatype)
		}
	}
}

// MergeWithCLIOverrides applies CLI parameter overrides to the configuration.
func MergeWithCLIOverrides(cfg *Config, overrides map[string]interface{}) {
	for key, value := range overrides {
		switch key {
		case "readpatt":
			if pattern, ok := value.(string); ok && pattern != "" {
				cfg.Readout.ReadPattern = pattern
			}
		case "ngroup":
			if n, ok := value.(int); ok && n > 0 {
				cfg.Readout.NGroup = n
			}
		case "nint":
			if n, ok := value.(int); ok && n > 0 {
				cfg.Readout.NInt = n
			}
		case "array_name":
			if array, ok := value.(string); ok && array != "" {
				cfg.Readout.ArrayName = array
			}
		case "filter":
			if filter, ok := value.(string); ok {
				cfg.Readout.Filter = filter
			}
		case "pupil":
			if pupil, ok := value.(string); ok {
				cfg.Readout.Pupil = pupil
			}
		case "ra":
			if v, ok := value.(float64); ok && v >= 0 && v < 360 {
				cfg.Telescope.RA = v
			}
		case "dec":
			if v, ok := value.(float64); ok && v >= -90 && v <= 90 {
				cfg.Telescope.Dec = v
			}
		case "rotation":
			if v, ok := value.(float64); ok {
				cfg.Telescope.Rotation = v
			}
		case "tracking":
			if tracking, ok := value.(string); ok && inSet(tracking, knownTracking) {
				cfg.Telescope.Tracking = strings.ToLower(tracking)
			}
		case "bkgdrate":
			switch v := value.(type) {
			case string:
				if inSet(v, backgroundLevels) {
					cfg.SimSignals.BackgroundRate = BackgroundRate{Level: strings.ToLower(v)}
				}
			case float64:
				if v >= 0 {
					cfg.SimSignals.BackgroundRate = BackgroundRate{Rate: v}
				}
			}
		case "datatype":
			if datatype, ok := value.(string); ok && inSet(datatype, knownDataTypes) {
				cfg.Output.DataType = strings.ToLower(datatype)
			}
		case "directory":
			if dir, ok := value.(string); ok && dir != "" {
				cfg.Output.Directory = dir
			}
		case "file":
			if file, ok := value.(string); ok && file != "" {
				cfg.Output.File = file
			}
		}
	}
}
