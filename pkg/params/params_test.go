package params

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestLoadConfig(t *testing.T) {
	config, err := Load("testdata/niriss_soss_substrip256.yaml")
	if err != nil {
		t.Fatalf("Failed to load paramfile: %v", err)
	}

	if config.Inst.Instrument != "NIRISS" {
		t.Errorf("Expected instrument 'NIRISS', got '%s'", config.Inst.Instrument)
	}

	if config.Inst.Mode != "soss" {
		t.Errorf("Expected mode 'soss', got '%s'", config.Inst.Mode)
	}

	if !config.Inst.UseJWSTPipeline {
		t.Errorf("Expected use_JWST_pipeline to be true")
	}

	if config.Readout.ReadPattern != "NISRAPID" {
		t.Errorf("Expected readout pattern 'NISRAPID', got '%s'", config.Readout.ReadPattern)
	}

	if config.Readout.NGroup != 3 {
		t.Errorf("Expected 3 groups, got %d", config.Readout.NGroup)
	}

	if config.Readout.NInt != 1 {
		t.Errorf("Expected 1 integration, got %d", config.Readout.NInt)
	}

	if config.Readout.ArrayName != "NIS_SUBSTRIP256" {
		t.Errorf("Expected array 'NIS_SUBSTRIP256', got '%s'", config.Readout.ArrayName)
	}

	if config.Readout.Filter != "CLEAR" || config.Readout.Pupil != "GR700XD" {
		t.Errorf("Expected filter/pupil CLEAR/GR700XD, got %s/%s", config.Readout.Filter, config.Readout.Pupil)
	}

	// Reference file sentinels
	if !config.Reffiles.Superbias.IsCRDS() {
		t.Errorf("Expected superbias to resolve through CRDS, got '%s'", config.Reffiles.Superbias)
	}

	if !config.Reffiles.Transmission.IsConfig() {
		t.Errorf("Expected transmission to use the packaged default, got '%s'", config.Reffiles.Transmission)
	}

	if !config.Reffiles.IllumFlat.IsNone() {
		t.Errorf("Expected illumflat to be disabled, got '%s'", config.Reffiles.IllumFlat)
	}

	if !config.Reffiles.Dark.IsPath() {
		t.Errorf("Expected dark to be a literal path, got '%s'", config.Reffiles.Dark)
	}

	if !config.Reffiles.InvertIPC {
		t.Errorf("Expected invertIPC to be true")
	}

	if config.CosmicRay.Library != "SUNMIN" {
		t.Errorf("Expected cosmic ray library 'SUNMIN', got '%s'", config.CosmicRay.Library)
	}

	if config.CosmicRay.Seed != 2353442 {
		t.Errorf("Expected cosmic ray seed 2353442, got %d", config.CosmicRay.Seed)
	}

	if config.SimSignals.ExtendedCenter != (PixelPair{X: 1024, Y: 1024}) {
		t.Errorf("Expected extended center at 1024, 1024, got %s", config.SimSignals.ExtendedCenter)
	}

	if config.SimSignals.BackgroundRate.Level != "medium" {
		t.Errorf("Expected background level 'medium', got '%s'", config.SimSignals.BackgroundRate)
	}

	if config.Telescope.RA != 53.101 {
		t.Errorf("Expected RA 53.101, got %f", config.Telescope.RA)
	}

	if config.Telescope.Dec != -27.805 {
		t.Errorf("Expected Dec -27.805, got %f", config.Telescope.Dec)
	}

	if config.Telescope.Tracking != "sidereal" {
		t.Errorf("Expected sidereal tracking, got '%s'", config.Telescope.Tracking)
	}

	if config.Output.File != "jw00042001001_01101_00001_nis_uncal.fits" {
		t.Errorf("Unexpected output file: %s", config.Output.File)
	}

	if config.Output.ProgramNumber != "00042" {
		t.Errorf("Expected program number '00042', got '%s'", config.Output.ProgramNumber)
	}

	if config.Output.DataType != "linear" {
		t.Errorf("Expected datatype 'linear', got '%s'", config.Output.DataType)
	}

	if config.Output.TargetName != "WASP-80" {
		t.Errorf("Expected target 'WASP-80', got '%s'", config.Output.TargetName)
	}
}

func TestDefaultConfig(t *testing.T) {
	config := Default()

	if err := config.Validate(); err != nil {
		t.Fatalf("Default config validation failed: %v", err)
	}

	if config.Inst.Instrument != "NIRISS" {
		t.Errorf("Expected default instrument 'NIRISS', got '%s'", config.Inst.Instrument)
	}

	if config.Inst.Mode != "soss" {
		t.Errorf("Expected default mode 'soss', got '%s'", config.Inst.Mode)
	}

	if config.CosmicRay.Seed < 1 || config.CosmicRay.Seed > maxSeed {
		t.Errorf("Cosmic ray seed %d outside accepted range", config.CosmicRay.Seed)
	}

	if config.SimSignals.PoissonSeed < 1 || config.SimSignals.PoissonSeed > maxSeed {
		t.Errorf("Poisson seed %d outside accepted range", config.SimSignals.PoissonSeed)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string // expected TypeError field, empty when valid
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:   "negative ngroup",
			mutate: func(c *Config) { c.Readout.NGroup = -1 },
			field:  "ngroup",
		},
		{
			name:   "zero nint",
			mutate: func(c *Config) { c.Readout.NInt = 0 },
			field:  "nint",
		},
		{
			name:   "unsupported amplifier count",
			mutate: func(c *Config) { c.Readout.NAmp = 3 },
			field:  "namp",
		},
		{
			name:   "unknown instrument",
			mutate: func(c *Config) { c.Inst.Instrument = "MIRI" },
			field:  "instrument",
		},
		{
			name:   "unknown mode",
			mutate: func(c *Config) { c.Inst.Mode = "coron" },
			field:  "mode",
		},
		{
			name:   "ra above range",
			mutate: func(c *Config) { c.Telescope.RA = 400.0 },
			field:  "ra",
		},
		{
			name:   "ra at upper bound",
			mutate: func(c *Config) { c.Telescope.RA = 360.0 },
			field:  "ra",
		},
		{
			name:   "dec above range",
			mutate: func(c *Config) { c.Telescope.Dec = 95.0 },
			field:  "dec",
		},
		{
			name:   "dec below range",
			mutate: func(c *Config) { c.Telescope.Dec = -90.5 },
			field:  "dec",
		},
		{
			name:   "unknown tracking",
			mutate: func(c *Config) { c.Telescope.Tracking = "drifting" },
			field:  "tracking",
		},
		{
			name:   "negative cosmic ray seed",
			mutate: func(c *Config) { c.CosmicRay.Seed = -1 },
			field:  "seed",
		},
		{
			name:   "cosmic ray seed above range",
			mutate: func(c *Config) { c.CosmicRay.Seed = 1 << 33 },
			field:  "seed",
		},
		{
			name:   "unknown cosmic ray library",
			mutate: func(c *Config) { c.CosmicRay.Library = "QUIET" },
			field:  "library",
		},
		{
			name:   "wfe realization group above range",
			mutate: func(c *Config) { c.SimSignals.PSFWFEGroup = 5 },
			field:  "psfwfegroup",
		},
		{
			name:   "zero psf pixel fraction",
			mutate: func(c *Config) { c.SimSignals.PSFPixFrac = 0 },
			field:  "psfpixfrac",
		},
		{
			name:   "negative background rate",
			mutate: func(c *Config) { c.SimSignals.BackgroundRate = BackgroundRate{Rate: -1.5} },
			field:  "bkgdrate",
		},
		{
			name:   "empty output file",
			mutate: func(c *Config) { c.Output.File = "" },
			field:  "file",
		},
		{
			name:   "unknown datatype",
			mutate: func(c *Config) { c.Output.DataType = "cube" },
			field:  "datatype",
		},
		{
			name:   "dither position beyond total",
			mutate: func(c *Config) { c.Output.PrimaryDitherPosition = 2 },
			field:  "primary_dither_position",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.mutate(config)

			err := config.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("Unexpected validation error: %v", err)
				}
				return
			}

			var typeErr *TypeError
			if !errors.As(err, &typeErr) {
				t.Fatalf("Expected a TypeError, got %v", err)
			}
			if typeErr.Field != tt.field {
				t.Errorf("Expected TypeError on field '%s', got '%s'", tt.field, typeErr.Field)
			}
		})
	}
}

// document round-trips the baseline config through YAML into a generic
// mapping so tests can knock out or corrupt individual entries.
func document(t *testing.T) map[string]interface{} {
	t.Helper()

	data, err := yaml.Marshal(Default())
	if err != nil {
		t.Fatalf("Failed to marshal baseline config: %v", err)
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatalf("Failed to unmarshal baseline config: %v", err)
	}
	return doc
}

func parseDocument(t *testing.T, doc map[string]interface{}) (*Config, error) {
	t.Helper()

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document: %v", err)
	}
	return Parse(data, "test.yaml")
}

func TestParseMissingSection(t *testing.T) {
	for _, sec := range sections {
		t.Run(sec.name, func(t *testing.T) {
			doc := document(t)
			delete(doc, sec.name)

			_, err := parseDocument(t, doc)
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("Expected a SchemaError, got %v", err)
			}
			if schemaErr.Section != sec.name || !schemaErr.Missing || schemaErr.Field != "" {
				t.Errorf("Expected missing section error for '%s', got %v", sec.name, schemaErr)
			}
		})
	}
}

func TestParseUnknownSection(t *testing.T) {
	doc := document(t)
	doc["Extras"] = map[string]interface{}{"foo": 1}

	_, err := parseDocument(t, doc)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Expected a SchemaError, got %v", err)
	}
	if schemaErr.Section != "Extras" || schemaErr.Missing {
		t.Errorf("Expected unexpected-section error for 'Extras', got %v", schemaErr)
	}
}

func TestParseUnknownField(t *testing.T) {
	doc := document(t)
	doc["Readout"].(map[string]interface{})["cadence"] = 2

	_, err := parseDocument(t, doc)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Expected a SchemaError, got %v", err)
	}
	if schemaErr.Section != "Readout" || schemaErr.Field != "cadence" || schemaErr.Missing {
		t.Errorf("Expected unexpected-field error for Readout.cadence, got %v", schemaErr)
	}
}

func TestParseMissingRequiredField(t *testing.T) {
	doc := document(t)
	delete(doc["Readout"].(map[string]interface{}), "ngroup")

	_, err := parseDocument(t, doc)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Expected a SchemaError, got %v", err)
	}
	if schemaErr.Section != "Readout" || schemaErr.Field != "ngroup" || !schemaErr.Missing {
		t.Errorf("Expected missing-field error for Readout.ngroup, got %v", schemaErr)
	}
}

func TestParseWrongFieldType(t *testing.T) {
	doc := document(t)
	doc["Readout"].(map[string]interface{})["ngroup"] = "three"

	_, err := parseDocument(t, doc)
	var typeErr *TypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("Expected a TypeError, got %v", err)
	}
	if typeErr.Section != "Readout" {
		t.Errorf("Expected TypeError in section 'Readout', got '%s'", typeErr.Section)
	}
}

func TestParseMalformedDocument(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unclosed flow sequence", "Inst: [unclosed"},
		{"top-level sequence", "- a\n- b\n"},
		{"empty document", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "test.yaml")
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("Expected a ParseError, got %v", err)
			}
		})
	}
}

func TestParseShortRamp(t *testing.T) {
	doc := document(t)
	doc["Readout"].(map[string]interface{})["ngroup"] = 2
	doc["Readout"].(map[string]interface{})["nint"] = 1

	config, err := parseDocument(t, doc)
	if err != nil {
		t.Fatalf("Failed to parse document: %v", err)
	}

	if config.Readout.NGroup != 2 {
		t.Errorf("Expected 2 groups, got %d", config.Readout.NGroup)
	}

	if config.Readout.NInt != 1 {
		t.Errorf("Expected 1 integration, got %d", config.Readout.NInt)
	}
}

func TestRoundTrip(t *testing.T) {
	config := Default()

	path := filepath.Join(t.TempDir(), "roundtrip.yaml")
	if err := Save(config, path); err != nil {
		t.Fatalf("Failed to save paramfile: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Failed to reload paramfile: %v", err)
	}

	if !reflect.DeepEqual(config, loaded) {
		t.Errorf("Reloaded config differs from saved config:\nsaved:  %+v\nloaded: %+v", config, loaded)
	}
}

func TestSaveRejectsInvalidConfig(t *testing.T) {
	config := Default()
	config.Readout.NGroup = 0

	path := filepath.Join(t.TempDir(), "invalid.yaml")
	if err := Save(config, path); err == nil {
		t.Errorf("Expected save of invalid config to fail")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "does_not_exist.yaml")); err == nil {
		t.Errorf("Expected load of missing file to fail")
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	config := Default()

	t.Setenv("MIRAGE_NGROUP", "5")
	t.Setenv("MIRAGE_NINT", "abc") // malformed, must be ignored
	t.Setenv("MIRAGE_FILTER", "F277W")
	t.Setenv("MIRAGE_RA", "83.5")
	t.Setenv("MIRAGE_BKGDRATE", "high")
	t.Setenv("MIRAGE_DATATYPE", "raw")

	MergeWithEnvironment(config)

	if config.Readout.NGroup != 5 {
		t.Errorf("Expected 5 groups, got %d", config.Readout.NGroup)
	}

	if config.Readout.NInt != 1 {
		t.Errorf("Malformed MIRAGE_NINT should be ignored, got %d", config.Readout.NInt)
	}

	if config.Readout.Filter != "F277W" {
		t.Errorf("Expected filter 'F277W', got '%s'", config.Readout.Filter)
	}

	if config.Telescope.RA != 83.5 {
		t.Errorf("Expected RA 83.5, got %f", config.Telescope.RA)
	}

	if config.SimSignals.BackgroundRate.Level != "high" {
		t.Errorf("Expected background level 'high', got '%s'", config.SimSignals.BackgroundRate)
	}

	if config.Output.DataType != "raw" {
		t.Errorf("Expected datatype 'raw', got '%s'", config.Output.DataType)
	}
}

func TestCLIOverrides(t *testing.T) {
	config := Default()

	overrides := map[string]interface{}{
		"ngroup":   7,
		"nint":     2,
		"readpatt": "NIS",
		"ra":       150.25,
		"dec":      -45.0,
		"bkgdrate": 0.42,
		"file":     "custom_uncal.fits",
	}

	MergeWithCLIOverrides(config, overrides)

	if config.Readout.NGroup != 7 {
		t.Errorf("Expected 7 groups, got %d", config.Readout.NGroup)
	}

	if config.Readout.NInt != 2 {
		t.Errorf("Expected 2 integrations, got %d", config.Readout.NInt)
	}

	if config.Readout.ReadPattern != "NIS" {
		t.Errorf("Expected readout pattern 'NIS', got '%s'", config.Readout.ReadPattern)
	}

	if config.Telescope.RA != 150.25 || config.Telescope.Dec != -45.0 {
		t.Errorf("Expected pointing 150.25/-45.0, got %f/%f", config.Telescope.RA, config.Telescope.Dec)
	}

	if config.SimSignals.BackgroundRate.IsLevel() || config.SimSignals.BackgroundRate.Rate != 0.42 {
		t.Errorf("Expected numeric background rate 0.42, got %s", config.SimSignals.BackgroundRate)
	}

	if config.Output.File != "custom_uncal.fits" {
		t.Errorf("Expected output file 'custom_uncal.fits', got '%s'", config.Output.File)
	}
}
