// Package resolve expands the sentinel values of a validated parameter
// document (None, config, crds, $VAR-prefixed paths) into concrete file
// references against a data environment.
package resolve

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vandalt/mirage/pkg/crds"
	"github.com/vandalt/mirage/pkg/params"
)

// Source records how a reference was resolved.
type Source int

const (
	SourceDisabled Source = iota
	SourceLiteral
	SourceConfig
	SourceCRDS
)

func (s Source) String() string {
	switch s {
	case SourceDisabled:
		return "disabled"
	case SourceLiteral:
		return "literal"
	case SourceConfig:
		return "config"
	case SourceCRDS:
		return "crds"
	default:
		return "unknown"
	}
}

// Reference is the resolved disposition of one file reference field.
type Reference struct {
	Section  string
	Field    string
	Source   Source
	Path     string // concrete path; empty when disabled or deferred to CRDS
	Disabled bool
}

// Resolved pairs the input document with the resolution of every file
// reference field. Config is a copy with sentinels replaced by concrete
// paths (disabled features stay None).
type Resolved struct {
	Config     *params.Config
	References []Reference

	byKey map[string]int
}

// Lookup returns the resolved reference for a section/field pair.
func (r *Resolved) Lookup(section, field string) (Reference, bool) {
	idx, ok := r.byKey[section+"."+field]
	if !ok {
		return Reference{}, false
	}
	return r.References[idx], true
}

// BestRefs is the part of the CRDS client the resolver needs.
type BestRefs interface {
	BestRefs(ctx context.Context, p crds.DatasetParams, refTypes []string) (map[string]string, error)
}

// Resolver resolves sentinels against a data environment. Lookup defaults
// to os.LookupEnv. CRDS is optional; without it, crds references are left
// deferred with an empty path.
type Resolver struct {
	Lookup    func(string) (string, bool)
	DataDir   string // root for bare relative reference paths
	ConfigDir string // packaged per-instrument definition files
	CacheDir  string // local CRDS reference cache
	CRDS      BestRefs
}

// refField describes one sentinel-bearing field of the document.
type refField struct {
	section    string
	field      string
	get        func(*params.Config) params.RefFile
	set        func(*params.Config, params.RefFile)
	configName string // packaged default filename, "{inst}" expands to the instrument
	crdsType   string // CRDS reference type, empty when CRDS cannot serve it
}

var refFields = []refField{
	{"Reffiles", "dark",
		func(c *params.Config) params.RefFile { return c.Reffiles.Dark },
		func(c *params.Config, v params.RefFile) { c.Reffiles.Dark = v },
		"", "dark"},
	{"Reffiles", "linearized_darkfile",
		func(c *params.Config) params.RefFile { return c.Reffiles.LinearizedDarkFile },
		func(c *params.Config, v params.RefFile) { c.Reffiles.LinearizedDarkFile = v },
		"", ""},
	{"Reffiles", "badpixmask",
		func(c *params.Config) params.RefFile { return c.Reffiles.BadPixMask },
		func(c *params.Config, v params.RefFile) { c.Reffiles.BadPixMask = v },
		"", "mask"},
	{"Reffiles", "superbias",
		func(c *params.Config) params.RefFile { return c.Reffiles.Superbias },
		func(c *params.Config, v params.RefFile) { c.Reffiles.Superbias = v },
		"", "superbias"},
	{"Reffiles", "linearity",
		func(c *params.Config) params.RefFile { return c.Reffiles.Linearity },
		func(c *params.Config, v params.RefFile) { c.Reffiles.Linearity = v },
		"", "linearity"},
	{"Reffiles", "saturation",
		func(c *params.Config) params.RefFile { return c.Reffiles.Saturation },
		func(c *params.Config, v params.RefFile) { c.Reffiles.Saturation = v },
		"", "saturation"},
	{"Reffiles", "gain",
		func(c *params.Config) params.RefFile { return c.Reffiles.Gain },
		func(c *params.Config, v params.RefFile) { c.Reffiles.Gain = v },
		"", "gain"},
	{"Reffiles", "pixelflat",
		func(c *params.Config) params.RefFile { return c.Reffiles.PixelFlat },
		func(c *params.Config, v params.RefFile) { c.Reffiles.PixelFlat = v },
		"", "flat"},
	{"Reffiles", "illumflat",
		func(c *params.Config) params.RefFile { return c.Reffiles.IllumFlat },
		func(c *params.Config, v params.RefFile) { c.Reffiles.IllumFlat = v },
		"", ""},
	{"Reffiles", "astrometric",
		func(c *params.Config) params.RefFile { return c.Reffiles.Astrometric },
		func(c *params.Config, v params.RefFile) { c.Reffiles.Astrometric = v },
		"", "distortion"},
	{"Reffiles", "photom",
		func(c *params.Config) params.RefFile { return c.Reffiles.Photom },
		func(c *params.Config, v params.RefFile) { c.Reffiles.Photom = v },
		"", "photom"},
	{"Reffiles", "ipc",
		func(c *params.Config) params.RefFile { return c.Reffiles.IPC },
		func(c *params.Config, v params.RefFile) { c.Reffiles.IPC = v },
		"", "ipc"},
	{"Reffiles", "occult",
		func(c *params.Config) params.RefFile { return c.Reffiles.Occult },
		func(c *params.Config, v params.RefFile) { c.Reffiles.Occult = v },
		"", ""},
	{"Reffiles", "transmission",
		func(c *params.Config) params.RefFile { return c.Reffiles.Transmission },
		func(c *params.Config, v params.RefFile) { c.Reffiles.Transmission = v },
		"{inst}_transmission_image.fits", ""},
	{"Reffiles", "subarray_defs",
		func(c *params.Config) params.RefFile { return c.Reffiles.SubarrayDefs },
		func(c *params.Config, v params.RefFile) { c.Reffiles.SubarrayDefs = v },
		"{inst}_subarrays.list", ""},
	{"Reffiles", "readpattdefs",
		func(c *params.Config) params.RefFile { return c.Reffiles.ReadPattDefs },
		func(c *params.Config, v params.RefFile) { c.Reffiles.ReadPattDefs = v },
		"{inst}_readout_pattern.txt", ""},
	{"Reffiles", "crosstalk",
		func(c *params.Config) params.RefFile { return c.Reffiles.Crosstalk },
		func(c *params.Config, v params.RefFile) { c.Reffiles.Crosstalk = v },
		"{inst}_xtalk_zeros.ssb", ""},
	{"Reffiles", "filtpupilcombo",
		func(c *params.Config) params.RefFile { return c.Reffiles.FiltPupilCombo },
		func(c *params.Config, v params.RefFile) { c.Reffiles.FiltPupilCombo = v },
		"{inst}_dual_wheel_list.txt", ""},
	{"Reffiles", "filter_wheel_positions",
		func(c *params.Config) params.RefFile { return c.Reffiles.FilterWheelPositions },
		func(c *params.Config, v params.RefFile) { c.Reffiles.FilterWheelPositions = v },
		"{inst}_filter_and_pupil_wheel_positions.txt", ""},
	{"Reffiles", "flux_cal",
		func(c *params.Config) params.RefFile { return c.Reffiles.FluxCal },
		func(c *params.Config, v params.RefFile) { c.Reffiles.FluxCal = v },
		"{inst}_zeropoints.list", ""},
	{"Reffiles", "filter_throughput",
		func(c *params.Config) params.RefFile { return c.Reffiles.FilterThroughput },
		func(c *params.Config, v params.RefFile) { c.Reffiles.FilterThroughput = v },
		"{inst}_filter_throughput.txt", ""},

	{"cosmicRay", "path",
		func(c *params.Config) params.RefFile { return c.CosmicRay.Path },
		func(c *params.Config, v params.RefFile) { c.CosmicRay.Path = v },
		"", ""},

	{"simSignals", "pointsource",
		func(c *params.Config) params.RefFile { return c.SimSignals.PointSource },
		func(c *params.Config, v params.RefFile) { c.SimSignals.PointSource = v },
		"", ""},
	{"simSignals", "psf_wing_threshold_file",
		func(c *params.Config) params.RefFile { return c.SimSignals.PSFWingThresholdFile },
		func(c *params.Config, v params.RefFile) { c.SimSignals.PSFWingThresholdFile = v },
		"{inst}_psf_wing_rate_thresholds.txt", ""},
	{"simSignals", "psfpath",
		func(c *params.Config) params.RefFile { return c.SimSignals.PSFPath },
		func(c *params.Config, v params.RefFile) { c.SimSignals.PSFPath = v },
		"", ""},
	{"simSignals", "galaxyListFile",
		func(c *params.Config) params.RefFile { return c.SimSignals.GalaxyListFile },
		func(c *params.Config, v params.RefFile) { c.SimSignals.GalaxyListFile = v },
		"", ""},
	{"simSignals", "extended",
		func(c *params.Config) params.RefFile { return c.SimSignals.Extended },
		func(c *params.Config, v params.RefFile) { c.SimSignals.Extended = v },
		"", ""},
	{"simSignals", "movingTargetList",
		func(c *params.Config) params.RefFile { return c.SimSignals.MovingTargetList },
		func(c *params.Config, v params.RefFile) { c.SimSignals.MovingTargetList = v },
		"", ""},
	{"simSignals", "movingTargetSersic",
		func(c *params.Config) params.RefFile { return c.SimSignals.MovingTargetSersic },
		func(c *params.Config, v params.RefFile) { c.SimSignals.MovingTargetSersic = v },
		"", ""},
	{"simSignals", "movingTargetExtended",
		func(c *params.Config) params.RefFile { return c.SimSignals.MovingTargetExtended },
		func(c *params.Config, v params.RefFile) { c.SimSignals.MovingTargetExtended = v },
		"", ""},
	{"simSignals", "movingTargetToTrack",
		func(c *params.Config) params.RefFile { return c.SimSignals.MovingTargetToTrack },
		func(c *params.Config, v params.RefFile) { c.SimSignals.MovingTargetToTrack = v },
		"", ""},
	{"simSignals", "zodiacal",
		func(c *params.Config) params.RefFile { return c.SimSignals.Zodiacal },
		func(c *params.Config, v params.RefFile) { c.SimSignals.Zodiacal = v },
		"", ""},
	{"simSignals", "scattered",
		func(c *params.Config) params.RefFile { return c.SimSignals.Scattered },
		func(c *params.Config, v params.RefFile) { c.SimSignals.Scattered = v },
		"", ""},

	{"newRamp", "dq_configfile",
		func(c *params.Config) params.RefFile { return c.RampFitting.DQConfigFile },
		func(c *params.Config, v params.RefFile) { c.RampFitting.DQConfigFile = v },
		"dq_init.cfg", ""},
	{"newRamp", "sat_configfile",
		func(c *params.Config) params.RefFile { return c.RampFitting.SaturationConfig },
		func(c *params.Config, v params.RefFile) { c.RampFitting.SaturationConfig = v },
		"saturation.cfg", ""},
	{"newRamp", "superbias_configfile",
		func(c *params.Config) params.RefFile { return c.RampFitting.SuperbiasConfig },
		func(c *params.Config, v params.RefFile) { c.RampFitting.SuperbiasConfig = v },
		"superbias.cfg", ""},
	{"newRamp", "refpix_configfile",
		func(c *params.Config) params.RefFile { return c.RampFitting.RefpixConfig },
		func(c *params.Config, v params.RefFile) { c.RampFitting.RefpixConfig = v },
		"refpix.cfg", ""},
	{"newRamp", "linear_configfile",
		func(c *params.Config) params.RefFile { return c.RampFitting.LinearityConfigFile },
		func(c *params.Config, v params.RefFile) { c.RampFitting.LinearityConfigFile = v },
		"linearity.cfg", ""},
}

// Resolve expands every file reference field of cfg. The input document is
// not modified; the returned Resolved carries an updated copy.
func (r *Resolver) Resolve(ctx context.Context, cfg *params.Config) (*Resolved, error) {
	lookup := r.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	resolved := &Resolved{
		byKey: make(map[string]int, len(refFields)),
	}
	out := *cfg
	resolved.Config = &out

	instrument := strings.ToLower(cfg.Inst.Instrument)

	// First pass: everything except deferred CRDS lookups.
	var crdsFields []int
	for i, rf := range refFields {
		value := rf.get(cfg)
		ref := Reference{Section: rf.section, Field: rf.field}

		switch {
		case value.IsNone():
			ref.Source = SourceDisabled
			ref.Disabled = true
			rf.set(&out, params.SentinelNone)

		case value.IsConfig():
			if rf.configName == "" {
				return nil, &params.UnresolvedReferenceError{
					Section: rf.section, Field: rf.field,
					Reason: "no packaged default exists for this field",
				}
			}
			dir, err := r.configDir(rf.section, rf.field)
			if err != nil {
				return nil, err
			}
			name := strings.ReplaceAll(rf.configName, "{inst}", instrument)
			ref.Source = SourceConfig
			ref.Path = filepath.Join(dir, instrument, name)
			rf.set(&out, params.RefFile(ref.Path))

		case value.IsCRDS():
			if rf.crdsType == "" {
				return nil, &params.UnresolvedReferenceError{
					Section: rf.section, Field: rf.field,
					Reason: "CRDS does not serve this reference type",
				}
			}
			ref.Source = SourceCRDS
			crdsFields = append(crdsFields, i)

		default:
			path, err := r.expandPath(rf.section, rf.field, string(value), lookup)
			if err != nil {
				return nil, err
			}
			ref.Source = SourceLiteral
			ref.Path = path
			rf.set(&out, params.RefFile(path))
		}

		resolved.byKey[rf.section+"."+rf.field] = len(resolved.References)
		resolved.References = append(resolved.References, ref)
	}

	if len(crdsFields) > 0 && r.CRDS != nil {
		if err := r.resolveCRDS(ctx, cfg, instrument, crdsFields, resolved); err != nil {
			return nil, err
		}
	}

	return resolved, nil
}

// resolveCRDS fills in deferred references with a single bestrefs call.
func (r *Resolver) resolveCRDS(ctx context.Context, cfg *params.Config, instrument string, fields []int, resolved *Resolved) error {
	refTypes := make([]string, 0, len(fields))
	for _, i := range fields {
		refTypes = append(refTypes, refFields[i].crdsType)
	}

	p := crds.DatasetParams{
		Instrument:  cfg.Inst.Instrument,
		Detector:    detectorForArray(cfg.Readout.ArrayName),
		Filter:      cfg.Readout.Filter,
		Pupil:       cfg.Readout.Pupil,
		ReadPattern: cfg.Readout.ReadPattern,
		Subarray:    cfg.Readout.ArrayName,
		DateObs:     cfg.Output.DateObs,
		TimeObs:     cfg.Output.TimeObs,
	}

	refs, err := r.CRDS.BestRefs(ctx, p, refTypes)
	if err != nil {
		return fmt.Errorf("CRDS resolution failed: %w", err)
	}

	for _, i := range fields {
		rf := refFields[i]
		name, ok := refs[rf.crdsType]
		if !ok || name == "" {
			return &params.UnresolvedReferenceError{
				Section: rf.section, Field: rf.field,
				Reason: fmt.Sprintf("CRDS returned no match for reference type %q", rf.crdsType),
			}
		}

		path := name
		if r.CacheDir != "" {
			path = filepath.Join(r.CacheDir, "references", "jwst", instrument, name)
		}

		idx := resolved.byKey[rf.section+"."+rf.field]
		resolved.References[idx].Path = path
		rf.set(resolved.Config, params.RefFile(path))
	}

	return nil
}

// expandPath expands a leading $VAR and anchors relative paths at DataDir.
func (r *Resolver) expandPath(section, field, value string, lookup func(string) (string, bool)) (string, error) {
	path := value

	if strings.HasPrefix(path, "$") {
		name := path[1:]
		rest := ""
		if i := strings.IndexByte(name, filepath.Separator); i >= 0 {
			name, rest = name[:i], name[i+1:]
		}
		expanded, ok := lookup(name)
		if !ok {
			return "", &params.UnresolvedReferenceError{Section: section, Field: field, Variable: name}
		}
		path = filepath.Join(expanded, rest)
	}

	if !filepath.IsAbs(path) {
		if r.DataDir == "" {
			return "", &params.UnresolvedReferenceError{
				Section: section, Field: field,
				Reason: "relative path but no data directory configured",
			}
		}
		path = filepath.Join(r.DataDir, path)
	}

	return path, nil
}

// configDir returns the packaged definition file directory.
func (r *Resolver) configDir(section, field string) (string, error) {
	if r.ConfigDir != "" {
		return r.ConfigDir, nil
	}
	if r.DataDir != "" {
		return filepath.Join(r.DataDir, "config"), nil
	}
	return "", &params.UnresolvedReferenceError{
		Section: section, Field: field,
		Reason: "no config directory configured",
	}
}

// detectorForArray maps an aperture name to its detector.
func detectorForArray(arrayName string) string {
	switch {
	case strings.HasPrefix(arrayName, "NIS"):
		return "NIS"
	case strings.HasPrefix(arrayName, "NRC"):
		return strings.SplitN(arrayName, "_", 2)[0]
	case strings.HasPrefix(arrayName, "FGS"):
		return "GUIDER1"
	default:
		return arrayName
	}
}
