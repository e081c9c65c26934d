package params

import (
	"strings"
)

// Known value domains. Readout pattern names are defined by the readpattdefs
// reference file and are not validated here.
var (
	knownInstruments = []string{"niriss", "nircam", "fgs"}
	knownModes       = []string{"imaging", "wfss", "soss", "ami", "pom", "ts_imaging", "ts_grism", "moving_target"}
	knownCRLibraries = []string{"SUNMAX", "SUNMIN", "FLARE"}
	knownTracking    = []string{"sidereal", "non-sidereal"}
	knownDataTypes   = []string{"linear", "raw", "linear, raw"}
	knownFormats     = []string{"DMS", "SSR"}
	knownWFE         = []string{"predicted", "requirements"}
)

// maxSeed is the largest value accepted for random number generator seeds.
const maxSeed = 1<<32 - 1

func inSet(value string, set []string) bool {
	for _, s := range set {
		if strings.EqualFold(value, s) {
			return true
		}
	}
	return false
}

// Validate checks every field against its expected domain. The first
// violation is returned as a *TypeError.
func (c *Config) Validate() error {
	if !inSet(c.Inst.Instrument, knownInstruments) {
		return &TypeError{Section: "Inst", Field: "instrument", Value: c.Inst.Instrument,
			Domain: "one of " + strings.Join(knownInstruments, ", ")}
	}
	if !inSet(c.Inst.Mode, knownModes) {
		return &TypeError{Section: "Inst", Field: "mode", Value: c.Inst.Mode,
			Domain: "one of " + strings.Join(knownModes, ", ")}
	}

	if c.Readout.ReadPattern == "" {
		return &TypeError{Section: "Readout", Field: "readpatt", Value: "", Domain: "non-empty pattern name"}
	}
	if c.Readout.NGroup < 1 {
		return &TypeError{Section: "Readout", Field: "ngroup", Value: c.Readout.NGroup, Domain: "integer >= 1"}
	}
	if c.Readout.NInt < 1 {
		return &TypeError{Section: "Readout", Field: "nint", Value: c.Readout.NInt, Domain: "integer >= 1"}
	}
	if c.Readout.NAmp != 1 && c.Readout.NAmp != 4 {
		return &TypeError{Section: "Readout", Field: "namp", Value: c.Readout.NAmp, Domain: "1 or 4"}
	}
	if c.Readout.ResetsBetInts < 0 {
		return &TypeError{Section: "Readout", Field: "resets_bet_ints", Value: c.Readout.ResetsBetInts, Domain: "integer >= 0"}
	}
	if c.Readout.ArrayName == "" {
		return &TypeError{Section: "Readout", Field: "array_name", Value: "", Domain: "non-empty aperture name"}
	}

	if c.NonLin.Limit <= 0 {
		return &TypeError{Section: "nonlin", Field: "limit", Value: c.NonLin.Limit, Domain: "ADU value > 0"}
	}
	if c.NonLin.Accuracy <= 0 {
		return &TypeError{Section: "nonlin", Field: "accuracy", Value: c.NonLin.Accuracy, Domain: "threshold > 0"}
	}
	if c.NonLin.MaxIter < 1 {
		return &TypeError{Section: "nonlin", Field: "maxiter", Value: c.NonLin.MaxIter, Domain: "integer >= 1"}
	}

	if !inSet(c.CosmicRay.Library, knownCRLibraries) {
		return &TypeError{Section: "cosmicRay", Field: "library", Value: c.CosmicRay.Library,
			Domain: "one of " + strings.Join(knownCRLibraries, ", ")}
	}
	if c.CosmicRay.Scale < 0 {
		return &TypeError{Section: "cosmicRay", Field: "scale", Value: c.CosmicRay.Scale, Domain: "factor >= 0"}
	}
	if c.CosmicRay.Seed < 0 || c.CosmicRay.Seed > maxSeed {
		return &TypeError{Section: "cosmicRay", Field: "seed", Value: c.CosmicRay.Seed, Domain: "integer in [0, 2^32-1]"}
	}

	if !inSet(c.SimSignals.PSFWFE, knownWFE) {
		return &TypeError{Section: "simSignals", Field: "psfwfe", Value: c.SimSignals.PSFWFE,
			Domain: "one of " + strings.Join(knownWFE, ", ")}
	}
	if c.SimSignals.PSFWFEGroup < 0 || c.SimSignals.PSFWFEGroup > 4 {
		return &TypeError{Section: "simSignals", Field: "psfwfegroup", Value: c.SimSignals.PSFWFEGroup, Domain: "integer in [0, 4]"}
	}
	if c.SimSignals.PSFPixFrac <= 0 || c.SimSignals.PSFPixFrac > 1 {
		return &TypeError{Section: "simSignals", Field: "psfpixfrac", Value: c.SimSignals.PSFPixFrac, Domain: "fraction in (0, 1]"}
	}
	if c.SimSignals.ExtendedScale < 0 {
		return &TypeError{Section: "simSignals", Field: "extendedscale", Value: c.SimSignals.ExtendedScale, Domain: "factor >= 0"}
	}
	if c.SimSignals.ZodiScale < 0 {
		return &TypeError{Section: "simSignals", Field: "zodiscale", Value: c.SimSignals.ZodiScale, Domain: "factor >= 0"}
	}
	if c.SimSignals.ScatteredScale < 0 {
		return &TypeError{Section: "simSignals", Field: "scatteredscale", Value: c.SimSignals.ScatteredScale, Domain: "factor >= 0"}
	}
	if !c.SimSignals.BackgroundRate.IsLevel() && c.SimSignals.BackgroundRate.Rate < 0 {
		return &TypeError{Section: "simSignals", Field: "bkgdrate", Value: c.SimSignals.BackgroundRate.Rate,
			Domain: "rate >= 0 or one of low, medium, high"}
	}
	if c.SimSignals.PoissonSeed < 0 || c.SimSignals.PoissonSeed > maxSeed {
		return &TypeError{Section: "simSignals", Field: "poissonseed", Value: c.SimSignals.PoissonSeed, Domain: "integer in [0, 2^32-1]"}
	}

	if c.Telescope.RA < 0 || c.Telescope.RA >= 360 {
		return &TypeError{Section: "Telescope", Field: "ra", Value: c.Telescope.RA, Domain: "degrees in [0, 360)"}
	}
	if c.Telescope.Dec < -90 || c.Telescope.Dec > 90 {
		return &TypeError{Section: "Telescope", Field: "dec", Value: c.Telescope.Dec, Domain: "degrees in [-90, 90]"}
	}
	if !inSet(c.Telescope.Tracking, knownTracking) {
		return &TypeError{Section: "Telescope", Field: "tracking", Value: c.Telescope.Tracking,
			Domain: "one of " + strings.Join(knownTracking, ", ")}
	}

	if c.Output.File == "" {
		return &TypeError{Section: "Output", Field: "file", Value: "", Domain: "non-empty filename"}
	}
	if !inSet(c.Output.DataType, knownDataTypes) {
		return &TypeError{Section: "Output", Field: "datatype", Value: c.Output.DataType,
			Domain: `one of linear, raw, "linear, raw"`}
	}
	if !inSet(c.Output.Format, knownFormats) {
		return &TypeError{Section: "Output", Field: "format", Value: c.Output.Format,
			Domain: "one of " + strings.Join(knownFormats, ", ")}
	}
	if c.Output.TotalPrimaryDithers < 1 {
		return &TypeError{Section: "Output", Field: "total_primary_dither_positions", Value: c.Output.TotalPrimaryDithers, Domain: "integer >= 1"}
	}
	if c.Output.PrimaryDitherPosition < 1 || c.Output.PrimaryDitherPosition > c.Output.TotalPrimaryDithers {
		return &TypeError{Section: "Output", Field: "primary_dither_position", Value: c.Output.PrimaryDitherPosition,
			Domain: "integer in [1, total_primary_dither_positions]"}
	}
	if c.Output.TotalSubpixDithers < 1 {
		return &TypeError{Section: "Output", Field: "total_subpix_dither_positions", Value: c.Output.TotalSubpixDithers, Domain: "integer >= 1"}
	}
	if c.Output.SubpixDitherPosition < 1 || c.Output.SubpixDitherPosition > c.Output.TotalSubpixDithers {
		return &TypeError{Section: "Output", Field: "subpix_dither_position", Value: c.Output.SubpixDitherPosition,
			Domain: "integer in [1, total_subpix_dither_positions]"}
	}

	return nil
}
