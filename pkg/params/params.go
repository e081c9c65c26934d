package params

import (
	"fmt"
)

// Config holds a complete simulator parameter document. Section and field
// names follow the YAML paramfile layout consumed by the ramp simulator.
type Config struct {
	// Instrument and observation mode
	Inst Inst `yaml:"Inst"`

	// Detector readout settings
	Readout Readout `yaml:"Readout"`

	// Calibration reference file selections
	Reffiles Reffiles `yaml:"Reffiles"`

	// Non-linearity correction parameters
	NonLin NonLin `yaml:"nonlin"`

	// Cosmic ray injection parameters
	CosmicRay CosmicRay `yaml:"cosmicRay"`

	// Synthetic source and background parameters
	SimSignals SimSignals `yaml:"simSignals"`

	// Telescope pointing
	Telescope Telescope `yaml:"Telescope"`

	// Calibration step config files for ramp construction
	RampFitting RampFitting `yaml:"newRamp"`

	// Output product metadata
	Output Output `yaml:"Output"`
}

// Inst identifies the target instrument and observation mode.
type Inst struct {
	Instrument      string `yaml:"instrument"`
	Mode            string `yaml:"mode"`
	UseJWSTPipeline bool   `yaml:"use_JWST_pipeline"`
}

// Readout holds detector exposure timing settings.
type Readout struct {
	ReadPattern    string `yaml:"readpatt"`
	NGroup         int    `yaml:"ngroup"`
	NInt           int    `yaml:"nint"`
	NAmp           int    `yaml:"namp"`
	ResetsBetInts  int    `yaml:"resets_bet_ints"`
	ArrayName      string `yaml:"array_name"`
	Filter         string `yaml:"filter"`
	Pupil          string `yaml:"pupil"`
}

// Reffiles selects the calibration reference files. Each entry may be a
// literal path, an environment-variable-prefixed path, or one of the
// sentinels None, config, crds.
type Reffiles struct {
	Dark                 RefFile `yaml:"dark"`
	LinearizedDarkFile   RefFile `yaml:"linearized_darkfile"`
	BadPixMask           RefFile `yaml:"badpixmask"`
	Superbias            RefFile `yaml:"superbias"`
	Linearity            RefFile `yaml:"linearity"`
	Saturation           RefFile `yaml:"saturation"`
	Gain                 RefFile `yaml:"gain"`
	PixelFlat            RefFile `yaml:"pixelflat"`
	IllumFlat            RefFile `yaml:"illumflat"`
	Astrometric          RefFile `yaml:"astrometric"`
	Photom               RefFile `yaml:"photom"`
	IPC                  RefFile `yaml:"ipc"`
	InvertIPC            bool    `yaml:"invertIPC"`
	Occult               RefFile `yaml:"occult"`
	Transmission         RefFile `yaml:"transmission"`
	SubarrayDefs         RefFile `yaml:"subarray_defs"`
	ReadPattDefs         RefFile `yaml:"readpattdefs"`
	Crosstalk            RefFile `yaml:"crosstalk"`
	FiltPupilCombo       RefFile `yaml:"filtpupilcombo"`
	FilterWheelPositions RefFile `yaml:"filter_wheel_positions"`
	FluxCal              RefFile `yaml:"flux_cal"`
	FilterThroughput     RefFile `yaml:"filter_throughput"`
}

// NonLin holds the non-linearity correction model parameters.
type NonLin struct {
	Limit    float64 `yaml:"limit"`    // upper signal limit (ADU)
	Accuracy float64 `yaml:"accuracy"` // convergence threshold
	MaxIter  int     `yaml:"maxiter"`
	Robberto bool    `yaml:"robberto"`
}

// CosmicRay holds cosmic ray injection parameters.
type CosmicRay struct {
	Path    RefFile `yaml:"path"`
	Library string  `yaml:"library"` // SUNMAX, SUNMIN, FLARE
	Scale   float64 `yaml:"scale"`
	Suffix  string  `yaml:"suffix"`
	Seed    int64   `yaml:"seed"`
}

// SimSignals holds synthetic source, PSF library, and background parameters.
type SimSignals struct {
	PointSource          RefFile        `yaml:"pointsource"`
	PSFWingThresholdFile RefFile        `yaml:"psf_wing_threshold_file"`
	AddPSFWings          bool           `yaml:"add_psf_wings"`
	PSFPath              RefFile        `yaml:"psfpath"`
	PSFBasename          string         `yaml:"psfbasename"`
	PSFPixFrac           float64        `yaml:"psfpixfrac"`
	PSFWFE               string         `yaml:"psfwfe"` // predicted or requirements
	PSFWFEGroup          int            `yaml:"psfwfegroup"`
	GalaxyListFile       RefFile        `yaml:"galaxyListFile"`
	Extended             RefFile        `yaml:"extended"`
	ExtendedScale        float64        `yaml:"extendedscale"`
	ExtendedCenter       PixelPair      `yaml:"extendedCenter"`
	PSFConvolveExtended  bool           `yaml:"PSFConvolveExtended"`
	MovingTargetList     RefFile        `yaml:"movingTargetList"`
	MovingTargetSersic   RefFile        `yaml:"movingTargetSersic"`
	MovingTargetExtended RefFile        `yaml:"movingTargetExtended"`
	MovingTargetConvolve bool           `yaml:"movingTargetConvolveExtended"`
	MovingTargetToTrack  RefFile        `yaml:"movingTargetToTrack"`
	Zodiacal             RefFile        `yaml:"zodiacal"`
	ZodiScale            float64        `yaml:"zodiscale"`
	Scattered            RefFile        `yaml:"scattered"`
	ScatteredScale       float64        `yaml:"scatteredscale"`
	BackgroundRate       BackgroundRate `yaml:"bkgdrate"`
	PoissonSeed          int64          `yaml:"poissonseed"`
	PhotonYield          bool           `yaml:"photonyield"`
	PyMethod             bool           `yaml:"pymethod"`
}

// Telescope holds the simulated pointing.
type Telescope struct {
	RA       float64 `yaml:"ra"`       // degrees, [0, 360)
	Dec      float64 `yaml:"dec"`      // degrees, [-90, 90]
	Rotation float64 `yaml:"rotation"` // PA_V3 in degrees
	Tracking string  `yaml:"tracking"` // sidereal or non-sidereal
}

// RampFitting names the calibration pipeline step configuration files used
// when assembling the output ramp.
type RampFitting struct {
	DQConfigFile        RefFile `yaml:"dq_configfile"`
	SaturationConfig    RefFile `yaml:"sat_configfile"`
	SuperbiasConfig     RefFile `yaml:"superbias_configfile"`
	RefpixConfig        RefFile `yaml:"refpix_configfile"`
	LinearityConfigFile RefFile `yaml:"linear_configfile"`
}

// Output holds product metadata: file naming, program identifiers, and
// dither bookkeeping. Dither entries are metadata only; offsets are not
// computed here.
type Output struct {
	File              string  `yaml:"file"`
	Directory         string  `yaml:"directory"`
	DataType          string  `yaml:"datatype"` // linear, raw, or "linear, raw"
	Format            string  `yaml:"format"`   // DMS or SSR
	SaveIntermediates bool    `yaml:"save_intermediates"`
	GrismSourceImage  bool    `yaml:"grism_source_image"`
	Unsigned          bool    `yaml:"unsigned"`
	DMSOrient         bool    `yaml:"dmsOrient"`
	ProgramNumber     string  `yaml:"program_number"`
	Title             string  `yaml:"title"`
	PIName            string  `yaml:"PI_Name"`
	ProposalCategory  string  `yaml:"Proposal_category"`
	ScienceCategory   string  `yaml:"Science_category"`
	TargetName        string  `yaml:"target_name"`
	TargetRA          float64 `yaml:"target_ra"`
	TargetDec         float64 `yaml:"target_dec"`
	ObservationNumber string  `yaml:"observation_number"`
	ObservationLabel  string  `yaml:"observation_label"`
	VisitNumber       string  `yaml:"visit_number"`
	VisitGroup        string  `yaml:"visit_group"`
	VisitID           string  `yaml:"visit_id"`
	SequenceID        string  `yaml:"sequence_id"`
	ActivityID        string  `yaml:"activity_id"`
	ExposureNumber    string  `yaml:"exposure_number"`
	ObsID             string  `yaml:"obs_id"`
	DateObs           string  `yaml:"date_obs"`
	TimeObs           string  `yaml:"time_obs"`

	PrimaryDitherType     string  `yaml:"primary_dither_type"`
	TotalPrimaryDithers   int     `yaml:"total_primary_dither_positions"`
	PrimaryDitherPosition int     `yaml:"primary_dither_position"`
	SubpixDitherType      string  `yaml:"subpix_dither_type"`
	TotalSubpixDithers    int     `yaml:"total_subpix_dither_positions"`
	SubpixDitherPosition  int     `yaml:"subpix_dither_position"`
	XOffset               float64 `yaml:"xoffset"` // arcsec
	YOffset               float64 `yaml:"yoffset"` // arcsec
}

// String returns a human-readable representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf(`Simulation Parameters:
  Instrument: %s
  Mode: %s
  Use JWST Pipeline: %t

Readout:
  Pattern: %s
  Groups: %d
  Integrations: %d
  Amplifiers: %d
  Array: %s
  Filter/Pupil: %s/%s

Cosmic Rays:
  Library: %s
  Scale: %.2f
  Seed: %d

Signals:
  PSF Path: %s
  PSF WFE: %s (group %d)
  Background Rate: %s
  Poisson Seed: %d

Telescope:
  RA: %.6f
  Dec: %.6f
  Rotation: %.3f
  Tracking: %s

Output:
  File: %s
  Directory: %s
  Data Type: %s
  Format: %s
  Program: %s
  Target: %s
  Observation: %s (visit %s)`,
		c.Inst.Instrument,
		c.Inst.Mode,
		c.Inst.UseJWSTPipeline,
		c.Readout.ReadPattern,
		c.Readout.NGroup,
		c.Readout.NInt,
		c.Readout.NAmp,
		c.Readout.ArrayName,
		c.Readout.Filter,
		c.Readout.Pupil,
		c.CosmicRay.Library,
		c.CosmicRay.Scale,
		c.CosmicRay.Seed,
		c.SimSignals.PSFPath,
		c.SimSignals.PSFWFE,
		c.SimSignals.PSFWFEGroup,
		c.SimSignals.BackgroundRate,
		c.SimSignals.PoissonSeed,
		c.Telescope.RA,
		c.Telescope.Dec,
		c.Telescope.Rotation,
		c.Telescope.Tracking,
		c.Output.File,
		c.Output.Directory,
		c.Output.DataType,
		c.Output.Format,
		c.Output.ProgramNumber,
		c.Output.TargetName,
		c.Output.ObservationNumber,
		c.Output.VisitNumber,
	)
}
