package params

import (
	"math/rand"
)

// NewSeed returns a fresh random number generator seed in the range the
// simulator accepts, [1, 2^32-2].
func NewSeed() int64 {
	return rand.Int63n(maxSeed-2) + 1
}

// Default returns the baseline NIRISS/SOSS SUBSTRIP256 parameter document.
// Reference files default to crds where the calibration system serves them
// and config where a packaged definition file exists.
func Default() *Config {
	return &Config{
		Inst: Inst{
			Instrument:      "NIRISS",
			Mode:            "soss",
			UseJWSTPipeline: true,
		},

		Readout: Readout{
			ReadPattern:   "NISRAPID",
			NGroup:        3,
			NInt:          1,
			NAmp:          1,
			ResetsBetInts: 1,
			ArrayName:     "NIS_SUBSTRIP256",
			Filter:        "CLEAR",
			Pupil:         "GR700XD",
		},

		Reffiles: Reffiles{
			Dark:                 "$MIRAGE_DATA/niriss/darks/raw/NISNIRISSDARK-172500017_dms_uncal.fits",
			LinearizedDarkFile:   SentinelNone,
			BadPixMask:           SentinelCRDS,
			Superbias:            SentinelCRDS,
			Linearity:            SentinelCRDS,
			Saturation:           SentinelCRDS,
			Gain:                 SentinelCRDS,
			PixelFlat:            SentinelCRDS,
			IllumFlat:            SentinelNone,
			Astrometric:          SentinelCRDS,
			Photom:               SentinelCRDS,
			IPC:                  SentinelCRDS,
			InvertIPC:            true,
			Occult:               SentinelNone,
			Transmission:         SentinelConfig,
			SubarrayDefs:         SentinelConfig,
			ReadPattDefs:         SentinelConfig,
			Crosstalk:            SentinelConfig,
			FiltPupilCombo:       SentinelConfig,
			FilterWheelPositions: SentinelConfig,
			FluxCal:              SentinelConfig,
			FilterThroughput:     SentinelConfig,
		},

		NonLin: NonLin{
			Limit:    60000.0,
			Accuracy: 0.000001,
			MaxIter:  10,
			Robberto: false,
		},

		CosmicRay: CosmicRay{
			Path:    "$MIRAGE_DATA/niriss/cosmic_ray_library",
			Library: "SUNMIN",
			Scale:   1.0,
			Suffix:  "IPC_NIRISS_NIS",
			Seed:    NewSeed(),
		},

		SimSignals: SimSignals{
			PointSource:          SentinelNone,
			PSFWingThresholdFile: SentinelConfig,
			AddPSFWings:          true,
			PSFPath:              "$MIRAGE_DATA/niriss/gridded_psf_library",
			PSFBasename:          "niriss",
			PSFPixFrac:           0.25,
			PSFWFE:               "predicted",
			PSFWFEGroup:          0,
			GalaxyListFile:       SentinelNone,
			Extended:             SentinelNone,
			ExtendedScale:        1.0,
			ExtendedCenter:       PixelPair{X: 1024, Y: 1024},
			PSFConvolveExtended:  true,
			MovingTargetList:     SentinelNone,
			MovingTargetSersic:   SentinelNone,
			MovingTargetExtended: SentinelNone,
			MovingTargetConvolve: false,
			MovingTargetToTrack:  SentinelNone,
			Zodiacal:             SentinelNone,
			ZodiScale:            1.0,
			Scattered:            SentinelNone,
			ScatteredScale:       1.0,
			BackgroundRate:       BackgroundRate{Level: "medium"},
			PoissonSeed:          NewSeed(),
			PhotonYield:          true,
			PyMethod:             true,
		},

		Telescope: Telescope{
			RA:       53.101,
			Dec:      -27.805,
			Rotation: 0.0,
			Tracking: "sidereal",
		},

		RampFitting: RampFitting{
			DQConfigFile:        SentinelConfig,
			SaturationConfig:    SentinelConfig,
			SuperbiasConfig:     SentinelConfig,
			RefpixConfig:        SentinelConfig,
			LinearityConfigFile: SentinelConfig,
		},

		Output: Output{
			File:              "jw00042001001_01101_00001_nis_uncal.fits",
			Directory:         "./",
			DataType:          "linear",
			Format:            "DMS",
			SaveIntermediates: false,
			GrismSourceImage:  false,
			Unsigned:          true,
			DMSOrient:         true,
			ProgramNumber:     "00042",
			Title:             "NIRISS SOSS transit observation",
			PIName:            "UNKNOWN",
			ProposalCategory:  "GO",
			ScienceCategory:   "Exoplanets and Exoplanet Formation",
			TargetName:        "WASP-80",
			TargetRA:          53.101,
			TargetDec:         -27.805,
			ObservationNumber: "001",
			ObservationLabel:  "Obs1",
			VisitNumber:       "001",
			VisitGroup:        "01",
			VisitID:           "42001001",
			SequenceID:        "1",
			ActivityID:        "01",
			ExposureNumber:    "00001",
			ObsID:             "V00042001001P0000000001101",
			DateObs:           "2022-07-04",
			TimeObs:           "01:23:45.678",

			PrimaryDitherType:     "NONE",
			TotalPrimaryDithers:   1,
			PrimaryDitherPosition: 1,
			SubpixDitherType:      "NONE",
			TotalSubpixDithers:    1,
			SubpixDitherPosition:  1,
			XOffset:               0.0,
			YOffset:               0.0,
		},
	}
}
