package cmd

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vandalt/mirage/pkg/logger"
	"github.com/vandalt/mirage/pkg/params"
	"github.com/vandalt/mirage/pkg/utils"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new paramfile",
	Long:  `Interactively build a paramfile starting from the NIRISS/SOSS baseline`,
	RunE:  initParamFile,
}

func init() {
	initCmd.Flags().StringP("output", "o", "", "paramfile path to write (default mirage_<id>.yaml)")
}

// initParameters is the set of values prompted for when creating a
// paramfile. Everything else keeps its baseline value and can be edited in
// the generated file.
var initParameters = []utils.Parameter{
	{Name: "instrument", Type: "string", Description: "Instrument",
		Default: "NIRISS", Options: []string{"NIRISS", "NIRCam", "FGS"}},
	{Name: "mode", Type: "string", Description: "Observation mode",
		Default: "soss", Options: []string{"imaging", "wfss", "soss", "ami", "ts_imaging", "ts_grism"}},
	{Name: "array_name", Type: "string", Description: "Aperture name",
		Default: "NIS_SUBSTRIP256", Required: true},
	{Name: "readpatt", Type: "string", Description: "Readout pattern",
		Default: "NISRAPID", Required: true},
	{Name: "ngroup", Type: "integer", Description: "Groups per integration",
		Default: 3, Min: 1},
	{Name: "nint", Type: "integer", Description: "Integrations per exposure",
		Default: 1, Min: 1},
	{Name: "filter", Type: "string", Description: "Filter element",
		Default: "CLEAR", Required: true},
	{Name: "pupil", Type: "string", Description: "Pupil element",
		Default: "GR700XD", Required: true},
	{Name: "ra", Type: "float", Description: "Pointing RA (degrees)",
		Default: 53.101, Min: 0.0, Max: 359.999999},
	{Name: "dec", Type: "float", Description: "Pointing Dec (degrees)",
		Default: -27.805, Min: -90.0, Max: 90.0},
	{Name: "tracking", Type: "string", Description: "Telescope tracking",
		Default: "sidereal", Options: []string{"sidereal", "non-sidereal"}},
	{Name: "target_name", Type: "string", Description: "Target name",
		Default: "UNKNOWN"},
	{Name: "bkgdrate", Type: "string", Description: "Background rate",
		Default: "medium", Options: []string{"low", "medium", "high"}},
}

func initParamFile(cmd *cobra.Command, _ []string) error {
	values, err := utils.PromptForParameters(initParameters)
	if err != nil {
		return fmt.Errorf("failed to get parameters: %w", err)
	}

	cfg := params.Default()

	if instrument, ok := values["instrument"].(string); ok {
		cfg.Inst.Instrument = instrument
	}
	if mode, ok := values["mode"].(string); ok {
		cfg.Inst.Mode = mode
	}
	if target, ok := values["target_name"].(string); ok && target != "" {
		cfg.Output.TargetName = target
	}
	params.MergeWithCLIOverrides(cfg, values)

	// Fresh seeds and output identity for every generated file
	cfg.CosmicRay.Seed = params.NewSeed()
	cfg.SimSignals.PoissonSeed = params.NewSeed()

	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		id := strings.Split(uuid.NewString(), "-")[0]
		output = fmt.Sprintf("mirage_%s.yaml", id)
	}

	if err := params.Save(cfg, output); err != nil {
		return err
	}

	logger.Successf("Paramfile written to %s", output)
	return nil
}
