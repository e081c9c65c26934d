package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vandalt/mirage/pkg/logger"
	"github.com/vandalt/mirage/pkg/params"
)

var validateCmd = &cobra.Command{
	Use:   "validate <paramfile>...",
	Short: "Validate paramfiles",
	Long:  `Load each paramfile and check its schema and value domains`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  validateParamFiles,
}

func validateParamFiles(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FILE\tSTATUS\tDETAIL")
	_, _ = fmt.Fprintln(w, "----\t------\t------")

	failed := 0
	for _, path := range args {
		cfg, err := params.Load(path)
		if err != nil {
			failed++
			_, _ = fmt.Fprintf(w, "%s\t%s %s\t%v\n", path, logger.IconCross, errorCategory(err), err)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%s valid\t%s %s (%s)\n",
			path, logger.IconCheck, cfg.Inst.Instrument, cfg.Inst.Mode, cfg.Readout.ArrayName)
	}

	if err := w.Flush(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d paramfile(s) failed validation", failed, len(args))
	}

	logger.Successf("%d paramfile(s) valid", len(args))
	return nil
}

// errorCategory names the error class for the report.
func errorCategory(err error) string {
	var parseErr *params.ParseError
	var schemaErr *params.SchemaError
	var typeErr *params.TypeError

	switch {
	case errors.As(err, &parseErr):
		return "parse error"
	case errors.As(err, &schemaErr):
		return "schema error"
	case errors.As(err, &typeErr):
		return "type error"
	default:
		return "error"
	}
}
