package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vandalt/mirage/pkg/utils"
)

var listCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "List paramfiles under a directory",
	Long:  `Scan a directory tree for simulator paramfiles and summarize them`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  listParamFiles,
}

func listParamFiles(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	infos, err := utils.DiscoverParamFiles(dir)
	if err != nil {
		return fmt.Errorf("failed to discover paramfiles: %w", err)
	}

	if len(infos) == 0 {
		fmt.Println("No paramfiles found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FILE\tINSTRUMENT\tMODE\tARRAY\tTARGET")
	_, _ = fmt.Fprintln(w, "----\t----------\t----\t-----\t------")

	for _, info := range infos {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			info.Path,
			info.Instrument,
			info.Mode,
			info.ArrayName,
			info.TargetName,
		)
	}

	return w.Flush()
}
