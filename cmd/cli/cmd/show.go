package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vandalt/mirage/pkg/params"
)

var showCmd = &cobra.Command{
	Use:   "show <paramfile>",
	Short: "Show a paramfile summary",
	Long:  `Load a paramfile and print a human-readable summary`,
	Args:  cobra.ExactArgs(1),
	RunE:  showParamFile,
}

func showParamFile(cmd *cobra.Command, args []string) error {
	cfg, err := params.Load(args[0])
	if err != nil {
		return err
	}

	fmt.Println(cfg.String())
	return nil
}
