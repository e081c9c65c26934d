package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/vandalt/mirage/pkg/config"
	"github.com/vandalt/mirage/pkg/crds"
	"github.com/vandalt/mirage/pkg/logger"
	"github.com/vandalt/mirage/pkg/params"
	"github.com/vandalt/mirage/pkg/resolve"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <paramfile>",
	Short: "Resolve sentinel values in a paramfile",
	Long: `Expand None, config, crds, and $VAR-prefixed entries into concrete
file references against a data environment`,
	Args: cobra.ExactArgs(1),
	RunE: resolveParamFile,
}

func init() {
	resolveCmd.Flags().StringP("output", "o", "", "write the resolved paramfile to this path")
	resolveCmd.Flags().Bool("offline", false, "do not contact CRDS, leave crds entries deferred")
}

func resolveParamFile(cmd *cobra.Command, args []string) error {
	cfg, err := params.Load(args[0])
	if err != nil {
		return err
	}

	env, err := selectEnvironment()
	if err != nil {
		return fmt.Errorf("failed to select environment: %w", err)
	}

	resolver := &resolve.Resolver{
		DataDir:   env.DataDir,
		ConfigDir: configDir,
		CacheDir:  env.CRDSCache,
	}

	offline, _ := cmd.Flags().GetBool("offline")
	usesCRDS := hasCRDSReference(cfg)

	if usesCRDS && !offline && env.CRDSURL != "" {
		client, err := crds.NewClient(crds.Config{BaseURL: env.CRDSURL})
		if err != nil {
			return fmt.Errorf("failed to create CRDS client: %w", err)
		}
		resolver.CRDS = client
	}

	var spinner *logger.Spinner
	if resolver.CRDS != nil {
		spinner = logger.NewSpinner(fmt.Sprintf("Resolving references against %s...", env.CRDSURL))
		spinner.Start()
	}

	resolved, err := resolver.Resolve(context.Background(), cfg)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	output, _ := cmd.Flags().GetString("output")
	if output != "" {
		if err := params.Save(resolved.Config, output); err != nil {
			return err
		}
		logger.Successf("Resolved paramfile written to %s", output)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "REFERENCE\tSOURCE\tPATH")
	_, _ = fmt.Fprintln(w, "---------\t------\t----")

	for _, ref := range resolved.References {
		path := ref.Path
		if ref.Disabled {
			path = "-"
		} else if path == "" {
			path = "(deferred to CRDS)"
		}
		_, _ = fmt.Fprintf(w, "%s.%s\t%s\t%s\n", ref.Section, ref.Field, ref.Source, path)
	}

	return w.Flush()
}

// hasCRDSReference reports whether any reference field defers to CRDS.
func hasCRDSReference(cfg *params.Config) bool {
	refs := []params.RefFile{
		cfg.Reffiles.Dark, cfg.Reffiles.BadPixMask, cfg.Reffiles.Superbias,
		cfg.Reffiles.Linearity, cfg.Reffiles.Saturation, cfg.Reffiles.Gain,
		cfg.Reffiles.PixelFlat, cfg.Reffiles.Astrometric, cfg.Reffiles.Photom,
		cfg.Reffiles.IPC,
	}
	for _, r := range refs {
		if r.IsCRDS() {
			return true
		}
	}
	return false
}

// selectEnvironment picks the data environment from flags, process
// environment variables, the environment registry, or interactively.
func selectEnvironment() (*config.Environment, error) {
	// Explicit flags win
	if dataDir != "" || crdsURL != "" {
		return &config.Environment{
			Name:      "Custom",
			DataDir:   dataDir,
			CRDSURL:   crdsURL,
			CRDSCache: crdsCache,
		}, nil
	}

	// Process environment
	if mirageData := os.Getenv("MIRAGE_DATA"); mirageData != "" {
		return &config.Environment{
			Name:      "Environment",
			DataDir:   mirageData,
			CRDSURL:   os.Getenv("CRDS_SERVER_URL"),
			CRDSCache: os.Getenv("CRDS_PATH"),
		}, nil
	}

	envConfig, err := config.LoadEnvironments()
	if err != nil {
		return nil, err
	}

	// Environment specified via flag
	if envName != "" {
		env, ok := envConfig.Find(envName)
		if !ok {
			return nil, fmt.Errorf("environment %s not found", envName)
		}
		return env, nil
	}

	if len(envConfig.Environments) == 1 {
		return &envConfig.Environments[0], nil
	}

	// Interactive selection
	options := make([]string, len(envConfig.Environments))
	for i, env := range envConfig.Environments {
		options[i] = env.Name
	}

	var selected string
	prompt := &survey.Select{
		Message: "Select data environment:",
		Options: options,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, err
	}

	env, _ := envConfig.Find(selected)
	return env, nil
}
