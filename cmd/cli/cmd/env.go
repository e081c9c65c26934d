package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/vandalt/mirage/pkg/config"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Manage data environments",
	Long:  `Manage reference data environment configurations`,
}

var envListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured environments",
	RunE:  listEnvironments,
}

var envAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new environment",
	RunE:  addEnvironment,
}

var envRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove an environment",
	RunE:  removeEnvironment,
}

func init() {
	envCmd.AddCommand(envListCmd)
	envCmd.AddCommand(envAddCmd)
	envCmd.AddCommand(envRemoveCmd)
}

func listEnvironments(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadEnvironments()
	if err != nil {
		return fmt.Errorf("failed to load environments: %w", err)
	}

	if len(cfg.Environments) == 0 {
		fmt.Println("No environments configured")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tDATA DIR\tCRDS")
	_, _ = fmt.Fprintln(w, "----\t--------\t----")

	for _, env := range cfg.Environments {
		crdsInfo := env.CRDSURL
		if crdsInfo == "" {
			crdsInfo = "(offline)"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", env.Name, env.DataDir, crdsInfo)
	}

	return w.Flush()
}

func addEnvironment(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadEnvironments()
	if err != nil {
		return fmt.Errorf("failed to load environments: %w", err)
	}

	var env config.Environment

	// Prompt for name
	namePrompt := &survey.Input{
		Message: "Environment name:",
	}
	if err := survey.AskOne(namePrompt, &env.Name, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	// Check if name already exists
	if _, exists := cfg.Find(env.Name); exists {
		return fmt.Errorf("environment %s already exists", env.Name)
	}

	// Prompt for data directory
	dataPrompt := &survey.Input{
		Message: "Reference data root:",
		Default: "~/mirage_data",
	}
	if err := survey.AskOne(dataPrompt, &env.DataDir, survey.WithValidator(survey.Required)); err != nil {
		return err
	}

	// Prompt for CRDS usage
	var useCRDS bool
	crdsPrompt := &survey.Confirm{
		Message: "Resolve crds entries against a CRDS server?",
		Default: true,
	}
	if err := survey.AskOne(crdsPrompt, &useCRDS); err != nil {
		return err
	}

	if useCRDS {
		urlPrompt := &survey.Input{
			Message: "CRDS server URL:",
			Default: "https://jwst-crds.stsci.edu",
		}
		if err := survey.AskOne(urlPrompt, &env.CRDSURL, survey.WithValidator(survey.Required)); err != nil {
			return err
		}

		cachePrompt := &survey.Input{
			Message: "Local CRDS cache directory (optional):",
		}
		if err := survey.AskOne(cachePrompt, &env.CRDSCache); err != nil {
			return err
		}
	}

	// Add to config
	cfg.Environments = append(cfg.Environments, env)

	// Save config
	if err := config.SaveEnvironments(cfg); err != nil {
		return fmt.Errorf("failed to save environments: %w", err)
	}

	fmt.Printf("Environment %s added successfully\n", env.Name)
	return nil
}

func removeEnvironment(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadEnvironments()
	if err != nil {
		return fmt.Errorf("failed to load environments: %w", err)
	}

	if len(cfg.Environments) == 0 {
		fmt.Println("No environments to remove")
		return nil
	}

	// Build list of environment names
	names := make([]string, len(cfg.Environments))
	for i, env := range cfg.Environments {
		names[i] = env.Name
	}

	// Prompt for selection
	var selected string
	prompt := &survey.Select{
		Message: "Select environment to remove:",
		Options: names,
	}
	if err := survey.AskOne(prompt, &selected); err != nil {
		return err
	}

	// Confirm removal
	var confirm bool
	confirmPrompt := &survey.Confirm{
		Message: fmt.Sprintf("Are you sure you want to remove %s?", selected),
		Default: false,
	}
	if err := survey.AskOne(confirmPrompt, &confirm); err != nil {
		return err
	}

	if !confirm {
		fmt.Println("Removal cancelled")
		return nil
	}

	// Remove from config
	newEnvs := make([]config.Environment, 0, len(cfg.Environments)-1)
	for _, env := range cfg.Environments {
		if env.Name != selected {
			newEnvs = append(newEnvs, env)
		}
	}
	cfg.Environments = newEnvs

	// Save config
	if err := config.SaveEnvironments(cfg); err != nil {
		return fmt.Errorf("failed to save environments: %w", err)
	}

	fmt.Printf("Environment %s removed successfully\n", selected)
	return nil
}
