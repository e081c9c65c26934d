package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vandalt/mirage/pkg/logger"
)

var (
	cfgFile   string
	envName   string
	dataDir   string
	configDir string
	crdsURL   string
	crdsCache string
	logLevel  string
	noColor   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mirage-params",
	Short: "JWST simulator paramfile toolkit",
	Long: `mirage-params authors, validates, and resolves the YAML parameter
files consumed by the JWST data simulator: detector readout settings,
reference file selections, noise and cosmic ray models, PSF library
parameters, telescope pointing, and output metadata.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mirage/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envName, "env", "", "data environment name to use")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "reference data root (overrides environment)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "packaged definition file directory")
	rootCmd.PersistentFlags().StringVar(&crdsURL, "crds-url", "", "CRDS server URL (overrides environment)")
	rootCmd.PersistentFlags().StringVar(&crdsCache, "crds-cache", "", "local CRDS reference cache directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	// Add commands
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(envCmd)
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	// Configure logger based on flags
	logger.SetLevel(logger.ParseLevel(logLevel))
	logger.SetNoColor(noColor)

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in home directory
		viper.AddConfigPath("$HOME/.mirage")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in
	_ = viper.ReadInConfig()
}
