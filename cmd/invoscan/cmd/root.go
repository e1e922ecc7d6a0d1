// Package cmd implements the invoscan command line interface.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/invoscan/invoscan/internal/config"
	"github.com/invoscan/invoscan/internal/version"
)

var (
	configLoader *config.Loader
	globalConfig *config.Config
	cfgFile      string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "invoscan",
	Short: "Extract structured fields from PDF invoices",
	Long: `invoscan turns scanned or digital PDF invoices into structured records:
company name, invoice number and date, FSSAI license number and the
product line items, each with a confidence score.

Digital PDFs are read through their embedded text layer; scanned pages
fall back to tesseract OCR. Results are cached by document fingerprint
so reprocessing the same file is cheap.

Examples:
  invoscan process invoice.pdf
  invoscan batch ./invoices --recursive --format json
  invoscan templates`,
	Version: version.String(),
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCommand returns the root command for testing purposes.
func GetRootCommand() *cobra.Command {
	return rootCmd
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is search in ., $HOME, $HOME/.config/invoscan, /etc/invoscan)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (equivalent to --log-level=debug)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if globalConfig == nil {
			initConfig()
		}
		setupLogging(globalConfig)
	}
}

func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	} else {
		switch cfg.LogLevel {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// initConfig reads in the config file and environment variables.
func initConfig() {
	configLoader = config.NewLoader()

	var err error
	if cfgFile != "" {
		globalConfig, err = configLoader.LoadWithFile(cfgFile)
	} else {
		globalConfig, err = configLoader.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

// GetConfig returns the loaded configuration, loading it on first use.
func GetConfig() *config.Config {
	if globalConfig == nil {
		initConfig()
	}
	return globalConfig
}
