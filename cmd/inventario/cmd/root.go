// Package cmd provides the command structure for the inventario CLI.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bvpisos-datascience/inventariobvp/internal/config"
	"github.com/bvpisos-datascience/inventariobvp/pkg/logging"
)

var (
	configFile   string
	verbose      bool
	quiet        bool
	outputFormat string

	// Version information set by main.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// Date is the build date.
	Date = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "inventario",
	Short: "Inventory reconciliation pipeline",
	Long: `Inventario ingests periodic inventory-count spreadsheets, normalizes
their schema, reconciles system quantities against physically counted
quantities, deduplicates against a 12-month rolling history and
republishes the consolidated base.

Configuration comes from .inventario.yaml, environment variables and a
.env file in the working directory.`,
	PersistentPreRun: setupLogging,
}

// Execute adds all child commands to the root command and runs it with
// signal-aware context for graceful shutdown.
func Execute(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is ./.inventario.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "", "output format: table, json or yaml (default auto-detect)")

	if err := viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")); err != nil {
		panic(fmt.Sprintf("Failed to bind verbose flag: %v", err))
	}
	if err := viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet")); err != nil {
		panic(fmt.Sprintf("Failed to bind quiet flag: %v", err))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName(".inventario")
	}

	// Load .env before Viper env binding, as the warehouse deployments do.
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	config.SetDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		logging.Debug().Str("file", viper.ConfigFileUsed()).Msg("Config file loaded")
	}
}

func setupLogging(_ *cobra.Command, _ []string) {
	switch {
	case verbose:
		logging.SetLevel(zerolog.DebugLevel)
	case quiet:
		logging.SetLevel(zerolog.WarnLevel)
	}
}

// loadConfig builds and validates the pipeline configuration.
func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}
