// Package config loads and validates the pipeline configuration through
// Viper. Values come from the config file, environment variables (with
// dots mapped to underscores, e.g. SOURCE_DIR) and flags, in Viper's
// usual precedence order.
package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/bvpisos-datascience/inventariobvp/pkg/errors"
	"github.com/bvpisos-datascience/inventariobvp/pkg/inventory"
	"github.com/bvpisos-datascience/inventariobvp/pkg/reconcile"
)

// Destination names for the consolidated base.
const (
	DestinationCSV   = "csv"
	DestinationSheet = "sheet"
	DestinationBoth  = "both"
)

// History driver names.
const (
	HistoryDriverCSV    = "csv"
	HistoryDriverSQLite = "sqlite"
)

// Source configures the input container.
type Source struct {
	Dir        string `mapstructure:"dir"`
	DateFormat string `mapstructure:"date_format"`
	MaxFiles   int    `mapstructure:"max_files"`
}

// History configures the rolling historical store.
type History struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// Output configures the run's destinations.
type Output struct {
	Destination string `mapstructure:"destination"`
	CSVPath     string `mapstructure:"csv_path"`
	SheetID     string `mapstructure:"sheet_id"`
	SheetTab    string `mapstructure:"sheet_tab"`
	SheetDir    string `mapstructure:"sheet_dir"`
	ReportPath  string `mapstructure:"report_path"`
}

// Config is the full pipeline configuration, passed explicitly into the
// orchestrator at construction. There is no ambient global state.
type Config struct {
	Source  Source  `mapstructure:"source"`
	History History `mapstructure:"history"`
	Output  Output  `mapstructure:"output"`
	Window  struct {
		Months int `mapstructure:"months"`
	} `mapstructure:"window"`
}

// SetDefaults registers the configuration defaults on a Viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source.date_format", string(inventory.DateFormatISO))
	v.SetDefault("source.max_files", 450)
	v.SetDefault("history.driver", HistoryDriverCSV)
	v.SetDefault("history.path", "_outputs/base_inventario_consolidada.csv")
	v.SetDefault("output.destination", DestinationCSV)
	v.SetDefault("output.csv_path", "_outputs/base_inventario_consolidada.csv")
	v.SetDefault("output.sheet_tab", "Consolidado")
	v.SetDefault("output.sheet_dir", "_outputs/sheets")
	v.SetDefault("window.months", reconcile.DefaultWindowMonths)
}

// Load unmarshals the configuration from a Viper instance.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.NewConfigError("", "cannot unmarshal configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration before any file is processed.
// Failures here abort the run (ConfigError is fatal, pre-run).
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source.Dir) == "" {
		return errors.NewConfigError("source", "input directory not set (source.dir / SOURCE_DIR)", nil)
	}
	if !inventory.DateFormat(c.Source.DateFormat).IsValid() {
		return errors.NewConfigError("source", "date_format must be iso or compact", nil)
	}

	switch c.History.Driver {
	case HistoryDriverCSV, HistoryDriverSQLite:
	default:
		return errors.NewConfigError("history", "driver must be csv or sqlite", nil)
	}
	if strings.TrimSpace(c.History.Path) == "" {
		return errors.NewConfigError("history", "path not set", nil)
	}

	switch c.Output.Destination {
	case DestinationCSV, DestinationSheet, DestinationBoth:
	default:
		return errors.NewConfigError("output", "destination must be csv, sheet or both", nil)
	}
	if c.Output.Destination != DestinationSheet && strings.TrimSpace(c.Output.CSVPath) == "" {
		return errors.NewConfigError("output", "csv_path not set", nil)
	}
	if c.Output.Destination != DestinationCSV {
		if strings.TrimSpace(c.Output.SheetID) == "" {
			return errors.NewConfigError("output", "sheet_id not set (output.sheet_id / OUTPUT_SHEET_ID)", nil)
		}
		if strings.TrimSpace(c.Output.SheetTab) == "" {
			return errors.NewConfigError("output", "sheet_tab not set", nil)
		}
	}

	if c.Window.Months <= 0 {
		return errors.NewConfigError("window", "months must be positive", nil)
	}
	return nil
}

// DateFormat returns the configured file-name date convention.
func (c *Config) DateFormat() inventory.DateFormat {
	return inventory.DateFormat(c.Source.DateFormat)
}

// WantsCSV reports whether the CSV snapshot destination is enabled.
func (c *Config) WantsCSV() bool {
	return c.Output.Destination == DestinationCSV || c.Output.Destination == DestinationBoth
}

// WantsSheet reports whether the spreadsheet destination is enabled.
func (c *Config) WantsSheet() bool {
	return c.Output.Destination == DestinationSheet || c.Output.Destination == DestinationBoth
}
