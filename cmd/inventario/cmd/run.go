package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	cliout "github.com/bvpisos-datascience/inventariobvp/internal/cli/output"
	"github.com/bvpisos-datascience/inventariobvp/internal/config"
	"github.com/bvpisos-datascience/inventariobvp/internal/history"
	"github.com/bvpisos-datascience/inventariobvp/internal/output"
	"github.com/bvpisos-datascience/inventariobvp/internal/report"
	"github.com/bvpisos-datascience/inventariobvp/internal/sources/localdir"
	"github.com/bvpisos-datascience/inventariobvp/pkg/logging"
	"github.com/bvpisos-datascience/inventariobvp/pkg/pipeline"
	"github.com/bvpisos-datascience/inventariobvp/pkg/reconcile"
)

// runCmd executes one reconciliation run.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Ingest, reconcile and republish the inventory base",
	Long: `Run executes one batch run: lists the source files in the input
directory, transforms each one (skipping unreadable or schema-invalid
files), merges the batch with the rolling history and republishes the
consolidated base to the configured destinations.`,
	Example: `  inventario run
  inventario run --config ./prod.yaml -o json`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	format, err := cliout.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	src := localdir.New(cfg.Source.Dir)

	var store pipeline.History
	switch cfg.History.Driver {
	case config.HistoryDriverSQLite:
		sqliteStore, err := history.OpenSQLite(cfg.History.Path)
		if err != nil {
			return err
		}
		defer sqliteStore.Close()
		store = sqliteStore
	default:
		store = history.NewCSVStore(cfg.History.Path)
	}

	var publishers []pipeline.Publisher
	if cfg.WantsCSV() {
		// When the CSV history store already lives at the snapshot path,
		// saving history produces the snapshot.
		if cfg.History.Driver != config.HistoryDriverCSV || cfg.History.Path != cfg.Output.CSVPath {
			publishers = append(publishers, output.NewCSVPublisher(cfg.Output.CSVPath))
		}
	}
	if cfg.WantsSheet() {
		client := output.NewFileValuesClient(cfg.Output.SheetDir)
		publishers = append(publishers, output.NewSheetPublisher(client, cfg.Output.SheetID, cfg.Output.SheetTab))
	}

	p := pipeline.New(src, src, store,
		pipeline.WithPublishers(publishers...),
		pipeline.WithDateFormat(cfg.DateFormat()),
		pipeline.WithMaxFiles(cfg.Source.MaxFiles),
		pipeline.WithMerger(reconcile.New(reconcile.WithWindowMonths(cfg.Window.Months))),
	)

	ctx := logging.WithLogger(cmd.Context(), logging.Default())
	summary, err := p.Run(ctx)
	if err != nil {
		return err
	}

	if cfg.Output.ReportPath != "" {
		if err := report.WriteFile(cfg.Output.ReportPath, summary); err != nil {
			return err
		}
	}

	if summary.NoValidFiles() {
		fmt.Fprintf(os.Stderr, "warning: no valid files processed (%d found)\n", summary.FilesFound)
	}
	return renderSummary(format, summary)
}

func renderSummary(format cliout.Format, summary *pipeline.Summary) error {
	format = cliout.DetectFormat(string(format))
	formatter := cliout.NewFormatter(format)

	if format != cliout.FormatTable {
		return formatter.Format(os.Stdout, summary)
	}

	data := cliout.Data{
		Headers: []string{"Files found", "Files processed", "Final rows", "Min date", "Max date"},
		Rows: [][]string{{
			strconv.Itoa(summary.FilesFound),
			strconv.Itoa(summary.FilesProcessed),
			strconv.Itoa(summary.FinalRows),
			formatSummaryDate(summary.MinDate),
			formatSummaryDate(summary.MaxDate),
		}},
	}
	if err := formatter.Format(os.Stdout, data); err != nil {
		return err
	}

	if len(summary.Skipped) > 0 {
		skipped := cliout.Data{Headers: []string{"Skipped file", "Reason"}}
		for _, s := range summary.Skipped {
			skipped.Rows = append(skipped.Rows, []string{s.Name, s.Reason})
		}
		return formatter.Format(os.Stdout, skipped)
	}
	return nil
}

func formatSummaryDate(d *time.Time) string {
	if d == nil {
		return "-"
	}
	return d.Format("2006-01-02")
}
