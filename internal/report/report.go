// Package report renders a markdown run report next to the CSV
// snapshot, so a run's outcome is diagnosable without log access.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	md "github.com/nao1215/markdown"

	"github.com/bvpisos-datascience/inventariobvp/pkg/errors"
	"github.com/bvpisos-datascience/inventariobvp/pkg/pipeline"
)

// Write renders the run summary as markdown.
func Write(w io.Writer, summary *pipeline.Summary) error {
	builder := md.NewMarkdown(w)

	builder.H1("Inventory pipeline run").LF()
	builder.PlainText(fmt.Sprintf("Executed at %s (took %s).",
		summary.ExecutedAt.Format(time.RFC3339), summary.Duration.Round(time.Millisecond))).LF().LF()

	if summary.NoValidFiles() {
		builder.PlainText(fmt.Sprintf(
			"No valid files were processed out of %d found. The consolidated base was left untouched.",
			summary.FilesFound)).LF().LF()
	}

	builder.H2("Summary").LF()
	builder.Table(md.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Files found", strconv.Itoa(summary.FilesFound)},
			{"Files processed", strconv.Itoa(summary.FilesProcessed)},
			{"Final rows", strconv.Itoa(summary.FinalRows)},
			{"Count date min", formatDate(summary.MinDate)},
			{"Count date max", formatDate(summary.MaxDate)},
			{"History superseded", strconv.Itoa(summary.Merge.HistorySuperseded)},
			{"Duplicates dropped", strconv.Itoa(summary.Merge.DuplicatesDropped)},
			{"Outside window", strconv.Itoa(summary.Merge.OutsideWindow)},
			{"Row id in dedup key", strconv.FormatBool(summary.Merge.RowIDInKey)},
		},
	}).LF()

	if len(summary.Skipped) > 0 {
		builder.H2("Skipped files").LF()
		rows := make([][]string, 0, len(summary.Skipped))
		for _, skipped := range summary.Skipped {
			rows = append(rows, []string{skipped.Name, skipped.Reason})
		}
		builder.Table(md.TableSet{
			Header: []string{"File", "Reason"},
			Rows:   rows,
		}).LF()
	}

	return builder.Build()
}

// WriteFile renders the run report to a file, creating parent
// directories as needed.
func WriteFile(path string, summary *pipeline.Summary) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer f.Close()

	if err := Write(f, summary); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

func formatDate(d *time.Time) string {
	if d == nil {
		return "-"
	}
	return d.Format("2006-01-02")
}
