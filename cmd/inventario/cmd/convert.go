package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bvpisos-datascience/inventariobvp/internal/sources/localdir"
	"github.com/bvpisos-datascience/inventariobvp/pkg/logging"
)

var convertedDir string

// convertCmd sweeps the input directory for legacy spreadsheet exports
// and pulls in their converted CSV siblings. The format conversion
// itself happens upstream; this pass only detects legacy files and
// collects the converted output into the working set.
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Collect converted CSVs for legacy spreadsheet exports",
	Long: `Convert scans the input directory for legacy .xls-era exports and, for
each one, copies the converted CSV of the same stem from the converted
directory into the input directory. Files without a converted sibling
are counted as failures so the backlog stays visible.`,
	Example: `  inventario convert --converted-dir ./converted`,
	RunE:    runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)
	convertCmd.Flags().StringVar(&convertedDir, "converted-dir", "", "directory holding converted CSV files (required)")
	_ = convertCmd.MarkFlagRequired("converted-dir")
}

func runConvert(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(cfg.Source.Dir)
	if err != nil {
		return err
	}

	var converted, skipped, failed int
	log := logging.Default()
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !localdir.IsLegacy(name, localdir.DetectMIME(name)) {
			skipped++
			continue
		}

		stem := strings.TrimSuffix(name, filepath.Ext(name))
		src := filepath.Join(convertedDir, stem+".csv")
		dst := filepath.Join(cfg.Source.Dir, stem+".csv")
		if err := copyFile(src, dst); err != nil {
			failed++
			log.Error().Err(err).Str("file", name).Msg("No converted CSV for legacy file")
			continue
		}
		converted++
		log.Info().Str("file", name).Str("csv", stem+".csv").Msg("Converted CSV collected")
	}

	fmt.Printf("converted: %d\nskipped (not legacy): %d\nfailed: %d\n", converted, skipped, failed)
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
