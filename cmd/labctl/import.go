package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Furnace/internal/calc/importer"
	"Furnace/internal/record"
)

var importPath string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import flotation tests from an XLSX or JSON file",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		rep, err := importFile(ctx, store, importPath)
		if err != nil {
			return err
		}
		for _, row := range rep.Rows {
			if row.Error != "" {
				zap.L().Warn("row skipped", zap.Int("line", row.Line), zap.String("error", row.Error))
			}
		}
		zap.L().Info("import complete",
			zap.String("file", importPath),
			zap.Int("total", rep.Total),
			zap.Int("imported", rep.Imported),
			zap.Int("failed", rep.Failed),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importPath, "file", "", "path to .xlsx or .json file (required)")
	_ = importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}

func importFile(ctx context.Context, s record.Saver, path string) (importer.Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return importer.Report{}, eris.Wrap(err, "import: open file")
	}
	defer f.Close()

	var entries []importer.Entry
	if strings.EqualFold(filepath.Ext(path), ".json") {
		entries, err = importer.FromJSON(f)
	} else {
		entries, err = importer.FromXLSX(f)
	}
	if err != nil {
		return importer.Report{}, err
	}
	return importer.Flotation(ctx, entries, s, 0)
}
