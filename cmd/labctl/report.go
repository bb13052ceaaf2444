package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Furnace/internal/calc/report"
	"Furnace/internal/record"
)

var (
	reportID  int64
	reportOut string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render one experiment as a PDF report",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		out, err := reportFile(ctx, store, reportID, reportOut)
		if err != nil {
			return err
		}
		zap.L().Info("report written", zap.String("file", out), zap.Int64("id", reportID))
		return nil
	},
}

func init() {
	reportCmd.Flags().Int64Var(&reportID, "id", 0, "experiment id (required)")
	reportCmd.Flags().StringVar(&reportOut, "out", "", "output file (default <process>-<number>.pdf)")
	_ = reportCmd.MarkFlagRequired("id")
	rootCmd.AddCommand(reportCmd)
}

func reportFile(ctx context.Context, s record.Reader, id int64, path string) (string, error) {
	exp, err := s.GetExperiment(ctx, id)
	if err != nil {
		return "", err
	}
	if path == "" {
		path = report.Filename(*exp)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", eris.Wrap(err, "report: create file")
	}
	if err := report.Render(f, *exp); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", eris.Wrap(err, "report: close file")
	}
	return path, nil
}
