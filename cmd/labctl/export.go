package main

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Furnace/internal/calc/importer"
	"Furnace/internal/record"
)

var (
	exportProcess string
	exportOut     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one process's experiments to XLSX",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		p, ok := record.ParseProcess(exportProcess)
		if !ok {
			return eris.Errorf("unknown process %q", exportProcess)
		}
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		out := exportOut
		if out == "" {
			out = string(p) + ".xlsx"
		}
		n, err := exportFile(ctx, store, p, out)
		if err != nil {
			return err
		}
		zap.L().Info("export complete", zap.String("file", out), zap.Int("experiments", n))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportProcess, "process", "", "antimony, flotation, leaching or sorption (required)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output file (default <process>.xlsx)")
	_ = exportCmd.MarkFlagRequired("process")
	rootCmd.AddCommand(exportCmd)
}

func exportFile(ctx context.Context, s record.Reader, p record.Process, path string) (int, error) {
	exps, err := s.ListExperiments(ctx, p)
	if err != nil {
		return 0, err
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, eris.Wrap(err, "export: create file")
	}
	if err := importer.Export(f, string(p), exps); err != nil {
		f.Close()
		return 0, err
	}
	if err := f.Close(); err != nil {
		return 0, eris.Wrap(err, "export: close file")
	}
	return len(exps), nil
}
