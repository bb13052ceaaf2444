package main

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"Furnace/internal/calc/batch"
	"Furnace/internal/calc/sorption"
	"Furnace/internal/record"
)

var seedSkipSorption bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Store the reference leaching and sorption experiments",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		store, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer store.Close()

		leached, sorbed, err := seed(ctx, store, !seedSkipSorption)
		if err != nil {
			return err
		}
		zap.L().Info("seed complete",
			zap.Int("leaching", leached),
			zap.Int("sorption", sorbed),
		)
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedSkipSorption, "skip-sorption", false, "only seed the leaching reference series")
	rootCmd.AddCommand(seedCmd)
}

// seeded reports whether the process already holds experiments. Reference
// runs are stored once; a second seed leaves the process untouched.
func seeded(ctx context.Context, s record.Reader, p record.Process) (bool, error) {
	exps, err := s.ListExperiments(ctx, p)
	if err != nil {
		return false, eris.Wrapf(err, "seed: list %s", p)
	}
	return len(exps) > 0, nil
}

func seed(ctx context.Context, s record.Store, withSorption bool) (int, int, error) {
	leached, err := seedLeaching(ctx, s)
	if err != nil || !withSorption {
		return leached, 0, err
	}
	sorbed, err := seedSorption(ctx, s)
	return leached, sorbed, err
}

func seedLeaching(ctx context.Context, s record.Store) (int, error) {
	done, err := seeded(ctx, s, record.ProcessLeaching)
	if err != nil {
		return 0, err
	}
	if done {
		zap.L().Info("leaching reference already stored, skipping")
		return 0, nil
	}
	in := batch.ReferenceInput()
	res, err := batch.CalculateLeaching(in)
	if err != nil {
		return 0, eris.Wrap(err, "seed: leaching reference")
	}
	saved, err := batch.SaveLeaching(ctx, s, in.Items, res.Results, 0)
	if err != nil {
		return len(saved), eris.Wrap(err, "seed: save leaching reference")
	}
	return len(saved), nil
}

func seedSorption(ctx context.Context, s record.Store) (int, error) {
	done, err := seeded(ctx, s, record.ProcessSorption)
	if err != nil {
		return 0, err
	}
	if done {
		zap.L().Info("sorption reference already stored, skipping")
		return 0, nil
	}
	calc := sorption.New()
	sorbed := 0
	for _, point := range sorption.Reference() {
		out, err := calc.Calculate(point)
		if err != nil {
			return sorbed, eris.Wrap(err, "seed: sorption reference")
		}
		exp := sorption.Record(point, out)
		if exp.Input, err = json.Marshal(point); err != nil {
			return sorbed, eris.Wrap(err, "seed: encode sorption input")
		}
		if err := s.SaveExperiment(ctx, &exp); err != nil {
			return sorbed, eris.Wrap(err, "seed: save sorption reference")
		}
		sorbed++
	}
	return sorbed, nil
}
