package batch

import (
	"context"
	"encoding/json"

	"Furnace/internal/calc/balance"
	"Furnace/internal/calc/leaching"
	"Furnace/internal/record"

	"github.com/rotisserie/eris"
)

var ErrNoItems = &balance.FieldError{Field: "items", Reason: "no items"}

type LeachingInput struct {
	Items    []leaching.Input `json:"items"`
	SaveTest bool             `json:"save_test"`
}

// Saved identifies the stored experiment of one batch item.
type Saved struct {
	Index      int   `json:"index"`
	TestID     int64 `json:"test_id"`
	TestNumber int   `json:"test_number"`
}

type LeachingResult struct {
	Results []leaching.Result `json:"results"`
	Saved   []Saved           `json:"saved,omitempty"`
}

// CalculateLeaching calculates every item. The first failing item fails the
// whole batch and its index is part of the error.
func CalculateLeaching(in LeachingInput) (LeachingResult, error) {
	if len(in.Items) == 0 {
		return LeachingResult{}, ErrNoItems
	}
	out := LeachingResult{Results: make([]leaching.Result, 0, len(in.Items))}
	for i, item := range in.Items {
		res, err := leaching.Calculate(item)
		if err != nil {
			return LeachingResult{}, eris.Wrapf(err, "item %d", i)
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}

// SaveLeaching stores calculated items in order, stamping createdBy on each.
func SaveLeaching(ctx context.Context, s record.Saver, items []leaching.Input, results []leaching.Result, createdBy int) ([]Saved, error) {
	if s == nil {
		return nil, record.ErrNoStore
	}
	saved := make([]Saved, 0, len(results))
	for i, res := range results {
		exp := leaching.Record(items[i], res)
		raw, err := json.Marshal(items[i])
		if err != nil {
			return saved, eris.Wrapf(err, "batch: encode item %d", i)
		}
		exp.Input = raw
		exp.CreatedBy = createdBy
		if err := s.SaveExperiment(ctx, &exp); err != nil {
			return saved, eris.Wrapf(err, "batch: save item %d", i)
		}
		saved = append(saved, Saved{Index: i, TestID: exp.ID, TestNumber: exp.Number})
	}
	return saved, nil
}

// ReferenceInput builds a batch of the reference leaching series.
func ReferenceInput() LeachingInput {
	runs := leaching.Reference()
	in := LeachingInput{Items: make([]leaching.Input, 0, len(runs))}
	for _, r := range runs {
		in.Items = append(in.Items, r.Input)
	}
	return in
}
