// Package analytics aggregates stored experiments into dashboard figures.
package analytics

import (
	"cmp"
	"slices"

	"Furnace/internal/record"
)

type Summary struct {
	Count int     `json:"count"`
	Avg   float64 `json:"avg"`
	Max   float64 `json:"max"`
	Min   float64 `json:"min"`
}

// Summarize returns a zero Summary for no values.
func Summarize(vals []float64) Summary {
	if len(vals) == 0 {
		return Summary{}
	}
	s := Summary{Count: len(vals), Max: vals[0], Min: vals[0]}
	sum := 0.0
	for _, v := range vals {
		sum += v
		s.Max = max(s.Max, v)
		s.Min = min(s.Min, v)
	}
	s.Avg = sum / float64(len(vals))
	return s
}

func mean(vals []float64) float64 {
	return Summarize(vals).Avg
}

// Ref points at one experiment and the value it was picked for.
type Ref struct {
	ID     int64   `json:"id"`
	Number int     `json:"number"`
	Value  float64 `json:"value"`
}

func refOf(e record.Experiment, v float64) *Ref {
	return &Ref{ID: e.ID, Number: e.Number, Value: v}
}

// Metric reads one value from an experiment.
type Metric func(record.Experiment) float64

func ByMetric(name string) Metric {
	return func(e record.Experiment) float64 { return e.Metric(name) }
}

func values(exps []record.Experiment, m Metric) []float64 {
	out := make([]float64, len(exps))
	for i, e := range exps {
		out[i] = m(e)
	}
	return out
}

// best returns the experiment with the highest metric; ties keep the first.
func best(exps []record.Experiment, m Metric) *Ref {
	var r *Ref
	for _, e := range exps {
		if v := m(e); r == nil || v > r.Value {
			r = refOf(e, v)
		}
	}
	return r
}

func worst(exps []record.Experiment, m Metric) *Ref {
	var r *Ref
	for _, e := range exps {
		if v := m(e); r == nil || v < r.Value {
			r = refOf(e, v)
		}
	}
	return r
}

func byNumber(exps []record.Experiment) []record.Experiment {
	out := slices.Clone(exps)
	slices.SortStableFunc(out, func(a, b record.Experiment) int { return cmp.Compare(a.Number, b.Number) })
	return out
}

// Group is a named subset of experiments summarised on one metric.
type Group struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Avg        float64 `json:"avg_extraction"`
	Max        float64 `json:"max_extraction"`
	Min        float64 `json:"min_extraction"`
	Efficiency float64 `json:"avg_efficiency,omitempty"`
	Yield      float64 `json:"avg_yield,omitempty"`
	Capacity   float64 `json:"avg_capacity,omitempty"`
	Best       *Ref    `json:"best,omitempty"`
}

func group(name string, exps []record.Experiment, m Metric) Group {
	s := Summarize(values(exps, m))
	return Group{Name: name, Count: s.Count, Avg: s.Avg, Max: s.Max, Min: s.Min, Best: best(exps, m)}
}

// partition splits exps by key preserving first-seen key order.
func partition(exps []record.Experiment, key func(record.Experiment) string) ([]string, map[string][]record.Experiment) {
	var order []string
	groups := map[string][]record.Experiment{}
	for _, e := range exps {
		k := key(e)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], e)
	}
	return order, groups
}

func sortByAvgDesc(gs []Group) {
	slices.SortStableFunc(gs, func(a, b Group) int { return cmp.Compare(b.Avg, a.Avg) })
}
