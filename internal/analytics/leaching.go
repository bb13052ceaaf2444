package analytics

import (
	"Furnace/internal/calc/balance"
	"Furnace/internal/calc/leaching"
	"Furnace/internal/record"
)

const leachingTrendLen = 10

func moToSolution(e record.Experiment) float64 {
	return leaching.SolutionExtraction(e, balance.Mo)
}

type LeachingTrendPoint struct {
	Number int     `json:"number"`
	Mo     float64 `json:"mo"`
	Cu     float64 `json:"cu"`
	Fe     float64 `json:"fe"`
}

type LeachingOverview struct {
	Total         int                  `json:"total_tests"`
	MoToSolution  Summary              `json:"mo_extraction"`
	Best          *Ref                 `json:"best_test,omitempty"`
	WithOxygen    Group                `json:"with_oxygen"`
	WithoutOxygen Group                `json:"without_oxygen"`
	ByAcid        []Group              `json:"acid_type_stats"`
	Trend         []LeachingTrendPoint `json:"trend"`
}

// Leaching aggregates leaching experiments on Mo extraction to solution.
func Leaching(exps []record.Experiment) LeachingOverview {
	ov := LeachingOverview{
		Total:        len(exps),
		MoToSolution: Summarize(values(exps, moToSolution)),
		Best:         best(exps, moToSolution),
	}

	var with, without []record.Experiment
	for _, e := range exps {
		if e.Flag("has_oxygen") {
			with = append(with, e)
		} else {
			without = append(without, e)
		}
	}
	ov.WithOxygen = group("with_oxygen", with, moToSolution)
	ov.WithoutOxygen = group("without_oxygen", without, moToSolution)

	_, groups := partition(exps, func(e record.Experiment) string { return e.Tag("acid_type") })
	for _, acid := range []leaching.AcidType{leaching.HNO3, leaching.H2SO4, leaching.Mixed} {
		if g, ok := groups[string(acid)]; ok {
			ov.ByAcid = append(ov.ByAcid, group(acid.Display(), g, moToSolution))
		}
	}

	sorted := byNumber(exps)
	if len(sorted) > leachingTrendLen {
		sorted = sorted[:leachingTrendLen]
	}
	for _, e := range sorted {
		ov.Trend = append(ov.Trend, LeachingTrendPoint{
			Number: e.Number,
			Mo:     leaching.SolutionExtraction(e, balance.Mo),
			Cu:     leaching.SolutionExtraction(e, balance.Cu),
			Fe:     leaching.SolutionExtraction(e, balance.Fe),
		})
	}
	return ov
}
