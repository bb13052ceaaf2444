package flotation

import (
	"strings"

	"Furnace/internal/calc/balance"
	"Furnace/internal/record"
)

// Record converts a flotation balance into a stored experiment with one
// stream per product.
func Record(in Input, res Result) record.Experiment {
	mb := res.MaterialBalance
	streams := make([]record.Stream, 0, len(Products))
	for _, p := range Products {
		pb := mb.Products[p]
		streams = append(streams, record.Stream{
			Name:         string(p),
			MassOrVolume: pb.Mass,
			YieldPercent: record.Ptr(balance.Percent(pb.Mass, mb.TotalMass)),
			Elements: []record.ElementValue{
				record.Extraction(balance.Au, pb.Grade, pb.Au, mb.TotalAu),
			},
		})
	}
	return record.Experiment{
		Process: record.ProcessFlotation,
		Tags: map[string]string{
			"configuration":     strings.TrimSpace(in.Configuration),
			"reagent_regime":    in.ReagentRegime,
			"is_microflotation": record.FormatBool(in.IsMicroflotation),
		},
		Metrics: map[string]float64{
			"initial_grade_analysis":   res.InitialGradeAnalysis,
			"calculated_initial_grade": res.CalculatedInitialGrade,
			"extraction":               res.Extraction,
			"concentrate_yield":        res.ConcentrateYield,
			"efficiency":               res.Efficiency,
			"total_mass":               mb.TotalMass,
			"total_au":                 mb.TotalAu,
		},
		Streams: streams,
	}
}
