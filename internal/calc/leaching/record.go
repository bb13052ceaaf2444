package leaching

import (
	"Furnace/internal/calc/balance"
	"Furnace/internal/record"
)

// Record converts a leaching balance into a stored experiment with a cake
// and a solution stream.
func Record(in Input, res Result) record.Experiment {
	cake := record.Stream{
		Name:         "cake",
		MassOrVolume: res.CakeMass,
		YieldPercent: record.Ptr(res.CakeYield),
	}
	solution := record.Stream{
		Name:         "solution",
		MassOrVolume: res.SolutionVolume,
	}
	for _, e := range Elements {
		cake.Elements = append(cake.Elements, record.ElementValue{
			Element:    e,
			Content:    in.Cake(e).Or(0),
			Grams:      res.Cake[e],
			Extraction: res.ToCake(e),
		})
		solution.Elements = append(solution.Elements, record.ElementValue{
			Element:    e,
			Content:    in.Solution(e).Or(0),
			Grams:      res.Solution[e],
			Extraction: res.ToSolution(e),
		})
	}

	metrics := map[string]float64{
		"concentrate_mass":    res.ConcentrateMass,
		"cake_mass":           res.CakeMass,
		"solution_volume":     res.SolutionVolume,
		"cake_yield":          res.CakeYield,
		"avg_balance":         res.AvgBalance,
		"temperature":         in.Temperature.Or(0),
		"duration":            in.Duration.Or(0),
		"stirring_speed":      in.StirringSpeed.Or(0),
		"hno3_concentration":  in.HNO3Concentration.Or(0),
		"h2so4_concentration": in.H2SO4Concentration.Or(0),
		"oxygen_flow":         in.OxygenFlow.Or(0),
	}
	for _, e := range Elements {
		metrics["initial_"+string(e)] = in.Initial(e).Or(0)
		metrics["balance_"+string(e)] = res.BalanceCheck[e]
	}

	return record.Experiment{
		Process: record.ProcessLeaching,
		Tags: map[string]string{
			"acid_type":  string(in.AcidType),
			"has_oxygen": record.FormatBool(in.HasOxygen),
		},
		Metrics: metrics,
		Streams: []record.Stream{cake, solution},
	}
}

// SolutionExtraction reads an element's extraction to solution back from a
// stored leaching experiment.
func SolutionExtraction(exp record.Experiment, e balance.Element) float64 {
	s, ok := exp.Stream("solution")
	if !ok {
		return 0
	}
	v, _ := s.Element(e)
	return v.Extraction
}
