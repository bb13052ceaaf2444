package analytics

import (
	"cmp"
	"slices"
	"strconv"

	"Furnace/internal/calc/sorption"
	"Furnace/internal/record"
)

// Temperatures are the sorption temperature levels, °C, analysed separately.
var Temperatures = []float64{20, 40, 60, 80}

var capacity = ByMetric("sorption_capacity")

type KineticsCurve struct {
	Temperature float64   `json:"temperature"`
	Durations   []float64 `json:"durations"`
	Extractions []float64 `json:"extractions"`
	Capacities  []float64 `json:"capacities"`
}

type SorptionOverview struct {
	Total         int             `json:"total_tests"`
	Extraction    Summary         `json:"extraction"`
	AvgCapacity   float64         `json:"avg_capacity"`
	Best          *Ref            `json:"best_test,omitempty"`
	ByAnionite    []Group         `json:"anionite_comparison"`
	ByTemperature []Group         `json:"temperature_analysis"`
	Kinetics      []KineticsCurve `json:"kinetics"`
}

func Sorption(exps []record.Experiment) SorptionOverview {
	ov := SorptionOverview{
		Total:       len(exps),
		Extraction:  Summarize(values(exps, extraction)),
		AvgCapacity: mean(values(exps, capacity)),
		Best:        best(exps, extraction),
	}

	_, byType := partition(exps, func(e record.Experiment) string { return e.Tag("anionite_type") })
	for _, t := range sorption.AnioniteTypes {
		if g, ok := byType[string(t)]; ok {
			ov.ByAnionite = append(ov.ByAnionite, group(t.Display(), g, extraction))
		}
	}

	for _, temp := range Temperatures {
		var at []record.Experiment
		for _, e := range exps {
			if e.Metric("temperature") == temp {
				at = append(at, e)
			}
		}
		if len(at) == 0 {
			continue
		}
		g := group(formatTemperature(temp), at, extraction)
		g.Capacity = mean(values(at, capacity))
		ov.ByTemperature = append(ov.ByTemperature, g)

		slices.SortStableFunc(at, func(a, b record.Experiment) int {
			return cmp.Compare(a.Metric("duration"), b.Metric("duration"))
		})
		ov.Kinetics = append(ov.Kinetics, KineticsCurve{
			Temperature: temp,
			Durations:   values(at, ByMetric("duration")),
			Extractions: values(at, extraction),
			Capacities:  values(at, capacity),
		})
	}
	return ov
}

func formatTemperature(t float64) string {
	return strconv.FormatFloat(t, 'f', -1, 64) + "°C"
}
