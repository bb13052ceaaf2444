package analytics

import (
	"strings"

	"Furnace/internal/record"
)

const (
	NoConfiguration = "no configuration"
	// SuccessExtraction is the extraction, percent, a flotation test must reach
	// to count as successful.
	SuccessExtraction = 85.0
	flotationTrendLen = 20
)

var extraction = ByMetric("extraction")

type Category struct {
	Name    string  `json:"name"`
	Count   int     `json:"count"`
	Percent float64 `json:"percentage"`
}

type FlotationTrendPoint struct {
	Number     int     `json:"number"`
	Extraction float64 `json:"extraction"`
	Efficiency float64 `json:"efficiency"`
	Yield      float64 `json:"yield"`
}

type FlotationOverview struct {
	Total           int                   `json:"total_tests"`
	Extraction      Summary               `json:"extraction"`
	AvgEfficiency   float64               `json:"avg_efficiency"`
	Best            *Ref                  `json:"best_test,omitempty"`
	Worst           *Ref                  `json:"worst_test,omitempty"`
	Successful      int                   `json:"successful_tests_count"`
	SuccessRate     float64               `json:"success_rate"`
	Categories      []Category            `json:"efficiency_categories"`
	ByConfiguration []Group               `json:"extraction_by_config"`
	Microflotation  Group                 `json:"microflotation"`
	Standard        Group                 `json:"standard"`
	ByReagent       []Group               `json:"reagent_effectiveness"`
	Trend           []FlotationTrendPoint `json:"trend"`
}

// Flotation aggregates flotation experiments.
func Flotation(exps []record.Experiment) FlotationOverview {
	ov := FlotationOverview{
		Total:      len(exps),
		Extraction: Summarize(values(exps, extraction)),
		Best:       best(exps, extraction),
		Worst:      worst(exps, extraction),
		Categories: categorize(exps),
	}
	if len(exps) == 0 {
		return ov
	}
	ov.AvgEfficiency = mean(values(exps, ByMetric("efficiency")))
	for _, e := range exps {
		if extraction(e) >= SuccessExtraction {
			ov.Successful++
		}
	}
	ov.SuccessRate = float64(ov.Successful) / float64(len(exps)) * 100

	order, groups := partition(exps, func(e record.Experiment) string {
		if c := strings.TrimSpace(e.Tag("configuration")); c != "" {
			return c
		}
		return NoConfiguration
	})
	for _, name := range order {
		ov.ByConfiguration = append(ov.ByConfiguration, flotationGroup(name, groups[name]))
	}
	sortByAvgDesc(ov.ByConfiguration)

	var micro, standard []record.Experiment
	for _, e := range exps {
		if e.Flag("is_microflotation") {
			micro = append(micro, e)
		} else {
			standard = append(standard, e)
		}
	}
	ov.Microflotation = flotationGroup("microflotation", micro)
	ov.Standard = flotationGroup("standard", standard)

	order, groups = partition(exps, func(e record.Experiment) string { return ReagentGroup(e.Tag("reagent_regime")) })
	for _, name := range order {
		ov.ByReagent = append(ov.ByReagent, group(name, groups[name], extraction))
	}
	sortByAvgDesc(ov.ByReagent)

	sorted := byNumber(exps)
	if len(sorted) > flotationTrendLen {
		sorted = sorted[len(sorted)-flotationTrendLen:]
	}
	for _, e := range sorted {
		ov.Trend = append(ov.Trend, FlotationTrendPoint{
			Number:     e.Number,
			Extraction: extraction(e),
			Efficiency: e.Metric("efficiency"),
			Yield:      e.Metric("concentrate_yield"),
		})
	}
	return ov
}

func flotationGroup(name string, exps []record.Experiment) Group {
	g := group(name, exps, extraction)
	g.Efficiency = mean(values(exps, ByMetric("efficiency")))
	g.Yield = mean(values(exps, ByMetric("concentrate_yield")))
	return g
}

func categorize(exps []record.Experiment) []Category {
	cats := []Category{{Name: "excellent"}, {Name: "good"}, {Name: "average"}, {Name: "poor"}}
	for _, e := range exps {
		switch x := extraction(e); {
		case x >= 90:
			cats[0].Count++
		case x >= 80:
			cats[1].Count++
		case x >= 70:
			cats[2].Count++
		default:
			cats[3].Count++
		}
	}
	if len(exps) > 0 {
		for i := range cats {
			cats[i].Percent = float64(cats[i].Count) / float64(len(exps)) * 100
		}
	}
	return cats
}

// Reagent group names.
const (
	ReagentPAXAndX133 = "PAX + X-133"
	ReagentPAX        = "PAX"
	ReagentX133       = "X-133"
	ReagentOther      = "Other"
)

// ReagentGroup classifies a reagent regime by the collectors it names. Latin
// and Cyrillic spellings are both recognised.
func ReagentGroup(regime string) string {
	r := strings.ToLower(regime)
	pax := strings.Contains(r, "pax") || strings.Contains(r, "рах")
	x133 := strings.Contains(r, "x-133") || strings.Contains(r, "х-133")
	switch {
	case pax && x133:
		return ReagentPAXAndX133
	case pax:
		return ReagentPAX
	case x133:
		return ReagentX133
	}
	return ReagentOther
}
