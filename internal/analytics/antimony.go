package analytics

import "Furnace/internal/record"

var sbExtraction = ByMetric("sb_extraction")

type AntimonyOverview struct {
	Total       int     `json:"total_tests"`
	Extraction  Summary `json:"sb_extraction"`
	AvgLosses   float64 `json:"avg_losses_percent"`
	Best        *Ref    `json:"best_test,omitempty"`
	ByReducer   []Group `json:"by_reducer"`
	WithLead    Group   `json:"with_lead"`
	WithoutLead Group   `json:"without_lead"`
}

func Antimony(exps []record.Experiment) AntimonyOverview {
	ov := AntimonyOverview{
		Total:      len(exps),
		Extraction: Summarize(values(exps, sbExtraction)),
		AvgLosses:  mean(values(exps, ByMetric("total_losses_percent"))),
		Best:       best(exps, sbExtraction),
	}
	order, groups := partition(exps, func(e record.Experiment) string { return e.Tag("reducer_type") })
	for _, name := range order {
		ov.ByReducer = append(ov.ByReducer, group(name, groups[name], sbExtraction))
	}
	sortByAvgDesc(ov.ByReducer)

	var with, without []record.Experiment
	for _, e := range exps {
		if e.Flag("has_lead") {
			with = append(with, e)
		} else {
			without = append(without, e)
		}
	}
	ov.WithLead = group("with_lead", with, sbExtraction)
	ov.WithoutLead = group("without_lead", without, sbExtraction)
	return ov
}

// Overview dispatches to the aggregate of p.
func Overview(p record.Process, exps []record.Experiment) any {
	switch p {
	case record.ProcessAntimony:
		return Antimony(exps)
	case record.ProcessFlotation:
		return Flotation(exps)
	case record.ProcessLeaching:
		return Leaching(exps)
	case record.ProcessSorption:
		return Sorption(exps)
	}
	return nil
}
