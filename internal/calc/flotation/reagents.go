package flotation

import "sort"

type ReagentType string

const (
	Collector    ReagentType = "collector"
	Frother      ReagentType = "frother"
	Activator    ReagentType = "activator"
	Experimental ReagentType = "experimental"
)

type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Reagent struct {
	Name              string      `json:"name"`
	Type              ReagentType `json:"type"`
	Description       string      `json:"description"`
	Dosage            Range       `json:"dosage"`
	CleanerDosage     *Range      `json:"cleaner_dosage,omitempty"`
	AverageExtraction float64     `json:"average_extraction"`
	MaxExtraction     float64     `json:"max_extraction"`
	IsStandard        bool        `json:"is_standard"`
	IsHighEfficiency  bool        `json:"is_high_efficiency"`
	IsExperimental    bool        `json:"is_experimental"`
	WorkingPH         *Range      `json:"working_ph,omitempty"`
	DerivedTags       []string    `json:"tags"`
}

// Tags derives display tags from the reagent flags and record data.
func (r Reagent) Tags() []string {
	var tags []string
	if r.IsStandard {
		tags = append(tags, "standard")
	}
	if r.IsHighEfficiency {
		tags = append(tags, "high-efficiency")
	}
	if r.IsExperimental {
		tags = append(tags, "experimental")
	}
	if r.MaxExtraction > 95 {
		tags = append(tags, "record")
	}
	if r.Type == Experimental {
		tags = append(tags, "mp-series")
	}
	return tags
}

// Catalog returns the laboratory reagent set, ordered by name.
func Catalog() []Reagent {
	out := []Reagent{
		{
			Name:              "PAX",
			Type:              Collector,
			Description:       "Potassium amyl xanthate, the main collector for sulphide ores. High selectivity.",
			Dosage:            Range{75, 200},
			CleanerDosage:     &Range{25, 100},
			AverageExtraction: 85.0,
			MaxExtraction:     91.2,
			IsStandard:        true,
			IsHighEfficiency:  true,
		},
		{
			Name:              "X-133",
			Type:              Frother,
			Description:       "Methyl isobutyl carbinol, a general purpose frother giving a stable froth.",
			Dosage:            Range{3, 50},
			CleanerDosage:     &Range{3, 50},
			AverageExtraction: 86.2,
			MaxExtraction:     89.5,
			IsStandard:        true,
		},
		{
			Name:              "CuSO4",
			Type:              Activator,
			Description:       "Copper sulphate, activator for zinc minerals such as sphalerite.",
			Dosage:            Range{20, 40},
			AverageExtraction: 84.7,
			MaxExtraction:     86.9,
			IsStandard:        true,
			IsHighEfficiency:  true,
			WorkingPH:         &Range{8.0, 11.0},
		},
		{
			Name:              "MP-1",
			Type:              Experimental,
			Description:       "MP series reagent. Reached 97.4% extraction in test 55.",
			Dosage:            Range{5, 30},
			CleanerDosage:     &Range{5, 30},
			AverageExtraction: 88.0,
			MaxExtraction:     97.4,
			IsHighEfficiency:  true,
			IsExperimental:    true,
		},
		{
			Name:              "BTF",
			Type:              Collector,
			Description:       "Auxiliary collector used in combined regimes to raise selectivity.",
			Dosage:            Range{25, 50},
			CleanerDosage:     &Range{25, 50},
			AverageExtraction: 86.5,
			MaxExtraction:     87.4,
		},
		{
			Name:              "MP-102",
			Type:              Experimental,
			Description:       "MP series reagent for microflotation. Stable at low dosages.",
			Dosage:            Range{5, 20},
			CleanerDosage:     &Range{5, 20},
			AverageExtraction: 84.7,
			MaxExtraction:     86.2,
			IsExperimental:    true,
		},
	}
	for i := range out {
		out[i].DerivedTags = out[i].Tags()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

type ReagentStats struct {
	Total        int `json:"total"`
	Collectors   int `json:"collectors"`
	Frothers     int `json:"frothers"`
	Activators   int `json:"activators"`
	Experimental int `json:"experimental"`
}

func Stats(reagents []Reagent) ReagentStats {
	s := ReagentStats{Total: len(reagents)}
	for _, r := range reagents {
		switch r.Type {
		case Collector:
			s.Collectors++
		case Frother:
			s.Frothers++
		case Activator:
			s.Activators++
		case Experimental:
			s.Experimental++
		}
	}
	return s
}

// Top returns the n reagents with the highest maximum extraction.
func Top(reagents []Reagent, n int) []Reagent {
	out := append([]Reagent(nil), reagents...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].MaxExtraction > out[j].MaxExtraction })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
