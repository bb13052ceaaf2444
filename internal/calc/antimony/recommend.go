package antimony

import "Furnace/internal/calc/balance"

// Recommend grades a smelt. naCrude is the sodium content of the crude
// antimony in percent.
func Recommend(p Params, extraction, naCrude float64) []balance.Advisory {
	var out []balance.Advisory

	switch {
	case extraction >= 85:
		out = append(out, balance.Titled(balance.SeveritySuccess, "Excellent extraction",
			"Extraction %.1f%% is above the industrial level (70-76%%).", extraction))
	case extraction >= 70:
		out = append(out, balance.Titled(balance.SeverityInfo, "Good extraction",
			"Extraction %.1f%% matches industrial practice.", extraction))
	default:
		out = append(out, balance.Titled(balance.SeverityWarning, "Low extraction",
			"Extraction %.1f%% is below normal. Check the smelting parameters.", extraction))
	}

	switch {
	case p.ReducerAmount < 10:
		out = append(out, balance.Titled(balance.SeverityWarning, "Not enough reducer",
			"Below 10%% reducer large Sb losses to slag are likely. 10%% is recommended."))
	case p.ReducerAmount > 15:
		out = append(out, balance.Titled(balance.SeverityWarning, "Excess reducer",
			"Above 15%% reducer the Na content of crude antimony rises sharply."))
	default:
		out = append(out, balance.Titled(balance.SeveritySuccess, "Optimal reducer dosage",
			"A 10-15%% dosage gives the best results."))
	}

	switch {
	case naCrude > 5:
		out = append(out, balance.Titled(balance.SeverityError, "High sodium content",
			"Na in crude antimony: %.2f%%. Use coke breeze instead of charcoal.", naCrude))
	case naCrude > 3:
		out = append(out, balance.Titled(balance.SeverityWarning, "Elevated sodium content",
			"Na in crude antimony: %.2f%%. Additional refining is required.", naCrude))
	}

	if p.Temperature < 900 {
		out = append(out, balance.Titled(balance.SeverityError, "Temperature too low",
			"Below 900°C the charge may not melt completely."))
	}
	if p.Reducer == Charcoal {
		out = append(out, balance.Titled(balance.SeverityInfo, "Charcoal",
			"Charcoal raises the Na content. Coke breeze is recommended."))
	}
	return out
}
