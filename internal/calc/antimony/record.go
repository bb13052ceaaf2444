package antimony

import (
	"strconv"

	"Furnace/internal/calc/balance"
	"Furnace/internal/record"
)

// Record converts a smelt into a stored experiment with crude, slag and gas
// streams.
func Record(p Params, res Result) record.Experiment {
	b := res.Balance
	gasSb, gasAs := 0.0, 0.0
	if b.Sb.ToGas != nil {
		gasSb = *b.Sb.ToGas
	}
	if b.As.ToGas != nil {
		gasAs = *b.As.ToGas
	}
	crude := res.CrudeAntimony
	slag := res.Slag

	return record.Experiment{
		Process: record.ProcessAntimony,
		Tags: map[string]string{
			"reducer_type": string(p.Reducer),
			"temperature":  strconv.Itoa(p.Temperature),
			"dosage":       BracketOf(p.ReducerAmount).String(),
			"has_lead":     record.FormatBool(p.LeadAddition > 0),
		},
		Metrics: map[string]float64{
			"antimonite_mass":      p.AntimoniteMass,
			"sb_content":           p.SbContent,
			"na_content":           p.NaContent,
			"as_content":           p.AsContent,
			"moisture":             p.Moisture,
			"temperature":          float64(p.Temperature),
			"reducer_amount":       p.ReducerAmount,
			"coke_ash":             p.CokeAsh,
			"lead_addition":        p.LeadAddition,
			"total_charge":         res.Input.TotalCharge,
			"sb_extraction":        crude.SbExtraction,
			"crude_mass":           crude.Mass,
			"crude_sb_content":     crude.SbContent,
			"slag_mass":            slag.Mass,
			"total_losses_percent": res.Losses.TotalLossesPercent,
		},
		Streams: []record.Stream{
			{
				Name: "crude_antimony", MassOrVolume: crude.Mass, YieldPercent: record.Ptr(crude.YieldPercent),
				Elements: []record.ElementValue{
					record.Extraction(balance.Sb, crude.SbContent, b.Sb.ToCrude, b.Sb.Loaded),
					record.Extraction(balance.Na, crude.Impurities.Na, b.Na.ToCrude, b.Na.Loaded),
					record.Extraction(balance.As, crude.Impurities.As, b.As.ToCrude, b.As.Loaded),
				},
			},
			{
				Name: "slag", MassOrVolume: slag.Mass, YieldPercent: record.Ptr(slag.YieldPercent),
				Elements: []record.ElementValue{
					record.Extraction(balance.Sb, slag.SbContent, b.Sb.ToSlag, b.Sb.Loaded),
					record.Extraction(balance.Na, slag.NaContent, b.Na.ToSlag, b.Na.Loaded),
					record.Extraction(balance.As, balance.Round(balance.Percent(b.As.ToSlag, slag.Mass), 2), b.As.ToSlag, b.As.Loaded),
				},
			},
			{
				Name: "gas", MassOrVolume: balance.Round(gasSb+gasAs, 2),
				Elements: []record.ElementValue{
					record.Extraction(balance.Sb, 0, gasSb, b.Sb.Loaded),
					record.Extraction(balance.As, 0, gasAs, b.As.Loaded),
				},
			},
		},
	}
}
