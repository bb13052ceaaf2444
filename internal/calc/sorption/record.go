package sorption

import (
	"strconv"

	"Furnace/internal/calc/balance"
	"Furnace/internal/record"
)

// Record converts a sorption result into a stored experiment with an
// anionite and a barren solution stream.
func Record(in Input, res Result) record.Experiment {
	loaded := res.InitialConcentration * res.Volume / 1000
	remaining := res.FinalConcentration * res.Volume / 1000
	tags := map[string]string{
		"anionite_type": string(in.AnioniteType),
	}
	if in.LeachingTestID != nil {
		tags["leaching_test_id"] = strconv.FormatInt(*in.LeachingTestID, 10)
	}
	return record.Experiment{
		Process: record.ProcessSorption,
		Tags:    tags,
		Metrics: map[string]float64{
			"solution_volume":          res.Volume,
			"initial_mo_concentration": res.InitialConcentration,
			"final_mo_concentration":   res.FinalConcentration,
			"h2so4_concentration":      in.H2SO4Concentration.Or(0),
			"anionite_mass":            res.AnioniteMass,
			"temperature":              res.Temperature,
			"duration":                 res.Duration,
			"stirring_speed":           in.StirringSpeed.Or(DefaultConstants().DefaultStirring),
			"extraction":               res.Extraction,
			"sorption_capacity":        res.SorptionCapacity,
			"mo_on_anionite":           res.MoOnAnionite,
			"specific_sorption":        res.SpecificSorption,
			"filling_degree":           res.FillingDegree,
			"kinetic_coefficient":      res.KineticCoefficient,
		},
		Streams: []record.Stream{
			{
				Name:         "anionite",
				MassOrVolume: res.AnioniteMass,
				Elements: []record.ElementValue{
					record.Extraction(balance.Mo, balance.Percent(res.MoOnAnionite, res.AnioniteMass), res.MoOnAnionite, loaded),
				},
			},
			{
				Name:         "solution",
				MassOrVolume: res.Volume,
				Elements: []record.ElementValue{
					record.Extraction(balance.Mo, res.FinalConcentration, remaining, loaded),
				},
			},
		},
	}
}
