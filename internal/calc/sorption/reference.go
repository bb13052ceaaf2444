package sorption

import "Furnace/internal/calc/balance"

// Reference returns the laboratory kinetics points measured on Purolite A100
// at 20 and 80°C from a 2.429 g/L Mo solution.
func Reference() []Input {
	points := []struct {
		temperature, duration, final float64
	}{
		{20, 15, 1.226},
		{20, 60, 1.435},
		{20, 180, 1.641},
		{20, 540, 1.697},
		{80, 60, 0.131},
		{80, 180, 0.516},
		{80, 540, 0.612},
	}
	out := make([]Input, 0, len(points))
	for _, p := range points {
		out = append(out, Input{
			SolutionVolume:         balance.Num(200),
			InitialMoConcentration: balance.Num(2.429),
			FinalMoConcentration:   balance.Num(p.final),
			AnioniteMass:           balance.Num(10),
			AnioniteType:           PuroliteA100,
			H2SO4Concentration:     balance.Num(200),
			Temperature:            balance.Num(p.temperature),
			Duration:               balance.Num(p.duration),
			StirringSpeed:          balance.Num(200),
		})
	}
	return out
}
