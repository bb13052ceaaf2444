package leaching

import "Furnace/internal/calc/balance"

// ReferenceRun is one entry of the reference molybdenum leaching series.
type ReferenceRun struct {
	Number      int    `json:"number"`
	Description string `json:"description"`
	Input       Input  `json:"input"`
}

type composition [4]float64

func run(acid AcidType, hno3, h2so4 float64, oxygen bool, initial composition,
	cakeMass float64, cake composition, volume float64, solution composition) Input {
	in := Input{
		ConcentrateMass: balance.Num(50),
		InitialMo:       balance.Num(initial[0]),
		InitialCu:       balance.Num(initial[1]),
		InitialFe:       balance.Num(initial[2]),
		InitialSi:       balance.Num(initial[3]),
		CakeMass:        balance.Num(cakeMass),
		CakeMo:          balance.Num(cake[0]),
		CakeCu:          balance.Num(cake[1]),
		CakeFe:          balance.Num(cake[2]),
		CakeSi:          balance.Num(cake[3]),
		SolutionVolume:  balance.Num(volume),
		SolutionMo:      balance.Num(solution[0]),
		SolutionCu:      balance.Num(solution[1]),
		SolutionFe:      balance.Num(solution[2]),
		SolutionSi:      balance.Num(solution[3]),
		AcidType:        acid,
		Temperature:     balance.Num(95),
		Duration:        balance.Num(4),
		StirringSpeed:   balance.Num(300),
		HasOxygen:       oxygen,
	}
	if hno3 > 0 {
		in.HNO3Concentration = balance.Num(hno3)
	}
	if h2so4 > 0 {
		in.H2SO4Concentration = balance.Num(h2so4)
	}
	if oxygen {
		in.OxygenFlow = balance.Num(0.85)
	}
	return in
}

// Reference returns the six laboratory runs used to check the balance.
func Reference() []ReferenceRun {
	base := composition{20.3, 1.99, 2.33, 2.47}
	rich := composition{25.01, 0.91, 3.5, 3.2}
	return []ReferenceRun{
		{1, "HNO3 50 g/L without oxygen", run(HNO3, 50, 0, false, base,
			43.5, composition{18.86, 0.508, 0.611, 1.74}, 300, composition{6.5, 2.58, 3.01, 1.61})},
		{2, "H2SO4 200 g/L without oxygen", run(H2SO4, 0, 200, false, base,
			47.52, composition{18.166, 1.206, 1.443, 2.46}, 300, composition{5.1, 1.4, 1.61, 0.23})},
		{3, "HNO3 50 g/L with oxygen", run(HNO3, 50, 0, true, base,
			42.5, composition{13.088, 0.323, 0.411, 1.742}, 300, composition{18.0, 3.4, 3.9, 1.96})},
		{4, "H2SO4 200 g/L with oxygen", run(H2SO4, 0, 200, true, base,
			49.18, composition{16.6, 1.166, 1.385, 2.25}, 300, composition{7.65, 1.62, 1.88, 0.54})},
		{5, "HNO3 50 g/L + H2SO4 200 g/L without oxygen", run(Mixed, 50, 200, false, rich,
			45.0, composition{13.8, 0.42, 1.98, 3.37}, 265, composition{23.6, 1.0, 3.23, 0.3})},
		{6, "HNO3 50 g/L + H2SO4 200 g/L with oxygen", run(Mixed, 50, 200, true, rich,
			43.5, composition{7.88, 0.37, 1.42, 3.36}, 250, composition{36.3, 1.18, 4.53, 0.54})},
	}
}
