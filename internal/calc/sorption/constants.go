package sorption

// Constants are the empirical sorption parameters.
type Constants struct {
	// MoAtomicMass is g/mol.
	MoAtomicMass float64
	// MaxCapacity is the nominal anionite capacity in g-atom/g.
	MaxCapacity float64
	Kinetics     []RateBracket

	DefaultTemperature float64
	DefaultDuration    float64
	DefaultStirring    float64
}

// RateBracket gives the first-order rate constant (1/min) from MinTemperature up.
type RateBracket struct {
	MinTemperature float64
	K              float64
}

func DefaultConstants() Constants {
	return Constants{
		MoAtomicMass: 95.95,
		MaxCapacity:  0.002,
		Kinetics: []RateBracket{
			{MinTemperature: 80, K: 0.015},
			{MinTemperature: 60, K: 0.008},
			{MinTemperature: 40, K: 0.005},
		},
		DefaultTemperature: 25,
		DefaultDuration:    60,
		DefaultStirring:    200,
	}
}

const slowRate = 0.003

// RateConstant picks k for a temperature, brackets are checked in order.
func (c Constants) RateConstant(temperature float64) float64 {
	for _, b := range c.Kinetics {
		if temperature >= b.MinTemperature {
			return b.K
		}
	}
	return slowRate
}

type AnioniteType string

const (
	ANKF10B      AnioniteType = "ankf10b"
	LewatitM800  AnioniteType = "lewatit_m800"
	AB17         AnioniteType = "ab17"
	IRA95        AnioniteType = "ira95"
	PuroliteA100 AnioniteType = "purolite_a100"
)

var AnioniteTypes = []AnioniteType{ANKF10B, LewatitM800, AB17, IRA95, PuroliteA100}

func (a AnioniteType) Display() string {
	switch a {
	case ANKF10B:
		return "ANKF-10B"
	case LewatitM800:
		return "Lewatit M800"
	case AB17:
		return "AB-17"
	case IRA95:
		return "IRA-95"
	case PuroliteA100:
		return "Purolite A100"
	}
	return string(a)
}
