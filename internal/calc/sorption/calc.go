package sorption

import (
	"math"

	"Furnace/internal/calc/balance"
)

// Input is a sorption run. Volume is mL, concentrations g/L, mass g,
// duration minutes.
type Input struct {
	SolutionVolume         balance.Float `json:"solution_volume"`
	InitialMoConcentration balance.Float `json:"initial_mo_concentration"`
	FinalMoConcentration   balance.Float `json:"final_mo_concentration"`
	AnioniteMass           balance.Float `json:"anionite_mass"`
	AnioniteType           AnioniteType  `json:"anionite_type"`
	H2SO4Concentration     balance.Float `json:"h2so4_concentration"`
	Temperature            balance.Float `json:"temperature"`
	Duration               balance.Float `json:"duration"`
	StirringSpeed          balance.Float `json:"stirring_speed"`
	LeachingTestID         *int64        `json:"leaching_test_id,omitempty"`

	SaveTest bool `json:"save_test"`
}

type Params struct {
	Volume        float64
	Initial       float64
	Final         float64
	AnioniteMass  float64
	Temperature   float64
	Duration      float64
	StirringSpeed float64
}

type Result struct {
	Extraction           float64            `json:"extraction"`
	MoOnAnionite         float64            `json:"mo_on_anionite"`
	SorptionCapacity     float64            `json:"sorption_capacity"`
	SpecificSorption     float64            `json:"specific_sorption"`
	FillingDegree        float64            `json:"filling_degree"`
	KineticCoefficient   float64            `json:"kinetic_coefficient"`
	FinalConcentration   float64            `json:"final_concentration"`
	MoRemoved            float64            `json:"mo_removed"`
	Validations          []balance.Advisory `json:"validations"`
	Recommendations      []string           `json:"recommendations"`
	InitialConcentration float64            `json:"initial_concentration"`
	Volume               float64            `json:"volume"`
	AnioniteMass         float64            `json:"anionite_mass"`
	Temperature          float64            `json:"temperature"`
	Duration             float64            `json:"duration"`
}

type Calculator struct {
	Constants Constants
}

func New() Calculator {
	return Calculator{Constants: DefaultConstants()}
}

func Calculate(in Input) (Result, error) {
	return New().Calculate(in)
}

// Calculate validates the run and computes the sorption figures.
func (c Calculator) Calculate(in Input) (Result, error) {
	if err := c.Validate(in); err != nil {
		return Result{}, err
	}
	p, err := c.Resolve(in)
	if err != nil {
		return Result{}, err
	}
	return c.Compute(p), nil
}

// Resolve reads the numeric fields, applying the defaults for conditions.
func (c Calculator) Resolve(in Input) (Params, error) {
	var p Params
	var err error
	if p.Volume, err = in.SolutionVolume.Require("solution_volume"); err != nil {
		return Params{}, err
	}
	if p.Initial, err = in.InitialMoConcentration.Require("initial_mo_concentration"); err != nil {
		return Params{}, err
	}
	if p.Final, err = in.FinalMoConcentration.Require("final_mo_concentration"); err != nil {
		return Params{}, err
	}
	if p.AnioniteMass, err = in.AnioniteMass.Require("anionite_mass"); err != nil {
		return Params{}, err
	}
	if p.Temperature, err = in.Temperature.Optional("temperature", c.Constants.DefaultTemperature); err != nil {
		return Params{}, err
	}
	if p.Duration, err = in.Duration.Optional("duration", c.Constants.DefaultDuration); err != nil {
		return Params{}, err
	}
	if p.StirringSpeed, err = in.StirringSpeed.Optional("stirring_speed", c.Constants.DefaultStirring); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Compute applies the sorption formulas without validating p.
func (c Calculator) Compute(p Params) Result {
	res := Result{
		FinalConcentration:   p.Final,
		MoRemoved:            p.Initial - p.Final,
		InitialConcentration: p.Initial,
		Volume:               p.Volume,
		AnioniteMass:         p.AnioniteMass,
		Temperature:          p.Temperature,
		Duration:             p.Duration,
	}
	if p.Initial > 0 {
		res.Extraction = (p.Initial - p.Final) / p.Initial * 100
	}
	res.MoOnAnionite = (p.Initial - p.Final) * p.Volume / 1000
	if p.AnioniteMass > 0 {
		res.SorptionCapacity = res.MoOnAnionite / p.AnioniteMass / c.Constants.MoAtomicMass
		res.SpecificSorption = res.MoOnAnionite * 1000 / p.AnioniteMass
	}
	if res.SorptionCapacity > 0 {
		res.FillingDegree = res.SorptionCapacity / c.Constants.MaxCapacity * 100
	}
	if p.Final > 0 && p.Duration > 0 {
		res.KineticCoefficient = math.Log(p.Initial/p.Final) / p.Duration
	}
	res.Validations = Advise(res)
	res.Recommendations = Recommend(p, res.Extraction)
	return res
}

func Advise(res Result) []balance.Advisory {
	var out []balance.Advisory
	switch e := res.Extraction; {
	case e > 90:
		out = append(out, balance.Note(balance.SeveritySuccess, "Excellent Mo extraction: %.1f%%", e))
	case e > 70:
		out = append(out, balance.Note(balance.SeverityInfo, "Good Mo extraction: %.1f%%", e))
	case e > 50:
		out = append(out, balance.Note(balance.SeverityWarning, "Moderate Mo extraction: %.1f%%", e))
	default:
		out = append(out, balance.Note(balance.SeverityError, "Low Mo extraction: %.1f%%", e))
	}

	switch q := res.SorptionCapacity; {
	case q > 0.0015:
		out = append(out, balance.Note(balance.SeveritySuccess, "High sorption capacity: %.2e g-atom/g", q))
	case q > 0.0005:
		out = append(out, balance.Note(balance.SeverityInfo, "Normal sorption capacity: %.2e g-atom/g", q))
	default:
		out = append(out, balance.Note(balance.SeverityWarning, "Low sorption capacity: %.2e g-atom/g", q))
	}

	if res.FillingDegree > 90 {
		out = append(out, balance.Note(balance.SeverityWarning, "Anionite close to saturation: %.1f%% of maximum", res.FillingDegree))
	}
	return out
}

func Recommend(p Params, extraction float64) []string {
	out := []string{}
	if p.Temperature < 60 && extraction < 70 {
		out = append(out, "Raise the temperature to 60-80°C to improve sorption")
	}
	if p.Duration < 60 && extraction < 80 {
		out = append(out, "Extend the sorption time to reach equilibrium")
	}
	if p.Initial < 1.0 {
		out = append(out, "Sorption is more effective at low Mo concentrations (<1 g/L)")
	}
	if extraction > 90 && p.Duration > 180 {
		out = append(out, "Sorption has reached its maximum, longer contact time is not useful")
	}
	return out
}
