package sorption

import (
	"math"

	"Furnace/internal/calc/balance"
)

// DefaultTimePoints are used when a kinetics request names none, in minutes.
var DefaultTimePoints = []float64{15, 30, 60, 120, 180, 360, 540}

// Point is a full sorption result at one contact time.
type Point struct {
	Result
	Time float64 `json:"time"`
}

type Series struct {
	RateConstant float64  `json:"rate_constant"`
	Points       []Point  `json:"points"`
	TimeToTarget *float64 `json:"time_to_target,omitempty"`
}

// KineticSeries models C(t) = C0 exp(-k t) for the base run and computes the
// sorption result at every time point. The base final concentration is
// ignored.
func (c Calculator) KineticSeries(base Input, times []float64) (Series, error) {
	p, err := c.seriesParams(base)
	if err != nil {
		return Series{}, err
	}
	if len(times) == 0 {
		times = DefaultTimePoints
	}
	k := c.Constants.RateConstant(p.Temperature)
	s := Series{RateConstant: k, Points: make([]Point, 0, len(times))}
	for _, t := range times {
		if t < 0 {
			return Series{}, &balance.FieldError{Field: "time_points", Reason: "must not be negative"}
		}
		pt := p
		pt.Duration = t
		pt.Final = p.Initial * math.Exp(-k*t)
		s.Points = append(s.Points, Point{Result: c.Compute(pt), Time: t})
	}
	return s, nil
}

func (c Calculator) seriesParams(base Input) (Params, error) {
	var p Params
	var err error
	if p.Volume, err = base.SolutionVolume.Require("solution_volume"); err != nil {
		return Params{}, err
	}
	if p.Initial, err = base.InitialMoConcentration.Require("initial_mo_concentration"); err != nil {
		return Params{}, err
	}
	if p.AnioniteMass, err = base.AnioniteMass.Require("anionite_mass"); err != nil {
		return Params{}, err
	}
	if p.Temperature, err = base.Temperature.Optional("temperature", c.Constants.DefaultTemperature); err != nil {
		return Params{}, err
	}
	if p.StirringSpeed, err = base.StirringSpeed.Optional("stirring_speed", c.Constants.DefaultStirring); err != nil {
		return Params{}, err
	}
	var chk balance.Checks
	chk.Require(p.Volume > 0, "Solution volume must be greater than 0")
	chk.Require(p.Initial > 0, "Initial Mo concentration must be greater than 0")
	chk.Require(p.AnioniteMass > 0, "Anionite mass must be greater than 0")
	chk.Require(p.Temperature >= 0 && p.Temperature <= 100, "Temperature must be between 0 and 100°C")
	return p, chk.Err()
}

// TimeToExtraction inverts the kinetic model: the minutes needed to reach
// extraction percent at temperature.
func (c Calculator) TimeToExtraction(temperature, extraction float64) (float64, error) {
	if extraction <= 0 || extraction >= 100 {
		return 0, &balance.FieldError{Field: "target_extraction", Reason: "must be between 0 and 100 exclusive"}
	}
	k := c.Constants.RateConstant(temperature)
	return -math.Log(1-extraction/100) / k, nil
}
