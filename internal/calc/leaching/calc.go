package leaching

import (
	"fmt"
	"strings"

	"Furnace/internal/calc/balance"
)

// Elements are the tracked elements in balance order.
var Elements = []balance.Element{balance.Mo, balance.Cu, balance.Fe, balance.Si}

type AcidType string

const (
	HNO3  AcidType = "hno3"
	H2SO4 AcidType = "h2so4"
	Mixed AcidType = "mixed"
)

func (a AcidType) Display() string {
	switch a {
	case HNO3:
		return "HNO3"
	case H2SO4:
		return "H2SO4"
	case Mixed:
		return "HNO3 + H2SO4"
	}
	return string(a)
}

// Input holds a leaching run. Concentrate and cake grades are mass percent,
// solution concentrations are g/L and the solution volume is mL.
type Input struct {
	ConcentrateMass balance.Float `json:"concentrate_mass"`
	InitialMo       balance.Float `json:"initial_mo"`
	InitialCu       balance.Float `json:"initial_cu"`
	InitialFe       balance.Float `json:"initial_fe"`
	InitialSi       balance.Float `json:"initial_si"`

	CakeMass balance.Float `json:"cake_mass"`
	CakeMo   balance.Float `json:"cake_mo"`
	CakeCu   balance.Float `json:"cake_cu"`
	CakeFe   balance.Float `json:"cake_fe"`
	CakeSi   balance.Float `json:"cake_si"`

	SolutionVolume balance.Float `json:"solution_volume"`
	SolutionMo     balance.Float `json:"solution_mo"`
	SolutionCu     balance.Float `json:"solution_cu"`
	SolutionFe     balance.Float `json:"solution_fe"`
	SolutionSi     balance.Float `json:"solution_si"`

	AcidType           AcidType      `json:"acid_type"`
	HNO3Concentration  balance.Float `json:"hno3_concentration"`
	H2SO4Concentration balance.Float `json:"h2so4_concentration"`
	Temperature        balance.Float `json:"temperature"`
	Duration           balance.Float `json:"duration"`
	StirringSpeed      balance.Float `json:"stirring_speed"`
	HasOxygen          bool          `json:"has_oxygen"`
	OxygenFlow         balance.Float `json:"oxygen_flow"`

	SaveTest bool `json:"save_test"`
}

func (in Input) Initial(e balance.Element) balance.Float {
	return pick(e, in.InitialMo, in.InitialCu, in.InitialFe, in.InitialSi)
}

func (in Input) Cake(e balance.Element) balance.Float {
	return pick(e, in.CakeMo, in.CakeCu, in.CakeFe, in.CakeSi)
}

func (in Input) Solution(e balance.Element) balance.Float {
	return pick(e, in.SolutionMo, in.SolutionCu, in.SolutionFe, in.SolutionSi)
}

func pick(e balance.Element, mo, cu, fe, si balance.Float) balance.Float {
	switch e {
	case balance.Mo:
		return mo
	case balance.Cu:
		return cu
	case balance.Fe:
		return fe
	case balance.Si:
		return si
	}
	return balance.Float{}
}

// Masses are grams of each element in one stream.
type Masses map[balance.Element]float64

type Result struct {
	Initial          Masses             `json:"initial"`
	Cake             Masses             `json:"cake"`
	Solution         Masses             `json:"solution"`
	Extractions      map[string]float64 `json:"extractions"`
	CakeYield        float64            `json:"cake_yield"`
	BalanceCheck     Masses             `json:"balance_check"`
	AvgBalance       float64            `json:"avg_balance"`
	Validations      []balance.Advisory `json:"validations"`
	ConcentrateMass  float64            `json:"concentrate_mass"`
	CakeMass         float64            `json:"cake_mass"`
	SolutionVolume   float64            `json:"solution_volume"`
	SolidLiquidRatio string             `json:"solid_liquid_ratio"`
}

func ExtractionKey(e balance.Element, stream string) string {
	return string(e) + "_to_" + stream
}

func (r Result) ToCake(e balance.Element) float64 {
	return r.Extractions[ExtractionKey(e, "cake")]
}

func (r Result) ToSolution(e balance.Element) float64 {
	return r.Extractions[ExtractionKey(e, "solution")]
}

// Calculate validates the run and computes the per-element balance.
func Calculate(in Input) (Result, error) {
	if err := Validate(in); err != nil {
		return Result{}, err
	}
	concentrate, err := in.ConcentrateMass.Require("concentrate_mass")
	if err != nil {
		return Result{}, err
	}
	cakeMass, err := in.CakeMass.Require("cake_mass")
	if err != nil {
		return Result{}, err
	}
	volume, err := in.SolutionVolume.Require("solution_volume")
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Initial:         Masses{},
		Cake:            Masses{},
		Solution:        Masses{},
		Extractions:     map[string]float64{},
		BalanceCheck:    Masses{},
		ConcentrateMass: concentrate,
		CakeMass:        cakeMass,
		SolutionVolume:  volume,
	}
	for _, e := range Elements {
		name := string(e)
		initial, err := in.Initial(e).Require("initial_" + name)
		if err != nil {
			return Result{}, err
		}
		cake, err := in.Cake(e).Require("cake_" + name)
		if err != nil {
			return Result{}, err
		}
		conc, err := in.Solution(e).Require("solution_" + name)
		if err != nil {
			return Result{}, err
		}
		res.Initial[e] = concentrate * initial / 100
		res.Cake[e] = cakeMass * cake / 100
		// g/L times mL, converted to L.
		res.Solution[e] = conc * volume / 1000
	}

	for _, e := range Elements {
		initial := res.Initial[e]
		toCake, toSolution, closure := 0.0, 0.0, 0.0
		if initial > 0 {
			toCake = res.Cake[e] / initial * 100
			toSolution = res.Solution[e] / initial * 100
			closure = (res.Cake[e] + res.Solution[e]) / initial * 100
		}
		res.Extractions[ExtractionKey(e, "cake")] = toCake
		res.Extractions[ExtractionKey(e, "solution")] = toSolution
		res.BalanceCheck[e] = closure
	}

	res.CakeYield = cakeMass / concentrate * 100
	res.AvgBalance = AverageBalance(res.BalanceCheck)
	res.SolidLiquidRatio = SolidLiquidRatio(concentrate, volume)
	res.Validations = Advise(res)
	return res, nil
}

// AverageBalance is the mean closure over Elements, summed in that order.
func AverageBalance(b Masses) float64 {
	sum := 0.0
	for _, e := range Elements {
		sum += b[e]
	}
	return sum / float64(len(Elements))
}

// SolidLiquidRatio formats the solid to liquid ratio as "1:N".
func SolidLiquidRatio(mass, volume float64) string {
	if mass <= 0 || volume <= 0 {
		return "-"
	}
	return fmt.Sprintf("1:%.0f", volume/mass)
}

func Advise(res Result) []balance.Advisory {
	var out []balance.Advisory
	switch {
	case res.AvgBalance < 95:
		out = append(out, balance.Note(balance.SeverityWarning, "Balance below normal: %.1f%% (expected above 95%%)", res.AvgBalance))
	case res.AvgBalance > 105:
		out = append(out, balance.Note(balance.SeverityWarning, "Balance above normal: %.1f%% (expected below 105%%)", res.AvgBalance))
	default:
		out = append(out, balance.Note(balance.SeveritySuccess, "Balance within normal range: %.1f%%", res.AvgBalance))
	}

	mo := res.ToSolution(balance.Mo)
	switch {
	case mo > 70:
		out = append(out, balance.Note(balance.SeveritySuccess, "Excellent Mo extraction to solution: %.1f%%", mo))
	case mo > 50:
		out = append(out, balance.Note(balance.SeverityInfo, "Good Mo extraction to solution: %.1f%%", mo))
	default:
		out = append(out, balance.Note(balance.SeverityWarning, "Low Mo extraction to solution: %.1f%%", mo))
	}
	return out
}

func upper(e balance.Element) string {
	return strings.ToUpper(string(e))
}
