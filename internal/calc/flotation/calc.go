package flotation

import "Furnace/internal/calc/balance"

type Product string

const (
	FinalConcentrate   Product = "final_concentrate"
	Tails              Product = "tails"
	CleanerTails       Product = "cleaner_tails"
	ControlConcentrate Product = "control_concentrate"
)

// Products lists the flotation products in stored order.
var Products = []Product{FinalConcentrate, Tails, CleanerTails, ControlConcentrate}

func (p Product) Display() string {
	switch p {
	case FinalConcentrate:
		return "Final concentrate"
	case Tails:
		return "Tailings"
	case CleanerTails:
		return "Cleaner tailings"
	case ControlConcentrate:
		return "Scavenger concentrate"
	}
	return string(p)
}

// MinTotalMass is the smallest sample, in grams, considered representative.
const MinTotalMass = 100.0

type ProductInput struct {
	Mass  balance.Float `json:"mass"`
	Grade balance.Float `json:"grade"`
}

type Input struct {
	FinalConcentrate       ProductInput  `json:"final_concentrate"`
	Tails                  ProductInput  `json:"tails"`
	CleanerTails           ProductInput  `json:"cleaner_tails"`
	ControlConcentrate     ProductInput  `json:"control_concentrate"`
	InitialGradeAnalysis   balance.Float `json:"initial_grade_analysis"`
	CalculatedInitialGrade balance.Float `json:"calculated_initial_grade"`
	ReagentRegime          string        `json:"reagent_regime"`
	Configuration          string        `json:"configuration"`
	IsMicroflotation       bool          `json:"is_microflotation"`
	SaveTest               bool          `json:"save_test"`
}

func (in Input) Product(p Product) ProductInput {
	switch p {
	case FinalConcentrate:
		return in.FinalConcentrate
	case Tails:
		return in.Tails
	case CleanerTails:
		return in.CleanerTails
	default:
		return in.ControlConcentrate
	}
}

// ProductBalance is one product. Au is mass (g) times grade (g/t), in µg.
type ProductBalance struct {
	Mass  float64 `json:"mass"`
	Grade float64 `json:"grade"`
	Au    float64 `json:"au"`
}

type MaterialBalance struct {
	TotalMass float64                    `json:"total_mass"`
	TotalAu   float64                    `json:"total_au"`
	Products  map[Product]ProductBalance `json:"products"`
}

type Result struct {
	InitialGradeAnalysis   float64            `json:"initial_grade_analysis"`
	CalculatedInitialGrade float64            `json:"calculated_initial_grade"`
	ConcentrateYield       float64            `json:"concentrate_yield"`
	Extraction             float64            `json:"extraction"`
	Efficiency             float64            `json:"efficiency"`
	MaterialBalance        MaterialBalance    `json:"material_balance"`
	Validations            []balance.Advisory `json:"validations"`
}

func Calculate(in Input) (Result, error) {
	mb := MaterialBalance{Products: make(map[Product]ProductBalance, len(Products))}
	for _, p := range Products {
		pin := in.Product(p)
		mass, err := pin.Mass.Optional(string(p)+".mass", 0)
		if err != nil {
			return Result{}, err
		}
		grade, err := pin.Grade.Optional(string(p)+".grade", 0)
		if err != nil {
			return Result{}, err
		}
		pb := ProductBalance{Mass: mass, Grade: grade, Au: mass * grade}
		mb.Products[p] = pb
		mb.TotalMass += pb.Mass
		mb.TotalAu += pb.Au
	}
	initial, err := in.InitialGradeAnalysis.Optional("initial_grade_analysis", 0)
	if err != nil {
		return Result{}, err
	}
	calculated, err := in.CalculatedInitialGrade.Optional("calculated_initial_grade", 0)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		InitialGradeAnalysis:   initial,
		CalculatedInitialGrade: calculated,
		MaterialBalance:        mb,
	}
	res.ConcentrateYield = balance.Percent(mb.Products[FinalConcentrate].Mass, mb.TotalMass)

	// Everything except the final tailings counts as recovered.
	useful := mb.Products[FinalConcentrate].Au + mb.Products[CleanerTails].Au + mb.Products[ControlConcentrate].Au
	res.Extraction = balance.Percent(useful, mb.TotalAu)

	if initial != 100 {
		res.Efficiency = (res.Extraction - res.ConcentrateYield) / (100 - initial) * 100
	}
	res.Validations = Validate(res)
	return res, nil
}

// Validate reports non-fatal findings about a computed balance.
func Validate(res Result) []balance.Advisory {
	out := []balance.Advisory{}
	if res.MaterialBalance.TotalMass < MinTotalMass {
		out = append(out, balance.Note(balance.SeverityWarning, "Small total sample mass: %.1f g", res.MaterialBalance.TotalMass))
	}
	switch {
	case res.Extraction > 100:
		out = append(out, balance.Note(balance.SeverityError, "Extraction above 100%%: %.1f%%", res.Extraction))
	case res.Extraction > 95:
		out = append(out, balance.Note(balance.SeveritySuccess, "Excellent extraction: %.1f%%", res.Extraction))
	}
	if res.Efficiency < 0 {
		out = append(out, balance.Note(balance.SeverityWarning, "Negative efficiency: %.1f%%", res.Efficiency))
	}
	return out
}
