package antimony

import (
	"math"

	"Furnace/internal/calc/balance"

	"github.com/rotisserie/eris"
)

// ErrNonPositiveMass is the only hard failure of the smelting balance. Every
// other field falls back to its default.
var ErrNonPositiveMass = &balance.FieldError{Field: "antimonite_mass", Reason: "must be greater than zero"}

type Input struct {
	AntimoniteMass balance.Float `json:"antimonite_mass"`
	SbContent      balance.Float `json:"sb_content"`
	NaContent      balance.Float `json:"na_content"`
	AsContent      balance.Float `json:"as_content"`
	Moisture       balance.Float `json:"moisture"`
	Temperature    balance.Float `json:"temperature"`
	ReducerType    string        `json:"reducer_type"`
	ReducerAmount  balance.Float `json:"reducer_amount"`
	CokeAsh        balance.Float `json:"coke_ash"`
	LeadAddition   balance.Float `json:"lead_addition"`
	SaveTest       bool          `json:"save_test"`
}

// Params is an input with defaults applied.
type Params struct {
	AntimoniteMass float64
	SbContent      float64
	NaContent      float64
	AsContent      float64
	Moisture       float64
	Temperature    int
	Reducer        Reducer
	ReducerAmount  float64
	CokeAsh        float64
	LeadAddition   float64
}

type Echo struct {
	AntimoniteMass     float64 `json:"antimonite_mass"`
	DryAntimonite      float64 `json:"dry_antimonite"`
	SbContent          float64 `json:"sb_content"`
	NaContent          float64 `json:"na_content"`
	AsContent          float64 `json:"as_content"`
	Moisture           float64 `json:"moisture"`
	Temperature        int     `json:"temperature"`
	ReducerType        Reducer `json:"reducer_type"`
	ReducerTypeDisplay string  `json:"reducer_type_display"`
	ReducerAmount      float64 `json:"reducer_amount"`
	ReducerMass        float64 `json:"reducer_mass"`
	CokeAsh            float64 `json:"coke_ash"`
	LeadAddition       float64 `json:"lead_addition"`
	TotalCharge        float64 `json:"total_charge"`
}

type Loaded struct {
	Sb float64 `json:"sb"`
	Na float64 `json:"na"`
	As float64 `json:"as"`
}

type Impurities struct {
	Na float64 `json:"na"`
	As float64 `json:"as"`
	Pb float64 `json:"pb"`
	Fe float64 `json:"fe"`
}

type Crude struct {
	Mass         float64    `json:"mass"`
	YieldPercent float64    `json:"yield_percent"`
	SbContent    float64    `json:"sb_content"`
	SbExtraction float64    `json:"sb_extraction"`
	Impurities   Impurities `json:"impurities"`
}

type Slag struct {
	Mass         float64 `json:"mass"`
	YieldPercent float64 `json:"yield_percent"`
	SbContent    float64 `json:"sb_content"`
	NaContent    float64 `json:"na_content"`
	SbLosses     float64 `json:"sb_losses"`
}

type Losses struct {
	SbToGas            float64 `json:"sb_to_gas"`
	AsToGas            float64 `json:"as_to_gas"`
	TotalBalanceDiff   float64 `json:"total_balance_diff"`
	TotalLossesPercent float64 `json:"total_losses_percent"`
}

// ElementBalance is the distribution of one element. ToGas is absent for
// elements that do not volatilize.
type ElementBalance struct {
	Loaded            float64  `json:"loaded"`
	ToCrude           float64  `json:"to_crude"`
	ToSlag            float64  `json:"to_slag"`
	ToGas             *float64 `json:"to_gas,omitempty"`
	ExtractionPercent *float64 `json:"extraction_percent,omitempty"`
}

type Balances struct {
	Sb ElementBalance `json:"sb"`
	Na ElementBalance `json:"na"`
	As ElementBalance `json:"as"`
}

type Result struct {
	Input           Echo               `json:"input"`
	Loaded          Loaded             `json:"loaded"`
	CrudeAntimony   Crude              `json:"crude_antimony"`
	Slag            Slag               `json:"slag"`
	Losses          Losses             `json:"losses"`
	Balance         Balances           `json:"balance"`
	Recommendations []balance.Advisory `json:"recommendations"`
}

type Calculator struct {
	Tables   Tables
	Defaults Defaults
}

func New() Calculator {
	return Calculator{Tables: DefaultTables(), Defaults: StandardDefaults()}
}

// Calculate runs the smelting balance with the standard tables.
func Calculate(in Input) (Result, error) {
	return New().Calculate(in)
}

func (c Calculator) Resolve(in Input) Params {
	d := c.Defaults
	reducer := Reducer(in.ReducerType)
	if reducer != Coke && reducer != Charcoal {
		reducer = d.Reducer
	}
	temp := d.Temperature
	// Temperatures that do not fit an int are treated like malformed input.
	if v := in.Temperature.Value; in.Temperature.Valid() && v > math.MinInt32 && v < math.MaxInt32 {
		temp = int(v)
	}
	return Params{
		AntimoniteMass: in.AntimoniteMass.Or(0),
		SbContent:      in.SbContent.Or(d.SbContent),
		NaContent:      in.NaContent.Or(d.NaContent),
		AsContent:      in.AsContent.Or(d.AsContent),
		Moisture:       in.Moisture.Or(d.Moisture),
		Temperature:    temp,
		Reducer:        reducer,
		ReducerAmount:  in.ReducerAmount.Or(d.ReducerAmount),
		CokeAsh:        in.CokeAsh.Or(d.CokeAsh),
		LeadAddition:   in.LeadAddition.Or(0),
	}
}

func (c Calculator) Calculate(in Input) (Result, error) {
	return c.Balance(c.Resolve(in))
}

func (c Calculator) Balance(p Params) (Result, error) {
	if p.AntimoniteMass <= 0 {
		return Result{}, ErrNonPositiveMass
	}
	t := c.Tables

	dry := p.AntimoniteMass * (1 - p.Moisture/100)
	sbLoaded := dry * p.SbContent / 100
	naLoaded := dry * p.NaContent / 100
	asLoaded := dry * p.AsContent / 100

	reducerMass := dry * p.ReducerAmount / 100
	charge := dry + reducerMass + p.LeadAddition

	lead := p.LeadAddition > 0
	ratio := 0.0
	if lead {
		ratio = p.LeadAddition / dry
	}
	extraction, err := t.Extraction.Lookup(ExtractionKey{Temperature: p.Temperature, Reducer: p.Reducer, Lead: lead, LeadRatio: ratio})
	if err != nil {
		return Result{}, eris.Wrap(err, "antimony: extraction")
	}
	dosage := BracketOf(p.ReducerAmount)
	purity, err := t.Purity.Lookup(PurityKey{Dosage: dosage, Temperature: p.Temperature, Reducer: p.Reducer})
	if err != nil {
		return Result{}, eris.Wrap(err, "antimony: purity")
	}
	slagSb, err := t.SlagSb.Lookup(dosage)
	if err != nil {
		return Result{}, eris.Wrap(err, "antimony: slag sb")
	}

	sbToCrude := sbLoaded * extraction / 100
	crude := sbToCrude / (purity / 100)

	na := t.Sodium.For(p.Reducer)
	naToCrude := naLoaded * na.ToCrude / 100
	naToSlag := naLoaded * na.ToSlag / 100

	asToCrude := asLoaded * t.Arsenic.ToCrude / 100
	asToSlag := asLoaded * t.Arsenic.ToSlag / 100
	asToGas := asLoaded * t.Arsenic.ToGas / 100

	slag := dry * t.BaseSlagFraction
	if p.Reducer == Coke {
		slag += reducerMass * p.CokeAsh / 100
	}
	sbToSlag := slag * slagSb / 100
	sbLosses := sbLoaded - crude*purity/100 - sbToSlag

	diff := charge - crude - slag

	r2 := func(x float64) float64 { return balance.Round(x, 2) }
	sbGas := r2(sbLosses)
	asGas := r2(asToGas)
	sbExt := r2(extraction)

	res := Result{
		Input: Echo{
			AntimoniteMass:     r2(p.AntimoniteMass),
			DryAntimonite:      r2(dry),
			SbContent:          r2(p.SbContent),
			NaContent:          r2(p.NaContent),
			AsContent:          r2(p.AsContent),
			Moisture:           r2(p.Moisture),
			Temperature:        p.Temperature,
			ReducerType:        p.Reducer,
			ReducerTypeDisplay: p.Reducer.Display(),
			ReducerAmount:      r2(p.ReducerAmount),
			ReducerMass:        r2(reducerMass),
			CokeAsh:            r2(p.CokeAsh),
			LeadAddition:       r2(p.LeadAddition),
			TotalCharge:        r2(charge),
		},
		Loaded: Loaded{Sb: r2(sbLoaded), Na: r2(naLoaded), As: r2(asLoaded)},
		CrudeAntimony: Crude{
			Mass:         r2(crude),
			YieldPercent: r2(balance.Percent(crude, charge)),
			SbContent:    r2(purity),
			SbExtraction: sbExt,
			Impurities: Impurities{
				Na: r2(balance.Percent(naToCrude, crude)),
				As: r2(balance.Percent(asToCrude, crude)),
				Pb: t.PbInCrude,
				Fe: t.FeInCrude,
			},
		},
		Slag: Slag{
			Mass:         r2(slag),
			YieldPercent: r2(balance.Percent(slag, charge)),
			SbContent:    r2(slagSb),
			NaContent:    t.NaInSlag,
			SbLosses:     r2(sbToSlag),
		},
		Losses: Losses{
			SbToGas:            sbGas,
			AsToGas:            asGas,
			TotalBalanceDiff:   r2(diff),
			TotalLossesPercent: r2(balance.Percent(diff, charge)),
		},
		Balance: Balances{
			Sb: ElementBalance{Loaded: r2(sbLoaded), ToCrude: r2(sbToCrude), ToSlag: r2(sbToSlag), ToGas: &sbGas, ExtractionPercent: &sbExt},
			Na: ElementBalance{Loaded: r2(naLoaded), ToCrude: r2(naToCrude), ToSlag: r2(naToSlag)},
			As: ElementBalance{Loaded: r2(asLoaded), ToCrude: r2(asToCrude), ToSlag: r2(asToSlag), ToGas: &asGas},
		},
	}
	res.Recommendations = Recommend(p, extraction, balance.Percent(naToCrude, crude))
	return res, nil
}

