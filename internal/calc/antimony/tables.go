package antimony

import "Furnace/internal/calc/balance"

type Reducer string

const (
	Coke     Reducer = "coke"
	Charcoal Reducer = "charcoal"
)

func (r Reducer) Display() string {
	if r == Charcoal {
		return "Charcoal"
	}
	return "Coke breeze"
}

// Dosage is the reducer consumption bracket. The measured series used 10% as
// the reference dosage, so exactly 10 is a bracket of its own.
type Dosage int

const (
	DosageBelow Dosage = iota
	DosageExact
	DosageAbove
)

const dosagePivot = 10.0

func BracketOf(amount float64) Dosage {
	switch {
	case amount < dosagePivot:
		return DosageBelow
	case amount > dosagePivot:
		return DosageAbove
	default:
		return DosageExact
	}
}

func (d Dosage) String() string {
	switch d {
	case DosageBelow:
		return "<10%"
	case DosageAbove:
		return ">10%"
	default:
		return "=10%"
	}
}

type ExtractionKey struct {
	Temperature int
	Reducer     Reducer
	Lead        bool
	LeadRatio   float64
}

type PurityKey struct {
	Dosage      Dosage
	Temperature int
	Reducer     Reducer
}

// Split distributes an element across output streams, in percent.
type Split struct {
	ToCrude float64
	ToSlag  float64
	ToGas   float64
}

type SodiumSplit struct {
	Coke     Split
	Charcoal Split
}

func (s SodiumSplit) For(r Reducer) Split {
	if r == Coke {
		return s.Coke
	}
	return s.Charcoal
}

// Tables holds the empirical smelting data. The values come from the
// laboratory series and are reproduced as measured.
type Tables struct {
	Extraction balance.Table[ExtractionKey]
	Purity     balance.Table[PurityKey]
	SlagSb     balance.Table[Dosage]

	Sodium  SodiumSplit
	Arsenic Split

	NaInSlag         float64
	PbInCrude        float64
	FeInCrude        float64
	BaseSlagFraction float64
}

func DefaultTables() Tables {
	return Tables{
		Extraction: balance.Table[ExtractionKey]{
			Name: "sb extraction",
			Rules: []balance.Rule[ExtractionKey]{
				{Name: "lead, ratio > 1", Match: func(k ExtractionKey) bool { return k.Lead && k.LeadRatio > 1.0 }, Value: 80.09},
				{Name: "lead, ratio <= 1", Match: func(k ExtractionKey) bool { return k.Lead }, Value: 84.83},
				{Name: "900C charcoal", Match: func(k ExtractionKey) bool { return k.Temperature == 900 && k.Reducer == Charcoal }, Value: 71.0},
				{Name: "900C coke", Match: func(k ExtractionKey) bool { return k.Temperature == 900 }, Value: 72.35},
				{Name: "1000C charcoal", Match: func(k ExtractionKey) bool { return k.Reducer == Charcoal }, Value: 75.85},
				{Name: "1000C coke", Match: balance.Always[ExtractionKey], Value: 71.49},
			},
		},
		Purity: balance.Table[PurityKey]{
			Name: "sb in crude",
			Rules: []balance.Rule[PurityKey]{
				{Name: "<10%", Match: func(k PurityKey) bool { return k.Dosage == DosageBelow }, Value: 97.90},
				{Name: ">10%", Match: func(k PurityKey) bool { return k.Dosage == DosageAbove }, Value: 92.42},
				{Name: "=10% 900C charcoal", Match: func(k PurityKey) bool { return k.Temperature == 900 && k.Reducer == Charcoal }, Value: 88.73},
				{Name: "=10% 900C coke", Match: func(k PurityKey) bool { return k.Temperature == 900 }, Value: 94.05},
				{Name: "=10% 1000C charcoal", Match: func(k PurityKey) bool { return k.Reducer == Charcoal }, Value: 90.52},
				{Name: "=10% 1000C coke", Match: balance.Always[PurityKey], Value: 87.32},
			},
		},
		SlagSb: balance.Table[Dosage]{
			Name: "sb in slag",
			Rules: []balance.Rule[Dosage]{
				{Name: "<10%", Match: func(d Dosage) bool { return d == DosageBelow }, Value: 55.83},
				{Name: ">10%", Match: func(d Dosage) bool { return d == DosageAbove }, Value: 0.56},
				{Name: "=10%", Match: balance.Always[Dosage], Value: 1.0},
			},
		},
		Sodium: SodiumSplit{
			Coke:     Split{ToCrude: 4.5, ToSlag: 95.5},
			Charcoal: Split{ToCrude: 35.0, ToSlag: 65.0},
		},
		Arsenic:          Split{ToCrude: 50, ToSlag: 15, ToGas: 35},
		NaInSlag:         30.0,
		PbInCrude:        0.70,
		FeInCrude:        0.55,
		BaseSlagFraction: 0.20,
	}
}

// Defaults are used for optional fields that are missing or do not parse.
type Defaults struct {
	SbContent     float64
	NaContent     float64
	AsContent     float64
	Moisture      float64
	Temperature   int
	Reducer       Reducer
	ReducerAmount float64
	CokeAsh       float64
}

func StandardDefaults() Defaults {
	return Defaults{
		SbContent:     60.39,
		NaContent:     7.66,
		AsContent:     0.60,
		Moisture:      2.0,
		Temperature:   900,
		Reducer:       Coke,
		ReducerAmount: 10.0,
		CokeAsh:       15.0,
	}
}
