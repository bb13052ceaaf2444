package flotation

import (
	"encoding/json"
	"testing"

	"Furnace/internal/calc/balance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(mass, grade float64) ProductInput {
	return ProductInput{Mass: balance.Num(mass), Grade: balance.Num(grade)}
}

func sampleInput() Input {
	return Input{
		FinalConcentrate:     product(20, 30),
		Tails:                product(150, 0.5),
		CleanerTails:         product(10, 3),
		ControlConcentrate:   product(20, 6),
		InitialGradeAnalysis: balance.Num(4),
		ReagentRegime:        "PAX 150 g/t, X-133 20 g/t",
		Configuration:        "rougher + 2 cleaners",
	}
}

func TestCalculate(t *testing.T) {
	res, err := Calculate(sampleInput())
	require.NoError(t, err)

	assert.Equal(t, 200.0, res.MaterialBalance.TotalMass)
	assert.Equal(t, 825.0, res.MaterialBalance.TotalAu)
	assert.Equal(t, ProductBalance{Mass: 20, Grade: 30, Au: 600}, res.MaterialBalance.Products[FinalConcentrate])
	assert.Equal(t, 10.0, res.ConcentrateYield)
	assert.InDelta(t, 90.9091, res.Extraction, 1e-4)
	assert.InDelta(t, 84.2803, res.Efficiency, 1e-4)
	assert.Empty(t, res.Validations)
}

func TestEfficiencyGuardAtFullGrade(t *testing.T) {
	in := sampleInput()
	in.InitialGradeAnalysis = balance.Num(100)
	res, err := Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Efficiency)
	assert.InDelta(t, 90.9091, res.Extraction, 1e-4)
}

func TestValidations(t *testing.T) {
	cases := []struct {
		name string
		in   Input
		want []balance.Severity
	}{
		{"small sample", Input{FinalConcentrate: product(5, 10), Tails: product(10, 1)}, []balance.Severity{balance.SeverityWarning}},
		{"excellent", Input{FinalConcentrate: product(50, 100), Tails: product(60, 0.1)}, []balance.Severity{balance.SeveritySuccess}},
		{"negative efficiency", Input{FinalConcentrate: product(90, 1), Tails: product(10, 2)}, []balance.Severity{balance.SeverityWarning}},
		{"over 100", Input{FinalConcentrate: product(100, 1), Tails: product(10, -1)}, []balance.Severity{balance.SeverityError}},
		{"empty", Input{}, []balance.Severity{balance.SeverityWarning}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Calculate(tc.in)
			require.NoError(t, err)
			got := make([]balance.Severity, 0, len(res.Validations))
			for _, v := range res.Validations {
				got = append(got, v.Type)
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMissingNumbersAreZero(t *testing.T) {
	var in Input
	require.NoError(t, json.Unmarshal([]byte(`{"final_concentrate": {"mass": "20"}, "tails": {"mass": 80, "grade": "0,5"}}`), &in))
	res, err := Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.MaterialBalance.TotalMass)
	assert.Equal(t, 0.0, res.MaterialBalance.Products[FinalConcentrate].Au)
	assert.Equal(t, 40.0, res.MaterialBalance.TotalAu)
	assert.Equal(t, 0.0, res.Extraction)
}

func TestMalformedNumberFails(t *testing.T) {
	var in Input
	require.NoError(t, json.Unmarshal([]byte(`{"tails": {"mass": "heavy"}}`), &in))
	_, err := Calculate(in)
	var fe *balance.FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "tails.mass", fe.Field)
}

func TestRecord(t *testing.T) {
	in := sampleInput()
	in.IsMicroflotation = true
	res, err := Calculate(in)
	require.NoError(t, err)

	exp := Record(in, res)
	assert.True(t, exp.Flag("is_microflotation"))
	assert.Equal(t, "rougher + 2 cleaners", exp.Tag("configuration"))
	assert.InDelta(t, 90.9091, exp.Metric("extraction"), 1e-4)
	require.Len(t, exp.Streams, 4)
	assert.Equal(t, string(FinalConcentrate), exp.Streams[0].Name)
	au, ok := exp.Streams[0].Element(balance.Au)
	require.True(t, ok)
	assert.Equal(t, 600.0, au.Grams)
	assert.InDelta(t, 72.7273, au.Extraction, 1e-4)
}

func TestCatalog(t *testing.T) {
	all := Catalog()
	require.Len(t, all, 6)
	assert.Equal(t, ReagentStats{Total: 6, Collectors: 2, Frothers: 1, Activators: 1, Experimental: 2}, Stats(all))

	top := Top(all, 3)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"MP-1", "PAX", "X-133"}, []string{top[0].Name, top[1].Name, top[2].Name})

	for _, r := range all {
		if r.Name == "MP-1" {
			assert.Equal(t, []string{"high-efficiency", "experimental", "record", "mp-series"}, r.DerivedTags)
		}
		if r.Name == "BTF" {
			assert.Empty(t, r.Tags())
		}
	}
}

func TestCalculateIsIdempotent(t *testing.T) {
	a, err := Calculate(sampleInput())
	require.NoError(t, err)
	b, err := Calculate(sampleInput())
	require.NoError(t, err)

	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	assert.Equal(t, string(ja), string(jb))
}
