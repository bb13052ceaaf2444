package sorption

import (
	"encoding/json"
	"math"
	"testing"

	"Furnace/internal/calc/balance"
	"Furnace/internal/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hotRun() Input {
	return Reference()[4]
}

func TestCalculateReferencePoint(t *testing.T) {
	res, err := Calculate(hotRun())
	require.NoError(t, err)

	assert.InDelta(t, 94.6068, res.Extraction, 1e-4)
	assert.InDelta(t, 0.4596, res.MoOnAnionite, 1e-9)
	assert.InDelta(t, 4.79e-4, res.SorptionCapacity, 1e-6)
	assert.InDelta(t, 23.95, res.FillingDegree, 0.01)
	assert.InDelta(t, 45.96, res.SpecificSorption, 1e-9)
	assert.InDelta(t, 0.048667, res.KineticCoefficient, 1e-6)
	assert.InDelta(t, 2.298, res.MoRemoved, 1e-9)
	assert.Equal(t, 80.0, res.Temperature)

	require.Len(t, res.Validations, 2)
	assert.Equal(t, balance.SeveritySuccess, res.Validations[0].Type)
	assert.Equal(t, balance.SeverityWarning, res.Validations[1].Type)
	assert.Contains(t, res.Validations[1].Message, "4.79e-04")
	assert.Empty(t, res.Recommendations)
}

func TestCalculateColdRunRecommendations(t *testing.T) {
	in := Reference()[1]
	res, err := Calculate(in)
	require.NoError(t, err)
	assert.InDelta(t, 40.92, res.Extraction, 0.01)
	assert.Equal(t, balance.SeverityError, res.Validations[0].Type)
	require.Len(t, res.Recommendations, 1)
	assert.Contains(t, res.Recommendations[0], "temperature")
}

func TestCalculateDefaults(t *testing.T) {
	in := hotRun()
	in.Temperature = balance.Float{}
	in.StirringSpeed = balance.Float{}
	res, err := Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, 25.0, res.Temperature)
}

func TestCalculateSaturation(t *testing.T) {
	in := hotRun()
	in.AnioniteMass = balance.Num(1)
	in.FinalMoConcentration = balance.Num(0.1)
	res, err := Calculate(in)
	require.NoError(t, err)
	assert.Greater(t, res.SorptionCapacity, 0.0015)
	assert.Equal(t, balance.SeveritySuccess, res.Validations[1].Type)
	require.Len(t, res.Validations, 3)
	assert.Contains(t, res.Validations[2].Message, "saturation")
}

func TestCalculateZeroFinal(t *testing.T) {
	in := hotRun()
	in.FinalMoConcentration = balance.Num(0)
	res, err := Calculate(in)
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Extraction)
	assert.Equal(t, 0.0, res.KineticCoefficient)
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		mutate func(*Input)
		want   string
	}{
		"no volume":      {func(in *Input) { in.SolutionVolume = balance.Num(0) }, "Solution volume"},
		"no initial":     {func(in *Input) { in.InitialMoConcentration = balance.Num(0) }, "Initial Mo"},
		"negative final": {func(in *Input) { in.FinalMoConcentration = balance.Num(-0.1) }, "cannot be negative"},
		"final above":    {func(in *Input) { in.FinalMoConcentration = balance.Num(3) }, "cannot exceed"},
		"no anionite":    {func(in *Input) { in.AnioniteMass = balance.Num(0) }, "Anionite mass"},
		"boiling":        {func(in *Input) { in.Temperature = balance.Num(120) }, "Temperature"},
		"no duration":    {func(in *Input) { in.Duration = balance.Float{} }, "Duration"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			in := hotRun()
			tc.mutate(&in)
			_, err := Calculate(in)
			var verr *balance.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestCalculateMalformed(t *testing.T) {
	var in Input
	require.NoError(t, json.Unmarshal([]byte(`{"solution_volume": "lots"}`), &in))
	_, err := Calculate(in)
	var ferr *balance.FieldError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "solution_volume", ferr.Field)
}

func TestKineticSeries(t *testing.T) {
	c := New()
	s, err := c.KineticSeries(hotRun(), []float64{0, 60, 180})
	require.NoError(t, err)
	assert.Equal(t, 0.015, s.RateConstant)
	require.Len(t, s.Points, 3)

	assert.Equal(t, 0.0, s.Points[0].Time)
	assert.Equal(t, 0.0, s.Points[0].Extraction)
	assert.InDelta(t, 0.98756, s.Points[1].FinalConcentration, 1e-5)
	assert.InDelta(t, 59.343, s.Points[1].Extraction, 1e-3)
	assert.InDelta(t, 93.279, s.Points[2].Extraction, 1e-3)
	assert.InDelta(t, 0.015, s.Points[2].KineticCoefficient, 1e-12)
	assert.Equal(t, 180.0, s.Points[2].Duration)
}

func TestKineticSeriesDefaults(t *testing.T) {
	s, err := New().KineticSeries(hotRun(), nil)
	require.NoError(t, err)
	assert.Len(t, s.Points, len(DefaultTimePoints))
}

func TestKineticSeriesRejectsNegativeTime(t *testing.T) {
	_, err := New().KineticSeries(hotRun(), []float64{-1})
	var ferr *balance.FieldError
	require.ErrorAs(t, err, &ferr)
}

func TestRateConstant(t *testing.T) {
	c := DefaultConstants()
	assert.Equal(t, 0.015, c.RateConstant(85))
	assert.Equal(t, 0.008, c.RateConstant(60))
	assert.Equal(t, 0.005, c.RateConstant(45))
	assert.Equal(t, 0.003, c.RateConstant(20))
}

func TestTimeToExtraction(t *testing.T) {
	c := New()
	got, err := c.TimeToExtraction(80, 80)
	require.NoError(t, err)
	assert.InDelta(t, 107.2959, got, 1e-4)

	// The inverse lands back on the target.
	s, err := c.KineticSeries(hotRun(), []float64{got})
	require.NoError(t, err)
	assert.InDelta(t, 80.0, s.Points[0].Extraction, 1e-9)

	for _, bad := range []float64{0, 100, -5, math.Inf(1)} {
		_, err := c.TimeToExtraction(80, bad)
		assert.Error(t, err, "target %v", bad)
	}
}

func TestRecord(t *testing.T) {
	in := hotRun()
	id := int64(6)
	in.LeachingTestID = &id
	res, err := Calculate(in)
	require.NoError(t, err)

	exp := Record(in, res)
	assert.Equal(t, record.ProcessSorption, exp.Process)
	assert.Equal(t, "purolite_a100", exp.Tag("anionite_type"))
	assert.Equal(t, "6", exp.Tag("leaching_test_id"))
	assert.Equal(t, 80.0, exp.Metric("temperature"))
	assert.InDelta(t, 94.6068, exp.Metric("extraction"), 1e-4)

	anionite, ok := exp.Stream("anionite")
	require.True(t, ok)
	mo, ok := anionite.Element(balance.Mo)
	require.True(t, ok)
	assert.InDelta(t, 94.6068, mo.Extraction, 1e-4)

	solution, ok := exp.Stream("solution")
	require.True(t, ok)
	rest, _ := solution.Element(balance.Mo)
	assert.InDelta(t, 100.0, mo.Extraction+rest.Extraction, 1e-9)
}

func TestCalculateIsIdempotent(t *testing.T) {
	a, err := Calculate(hotRun())
	require.NoError(t, err)
	b, err := Calculate(hotRun())
	require.NoError(t, err)

	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	assert.Equal(t, string(ja), string(jb))
}
