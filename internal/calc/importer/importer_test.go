package importer

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"Furnace/internal/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type memSaver struct {
	saved []record.Experiment
}

func (m *memSaver) SaveExperiment(_ context.Context, exp *record.Experiment) error {
	exp.ID = int64(len(m.saved) + 1)
	exp.Number = len(m.saved) + 1
	m.saved = append(m.saved, *exp)
	return nil
}

func workbook(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func header() []any {
	out := make([]any, 0, len(Columns)+1)
	for _, c := range Columns {
		out = append(out, c)
	}
	return append(out, "configuration")
}

func TestFromXLSX(t *testing.T) {
	buf := workbook(t,
		header(),
		[]any{4, "", 20, "30", 150, "0,5", 10, 3, 20, "6%", "Cell A"},
		[]any{},
		[]any{1, "", 1, 1},
	)
	entries, err := FromXLSX(buf)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 2, entries[0].Line)
	assert.Equal(t, 4, entries[1].Line)

	in := entries[0].Input()
	assert.Equal(t, 0.5, in.Tails.Grade.Value)
	assert.Equal(t, 6.0, in.ControlConcentrate.Grade.Value)
	assert.Equal(t, "Cell A", in.Configuration)
	assert.Equal(t, DefaultRegime, in.ReagentRegime)
}

func TestFromXLSXEmpty(t *testing.T) {
	_, err := FromXLSX(workbook(t, header()))
	assert.ErrorIs(t, err, ErrEmptySheet)
}

func TestFromJSON(t *testing.T) {
	src := `[{"initial_grade_analysis": 4, "tails_mass": "150", "tails_grade": "0,5", "final_concentrate_mass": null, "is_microflotation": true}]`
	entries, err := FromJSON(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	in := entries[0].Input()
	assert.Equal(t, 150.0, in.Tails.Mass.Value)
	assert.Equal(t, 0.5, in.Tails.Grade.Value)
	assert.Equal(t, 0.0, in.FinalConcentrate.Mass.Value)
	assert.True(t, in.IsMicroflotation)
}

func TestToFloat(t *testing.T) {
	assert.Equal(t, 12.5, toFloat("12,5"))
	assert.Equal(t, 60.39, toFloat("60.39%"))
	assert.Equal(t, 0.0, toFloat("n/a"))
	assert.Equal(t, 0.0, toFloat(""))
}

func TestFlotationReportsBadRows(t *testing.T) {
	src := `[
		{"initial_grade_analysis": 4, "final_concentrate_mass": 20, "final_concentrate_grade": 30,
		 "tails_mass": 150, "tails_grade": 0.5, "cleaner_tails_mass": 10, "cleaner_tails_grade": 3,
		 "control_concentrate_mass": 20, "control_concentrate_grade": 6},
		{"initial_grade_analysis": 3}
	]`
	entries, err := FromJSON(strings.NewReader(src))
	require.NoError(t, err)

	store := &memSaver{}
	rep, err := Flotation(context.Background(), entries, store, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Total)
	assert.Equal(t, 1, rep.Imported)
	assert.Equal(t, 1, rep.Failed)
	assert.InDelta(t, 90.9091, rep.Rows[0].Extraction, 1e-4)
	assert.Equal(t, 1, rep.Rows[0].TestNumber)
	assert.Equal(t, ErrNoProducts.Error(), rep.Rows[1].Error)
	require.Len(t, store.saved, 1)
	assert.Equal(t, 4, store.saved[0].CreatedBy)
	assert.Equal(t, record.ProcessFlotation, store.saved[0].Process)
}

func TestExport(t *testing.T) {
	exps := []record.Experiment{
		{Number: 1, CreatedAt: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
			Tags: map[string]string{"acid_type": "hno3"}, Metrics: map[string]float64{"avg_balance": 100.19}},
		{Number: 2, CreatedAt: time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC),
			Tags: map[string]string{"acid_type": "mixed", "has_oxygen": "true"}, Metrics: map[string]float64{"cake_yield": 87}},
	}
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, "leaching", exps))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("leaching")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"number", "date", "created_by", "acid_type", "has_oxygen", "avg_balance", "cake_yield"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "2025-03-01 10:00", rows[1][1])
	assert.Equal(t, "100.19", rows[1][5])
	assert.Equal(t, "true", rows[2][4])
}

func TestHandlerFlotation(t *testing.T) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", "tests.json")
	require.NoError(t, err)
	_, err = part.Write([]byte(`[{"initial_grade_analysis": 4, "final_concentrate_mass": 20, "final_concentrate_grade": 30, "tails_mass": 150, "tails_grade": 0.5, "cleaner_tails_mass": 10, "cleaner_tails_grade": 3, "control_concentrate_mass": 20, "control_concentrate_grade": 6}]`))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	store := &memSaver{}
	h := &Handler{Store: store}
	req := httptest.NewRequest(http.MethodPost, "/api/flotation/import?save=true", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Flotation(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"imported":1`)
	assert.Len(t, store.saved, 1)
}

func TestHandlerFlotationNoFile(t *testing.T) {
	h := &Handler{}
	rec := httptest.NewRecorder()
	h.Flotation(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
