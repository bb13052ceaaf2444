package flotation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Furnace/internal/record"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestHandlerCalcAndSave(t *testing.T) {
	store := &memSaver{}
	h := &Handler{Store: store}
	body := `{
		"final_concentrate": {"mass": 20, "grade": 30},
		"tails": {"mass": 150, "grade": 0.5},
		"cleaner_tails": {"mass": 10, "grade": 3},
		"control_concentrate": {"mass": 20, "grade": 6},
		"initial_grade_analysis": 4,
		"save_test": true
	}`
	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/api/flotation/calculate", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success    bool   `json:"success"`
		Results    Result `json:"results"`
		TestNumber int    `json:"test_number"`
		Saved      bool   `json:"saved"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Saved)
	assert.Equal(t, 1, resp.TestNumber)
	assert.Equal(t, 10.0, resp.Results.ConcentrateYield)
	require.Len(t, store.saved, 1)
	assert.Len(t, store.saved[0].Streams, 4)
}

func TestHandlerMalformed(t *testing.T) {
	h := &Handler{}
	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"tails": {"mass": "x"}}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "tails.mass")
}

func TestHandlerReagents(t *testing.T) {
	h := &Handler{}
	rec := httptest.NewRecorder()
	h.Reagents(rec, httptest.NewRequest(http.MethodGet, "/api/flotation/reagents?type=experimental", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp reagentsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Reagents, 2)
	assert.Equal(t, 2, resp.Stats.Experimental)
}

func TestHandlerOverflowIsInternalError(t *testing.T) {
	h := &Handler{}
	body := `{"final_concentrate": {"mass": 1e200, "grade": 1e200}, "tails": {"mass": 1e200, "grade": 1e200}}`
	rec := httptest.NewRecorder()
	h.Calc(rec, httptest.NewRequest(http.MethodPost, "/api/flotation/calculate", strings.NewReader(body)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}
