package lab

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"Furnace/internal/analytics"
	"Furnace/internal/auth"
	"Furnace/internal/calc/batch"
	"Furnace/internal/repo"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seededStore(t *testing.T) *repo.Store {
	t.Helper()
	ctx := context.Background()
	st, err := repo.Open(ctx, repo.SQLite, filepath.Join(t.TempDir(), "lab.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(ctx))

	in := batch.ReferenceInput()
	res, err := batch.CalculateLeaching(in)
	require.NoError(t, err)
	_, err = batch.SaveLeaching(ctx, st, in.Items, res.Results, 1)
	require.NoError(t, err)
	return st
}

func router(h *Handler) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/experiments/detail/{id}", h.Detail).Methods(http.MethodGet)
	r.HandleFunc("/api/experiments/{process}", h.List).Methods(http.MethodGet)
	r.HandleFunc("/api/experiments/{process}/export", h.Export).Methods(http.MethodGet)
	r.HandleFunc("/api/dashboard/{process}", h.Dashboard).Methods(http.MethodGet)
	return r
}

func serve(t *testing.T, h http.Handler, target string, userID int) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if userID != 0 {
		req = req.WithContext(auth.WithUser(req.Context(), userID, "op"))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestList(t *testing.T) {
	r := router(&Handler{Store: seededStore(t)})

	rec := serve(t, r, "/api/experiments/leaching", 0)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp listResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 6, resp.Count)
	assert.Equal(t, 1, resp.Experiments[0].Number)

	rec = serve(t, r, "/api/experiments/leaching?acid_type=mixed&has_oxygen=1", 0)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.Count)
	assert.Equal(t, 6, resp.Experiments[0].Number)

	rec = serve(t, r, "/api/experiments/flotation", 0)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"experiments":[]`)
}

func TestListMine(t *testing.T) {
	r := router(&Handler{Store: seededStore(t)})

	var resp listResponse
	rec := serve(t, r, "/api/experiments/leaching?mine=true", 1)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 6, resp.Count)

	rec = serve(t, r, "/api/experiments/leaching?mine=true", 2)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Count)

	assert.Equal(t, http.StatusUnauthorized, serve(t, r, "/api/experiments/leaching?mine=true", 0).Code)
}

func TestListErrors(t *testing.T) {
	r := router(&Handler{Store: seededStore(t)})
	assert.Equal(t, http.StatusNotFound, serve(t, r, "/api/experiments/copper", 0).Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, r, "/api/experiments/leaching?min_extraction=abc", 0).Code)
}

func TestDetail(t *testing.T) {
	st := seededStore(t)
	r := router(&Handler{Store: st})

	exps, err := st.ListExperiments(context.Background(), "leaching")
	require.NoError(t, err)
	id := exps[5].ID

	rec := serve(t, r, fmt.Sprintf("/api/experiments/detail/%d", id), 0)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp detailResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 6, resp.Experiment.Number)
	assert.Len(t, resp.Experiment.Streams, 2)
	assert.Contains(t, resp.Highlights, "MO to solution: 72.57%")

	assert.Equal(t, http.StatusNotFound, serve(t, r, "/api/experiments/detail/999", 0).Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, r, "/api/experiments/detail/x", 0).Code)
}

func TestDashboard(t *testing.T) {
	r := router(&Handler{Store: seededStore(t)})
	rec := serve(t, r, "/api/dashboard/leaching", 0)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Results analytics.LeachingOverview `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 6, resp.Results.Total)
	require.NotNil(t, resp.Results.Best)
	assert.Equal(t, 6, resp.Results.Best.Number)
}

func TestExport(t *testing.T) {
	r := router(&Handler{Store: seededStore(t)})
	rec := serve(t, r, "/api/experiments/leaching/export?has_oxygen=0", 0)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "leaching.xlsx")

	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("leaching")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}
