package repo

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"Furnace/internal/calc/balance"
	"Furnace/internal/record"

	"github.com/lib/pq"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := Open(context.Background(), SQLite, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func leachingExperiment() *record.Experiment {
	return &record.Experiment{
		Process:   record.ProcessLeaching,
		CreatedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		CreatedBy: 3,
		Input:     json.RawMessage(`{"concentrate_mass":100}`),
		Tags:      map[string]string{"acid_type": "mixed", "has_oxygen": "true"},
		Metrics:   map[string]float64{"mo_to_solution": 72.57, "avg_balance": 100.0},
		Streams: []record.Stream{
			{Name: "cake", MassOrVolume: 87, YieldPercent: record.Ptr(87), Elements: []record.ElementValue{
				{Element: balance.Mo, Content: 15.0, Grams: 13.05, Extraction: 27.41},
				{Element: balance.Cu, Content: 1.2, Grams: 1.044, Extraction: 80.3},
			}},
			{Name: "solution", MassOrVolume: 500, Elements: []record.ElementValue{
				{Element: balance.Mo, Content: 69.1, Grams: 34.55, Extraction: 72.57},
			}},
		},
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Migrate(context.Background()))
}

func TestSaveAndGetExperiment(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	exp := leachingExperiment()
	require.NoError(t, st.SaveExperiment(ctx, exp))
	assert.NotZero(t, exp.ID)
	assert.Equal(t, 1, exp.Number)

	got, err := st.GetExperiment(ctx, exp.ID)
	require.NoError(t, err)
	assert.Equal(t, record.ProcessLeaching, got.Process)
	assert.Equal(t, 1, got.Number)
	assert.Equal(t, 3, got.CreatedBy)
	assert.True(t, exp.CreatedAt.Equal(got.CreatedAt))
	assert.JSONEq(t, `{"concentrate_mass":100}`, string(got.Input))
	assert.Equal(t, exp.Tags, got.Tags)
	assert.Equal(t, exp.Metrics, got.Metrics)
	require.Len(t, got.Streams, 2)
	assert.Equal(t, "cake", got.Streams[0].Name)
	require.NotNil(t, got.Streams[0].YieldPercent)
	assert.Equal(t, 87.0, *got.Streams[0].YieldPercent)
	assert.Nil(t, got.Streams[1].YieldPercent)
	assert.Equal(t, exp.Streams[0].Elements, got.Streams[0].Elements)
	assert.Equal(t, exp.Streams[1].Elements, got.Streams[1].Elements)
}

func TestGetExperimentNotFound(t *testing.T) {
	st := newTestSQLiteStore(t)
	_, err := st.GetExperiment(context.Background(), 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNumbersArePerProcess(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, st.SaveExperiment(ctx, leachingExperiment()))
	}
	flot := &record.Experiment{Process: record.ProcessFlotation}
	require.NoError(t, st.SaveExperiment(ctx, flot))
	assert.Equal(t, 1, flot.Number)

	list, err := st.ListExperiments(ctx, record.ProcessLeaching)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, exp := range list {
		assert.Equal(t, i+1, exp.Number)
		assert.Len(t, exp.Streams, 2)
	}

	empty, err := st.ListExperiments(ctx, record.ProcessSorption)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestConcurrentSavesGetDistinctNumbers(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	const n = 8
	numbers := make([]int, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			exp := leachingExperiment()
			errs[i] = st.SaveExperiment(ctx, exp)
			numbers[i] = exp.Number
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	sort.Ints(numbers)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8}, numbers)
}

func TestUsers(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	id, err := st.CreateUser(ctx, "anna", "anna@lab", "hash")
	require.NoError(t, err)
	assert.NotZero(t, id)

	_, err = st.CreateUser(ctx, "anna", "other@lab", "hash2")
	assert.Error(t, err)

	gotID, hash, err := st.GetBylogin(ctx, "anna")
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, "hash", hash)

	gotID, hash, err = st.GetBylogin(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, gotID)
	assert.Empty(t, hash)
}

func TestRebind(t *testing.T) {
	pg := New(nil, Postgres)
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2", pg.rebind("SELECT * FROM t WHERE a = ? AND b = ?"))

	lite := New(nil, SQLite)
	assert.Equal(t, "SELECT ?", lite.rebind("SELECT ?"))
}

func TestIsUniqueViolation(t *testing.T) {
	st := New(nil, Postgres)
	assert.True(t, st.isUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, st.isUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, st.isUniqueViolation(eris.New("connection reset")))
}

func TestParseDriver(t *testing.T) {
	d, err := ParseDriver("postgresql")
	require.NoError(t, err)
	assert.Equal(t, Postgres, d)

	d, err = ParseDriver("SQLite")
	require.NoError(t, err)
	assert.Equal(t, SQLite, d)

	_, err = ParseDriver("mysql")
	assert.Error(t, err)
}

func TestDDLPerDriver(t *testing.T) {
	assert.Contains(t, New(nil, Postgres).ddl(), "BIGSERIAL PRIMARY KEY")
	assert.Contains(t, New(nil, SQLite).ddl(), "INTEGER PRIMARY KEY AUTOINCREMENT")
	assert.NotContains(t, New(nil, SQLite).ddl(), "{{")
}
