package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"Furnace/internal/record"
	"Furnace/internal/repo"
)

func newTestStore(t *testing.T) *repo.Store {
	t.Helper()
	ctx := context.Background()
	st, err := repo.Open(ctx, repo.SQLite, filepath.Join(t.TempDir(), "labctl.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(ctx))
	return st
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"migrate", "seed", "import", "export", "report"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRequiredFlags(t *testing.T) {
	require.NotNil(t, importCmd.Flags().Lookup("file"))
	require.NotNil(t, exportCmd.Flags().Lookup("process"))
	flag := reportCmd.Flags().Lookup("id")
	require.NotNil(t, flag)
	assert.Equal(t, "0", flag.DefValue)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	leached, sorbed, err := seed(ctx, st, true)
	require.NoError(t, err)
	assert.Equal(t, 6, leached)
	assert.Equal(t, 7, sorbed)

	exps, err := st.ListExperiments(ctx, record.ProcessLeaching)
	require.NoError(t, err)
	assert.Len(t, exps, 6)
	exps, err = st.ListExperiments(ctx, record.ProcessSorption)
	require.NoError(t, err)
	require.Len(t, exps, 7)
	assert.NotEmpty(t, exps[0].Input)
}

func TestSeedLeachingOnly(t *testing.T) {
	leached, sorbed, err := seed(context.Background(), newTestStore(t), false)
	require.NoError(t, err)
	assert.Equal(t, 6, leached)
	assert.Zero(t, sorbed)
}

func TestSeedTwiceKeepsReferenceOnce(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	_, _, err := seed(ctx, st, true)
	require.NoError(t, err)
	leached, sorbed, err := seed(ctx, st, true)
	require.NoError(t, err)
	assert.Zero(t, leached)
	assert.Zero(t, sorbed)

	exps, err := st.ListExperiments(ctx, record.ProcessLeaching)
	require.NoError(t, err)
	assert.Len(t, exps, 6)
	exps, err = st.ListExperiments(ctx, record.ProcessSorption)
	require.NoError(t, err)
	assert.Len(t, exps, 7)
}

func TestSeedAddsSorptionLater(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)

	_, _, err := seed(ctx, st, false)
	require.NoError(t, err)
	leached, sorbed, err := seed(ctx, st, true)
	require.NoError(t, err)
	assert.Zero(t, leached)
	assert.Equal(t, 7, sorbed)
}

func TestImportJSONFile(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	path := filepath.Join(t.TempDir(), "tests.json")
	src := `[
		{"initial_grade_analysis": 4, "final_concentrate_mass": 50, "final_concentrate_grade": 30,
		 "tails_mass": 300, "tails_grade": 0.5, "configuration": "rougher"},
		{"initial_grade_analysis": 3}
	]`
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	rep, err := importFile(ctx, st, path)
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Total)
	assert.Equal(t, 1, rep.Imported)
	assert.Equal(t, 1, rep.Failed)

	exps, err := st.ListExperiments(ctx, record.ProcessFlotation)
	require.NoError(t, err)
	assert.Len(t, exps, 1)
}

func TestImportMissingFile(t *testing.T) {
	_, err := importFile(context.Background(), newTestStore(t), filepath.Join(t.TempDir(), "none.xlsx"))
	assert.Error(t, err)
}

func TestExportAndReport(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	_, _, err := seed(ctx, st, false)
	require.NoError(t, err)
	dir := t.TempDir()

	out := filepath.Join(dir, "leaching.xlsx")
	n, err := exportFile(ctx, st, record.ProcessLeaching, out)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	assert.Len(t, rows, 7)

	exps, err := st.ListExperiments(ctx, record.ProcessLeaching)
	require.NoError(t, err)
	pdfPath, err := reportFile(ctx, st, exps[5].ID, filepath.Join(dir, "run6.pdf"))
	require.NoError(t, err)
	info, err := os.Stat(pdfPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestReportNotFound(t *testing.T) {
	_, err := reportFile(context.Background(), newTestStore(t), 42, filepath.Join(t.TempDir(), "x.pdf"))
	assert.ErrorIs(t, err, record.ErrNotFound)
}
