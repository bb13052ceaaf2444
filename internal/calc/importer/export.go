package importer

import (
	"io"
	"maps"
	"slices"

	"Furnace/internal/record"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

const dateLayout = "2006-01-02 15:04"

// Export writes one workbook row per experiment: number, date, operator,
// then every tag and metric seen across exps in name order.
func Export(w io.Writer, sheet string, exps []record.Experiment) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return eris.Wrap(err, "importer: name sheet")
	}

	tags := map[string]struct{}{}
	metrics := map[string]struct{}{}
	for _, e := range exps {
		for k := range e.Tags {
			tags[k] = struct{}{}
		}
		for k := range e.Metrics {
			metrics[k] = struct{}{}
		}
	}
	tagCols := slices.Sorted(maps.Keys(tags))
	metricCols := slices.Sorted(maps.Keys(metrics))

	header := []any{"number", "date", "created_by"}
	for _, k := range tagCols {
		header = append(header, k)
	}
	for _, k := range metricCols {
		header = append(header, k)
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return eris.Wrap(err, "importer: write header")
	}

	for i, e := range exps {
		row := []any{e.Number, e.CreatedAt.Format(dateLayout), e.CreatedBy}
		for _, k := range tagCols {
			row = append(row, e.Tags[k])
		}
		for _, k := range metricCols {
			if v, ok := e.Metrics[k]; ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return eris.Wrap(err, "importer: cell name")
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return eris.Wrapf(err, "importer: write experiment %d", e.Number)
		}
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "importer: write workbook")
	}
	return nil
}
