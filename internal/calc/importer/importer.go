package importer

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"Furnace/internal/calc/balance"
	"Furnace/internal/calc/flotation"
	"Furnace/internal/record"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
)

// Columns are the flotation spreadsheet columns. configuration,
// reagent_regime and is_microflotation are read too when present.
var Columns = []string{
	"initial_grade_analysis",
	"calculated_initial_grade",
	"final_concentrate_mass",
	"final_concentrate_grade",
	"tails_mass",
	"tails_grade",
	"cleaner_tails_mass",
	"cleaner_tails_grade",
	"control_concentrate_mass",
	"control_concentrate_grade",
}

const DefaultRegime = "Imported"

var (
	ErrEmptySheet = eris.New("importer: sheet has no data rows")
	ErrNoProducts = eris.New("importer: row has no product masses")
)

// Entry is one source row keyed by column name. Line is 1-based in the
// source: the spreadsheet row, or the array position for JSON.
type Entry struct {
	Line   int
	Values map[string]string
}

// FromXLSX reads the first sheet: a header row followed by data rows.
func FromXLSX(r io.Reader) ([]Entry, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, eris.Wrap(err, "importer: open workbook")
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, eris.Wrap(err, "importer: read rows")
	}
	if len(rows) < 2 {
		return nil, ErrEmptySheet
	}
	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var out []Entry
	for i := 1; i < len(rows); i++ {
		e := Entry{Line: i + 1, Values: map[string]string{}}
		for j, cell := range rows[i] {
			if j < len(header) && header[j] != "" && strings.TrimSpace(cell) != "" {
				e.Values[header[j]] = strings.TrimSpace(cell)
			}
		}
		if len(e.Values) == 0 {
			continue
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil, ErrEmptySheet
	}
	return out, nil
}

// FromJSON reads an array of objects with the same keys as the spreadsheet
// columns. Values may be numbers, strings or null.
func FromJSON(r io.Reader) ([]Entry, error) {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, eris.Wrap(err, "importer: decode json")
	}
	out := make([]Entry, 0, len(raw))
	for i, obj := range raw {
		e := Entry{Line: i + 1, Values: map[string]string{}}
		for k, v := range obj {
			switch v := v.(type) {
			case string:
				e.Values[k] = strings.TrimSpace(v)
			case float64:
				e.Values[k] = strconv.FormatFloat(v, 'f', -1, 64)
			case bool:
				e.Values[k] = strconv.FormatBool(v)
			}
		}
		out = append(out, e)
	}
	return out, nil
}

// toFloat treats anything missing or unreadable as zero.
func toFloat(s string) float64 {
	v, ok := balance.ParseNumber(s)
	if !ok {
		return 0
	}
	return v
}

func (e Entry) num(key string) balance.Float {
	return balance.Num(toFloat(e.Values[key]))
}

func (e Entry) product(prefix string) flotation.ProductInput {
	return flotation.ProductInput{Mass: e.num(prefix + "_mass"), Grade: e.num(prefix + "_grade")}
}

// Input maps an entry onto a flotation calculation.
func (e Entry) Input() flotation.Input {
	regime := e.Values["reagent_regime"]
	if regime == "" {
		regime = DefaultRegime
	}
	micro, _ := strconv.ParseBool(e.Values["is_microflotation"])
	return flotation.Input{
		FinalConcentrate:       e.product(string(flotation.FinalConcentrate)),
		Tails:                  e.product(string(flotation.Tails)),
		CleanerTails:           e.product(string(flotation.CleanerTails)),
		ControlConcentrate:     e.product(string(flotation.ControlConcentrate)),
		InitialGradeAnalysis:   e.num("initial_grade_analysis"),
		CalculatedInitialGrade: e.num("calculated_initial_grade"),
		ReagentRegime:          regime,
		Configuration:          e.Values["configuration"],
		IsMicroflotation:       micro,
	}
}

type RowResult struct {
	Line       int     `json:"line"`
	TestNumber int     `json:"test_number,omitempty"`
	Extraction float64 `json:"extraction,omitempty"`
	Error      string  `json:"error,omitempty"`
}

type Report struct {
	Total    int         `json:"total"`
	Imported int         `json:"imported"`
	Failed   int         `json:"failed"`
	Rows     []RowResult `json:"rows"`
}

// Flotation calculates every entry and, when s is not nil, saves it. A bad
// row is reported in its RowResult and does not stop the import; a store
// failure does.
func Flotation(ctx context.Context, entries []Entry, s record.Saver, createdBy int) (Report, error) {
	rep := Report{Total: len(entries), Rows: make([]RowResult, 0, len(entries))}
	for _, e := range entries {
		row := RowResult{Line: e.Line}
		in := e.Input()
		res, err := flotation.Calculate(in)
		if err == nil && res.MaterialBalance.TotalMass <= 0 {
			err = ErrNoProducts
		}
		if err != nil {
			row.Error = err.Error()
			rep.Failed++
			rep.Rows = append(rep.Rows, row)
			continue
		}
		row.Extraction = res.Extraction
		if s != nil {
			exp := flotation.Record(in, res)
			exp.CreatedBy = createdBy
			if exp.Input, err = json.Marshal(in); err != nil {
				return rep, eris.Wrapf(err, "importer: encode line %d", e.Line)
			}
			if err := s.SaveExperiment(ctx, &exp); err != nil {
				return rep, eris.Wrapf(err, "importer: save line %d", e.Line)
			}
			row.TestNumber = exp.Number
		}
		rep.Imported++
		rep.Rows = append(rep.Rows, row)
	}
	return rep, nil
}
