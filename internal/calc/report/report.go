package report

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"Furnace/internal/record"

	"github.com/phpdave11/gofpdf"
	"github.com/rotisserie/eris"
)

var titles = map[record.Process]string{
	record.ProcessAntimony:  "Antimony reduction smelting",
	record.ProcessFlotation: "Gold ore flotation",
	record.ProcessLeaching:  "Molybdenum concentrate leaching",
	record.ProcessSorption:  "Molybdenum sorption on anionite",
}

// headline lists the metrics summarised at the top of a report, per process.
var headline = map[record.Process][]string{
	record.ProcessAntimony:  {"sb_extraction", "crude_sb_content", "total_losses_percent"},
	record.ProcessFlotation: {"extraction", "concentrate_yield", "efficiency"},
	record.ProcessLeaching:  {"avg_balance", "cake_yield"},
	record.ProcessSorption:  {"extraction", "sorption_capacity", "filling_degree"},
}

func Title(p record.Process) string {
	if t, ok := titles[p]; ok {
		return t
	}
	return string(p)
}

func Filename(exp record.Experiment) string {
	return fmt.Sprintf("%s-%d.pdf", exp.Process, exp.Number)
}

// Highlights are the headline figures of an experiment as short lines.
func Highlights(exp record.Experiment) []string {
	var out []string
	for _, k := range headline[exp.Process] {
		if v, ok := exp.Metrics[k]; ok {
			out = append(out, fmt.Sprintf("%s: %s", label(k), formatValue(v)))
		}
	}
	if exp.Process == record.ProcessLeaching {
		if s, ok := exp.Stream("solution"); ok {
			for _, e := range s.Elements {
				out = append(out, fmt.Sprintf("%s to solution: %.2f%%", strings.ToUpper(string(e.Element)), e.Extraction))
			}
		}
	}
	return out
}

func label(key string) string {
	s := strings.ReplaceAll(key, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}

func formatValue(v float64) string {
	if v != 0 && v < 0.01 && v > -0.01 {
		return fmt.Sprintf("%.3e", v)
	}
	return fmt.Sprintf("%.2f", v)
}

// Render writes a PDF for one stored experiment.
func Render(w io.Writer, exp record.Experiment) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(fmt.Sprintf("%s #%d", Title(exp.Process), exp.Number), true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(Title(exp.Process)))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Experiment: #%d", exp.Number))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", exp.CreatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(6)
	for _, k := range slices.Sorted(maps.Keys(exp.Tags)) {
		pdf.Cell(0, 6, tr(fmt.Sprintf("%s: %s", label(k), exp.Tags[k])))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	if hl := Highlights(exp); len(hl) > 0 {
		section(pdf, "Summary")
		pdf.SetFont("Helvetica", "", 11)
		for _, line := range hl {
			pdf.MultiCell(0, 6, tr(line), "", "L", false)
		}
		pdf.Ln(4)
	}

	if len(exp.Metrics) > 0 {
		section(pdf, "Metrics")
		pdf.SetFont("Helvetica", "", 10)
		for _, k := range slices.Sorted(maps.Keys(exp.Metrics)) {
			pdf.CellFormat(90, 6, tr(label(k)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(50, 6, formatValue(exp.Metrics[k]), "1", 1, "R", false, 0, "")
		}
		pdf.Ln(4)
	}

	if len(exp.Streams) > 0 {
		section(pdf, "Streams")
		widths := []float64{36, 28, 22, 20, 26, 26, 26}
		pdf.SetFont("Helvetica", "B", 10)
		for i, h := range []string{"Stream", "Mass/volume", "Yield, %", "Element", "Content", "Grams", "Extraction, %"} {
			pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 10)
		for _, s := range exp.Streams {
			yield := "-"
			if s.YieldPercent != nil {
				yield = fmt.Sprintf("%.2f", *s.YieldPercent)
			}
			for _, e := range s.Elements {
				cells := []string{
					s.Name,
					fmt.Sprintf("%.2f", s.MassOrVolume),
					yield,
					strings.ToUpper(string(e.Element)),
					formatValue(e.Content),
					formatValue(e.Grams),
					fmt.Sprintf("%.2f", e.Extraction),
				}
				for i, c := range cells {
					align := "R"
					if i == 0 || i == 3 {
						align = "L"
					}
					pdf.CellFormat(widths[i], 6, tr(c), "1", 0, align, false, 0, "")
				}
				pdf.Ln(-1)
			}
		}
	}

	if err := pdf.Output(w); err != nil {
		return eris.Wrapf(err, "report: render %s experiment %d", exp.Process, exp.Number)
	}
	return nil
}

func section(pdf *gofpdf.Fpdf, name string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, name)
	pdf.Ln(8)
}
