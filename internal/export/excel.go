// Package export writes batch scoring results to Excel workbooks.
package export

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/candidate-fit/internal/pipeline"
	"github.com/jonathan/candidate-fit/internal/types"
)

// Sheet names
const (
	SummarySheet   = "Summary"
	RankedSheet    = "Ranked Candidates"
	BreakdownSheet = "Breakdown"
)

// Row is one scored candidate
type Row struct {
	Candidate       string
	FinalScore      int
	Confidence      int
	ExperienceLevel string
	Breakdown       types.ScoreBreakdown
	Degraded        bool
	Reason          string
}

// RowFromState builds a row from a scored run. Runs without a final evaluation
// produce a zero row marked degraded with the run error as the reason.
func RowFromState(candidate string, state *pipeline.PipelineState) Row {
	row := Row{Candidate: candidate}
	if state == nil {
		row.Degraded = true
		return row
	}
	final := state.FinalEval.Get()
	if final == nil {
		row.Degraded = true
		row.Reason = state.Error
		return row
	}
	row.FinalScore = final.FinalScore
	row.Confidence = final.Confidence
	row.ExperienceLevel = final.ExperienceLevel
	row.Breakdown = final.Breakdown
	row.Degraded = state.FinalEval.Degraded
	row.Reason = state.FinalEval.Reason
	return row
}

// Rank orders rows by final score, highest first, breaking ties by candidate name.
// The input slice is not modified.
func Rank(rows []Row) []Row {
	ranked := append([]Row(nil), rows...)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].FinalScore != ranked[j].FinalScore {
			return ranked[i].FinalScore > ranked[j].FinalScore
		}
		return ranked[i].Candidate < ranked[j].Candidate
	})
	return ranked
}

// WriteWorkbook ranks rows and saves them as an .xlsx file at path
func WriteWorkbook(path, roleName string, rows []Row) error {
	if !strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		path += ".xlsx"
	}

	f, err := Build(roleName, rows, time.Now())
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if err := f.SaveAs(filepath.Clean(path)); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", path, err)
	}
	return nil
}

// Build creates the workbook in memory
func Build(roleName string, rows []Row, generated time.Time) (*excelize.File, error) {
	ranked := Rank(rows)

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		_ = f.Close()
		return nil, err
	}
	for _, name := range []string{RankedSheet, BreakdownSheet} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	w := &sheetWriter{f: f}
	w.init()
	writeSummary(w, roleName, ranked, generated)
	writeRanked(w, ranked)
	writeBreakdown(w, ranked)
	if w.err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to build workbook: %w", w.err)
	}
	return f, nil
}

// sheetWriter records the first excelize error so the sheet builders stay linear
type sheetWriter struct {
	f      *excelize.File
	err    error
	header int
	label  int
	bands  [4]int
}

func (w *sheetWriter) init() {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	w.header = w.style(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	w.label = w.style(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, color := range []string{"C6EFCE", "FFEB9C", "FFC7CE", "FF9999"} {
		w.bands[i] = w.style(&excelize.Style{
			Fill:   excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			Border: border,
		})
	}
}

func (w *sheetWriter) style(s *excelize.Style) int {
	if w.err != nil {
		return 0
	}
	id, err := w.f.NewStyle(s)
	w.err = err
	return id
}

func (w *sheetWriter) set(sheet, cell string, value any) {
	if w.err == nil {
		w.err = w.f.SetCellValue(sheet, cell, value)
	}
}

func (w *sheetWriter) styleRange(sheet, from, to string, style int) {
	if w.err == nil {
		w.err = w.f.SetCellStyle(sheet, from, to, style)
	}
}

func (w *sheetWriter) width(sheet, col string, width float64) {
	if w.err == nil {
		w.err = w.f.SetColWidth(sheet, col, col, width)
	}
}

func (w *sheetWriter) headers(sheet string, names []string) {
	for i, name := range names {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			w.err = err
			return
		}
		w.set(sheet, cell, name)
		w.styleRange(sheet, cell, cell, w.header)
	}
	if w.err == nil {
		w.err = w.f.SetPanes(sheet, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		})
	}
}

// band picks the row colour for a score: excellent, good, fair or poor
func (w *sheetWriter) band(score int) int {
	switch {
	case score >= 90:
		return w.bands[0]
	case score >= 70:
		return w.bands[1]
	case score >= 50:
		return w.bands[2]
	default:
		return w.bands[3]
	}
}

func writeSummary(w *sheetWriter, roleName string, ranked []Row, generated time.Time) {
	sheet := SummarySheet
	w.width(sheet, "A", 25)
	w.width(sheet, "B", 40)

	lines := [][2]any{
		{"Role:", roleName},
		{"Generated:", generated.Format("2006-01-02 15:04:05")},
		{"Candidates scored:", len(ranked)},
	}

	var excellent, good, fair, poor, degraded, total int
	for _, r := range ranked {
		total += r.FinalScore
		if r.Degraded {
			degraded++
		}
		switch {
		case r.FinalScore >= 90:
			excellent++
		case r.FinalScore >= 70:
			good++
		case r.FinalScore >= 50:
			fair++
		default:
			poor++
		}
	}
	if len(ranked) > 0 {
		lines = append(lines,
			[2]any{"Average score:", fmt.Sprintf("%.2f", float64(total)/float64(len(ranked)))},
			[2]any{"Highest score:", ranked[0].FinalScore},
			[2]any{"Lowest score:", ranked[len(ranked)-1].FinalScore},
			[2]any{"Excellent (90-100):", excellent},
			[2]any{"Good (70-89):", good},
			[2]any{"Fair (50-69):", fair},
			[2]any{"Poor (<50):", poor},
			[2]any{"Degraded runs:", degraded},
		)
	}

	for i, line := range lines {
		row := i + 1
		w.set(sheet, fmt.Sprintf("A%d", row), line[0])
		w.styleRange(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), w.label)
		w.set(sheet, fmt.Sprintf("B%d", row), line[1])
	}
}

func writeRanked(w *sheetWriter, ranked []Row) {
	sheet := RankedSheet
	w.headers(sheet, []string{"Rank", "Candidate", "Final Score", "Confidence", "Level", "Degraded", "Reason"})
	w.width(sheet, "B", 30)
	w.width(sheet, "G", 50)

	for i, r := range ranked {
		row := i + 2
		w.set(sheet, fmt.Sprintf("A%d", row), i+1)
		w.set(sheet, fmt.Sprintf("B%d", row), r.Candidate)
		w.set(sheet, fmt.Sprintf("C%d", row), r.FinalScore)
		w.set(sheet, fmt.Sprintf("D%d", row), r.Confidence)
		w.set(sheet, fmt.Sprintf("E%d", row), r.ExperienceLevel)
		w.set(sheet, fmt.Sprintf("F%d", row), r.Degraded)
		w.set(sheet, fmt.Sprintf("G%d", row), r.Reason)
		w.styleRange(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), w.band(r.FinalScore))
	}
	if len(ranked) > 0 && w.err == nil {
		w.err = w.f.AutoFilter(sheet, fmt.Sprintf("A1:G%d", len(ranked)+1), nil)
	}
}

func writeBreakdown(w *sheetWriter, ranked []Row) {
	sheet := BreakdownSheet
	w.headers(sheet, []string{
		"Candidate", "Base Score", "Skills", "Experience", "Education", "Certifications",
		"Relevant Years", "Skill Weight", "Experience Weight", "Education Weight", "Certification Weight",
	})
	w.width(sheet, "A", 30)

	for i, r := range ranked {
		row := i + 2
		b := r.Breakdown
		values := []any{
			r.Candidate, b.BaseScore, b.Breakdown.SkillMatch, b.Breakdown.ExperienceRelevance,
			b.Breakdown.EducationFit, b.Breakdown.Certifications, b.Breakdown.RelevantYearsCalculated,
			b.Weights.Skill, b.Weights.Experience, b.Weights.Education, b.Weights.Certification,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				w.err = err
				return
			}
			w.set(sheet, cell, v)
		}
	}
}
