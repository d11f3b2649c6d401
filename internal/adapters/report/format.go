package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/okian/gauntlet/internal/domain/types"
)

// csvPrecision selects the shortest exact form in CSV output.
const csvPrecision = -1

// record renders one entry as string cells; prec is passed to formatScore.
func record(e types.Entry, prec int) []string {
	rec := make([]string, 0, 3+len(e.PairRanks))
	rec = append(rec,
		e.Name,
		formatScore(e.GauntletScoreNorm, prec),
		strconv.Itoa(e.GauntletRank),
	)
	for _, r := range e.PairRanks {
		rec = append(rec, strconv.Itoa(r))
	}
	return rec
}

// formatScore renders v in fixed notation. The shortest form keeps a
// trailing ".0" on whole numbers so the column always reads as a float.
func formatScore(v float64, prec int) string {
	out := strconv.FormatFloat(v, 'f', prec, 64)
	if prec < 0 && !strings.Contains(out, ".") {
		out += ".0"
	}
	return out
}

// WriteCSV writes header and entries as comma-separated records.
func WriteCSV(w io.Writer, header []string, entries []types.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("%w: header: %w", ErrWrite, err)
	}
	for _, e := range entries {
		if err := cw.Write(record(e, csvPrecision)); err != nil {
			return fmt.Errorf("%w: row %q: %w", ErrWrite, e.Name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)
var numericStyle = cellStyle.Align(lipgloss.Right)

// RenderTable writes header and entries as a bordered text table.
func RenderTable(w io.Writer, header []string, entries []types.Entry) error {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = record(e, 6)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return cellStyle
			default:
				return numericStyle
			}
		})

	if _, err := io.WriteString(w, t.String()+"\n"); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return nil
}
