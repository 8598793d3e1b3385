// Package report renders per-state action distributions for people.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/logrusorgru/aurora"
)

// WriteTable prints one line per state with the greedy action marked by '*'
// (and highlighted when color is set).
func WriteTable(w io.Writer, values [][]float64, color bool) error {
	au := aurora.NewAurora(color)
	if len(values) == 0 {
		return nil
	}

	header := []string{fmt.Sprintf("%-6s", "state")}
	for a := range values[0] {
		header = append(header, fmt.Sprintf("%-9s", fmt.Sprintf("a%d", a)))
	}
	if _, err := fmt.Fprintln(w, au.Bold(strings.TrimRight(strings.Join(header, " "), " "))); err != nil {
		return err
	}

	for i, row := range values {
		best := 0
		for a, v := range row {
			if v > row[best] {
				best = a
			}
		}
		cells := []string{fmt.Sprintf("%-6d", i)}
		for a, v := range row {
			cell := fmt.Sprintf("%.6f ", v)
			if a == best {
				cell = fmt.Sprintf("%.6f*", v)
				cells = append(cells, au.Green(cell).String())
				continue
			}
			cells = append(cells, au.Blue(cell).String())
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, " "), " ")); err != nil {
			return err
		}
	}
	return nil
}
