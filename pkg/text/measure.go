package text

import "github.com/mattn/go-runewidth"

// DefaultUnitsPerCell is the number of width units per terminal cell. A
// finer unit lets justified glue stretch by fractions of a cell.
const DefaultUnitsPerCell = 100

// Measure returns the width of a string in sequence units.
type Measure interface {
	Width(s string) int
}

// CellMeasure measures strings in terminal cells scaled by UnitsPerCell.
// Wide East Asian characters count as two cells.
type CellMeasure struct {
	UnitsPerCell int
}

func (m CellMeasure) Width(s string) int {
	return runewidth.StringWidth(s) * m.units()
}

func (m CellMeasure) units() int {
	if m.UnitsPerCell <= 0 {
		return DefaultUnitsPerCell
	}
	return m.UnitsPerCell
}

// MeasureFunc adapts a function to [Measure].
type MeasureFunc func(s string) int

func (f MeasureFunc) Width(s string) int { return f(s) }
