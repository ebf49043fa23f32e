package sheet

import (
	"fmt"
	"strings"
)

// Column convention for an inventory sheet.
const (
	ColCode     = 0
	ColQuantity = 1
	ColLocation = 2
	ColName     = 3
)

// ReadRange is the full read window (code through name) for a tab.
func ReadRange(tab string) string { return tab + "!A:D" }

// TrackedRange is the write-back window (code through location) for a tab.
func TrackedRange(tab string) string { return tab + "!A:C" }

// RowRange converts a zero-based row index into the 1-based A1 range for a
// single row between two columns, e.g. RowRange("Sheet1", "A", "C", 4) ==
// "Sheet1!A5:C5".
func RowRange(tab, startCol, endCol string, rowIndex int) string {
	n := rowIndex + 1
	return fmt.Sprintf("%s!%s%d:%s%d", tab, startCol, n, endCol, n)
}

// FindRowIndex scans rows top to bottom and returns the index of the first
// row whose code cell matches code, comparing trimmed and case-folded.
// A header row is ordinary data here; it simply never matches a real code.
// Returns -1 when no row matches.
func FindRowIndex(rows [][]string, code string) int {
	want := strings.ToUpper(strings.TrimSpace(code))
	if want == "" {
		return -1
	}
	for i, row := range rows {
		if strings.ToUpper(strings.TrimSpace(Cell(row, ColCode))) == want {
			return i
		}
	}
	return -1
}

// Cell returns row[i], or "" when the row is too short. Backends drop
// trailing empty cells.
func Cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
