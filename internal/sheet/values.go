// Package sheet talks to the tabular backing store. An inventory sheet is a
// rectangular grid of string cells with a fixed column convention:
// A = code, B = quantity, C = location, D = display name.
package sheet

import "context"

// Values is the minimal surface the repository needs from a spreadsheet
// backend: rectangular reads and writes addressed in A1 notation.
type Values interface {
	// Get returns the rows of the range. Trailing empty cells may be
	// omitted by the backend, so callers must tolerate short rows.
	Get(ctx context.Context, rng string) ([][]string, error)

	// Update overwrites the cells of the range with rows.
	Update(ctx context.Context, rng string, rows [][]string) error

	// Append adds rows after the current extent of the range's table.
	Append(ctx context.Context, rng string, rows [][]string) error

	// Clear blanks the cells of the range without removing rows.
	Clear(ctx context.Context, rng string) error
}
