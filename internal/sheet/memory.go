package sheet

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Memory implements Values over an in-process grid. It backs tests and the
// SHEETS_BACKEND=memory dev mode, and mimics the Sheets API surface closely
// enough to matter: trailing empty cells and rows are omitted from reads,
// and appends land after the last non-empty row.
type Memory struct {
	mu   sync.RWMutex
	grid [][]string
}

// NewMemory seeds a Memory grid with copies of the given rows.
func NewMemory(rows ...[]string) *Memory {
	m := &Memory{}
	for _, r := range rows {
		m.grid = append(m.grid, append([]string(nil), r...))
	}
	return m
}

// Get implements Values.
func (m *Memory) Get(_ context.Context, rng string) ([][]string, error) {
	w, err := parseA1(rng)
	if err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	last := m.lastRowLocked()
	lo, hi := w.rowBounds(last)
	var out [][]string
	for i := lo; i <= hi && i <= last; i++ {
		var row []string
		if i < len(m.grid) {
			for c := w.startCol; c <= w.endCol; c++ {
				if c < len(m.grid[i]) {
					row = append(row, m.grid[i][c])
				} else {
					row = append(row, "")
				}
			}
		}
		// Sheets omits trailing empty cells.
		for len(row) > 0 && row[len(row)-1] == "" {
			row = row[:len(row)-1]
		}
		out = append(out, row)
	}
	// And trailing empty rows.
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

// Update implements Values.
func (m *Memory) Update(_ context.Context, rng string, rows [][]string) error {
	w, err := parseA1(rng)
	if err != nil {
		return err
	}
	if w.startRow < 0 {
		return fmt.Errorf("update requires a bounded range: %s", rng)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, row := range rows {
		for j, cell := range row {
			m.setLocked(w.startRow+i, w.startCol+j, cell)
		}
	}
	return nil
}

// Append implements Values.
func (m *Memory) Append(_ context.Context, rng string, rows [][]string) error {
	w, err := parseA1(rng)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	at := m.lastRowLocked() + 1
	for i, row := range rows {
		for j, cell := range row {
			m.setLocked(at+i, w.startCol+j, cell)
		}
	}
	return nil
}

// Clear implements Values.
func (m *Memory) Clear(_ context.Context, rng string) error {
	w, err := parseA1(rng)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	lo, hi := w.rowBounds(len(m.grid) - 1)
	for i := lo; i <= hi && i < len(m.grid); i++ {
		for c := w.startCol; c <= w.endCol && c < len(m.grid[i]); c++ {
			m.grid[i][c] = ""
		}
	}
	return nil
}

// RowCount returns the number of physical rows held, cleared rows included.
func (m *Memory) RowCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.grid)
}

func (m *Memory) setLocked(row, col int, cell string) {
	for len(m.grid) <= row {
		m.grid = append(m.grid, nil)
	}
	for len(m.grid[row]) <= col {
		m.grid[row] = append(m.grid[row], "")
	}
	m.grid[row][col] = cell
}

// lastRowLocked returns the index of the last row holding any value, or -1.
func (m *Memory) lastRowLocked() int {
	for i := len(m.grid) - 1; i >= 0; i-- {
		for _, c := range m.grid[i] {
			if c != "" {
				return i
			}
		}
	}
	return -1
}

// window is a parsed A1 range. Rows are zero-based; -1 means unbounded.
type window struct {
	startCol, endCol int
	startRow, endRow int
}

func (w window) rowBounds(last int) (lo, hi int) {
	lo, hi = w.startRow, w.endRow
	if lo < 0 {
		lo = 0
	}
	if hi < 0 {
		hi = last
	}
	return lo, hi
}

// parseA1 understands the two shapes this service uses: "Tab!A:D" and
// "Tab!A5:C5".
func parseA1(rng string) (window, error) {
	ref := rng
	if i := strings.LastIndex(ref, "!"); i >= 0 {
		ref = ref[i+1:]
	}
	parts := strings.SplitN(ref, ":", 2)
	if len(parts) != 2 {
		return window{}, fmt.Errorf("unsupported range: %s", rng)
	}
	sc, sr, err := parseCellRef(parts[0])
	if err != nil {
		return window{}, fmt.Errorf("unsupported range %s: %w", rng, err)
	}
	ec, er, err := parseCellRef(parts[1])
	if err != nil {
		return window{}, fmt.Errorf("unsupported range %s: %w", rng, err)
	}
	return window{startCol: sc, endCol: ec, startRow: sr, endRow: er}, nil
}

// parseCellRef splits "C5" into column index 2 and row index 4; a bare
// column like "C" yields row -1.
func parseCellRef(ref string) (col, row int, err error) {
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A'+1)
		i++
	}
	if col == 0 {
		return 0, 0, fmt.Errorf("missing column letter in %q", ref)
	}
	col--
	if i == len(ref) {
		return col, -1, nil
	}
	n := 0
	for ; i < len(ref); i++ {
		if ref[i] < '0' || ref[i] > '9' {
			return 0, 0, fmt.Errorf("bad row number in %q", ref)
		}
		n = n*10 + int(ref[i]-'0')
	}
	if n == 0 {
		return 0, 0, fmt.Errorf("row numbers are 1-based in %q", ref)
	}
	return col, n - 1, nil
}
