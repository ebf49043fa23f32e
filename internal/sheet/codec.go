package sheet

import (
	"strconv"
	"strings"

	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/model"
)

// ParseQuantity interprets a quantity cell. Anything that does not parse as
// an integer counts as zero; humans leave these cells blank or type text.
func ParseQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

// DecodeItem reads one row into an Item. String fields are trimmed; the code
// keeps its stored case (matching elsewhere is case-insensitive).
func DecodeItem(row []string) model.Item {
	return model.Item{
		Code:     strings.TrimSpace(Cell(row, ColCode)),
		Quantity: ParseQuantity(Cell(row, ColQuantity)),
		Location: strings.TrimSpace(Cell(row, ColLocation)),
		Name:     strings.TrimSpace(Cell(row, ColName)),
	}
}

// IsHeaderRow reports whether the row at rowIndex looks like a header. The
// sheet carries no explicit header flag, so this is best effort: only row 0
// qualifies, and only when its quantity cell is not a number.
func IsHeaderRow(row []string, rowIndex int) bool {
	if rowIndex != 0 {
		return false
	}
	_, err := strconv.Atoi(strings.TrimSpace(Cell(row, ColQuantity)))
	return err != nil
}

// ApplyUpdate merges a partial update into an existing row and returns the
// tracked write-back window (code, quantity, location). Fields absent from
// the update are copied from the existing cells verbatim; the name column is
// outside the window and is never rewritten.
func ApplyUpdate(existing []string, u model.ItemUpdate) []string {
	code := Cell(existing, ColCode)
	if u.NewCode != nil {
		code = *u.NewCode
	}
	quantity := Cell(existing, ColQuantity)
	if u.Quantity != nil {
		quantity = strconv.Itoa(*u.Quantity)
	}
	location := Cell(existing, ColLocation)
	if u.Location != nil {
		location = *u.Location
	}
	return []string{code, quantity, location}
}

// EncodeNewItem lays out the appended row for a fresh record. The add form
// collects no separate code, so the name doubles as the code (column A) and
// is mirrored into the name column for search and the dashboard.
func EncodeNewItem(it model.NewItem) []string {
	return []string{it.Name, strconv.Itoa(it.Quantity), it.Location, it.Name}
}
