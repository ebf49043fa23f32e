// Package inventory implements the spreadsheet-backed inventory repository.
//
// Every operation re-reads the backing range and re-resolves the target row
// by code before mutating: row positions shift whenever rows are inserted or
// deleted elsewhere, so they are never carried across calls. There is no
// optimistic-concurrency token either; two interleaved read-then-write
// operations can lose an update. That is accepted for a human-scale sheet —
// callers needing strict consistency must serialize externally.
package inventory

import (
	"context"

	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/model"
	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/sheet"
)

// Alerter receives quantity transitions from updates. Implementations must
// not block; the repository does not wait for delivery.
type Alerter interface {
	QuantityChanged(code string, oldQuantity, newQuantity int)
}

// Repository exposes find/update/append/delete over one sheet tab.
type Repository struct {
	vals   sheet.Values
	tab    string
	alerts Alerter
}

// New builds a Repository over the given backend and tab. alerts may be nil.
func New(vals sheet.Values, tab string, alerts Alerter) *Repository {
	return &Repository{vals: vals, tab: tab, alerts: alerts}
}

// GetByCode returns the first record whose code matches, case-insensitively.
// Absence is (zero, false, nil), not an error.
func (r *Repository) GetByCode(ctx context.Context, code string) (model.Item, bool, error) {
	rows, err := r.vals.Get(ctx, sheet.ReadRange(r.tab))
	if err != nil {
		return model.Item{}, false, err
	}
	idx := sheet.FindRowIndex(rows, code)
	if idx < 0 {
		return model.Item{}, false, nil
	}
	return sheet.DecodeItem(rows[idx]), true, nil
}

// ListAll materializes every record in the sheet. Rows with a blank code are
// dropped, and a header-looking row 0 is skipped.
func (r *Repository) ListAll(ctx context.Context) ([]model.Item, error) {
	rows, err := r.vals.Get(ctx, sheet.ReadRange(r.tab))
	if err != nil {
		return nil, err
	}
	items := make([]model.Item, 0, len(rows))
	for i, row := range rows {
		if sheet.IsHeaderRow(row, i) {
			continue
		}
		it := sheet.DecodeItem(row)
		if it.Code == "" {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}

// Add appends one record after the sheet's current extent. No duplicate-code
// check is made; the sheet is also edited by hand and dedup lives there.
func (r *Repository) Add(ctx context.Context, it model.NewItem) error {
	return r.vals.Append(ctx, sheet.ReadRange(r.tab), [][]string{sheet.EncodeNewItem(it)})
}

// Update applies a partial update to the record matching code. It returns
// false when no row matches. The resolved row's tracked columns are written
// back in a single call; renaming rewrites the code cell in place, the row
// never moves. A changed quantity is reported to the Alerter after the
// write-back succeeds.
func (r *Repository) Update(ctx context.Context, code string, u model.ItemUpdate) (bool, error) {
	rows, err := r.vals.Get(ctx, sheet.TrackedRange(r.tab))
	if err != nil {
		return false, err
	}
	idx := sheet.FindRowIndex(rows, code)
	if idx < 0 {
		return false, nil
	}
	existing := rows[idx]
	oldQuantity := sheet.ParseQuantity(sheet.Cell(existing, sheet.ColQuantity))

	next := sheet.ApplyUpdate(existing, u)
	rng := sheet.RowRange(r.tab, "A", "C", idx)
	if err := r.vals.Update(ctx, rng, [][]string{next}); err != nil {
		return false, err
	}

	if r.alerts != nil && u.Quantity != nil && *u.Quantity != oldQuantity {
		r.alerts.QuantityChanged(next[sheet.ColCode], oldQuantity, *u.Quantity)
	}
	return true, nil
}

// Delete blanks the tracked columns of the record matching code. The row
// itself stays, so positions of the remaining records hold within a read.
func (r *Repository) Delete(ctx context.Context, code string) (bool, error) {
	rows, err := r.vals.Get(ctx, sheet.TrackedRange(r.tab))
	if err != nil {
		return false, err
	}
	idx := sheet.FindRowIndex(rows, code)
	if idx < 0 {
		return false, nil
	}
	if err := r.vals.Clear(ctx, sheet.RowRange(r.tab, "A", "C", idx)); err != nil {
		return false, err
	}
	return true, nil
}
