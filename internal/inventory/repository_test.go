package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/model"
	"github.com/bhaskarkhanolkar1-a11y/bablu/internal/sheet"
)

type alertSpy struct {
	mu    sync.Mutex
	calls []alertCall
}

type alertCall struct {
	code     string
	old, new int
}

func (a *alertSpy) QuantityChanged(code string, oldQuantity, newQuantity int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, alertCall{code, oldQuantity, newQuantity})
}

func newRepo(rows ...[]string) (*Repository, *sheet.Memory, *alertSpy) {
	m := sheet.NewMemory(rows...)
	spy := &alertSpy{}
	return New(m, "Sheet1", spy), m, spy
}

func seedRows() [][]string {
	return [][]string{
		{"Code", "Quantity", "Location", "Name"},
		{"ITM01", "12", "Rack A", "Widget"},
		{"ITM02", "3", "Rack B", "Gadget"},
		{"ITM03", "banana", "Rack C", "Gizmo"},
	}
}

func TestGetByCodeCaseInsensitive(t *testing.T) {
	r, _, _ := newRepo(seedRows()...)
	ctx := context.Background()

	upper, foundUpper, err := r.GetByCode(ctx, "ITM01")
	require.NoError(t, err)
	require.True(t, foundUpper)

	lower, foundLower, err := r.GetByCode(ctx, "itm01")
	require.NoError(t, err)
	require.True(t, foundLower)

	assert.Equal(t, upper, lower)
	assert.Equal(t, 12, upper.Quantity)
	assert.Equal(t, "Rack A", upper.Location)
	assert.Equal(t, "ITM01", upper.Code, "stored case is preserved in the result")
}

func TestGetByCodeIdempotentRead(t *testing.T) {
	r, _, _ := newRepo(seedRows()...)
	ctx := context.Background()
	first, found1, err := r.GetByCode(ctx, "ITM02")
	require.NoError(t, err)
	second, found2, err := r.GetByCode(ctx, "ITM02")
	require.NoError(t, err)
	assert.Equal(t, found1, found2)
	assert.Equal(t, first, second)
}

func TestGetByCodeNotFound(t *testing.T) {
	r, _, _ := newRepo(seedRows()...)
	_, found, err := r.GetByCode(context.Background(), "NOPE99")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetByCodeMalformedQuantityIsZero(t *testing.T) {
	r, _, _ := newRepo(seedRows()...)
	it, found, err := r.GetByCode(context.Background(), "ITM03")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 0, it.Quantity)
}

func TestListAllSkipsHeaderAndBlankCodes(t *testing.T) {
	rows := seedRows()
	rows = append(rows, []string{"", "9", "Nowhere"})
	r, _, _ := newRepo(rows...)

	items, err := r.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "ITM01", items[0].Code)
	assert.Equal(t, "Widget", items[0].Name)
}

func TestListAllNumericFirstRowIsData(t *testing.T) {
	r, _, _ := newRepo([]string{"ITM01", "12", "Rack A", "Widget"})
	items, err := r.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
}

func TestAddAppendsRow(t *testing.T) {
	r, _, _ := newRepo(seedRows()...)
	ctx := context.Background()
	err := r.Add(ctx, model.NewItem{Name: "Doohickey", Quantity: 7, Location: "Rack D"})
	require.NoError(t, err)

	it, found, err := r.GetByCode(ctx, "doohickey")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 7, it.Quantity)
	assert.Equal(t, "Rack D", it.Location)
	assert.Equal(t, "Doohickey", it.Name)
}

func TestAddAllowsDuplicateCodes(t *testing.T) {
	r, _, _ := newRepo(seedRows()...)
	ctx := context.Background()
	require.NoError(t, r.Add(ctx, model.NewItem{Name: "ITM01", Quantity: 1, Location: "X"}))

	items, err := r.ListAll(ctx)
	require.NoError(t, err)
	var matches int
	for _, it := range items {
		if it.Code == "ITM01" {
			matches++
		}
	}
	assert.Equal(t, 2, matches)
}

func TestUpdatePartialPreservesOtherFields(t *testing.T) {
	r, _, _ := newRepo(seedRows()...)
	ctx := context.Background()

	loc := "B2"
	ok, err := r.Update(ctx, "ITM01", model.ItemUpdate{Location: &loc})
	require.NoError(t, err)
	require.True(t, ok)

	it, found, err := r.GetByCode(ctx, "ITM01")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 12, it.Quantity)
	assert.Equal(t, "B2", it.Location)
	assert.Equal(t, "Widget", it.Name, "name column is outside the write-back window")
}

func TestUpdateRenameKeepsRowInPlace(t *testing.T) {
	r, _, _ := newRepo(seedRows()...)
	ctx := context.Background()

	code := "ITM42"
	ok, err := r.Update(ctx, "itm01", model.ItemUpdate{NewCode: &code})
	require.NoError(t, err)
	require.True(t, ok)

	_, found, err := r.GetByCode(ctx, "ITM01")
	require.NoError(t, err)
	assert.False(t, found)

	it, found, err := r.GetByCode(ctx, "ITM42")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 12, it.Quantity)
	assert.Equal(t, "Rack A", it.Location)
}

func TestUpdateNotFoundIsFalseNotError(t *testing.T) {
	r, _, spy := newRepo(seedRows()...)
	qty := 1
	ok, err := r.Update(context.Background(), "NOPE99", model.ItemUpdate{Quantity: &qty})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, spy.calls)
}

func TestUpdateReportsQuantityTransition(t *testing.T) {
	r, _, spy := newRepo(seedRows()...)
	qty := 2
	ok, err := r.Update(context.Background(), "ITM02", model.ItemUpdate{Quantity: &qty})
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, spy.calls, 1)
	assert.Equal(t, alertCall{"ITM02", 3, 2}, spy.calls[0])
}

func TestUpdateSameQuantityDoesNotReport(t *testing.T) {
	r, _, spy := newRepo(seedRows()...)
	qty := 3
	ok, err := r.Update(context.Background(), "ITM02", model.ItemUpdate{Quantity: &qty})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, spy.calls)
}

func TestDeleteLeavesOtherRowsIntact(t *testing.T) {
	r, mem, _ := newRepo(seedRows()...)
	ctx := context.Background()

	before := mem.RowCount()
	ok, err := r.Delete(ctx, "ITM01")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, before, mem.RowCount(), "delete clears cells, it does not remove the row")

	_, found, err := r.GetByCode(ctx, "ITM01")
	require.NoError(t, err)
	assert.False(t, found)

	it, found, err := r.GetByCode(ctx, "ITM02")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 3, it.Quantity)
	assert.Equal(t, "Rack B", it.Location)
}

func TestDeleteNotFound(t *testing.T) {
	r, _, _ := newRepo(seedRows()...)
	ok, err := r.Delete(context.Background(), "NOPE99")
	require.NoError(t, err)
	assert.False(t, ok)
}

// errValues fails every call with the same error, standing in for a remote
// store outage.
type errValues struct{ err error }

func (e errValues) Get(context.Context, string) ([][]string, error)  { return nil, e.err }
func (e errValues) Update(context.Context, string, [][]string) error { return e.err }
func (e errValues) Append(context.Context, string, [][]string) error { return e.err }
func (e errValues) Clear(context.Context, string) error              { return e.err }

func TestRemoteErrorsPropagateUntouched(t *testing.T) {
	boom := errors.New("quota exceeded")
	r := New(errValues{boom}, "Sheet1", nil)
	ctx := context.Background()

	_, _, err := r.GetByCode(ctx, "ITM01")
	assert.ErrorIs(t, err, boom)

	_, err = r.ListAll(ctx)
	assert.ErrorIs(t, err, boom)

	err = r.Add(ctx, model.NewItem{Name: "x", Quantity: 1, Location: "y"})
	assert.ErrorIs(t, err, boom)

	qty := 1
	_, err = r.Update(ctx, "ITM01", model.ItemUpdate{Quantity: &qty})
	assert.ErrorIs(t, err, boom)

	_, err = r.Delete(ctx, "ITM01")
	assert.ErrorIs(t, err, boom)
}

func TestEndToEndScenario(t *testing.T) {
	r, _, spy := newRepo(
		[]string{"ITM01", "12", "Rack A"},
		[]string{"ITM02", "3", "Rack B"},
	)
	ctx := context.Background()

	it, found, err := r.GetByCode(ctx, "itm01")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 12, it.Quantity)
	assert.Equal(t, "Rack A", it.Location)

	// 3 -> 2 is reported as a transition; whether it alerts is the
	// notifier's edge-trigger decision, not the repository's.
	qty := 2
	ok, err := r.Update(ctx, "ITM02", model.ItemUpdate{Quantity: &qty})
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, spy.calls, 1)
	assert.Equal(t, alertCall{"ITM02", 3, 2}, spy.calls[0])

	ok, err = r.Delete(ctx, "ITM01")
	require.NoError(t, err)
	require.True(t, ok)

	_, found, err = r.GetByCode(ctx, "ITM01")
	require.NoError(t, err)
	assert.False(t, found)
}
