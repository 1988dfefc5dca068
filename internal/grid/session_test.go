package grid

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ninetytwo-orders/internal/sheet"
)

type savedRow struct {
	ID   uint
	Data map[string]any
}

type memStore struct {
	mu      sync.Mutex
	doc     *sheet.Document
	saves   []savedRow
	nextID  uint
	saveErr error
	delErr  error
}

func newMemStore(rows int) *memStore {
	columns := sheet.BuildColumns(sheet.Selection{
		Sport:    sheet.SportFootball,
		Products: []sheet.Product{sheet.ProductJersey, sheet.ProductShorts},
		Params:   map[sheet.Product][]string{sheet.ProductJersey: {"size"}},
	})
	doc := &sheet.Document{
		ID:         1,
		Slug:       "fc-polako",
		Title:      "FC Polako",
		Columns:    columns,
		Config:     map[string]any{"sport": "Football"},
		UnitLabels: sheet.UnitLabels{Pcs: "pcs", Currency: "EUR"},
	}
	for i := 1; i <= rows; i++ {
		doc.Rows = append(doc.Rows, sheet.Row{ID: uint(i), Data: map[string]any{}})
	}
	return &memStore{doc: doc, nextID: uint(rows + 1)}
}

func (m *memStore) LoadOrder(_ context.Context, slug string) (*sheet.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slug != m.doc.Slug {
		return nil, ErrNotFound
	}
	doc := m.doc.Clone()
	return &doc, nil
}

func (m *memStore) SaveRow(_ context.Context, _ string, rowID uint, data map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves = append(m.saves, savedRow{ID: rowID, Data: data})
	return nil
}

func (m *memStore) AddRow(_ context.Context, _ string) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	return id, nil
}

func (m *memStore) DeleteRow(_ context.Context, _ string, _ uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.delErr
}

func (m *memStore) savedRows() []savedRow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]savedRow(nil), m.saves...)
}

func loadSession(t *testing.T, store *memStore, opts ...Option) *Session {
	t.Helper()
	session := NewSession(store, "fc-polako", opts...)
	if err := session.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return session
}

func cellValue(view View, rowIndex int, key string) CellView {
	for _, cell := range view.Rows[rowIndex].Cells {
		if cell.Key == key {
			return cell
		}
	}
	return CellView{}
}

func TestLoadUnknownOrder(t *testing.T) {
	session := NewSession(newMemStore(1), "missing")
	if err := session.Load(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := session.Render(); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestRenderForcesFixedDefaultsAndComputesTotals(t *testing.T) {
	store := newMemStore(2)
	session := loadSession(t, store, WithDebounce(time.Hour))

	if err := session.SetCell(0, "qty_jersey", "2"); err != nil {
		t.Fatalf("set cell failed: %v", err)
	}
	if err := session.SetCell(0, "qty_shorts", "1"); err != nil {
		t.Fatalf("set cell failed: %v", err)
	}
	view, err := session.Render()
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if got := cellValue(view, 0, "total_price").Value; got != "77.70" {
		t.Fatalf("want total 77.70, got %s", got)
	}
	if cell := cellValue(view, 1, "price_jersey"); cell.Value != "35.00" || !cell.ReadOnly {
		t.Fatalf("unexpected fixed cell %+v", cell)
	}
	if cell := cellValue(view, 0, "size"); len(cell.Options) == 0 || cell.ReadOnly {
		t.Fatalf("select cell should carry options: %+v", cell)
	}
	if view.Totals["qty_jersey"] != "2" || view.Totals["total_price"] != "77.70" {
		t.Fatalf("unexpected totals %+v", view.Totals)
	}

	doc, _ := session.Document()
	if doc.Rows[1].Data["price_jersey"] != "35.00" {
		t.Fatalf("fixed default should be written into row data, got %v", doc.Rows[1].Data)
	}
}

func TestSetCellDebouncesSaves(t *testing.T) {
	store := newMemStore(1)
	session := loadSession(t, store, WithDebounce(20*time.Millisecond))

	for _, name := range []string{"B", "Be", "Berzins"} {
		if err := session.SetCell(0, "name", name); err != nil {
			t.Fatalf("set cell failed: %v", err)
		}
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(store.savedRows()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(60 * time.Millisecond)

	saves := store.savedRows()
	if len(saves) != 1 {
		t.Fatalf("want exactly one save, got %d", len(saves))
	}
	if saves[0].ID != 1 || saves[0].Data["name"] != "Berzins" {
		t.Fatalf("unexpected save %+v", saves[0])
	}
	if session.Pending() != 0 {
		t.Fatalf("no saves should remain pending")
	}
}

func TestSetCellValidation(t *testing.T) {
	session := loadSession(t, newMemStore(1), WithDebounce(time.Hour))

	if err := session.SetCell(0, "total_price", "1"); !errors.Is(err, ErrColumnNotEditable) {
		t.Fatalf("expected ErrColumnNotEditable, got %v", err)
	}
	if err := session.SetCell(3, "name", "x"); !errors.Is(err, ErrRowIndexOutOfRange) {
		t.Fatalf("expected ErrRowIndexOutOfRange, got %v", err)
	}
	if err := session.SetCell(0, "nope", "x"); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
	if err := session.SetCell(0, "size", "XXXL"); !errors.Is(err, sheet.ErrOptionNotAllowed) {
		t.Fatalf("expected ErrOptionNotAllowed, got %v", err)
	}
	if err := session.SetCell(0, "height_cm", "172,5"); err != nil {
		t.Fatalf("decimal comma should be accepted: %v", err)
	}
	doc, _ := session.Document()
	if doc.Rows[0].Data["height_cm"] != "172.5" {
		t.Fatalf("want normalized 172.5, got %v", doc.Rows[0].Data["height_cm"])
	}
}

func TestFlushSavesPendingRows(t *testing.T) {
	store := newMemStore(2)
	session := loadSession(t, store, WithDebounce(time.Hour))

	_ = session.SetCell(0, "name", "A")
	_ = session.SetCell(1, "name", "B")
	_ = session.SetCell(1, "number", "9")
	if session.Pending() != 2 {
		t.Fatalf("want 2 pending rows, got %d", session.Pending())
	}
	if err := session.Flush(context.Background()); err != nil {
		t.Fatalf("flush failed: %v", err)
	}
	if got := len(store.savedRows()); got != 2 {
		t.Fatalf("want 2 saves, got %d", got)
	}
	if session.Pending() != 0 {
		t.Fatalf("flush should clear pending saves")
	}
}

func TestPasteFillsBlockAndSavesOncePerRow(t *testing.T) {
	store := newMemStore(3)
	session := loadSession(t, store, WithDebounce(time.Hour))

	result, err := session.Paste(context.Background(), 0, "name", "Berzins\t7\r\nOzols\t10\n")
	if err != nil {
		t.Fatalf("paste failed: %v", err)
	}
	if result.Cells != 4 || len(result.Rows) != 2 {
		t.Fatalf("unexpected paste result %+v", result)
	}
	doc, _ := session.Document()
	if doc.Rows[0].Data["name"] != "Berzins" || doc.Rows[0].Data["number"] != "7" {
		t.Fatalf("row 0 not filled: %v", doc.Rows[0].Data)
	}
	if doc.Rows[1].Data["name"] != "Ozols" || doc.Rows[1].Data["number"] != "10" {
		t.Fatalf("row 1 not filled: %v", doc.Rows[1].Data)
	}
	saves := store.savedRows()
	if len(saves) != 2 || saves[0].ID != 1 || saves[1].ID != 2 {
		t.Fatalf("want one save per touched row, got %+v", saves)
	}
}

func TestPasteNormalizesAndRejectsPerColumnType(t *testing.T) {
	store := newMemStore(1)
	session := loadSession(t, store, WithDebounce(time.Hour))
	_ = session.SetCell(0, "size", "M")

	// height_cm, weight_kg, size, qty_jersey, qty_shorts
	result, err := session.Paste(context.Background(), 0, "height_cm", " 172,5 \t58\tXXXL\t2\t0\textra")
	if err != nil {
		t.Fatalf("paste failed: %v", err)
	}
	doc, _ := session.Document()
	data := doc.Rows[0].Data
	if data["height_cm"] != "172.5" || data["weight_kg"] != "58" || data["qty_jersey"] != "2" {
		t.Fatalf("unexpected row data %v", data)
	}
	if data["size"] != "M" {
		t.Fatalf("select outside options must leave cell unchanged, got %v", data["size"])
	}
	if result.Skipped != 1 {
		t.Fatalf("want 1 skipped cell, got %d", result.Skipped)
	}
	if session.Pending() != 0 {
		t.Fatalf("paste save should replace the pending debounce")
	}
	if got := len(store.savedRows()); got != 1 {
		t.Fatalf("want 1 save, got %d", got)
	}
}

func TestPasteStopsAtLastRow(t *testing.T) {
	store := newMemStore(1)
	session := loadSession(t, store, WithDebounce(time.Hour))

	result, err := session.Paste(context.Background(), 0, "name", "A\nB\nC")
	if err != nil {
		t.Fatalf("paste failed: %v", err)
	}
	if result.Cells != 1 || len(store.savedRows()) != 1 {
		t.Fatalf("paste should be clipped to existing rows: %+v", result)
	}
	if _, err := session.Paste(context.Background(), 0, "price_jersey", "1"); !errors.Is(err, ErrColumnNotEditable) {
		t.Fatalf("expected ErrColumnNotEditable, got %v", err)
	}
}

func TestAddAndDeleteRow(t *testing.T) {
	store := newMemStore(2)
	session := loadSession(t, store, WithDebounce(time.Hour))

	id, err := session.AddRow(context.Background())
	if err != nil || id != 3 {
		t.Fatalf("add row failed: id=%d err=%v", id, err)
	}
	if session.RowCount() != 3 {
		t.Fatalf("want 3 rows, got %d", session.RowCount())
	}

	_ = session.SetCell(0, "name", "gone")
	if err := session.DeleteRow(context.Background(), 0); err != nil {
		t.Fatalf("delete row failed: %v", err)
	}
	doc, _ := session.Document()
	if len(doc.Rows) != 2 || doc.Rows[0].ID != 2 {
		t.Fatalf("unexpected rows after delete: %+v", doc.Rows)
	}
	if session.Pending() != 0 {
		t.Fatalf("deleted row must not keep a pending save")
	}

	store.delErr = ErrNotFound
	if err := session.DeleteRow(context.Background(), 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if session.RowCount() != 2 {
		t.Fatalf("failed remote delete must keep local row")
	}
}

func TestSaveErrorsReachHandler(t *testing.T) {
	store := newMemStore(1)
	store.saveErr = errors.New("offline")
	var failed []uint
	session := loadSession(t, store, WithDebounce(time.Hour), WithSaveErrorHandler(func(rowID uint, err error) {
		failed = append(failed, rowID)
	}))

	_ = session.SetCell(0, "name", "A")
	if err := session.Flush(context.Background()); err == nil {
		t.Fatalf("flush should report the save error")
	}
	if len(failed) != 1 || failed[0] != 1 {
		t.Fatalf("save error handler not called: %v", failed)
	}
}

func TestSessionTotals(t *testing.T) {
	session := loadSession(t, newMemStore(2), WithDebounce(time.Hour))
	_ = session.SetCell(0, "qty_jersey", "3")
	_ = session.SetCell(1, "qty_jersey", "1")
	totals, err := session.Totals()
	if err != nil {
		t.Fatalf("totals failed: %v", err)
	}
	if totals["qty_jersey"] != "4" || totals["total_price"] != "140.00" {
		t.Fatalf("unexpected totals %+v", totals)
	}
}
