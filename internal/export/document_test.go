package export

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ninetytwo-orders/internal/sheet"

	"github.com/shopspring/decimal"
)

func sampleDocument() sheet.Document {
	columns := sheet.BuildColumns(sheet.Selection{
		Sport:    sheet.SportFootball,
		Products: []sheet.Product{sheet.ProductJersey, sheet.ProductShorts},
		Params:   map[sheet.Product][]string{sheet.ProductJersey: {"size"}},
	})
	return sheet.Document{
		ID:         1,
		Slug:       "fc-polako",
		Title:      "FC <Polako>",
		Columns:    columns,
		Config:     map[string]any{"sport": "Football"},
		UnitLabels: sheet.UnitLabels{Pcs: "pcs", Currency: "EUR"},
		Rows: []sheet.Row{
			{ID: 1, Data: map[string]any{"name": "Berzins", "qty_jersey": "3", "price_jersey": "20", "qty_shorts": "2", "price_shorts": "5"}},
			{ID: 2, Data: map[string]any{"name": "Nobody", "qty_jersey": "0"}},
		},
	}
}

func TestColumnsFactoryModeDropsPrices(t *testing.T) {
	doc := sampleDocument()
	for _, col := range Columns(doc.Columns, ModeFactory) {
		if strings.HasPrefix(col.Key, "price_") || col.Key == sheet.KeyTotalPrice {
			t.Fatalf("factory columns must not contain %s", col.Key)
		}
	}
	if got := len(Columns(doc.Columns, ModeFull)); got != len(doc.Columns) {
		t.Fatalf("full mode want %d columns, got %d", len(doc.Columns), got)
	}
}

func TestRowsSkipZeroQuantity(t *testing.T) {
	rows := Rows(sampleDocument())
	if len(rows) != 1 || rows[0].ID != 1 {
		t.Fatalf("expected only row 1, got %+v", rows)
	}
}

func TestRenderFull(t *testing.T) {
	generated := time.Date(2026, 3, 5, 14, 7, 0, 0, time.UTC)
	out, err := Render(sampleDocument(), Options{Mode: ModeFull, GeneratedAt: generated})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	html := string(out)
	for _, want := range []string{
		"FC &lt;Polako&gt;",
		"Order ID: fc-polako",
		"Generated: Mar 05, 2026 14:07",
		"JERSEY PRICE (EUR)",
		"JERSEY QUANTITY (pcs)",
		"HEIGHT (cm)",
		"120.40 EUR",
		"<td>35.00</td>",
		"<td>TOTAL</td>",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("rendered document missing %q", want)
		}
	}
	if strings.Contains(html, "Nobody") {
		t.Fatalf("zero quantity row must be excluded")
	}
	if strings.Contains(html, "window.print") {
		t.Fatalf("print script only expected with AutoPrint")
	}
}

func TestRenderIgnoresStalePriceInRows(t *testing.T) {
	doc := sampleDocument()
	for i, col := range doc.Columns {
		if col.Key == "price_jersey" {
			price := decimal.NewFromInt(82)
			doc.Columns[i].Default = &price
		}
	}
	doc.Rows[0].Data["price_jersey"] = "35.00"
	out, err := Render(doc, Options{Mode: ModeFull})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	html := string(out)
	// 3 x 82 + 2 x 7.70
	if !strings.Contains(html, "261.40 EUR") || !strings.Contains(html, "<td>82.00</td>") {
		t.Fatalf("export must price rows from the current column default")
	}
	if strings.Contains(html, "<td>35.00</td>") {
		t.Fatalf("stale stored price leaked into the document")
	}
	if doc.Rows[0].Data["price_jersey"] != "35.00" {
		t.Fatalf("render must not mutate the input document")
	}
}

func TestRenderFactory(t *testing.T) {
	out, err := Render(sampleDocument(), Options{Mode: ModeFactory, AutoPrint: true})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	html := string(out)
	if strings.Contains(html, "PRICE") || strings.Contains(html, "Total price") {
		t.Fatalf("factory document must hide prices")
	}
	if !strings.Contains(html, "Hidden") || !strings.Contains(html, "window.print") {
		t.Fatalf("factory document missing hidden prices card or print script")
	}
}

func TestParseMode(t *testing.T) {
	if mode, err := ParseMode(" Factory "); err != nil || mode != ModeFactory {
		t.Fatalf("want factory, got %s (%v)", mode, err)
	}
	if mode, _ := ParseMode(""); mode != ModeFull {
		t.Fatalf("empty mode must default to full")
	}
	if _, err := ParseMode("draft"); !errors.Is(err, ErrInvalidMode) {
		t.Fatalf("expected ErrInvalidMode, got %v", err)
	}
}
