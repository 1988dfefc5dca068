package sheet

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
)

func columnKeys(columns []Column) []string {
	keys := make([]string, 0, len(columns))
	for _, col := range columns {
		keys = append(keys, col.Key)
	}
	return keys
}

func footballSelection() Selection {
	return Selection{
		Sport:    SportFootball,
		Language: "ENG",
		Products: []Product{ProductShorts, ProductJersey},
		Params: map[Product][]string{
			ProductJersey: {"size", "jersey_color"},
			ProductShorts: {"size_shorts", "jersey_color"},
		},
	}
}

func TestBuildColumnsOrder(t *testing.T) {
	columns := BuildColumns(footballSelection())
	want := []string{
		"name", "number", "height_cm", "weight_kg", "size", "jersey_color", "qty_jersey",
		"size_shorts", "qty_shorts", "price_jersey", "price_shorts", "total_price",
	}
	if got := columnKeys(columns); !reflect.DeepEqual(got, want) {
		t.Fatalf("column keys mismatch\nwant=%v\ngot=%v", want, got)
	}
	last := columns[len(columns)-1]
	if last.Type != TypeFormula || last.Formula != FormulaTotalPrice || last.Pricing == nil {
		t.Fatalf("expected total_price formula column, got %+v", last)
	}
}

func TestBuildColumnsDeterministic(t *testing.T) {
	first := BuildColumns(footballSelection())
	second := BuildColumns(footballSelection())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical column lists")
	}
}

func TestBuildColumnsMeasurementsBeforeFirstSizeParam(t *testing.T) {
	sel := Selection{
		Sport:    SportHockey,
		Products: []Product{ProductJersey, ProductShorts, ProductSocks},
		Params: map[Product][]string{
			ProductJersey: {"jersey_color"},
			ProductShorts: {"size_shorts"},
			ProductSocks:  {"size_socks"},
		},
	}
	keys := columnKeys(BuildColumns(sel))
	count := 0
	for i, key := range keys {
		if key != KeyHeight {
			continue
		}
		count++
		if keys[i+1] != KeyWeight || keys[i+2] != "size_shorts" {
			t.Fatalf("measurements must precede first size column, got %v", keys)
		}
	}
	if count != 1 {
		t.Fatalf("height column want once, got %d in %v", count, keys)
	}
}

func TestBuildColumnsWithoutSizeHasNoMeasurements(t *testing.T) {
	sel := Selection{Sport: SportOther, Products: []Product{ProductCaps}, Params: map[Product][]string{
		ProductCaps: {"cap_size", "cap_logo", "unknown_param"},
	}}
	want := []string{"name", "number", "cap", "cap_logo", "cap_size", "qty_caps", "price_caps", "total_price"}
	if got := columnKeys(BuildColumns(sel)); !reflect.DeepEqual(got, want) {
		t.Fatalf("caps columns want=%v got=%v", want, got)
	}
}

func TestBuildColumnsSkipsProductsNotOffered(t *testing.T) {
	sel := Selection{Sport: SportOther, Products: []Product{ProductJersey, "hats"}}
	want := []string{"name", "number"}
	if got := columnKeys(BuildColumns(sel)); !reflect.DeepEqual(got, want) {
		t.Fatalf("want=%v got=%v", want, got)
	}
}

func TestBuildColumnsJerseyPricingMode(t *testing.T) {
	cases := []struct {
		name  string
		sel   Selection
		price string
		mode  string
	}{
		{name: "football default tier", sel: Selection{Sport: SportFootball}, price: "35", mode: "Sublimated"},
		{name: "football embroidered", sel: Selection{Sport: SportFootball, JerseyPricingMode: "embroidered"}, price: "72", mode: "Embroidered"},
		{name: "hockey single tier", sel: Selection{Sport: SportHockey, JerseyPricingMode: "Complex"}, price: "21.9", mode: "Standard"},
	}
	for _, tc := range cases {
		tc.sel.Products = []Product{ProductJersey}
		columns := BuildColumns(tc.sel)
		col, ok := FindColumn(columns, "price_jersey")
		if !ok {
			t.Fatalf("%s: price_jersey missing", tc.name)
		}
		if !col.DefaultValue().Equal(decimal.RequireFromString(tc.price)) {
			t.Fatalf("%s: price want %s got %s", tc.name, tc.price, col.DefaultValue())
		}
		total, _ := FindColumn(columns, KeyTotalPrice)
		if total.Pricing.JerseyMode != tc.mode {
			t.Fatalf("%s: mode want %s got %s", tc.name, tc.mode, total.Pricing.JerseyMode)
		}
	}
}

func TestBuildColumnsExplicitPriceOverridesMode(t *testing.T) {
	override := decimal.NewFromInt(50)
	sel := Selection{Sport: SportFootball, Products: []Product{ProductJersey}, JerseyPricingMode: "Complex", PriceJersey: &override}
	col, _ := FindColumn(BuildColumns(sel), "price_jersey")
	if !col.DefaultValue().Equal(override) {
		t.Fatalf("expected override price 50, got %s", col.DefaultValue())
	}
}

func TestBuildColumnsSelectedOptionsKeepCustomValues(t *testing.T) {
	sel := footballSelection()
	sel.ParamOptions = map[string][]string{"jersey_color": {"Blue", "Red", "Teal", "Blue", " "}}
	col, _ := FindColumn(BuildColumns(sel), "jersey_color")
	want := []string{"Red", "Blue", "Teal"}
	if !reflect.DeepEqual(col.Options, want) {
		t.Fatalf("color options want=%v got=%v", want, col.Options)
	}
}

func TestBuildColumnsLocalizedLabels(t *testing.T) {
	sel := footballSelection()
	sel.Language = "rus"
	col, _ := FindColumn(BuildColumns(sel), "name")
	if col.Label != "ФАМИЛИЯ" {
		t.Fatalf("expected localized label, got %q", col.Label)
	}
}

func TestParamOptionsForSportUniqueAndNonEmpty(t *testing.T) {
	for _, sport := range Sports() {
		for param := range defaultParamOptions {
			options := ParamOptionsForSport(sport, param)
			if len(options) == 0 {
				t.Fatalf("%s/%s: empty options", sport, param)
			}
			seen := make(map[string]struct{}, len(options))
			for _, option := range options {
				if _, dup := seen[option]; dup {
					t.Fatalf("%s/%s: duplicate option %q", sport, param, option)
				}
				seen[option] = struct{}{}
			}
		}
	}
}

func TestAddCustomOptionRejectsCaseInsensitiveDuplicate(t *testing.T) {
	options, err := AddCustomOption(DefaultColors, "Teal")
	if err != nil {
		t.Fatalf("add custom option failed: %v", err)
	}
	if options[len(options)-1] != "Teal" || len(DefaultColors) != 10 {
		t.Fatalf("unexpected options: %v", options)
	}
	if _, err := AddCustomOption(options, " red "); !errors.Is(err, ErrDuplicateOption) {
		t.Fatalf("expected ErrDuplicateOption, got %v", err)
	}
	if _, err := AddCustomOption(options, "  "); !errors.Is(err, ErrEmptyOption) {
		t.Fatalf("expected ErrEmptyOption, got %v", err)
	}
}

func TestSelectionFromKeys(t *testing.T) {
	sel := SelectionFromKeys(Selection{Sport: SportFootball}, []string{
		"name", "number", "height_cm", "size", "qty_jersey", "price_jersey", "jersey_color",
	})
	if !reflect.DeepEqual(sel.Products, []Product{ProductJersey}) {
		t.Fatalf("products want [jersey], got %v", sel.Products)
	}
	if !reflect.DeepEqual(sel.Params[ProductJersey], []string{"size", "jersey_color"}) {
		t.Fatalf("jersey params mismatch: %v", sel.Params[ProductJersey])
	}
}

func TestApplyOverrides(t *testing.T) {
	catalog := CatalogColumns(Selection{Sport: SportFootball})
	columns := ApplyOverrides(catalog, []ColumnOverride{
		{Key: "qty_jersey", Label: " Qty "},
		{Key: "unknown"},
		{Key: "size", Options: []string{" M", "L", "M", ""}},
	})
	if len(columns) != 2 {
		t.Fatalf("expected 2 columns, got %v", columnKeys(columns))
	}
	if columns[0].Key != "qty_jersey" || columns[0].Label != "Qty" {
		t.Fatalf("unexpected first column: %+v", columns[0])
	}
	if !reflect.DeepEqual(columns[1].Options, []string{"M", "L"}) {
		t.Fatalf("unexpected size options: %v", columns[1].Options)
	}
	if ApplyOverrides(catalog, []ColumnOverride{{Key: "nope"}}) != nil {
		t.Fatalf("expected nil when no override matches")
	}
}
