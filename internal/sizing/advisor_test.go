package sizing

import (
	"math"
	"testing"
)

func TestSuggestDefaultChart(t *testing.T) {
	cases := []struct {
		name   string
		height float64
		weight float64
		want   Suggestion
	}{
		{name: "exact L", height: 172, weight: 57, want: Suggestion{Size: "L", Mode: ModeMatch}},
		{name: "inclusive boundary", height: 160, weight: 45, want: Suggestion{Size: "XS", Mode: ModeMatch}},
		{name: "oversize", height: 205, weight: 110, want: Suggestion{Size: "5XL", Mode: ModeMatch}},
		{name: "nearest below chart", height: 140, weight: 30, want: Suggestion{Size: "XS", Mode: ModeNearest}},
		{name: "nearest mixed", height: 172, weight: 90, want: Suggestion{Size: "3XL", Mode: ModeNearest}},
	}
	for _, tc := range cases {
		got, ok := Suggest(tc.height, tc.weight, "Football")
		if !ok {
			t.Fatalf("%s: expected suggestion", tc.name)
		}
		if got != tc.want {
			t.Fatalf("%s: want %+v got %+v", tc.name, tc.want, got)
		}
	}
}

func TestSuggestInvalidInput(t *testing.T) {
	cases := [][2]float64{{0, 0}, {-1, 50}, {170, 0}, {math.NaN(), 50}, {170, math.Inf(1)}}
	for _, tc := range cases {
		if _, ok := Suggest(tc[0], tc[1], ""); ok {
			t.Fatalf("input %v: expected none", tc)
		}
	}
}

func TestSuggestHockeyUsesHeightOnly(t *testing.T) {
	got, ok := Suggest(172, 0, "hockey")
	if !ok || got != (Suggestion{Size: "170/L", Mode: ModeMatch}) {
		t.Fatalf("want 170/L match, got %+v ok=%v", got, ok)
	}
	for _, height := range []float64{100, 115.5} {
		if got, ok := Suggest(height, 0, "Hockey"); ok {
			t.Fatalf("height %v outside the hockey chart must give no suggestion, got %+v", height, got)
		}
	}
	got, _ = Suggest(210, 120, "Hockey")
	if got.Size != "190/3XL" || got.Mode != ModeMatch {
		t.Fatalf("want 190/3XL match, got %+v", got)
	}
}
