package sizing

import (
	"math"
	"strings"
)

// Mode 推荐方式
type Mode string

const (
	ModeMatch   Mode = "match"
	ModeNearest Mode = "nearest"
)

// Suggestion 尺码建议
type Suggestion struct {
	Size string `json:"size"`
	Mode Mode   `json:"mode"`
}

// Range 闭区间
type Range struct {
	Min float64
	Max float64
}

func (r Range) contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// distance 到最近边界的距离，区间内为 0
func (r Range) distance(v float64) float64 {
	switch {
	case v < r.Min:
		return r.Min - v
	case v > r.Max:
		return v - r.Max
	}
	return 0
}

// ChartRow 尺码表行
type ChartRow struct {
	Size   string
	Height Range
	Weight Range
}

// Chart 尺码表
type Chart struct {
	Name       string
	HeightOnly bool
	Rows       []ChartRow

	// Oversize 身高体重同时达到阈值时直接返回的最大码，空表示不启用
	Oversize       string
	OversizeHeight float64
	OversizeWeight float64
}

// DefaultChart 身高 × 体重尺码表
var DefaultChart = Chart{
	Name: "default",
	Rows: []ChartRow{
		{Size: "XS", Height: Range{150, 160}, Weight: Range{40, 45}},
		{Size: "S", Height: Range{160, 165}, Weight: Range{45, 50}},
		{Size: "M", Height: Range{165, 170}, Weight: Range{50, 55}},
		{Size: "L", Height: Range{170, 175}, Weight: Range{55, 60}},
		{Size: "XL", Height: Range{175, 180}, Weight: Range{60, 70}},
		{Size: "2XL", Height: Range{180, 185}, Weight: Range{70, 80}},
		{Size: "3XL", Height: Range{185, 190}, Weight: Range{80, 90}},
		{Size: "4XL", Height: Range{190, 195}, Weight: Range{90, 100}},
	},
	Oversize:       "5XL",
	OversizeHeight: 200,
	OversizeWeight: 100,
}

// HockeyChart 仅按身高的冰球尺码表
var HockeyChart = Chart{
	Name:       "hockey",
	HeightOnly: true,
	Rows: []ChartRow{
		{Size: "110", Height: Range{105, 115}},
		{Size: "120", Height: Range{116, 125}},
		{Size: "130", Height: Range{126, 135}},
		{Size: "140", Height: Range{136, 145}},
		{Size: "150", Height: Range{146, 155}},
		{Size: "160/M", Height: Range{156, 165}},
		{Size: "170/L", Height: Range{166, 175}},
		{Size: "180/XL", Height: Range{176, 185}},
		{Size: "190/XXL", Height: Range{186, 195}},
		{Size: "190/3XL", Height: Range{196, 999}},
	},
}

// HeightOnlySport 使用仅身高尺码表的运动项目
const HeightOnlySport = "Hockey"

// ChartFor 按运动项目选择尺码表
func ChartFor(sport string) Chart {
	if strings.EqualFold(strings.TrimSpace(sport), HeightOnlySport) {
		return HockeyChart
	}
	return DefaultChart
}

// Suggest 按运动项目推荐尺码
func Suggest(height, weight float64, sport string) (Suggestion, bool) {
	return ChartFor(sport).Suggest(height, weight)
}

func validMeasure(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// Suggest 精确命中优先，否则取边界距离和最小的行（并列取先出现者）；
// 仅身高的尺码表没有命中时不给出推荐
func (c Chart) Suggest(height, weight float64) (Suggestion, bool) {
	if !validMeasure(height) {
		return Suggestion{}, false
	}
	if !c.HeightOnly && !validMeasure(weight) {
		return Suggestion{}, false
	}
	if len(c.Rows) == 0 {
		return Suggestion{}, false
	}

	if c.Oversize != "" && !c.HeightOnly && height >= c.OversizeHeight && weight >= c.OversizeWeight {
		return Suggestion{Size: c.Oversize, Mode: ModeMatch}, true
	}

	for _, row := range c.Rows {
		if !row.Height.contains(height) {
			continue
		}
		if c.HeightOnly || row.Weight.contains(weight) {
			return Suggestion{Size: row.Size, Mode: ModeMatch}, true
		}
	}
	if c.HeightOnly {
		return Suggestion{}, false
	}

	best := -1
	bestScore := math.Inf(1)
	for i, row := range c.Rows {
		score := row.Height.distance(height) + row.Weight.distance(weight)
		if score < bestScore {
			best = i
			bestScore = score
		}
	}
	return Suggestion{Size: c.Rows[best].Size, Mode: ModeNearest}, true
}
