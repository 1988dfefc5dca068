package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ninetytwo-orders/internal/sheet"
)

// Mode 导出模式
type Mode string

const (
	// ModeFull 完整版（含价格）
	ModeFull Mode = "full"
	// ModeFactory 工厂版（隐藏全部价格列）
	ModeFactory Mode = "factory"
)

// PopupBlockedMessage 打印窗口被拦截时的提示
const PopupBlockedMessage = "Please allow popups to save the PDF."

// ErrInvalidMode 未知导出模式
var ErrInvalidMode = errors.New("invalid export mode")

// ParseMode 解析导出模式，空值视为 full
func ParseMode(raw string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ModeFull:
		return ModeFull, nil
	case ModeFactory:
		return ModeFactory, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidMode, raw)
}

// Options 渲染参数
type Options struct {
	Mode        Mode
	GeneratedAt time.Time
	Brand       string
	LogoURL     string
	// AutoPrint 载入后自动调用浏览器打印并在完成后关闭窗口
	AutoPrint bool
}

// Columns 返回导出模式下的列
func Columns(columns []sheet.Column, mode Mode) []sheet.Column {
	if mode != ModeFactory {
		return sheet.CloneColumns(columns)
	}
	result := make([]sheet.Column, 0, len(columns))
	for _, col := range columns {
		if sheet.IsPriceColumn(col.Key) {
			continue
		}
		result = append(result, col)
	}
	return result
}

// Rows 过滤掉净数量为 0 的行
func Rows(doc sheet.Document) []sheet.Row {
	result := make([]sheet.Row, 0, len(doc.Rows))
	for _, row := range doc.Rows {
		if sheet.NetQuantity(doc.Columns, row.Data).IsZero() {
			continue
		}
		result = append(result, row)
	}
	return result
}

// unitFor 列单位
func unitFor(key string, labels sheet.UnitLabels) string {
	switch {
	case key == sheet.KeyHeight:
		return "cm"
	case key == sheet.KeyWeight:
		return "kg"
	case sheet.IsQuantityColumn(key):
		return labels.Pcs
	case sheet.IsPriceColumn(key):
		return labels.Currency
	}
	return ""
}

// cellText 单元格展示文本
func cellText(col sheet.Column, schema []sheet.Column, data map[string]any) string {
	switch col.Type {
	case sheet.TypeFormula:
		value, ok := sheet.Evaluate(col, schema, data)
		if !ok {
			return ""
		}
		return sheet.FormatAmount(value)
	case sheet.TypeFixed:
		return sheet.FormatAmount(col.DefaultValue())
	}
	raw, ok := data[col.Key]
	if !ok || raw == nil {
		return ""
	}
	if sheet.IsPriceColumn(col.Key) {
		if d, ok := sheet.ParseNumber(raw); ok {
			return sheet.FormatAmount(d)
		}
	}
	return fmt.Sprint(raw)
}

type summaryCard struct {
	Label string
	Value string
}

type tableRow struct {
	Index int
	Cells []string
}

type view struct {
	Title     string
	Slug      string
	Generated string
	Brand     string
	LogoURL   string
	Headers   []string
	Rows      []tableRow
	Footer    []string
	Summary   []summaryCard
	AutoPrint bool
}

func buildView(doc sheet.Document, opts Options) view {
	doc = withFixedDefaults(doc)
	columns := Columns(doc.Columns, opts.Mode)
	currency := doc.UnitLabels.Currency
	if currency == "" {
		currency = "EUR"
	}
	labels := sheet.UnitLabels{Pcs: doc.UnitLabels.Pcs, Currency: currency}
	if labels.Pcs == "" {
		labels.Pcs = "pcs"
	}

	v := view{
		Title:     doc.Title,
		Slug:      doc.Slug,
		Generated: opts.GeneratedAt.Format("Jan 02, 2006 15:04"),
		Brand:     opts.Brand,
		LogoURL:   opts.LogoURL,
		AutoPrint: opts.AutoPrint,
	}
	for _, col := range columns {
		label := col.Label
		if unit := unitFor(col.Key, labels); unit != "" {
			label = fmt.Sprintf("%s (%s)", col.Label, unit)
		}
		v.Headers = append(v.Headers, label)
	}

	for i, row := range Rows(doc) {
		cells := make([]string, 0, len(columns))
		for _, col := range columns {
			cells = append(cells, cellText(col, doc.Columns, row.Data))
		}
		v.Rows = append(v.Rows, tableRow{Index: i + 1, Cells: cells})
	}

	totals := sheet.Totals(doc.Columns, doc.RowData())
	totalPrice := totals[sheet.KeyTotalPrice]
	for _, col := range columns {
		switch {
		case sheet.IsQuantityColumn(col.Key):
			v.Footer = append(v.Footer, totals[col.Key].String())
		case col.Key == sheet.KeyTotalPrice:
			v.Footer = append(v.Footer, sheet.FormatAmount(totalPrice))
		default:
			v.Footer = append(v.Footer, "")
		}
	}

	v.Summary = append(v.Summary, summaryCard{Label: "Total rows", Value: fmt.Sprint(len(doc.Rows))})
	if opts.Mode == ModeFactory {
		v.Summary = append(v.Summary, summaryCard{Label: "Prices", Value: "Hidden"})
	} else {
		v.Summary = append(v.Summary, summaryCard{Label: "Total price", Value: sheet.FormatAmount(totalPrice) + " " + currency})
	}
	v.Summary = append(v.Summary, summaryCard{Label: "Units", Value: currency})
	return v
}

// withFixedDefaults 固定列一律取当前列默认值，行内旧值不参与计算
func withFixedDefaults(doc sheet.Document) sheet.Document {
	doc = doc.Clone()
	for i := range doc.Rows {
		if doc.Rows[i].Data == nil {
			doc.Rows[i].Data = map[string]any{}
		}
		sheet.ApplyFixed(doc.Columns, doc.Rows[i].Data)
	}
	return doc
}

// Render 渲染打印用 HTML 文档
func Render(doc sheet.Document, opts Options) ([]byte, error) {
	if opts.Mode == "" {
		opts.Mode = ModeFull
	}
	if opts.Mode != ModeFull && opts.Mode != ModeFactory {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMode, opts.Mode)
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}
	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, buildView(doc, opts)); err != nil {
		return nil, fmt.Errorf("render export document failed: %w", err)
	}
	return buf.Bytes(), nil
}
