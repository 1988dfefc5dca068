package grid

import (
	"fmt"

	"github.com/ninetytwo-orders/internal/sheet"
)

// CellView 单元格渲染结果
type CellView struct {
	Key      string           `json:"key"`
	Type     sheet.ColumnType `json:"type"`
	Value    string           `json:"value"`
	Options  []string         `json:"options,omitempty"`
	ReadOnly bool             `json:"readOnly"`
}

// RowView 行渲染结果
type RowView struct {
	Index int        `json:"index"`
	ID    uint       `json:"id"`
	Cells []CellView `json:"cells"`
}

// View 整个表格的渲染结果
type View struct {
	Slug    string            `json:"slug"`
	Title   string            `json:"title"`
	Keys    []string          `json:"keys"`
	Headers []string          `json:"headers"`
	Rows    []RowView         `json:"rows"`
	Totals  map[string]string `json:"totals"`
}

// Render 按列类型渲染全部行；固定列默认值会写回每一行的内存数据
func (s *Session) Render() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil {
		return View{}, ErrNotLoaded
	}
	doc := s.doc
	view := View{
		Slug:    doc.Slug,
		Title:   doc.Title,
		Keys:    make([]string, 0, len(doc.Columns)),
		Headers: make([]string, 0, len(doc.Columns)),
		Rows:    make([]RowView, 0, len(doc.Rows)),
	}
	for _, col := range doc.Columns {
		view.Keys = append(view.Keys, col.Key)
		view.Headers = append(view.Headers, Header(col, doc.UnitLabels))
	}
	for i := range doc.Rows {
		row := &doc.Rows[i]
		sheet.ApplyFixed(doc.Columns, row.Data)
		cells := make([]CellView, 0, len(doc.Columns))
		for _, col := range doc.Columns {
			cells = append(cells, renderCell(col, doc.Columns, row.Data))
		}
		view.Rows = append(view.Rows, RowView{Index: i, ID: row.ID, Cells: cells})
	}

	totals := sheet.Totals(doc.Columns, doc.RowData())
	view.Totals = make(map[string]string, len(totals))
	for key, value := range totals {
		if sheet.IsQuantityColumn(key) {
			view.Totals[key] = value.String()
		} else {
			view.Totals[key] = sheet.FormatAmount(value)
		}
	}
	return view, nil
}

// Header 列标题，带单位后缀
func Header(col sheet.Column, labels sheet.UnitLabels) string {
	unit := ""
	switch {
	case col.Key == sheet.KeyHeight:
		unit = "cm"
	case col.Key == sheet.KeyWeight:
		unit = "kg"
	case sheet.IsQuantityColumn(col.Key):
		unit = labels.Pcs
	case sheet.IsPriceColumn(col.Key):
		unit = labels.Currency
	}
	if unit == "" {
		return col.Label
	}
	return fmt.Sprintf("%s (%s)", col.Label, unit)
}

func renderCell(col sheet.Column, schema []sheet.Column, data map[string]any) CellView {
	cell := CellView{Key: col.Key, Type: col.Type, ReadOnly: !col.Editable()}
	switch col.Type {
	case sheet.TypeFormula:
		if value, ok := sheet.Evaluate(col, schema, data); ok {
			cell.Value = sheet.FormatAmount(value)
		}
	case sheet.TypeFixed:
		cell.Value = sheet.FormatAmount(col.DefaultValue())
	case sheet.TypeSelect:
		cell.Options = append([]string(nil), col.Options...)
		cell.Value = textOf(data[col.Key])
	default:
		cell.Value = textOf(data[col.Key])
	}
	return cell
}

func textOf(raw any) string {
	if raw == nil {
		return ""
	}
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprint(raw)
}
