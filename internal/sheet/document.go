package sheet

import "time"

// UnitLabels 单位展示文案
type UnitLabels struct {
	Pcs      string `json:"pcs"`
	Currency string `json:"currency"`
}

// Row 订单行
type Row struct {
	ID        uint           `json:"id"`
	Data      map[string]any `json:"data"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Document 完整订单文档
type Document struct {
	ID         uint           `json:"id"`
	Slug       string         `json:"slug"`
	Title      string         `json:"title"`
	Columns    []Column       `json:"columns"`
	Config     map[string]any `json:"config"`
	UnitLabels UnitLabels     `json:"unitLabels"`
	Rows       []Row          `json:"rows"`
}

// Sport 读取配置中的运动项目
func (d Document) Sport() Sport {
	if raw, ok := d.Config["sport"].(string); ok {
		return ParseSport(raw)
	}
	return SportFootball
}

// RowData 返回全部行数据
func (d Document) RowData() []map[string]any {
	result := make([]map[string]any, 0, len(d.Rows))
	for _, row := range d.Rows {
		result = append(result, row.Data)
	}
	return result
}

// Clone 深拷贝文档
func (d Document) Clone() Document {
	next := d
	next.Columns = CloneColumns(d.Columns)
	next.Config = cloneMap(d.Config)
	next.Rows = make([]Row, len(d.Rows))
	for i, row := range d.Rows {
		next.Rows[i] = Row{ID: row.ID, Data: cloneMap(row.Data), UpdatedAt: row.UpdatedAt}
	}
	return next
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
