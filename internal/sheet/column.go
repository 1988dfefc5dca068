package sheet

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ColumnType 列类型
type ColumnType string

const (
	TypeText    ColumnType = "text"
	TypeNumber  ColumnType = "number"
	TypeSelect  ColumnType = "select"
	TypeFixed   ColumnType = "fixed"
	TypeFormula ColumnType = "formula"
)

// 固定列键
const (
	KeyName       = "name"
	KeyNumber     = "number"
	KeyHeight     = "height_cm"
	KeyWeight     = "weight_kg"
	KeyTotalPrice = "total_price"

	pricePrefix    = "price_"
	quantityPrefix = "qty_"
)

// Pricing 公式列闭包的单价输入
type Pricing struct {
	Jersey     decimal.Decimal `json:"priceJersey"`
	Shorts     decimal.Decimal `json:"priceShorts"`
	Socks      decimal.Decimal `json:"priceSocks"`
	Caps       decimal.Decimal `json:"priceCaps"`
	JerseyMode string          `json:"jerseyPricingMode,omitempty"`
}

// PriceFor 返回产品线单价
func (p Pricing) PriceFor(product Product) decimal.Decimal {
	switch product {
	case ProductJersey:
		return p.Jersey
	case ProductShorts:
		return p.Shorts
	case ProductSocks:
		return p.Socks
	case ProductCaps:
		return p.Caps
	}
	return decimal.Zero
}

// Column 订单列定义
type Column struct {
	Key     string           `json:"key"`
	Label   string           `json:"label"`
	Type    ColumnType       `json:"type"`
	Options []string         `json:"options,omitempty"`
	Default *decimal.Decimal `json:"default,omitempty"`
	Formula Formula          `json:"formula,omitempty"`
	Pricing *Pricing         `json:"pricing,omitempty"`
}

// Editable 是否允许直接编辑
func (c Column) Editable() bool {
	return c.Type != TypeFixed && c.Type != TypeFormula
}

// HasOption 判断选项是否存在（精确匹配）
func (c Column) HasOption(value string) bool {
	for _, option := range c.Options {
		if option == value {
			return true
		}
	}
	return false
}

// DefaultValue 固定列默认值
func (c Column) DefaultValue() decimal.Decimal {
	if c.Default == nil {
		return decimal.Zero
	}
	return *c.Default
}

// IsPriceColumn 是否为价格相关列（单价列或总价列）
func IsPriceColumn(key string) bool {
	return strings.HasPrefix(key, pricePrefix) || key == KeyTotalPrice
}

// IsQuantityColumn 是否为数量列
func IsQuantityColumn(key string) bool {
	return strings.HasPrefix(key, quantityPrefix)
}

// FindColumn 按 key 查找列
func FindColumn(columns []Column, key string) (Column, bool) {
	for _, col := range columns {
		if col.Key == key {
			return col, true
		}
	}
	return Column{}, false
}

// EditableColumns 过滤出可编辑列，保持原顺序
func EditableColumns(columns []Column) []Column {
	result := make([]Column, 0, len(columns))
	for _, col := range columns {
		if col.Editable() {
			result = append(result, col)
		}
	}
	return result
}

// CloneColumns 深拷贝列定义
func CloneColumns(columns []Column) []Column {
	if columns == nil {
		return nil
	}
	result := make([]Column, len(columns))
	for i, col := range columns {
		next := col
		if col.Options != nil {
			next.Options = append([]string(nil), col.Options...)
		}
		if col.Default != nil {
			d := *col.Default
			next.Default = &d
		}
		if col.Pricing != nil {
			p := *col.Pricing
			next.Pricing = &p
		}
		result[i] = next
	}
	return result
}
