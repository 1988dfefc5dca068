package sheet

import (
	"github.com/shopspring/decimal"
)

// Formula 聚合策略名
type Formula string

const (
	// FormulaTotalPrice Σ 数量 × 单价
	FormulaTotalPrice Formula = "total_price"
	// FormulaTotalQuantity Σ 数量
	FormulaTotalQuantity Formula = "total_quantity"
)

type strategy func(col Column, schema []Column, data map[string]any) decimal.Decimal

var strategies = map[Formula]strategy{
	FormulaTotalPrice:    totalPrice,
	FormulaTotalQuantity: totalQuantity,
}

// Valid 是否为已知策略
func (f Formula) Valid() bool {
	_, ok := strategies[f]
	return ok
}

// Evaluate 计算公式列在某行的值
func Evaluate(col Column, schema []Column, data map[string]any) (decimal.Decimal, bool) {
	if col.Type != TypeFormula {
		return decimal.Zero, false
	}
	formula := col.Formula
	if formula == "" && col.Key == KeyTotalPrice {
		formula = FormulaTotalPrice
	}
	fn, ok := strategies[formula]
	if !ok {
		return decimal.Zero, false
	}
	return fn(col, schema, data), true
}

// FormatAmount 两位小数格式化
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// presentLines 返回 schema 中存在数量列的产品线
func presentLines(schema []Column) []ProductLine {
	lines := make([]ProductLine, 0, len(productOrder))
	for _, line := range ProductLines() {
		if _, ok := FindColumn(schema, line.QtyKey); ok {
			lines = append(lines, line)
		}
	}
	return lines
}

// LinePrice 行单价：行内非零价格 > 公式列闭包单价 > 固定列默认值
func LinePrice(col Column, schema []Column, data map[string]any, line ProductLine) decimal.Decimal {
	if own, ok := ParseNumber(data[line.PriceKey]); ok && !own.IsZero() {
		return own
	}
	if col.Pricing != nil {
		if price := col.Pricing.PriceFor(line.Product); !price.IsZero() {
			return price
		}
	}
	if fixed, ok := FindColumn(schema, line.PriceKey); ok && fixed.Type == TypeFixed {
		return fixed.DefaultValue()
	}
	return decimal.Zero
}

func totalPrice(col Column, schema []Column, data map[string]any) decimal.Decimal {
	total := decimal.Zero
	for _, line := range presentLines(schema) {
		qty, _ := ParseNumber(data[line.QtyKey])
		if qty.IsZero() {
			continue
		}
		total = total.Add(qty.Mul(LinePrice(col, schema, data, line)))
	}
	return total.Round(2)
}

func totalQuantity(_ Column, schema []Column, data map[string]any) decimal.Decimal {
	return NetQuantity(schema, data)
}

// NetQuantity 行内全部产品线数量之和
func NetQuantity(schema []Column, data map[string]any) decimal.Decimal {
	total := decimal.Zero
	for _, line := range presentLines(schema) {
		qty, _ := ParseNumber(data[line.QtyKey])
		total = total.Add(qty)
	}
	return total
}

// Totals 汇总数量列与公式列
func Totals(schema []Column, rows []map[string]any) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, col := range schema {
		if IsQuantityColumn(col.Key) || col.Type == TypeFormula {
			totals[col.Key] = decimal.Zero
		}
	}
	for _, data := range rows {
		for _, col := range schema {
			switch {
			case col.Type == TypeFormula:
				if value, ok := Evaluate(col, schema, data); ok {
					totals[col.Key] = totals[col.Key].Add(value)
				}
			case IsQuantityColumn(col.Key):
				qty, _ := ParseNumber(data[col.Key])
				totals[col.Key] = totals[col.Key].Add(qty)
			}
		}
	}
	return totals
}
