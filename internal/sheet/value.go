package sheet

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotNumber 数值列收到非数字
	ErrNotNumber = errors.New("value is not a number")
	// ErrOptionNotAllowed 选择列收到不在选项内的值
	ErrOptionNotAllowed = errors.New("value is not an allowed option")
	// ErrNotScalar 单元格值必须是标量
	ErrNotScalar = errors.New("value must be a string or number")
)

// Value 按列类型区分的单元格值
type Value struct {
	Kind   ColumnType
	Text   string
	Number decimal.Decimal
	Set    bool
}

// Raw 转换为存储用的标量
func (v Value) Raw() any {
	if !v.Set {
		return ""
	}
	switch v.Kind {
	case TypeNumber:
		return v.Number.String()
	case TypeFixed, TypeFormula:
		return v.Number.StringFixed(2)
	default:
		return v.Text
	}
}

// String 展示用文本
func (v Value) String() string {
	raw := v.Raw()
	if s, ok := raw.(string); ok {
		return s
	}
	return fmt.Sprint(raw)
}

// ParseNumber 宽松解析数字：支持字符串（含小数逗号）与 JSON 数字
func ParseNumber(raw any) (decimal.Decimal, bool) {
	switch v := raw.(type) {
	case nil:
		return decimal.Zero, false
	case decimal.Decimal:
		return v, true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(v), true
	case float32:
		return ParseNumber(float64(v))
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", ".")
		if s == "" {
			return decimal.Zero, false
		}
		d, err := decimal.NewFromString(s)
		return d, err == nil
	}
	return decimal.Zero, false
}

func scalarText(raw any) (string, bool) {
	switch v := raw.(type) {
	case nil:
		return "", true
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case json.Number:
		return v.String(), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	}
	return "", false
}

// ParseValue 按列类型校验并转换原始值
func ParseValue(col Column, raw any) (Value, error) {
	switch col.Type {
	case TypeFixed:
		return Value{Kind: TypeFixed, Number: col.DefaultValue(), Set: true}, nil
	case TypeFormula:
		return Value{Kind: TypeFormula}, nil
	}

	text, ok := scalarText(raw)
	if !ok {
		return Value{}, ErrNotScalar
	}
	if strings.TrimSpace(text) == "" {
		return Value{Kind: col.Type}, nil
	}

	switch col.Type {
	case TypeNumber:
		d, ok := ParseNumber(text)
		if !ok {
			return Value{}, fmt.Errorf("%w: %q", ErrNotNumber, text)
		}
		return Value{Kind: TypeNumber, Number: d, Set: true}, nil
	case TypeSelect:
		if !col.HasOption(text) {
			return Value{}, fmt.Errorf("%w: %q", ErrOptionNotAllowed, text)
		}
		return Value{Kind: TypeSelect, Text: text, Set: true}, nil
	default:
		return Value{Kind: TypeText, Text: text, Set: true}, nil
	}
}

// NormalizeRow 依据列定义校验整行数据；schema 之外的键原样保留，公式列不落库，固定列写入默认值。
// stored 为该行当前已存数据：选项被移除后，行内原有的旧选项值仍可原样保存。
func NormalizeRow(schema []Column, data, stored map[string]any) (map[string]any, error) {
	result := make(map[string]any, len(data)+len(schema))
	for key, raw := range data {
		col, ok := FindColumn(schema, key)
		if !ok {
			result[key] = raw
			continue
		}
		if col.Type == TypeFormula {
			continue
		}
		value, err := ParseValue(col, raw)
		if err != nil {
			if errors.Is(err, ErrOptionNotAllowed) && sameScalar(raw, stored[key]) {
				result[key] = stored[key]
				continue
			}
			return nil, fmt.Errorf("column %s: %w", key, err)
		}
		result[key] = value.Raw()
	}
	ApplyFixed(schema, result)
	return result, nil
}

func sameScalar(a, b any) bool {
	if b == nil {
		return false
	}
	left, ok := scalarText(a)
	if !ok {
		return false
	}
	right, ok := scalarText(b)
	return ok && left == right
}

// ApplyFixed 将固定列默认值写入行数据，返回是否有变化
func ApplyFixed(schema []Column, data map[string]any) bool {
	changed := false
	for _, col := range schema {
		if col.Type != TypeFixed {
			continue
		}
		want := col.DefaultValue().StringFixed(2)
		if current, ok := data[col.Key].(string); ok && current == want {
			continue
		}
		data[col.Key] = want
		changed = true
	}
	return changed
}
