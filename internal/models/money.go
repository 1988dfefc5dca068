package models

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Money 表单提交的金额（保留 2 位小数）
type Money struct {
	decimal.Decimal
}

// MarshalJSON 统一输出 2 位小数的字符串
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Decimal.Round(2).StringFixed(2))
}

// UnmarshalJSON 解析金额（字符串或数字），空串视为 0，小数逗号视为小数点
func (m *Money) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
		if s == "" {
			m.Decimal = decimal.Zero
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		m.Decimal = d.Round(2)
		return nil
	}
	var d decimal.Decimal
	if err := json.Unmarshal(b, &d); err != nil {
		return err
	}
	m.Decimal = d.Round(2)
	return nil
}

// Positive 金额大于 0 时返回其值
func (m *Money) Positive() *decimal.Decimal {
	if m == nil || !m.Decimal.IsPositive() {
		return nil
	}
	d := m.Decimal.Round(2)
	return &d
}

// String 返回 2 位小数格式
func (m Money) String() string {
	return m.Decimal.Round(2).StringFixed(2)
}
