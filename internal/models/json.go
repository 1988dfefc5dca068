package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/ninetytwo-orders/internal/sheet"
)

// JSON 以文本形式存储的 JSON 对象
type JSON map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return "{}", nil
	}
	bytes, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

// Scan 实现 sql.Scanner 接口
func (j *JSON) Scan(value interface{}) error {
	bytes, err := scanBytes(value)
	if err != nil {
		return err
	}
	if len(bytes) == 0 {
		*j = make(JSON)
		return nil
	}
	next := make(JSON)
	if err := json.Unmarshal(bytes, &next); err != nil {
		return err
	}
	*j = next
	return nil
}

// LenientJSON 解析失败时退化为空对象，读取永不因此失败
type LenientJSON map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j LenientJSON) Value() (driver.Value, error) {
	return JSON(j).Value()
}

// Scan 实现 sql.Scanner 接口
func (j *LenientJSON) Scan(value interface{}) error {
	var parsed JSON
	if err := parsed.Scan(value); err != nil || parsed == nil {
		*j = make(LenientJSON)
		return nil
	}
	*j = LenientJSON(parsed)
	return nil
}

// ColumnList 列定义数组
type ColumnList []sheet.Column

// Value 实现 driver.Valuer 接口
func (c ColumnList) Value() (driver.Value, error) {
	if c == nil {
		return "[]", nil
	}
	bytes, err := json.Marshal([]sheet.Column(c))
	if err != nil {
		return nil, err
	}
	return string(bytes), nil
}

// Scan 实现 sql.Scanner 接口
func (c *ColumnList) Scan(value interface{}) error {
	bytes, err := scanBytes(value)
	if err != nil {
		return err
	}
	if len(bytes) == 0 {
		*c = ColumnList{}
		return nil
	}
	var columns []sheet.Column
	if err := json.Unmarshal(bytes, &columns); err != nil {
		return err
	}
	*c = columns
	return nil
}

func scanBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	}
	return nil, fmt.Errorf("unsupported json column type %T", value)
}
