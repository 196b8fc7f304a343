package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout 日期格式
const DateLayout = "2006-01-02"

// JSON 任意 JSON 对象
type JSON map[string]interface{}

// Value 实现 driver.Valuer 接口
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan 实现 sql.Scanner 接口
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	raw, err := scanBytes(value)
	if err != nil {
		return err
	}
	if len(raw) == 0 {
		*j = nil
		return nil
	}
	return json.Unmarshal(raw, j)
}

// JSONValue 原样保存的 JSON 值（设置项的值可以是字符串、数字、布尔）
type JSONValue json.RawMessage

// NewJSONValue 将任意值编码为 JSONValue
func NewJSONValue(v interface{}) (JSONValue, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return JSONValue(raw), nil
}

// Value 实现 driver.Valuer 接口
func (v JSONValue) Value() (driver.Value, error) {
	if len(v) == 0 {
		return "null", nil
	}
	return string(v), nil
}

// Scan 实现 sql.Scanner 接口
func (v *JSONValue) Scan(value interface{}) error {
	if value == nil {
		*v = JSONValue("null")
		return nil
	}
	switch scalar := value.(type) {
	case int64, float64, bool:
		// sqlite 的 json 列按 NUMERIC 亲和性存储，数字和布尔会以原生类型读出
		raw, err := json.Marshal(scalar)
		if err != nil {
			return err
		}
		*v = JSONValue(raw)
		return nil
	}
	raw, err := scanBytes(value)
	if err != nil {
		return err
	}
	*v = append((*v)[:0], raw...)
	return nil
}

// MarshalJSON 原样输出
func (v JSONValue) MarshalJSON() ([]byte, error) {
	if len(v) == 0 {
		return []byte("null"), nil
	}
	return v, nil
}

// UnmarshalJSON 原样保存
func (v *JSONValue) UnmarshalJSON(data []byte) error {
	if v == nil {
		return errors.New("models.JSONValue: UnmarshalJSON on nil pointer")
	}
	*v = append((*v)[:0], data...)
	return nil
}

// Date 不带时间的日期，按 YYYY-MM-DD 读写
type Date struct {
	time.Time
}

// NewDate 截取到日期
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate 解析 YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// String 返回 YYYY-MM-DD
func (d Date) String() string {
	return d.Format(DateLayout)
}

// After 比较日期先后
func (d Date) After(other Date) bool {
	return d.Time.After(other.Time)
}

// GormDataType 数据库列类型
func (Date) GormDataType() string {
	return "date"
}

// Value 实现 driver.Valuer 接口
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan 实现 sql.Scanner 接口
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		*d = NewDate(v)
		return nil
	case []byte:
		return d.parseLoose(string(v))
	case string:
		return d.parseLoose(v)
	default:
		return fmt.Errorf("models.Date: unsupported scan type %T", value)
	}
}

func (d *Date) parseLoose(s string) error {
	s = strings.TrimSpace(s)
	if len(s) >= len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON 输出 "YYYY-MM-DD"
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON 解析 "YYYY-MM-DD"
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func scanBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported scan type %T", value)
	}
}
