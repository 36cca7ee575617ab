package schedule

import (
	"fmt"
	"strings"
	"time"
)

// dateLayout 接口层日期格式（ISO日历日期）
const dateLayout = "2006-01-02"

// Date 纯日历日期，UTC午夜对齐，无时区歧义
type Date struct {
	t time.Time
}

// NewDate 按年月日构造日期
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf 截断时间戳为日历日期
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate 解析 YYYY-MM-DD
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("日期格式错误（应为YYYY-MM-DD）: %q", s)
	}
	return DateOf(t), nil
}

// AddDays 偏移n天（n可为负）
func (d Date) AddDays(n int) Date {
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysUntil 到other的天数差（other在前为负）
func (d Date) DaysUntil(other Date) int {
	return int(other.t.Sub(d.t).Hours() / 24)
}

func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }
func (d Date) IsZero() bool           { return d.t.IsZero() }

// Time 返回底层time.Time（UTC午夜）
func (d Date) Time() time.Time { return d.t }

func (d Date) String() string {
	return d.t.Format(dateLayout)
}

// MarshalJSON 序列化为 "YYYY-MM-DD"
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON 解析 "YYYY-MM-DD"，空串/null视为零值
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
