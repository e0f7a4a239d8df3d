// Package timewindow 将班次的日期与 "HH:MM" 时刻换算为绝对时间区间，并提供重叠判定。
//
// 区间为闭区间：首尾相接的两个班次（08:00-16:00 与 16:00-22:00）视为重叠。
// 结束时刻早于开始时刻表示跨越午夜，结束时间落在次日；两者相等表示零长度的瞬时区间。
package timewindow

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidClock 时刻格式非法
var ErrInvalidClock = errors.New("时间格式必须为 HH:MM")

// Interval 绝对时间闭区间 [Start, End]
type Interval struct {
	Start time.Time
	End   time.Time
}

// ParseClock 解析 "HH:MM" 为当日分钟数
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, ok1 := twoDigits(s[0], s[1])
	m, ok2 := twoDigits(s[3], s[4])
	if !ok1 || !ok2 || h > 23 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return h*60 + m, nil
}

// ValidClock 判断字符串是否为合法的 "HH:MM"
func ValidClock(s string) bool {
	_, err := ParseClock(s)
	return err == nil
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// New 以 date 所在日历日（按 loc 解释）为锚点构造区间
// date 只取年月日，时分秒被忽略
func New(date time.Time, start, end string, loc *time.Location) (Interval, error) {
	startMin, err := ParseClock(start)
	if err != nil {
		return Interval{}, err
	}
	endMin, err := ParseClock(end)
	if err != nil {
		return Interval{}, err
	}
	if loc == nil {
		loc = time.UTC
	}

	y, mo, d := date.Date()
	day := time.Date(y, mo, d, 0, 0, 0, 0, loc)

	iv := Interval{
		Start: day.Add(time.Duration(startMin) * time.Minute),
		End:   day.Add(time.Duration(endMin) * time.Minute),
	}
	if endMin < startMin {
		// 跨午夜：结束时刻落在次日
		iv.End = time.Date(y, mo, d+1, 0, 0, 0, 0, loc).Add(time.Duration(endMin) * time.Minute)
	}
	return iv, nil
}

// Overlaps 闭区间重叠判定，边界相接也算重叠
func (iv Interval) Overlaps(other Interval) bool {
	return !iv.Start.After(other.End) && !other.Start.After(iv.End)
}

// CrossesMidnight 区间是否跨越午夜
func (iv Interval) CrossesMidnight() bool {
	return iv.End.YearDay() != iv.Start.YearDay() || iv.End.Year() != iv.Start.Year()
}

// Duration 区间长度
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Overlaps 判断同一日期上的两个时刻区间是否重叠
func Overlaps(startA, endA, startB, endB string, date time.Time) (bool, error) {
	a, err := New(date, startA, endA, time.UTC)
	if err != nil {
		return false, err
	}
	b, err := New(date, startB, endB, time.UTC)
	if err != nil {
		return false, err
	}
	return a.Overlaps(b), nil
}
