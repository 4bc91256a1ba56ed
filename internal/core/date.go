package core

import (
	"encoding/json"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date with no time component, normalized to UTC
// midnight so that equality and ordering behave as day comparisons.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// Today returns the current calendar date.
func Today() Date {
	return DateOf(time.Now().UTC())
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// YearMonth returns the calendar month the date falls in.
func (d Date) YearMonth() YearMonth {
	return YearMonth{Year: d.Year(), Month: d.Month()}
}

// StartOfMonth returns the first day of the date's month.
func (d Date) StartOfMonth() Date {
	return NewDate(d.Year(), int(d.Month()), 1)
}

// EndOfMonth returns the last day of the date's month.
func (d Date) EndOfMonth() Date {
	return NewDate(d.Year(), int(d.Month())+1, 0)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidDate
	}
	if s == "" {
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

// YearMonth identifies a calendar month. It is comparable and orders
// correctly with < on (Year, Month).
type YearMonth struct {
	Year  int
	Month time.Month
}

func (ym YearMonth) String() string {
	return NewDate(ym.Year, int(ym.Month), 1).Format("2006-01")
}

// Before reports whether ym is an earlier month than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// AddMonths returns the month n months after ym (n may be negative).
func (ym YearMonth) AddMonths(n int) YearMonth {
	t := time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth parses a "2006-01" string.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, ErrInvalidDate
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

func (ym YearMonth) MarshalJSON() ([]byte, error) {
	return json.Marshal(ym.String())
}

func (ym *YearMonth) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidDate
	}
	parsed, err := ParseYearMonth(s)
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}
