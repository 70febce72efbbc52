// ABOUTME: Integer-encoded calendar date used by the SFM tables.
// ABOUTME: Stores YYYYMMDD as an int and converts to/from strings and time.Time.
package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar date encoded as YYYYMMDD (e.g. 20240315).
// The zero value means the date is unset.
type Date int32

// NewDate builds a Date from a time.Time, ignoring the time of day.
func NewDate(t time.Time) Date {
	return Date(t.Year()*10000 + int(t.Month())*100 + t.Day())
}

// ParseDate accepts "20240315", "2024-03-15" or an RFC3339 timestamp.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty date")
	}

	if len(s) == 8 {
		n, err := strconv.Atoi(s)
		if err == nil {
			d := Date(n)
			if !d.Valid() {
				return 0, fmt.Errorf("invalid date: %s", s)
			}
			return d, nil
		}
	}

	if t, err := time.Parse("2006-01-02", s); err == nil {
		return NewDate(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return NewDate(t), nil
	}

	return 0, fmt.Errorf("invalid date: %s (use YYYYMMDD or YYYY-MM-DD)", s)
}

// Year returns the year component.
func (d Date) Year() int { return int(d) / 10000 }

// Month returns the month component.
func (d Date) Month() time.Month { return time.Month(int(d) / 100 % 100) }

// Day returns the day-of-month component.
func (d Date) Day() int { return int(d) % 100 }

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool { return d == 0 }

// Valid reports whether d names a real calendar day.
func (d Date) Valid() bool {
	if d <= 0 {
		return false
	}
	t := d.Time()
	return t.Year() == d.Year() && t.Month() == d.Month() && t.Day() == d.Day()
}

// Time returns midnight UTC of the date.
func (d Date) Time() time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

// String renders the date as YYYY-MM-DD, or "" when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year(), int(d.Month()), d.Day())
}

// Scan implements sql.Scanner. NULL scans to the zero Date.
func (d *Date) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*d = 0
	case int64:
		*d = Date(v)
	case int32:
		*d = Date(v)
	case int:
		*d = Date(v)
	case float64:
		*d = Date(int64(v))
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
	return nil
}

func (d *Date) scanString(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*d = 0
		return nil
	}
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return fmt.Errorf("scan date %q: %w", s, err)
	}
	*d = Date(n)
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	return int64(d), nil
}
