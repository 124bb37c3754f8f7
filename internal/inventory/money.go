package inventory

import (
	"bytes"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount. It is written to JSON as a number with two decimal places.
type Money struct {
	decimal.Decimal
}

// NewMoney parses an amount such as "149.99".
func NewMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: invalid amount %q", ErrValidation, s)
	}
	return Money{d}, nil
}

// MustMoney is NewMoney for literals.
func MustMoney(s string) *Money {
	m, err := NewMoney(s)
	if err != nil {
		panic(err)
	}
	return &m
}

// validateAmount rejects amounts that would lose precision when written with two decimals.
func validateAmount(field string, m *Money) error {
	if m == nil || m.Equal(m.Round(2)) {
		return nil
	}
	return fmt.Errorf("%w: %s %s has more than two decimal places", ErrValidation, field, m.String())
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.StringFixed(2)), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Decimal.UnmarshalJSON(data)
}

const dateLayout = "2006-01-02"

// Date is a calendar date without time of day, written as "2006-01-02".
type Date struct {
	time.Time
}

// NewDate builds a Date in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts "2006-01-02" and full RFC 3339 timestamps, keeping only the date.
func ParseDate(s string) (Date, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return Date{t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: invalid date %q", ErrValidation, s)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

func (d Date) String() string { return d.Format(dateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("date must be a JSON string, got %s", data)
	}
	parsed, err := ParseDate(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
