package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxPrice is the largest price a NUMERIC(10, 2) column can hold
const MaxPrice Price = 99999999_99

var maxPriceDecimal = decimal.New(int64(MaxPrice), -2)

var (
	ErrPriceInvalid  = errors.New("enter a number")
	ErrPriceNegative = errors.New("ensure this value is greater than or equal to 0")
	ErrPricePrecise  = errors.New("ensure that there are no more than 2 decimal places")
	ErrPriceTooLarge = errors.New("ensure that there are no more than 10 digits in total")
)

// Price is a non-negative amount in cents
type Price int64

// ParsePrice parses a decimal string with at most two fractional digits.
// Exponent notation is not accepted.
func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "eE") {
		return 0, ErrPriceInvalid
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrPriceInvalid
	}

	switch {
	case d.IsNegative():
		return 0, ErrPriceNegative
	case d.GreaterThan(maxPriceDecimal):
		return 0, ErrPriceTooLarge
	case !d.Equal(d.Round(2)):
		return 0, ErrPricePrecise
	}

	return Price(d.Shift(2).IntPart()), nil
}

// Cents returns the amount in cents
func (p Price) Cents() int64 {
	return int64(p)
}

// String formats the price with two decimals, e.g. 19.99
func (p Price) String() string {
	return fmt.Sprintf("%d.%02d", int64(p)/100, int64(p)%100)
}

// MarshalJSON encodes the price as a JSON number with two decimals
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a numeric string
func (p *Price) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParsePrice(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
