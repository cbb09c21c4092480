package money

import (
	"fmt"
	"math/big"
	"strings"
)

// Money is an amount in minor units (cents).
type Money int64

const centsPerUnit = 100

// Zero is 0.00
const Zero Money = 0

// FromCents builds Money from minor units
func FromCents(cents int64) Money {
	return Money(cents)
}

// Cents returns the amount in minor units
func (m Money) Cents() int64 {
	return int64(m)
}

// Rat returns the exact value in major units
func (m Money) Rat() *big.Rat {
	return new(big.Rat).SetFrac64(int64(m), centsPerUnit)
}

// IsNegative reports whether m < 0
func (m Money) IsNegative() bool {
	return m < 0
}

// SubFloor returns m - o, floored at zero
func (m Money) SubFloor(o Money) Money {
	if o >= m {
		return Zero
	}
	return m - o
}

// String formats as a plain decimal with two places, e.g. "49.50"
func (m Money) String() string {
	v := int64(m)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/centsPerUnit, v%centsPerUnit)
}

// Float64 is for display and gateway APIs that take floats
func (m Money) Float64() float64 {
	f, _ := m.Rat().Float64()
	return f
}

// MarshalJSON encodes the amount as a JSON number with two decimals
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*m = Zero
		return nil
	}

	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Parse reads a decimal string with at most two fractional digits
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, fmt.Errorf("empty amount")
	}

	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return Zero, fmt.Errorf("invalid amount %q", s)
	}

	scaled := new(big.Rat).Mul(r, big.NewRat(centsPerUnit, 1))
	if !scaled.IsInt() {
		return Zero, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	if !scaled.Num().IsInt64() {
		return Zero, fmt.Errorf("amount %q out of range", s)
	}

	return Money(scaled.Num().Int64()), nil
}

// MustParse is Parse for constants and tests
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Round rounds an exact major-unit value to cents, half away from zero
func Round(r *big.Rat) Money {
	scaled := new(big.Rat).Mul(r, big.NewRat(centsPerUnit, 1))

	num := new(big.Int).Set(scaled.Num())
	den := scaled.Denom()
	neg := num.Sign() < 0
	if neg {
		num.Neg(num)
	}

	q, rem := new(big.Int).QuoRem(num, den, new(big.Int))
	// rem/den >= 1/2  <=>  2*rem >= den
	if rem.Lsh(rem, 1).Cmp(den) >= 0 {
		q.Add(q, big.NewInt(1))
	}
	if neg {
		q.Neg(q)
	}

	return Money(q.Int64())
}

// Hundredths converts a two-decimal value (percent or currency) into an
// exact rational, e.g. 1050 -> 10.5
func Hundredths(v int64) *big.Rat {
	return new(big.Rat).SetFrac64(v, centsPerUnit)
}

// FormatHundredths renders a hundredths value as "10.50"
func FormatHundredths(v int64) string {
	return Money(v).String()
}

// ParseHundredths parses "10.5" into 1050
func ParseHundredths(s string) (int64, error) {
	m, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return int64(m), nil
}
