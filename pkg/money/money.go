// Package money provides a fixed-point currency amount backed by
// shopspring/decimal and stored in MongoDB as Decimal128 with two
// decimal places.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Amount is a monetary value. The zero value is usable and equals 0.00.
type Amount struct {
	d decimal.Decimal
}

// Zero returns a zero amount.
func Zero() Amount {
	return Amount{}
}

// FromDecimal wraps a decimal as an Amount.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount{d: d}
}

// FromString parses a decimal string such as "10.00".
func FromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Amount{d: d}, nil
}

// MustFromString is FromString that panics on malformed input. Intended
// for constants and tests.
func MustFromString(s string) Amount {
	a, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return a
}

// FromInt builds an amount from a whole number of currency units.
func FromInt(n int64) Amount {
	return Amount{d: decimal.NewFromInt(n)}
}

func (a Amount) Add(b Amount) Amount { return Amount{d: a.d.Add(b.d)} }
func (a Amount) Sub(b Amount) Amount { return Amount{d: a.d.Sub(b.d)} }

// Mul multiplies by an integer factor (e.g. ticket price x count).
func (a Amount) Mul(n int64) Amount {
	return Amount{d: a.d.Mul(decimal.NewFromInt(n))}
}

// Percent returns pct percent of the amount, rounded to two decimal
// places (banker-unfriendly half-up, matching the ledger's storage).
func (a Amount) Percent(pct Amount) Amount {
	return Amount{d: a.d.Mul(pct.d).Div(decimal.NewFromInt(100)).Round(2)}
}

// Ratio returns a/b expressed as a percentage, or zero when b is zero.
func (a Amount) Ratio(b Amount) Amount {
	if b.d.IsZero() {
		return Amount{}
	}
	return Amount{d: a.d.Div(b.d).Mul(decimal.NewFromInt(100)).Round(2)}
}

func (a Amount) Neg() Amount          { return Amount{d: a.d.Neg()} }
func (a Amount) IsZero() bool         { return a.d.IsZero() }
func (a Amount) IsNegative() bool     { return a.d.IsNegative() }
func (a Amount) IsPositive() bool     { return a.d.IsPositive() }
func (a Amount) Equal(b Amount) bool  { return a.d.Equal(b.d) }
func (a Amount) LessThan(b Amount) bool {
	return a.d.LessThan(b.d)
}

// Decimal exposes the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal { return a.d }

// String renders the amount with exactly two decimal places.
func (a Amount) String() string { return a.d.StringFixed(2) }

// Decimal128 converts to the BSON decimal representation, rounded to two
// decimal places. Used directly in $inc update documents.
func (a Amount) Decimal128() (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(a.d.Round(2).StringFixed(2))
}

// MarshalBSONValue implements bson.ValueMarshaler.
func (a Amount) MarshalBSONValue() (bsontype.Type, []byte, error) {
	d128, err := a.Decimal128()
	if err != nil {
		return 0, nil, err
	}
	return bson.MarshalValue(d128)
}

// UnmarshalBSONValue implements bson.ValueUnmarshaler. Decimal128 is the
// canonical storage type; doubles and int32/int64 are accepted for data
// written by earlier tooling.
func (a *Amount) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Decimal128:
		var d128 primitive.Decimal128
		if err := raw.Unmarshal(&d128); err != nil {
			return err
		}
		d, err := decimal.NewFromString(d128.String())
		if err != nil {
			return fmt.Errorf("decode decimal128 %q: %w", d128.String(), err)
		}
		a.d = d
		return nil
	case bsontype.Double:
		a.d = decimal.NewFromFloat(raw.Double()).Round(2)
		return nil
	case bsontype.Int32:
		a.d = decimal.NewFromInt(int64(raw.Int32()))
		return nil
	case bsontype.Int64:
		a.d = decimal.NewFromInt(raw.Int64())
		return nil
	case bsontype.Null:
		a.d = decimal.Decimal{}
		return nil
	}
	return fmt.Errorf("cannot decode %s into money.Amount", t)
}

// MarshalJSON renders the amount as a quoted fixed-point string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(`"` + a.String() + `"`), nil
}

// UnmarshalJSON accepts both quoted and bare decimal values.
func (a *Amount) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	if s == "" || s == "null" {
		a.d = decimal.Decimal{}
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", s, err)
	}
	a.d = d
	return nil
}
