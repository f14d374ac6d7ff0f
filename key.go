package tablesplit

import (
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags the domain a Key's value is drawn from. The splitter dispatches
// both arithmetic (Compare/Minus/Plus) and splittability by Kind rather
// than by Go type, since several Kinds (Int8..Int64) share a Go
// representation but differ in overflow bounds.
type Kind uint8

const (
	KindInt8 Kind = iota
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindDecimal
	KindFloat32
	KindFloat64
	KindString
	KindDate      // narrow: day granularity, evenly-splittable
	KindTimestamp // wide: sub-second granularity, not evenly-splittable
)

func (k Kind) String() string {
	switch k {
	case KindInt8:
		return "int8"
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindUint8:
		return "uint8"
	case KindUint16:
		return "uint16"
	case KindUint32:
		return "uint32"
	case KindUint64:
		return "uint64"
	case KindDecimal:
		return "decimal"
	case KindFloat32:
		return "float32"
	case KindFloat64:
		return "float64"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindTimestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// IsEvenlySplittable reports whether values of this Kind admit a
// meaningful Plus(stride) that yields another valid key in the domain.
// Strings and wide temporal types do not; everything else does.
func (k Kind) IsEvenlySplittable() bool {
	switch k {
	case KindString, KindTimestamp:
		return false
	default:
		return true
	}
}

func (k Kind) isInt() bool {
	return k == KindInt8 || k == KindInt16 || k == KindInt32 || k == KindInt64
}

func (k Kind) isUint() bool {
	return k == KindUint8 || k == KindUint16 || k == KindUint32 || k == KindUint64
}

func (k Kind) isFloat() bool {
	return k == KindFloat32 || k == KindFloat64
}

// Key is a single value drawn from a split column's domain. Exactly one of
// the internal fields is meaningful, selected by Kind. Construct with the
// New*Key helpers rather than the zero value.
type Key struct {
	Kind Kind

	i int64
	u uint64
	f float64
	d decimal.Decimal
	s string
	t time.Time
}

func NewIntKey(kind Kind, v int64) Key {
	return Key{Kind: kind, i: v}
}

func NewUintKey(kind Kind, v uint64) Key {
	return Key{Kind: kind, u: v}
}

func NewFloatKey(kind Kind, v float64) Key {
	return Key{Kind: kind, f: v}
}

func NewDecimalKey(v decimal.Decimal) Key {
	return Key{Kind: KindDecimal, d: v}
}

func NewStringKey(v string) Key {
	return Key{Kind: KindString, s: v}
}

func NewDateKey(v time.Time) Key {
	return Key{Kind: KindDate, t: v}
}

func NewTimestampKey(v time.Time) Key {
	return Key{Kind: KindTimestamp, t: v}
}

// AsDecimal returns the key's value expressed as a decimal.Decimal,
// regardless of its underlying Kind. Used by the distribution-factor
// calculation, which needs arbitrary precision across numeric Kinds.
func (k Key) AsDecimal() (decimal.Decimal, error) {
	switch {
	case k.Kind.isInt():
		return decimal.NewFromInt(k.i), nil
	case k.Kind.isUint():
		return decimal.NewFromBigInt(new(big.Int).SetUint64(k.u), 0), nil
	case k.Kind.isFloat():
		return decimal.NewFromFloat(k.f), nil
	case k.Kind == KindDecimal:
		return k.d, nil
	case k.Kind == KindDate:
		// Days since epoch, the same unit Plus strides dates in, so a
		// date column's distribution factor stays in row-gap terms.
		return decimal.NewFromInt(k.t.Unix() / 86400), nil
	case k.Kind == KindTimestamp:
		return decimal.NewFromInt(k.t.Unix()), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("key kind %s has no decimal representation", k.Kind)
	}
}

// Value returns the key's underlying Go value - the same representation
// used for SQL parameter binding (predicate.go's keyBindValue) - for
// adapters that need to build their own parameterized queries (e.g. to
// probe past a boundary value).
func (k Key) Value() interface{} {
	switch {
	case k.Kind.isInt():
		return k.i
	case k.Kind.isUint():
		return k.u
	case k.Kind.isFloat():
		return k.f
	case k.Kind == KindDecimal:
		return k.d
	case k.Kind == KindString:
		return k.s
	case k.Kind == KindDate || k.Kind == KindTimestamp:
		return k.t
	default:
		return nil
	}
}

// Compare returns -1, 0 or 1 as a is less than, equal to, or greater than
// b. Both keys must share a Kind; keys of different Kinds yield a
// KeyTypeMismatch error, which the strategy selector returns as is when
// min and max disagree.
func Compare(a, b Key) (int, error) {
	if a.Kind != b.Kind {
		return 0, KeyTypeMismatch{MinKind: a.Kind, MaxKind: b.Kind}
	}
	switch {
	case a.Kind.isInt():
		return cmpInt64(a.i, b.i), nil
	case a.Kind.isUint():
		return cmpUint64(a.u, b.u), nil
	case a.Kind.isFloat():
		return cmpFloat64(a.f, b.f), nil
	case a.Kind == KindDecimal:
		return a.d.Cmp(b.d), nil
	case a.Kind == KindString:
		return strings.Compare(a.s, b.s), nil
	case a.Kind == KindDate || a.Kind == KindTimestamp:
		switch {
		case a.t.Before(b.t):
			return -1, nil
		case a.t.After(b.t):
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, fmt.Errorf("key kind %s not comparable", a.Kind)
	}
}

// Minus returns the arbitrary-precision difference a - b. Only called for
// evenly-splittable Kinds (by the distribution-factor calculation);
// strings never reach here.
func Minus(a, b Key) (decimal.Decimal, error) {
	if a.Kind != b.Kind {
		return decimal.Decimal{}, KeyTypeMismatch{MinKind: a.Kind, MaxKind: b.Kind}
	}
	ad, err := a.AsDecimal()
	if err != nil {
		return decimal.Decimal{}, err
	}
	bd, err := b.AsDecimal()
	if err != nil {
		return decimal.Decimal{}, err
	}
	return ad.Sub(bd), nil
}

// Plus returns a Key advanced by n in its domain, or ok=false if the
// advance would overflow the domain (ArithmeticOverflow is the caller's
// to raise; Plus itself just signals the condition).
func Plus(k Key, n int64) (result Key, ok bool) {
	switch {
	case k.Kind.isInt():
		sum := k.i + n
		if (n > 0 && sum < k.i) || (n < 0 && sum > k.i) {
			return Key{}, false
		}
		if !fitsIntWidth(k.Kind, sum) {
			return Key{}, false
		}
		return NewIntKey(k.Kind, sum), true
	case k.Kind.isUint():
		if n < 0 {
			un := uint64(-n)
			if un > k.u {
				return Key{}, false
			}
			sum := k.u - un
			return NewUintKey(k.Kind, sum), true
		}
		sum := k.u + uint64(n)
		if sum < k.u {
			return Key{}, false
		}
		if !fitsUintWidth(k.Kind, sum) {
			return Key{}, false
		}
		return NewUintKey(k.Kind, sum), true
	case k.Kind.isFloat():
		sum := k.f + float64(n)
		if math.IsInf(sum, 0) || math.IsNaN(sum) {
			return Key{}, false
		}
		return NewFloatKey(k.Kind, sum), true
	case k.Kind == KindDecimal:
		return NewDecimalKey(k.d.Add(decimal.NewFromInt(n))), true
	case k.Kind == KindDate:
		next := k.t.AddDate(0, 0, int(n))
		if next.Year() > 9999 || next.Year() < -9999 {
			return Key{}, false
		}
		return NewDateKey(next), true
	default:
		return Key{}, false
	}
}

func fitsIntWidth(kind Kind, v int64) bool {
	switch kind {
	case KindInt8:
		return v >= math.MinInt8 && v <= math.MaxInt8
	case KindInt16:
		return v >= math.MinInt16 && v <= math.MaxInt16
	case KindInt32:
		return v >= math.MinInt32 && v <= math.MaxInt32
	default:
		return true
	}
}

func fitsUintWidth(kind Kind, v uint64) bool {
	switch kind {
	case KindUint8:
		return v <= math.MaxUint8
	case KindUint16:
		return v <= math.MaxUint16
	case KindUint32:
		return v <= math.MaxUint32
	default:
		return true
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
