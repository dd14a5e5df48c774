package ownership

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Share is a requested ownership percentage. A default share claims the whole
// club and is reported back to the caller so it is never granted silently.
type Share struct {
	value    decimal.Decimal
	explicit bool
}

// DefaultShare is the share used when the caller did not name a percentage.
func DefaultShare() Share {
	return Share{value: hundred}
}

// ExplicitShare is a caller-supplied percentage, rounded to two places.
func ExplicitShare(v decimal.Decimal) Share {
	return Share{value: v.Round(2), explicit: true}
}

// ShareFrom returns ExplicitShare(*v), or DefaultShare when v is nil.
func ShareFrom(v *decimal.Decimal) Share {
	if v == nil {
		return DefaultShare()
	}
	return ExplicitShare(*v)
}

// IsDefault reports whether the share was not supplied by the caller.
func (s Share) IsDefault() bool { return !s.explicit }

// Value is the percentage the share resolves to.
func (s Share) Value() decimal.Decimal { return s.value }

func validPercentage(v decimal.Decimal) bool {
	return v.IsPositive() && v.LessThanOrEqual(hundred)
}
