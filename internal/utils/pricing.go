package utils

import (
	"github.com/shopspring/decimal"

	"eventrental-backend/internal/domain"
)

// LineItemInput holds the pricing inputs of one order line. Nil pointers and
// invalid NullDecimals mean the value was not supplied.
type LineItemInput struct {
	Type        domain.ItemType
	Quantity    int
	UnitPrice   decimal.NullDecimal
	RentalStart domain.Date
	RentalEnd   domain.Date
	Hours       decimal.NullDecimal
}

// Scales of the order_items NUMERIC columns. Inputs are rounded to them
// before pricing so the stored total matches the stored inputs.
const (
	PriceScale = 2
	HoursScale = 2
)

// NormalizeQuantity returns the quantity that is both priced and stored: a
// zero quantity means "not given" and becomes 1. Negative quantities are
// rejected by callers before pricing.
func NormalizeQuantity(q int) int {
	if q == 0 {
		return 1
	}
	return q
}

// RoundInput rounds a supplied value to places. Missing values stay missing.
func RoundInput(d decimal.NullDecimal, places int32) decimal.NullDecimal {
	if !d.Valid {
		return d
	}
	return decimal.NewNullDecimal(d.Decimal.Round(places))
}

// RentalDays returns the number of billable days between start and end,
// counting both endpoints. It is 0 when either date is missing or the range
// is inverted.
func RentalDays(start, end domain.Date) int {
	if start.IsZero() || end.IsZero() {
		return 0
	}
	days := start.DaysUntil(end) + 1
	if days < 0 {
		return 0
	}
	return days
}

// HasRentalRange reports whether both rental dates were supplied.
func HasRentalRange(in LineItemInput) bool {
	return !in.RentalStart.IsZero() && !in.RentalEnd.IsZero()
}

// CalculateLineTotal prices a line item:
//
//	operator:               unit_price × hours
//	rental with both dates: unit_price × days × quantity (days inclusive)
//	otherwise:              unit_price × quantity
//
// Missing numbers count as zero, so the result is never an error. Price and
// hours are taken at their stored scale.
func CalculateLineTotal(in LineItemInput) decimal.Decimal {
	price := valueOrZero(RoundInput(in.UnitPrice, PriceScale))
	qty := decimal.NewFromInt(int64(NormalizeQuantity(in.Quantity)))

	switch {
	case in.Type == domain.ItemTypeOperator:
		return price.Mul(valueOrZero(RoundInput(in.Hours, HoursScale))).Round(2)
	case in.Type == domain.ItemTypeRental && HasRentalRange(in):
		days := decimal.NewFromInt(int64(RentalDays(in.RentalStart, in.RentalEnd)))
		return price.Mul(days).Mul(qty).Round(2)
	default:
		return price.Mul(qty).Round(2)
	}
}

func valueOrZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}
