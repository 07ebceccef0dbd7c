package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"eventrental-backend/internal/domain"
)

func dec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestRentalDays(t *testing.T) {
	tests := []struct {
		name     string
		start    string
		end      string
		expected int
	}{
		{"same day", "2025-06-01", "2025-06-01", 1},
		{"three inclusive days", "2025-06-01", "2025-06-03", 3},
		{"across month end", "2025-01-30", "2025-02-02", 4},
		{"leap day", "2024-02-28", "2024-03-01", 3},
		{"inverted range", "2025-06-03", "2025-06-01", 0},
		{"missing start", "", "2025-06-01", 0},
		{"missing end", "2025-06-01", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RentalDays(domain.MustParseDate(tt.start), domain.MustParseDate(tt.end))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCalculateLineTotal(t *testing.T) {
	tests := []struct {
		name     string
		in       LineItemInput
		expected string
	}{
		{
			name: "rental with range charges inclusive days times quantity",
			in: LineItemInput{
				Type:        domain.ItemTypeRental,
				Quantity:    2,
				UnitPrice:   dec("100"),
				RentalStart: domain.MustParseDate("2025-06-01"),
				RentalEnd:   domain.MustParseDate("2025-06-03"),
			},
			expected: "600",
		},
		{
			name: "rental without range is price times quantity",
			in: LineItemInput{
				Type:        domain.ItemTypeRental,
				Quantity:    3,
				UnitPrice:   dec("45.50"),
				RentalStart: domain.MustParseDate("2025-06-01"),
			},
			expected: "136.5",
		},
		{
			name:     "sale",
			in:       LineItemInput{Type: domain.ItemTypeSale, Quantity: 4, UnitPrice: dec("19.99")},
			expected: "79.96",
		},
		{
			name:     "sale quantity defaults to one",
			in:       LineItemInput{Type: domain.ItemTypeSale, UnitPrice: dec("200")},
			expected: "200",
		},
		{
			name:     "operator is price times hours and ignores quantity",
			in:       LineItemInput{Type: domain.ItemTypeOperator, Quantity: 5, UnitPrice: dec("30"), Hours: dec("5")},
			expected: "150",
		},
		{
			name:     "operator without hours is zero",
			in:       LineItemInput{Type: domain.ItemTypeOperator, UnitPrice: dec("30")},
			expected: "0",
		},
		{
			name:     "missing price is zero",
			in:       LineItemInput{Type: domain.ItemTypeSale, Quantity: 2},
			expected: "0",
		},
		{
			name: "inverted range prices zero days",
			in: LineItemInput{
				Type:        domain.ItemTypeRental,
				Quantity:    1,
				UnitPrice:   dec("100"),
				RentalStart: domain.MustParseDate("2025-06-03"),
				RentalEnd:   domain.MustParseDate("2025-06-01"),
			},
			expected: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateLineTotal(tt.in)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestCalculateLineTotalIsDeterministic(t *testing.T) {
	in := LineItemInput{
		Type:        domain.ItemTypeRental,
		Quantity:    7,
		UnitPrice:   dec("12.345"),
		RentalStart: domain.MustParseDate("2025-12-30"),
		RentalEnd:   domain.MustParseDate("2026-01-02"),
	}
	first := CalculateLineTotal(in)
	for i := 0; i < 10; i++ {
		assert.True(t, first.Equal(CalculateLineTotal(in)))
	}
	// 12.35 * 4 * 7
	assert.Equal(t, "345.80", first.StringFixed(2))
}

func TestCalculateLineTotalUsesStoredScale(t *testing.T) {
	tests := []struct {
		name     string
		in       LineItemInput
		stored   LineItemInput
		expected string
	}{
		{
			name:     "sale price rounds to cents",
			in:       LineItemInput{Type: domain.ItemTypeSale, Quantity: 3, UnitPrice: dec("10.005")},
			stored:   LineItemInput{Type: domain.ItemTypeSale, Quantity: 3, UnitPrice: dec("10.01")},
			expected: "30.03",
		},
		{
			name:     "operator hours round to hundredths",
			in:       LineItemInput{Type: domain.ItemTypeOperator, UnitPrice: dec("40"), Hours: dec("2.125")},
			stored:   LineItemInput{Type: domain.ItemTypeOperator, UnitPrice: dec("40"), Hours: dec("2.13")},
			expected: "85.2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateLineTotal(tt.in)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got), "expected %s, got %s", tt.expected, got)
			assert.True(t, got.Equal(CalculateLineTotal(tt.stored)))
		})
	}
}

func TestRoundInput(t *testing.T) {
	assert.False(t, RoundInput(decimal.NullDecimal{}, PriceScale).Valid)
	assert.Equal(t, "10.01", RoundInput(dec("10.005"), PriceScale).Decimal.String())
}

func TestNormalizeQuantity(t *testing.T) {
	assert.Equal(t, 1, NormalizeQuantity(0))
	assert.Equal(t, -3, NormalizeQuantity(-3))
	assert.Equal(t, 9, NormalizeQuantity(9))
}
