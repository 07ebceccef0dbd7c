package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/logger"
	"eventrental-backend/internal/repository"
)

// SumItemTotals sums item totals by category. A total that does not parse as
// a number counts as zero; coerced reports how many did.
func SumItemTotals(items []domain.ItemTotal) (totals domain.OrderTotals, coerced int) {
	totals = domain.OrderTotals{Sales: decimal.Zero, Rental: decimal.Zero, Operator: decimal.Zero}
	for _, it := range items {
		amount, err := decimal.NewFromString(it.Total)
		if err != nil {
			coerced++
			continue
		}
		switch it.ItemType {
		case domain.ItemTypeSale:
			totals.Sales = totals.Sales.Add(amount)
		case domain.ItemTypeRental:
			totals.Rental = totals.Rental.Add(amount)
		case domain.ItemTypeOperator:
			totals.Operator = totals.Operator.Add(amount)
		}
	}
	totals.Total = totals.Sales.Add(totals.Rental).Add(totals.Operator)
	return totals, coerced
}

// recalculateOrderTotals re-derives an order's totals from its items and
// persists them in one write. Callers run it inside the transaction that
// changed the items.
func recalculateOrderTotals(ctx context.Context, store repository.Store, orderID int64) (domain.OrderTotals, error) {
	items, err := store.OrderItems().ListTotalsByOrder(ctx, orderID)
	if err != nil {
		return domain.OrderTotals{}, fmt.Errorf("load item totals: %w", err)
	}
	totals, coerced := SumItemTotals(items)
	if coerced > 0 {
		logger.WarnContext(ctx, "Unreadable item totals counted as zero", "orderID", orderID, "count", coerced)
	}
	if err := store.Orders().UpdateTotals(ctx, orderID, totals); err != nil {
		return domain.OrderTotals{}, fmt.Errorf("store order totals: %w", err)
	}
	logger.DebugContext(ctx, "Order totals recalculated",
		"orderID", orderID,
		"sales", totals.Sales.String(),
		"rental", totals.Rental.String(),
		"operator", totals.Operator.String(),
		"total", totals.Total.String())
	return totals, nil
}
