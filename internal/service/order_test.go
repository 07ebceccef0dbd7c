package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"eventrental-backend/internal/apperror"
	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/service"
	"eventrental-backend/internal/utils"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestSumItemTotals(t *testing.T) {
	t.Run("SumsByCategory", func(t *testing.T) {
		totals, coerced := service.SumItemTotals([]domain.ItemTotal{
			{ItemType: domain.ItemTypeSale, Total: "200.00"},
			{ItemType: domain.ItemTypeOperator, Total: "150.00"},
		})
		assert.Zero(t, coerced)
		assert.True(t, totals.Sales.Equal(dec("200")))
		assert.True(t, totals.Rental.Equal(decimal.Zero))
		assert.True(t, totals.Operator.Equal(dec("150")))
		assert.True(t, totals.Total.Equal(dec("350")))
	})

	t.Run("UnreadableTotalCountsAsZero", func(t *testing.T) {
		totals, coerced := service.SumItemTotals([]domain.ItemTotal{
			{ItemType: domain.ItemTypeRental, Total: "abc"},
			{ItemType: domain.ItemTypeRental, Total: ""},
			{ItemType: domain.ItemTypeRental, Total: "99.50"},
		})
		assert.Equal(t, 2, coerced)
		assert.True(t, totals.Rental.Equal(dec("99.5")))
		assert.True(t, totals.Total.Equal(dec("99.5")))
	})

	t.Run("NoItems", func(t *testing.T) {
		totals, _ := service.SumItemTotals(nil)
		assert.True(t, totals.Total.IsZero())
	})
}

func TestOrderService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("RentalPricedByInclusiveDays", func(t *testing.T) {
		f := newFixture(t)
		svc := service.NewOrderService(f.store, nil)

		item, order, err := svc.AddItem(ctx, &domain.OrderItem{
			OrderID:     f.order.ID,
			EquipmentID: &f.equipment.ID,
			ItemType:    domain.ItemTypeRental,
			Quantity:    2,
			UnitPrice:   nullDec("100"),
			RentalStart: domain.MustParseDate("2025-07-01"),
			RentalEnd:   domain.MustParseDate("2025-07-03"),
		})
		require.NoError(t, err)
		assert.True(t, item.Total.Equal(dec("600")))
		assert.Equal(t, "Line array", item.EquipmentName)
		assert.True(t, order.RentalTotal.Equal(dec("600")))
		assert.True(t, order.TotalCost.Equal(dec("600")))
	})

	t.Run("TotalsFollowEveryItem", func(t *testing.T) {
		f := newFixture(t)
		svc := service.NewOrderService(f.store, nil)

		_, _, err := svc.AddItem(ctx, &domain.OrderItem{OrderID: f.order.ID, ItemType: domain.ItemTypeSale, Quantity: 1, UnitPrice: nullDec("200")})
		require.NoError(t, err)
		_, order, err := svc.AddItem(ctx, &domain.OrderItem{OrderID: f.order.ID, ItemType: domain.ItemTypeOperator, UnitPrice: nullDec("50"), Hours: nullDec("3")})
		require.NoError(t, err)

		assert.True(t, order.SalesTotal.Equal(dec("200")))
		assert.True(t, order.RentalTotal.IsZero())
		assert.True(t, order.OperatorTotal.Equal(dec("150")))
		assert.True(t, order.TotalCost.Equal(dec("350")))

		stored, err := svc.GetOrder(ctx, f.order.ID)
		require.NoError(t, err)
		assert.Len(t, stored.Items, 2)
		assert.True(t, stored.TotalCost.Equal(dec("350")))
	})

	t.Run("MissingQuantityStoredAsOne", func(t *testing.T) {
		f := newFixture(t)
		svc := service.NewOrderService(f.store, nil)

		item, _, err := svc.AddItem(ctx, &domain.OrderItem{OrderID: f.order.ID, ItemType: domain.ItemTypeSale, UnitPrice: nullDec("12.50")})
		require.NoError(t, err)
		assert.Equal(t, 1, item.Quantity)
		assert.True(t, item.Total.Equal(dec("12.5")))
	})

	t.Run("InputsRoundedToStoredScale", func(t *testing.T) {
		f := newFixture(t)
		svc := service.NewOrderService(f.store, nil)

		sale, _, err := svc.AddItem(ctx, &domain.OrderItem{OrderID: f.order.ID, ItemType: domain.ItemTypeSale, Quantity: 3, UnitPrice: nullDec("10.005")})
		require.NoError(t, err)
		assert.Equal(t, "10.01", sale.UnitPrice.Decimal.String())
		assert.True(t, sale.Total.Equal(dec("30.03")))

		op, order, err := svc.AddItem(ctx, &domain.OrderItem{OrderID: f.order.ID, ItemType: domain.ItemTypeOperator, UnitPrice: nullDec("40"), Hours: nullDec("2.125")})
		require.NoError(t, err)
		assert.Equal(t, "2.13", op.Hours.Decimal.String())
		assert.True(t, op.Total.Equal(dec("85.2")))
		assert.True(t, order.TotalCost.Equal(dec("115.23")))

		stored, err := svc.ListItems(ctx, f.order.ID)
		require.NoError(t, err)
		require.Len(t, stored, 2)
		for _, it := range stored {
			repriced := utils.CalculateLineTotal(utils.LineItemInput{
				Type: it.ItemType, Quantity: it.Quantity, UnitPrice: it.UnitPrice,
				RentalStart: it.RentalStart, RentalEnd: it.RentalEnd, Hours: it.Hours,
			})
			assert.True(t, repriced.Equal(it.Total), "item %d: stored %s, inputs price to %s", it.ID, it.Total, repriced)
		}
	})

	t.Run("Validation", func(t *testing.T) {
		f := newFixture(t)
		svc := service.NewOrderService(f.store, nil)

		_, _, err := svc.AddItem(ctx, &domain.OrderItem{OrderID: f.order.ID})
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))

		_, _, err = svc.AddItem(ctx, &domain.OrderItem{OrderID: f.order.ID, ItemType: domain.ItemTypeSale, Quantity: -2, UnitPrice: nullDec("10")})
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))

		_, _, err = svc.AddItem(ctx, &domain.OrderItem{OrderID: f.order.ID, ItemType: "gift"})
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))

		_, _, err = svc.AddItem(ctx, &domain.OrderItem{
			OrderID:     f.order.ID,
			ItemType:    domain.ItemTypeRental,
			UnitPrice:   nullDec("100"),
			RentalStart: domain.MustParseDate("2025-07-03"),
			RentalEnd:   domain.MustParseDate("2025-07-01"),
		})
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))

		items, err := svc.ListItems(ctx, f.order.ID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("UnknownOrder", func(t *testing.T) {
		f := newFixture(t)
		svc := service.NewOrderService(f.store, nil)

		_, _, err := svc.AddItem(ctx, &domain.OrderItem{OrderID: 9999, ItemType: domain.ItemTypeSale})
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	})

	t.Run("AggregationFailureRollsBackInsert", func(t *testing.T) {
		f := newFixture(t)
		items := new(mockItemRepo)
		items.On("ListTotalsByOrder", mock.Anything, f.order.ID).Return(nil, errors.New("connection reset"))
		svc := service.NewOrderService(&stubStore{Store: f.store, items: items}, nil)

		_, _, err := svc.AddItem(ctx, &domain.OrderItem{OrderID: f.order.ID, ItemType: domain.ItemTypeSale, UnitPrice: nullDec("10")})
		require.Error(t, err)
		assert.True(t, apperror.IsKind(err, apperror.KindInternal))
		items.AssertExpectations(t)

		left, err := f.store.OrderItems().ListByOrder(ctx, f.order.ID)
		require.NoError(t, err)
		assert.Empty(t, left)
	})
}

func TestOrderService_DeleteItem(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := service.NewOrderService(f.store, nil)

	sale, _, err := svc.AddItem(ctx, &domain.OrderItem{OrderID: f.order.ID, ItemType: domain.ItemTypeSale, UnitPrice: nullDec("200")})
	require.NoError(t, err)
	_, _, err = svc.AddItem(ctx, &domain.OrderItem{OrderID: f.order.ID, ItemType: domain.ItemTypeOperator, UnitPrice: nullDec("50"), Hours: nullDec("3")})
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		order, err := svc.DeleteItem(ctx, f.order.ID, sale.ID)
		require.NoError(t, err)
		assert.True(t, order.SalesTotal.IsZero())
		assert.True(t, order.TotalCost.Equal(dec("150")))
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := svc.DeleteItem(ctx, f.order.ID, sale.ID)
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
		assert.Equal(t, "Item not found", apperror.From(err).Message())
	})
}

func TestOrderService_RecalculateTotals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := service.NewOrderService(f.store, nil)

	require.NoError(t, f.store.OrderItems().Create(ctx, &domain.OrderItem{OrderID: f.order.ID, ItemType: domain.ItemTypeSale, Quantity: 1, Total: dec("40")}))
	// Drifted header, as left behind by a writer that skipped aggregation.
	require.NoError(t, f.store.Orders().UpdateTotals(ctx, f.order.ID, domain.OrderTotals{Sales: dec("1"), Rental: dec("2"), Operator: dec("3"), Total: dec("6")}))

	t.Run("RepairsDrift", func(t *testing.T) {
		order, err := svc.RecalculateTotals(ctx, f.order.ID)
		require.NoError(t, err)
		assert.True(t, order.SalesTotal.Equal(dec("40")))
		assert.True(t, order.TotalCost.Equal(dec("40")))
	})

	t.Run("Idempotent", func(t *testing.T) {
		first, err := svc.RecalculateTotals(ctx, f.order.ID)
		require.NoError(t, err)
		second, err := svc.RecalculateTotals(ctx, f.order.ID)
		require.NoError(t, err)
		assert.True(t, first.Totals().Equal(second.Totals()))

		changed, err := svc.RecalculateAll(ctx)
		require.NoError(t, err)
		assert.Zero(t, changed)
	})

	t.Run("AllCountsChangedOrders", func(t *testing.T) {
		require.NoError(t, f.store.Orders().UpdateTotals(ctx, f.order.ID, domain.OrderTotals{Sales: dec("0"), Rental: dec("0"), Operator: dec("0"), Total: dec("0")}))
		changed, err := svc.RecalculateAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, changed)
	})

	t.Run("UnreadableTotalsCoerced", func(t *testing.T) {
		items := new(mockItemRepo)
		items.On("ListTotalsByOrder", mock.Anything, f.order.ID).Return([]domain.ItemTotal{
			{ItemType: domain.ItemTypeSale, Total: "40.00"},
			{ItemType: domain.ItemTypeRental, Total: "not-a-number"},
		}, nil)
		stubbed := service.NewOrderService(&stubStore{Store: f.store, items: items}, nil)

		order, err := stubbed.RecalculateTotals(ctx, f.order.ID)
		require.NoError(t, err)
		assert.True(t, order.RentalTotal.IsZero())
		assert.True(t, order.TotalCost.Equal(dec("40")))
	})
}

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults", func(t *testing.T) {
		f := newFixture(t)
		svc := service.NewOrderService(f.store, service.OrderNumberFunc(func(time.Time) string { return "ORD-2507-4242" }))

		o, err := svc.CreateOrder(ctx, &domain.Order{CustomerID: f.customer.ID})
		require.NoError(t, err)
		assert.Equal(t, "ORD-2507-4242", o.OrderNumber)
		assert.Equal(t, domain.OrderTypeProposal, o.Type)
		assert.Equal(t, domain.OrderStatusDraft, o.Status)
		assert.True(t, o.TotalCost.IsZero())
		assert.Equal(t, "Acme Events", o.CustomerName)
	})

	t.Run("CustomerRequired", func(t *testing.T) {
		f := newFixture(t)
		svc := service.NewOrderService(f.store, nil)

		_, err := svc.CreateOrder(ctx, &domain.Order{})
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))

		_, err = svc.CreateOrder(ctx, &domain.Order{CustomerID: 9999})
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})

	t.Run("RegeneratesClashingNumber", func(t *testing.T) {
		f := newFixture(t)
		numbers := []string{f.order.OrderNumber, "ORD-2507-0002"}
		calls := 0
		svc := service.NewOrderService(f.store, service.OrderNumberFunc(func(time.Time) string {
			n := numbers[calls]
			calls++
			return n
		}))

		o, err := svc.CreateOrder(ctx, &domain.Order{CustomerID: f.customer.ID})
		require.NoError(t, err)
		assert.Equal(t, "ORD-2507-0002", o.OrderNumber)
		assert.Equal(t, 2, calls)
	})

	t.Run("ExplicitNumberClashIsConflict", func(t *testing.T) {
		f := newFixture(t)
		svc := service.NewOrderService(f.store, nil)

		_, err := svc.CreateOrder(ctx, &domain.Order{CustomerID: f.customer.ID, OrderNumber: f.order.OrderNumber})
		assert.True(t, apperror.IsKind(err, apperror.KindConflict))
	})
}

func TestOrderService_UpdateOrderKeepsTotals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := service.NewOrderService(f.store, nil)

	_, _, err := svc.AddItem(ctx, &domain.OrderItem{OrderID: f.order.ID, ItemType: domain.ItemTypeSale, UnitPrice: nullDec("75")})
	require.NoError(t, err)

	updated, err := svc.UpdateOrder(ctx, &domain.Order{
		ID:         f.order.ID,
		Status:     domain.OrderStatusSent,
		EventCity:  "Austin",
		TotalCost:  dec("1"),
		SalesTotal: dec("1"),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusSent, updated.Status)
	assert.Equal(t, domain.OrderTypeOrder, updated.Type)
	assert.Equal(t, "Austin", updated.EventCity)
	assert.Equal(t, f.order.OrderNumber, updated.OrderNumber)
	assert.True(t, updated.TotalCost.Equal(dec("75")))

	_, err = svc.UpdateOrder(ctx, &domain.Order{ID: f.order.ID, Status: "lost"})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestOrderService_Workers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := service.NewOrderService(f.store, nil)

	t.Run("EmployeeRequired", func(t *testing.T) {
		_, err := svc.AssignWorker(ctx, &domain.OrderWorker{OrderID: f.order.ID})
		assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	})

	w, err := svc.AssignWorker(ctx, &domain.OrderWorker{OrderID: f.order.ID, EmployeeID: f.employee.ID, Role: "A1"})
	require.NoError(t, err)
	assert.Equal(t, "Dana Reyes", w.EmployeeName)

	t.Run("DuplicateIsConflict", func(t *testing.T) {
		_, err := svc.AssignWorker(ctx, &domain.OrderWorker{OrderID: f.order.ID, EmployeeID: f.employee.ID})
		require.True(t, apperror.IsKind(err, apperror.KindConflict))
		existing, ok := apperror.From(err).Detail(apperror.DetailConflict)
		require.True(t, ok)
		assert.Equal(t, w.ID, existing.(*domain.OrderWorker).ID)
	})

	t.Run("Remove", func(t *testing.T) {
		require.NoError(t, svc.RemoveWorker(ctx, f.order.ID, w.ID))
		workers, err := svc.ListWorkers(ctx, f.order.ID)
		require.NoError(t, err)
		assert.Empty(t, workers)
		assert.True(t, apperror.IsKind(svc.RemoveWorker(ctx, f.order.ID, w.ID), apperror.KindNotFound))
	})
}
