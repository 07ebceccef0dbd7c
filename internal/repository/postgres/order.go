package postgres

import (
	"context"
	"fmt"

	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/repository"
)

type orderRepository struct {
	q DBTX
}

func NewOrderRepository(q DBTX) repository.OrderRepository {
	return &orderRepository{q: q}
}

const orderColumns = `o.id, o.customer_id, o.order_number, o.type, o.status, o.event_date,
	COALESCE(o.event_address, ''), COALESCE(o.event_city, ''), COALESCE(o.event_state, ''), COALESCE(o.event_zip, ''),
	COALESCE(o.shipping_address, ''), COALESCE(o.shipping_city, ''), COALESCE(o.shipping_state, ''), COALESCE(o.shipping_zip, ''),
	o.ship_date, COALESCE(o.ship_method, ''), COALESCE(o.payment_method, ''), COALESCE(o.payment_terms, ''),
	COALESCE(o.tax_exempt_number, ''), COALESCE(o.comments, ''),
	o.sales_total, o.rental_total, o.operator_total, o.total_cost, o.created_at, o.updated_at,
	COALESCE(c.name, ''), COALESCE(c.company, '')`

const orderFrom = ` FROM orders o LEFT JOIN customers c ON c.id = o.customer_id`

func scanOrder(s scanner) (domain.Order, error) {
	var o domain.Order
	err := s.Scan(&o.ID, &o.CustomerID, &o.OrderNumber, &o.Type, &o.Status, &o.EventDate,
		&o.EventAddress, &o.EventCity, &o.EventState, &o.EventZip,
		&o.ShippingAddress, &o.ShippingCity, &o.ShippingState, &o.ShippingZip,
		&o.ShipDate, &o.ShipMethod, &o.PaymentMethod, &o.PaymentTerms,
		&o.TaxExemptNumber, &o.Comments,
		&o.SalesTotal, &o.RentalTotal, &o.OperatorTotal, &o.TotalCost, &o.CreatedAt, &o.UpdatedAt,
		&o.CustomerName, &o.CustomerCompany)
	return o, err
}

// Create inserts the order with zero totals; totals are only ever written by
// UpdateTotals.
func (r *orderRepository) Create(ctx context.Context, o *domain.Order) error {
	query := `INSERT INTO orders (customer_id, order_number, type, status, event_date, event_address, event_city, event_state, event_zip,
	          shipping_address, shipping_city, shipping_state, shipping_zip, ship_date, ship_method, payment_method, payment_terms,
	          tax_exempt_number, comments, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $20)
	          RETURNING id, sales_total, rental_total, operator_total, total_cost, created_at, updated_at`
	err := r.q.QueryRowContext(ctx, query, o.CustomerID, o.OrderNumber, o.Type, o.Status, o.EventDate,
		nullString(o.EventAddress), nullString(o.EventCity), nullString(o.EventState), nullString(o.EventZip),
		nullString(o.ShippingAddress), nullString(o.ShippingCity), nullString(o.ShippingState), nullString(o.ShippingZip),
		o.ShipDate, nullString(o.ShipMethod), nullString(o.PaymentMethod), nullString(o.PaymentTerms),
		nullString(o.TaxExemptNumber), nullString(o.Comments), now()).
		Scan(&o.ID, &o.SalesTotal, &o.RentalTotal, &o.OperatorTotal, &o.TotalCost, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create order: %w", mapError(err))
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + orderFrom + ` WHERE o.id = $1`
	o, err := scanOrder(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, mapError(err))
	}
	return &o, nil
}

func (r *orderRepository) List(ctx context.Context, f repository.OrderFilter) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + orderFrom + ` WHERE 1=1`
	var args []any
	if f.Type != "" {
		args = append(args, f.Type)
		query += fmt.Sprintf(` AND o.type = $%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(` AND o.status = $%d`, len(args))
	}
	if f.CustomerID != 0 {
		args = append(args, f.CustomerID)
		query += fmt.Sprintf(` AND o.customer_id = $%d`, len(args))
	}
	query += ` ORDER BY o.created_at DESC, o.id DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return collect(rows, scanOrder)
}

func (r *orderRepository) Update(ctx context.Context, o *domain.Order) error {
	query := `UPDATE orders SET customer_id=$1, type=$2, status=$3, event_date=$4, event_address=$5, event_city=$6,
	          event_state=$7, event_zip=$8, shipping_address=$9, shipping_city=$10, shipping_state=$11, shipping_zip=$12,
	          ship_date=$13, ship_method=$14, payment_method=$15, payment_terms=$16, tax_exempt_number=$17, comments=$18,
	          updated_at=$19 WHERE id=$20`
	return execOne(ctx, r.q, "update order", query, o.CustomerID, o.Type, o.Status, o.EventDate,
		nullString(o.EventAddress), nullString(o.EventCity), nullString(o.EventState), nullString(o.EventZip),
		nullString(o.ShippingAddress), nullString(o.ShippingCity), nullString(o.ShippingState), nullString(o.ShippingZip),
		o.ShipDate, nullString(o.ShipMethod), nullString(o.PaymentMethod), nullString(o.PaymentTerms),
		nullString(o.TaxExemptNumber), nullString(o.Comments), now(), o.ID)
}

// UpdateTotals writes all four derived totals in one statement.
func (r *orderRepository) UpdateTotals(ctx context.Context, id int64, t domain.OrderTotals) error {
	query := `UPDATE orders SET sales_total=$1, rental_total=$2, operator_total=$3, total_cost=$4, updated_at=$5 WHERE id=$6`
	return execOne(ctx, r.q, "update order totals", query, t.Sales, t.Rental, t.Operator, t.Total, now(), id)
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	return execOne(ctx, r.q, "delete order", `DELETE FROM orders WHERE id = $1`, id)
}

func (r *orderRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id FROM orders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list order ids: %w", err)
	}
	return collect(rows, scanID)
}
