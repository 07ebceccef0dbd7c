package postgres

import (
	"context"
	"fmt"

	"eventrental-backend/internal/domain"
	"eventrental-backend/internal/repository"
)

type orderItemRepository struct {
	q DBTX
}

func NewOrderItemRepository(q DBTX) repository.OrderItemRepository {
	return &orderItemRepository{q: q}
}

const orderItemColumns = `i.id, i.order_id, i.equipment_id, i.item_type, COALESCE(i.description, ''), COALESCE(i.skill, ''),
	i.quantity, i.unit_price, i.rental_start, i.rental_end, i.hours, i.total, i.created_at,
	COALESCE(e.name, ''), COALESCE(e.serial_number, '')`

func scanOrderItem(s scanner) (domain.OrderItem, error) {
	var it domain.OrderItem
	err := s.Scan(&it.ID, &it.OrderID, &it.EquipmentID, &it.ItemType, &it.Description, &it.Skill,
		&it.Quantity, &it.UnitPrice, &it.RentalStart, &it.RentalEnd, &it.Hours, &it.Total, &it.CreatedAt,
		&it.EquipmentName, &it.EquipmentSerial)
	return it, err
}

func (r *orderItemRepository) Create(ctx context.Context, it *domain.OrderItem) error {
	query := `INSERT INTO order_items (order_id, equipment_id, item_type, description, skill, quantity, unit_price, rental_start, rental_end, hours, total, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	          RETURNING id, quantity, unit_price, hours, total, created_at`
	err := r.q.QueryRowContext(ctx, query, it.OrderID, it.EquipmentID, it.ItemType, nullString(it.Description),
		nullString(it.Skill), it.Quantity, it.UnitPrice, it.RentalStart, it.RentalEnd, it.Hours, it.Total, now()).
		Scan(&it.ID, &it.Quantity, &it.UnitPrice, &it.Hours, &it.Total, &it.CreatedAt)
	if err != nil {
		return fmt.Errorf("create order item: %w", mapError(err))
	}
	return nil
}

func (r *orderItemRepository) Delete(ctx context.Context, orderID, itemID int64) error {
	return execOne(ctx, r.q, "delete order item", `DELETE FROM order_items WHERE id = $1 AND order_id = $2`, itemID, orderID)
}

func (r *orderItemRepository) ListByOrder(ctx context.Context, orderID int64) ([]domain.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + ` FROM order_items i LEFT JOIN equipment e ON e.id = i.equipment_id
	          WHERE i.order_id = $1 ORDER BY i.id`
	rows, err := r.q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return collect(rows, scanOrderItem)
}

// ListTotalsByOrder returns each item's category and stored total as text.
func (r *orderItemRepository) ListTotalsByOrder(ctx context.Context, orderID int64) ([]domain.ItemTotal, error) {
	query := `SELECT item_type, COALESCE(total::text, '') FROM order_items WHERE order_id = $1 ORDER BY id`
	rows, err := r.q.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order item totals: %w", err)
	}
	return collect(rows, func(s scanner) (domain.ItemTotal, error) {
		var t domain.ItemTotal
		err := s.Scan(&t.ItemType, &t.Total)
		return t, err
	})
}

func (r *orderItemRepository) ListByEquipment(ctx context.Context, equipmentID int64) ([]domain.OrderItem, error) {
	query := `SELECT ` + orderItemColumns + `, o.order_number FROM order_items i
	          LEFT JOIN equipment e ON e.id = i.equipment_id
	          JOIN orders o ON o.id = i.order_id
	          WHERE i.equipment_id = $1 ORDER BY i.created_at DESC, i.id DESC`
	rows, err := r.q.QueryContext(ctx, query, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("list equipment order items: %w", err)
	}
	return collect(rows, func(s scanner) (domain.OrderItem, error) {
		var it domain.OrderItem
		err := s.Scan(&it.ID, &it.OrderID, &it.EquipmentID, &it.ItemType, &it.Description, &it.Skill,
			&it.Quantity, &it.UnitPrice, &it.RentalStart, &it.RentalEnd, &it.Hours, &it.Total, &it.CreatedAt,
			&it.EquipmentName, &it.EquipmentSerial, &it.OrderNumber)
		return it, err
	})
}
