package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderTypeProposal OrderType = "proposal"
	OrderTypeOrder    OrderType = "order"
	OrderTypeInvoice  OrderType = "invoice"
)

func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeProposal, OrderTypeOrder, OrderTypeInvoice:
		return true
	}
	return false
}

type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusSent      OrderStatus = "sent"
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusSent, OrderStatusAccepted, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// ItemType is the pricing category of a line item.
type ItemType string

const (
	ItemTypeSale     ItemType = "sale"
	ItemTypeRental   ItemType = "rental"
	ItemTypeOperator ItemType = "operator"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeSale, ItemTypeRental, ItemTypeOperator:
		return true
	}
	return false
}

// Order is a proposal, order or invoice. The four money totals are derived
// from the order's items and are only written by the totals aggregator.
type Order struct {
	ID              int64       `json:"id"`
	CustomerID      int64       `json:"customer_id"`
	OrderNumber     string      `json:"order_number"`
	Type            OrderType   `json:"type"`
	Status          OrderStatus `json:"status"`
	EventDate       Date        `json:"event_date"`
	EventAddress    string      `json:"event_address"`
	EventCity       string      `json:"event_city"`
	EventState      string      `json:"event_state"`
	EventZip        string      `json:"event_zip"`
	ShippingAddress string      `json:"shipping_address"`
	ShippingCity    string      `json:"shipping_city"`
	ShippingState   string      `json:"shipping_state"`
	ShippingZip     string      `json:"shipping_zip"`
	ShipDate        Date        `json:"ship_date"`
	ShipMethod      string      `json:"ship_method"`
	PaymentMethod   string      `json:"payment_method"`
	PaymentTerms    string      `json:"payment_terms"`
	TaxExemptNumber string      `json:"tax_exempt_number"`
	Comments        string      `json:"comments"`

	SalesTotal    decimal.Decimal `json:"sales_total"`
	RentalTotal   decimal.Decimal `json:"rental_total"`
	OperatorTotal decimal.Decimal `json:"operator_total"`
	TotalCost     decimal.Decimal `json:"total_cost"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Populated on reads
	CustomerName    string      `json:"customer_name,omitempty"`
	CustomerCompany string      `json:"customer_company,omitempty"`
	Items           []OrderItem `json:"items,omitempty"`
}

// Totals returns the order's stored totals.
func (o *Order) Totals() OrderTotals {
	return OrderTotals{
		Sales:    o.SalesTotal,
		Rental:   o.RentalTotal,
		Operator: o.OperatorTotal,
		Total:    o.TotalCost,
	}
}

// ApplyTotals copies derived totals onto the order.
func (o *Order) ApplyTotals(t OrderTotals) {
	o.SalesTotal = t.Sales
	o.RentalTotal = t.Rental
	o.OperatorTotal = t.Operator
	o.TotalCost = t.Total
}

// OrderTotals are the category subtotals and grand total of an order.
type OrderTotals struct {
	Sales    decimal.Decimal `json:"sales_total"`
	Rental   decimal.Decimal `json:"rental_total"`
	Operator decimal.Decimal `json:"operator_total"`
	Total    decimal.Decimal `json:"total_cost"`
}

// Equal compares totals numerically.
func (t OrderTotals) Equal(o OrderTotals) bool {
	return t.Sales.Equal(o.Sales) &&
		t.Rental.Equal(o.Rental) &&
		t.Operator.Equal(o.Operator) &&
		t.Total.Equal(o.Total)
}

// OrderItem is one priced line on an order.
type OrderItem struct {
	ID          int64               `json:"id"`
	OrderID     int64               `json:"order_id"`
	EquipmentID *int64              `json:"equipment_id"`
	ItemType    ItemType            `json:"item_type"`
	Description string              `json:"description"`
	Skill       string              `json:"skill"`
	Quantity    int                 `json:"quantity"`
	UnitPrice   decimal.NullDecimal `json:"unit_price"`
	RentalStart Date                `json:"rental_start"`
	RentalEnd   Date                `json:"rental_end"`
	Hours       decimal.NullDecimal `json:"hours"`
	Total       decimal.Decimal     `json:"total"`
	CreatedAt   time.Time           `json:"created_at"`

	EquipmentName   string `json:"equipment_name,omitempty"`
	EquipmentSerial string `json:"equipment_serial,omitempty"`

	// Populated by equipment history reads
	OrderNumber string `json:"order_number,omitempty"`
}

// ItemTotal is the raw stored total of an item as read back for aggregation.
// Total is textual so that unreadable values surface to the aggregator
// instead of failing the read.
type ItemTotal struct {
	ItemType ItemType
	Total    string
}

// OrderWorker assigns an employee to work an order.
type OrderWorker struct {
	ID         int64     `json:"id"`
	OrderID    int64     `json:"order_id"`
	EmployeeID int64     `json:"employee_id"`
	Role       string    `json:"role"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`

	EmployeeName  string `json:"employee_name,omitempty"`
	EmployeeRole  string `json:"employee_role,omitempty"`
	EmployeePhone string `json:"employee_phone,omitempty"`
}
