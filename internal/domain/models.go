// Package domain holds the persisted data model shared by the store,
// the order service, and the receipt pipeline.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Table is a physical table in the venue. At most one PENDING order
// owns a table at any time; the table is OCCUPIED exactly while such an
// order with at least one line exists.
type Table struct {
	ID     uuid.UUID
	Name   string
	Type   string
	Status string
}

// Category groups dishes and carries the kitchen routing rule: every
// dish of the category prints on the category's printer, if any.
type Category struct {
	ID        uuid.UUID
	Name      string
	PrinterID *uuid.UUID
}

// Dish is a menu entry. Price is the current menu price; order lines
// snapshot it at add-time.
type Dish struct {
	ID         uuid.UUID
	CategoryID uuid.UUID
	Name       string
	Price      decimal.Decimal
	Active     bool
}

// Order is one table's running bill.
type Order struct {
	ID              uuid.UUID
	TableID         uuid.UUID
	Staff           string
	Status          string
	Subtotal        decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	Tax             decimal.Decimal
	Total           decimal.Decimal
	PaymentMethod   string
	CreatedAt       time.Time
	FirstSentAt     *time.Time // set once, on the first dispatch that changes anything
}

// Line is one dish entry on an order.
//
// Quantity is the live cart quantity; PrintedQuantity is the last
// quantity announced to a preparation station. Batch is the last
// dispatch batch stamped on the line (0 = never dispatched).
type Line struct {
	ID              uuid.UUID
	OrderID         uuid.UUID
	DishID          uuid.UUID
	DishName        string
	Quantity        int32
	PrintedQuantity int32
	UnitPrice       decimal.Decimal
	DiscountRate    decimal.Decimal
	Total           decimal.Decimal
	Note            string
	Status          string
	Batch           int32
	CreatedAt       time.Time
}

// Printer is a receipt output device.
type Printer struct {
	ID         uuid.UUID
	Name       string
	Kind       string // NETWORK or LOCAL
	Address    string // host/IP for NETWORK, device path for LOCAL
	PaperWidth string
	IsBilling  bool
	Active     bool
}

// Template is an ordered list of print elements of one type and paper
// width. At most one active template per (type, width) is honored.
type Template struct {
	ID         uuid.UUID
	Name       string
	Type       string
	PaperWidth string
	Active     bool
	Elements   []Element
}

// Element is a single typed row of a receipt template. Content carries
// either free text with placeholder tokens or, for item blocks, a
// key=value;key=value option string.
type Element struct {
	Type     string
	Content  string
	Align    string
	FontSize string
	Bold     bool
	Visible  bool
}

// DispatchEntry is one signed quantity delta communicated to a
// preparation station: positive for additions, negative for
// cancellations of already-announced units.
type DispatchEntry struct {
	DishID   uuid.UUID
	DishName string
	Note     string
	Diff     int32
	Batch    int32
}
