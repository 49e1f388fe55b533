// Package store defines the persistence contract for the order manager.
// Two implementations exist: memory (dev mode and tests) and postgres.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/quanpos/api/internal/domain"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Repository is the transactional CRUD surface over tables, dishes,
// orders, lines, printers and templates.
type Repository interface {
	// Tx runs fn against a view of the repository inside a single
	// atomic transaction. Returning an error rolls everything back.
	Tx(ctx context.Context, fn func(Repository) error) error

	ListTables(ctx context.Context) ([]domain.Table, error)
	GetTable(ctx context.Context, id uuid.UUID) (*domain.Table, error)
	SetTableStatus(ctx context.Context, id uuid.UUID, status string) error

	ListDishes(ctx context.Context) ([]domain.Dish, error)
	GetDish(ctx context.Context, id uuid.UUID) (*domain.Dish, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error)

	// GetPendingOrderByTable returns the table's PENDING order, or
	// ErrNotFound if the table is free.
	GetPendingOrderByTable(ctx context.Context, tableID uuid.UUID) (*domain.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	CreateOrder(ctx context.Context, order domain.Order) error
	UpdateOrder(ctx context.Context, order domain.Order) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error

	ListLines(ctx context.Context, orderID uuid.UUID) ([]domain.Line, error)
	GetLine(ctx context.Context, id uuid.UUID) (*domain.Line, error)
	CreateLine(ctx context.Context, line domain.Line) error
	UpdateLine(ctx context.Context, line domain.Line) error
	DeleteLine(ctx context.Context, id uuid.UUID) error

	ListPrinters(ctx context.Context) ([]domain.Printer, error)
	GetPrinter(ctx context.Context, id uuid.UUID) (*domain.Printer, error)
	// GetBillingPrinter returns the active receipt-of-record device,
	// or ErrNotFound when none is flagged.
	GetBillingPrinter(ctx context.Context) (*domain.Printer, error)
	CreatePrinter(ctx context.Context, p domain.Printer) error
	UpdatePrinter(ctx context.Context, p domain.Printer) error
	DeletePrinter(ctx context.Context, id uuid.UUID) error

	ListTemplates(ctx context.Context) ([]domain.Template, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*domain.Template, error)
	// GetActiveTemplate returns the active template for one type and
	// paper width, or ErrNotFound when the built-in default applies.
	GetActiveTemplate(ctx context.Context, typ, paperWidth string) (*domain.Template, error)
	CreateTemplate(ctx context.Context, t domain.Template) error
	UpdateTemplate(ctx context.Context, t domain.Template) error
	DeleteTemplate(ctx context.Context, id uuid.UUID) error
}
