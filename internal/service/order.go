// Package service implements the order/line reconciliation engine: cart
// mutations, dispatch batching, discounts, settlement, and the fan-out
// to printers and connected clients.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quanpos/api/internal/domain"
	"github.com/quanpos/api/internal/enum"
	"github.com/quanpos/api/internal/printing"
	"github.com/quanpos/api/internal/store"
)

// Errors returned by the order service.
var (
	ErrDishInactive     = errors.New("dish is not on the menu")
	ErrOrderNotPending  = errors.New("order is not pending")
	ErrDiscountConflict = errors.New("discount is percent or amount, not both")
	ErrInvalidDiscount  = errors.New("invalid discount value")
	ErrInvalidPayment   = errors.New("invalid payment method")
	ErrNoPendingOrder   = errors.New("table has no pending order")
)

// Notifier broadcasts table-changed cues to connected clients.
// Satisfied by the ws hub.
type Notifier interface {
	TableUpdated(tableID uuid.UUID)
}

// ReceiptPrinter hands finished jobs to the print pipeline. Satisfied
// by *printing.Spooler.
type ReceiptPrinter interface {
	PrintKitchen(job printing.KitchenJob)
	PrintBill(job printing.BillJob)
}

// OrderService owns the reconciliation state machine. All mutations of
// one table serialize on a per-table lock so concurrent dispatches never
// diff against stale state.
type OrderService struct {
	store      store.Repository
	notifier   Notifier
	printer    ReceiptPrinter
	taxPercent decimal.Decimal

	mu     sync.Mutex
	tables map[uuid.UUID]*sync.Mutex
}

func NewOrderService(repo store.Repository, notifier Notifier, printer ReceiptPrinter, taxPercent decimal.Decimal) *OrderService {
	return &OrderService{
		store:      repo,
		notifier:   notifier,
		printer:    printer,
		taxPercent: taxPercent,
		tables:     make(map[uuid.UUID]*sync.Mutex),
	}
}

// tableLock returns the mutex serializing all mutations of one table.
func (s *OrderService) tableLock(tableID uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.tables[tableID]
	if !ok {
		l = &sync.Mutex{}
		s.tables[tableID] = l
	}
	return l
}

// TableOrder is the full view of one table's running order.
type TableOrder struct {
	Order domain.Order
	Lines []domain.Line
}

// GetTableOrder returns the table's pending order with its lines, or
// store.ErrNotFound when the table is free.
func (s *OrderService) GetTableOrder(ctx context.Context, tableID uuid.UUID) (*TableOrder, error) {
	order, err := s.store.GetPendingOrderByTable(ctx, tableID)
	if err != nil {
		return nil, err
	}
	lines, err := s.store.ListLines(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return &TableOrder{Order: *order, Lines: lines}, nil
}

// AddItem puts one unit of a dish on the table's pending order,
// creating the order if the table was free. A line for the same dish
// with the exact same note absorbs the unit; a note-carrying line never
// merges with a note-less one. An already-sent line that absorbs a unit
// flips to MODIFIED so the next dispatch picks it up.
func (s *OrderService) AddItem(ctx context.Context, tableID, dishID uuid.UUID, note, staff string) error {
	lock := s.tableLock(tableID)
	lock.Lock()
	defer lock.Unlock()

	err := s.store.Tx(ctx, func(repo store.Repository) error {
		dish, err := repo.GetDish(ctx, dishID)
		if err != nil {
			return fmt.Errorf("get dish: %w", err)
		}
		if !dish.Active {
			return ErrDishInactive
		}

		table, err := repo.GetTable(ctx, tableID)
		if err != nil {
			return fmt.Errorf("get table: %w", err)
		}

		order, err := repo.GetPendingOrderByTable(ctx, tableID)
		if errors.Is(err, store.ErrNotFound) {
			order = &domain.Order{
				ID:        uuid.New(),
				TableID:   tableID,
				Staff:     staff,
				Status:    enum.OrderStatusPending,
				CreatedAt: time.Now(),
			}
			if err := repo.CreateOrder(ctx, *order); err != nil {
				return fmt.Errorf("create order: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("get pending order: %w", err)
		}

		lines, err := repo.ListLines(ctx, order.ID)
		if err != nil {
			return fmt.Errorf("list lines: %w", err)
		}

		if match := findLine(lines, dishID, note); match != nil {
			match.Quantity++
			match.Total = lineTotal(*match)
			if match.Status == enum.LineStatusSent {
				match.Status = enum.LineStatusModified
			}
			if err := repo.UpdateLine(ctx, *match); err != nil {
				return fmt.Errorf("update line: %w", err)
			}
		} else {
			line := domain.Line{
				ID:        uuid.New(),
				OrderID:   order.ID,
				DishID:    dish.ID,
				DishName:  dish.Name,
				Quantity:  1,
				UnitPrice: dish.Price,
				Note:      note,
				Status:    enum.LineStatusNew,
				CreatedAt: time.Now(),
			}
			line.Total = lineTotal(line)
			if err := repo.CreateLine(ctx, line); err != nil {
				return fmt.Errorf("create line: %w", err)
			}
			lines = append(lines, line)
		}

		if table.Status == enum.TableStatusEmpty {
			if err := repo.SetTableStatus(ctx, tableID, enum.TableStatusOccupied); err != nil {
				return fmt.Errorf("occupy table: %w", err)
			}
		}
		return s.saveTotals(ctx, repo, *order)
	})
	if err != nil {
		return err
	}

	s.notifier.TableUpdated(tableID)
	return nil
}

// AdjustQuantity sets a line's desired quantity, clamped at zero. A
// line that was never announced to the kitchen vanishes at zero, and an
// order losing its last line is deleted with its table freed. This is
// the only path that frees a table without a dispatch or a settlement.
func (s *OrderService) AdjustQuantity(ctx context.Context, lineID uuid.UUID, quantity int32) error {
	if quantity < 0 {
		quantity = 0
	}

	line, err := s.store.GetLine(ctx, lineID)
	if err != nil {
		return err
	}
	order, err := s.store.GetOrder(ctx, line.OrderID)
	if err != nil {
		return err
	}
	tableID := order.TableID

	lock := s.tableLock(tableID)
	lock.Lock()
	defer lock.Unlock()

	err = s.store.Tx(ctx, func(repo store.Repository) error {
		line, err := repo.GetLine(ctx, lineID)
		if err != nil {
			return err
		}
		order, err := repo.GetOrder(ctx, line.OrderID)
		if err != nil {
			return err
		}
		if order.Status != enum.OrderStatusPending {
			return ErrOrderNotPending
		}

		if quantity == 0 && line.PrintedQuantity == 0 {
			if err := repo.DeleteLine(ctx, lineID); err != nil {
				return fmt.Errorf("delete line: %w", err)
			}
			rest, err := repo.ListLines(ctx, order.ID)
			if err != nil {
				return err
			}
			if len(rest) == 0 {
				if err := repo.DeleteOrder(ctx, order.ID); err != nil {
					return fmt.Errorf("delete order: %w", err)
				}
				return repo.SetTableStatus(ctx, tableID, enum.TableStatusEmpty)
			}
			return s.saveTotals(ctx, repo, *order)
		}

		line.Quantity = quantity
		line.Total = lineTotal(*line)
		if line.Status == enum.LineStatusSent && line.Quantity != line.PrintedQuantity {
			line.Status = enum.LineStatusModified
		}
		if err := repo.UpdateLine(ctx, *line); err != nil {
			return fmt.Errorf("update line: %w", err)
		}
		return s.saveTotals(ctx, repo, *order)
	})
	if err != nil {
		return err
	}

	s.notifier.TableUpdated(tableID)
	return nil
}

// SetDiscount applies an order-level discount: a percentage or an
// absolute amount, never both.
func (s *OrderService) SetDiscount(ctx context.Context, orderID uuid.UUID, percent, amount decimal.Decimal) error {
	if percent.IsNegative() || amount.IsNegative() {
		return ErrInvalidDiscount
	}
	if percent.IsPositive() && amount.IsPositive() {
		return ErrDiscountConflict
	}
	if percent.GreaterThan(decimal.NewFromInt(100)) {
		return ErrInvalidDiscount
	}

	var tableID uuid.UUID
	err := s.store.Tx(ctx, func(repo store.Repository) error {
		order, err := repo.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != enum.OrderStatusPending {
			return ErrOrderNotPending
		}
		tableID = order.TableID
		order.DiscountPercent = percent
		order.DiscountAmount = amount
		return s.saveTotals(ctx, repo, *order)
	})
	if err != nil {
		return err
	}

	s.notifier.TableUpdated(tableID)
	return nil
}

// Settle closes a pending order as paid, marks its lines done, and
// frees the table. The bill prints on the billing device afterwards,
// best-effort.
func (s *OrderService) Settle(ctx context.Context, orderID uuid.UUID, paymentMethod, staff string) error {
	switch paymentMethod {
	case enum.PaymentMethodCash, enum.PaymentMethodTransfer, enum.PaymentMethodCard:
	default:
		return ErrInvalidPayment
	}

	var (
		bill    printing.BillJob
		hasBill bool
		tableID uuid.UUID
	)
	err := s.store.Tx(ctx, func(repo store.Repository) error {
		order, err := repo.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != enum.OrderStatusPending {
			return ErrOrderNotPending
		}
		tableID = order.TableID

		lines, err := repo.ListLines(ctx, order.ID)
		if err != nil {
			return err
		}
		for i := range lines {
			lines[i].Status = enum.LineStatusDone
			if err := repo.UpdateLine(ctx, lines[i]); err != nil {
				return fmt.Errorf("update line: %w", err)
			}
		}

		order.Status = enum.OrderStatusPaid
		order.PaymentMethod = paymentMethod
		s.applyTotals(order, lines)
		if err := repo.UpdateOrder(ctx, *order); err != nil {
			return fmt.Errorf("update order: %w", err)
		}
		if err := repo.SetTableStatus(ctx, tableID, enum.TableStatusEmpty); err != nil {
			return fmt.Errorf("free table: %w", err)
		}

		table, err := repo.GetTable(ctx, tableID)
		if err != nil {
			return err
		}
		billing, err := repo.GetBillingPrinter(ctx)
		if errors.Is(err, store.ErrNotFound) {
			return nil // no receipt-of-record device configured
		}
		if err != nil {
			return err
		}
		bill = printing.BillJob{
			Printer: *billing,
			Table:   *table,
			Order:   *order,
			Staff:   staff,
			Lines:   lines,
		}
		hasBill = true
		return nil
	})
	if err != nil {
		return err
	}

	s.notifier.TableUpdated(tableID)
	if hasBill {
		s.printer.PrintBill(bill)
	}
	return nil
}

// Cancel hard-deletes a pending order and frees its table.
func (s *OrderService) Cancel(ctx context.Context, orderID uuid.UUID) error {
	var tableID uuid.UUID
	err := s.store.Tx(ctx, func(repo store.Repository) error {
		order, err := repo.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if order.Status != enum.OrderStatusPending {
			return ErrOrderNotPending
		}
		tableID = order.TableID
		if err := repo.DeleteOrder(ctx, order.ID); err != nil {
			return fmt.Errorf("delete order: %w", err)
		}
		return repo.SetTableStatus(ctx, tableID, enum.TableStatusEmpty)
	})
	if err != nil {
		return err
	}

	s.notifier.TableUpdated(tableID)
	return nil
}

// findLine locates the line a new unit of (dish, note) merges into.
// Note equality is exact: an empty note only matches an empty note.
func findLine(lines []domain.Line, dishID uuid.UUID, note string) *domain.Line {
	for i := range lines {
		if lines[i].DishID == dishID && lines[i].Note == note {
			return &lines[i]
		}
	}
	return nil
}

// lineTotal computes quantity x unitPrice x (1 - discountRate/100).
func lineTotal(l domain.Line) decimal.Decimal {
	qty := decimal.NewFromInt32(l.Quantity)
	total := qty.Mul(l.UnitPrice)
	if l.DiscountRate.IsPositive() {
		keep := decimal.NewFromInt(100).Sub(l.DiscountRate).Div(decimal.NewFromInt(100))
		total = total.Mul(keep)
	}
	return total
}

// applyTotals recomputes the order's money fields from its lines.
func (s *OrderService) applyTotals(order *domain.Order, lines []domain.Line) {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total)
	}

	discount := order.DiscountAmount
	if !discount.IsPositive() && order.DiscountPercent.IsPositive() {
		discount = subtotal.Mul(order.DiscountPercent).Div(decimal.NewFromInt(100))
	}
	taxable := subtotal.Sub(discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	tax := taxable.Mul(s.taxPercent).Div(decimal.NewFromInt(100))

	order.Subtotal = subtotal
	order.Tax = tax
	order.Total = taxable.Add(tax)
}

// saveTotals reloads the order's lines, recomputes the money fields and
// persists the order.
func (s *OrderService) saveTotals(ctx context.Context, repo store.Repository, order domain.Order) error {
	lines, err := repo.ListLines(ctx, order.ID)
	if err != nil {
		return err
	}
	s.applyTotals(&order, lines)
	if err := repo.UpdateOrder(ctx, order); err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	return nil
}
