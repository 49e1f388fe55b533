package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/quanpos/api/internal/domain"
	"github.com/quanpos/api/internal/enum"
	"github.com/quanpos/api/internal/printing"
	"github.com/quanpos/api/internal/store"
)

// Dispatch reconciles the table's cart against what the kitchen has
// already been told and announces the delta.
//
// Every line whose quantity differs from its printed quantity yields
// one signed dispatch entry. Additions are stamped with a fresh batch
// number; cancellations keep the batch they were announced under, so
// the batch counter only advances when at least one line gained units.
// State changes commit first; printing runs after the transaction and
// never rolls it back.
//
// A second call with no intervening cart change is a no-op.
func (s *OrderService) Dispatch(ctx context.Context, tableID uuid.UUID, staff string) error {
	lock := s.tableLock(tableID)
	lock.Lock()
	defer lock.Unlock()

	var (
		jobs    []printing.KitchenJob
		changed bool
	)
	err := s.store.Tx(ctx, func(repo store.Repository) error {
		order, err := repo.GetPendingOrderByTable(ctx, tableID)
		if errors.Is(err, store.ErrNotFound) {
			return ErrNoPendingOrder
		}
		if err != nil {
			return err
		}
		lines, err := repo.ListLines(ctx, order.ID)
		if err != nil {
			return err
		}

		var pending []domain.Line
		maxBatch := int32(0)
		for _, l := range lines {
			if l.Batch > maxBatch {
				maxBatch = l.Batch
			}
			if l.Quantity != l.PrintedQuantity {
				pending = append(pending, l)
			}
		}
		if len(pending) == 0 {
			return nil
		}
		changed = true
		nextBatch := maxBatch + 1

		if order.FirstSentAt == nil {
			now := time.Now()
			order.FirstSentAt = &now
		}

		entries := make([]domain.DispatchEntry, 0, len(pending))
		remaining := len(lines)
		for _, l := range pending {
			diff := l.Quantity - l.PrintedQuantity
			batch := nextBatch
			if diff < 0 {
				// Cancellations retroactively shrink what an
				// earlier batch announced.
				batch = l.Batch
			}
			entries = append(entries, domain.DispatchEntry{
				DishID:   l.DishID,
				DishName: l.DishName,
				Note:     l.Note,
				Diff:     diff,
				Batch:    batch,
			})

			if diff > 0 {
				l.Batch = nextBatch
			}
			l.PrintedQuantity = l.Quantity
			if l.Quantity == 0 {
				if err := repo.DeleteLine(ctx, l.ID); err != nil {
					return fmt.Errorf("delete line: %w", err)
				}
				remaining--
				continue
			}
			l.Status = enum.LineStatusSent
			if err := repo.UpdateLine(ctx, l); err != nil {
				return fmt.Errorf("update line: %w", err)
			}
		}

		if remaining == 0 {
			if err := repo.DeleteOrder(ctx, order.ID); err != nil {
				return fmt.Errorf("delete order: %w", err)
			}
			// Nothing left to cook, nothing to print.
			return repo.SetTableStatus(ctx, tableID, enum.TableStatusEmpty)
		}

		if err := s.saveTotals(ctx, repo, *order); err != nil {
			return err
		}

		table, err := repo.GetTable(ctx, tableID)
		if err != nil {
			return err
		}
		jobBatch := maxBatch
		for _, e := range entries {
			if e.Diff > 0 {
				jobBatch = nextBatch
				break
			}
		}
		jobs, err = routeEntries(ctx, repo, entries, *order, *table, staff, jobBatch)
		return err
	})
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	s.notifier.TableUpdated(tableID)
	for _, job := range jobs {
		s.printer.PrintKitchen(job)
	}
	return nil
}

// routeEntries groups dispatch entries by the destination printer of
// each dish's category. Dishes without a routed or active printer are
// dropped; the kitchen never hears about them.
func routeEntries(ctx context.Context, repo store.Repository, entries []domain.DispatchEntry, order domain.Order, table domain.Table, staff string, batch int32) ([]printing.KitchenJob, error) {
	var jobs []printing.KitchenJob
	index := make(map[uuid.UUID]int)

	for _, e := range entries {
		dish, err := repo.GetDish(ctx, e.DishID)
		if err != nil {
			return nil, fmt.Errorf("get dish: %w", err)
		}
		cat, err := repo.GetCategory(ctx, dish.CategoryID)
		if err != nil {
			return nil, fmt.Errorf("get category: %w", err)
		}
		if cat.PrinterID == nil {
			log.Printf("dish %q has no kitchen printer, dropping entry", e.DishName)
			continue
		}
		printer, err := repo.GetPrinter(ctx, *cat.PrinterID)
		if errors.Is(err, store.ErrNotFound) {
			log.Printf("dish %q routed to missing printer, dropping entry", e.DishName)
			continue
		}
		if err != nil {
			return nil, err
		}
		if !printer.Active {
			log.Printf("dish %q routed to inactive printer %s, dropping entry", e.DishName, printer.Name)
			continue
		}

		i, ok := index[printer.ID]
		if !ok {
			i = len(jobs)
			index[printer.ID] = i
			jobs = append(jobs, printing.KitchenJob{
				Printer: *printer,
				Table:   table,
				Order:   order,
				Staff:   staff,
				Batch:   batch,
			})
		}
		jobs[i].Entries = append(jobs[i].Entries, e)
	}
	return jobs, nil
}
