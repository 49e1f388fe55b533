package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quanpos/api/internal/domain"
	"github.com/quanpos/api/internal/enum"
	"github.com/quanpos/api/internal/printing"
	"github.com/quanpos/api/internal/store"
	"github.com/quanpos/api/internal/store/memory"
)

// --- Test doubles ---

type fakeNotifier struct {
	mu     sync.Mutex
	tables []uuid.UUID
}

func (f *fakeNotifier) TableUpdated(tableID uuid.UUID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables = append(f.tables, tableID)
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tables)
}

type fakePrinter struct {
	mu      sync.Mutex
	kitchen []printing.KitchenJob
	bills   []printing.BillJob
}

func (f *fakePrinter) PrintKitchen(job printing.KitchenJob) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kitchen = append(f.kitchen, job)
}

func (f *fakePrinter) PrintBill(job printing.BillJob) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bills = append(f.bills, job)
}

// --- Fixture ---

type fixture struct {
	svc      *OrderService
	store    *memory.Store
	notifier *fakeNotifier
	printer  *fakePrinter

	table   domain.Table
	kitchen domain.Printer
	billing domain.Printer
	pho     domain.Dish // routed to the kitchen printer
	tra     domain.Dish // drinks, also routed to the kitchen printer
	che     domain.Dish // category without a printer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mem := memory.New()
	f := &fixture{
		store:    mem,
		notifier: &fakeNotifier{},
		printer:  &fakePrinter{},
	}
	f.svc = NewOrderService(mem, f.notifier, f.printer, decimal.NewFromInt(10))

	f.kitchen = domain.Printer{
		ID: uuid.New(), Name: "Bep", Kind: enum.PrinterKindNetwork,
		Address: "192.168.1.50", PaperWidth: enum.PaperWidth58, Active: true,
	}
	f.billing = domain.Printer{
		ID: uuid.New(), Name: "Thu ngan", Kind: enum.PrinterKindNetwork,
		Address: "192.168.1.51", PaperWidth: enum.PaperWidth80, IsBilling: true, Active: true,
	}
	if err := mem.CreatePrinter(context.Background(), f.kitchen); err != nil {
		t.Fatal(err)
	}
	if err := mem.CreatePrinter(context.Background(), f.billing); err != nil {
		t.Fatal(err)
	}

	food := domain.Category{ID: uuid.New(), Name: "Mon chinh", PrinterID: &f.kitchen.ID}
	desserts := domain.Category{ID: uuid.New(), Name: "Trang mieng"}
	mem.PutCategory(food)
	mem.PutCategory(desserts)

	f.pho = domain.Dish{ID: uuid.New(), CategoryID: food.ID, Name: "Pho bo", Price: decimal.NewFromInt(20000), Active: true}
	f.tra = domain.Dish{ID: uuid.New(), CategoryID: food.ID, Name: "Tra da", Price: decimal.NewFromInt(5000), Active: true}
	f.che = domain.Dish{ID: uuid.New(), CategoryID: desserts.ID, Name: "Che ba mau", Price: decimal.NewFromInt(20000), Active: true}
	mem.PutDish(f.pho)
	mem.PutDish(f.tra)
	mem.PutDish(f.che)

	f.table = domain.Table{ID: uuid.New(), Name: "1", Type: "Trong nha", Status: enum.TableStatusEmpty}
	mem.PutTable(f.table)

	return f
}

func (f *fixture) mustOrder(t *testing.T) (domain.Order, []domain.Line) {
	t.Helper()
	order, err := f.store.GetPendingOrderByTable(context.Background(), f.table.ID)
	if err != nil {
		t.Fatalf("pending order: %v", err)
	}
	lines, err := f.store.ListLines(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("list lines: %v", err)
	}
	return *order, lines
}

func (f *fixture) tableStatus(t *testing.T) string {
	t.Helper()
	table, err := f.store.GetTable(context.Background(), f.table.ID)
	if err != nil {
		t.Fatal(err)
	}
	return table.Status
}

// --- AddItem ---

func TestAddItemCreatesOrderAndOccupiesTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.AddItem(ctx, f.table.ID, f.pho.ID, "", "Lan"); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	order, lines := f.mustOrder(t)
	if order.Status != enum.OrderStatusPending {
		t.Errorf("order status = %s, want PENDING", order.Status)
	}
	if order.Staff != "Lan" {
		t.Errorf("order staff = %q, want Lan", order.Staff)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	l := lines[0]
	if l.Quantity != 1 || l.PrintedQuantity != 0 {
		t.Errorf("quantity=%d printed=%d, want 1/0", l.Quantity, l.PrintedQuantity)
	}
	if l.Status != enum.LineStatusNew {
		t.Errorf("line status = %s, want NEW", l.Status)
	}
	if !l.UnitPrice.Equal(decimal.NewFromInt(20000)) {
		t.Errorf("unit price = %s, want 20000", l.UnitPrice)
	}
	if f.tableStatus(t) != enum.TableStatusOccupied {
		t.Error("table not occupied after first item")
	}
	if f.notifier.count() == 0 {
		t.Error("no change notification sent")
	}
}

func TestAddItemMergesSameDishSameNote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := f.svc.AddItem(ctx, f.table.ID, f.pho.ID, "", "Lan"); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}

	_, lines := f.mustOrder(t)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 merged line", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Errorf("quantity = %d, want 3", lines[0].Quantity)
	}
	if !lines[0].Total.Equal(decimal.NewFromInt(60000)) {
		t.Errorf("line total = %s, want 60000", lines[0].Total)
	}
}

func TestAddItemNoteNeverMergesWithNoteless(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.AddItem(ctx, f.table.ID, f.pho.ID, "", "Lan"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.AddItem(ctx, f.table.ID, f.pho.ID, "khong hanh", "Lan"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.AddItem(ctx, f.table.ID, f.pho.ID, "khong hanh", "Lan"); err != nil {
		t.Fatal(err)
	}

	_, lines := f.mustOrder(t)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2 (noted and note-less kept apart)", len(lines))
	}
	byNote := map[string]int32{}
	for _, l := range lines {
		byNote[l.Note] = l.Quantity
	}
	if byNote[""] != 1 || byNote["khong hanh"] != 2 {
		t.Errorf("quantities by note = %v, want map[:1 khong hanh:2]", byNote)
	}
}

func TestAddItemMarksSentLineModified(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.AddItem(ctx, f.table.ID, f.pho.ID, "", "Lan"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Dispatch(ctx, f.table.ID, "Lan"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.AddItem(ctx, f.table.ID, f.pho.ID, "", "Lan"); err != nil {
		t.Fatal(err)
	}

	_, lines := f.mustOrder(t)
	if lines[0].Status != enum.LineStatusModified {
		t.Errorf("line status = %s, want MODIFIED after adding to a sent line", lines[0].Status)
	}
}

func TestAddItemInactiveDish(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	off := domain.Dish{ID: uuid.New(), CategoryID: f.pho.CategoryID, Name: "Het hang", Price: decimal.NewFromInt(10000)}
	f.store.PutDish(off)

	err := f.svc.AddItem(ctx, f.table.ID, off.ID, "", "Lan")
	if !errors.Is(err, ErrDishInactive) {
		t.Fatalf("err = %v, want ErrDishInactive", err)
	}
	if _, err := f.store.GetPendingOrderByTable(ctx, f.table.ID); !errors.Is(err, store.ErrNotFound) {
		t.Error("order should not exist after rejected add")
	}
}

// --- AdjustQuantity ---

func TestAdjustQuantityClampsAtZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.AddItem(ctx, f.table.ID, f.pho.ID, "", "Lan"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Dispatch(ctx, f.table.ID, "Lan"); err != nil {
		t.Fatal(err)
	}

	_, lines := f.mustOrder(t)
	if err := f.svc.AdjustQuantity(ctx, lines[0].ID, -5); err != nil {
		t.Fatalf("AdjustQuantity: %v", err)
	}

	_, lines = f.mustOrder(t)
	if lines[0].Quantity != 0 {
		t.Errorf("quantity = %d, want 0 (clamped)", lines[0].Quantity)
	}
}

func TestAdjustQuantityDeletesUnprintedLineAndFreesTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.AddItem(ctx, f.table.ID, f.pho.ID, "", "Lan"); err != nil {
		t.Fatal(err)
	}
	_, lines := f.mustOrder(t)

	if err := f.svc.AdjustQuantity(ctx, lines[0].ID, 0); err != nil {
		t.Fatalf("AdjustQuantity: %v", err)
	}

	if _, err := f.store.GetPendingOrderByTable(ctx, f.table.ID); !errors.Is(err, store.ErrNotFound) {
		t.Error("order should be deleted with its last line")
	}
	if f.tableStatus(t) != enum.TableStatusEmpty {
		t.Error("table should be EMPTY after order deletion")
	}
}

func TestAdjustQuantityKeepsPrintedLineAtZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.AddItem(ctx, f.table.ID, f.pho.ID, "", "Lan"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Dispatch(ctx, f.table.ID, "Lan"); err != nil {
		t.Fatal(err)
	}
	_, lines := f.mustOrder(t)

	if err := f.svc.AdjustQuantity(ctx, lines[0].ID, 0); err != nil {
		t.Fatal(err)
	}

	// The kitchen already cooked one; the line survives so the next
	// dispatch can announce the cancellation.
	_, lines = f.mustOrder(t)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (printed line retained at zero)", len(lines))
	}
	if lines[0].Quantity != 0 || lines[0].PrintedQuantity != 1 {
		t.Errorf("quantity=%d printed=%d, want 0/1", lines[0].Quantity, lines[0].PrintedQuantity)
	}
}

// --- Totals and discounts ---

func TestTotalsWithPercentDiscountAndTax(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 2 x 20000 + 1 x 5000 = 45000
	if err := f.svc.AddItem(ctx, f.table.ID, f.pho.ID, "", "Lan"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.AddItem(ctx, f.table.ID, f.pho.ID, "", "Lan"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.AddItem(ctx, f.table.ID, f.tra.ID, "", "Lan"); err != nil {
		t.Fatal(err)
	}

	order, _ := f.mustOrder(t)
	if err := f.svc.SetDiscount(ctx, order.ID, decimal.NewFromInt(10), decimal.Zero); err != nil {
		t.Fatalf("SetDiscount: %v", err)
	}

	order, _ = f.mustOrder(t)
	if !order.Subtotal.Equal(decimal.NewFromInt(45000)) {
		t.Errorf("subtotal = %s, want 45000", order.Subtotal)
	}
	// 45000 - 10% = 40500, + 10% tax = 44550
	if !order.Tax.Equal(decimal.NewFromInt(4050)) {
		t.Errorf("tax = %s, want 4050", order.Tax)
	}
	if !order.Total.Equal(decimal.NewFromInt(44550)) {
		t.Errorf("total = %s, want 44550", order.Total)
	}
}

func TestSetDiscountRejectsBoth(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.AddItem(ctx, f.table.ID, f.pho.ID, "", "Lan"); err != nil {
		t.Fatal(err)
	}
	order, _ := f.mustOrder(t)

	err := f.svc.SetDiscount(ctx, order.ID, decimal.NewFromInt(10), decimal.NewFromInt(5000))
	if !errors.Is(err, ErrDiscountConflict) {
		t.Fatalf("err = %v, want ErrDiscountConflict", err)
	}
}

func TestAmountDiscountClampsTotalAtZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.AddItem(ctx, f.table.ID, f.tra.ID, "", "Lan"); err != nil {
		t.Fatal(err)
	}
	order, _ := f.mustOrder(t)

	// Discount exceeds the 5000 subtotal.
	if err := f.svc.SetDiscount(ctx, order.ID, decimal.Zero, decimal.NewFromInt(9000)); err != nil {
		t.Fatal(err)
	}

	order, _ = f.mustOrder(t)
	if !order.Total.IsZero() {
		t.Errorf("total = %s, want 0", order.Total)
	}
	if !order.Tax.IsZero() {
		t.Errorf("tax = %s, want 0", order.Tax)
	}
}

// --- Settle / Cancel ---

func TestSettleMarksPaidFreesTableAndPrintsBill(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.AddItem(ctx, f.table.ID, f.pho.ID, "", "Lan"); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.Dispatch(ctx, f.table.ID, "Lan"); err != nil {
		t.Fatal(err)
	}
	order, _ := f.mustOrder(t)

	if err := f.svc.Settle(ctx, order.ID, enum.PaymentMethodCash, "Lan"); err != nil {
		t.Fatalf("Settle: %v", err)
	}

	settled, err := f.store.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("settled order should be retained: %v", err)
	}
	if settled.Status != enum.OrderStatusPaid {
		t.Errorf("status = %s, want PAID", settled.Status)
	}
	if settled.PaymentMethod != enum.PaymentMethodCash {
		t.Errorf("payment method = %s, want CASH", settled.PaymentMethod)
	}
	if f.tableStatus(t) != enum.TableStatusEmpty {
		t.Error("table should be freed on settlement")
	}

	if len(f.printer.bills) != 1 {
		t.Fatalf("got %d bill jobs, want 1", len(f.printer.bills))
	}
	if f.printer.bills[0].Printer.ID != f.billing.ID {
		t.Error("bill routed to the wrong printer")
	}
}

func TestSettleRejectsUnknownPaymentMethod(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.AddItem(ctx, f.table.ID, f.pho.ID, "", "Lan"); err != nil {
		t.Fatal(err)
	}
	order, _ := f.mustOrder(t)

	if err := f.svc.Settle(ctx, order.ID, "IOU", "Lan"); !errors.Is(err, ErrInvalidPayment) {
		t.Fatalf("err = %v, want ErrInvalidPayment", err)
	}
}

func TestSettleTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.AddItem(ctx, f.table.ID, f.pho.ID, "", "Lan"); err != nil {
		t.Fatal(err)
	}
	order, _ := f.mustOrder(t)
	if err := f.svc.Settle(ctx, order.ID, enum.PaymentMethodCash, "Lan"); err != nil {
		t.Fatal(err)
	}

	if err := f.svc.Settle(ctx, order.ID, enum.PaymentMethodCash, "Lan"); !errors.Is(err, ErrOrderNotPending) {
		t.Fatalf("err = %v, want ErrOrderNotPending", err)
	}
}

func TestCancelDeletesOrderAndFreesTable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.AddItem(ctx, f.table.ID, f.pho.ID, "", "Lan"); err != nil {
		t.Fatal(err)
	}
	order, _ := f.mustOrder(t)

	if err := f.svc.Cancel(ctx, order.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	if _, err := f.store.GetOrder(ctx, order.ID); !errors.Is(err, store.ErrNotFound) {
		t.Error("cancelled order should be hard-deleted")
	}
	if f.tableStatus(t) != enum.TableStatusEmpty {
		t.Error("table should be freed on cancel")
	}
}
