package receipt

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quanpos/api/internal/domain"
	"github.com/quanpos/api/internal/enum"
)

func testOrder() domain.Order {
	id := uuid.MustParse("a3b8f0d2-1111-2222-3333-444455556666")
	created := time.Date(2026, 3, 14, 18, 30, 0, 0, time.Local)
	return domain.Order{
		ID:            id,
		Staff:         "Lan",
		Status:        enum.OrderStatusPending,
		Subtotal:      decimal.NewFromInt(45000),
		Tax:           decimal.NewFromInt(4500),
		Total:         decimal.NewFromInt(49500),
		PaymentMethod: enum.PaymentMethodCash,
		CreatedAt:     created,
	}
}

func testTable() domain.Table {
	return domain.Table{ID: uuid.New(), Name: "5", Type: "Ngoai troi"}
}

func textOf(doc Document) string {
	var b strings.Builder
	for _, blk := range doc.Blocks {
		b.WriteString(blk.Text)
		if blk.Right != "" {
			b.WriteString(" ")
			b.WriteString(blk.Right)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func TestBuildBillExpandsPlaceholders(t *testing.T) {
	tpl := domain.Template{Elements: []domain.Element{
		{Type: enum.ElementText, Content: "Ban {Table} ({TableType}) {OrderId}", Visible: true},
		{Type: enum.ElementText, Content: "NV {Staff} in luc {PrintTime} {PrintDate}", Visible: true},
		{Type: enum.ElementText, Content: "Vao {CheckInTime} {CheckInDate} ngoi {Duration}", Visible: true},
		{Type: enum.ElementText, Content: "TT {Total} ({PaymentMethod})", Visible: true},
	}}
	order := testOrder()
	now := order.CreatedAt.Add(time.Hour + 5*time.Minute)

	doc := BuildBill(tpl, BillData{Order: order, Table: testTable(), Staff: "Lan", Now: now})
	got := textOf(doc)

	for _, want := range []string{
		"Ban 5 (Ngoai troi) A3B8F0D2",
		"NV Lan in luc 19:35 14/03/2026",
		"Vao 18:30 14/03/2026 ngoi 1h05m",
		"TT 49.500 (CASH)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("document missing %q:\n%s", want, got)
		}
	}
}

func TestBuildBillSkipsInvisibleElements(t *testing.T) {
	tpl := domain.Template{Elements: []domain.Element{
		{Type: enum.ElementText, Content: "shown", Visible: true},
		{Type: enum.ElementText, Content: "hidden", Visible: false},
		{Type: enum.ElementSeparator, Visible: false},
	}}

	doc := BuildBill(tpl, BillData{Order: testOrder(), Table: testTable(), Now: time.Now()})
	if len(doc.Blocks) != 1 || doc.Blocks[0].Text != "shown" {
		t.Errorf("invisible elements leaked into the document: %+v", doc.Blocks)
	}
}

func TestBuildBillLineItemsAndNotes(t *testing.T) {
	tpl := domain.Template{Elements: []domain.Element{
		{Type: enum.ElementLineItems, Content: "", Visible: true},
	}}
	lines := []domain.Line{
		{DishName: "Pho bo", Quantity: 2, Total: decimal.NewFromInt(40000), Note: "it cay"},
		{DishName: "Tra da", Quantity: 1, Total: decimal.NewFromInt(5000)},
	}

	doc := BuildBill(tpl, BillData{Order: testOrder(), Table: testTable(), Lines: lines, Now: time.Now()})
	got := textOf(doc)

	if !strings.Contains(got, "2x Pho bo 40.000") {
		t.Errorf("missing item row:\n%s", got)
	}
	if !strings.Contains(got, "  it cay") {
		t.Errorf("missing note row:\n%s", got)
	}
	if !strings.Contains(got, "1x Tra da 5.000") {
		t.Errorf("missing second item row:\n%s", got)
	}
}

func TestBuildBillNotesCanBeTurnedOff(t *testing.T) {
	tpl := domain.Template{Elements: []domain.Element{
		{Type: enum.ElementLineItems, Content: "note=off", Visible: true},
	}}
	lines := []domain.Line{{DishName: "Pho bo", Quantity: 1, Total: decimal.NewFromInt(20000), Note: "it cay"}}

	doc := BuildBill(tpl, BillData{Order: testOrder(), Table: testTable(), Lines: lines, Now: time.Now()})
	if strings.Contains(textOf(doc), "it cay") {
		t.Error("note rendered despite note=off")
	}
}

func TestTotalsAlwaysEndWithBoldGrandTotal(t *testing.T) {
	tpl := domain.Template{Elements: []domain.Element{
		{Type: enum.ElementTotal, Content: "subtotal=off;discount=off;tax=off", Visible: true},
	}}

	doc := BuildBill(tpl, BillData{Order: testOrder(), Table: testTable(), Now: time.Now()})
	if len(doc.Blocks) != 1 {
		t.Fatalf("got %d blocks, want only the grand total", len(doc.Blocks))
	}
	total := doc.Blocks[0]
	if total.Text != "TONG CONG" || !total.Bold {
		t.Errorf("grand total row = %+v, want bold TONG CONG", total)
	}
	if total.Right != "49.500" {
		t.Errorf("grand total amount = %q, want 49.500", total.Right)
	}
}

func TestDiscountLabelPercentVsAmount(t *testing.T) {
	order := testOrder()
	order.DiscountPercent = decimal.NewFromInt(10)
	if got := discountLabel(order); got != "10%" {
		t.Errorf("percent-only label = %q, want 10%%", got)
	}

	order.DiscountAmount = decimal.NewFromInt(5000)
	if got := discountLabel(order); got != "5.000" {
		t.Errorf("amount label = %q, want 5.000", got)
	}
}

func TestQRCodeOnlyOnTransfer(t *testing.T) {
	tpl := domain.Template{Elements: []domain.Element{
		{Type: enum.ElementQRCode, Content: "PAY {OrderId}", Visible: true},
	}}

	cash := testOrder()
	doc := BuildBill(tpl, BillData{Order: cash, Table: testTable(), Now: time.Now()})
	if len(doc.Blocks) != 0 {
		t.Error("QR rendered for a cash payment")
	}

	transfer := testOrder()
	transfer.PaymentMethod = enum.PaymentMethodTransfer
	doc = BuildBill(tpl, BillData{Order: transfer, Table: testTable(), Now: time.Now()})
	if len(doc.Blocks) != 1 || doc.Blocks[0].Kind != BlockImage {
		t.Fatalf("expected one QR image block, got %+v", doc.Blocks)
	}
	if doc.Blocks[0].Image == nil {
		t.Error("QR block has no image")
	}
}

func TestBuildKitchenRows(t *testing.T) {
	tpl := DefaultKitchen(enum.PaperWidth58)
	entries := []domain.DispatchEntry{
		{DishName: "Pho bo", Diff: 2, Batch: 3, Note: "khong hanh"},
		{DishName: "Tra da", Diff: -1, Batch: 2},
	}

	doc := BuildKitchen(tpl, KitchenData{
		Order:   testOrder(),
		Table:   testTable(),
		Entries: entries,
		Batch:   3,
		Staff:   "Lan",
		Now:     time.Now(),
	})
	got := textOf(doc)

	if !strings.Contains(got, "BAN 5") {
		t.Errorf("missing table header:\n%s", got)
	}
	if !strings.Contains(got, "Dot 3") {
		t.Errorf("missing batch header:\n%s", got)
	}
	if !strings.Contains(got, "+2 Pho bo") {
		t.Errorf("missing addition row:\n%s", got)
	}
	if !strings.Contains(got, "  khong hanh") {
		t.Errorf("missing note row:\n%s", got)
	}
	if !strings.Contains(got, "HUY 1 Tra da") {
		t.Errorf("missing cancellation row:\n%s", got)
	}

	// Cancellation rows print bold so the kitchen cannot miss them.
	for _, blk := range doc.Blocks {
		if strings.HasPrefix(blk.Text, "HUY") && !blk.Bold {
			t.Error("cancellation row not bold")
		}
	}
}

func TestBatchNumberIgnoredOnBills(t *testing.T) {
	tpl := domain.Template{Elements: []domain.Element{
		{Type: enum.ElementBatchNumber, Content: "Dot {Batch}", Visible: true},
	}}

	doc := BuildBill(tpl, BillData{Order: testOrder(), Table: testTable(), Now: time.Now()})
	if len(doc.Blocks) != 0 {
		t.Errorf("batch number rendered on a bill: %+v", doc.Blocks)
	}
}

func TestDefaultTemplatesCoverBothWidths(t *testing.T) {
	for _, width := range []string{enum.PaperWidth58, enum.PaperWidth80} {
		bill := DefaultBill(width)
		if bill.Type != enum.TemplateTypeBill || bill.PaperWidth != width || len(bill.Elements) == 0 {
			t.Errorf("DefaultBill(%s) malformed: %+v", width, bill)
		}
		kitchen := DefaultKitchen(width)
		if kitchen.Type != enum.TemplateTypeKitchen || kitchen.PaperWidth != width || len(kitchen.Elements) == 0 {
			t.Errorf("DefaultKitchen(%s) malformed: %+v", width, kitchen)
		}
	}
}
