package receipt

import (
	"fmt"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/quanpos/api/internal/domain"
	"github.com/quanpos/api/internal/enum"
)

// BillData is everything a bill template can reference.
type BillData struct {
	Order  domain.Order
	Table  domain.Table
	Lines  []domain.Line
	Staff  string
	Now    time.Time
	Images ImageSource
}

// KitchenData is everything a kitchen template can reference: the diff
// entries of one dispatch call, routed to one printer.
type KitchenData struct {
	Order   domain.Order
	Table   domain.Table
	Entries []domain.DispatchEntry
	Batch   int32
	Staff   string
	Now     time.Time
	Images  ImageSource
}

const qrPixels = 220

// BuildBill flattens a bill template against one order.
func BuildBill(tpl domain.Template, data BillData) Document {
	var doc Document
	expand := billExpander(data)

	for _, el := range tpl.Elements {
		if !el.Visible {
			continue
		}
		switch el.Type {
		case enum.ElementText:
			doc.text(expand(el.Content), el.Align, el.FontSize, el.Bold)
		case enum.ElementSeparator:
			doc.rule()
		case enum.ElementLogo:
			if data.Images != nil {
				doc.image(data.Images.Resolve(el.Content))
			}
		case enum.ElementQRCode:
			// Payment QR only makes sense on transfer receipts.
			if data.Order.PaymentMethod != enum.PaymentMethodTransfer {
				continue
			}
			qr, err := qrcode.New(expand(el.Content), qrcode.Medium)
			if err != nil {
				continue
			}
			doc.image(qr.Image(qrPixels))
		case enum.ElementLineItems:
			billItems(&doc, data, DecodeItemOptions(el.Content))
		case enum.ElementTotal:
			totals(&doc, data.Order, DecodeTotalOptions(el.Content))
		case enum.ElementBatchNumber:
			// Batch numbers are a kitchen concept; ignored on bills.
		}
	}
	return doc
}

// BuildKitchen flattens a kitchen template against one dispatch batch.
func BuildKitchen(tpl domain.Template, data KitchenData) Document {
	var doc Document
	expand := kitchenExpander(data)

	for _, el := range tpl.Elements {
		if !el.Visible {
			continue
		}
		switch el.Type {
		case enum.ElementText:
			doc.text(expand(el.Content), el.Align, el.FontSize, el.Bold)
		case enum.ElementSeparator:
			doc.rule()
		case enum.ElementLogo:
			if data.Images != nil {
				doc.image(data.Images.Resolve(el.Content))
			}
		case enum.ElementBatchNumber:
			content := el.Content
			if content == "" {
				content = "Dot {Batch}"
			}
			doc.text(expand(content), el.Align, el.FontSize, true)
		case enum.ElementKitchenLineItems:
			kitchenItems(&doc, data, DecodeItemOptions(el.Content))
		}
	}
	return doc
}

func billItems(doc *Document, data BillData, opts ItemOptions) {
	for _, line := range data.Lines {
		left := fmt.Sprintf("%dx %s", line.Quantity, line.DishName)
		doc.row(left, FormatAmount(line.Total), opts.ItemSize, false)
		if opts.ShowNote && line.Note != "" {
			doc.text("  "+line.Note, enum.AlignLeft, opts.NoteSize, false)
		}
	}
	if opts.ShowSubTotal {
		doc.row("Tam tinh", FormatAmount(data.Order.Subtotal), opts.SubTotalSize, false)
	}
	if opts.ShowDiscount {
		doc.row("Giam gia", discountLabel(data.Order), opts.SubTotalSize, false)
	}
}

func kitchenItems(doc *Document, data KitchenData, opts ItemOptions) {
	size := opts.ItemSize
	for _, e := range data.Entries {
		var row string
		if e.Diff > 0 {
			row = fmt.Sprintf("+%d %s", e.Diff, e.DishName)
		} else {
			// Cancellation of units announced in an earlier batch.
			row = fmt.Sprintf("HUY %d %s", -e.Diff, e.DishName)
		}
		doc.text(row, enum.AlignLeft, size, e.Diff < 0)
		if opts.ShowNote && e.Note != "" {
			doc.text("  "+e.Note, enum.AlignLeft, opts.NoteSize, false)
		}
	}
}

func totals(doc *Document, order domain.Order, opts TotalOptions) {
	if opts.ShowSubTotal {
		doc.row("Tam tinh", FormatAmount(order.Subtotal), enum.FontNormal, false)
	}
	if opts.ShowDiscount && hasDiscount(order) {
		doc.row("Giam gia", discountLabel(order), enum.FontNormal, false)
	}
	if opts.ShowTax && !order.Tax.IsZero() {
		doc.row("Thue", FormatAmount(order.Tax), enum.FontNormal, false)
	}
	doc.row("TONG CONG", FormatAmount(order.Total), enum.FontLarge, true)
}

func hasDiscount(order domain.Order) bool {
	return !order.DiscountAmount.IsZero() || !order.DiscountPercent.IsZero()
}

// discountLabel shows the absolute amount when one is set, otherwise
// the raw percentage ("10%").
func discountLabel(order domain.Order) string {
	if order.DiscountAmount.IsZero() && !order.DiscountPercent.IsZero() {
		return order.DiscountPercent.String() + "%"
	}
	return FormatAmount(order.DiscountAmount)
}

// --- placeholder expansion ---

func billExpander(data BillData) func(string) string {
	repl := commonReplacements(data.Order, data.Table, data.Staff, data.Now)
	repl = append(repl,
		"{SubTotal}", FormatAmount(data.Order.Subtotal),
		"{Discount}", discountLabel(data.Order),
		"{Tax}", FormatAmount(data.Order.Tax),
		"{Total}", FormatAmount(data.Order.Total),
		"{PaymentMethod}", data.Order.PaymentMethod,
		"{Batch}", "",
	)
	r := strings.NewReplacer(repl...)
	return r.Replace
}

func kitchenExpander(data KitchenData) func(string) string {
	repl := commonReplacements(data.Order, data.Table, data.Staff, data.Now)
	repl = append(repl,
		"{SubTotal}", "",
		"{Discount}", "",
		"{Tax}", "",
		"{Total}", "",
		"{PaymentMethod}", "",
		"{Batch}", fmt.Sprintf("%d", data.Batch),
	)
	r := strings.NewReplacer(repl...)
	return r.Replace
}

func commonReplacements(order domain.Order, table domain.Table, staff string, now time.Time) []string {
	return []string{
		"{Table}", table.Name,
		"{TableType}", table.Type,
		"{OrderId}", shortID(order.ID.String()),
		"{Staff}", staff,
		"{PrintTime}", now.Format("15:04"),
		"{PrintDate}", now.Format("02/01/2006"),
		"{CheckInTime}", order.CreatedAt.Format("15:04"),
		"{CheckInDate}", order.CreatedAt.Format("02/01/2006"),
		"{Duration}", FormatDuration(now.Sub(order.CreatedAt)),
	}
}

func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return strings.ToUpper(id[:i])
	}
	return strings.ToUpper(id)
}
