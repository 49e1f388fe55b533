package receipt

import (
	"github.com/quanpos/api/internal/domain"
	"github.com/quanpos/api/internal/enum"
)

// Built-in templates, used whenever no active template of the required
// type exists for the required paper width. Labels avoid diacritics so
// they survive both the raster and plain-text encode paths unchanged.

func DefaultBill(paperWidth string) domain.Template {
	return domain.Template{
		Name:       "built-in bill",
		Type:       enum.TemplateTypeBill,
		PaperWidth: paperWidth,
		Active:     true,
		Elements: []domain.Element{
			{Type: enum.ElementText, Content: "HOA DON", Align: enum.AlignCenter, FontSize: enum.FontLarge, Bold: true, Visible: true},
			{Type: enum.ElementText, Content: "Ban {Table} - {OrderId}", Align: enum.AlignCenter, FontSize: enum.FontNormal, Visible: true},
			{Type: enum.ElementText, Content: "{PrintDate} {PrintTime}  NV: {Staff}", Align: enum.AlignCenter, FontSize: enum.FontSmall, Visible: true},
			{Type: enum.ElementText, Content: "Vao ban: {CheckInTime} ({Duration})", Align: enum.AlignCenter, FontSize: enum.FontSmall, Visible: true},
			{Type: enum.ElementSeparator, Visible: true},
			{Type: enum.ElementLineItems, Content: "", Visible: true},
			{Type: enum.ElementSeparator, Visible: true},
			{Type: enum.ElementTotal, Content: "", Visible: true},
			{Type: enum.ElementSeparator, Visible: true},
			{Type: enum.ElementQRCode, Content: "PAY {OrderId} {Total}", Align: enum.AlignCenter, Visible: true},
			{Type: enum.ElementText, Content: "Xin cam on quy khach!", Align: enum.AlignCenter, FontSize: enum.FontNormal, Visible: true},
		},
	}
}

func DefaultKitchen(paperWidth string) domain.Template {
	return domain.Template{
		Name:       "built-in kitchen",
		Type:       enum.TemplateTypeKitchen,
		PaperWidth: paperWidth,
		Active:     true,
		Elements: []domain.Element{
			{Type: enum.ElementText, Content: "BAN {Table}", Align: enum.AlignCenter, FontSize: enum.FontLarge, Bold: true, Visible: true},
			{Type: enum.ElementBatchNumber, Content: "Dot {Batch}", Align: enum.AlignCenter, FontSize: enum.FontLarge, Visible: true},
			{Type: enum.ElementText, Content: "{PrintTime}  NV: {Staff}", Align: enum.AlignCenter, FontSize: enum.FontSmall, Visible: true},
			{Type: enum.ElementSeparator, Visible: true},
			{Type: enum.ElementKitchenLineItems, Content: "size=LARGE", Visible: true},
		},
	}
}
