package receipt

import (
	"fmt"
	"strings"

	"github.com/quanpos/api/internal/enum"
)

// Data-block elements (LineItems, KitchenLineItems, Total) carry their
// configuration in the element's content field as "key=value;key=value"
// text. The option structs below give that text a typed shape; a
// missing key always means the documented default.

// ItemOptions configures LineItems and KitchenLineItems elements.
//
// Keys: size, note, notesize, subtotal, subtotalsize, discount.
type ItemOptions struct {
	ItemSize     string // font size of item rows; default NORMAL
	ShowNote     bool   // render line notes under the item row; default true
	NoteSize     string // font size of the note row; default SMALL
	ShowSubTotal bool   // trailing sub-total row; default false
	SubTotalSize string // font size of that row; default NORMAL
	ShowDiscount bool   // trailing discount row; default false
}

func DefaultItemOptions() ItemOptions {
	return ItemOptions{
		ItemSize:     enum.FontNormal,
		ShowNote:     true,
		NoteSize:     enum.FontSmall,
		ShowSubTotal: false,
		SubTotalSize: enum.FontNormal,
		ShowDiscount: false,
	}
}

// DecodeItemOptions parses an option string. Unknown keys and malformed
// pairs are ignored; missing keys keep their defaults.
func DecodeItemOptions(s string) ItemOptions {
	o := DefaultItemOptions()
	for key, val := range pairs(s) {
		switch key {
		case "size":
			o.ItemSize = fontSize(val, o.ItemSize)
		case "note":
			o.ShowNote = boolean(val, o.ShowNote)
		case "notesize":
			o.NoteSize = fontSize(val, o.NoteSize)
		case "subtotal":
			o.ShowSubTotal = boolean(val, o.ShowSubTotal)
		case "subtotalsize":
			o.SubTotalSize = fontSize(val, o.SubTotalSize)
		case "discount":
			o.ShowDiscount = boolean(val, o.ShowDiscount)
		}
	}
	return o
}

func (o ItemOptions) Encode() string {
	return fmt.Sprintf("size=%s;note=%s;notesize=%s;subtotal=%s;subtotalsize=%s;discount=%s",
		o.ItemSize, onOff(o.ShowNote), o.NoteSize,
		onOff(o.ShowSubTotal), o.SubTotalSize, onOff(o.ShowDiscount))
}

// TotalOptions configures Total elements.
//
// Keys: subtotal, discount, tax. The bold grand-total row is always
// rendered and not configurable.
type TotalOptions struct {
	ShowSubTotal bool // default true
	ShowDiscount bool // default true
	ShowTax      bool // default true
}

func DefaultTotalOptions() TotalOptions {
	return TotalOptions{ShowSubTotal: true, ShowDiscount: true, ShowTax: true}
}

func DecodeTotalOptions(s string) TotalOptions {
	o := DefaultTotalOptions()
	for key, val := range pairs(s) {
		switch key {
		case "subtotal":
			o.ShowSubTotal = boolean(val, o.ShowSubTotal)
		case "discount":
			o.ShowDiscount = boolean(val, o.ShowDiscount)
		case "tax":
			o.ShowTax = boolean(val, o.ShowTax)
		}
	}
	return o
}

func (o TotalOptions) Encode() string {
	return fmt.Sprintf("subtotal=%s;discount=%s;tax=%s",
		onOff(o.ShowSubTotal), onOff(o.ShowDiscount), onOff(o.ShowTax))
}

// --- parsing helpers ---

func pairs(s string) map[string]string {
	out := make(map[string]string)
	for _, part := range strings.Split(s, ";") {
		key, val, ok := strings.Cut(part, "=")
		if !ok {
			continue
		}
		out[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(val)
	}
	return out
}

func boolean(val string, fallback bool) bool {
	switch strings.ToLower(val) {
	case "on", "true", "1", "yes":
		return true
	case "off", "false", "0", "no":
		return false
	}
	return fallback
}

func fontSize(val, fallback string) string {
	switch strings.ToUpper(val) {
	case enum.FontSmall, enum.FontNormal, enum.FontLarge:
		return strings.ToUpper(val)
	}
	return fallback
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
