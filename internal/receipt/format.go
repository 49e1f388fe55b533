package receipt

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Amounts print with Vietnamese digit grouping (20000 -> "20.000").
var currencyPrinter = message.NewPrinter(language.Vietnamese)

// FormatAmount renders a currency amount with thousands separators and
// no fraction digits (VND has none).
func FormatAmount(d decimal.Decimal) string {
	return currencyPrinter.Sprintf("%d", d.Round(0).IntPart())
}

// FormatDuration renders elapsed seated time: "1h05m" above an hour,
// "12m" above a minute, "42s" below.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d >= time.Hour:
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	case d >= time.Minute:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	default:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
}
