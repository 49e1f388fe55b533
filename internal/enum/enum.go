package enum

// ── Group A: State machines ──

const (
	OrderStatusPending   = "PENDING"
	OrderStatusPaid      = "PAID"
	OrderStatusCancelled = "CANCELLED"
)

const (
	LineStatusNew      = "NEW"
	LineStatusSent     = "SENT"
	LineStatusModified = "MODIFIED"
	LineStatusDone     = "DONE"
)

const (
	TableStatusEmpty    = "EMPTY"
	TableStatusOccupied = "OCCUPIED"
)

// ── Group B: Device and template configuration ──

const (
	PrinterKindNetwork = "NETWORK"
	PrinterKindLocal   = "LOCAL"
)

// Paper width classes. The value is the paper width in millimeters;
// the pixel width per class lives in the printing package.
const (
	PaperWidth58 = "58"
	PaperWidth80 = "80"
)

const (
	TemplateTypeBill    = "BILL"
	TemplateTypeKitchen = "KITCHEN"
)

const (
	ElementText             = "TEXT"
	ElementSeparator        = "SEPARATOR"
	ElementLogo             = "LOGO"
	ElementQRCode           = "QR_CODE"
	ElementLineItems        = "LINE_ITEMS"
	ElementKitchenLineItems = "KITCHEN_LINE_ITEMS"
	ElementTotal            = "TOTAL"
	ElementBatchNumber      = "BATCH_NUMBER"
)

const (
	AlignLeft   = "LEFT"
	AlignCenter = "CENTER"
	AlignRight  = "RIGHT"
)

const (
	FontSmall  = "SMALL"
	FontNormal = "NORMAL"
	FontLarge  = "LARGE"
)

// ── Group C: Configurable labels ──

const (
	PaymentMethodCash     = "CASH"
	PaymentMethodTransfer = "TRANSFER"
	PaymentMethodCard     = "CARD"
)

const (
	DiscountTypePercentage = "PERCENTAGE"
	DiscountTypeFixed      = "FIXED_AMOUNT"
)
