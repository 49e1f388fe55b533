package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quanpos/api/internal/domain"
	"github.com/quanpos/api/internal/service"
)

// OrderOps is the reconciliation surface used by order handlers.
// Satisfied by *service.OrderService; narrow interface for testability.
type OrderOps interface {
	GetTableOrder(ctx context.Context, tableID uuid.UUID) (*service.TableOrder, error)
	AddItem(ctx context.Context, tableID, dishID uuid.UUID, note, staff string) error
	AdjustQuantity(ctx context.Context, lineID uuid.UUID, quantity int32) error
	SetDiscount(ctx context.Context, orderID uuid.UUID, percent, amount decimal.Decimal) error
	Dispatch(ctx context.Context, tableID uuid.UUID, staff string) error
	Settle(ctx context.Context, orderID uuid.UUID, paymentMethod, staff string) error
	Cancel(ctx context.Context, orderID uuid.UUID) error
}

// OrderHandler handles the cart and dispatch endpoints.
type OrderHandler struct {
	orders OrderOps
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders OrderOps) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// RegisterRoutes registers order endpoints on the given Chi router.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tables/{tid}/order", h.GetTableOrder)
	r.Post("/tables/{tid}/items", h.AddItem)
	r.Post("/tables/{tid}/dispatch", h.Dispatch)
	r.Put("/lines/{id}/quantity", h.AdjustQuantity)
	r.Put("/orders/{id}/discount", h.SetDiscount)
	r.Post("/orders/{id}/settle", h.Settle)
	r.Post("/orders/{id}/cancel", h.Cancel)
}

// --- Request / Response types ---

type addItemRequest struct {
	DishID string `json:"dish_id"`
	Note   string `json:"note"`
}

type adjustQuantityRequest struct {
	Quantity int32 `json:"quantity"`
}

type setDiscountRequest struct {
	Percent string `json:"percent"`
	Amount  string `json:"amount"`
}

type settleRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type lineResponse struct {
	ID              uuid.UUID       `json:"id"`
	DishID          uuid.UUID       `json:"dish_id"`
	DishName        string          `json:"dish_name"`
	Quantity        int32           `json:"quantity"`
	PrintedQuantity int32           `json:"printed_quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountRate    decimal.Decimal `json:"discount_rate"`
	Total           decimal.Decimal `json:"total"`
	Note            string          `json:"note"`
	Status          string          `json:"status"`
	Batch           int32           `json:"batch"`
}

type orderResponse struct {
	ID              uuid.UUID       `json:"id"`
	TableID         uuid.UUID       `json:"table_id"`
	Staff           string          `json:"staff"`
	Status          string          `json:"status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	PaymentMethod   string          `json:"payment_method,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	FirstSentAt     *time.Time      `json:"first_sent_at"`
	Lines           []lineResponse  `json:"lines"`
}

func toOrderResponse(v service.TableOrder) orderResponse {
	resp := orderResponse{
		ID:              v.Order.ID,
		TableID:         v.Order.TableID,
		Staff:           v.Order.Staff,
		Status:          v.Order.Status,
		Subtotal:        v.Order.Subtotal,
		DiscountPercent: v.Order.DiscountPercent,
		DiscountAmount:  v.Order.DiscountAmount,
		Tax:             v.Order.Tax,
		Total:           v.Order.Total,
		PaymentMethod:   v.Order.PaymentMethod,
		CreatedAt:       v.Order.CreatedAt,
		FirstSentAt:     v.Order.FirstSentAt,
		Lines:           make([]lineResponse, len(v.Lines)),
	}
	for i, l := range v.Lines {
		resp.Lines[i] = toLineResponse(l)
	}
	return resp
}

func toLineResponse(l domain.Line) lineResponse {
	return lineResponse{
		ID:              l.ID,
		DishID:          l.DishID,
		DishName:        l.DishName,
		Quantity:        l.Quantity,
		PrintedQuantity: l.PrintedQuantity,
		UnitPrice:       l.UnitPrice,
		DiscountRate:    l.DiscountRate,
		Total:           l.Total,
		Note:            l.Note,
		Status:          l.Status,
		Batch:           l.Batch,
	}
}

// --- Handlers ---

// GetTableOrder returns the table's pending order with its lines.
func (h *OrderHandler) GetTableOrder(w http.ResponseWriter, r *http.Request) {
	tableID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid table ID")
		return
	}

	view, err := h.orders.GetTableOrder(r.Context(), tableID)
	if err != nil {
		writeServiceError(w, "get table order", err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(*view))
}

// AddItem puts one unit of a dish on the table's order.
func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	tableID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid table ID")
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dishID, err := uuid.Parse(req.DishID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid dish ID")
		return
	}

	if err := h.orders.AddItem(r.Context(), tableID, dishID, req.Note, staffName(r)); err != nil {
		writeServiceError(w, "add item", err)
		return
	}

	view, err := h.orders.GetTableOrder(r.Context(), tableID)
	if err != nil {
		writeServiceError(w, "get table order", err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderResponse(*view))
}

// Dispatch announces the table's pending changes to the kitchen.
func (h *OrderHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	tableID, err := uuid.Parse(chi.URLParam(r, "tid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid table ID")
		return
	}

	if err := h.orders.Dispatch(r.Context(), tableID, staffName(r)); err != nil {
		writeServiceError(w, "dispatch", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdjustQuantity sets a line's desired quantity.
func (h *OrderHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	lineID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid line ID")
		return
	}

	var req adjustQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.orders.AdjustQuantity(r.Context(), lineID, req.Quantity); err != nil {
		writeServiceError(w, "adjust quantity", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetDiscount applies an order-level discount, percent or amount.
func (h *OrderHandler) SetDiscount(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req setDiscountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	percent, err := parseDecimal(req.Percent)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid percent")
		return
	}
	amount, err := parseDecimal(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	if err := h.orders.SetDiscount(r.Context(), orderID, percent, amount); err != nil {
		writeServiceError(w, "set discount", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Settle closes the order as paid and prints the bill.
func (h *OrderHandler) Settle(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	var req settleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.orders.Settle(r.Context(), orderID, req.PaymentMethod, staffName(r)); err != nil {
		writeServiceError(w, "settle", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Cancel hard-deletes a pending order.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order ID")
		return
	}

	if err := h.orders.Cancel(r.Context(), orderID); err != nil {
		writeServiceError(w, "cancel", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}
