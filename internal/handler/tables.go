package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/quanpos/api/internal/domain"
)

// TableStore defines the store methods needed by table handlers.
type TableStore interface {
	ListTables(ctx context.Context) ([]domain.Table, error)
	ListDishes(ctx context.Context) ([]domain.Dish, error)
}

// TableHandler serves the floor plan and the menu.
type TableHandler struct {
	store TableStore
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(store TableStore) *TableHandler {
	return &TableHandler{store: store}
}

// RegisterRoutes registers table and menu endpoints on the given Chi router.
func (h *TableHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tables", h.ListTables)
	r.Get("/dishes", h.ListDishes)
}

type tableResponse struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Type   string    `json:"type"`
	Status string    `json:"status"`
}

type dishResponse struct {
	ID         uuid.UUID       `json:"id"`
	CategoryID uuid.UUID       `json:"category_id"`
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Active     bool            `json:"active"`
}

// ListTables returns every table with its occupancy status.
func (h *TableHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.store.ListTables(r.Context())
	if err != nil {
		writeServiceError(w, "list tables", err)
		return
	}

	resp := make([]tableResponse, len(tables))
	for i, t := range tables {
		resp[i] = tableResponse{ID: t.ID, Name: t.Name, Type: t.Type, Status: t.Status}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListDishes returns the menu.
func (h *TableHandler) ListDishes(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.store.ListDishes(r.Context())
	if err != nil {
		writeServiceError(w, "list dishes", err)
		return
	}

	resp := make([]dishResponse, len(dishes))
	for i, d := range dishes {
		resp[i] = dishResponse{ID: d.ID, CategoryID: d.CategoryID, Name: d.Name, Price: d.Price, Active: d.Active}
	}
	writeJSON(w, http.StatusOK, resp)
}
