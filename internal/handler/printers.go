package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quanpos/api/internal/domain"
	"github.com/quanpos/api/internal/enum"
)

// PrinterStore defines the store methods needed by printer handlers.
type PrinterStore interface {
	ListPrinters(ctx context.Context) ([]domain.Printer, error)
	GetPrinter(ctx context.Context, id uuid.UUID) (*domain.Printer, error)
	CreatePrinter(ctx context.Context, p domain.Printer) error
	UpdatePrinter(ctx context.Context, p domain.Printer) error
	DeletePrinter(ctx context.Context, id uuid.UUID) error
}

// SelfTester pushes a plain-text test page to one device. Satisfied by
// *printing.Spooler.
type SelfTester interface {
	PrintSelfTest(ctx context.Context, p domain.Printer) error
}

// PrinterHandler handles printer CRUD and test prints.
type PrinterHandler struct {
	store  PrinterStore
	tester SelfTester
}

// NewPrinterHandler creates a new PrinterHandler.
func NewPrinterHandler(store PrinterStore, tester SelfTester) *PrinterHandler {
	return &PrinterHandler{store: store, tester: tester}
}

// RegisterRoutes registers printer endpoints on the given Chi router.
func (h *PrinterHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/test", h.Test)
}

// --- Request / Response types ---

type printerRequest struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Address    string `json:"address"`
	PaperWidth string `json:"paper_width"`
	IsBilling  bool   `json:"is_billing"`
	Active     bool   `json:"active"`
}

func (req printerRequest) validate() string {
	if req.Name == "" {
		return "name is required"
	}
	if req.Kind != enum.PrinterKindNetwork && req.Kind != enum.PrinterKindLocal {
		return "kind must be NETWORK or LOCAL"
	}
	if req.Address == "" {
		return "address is required"
	}
	if req.PaperWidth != enum.PaperWidth58 && req.PaperWidth != enum.PaperWidth80 {
		return "paper_width must be 58 or 80"
	}
	return ""
}

type printerResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Kind       string    `json:"kind"`
	Address    string    `json:"address"`
	PaperWidth string    `json:"paper_width"`
	IsBilling  bool      `json:"is_billing"`
	Active     bool      `json:"active"`
}

func toPrinterResponse(p domain.Printer) printerResponse {
	return printerResponse{
		ID:         p.ID,
		Name:       p.Name,
		Kind:       p.Kind,
		Address:    p.Address,
		PaperWidth: p.PaperWidth,
		IsBilling:  p.IsBilling,
		Active:     p.Active,
	}
}

// --- Handlers ---

// List returns all configured printers.
func (h *PrinterHandler) List(w http.ResponseWriter, r *http.Request) {
	printers, err := h.store.ListPrinters(r.Context())
	if err != nil {
		writeServiceError(w, "list printers", err)
		return
	}

	resp := make([]printerResponse, len(printers))
	for i, p := range printers {
		resp[i] = toPrinterResponse(p)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create registers a new printer.
func (h *PrinterHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req printerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	p := domain.Printer{
		ID:         uuid.New(),
		Name:       req.Name,
		Kind:       req.Kind,
		Address:    req.Address,
		PaperWidth: req.PaperWidth,
		IsBilling:  req.IsBilling,
		Active:     req.Active,
	}
	if err := h.store.CreatePrinter(r.Context(), p); err != nil {
		writeServiceError(w, "create printer", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPrinterResponse(p))
}

// Update modifies an existing printer.
func (h *PrinterHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid printer ID")
		return
	}

	var req printerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	p := domain.Printer{
		ID:         id,
		Name:       req.Name,
		Kind:       req.Kind,
		Address:    req.Address,
		PaperWidth: req.PaperWidth,
		IsBilling:  req.IsBilling,
		Active:     req.Active,
	}
	if err := h.store.UpdatePrinter(r.Context(), p); err != nil {
		writeServiceError(w, "update printer", err)
		return
	}
	writeJSON(w, http.StatusOK, toPrinterResponse(p))
}

// Delete removes a printer.
func (h *PrinterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid printer ID")
		return
	}

	if err := h.store.DeletePrinter(r.Context(), id); err != nil {
		writeServiceError(w, "delete printer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Test sends a plain-text test page to the printer and reports the
// transport result.
func (h *PrinterHandler) Test(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid printer ID")
		return
	}

	p, err := h.store.GetPrinter(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get printer", err)
		return
	}

	if err := h.tester.PrintSelfTest(r.Context(), *p); err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "printer unreachable: " + err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
