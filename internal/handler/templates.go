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

// TemplateStore defines the store methods needed by template handlers.
type TemplateStore interface {
	ListTemplates(ctx context.Context) ([]domain.Template, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*domain.Template, error)
	CreateTemplate(ctx context.Context, t domain.Template) error
	UpdateTemplate(ctx context.Context, t domain.Template) error
	DeleteTemplate(ctx context.Context, id uuid.UUID) error
}

// TemplateHandler handles receipt template CRUD.
type TemplateHandler struct {
	store TemplateStore
}

// NewTemplateHandler creates a new TemplateHandler.
func NewTemplateHandler(store TemplateStore) *TemplateHandler {
	return &TemplateHandler{store: store}
}

// RegisterRoutes registers template endpoints on the given Chi router.
func (h *TemplateHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// --- Request / Response types ---

type elementPayload struct {
	Type     string `json:"type"`
	Content  string `json:"content"`
	Align    string `json:"align"`
	FontSize string `json:"font_size"`
	Bold     bool   `json:"bold"`
	Visible  bool   `json:"visible"`
}

type templateRequest struct {
	Name       string           `json:"name"`
	Type       string           `json:"type"`
	PaperWidth string           `json:"paper_width"`
	Active     bool             `json:"active"`
	Elements   []elementPayload `json:"elements"`
}

func (req templateRequest) validate() string {
	if req.Name == "" {
		return "name is required"
	}
	if req.Type != enum.TemplateTypeBill && req.Type != enum.TemplateTypeKitchen {
		return "type must be BILL or KITCHEN"
	}
	if req.PaperWidth != enum.PaperWidth58 && req.PaperWidth != enum.PaperWidth80 {
		return "paper_width must be 58 or 80"
	}
	return ""
}

type templateResponse struct {
	ID         uuid.UUID        `json:"id"`
	Name       string           `json:"name"`
	Type       string           `json:"type"`
	PaperWidth string           `json:"paper_width"`
	Active     bool             `json:"active"`
	Elements   []elementPayload `json:"elements"`
}

func toTemplateResponse(t domain.Template) templateResponse {
	resp := templateResponse{
		ID:         t.ID,
		Name:       t.Name,
		Type:       t.Type,
		PaperWidth: t.PaperWidth,
		Active:     t.Active,
		Elements:   make([]elementPayload, len(t.Elements)),
	}
	for i, e := range t.Elements {
		resp.Elements[i] = elementPayload(e)
	}
	return resp
}

func (req templateRequest) toDomain(id uuid.UUID) domain.Template {
	t := domain.Template{
		ID:         id,
		Name:       req.Name,
		Type:       req.Type,
		PaperWidth: req.PaperWidth,
		Active:     req.Active,
		Elements:   make([]domain.Element, len(req.Elements)),
	}
	for i, e := range req.Elements {
		t.Elements[i] = domain.Element(e)
	}
	return t
}

// --- Handlers ---

// List returns all templates.
func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	templates, err := h.store.ListTemplates(r.Context())
	if err != nil {
		writeServiceError(w, "list templates", err)
		return
	}

	resp := make([]templateResponse, len(templates))
	for i, t := range templates {
		resp[i] = toTemplateResponse(t)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get returns one template with its elements.
func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template ID")
		return
	}

	t, err := h.store.GetTemplate(r.Context(), id)
	if err != nil {
		writeServiceError(w, "get template", err)
		return
	}
	writeJSON(w, http.StatusOK, toTemplateResponse(*t))
}

// Create stores a new template.
func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	t := req.toDomain(uuid.New())
	if err := h.store.CreateTemplate(r.Context(), t); err != nil {
		writeServiceError(w, "create template", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTemplateResponse(t))
}

// Update replaces a template and its element list.
func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template ID")
		return
	}

	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	t := req.toDomain(id)
	if err := h.store.UpdateTemplate(r.Context(), t); err != nil {
		writeServiceError(w, "update template", err)
		return
	}
	writeJSON(w, http.StatusOK, toTemplateResponse(t))
}

// Delete removes a template; the built-in default takes over.
func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid template ID")
		return
	}

	if err := h.store.DeleteTemplate(r.Context(), id); err != nil {
		writeServiceError(w, "delete template", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
