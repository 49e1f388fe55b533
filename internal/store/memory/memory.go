// Package memory is an in-process Repository used in dev mode and by
// the test suites. Transactions are serialized by a single lock; there
// is no rollback, so callers validate before they write (which is what
// the service layer does).
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/quanpos/api/internal/domain"
	"github.com/quanpos/api/internal/enum"
	"github.com/quanpos/api/internal/store"
)

type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex

	tables     map[uuid.UUID]domain.Table
	categories map[uuid.UUID]domain.Category
	dishes     map[uuid.UUID]domain.Dish
	orders     map[uuid.UUID]domain.Order
	lines      map[uuid.UUID]domain.Line
	printers   map[uuid.UUID]domain.Printer
	templates  map[uuid.UUID]domain.Template
}

func New() *Store {
	return &Store{
		tables:     make(map[uuid.UUID]domain.Table),
		categories: make(map[uuid.UUID]domain.Category),
		dishes:     make(map[uuid.UUID]domain.Dish),
		orders:     make(map[uuid.UUID]domain.Order),
		lines:      make(map[uuid.UUID]domain.Line),
		printers:   make(map[uuid.UUID]domain.Printer),
		templates:  make(map[uuid.UUID]domain.Template),
	}
}

// Tx serializes the whole unit of work behind one lock. Nested Tx calls
// are not supported and will deadlock; the service never nests them.
func (s *Store) Tx(ctx context.Context, fn func(store.Repository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(s)
}

// --- Tables ---

func (s *Store) ListTables(_ context.Context) ([]domain.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Table, 0, len(s.tables))
	for _, t := range s.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetTable(_ context.Context, id uuid.UUID) (*domain.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (s *Store) SetTableStatus(_ context.Context, id uuid.UUID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tables[id]
	if !ok {
		return store.ErrNotFound
	}
	t.Status = status
	s.tables[id] = t
	return nil
}

// PutTable is used by the seeder and by table tests.
func (s *Store) PutTable(t domain.Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[t.ID] = t
}

// --- Menu ---

func (s *Store) ListDishes(_ context.Context) ([]domain.Dish, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Dish, 0, len(s.dishes))
	for _, d := range s.dishes {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetDish(_ context.Context, id uuid.UUID) (*domain.Dish, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.dishes[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &d, nil
}

func (s *Store) GetCategory(_ context.Context, id uuid.UUID) (*domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *Store) PutDish(d domain.Dish) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dishes[d.ID] = d
}

func (s *Store) PutCategory(c domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
}

// --- Orders ---

func (s *Store) GetPendingOrderByTable(_ context.Context, tableID uuid.UUID) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.TableID == tableID && o.Status == enum.OrderStatusPending {
			out := o
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) GetOrder(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &o, nil
}

func (s *Store) CreateOrder(_ context.Context, order domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[order.ID]; exists {
		return store.ErrConflict
	}
	s.orders[order.ID] = order
	return nil
}

func (s *Store) UpdateOrder(_ context.Context, order domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[order.ID]; !ok {
		return store.ErrNotFound
	}
	s.orders[order.ID] = order
	return nil
}

func (s *Store) DeleteOrder(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.orders, id)
	for lid, l := range s.lines {
		if l.OrderID == id {
			delete(s.lines, lid)
		}
	}
	return nil
}

// --- Lines ---

func (s *Store) ListLines(_ context.Context, orderID uuid.UUID) ([]domain.Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Line, 0, 8)
	for _, l := range s.lines {
		if l.OrderID == orderID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetLine(_ context.Context, id uuid.UUID) (*domain.Line, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.lines[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &l, nil
}

func (s *Store) CreateLine(_ context.Context, line domain.Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.lines[line.ID]; exists {
		return store.ErrConflict
	}
	s.lines[line.ID] = line
	return nil
}

func (s *Store) UpdateLine(_ context.Context, line domain.Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lines[line.ID]; !ok {
		return store.ErrNotFound
	}
	s.lines[line.ID] = line
	return nil
}

func (s *Store) DeleteLine(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.lines[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.lines, id)
	return nil
}

// --- Printers ---

func (s *Store) ListPrinters(_ context.Context) ([]domain.Printer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Printer, 0, len(s.printers))
	for _, p := range s.printers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetPrinter(_ context.Context, id uuid.UUID) (*domain.Printer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.printers[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *Store) GetBillingPrinter(_ context.Context) (*domain.Printer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.printers {
		if p.IsBilling && p.Active {
			out := p
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreatePrinter(_ context.Context, p domain.Printer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.printers[p.ID]; exists {
		return store.ErrConflict
	}
	s.printers[p.ID] = p
	return nil
}

func (s *Store) UpdatePrinter(_ context.Context, p domain.Printer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.printers[p.ID]; !ok {
		return store.ErrNotFound
	}
	s.printers[p.ID] = p
	return nil
}

func (s *Store) DeletePrinter(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.printers[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.printers, id)
	return nil
}

// --- Templates ---

func (s *Store) ListTemplates(_ context.Context) ([]domain.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Template, 0, len(s.templates))
	for _, t := range s.templates {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) GetTemplate(_ context.Context, id uuid.UUID) (*domain.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.templates[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &t, nil
}

func (s *Store) GetActiveTemplate(_ context.Context, typ, paperWidth string) (*domain.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.templates {
		if t.Active && t.Type == typ && t.PaperWidth == paperWidth {
			out := t
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) CreateTemplate(_ context.Context, t domain.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.templates[t.ID]; exists {
		return store.ErrConflict
	}
	s.templates[t.ID] = t
	return nil
}

func (s *Store) UpdateTemplate(_ context.Context, t domain.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[t.ID]; !ok {
		return store.ErrNotFound
	}
	s.templates[t.ID] = t
	return nil
}

func (s *Store) DeleteTemplate(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.templates[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.templates, id)
	return nil
}
