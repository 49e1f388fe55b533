// Package postgres implements store.Repository on pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/quanpos/api/internal/domain"
	"github.com/quanpos/api/internal/store"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx, so the same query
// methods run pooled or inside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	db   DBTX
	pool *pgxpool.Pool // nil inside a transaction
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return &Store{db: pool, pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Tx runs fn against a transaction-bound view of the store.
func (s *Store) Tx(ctx context.Context, fn func(store.Repository) error) error {
	if s.pool == nil {
		return errors.New("nested transaction")
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(&Store{db: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// --- Helpers ---

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// --- Tables ---

func (s *Store) ListTables(ctx context.Context) ([]domain.Table, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, type, status FROM tables ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Table
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.ID, &t.Name, &t.Type, &t.Status); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetTable(ctx context.Context, id uuid.UUID) (*domain.Table, error) {
	var t domain.Table
	err := s.db.QueryRow(ctx, `
		SELECT id, name, type, status FROM tables WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.Type, &t.Status)
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (s *Store) SetTableStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := s.db.Exec(ctx, `UPDATE tables SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Menu ---

func (s *Store) ListDishes(ctx context.Context) ([]domain.Dish, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, category_id, name, price, active
		FROM dishes WHERE active = true ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Dish
	for rows.Next() {
		var d domain.Dish
		var price pgtype.Numeric
		if err := rows.Scan(&d.ID, &d.CategoryID, &d.Name, &price, &d.Active); err != nil {
			return nil, err
		}
		d.Price = numericToDecimal(price)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) GetDish(ctx context.Context, id uuid.UUID) (*domain.Dish, error) {
	var d domain.Dish
	var price pgtype.Numeric
	err := s.db.QueryRow(ctx, `
		SELECT id, category_id, name, price, active FROM dishes WHERE id = $1`, id).
		Scan(&d.ID, &d.CategoryID, &d.Name, &price, &d.Active)
	if err != nil {
		return nil, notFound(err)
	}
	d.Price = numericToDecimal(price)
	return &d, nil
}

func (s *Store) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	var c domain.Category
	var printerID pgtype.UUID
	err := s.db.QueryRow(ctx, `
		SELECT id, name, printer_id FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &printerID)
	if err != nil {
		return nil, notFound(err)
	}
	if printerID.Valid {
		pid := uuid.UUID(printerID.Bytes)
		c.PrinterID = &pid
	}
	return &c, nil
}

// --- Orders ---

const orderColumns = `id, table_id, staff, status, subtotal, discount_percent,
	discount_amount, tax, total, payment_method, created_at, first_sent_at`

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	var subtotal, discPct, discAmt, tax, total pgtype.Numeric
	var firstSent pgtype.Timestamptz
	err := row.Scan(&o.ID, &o.TableID, &o.Staff, &o.Status, &subtotal, &discPct,
		&discAmt, &tax, &total, &o.PaymentMethod, &o.CreatedAt, &firstSent)
	if err != nil {
		return nil, notFound(err)
	}
	o.Subtotal = numericToDecimal(subtotal)
	o.DiscountPercent = numericToDecimal(discPct)
	o.DiscountAmount = numericToDecimal(discAmt)
	o.Tax = numericToDecimal(tax)
	o.Total = numericToDecimal(total)
	if firstSent.Valid {
		t := firstSent.Time
		o.FirstSentAt = &t
	}
	return &o, nil
}

func (s *Store) GetPendingOrderByTable(ctx context.Context, tableID uuid.UUID) (*domain.Order, error) {
	return scanOrder(s.db.QueryRow(ctx, `
		SELECT `+orderColumns+` FROM orders
		WHERE table_id = $1 AND status = 'PENDING'`, tableID))
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return scanOrder(s.db.QueryRow(ctx, `
		SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
}

func orderArgs(o domain.Order) []any {
	var firstSent pgtype.Timestamptz
	if o.FirstSentAt != nil {
		firstSent = pgtype.Timestamptz{Time: *o.FirstSentAt, Valid: true}
	}
	return []any{
		o.ID, o.TableID, o.Staff, o.Status,
		decimalToNumeric(o.Subtotal), decimalToNumeric(o.DiscountPercent),
		decimalToNumeric(o.DiscountAmount), decimalToNumeric(o.Tax),
		decimalToNumeric(o.Total), o.PaymentMethod, o.CreatedAt, firstSent,
	}
}

func (s *Store) CreateOrder(ctx context.Context, order domain.Order) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`, orderArgs(order)...)
	return err
}

func (s *Store) UpdateOrder(ctx context.Context, order domain.Order) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders SET table_id=$2, staff=$3, status=$4, subtotal=$5,
			discount_percent=$6, discount_amount=$7, tax=$8, total=$9,
			payment_method=$10, created_at=$11, first_sent_at=$12
		WHERE id = $1`, orderArgs(order)...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM lines WHERE order_id = $1`, id); err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Lines ---

const lineColumns = `id, order_id, dish_id, dish_name, quantity, printed_quantity,
	unit_price, discount_rate, total, note, status, batch, created_at`

func scanLine(row pgx.Row) (*domain.Line, error) {
	var l domain.Line
	var unitPrice, discRate, total pgtype.Numeric
	err := row.Scan(&l.ID, &l.OrderID, &l.DishID, &l.DishName, &l.Quantity,
		&l.PrintedQuantity, &unitPrice, &discRate, &total, &l.Note, &l.Status,
		&l.Batch, &l.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	l.UnitPrice = numericToDecimal(unitPrice)
	l.DiscountRate = numericToDecimal(discRate)
	l.Total = numericToDecimal(total)
	return &l, nil
}

func (s *Store) ListLines(ctx context.Context, orderID uuid.UUID) ([]domain.Line, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+lineColumns+` FROM lines
		WHERE order_id = $1 ORDER BY created_at`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Line
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *l)
	}
	return out, rows.Err()
}

func (s *Store) GetLine(ctx context.Context, id uuid.UUID) (*domain.Line, error) {
	return scanLine(s.db.QueryRow(ctx, `
		SELECT `+lineColumns+` FROM lines WHERE id = $1`, id))
}

func lineArgs(l domain.Line) []any {
	return []any{
		l.ID, l.OrderID, l.DishID, l.DishName, l.Quantity, l.PrintedQuantity,
		decimalToNumeric(l.UnitPrice), decimalToNumeric(l.DiscountRate),
		decimalToNumeric(l.Total), l.Note, l.Status, l.Batch, l.CreatedAt,
	}
}

func (s *Store) CreateLine(ctx context.Context, line domain.Line) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO lines (`+lineColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`, lineArgs(line)...)
	return err
}

func (s *Store) UpdateLine(ctx context.Context, line domain.Line) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE lines SET order_id=$2, dish_id=$3, dish_name=$4, quantity=$5,
			printed_quantity=$6, unit_price=$7, discount_rate=$8, total=$9,
			note=$10, status=$11, batch=$12, created_at=$13
		WHERE id = $1`, lineArgs(line)...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteLine(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM lines WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Printers ---

const printerColumns = `id, name, kind, address, paper_width, is_billing, active`

func scanPrinter(row pgx.Row) (*domain.Printer, error) {
	var p domain.Printer
	err := row.Scan(&p.ID, &p.Name, &p.Kind, &p.Address, &p.PaperWidth,
		&p.IsBilling, &p.Active)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *Store) ListPrinters(ctx context.Context) ([]domain.Printer, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+printerColumns+` FROM printers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Printer
	for rows.Next() {
		p, err := scanPrinter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *Store) GetPrinter(ctx context.Context, id uuid.UUID) (*domain.Printer, error) {
	return scanPrinter(s.db.QueryRow(ctx, `
		SELECT `+printerColumns+` FROM printers WHERE id = $1`, id))
}

func (s *Store) GetBillingPrinter(ctx context.Context) (*domain.Printer, error) {
	return scanPrinter(s.db.QueryRow(ctx, `
		SELECT `+printerColumns+` FROM printers
		WHERE is_billing = true AND active = true LIMIT 1`))
}

func (s *Store) CreatePrinter(ctx context.Context, p domain.Printer) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO printers (`+printerColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.Name, p.Kind, p.Address, p.PaperWidth, p.IsBilling, p.Active)
	return err
}

func (s *Store) UpdatePrinter(ctx context.Context, p domain.Printer) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE printers SET name=$2, kind=$3, address=$4, paper_width=$5,
			is_billing=$6, active=$7
		WHERE id = $1`,
		p.ID, p.Name, p.Kind, p.Address, p.PaperWidth, p.IsBilling, p.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeletePrinter(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM printers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- Templates ---

func (s *Store) loadElements(ctx context.Context, templateID uuid.UUID) ([]domain.Element, error) {
	rows, err := s.db.Query(ctx, `
		SELECT type, content, align, font_size, bold, visible
		FROM template_elements WHERE template_id = $1 ORDER BY position`, templateID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Element
	for rows.Next() {
		var e domain.Element
		if err := rows.Scan(&e.Type, &e.Content, &e.Align, &e.FontSize, &e.Bold, &e.Visible); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) scanTemplate(ctx context.Context, row pgx.Row) (*domain.Template, error) {
	var t domain.Template
	err := row.Scan(&t.ID, &t.Name, &t.Type, &t.PaperWidth, &t.Active)
	if err != nil {
		return nil, notFound(err)
	}
	t.Elements, err = s.loadElements(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, type, paper_width, active FROM templates ORDER BY name`)
	if err != nil {
		return nil, err
	}
	var heads []domain.Template
	for rows.Next() {
		var t domain.Template
		if err := rows.Scan(&t.ID, &t.Name, &t.Type, &t.PaperWidth, &t.Active); err != nil {
			rows.Close()
			return nil, err
		}
		heads = append(heads, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range heads {
		heads[i].Elements, err = s.loadElements(ctx, heads[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return heads, nil
}

func (s *Store) GetTemplate(ctx context.Context, id uuid.UUID) (*domain.Template, error) {
	return s.scanTemplate(ctx, s.db.QueryRow(ctx, `
		SELECT id, name, type, paper_width, active FROM templates WHERE id = $1`, id))
}

func (s *Store) GetActiveTemplate(ctx context.Context, typ, paperWidth string) (*domain.Template, error) {
	return s.scanTemplate(ctx, s.db.QueryRow(ctx, `
		SELECT id, name, type, paper_width, active FROM templates
		WHERE active = true AND type = $1 AND paper_width = $2 LIMIT 1`, typ, paperWidth))
}

func (s *Store) insertElements(ctx context.Context, t domain.Template) error {
	for i, e := range t.Elements {
		_, err := s.db.Exec(ctx, `
			INSERT INTO template_elements (template_id, position, type, content, align, font_size, bold, visible)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			t.ID, i, e.Type, e.Content, e.Align, e.FontSize, e.Bold, e.Visible)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) CreateTemplate(ctx context.Context, t domain.Template) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO templates (id, name, type, paper_width, active)
		VALUES ($1,$2,$3,$4,$5)`,
		t.ID, t.Name, t.Type, t.PaperWidth, t.Active)
	if err != nil {
		return err
	}
	return s.insertElements(ctx, t)
}

func (s *Store) UpdateTemplate(ctx context.Context, t domain.Template) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE templates SET name=$2, type=$3, paper_width=$4, active=$5
		WHERE id = $1`,
		t.ID, t.Name, t.Type, t.PaperWidth, t.Active)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	if _, err := s.db.Exec(ctx, `DELETE FROM template_elements WHERE template_id = $1`, t.ID); err != nil {
		return err
	}
	return s.insertElements(ctx, t)
}

func (s *Store) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM template_elements WHERE template_id = $1`, id); err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Insert helpers for provisioning. Tables, categories and dishes are
// managed by an external admin tool in production; the seed command
// uses these directly.

func (s *Store) InsertTable(ctx context.Context, t domain.Table) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO tables (id, name, type, status)
		VALUES ($1,$2,$3,$4)`,
		t.ID, t.Name, t.Type, t.Status)
	return err
}

func (s *Store) InsertCategory(ctx context.Context, c domain.Category) error {
	var printerID pgtype.UUID
	if c.PrinterID != nil {
		printerID = pgtype.UUID{Bytes: *c.PrinterID, Valid: true}
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO categories (id, name, printer_id)
		VALUES ($1,$2,$3)`,
		c.ID, c.Name, printerID)
	return err
}

func (s *Store) InsertDish(ctx context.Context, d domain.Dish) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO dishes (id, category_id, name, price, active)
		VALUES ($1,$2,$3,$4,$5)`,
		d.ID, d.CategoryID, d.Name, decimalToNumeric(d.Price), d.Active)
	return err
}
