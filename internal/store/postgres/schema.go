package postgres

import "context"

const schema = `
CREATE TABLE IF NOT EXISTS printers (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL,
	kind        TEXT NOT NULL CHECK (kind IN ('NETWORK','LOCAL')),
	address     TEXT NOT NULL,
	paper_width TEXT NOT NULL CHECK (paper_width IN ('58','80')),
	is_billing  BOOLEAN NOT NULL DEFAULT false,
	active      BOOLEAN NOT NULL DEFAULT true
);

CREATE TABLE IF NOT EXISTS tables (
	id     UUID PRIMARY KEY,
	name   TEXT NOT NULL,
	type   TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL CHECK (status IN ('EMPTY','OCCUPIED'))
);

CREATE TABLE IF NOT EXISTS categories (
	id         UUID PRIMARY KEY,
	name       TEXT NOT NULL,
	printer_id UUID REFERENCES printers(id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS dishes (
	id          UUID PRIMARY KEY,
	category_id UUID NOT NULL REFERENCES categories(id),
	name        TEXT NOT NULL,
	price       NUMERIC(14,2) NOT NULL,
	active      BOOLEAN NOT NULL DEFAULT true
);

CREATE TABLE IF NOT EXISTS orders (
	id               UUID PRIMARY KEY,
	table_id         UUID NOT NULL REFERENCES tables(id),
	staff            TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL CHECK (status IN ('PENDING','PAID','CANCELLED')),
	subtotal         NUMERIC(14,2) NOT NULL DEFAULT 0,
	discount_percent NUMERIC(5,2) NOT NULL DEFAULT 0,
	discount_amount  NUMERIC(14,2) NOT NULL DEFAULT 0,
	tax              NUMERIC(14,2) NOT NULL DEFAULT 0,
	total            NUMERIC(14,2) NOT NULL DEFAULT 0,
	payment_method   TEXT NOT NULL DEFAULT '',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	first_sent_at    TIMESTAMPTZ
);

-- One running order per table at a time.
CREATE UNIQUE INDEX IF NOT EXISTS orders_one_pending_per_table
	ON orders (table_id) WHERE status = 'PENDING';

CREATE TABLE IF NOT EXISTS lines (
	id               UUID PRIMARY KEY,
	order_id         UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
	dish_id          UUID NOT NULL REFERENCES dishes(id),
	dish_name        TEXT NOT NULL,
	quantity         INT NOT NULL DEFAULT 0,
	printed_quantity INT NOT NULL DEFAULT 0,
	unit_price       NUMERIC(14,2) NOT NULL,
	discount_rate    NUMERIC(5,2) NOT NULL DEFAULT 0,
	total            NUMERIC(14,2) NOT NULL DEFAULT 0,
	note             TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL CHECK (status IN ('NEW','SENT','MODIFIED','DONE')),
	batch            INT NOT NULL DEFAULT 0,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS templates (
	id          UUID PRIMARY KEY,
	name        TEXT NOT NULL,
	type        TEXT NOT NULL CHECK (type IN ('BILL','KITCHEN')),
	paper_width TEXT NOT NULL CHECK (paper_width IN ('58','80')),
	active      BOOLEAN NOT NULL DEFAULT true
);

CREATE TABLE IF NOT EXISTS template_elements (
	template_id UUID NOT NULL REFERENCES templates(id) ON DELETE CASCADE,
	position    INT NOT NULL,
	type        TEXT NOT NULL,
	content     TEXT NOT NULL DEFAULT '',
	align       TEXT NOT NULL DEFAULT 'LEFT',
	font_size   TEXT NOT NULL DEFAULT 'NORMAL',
	bold        BOOLEAN NOT NULL DEFAULT false,
	visible     BOOLEAN NOT NULL DEFAULT true,
	PRIMARY KEY (template_id, position)
);
`

// EnsureSchema creates all tables if they do not exist yet. Called by
// the seed command before loading demo data.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schema)
	return err
}
