// Package sqlite implementa el libro de existencias sobre SQLite embebido.
//
// Pensado para despliegues de un solo nodo (casas de compra sin servidor de base de datos)
// y para pruebas. Se abre en modo WAL con BEGIN IMMEDIATE: los lectores no bloquean y hay un
// solo escritor a la vez; la espera por el escritor se acota con busy_timeout y al vencer se
// reporta domain.ErrConcurrencyConflict para que el motor reintente.
//
// El esquema se crea al abrir. Cantidades y precios se guardan como TEXT (decimal exacto).
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/materias-primas/internal/domain"
	"github.com/mattn/go-sqlite3"
)

// DefaultBusyTimeoutMS espera por el bloqueo de escritura antes de devolver SQLITE_BUSY.
const DefaultBusyTimeoutMS = 5000

// querier lo implementan *sql.DB y *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB conexión SQLite con el esquema del libro.
type DB struct {
	db *sql.DB
}

// Open abre (o crea) la base en path y aplica el esquema. ":memory:" usa una base en memoria
// de una sola conexión.
func Open(path string, busyTimeoutMS int) (*DB, error) {
	if busyTimeoutMS <= 0 {
		busyTimeoutMS = DefaultBusyTimeoutMS
	}
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_txlock=immediate&_busy_timeout=%d", path, busyTimeoutMS)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	if path == ":memory:" || strings.HasPrefix(path, "file::memory:") {
		db.SetMaxOpenConns(1)
	}
	s := &DB{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrar sqlite: %w", err)
	}
	return s, nil
}

// New envuelve una conexión ya abierta sin aplicar el esquema.
func New(db *sql.DB) *DB {
	return &DB{db: db}
}

// Close cierra la conexión.
func (s *DB) Close() error {
	return s.db.Close()
}

// Ping comprueba la conexión.
func (s *DB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *DB) Documents() *DocumentRepo      { return &DocumentRepo{q: s.db} }
func (s *DB) Stock() *StockRepo             { return &StockRepo{q: s.db} }
func (s *DB) Movements() *StockMovementRepo { return &StockMovementRepo{q: s.db} }
func (s *DB) Warehouses() *WarehouseRepo    { return &WarehouseRepo{q: s.db} }
func (s *DB) Products() *ProductRepo        { return &ProductRepo{q: s.db} }
func (s *DB) Clients() *ClientRepo          { return &ClientRepo{q: s.db} }

func (s *DB) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS warehouses (
	id           TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	phone        TEXT NOT NULL DEFAULT '',
	kind         TEXT NOT NULL,
	parent_id    TEXT REFERENCES warehouses(id),
	municipality TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMP NOT NULL,
	updated_at   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS products (
	id                 TEXT PRIMARY KEY,
	code               TEXT NOT NULL UNIQUE,
	name               TEXT NOT NULL,
	description        TEXT NOT NULL DEFAULT '',
	unit_measure       TEXT NOT NULL,
	category_id        TEXT NOT NULL DEFAULT '',
	type_id            TEXT NOT NULL DEFAULT '',
	purchase_price_mn  TEXT NOT NULL DEFAULT '0',
	purchase_price_mlc TEXT NOT NULL DEFAULT '0',
	sale_price_mn      TEXT NOT NULL DEFAULT '0',
	sale_price_mlc     TEXT NOT NULL DEFAULT '0',
	created_at         TIMESTAMP NOT NULL,
	updated_at         TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS clients (
	id         TEXT PRIMARY KEY,
	code       TEXT NOT NULL,
	name       TEXT NOT NULL,
	organism   TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS movement_documents (
	id                       TEXT PRIMARY KEY,
	kind                     TEXT NOT NULL,
	date                     TIMESTAMP NOT NULL,
	client_id                TEXT,
	warehouse_id             TEXT,
	origin_warehouse_id      TEXT,
	destination_warehouse_id TEXT,
	source_product_id        TEXT,
	source_quantity          TEXT,
	output_product_id        TEXT,
	output_quantity          TEXT,
	confirmed                BOOLEAN NOT NULL DEFAULT 0,
	confirmed_at             TIMESTAMP,
	confirmed_by             TEXT NOT NULL DEFAULT '',
	created_at               TIMESTAMP NOT NULL,
	created_by               TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_movement_documents_date ON movement_documents(date);

CREATE TABLE IF NOT EXISTS movement_document_lines (
	document_id TEXT NOT NULL REFERENCES movement_documents(id) ON DELETE CASCADE,
	line        INTEGER NOT NULL,
	product_id  TEXT NOT NULL,
	quantity    TEXT NOT NULL,
	price_mn    TEXT NOT NULL DEFAULT '0',
	price_mlc   TEXT NOT NULL DEFAULT '0',
	PRIMARY KEY (document_id, line)
);

CREATE TABLE IF NOT EXISTS stock_entries (
	warehouse_id TEXT NOT NULL,
	product_id   TEXT NOT NULL,
	unit_measure TEXT NOT NULL DEFAULT '',
	quantity     TEXT NOT NULL DEFAULT '0',
	updated_at   TIMESTAMP NOT NULL,
	PRIMARY KEY (warehouse_id, product_id)
);

CREATE TABLE IF NOT EXISTS stock_movements (
	id            TEXT PRIMARY KEY,
	document_id   TEXT NOT NULL,
	document_kind TEXT NOT NULL,
	line          INTEGER NOT NULL,
	warehouse_id  TEXT NOT NULL,
	product_id    TEXT NOT NULL,
	unit_measure  TEXT NOT NULL DEFAULT '',
	quantity      TEXT NOT NULL,
	balance_after TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL,
	created_by    TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_stock_movements_key ON stock_movements(warehouse_id, product_id);
`

// mapError traduce los códigos de SQLite a errores de dominio.
// SQLITE_BUSY/LOCKED (escritor ocupado) es transitorio y se reintenta.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	var se sqlite3.Error
	if errors.As(err, &se) {
		switch se.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return fmt.Errorf("%w: %v", domain.ErrConcurrencyConflict, err)
		case sqlite3.ErrConstraint:
			if se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey {
				return fmt.Errorf("%w: %v", domain.ErrDuplicate, err)
			}
		}
	}
	return err
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
