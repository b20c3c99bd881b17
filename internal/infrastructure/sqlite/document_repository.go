package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/materias-primas/internal/domain"
	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo documentos de movimiento sobre SQLite (cabecera + líneas).
type DocumentRepo struct {
	q querier
}

const documentColumns = `id, kind, date, client_id, warehouse_id, origin_warehouse_id, destination_warehouse_id,
	source_product_id, source_quantity, output_product_id, output_quantity,
	confirmed, confirmed_at, confirmed_by, created_at, created_by`

// Create inserta cabecera y líneas en una sola transacción.
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.MovementDocument) error {
	if db, ok := r.q.(*sql.DB); ok {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin transaction: %w", mapError(err))
		}
		defer func() { _ = tx.Rollback() }()
		if err := (&DocumentRepo{q: tx}).Create(ctx, doc); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit transaction: %w", mapError(err))
		}
		return nil
	}

	var srcProduct, outProduct, srcQty, outQty sql.NullString
	if c := doc.Conversion; c != nil {
		srcProduct = nullString(c.SourceProductID)
		outProduct = nullString(c.OutputProductID)
		srcQty = nullString(c.SourceQuantity.String())
		outQty = nullString(c.OutputQuantity.String())
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO movement_documents (`+documentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, string(doc.Kind), doc.Date.UTC(), nullString(doc.ClientID), nullString(doc.WarehouseID),
		nullString(doc.OriginWarehouseID), nullString(doc.DestinationWarehouseID),
		srcProduct, srcQty, outProduct, outQty,
		doc.Confirmed, nullTime(doc.ConfirmedAt), doc.ConfirmedBy, doc.CreatedAt.UTC(), doc.CreatedBy)
	if err != nil {
		return fmt.Errorf("insert document: %w", mapError(err))
	}
	for _, l := range doc.Lines {
		_, err := r.q.ExecContext(ctx, `
			INSERT INTO movement_document_lines (document_id, line, product_id, quantity, price_mn, price_mlc)
			VALUES (?, ?, ?, ?, ?, ?)`,
			doc.ID, l.Line, l.ProductID, l.Quantity.String(), l.PriceMN.String(), l.PriceMLC.String())
		if err != nil {
			return fmt.Errorf("insert document line: %w", mapError(err))
		}
	}
	return nil
}

// GetByID obtiene el documento con sus líneas o (nil, nil).
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.MovementDocument, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+documentColumns+` FROM movement_documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", mapError(err))
	}
	if err := r.loadLines(ctx, []*entity.MovementDocument{doc}); err != nil {
		return nil, err
	}
	return doc, nil
}

// GetForUpdate igual que GetByID: en SQLite la transacción ya tiene el bloqueo de escritura.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.MovementDocument, error) {
	return r.GetByID(ctx, id)
}

// MarkConfirmed pasa el documento a confirmado si aún no lo está.
func (r *DocumentRepo) MarkConfirmed(ctx context.Context, id string, at time.Time, by string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE movement_documents SET confirmed = 1, confirmed_at = ?, confirmed_by = ?
		WHERE id = ? AND confirmed = 0`,
		at.UTC(), by, id)
	if err != nil {
		return fmt.Errorf("confirm document: %w", mapError(err))
	}
	return r.checkAffected(ctx, res, id)
}

// DeleteDraft elimina un borrador; las líneas se borran en cascada.
func (r *DocumentRepo) DeleteDraft(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM movement_documents WHERE id = ? AND confirmed = 0`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", mapError(err))
	}
	return r.checkAffected(ctx, res, id)
}

// checkAffected distingue documento inexistente de documento ya confirmado cuando no se tocó ninguna fila.
func (r *DocumentRepo) checkAffected(ctx context.Context, res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}
	var confirmed bool
	err = r.q.QueryRowContext(ctx, `SELECT confirmed FROM movement_documents WHERE id = ?`, id).Scan(&confirmed)
	if errors.Is(err, sql.ErrNoRows) {
		return &domain.NotFoundError{Resource: "documento", ID: id}
	}
	if err != nil {
		return fmt.Errorf("check document: %w", mapError(err))
	}
	return fmt.Errorf("%w: documento %s", domain.ErrAlreadyConfirmed, id)
}

// List documentos filtrados, por fecha descendente.
func (r *DocumentRepo) List(ctx context.Context, f repository.DocumentFilter) ([]*entity.MovementDocument, error) {
	var where []string
	var args []any
	if f.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(f.Kind))
	}
	if f.WarehouseID != "" {
		where = append(where, "(warehouse_id = ? OR origin_warehouse_id = ? OR destination_warehouse_id = ?)")
		args = append(args, f.WarehouseID, f.WarehouseID, f.WarehouseID)
	}
	if f.Confirmed != nil {
		where = append(where, "confirmed = ?")
		args = append(args, *f.Confirmed)
	}
	if f.From != nil {
		where = append(where, "date >= ?")
		args = append(args, f.From.UTC())
	}
	if f.To != nil {
		where = append(where, "date <= ?")
		args = append(args, f.To.UTC())
	}
	query := `SELECT ` + documentColumns + ` FROM movement_documents`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	limit := f.Limit
	if limit <= 0 {
		limit = -1
	}
	query += ` ORDER BY date DESC, created_at DESC, id LIMIT ? OFFSET ?`
	args = append(args, limit, f.Offset)

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", mapError(err))
	}
	docs := make([]*entity.MovementDocument, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, docs); err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *DocumentRepo) loadLines(ctx context.Context, docs []*entity.MovementDocument) error {
	if len(docs) == 0 {
		return nil
	}
	byID := make(map[string]*entity.MovementDocument, len(docs))
	args := make([]any, 0, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
		args = append(args, d.ID)
	}
	rows, err := r.q.QueryContext(ctx, `
		SELECT document_id, line, product_id, quantity, price_mn, price_mlc
		FROM movement_document_lines
		WHERE document_id IN (`+strings.TrimSuffix(strings.Repeat("?,", len(args)), ",")+`)
		ORDER BY document_id, line`, args...)
	if err != nil {
		return fmt.Errorf("list document lines: %w", mapError(err))
	}
	defer rows.Close()
	for rows.Next() {
		var docID string
		var l entity.DocumentLine
		if err := rows.Scan(&docID, &l.Line, &l.ProductID, &l.Quantity, &l.PriceMN, &l.PriceMLC); err != nil {
			return fmt.Errorf("scan document line: %w", err)
		}
		if d := byID[docID]; d != nil {
			d.Lines = append(d.Lines, l)
		}
	}
	return rows.Err()
}

func scanDocument(s scanner) (*entity.MovementDocument, error) {
	var (
		d                                       entity.MovementDocument
		kind                                    string
		clientID, warehouseID, originID, destID sql.NullString
		srcProduct, srcQty, outProduct, outQty  sql.NullString
		confirmedAt                             sql.NullTime
	)
	err := s.Scan(&d.ID, &kind, &d.Date, &clientID, &warehouseID, &originID, &destID,
		&srcProduct, &srcQty, &outProduct, &outQty,
		&d.Confirmed, &confirmedAt, &d.ConfirmedBy, &d.CreatedAt, &d.CreatedBy)
	if err != nil {
		return nil, err
	}
	d.Kind = entity.DocumentKind(kind)
	d.ClientID = clientID.String
	d.WarehouseID = warehouseID.String
	d.OriginWarehouseID = originID.String
	d.DestinationWarehouseID = destID.String
	if confirmedAt.Valid {
		t := confirmedAt.Time
		d.ConfirmedAt = &t
	}
	if srcProduct.Valid || outProduct.Valid {
		c := &entity.Conversion{SourceProductID: srcProduct.String, OutputProductID: outProduct.String}
		if c.SourceQuantity, err = decimalOrZero(srcQty); err != nil {
			return nil, err
		}
		if c.OutputQuantity, err = decimalOrZero(outQty); err != nil {
			return nil, err
		}
		d.Conversion = c
	}
	return &d, nil
}

func decimalOrZero(s sql.NullString) (decimal.Decimal, error) {
	if !s.Valid || s.String == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s.String)
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
