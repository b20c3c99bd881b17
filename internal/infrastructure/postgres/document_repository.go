package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/materias-primas/internal/domain"
	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo documentos de movimiento sobre PostgreSQL (cabecera + líneas).
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `id, kind, date, client_id, warehouse_id, origin_warehouse_id, destination_warehouse_id,
	source_product_id, source_quantity, output_product_id, output_quantity,
	confirmed, confirmed_at, confirmed_by, created_at, created_by`

// Create inserta cabecera y líneas de forma atómica (transacción o savepoint).
func (r *DocumentRepo) Create(ctx context.Context, doc *entity.MovementDocument) error {
	return pgx.BeginFunc(ctx, r.q, func(tx pgx.Tx) error {
		var srcProduct, outProduct *string
		var srcQty, outQty decimal.NullDecimal
		if c := doc.Conversion; c != nil {
			srcProduct = nullString(c.SourceProductID)
			outProduct = nullString(c.OutputProductID)
			srcQty = decimal.NewNullDecimal(c.SourceQuantity)
			outQty = decimal.NewNullDecimal(c.OutputQuantity)
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO movement_documents (`+documentColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
			doc.ID, string(doc.Kind), doc.Date, nullString(doc.ClientID), nullString(doc.WarehouseID),
			nullString(doc.OriginWarehouseID), nullString(doc.DestinationWarehouseID),
			srcProduct, srcQty, outProduct, outQty,
			doc.Confirmed, doc.ConfirmedAt, doc.ConfirmedBy, doc.CreatedAt, doc.CreatedBy)
		if err != nil {
			return fmt.Errorf("insert document: %w", mapError(err))
		}
		for _, l := range doc.Lines {
			_, err := tx.Exec(ctx, `
				INSERT INTO movement_document_lines (document_id, line, product_id, quantity, price_mn, price_mlc)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				doc.ID, l.Line, l.ProductID, l.Quantity, l.PriceMN, l.PriceMLC)
			if err != nil {
				return fmt.Errorf("insert document line: %w", mapError(err))
			}
		}
		return nil
	})
}

// GetByID obtiene el documento con sus líneas o (nil, nil).
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.MovementDocument, error) {
	return r.get(ctx, `SELECT `+documentColumns+` FROM movement_documents WHERE id = $1`, id)
}

// GetForUpdate bloquea la cabecera (FOR UPDATE) hasta el fin de la transacción.
// Dos confirmaciones del mismo documento quedan serializadas aquí.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.MovementDocument, error) {
	return r.get(ctx, `SELECT `+documentColumns+` FROM movement_documents WHERE id = $1 FOR UPDATE`, id)
}

func (r *DocumentRepo) get(ctx context.Context, query, id string) (*entity.MovementDocument, error) {
	doc, err := scanDocument(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get document: %w", mapError(err))
	}
	if err := r.loadLines(ctx, []*entity.MovementDocument{doc}); err != nil {
		return nil, err
	}
	return doc, nil
}

// MarkConfirmed pasa el documento a confirmado si aún no lo está.
func (r *DocumentRepo) MarkConfirmed(ctx context.Context, id string, at time.Time, by string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE movement_documents SET confirmed = true, confirmed_at = $1, confirmed_by = $2
		WHERE id = $3 AND confirmed = false`,
		at, by, id)
	if err != nil {
		return fmt.Errorf("confirm document: %w", mapError(err))
	}
	return r.checkAffected(ctx, tag, id)
}

// DeleteDraft elimina un borrador; las líneas se borran en cascada.
func (r *DocumentRepo) DeleteDraft(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM movement_documents WHERE id = $1 AND confirmed = false`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", mapError(err))
	}
	return r.checkAffected(ctx, tag, id)
}

func (r *DocumentRepo) checkAffected(ctx context.Context, tag pgconn.CommandTag, id string) error {
	if tag.RowsAffected() > 0 {
		return nil
	}
	var confirmed bool
	err := r.q.QueryRow(ctx, `SELECT confirmed FROM movement_documents WHERE id = $1`, id).Scan(&confirmed)
	if errors.Is(err, pgx.ErrNoRows) {
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
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Kind != "" {
		where = append(where, "kind = "+arg(string(f.Kind)))
	}
	if f.WarehouseID != "" {
		p := arg(f.WarehouseID)
		where = append(where, "(warehouse_id = "+p+" OR origin_warehouse_id = "+p+" OR destination_warehouse_id = "+p+")")
	}
	if f.Confirmed != nil {
		where = append(where, "confirmed = "+arg(*f.Confirmed))
	}
	if f.From != nil {
		where = append(where, "date >= "+arg(*f.From))
	}
	if f.To != nil {
		where = append(where, "date <= "+arg(*f.To))
	}
	query := `SELECT ` + documentColumns + ` FROM movement_documents`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date DESC, created_at DESC, id`
	if f.Limit > 0 {
		query += ` LIMIT ` + arg(f.Limit)
	}
	if f.Offset > 0 {
		query += ` OFFSET ` + arg(f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
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
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
		ids = append(ids, d.ID)
	}
	rows, err := r.q.Query(ctx, `
		SELECT document_id, line, product_id, quantity, price_mn, price_mlc
		FROM movement_document_lines
		WHERE document_id = ANY($1)
		ORDER BY document_id, line`, ids)
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

func scanDocument(row pgx.Row) (*entity.MovementDocument, error) {
	var (
		d                                       entity.MovementDocument
		kind                                    string
		clientID, warehouseID, originID, destID *string
		srcProduct, outProduct                  *string
		srcQty, outQty                          decimal.NullDecimal
	)
	err := row.Scan(&d.ID, &kind, &d.Date, &clientID, &warehouseID, &originID, &destID,
		&srcProduct, &srcQty, &outProduct, &outQty,
		&d.Confirmed, &d.ConfirmedAt, &d.ConfirmedBy, &d.CreatedAt, &d.CreatedBy)
	if err != nil {
		return nil, err
	}
	d.Kind = entity.DocumentKind(kind)
	d.ClientID = derefString(clientID)
	d.WarehouseID = derefString(warehouseID)
	d.OriginWarehouseID = derefString(originID)
	d.DestinationWarehouseID = derefString(destID)
	if srcProduct != nil || outProduct != nil {
		d.Conversion = &entity.Conversion{
			SourceProductID: derefString(srcProduct),
			SourceQuantity:  srcQty.Decimal,
			OutputProductID: derefString(outProduct),
			OutputQuantity:  outQty.Decimal,
		}
	}
	return &d, nil
}
