package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/materias-primas/internal/domain/entity"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit. Los conflictos de bloqueo o serialización
// del almacenamiento se devuelven envueltos en domain.ErrConcurrencyConflict.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		docRepo repository.DocumentRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// EventPublisher publica eventos de dominio después del commit.
type EventPublisher interface {
	PublishDocumentConfirmed(ctx context.Context, evt DocumentConfirmed) error
}

// DocumentConfirmed evento emitido cuando un documento queda contabilizado.
type DocumentConfirmed struct {
	DocumentID  string              `json:"document_id"`
	Kind        entity.DocumentKind `json:"kind"`
	ConfirmedAt time.Time           `json:"confirmed_at"`
	ConfirmedBy string              `json:"confirmed_by,omitempty"`
	Changes     []BalanceChange     `json:"changes"`
}

// BalanceChange delta aplicado y saldo resultante de una fila del submayor.
type BalanceChange struct {
	WarehouseID  string          `json:"warehouse_id"`
	ProductID    string          `json:"product_id"`
	UnitMeasure  string          `json:"unit_measure"`
	Line         int             `json:"line"`
	Quantity     decimal.Decimal `json:"quantity"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// NopPublisher descarta los eventos. Se usa cuando no hay brokers configurados.
type NopPublisher struct{}

func (NopPublisher) PublishDocumentConfirmed(context.Context, DocumentConfirmed) error { return nil }
