package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/materias-primas/internal/domain"
	"github.com/jhoicas/materias-primas/internal/domain/entity"
	domaininv "github.com/jhoicas/materias-primas/internal/domain/inventory"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
	"github.com/jhoicas/materias-primas/pkg/logger"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/jhoicas/materias-primas/internal/application/inventory"

// EngineConfig parámetros del motor de contabilización.
type EngineConfig struct {
	Policy     domaininv.NegativePolicy
	MaxRetries int           // reintentos adicionales ante conflicto de concurrencia
	RetryDelay time.Duration // espera base entre intentos (se multiplica por el número de intento)
}

// PostingEngine es la única vía por la que un documento afecta al submayor.
// Draft -> Confirmed en una sola transacción: existencias, kardex y marca de confirmado
// son durables juntos o no lo son.
type PostingEngine struct {
	docs      repository.DocumentRepository
	txRunner  TxRunner
	master    MasterData
	publisher EventPublisher
	cfg       EngineConfig
	log       zerolog.Logger
	tracer    trace.Tracer
	now       func() time.Time
}

// NewPostingEngine construye el motor. publisher puede ser nil (no se publican eventos).
func NewPostingEngine(
	docs repository.DocumentRepository,
	txRunner TxRunner,
	master MasterData,
	publisher EventPublisher,
	cfg EngineConfig,
	log zerolog.Logger,
) *PostingEngine {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if cfg.Policy == "" {
		cfg.Policy = domaininv.NegativePolicyReject
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 20 * time.Millisecond
	}
	return &PostingEngine{
		docs:      docs,
		txRunner:  txRunner,
		master:    master,
		publisher: publisher,
		cfg:       cfg,
		log:       log,
		tracer:    otel.Tracer(tracerName),
		now:       time.Now,
	}
}

// Confirmation resultado de una confirmación exitosa.
type Confirmation struct {
	Document  *entity.MovementDocument
	Movements []*entity.StockMovement
	// Negative filas que quedaron bajo cero (solo con política allow).
	Negative []entity.StockKey
	Attempts int
}

// Confirm contabiliza el documento. userID identifica a quien confirma (puede ser vacío).
//
// Errores: *domain.NotFoundError, *domain.AlreadyConfirmedError, *domain.ValidationError,
// *domain.NegativeStockError y *domain.ConcurrencyConflictError (agotados los reintentos).
func (e *PostingEngine) Confirm(ctx context.Context, documentID, userID string) (*Confirmation, error) {
	ctx, span := e.tracer.Start(ctx, "PostingEngine.Confirm",
		trace.WithAttributes(attribute.String("document.id", documentID)))
	defer span.End()

	res, err := e.confirm(ctx, documentID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("document.kind", string(res.Document.Kind)),
		attribute.Int("confirm.attempts", res.Attempts),
		attribute.Int("confirm.deltas", len(res.Movements)),
	)
	return res, nil
}

func (e *PostingEngine) confirm(ctx context.Context, documentID, userID string) (*Confirmation, error) {
	// 1. Cargar documento y comprobar estado
	doc, err := e.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("cargar documento: %w", err)
	}
	if doc == nil {
		return nil, &domain.NotFoundError{Resource: "documento", ID: documentID}
	}
	if doc.Confirmed {
		return nil, &domain.AlreadyConfirmedError{DocumentID: documentID}
	}

	// 2. Validación del tipo y de referencias; ninguna mutación todavía
	if err := domaininv.ValidateDocument(doc); err != nil {
		return nil, err
	}
	units, missing, err := e.master.resolve(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("resolver referencias: %w", err)
	}
	if err := asValidation(missing); err != nil {
		return nil, err
	}

	// 3. Deltas en orden de línea
	deltas, err := domaininv.ComputeDeltas(doc, units)
	if err != nil {
		return nil, err
	}

	// 4-6. Transacción con reintentos ante conflicto
	log := logger.WithTrace(ctx, e.log).With().Str("document_id", documentID).Str("kind", string(doc.Kind)).Logger()
	maxAttempts := e.cfg.MaxRetries + 1
	for attempt := 1; ; attempt++ {
		res, err := e.post(ctx, doc, deltas, userID)
		if err == nil {
			res.Attempts = attempt
			e.afterCommit(ctx, log, res)
			return res, nil
		}
		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			return nil, err
		}
		if attempt >= maxAttempts {
			log.Warn().Err(err).Int("attempt", attempt).Msg("conflicto de concurrencia: reintentos agotados")
			return nil, &domain.ConcurrencyConflictError{DocumentID: documentID, Attempts: attempt, Err: err}
		}
		log.Debug().Err(err).Int("attempt", attempt).Msg("conflicto de concurrencia, reintentando")
		select {
		case <-ctx.Done():
			return nil, &domain.ConcurrencyConflictError{DocumentID: documentID, Attempts: attempt, Err: ctx.Err()}
		case <-time.After(time.Duration(attempt) * e.cfg.RetryDelay):
		}
	}
}

// post aplica todos los deltas y marca el documento dentro de una única transacción.
func (e *PostingEngine) post(ctx context.Context, doc *entity.MovementDocument, deltas []entity.StockDelta, userID string) (*Confirmation, error) {
	res := &Confirmation{}
	err := e.txRunner.Run(ctx, func(
		docRepo repository.DocumentRepository,
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		// Bloquea la cabecera: una confirmación o borrado concurrente espera aquí
		locked, err := docRepo.GetForUpdate(ctx, doc.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return &domain.NotFoundError{Resource: "documento", ID: doc.ID}
		}
		if locked.Confirmed {
			return &domain.AlreadyConfirmedError{DocumentID: doc.ID}
		}

		// Bloqueo de filas en orden total; crea en cero las que no existen
		units := make(map[entity.StockKey]string, len(deltas))
		for _, d := range deltas {
			if _, ok := units[d.Key()]; !ok {
				units[d.Key()] = d.UnitMeasure
			}
		}
		entries := make(map[entity.StockKey]*entity.StockEntry, len(units))
		for _, k := range domaininv.LockOrder(deltas) {
			entry, err := stockRepo.GetForUpdate(ctx, k.WarehouseID, k.ProductID, units[k])
			if err != nil {
				return err
			}
			entries[k] = entry
		}

		now := e.now().UTC()
		movements := make([]*entity.StockMovement, 0, len(deltas))
		for _, d := range deltas {
			entry := entries[d.Key()]
			if _, err := domaininv.ApplyDelta(entry, d, e.cfg.Policy); err != nil {
				return err
			}
			movements = append(movements, &entity.StockMovement{
				ID:           uuid.New().String(),
				DocumentID:   doc.ID,
				DocumentKind: doc.Kind,
				Line:         d.Line,
				WarehouseID:  d.WarehouseID,
				ProductID:    d.ProductID,
				UnitMeasure:  entry.UnitMeasure,
				Quantity:     d.Quantity,
				BalanceAfter: entry.Quantity,
				CreatedAt:    now,
				CreatedBy:    userID,
			})
		}

		for _, k := range domaininv.LockOrder(deltas) {
			entry := entries[k]
			entry.UpdatedAt = now
			if err := stockRepo.Upsert(ctx, entry); err != nil {
				return err
			}
			if entry.Quantity.IsNegative() {
				res.Negative = append(res.Negative, k)
			}
		}
		for _, m := range movements {
			if err := movRepo.Create(ctx, m); err != nil {
				return err
			}
		}
		if err := docRepo.MarkConfirmed(ctx, doc.ID, now, userID); err != nil {
			if errors.Is(err, domain.ErrAlreadyConfirmed) {
				return &domain.AlreadyConfirmedError{DocumentID: doc.ID}
			}
			return err
		}

		confirmed := *locked
		confirmed.Confirmed = true
		confirmed.ConfirmedAt = &now
		confirmed.ConfirmedBy = userID
		res.Document = &confirmed
		res.Movements = movements
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// afterCommit registra advertencias y publica el evento. Un fallo aquí no revierte nada.
func (e *PostingEngine) afterCommit(ctx context.Context, log zerolog.Logger, res *Confirmation) {
	for _, k := range res.Negative {
		log.Warn().
			Str("warehouse_id", k.WarehouseID).
			Str("product_id", k.ProductID).
			Msg("existencia negativa tras confirmar (política allow)")
	}
	log.Info().Int("attempt", res.Attempts).Int("deltas", len(res.Movements)).Msg("documento confirmado")

	evt := DocumentConfirmed{
		DocumentID:  res.Document.ID,
		Kind:        res.Document.Kind,
		ConfirmedBy: res.Document.ConfirmedBy,
	}
	if res.Document.ConfirmedAt != nil {
		evt.ConfirmedAt = *res.Document.ConfirmedAt
	}
	for _, m := range res.Movements {
		evt.Changes = append(evt.Changes, BalanceChange{
			WarehouseID:  m.WarehouseID,
			ProductID:    m.ProductID,
			UnitMeasure:  m.UnitMeasure,
			Line:         m.Line,
			Quantity:     m.Quantity,
			BalanceAfter: m.BalanceAfter,
		})
	}
	if err := e.publisher.PublishDocumentConfirmed(ctx, evt); err != nil {
		log.Error().Err(err).Msg("no se pudo publicar el evento de confirmación")
	}
}
