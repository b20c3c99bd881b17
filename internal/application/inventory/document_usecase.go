package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/materias-primas/internal/application/dto"
	"github.com/jhoicas/materias-primas/internal/domain"
	"github.com/jhoicas/materias-primas/internal/domain/entity"
	domaininv "github.com/jhoicas/materias-primas/internal/domain/inventory"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DocumentUseCase alta, consulta y borrado de documentos en borrador.
// Crear un documento nunca toca el submayor.
type DocumentUseCase struct {
	docs     repository.DocumentRepository
	txRunner TxRunner
	master   MasterData
	log      zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(docs repository.DocumentRepository, txRunner TxRunner, master MasterData, log zerolog.Logger) *DocumentUseCase {
	return &DocumentUseCase{
		docs:     docs,
		txRunner: txRunner,
		master:   master,
		log:      log,
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
}

// Create registra un documento en borrador.
// Errores: *domain.ValidationError (forma) y *domain.NotFoundError (producto, almacén o cliente inexistente).
func (uc *DocumentUseCase) Create(ctx context.Context, userID string, in dto.CreateDocumentRequest) (*dto.DocumentResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "DocumentUseCase.Create",
		trace.WithAttributes(attribute.String("document.kind", in.Kind)))
	defer span.End()

	doc, err := uc.create(ctx, userID, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("document.id", doc.ID))
	return ToDocumentResponse(doc), nil
}

func (uc *DocumentUseCase) create(ctx context.Context, userID string, in dto.CreateDocumentRequest) (*entity.MovementDocument, error) {
	doc, err := documentFromRequest(in)
	if err != nil {
		return nil, err
	}
	if err := domaininv.ValidateDocument(doc); err != nil {
		return nil, err
	}
	_, missing, err := uc.master.resolve(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("resolver referencias: %w", err)
	}
	if err := notFound(missing); err != nil {
		return nil, err
	}

	doc.ID = uuid.New().String()
	doc.CreatedAt = uc.now().UTC()
	doc.CreatedBy = userID
	if err := uc.docs.Create(ctx, doc); err != nil {
		return nil, err
	}
	uc.log.Info().Str("document_id", doc.ID).Str("kind", string(doc.Kind)).Msg("documento creado en borrador")
	return doc, nil
}

// Get obtiene un documento por ID.
func (uc *DocumentUseCase) Get(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	doc, err := uc.docs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, &domain.NotFoundError{Resource: "documento", ID: id}
	}
	return ToDocumentResponse(doc), nil
}

// List lista documentos con filtros y paginación.
func (uc *DocumentUseCase) List(ctx context.Context, q dto.ListDocumentsQuery) (*dto.DocumentListResponse, error) {
	filter, err := filterFromQuery(q)
	if err != nil {
		return nil, err
	}
	list, err := uc.docs.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DocumentResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *ToDocumentResponse(d))
	}
	return &dto.DocumentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// DeleteDraft elimina un documento no confirmado. No tiene efecto sobre el submayor.
// Errores: *domain.NotFoundError y *domain.AlreadyConfirmedError.
func (uc *DocumentUseCase) DeleteDraft(ctx context.Context, id string) error {
	err := uc.txRunner.Run(ctx, func(
		docRepo repository.DocumentRepository,
		_ repository.StockRepository,
		_ repository.StockMovementRepository,
	) error {
		doc, err := docRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if doc == nil {
			return &domain.NotFoundError{Resource: "documento", ID: id}
		}
		if doc.Confirmed {
			return &domain.AlreadyConfirmedError{DocumentID: id}
		}
		return docRepo.DeleteDraft(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("document_id", id).Msg("borrador eliminado")
	return nil
}

func documentFromRequest(in dto.CreateDocumentRequest) (*entity.MovementDocument, error) {
	doc := &entity.MovementDocument{
		Kind:                   entity.DocumentKind(in.Kind),
		ClientID:               in.ClientID,
		WarehouseID:            in.WarehouseID,
		OriginWarehouseID:      in.OriginWarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
	}
	if in.Date != "" {
		date, err := time.Parse(dateLayout, in.Date)
		if err != nil {
			verr := &domain.ValidationError{}
			verr.Add(0, "date", "formato esperado YYYY-MM-DD")
			return nil, verr
		}
		doc.Date = date
	}
	for i, l := range in.Lines {
		doc.Lines = append(doc.Lines, entity.DocumentLine{
			Line:      i + 1,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			PriceMN:   l.PriceMN,
			PriceMLC:  l.PriceMLC,
		})
	}
	if c := in.Conversion; c != nil {
		doc.Conversion = &entity.Conversion{
			SourceProductID: c.SourceProductID,
			SourceQuantity:  c.SourceQuantity,
			OutputProductID: c.OutputProductID,
			OutputQuantity:  c.OutputQuantity,
		}
	}
	return doc, nil
}

func filterFromQuery(q dto.ListDocumentsQuery) (repository.DocumentFilter, error) {
	page := dto.PageRequest{Limit: q.Limit, Offset: q.Offset}
	page.DefaultPage()
	f := repository.DocumentFilter{
		Kind:        entity.DocumentKind(q.Kind),
		WarehouseID: q.WarehouseID,
		Limit:       page.Limit,
		Offset:      page.Offset,
	}
	switch entity.DocumentStatus(q.Status) {
	case entity.DocumentStatusDraft:
		v := false
		f.Confirmed = &v
	case entity.DocumentStatusConfirmed:
		v := true
		f.Confirmed = &v
	}
	verr := &domain.ValidationError{}
	if q.From != "" {
		t, err := time.Parse(dateLayout, q.From)
		if err != nil {
			verr.Add(0, "from", "formato esperado YYYY-MM-DD")
		}
		f.From = &t
	}
	if q.To != "" {
		t, err := time.Parse(dateLayout, q.To)
		if err != nil {
			verr.Add(0, "to", "formato esperado YYYY-MM-DD")
		}
		f.To = &t
	}
	return f, verr.OrNil()
}
