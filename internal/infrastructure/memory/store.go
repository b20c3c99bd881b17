package memory

import (
	"sync"
	"time"

	"github.com/jhoicas/materias-primas/internal/domain/entity"
)

// DefaultLockWait espera máxima por un bloqueo antes de reportar conflicto de concurrencia.
const DefaultLockWait = 2 * time.Second

// Store almacenamiento en memoria del libro y del maestro de datos.
// Pensado para pruebas y despliegues de un solo proceso; no persiste entre reinicios.
type Store struct {
	mu         sync.RWMutex
	documents  map[string]*entity.MovementDocument
	stock      map[entity.StockKey]*entity.StockEntry
	movements  []*entity.StockMovement
	warehouses map[string]*entity.Warehouse
	products   map[string]*entity.Product
	clients    map[string]*entity.Client

	locks    *keyLocks
	lockWait time.Duration
}

// NewStore crea un almacenamiento vacío. lockWait <= 0 usa DefaultLockWait.
func NewStore(lockWait time.Duration) *Store {
	if lockWait <= 0 {
		lockWait = DefaultLockWait
	}
	return &Store{
		documents:  make(map[string]*entity.MovementDocument),
		stock:      make(map[entity.StockKey]*entity.StockEntry),
		warehouses: make(map[string]*entity.Warehouse),
		products:   make(map[string]*entity.Product),
		clients:    make(map[string]*entity.Client),
		locks:      newKeyLocks(),
		lockWait:   lockWait,
	}
}

// Documents repositorio de documentos fuera de transacción.
func (s *Store) Documents() *DocumentRepo { return &DocumentRepo{s: s} }

// Stock repositorio del submayor fuera de transacción (lecturas read-committed).
func (s *Store) Stock() *StockRepo { return &StockRepo{s: s} }

// Movements repositorio del kardex fuera de transacción.
func (s *Store) Movements() *StockMovementRepo { return &StockMovementRepo{s: s} }

// Warehouses repositorio de unidades organizativas.
func (s *Store) Warehouses() *WarehouseRepo { return &WarehouseRepo{s: s} }

// Products repositorio de productos.
func (s *Store) Products() *ProductRepo { return &ProductRepo{s: s} }

// Clients repositorio de clientes.
func (s *Store) Clients() *ClientRepo { return &ClientRepo{s: s} }

func copyDocument(d *entity.MovementDocument) *entity.MovementDocument {
	if d == nil {
		return nil
	}
	out := *d
	out.Lines = append([]entity.DocumentLine(nil), d.Lines...)
	if d.Conversion != nil {
		c := *d.Conversion
		out.Conversion = &c
	}
	if d.ConfirmedAt != nil {
		t := *d.ConfirmedAt
		out.ConfirmedAt = &t
	}
	return &out
}

func copyEntry(e *entity.StockEntry) *entity.StockEntry {
	if e == nil {
		return nil
	}
	out := *e
	return &out
}
