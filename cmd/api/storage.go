package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/materias-primas/internal/application/inventory"
	"github.com/jhoicas/materias-primas/internal/domain/repository"
	"github.com/jhoicas/materias-primas/internal/infrastructure/memory"
	"github.com/jhoicas/materias-primas/internal/infrastructure/postgres"
	"github.com/jhoicas/materias-primas/internal/infrastructure/sqlite"
	"github.com/jhoicas/materias-primas/pkg/config"
	"github.com/rs/zerolog"
)

// storage repositorios y runner del backend elegido por STORAGE_DRIVER.
type storage struct {
	documents  repository.DocumentRepository
	stock      repository.StockRepository
	movements  repository.StockMovementRepository
	warehouses repository.WarehouseRepository
	products   repository.ProductRepository
	clients    repository.ClientRepository
	txRunner   inventory.TxRunner
	ping       func(ctx context.Context) error
	close      func()
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	lockWait := time.Duration(cfg.DB.LockTimeoutMS) * time.Millisecond

	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if err := postgres.Migrate(pool, log); err != nil {
			pool.Close()
			return nil, err
		}
		return &storage{
			documents:  postgres.NewDocumentRepository(pool),
			stock:      postgres.NewStockRepository(pool),
			movements:  postgres.NewStockMovementRepository(pool),
			warehouses: postgres.NewWarehouseRepository(pool),
			products:   postgres.NewProductRepository(pool),
			clients:    postgres.NewClientRepository(pool),
			txRunner:   postgres.NewTxRunner(pool, cfg.DB.LockTimeoutMS),
			ping:       pool.Ping,
			close:      pool.Close,
		}, nil

	case config.StorageDriverSQLite:
		db, err := sqlite.Open(cfg.Storage.SQLitePath, cfg.DB.LockTimeoutMS)
		if err != nil {
			return nil, err
		}
		return &storage{
			documents:  db.Documents(),
			stock:      db.Stock(),
			movements:  db.Movements(),
			warehouses: db.Warehouses(),
			products:   db.Products(),
			clients:    db.Clients(),
			txRunner:   sqlite.NewTxRunner(db),
			ping:       db.Ping,
			close:      func() { _ = db.Close() },
		}, nil

	case config.StorageDriverMemory:
		s := memory.NewStore(lockWait)
		return &storage{
			documents:  s.Documents(),
			stock:      s.Stock(),
			movements:  s.Movements(),
			warehouses: s.Warehouses(),
			products:   s.Products(),
			clients:    s.Clients(),
			txRunner:   memory.NewTxRunner(s),
			close:      func() {},
		}, nil
	}
	return nil, fmt.Errorf("driver de almacenamiento desconocido %q", cfg.Storage.Driver)
}
