package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/materias-primas/internal/application/inventory"
	"github.com/jhoicas/materias-primas/internal/application/usecase"
	domaininv "github.com/jhoicas/materias-primas/internal/domain/inventory"
	"github.com/jhoicas/materias-primas/internal/infrastructure/events"
	httpRouter "github.com/jhoicas/materias-primas/internal/interfaces/http"
	"github.com/jhoicas/materias-primas/pkg/config"
	"github.com/jhoicas/materias-primas/pkg/logger"
	"github.com/jhoicas/materias-primas/pkg/telemetry"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
		Version: version,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	shutdownTracing, err := telemetry.SetupTracing(ctx, telemetry.Config{
		Endpoint:    cfg.Telemetry.Endpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		Version:     version,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configurar trazas")
	}

	policy, err := domaininv.ParseNegativePolicy(cfg.Ledger.NegativePolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("política de negativos")
	}

	store, err := openStorage(ctx, cfg, log.Component("storage"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer store.close()

	var publisher inventory.EventPublisher = inventory.NopPublisher{}
	if cfg.Kafka.Enabled() {
		writer, err := events.NewTracedWriter(events.NewKafkaWriter(cfg.Kafka), cfg.App.Name)
		if err != nil {
			log.Fatal().Err(err).Msg("crear writer kafka")
		}
		kp := events.NewKafkaPublisher(writer)
		defer func() {
			if err := kp.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar publicador kafka")
			}
		}()
		publisher = kp
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Dur("batch_timeout", cfg.Kafka.BatchTimeout).Msg("publicación de eventos activa")
	}

	master := inventory.MasterData{Products: store.products, Warehouses: store.warehouses, Clients: store.clients}
	engine := inventory.NewPostingEngine(store.documents, store.txRunner, master, publisher, inventory.EngineConfig{
		Policy:     policy,
		MaxRetries: cfg.Ledger.MaxConfirmRetries,
	}, log.Component("posting_engine"))
	documentUC := inventory.NewDocumentUseCase(store.documents, store.txRunner, master, log.Component("documents"))
	stockUC := inventory.NewStockQueryUseCase(store.stock, store.movements, store.warehouses)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	httpRouter.Router(app, httpRouter.RouterDeps{
		Documents:   documentUC,
		Engine:      engine,
		Stock:       stockUC,
		WarehouseUC: usecase.NewWarehouseUseCase(store.warehouses),
		ProductUC:   usecase.NewProductUseCase(store.products),
		ClientUC:    usecase.NewClientUseCase(store.clients),
		JWTSecret:   cfg.JWT.Secret,
		ServiceName: cfg.App.Name,
		Ping:        store.ping,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado de trazas")
	}

	log.Info().Msg("aplicación detenida")
}
