package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/gestion-stock-api/internal/application/auth"
	"github.com/jhoicas/gestion-stock-api/internal/application/exitslip"
	"github.com/jhoicas/gestion-stock-api/internal/application/inventory"
	"github.com/jhoicas/gestion-stock-api/internal/application/ports"
	"github.com/jhoicas/gestion-stock-api/internal/application/procurement"
	"github.com/jhoicas/gestion-stock-api/internal/application/usecase"
	inframetrics "github.com/jhoicas/gestion-stock-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/gestion-stock-api/internal/infrastructure/pdf"
	"github.com/jhoicas/gestion-stock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gestion-stock-api/internal/infrastructure/xmldoc"
	httpRouter "github.com/jhoicas/gestion-stock-api/internal/interfaces/http"
	"github.com/jhoicas/gestion-stock-api/pkg/config"
	"github.com/jhoicas/gestion-stock-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		log.Info().Strs("applied", applied).Msg("migraciones al día")
	}

	var (
		metrics  ports.InventoryMetrics = ports.NopMetrics{}
		gatherer prometheus.Gatherer
	)
	if cfg.Metrics.Enabled {
		reg := inframetrics.NewRegistry()
		metrics = inframetrics.NewRecorder(reg)
		gatherer = reg
	}

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	withdrawal := inventory.NewWithdrawalEngine(metrics, log.Named("withdrawal"))
	reception := inventory.NewReceptionEngine(metrics, log.Named("reception"))

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	userUC := usecase.NewUserUseCase(userRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	orderUC := procurement.NewOrderUseCase(txRunner, reception, xmldoc.NewOrderExporter(), log.Named("orders"))
	slipUC := exitslip.NewUseCase(txRunner, withdrawal, infrapdf.NewMarotoPDFGenerator(), log.Named("exit-slips"))
	stockQuery := inventory.NewStockQueryUseCase(txRunner)
	movementQuery := inventory.NewMovementQueryUseCase(txRunner)

	swaggerEnabled := cfg.Docs.SwaggerEnabled
	if swaggerEnabled {
		if _, err := os.Stat(cfg.Docs.SwaggerFile); err != nil {
			log.Warn().Str("file", cfg.Docs.SwaggerFile).Msg("swagger deshabilitado: archivo no encontrado")
			swaggerEnabled = false
		}
	}

	app := httpRouter.NewApp(httpRouter.ServerConfig{
		AppName:        cfg.App.Name,
		SwaggerEnabled: swaggerEnabled,
		SwaggerFile:    cfg.Docs.SwaggerFile,
		Metrics:        gatherer,
	}, log, httpRouter.RouterDeps{
		AuthUC:      authUC,
		UserUC:      userUC,
		ProductUC:   productUC,
		SupplierUC:  supplierUC,
		OrderUC:     orderUC,
		ExitSlipUC:  slipUC,
		StockQuery:  stockQuery,
		MovementQry: movementQuery,
		JWTSecret:   cfg.JWT.Secret,
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

	log.Info().Msg("aplicación detenida")
}
