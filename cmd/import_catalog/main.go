// import_catalog da de alta productos a partir del catálogo XML exportado por el ERP anterior.
//
// Uso: go run ./cmd/import_catalog [ruta/catalogue.xml]
// Por defecto busca catalogue.xml en el directorio actual. Usa la misma configuración que la API
// (DATABASE_URL o DB_*). Las referencias ya existentes se omiten; el stock de los productos
// nuevos arranca en 0 y solo crece con recepciones de órdenes de compra.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jhoicas/gestion-stock-api/internal/application/usecase"
	"github.com/jhoicas/gestion-stock-api/internal/domain"
	"github.com/jhoicas/gestion-stock-api/internal/infrastructure/catalog"
	"github.com/jhoicas/gestion-stock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/gestion-stock-api/pkg/config"
	"github.com/jhoicas/gestion-stock-api/pkg/logger"
)

func main() {
	path := "catalogue.xml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level}).Named("import-catalog")

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("path", path).Msg("abrir catálogo")
	}
	defer f.Close()

	items, rejected, err := catalog.Parse(f)
	if err != nil {
		log.Fatal().Err(err).Msg("leer catálogo")
	}
	for _, r := range rejected {
		log.Warn().Int("index", r.Index).Str("reference", r.Reference).Err(r.Err).Msg("artículo descartado")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	products := usecase.NewProductUseCase(postgres.NewProductRepository(pool))
	var created, skipped, failed int
	for _, in := range items {
		_, err := products.Create(ctx, in)
		switch {
		case err == nil:
			created++
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
		default:
			failed++
			log.Error().Err(err).Str("reference", in.Reference).Msg("alta de producto")
		}
	}

	log.Info().
		Int("created", created).
		Int("skipped", skipped).
		Int("failed", failed).
		Int("rejected", len(rejected)).
		Msg("importación terminada")
	if failed > 0 {
		os.Exit(1)
	}
}
