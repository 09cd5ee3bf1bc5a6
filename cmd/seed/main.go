// seed carga productos y lotes iniciales desde una planilla CSV.
//
// Uso: go run ./cmd/seed [-charset latin1] [-token <jwt>] planilla.csv
// Columnas: sku, name, unit, min_level, quantity, expiry_date, cost_price, sale_price,
// wholesale_price, batch_code, note. Usa STORE_DRIVER / DB_* igual que la API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/stock-ledger/internal/bootstrap"
	"github.com/jhoicas/stock-ledger/internal/seed"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	charset := flag.String("charset", "utf-8", "codificación del archivo: utf-8, latin1, windows-1252")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed [-charset latin1] planilla.csv")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := seed.Parse(f, *charset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	policy, err := bootstrap.Policy(cfg.Ledger)
	if err != nil {
		log.Fatal().Err(err).Msg("política del libro")
	}
	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, cfg, log.Component("store"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén")
	}
	defer store.Close()

	uc := bootstrap.NewUseCases(store, policy, nil, log.Component("seed"))
	rep, err := seed.Apply(ctx, rows, uc.Products, seed.RepoFinder{Repo: store.Products}, uc.Ledger, log.Component("seed"))
	for _, s := range rep.Skipped {
		fmt.Fprintln(os.Stderr, "omitida", s)
	}
	if err != nil {
		log.Error().Err(err).Msg("carga interrumpida")
		store.Close()
		os.Exit(1)
	}
	fmt.Printf("Productos nuevos: %d, existentes: %d, lotes: %d, unidades: %d, omitidas: %d\n",
		rep.ProductsCreated, rep.ProductsReused, rep.BatchesReceived, rep.Units, len(rep.Skipped))
}
