// Package bootstrap arma el almacén y la política del libro a partir de la configuración.
package bootstrap

import (
	"context"
	"fmt"
	"time"
	_ "time/tzdata" // LEDGER_TIMEZONE funciona también en imágenes sin zoneinfo

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

// Store backend elegido por STORE_DRIVER.
type Store struct {
	Driver   string
	TxRunner ledger.TxRunner
	Products repository.ProductRepository
	close    func()
}

// Close libera el pool (no-op en memoria).
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStore abre el backend configurado. Con postgres aplica el esquema si DB_AUTO_MIGRATE.
func OpenStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.DriverMemory:
		log.Warn().Msg("STORE_DRIVER=memory: los datos se pierden al reiniciar")
		s := memory.NewStore()
		return &Store{
			Driver:   config.DriverMemory,
			TxRunner: memory.NewTxRunner(s),
			Products: memory.NewProductRepository(s),
		}, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		if cfg.DB.AutoMigrate {
			if err := postgres.EnsureSchema(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			log.Info().Msg("esquema verificado")
		}
		return &Store{
			Driver:   config.DriverPostgres,
			TxRunner: postgres.NewTxRunner(pool),
			Products: postgres.NewProductRepository(pool),
			close:    pool.Close,
		}, nil
	default:
		return nil, fmt.Errorf("STORE_DRIVER desconocido: %q", cfg.Store.Driver)
	}
}

// Policy traduce LedgerConfig a la política del caso de uso.
func Policy(cfg config.LedgerConfig) (ledger.Policy, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return ledger.Policy{}, fmt.Errorf("LEDGER_TIMEZONE inválido %q: %w", cfg.Timezone, err)
	}
	return ledger.Policy{
		ExpiryWindowDays: cfg.ExpiryWindowDays,
		ConflictRetries:  cfg.ConflictRetries,
		Location:         loc,
		StrictMinLevel:   cfg.StrictMinLevel,
		HistoryLimit:     cfg.HistoryLimit,
	}, nil
}

// UseCases casos de uso del libro sobre un Store.
type UseCases struct {
	Ledger     *ledger.LedgerUseCase
	Products   *ledger.ProductUseCase
	StockCards *ledger.StockCardUseCase
}

// NewUseCases construye los casos de uso. generator puede ser nil si no se sirven fichas PDF.
func NewUseCases(store *Store, policy ledger.Policy, generator ledger.StockCardGenerator, log zerolog.Logger) UseCases {
	l := ledger.NewLedgerUseCase(store.TxRunner, store.Products, policy, log.With().Str("component", "ledger").Logger())
	uc := UseCases{
		Ledger:   l,
		Products: ledger.NewProductUseCase(store.Products, policy.StrictMinLevel, log.With().Str("component", "products").Logger()),
	}
	if generator != nil {
		uc.StockCards = ledger.NewStockCardUseCase(l, generator)
	}
	return uc
}
