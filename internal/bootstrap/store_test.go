package bootstrap_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/bootstrap"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

func TestPolicy_DesdeConfig(t *testing.T) {
	p, err := bootstrap.Policy(config.LedgerConfig{ExpiryWindowDays: 15, ConflictRetries: 2, Timezone: "America/Bogota", StrictMinLevel: true})
	require.NoError(t, err)
	assert.Equal(t, 15, p.ExpiryWindowDays)
	assert.Equal(t, 2, p.ConflictRetries)
	assert.Equal(t, "America/Bogota", p.Location.String())
	assert.True(t, p.StrictMinLevel)

	_, err = bootstrap.Policy(config.LedgerConfig{Timezone: "Marte/Olympus"})
	assert.Error(t, err)
}

func TestOpenStore_Memoria(t *testing.T) {
	cfg := &config.Config{Store: config.StoreConfig{Driver: config.DriverMemory}}
	store, err := bootstrap.OpenStore(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	policy, err := bootstrap.Policy(config.LedgerConfig{Timezone: "UTC", StrictMinLevel: true})
	require.NoError(t, err)
	uc := bootstrap.NewUseCases(store, policy, nil, zerolog.Nop())
	assert.Nil(t, uc.StockCards)

	// la política estricta llega al alta de productos
	_, err = uc.Products.Create(context.Background(), dto.CreateProductRequest{SKU: "A", Name: "A", MinLevel: []byte(`"x"`)})
	assert.Error(t, err)

	p, err := uc.Products.Create(context.Background(), dto.CreateProductRequest{SKU: "B", Name: "B", MinLevel: []byte(`3`)})
	require.NoError(t, err)
	uc.Ledger.WithClock(func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) })
	list, err := uc.Ledger.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].ID)
}

func TestOpenStore_DriverDesconocido(t *testing.T) {
	_, err := bootstrap.OpenStore(context.Background(), &config.Config{Store: config.StoreConfig{Driver: "sqlite"}}, zerolog.Nop())
	assert.Error(t, err)
}
