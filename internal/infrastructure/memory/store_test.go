package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

func day(s string) time.Time {
	t, _ := time.Parse(entity.DateLayout, s)
	return t
}

func newStoreWithProduct(t *testing.T) *memory.Store {
	t.Helper()
	s := memory.NewStore()
	err := memory.NewProductRepository(s).Create(context.Background(), &entity.Product{ID: "p-1", SKU: "SKU-1", Name: "Gasa"})
	require.NoError(t, err)
	return s
}

func batch(id, expiry string, qty int64) *entity.Batch {
	return &entity.Batch{
		ID: id, ProductID: "p-1", BatchCode: id, InitialQuantity: qty, Quantity: qty,
		ExpiryDate: day(expiry), ReceivedDate: day("2024-01-01"),
	}
}

func TestProductRepo_SKUDuplicado(t *testing.T) {
	s := newStoreWithProduct(t)
	err := memory.NewProductRepository(s).Create(context.Background(), &entity.Product{ID: "p-2", SKU: "SKU-1", Name: "Otra"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	p, err := memory.NewProductRepository(s).GetBySKU(context.Background(), "SKU-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "p-1", p.ID)
}

func TestRunForProduct_ProductoInexistente(t *testing.T) {
	s := memory.NewStore()
	runner := memory.NewTxRunner(s)
	called := false
	err := runner.RunForProduct(context.Background(), "nada", func(repository.BatchRepository, repository.TransactionRepository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.False(t, called)
}

func TestRunForProduct_CambiosVisiblesSoloTrasCommit(t *testing.T) {
	s := newStoreWithProduct(t)
	runner := memory.NewTxRunner(s)
	outside := memory.NewBatchRepository(s)
	ctx := context.Background()

	err := runner.RunForProduct(ctx, "p-1", func(b repository.BatchRepository, tx repository.TransactionRepository) error {
		require.NoError(t, b.Create(ctx, batch("L-2", "2024-06-01", 5)))
		require.NoError(t, b.Create(ctx, batch("L-1", "2024-05-01", 3)))
		require.NoError(t, b.UpdateQuantity(ctx, "L-1", 1))

		inside, err := b.ListAvailableForUpdate(ctx, "p-1")
		require.NoError(t, err)
		require.Len(t, inside, 2)
		assert.Equal(t, "L-1", inside[0].ID)
		assert.Equal(t, int64(1), inside[0].Quantity)

		pending, err := outside.ListByProduct(ctx, "p-1")
		require.NoError(t, err)
		assert.Empty(t, pending)
		return tx.Create(ctx, &entity.Transaction{ID: "t-1", ProductID: "p-1", Type: entity.TransactionTypeIN, Quantity: 8})
	})
	require.NoError(t, err)

	list, err := outside.ListByProduct(ctx, "p-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, []string{"L-1", "L-2"}, []string{list[0].ID, list[1].ID})

	txs, err := memory.NewTransactionRepository(s).ListByProduct(ctx, "p-1")
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestRunForProduct_ErrorOContextoCanceladoNoPublica(t *testing.T) {
	s := newStoreWithProduct(t)
	runner := memory.NewTxRunner(s)
	boom := errors.New("boom")

	err := runner.RunForProduct(context.Background(), "p-1", func(b repository.BatchRepository, _ repository.TransactionRepository) error {
		require.NoError(t, b.Create(context.Background(), batch("L-1", "2024-05-01", 3)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	ctx, cancel := context.WithCancel(context.Background())
	err = runner.RunForProduct(ctx, "p-1", func(b repository.BatchRepository, _ repository.TransactionRepository) error {
		require.NoError(t, b.Create(ctx, batch("L-2", "2024-05-01", 3)))
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)

	list, err := memory.NewBatchRepository(s).ListByProduct(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestView_SoloLecturaYCopias(t *testing.T) {
	s := newStoreWithProduct(t)
	ctx := context.Background()
	require.NoError(t, memory.NewBatchRepository(s).Create(ctx, batch("L-1", "2024-05-01", 4)))

	err := memory.NewTxRunner(s).View(ctx, func(p repository.ProductRepository, b repository.BatchRepository, _ repository.TransactionRepository) error {
		prods, err := p.List(ctx)
		require.NoError(t, err)
		require.Len(t, prods, 1)

		got, err := b.GetByID(ctx, "L-1")
		require.NoError(t, err)
		got.Quantity = 0
		assert.Error(t, b.UpdateQuantity(ctx, "L-1", 2))
		return nil
	})
	require.NoError(t, err)

	b, err := memory.NewBatchRepository(s).GetByID(ctx, "L-1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), b.Quantity)
}

func TestBatchRepo_SaldoFueraDeRango(t *testing.T) {
	s := newStoreWithProduct(t)
	repo := memory.NewBatchRepository(s)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, batch("L-1", "2024-05-01", 4)))

	assert.Error(t, repo.UpdateQuantity(ctx, "L-1", 5))
	assert.Error(t, repo.UpdateQuantity(ctx, "L-1", -1))
	assert.ErrorIs(t, repo.UpdateQuantity(ctx, "L-x", 1), domain.ErrNotFound)
	require.NoError(t, repo.UpdateQuantity(ctx, "L-1", 0))

	avail, err := repo.ListAvailable(ctx)
	require.NoError(t, err)
	assert.Empty(t, avail)
}

func TestTransactionRepo_ListRecentMasNuevaPrimero(t *testing.T) {
	s := newStoreWithProduct(t)
	repo := memory.NewTransactionRepository(s)
	ctx := context.Background()
	for _, id := range []string{"t-1", "t-2", "t-3"} {
		require.NoError(t, repo.Create(ctx, &entity.Transaction{ID: id, ProductID: "p-1", Type: entity.TransactionTypeIN, Quantity: 1}))
	}
	recent, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "t-3", recent[0].ID)
	assert.Equal(t, "t-2", recent[1].ID)
}
