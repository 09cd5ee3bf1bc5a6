package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// BatchRepository puerto del almacén de lotes.
// Los listados vienen ordenados por vencimiento, recepción e ID (orden FIFO).
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.Batch) error
	GetByID(ctx context.Context, id string) (*entity.Batch, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.Batch, error)
	// ListAvailableForUpdate lotes con saldo > 0 del producto; dentro de una transacción los bloquea.
	ListAvailableForUpdate(ctx context.Context, productID string) ([]*entity.Batch, error)
	// ListAvailable lotes con saldo > 0 de todos los productos (para el listado de productos).
	ListAvailable(ctx context.Context) ([]*entity.Batch, error)
	UpdateQuantity(ctx context.Context, batchID string, quantity int64) error
}
