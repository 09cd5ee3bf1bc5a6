package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// TransactionRepository puerto del log de transacciones (solo inserción, nunca update ni delete).
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	// ListByProduct devuelve las transacciones del producto de la más antigua a la más reciente.
	ListByProduct(ctx context.Context, productID string) ([]*entity.Transaction, error)
	// ListRecent devuelve las últimas limit transacciones de todos los productos, la más reciente primero.
	ListRecent(ctx context.Context, limit int) ([]*entity.Transaction, error)
}
