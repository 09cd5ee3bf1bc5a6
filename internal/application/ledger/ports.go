package ledger

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta funciones dentro de una unidad de trabajo del almacén.
//
// RunForProduct abre la región exclusiva del producto (a lo sumo una mutación confirmada a la vez
// por producto), ejecuta fn con repositorios atados a esa unidad y confirma solo si fn no falla.
// Si el producto no existe devuelve domain.ErrNotFound; si pierde una carrera contra otra
// escritura devuelve un error que envuelve domain.ErrConcurrencyConflict.
//
// View ejecuta fn sobre una vista consistente: ve el estado anterior o posterior de cualquier
// mutación en curso, nunca una escritura a medias.
type TxRunner interface {
	RunForProduct(ctx context.Context, productID string, fn func(
		batchRepo repository.BatchRepository,
		txRepo repository.TransactionRepository,
	) error) error
	View(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
		txRepo repository.TransactionRepository,
	) error) error
}
