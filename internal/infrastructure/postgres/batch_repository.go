package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, product_id, batch_code, initial_quantity, quantity, expiry_date, received_date,
	received_by, cost_price, sale_price, wholesale_price, note`

// orden FIFO: vence antes, luego recibido antes, luego id
const fifoOrder = ` ORDER BY expiry_date, received_date, id`

// BatchRepo lotes sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create persiste un lote.
func (r *BatchRepo) Create(ctx context.Context, b *entity.Batch) error {
	query := `INSERT INTO batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.ProductID, b.BatchCode, b.InitialQuantity, b.Quantity, b.ExpiryDate, b.ReceivedDate,
		b.ReceivedBy, b.CostPrice, b.SalePrice, b.WholesalePrice, b.Note,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID. (nil, nil) si no existe.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.Batch, error) {
	b, err := scanBatch(r.q.QueryRow(ctx, `SELECT `+batchColumns+` FROM batches WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return b, nil
}

// ListByProduct todos los lotes del producto, incluidos los agotados.
func (r *BatchRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Batch, error) {
	return r.list(ctx, `SELECT `+batchColumns+` FROM batches WHERE product_id = $1`+fifoOrder, productID)
}

// ListAvailableForUpdate lotes con saldo del producto, bloqueados hasta el fin de la tx.
func (r *BatchRepo) ListAvailableForUpdate(ctx context.Context, productID string) ([]*entity.Batch, error) {
	return r.list(ctx, `SELECT `+batchColumns+` FROM batches
		WHERE product_id = $1 AND quantity > 0`+fifoOrder+` FOR UPDATE`, productID)
}

// ListAvailable lotes con saldo de todos los productos.
func (r *BatchRepo) ListAvailable(ctx context.Context) ([]*entity.Batch, error) {
	return r.list(ctx, `SELECT `+batchColumns+` FROM batches WHERE quantity > 0`+fifoOrder)
}

// UpdateQuantity fija el saldo del lote.
func (r *BatchRepo) UpdateQuantity(ctx context.Context, batchID string, quantity int64) error {
	cmd, err := r.q.Exec(ctx, `UPDATE batches SET quantity = $2 WHERE id = $1`, batchID, quantity)
	if err != nil {
		return fmt.Errorf("update batch quantity: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BatchRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Batch, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.Batch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBatch(row pgx.Row) (*entity.Batch, error) {
	var b entity.Batch
	err := row.Scan(&b.ID, &b.ProductID, &b.BatchCode, &b.InitialQuantity, &b.Quantity, &b.ExpiryDate,
		&b.ReceivedDate, &b.ReceivedBy, &b.CostPrice, &b.SalePrice, &b.WholesalePrice, &b.Note)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
