package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo log de transacciones sobre PostgreSQL. Solo inserción.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create persiste la transacción y, si es OUT, sus asignaciones en orden.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	var batchID *string
	if t.BatchID != "" {
		batchID = &t.BatchID
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO transactions (id, product_id, type, quantity, batch_id, note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, t.ProductID, t.Type, t.Quantity, batchID, t.Note, t.CreatedBy, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	for i, a := range t.Allocations {
		_, err := r.q.Exec(ctx, `
			INSERT INTO transaction_allocations (transaction_id, position, batch_id, quantity)
			VALUES ($1, $2, $3, $4)`,
			t.ID, i, a.BatchID, a.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert allocation: %w", err)
		}
	}
	return nil
}

// ListByProduct transacciones del producto de la más antigua a la más reciente.
func (r *TransactionRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Transaction, error) {
	return r.list(ctx, `
		SELECT id, product_id, type, quantity, COALESCE(batch_id, ''), note, created_by, created_at
		FROM transactions WHERE product_id = $1 ORDER BY created_at, seq`, productID)
}

// ListRecent últimas limit transacciones de todos los productos, la más reciente primero.
func (r *TransactionRepo) ListRecent(ctx context.Context, limit int) ([]*entity.Transaction, error) {
	if limit <= 0 {
		limit = 500
	}
	return r.list(ctx, `
		SELECT id, product_id, type, quantity, COALESCE(batch_id, ''), note, created_by, created_at
		FROM transactions ORDER BY created_at DESC, seq DESC LIMIT $1`, limit)
}

func (r *TransactionRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Transaction, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	var (
		list  []*entity.Transaction
		byID  = make(map[string]*entity.Transaction)
		outID []string
	)
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(&t.ID, &t.ProductID, &t.Type, &t.Quantity, &t.BatchID, &t.Note, &t.CreatedBy, &t.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		list = append(list, &t)
		byID[t.ID] = &t
		if t.Type == entity.TransactionTypeOUT {
			outID = append(outID, t.ID)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	if len(outID) == 0 {
		return list, nil
	}

	// asignaciones de todas las salidas en una sola consulta
	arows, err := r.q.Query(ctx, `
		SELECT transaction_id, batch_id, quantity FROM transaction_allocations
		WHERE transaction_id = ANY($1) ORDER BY transaction_id, position`, outID)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer arows.Close()
	for arows.Next() {
		var txID string
		var a entity.Allocation
		if err := arows.Scan(&txID, &a.BatchID, &a.Quantity); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		if t, ok := byID[txID]; ok {
			t.Allocations = append(t.Allocations, a)
		}
	}
	return list, arows.Err()
}
