package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

func TestReconcile_HistorialConsistente(t *testing.T) {
	a := batch("A", "2024-01-01", 5)
	b := batch("B", "2024-02-01", 5)
	in1 := tx("t1", entity.TransactionTypeIN, 5, "2023-12-01T00:00:00Z")
	in2 := tx("t2", entity.TransactionTypeIN, 5, "2023-12-01T00:00:00Z")

	picks, err := ledger.PlanDepletion([]*entity.Batch{a, b}, 7)
	require.NoError(t, err)
	out := tx("t3", entity.TransactionTypeOUT, 7, "2023-12-02T00:00:00Z")
	out.Allocations = picks.Allocations()
	a.Quantity, b.Quantity = picks[0].Remaining, picks[1].Remaining

	assert.Empty(t, ledger.Reconcile("p-1", []*entity.Batch{a, b}, []*entity.Transaction{in1, in2, out}))
}

func TestReconcile_DetectaLoteDescuadrado(t *testing.T) {
	a := batch("A", "2024-01-01", 5)
	a.Quantity = 4 // nadie registró esa salida
	in1 := tx("t1", entity.TransactionTypeIN, 5, "2023-12-01T00:00:00Z")

	mismatches := ledger.Reconcile("p-1", []*entity.Batch{a}, []*entity.Transaction{in1})
	require.Len(t, mismatches, 2)
	assert.Equal(t, "A", mismatches[0].BatchID)
	assert.Equal(t, int64(5), mismatches[0].Expected)
	assert.Equal(t, int64(4), mismatches[0].Actual)
	assert.Empty(t, mismatches[1].BatchID, "también descuadra el total del producto")
}

func TestReconcile_DetectaSalidaMalAsignada(t *testing.T) {
	a := batch("A", "2024-01-01", 5)
	a.Quantity = 3
	in1 := tx("t1", entity.TransactionTypeIN, 5, "2023-12-01T00:00:00Z")
	out := tx("t2", entity.TransactionTypeOUT, 3, "2023-12-02T00:00:00Z")
	out.Allocations = []entity.Allocation{{BatchID: "A", Quantity: 2}}

	mismatches := ledger.Reconcile("p-1", []*entity.Batch{a}, []*entity.Transaction{in1, out})
	assert.NotEmpty(t, mismatches)
	assert.Contains(t, mismatches[0].Reason, "t2")
}
