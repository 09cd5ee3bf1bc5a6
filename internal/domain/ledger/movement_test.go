package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

func tx(id, typ string, qty int64, at string) *entity.Transaction {
	ts, err := time.Parse(time.RFC3339, at)
	if err != nil {
		panic(err)
	}
	return &entity.Transaction{ID: id, ProductID: "p-1", Type: typ, Quantity: qty, CreatedAt: ts}
}

func TestMonthlyMovement_AgrupaPorMes(t *testing.T) {
	txs := []*entity.Transaction{
		tx("t1", entity.TransactionTypeIN, 10, "2024-03-05T10:00:00Z"),
		tx("t2", entity.TransactionTypeOUT, 3, "2024-03-20T10:00:00Z"),
	}
	got := ledger.MonthlyMovement("p-1", txs, time.UTC)
	assert.Equal(t, []ledger.MonthlyTotal{{Month: "2024-03", TotalIn: 10, TotalOut: 3}}, got)
}

func TestMonthlyMovement_OrdenAscendenteSinRellenarHuecos(t *testing.T) {
	other := tx("x", entity.TransactionTypeIN, 99, "2024-02-01T00:00:00Z")
	other.ProductID = "p-2"
	txs := []*entity.Transaction{
		tx("t3", entity.TransactionTypeIN, 4, "2025-01-02T00:00:00Z"),
		tx("t1", entity.TransactionTypeIN, 10, "2024-11-05T00:00:00Z"),
		tx("t2", entity.TransactionTypeOUT, 2, "2024-09-30T00:00:00Z"),
		other,
	}
	got := ledger.MonthlyMovement("p-1", txs, time.UTC)
	assert.Equal(t, []ledger.MonthlyTotal{
		{Month: "2024-09", TotalOut: 2},
		{Month: "2024-11", TotalIn: 10},
		{Month: "2025-01", TotalIn: 4},
	}, got)
}

func TestMonthlyMovement_ZonaHorariaMueveElMes(t *testing.T) {
	txs := []*entity.Transaction{tx("t1", entity.TransactionTypeIN, 1, "2024-03-31T20:00:00Z")}
	got := ledger.MonthlyMovement("p-1", txs, time.FixedZone("ICT", 7*3600))
	assert.Equal(t, "2024-04", got[0].Month)
}

func TestMonthlyMovement_Vacio(t *testing.T) {
	assert.Empty(t, ledger.MonthlyMovement("p-1", nil, nil))
}
