package ledger

import (
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Mismatch diferencia entre el estado de un lote (o del producto) y lo que dice el historial.
type Mismatch struct {
	BatchID  string // vacío cuando la diferencia es del total del producto
	Expected int64
	Actual   int64
	Reason   string
}

// Reconcile verifica que cada lote tenga Quantity == InitialQuantity - Σ salidas que lo referencian,
// que cada salida sume exactamente su cantidad y que el stock total cuadre con Σ IN - Σ OUT.
func Reconcile(productID string, batches []*entity.Batch, txs []*entity.Transaction) []Mismatch {
	taken := make(map[string]int64, len(batches))
	var mismatches []Mismatch

	for _, t := range txs {
		if t.ProductID != productID || t.Type != entity.TransactionTypeOUT {
			continue
		}
		var sum int64
		for _, a := range t.Allocations {
			taken[a.BatchID] += a.Quantity
			sum += a.Quantity
		}
		if sum != t.Quantity {
			mismatches = append(mismatches, Mismatch{
				Expected: t.Quantity,
				Actual:   sum,
				Reason:   fmt.Sprintf("la salida %s asigna %d de %d unidades", t.ID, sum, t.Quantity),
			})
		}
	}

	var stock int64
	for _, b := range batches {
		if b.ProductID != productID {
			continue
		}
		stock += b.Quantity
		expected := b.InitialQuantity - taken[b.ID]
		if b.Quantity != expected {
			mismatches = append(mismatches, Mismatch{
				BatchID:  b.ID,
				Expected: expected,
				Actual:   b.Quantity,
				Reason:   "el saldo del lote no coincide con sus salidas",
			})
		}
		if b.Quantity < 0 || b.Quantity > b.InitialQuantity {
			mismatches = append(mismatches, Mismatch{
				BatchID:  b.ID,
				Expected: b.InitialQuantity,
				Actual:   b.Quantity,
				Reason:   "saldo del lote fuera de rango",
			})
		}
	}

	totalIn, totalOut := Totals(productID, txs)
	if stock != totalIn-totalOut {
		mismatches = append(mismatches, Mismatch{
			Expected: totalIn - totalOut,
			Actual:   stock,
			Reason:   "el stock actual no coincide con entradas menos salidas",
		})
	}
	return mismatches
}
