package ledger

import (
	"sort"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MonthLayout clave de mes: año de cuatro dígitos y mes de dos.
const MonthLayout = "2006-01"

// MonthlyTotal entradas y salidas de un mes.
type MonthlyTotal struct {
	Month    string
	TotalIn  int64
	TotalOut int64
}

// MonthlyMovement agrupa las transacciones del producto por mes de su fecha (en loc)
// y las devuelve en orden ascendente. Los meses sin movimientos no aparecen.
func MonthlyMovement(productID string, txs []*entity.Transaction, loc *time.Location) []MonthlyTotal {
	if loc == nil {
		loc = time.UTC
	}
	byMonth := make(map[string]*MonthlyTotal)
	for _, t := range txs {
		if t.ProductID != productID {
			continue
		}
		key := t.CreatedAt.In(loc).Format(MonthLayout)
		m, ok := byMonth[key]
		if !ok {
			m = &MonthlyTotal{Month: key}
			byMonth[key] = m
		}
		switch t.Type {
		case entity.TransactionTypeIN:
			m.TotalIn += t.Quantity
		case entity.TransactionTypeOUT:
			m.TotalOut += t.Quantity
		}
	}

	out := make([]MonthlyTotal, 0, len(byMonth))
	for _, m := range byMonth {
		out = append(out, *m)
	}
	// el formato con ceros a la izquierda permite comparar como texto
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// Totals suma de entradas y salidas de un producto en toda su historia.
func Totals(productID string, txs []*entity.Transaction) (totalIn, totalOut int64) {
	for _, t := range txs {
		if t.ProductID != productID {
			continue
		}
		switch t.Type {
		case entity.TransactionTypeIN:
			totalIn += t.Quantity
		case entity.TransactionTypeOUT:
			totalOut += t.Quantity
		}
	}
	return totalIn, totalOut
}
