// Package ledger contiene los servicios de dominio puros del libro de lotes:
// planificación FIFO por vencimiento, resumen de stock, movimientos mensuales y conciliación.
// No conoce persistencia ni transporte; todo se calcula sobre entidades en memoria.
package ledger

import (
	"math"
	"sort"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// PickLine un lote tocado por una salida: cuánto se tomó y cuánto le queda.
type PickLine struct {
	BatchID    string
	Label      string
	ExpiryDate time.Time
	Quantity   int64
	Remaining  int64
}

// PickList lista ordenada de lotes consumidos por una salida.
type PickList []PickLine

// Total suma de unidades tomadas.
func (p PickList) Total() int64 {
	var n int64
	for _, l := range p {
		n += l.Quantity
	}
	return n
}

// Allocations convierte la lista en los pares (lote, cantidad) que guarda la transacción.
func (p PickList) Allocations() []entity.Allocation {
	out := make([]entity.Allocation, 0, len(p))
	for _, l := range p {
		out = append(out, entity.Allocation{BatchID: l.BatchID, Quantity: l.Quantity})
	}
	return out
}

// SortForDepletion ordena in-place: vencimiento asc, luego recepción asc, luego ID asc.
// El desempate por ID hace el orden total, y por lo tanto la selección determinista.
func SortForDepletion(batches []*entity.Batch) {
	sort.SliceStable(batches, func(i, j int) bool {
		a, b := batches[i], batches[j]
		if !a.ExpiryDate.Equal(b.ExpiryDate) {
			return a.ExpiryDate.Before(b.ExpiryDate)
		}
		if !a.ReceivedDate.Equal(b.ReceivedDate) {
			return a.ReceivedDate.Before(b.ReceivedDate)
		}
		return a.ID < b.ID
	})
}

// Available suma de unidades restantes en lotes no agotados.
func Available(batches []*entity.Batch) int64 {
	var n int64
	for _, b := range batches {
		if b.Quantity > 0 {
			n += b.Quantity
		}
	}
	return n
}

// CheckCapacity rechaza una entrada de qty unidades si el saldo disponible del producto
// dejaría de caber en un int64. batches son los lotes actuales del producto.
func CheckCapacity(batches []*entity.Batch, qty int64) error {
	if qty > 0 && Available(batches) > math.MaxInt64-qty {
		return domain.NewValidationError("quantity", "la entrada supera el stock máximo admitido para el producto")
	}
	return nil
}

// PlanDepletion decide qué lotes consumir para sacar requested unidades, primero el que vence antes.
// No modifica los lotes recibidos. Si no alcanza el total disponible devuelve
// InsufficientStockError y ninguna línea: o se cubre todo o no se toca nada.
func PlanDepletion(batches []*entity.Batch, requested int64) (PickList, error) {
	if requested <= 0 {
		return nil, domain.NewValidationError("quantity", "la cantidad debe ser mayor que cero")
	}

	candidates := make([]*entity.Batch, 0, len(batches))
	for _, b := range batches {
		if b.Quantity > 0 {
			candidates = append(candidates, b)
		}
	}
	if available := Available(candidates); available < requested {
		return nil, &domain.InsufficientStockError{Requested: requested, Available: available}
	}
	SortForDepletion(candidates)

	picks := make(PickList, 0, 2)
	needed := requested
	for _, b := range candidates {
		if needed == 0 {
			break
		}
		take := min(b.Quantity, needed)
		picks = append(picks, PickLine{
			BatchID:    b.ID,
			Label:      b.Label(),
			ExpiryDate: b.ExpiryDate,
			Quantity:   take,
			Remaining:  b.Quantity - take,
		})
		needed -= take
	}
	return picks, nil
}
