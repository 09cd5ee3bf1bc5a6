package entity

import "time"

// Tipos de movimiento del libro.
const (
	TransactionTypeIN  = "IN"  // entrada (crea un lote)
	TransactionTypeOUT = "OUT" // salida (consume lotes por vencimiento)
)

// Allocation par (lote, cantidad tomada) de una salida.
type Allocation struct {
	BatchID  string
	Quantity int64
}

// Transaction registro inmutable de una entrada o salida.
// Para IN, BatchID apunta al lote creado; para OUT, Allocations lista en orden los lotes consumidos.
type Transaction struct {
	ID          string
	ProductID   string
	Type        string
	Quantity    int64
	BatchID     string
	Allocations []Allocation
	Note        string
	CreatedBy   string
	CreatedAt   time.Time
}
