package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout formato de calendario usado para fechas de vencimiento y claves de día.
const DateLayout = "2006-01-02"

// Batch es una recepción concreta de stock de un producto, con su propio vencimiento y precios.
// Quantity es lo que queda; InitialQuantity lo recibido. 0 <= Quantity <= InitialQuantity.
// Un lote agotado (Quantity == 0) no se borra: queda para auditoría.
type Batch struct {
	ID              string
	ProductID       string
	BatchCode       string
	InitialQuantity int64
	Quantity        int64
	ExpiryDate      time.Time // fecha de calendario (medianoche UTC)
	ReceivedDate    time.Time
	ReceivedBy      string
	CostPrice       decimal.Decimal
	SalePrice       decimal.Decimal
	WholesalePrice  decimal.Decimal
	Note            string
}

// Exhausted indica si el lote ya no tiene unidades.
func (b *Batch) Exhausted() bool { return b.Quantity <= 0 }

// Label devuelve el identificador legible del lote: su código o, si no tiene, su vencimiento.
func (b *Batch) Label() string {
	if b.BatchCode != "" {
		return b.BatchCode
	}
	return b.ExpiryDate.Format(DateLayout)
}
