package ledger

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Estados de salud de stock según la cercanía del vencimiento.
const (
	HealthGood         = "good"
	HealthExpiringSoon = "expiring_soon"
	HealthExpired      = "expired"
)

// DefaultExpiryWindowDays ventana de "por vencer" cuando la configuración no indica otra.
const DefaultExpiryWindowDays = 30

// HealthBucket unidades restantes agrupadas por estado.
type HealthBucket struct {
	Bucket   string
	Quantity int64
}

// StockSummary vista derivada del stock de un producto.
type StockSummary struct {
	ProductID    string
	CurrentStock int64
	IsLowStock   bool
	Health       []HealthBucket // solo buckets con unidades, en orden good, expiring_soon, expired
	NextExpiry   *time.Time
}

// Bucket devuelve la cantidad de un estado (0 si fue omitido).
func (s StockSummary) Bucket(name string) int64 {
	for _, h := range s.Health {
		if h.Bucket == name {
			return h.Quantity
		}
	}
	return 0
}

// Classify ubica un vencimiento respecto de hoy: vencido si es anterior a hoy,
// por vencer si cae en [hoy, hoy+windowDays] y bueno en otro caso.
// today y expiry se comparan como días de calendario (medianoche UTC).
func Classify(expiry, today time.Time, windowDays int) string {
	if expiry.Before(today) {
		return HealthExpired
	}
	if !expiry.After(today.AddDate(0, 0, windowDays)) {
		return HealthExpiringSoon
	}
	return HealthGood
}

// IsLowStock stock actual menor o igual al mínimo.
func IsLowStock(current, minLevel int64) bool {
	return current <= minLevel
}

// Summarize calcula stock actual, alerta de stock bajo, buckets de salud y próximo vencimiento.
func Summarize(product *entity.Product, batches []*entity.Batch, today time.Time, windowDays int) StockSummary {
	var good, soon, expired int64
	var next *time.Time
	sum := StockSummary{ProductID: product.ID}

	for _, b := range batches {
		if b.ProductID != product.ID || b.Quantity <= 0 {
			continue
		}
		sum.CurrentStock += b.Quantity
		switch Classify(b.ExpiryDate, today, windowDays) {
		case HealthExpired:
			expired += b.Quantity
		case HealthExpiringSoon:
			soon += b.Quantity
		default:
			good += b.Quantity
		}
		if next == nil || b.ExpiryDate.Before(*next) {
			e := b.ExpiryDate
			next = &e
		}
	}

	for _, h := range []HealthBucket{
		{Bucket: HealthGood, Quantity: good},
		{Bucket: HealthExpiringSoon, Quantity: soon},
		{Bucket: HealthExpired, Quantity: expired},
	} {
		if h.Quantity > 0 {
			sum.Health = append(sum.Health, h)
		}
	}
	sum.IsLowStock = IsLowStock(sum.CurrentStock, product.MinLevel)
	sum.NextExpiry = next
	return sum
}
