package ledger

import (
	"time"

	domledger "github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

// Policy constantes de negocio configurables del libro.
type Policy struct {
	ExpiryWindowDays int            // ventana de "por vencer" en días
	ConflictRetries  int            // reintentos ante ErrConcurrencyConflict
	Location         *time.Location // zona para "hoy" y para las claves de mes
	StrictMinLevel   bool           // min_level mal formado: error (true) o 0 (false)
	HistoryLimit     int            // filas del historial global
}

// DefaultPolicy valores observados en el cliente original.
func DefaultPolicy() Policy {
	return Policy{
		ExpiryWindowDays: domledger.DefaultExpiryWindowDays,
		ConflictRetries:  3,
		Location:         time.UTC,
		HistoryLimit:     500,
	}
}

func (p Policy) normalized() Policy {
	def := DefaultPolicy()
	if p.ExpiryWindowDays <= 0 {
		p.ExpiryWindowDays = def.ExpiryWindowDays
	}
	if p.ConflictRetries < 0 {
		p.ConflictRetries = 0
	}
	if p.Location == nil {
		p.Location = def.Location
	}
	if p.HistoryLimit <= 0 {
		p.HistoryLimit = def.HistoryLimit
	}
	return p
}
