package ledger

import (
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ParseCalendarDate valida una fecha YYYY-MM-DD y la devuelve a medianoche UTC.
// time.Parse rechaza días inexistentes (2024-02-30), que es lo que se necesita aquí.
func ParseCalendarDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, domain.NewValidationError("expiry_date", "la fecha de vencimiento es obligatoria")
	}
	d, err := time.Parse(entity.DateLayout, s)
	if err != nil {
		return time.Time{}, domain.NewValidationError("expiry_date", "fecha de vencimiento inválida, use AAAA-MM-DD")
	}
	return d, nil
}

// CalendarDay trunca t al día de calendario en loc y lo expresa como medianoche UTC,
// el mismo formato en el que se guardan los vencimientos.
func CalendarDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseQuantity convierte la cantidad recibida (número o texto numérico) a entero positivo.
func ParseQuantity(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.NewValidationError("quantity", "la cantidad es obligatoria")
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.NewValidationError("quantity", "la cantidad debe ser un número entero")
	}
	if n <= 0 {
		return 0, domain.NewValidationError("quantity", "la cantidad debe ser mayor que cero")
	}
	return n, nil
}

// CoerceInt interpreta un entero tolerante: acepta "10", 10, "10.0" o vacío.
// ok es false cuando el valor no es numérico; en ese caso devuelve 0.
func CoerceInt(raw string) (n int64, ok bool) {
	raw = strings.Trim(strings.TrimSpace(raw), `"`)
	if raw == "" || raw == "null" {
		return 0, true
	}
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v, true
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int64(f), true
	}
	return 0, false
}
