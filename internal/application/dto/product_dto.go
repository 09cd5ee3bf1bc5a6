package dto

import (
	"encoding/json"
	"strconv"
)

// CreateProductRequest entrada para crear un producto (acción administrativa).
// min_level llega como número o texto; se interpreta de forma tolerante.
// En formularios (multipart / urlencoded) el decodificador de fiber no lo toca: lo completa
// el handler con MinLevelFromText.
type CreateProductRequest struct {
	SKU      string          `json:"sku" form:"sku"`
	Name     string          `json:"name" form:"name"`
	Unit     string          `json:"unit" form:"unit"`
	MinLevel json.RawMessage `json:"min_level" form:"-"`
	Note     string          `json:"note" form:"note"`
	Image    string          `json:"image" form:"image"`
}

// MinLevelFromText min_level recibido como texto plano (campo de formulario, celda CSV).
func MinLevelFromText(raw string) json.RawMessage {
	if raw == "" {
		return nil
	}
	return json.RawMessage(strconv.Quote(raw))
}

// ProductListItem tarjeta de producto con su stock derivado.
type ProductListItem struct {
	ID         string            `json:"id"`
	SKU        string            `json:"sku"`
	Name       string            `json:"name"`
	Unit       string            `json:"unit"`
	MinLevel   int64             `json:"min_level"`
	Image      string            `json:"image,omitempty"`
	Note       string            `json:"note,omitempty"`
	TotalStock int64             `json:"total_stock"`
	NextExpiry string            `json:"next_expiry,omitempty"`
	IsLowStock bool              `json:"is_low_stock"`
	Health     []HealthBucketDTO `json:"health,omitempty"`
}
