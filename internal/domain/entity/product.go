package entity

import "time"

// Product representa un producto del inventario por lotes.
// Nunca es dueño de lotes ni transacciones: solo es referenciado por ellos.
type Product struct {
	ID        string
	SKU       string // único y estable
	Name      string
	Unit      string // etiqueta de unidad: "pcs", "caja", ...
	MinLevel  int64  // umbral de stock bajo
	Note      string
	Image     string // referencia opcional a la imagen (la subida es externa)
	CreatedAt time.Time
	UpdatedAt time.Time
}
