// Package seed carga productos y lotes iniciales desde una planilla CSV usando los mismos casos
// de uso que la API, de modo que cada fila queda registrada como una entrada normal del libro.
package seed

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Columnas reconocidas. sku y name son obligatorias; las de lote solo si quantity > 0.
const (
	ColSKU            = "sku"
	ColName           = "name"
	ColUnit           = "unit"
	ColMinLevel       = "min_level"
	ColQuantity       = "quantity"
	ColExpiryDate     = "expiry_date"
	ColCostPrice      = "cost_price"
	ColSalePrice      = "sale_price"
	ColWholesalePrice = "wholesale_price"
	ColBatchCode      = "batch_code"
	ColNote           = "note"
)

// ErrMissingHeader la planilla no trae las columnas obligatorias.
var ErrMissingHeader = errors.New("seed: faltan columnas sku/name en el encabezado")

// Row una fila de la planilla, sin interpretar.
type Row struct {
	Line   int
	Fields map[string]string
}

// Get valor de una columna (vacío si no existe).
func (r Row) Get(col string) string { return r.Fields[col] }

// Parse lee el CSV. charset "latin1" / "iso-8859-1" / "windows-1252" transcodifica a UTF-8
// (planillas exportadas desde Excel en Windows); cualquier otro valor se asume UTF-8.
func Parse(r io.Reader, charset string) ([]Row, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "latin1", "iso-8859-1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	case "windows-1252", "cp1252":
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	}

	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = br.Discard(3)
	}

	cr := csv.NewReader(br)
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	// Excel en español separa con punto y coma
	if first, err := br.Peek(1); err == nil && len(first) > 0 {
		if head, _ := br.Peek(br.Buffered()); strings.Count(string(head), ";") > strings.Count(string(head), ",") {
			cr.Comma = ';'
		}
	}

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("seed: leer encabezado: %w", err)
	}
	cols := make([]string, len(header))
	seen := map[string]bool{}
	for i, h := range header {
		cols[i] = strings.ToLower(strings.TrimSpace(h))
		seen[cols[i]] = true
	}
	if !seen[ColSKU] || !seen[ColName] {
		return nil, ErrMissingHeader
	}

	var rows []Row
	line := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("seed: línea %d: %w", line, err)
		}
		row := Row{Line: line, Fields: make(map[string]string, len(cols))}
		empty := true
		for i, v := range rec {
			if i >= len(cols) {
				break
			}
			v = strings.TrimSpace(v)
			if v != "" {
				empty = false
			}
			row.Fields[cols[i]] = v
		}
		if !empty {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
