package seed

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Actor registrado como received_by de los lotes cargados.
const Actor = "seed"

// ProductCreator lo que el seed necesita del alta de productos.
type ProductCreator interface {
	Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductListItem, error)
}

// ProductFinder resuelve un SKU ya existente a su ID.
type ProductFinder interface {
	IDBySKU(ctx context.Context, sku string) (string, error)
}

// RepoFinder ProductFinder sobre el repositorio de productos.
type RepoFinder struct {
	Repo repository.ProductRepository
}

// IDBySKU implementa ProductFinder.
func (f RepoFinder) IDBySKU(ctx context.Context, sku string) (string, error) {
	p, err := f.Repo.GetBySKU(ctx, sku)
	if err != nil {
		return "", err
	}
	if p == nil {
		return "", domain.ErrNotFound
	}
	return p.ID, nil
}

// Receiver registra entradas de stock.
type Receiver interface {
	ReceiveStock(ctx context.Context, in ledger.ReceiveInput) (*ledger.ReceiveResult, error)
}

// Report resultado de aplicar una planilla.
type Report struct {
	ProductsCreated int
	ProductsReused  int
	BatchesReceived int
	Units           int64
	Skipped         []string // "línea N: motivo"
}

// Apply crea los productos que falten y registra una entrada por cada fila con quantity > 0.
// Una fila inválida se reporta y se salta; un error de infraestructura corta la carga.
func Apply(ctx context.Context, rows []Row, products ProductCreator, finder ProductFinder, receiver Receiver, log zerolog.Logger) (*Report, error) {
	rep := &Report{}
	ids := map[string]string{}

	for _, row := range rows {
		sku := row.Get(ColSKU)
		id, ok := ids[sku]
		if !ok {
			p, err := products.Create(ctx, dto.CreateProductRequest{
				SKU:      sku,
				Name:     row.Get(ColName),
				Unit:     row.Get(ColUnit),
				MinLevel: dto.MinLevelFromText(row.Get(ColMinLevel)),
				Note:     row.Get(ColNote),
			})
			switch {
			case err == nil:
				id = p.ID
				rep.ProductsCreated++
			case errors.Is(err, domain.ErrDuplicate):
				if id, err = finder.IDBySKU(ctx, sku); err != nil {
					return rep, err
				}
				rep.ProductsReused++
			case errors.Is(err, domain.ErrInvalidInput):
				rep.skip(row, err)
				continue
			default:
				return rep, fmt.Errorf("seed: crear producto %s: %w", sku, err)
			}
			ids[sku] = id
		}

		qtyRaw := row.Get(ColQuantity)
		if qtyRaw == "" || qtyRaw == "0" {
			continue
		}
		qty, err := strconv.ParseInt(qtyRaw, 10, 64)
		if err != nil {
			rep.skip(row, fmt.Errorf("quantity %q no es un entero", qtyRaw))
			continue
		}
		in := ledger.ReceiveInput{
			ProductID:  id,
			Quantity:   qty,
			ExpiryDate: row.Get(ColExpiryDate),
			BatchCode:  row.Get(ColBatchCode),
			Note:       row.Get(ColNote),
			Actor:      Actor,
		}
		if in.CostPrice, err = price(row, ColCostPrice); err == nil {
			if in.SalePrice, err = price(row, ColSalePrice); err == nil {
				in.WholesalePrice, err = price(row, ColWholesalePrice)
			}
		}
		if err != nil {
			rep.skip(row, err)
			continue
		}
		if _, err := receiver.ReceiveStock(ctx, in); err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				rep.skip(row, err)
				continue
			}
			return rep, fmt.Errorf("seed: entrada línea %d: %w", row.Line, err)
		}
		rep.BatchesReceived++
		rep.Units += qty
	}

	log.Info().
		Int("products_created", rep.ProductsCreated).
		Int("products_reused", rep.ProductsReused).
		Int("batches", rep.BatchesReceived).
		Int64("units", rep.Units).
		Int("skipped", len(rep.Skipped)).
		Msg("planilla aplicada")
	return rep, nil
}

func (r *Report) skip(row Row, err error) {
	r.Skipped = append(r.Skipped, fmt.Sprintf("línea %d: %v", row.Line, err))
}

// price acepta vacío (0) y coma decimal.
func price(row Row, col string) (decimal.Decimal, error) {
	raw := row.Get(col)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(normalizeDecimal(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s %q no es un número", col, raw)
	}
	return d, nil
}

func normalizeDecimal(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ',':
			out = append(out, '.')
		case ' ', '$':
		default:
			out = append(out, s[i])
		}
	}
	return string(out)
}
