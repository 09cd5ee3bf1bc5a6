package ledger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domledger "github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// DefaultUnit unidad usada cuando el alta no indica ninguna.
const DefaultUnit = "pcs"

// ProductUseCase alta de productos. Los lotes y transacciones solo referencian productos.
type ProductUseCase struct {
	repo   repository.ProductRepository
	strict bool
	log    zerolog.Logger
}

// NewProductUseCase construye el caso de uso. strict=true rechaza un min_level mal formado en
// lugar de tomarlo como 0.
func NewProductUseCase(repo repository.ProductRepository, strict bool, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, strict: strict, log: log}
}

// Create da de alta un producto. El SKU es único.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductListItem, error) {
	sku := strings.TrimSpace(in.SKU)
	name := strings.TrimSpace(in.Name)
	if sku == "" || name == "" {
		return nil, domain.NewValidationError("sku", "sku y name son requeridos")
	}

	minLevel, ok := domledger.CoerceInt(string(in.MinLevel))
	if !ok || minLevel < 0 {
		if uc.strict {
			return nil, domain.NewValidationError("min_level", "min_level debe ser un entero no negativo")
		}
		uc.log.Debug().Str("sku", sku).Str("min_level", string(in.MinLevel)).Msg("min_level inválido, se usa 0")
		minLevel = 0
	}

	existing, err := uc.repo.GetBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = DefaultUnit
	}
	now := time.Now()
	p := &entity.Product{
		ID:        uuid.New().String(),
		SKU:       sku,
		Name:      name,
		Unit:      unit,
		MinLevel:  minLevel,
		Note:      in.Note,
		Image:     in.Image,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// el repositorio devuelve domain.ErrDuplicate si otro alta ganó la carrera por el SKU
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", p.ID).Str("sku", p.SKU).Msg("producto creado")

	item := toProductListItem(p, domledger.StockSummary{IsLowStock: domledger.IsLowStock(0, minLevel)})
	return &item, nil
}
