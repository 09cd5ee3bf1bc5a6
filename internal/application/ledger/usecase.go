// Package ledger implementa la fachada del libro de lotes: las dos operaciones que mutan
// (entrada y salida de stock) y las vistas de solo lectura que se recalculan en cada consulta.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domledger "github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// DefaultActor actor registrado cuando la petición no trae identidad.
const DefaultActor = "system"

// LedgerUseCase registra entradas y salidas por lote de forma transaccional y por producto.
type LedgerUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	policy      Policy
	log         zerolog.Logger
	now         func() time.Time
}

// NewLedgerUseCase construye la fachada.
func NewLedgerUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	policy Policy,
	log zerolog.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		policy:      policy.normalized(),
		log:         log,
		now:         time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *LedgerUseCase) WithClock(now func() time.Time) *LedgerUseCase {
	uc.now = now
	return uc
}

// Policy devuelve la política efectiva.
func (uc *LedgerUseCase) Policy() Policy { return uc.policy }

// today día de calendario actual en la zona configurada.
func (uc *LedgerUseCase) today() time.Time {
	return domledger.CalendarDay(uc.now(), uc.policy.Location)
}

// ReceiveInput entrada de stock ya tipada.
type ReceiveInput struct {
	ProductID      string
	Quantity       int64
	ExpiryDate     string
	CostPrice      decimal.Decimal
	SalePrice      decimal.Decimal
	WholesalePrice decimal.Decimal
	BatchCode      string
	Note           string
	Actor          string
}

// ReceiveResult lote y transacción creados por una entrada.
type ReceiveResult struct {
	BatchID       string
	TransactionID string
}

// IssueInput salida de stock ya tipada.
type IssueInput struct {
	ProductID string
	Quantity  int64
	Note      string
	Actor     string
}

// IssueResult transacción creada y lista de picking (en orden FIFO).
type IssueResult struct {
	TransactionID string
	Picks         domledger.PickList
}

// ReceiveStock crea un lote nuevo con saldo = cantidad y agrega la transacción IN, en la misma unidad de trabajo.
func (uc *LedgerUseCase) ReceiveStock(ctx context.Context, in ReceiveInput) (*ReceiveResult, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, domain.NewValidationError("product_id", "product_id es obligatorio")
	}
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "la cantidad debe ser mayor que cero")
	}
	expiry, err := domledger.ParseCalendarDate(in.ExpiryDate)
	if err != nil {
		return nil, err
	}
	for _, p := range []struct {
		field string
		value decimal.Decimal
	}{
		{"cost_price", in.CostPrice},
		{"sale_price", in.SalePrice},
		{"wholesale_price", in.WholesalePrice},
	} {
		if p.value.IsNegative() {
			return nil, domain.NewValidationError(p.field, "los precios no pueden ser negativos")
		}
	}
	if err := uc.ensureProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	actor := actorOrDefault(in.Actor)

	var res ReceiveResult
	err = uc.withRetry(ctx, "receive", in.ProductID, func() error {
		now := uc.now()
		b := &entity.Batch{
			ID:              uuid.New().String(),
			ProductID:       in.ProductID,
			BatchCode:       strings.TrimSpace(in.BatchCode),
			InitialQuantity: in.Quantity,
			Quantity:        in.Quantity,
			ExpiryDate:      expiry,
			ReceivedDate:    now,
			ReceivedBy:      actor,
			CostPrice:       in.CostPrice,
			SalePrice:       in.SalePrice,
			WholesalePrice:  in.WholesalePrice,
			Note:            in.Note,
		}
		t := &entity.Transaction{
			ID:        uuid.New().String(),
			ProductID: in.ProductID,
			Type:      entity.TransactionTypeIN,
			Quantity:  in.Quantity,
			BatchID:   b.ID,
			Note:      in.Note,
			CreatedBy: actor,
			CreatedAt: now,
		}
		return uc.txRunner.RunForProduct(ctx, in.ProductID, func(
			batchRepo repository.BatchRepository,
			txRepo repository.TransactionRepository,
		) error {
			current, err := batchRepo.ListAvailableForUpdate(ctx, in.ProductID)
			if err != nil {
				return err
			}
			if err := domledger.CheckCapacity(current, in.Quantity); err != nil {
				return err
			}
			if err := batchRepo.Create(ctx, b); err != nil {
				return err
			}
			if err := txRepo.Create(ctx, t); err != nil {
				return err
			}
			res = ReceiveResult{BatchID: b.ID, TransactionID: t.ID}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("product_id", in.ProductID).
		Str("batch_id", res.BatchID).
		Int64("quantity", in.Quantity).
		Str("expiry_date", expiry.Format(entity.DateLayout)).
		Msg("entrada registrada")
	return &res, nil
}

// IssueStock descuenta la cantidad de los lotes del producto en orden de vencimiento.
// Planificación, decremento de lotes y transacción OUT se confirman juntos; si el stock no
// alcanza no se toca ningún lote.
func (uc *LedgerUseCase) IssueStock(ctx context.Context, in IssueInput) (*IssueResult, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, domain.NewValidationError("product_id", "product_id es obligatorio")
	}
	if in.Quantity <= 0 {
		return nil, domain.NewValidationError("quantity", "la cantidad debe ser mayor que cero")
	}
	if err := uc.ensureProduct(ctx, in.ProductID); err != nil {
		return nil, err
	}
	actor := actorOrDefault(in.Actor)

	var res IssueResult
	err := uc.withRetry(ctx, "issue", in.ProductID, func() error {
		return uc.txRunner.RunForProduct(ctx, in.ProductID, func(
			batchRepo repository.BatchRepository,
			txRepo repository.TransactionRepository,
		) error {
			batches, err := batchRepo.ListAvailableForUpdate(ctx, in.ProductID)
			if err != nil {
				return err
			}
			picks, err := domledger.PlanDepletion(batches, in.Quantity)
			if err != nil {
				return err
			}
			for _, p := range picks {
				if err := batchRepo.UpdateQuantity(ctx, p.BatchID, p.Remaining); err != nil {
					return err
				}
			}
			t := &entity.Transaction{
				ID:          uuid.New().String(),
				ProductID:   in.ProductID,
				Type:        entity.TransactionTypeOUT,
				Quantity:    in.Quantity,
				Allocations: picks.Allocations(),
				Note:        in.Note,
				CreatedBy:   actor,
				CreatedAt:   uc.now(),
			}
			if err := txRepo.Create(ctx, t); err != nil {
				return err
			}
			res = IssueResult{TransactionID: t.ID, Picks: picks}
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			uc.log.Debug().Str("product_id", in.ProductID).Int64("quantity", in.Quantity).Err(err).Msg("salida rechazada")
		}
		return nil, err
	}

	uc.log.Info().
		Str("product_id", in.ProductID).
		Str("transaction_id", res.TransactionID).
		Int64("quantity", in.Quantity).
		Int("batches", len(res.Picks)).
		Msg("salida registrada")
	return &res, nil
}

// ReceiveFromRequest adapta el body HTTP a ReceiveStock y arma el sobre de respuesta.
func (uc *LedgerUseCase) ReceiveFromRequest(ctx context.Context, actor string, in dto.ReceiveStockRequest) (*dto.StatusResponse, error) {
	qty, err := domledger.ParseQuantity(in.Quantity.String())
	if err != nil {
		return nil, err
	}
	res, err := uc.ReceiveStock(ctx, ReceiveInput{
		ProductID:      in.ProductID,
		Quantity:       qty,
		ExpiryDate:     in.ExpiryDate,
		CostPrice:      in.CostPrice,
		SalePrice:      in.SalePrice,
		WholesalePrice: in.WholesalePrice,
		BatchCode:      in.BatchCode,
		Note:           in.Note,
		Actor:          actor,
	})
	if err != nil {
		return nil, err
	}
	out := dto.Success(fmt.Sprintf("recibidas %d unidades", qty))
	out.BatchID = res.BatchID
	return &out, nil
}

// IssueFromRequest adapta el body HTTP a IssueStock. El resumen de picking solo se incluye
// cuando la salida tocó más de un lote.
func (uc *LedgerUseCase) IssueFromRequest(ctx context.Context, actor string, in dto.IssueStockRequest) (*dto.StatusResponse, error) {
	qty, err := domledger.ParseQuantity(in.Quantity.String())
	if err != nil {
		return nil, err
	}
	res, err := uc.IssueStock(ctx, IssueInput{
		ProductID: in.ProductID,
		Quantity:  qty,
		Note:      in.Note,
		Actor:     actor,
	})
	if err != nil {
		return nil, err
	}
	out := dto.Success(fmt.Sprintf("retiradas %d unidades", qty))
	if len(res.Picks) > 1 {
		out.Summary = domledger.SummaryLines(res.Picks)
	} else if len(res.Picks) == 1 {
		out.Message = fmt.Sprintf("retiradas %d unidades del lote %s", qty, res.Picks[0].Label)
	}
	return &out, nil
}

func (uc *LedgerUseCase) ensureProduct(ctx context.Context, productID string) error {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("obtener producto: %w", err)
	}
	if p == nil {
		return domain.ErrNotFound
	}
	return nil
}

// withRetry reintenta fn mientras pierda la carrera por el producto. Si un intento tiene éxito
// el conflicto nunca llega al cliente.
func (uc *LedgerUseCase) withRetry(ctx context.Context, op, productID string, fn func() error) error {
	var err error
	for attempt := 0; attempt <= uc.policy.ConflictRetries; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		err = fn()
		if !errors.Is(err, domain.ErrConcurrencyConflict) {
			return err
		}
		uc.log.Warn().
			Str("op", op).
			Str("product_id", productID).
			Int("attempt", attempt+1).
			Msg("conflicto de concurrencia, reintentando")
	}
	return err
}

func actorOrDefault(actor string) string {
	if a := strings.TrimSpace(actor); a != "" {
		return a
	}
	return DefaultActor
}
