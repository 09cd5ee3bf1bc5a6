package ledger

import (
	"context"
	"fmt"
	"slices"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domledger "github.com/jhoicas/stock-ledger/internal/domain/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Las vistas se recalculan en cada llamada desde lotes y transacciones; no hay caché que pueda
// divergir del libro.

// ListProducts devuelve todas las tarjetas de producto con stock total, próximo vencimiento y salud.
func (uc *LedgerUseCase) ListProducts(ctx context.Context) ([]dto.ProductListItem, error) {
	today := uc.today()
	var out []dto.ProductListItem
	err := uc.txRunner.View(ctx, func(
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
		_ repository.TransactionRepository,
	) error {
		products, err := productRepo.List(ctx)
		if err != nil {
			return err
		}
		available, err := batchRepo.ListAvailable(ctx)
		if err != nil {
			return err
		}
		byProduct := make(map[string][]*entity.Batch, len(products))
		for _, b := range available {
			byProduct[b.ProductID] = append(byProduct[b.ProductID], b)
		}
		out = make([]dto.ProductListItem, 0, len(products))
		for _, p := range products {
			s := domledger.Summarize(p, byProduct[p.ID], today, uc.policy.ExpiryWindowDays)
			out = append(out, toProductListItem(p, s))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	return out, nil
}

// ListBatches devuelve todos los lotes del producto (incluidos los agotados) en orden FIFO.
func (uc *LedgerUseCase) ListBatches(ctx context.Context, productID string) ([]dto.BatchResponse, error) {
	var out []dto.BatchResponse
	err := uc.txRunner.View(ctx, func(
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
		_ repository.TransactionRepository,
	) error {
		if _, err := mustProduct(ctx, productRepo, productID); err != nil {
			return err
		}
		batches, err := batchRepo.ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		out = toBatchResponses(batches)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ProductSnapshot producto, lotes y transacciones leídos en una misma vista.
type ProductSnapshot struct {
	Product      *entity.Product
	Batches      []*entity.Batch
	Transactions []*entity.Transaction // de la más antigua a la más reciente
}

// Snapshot lee el estado completo de un producto de forma consistente.
func (uc *LedgerUseCase) Snapshot(ctx context.Context, productID string) (*ProductSnapshot, error) {
	var snap ProductSnapshot
	err := uc.txRunner.View(ctx, func(
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
		txRepo repository.TransactionRepository,
	) error {
		p, err := mustProduct(ctx, productRepo, productID)
		if err != nil {
			return err
		}
		batches, err := batchRepo.ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		txs, err := txRepo.ListByProduct(ctx, productID)
		if err != nil {
			return err
		}
		snap = ProductSnapshot{Product: p, Batches: batches, Transactions: txs}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// ProductHistory producto + lotes + transacciones (la más reciente primero).
func (uc *LedgerUseCase) ProductHistory(ctx context.Context, productID string) (*dto.ProductHistoryResponse, error) {
	snap, err := uc.Snapshot(ctx, productID)
	if err != nil {
		return nil, err
	}
	s := domledger.Summarize(snap.Product, snap.Batches, uc.today(), uc.policy.ExpiryWindowDays)

	labels := make(map[string]string, len(snap.Batches))
	for _, b := range snap.Batches {
		labels[b.ID] = b.Label()
	}
	txs := make([]dto.TransactionResponse, 0, len(snap.Transactions))
	for _, t := range slices.Backward(snap.Transactions) {
		txs = append(txs, toTransactionResponse(t, labels))
	}
	return &dto.ProductHistoryResponse{
		Status:       dto.StatusSuccess,
		Product:      toProductListItem(snap.Product, s),
		Batches:      toBatchResponses(snap.Batches),
		Transactions: txs,
	}, nil
}

// Summarize vista del agregador de stock para un producto.
func (uc *LedgerUseCase) Summarize(ctx context.Context, productID string) (*dto.StockSummaryResponse, error) {
	snap, err := uc.Snapshot(ctx, productID)
	if err != nil {
		return nil, err
	}
	s := domledger.Summarize(snap.Product, snap.Batches, uc.today(), uc.policy.ExpiryWindowDays)
	totalIn, totalOut := domledger.Totals(productID, snap.Transactions)

	out := &dto.StockSummaryResponse{
		Status:        dto.StatusSuccess,
		ProductID:     productID,
		CurrentStock:  s.CurrentStock,
		IsLowStock:    s.IsLowStock,
		HealthBuckets: toHealthDTO(s.Health),
		TotalIn:       totalIn,
		TotalOut:      totalOut,
	}
	if s.NextExpiry != nil {
		out.NextExpiry = s.NextExpiry.Format(entity.DateLayout)
	}
	return out, nil
}

// MonthlyMovement totales IN/OUT por mes para el gráfico de tendencia.
func (uc *LedgerUseCase) MonthlyMovement(ctx context.Context, productID string) ([]dto.MonthlyMovementDTO, error) {
	snap, err := uc.Snapshot(ctx, productID)
	if err != nil {
		return nil, err
	}
	months := domledger.MonthlyMovement(productID, snap.Transactions, uc.policy.Location)
	out := make([]dto.MonthlyMovementDTO, 0, len(months))
	for _, m := range months {
		out = append(out, dto.MonthlyMovementDTO{Month: m.Month, TotalIn: m.TotalIn, TotalOut: m.TotalOut})
	}
	return out, nil
}

// Reconcile compara saldos de lotes contra el historial de transacciones.
func (uc *LedgerUseCase) Reconcile(ctx context.Context, productID string) (*dto.ReconcileResponse, error) {
	snap, err := uc.Snapshot(ctx, productID)
	if err != nil {
		return nil, err
	}
	mismatches := domledger.Reconcile(productID, snap.Batches, snap.Transactions)
	out := &dto.ReconcileResponse{
		Status:     dto.StatusSuccess,
		ProductID:  productID,
		Consistent: len(mismatches) == 0,
		Mismatches: make([]dto.MismatchDTO, 0, len(mismatches)),
	}
	for _, m := range mismatches {
		out.Mismatches = append(out.Mismatches, dto.MismatchDTO{
			BatchID: m.BatchID, Expected: m.Expected, Actual: m.Actual, Reason: m.Reason,
		})
	}
	if !out.Consistent {
		uc.log.Error().Str("product_id", productID).Int("mismatches", len(mismatches)).Msg("libro descuadrado")
	}
	return out, nil
}

// GlobalHistory últimas transacciones de todos los productos, la más reciente primero.
// Para IN se informa el lote creado; para OUT de un solo lote, ese lote; si tocó varios, el resumen.
func (uc *LedgerUseCase) GlobalHistory(ctx context.Context) ([]dto.HistoryItem, error) {
	var out []dto.HistoryItem
	err := uc.txRunner.View(ctx, func(
		productRepo repository.ProductRepository,
		batchRepo repository.BatchRepository,
		txRepo repository.TransactionRepository,
	) error {
		txs, err := txRepo.ListRecent(ctx, uc.policy.HistoryLimit)
		if err != nil {
			return err
		}
		products := make(map[string]*entity.Product)
		batches := make(map[string]*entity.Batch)
		batchByID := func(id string) (*entity.Batch, error) {
			if b, ok := batches[id]; ok {
				return b, nil
			}
			b, err := batchRepo.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			batches[id] = b
			return b, nil
		}

		out = make([]dto.HistoryItem, 0, len(txs))
		for _, t := range txs {
			p, ok := products[t.ProductID]
			if !ok {
				if p, err = productRepo.GetByID(ctx, t.ProductID); err != nil {
					return err
				}
				products[t.ProductID] = p
			}
			item := dto.HistoryItem{
				ID:        t.ID,
				Type:      t.Type,
				Quantity:  t.Quantity,
				CreatedAt: t.CreatedAt,
				Note:      t.Note,
			}
			if p != nil {
				item.ProductName, item.SKU, item.Image = p.Name, p.SKU, p.Image
			}

			batchID := t.BatchID
			if t.Type == entity.TransactionTypeOUT && len(t.Allocations) == 1 {
				batchID = t.Allocations[0].BatchID
			}
			if batchID != "" {
				b, err := batchByID(batchID)
				if err != nil {
					return err
				}
				if b != nil {
					item.ExpiryDate = b.ExpiryDate.Format(entity.DateLayout)
					item.BatchCode = b.BatchCode
				}
			}
			if t.Type == entity.TransactionTypeOUT && len(t.Allocations) > 1 {
				picks := make(domledger.PickList, 0, len(t.Allocations))
				for _, a := range t.Allocations {
					b, err := batchByID(a.BatchID)
					if err != nil {
						return err
					}
					label := a.BatchID
					if b != nil {
						label = b.Label()
					}
					picks = append(picks, domledger.PickLine{BatchID: a.BatchID, Label: label, Quantity: a.Quantity})
				}
				item.Summary = domledger.SummaryLines(picks)
			}
			out = append(out, item)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("historial global: %w", err)
	}
	return out, nil
}

func mustProduct(ctx context.Context, repo repository.ProductRepository, id string) (*entity.Product, error) {
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func toProductListItem(p *entity.Product, s domledger.StockSummary) dto.ProductListItem {
	item := dto.ProductListItem{
		ID:         p.ID,
		SKU:        p.SKU,
		Name:       p.Name,
		Unit:       p.Unit,
		MinLevel:   p.MinLevel,
		Image:      p.Image,
		Note:       p.Note,
		TotalStock: s.CurrentStock,
		IsLowStock: s.IsLowStock,
		Health:     toHealthDTO(s.Health),
	}
	if s.NextExpiry != nil {
		item.NextExpiry = s.NextExpiry.Format(entity.DateLayout)
	}
	return item
}

func toHealthDTO(buckets []domledger.HealthBucket) []dto.HealthBucketDTO {
	out := make([]dto.HealthBucketDTO, 0, len(buckets))
	for _, h := range buckets {
		out = append(out, dto.HealthBucketDTO{Bucket: h.Bucket, Quantity: h.Quantity})
	}
	return out
}

func toBatchResponses(batches []*entity.Batch) []dto.BatchResponse {
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, dto.BatchResponse{
			ID:              b.ID,
			BatchCode:       b.BatchCode,
			ReceivedDate:    b.ReceivedDate,
			ReceivedBy:      b.ReceivedBy,
			Note:            b.Note,
			ExpiryDate:      b.ExpiryDate.Format(entity.DateLayout),
			Quantity:        b.Quantity,
			InitialQuantity: b.InitialQuantity,
			CostPrice:       b.CostPrice,
			SalePrice:       b.SalePrice,
			WholesalePrice:  b.WholesalePrice,
		})
	}
	return out
}

func toTransactionResponse(t *entity.Transaction, labels map[string]string) dto.TransactionResponse {
	out := dto.TransactionResponse{
		ID:        t.ID,
		Type:      t.Type,
		Quantity:  t.Quantity,
		CreatedAt: t.CreatedAt,
		CreatedBy: t.CreatedBy,
		Note:      t.Note,
		BatchID:   t.BatchID,
	}
	for _, a := range t.Allocations {
		out.Allocations = append(out.Allocations, dto.AllocationResponse{
			BatchID: a.BatchID, Label: labels[a.BatchID], Quantity: a.Quantity,
		})
	}
	return out
}
