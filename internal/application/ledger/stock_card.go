package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domledger "github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

// stockCardTransactions cuántas transacciones recientes entran en la ficha.
const stockCardTransactions = 40

// StockCard datos de la ficha de stock imprimible de un producto.
type StockCard struct {
	Product      *entity.Product
	Summary      domledger.StockSummary
	Batches      []*entity.Batch       // solo lotes con saldo, en orden FIFO
	Transactions []*entity.Transaction // las más recientes primero
	Months       []domledger.MonthlyTotal
	GeneratedAt  time.Time
}

// StockCardGenerator puerto del generador de PDF.
type StockCardGenerator interface {
	GenerateStockCard(ctx context.Context, card StockCard) ([]byte, error)
}

// StockCardUseCase arma la ficha de stock y delega el render al generador.
type StockCardUseCase struct {
	ledger    *LedgerUseCase
	generator StockCardGenerator
}

// NewStockCardUseCase construye el caso de uso.
func NewStockCardUseCase(ledger *LedgerUseCase, generator StockCardGenerator) *StockCardUseCase {
	return &StockCardUseCase{ledger: ledger, generator: generator}
}

// DownloadStockCard devuelve el PDF y un nombre de archivo sugerido.
func (uc *StockCardUseCase) DownloadStockCard(ctx context.Context, productID string) (pdfBytes []byte, filename string, err error) {
	snap, err := uc.ledger.Snapshot(ctx, productID)
	if err != nil {
		return nil, "", err
	}
	policy := uc.ledger.Policy()
	now := uc.ledger.now()

	card := StockCard{
		Product:     snap.Product,
		Summary:     domledger.Summarize(snap.Product, snap.Batches, uc.ledger.today(), policy.ExpiryWindowDays),
		Months:      domledger.MonthlyMovement(productID, snap.Transactions, policy.Location),
		GeneratedAt: now.In(policy.Location),
	}
	for _, b := range snap.Batches {
		if !b.Exhausted() {
			card.Batches = append(card.Batches, b)
		}
	}
	for i := len(snap.Transactions) - 1; i >= 0 && len(card.Transactions) < stockCardTransactions; i-- {
		card.Transactions = append(card.Transactions, snap.Transactions[i])
	}

	pdfBytes, err = uc.generator.GenerateStockCard(ctx, card)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("ficha_%s_%s.pdf", snap.Product.SKU, now.Format("20060102")), nil
}
