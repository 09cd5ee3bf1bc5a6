package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domledger "github.com/jhoicas/stock-ledger/internal/domain/ledger"
)

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "25", formatMoney("25"))
	assert.Equal(t, "25.000", formatMoney("25000"))
	assert.Equal(t, "1.000.000", formatMoney("1000000"))
	assert.Equal(t, "-1.500", formatMoney("-1500"))
}

func TestGenerateStockCard_DevuelvePDF(t *testing.T) {
	expiry := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	card := ledger.StockCard{
		Product: &entity.Product{ID: "p-1", SKU: "SKU-1", Name: "Jarabe", Unit: "frasco", MinLevel: 5},
		Summary: domledger.StockSummary{
			ProductID:    "p-1",
			CurrentStock: 8,
			Health:       []domledger.HealthBucket{{Bucket: domledger.HealthGood, Quantity: 8}},
			NextExpiry:   &expiry,
		},
		Batches: []*entity.Batch{{
			ID: "b-1", ProductID: "p-1", BatchCode: "L-01", InitialQuantity: 10, Quantity: 8,
			ExpiryDate: expiry, ReceivedBy: "ana", CostPrice: decimal.NewFromInt(12000), SalePrice: decimal.NewFromInt(18000),
		}},
		Transactions: []*entity.Transaction{
			{ID: "t-2", ProductID: "p-1", Type: entity.TransactionTypeOUT, Quantity: 2, CreatedBy: "ana", CreatedAt: now},
			{ID: "t-1", ProductID: "p-1", Type: entity.TransactionTypeIN, Quantity: 10, CreatedBy: "ana", CreatedAt: now.Add(-time.Hour)},
		},
		Months:      []domledger.MonthlyTotal{{Month: "2024-03", TotalIn: 10, TotalOut: 2}},
		GeneratedAt: now,
	}

	out, err := NewStockCardGenerator().GenerateStockCard(context.Background(), card)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestGenerateStockCard_SinProducto(t *testing.T) {
	_, err := NewStockCardGenerator().GenerateStockCard(context.Background(), ledger.StockCard{})
	assert.Error(t, err)
}
