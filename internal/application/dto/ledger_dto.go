package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveStockRequest body de POST /api/stock/in.
// quantity acepta número o texto numérico (los formularios del cliente envían texto).
type ReceiveStockRequest struct {
	ProductID      string          `json:"product_id"`
	Quantity       json.Number     `json:"quantity"`
	ExpiryDate     string          `json:"expiry_date"`
	CostPrice      decimal.Decimal `json:"cost_price"`
	SalePrice      decimal.Decimal `json:"sale_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	BatchCode      string          `json:"batch_code,omitempty"`
	Note           string          `json:"note,omitempty"`
}

// IssueStockRequest body de POST /api/stock/out.
type IssueStockRequest struct {
	ProductID string      `json:"product_id"`
	Quantity  json.Number `json:"quantity"`
	Note      string      `json:"note,omitempty"`
}

// BatchResponse un lote tal como lo muestra la tabla de lotes.
type BatchResponse struct {
	ID              string          `json:"id"`
	BatchCode       string          `json:"batch_code,omitempty"`
	ReceivedDate    time.Time       `json:"received_date"`
	ReceivedBy      string          `json:"received_by,omitempty"`
	Note            string          `json:"note,omitempty"`
	ExpiryDate      string          `json:"expiry_date"`
	Quantity        int64           `json:"quantity"`
	InitialQuantity int64           `json:"initial_quantity"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	SalePrice       decimal.Decimal `json:"sale_price"`
	WholesalePrice  decimal.Decimal `json:"wholesale_price"`
}

// AllocationResponse un par (lote, cantidad) de una salida.
type AllocationResponse struct {
	BatchID  string `json:"batch_id"`
	Label    string `json:"label,omitempty"`
	Quantity int64  `json:"quantity"`
}

// TransactionResponse una fila del historial de un producto.
type TransactionResponse struct {
	ID          string               `json:"id"`
	Type        string               `json:"type"`
	Quantity    int64                `json:"quantity"`
	CreatedAt   time.Time            `json:"created_at"`
	CreatedBy   string               `json:"created_by,omitempty"`
	Note        string               `json:"note,omitempty"`
	BatchID     string               `json:"batch_id,omitempty"`
	Allocations []AllocationResponse `json:"allocations,omitempty"`
}

// ProductHistoryResponse respuesta de GET /api/products/:id/history.
type ProductHistoryResponse struct {
	Status       string                `json:"status"`
	Product      ProductListItem       `json:"product"`
	Batches      []BatchResponse       `json:"batches"`
	Transactions []TransactionResponse `json:"transactions"`
}

// HistoryItem una fila del historial global (GET /api/history).
type HistoryItem struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	ProductName string    `json:"product_name"`
	SKU         string    `json:"sku"`
	Quantity    int64     `json:"quantity"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiryDate  string    `json:"expiry_date,omitempty"`
	BatchCode   string    `json:"batch_code,omitempty"`
	Note        string    `json:"note,omitempty"`
	Image       string    `json:"image,omitempty"`
	Summary     []string  `json:"summary,omitempty"`
}

// HealthBucketDTO unidades de un estado de salud.
type HealthBucketDTO struct {
	Bucket   string `json:"bucket"`
	Quantity int64  `json:"quantity"`
}

// StockSummaryResponse respuesta de GET /api/products/:id/summary.
type StockSummaryResponse struct {
	Status        string            `json:"status"`
	ProductID     string            `json:"product_id"`
	CurrentStock  int64             `json:"current_stock"`
	IsLowStock    bool              `json:"is_low_stock"`
	HealthBuckets []HealthBucketDTO `json:"health_buckets"`
	NextExpiry    string            `json:"next_expiry,omitempty"`
	TotalIn       int64             `json:"total_in"`
	TotalOut      int64             `json:"total_out"`
}

// MonthlyMovementDTO un punto del gráfico de tendencia.
type MonthlyMovementDTO struct {
	Month    string `json:"month"`
	TotalIn  int64  `json:"total_in"`
	TotalOut int64  `json:"total_out"`
}

// MismatchDTO una diferencia encontrada por la conciliación.
type MismatchDTO struct {
	BatchID  string `json:"batch_id,omitempty"`
	Expected int64  `json:"expected"`
	Actual   int64  `json:"actual"`
	Reason   string `json:"reason"`
}

// ReconcileResponse respuesta de GET /api/products/:id/reconcile.
type ReconcileResponse struct {
	Status     string        `json:"status"`
	ProductID  string        `json:"product_id"`
	Consistent bool          `json:"consistent"`
	Mismatches []MismatchDTO `json:"mismatches"`
}
