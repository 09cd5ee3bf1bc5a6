package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
)

// StockHandler entradas, salidas e historial global.
type StockHandler struct {
	ledger *ledger.LedgerUseCase
	log    zerolog.Logger
}

// NewStockHandler construye el handler.
func NewStockHandler(l *ledger.LedgerUseCase, log zerolog.Logger) *StockHandler {
	return &StockHandler{ledger: l, log: log}
}

// Receive godoc
// @Summary      Registrar entrada (IN)
// @Description  Crea un lote nuevo con su vencimiento y precios, y la transacción IN.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        X-Actor  header  string                   false  "Operador (sin autenticación)"
// @Param        body     body    dto.ReceiveStockRequest  true   "product_id, quantity, expiry_date, precios"
// @Success      201      {object}  dto.StatusResponse
// @Failure      400      {object}  dto.StatusResponse
// @Failure      404      {object}  dto.StatusResponse
// @Router       /api/stock/in [post]
func (h *StockHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.ledger.ReceiveFromRequest(c.UserContext(), Actor(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Issue godoc
// @Summary      Registrar salida (OUT)
// @Description  Descuenta de los lotes que vencen primero. Si la salida toca varios lotes devuelve el resumen.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Param        X-Actor  header  string                 false  "Operador (sin autenticación)"
// @Param        body     body    dto.IssueStockRequest  true   "product_id, quantity, note?"
// @Success      200      {object}  dto.StatusResponse
// @Failure      400      {object}  dto.StatusResponse
// @Failure      404      {object}  dto.StatusResponse
// @Failure      409      {object}  dto.StatusResponse
// @Router       /api/stock/out [post]
func (h *StockHandler) Issue(c *fiber.Ctx) error {
	var in dto.IssueStockRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.ledger.IssueFromRequest(c.UserContext(), Actor(c), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial global de transacciones
// @Tags         stock
// @Produce      json
// @Success      200  {array}   dto.HistoryItem
// @Failure      500  {object}  dto.StatusResponse
// @Router       /api/history [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	list, err := h.ledger.GlobalHistory(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(list)
}
