package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/ledger"
)

// ProductHandler maneja las peticiones HTTP de productos y sus vistas derivadas.
type ProductHandler struct {
	ledger   *ledger.LedgerUseCase
	products *ledger.ProductUseCase
	cards    *ledger.StockCardUseCase
	log      zerolog.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(l *ledger.LedgerUseCase, products *ledger.ProductUseCase, cards *ledger.StockCardUseCase, log zerolog.Logger) *ProductHandler {
	return &ProductHandler{ledger: l, products: products, cards: cards, log: log}
}

// List godoc
// @Summary      Listar productos
// @Description  Tarjetas de producto con stock total, próximo vencimiento y salud del stock.
// @Tags         products
// @Produce      json
// @Success      200  {array}   dto.ProductListItem
// @Failure      500  {object}  dto.StatusResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	list, err := h.ledger.ListProducts(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(list)
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json,mpfd,x-www-form-urlencoded
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "sku, name, unit?, min_level?, note?, image?"
// @Success      201   {object}  dto.StatusResponse
// @Failure      400   {object}  dto.StatusResponse
// @Failure      409   {object}  dto.StatusResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	// el formulario del cliente manda min_level como texto
	if !c.Is("json") {
		in.MinLevel = dto.MinLevelFromText(c.FormValue("min_level"))
	}
	p, err := h.products.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	out := dto.Success("producto creado")
	out.ID = p.ID
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Batches godoc
// @Summary      Lotes de un producto
// @Description  Todos los lotes (incluidos los agotados) en orden de despacho.
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "ID del producto"
// @Success      200  {array}   dto.BatchResponse
// @Failure      404  {object}  dto.StatusResponse
// @Router       /api/products/{id}/batches [get]
func (h *ProductHandler) Batches(c *fiber.Ctx) error {
	list, err := h.ledger.ListBatches(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(list)
}

// History godoc
// @Summary      Historial completo de un producto
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "ID del producto"
// @Success      200  {object}  dto.ProductHistoryResponse
// @Failure      404  {object}  dto.StatusResponse
// @Router       /api/products/{id}/history [get]
func (h *ProductHandler) History(c *fiber.Ctx) error {
	out, err := h.ledger.ProductHistory(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen de stock
// @Description  Stock actual, alerta de stock bajo, buckets de salud, próximo vencimiento y totales.
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "ID del producto"
// @Success      200  {object}  dto.StockSummaryResponse
// @Failure      404  {object}  dto.StatusResponse
// @Router       /api/products/{id}/summary [get]
func (h *ProductHandler) Summary(c *fiber.Ctx) error {
	out, err := h.ledger.Summarize(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// MonthlyMovement godoc
// @Summary      Movimiento mensual
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "ID del producto"
// @Success      200  {array}   dto.MonthlyMovementDTO
// @Failure      404  {object}  dto.StatusResponse
// @Router       /api/products/{id}/movements/monthly [get]
func (h *ProductHandler) MonthlyMovement(c *fiber.Ctx) error {
	out, err := h.ledger.MonthlyMovement(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliar lotes contra transacciones
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "ID del producto"
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      404  {object}  dto.StatusResponse
// @Router       /api/products/{id}/reconcile [get]
func (h *ProductHandler) Reconcile(c *fiber.Ctx) error {
	out, err := h.ledger.Reconcile(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// StockCard godoc
// @Summary      Ficha de stock en PDF
// @Tags         products
// @Produce      application/pdf
// @Param        id   path      string  true  "ID del producto"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.StatusResponse
// @Router       /api/products/{id}/stock-card.pdf [get]
func (h *ProductHandler) StockCard(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.cards.DownloadStockCard(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
