package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/ledger"
)

// Roles que pueden mutar el libro cuando la autenticación es obligatoria.
var (
	adminRoles = []string{"admin"}
	stockRoles = []string{"admin", "bodeguero"}
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName      string
	Ledger       *ledger.LedgerUseCase
	Products     *ledger.ProductUseCase
	StockCards   *ledger.StockCardUseCase
	JWTSecret    string
	AuthRequired bool
	Log          zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api", OptionalAuth(deps.JWTSecret))

	// guard: sin AUTH_REQUIRED las rutas que mutan quedan abiertas y el actor sale de X-Actor
	guard := func(roles []string, h fiber.Handler) []fiber.Handler {
		if !deps.AuthRequired {
			return []fiber.Handler{h}
		}
		return []fiber.Handler{AuthMiddleware(deps.JWTSecret), RequireRole(roles...), h}
	}

	productHandler := NewProductHandler(deps.Ledger, deps.Products, deps.StockCards, deps.Log)
	products := api.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", guard(adminRoles, productHandler.Create)...)
	products.Get("/:id/batches", productHandler.Batches)
	products.Get("/:id/history", productHandler.History)
	products.Get("/:id/summary", productHandler.Summary)
	products.Get("/:id/movements/monthly", productHandler.MonthlyMovement)
	products.Get("/:id/reconcile", productHandler.Reconcile)
	products.Get("/:id/stock-card.pdf", productHandler.StockCard)

	stockHandler := NewStockHandler(deps.Ledger, deps.Log)
	stock := api.Group("/stock")
	stock.Post("/in", guard(stockRoles, stockHandler.Receive)...)
	stock.Post("/out", guard(stockRoles, stockHandler.Issue)...)

	api.Get("/history", stockHandler.History)
}
