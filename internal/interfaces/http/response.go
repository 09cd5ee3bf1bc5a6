package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// respondError traduce errores de dominio al sobre {status, message}. Los errores de usuario salen
// como "fail" con un mensaje mostrable; el resto como "error" sin detalles internos.
func respondError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	var verr *domain.ValidationError
	var ierr *domain.InsufficientStockError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail(verr.Message))
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("datos inválidos"))
	case errors.As(err, &ierr):
		return c.Status(fiber.StatusConflict).JSON(dto.Fail(ierr.Error()))
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.Fail("producto no encontrado"))
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.Fail("ya existe un producto con ese SKU"))
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail("no autorizado"))
	case errors.Is(err, domain.ErrConcurrencyConflict):
		log.Warn().Err(err).Str("path", c.Path()).Msg("conflicto no resuelto tras reintentos")
		return c.Status(fiber.StatusConflict).JSON(dto.Error("el producto está siendo modificado, intente de nuevo"))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.Error("la operación fue cancelada"))
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("error interno"))
	}
}

// invalidBody respuesta para un body que no se pudo decodificar.
func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("cuerpo inválido"))
}
