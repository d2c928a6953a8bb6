package api

import (
	"context"
	"time"

	"github.com/bobby-s-dev/weather-screen/internal/presenter"
	"github.com/bobby-s-dev/weather-screen/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"
)

type Handler struct {
	dispatcher *services.Dispatcher
	logger     *zap.Logger
}

func NewHandler(dispatcher *services.Dispatcher, logger *zap.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Search handles GET /api/v1/search
func (h *Handler) Search(c *fiber.Ctx) error {
	city := c.Query("city")
	if city == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "City parameter is required",
		})
	}
	// fiber reuses the request buffer once the handler returns
	city = utils.CopyString(city)

	h.logger.Info("Dispatching weather query", zap.String("city", city))

	// The query outlives this request, so it must not inherit the request context.
	generation, _ := h.dispatcher.Dispatch(context.Background(), city)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"city":       city,
		"generation": generation,
	})
}

// GetScreen handles GET /api/v1/screen
func (h *Handler) GetScreen(c *fiber.Ctx) error {
	sc, ok := h.dispatcher.Store().Current()
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No weather displayed yet",
		})
	}

	return c.JSON(sc)
}

// GetThemes handles GET /api/v1/themes
func (h *Handler) GetThemes(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"themes":  presenter.ThemeTable(),
		"default": presenter.ThemeFor("").Name,
	})
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":       "healthy",
		"timestamp":    time.Now(),
		"last_success": h.dispatcher.GetLastSuccessTime(),
		"uptime":       time.Since(startTime).String(),
		"stats":        h.dispatcher.GetStats(),
	})
}

var startTime = time.Now()
