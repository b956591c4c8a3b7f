package http

import (
	"net/http"

	"golang-stock-advisor/internal/advisor/service"
	"golang-stock-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// SignalHandler handles HTTP requests for drawdown signals.
type SignalHandler struct {
	signalService service.SignalService
	logger        *logger.Logger
}

// NewSignalHandler creates a new SignalHandler.
func NewSignalHandler(signalService service.SignalService, logger *logger.Logger) *SignalHandler {
	return &SignalHandler{signalService: signalService, logger: logger}
}

// RegisterRoutes registers the signal routes to the Echo group.
func (h *SignalHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:ticker", h.GetSignal)
	g.GET("/:ticker/history", h.GetSignalHistory)
}

// GetSignal godoc
// @Summary Get the drawdown signal of a ticker
// @Description Evaluate the drawdown strategy for a tracked ticker. Nothing is written.
// @Tags signals
// @Produce  json
// @Param   ticker  path    string true    "Tracked ticker"
// @Success 200 {object} service.SignalView
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /signals/{ticker} [get]
func (h *SignalHandler) GetSignal(c echo.Context) error {
	view, err := h.signalService.GetSignal(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		return writeError(c, h.logger, "Failed to get signal", err)
	}
	return c.JSON(http.StatusOK, view)
}

// GetSignalHistory godoc
// @Summary Get the drawdown history of a ticker
// @Description Price, running peak and drawdown over the recent trading days
// @Tags signals
// @Produce  json
// @Param   ticker  path    string true    "Tracked ticker"
// @Success 200 {object} service.SignalHistory
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /signals/{ticker}/history [get]
func (h *SignalHandler) GetSignalHistory(c echo.Context) error {
	history, err := h.signalService.GetSignalHistory(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		return writeError(c, h.logger, "Failed to get signal history", err)
	}
	return c.JSON(http.StatusOK, history)
}
