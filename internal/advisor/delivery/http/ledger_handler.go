package http

import (
	"net/http"
	"strings"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/service"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// LedgerHandler handles HTTP requests for the position ledger.
type LedgerHandler struct {
	ledgerService service.LedgerService
	logger        *logger.Logger
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService service.LedgerService, logger *logger.Logger) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService, logger: logger}
}

// RegisterRoutes registers the ledger routes to the Echo group.
func (h *LedgerHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:ticker", h.GetPortfolio)
	g.POST("/:ticker/executions", h.RecordExecution)
}

// GetPortfolio godoc
// @Summary Get the portfolio of a ticker
// @Description Aggregates derived from the full ledger history, valued at the current price
// @Tags ledgers
// @Produce  json
// @Param   ticker  path    string true    "Tracked ticker"
// @Success 200 {object} ledger.Portfolio
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /ledgers/{ticker} [get]
func (h *LedgerHandler) GetPortfolio(c echo.Context) error {
	p, err := h.ledgerService.GetPortfolio(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		return writeError(c, h.logger, "Failed to get portfolio", err)
	}
	return c.JSON(http.StatusOK, p)
}

// RecordExecution godoc
// @Summary Record an executed trade
// @Description Append a confirmed buy or sell. An oversell is rejected and nothing is written.
// @Tags ledgers
// @Accept  json
// @Produce  json
// @Param   ticker   path    string                 true    "Tracked ticker"
// @Param   request  body    dto.ExecutionRequest   true    "Execution"
// @Success 201 {object} entity.LedgerEntry
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /ledgers/{ticker}/executions [post]
func (h *LedgerHandler) RecordExecution(c echo.Context) error {
	var req dto.ExecutionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}

	exec := service.ExecutionRequest{
		Action:   entity.LedgerAction(strings.ToLower(req.Action)),
		Amount:   req.Amount,
		Shares:   req.Shares,
		Fraction: req.Fraction,
		Price:    req.Price,
		Note:     req.Note,
	}
	if req.ExecutedAt != nil {
		exec.ExecutedAt = req.ExecutedAt.UTC()
	}

	entry, err := h.ledgerService.RecordExecution(c.Request().Context(), c.Param("ticker"), exec)
	if err != nil {
		return writeError(c, h.logger, "Failed to record execution", err)
	}
	return c.JSON(http.StatusCreated, entry)
}
