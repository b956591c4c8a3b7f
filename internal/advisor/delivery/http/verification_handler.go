package http

import (
	"net/http"
	"strconv"

	"golang-stock-advisor/internal/advisor/service"
	"golang-stock-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// VerificationHandler handles HTTP requests for prediction verification.
type VerificationHandler struct {
	verificationService service.VerificationService
	logger              *logger.Logger
}

// NewVerificationHandler creates a new VerificationHandler.
func NewVerificationHandler(verificationService service.VerificationService, logger *logger.Logger) *VerificationHandler {
	return &VerificationHandler{verificationService: verificationService, logger: logger}
}

// RegisterRoutes registers the verification routes to the Echo group.
func (h *VerificationHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/run", h.RunVerification)
	g.POST("/recalculate", h.RecalculateStats)
	g.GET("/status", h.GetStatus)
	g.GET("/predictions", h.ListPredictions)
}

// RunVerification godoc
// @Summary Verify due predictions
// @Description Resolve every due prediction horizon. Already verified horizons are left untouched.
// @Tags verification
// @Produce  json
// @Success 200 {object} service.VerificationRun
// @Failure 500 {object} dto.ErrorResponse
// @Router /verification/run [post]
func (h *VerificationHandler) RunVerification(c echo.Context) error {
	run, err := h.verificationService.RunVerification(c.Request().Context())
	if err != nil {
		return writeError(c, h.logger, "Failed to run verification", err)
	}
	return c.JSON(http.StatusOK, run)
}

// RecalculateStats godoc
// @Summary Recalculate verification stats
// @Description Recompute accuracy statistics from every prediction and store a snapshot
// @Tags verification
// @Produce  json
// @Success 200 {object} entity.VerificationStats
// @Failure 500 {object} dto.ErrorResponse
// @Router /verification/recalculate [post]
func (h *VerificationHandler) RecalculateStats(c echo.Context) error {
	stats, err := h.verificationService.RecalculateStats(c.Request().Context())
	if err != nil {
		return writeError(c, h.logger, "Failed to recalculate stats", err)
	}
	return c.JSON(http.StatusOK, stats)
}

// GetStatus godoc
// @Summary Get the product mode
// @Description Observation or active mode derived from the latest stats
// @Tags verification
// @Produce  json
// @Success 200 {object} verification.Status
// @Failure 500 {object} dto.ErrorResponse
// @Router /verification/status [get]
func (h *VerificationHandler) GetStatus(c echo.Context) error {
	status, err := h.verificationService.GetStatus(c.Request().Context())
	if err != nil {
		return writeError(c, h.logger, "Failed to get verification status", err)
	}
	return c.JSON(http.StatusOK, status)
}

// ListPredictions godoc
// @Summary List recent predictions
// @Description Most recent predictions with their per-horizon outcomes
// @Tags verification
// @Produce  json
// @Param   limit  query   int false   "Maximum number of predictions"
// @Success 200 {array} entity.Prediction
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /verification/predictions [get]
func (h *VerificationHandler) ListPredictions(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return badRequest(c, "Invalid limit")
		}
		limit = v
	}
	predictions, err := h.verificationService.ListPredictions(c.Request().Context(), limit)
	if err != nil {
		return writeError(c, h.logger, "Failed to list predictions", err)
	}
	return c.JSON(http.StatusOK, predictions)
}
