package http

import (
	"errors"
	"net/http"
	"strconv"

	"golang-stock-advisor/internal/scheduler/service"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ExecutionHistoryHandler handles HTTP requests for execution history.
type ExecutionHistoryHandler struct {
	historyService service.ExecutionHistoryService
	logger         *logger.Logger
}

// NewExecutionHistoryHandler creates a new ExecutionHistoryHandler.
func NewExecutionHistoryHandler(historyService service.ExecutionHistoryService, logger *logger.Logger) *ExecutionHistoryHandler {
	return &ExecutionHistoryHandler{historyService: historyService, logger: logger}
}

// RegisterRoutes registers the execution history routes to the Echo group.
func (h *ExecutionHistoryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetAllExecutionHistories)
	g.GET("/:id", h.GetExecutionHistoryByID)
}

// RegisterScheduleRoutes registers the schedule-specific execution history routes.
func (h *ExecutionHistoryHandler) RegisterScheduleRoutes(g *echo.Group) {
	g.GET("/:name/executions", h.GetExecutionHistoriesBySchedule)
}

// GetAllExecutionHistories godoc
// @Summary Get all execution histories
// @Description Get the most recent execution history records
// @Tags executions
// @Produce  json
// @Success 200 {array} dto.ExecutionHistoryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /executions [get]
func (h *ExecutionHistoryHandler) GetAllExecutionHistories(c echo.Context) error {
	histories, err := h.historyService.GetAllExecutionHistories(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to get execution histories"})
	}
	return c.JSON(http.StatusOK, histories)
}

// GetExecutionHistoryByID godoc
// @Summary Get an execution history by ID
// @Description Get a single execution history record by its ID
// @Tags executions
// @Produce  json
// @Param   id  path    int true    "Execution History ID"
// @Success 200 {object} dto.ExecutionHistoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /executions/{id} [get]
func (h *ExecutionHistoryHandler) GetExecutionHistoryByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid history ID"})
	}

	history, err := h.historyService.GetExecutionHistoryByID(c.Request().Context(), uint(id))
	if errors.Is(err, common.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Execution history not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, history)
}

// GetExecutionHistoriesBySchedule godoc
// @Summary Get execution histories for a schedule
// @Description Get the most recent execution history records of one schedule
// @Tags schedules
// @Produce  json
// @Param   name  path    string true    "Schedule name"
// @Success 200 {array} dto.ExecutionHistoryResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /schedules/{name}/executions [get]
func (h *ExecutionHistoryHandler) GetExecutionHistoriesBySchedule(c echo.Context) error {
	histories, err := h.historyService.GetExecutionHistoriesBySchedule(c.Request().Context(), c.Param("name"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, histories)
}
