package http

import (
	"errors"
	"net/http"

	"golang-stock-advisor/internal/scheduler/service"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ScheduleHandler handles HTTP requests for configured schedules.
type ScheduleHandler struct {
	schedulerService service.SchedulerService
	logger           *logger.Logger
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(schedulerService service.SchedulerService, logger *logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{schedulerService: schedulerService, logger: logger}
}

// RegisterRoutes registers the schedule routes to the Echo group.
func (h *ScheduleHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.GetAllSchedules)
	g.POST("/:name/trigger", h.TriggerSchedule)
}

// GetAllSchedules godoc
// @Summary Get all schedules
// @Description Configured schedules with their next and last execution
// @Tags schedules
// @Produce  json
// @Success 200 {array} dto.ScheduleResponse
// @Router /schedules [get]
func (h *ScheduleHandler) GetAllSchedules(c echo.Context) error {
	return c.JSON(http.StatusOK, h.schedulerService.ListSchedules())
}

// TriggerSchedule godoc
// @Summary Trigger a schedule
// @Description Publish the task of a schedule immediately
// @Tags schedules
// @Produce  json
// @Param   name  path    string true    "Schedule name"
// @Success 202 {object} dto.ExecutionHistoryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /schedules/{name}/trigger [post]
func (h *ScheduleHandler) TriggerSchedule(c echo.Context) error {
	history, err := h.schedulerService.Trigger(c.Request().Context(), c.Param("name"))
	if errors.Is(err, common.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	}
	if err != nil {
		h.logger.Error("Failed to trigger schedule", logger.ErrorField(err), logger.StringField("schedule", c.Param("name")))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusAccepted, service.ToExecutionHistoryResponse(history))
}
