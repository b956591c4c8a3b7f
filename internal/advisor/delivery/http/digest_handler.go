package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/service"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/utils"

	"github.com/labstack/echo/v4"
)

// DigestHandler handles HTTP requests for daily digests.
type DigestHandler struct {
	digestService service.DigestService
	logger        *logger.Logger
}

// NewDigestHandler creates a new DigestHandler.
func NewDigestHandler(digestService service.DigestService, logger *logger.Logger) *DigestHandler {
	return &DigestHandler{digestService: digestService, logger: logger}
}

// RegisterRoutes registers the digest routes to the Echo group.
func (h *DigestHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/latest", h.GetLatestDigest)
	g.POST("/generate", h.GenerateDigest)
	g.GET("/:date", h.GetDigest)
}

var errInvalidBudget = errors.New("budget must be a positive number")

func parseBudget(c echo.Context) (*float64, error) {
	raw := c.QueryParam("budget")
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return nil, errInvalidBudget
	}
	return &v, nil
}

// GetLatestDigest godoc
// @Summary Get the latest digest
// @Description Get the most recent digest, optionally resized to a budget
// @Tags digests
// @Produce  json
// @Param   budget  query   number false   "Budget to size positions against"
// @Success 200 {object} entity.Digest
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /digests/latest [get]
func (h *DigestHandler) GetLatestDigest(c echo.Context) error {
	budget, err := parseBudget(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	d, err := h.digestService.GetLatestDigest(c.Request().Context(), budget)
	if err != nil {
		return writeError(c, h.logger, "Failed to get latest digest", err)
	}
	return c.JSON(http.StatusOK, d)
}

// GetDigest godoc
// @Summary Get a digest by date
// @Description Get the digest of a calendar date, optionally resized to a budget
// @Tags digests
// @Produce  json
// @Param   date    path    string true    "Date (YYYY-MM-DD)"
// @Param   budget  query   number false   "Budget to size positions against"
// @Success 200 {object} entity.Digest
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /digests/{date} [get]
func (h *DigestHandler) GetDigest(c echo.Context) error {
	date, err := utils.ParseDate(c.Param("date"))
	if err != nil {
		return badRequest(c, "Invalid date, expected YYYY-MM-DD")
	}
	budget, err := parseBudget(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	d, err := h.digestService.GetDigest(c.Request().Context(), date, budget)
	if err != nil {
		return writeError(c, h.logger, "Failed to get digest", err)
	}
	return c.JSON(http.StatusOK, d)
}

// GenerateDigest godoc
// @Summary Generate a digest
// @Description Build the digest for a date. Without force an existing digest is returned unchanged.
// @Tags digests
// @Accept  json
// @Produce  json
// @Param   request  body    dto.GenerateDigestRequest   false    "Generation options"
// @Success 200 {object} service.DigestResult
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /digests/generate [post]
func (h *DigestHandler) GenerateDigest(c echo.Context) error {
	var req dto.GenerateDigestRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return badRequest(c, "Invalid request payload")
		}
	}

	var date time.Time
	if req.Date == "" {
		date = h.digestService.Today()
	} else {
		d, err := utils.ParseDate(req.Date)
		if err != nil {
			return badRequest(c, "Invalid date, expected YYYY-MM-DD")
		}
		date = d
	}

	result, err := h.digestService.GenerateDigest(c.Request().Context(), date, req.Force)
	if err != nil {
		return writeError(c, h.logger, "Failed to generate digest", err)
	}
	return c.JSON(http.StatusOK, result)
}
