package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// GenerateDigestRequest triggers a digest build. Date defaults to today.
type GenerateDigestRequest struct {
	Date  string `json:"date" example:"2026-03-02"`
	Force bool   `json:"force"`
}

// ExecutionRequest records a trade the user executed.
// A buy needs amount; a sell needs shares or fraction.
type ExecutionRequest struct {
	Action     string          `json:"action" example:"buy"`
	Amount     decimal.Decimal `json:"amount" swaggertype:"number"`
	Shares     decimal.Decimal `json:"shares" swaggertype:"number"`
	Fraction   decimal.Decimal `json:"fraction" swaggertype:"number"`
	Price      decimal.Decimal `json:"price" swaggertype:"number"`
	ExecutedAt *time.Time      `json:"executed_at"`
	Note       string          `json:"note"`
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
