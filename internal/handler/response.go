package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"travelpay/internal/repository"
	"travelpay/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	// Advice distinguishes ambiguous failures: a verification failure may
	// have charged the user, so the UI should say "contact support" instead
	// of "retry".
	Advice string `json:"advice,omitempty"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)

	resp := ErrorResponse{Error: err.Error()}
	if errors.Is(err, service.ErrVerificationFailed) {
		resp.Advice = "contact support"
	} else if errors.Is(err, service.ErrSourceUnavailable) || errors.Is(err, service.ErrOrderCreationFailed) {
		resp.Advice = "retry"
	}

	c.JSON(code, resp)
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrUnknownBooking),
		errors.Is(err, service.ErrEmptySelection):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrCheckoutInProgress),
		errors.Is(err, service.ErrNoGatewayCallbackExpected):
		return http.StatusConflict

	// Upstream failures
	case errors.Is(err, service.ErrSourceUnavailable),
		errors.Is(err, service.ErrOrderCreationFailed),
		errors.Is(err, service.ErrVerificationFailed):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
