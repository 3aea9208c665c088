package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/papertrade-lab/stratler/pkg/errors"
)

// statusForCode maps error codes to HTTP statuses. Every distinct
// failure kind keeps its own code in the response body so clients can
// tell them apart even when the status collides.
func statusForCode(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeInvalidParameter,
		errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidData,
		errors.ErrCodeInvalidPeriod,
		errors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case errors.ErrCodeInsufficientCash,
		errors.ErrCodeInsufficientPosition,
		errors.ErrCodeTradeFailed:
		return http.StatusBadRequest
	case errors.ErrCodeNoData,
		errors.ErrCodeUnknownStrategy:
		return http.StatusNotFound
	case errors.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrCodeUserAlreadyExists:
		return http.StatusConflict
	case errors.ErrCodeMarketDataFetchFailed,
		errors.ErrCodeMarketDataParseFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the canonical error body: numeric code plus
// message.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)

	c.JSON(statusForCode(code), gin.H{
		"code":  int(code),
		"error": err.Error(),
	})
}
