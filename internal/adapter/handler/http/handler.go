package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tmdt/furnishop/internal/core/domain"
	"go.uber.org/zap"
)

var errorStatusMap = map[error]int{
	domain.ErrInternal:        http.StatusInternalServerError,
	domain.ErrDataNotFound:    http.StatusNotFound,
	domain.ErrConflictingData: http.StatusConflict,

	domain.ErrInvalidCredentials:         http.StatusUnauthorized,
	domain.ErrUnauthorized:               http.StatusUnauthorized,
	domain.ErrEmptyAuthorizationHeader:   http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationType:   http.StatusUnauthorized,
	domain.ErrInvalidToken:               http.StatusUnauthorized,
	domain.ErrExpiredToken:               http.StatusUnauthorized,
	domain.ErrForbidden:                  http.StatusForbidden,

	domain.ErrBadRequest: http.StatusBadRequest,

	domain.ErrEmptyCart:           http.StatusUnprocessableEntity,
	domain.ErrInsufficientStock:   http.StatusUnprocessableEntity,
	domain.ErrInsufficientBalance: http.StatusPaymentRequired,
	domain.ErrVoucherNotActive:    http.StatusUnprocessableEntity,
	domain.ErrVoucherExpired:      http.StatusUnprocessableEntity,
	domain.ErrVoucherExhausted:    http.StatusUnprocessableEntity,
	domain.ErrVoucherMinAmount:    http.StatusUnprocessableEntity,
	domain.ErrInvalidTransition:   http.StatusUnprocessableEntity,
	domain.ErrOrderAlreadyPaid:    http.StatusConflict,
	domain.ErrOrderNotPayable:     http.StatusConflict,
	domain.ErrGatewayDeclined:     http.StatusBadGateway,
	domain.ErrGatewayUnavailable:  http.StatusBadGateway,
}

func statusFromError(err error) (int, bool) {
	for e, code := range errorStatusMap {
		if errors.Is(err, e) {
			return code, true
		}
	}
	return http.StatusInternalServerError, false
}

type errorResponse struct {
	Error string `json:"error"`
}

type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// handleValidationError sends an error response for some specific request validation error
func (h *Handler) handleValidationError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, errorResponse{Error: domain.ErrBadRequest.Error()})
}

// handleAbort sends an error response and aborts the request with the specified status code and error message
func (h *Handler) handleAbort(ctx *gin.Context, err error) {
	statusCode, known := statusFromError(err)
	if !known {
		h.logger.Error("aborting request", zap.Error(err))
	}
	ctx.AbortWithStatusJSON(statusCode, errorResponse{Error: err.Error()})
}

// handleError answers with the mapped status and the violated rule, so a
// checkout failure names the offending product or the balance shortfall.
func (h *Handler) handleError(ctx *gin.Context, err error) {
	statusCode, known := statusFromError(err)
	if !known {
		h.logger.Error("error processing request", zap.Error(err))
		ctx.JSON(statusCode, errorResponse{Error: domain.ErrInternal.Error()})
		return
	}
	ctx.JSON(statusCode, errorResponse{Error: err.Error()})
}

// handleSuccess sends a success response with the specified status code and optional data
func (h *Handler) handleSuccessWithStatus(ctx *gin.Context, data any, status int) {
	if data != nil {
		ctx.JSON(status, data)
	} else {
		ctx.Status(status)
	}
}

func (h *Handler) handleSuccess(ctx *gin.Context, data any) {
	h.handleSuccessWithStatus(ctx, data, http.StatusOK)
}
