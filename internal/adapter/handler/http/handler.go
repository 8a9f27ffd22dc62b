package http

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/MikeRez0/ypfulfillment/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/govalues/decimal"
	"go.uber.org/zap"
)

var errorStatusMap = map[error]int{
	domain.ErrInternal:                http.StatusInternalServerError,
	domain.ErrDataNotFound:            http.StatusNotFound,
	domain.ErrConflictingData:         http.StatusConflict,
	domain.ErrCollaboratorUnavailable: http.StatusServiceUnavailable,

	domain.ErrUnauthorized:               http.StatusUnauthorized,
	domain.ErrEmptyAuthorizationHeader:   http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	domain.ErrInvalidAuthorizationType:   http.StatusUnauthorized,
	domain.ErrInvalidToken:               http.StatusUnauthorized,
	domain.ErrExpiredToken:               http.StatusUnauthorized,
	domain.ErrTokenCreation:              http.StatusBadRequest,
	domain.ErrForbidden:                  http.StatusForbidden,

	domain.ErrNoUpdatedData: http.StatusBadRequest,
	domain.ErrBadRequest:    http.StatusBadRequest,
	domain.ErrValidation:    http.StatusBadRequest,

	domain.ErrNoBranchAvailable:  http.StatusUnprocessableEntity,
	domain.ErrReservationFailed:  http.StatusConflict,
	domain.ErrInsufficientStock:  http.StatusConflict,
	domain.ErrIllegalTransition:  http.StatusConflict,
	domain.ErrBranchAlreadySet:   http.StatusConflict,
	domain.ErrOrderNotAdjustable: http.StatusConflict,
}

// statusOf walks the error tree outermost first and returns the first mapped status.
func statusOf(err error) (int, bool) {
	if err == nil {
		return 0, false
	}
	if reflect.TypeOf(err).Comparable() {
		if status, ok := errorStatusMap[err]; ok {
			return status, true
		}
	}
	switch e := err.(type) {
	case interface{ Unwrap() error }:
		return statusOf(e.Unwrap())
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if status, ok := statusOf(inner); ok {
				return status, true
			}
		}
	}
	return 0, false
}

type jsonDecimal decimal.Decimal

func (j jsonDecimal) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(j).String()), nil
}

type errorResponse struct {
	Error string              `json:"error"`
	Field string              `json:"field,omitempty"`
	Trail []domain.TrailEntry `json:"trail,omitempty"`
}

type Handler struct {
	logger *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{logger: logger}
}

// handleValidationError sends an error response for some specific request validation error
func (h *Handler) handleValidationError(ctx *gin.Context, err error) {
	ctx.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

// handleAbort sends an error response and aborts the request with the specified status code and error message
func handleAbort(ctx *gin.Context, err error) {
	statusCode, ok := statusOf(err)
	if !ok {
		statusCode = http.StatusInternalServerError
	}
	_ = ctx.Error(err)
	ctx.AbortWithStatusJSON(statusCode, errorResponse{Error: err.Error()})
}

func (h *Handler) handleError(ctx *gin.Context, err error) {
	statusCode, ok := statusOf(err)
	if !ok {
		statusCode = http.StatusInternalServerError
		h.logger.Error("error processing request", zap.Error(err))
	}

	body := errorResponse{Error: err.Error()}
	if statusCode == http.StatusInternalServerError {
		body.Error = domain.ErrInternal.Error()
	}

	var noBranch *domain.NoBranchAvailableError
	if errors.As(err, &noBranch) {
		body.Trail = noBranch.Trail
	}
	var invalid *domain.ValidationError
	if errors.As(err, &invalid) {
		body.Field = invalid.Field
	}

	ctx.JSON(statusCode, body)
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
