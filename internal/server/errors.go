package server

import (
	"errors"
	"net/http"

	additiondomain "github.com/balcaopos/comanda/internal/addition/domain"
	codedomain "github.com/balcaopos/comanda/internal/code/domain"
	orderdomain "github.com/balcaopos/comanda/internal/order/domain"
	paymentdomain "github.com/balcaopos/comanda/internal/payment/domain"
	productdomain "github.com/balcaopos/comanda/internal/product/domain"
	"github.com/balcaopos/comanda/internal/stock"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var ErrInvalidRequest = errors.New("invalid_request")

// ErrorHandlingMiddleware turns errors recorded on the context into JSON
// responses once the handler chain finishes. Handlers that already wrote a
// body are left alone.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, errorPayload) {
	var transition *orderdomain.InvalidTransitionError
	if errors.As(err, &transition) {
		return http.StatusConflict, errorPayload{
			Type:    "invalid_transition",
			Message: transition.Error(),
		}
	}

	var insufficient *stock.InsufficientError
	if errors.As(err, &insufficient) {
		return http.StatusConflict, errorPayload{
			Type:    "insufficient_stock",
			Message: insufficient.Error(),
		}
	}

	switch {
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: err.Error(),
		}
	case isValidationError(err):
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: err.Error(),
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, orderdomain.ErrNotFound),
		errors.Is(err, orderdomain.ErrItemNotFound),
		errors.Is(err, codedomain.ErrNotFound),
		errors.Is(err, productdomain.ErrNotFound),
		errors.Is(err, productdomain.ErrAdditionNotFound),
		errors.Is(err, additiondomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrRefNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, orderdomain.ErrInvalidQuantity),
		errors.Is(err, orderdomain.ErrDiscountNegative),
		errors.Is(err, orderdomain.ErrDiscountExceedsGross),
		errors.Is(err, orderdomain.ErrInvalidStatus),
		errors.Is(err, orderdomain.ErrInvalidDeliveryType),
		errors.Is(err, orderdomain.ErrInvalidSort),
		errors.Is(err, orderdomain.ErrInvalidTotalRange),
		errors.Is(err, orderdomain.ErrTableRequired),
		errors.Is(err, orderdomain.ErrReopenConfirm),
		errors.Is(err, orderdomain.ErrReopenReason),
		errors.Is(err, orderdomain.ErrEmptyOrder),
		errors.Is(err, orderdomain.ErrProductInactive),
		errors.Is(err, orderdomain.ErrAdditionNotAllowed),
		errors.Is(err, orderdomain.ErrAdditionInactive),
		errors.Is(err, codedomain.ErrInvalidCode),
		errors.Is(err, productdomain.ErrInvalidName),
		errors.Is(err, productdomain.ErrInvalidPrice),
		errors.Is(err, productdomain.ErrInvalidStock),
		errors.Is(err, additiondomain.ErrInvalidName),
		errors.Is(err, additiondomain.ErrInvalidPrice),
		errors.Is(err, paymentdomain.ErrInvalidMethod),
		errors.Is(err, paymentdomain.ErrInvalidAmount),
		errors.Is(err, paymentdomain.ErrInvalidStatus),
		errors.Is(err, paymentdomain.ErrNotTerminal):
		return true
	default:
		return false
	}
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, orderdomain.ErrNotEditable),
		errors.Is(err, orderdomain.ErrCancelledImmutable),
		errors.Is(err, orderdomain.ErrSameOrder),
		errors.Is(err, codedomain.ErrCodeExists),
		errors.Is(err, codedomain.ErrCodeInUse),
		errors.Is(err, codedomain.ErrCodeInactive),
		errors.Is(err, codedomain.ErrConfirmRequired),
		errors.Is(err, productdomain.ErrNameExists),
		errors.Is(err, additiondomain.ErrNameExists),
		errors.Is(err, additiondomain.ErrInUse),
		errors.Is(err, paymentdomain.ErrOverpayment),
		errors.Is(err, paymentdomain.ErrNotPending):
		return true
	default:
		return false
	}
}
