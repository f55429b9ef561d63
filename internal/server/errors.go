package server

import (
	"errors"
	"net/http"

	auditdomain "github.com/greentruckerlabs/greentrucker/internal/audit/domain"
	"github.com/greentruckerlabs/greentrucker/internal/authorization"
	billingdomain "github.com/greentruckerlabs/greentrucker/internal/billing/domain"
	inventorydomain "github.com/greentruckerlabs/greentrucker/internal/inventory/domain"
	paymentdomain "github.com/greentruckerlabs/greentrucker/internal/payment/domain"
	pricingdomain "github.com/greentruckerlabs/greentrucker/internal/pricing/domain"
	scheduledomain "github.com/greentruckerlabs/greentrucker/internal/schedule/domain"
	wastedomain "github.com/greentruckerlabs/greentrucker/internal/waste/domain"
	"github.com/gin-gonic/gin"
)

type apiError struct {
	Status  int            `json:"-"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Fields  map[string]any `json:"fields,omitempty"`
}

func (e *apiError) Error() string { return e.Message }

var (
	ErrUnauthorized = &apiError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: "missing or invalid API key"}
	ErrForbidden    = &apiError{Status: http.StatusForbidden, Code: "forbidden", Message: "this role may not perform the operation"}
	ErrNotFound     = &apiError{Status: http.StatusNotFound, Code: "not_found", Message: "resource not found"}
	ErrRateLimited  = &apiError{Status: http.StatusTooManyRequests, Code: "rate_limited", Message: "too many requests"}
)

func invalidRequestError() *apiError {
	return &apiError{Status: http.StatusBadRequest, Code: "invalid_request", Message: "request body could not be parsed"}
}

func newValidationError(field, rule, message string) *apiError {
	return &apiError{
		Status:  http.StatusBadRequest,
		Code:    "validation_failed",
		Message: message,
		Fields:  map[string]any{"field": field, "rule": rule},
	}
}

// AbortWithError translates domain errors into HTTP responses. Unknown
// errors become a 500 without leaking internals.
func AbortWithError(c *gin.Context, err error) {
	var api *apiError
	if errors.As(err, &api) {
		c.AbortWithStatusJSON(api.Status, gin.H{"error": api})
		return
	}

	api = mapDomainError(err)
	c.AbortWithStatusJSON(api.Status, gin.H{"error": api})
}

func mapDomainError(err error) *apiError {
	var mismatch *wastedomain.CategoryMismatchError
	if errors.As(err, &mismatch) {
		return &apiError{
			Status:  http.StatusBadRequest,
			Code:    "category_mismatch",
			Message: mismatch.Error(),
			Fields: map[string]any{
				"wasteType": string(mismatch.WasteType),
				"category":  mismatch.Category,
			},
		}
	}

	var unpriced *billingdomain.UnpricedCategoryError
	if errors.As(err, &unpriced) {
		return &apiError{
			Status:  http.StatusBadRequest,
			Code:    "unpriced_category",
			Message: unpriced.Error(),
			Fields:  map[string]any{"categories": unpriced.Categories},
		}
	}

	switch {
	case errors.Is(err, wastedomain.ErrNotFound),
		errors.Is(err, pricingdomain.ErrNotFound),
		errors.Is(err, paymentdomain.ErrNotFound),
		errors.Is(err, billingdomain.ErrNotFound),
		errors.Is(err, scheduledomain.ErrNotFound),
		errors.Is(err, inventorydomain.ErrNotFound):
		return ErrNotFound

	case errors.Is(err, authorization.ErrForbidden):
		return ErrForbidden

	case errors.Is(err, wastedomain.ErrDuplicateCollection),
		errors.Is(err, pricingdomain.ErrDuplicateItem),
		errors.Is(err, paymentdomain.ErrDuplicatePayment),
		errors.Is(err, billingdomain.ErrDuplicateBilling),
		errors.Is(err, inventorydomain.ErrDuplicateSlug):
		return &apiError{Status: http.StatusConflict, Code: "already_exists", Message: err.Error()}

	case errors.Is(err, billingdomain.ErrNothingOutstanding):
		return &apiError{Status: http.StatusConflict, Code: "nothing_outstanding", Message: err.Error()}

	case errors.Is(err, billingdomain.ErrPartialSettlement):
		return &apiError{Status: http.StatusInternalServerError, Code: "partial_settlement", Message: err.Error()}

	case errors.Is(err, wastedomain.ErrInvalidWasteType),
		errors.Is(err, wastedomain.ErrNegativeWeight),
		errors.Is(err, wastedomain.ErrInvalidStatus),
		errors.Is(err, wastedomain.ErrMissingCollectionID),
		errors.Is(err, wastedomain.ErrMissingResident),
		errors.Is(err, wastedomain.ErrEmptyGarbage),
		errors.Is(err, wastedomain.ErrInvalidMonth),
		errors.Is(err, pricingdomain.ErrMissingItem),
		errors.Is(err, pricingdomain.ErrNegativePrice),
		errors.Is(err, paymentdomain.ErrMissingPaymentID),
		errors.Is(err, paymentdomain.ErrMissingCustomer),
		errors.Is(err, paymentdomain.ErrMissingMethod),
		errors.Is(err, paymentdomain.ErrNegativeAmount),
		errors.Is(err, billingdomain.ErrMissingBillingID),
		errors.Is(err, billingdomain.ErrMissingResident),
		errors.Is(err, billingdomain.ErrMissingMethod),
		errors.Is(err, billingdomain.ErrNegativeAmount),
		errors.Is(err, billingdomain.ErrInvalidPaymentStatus),
		errors.Is(err, scheduledomain.ErrMissingResident),
		errors.Is(err, scheduledomain.ErrMissingName),
		errors.Is(err, scheduledomain.ErrMissingCategory),
		errors.Is(err, scheduledomain.ErrMissingLocation),
		errors.Is(err, scheduledomain.ErrInvalidEmail),
		errors.Is(err, scheduledomain.ErrInvalidStatus),
		errors.Is(err, inventorydomain.ErrMissingName),
		errors.Is(err, inventorydomain.ErrMissingUser),
		errors.Is(err, inventorydomain.ErrMissingLocation),
		errors.Is(err, inventorydomain.ErrNegativeQuantity),
		errors.Is(err, inventorydomain.ErrInvalidCondition),
		errors.Is(err, inventorydomain.ErrNegativePrice),
		errors.Is(err, inventorydomain.ErrInvalidDiscount),
		errors.Is(err, auditdomain.ErrMissingActor),
		errors.Is(err, auditdomain.ErrMissingAction),
		errors.Is(err, auditdomain.ErrMissingTarget):
		return &apiError{Status: http.StatusBadRequest, Code: "invalid_request", Message: err.Error()}
	}

	return &apiError{Status: http.StatusInternalServerError, Code: "internal", Message: "internal server error"}
}
