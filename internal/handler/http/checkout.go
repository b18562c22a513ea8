package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/guscassiano/eplay/internal/domain"
	"github.com/guscassiano/eplay/internal/service"
	apperrors "github.com/guscassiano/eplay/pkg/errors"
	"github.com/guscassiano/eplay/pkg/httputil"
	"github.com/guscassiano/eplay/pkg/middleware"
)

// CheckoutHandler handles HTTP requests for checkout endpoints.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// SetFieldsRequest is the JSON request body for a field change batch.
type SetFieldsRequest struct {
	Fields []service.FieldInput `json:"fields" validate:"required,min=1,dive"`
}

// SetPaymentMethodRequest is the JSON request body for switching the payment
// variant.
type SetPaymentMethodRequest struct {
	Method string `json:"method" validate:"required"`
}

// confirmationView decorates the stored confirmation with its instruction
// text.
type confirmationView struct {
	OrderID      string `json:"order_id"`
	Method       string `json:"method"`
	TotalPaid    string `json:"total_paid"`
	Instructions string `json:"instructions"`
}

func newConfirmationView(c *domain.Confirmation) confirmationView {
	return confirmationView{
		OrderID:      c.OrderID,
		Method:       string(c.Method),
		TotalPaid:    c.TotalPaid,
		Instructions: c.Instructions(),
	}
}

// GetState handles GET /api/v1/checkout
// Reaching checkout with an empty cart and no completed purchase redirects
// to the catalog root.
func (h *CheckoutHandler) GetState(w http.ResponseWriter, r *http.Request) {
	state, err := h.service.GetState(r.Context(), middleware.SessionIDFromContext(r.Context()))
	if err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// SetFields handles PATCH /api/v1/checkout/fields
func (h *CheckoutHandler) SetFields(w http.ResponseWriter, r *http.Request) {
	var req SetFieldsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	state, err := h.service.SetFields(r.Context(), middleware.SessionIDFromContext(r.Context()), req.Fields)
	if err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// SetPaymentMethod handles PUT /api/v1/checkout/payment-method
func (h *CheckoutHandler) SetPaymentMethod(w http.ResponseWriter, r *http.Request) {
	var req SetPaymentMethodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	state, err := h.service.SetPaymentMethod(r.Context(), middleware.SessionIDFromContext(r.Context()), domain.PaymentMethod(req.Method))
	if err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: state})
}

// Submit handles POST /api/v1/checkout/submit
func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	confirmation, err := h.service.Submit(r.Context(), middleware.SessionIDFromContext(r.Context()))
	if err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: newConfirmationView(confirmation)})
}

// Confirmation handles GET /api/v1/checkout/confirmation
func (h *CheckoutHandler) Confirmation(w http.ResponseWriter, r *http.Request) {
	confirmation, err := h.service.Confirmation(r.Context(), middleware.SessionIDFromContext(r.Context()))
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newConfirmationView(confirmation)})
}

// writeCheckoutError maps checkout-specific failures: an empty cart redirects
// to the catalog root and validation failures carry the per-field error map.
func (h *CheckoutHandler) writeCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, service.ErrCartEmpty) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	var valErr *service.ValidationFailedError
	if errors.As(err, &valErr) {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{
				Code:    "VALIDATION_ERROR",
				Message: "checkout form validation failed",
				Fields:  valErr.Fields,
			},
		})
		return
	}

	httputil.WriteError(w, r, err, h.logger)
}
