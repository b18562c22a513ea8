package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/guscassiano/eplay/internal/catalog"
	"github.com/guscassiano/eplay/internal/domain"
	"github.com/guscassiano/eplay/internal/event"
	"github.com/guscassiano/eplay/internal/repository"
	apperrors "github.com/guscassiano/eplay/pkg/errors"
	"github.com/guscassiano/eplay/pkg/money"
)

// ErrCartEmpty signals that checkout was reached with an empty cart and no
// completed purchase. Handlers translate it into a redirect to the catalog.
var ErrCartEmpty = errors.New("cart is empty")

// ValidationFailedError carries the per-field error map when a submission is
// rejected by form validation.
type ValidationFailedError struct {
	Fields map[string]string
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("checkout form validation failed for %d field(s)", len(e.Fields))
}

func (e *ValidationFailedError) Unwrap() error {
	return apperrors.ErrInvalidInput
}

// FieldInput is a single field change in a PATCH batch. Blur marks the field
// as visited so its error becomes visible.
type FieldInput struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value"`
	Blur  bool   `json:"blur"`
}

// CheckoutState is the view model for the checkout page.
type CheckoutState struct {
	Method       domain.PaymentMethod `json:"method"`
	Values       domain.FormValues    `json:"values"`
	Errors       map[string]string    `json:"errors"`
	Installments []domain.Installment `json:"installments,omitempty"`
	Total        money.Cents          `json:"total"`
	TotalDisplay string               `json:"total_display"`
}

// CheckoutService implements the checkout form lifecycle and the purchase
// submission workflow.
type CheckoutService struct {
	carts         repository.CartRepository
	forms         repository.FormRepository
	confirmations repository.ConfirmationStore
	lock          repository.SubmitLock
	gateway       catalog.Gateway
	producer      *event.Producer
	logger        *slog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	carts repository.CartRepository,
	forms repository.FormRepository,
	confirmations repository.ConfirmationStore,
	lock repository.SubmitLock,
	gateway catalog.Gateway,
	producer *event.Producer,
	logger *slog.Logger,
) *CheckoutService {
	return &CheckoutService{
		carts:         carts,
		forms:         forms,
		confirmations: confirmations,
		lock:          lock,
		gateway:       gateway,
		producer:      producer,
		logger:        logger,
	}
}

// GetState returns the checkout view model for a session. Reaching checkout
// with an empty cart and no completed purchase yields ErrCartEmpty.
func (s *CheckoutService) GetState(ctx context.Context, sessionID string) (*CheckoutState, error) {
	cart, err := s.getCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if cart.IsEmpty() {
		if _, confErr := s.confirmations.Get(ctx, sessionID); confErr != nil {
			if errors.Is(confErr, apperrors.ErrNotFound) {
				return nil, ErrCartEmpty
			}
			return nil, fmt.Errorf("get confirmation: %w", confErr)
		}
	}

	form, err := s.getOrCreateForm(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return s.buildState(form, cart), nil
}

// SetFields applies a batch of field changes and blurs, then returns the
// refreshed state. Unknown field names reject the whole batch.
func (s *CheckoutService) SetFields(ctx context.Context, sessionID string, changes []FieldInput) (*CheckoutState, error) {
	if len(changes) == 0 {
		return nil, apperrors.InvalidInput("at least one field change is required")
	}

	form, err := s.getOrCreateForm(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	for _, change := range changes {
		if err := form.SetField(change.Name, change.Value); err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}
		if change.Blur {
			if err := form.Touch(change.Name); err != nil {
				return nil, apperrors.InvalidInput(err.Error())
			}
		}
	}

	if err := s.forms.Save(ctx, form); err != nil {
		return nil, fmt.Errorf("save checkout form: %w", err)
	}

	cart, err := s.getCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	return s.buildState(form, cart), nil
}

// SetPaymentMethod switches the active payment variant. Entered values are
// kept; only the validated field set changes.
func (s *CheckoutService) SetPaymentMethod(ctx context.Context, sessionID string, method domain.PaymentMethod) (*CheckoutState, error) {
	form, err := s.getOrCreateForm(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := form.SetMethod(method); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	if err := s.forms.Save(ctx, form); err != nil {
		return nil, fmt.Errorf("save checkout form: %w", err)
	}

	cart, err := s.getCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "payment method set",
		slog.String("session_id", sessionID),
		slog.String("payment_method", string(method)),
	)

	return s.buildState(form, cart), nil
}

// Submit runs the purchase workflow: guard, full validation, single-flight
// lock, payload build, store API call, and on success confirmation storage
// plus cart and form cleanup. On failure the form and cart are untouched so
// the user can correct and retry.
func (s *CheckoutService) Submit(ctx context.Context, sessionID string) (*domain.Confirmation, error) {
	cart, err := s.getCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrCartEmpty
	}

	form, err := s.getOrCreateForm(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Every field of the active variant becomes visible on submit.
	form.TouchAll()
	if err := s.forms.Save(ctx, form); err != nil {
		return nil, fmt.Errorf("save checkout form: %w", err)
	}

	if fieldErrs := form.Errors(); len(fieldErrs) > 0 {
		return nil, &ValidationFailedError{Fields: fieldErrs}
	}

	acquired, err := s.lock.Acquire(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("acquire submit lock: %w", err)
	}
	if !acquired {
		return nil, apperrors.Conflict("a purchase submission is already in progress")
	}
	defer func() {
		if err := s.lock.Release(ctx, sessionID); err != nil {
			s.logger.ErrorContext(ctx, "failed to release submit lock",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
	}()

	payload := domain.BuildPurchasePayload(form, cart)
	resp, err := s.gateway.Purchase(ctx, &payload)
	if err != nil {
		// Recoverable: the form and the cart survive so the user may retry.
		s.logger.WarnContext(ctx, "purchase rejected by store api",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("submit purchase: %w", err)
	}

	confirmation := &domain.Confirmation{
		OrderID:   resp.OrderID,
		Method:    form.Method,
		TotalPaid: cart.Total().FormatBRL(),
		CreatedAt: time.Now().UTC(),
	}

	if err := s.confirmations.Save(ctx, sessionID, confirmation); err != nil {
		return nil, fmt.Errorf("save confirmation: %w", err)
	}

	// Events are published before cleanup so they still see the cart lines.
	if err := s.producer.PublishPurchaseCompleted(ctx, sessionID, resp.OrderID, form, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish purchase.completed event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	s.cleanupAfterPurchase(ctx, sessionID, cart)

	s.logger.InfoContext(ctx, "purchase completed",
		slog.String("session_id", sessionID),
		slog.String("order_id", resp.OrderID),
		slog.String("payment_method", string(form.Method)),
		slog.String("total_paid", confirmation.TotalPaid),
	)

	return confirmation, nil
}

// Confirmation returns the stored confirmation for a session, if any.
func (s *CheckoutService) Confirmation(ctx context.Context, sessionID string) (*domain.Confirmation, error) {
	confirmation, err := s.confirmations.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get confirmation: %w", err)
	}
	return confirmation, nil
}

func (s *CheckoutService) getCart(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	cart, err := s.carts.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewCart(sessionID), nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return cart, nil
}

func (s *CheckoutService) getOrCreateForm(ctx context.Context, sessionID string) (*domain.CheckoutForm, error) {
	if sessionID == "" {
		return nil, apperrors.InvalidInput("session id is required")
	}

	form, err := s.forms.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.NewCheckoutForm(sessionID), nil
		}
		return nil, fmt.Errorf("get checkout form: %w", err)
	}
	return form, nil
}

func (s *CheckoutService) buildState(form *domain.CheckoutForm, cart *domain.Cart) *CheckoutState {
	total := cart.Total()
	return &CheckoutState{
		Method:       form.Method,
		Values:       form.Values,
		Errors:       form.VisibleErrors(),
		Installments: domain.InstallmentOptions(total),
		Total:        total,
		TotalDisplay: total.FormatBRL(),
	}
}

// cleanupAfterPurchase clears the cart and drops the form; failures are
// logged, the purchase has already settled.
func (s *CheckoutService) cleanupAfterPurchase(ctx context.Context, sessionID string, cart *domain.Cart) {
	cart.Clear()
	cart.UpdatedAt = time.Now().UTC()
	if err := s.carts.Save(ctx, cart); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear cart after purchase",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.producer.PublishCartCleared(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish cart.cleared event",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}

	if err := s.forms.Delete(ctx, sessionID); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete checkout form after purchase",
			slog.String("session_id", sessionID),
			slog.String("error", err.Error()),
		)
	}
}
