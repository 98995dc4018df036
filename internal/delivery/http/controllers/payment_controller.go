package controllers

import (
	"log/slog"
	"net/http"

	"barhopregistration/internal/delivery/http/helpers"
	"barhopregistration/internal/delivery/http/middleware"
	"barhopregistration/internal/domain"
)

type PaymentController struct {
	Logger  *slog.Logger
	Service domain.PaymentService
}

func NewPaymentController(logger *slog.Logger, svc domain.PaymentService) *PaymentController {
	return &PaymentController{
		Logger:  logger,
		Service: svc,
	}
}

// PayRequest is the request body for PUT /pay/{paymentID}.
type PayRequest struct {
	TokenID           string `json:"token_id,omitempty"`
	StripeCallback    bool   `json:"stripe_callback,omitempty"`
	AccountHolderName string `json:"account_holder_name,omitempty"`
	SEPAForm          bool   `json:"sepa_form,omitempty"`
	CreditCardName    string `json:"credit_card_name,omitempty"`
	AccountOnly       bool   `json:"account_only,omitempty"`
	CouponCode        string `json:"coupon_code,omitempty"`
}

// Validate implements helpers.Validator.
func (p *PayRequest) Validate() []string {
	var errs []string
	if p.SEPAForm && p.AccountHolderName == "" {
		errs = append(errs, "account_holder_name is required for SEPA payments")
	}
	return errs
}

// PaySuccessResponse is the success response envelope for PUT /pay/{paymentID} (200).
type PaySuccessResponse struct {
	Data  *domain.PaymentInitiation `json:"data"`
	Error *helpers.APIError         `json:"error"`
}

// Pay godoc
// @Summary Initiate payment for a registration
// @Description Opens a card payment intent or a SEPA setup intent with the payment provider for the given payment. Coupons reduce the amount due; a fully covered amount confirms the registration immediately (free_registration).
// @Tags payment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param paymentID path string true "Payment ID (UUID)"
// @Param request body controllers.PayRequest true "Payment method details"
// @Success 200 {object} controllers.PaySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event full, canceled, or already held)"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway"
// @Router /pay/{paymentID} [put]
func (c *PaymentController) Pay(w http.ResponseWriter, r *http.Request) {
	paymentID := r.PathValue("paymentID")
	if paymentID == "" || !uuidRegex.MatchString(paymentID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid paymentID")
		return
	}
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req PayRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	init, err := c.Service.InitiatePayment(r.Context(), claims.UserID, claims.AccountID, paymentID, &domain.PaymentInput{
		TokenID:           req.TokenID,
		StripeCallback:    req.StripeCallback,
		AccountHolderName: req.AccountHolderName,
		SEPAForm:          req.SEPAForm,
		CreditCardName:    req.CreditCardName,
		AccountOnly:       req.AccountOnly,
		CouponCode:        req.CouponCode,
	})
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, init)
}

// ConfirmRequest is the request body for POST /pay/confirm.
type ConfirmRequest struct {
	Transaction string `json:"transaction"`
	Locale      string `json:"locale,omitempty"`
}

// Validate implements helpers.Validator.
func (c *ConfirmRequest) Validate() []string {
	if c.Transaction == "" {
		return []string{"transaction is required"}
	}
	if !uuidRegex.MatchString(c.Transaction) {
		return []string{"transaction must be a UUID"}
	}
	return nil
}

// ConfirmResponse reports the outcome of a payment confirmation.
type ConfirmResponse struct {
	Transaction string `json:"transaction"`
	AlreadyPaid bool   `json:"already_paid"`
}

// ConfirmSuccessResponse is the success response envelope for POST /pay/confirm (200).
type ConfirmSuccessResponse struct {
	Data  *ConfirmResponse  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Confirm godoc
// @Summary Confirm a completed payment
// @Description Marks the payment as paid, activates the team's registrations, and sends confirmation and invitation emails. Idempotent: re-confirming reports already_paid without repeating any effect.
// @Tags payment
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body controllers.ConfirmRequest true "Transaction to confirm"
// @Success 200 {object} controllers.ConfirmSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /pay/confirm [post]
func (c *PaymentController) Confirm(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req ConfirmRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	alreadyPaid, err := c.Service.ConfirmPayment(r.Context(), claims.UserID, claims.AccountID, req.Locale, req.Transaction)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, &ConfirmResponse{
		Transaction: req.Transaction,
		AlreadyPaid: alreadyPaid,
	})
}
