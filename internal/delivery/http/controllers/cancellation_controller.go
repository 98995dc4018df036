package controllers

import (
	"log/slog"
	"net/http"

	"barhopregistration/internal/delivery/http/helpers"
	"barhopregistration/internal/delivery/http/middleware"
	"barhopregistration/internal/domain"
)

type CancellationController struct {
	Logger  *slog.Logger
	Service domain.CancellationService
}

func NewCancellationController(logger *slog.Logger, svc domain.CancellationService) *CancellationController {
	return &CancellationController{
		Logger:  logger,
		Service: svc,
	}
}

// CancelRequest is the request body for POST /registrations/cancel.
type CancelRequest struct {
	EventID string `json:"event_id"`
	Locale  string `json:"locale,omitempty"`
}

// Validate implements helpers.Validator.
func (c *CancelRequest) Validate() []string {
	if c.EventID == "" {
		return []string{"event_id is required"}
	}
	if !uuidRegex.MatchString(c.EventID) {
		return []string{"event_id must be a UUID"}
	}
	return nil
}

// CancelSuccessResponse is the success response envelope for POST /registrations/cancel (200).
type CancelSuccessResponse struct {
	Data  *domain.CancellationResult `json:"data"`
	Error *helpers.APIError          `json:"error"`
}

// Cancel godoc
// @Summary Cancel the caller's registration for an event
// @Description Cancels the authenticated user's active registration. Cancelling more than 24 hours before the event start issues a voucher over the amount paid; the voucher code is emailed and returned in the response.
// @Tags cancellation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body controllers.CancelRequest true "Event to cancel"
// @Success 200 {object} controllers.CancelSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/cancel [post]
func (c *CancellationController) Cancel(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req CancelRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	result, err := c.Service.Cancel(r.Context(), claims.UserID, req.Locale, req.EventID)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, result)
}
