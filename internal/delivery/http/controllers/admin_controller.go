package controllers

import (
	"log/slog"
	"net/http"

	"barhopregistration/internal/delivery/http/helpers"
	"barhopregistration/internal/domain"
)

type AdminController struct {
	Logger  *slog.Logger
	Service domain.CancellationService
}

func NewAdminController(logger *slog.Logger, svc domain.CancellationService) *AdminController {
	return &AdminController{
		Logger:  logger,
		Service: svc,
	}
}

// CancelTeamResponse reports how many registrations an admin cancel removed.
type CancelTeamResponse struct {
	Canceled int `json:"canceled"`
}

// CancelTeamSuccessResponse is the success response envelope for PUT /api/admin/cancel-team/{teamID} (200).
type CancelTeamSuccessResponse struct {
	Data  *CancelTeamResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// CancelTeam godoc
// @Summary Cancel a whole team (admin)
// @Description Force-cancels every registration tied to the payment record identified by teamID and notifies each participant by email. No vouchers are issued. Requires the owner role.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param teamID path string true "Payment ID of the team (UUID)"
// @Success 200 {object} controllers.CancelTeamSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/admin/cancel-team/{teamID} [put]
func (c *AdminController) CancelTeam(w http.ResponseWriter, r *http.Request) {
	teamID := r.PathValue("teamID")
	if teamID == "" || !uuidRegex.MatchString(teamID) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid teamID")
		return
	}

	count, err := c.Service.CancelTeam(r.Context(), teamID)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, &CancelTeamResponse{Canceled: count})
}
