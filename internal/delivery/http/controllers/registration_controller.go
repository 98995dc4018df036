package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"barhopregistration/internal/delivery/http/helpers"
	"barhopregistration/internal/delivery/http/middleware"
	"barhopregistration/internal/domain"
)

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// ParticipantPayload carries one participant's registration fields.
type ParticipantPayload struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth"`
	Children    bool   `json:"children"`

	RelationshipGoal           string `json:"relationship_goal"`
	KindOfPerson               string `json:"kind_of_person"`
	FeelAroundNewPeople        string `json:"feel_around_new_people"`
	PreferSpendingTime         string `json:"prefer_spending_time"`
	DescribeYouBetter          string `json:"describe_you_better"`
	DescribeRoleInRelationship string `json:"describe_role_in_relationship"`
	LookingFor                 string `json:"looking_for"`
}

func (p *ParticipantPayload) toInput() domain.ParticipantInput {
	return domain.ParticipantInput{
		FirstName:   strings.TrimSpace(p.FirstName),
		LastName:    strings.TrimSpace(p.LastName),
		Email:       strings.ToLower(strings.TrimSpace(p.Email)),
		Gender:      p.Gender,
		DateOfBirth: p.DateOfBirth,
		Children:    p.Children,
		Profile: domain.Profile{
			RelationshipGoal:           p.RelationshipGoal,
			KindOfPerson:               p.KindOfPerson,
			FeelAroundNewPeople:        p.FeelAroundNewPeople,
			PreferSpendingTime:         p.PreferSpendingTime,
			DescribeYouBetter:          p.DescribeYouBetter,
			DescribeRoleInRelationship: p.DescribeRoleInRelationship,
			LookingFor:                 p.LookingFor,
		},
	}
}

func (p *ParticipantPayload) validate(label string) []string {
	var errs []string
	if strings.TrimSpace(p.FirstName) == "" {
		errs = append(errs, label+" first_name is required")
	}
	if strings.TrimSpace(p.LastName) == "" {
		errs = append(errs, label+" last_name is required")
	}
	email := strings.TrimSpace(p.Email)
	if email == "" {
		errs = append(errs, label+" email is required")
	} else if !emailRegex.MatchString(email) {
		errs = append(errs, label+" email is invalid")
	}
	return errs
}

// RegisterRequest is the request body for POST /register.
type RegisterRequest struct {
	EventID     string              `json:"event_id"`
	Participant ParticipantPayload  `json:"participant"`
	Friend      *ParticipantPayload `json:"friend,omitempty"`
}

// Validate implements helpers.Validator.
func (r *RegisterRequest) Validate() []string {
	var errs []string
	if r.EventID == "" {
		errs = append(errs, "event_id is required")
	} else if !uuidRegex.MatchString(r.EventID) {
		errs = append(errs, "event_id must be a UUID")
	}
	errs = append(errs, r.Participant.validate("participant")...)
	if r.Friend != nil {
		errs = append(errs, r.Friend.validate("friend")...)
	}
	return errs
}

// RegisterResponse returns the payment the client must complete next.
type RegisterResponse struct {
	Transaction string `json:"transaction"`
}

// RegisterSuccessResponse is the success response envelope for POST /register (201).
type RegisterSuccessResponse struct {
	Data  *RegisterResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// Register godoc
// @Summary Register for an event
// @Description Registers the authenticated user for an event, optionally bringing a friend. Creates the registrations in process status plus an unpaid payment, and returns the payment ID to complete via PUT /pay/{paymentID}.
// @Tags registration
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body controllers.RegisterRequest true "Registration details"
// @Success 201 {object} controllers.RegisterSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (event full, canceled, or duplicate participant)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /register [post]
func (c *RegistrationController) Register(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req RegisterRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	input := &domain.RegisterTeamInput{
		EventID:  req.EventID,
		MainUser: req.Participant.toInput(),
	}
	if req.Friend != nil {
		friend := req.Friend.toInput()
		input.Friend = &friend
	}

	paymentID, err := c.Service.Register(r.Context(), claims.UserID, input)
	if err != nil {
		writeDomainError(w, r, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, &RegisterResponse{Transaction: paymentID})
}
