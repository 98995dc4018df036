package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "barhopregistration/docs"
	"barhopregistration/internal/delivery/http/controllers"
	"barhopregistration/internal/delivery/http/helpers"
	"barhopregistration/internal/delivery/http/middleware"
	"barhopregistration/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes
func NewRouter(
	registrationController *controllers.RegistrationController,
	paymentController *controllers.PaymentController,
	cancellationController *controllers.CancellationController,
	adminController *controllers.AdminController,
	verifier domain.TokenVerifier,
	logger *slog.Logger,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)
	owner := middleware.RequireRole(domain.PermissionOwner)

	// Registration and payment
	mux.HandleFunc("POST /register", auth(registrationController.Register))
	mux.HandleFunc("PUT /pay/{paymentID}", auth(paymentController.Pay))
	mux.HandleFunc("POST /pay/confirm", auth(paymentController.Confirm))

	// Cancellation
	mux.HandleFunc("POST /registrations/cancel", auth(cancellationController.Cancel))
	mux.HandleFunc("PUT /api/admin/cancel-team/{teamID}", auth(owner(adminController.CancelTeam)))

	// Health
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
