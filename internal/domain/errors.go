package domain

import "errors"

// Sentinel errors shared across services. Controllers map these to HTTP
// status codes; services wrap them with fmt.Errorf("...: %w", err).
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	ErrEventFull            = errors.New("event is full")
	ErrEventCanceled        = errors.New("event is canceled")
	ErrEventAlreadyHeld     = errors.New("event has already been held")
	ErrDuplicateParticipant = errors.New("friend email matches the main participant")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrPaymentProcessor     = errors.New("payment processor error")
	ErrIllegalTransition    = errors.New("illegal status transition")
)
