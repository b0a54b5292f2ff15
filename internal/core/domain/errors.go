package domain

import "errors"

var (
	ErrPermissionDenied     = errors.New("permission denied")
	ErrElectionNotFound     = errors.New("election not found")
	ErrCandidateNotFound    = errors.New("candidate not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrCodeNotFound         = errors.New("voter code not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidState         = errors.New("operation not allowed in current election state")
	ErrAlreadyRegistered    = errors.New("a registration already exists for this email")
	ErrAlreadyVoted         = errors.New("voter has already voted in this election")
	ErrNotEligible          = errors.New("voter is not eligible for this election")
	ErrRegistrationClosed   = errors.New("registration is closed for this election")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInternal             = errors.New("internal server error")
)
