package usecase

import "errors"

var (
	// ErrUnknownUser is returned when the referring user does not exist.
	ErrUnknownUser = errors.New("unknown user")
	// ErrInvalidAmount is returned for negative amounts, more than two
	// decimal places, or amounts that do not fit the earnings column.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrUnknownReferralCode is returned when no user owns the code.
	ErrUnknownReferralCode = errors.New("unknown referral code")
	// ErrSelfReferral is returned when a buyer presents their own code.
	ErrSelfReferral = errors.New("self referral is not allowed")
)
