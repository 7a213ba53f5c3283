package schema

import (
	"errors"
)

var (
	ErrNotExist = errors.New("not_exist_record")

	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotFound           = errors.New("token_not_found")
	ErrAlreadyExists      = errors.New("token_already_exists")
	ErrNotOwner           = errors.New("caller_not_owner")
	ErrInvalidAmount      = errors.New("invalid_transfer_amount")
	ErrGracePeriodActive  = errors.New("grace_period_active")
	ErrDurationOverflow   = errors.New("duration_overflow")
	ErrArithmeticOverflow = errors.New("arithmetic_overflow")
	ErrInvalidPrice       = errors.New("invalid_price")
	ErrEmptyTierTable     = errors.New("empty_tier_table")
	ErrInvariantViolation = errors.New("price_invariant_violation")
	ErrInvalidToken       = errors.New("invalid_payment_token")
	ErrInvalidTokenId     = errors.New("invalid_token_id")
	ErrInvalidAddress     = errors.New("invalid_address")
	ErrDomainTooLong      = errors.New("domain_too_long")

	ErrLastAdmin          = errors.New("last_admin")
	ErrNotInitialized     = errors.New("not_initialized")
	ErrAlreadyInitialized = errors.New("already_initialized")
	ErrExecutionEnded     = errors.New("execution_ended")
)
