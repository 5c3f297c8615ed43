package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountNotEmpty = errors.New("account still has transactions")

	// Transaction errors
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrInvalidTransactionKind = errors.New("transaction type cannot be mapped to a balance delta")
	ErrImmutableField         = errors.New("field cannot be changed after creation")
	ErrDirectTransferAdd      = errors.New("transfer transactions require the transfer endpoint")

	// Transfer errors
	ErrSameAccount      = errors.New("cannot transfer to same account")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrCurrencyMismatch = errors.New("currency does not match account currency")

	// Sharing errors
	ErrAlreadyShared      = errors.New("account is already shared with this user")
	ErrShareNotFound      = errors.New("user has no share on this account")
	ErrSelfShare          = errors.New("cannot share an account with yourself")
	ErrInvalidAccessLevel = errors.New("invalid access level")

	// Access errors
	ErrForbidden = errors.New("insufficient access level")

	// Authentication errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// ErrScopeAborted wraps persistence failures that forced an atomic scope to
// roll back. When it is returned, none of the mutations attempted inside the
// scope were applied.
var ErrScopeAborted = errors.New("atomic scope aborted")
