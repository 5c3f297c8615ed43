package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrInvalidCurrency    = errors.New("invalid currency code")
	ErrAmountTooLarge     = errors.New("amount exceeds maximum allowed")
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MaxAmount            = "1000000000000" // 1 trillion
)

// ValidateAccountName validates an account display name.
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateCurrency validates an ISO 4217 currency code.
func ValidateCurrency(currency string) error {
	code := strings.ToUpper(strings.TrimSpace(currency))

	if c := money.GetCurrency(code); c == nil {
		return fmt.Errorf("%w: %s is not a valid ISO 4217 currency code", ErrInvalidCurrency, currency)
	}

	return nil
}

// ValidateAmount validates a transaction or transfer amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}
