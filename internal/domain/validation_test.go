package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAccountName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
	}{
		{name: "valid name", input: "Household budget"},
		{name: "empty name", input: "", expectError: true},
		{name: "whitespace only", input: "   ", expectError: true},
		{name: "too long", input: strings.Repeat("a", 256), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAccountName(tt.input)

			if tt.expectError && !errors.Is(err, ErrInvalidAccountName) {
				t.Errorf("expected ErrInvalidAccountName, got %v", err)
			}

			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateCurrency(t *testing.T) {
	for _, code := range []string{"PLN", "USD", "EUR", "gbp", " CHF "} {
		if err := ValidateCurrency(code); err != nil {
			t.Errorf("expected %q to be valid, got %v", code, err)
		}
	}

	for _, code := range []string{"", "ZZZ", "DOLLARS"} {
		if err := ValidateCurrency(code); !errors.Is(err, ErrInvalidCurrency) {
			t.Errorf("expected %q to be invalid, got %v", code, err)
		}
	}
}

func TestValidateAmount(t *testing.T) {
	if err := ValidateAmount(decimal.NewFromInt(100)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ValidateAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for zero, got %v", err)
	}

	if err := ValidateAmount(decimal.NewFromInt(-5)); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("expected ErrInvalidAmount for negative, got %v", err)
	}

	huge, _ := decimal.NewFromString("2000000000000")
	if err := ValidateAmount(huge); !errors.Is(err, ErrAmountTooLarge) {
		t.Errorf("expected ErrAmountTooLarge, got %v", err)
	}
}
