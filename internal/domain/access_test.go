package domain

import (
	"errors"
	"testing"
)

func TestAccount_AccessFor(t *testing.T) {
	account := &Account{
		ID:      "acc-1",
		OwnerID: "user-owner",
		SharedWith: []SharedAccess{
			{UserID: "user-full", Level: AccessFull},
			{UserID: "user-read", Level: AccessRead},
		},
	}

	tests := []struct {
		name     string
		userID   string
		expected AccessLevel
	}{
		{name: "owner resolves to owner", userID: "user-owner", expected: AccessOwner},
		{name: "shared full entry", userID: "user-full", expected: AccessFull},
		{name: "shared read entry", userID: "user-read", expected: AccessRead},
		{name: "stranger resolves to none", userID: "user-other", expected: AccessNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := account.AccessFor(tt.userID); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestAccessLevel_AtLeast(t *testing.T) {
	tests := []struct {
		name     string
		level    AccessLevel
		min      AccessLevel
		expected bool
	}{
		{name: "owner satisfies read", level: AccessOwner, min: AccessRead, expected: true},
		{name: "owner satisfies full", level: AccessOwner, min: AccessFull, expected: true},
		{name: "full satisfies read", level: AccessFull, min: AccessRead, expected: true},
		{name: "full does not satisfy owner", level: AccessFull, min: AccessOwner, expected: false},
		{name: "read does not satisfy full", level: AccessRead, min: AccessFull, expected: false},
		{name: "none does not satisfy read", level: AccessNone, min: AccessRead, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.level.AtLeast(tt.min); got != tt.expected {
				t.Errorf("AtLeast(%s, %s) = %v, want %v", tt.level, tt.min, got, tt.expected)
			}
		})
	}
}

func TestParseShareLevel(t *testing.T) {
	if level, err := ParseShareLevel("read"); err != nil || level != AccessRead {
		t.Errorf("expected read, got %v, %v", level, err)
	}

	if level, err := ParseShareLevel("full"); err != nil || level != AccessFull {
		t.Errorf("expected full, got %v, %v", level, err)
	}

	// Owner must never be grantable through sharing.
	if _, err := ParseShareLevel("owner"); !errors.Is(err, ErrInvalidAccessLevel) {
		t.Errorf("expected ErrInvalidAccessLevel for owner, got %v", err)
	}

	if _, err := ParseShareLevel("admin"); !errors.Is(err, ErrInvalidAccessLevel) {
		t.Errorf("expected ErrInvalidAccessLevel for unknown level, got %v", err)
	}
}
