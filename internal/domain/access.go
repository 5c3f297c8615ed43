package domain

import (
	"encoding/json"
	"fmt"
)

// AccessLevel is an ordered capability a user holds on an account.
// Higher levels include everything the lower ones permit.
type AccessLevel int

const (
	// AccessNone means the account is invisible to the user.
	AccessNone AccessLevel = iota

	// AccessRead permits viewing the account and its transactions.
	AccessRead

	// AccessFull additionally permits mutating transactions and the
	// account's editable fields.
	AccessFull

	// AccessOwner additionally permits deleting the account and managing
	// who it is shared with.
	AccessOwner
)

// AtLeast reports whether the level grants everything min grants.
func (l AccessLevel) AtLeast(min AccessLevel) bool {
	return l >= min
}

func (l AccessLevel) String() string {
	switch l {
	case AccessRead:
		return "read"
	case AccessFull:
		return "full"
	case AccessOwner:
		return "owner"
	default:
		return "none"
	}
}

// ParseShareLevel parses an access level that may be granted through
// sharing. Owner is not assignable; it belongs to exactly one user.
func ParseShareLevel(s string) (AccessLevel, error) {
	switch s {
	case "read":
		return AccessRead, nil
	case "full":
		return AccessFull, nil
	default:
		return AccessNone, fmt.Errorf("%w: %q", ErrInvalidAccessLevel, s)
	}
}

// MarshalJSON encodes the level as its string name.
func (l AccessLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON decodes a string level name.
func (l *AccessLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	switch s {
	case "read":
		*l = AccessRead
	case "full":
		*l = AccessFull
	case "owner":
		*l = AccessOwner
	case "none":
		*l = AccessNone
	default:
		return fmt.Errorf("%w: %q", ErrInvalidAccessLevel, s)
	}

	return nil
}
