package interfaces

import "github.com/google/uuid"

// TierResolver exposes the capability set of an account's active session.
// It is an external collaborator (a permission or session service) injected
// into the multiplier policy so it can be replaced with a test double.
type TierResolver interface {
	// HasCapability reports whether the account currently holds the named
	// capability. Accounts with no resolvable session hold no capabilities.
	HasCapability(accountID uuid.UUID, capability string) bool
}
