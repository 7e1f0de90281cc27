package account

import (
	"errors"

	"villagestay/models"
)

var (
	// ErrNotFound signals no account matched the lookup.
	ErrNotFound = errors.New("account not found")
	// ErrEmailTaken signals the email is already registered.
	ErrEmailTaken = errors.New("email already registered")
	// ErrWrongPassword signals the current password failed verification.
	ErrWrongPassword = errors.New("current password is incorrect")
	// ErrWeakPassword signals the candidate password failed the strength rule.
	ErrWeakPassword = errors.New("password too weak")
)

// Service manages platform accounts reached over the messaging channel.
type Service interface {
	// Register creates an account from a completed profile draft, hashing
	// the password and linking the channel identity.
	Register(draft *models.ProfileDraft, identity string) (*models.User, error)
	// Authenticate resolves a channel identity to a user by trying phone
	// normalizations in fixed priority order; nil when no account matches.
	Authenticate(identity string) (*models.User, error)
	// FindByEmail retrieves a user by email; nil when absent.
	FindByEmail(email string) (*models.User, error)
	// LinkByEmail attaches a channel identity to the account registered
	// under email and re-parents that identity's anonymous bookings.
	LinkByEmail(identity, email string) (*models.User, error)
	// VerifyPassword checks a candidate password against the stored hash.
	VerifyPassword(user *models.User, password string) bool
	// ChangePassword verifies the current password before storing a hash of
	// the new one.
	ChangePassword(user *models.User, current, newPassword string) error
	// CompleteProfile upgrades a temporary account with email, name and
	// address, refreshing the guest snapshot on its bookings.
	CompleteProfile(user *models.User, draft *models.ProfileDraft) error
}
