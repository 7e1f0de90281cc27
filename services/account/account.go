package account

import (
	"fmt"
	"strings"
	"time"

	bookingRepo "villagestay/database/repository/booking"
	userRepo "villagestay/database/repository/user"
	"villagestay/models"
	"villagestay/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultAccountService implements Service over the user and booking
// repositories.
type DefaultAccountService struct {
	Repo     userRepo.UserRepository
	Bookings bookingRepo.BookingRepository
}

// ChannelPhone strips the transport suffix from a channel identity.
func ChannelPhone(identity string) string {
	return strings.TrimSuffix(identity, "@c.us")
}

// phonePatterns returns the lookup normalizations for a channel identity in
// priority order: raw, +-prefixed, country-code-stripped, +91-prefixed.
func phonePatterns(identity string) []string {
	num := ChannelPhone(identity)
	patterns := []string{num, "+" + num}
	if len(num) > 2 {
		patterns = append(patterns, num[2:], "+91"+num[2:])
	}
	return patterns
}

// Register creates an account from a completed profile draft.
func (s *DefaultAccountService) Register(draft *models.ProfileDraft, identity string) (*models.User, error) {
	existing, err := s.Repo.GetByEmail(draft.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(draft.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		ID:                strings.ReplaceAll(uuid.New().String(), "-", "")[:24],
		Email:             draft.Email,
		PasswordHash:      string(hash),
		FullName:          draft.FullName,
		UserType:          "tourist",
		Phone:             "+" + ChannelPhone(identity),
		Address:           draft.Address,
		IsVerified:        false,
		PreferredLanguage: "en",
		CreatedVia:        models.BookingSourceWhatsApp,
		PasswordSetVia:    "whatsapp",
		WhatsAppPhone:     identity,
		WhatsAppLinkedAt:  &now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.Repo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return user, nil
}

// Authenticate resolves a channel identity to a user, trying each phone
// normalization in priority order and returning the first match.
func (s *DefaultAccountService) Authenticate(identity string) (*models.User, error) {
	for _, pattern := range phonePatterns(identity) {
		user, err := s.Repo.FindByPhonePattern(pattern, identity)
		if err != nil {
			utils.GetLogger().Error("Authenticate: phone lookup failed",
				zap.String("pattern", pattern), zap.Error(err))
			return nil, fmt.Errorf("failed to resolve identity: %w", err)
		}
		if user != nil {
			return user, nil
		}
	}
	return nil, nil
}

// FindByEmail retrieves a user by email.
func (s *DefaultAccountService) FindByEmail(email string) (*models.User, error) {
	return s.Repo.GetByEmail(email)
}

// LinkByEmail attaches a channel identity to an existing account and
// re-parents that identity's anonymous bookings.
func (s *DefaultAccountService) LinkByEmail(identity, email string) (*models.User, error) {
	user, err := s.Repo.GetByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if user == nil {
		return nil, ErrNotFound
	}

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"whatsapp_phone":     identity,
			"whatsapp_linked_at": now,
			"updated_at":         now,
		},
	}
	if err := s.Repo.UpdateWithDocument(user.ID, update); err != nil {
		return nil, fmt.Errorf("failed to link account: %w", err)
	}
	user.WhatsAppPhone = identity
	user.WhatsAppLinkedAt = &now

	reparented, err := s.Bookings.ReparentByPhone(identity, user.ID)
	if err != nil {
		// The link itself succeeded; booking history catches up on the next
		// link attempt.
		utils.GetLogger().Error("LinkByEmail: failed to re-parent bookings",
			zap.String("identity", identity), zap.Error(err))
	} else if reparented > 0 {
		utils.GetLogger().Info("LinkByEmail: re-parented bookings",
			zap.String("user", user.ID), zap.Int64("count", reparented))
	}

	return user, nil
}

// ChangePassword verifies the current password before storing the new hash.
func (s *DefaultAccountService) ChangePassword(user *models.User, current, newPassword string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return ErrWrongPassword
	}
	if IsWeakPassword(newPassword) {
		return ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"password":            string(hash),
			"password_updated_at": now,
			"updated_at":          now,
		},
	}
	if err := s.Repo.UpdateWithDocument(user.ID, update); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	user.PasswordHash = string(hash)
	return nil
}

// VerifyPassword checks a candidate password against the stored hash.
func (s *DefaultAccountService) VerifyPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// CompleteProfile upgrades a temporary account and refreshes its bookings'
// guest snapshot.
func (s *DefaultAccountService) CompleteProfile(user *models.User, draft *models.ProfileDraft) error {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"email":                    draft.Email,
			"full_name":                draft.FullName,
			"address":                  draft.Address,
			"is_temporary_account":     false,
			"needs_profile_completion": false,
			"profile_completed_at":     now,
			"updated_at":               now,
		},
	}
	if err := s.Repo.UpdateWithDocument(user.ID, update); err != nil {
		return fmt.Errorf("failed to complete profile: %w", err)
	}
	user.Email = draft.Email
	user.FullName = draft.FullName
	user.Address = draft.Address
	user.NeedsProfileCompletion = false
	user.IsTemporaryAccount = false

	if err := s.Bookings.UpdateGuestDetails(user.ID, draft.FullName, draft.Email); err != nil {
		return fmt.Errorf("failed to refresh booking guest details: %w", err)
	}
	return nil
}
