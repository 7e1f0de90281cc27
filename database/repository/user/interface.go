package userRepo

import (
	"villagestay/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID; nil when absent.
	GetByID(id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address; nil when absent.
	GetByEmail(email string) (*models.User, error)
	// FindByPhonePattern retrieves the first user whose phone matches the
	// given pattern or whose whatsapp_phone equals the channel identity;
	// nil when absent.
	FindByPhonePattern(pattern, whatsappID string) (*models.User, error)
	// Create inserts a new user record.
	Create(user *models.User) error
	// Update modifies an existing user record.
	Update(user *models.User) error
	// UpdateWithDocument applies a raw update document to a user by ID.
	UpdateWithDocument(id string, update bson.M) error
}
