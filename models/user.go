package models

import "time"

// User represents a platform account. Documents live in the "users"
// collection and are shared with the website backend, so bson field names
// follow its snake_case schema.
type User struct {
	ID           string `bson:"id" json:"id"`
	Email        string `bson:"email" json:"email"`
	PasswordHash string `bson:"password" json:"-"`
	FullName     string `bson:"full_name" json:"full_name"`
	UserType     string `bson:"user_type" json:"user_type"`
	Phone        string `bson:"phone" json:"phone"`
	Address      string `bson:"address" json:"address"`

	IsVerified        bool   `bson:"is_verified" json:"is_verified"`
	PreferredLanguage string `bson:"preferred_language" json:"preferred_language"`
	CreatedVia        string `bson:"created_via" json:"created_via"`
	PasswordSetVia    string `bson:"password_set_via,omitempty" json:"-"`

	// WhatsApp channel linkage.
	WhatsAppPhone    string     `bson:"whatsapp_phone,omitempty" json:"whatsapp_phone,omitempty"`
	WhatsAppLinkedAt *time.Time `bson:"whatsapp_linked_at,omitempty" json:"whatsapp_linked_at,omitempty"`

	IsTemporaryAccount     bool `bson:"is_temporary_account" json:"is_temporary_account"`
	NeedsProfileCompletion bool `bson:"needs_profile_completion" json:"needs_profile_completion"`

	CreatedAt          time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `bson:"updated_at" json:"updated_at"`
	PasswordUpdatedAt  *time.Time `bson:"password_updated_at,omitempty" json:"-"`
	ProfileCompletedAt *time.Time `bson:"profile_completed_at,omitempty" json:"-"`
}

// FirstName returns the leading word of the full name for casual greetings.
func (u *User) FirstName() string {
	for i := 0; i < len(u.FullName); i++ {
		if u.FullName[i] == ' ' {
			return u.FullName[:i]
		}
	}
	return u.FullName
}
