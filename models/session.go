package models

import "time"

// Step is a top-level conversation state.
type Step string

// SubStep is a field-level state inside a multi-field flow.
type SubStep string

const (
	StepGreeting          Step = "greeting"
	StepNewUserProfile    Step = "new_user_profile"
	StepMainMenu          Step = "main_menu"
	StepBrowseListings    Step = "browse_listings"
	StepListingDetails    Step = "listing_details"
	StepBookingFlow       Step = "booking_flow"
	StepBookingDetails    Step = "booking_details"
	StepAIChat            Step = "ai_chat"
	StepAccountManagement Step = "account_management"
	StepPasswordReset     Step = "password_reset"
	StepPasswordChange    Step = "password_change"
	StepProfileCompletion Step = "profile_completion"
)

const (
	SubStepNone SubStep = ""

	// new_user_profile / profile_completion
	SubStepName          SubStep = "name"
	SubStepEmail         SubStep = "email"
	SubStepEmailConflict SubStep = "email_conflict"
	SubStepPassword      SubStep = "password"
	SubStepLocation      SubStep = "location"

	// booking_flow
	SubStepCheckIn         SubStep = "check_in"
	SubStepCheckOut        SubStep = "check_out"
	SubStepGuests          SubStep = "guests"
	SubStepSpecialRequests SubStep = "special_requests"
	SubStepConfirmation    SubStep = "confirmation"

	// password_change
	SubStepCurrent SubStep = "current"
	SubStepNew     SubStep = "new"
	SubStepConfirm SubStep = "confirm"
)

// ProfileDraft accumulates registration or profile-completion input.
type ProfileDraft struct {
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password,omitempty"`
	Address  string `json:"address,omitempty"`
	// Email that collided with an existing account, while the user decides
	// between linking and trying a different address.
	ExistingEmail string `json:"existing_email,omitempty"`
}

// BookingDraft accumulates a reservation across turns, seeded from the
// selected listing so later steps never re-read inventory.
type BookingDraft struct {
	ListingID     string  `json:"listing_id"`
	ListingTitle  string  `json:"listing_title"`
	PricePerNight float64 `json:"price_per_night"`
	MaxGuests     int     `json:"max_guests"`
	HostID        string  `json:"host_id"`

	CheckIn         time.Time `json:"check_in,omitempty"`
	CheckOut        time.Time `json:"check_out,omitempty"`
	Nights          int       `json:"nights,omitempty"`
	Guests          int       `json:"guests,omitempty"`
	SpecialRequests string    `json:"special_requests,omitempty"`

	Pricing Pricing `json:"pricing,omitempty"`
}

// PasswordDraft carries password-change input between sub-steps.
type PasswordDraft struct {
	Current string `json:"current,omitempty"`
	New     string `json:"new,omitempty"`
}

// Session is the per-identity conversation state. At most one draft is
// non-nil at a time and its variant always agrees with Step; mutate state
// through the Begin*/To* helpers to keep that invariant.
type Session struct {
	ID      string  `json:"id"`
	Step    Step    `json:"step"`
	SubStep SubStep `json:"sub_step,omitempty"`

	Profile  *ProfileDraft  `json:"profile,omitempty"`
	Booking  *BookingDraft  `json:"booking,omitempty"`
	Password *PasswordDraft `json:"password,omitempty"`

	// Authenticated account, once the identity has been resolved.
	User *User `json:"user,omitempty"`

	// Step-scoped browse context: the listings last shown, the listing being
	// inspected, and the booking history last listed.
	CurrentListings []Listing `json:"current_listings,omitempty"`
	SelectedListing *Listing  `json:"selected_listing,omitempty"`
	CurrentBookings []Booking `json:"current_bookings,omitempty"`

	LastActivityAt time.Time `json:"last_activity_at"`
}

// NewSession returns the initial state for an identity never seen before.
func NewSession(id string, now time.Time) *Session {
	return &Session{ID: id, Step: StepGreeting, LastActivityAt: now}
}

func (s *Session) clearDrafts() {
	s.Profile = nil
	s.Booking = nil
	s.Password = nil
}

// SetStep moves to a step that carries no draft.
func (s *Session) SetStep(step Step) {
	s.clearDrafts()
	s.Step = step
	s.SubStep = SubStepNone
}

// ToMainMenu resets all flow state and returns to the menu.
func (s *Session) ToMainMenu() {
	s.SetStep(StepMainMenu)
	s.CurrentListings = nil
	s.SelectedListing = nil
	s.CurrentBookings = nil
}

// BeginProfile starts the registration flow at the given sub-step.
func (s *Session) BeginProfile(step Step, sub SubStep) {
	s.clearDrafts()
	s.Step = step
	s.SubStep = sub
	s.Profile = &ProfileDraft{}
}

// BeginBooking starts the booking flow for a listing.
func (s *Session) BeginBooking(l Listing) {
	s.clearDrafts()
	s.Step = StepBookingFlow
	s.SubStep = SubStepCheckIn
	s.Booking = &BookingDraft{
		ListingID:     l.ID,
		ListingTitle:  l.Title,
		PricePerNight: l.PricePerNight,
		MaxGuests:     l.MaxGuests,
		HostID:        l.HostID,
	}
}

// BeginPasswordChange starts the password-change flow.
func (s *Session) BeginPasswordChange() {
	s.clearDrafts()
	s.Step = StepPasswordChange
	s.SubStep = SubStepCurrent
	s.Password = &PasswordDraft{}
}
