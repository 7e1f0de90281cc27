package models

import "time"

// Booking statuses considered when probing availability.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusPending   = "pending"

	PaymentStatusPending = "pending"

	BookingSourceWhatsApp = "whatsapp_bot"
)

// Pricing is the decomposition of a booking total. Each fee is rounded
// independently from the base amount; totals only match when that order is
// reproduced exactly.
type Pricing struct {
	BaseAmount            float64 `bson:"base_amount" json:"base_amount"`
	PlatformFee           float64 `bson:"platform_fee" json:"platform_fee"`
	CommunityContribution float64 `bson:"community_contribution" json:"community_contribution"`
	HostEarnings          float64 `bson:"host_earnings" json:"host_earnings"`
	TotalAmount           float64 `bson:"total_amount" json:"total_amount"`
}

// Booking represents a committed reservation. Immutable after creation
// except for status/payment transitions owned by out-of-scope processes.
type Booking struct {
	ID        string `bson:"id" json:"id"`
	ListingID string `bson:"listing_id" json:"listing_id"`
	TouristID string `bson:"tourist_id,omitempty" json:"tourist_id,omitempty"`
	HostID    string `bson:"host_id" json:"host_id"`

	CheckIn  time.Time `bson:"check_in" json:"check_in"`
	CheckOut time.Time `bson:"check_out" json:"check_out"`
	Nights   int       `bson:"nights" json:"nights"`
	Guests   int       `bson:"guests" json:"guests"`

	Pricing `bson:",inline"`

	SpecialRequests  string `bson:"special_requests" json:"special_requests"`
	BookingReference string `bson:"booking_reference" json:"booking_reference"`
	Status           string `bson:"status" json:"status"`
	PaymentStatus    string `bson:"payment_status" json:"payment_status"`

	// Channel identity and guest snapshot for bookings made over WhatsApp.
	TouristPhone  string `bson:"tourist_phone,omitempty" json:"tourist_phone,omitempty"`
	GuestName     string `bson:"guest_name" json:"guest_name"`
	GuestEmail    string `bson:"guest_email" json:"guest_email"`
	GuestPhone    string `bson:"guest_phone" json:"guest_phone"`
	BookingSource string `bson:"booking_source" json:"booking_source"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
