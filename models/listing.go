package models

import "strings"

// Listing is an inventory unit. This core only ever reads listings; the
// website backend owns the write path.
type Listing struct {
	ID                     string   `bson:"id" json:"id"`
	Title                  string   `bson:"title" json:"title"`
	Description            string   `bson:"description" json:"description"`
	Location               string   `bson:"location" json:"location"`
	PricePerNight          float64  `bson:"price_per_night" json:"price_per_night"`
	PropertyType           string   `bson:"property_type" json:"property_type"`
	MaxGuests              int      `bson:"max_guests" json:"max_guests"`
	HostID                 string   `bson:"host_id" json:"host_id"`
	Rating                 float64  `bson:"rating" json:"rating"`
	ReviewCount            int      `bson:"review_count" json:"review_count"`
	Amenities              []string `bson:"amenities" json:"amenities"`
	SustainabilityFeatures []string `bson:"sustainability_features" json:"sustainability_features"`
	IsActive               bool     `bson:"is_active" json:"is_active"`
	IsApproved             bool     `bson:"is_approved" json:"is_approved"`
}

// PropertyTypeLabel renders the stored snake_case property type for display.
func (l *Listing) PropertyTypeLabel() string {
	return strings.ReplaceAll(l.PropertyType, "_", " ")
}
