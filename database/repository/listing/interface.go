package listingRepo

import "villagestay/models"

// ListingRepository defines the read-only listing access this core needs.
type ListingRepository interface {
	// GetByID retrieves a listing by its unique ID.
	GetByID(id string) (*models.Listing, error)
	// FindFeatured retrieves active, approved listings.
	FindFeatured(limit int64) ([]models.Listing, error)
	// Search retrieves active, approved listings matching the free-text
	// query across title, description, location and amenities.
	Search(query string, limit int64) ([]models.Listing, error)
	// FindPopular retrieves highly rated listings ordered by rating and
	// review count.
	FindPopular(minRating float64, limit int64) ([]models.Listing, error)
	// FindSimilar retrieves listings resembling the given one by property
	// type, location or price band.
	FindSimilar(l models.Listing, limit int64) ([]models.Listing, error)
}
