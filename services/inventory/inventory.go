package inventory

import (
	"fmt"

	listingRepo "villagestay/database/repository/listing"
	userRepo "villagestay/database/repository/user"
	"villagestay/models"
)

const (
	featuredLimit = 6
	popularLimit  = 5
	similarLimit  = 4

	popularMinRating = 4.0
)

// Service exposes the read-only listing queries the conversation needs.
type Service interface {
	// Featured returns the default browse page of listings.
	Featured() ([]models.Listing, error)
	// Search returns listings matching a free-text query.
	Search(query string) ([]models.Listing, error)
	// Popular returns the highest rated listings.
	Popular() ([]models.Listing, error)
	// Similar returns listings resembling the given one.
	Similar(l models.Listing) ([]models.Listing, error)
	// Get returns a listing by ID; nil when absent.
	Get(id string) (*models.Listing, error)
	// Host returns the host user for a listing, nil when unknown.
	Host(hostID string) (*models.User, error)
}

// DefaultInventoryService implements Service over the listing repository.
type DefaultInventoryService struct {
	Listings listingRepo.ListingRepository
	Users    userRepo.UserRepository
}

func (s *DefaultInventoryService) Featured() ([]models.Listing, error) {
	listings, err := s.Listings.FindFeatured(featuredLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch featured listings: %w", err)
	}
	return listings, nil
}

func (s *DefaultInventoryService) Search(query string) ([]models.Listing, error) {
	listings, err := s.Listings.Search(query, featuredLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	return listings, nil
}

func (s *DefaultInventoryService) Popular() ([]models.Listing, error) {
	listings, err := s.Listings.FindPopular(popularMinRating, popularLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch popular listings: %w", err)
	}
	return listings, nil
}

func (s *DefaultInventoryService) Similar(l models.Listing) ([]models.Listing, error) {
	listings, err := s.Listings.FindSimilar(l, similarLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch similar listings: %w", err)
	}
	return listings, nil
}

func (s *DefaultInventoryService) Get(id string) (*models.Listing, error) {
	return s.Listings.GetByID(id)
}

// Host resolves a listing's host. A missing host is not an error; detail
// views simply omit the host line.
func (s *DefaultInventoryService) Host(hostID string) (*models.User, error) {
	if hostID == "" {
		return nil, nil
	}
	user, err := s.Users.GetByID(hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch host %s: %w", hostID, err)
	}
	return user, nil
}
