package listingRepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"villagestay/database"
	"villagestay/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoListingRepo implements ListingRepository using MongoDB.
type MongoListingRepo struct {
	coll *mongo.Collection
}

// NewMongoListingRepo creates a new instance of ListingRepository using MongoDB.
func NewMongoListingRepo() ListingRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("listings")
	return &MongoListingRepo{coll: coll}
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// visible restricts any listing query to bookable inventory.
func visible() bson.M {
	return bson.M{"is_active": true, "is_approved": true}
}

func (r *MongoListingRepo) find(filter bson.M, opts *options.FindOptions) ([]models.Listing, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve listings: %w", err)
	}
	defer cursor.Close(ctx)

	var listings []models.Listing
	for cursor.Next(ctx) {
		var l models.Listing
		if err := cursor.Decode(&l); err != nil {
			return nil, fmt.Errorf("failed to decode listing: %w", err)
		}
		listings = append(listings, l)
	}
	return listings, nil
}

// GetByID retrieves a listing by its unique ID.
func (r *MongoListingRepo) GetByID(id string) (*models.Listing, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var listing models.Listing
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&listing); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch listing with id %s: %w", id, err)
	}
	return &listing, nil
}

// FindFeatured retrieves active, approved listings.
func (r *MongoListingRepo) FindFeatured(limit int64) ([]models.Listing, error) {
	return r.find(visible(), options.Find().SetLimit(limit))
}

// Search retrieves visible listings matching the free-text query.
func (r *MongoListingRepo) Search(query string, limit int64) ([]models.Listing, error) {
	filter := visible()
	filter["$or"] = []bson.M{
		{"title": bson.M{"$regex": query, "$options": "i"}},
		{"description": bson.M{"$regex": query, "$options": "i"}},
		{"location": bson.M{"$regex": query, "$options": "i"}},
		{"amenities": bson.M{"$regex": query, "$options": "i"}},
	}
	return r.find(filter, options.Find().SetLimit(limit))
}

// FindPopular retrieves highly rated listings ordered by rating then reviews.
func (r *MongoListingRepo) FindPopular(minRating float64, limit int64) ([]models.Listing, error) {
	filter := visible()
	filter["rating"] = bson.M{"$gte": minRating}
	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "review_count", Value: -1}}).
		SetLimit(limit)
	return r.find(filter, opts)
}

// FindSimilar retrieves visible listings resembling l, excluding l itself.
func (r *MongoListingRepo) FindSimilar(l models.Listing, limit int64) ([]models.Listing, error) {
	area := l.Location
	if i := strings.Index(area, ","); i >= 0 {
		area = area[:i]
	}
	filter := visible()
	filter["id"] = bson.M{"$ne": l.ID}
	filter["$or"] = []bson.M{
		{"property_type": l.PropertyType},
		{"location": bson.M{"$regex": area, "$options": "i"}},
		{"price_per_night": bson.M{"$gte": l.PricePerNight - 500, "$lte": l.PricePerNight + 500}},
	}
	return r.find(filter, options.Find().SetLimit(limit))
}
