package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"villagestay/database"
	"villagestay/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo creates a new instance of BookingRepository using MongoDB.
func NewMongoBookingRepo() BookingRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("bookings")
	repo := &MongoBookingRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for the overlap, history and reminder queries.
// The unique reference index backs the collision-retry loop in the engine.
func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_reference", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "listing_id", Value: 1}, {Key: "check_in", Value: 1}}},
		{Keys: bson.D{{Key: "tourist_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "tourist_phone", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) find(filter bson.M, opts *options.FindOptions) ([]models.Booking, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// Insert persists a new booking document.
func (r *MongoBookingRepo) Insert(b *models.Booking) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, b); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// HasOverlap runs the day-window overlap probe against live bookings.
func (r *MongoBookingRepo) HasOverlap(listingID string, dayStart, dayEnd time.Time) (bool, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"listing_id": listingID,
		"status":     bson.M{"$in": []string{models.BookingStatusConfirmed, models.BookingStatusPending}},
		"$or": []bson.M{
			{"check_in": bson.M{"$lte": dayStart}, "check_out": bson.M{"$gt": dayStart}},
			{"check_in": bson.M{"$lt": dayEnd}, "check_out": bson.M{"$gte": dayEnd}},
		},
	}

	err := r.coll.FindOne(ctx, filter).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to probe booking overlap: %w", err)
	}
	return true, nil
}

// GetByReference retrieves a booking by its reference code.
func (r *MongoBookingRepo) GetByReference(ref string) (*models.Booking, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var b models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"booking_reference": ref}).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", ref, err)
	}
	return &b, nil
}

// FindByTourist retrieves a tourist's bookings, newest first.
func (r *MongoBookingRepo) FindByTourist(touristID string, limit int64) ([]models.Booking, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)
	return r.find(bson.M{"tourist_id": touristID}, opts)
}

// CountByTourist counts a tourist's bookings.
func (r *MongoBookingRepo) CountByTourist(touristID string) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	count, err := r.coll.CountDocuments(ctx, bson.M{"tourist_id": touristID})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

// FindUpcomingCheckIns retrieves confirmed bookings checking in within [from, to].
func (r *MongoBookingRepo) FindUpcomingCheckIns(from, to time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"status":   models.BookingStatusConfirmed,
		"check_in": bson.M{"$gte": from, "$lte": to},
	}
	return r.find(filter, options.Find())
}

// ReparentByPhone attaches anonymous channel bookings to a user account.
func (r *MongoBookingRepo) ReparentByPhone(touristPhone, touristID string) (int64, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"tourist_phone": touristPhone,
		"tourist_id":    bson.M{"$exists": false},
	}
	update := bson.M{
		"$set": bson.M{
			"tourist_id":        touristID,
			"account_linked_at": time.Now(),
		},
	}

	result, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to re-parent bookings for %s: %w", touristPhone, err)
	}
	return result.ModifiedCount, nil
}

// UpdateGuestDetails refreshes the guest snapshot on a tourist's bookings.
func (r *MongoBookingRepo) UpdateGuestDetails(touristID, name, email string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"guest_name":  name,
			"guest_email": email,
			"updated_at":  time.Now(),
		},
	}
	if _, err := r.coll.UpdateMany(ctx, bson.M{"tourist_id": touristID}, update); err != nil {
		return fmt.Errorf("failed to update guest details for %s: %w", touristID, err)
	}
	return nil
}
