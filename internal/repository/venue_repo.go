package repository

import (
	"ceezaa-sessions/internal/model"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// VenueRepo handles MongoDB operations for the venue catalog
type VenueRepo interface {
	Create(ctx context.Context, venue *model.Venue) error
	GetByID(ctx context.Context, id string) (*model.Venue, error)
	GetByName(ctx context.Context, name string) (*model.Venue, error)
}

type venueRepo struct {
	collection *mongo.Collection
}

// NewVenueRepo creates a new venue repository
func NewVenueRepo(db *mongo.Database) VenueRepo {
	return &venueRepo{
		collection: db.Collection("venues"),
	}
}

func (r *venueRepo) Create(ctx context.Context, venue *model.Venue) error {
	venue.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, venue)
	return err
}

func (r *venueRepo) GetByID(ctx context.Context, id string) (*model.Venue, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *venueRepo) GetByName(ctx context.Context, name string) (*model.Venue, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *venueRepo) findOne(ctx context.Context, filter bson.M) (*model.Venue, error) {
	var venue model.Venue
	err := r.collection.FindOne(ctx, filter).Decode(&venue)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &venue, nil
}
