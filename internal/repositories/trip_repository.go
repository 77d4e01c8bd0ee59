package repositories

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"tripy/pkg/utils"
)

const tripsCollection = "trips"

// TripRepository persists trip documents as plain nested maps, the same
// shape the generation pipeline produces.
type TripRepository interface {
	Save(ctx context.Context, tripID string, trip map[string]any) error
	FindByID(ctx context.Context, tripID string) (map[string]any, error)
	Update(ctx context.Context, tripID string, fields map[string]any) error
	Delete(ctx context.Context, tripID string) error
}

type tripRepository struct {
	client *firestore.Client
}

func NewTripRepository(client *firestore.Client) TripRepository {
	return &tripRepository{client: client}
}

func (r *tripRepository) Save(ctx context.Context, tripID string, trip map[string]any) error {
	_, err := r.client.Collection(tripsCollection).Doc(tripID).Set(ctx, trip)
	if err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (r *tripRepository) FindByID(ctx context.Context, tripID string) (map[string]any, error) {
	doc, err := r.client.Collection(tripsCollection).Doc(tripID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, utils.ErrTripNotFound
		}
		return nil, utils.ErrDatabaseError
	}
	return doc.Data(), nil
}

func (r *tripRepository) Update(ctx context.Context, tripID string, fields map[string]any) error {
	_, err := r.client.Collection(tripsCollection).Doc(tripID).Set(ctx, fields, firestore.MergeAll)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return utils.ErrTripNotFound
		}
		return utils.ErrDatabaseError
	}
	return nil
}

func (r *tripRepository) Delete(ctx context.Context, tripID string) error {
	doc := r.client.Collection(tripsCollection).Doc(tripID)
	if _, err := doc.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return utils.ErrTripNotFound
		}
		return utils.ErrDatabaseError
	}
	if _, err := doc.Delete(ctx); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}
