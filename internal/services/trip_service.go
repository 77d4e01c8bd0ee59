package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"tripy/internal/models/request_models"
	"tripy/internal/models/response_models"
	"tripy/internal/repositories"
	"tripy/pkg/utils"
)

type TripServiceInterface interface {
	GenerateTrip(ctx context.Context, request *request_models.TripPlanRequest) (map[string]any, error)
	GetTrip(ctx context.Context, tripID string) (map[string]any, error)
	DeleteTrip(ctx context.Context, tripID string) error
}

type TripService struct {
	placesService PlacesServiceInterface
	travelService TravelServiceInterface
	generator     ProgressiveGeneratorInterface
	tripRepo      repositories.TripRepository
}

func NewTripService(
	placesService PlacesServiceInterface,
	travelService TravelServiceInterface,
	generator ProgressiveGeneratorInterface,
	tripRepo repositories.TripRepository,
) TripServiceInterface {
	return &TripService{
		placesService: placesService,
		travelService: travelService,
		generator:     generator,
		tripRepo:      tripRepo,
	}
}

// GenerateTrip runs the full pipeline: gather places and travel options,
// generate the plan, persist it, return the document. Generation itself never
// fails; only an invalid request or a completely empty search does.
func (s *TripService) GenerateTrip(ctx context.Context, request *request_models.TripPlanRequest) (map[string]any, error) {
	if err := request.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
	}

	var travelOptions []map[string]any
	if request.Origin != "" {
		start, _ := request.Start()
		travelOptions = s.travelService.GetTravelOptions(ctx, request.Origin, request.Destination, start)
	}

	placesData := s.placesService.FetchAllPlacesForTrip(ctx, request)
	candidateIDs := placesData.PlaceIDs()
	if len(candidateIDs) == 0 {
		return nil, utils.ErrNoPlacesFound
	}
	log.Printf("[trip] %d candidate places for %s", len(candidateIDs), request.Destination)

	trip := s.generator.GenerateComprehensivePlan(ctx, request, placesData, travelOptions)

	// The schema gate is advisory: a degraded plan that fails it is still
	// returned to the caller, just logged.
	if _, err := response_models.TripPlanFromMap(trip); err != nil {
		log.Printf("[trip] Plan for %s failed schema validation: %v", request.Destination, err)
	}

	tripID, _ := trip["trip_id"].(string)
	if tripID != "" {
		if err := s.tripRepo.Save(ctx, tripID, trip); err != nil {
			log.Printf("[trip] Failed to persist trip %s: %v", tripID, err)
		}
	}
	return trip, nil
}

func (s *TripService) GetTrip(ctx context.Context, tripID string) (map[string]any, error) {
	if tripID == "" {
		return nil, utils.ErrInvalidInput
	}
	trip, err := s.tripRepo.FindByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return trip, nil
}

func (s *TripService) DeleteTrip(ctx context.Context, tripID string) error {
	if tripID == "" {
		return utils.ErrInvalidInput
	}
	err := s.tripRepo.Delete(ctx, tripID)
	if err != nil && !errors.Is(err, utils.ErrTripNotFound) {
		log.Printf("[trip] Failed to delete trip %s: %v", tripID, err)
	}
	return err
}
