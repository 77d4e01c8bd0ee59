package trip_fx

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"go.uber.org/fx"
	"tripy/internal/repositories"
	"tripy/internal/services"
	"tripy/pkg/utils"
)

var Module = fx.Options(
	fx.Provide(
		provideAIClient,
		provideGenerator,
		provideTripRepo,
		provideTripService,
	),
	fx.Invoke(registerAIClose),
)

func provideAIClient() utils.AIClientInterface {
	provider := os.Getenv("AI_PROVIDER")
	if provider == "" {
		provider = "gemini"
	}
	apiKey := os.Getenv("GEMINI_API_KEY")
	if provider == "openai" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}

	client, err := utils.NewAIClient(provider, apiKey, os.Getenv("AI_MODEL"))
	if err != nil {
		log.Fatalf("Failed to initialize AI client: %v", err)
	}
	return client
}

func provideGenerator(aiClient utils.AIClientInterface) services.ProgressiveGeneratorInterface {
	return services.NewProgressiveItineraryGenerator(aiClient, services.DefaultTokenBudget(), services.DefaultProgressiveConfig())
}

func provideTripRepo(client *firestore.Client) repositories.TripRepository {
	return repositories.NewTripRepository(client)
}

func provideTripService(
	placesService services.PlacesServiceInterface,
	travelService services.TravelServiceInterface,
	generator services.ProgressiveGeneratorInterface,
	tripRepo repositories.TripRepository,
) services.TripServiceInterface {
	return services.NewTripService(placesService, travelService, generator, tripRepo)
}

func registerAIClose(lc fx.Lifecycle, client utils.AIClientInterface) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
