package places_fx

import (
	"os"
	"time"

	"go.uber.org/fx"
	"tripy/internal/services"
	"tripy/pkg/memcache"
)

var Module = fx.Provide(
	provideCache,
	providePlacesService,
	provideTravelService,
)

func provideCache() memcache.PlacesCache {
	return memcache.NewPlacesCache(1 * time.Hour)
}

func providePlacesService(cache memcache.PlacesCache) services.PlacesServiceInterface {
	return services.NewPlacesService(os.Getenv("PLACES_API_KEY"), cache)
}

func provideTravelService(cache memcache.PlacesCache) services.TravelServiceInterface {
	return services.NewTravelService(cache)
}
