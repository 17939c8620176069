package weather

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// SamplesPerDay is the provider convention for 3-hourly forecasts.
const SamplesPerDay = 8

// Provider abstracts a weather data source (e.g. OpenWeatherMap, WeatherAPI).
type Provider interface {
	Name() string
	Current(ctx context.Context, loc Location) (Observation, error)
	// Forecast returns up to samples 3-hourly samples starting now.
	Forecast(ctx context.Context, loc Location, samples int) (ForecastSeries, error)
}

// Store is the contract the in-memory snapshot history must satisfy.
type Store interface {
	SaveSnapshot(loc Location, snapshot WeatherSnapshot)
	GetLatest(loc Location) (WeatherSnapshot, error)
	GetRange(loc Location, from, to time.Time) ([]WeatherSnapshot, error)
}

// ErrProviderUnavailable matches every *ProviderError via errors.Is.
var ErrProviderUnavailable = errors.New("weather provider unavailable")

// ErrNoProvider is the cause when the advisor was built without a provider.
var ErrNoProvider = errors.New("no weather provider configured")

// ProviderError reports a failed provider call: transport error, non-2xx
// status, malformed payload or timeout.
type ProviderError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("weather provider %s: %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderUnavailable
}
