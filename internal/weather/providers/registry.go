package providers

import (
	"fmt"
	"strings"

	"github.com/i474232898/farm-advisor/internal/weather"
)

// Provider kinds accepted by New.
const (
	KindOpenWeather = "openweather"
	KindWeatherAPI  = "weatherapi"
)

// New returns the adapter for kind.
func New(kind string, opts Options) (weather.Provider, error) {
	switch strings.ToLower(kind) {
	case KindOpenWeather, "":
		return NewOpenWeatherProvider(opts), nil
	case KindWeatherAPI:
		return NewWeatherAPIProvider(opts), nil
	default:
		return nil, fmt.Errorf("unknown weather provider %q", kind)
	}
}
