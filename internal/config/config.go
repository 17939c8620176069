package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/farm-advisor/internal/weather"
)

// Config is the full application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Log      LogConfig      `koanf:"log"`
	Model    ModelConfig    `koanf:"model"`
	Weather  WeatherConfig  `koanf:"weather"`
	Tracking TrackingConfig `koanf:"tracking"`
}

type ServerConfig struct {
	Port int `koanf:"port" validate:"min=1,max=65535"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// ModelConfig locates the crop classifier artifact. A missing file is not a
// configuration error; the engine falls back to rules.
type ModelConfig struct {
	Path string `koanf:"path"`
}

type ProviderConfig struct {
	APIKey  string `koanf:"api_key"`
	BaseURL string `koanf:"base_url" validate:"omitempty,url"`
}

type WeatherConfig struct {
	Provider          string         `koanf:"provider" validate:"oneof=openweather weatherapi"`
	OpenWeather       ProviderConfig `koanf:"openweather"`
	WeatherAPI        ProviderConfig `koanf:"weatherapi"`
	HTTPTimeout       time.Duration  `koanf:"http_timeout" validate:"gt=0"`
	MaxRetries        int            `koanf:"max_retries" validate:"min=0,max=10"`
	RateLimit         float64        `koanf:"rate_limit" validate:"min=0"`
	ForecastCacheTTL  time.Duration  `koanf:"forecast_cache_ttl" validate:"min=0"`
	ForecastCacheSize int            `koanf:"forecast_cache_size" validate:"min=0"`
	DefaultCity       string         `koanf:"default_city" validate:"required"`
	DefaultCountry    string         `koanf:"default_country"`
}

// TrackingConfig drives the periodic snapshot job. Cities and Countries pair
// up by position; Countries may be left empty.
type TrackingConfig struct {
	Cities     []string      `koanf:"cities"`
	Countries  []string      `koanf:"countries"`
	Interval   time.Duration `koanf:"interval" validate:"gt=0"`
	MaxHistory int           `koanf:"max_history" validate:"min=0"`
	MaxAge     time.Duration `koanf:"max_age" validate:"min=0"`
}

var validate = validator.New()

// Load reads configuration from defaults, an optional YAML file, a .env file
// and the process environment, in increasing order of precedence.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := loadKoanf()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks field constraints and the tracked location lists.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return err
	}
	if _, err := c.Tracking.Locations(); err != nil {
		return err
	}
	return nil
}

// APIKey returns the key for the selected provider.
func (w WeatherConfig) APIKey() string {
	if w.Provider == "weatherapi" {
		return w.WeatherAPI.APIKey
	}
	return w.OpenWeather.APIKey
}

// BaseURL returns the base URL override for the selected provider.
func (w WeatherConfig) BaseURL() string {
	if w.Provider == "weatherapi" {
		return w.WeatherAPI.BaseURL
	}
	return w.OpenWeather.BaseURL
}

// DefaultLocation is used when a request names no city.
func (w WeatherConfig) DefaultLocation() weather.Location {
	return weather.Location{City: w.DefaultCity, Country: w.DefaultCountry}
}

// Locations pairs Cities with Countries.
func (t TrackingConfig) Locations() ([]weather.Location, error) {
	if len(t.Countries) > 0 && len(t.Countries) != len(t.Cities) {
		return nil, errors.New("number of tracked cities and countries must be the same")
	}

	locs := make([]weather.Location, 0, len(t.Cities))
	for i, city := range t.Cities {
		city = strings.TrimSpace(city)
		if city == "" {
			return nil, fmt.Errorf("tracked city %d is empty", i)
		}
		loc := weather.Location{City: city}
		if len(t.Countries) > 0 {
			loc.Country = strings.TrimSpace(t.Countries[i])
		}
		locs = append(locs, loc)
	}
	return locs, nil
}
