package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Model: ModelConfig{Path: "model/crop_model.json"},
		Weather: WeatherConfig{
			Provider:          "openweather",
			HTTPTimeout:       10 * time.Second,
			MaxRetries:        0,
			RateLimit:         5,
			ForecastCacheTTL:  10 * time.Minute,
			ForecastCacheSize: 128,
			DefaultCity:       "Harare",
			DefaultCountry:    "ZW",
		},
		Tracking: TrackingConfig{
			Interval:   15 * time.Minute,
			MaxHistory: 96, // 24h at 15-minute intervals
			MaxAge:     24 * time.Hour,
		},
	}
}

func loadKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings when set via env.
var sliceConfigPaths = []string{
	"tracking.cities",
	"tracking.countries",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	"port":                     "server.port",
	"log_level":                "log.level",
	"log_format":               "log.format",
	"model_path":               "model.path",
	"weather_provider":         "weather.provider",
	"openweather_api_key":      "weather.openweather.api_key",
	"openweather_base_url":     "weather.openweather.base_url",
	"weatherapi_api_key":       "weather.weatherapi.api_key",
	"weatherapi_base_url":      "weather.weatherapi.base_url",
	"http_timeout":             "weather.http_timeout",
	"provider_max_retries":     "weather.max_retries",
	"provider_rate_limit":      "weather.rate_limit",
	"forecast_cache_ttl":       "weather.forecast_cache_ttl",
	"forecast_cache_size":      "weather.forecast_cache_size",
	"default_city":             "weather.default_city",
	"default_country":          "weather.default_country",
	"weather_location_city":    "tracking.cities",
	"weather_location_country": "tracking.countries",
	"fetch_interval":           "tracking.interval",
	"store_max_history":        "tracking.max_history",
	"store_max_age":            "tracking.max_age",
}

// envTransformFunc maps known environment variables to config paths and
// drops everything else.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
