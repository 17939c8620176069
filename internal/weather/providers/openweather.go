package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/farm-advisor/internal/weather"
)

// DefaultOpenWeatherBaseURL is the OpenWeatherMap 2.5 API root.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

// OpenWeatherProvider implements weather.Provider for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(opts Options) *OpenWeatherProvider {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  opts.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: newHTTPConfig(opts),
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

type owmCondition struct {
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func (p *OpenWeatherProvider) Current(ctx context.Context, loc weather.Location) (weather.Observation, error) {
	if p.apiKey == "" {
		return weather.Observation{}, fmt.Errorf("openweather %w", errMissingAPIKey)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, p.request("weather", loc, nil))
	if err != nil {
		return weather.Observation{}, err
	}

	var payload struct {
		Name string `json:"name"`
		Sys  struct {
			Country string `json:"country"`
		} `json:"sys"`
		Main *struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  float64 `json:"humidity"`
			Pressure  float64 `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Visibility float64        `json:"visibility"`
		Weather    []owmCondition `json:"weather"`
	}

	if err := decodeBody(resp, &payload); err != nil {
		return weather.Observation{}, err
	}
	if payload.Main == nil || len(payload.Weather) == 0 {
		return weather.Observation{}, fmt.Errorf("%w: missing main or weather section", errMalformed)
	}

	return weather.Observation{
		City:        payload.Name,
		Country:     payload.Sys.Country,
		Temperature: payload.Main.Temp,
		FeelsLike:   payload.Main.FeelsLike,
		Humidity:    payload.Main.Humidity,
		Pressure:    payload.Main.Pressure,
		WindSpeed:   payload.Wind.Speed,
		VisibilityM: payload.Visibility,
		Description: payload.Weather[0].Description,
		Icon:        payload.Weather[0].Icon,
	}, nil
}

func (p *OpenWeatherProvider) Forecast(ctx context.Context, loc weather.Location, samples int) (weather.ForecastSeries, error) {
	if p.apiKey == "" {
		return weather.ForecastSeries{}, fmt.Errorf("openweather %w", errMissingAPIKey)
	}

	extra := url.Values{}
	extra.Set("cnt", strconv.Itoa(samples))

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, p.request("forecast", loc, extra))
	if err != nil {
		return weather.ForecastSeries{}, err
	}

	var payload struct {
		City struct {
			Name     string `json:"name"`
			Country  string `json:"country"`
			Timezone int    `json:"timezone"` // seconds east of UTC
		} `json:"city"`
		List []struct {
			Dt   int64 `json:"dt"`
			Main *struct {
				Temp     float64 `json:"temp"`
				Humidity float64 `json:"humidity"`
			} `json:"main"`
			Wind struct {
				Speed float64 `json:"speed"`
			} `json:"wind"`
			Weather []owmCondition `json:"weather"`
		} `json:"list"`
	}

	if err := decodeBody(resp, &payload); err != nil {
		return weather.ForecastSeries{}, err
	}

	zone := time.FixedZone("", payload.City.Timezone)
	series := weather.ForecastSeries{
		City:    payload.City.Name,
		Country: payload.City.Country,
		Samples: make([]weather.Sample, 0, len(payload.List)),
	}
	for i, item := range payload.List {
		if item.Main == nil || len(item.Weather) == 0 {
			return weather.ForecastSeries{}, fmt.Errorf("%w: forecast item %d missing main or weather section", errMalformed, i)
		}
		series.Samples = append(series.Samples, weather.Sample{
			Timestamp:   time.Unix(item.Dt, 0).In(zone),
			Temperature: item.Main.Temp,
			Humidity:    item.Main.Humidity,
			WindSpeed:   item.Wind.Speed,
			Description: item.Weather[0].Description,
			Icon:        item.Weather[0].Icon,
		})
	}
	return series, nil
}

// request builds a GET for endpoint with the location query and metric units.
func (p *OpenWeatherProvider) request(endpoint string, loc weather.Location, extra url.Values) func() (*http.Request, error) {
	return func() (*http.Request, error) {
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")
		values.Set("q", loc.Query())
		for k, vs := range extra {
			for _, v := range vs {
				values.Add(k, v)
			}
		}

		u := fmt.Sprintf("%s/%s?%s", p.baseURL, endpoint, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}
}
