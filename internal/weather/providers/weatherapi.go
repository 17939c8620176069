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

// DefaultWeatherAPIBaseURL is the WeatherAPI.com v1 root.
const DefaultWeatherAPIBaseURL = "https://api.weatherapi.com/v1"

// WeatherAPIProvider implements weather.Provider for WeatherAPI.com.
// Its hourly forecast is thinned to one sample every three hours.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	now     func() time.Time
}

func NewWeatherAPIProvider(opts Options) *WeatherAPIProvider {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultWeatherAPIBaseURL
	}

	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  opts.APIKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpCfg: newHTTPConfig(opts),
		circuit: newCircuitBreaker("weatherapi"),
		now:     time.Now,
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

type wapiCondition struct {
	Text string `json:"text"`
	Icon string `json:"icon"`
}

type wapiLocation struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	TzID    string `json:"tz_id"`
}

func (p *WeatherAPIProvider) Current(ctx context.Context, loc weather.Location) (weather.Observation, error) {
	if p.apiKey == "" {
		return weather.Observation{}, fmt.Errorf("weatherapi %w", errMissingAPIKey)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, p.request("current.json", loc, nil))
	if err != nil {
		return weather.Observation{}, err
	}

	var payload struct {
		Location wapiLocation `json:"location"`
		Current  *struct {
			TempC      float64       `json:"temp_c"`
			FeelsLikeC float64       `json:"feelslike_c"`
			Humidity   float64       `json:"humidity"`
			PressureMb float64       `json:"pressure_mb"`
			WindKph    float64       `json:"wind_kph"`
			VisKm      float64       `json:"vis_km"`
			Condition  wapiCondition `json:"condition"`
		} `json:"current"`
	}

	if err := decodeBody(resp, &payload); err != nil {
		return weather.Observation{}, err
	}
	if payload.Current == nil {
		return weather.Observation{}, fmt.Errorf("%w: missing current section", errMalformed)
	}

	c := payload.Current
	return weather.Observation{
		City:        payload.Location.Name,
		Country:     payload.Location.Country,
		Temperature: c.TempC,
		FeelsLike:   c.FeelsLikeC,
		Humidity:    c.Humidity,
		Pressure:    c.PressureMb,
		WindSpeed:   kphToMS(c.WindKph),
		VisibilityM: c.VisKm * 1000,
		Description: c.Condition.Text,
		Icon:        iconURL(c.Condition.Icon),
	}, nil
}

func (p *WeatherAPIProvider) Forecast(ctx context.Context, loc weather.Location, samples int) (weather.ForecastSeries, error) {
	if p.apiKey == "" {
		return weather.ForecastSeries{}, fmt.Errorf("weatherapi %w", errMissingAPIKey)
	}

	days := (samples + weather.SamplesPerDay - 1) / weather.SamplesPerDay
	extra := url.Values{}
	extra.Set("days", strconv.Itoa(max(days, 1)))

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, p.request("forecast.json", loc, extra))
	if err != nil {
		return weather.ForecastSeries{}, err
	}

	var payload struct {
		Location wapiLocation `json:"location"`
		Forecast *struct {
			ForecastDay []struct {
				Hour []struct {
					TimeEpoch int64         `json:"time_epoch"`
					TempC     float64       `json:"temp_c"`
					Humidity  float64       `json:"humidity"`
					WindKph   float64       `json:"wind_kph"`
					Condition wapiCondition `json:"condition"`
				} `json:"hour"`
			} `json:"forecastday"`
		} `json:"forecast"`
	}

	if err := decodeBody(resp, &payload); err != nil {
		return weather.ForecastSeries{}, err
	}
	if payload.Forecast == nil {
		return weather.ForecastSeries{}, fmt.Errorf("%w: missing forecast section", errMalformed)
	}

	zone, err := time.LoadLocation(payload.Location.TzID)
	if err != nil || payload.Location.TzID == "" {
		zone = time.UTC
	}

	// Skip hours whose 3-hour window has already passed, like a 3-hourly feed starting now.
	cutoff := p.now().Add(-3 * time.Hour)
	series := weather.ForecastSeries{
		City:    payload.Location.Name,
		Country: payload.Location.Country,
	}
	for _, day := range payload.Forecast.ForecastDay {
		for _, h := range day.Hour {
			ts := time.Unix(h.TimeEpoch, 0).In(zone)
			if ts.Hour()%3 != 0 || !ts.After(cutoff) {
				continue
			}
			if len(series.Samples) >= samples {
				return series, nil
			}
			series.Samples = append(series.Samples, weather.Sample{
				Timestamp:   ts,
				Temperature: h.TempC,
				Humidity:    h.Humidity,
				WindSpeed:   kphToMS(h.WindKph),
				Description: h.Condition.Text,
				Icon:        iconURL(h.Condition.Icon),
			})
		}
	}
	return series, nil
}

func (p *WeatherAPIProvider) request(endpoint string, loc weather.Location, extra url.Values) func() (*http.Request, error) {
	return func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		// WeatherAPI uses "q" for location; it accepts "city,country".
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

// kphToMS converts km/h to m/s so wind thresholds match OpenWeather's metric units.
func kphToMS(kph float64) float64 {
	return kph / 3.6
}

// iconURL turns WeatherAPI's protocol-relative icon paths into absolute URLs.
func iconURL(icon string) string {
	if strings.HasPrefix(icon, "//") {
		return "https:" + icon
	}
	return icon
}
