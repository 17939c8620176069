package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/farm-advisor/internal/crop"
	"github.com/i474232898/farm-advisor/internal/store"
	"github.com/i474232898/farm-advisor/internal/weather"
)

type fakeProvider struct {
	lastLoc weather.Location
	samples int
	err     error
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Current(_ context.Context, loc weather.Location) (weather.Observation, error) {
	f.lastLoc = loc
	if f.err != nil {
		return weather.Observation{}, f.err
	}
	return weather.Observation{
		City:        loc.City,
		Country:     loc.Country,
		Temperature: 36.4,
		FeelsLike:   38.2,
		Humidity:    25,
		Pressure:    1012,
		WindSpeed:   4.2,
		VisibilityM: 10000,
		Description: "clear sky",
		Icon:        "01d",
	}, nil
}

func (f *fakeProvider) Forecast(_ context.Context, loc weather.Location, samples int) (weather.ForecastSeries, error) {
	f.lastLoc = loc
	f.samples = samples
	if f.err != nil {
		return weather.ForecastSeries{}, f.err
	}
	zone := time.FixedZone("", 2*3600)
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, zone)
	series := weather.ForecastSeries{City: loc.City, Country: loc.Country}
	for i := 0; i < 16; i++ {
		series.Samples = append(series.Samples, weather.Sample{
			Timestamp:   start.Add(time.Duration(i) * 3 * time.Hour),
			Temperature: 20,
			Humidity:    50,
			WindSpeed:   2,
			Description: "few clouds",
			Icon:        "02d",
		})
	}
	return series, nil
}

var harare = weather.Location{City: "Harare", Country: "ZW"}

func newTestApp(t *testing.T, provider weather.Provider, opts ...weather.Option) *fiber.App {
	t.Helper()
	engine := crop.NewEngine(crop.Unloaded{Reason: errors.New("no artifact in tests")})
	advisor := weather.NewAdvisor(provider, opts...)
	return NewApp(engine, advisor, harare)
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var out map[string]any
	if len(body) > 0 && strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		if err := json.Unmarshal(body, &out); err != nil {
			t.Fatalf("invalid JSON body %q: %v", body, err)
		}
	}
	return resp.StatusCode, out
}

func get(t *testing.T, app *fiber.App, target string) (int, map[string]any) {
	t.Helper()
	return doRequest(t, app, httptest.NewRequest(http.MethodGet, target, nil))
}

func TestRecommendations(t *testing.T) {
	app := newTestApp(t, &fakeProvider{})

	body := `{"land_size": 10, "soil_type": "loamy", "fertilizer_type": "organic", "water_access": "rainfed"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	status, out := doRequest(t, app, req)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, out)
	}
	recs, ok := out["recommendations"].([]any)
	if !ok || len(recs) != 3 {
		t.Fatalf("expected the three loamy-large crops, got %v", out["recommendations"])
	}
	first := recs[0].(map[string]any)
	if first["crop_name"] != "Maize" || first["confidence_level"] != "high" {
		t.Fatalf("unexpected first recommendation: %v", first)
	}
	if out["model_available"] != false {
		t.Fatalf("expected model_available false, got %v", out["model_available"])
	}
}

func TestRecommendationsValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "malformed json", body: `{"land_size": `, want: http.StatusBadRequest},
		{name: "zero land size", body: `{"land_size": 0, "soil_type": "loamy", "fertilizer_type": "urea", "water_access": "rainfed"}`, want: http.StatusBadRequest},
		{name: "missing soil", body: `{"land_size": 2, "fertilizer_type": "urea", "water_access": "rainfed"}`, want: http.StatusBadRequest},
		{name: "top_n too large", body: `{"land_size": 2, "soil_type": "clay", "fertilizer_type": "urea", "water_access": "rainfed", "top_n": 31}`, want: http.StatusBadRequest},
		{name: "unknown category accepted", body: `{"land_size": 2, "soil_type": "volcanic", "fertilizer_type": "urea", "water_access": "rainfed"}`, want: http.StatusOK},
	}

	app := newTestApp(t, &fakeProvider{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			status, out := doRequest(t, app, req)
			if status != tt.want {
				t.Fatalf("expected %d, got %d: %v", tt.want, status, out)
			}
			if status == http.StatusBadRequest && out["error"] != true {
				t.Fatalf("expected error envelope, got %v", out)
			}
		})
	}
}

func TestCurrentWeatherUsesDefaultLocation(t *testing.T) {
	provider := &fakeProvider{}
	app := newTestApp(t, provider)

	status, out := get(t, app, "/api/v1/weather/current")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, out)
	}
	if provider.lastLoc != harare {
		t.Fatalf("expected default location, got %+v", provider.lastLoc)
	}
	if out["description"] != "Clear Sky" || out["temperature"] != float64(36) || out["visibility"] != float64(10) {
		t.Fatalf("unexpected snapshot: %v", out)
	}

	get(t, app, "/api/v1/weather/current?city=Nairobi")
	if provider.lastLoc != (weather.Location{City: "Nairobi"}) {
		t.Fatalf("expected query location, got %+v", provider.lastLoc)
	}
}

func TestProviderFailureIs502(t *testing.T) {
	app := newTestApp(t, &fakeProvider{err: errors.New("connection refused")})

	for _, path := range []string{"/api/v1/weather/current", "/api/v1/weather/forecast", "/api/v1/weather/alerts"} {
		status, out := get(t, app, path)
		if status != http.StatusBadGateway {
			t.Fatalf("%s: expected 502, got %d: %v", path, status, out)
		}
		if out["error"] != true {
			t.Fatalf("%s: expected error envelope, got %v", path, out)
		}
	}
}

// TestForecastDaysValidation verifies that the forecast endpoint enforces the
// 1-7 range for the `days` query parameter and defaults it to 7.
func TestForecastDaysValidation(t *testing.T) {
	provider := &fakeProvider{}
	app := newTestApp(t, provider)

	for _, days := range []string{"0", "8", "-1", "two"} {
		status, _ := get(t, app, "/api/v1/weather/forecast?city=Paris&country=FR&days="+days)
		if status != http.StatusBadRequest {
			t.Fatalf("days=%s: expected 400, got %d", days, status)
		}
	}

	status, out := get(t, app, "/api/v1/weather/forecast?city=Paris&country=FR")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, out)
	}
	if provider.samples != 7*weather.SamplesPerDay {
		t.Fatalf("expected %d samples requested, got %d", 7*weather.SamplesPerDay, provider.samples)
	}
	forecast := out["forecast"].([]any)
	if len(forecast) != 2 {
		t.Fatalf("expected two days from 16 samples, got %d", len(forecast))
	}
	if forecast[0].(map[string]any)["date"] != "2026-03-02" {
		t.Fatalf("unexpected first day: %v", forecast[0])
	}
}

func TestAlerts(t *testing.T) {
	app := newTestApp(t, &fakeProvider{})

	status, out := get(t, app, "/api/v1/weather/alerts")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, out)
	}
	alerts := out["alerts"].([]any)
	// 36.4C with 25% humidity: high temperature and low humidity.
	if len(alerts) != 2 {
		t.Fatalf("expected 2 alerts, got %v", alerts)
	}
	if out["irrigation_advice"] == "" || out["current_weather"] == nil {
		t.Fatalf("expected advice and current weather, got %v", out)
	}
}

func TestHistory(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	mem := store.NewMemoryStore(0, 0)
	app := newTestApp(t, &fakeProvider{}, weather.WithStore(mem), weather.WithClock(func() time.Time { return now }))

	status, _ := get(t, app, "/api/v1/weather/history?from=2026-03-02T00:00:00Z&to=2026-03-03T00:00:00Z")
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 before tracking, got %d", status)
	}

	mem.SaveSnapshot(harare, weather.WeatherSnapshot{City: "Harare", Country: "ZW", Temperature: 30, Timestamp: now})

	status, out := get(t, app, "/api/v1/weather/history?from=2026-03-02T00:00:00Z&to=1772496000")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %v", status, out)
	}
	if snaps := out["snapshots"].([]any); len(snaps) != 1 {
		t.Fatalf("expected one snapshot, got %v", snaps)
	}

	for _, q := range []string{"", "?from=2026-03-02T00:00:00Z", "?from=yesterday&to=today", "?from=2026-03-03T00:00:00Z&to=2026-03-02T00:00:00Z"} {
		if status, _ := get(t, app, "/api/v1/weather/history"+q); status != http.StatusBadRequest {
			t.Fatalf("query %q: expected 400, got %d", q, status)
		}
	}
}

func TestHistoryDisabled(t *testing.T) {
	app := newTestApp(t, &fakeProvider{})
	status, _ := get(t, app, "/api/v1/weather/history?from=0&to=1")
	if status != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without a store, got %d", status)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t, &fakeProvider{})

	status, out := get(t, app, "/health")
	if status != http.StatusOK || out["status"] != "ok" {
		t.Fatalf("unexpected health response: %d %v", status, out)
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil), -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "go_goroutines") {
		t.Fatalf("expected prometheus exposition, got %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected a request id header")
	}
}
