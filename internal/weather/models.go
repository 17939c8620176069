package weather

import (
	"time"
)

// Location represents a place the advisor is asked about.
// City is required; Country is an optional ISO code.
type Location struct {
	City    string `json:"city"`
	Country string `json:"country,omitempty"`
}

// Key returns a canonical string key for indexing this location in stores and caches.
func (l Location) Key() string {
	return l.City + ":" + l.Country
}

// Query renders the location the way providers expect it: "city" or "city,country".
func (l Location) Query() string {
	if l.Country == "" {
		return l.City
	}
	return l.City + "," + l.Country
}

// Observation is a provider's current-conditions reading before normalization.
// Units are metric; visibility is in meters.
type Observation struct {
	City        string
	Country     string
	Temperature float64
	FeelsLike   float64
	Humidity    float64
	Pressure    float64
	WindSpeed   float64
	VisibilityM float64
	Description string
	Icon        string
}

// Sample is one raw time-stamped forecast observation. Timestamp carries the
// location's UTC offset so that Timestamp's calendar date is the local date.
type Sample struct {
	Timestamp   time.Time
	Temperature float64
	Humidity    float64
	WindSpeed   float64
	Description string
	Icon        string
}

// ForecastSeries is a provider's raw forecast response.
type ForecastSeries struct {
	City    string
	Country string
	Samples []Sample
}

// WeatherSnapshot is the normalized current-conditions view returned to callers.
type WeatherSnapshot struct {
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Temperature int       `json:"temperature"`
	FeelsLike   int       `json:"feels_like"`
	Humidity    int       `json:"humidity"`
	Pressure    int       `json:"pressure"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	WindSpeed   float64   `json:"wind_speed"`
	Visibility  float64   `json:"visibility"` // km
	Timestamp   time.Time `json:"timestamp"`  // retrieval time, UTC
}

// DailyForecast summarizes all samples that fall on one calendar date.
type DailyForecast struct {
	Day         string  `json:"day"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Temperature int     `json:"temperature"`
	MinTemp     int     `json:"min_temp"`
	MaxTemp     int     `json:"max_temp"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"wind_speed"`
}

// ForecastReport is the result of Advisor.Forecast.
type ForecastReport struct {
	City     string          `json:"city"`
	Country  string          `json:"country"`
	Forecast []DailyForecast `json:"forecast"`
}

// Severity classifies an alert.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Alert is an actionable notice derived from current conditions.
type Alert struct {
	Severity Severity `json:"severity"`
	Icon     string   `json:"icon"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
}

// AlertReport is the result of Advisor.Alerts.
type AlertReport struct {
	Alerts           []Alert         `json:"alerts"`
	CurrentWeather   WeatherSnapshot `json:"current_weather"`
	IrrigationAdvice string          `json:"irrigation_advice"`
}
