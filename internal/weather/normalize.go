package weather

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeObservation converts a provider reading into the caller-facing
// snapshot: integer temperatures, visibility in kilometers, title-cased description.
func NormalizeObservation(obs Observation, now time.Time) WeatherSnapshot {
	return WeatherSnapshot{
		City:        obs.City,
		Country:     obs.Country,
		Temperature: roundInt(obs.Temperature),
		FeelsLike:   roundInt(obs.FeelsLike),
		Humidity:    roundInt(obs.Humidity),
		Pressure:    roundInt(obs.Pressure),
		Description: titleCase(obs.Description),
		Icon:        obs.Icon,
		WindSpeed:   obs.WindSpeed,
		Visibility:  obs.VisibilityM / 1000,
		Timestamp:   now.UTC(),
	}
}

// titleCase upper-cases the first letter of each word. A Caser keeps state,
// so one is built per call.
func titleCase(s string) string {
	return cases.Title(language.Und).String(s)
}
