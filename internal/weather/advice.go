package weather

import (
	"strings"

	"github.com/i474232898/farm-advisor/internal/common"
)

// Irrigation advice texts.
const (
	AdviceRain = "Rain expected today—skip irrigation and leverage natural rainfall. " +
		"Check drainage in low-lying areas and resume normal schedule tomorrow if soils dry."

	adviceVeryHot = "Very hot conditions—irrigate early morning and/or late evening to reduce losses. " +
		"Increase frequency, use mulch to conserve moisture, and avoid midday irrigation."
	adviceHot = "Hot day—maintain schedule and consider a short top‑up cycle this evening. " +
		"Prioritize deep, infrequent watering over light sprinkles."
	adviceMild = "Mild conditions—follow your normal schedule. Irrigate in the morning for best uptake."
	adviceCool = "Cool day—reduce irrigation frequency by ~20–30%. " +
		"Water mid‑morning if needed to avoid overnight wet soils."
	adviceFrost = "Frost risk—avoid irrigation overnight and early morning. " +
		"Only water at midday if soil is dry and plants show stress."
	adviceUnknownTemp = "Follow your normal schedule and check soil moisture before watering."

	modifierHumid = "High humidity—watch for fungal disease; avoid late‑evening watering."
	modifierDry   = "Very dry air—check moisture more often and ensure adequate mulching."
	modifierWind  = "Strong winds—use drip/low‑angle sprinklers and shield young plants."
)

// AdviceInput holds the readings irrigation advice depends on. Nil readings are
// treated as unknown.
type AdviceInput struct {
	Temperature *float64
	Humidity    *float64
	WindSpeed   *float64
	Description string
}

// AdviceInputFrom extracts the readings from a snapshot.
func AdviceInputFrom(s WeatherSnapshot) AdviceInput {
	temp := float64(s.Temperature)
	humidity := float64(s.Humidity)
	wind := s.WindSpeed
	return AdviceInput{
		Temperature: &temp,
		Humidity:    &humidity,
		WindSpeed:   &wind,
		Description: s.Description,
	}
}

// IrrigationAdvice composes the day's irrigation guidance. Rain in the
// description short-circuits everything else; otherwise a temperature band
// picks the base message and humidity and wind append modifiers.
func IrrigationAdvice(in AdviceInput) string {
	if common.HasAny(in.Description, "rain", "drizzle", "shower") {
		return AdviceRain
	}

	base := adviceUnknownTemp
	if in.Temperature != nil {
		base = temperatureAdvice(*in.Temperature)
	}

	var modifiers []string
	if in.Humidity != nil {
		switch {
		case *in.Humidity > highHumidityThreshold:
			modifiers = append(modifiers, modifierHumid)
		case *in.Humidity < lowHumidityThreshold:
			modifiers = append(modifiers, modifierDry)
		}
	}
	if in.WindSpeed != nil && *in.WindSpeed > strongWindThreshold {
		modifiers = append(modifiers, modifierWind)
	}

	if len(modifiers) == 0 {
		return base
	}
	return base + " " + strings.Join(modifiers, " ")
}

func temperatureAdvice(t float64) string {
	switch {
	case t > 35:
		return adviceVeryHot
	case t > 28:
		return adviceHot
	case t >= 18:
		return adviceMild
	case t >= 5:
		return adviceCool
	default:
		return adviceFrost
	}
}
