package weather

import "github.com/i474232898/farm-advisor/internal/common"

// Alert thresholds. Temperature in °C, humidity in %, wind speed in m/s.
const (
	highTempThreshold     = 35
	frostThreshold        = 5
	highHumidityThreshold = 80
	lowHumidityThreshold  = 30
	strongWindThreshold   = 15
)

var (
	alertHighTemp = Alert{
		Severity: SeverityWarning,
		Icon:     "fas fa-thermometer-full",
		Title:    "High Temperature Alert",
		Message:  "Temperatures are very high. Consider increasing irrigation frequency and providing shade for sensitive crops.",
	}
	alertFrost = Alert{
		Severity: SeverityWarning,
		Icon:     "fas fa-thermometer-empty",
		Title:    "Frost Alert",
		Message:  "Low temperatures detected. Protect sensitive crops with covers or move them indoors.",
	}
	alertHighHumidity = Alert{
		Severity: SeverityInfo,
		Icon:     "fas fa-tint",
		Title:    "High Humidity",
		Message:  "High humidity detected. Monitor for fungal diseases and ensure good air circulation.",
	}
	alertLowHumidity = Alert{
		Severity: SeverityInfo,
		Icon:     "fas fa-sun",
		Title:    "Low Humidity",
		Message:  "Low humidity detected. Consider increasing irrigation frequency.",
	}
	alertStrongWind = Alert{
		Severity: SeverityWarning,
		Icon:     "fas fa-wind",
		Title:    "Strong Winds",
		Message:  "Strong winds detected. Secure any loose structures and consider delaying pesticide applications.",
	}
	alertRain = Alert{
		Severity: SeverityInfo,
		Icon:     "fas fa-cloud-rain",
		Title:    "Rain Expected",
		Message:  "Rain is expected. Consider delaying fertilizer application and harvesting activities.",
	}
)

// DeriveAlerts evaluates every rule group against one snapshot. Within the
// temperature and humidity groups at most one alert fires; groups are independent.
// The result is never nil.
func DeriveAlerts(s WeatherSnapshot) []Alert {
	alerts := make([]Alert, 0, 4)

	switch {
	case s.Temperature > highTempThreshold:
		alerts = append(alerts, alertHighTemp)
	case s.Temperature < frostThreshold:
		alerts = append(alerts, alertFrost)
	}

	switch {
	case s.Humidity > highHumidityThreshold:
		alerts = append(alerts, alertHighHumidity)
	case s.Humidity < lowHumidityThreshold:
		alerts = append(alerts, alertLowHumidity)
	}

	if s.WindSpeed > strongWindThreshold {
		alerts = append(alerts, alertStrongWind)
	}

	if common.HasAny(s.Description, "rain") {
		alerts = append(alerts, alertRain)
	}

	return alerts
}
