package weather

import (
	"math"
	"sort"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// AggregateDaily groups samples by the calendar date of their timestamp and
// summarizes each date. Results are ordered by date and capped at days; no
// entries are invented for dates the samples do not cover.
//
// Temperatures and humidity are averaged and rounded half-to-even, wind speed
// to one decimal. Description and icon are the most frequent values of the
// day; ties go to the value seen first in chronological order.
func AggregateDaily(samples []Sample, days int) []DailyForecast {
	if days <= 0 || len(samples) == 0 {
		return []DailyForecast{}
	}

	ordered := make([]Sample, len(samples))
	copy(ordered, samples)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Timestamp.Before(ordered[j].Timestamp)
	})

	byDate := make(map[string][]Sample)
	dates := make(map[string]time.Time)
	for _, s := range ordered {
		k := s.Timestamp.Format(dateLayout)
		if _, ok := byDate[k]; !ok {
			dates[k] = s.Timestamp
		}
		byDate[k] = append(byDate[k], s)
	}

	keys := make([]string, 0, len(byDate))
	for k := range byDate {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > days {
		keys = keys[:days]
	}

	out := make([]DailyForecast, 0, len(keys))
	for i, k := range keys {
		day := summarizeDay(byDate[k])
		day.Date = k
		day.Day = dayLabel(i, dates[k])
		out = append(out, day)
	}
	return out
}

func summarizeDay(samples []Sample) DailyForecast {
	var (
		sumTemp, sumHumidity, sumWind float64
		minTemp                       = math.Inf(1)
		maxTemp                       = math.Inf(-1)
		descriptions                  = make([]string, 0, len(samples))
		icons                         = make([]string, 0, len(samples))
	)

	for _, s := range samples {
		sumTemp += s.Temperature
		sumHumidity += s.Humidity
		sumWind += s.WindSpeed
		minTemp = math.Min(minTemp, s.Temperature)
		maxTemp = math.Max(maxTemp, s.Temperature)
		descriptions = append(descriptions, s.Description)
		icons = append(icons, s.Icon)
	}

	n := float64(len(samples))
	return DailyForecast{
		Temperature: roundInt(sumTemp / n),
		MinTemp:     roundInt(minTemp),
		MaxTemp:     roundInt(maxTemp),
		Description: titleCase(mode(descriptions)),
		Icon:        mode(icons),
		Humidity:    roundInt(sumHumidity / n),
		WindSpeed:   round1(sumWind / n),
	}
}

// mode returns the most frequent value; ties go to the earliest value in the slice.
func mode(values []string) string {
	counts := make(map[string]int, len(values))
	best := 0
	for _, v := range values {
		counts[v]++
		best = max(best, counts[v])
	}
	for _, v := range values {
		if counts[v] == best {
			return v
		}
	}
	return ""
}

func dayLabel(i int, date time.Time) string {
	switch i {
	case 0:
		return "Today"
	case 1:
		return "Tomorrow"
	default:
		return date.Format("Mon")
	}
}

func roundInt(x float64) int {
	return int(math.RoundToEven(x))
}

// round1 rounds the shortest decimal value of x, not x*10, so 0.35 (stored
// just below) gives 0.3 and 0.45 (stored just above) gives 0.5.
func round1(x float64) float64 {
	v, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 1, 64), 64)
	if err != nil {
		return x
	}
	return v
}
