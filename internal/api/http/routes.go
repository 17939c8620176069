package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/farm-advisor/internal/crop"
	"github.com/i474232898/farm-advisor/internal/weather"
)

var validate = validator.New()

// MaxForecastDays bounds the days query parameter.
const MaxForecastDays = 7

type handler struct {
	engine   *crop.Engine
	advisor  *weather.Advisor
	defaults weather.Location
}

// RegisterRoutes wires the recommendation and weather handlers under /api/v1.
// defaults is used when a request names no city.
func RegisterRoutes(router fiber.Router, engine *crop.Engine, advisor *weather.Advisor, defaults weather.Location) {
	h := &handler{engine: engine, advisor: advisor, defaults: defaults}

	v1 := router.Group("/api/v1")
	v1.Post("/recommendations", h.recommend)

	w := v1.Group("/weather")
	w.Get("/current", h.current)
	w.Get("/forecast", h.forecast)
	w.Get("/alerts", h.alerts)
	w.Get("/history", h.history)
}

// recommendationRequest mirrors crop.FarmProfile. Unknown categories are
// accepted; only presence and a positive land size are enforced.
type recommendationRequest struct {
	LandSize       float64 `json:"land_size" validate:"gt=0"`
	SoilType       string  `json:"soil_type" validate:"required"`
	FertilizerType string  `json:"fertilizer_type" validate:"required"`
	WaterAccess    string  `json:"water_access" validate:"required"`
	Location       string  `json:"location"`
	TopN           int     `json:"top_n" validate:"omitempty,min=1,max=30"`
}

func (r recommendationRequest) profile() crop.FarmProfile {
	return crop.FarmProfile{
		LandSize:       r.LandSize,
		SoilType:       crop.SoilType(r.SoilType),
		FertilizerType: crop.FertilizerType(r.FertilizerType),
		WaterAccess:    crop.WaterAccess(r.WaterAccess),
		Location:       r.Location,
	}
}

func (h *handler) recommend(c *fiber.Ctx) error {
	var req recommendationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return err
	}

	recs := h.engine.Recommend(req.profile(), req.TopN)
	return c.JSON(fiber.Map{
		"success":         true,
		"recommendations": recs,
		"model_available": h.engine.ModelAvailable(),
	})
}

func (h *handler) current(c *fiber.Ctx) error {
	loc := h.location(c)
	snapshot, err := h.advisor.CurrentConditions(c.UserContext(), loc)
	if err != nil {
		return err
	}
	return c.JSON(snapshot)
}

type forecastQuery struct {
	Days int `validate:"min=1,max=7"`
}

func (h *handler) forecast(c *fiber.Ctx) error {
	q := forecastQuery{Days: weather.DefaultForecastDays}
	if raw := c.Query("days"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "days must be an integer")
		}
		q.Days = days
	}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "days must be between 1 and "+strconv.Itoa(MaxForecastDays))
	}

	report, err := h.advisor.Forecast(c.UserContext(), h.location(c), q.Days)
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (h *handler) alerts(c *fiber.Ctx) error {
	report, err := h.advisor.Alerts(c.UserContext(), h.location(c))
	if err != nil {
		return err
	}
	return c.JSON(report)
}

func (h *handler) history(c *fiber.Ctx) error {
	var req historyQuery
	if err := req.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := validate.Struct(req); err != nil {
		return err
	}

	loc := h.location(c)
	snapshots, err := h.advisor.History(loc, req.From, req.To)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"location":  loc,
		"from":      req.From,
		"to":        req.To,
		"snapshots": snapshots,
	})
}

// location reads city and country from the query, falling back to the
// configured default when no city is given.
func (h *handler) location(c *fiber.Ctx) weather.Location {
	city := c.Query("city")
	if city == "" {
		return h.defaults
	}
	return weather.Location{City: city, Country: c.Query("country")}
}

// historyQuery holds the time range for the history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime accepts RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
