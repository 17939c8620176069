package weather

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog"

	"github.com/i474232898/farm-advisor/internal/logging"
	"github.com/i474232898/farm-advisor/internal/metrics"
)

// DefaultForecastDays is used when a caller does not specify a day count.
const DefaultForecastDays = 7

var (
	// ErrInvalidDays is returned by Forecast for a non-positive day count.
	ErrInvalidDays = errors.New("days must be greater than zero")
	// ErrHistoryDisabled is returned by history reads when no store is configured.
	ErrHistoryDisabled = errors.New("snapshot history is not configured")
)

// Advisor fetches weather from a provider and turns it into summaries,
// alerts and irrigation advice. It is safe for concurrent use.
type Advisor struct {
	provider Provider
	store    Store
	cache    *expirable.LRU[string, ForecastReport]
	now      func() time.Time
	log      zerolog.Logger
}

// Option configures an Advisor.
type Option func(*Advisor)

// WithStore enables Track and History.
func WithStore(s Store) Option {
	return func(a *Advisor) { a.store = s }
}

// WithForecastCache keeps up to size forecast reports for ttl. A non-positive
// size or ttl leaves caching off.
func WithForecastCache(size int, ttl time.Duration) Option {
	return func(a *Advisor) {
		if size > 0 && ttl > 0 {
			a.cache = expirable.NewLRU[string, ForecastReport](size, nil, ttl)
		}
	}
}

// WithClock overrides the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(a *Advisor) { a.now = now }
}

// NewAdvisor creates an Advisor backed by provider.
func NewAdvisor(provider Provider, opts ...Option) *Advisor {
	a := &Advisor{
		provider: provider,
		now:      time.Now,
		log:      logging.With().Str("component", "weather").Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CurrentConditions returns normalized current conditions for loc.
// Any failure is a *ProviderError.
func (a *Advisor) CurrentConditions(ctx context.Context, loc Location) (WeatherSnapshot, error) {
	if a.provider == nil {
		return WeatherSnapshot{}, &ProviderError{Provider: "none", Op: "current", Err: ErrNoProvider}
	}

	start := time.Now()
	obs, err := a.provider.Current(ctx, loc)
	a.observe("current", start, err)
	if err != nil {
		a.log.Warn().Err(err).Str("location", loc.Key()).Msg("current conditions fetch failed")
		return WeatherSnapshot{}, a.wrap("current", err)
	}

	return NormalizeObservation(obs, a.now()), nil
}

// Forecast returns up to days daily summaries, ordered by date. It requests
// days*SamplesPerDay samples; if the provider covers fewer dates, fewer
// summaries are returned.
func (a *Advisor) Forecast(ctx context.Context, loc Location, days int) (ForecastReport, error) {
	if days <= 0 {
		return ForecastReport{}, ErrInvalidDays
	}
	if a.provider == nil {
		return ForecastReport{}, &ProviderError{Provider: "none", Op: "forecast", Err: ErrNoProvider}
	}

	key := loc.Key() + "|" + strconv.Itoa(days)
	if a.cache != nil {
		if report, ok := a.cache.Get(key); ok {
			metrics.ForecastCacheHits.Inc()
			return copyReport(report), nil
		}
		metrics.ForecastCacheMisses.Inc()
	}

	a.log.Debug().Str("location", loc.Key()).Int("days", days).Msg("fetching forecast")

	start := time.Now()
	series, err := a.provider.Forecast(ctx, loc, days*SamplesPerDay)
	a.observe("forecast", start, err)
	if err != nil {
		a.log.Warn().Err(err).Str("location", loc.Key()).Msg("forecast fetch failed")
		return ForecastReport{}, a.wrap("forecast", err)
	}

	report := ForecastReport{
		City:     series.City,
		Country:  series.Country,
		Forecast: AggregateDaily(series.Samples, days),
	}
	if a.cache != nil {
		a.cache.Add(key, copyReport(report))
	}
	return report, nil
}

// Alerts fetches current conditions and derives alerts and irrigation advice from them.
func (a *Advisor) Alerts(ctx context.Context, loc Location) (AlertReport, error) {
	snapshot, err := a.CurrentConditions(ctx, loc)
	if err != nil {
		return AlertReport{}, err
	}

	return AlertReport{
		Alerts:           DeriveAlerts(snapshot),
		CurrentWeather:   snapshot,
		IrrigationAdvice: IrrigationAdvice(AdviceInputFrom(snapshot)),
	}, nil
}

// Track fetches current conditions for loc and appends them to the history store.
func (a *Advisor) Track(ctx context.Context, loc Location) error {
	if a.store == nil {
		return ErrHistoryDisabled
	}
	snapshot, err := a.CurrentConditions(ctx, loc)
	if err != nil {
		return err
	}
	a.store.SaveSnapshot(loc, snapshot)
	return nil
}

// Latest returns the most recent tracked snapshot for loc.
func (a *Advisor) Latest(loc Location) (WeatherSnapshot, error) {
	if a.store == nil {
		return WeatherSnapshot{}, ErrHistoryDisabled
	}
	return a.store.GetLatest(loc)
}

// History returns tracked snapshots for loc between from and to (inclusive).
func (a *Advisor) History(loc Location, from, to time.Time) ([]WeatherSnapshot, error) {
	if a.store == nil {
		return nil, ErrHistoryDisabled
	}
	return a.store.GetRange(loc, from, to)
}

func (a *Advisor) wrap(op string, err error) error {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe
	}
	return &ProviderError{Provider: a.provider.Name(), Op: op, Err: err}
}

func (a *Advisor) observe(op string, start time.Time, err error) {
	name := a.provider.Name()
	metrics.ProviderRequestDuration.WithLabelValues(name, op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProviderErrors.WithLabelValues(name, op).Inc()
	}
}

func copyReport(r ForecastReport) ForecastReport {
	out := r
	out.Forecast = append([]DailyForecast(nil), r.Forecast...)
	if out.Forecast == nil {
		out.Forecast = []DailyForecast{}
	}
	return out
}
