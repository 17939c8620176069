package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog"

	"github.com/i474232898/farm-advisor/internal/logging"
	"github.com/i474232898/farm-advisor/internal/metrics"
	"github.com/i474232898/farm-advisor/internal/weather"
)

// DefaultInterval is used when the configured interval is not positive.
const DefaultInterval = 15 * time.Minute

// trackTimeout bounds a single location fetch inside a run.
const trackTimeout = 30 * time.Second

// Tracker records current conditions for a location. *weather.Advisor implements it.
type Tracker interface {
	Track(ctx context.Context, loc weather.Location) error
}

// Scheduler periodically records current conditions for the tracked locations.
type Scheduler struct {
	scheduler *gocron.Scheduler
	tracker   Tracker
	locations []weather.Location
	interval  time.Duration
	log       zerolog.Logger
}

// New creates a Scheduler. It does nothing until Start is called.
func New(locations []weather.Location, interval time.Duration, tracker Tracker) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	return &Scheduler{
		scheduler: s,
		tracker:   tracker,
		locations: locations,
		interval:  interval,
		log:       logging.With().Str("component", "scheduler").Logger(),
	}
}

// Start schedules the tracking job, runs it once immediately and returns.
func (s *Scheduler) Start() error {
	if len(s.locations) == 0 {
		s.log.Info().Msg("no locations configured; nothing to schedule")
		return nil
	}

	if _, err := s.scheduler.Every(s.interval).Do(func() {
		s.RunOnce(context.Background())
	}); err != nil {
		return err
	}

	s.log.Info().
		Int("locations", len(s.locations)).
		Dur("interval", s.interval).
		Msg("weather tracking scheduled")
	s.scheduler.StartAsync()
	return nil
}

// RunOnce tracks every location concurrently and returns the number of
// failures once all fetches have finished.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	s.log.Debug().Msg("running weather tracking job")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)
	for _, loc := range s.locations {
		wg.Add(1)
		go func(loc weather.Location) {
			defer wg.Done()

			ctx, cancel := context.WithTimeout(ctx, trackTimeout)
			defer cancel()

			if err := s.tracker.Track(ctx, loc); err != nil {
				metrics.TrackedSnapshots.WithLabelValues("error").Inc()
				s.log.Warn().Err(err).Str("location", loc.Key()).Msg("tracking failed")
				mu.Lock()
				failures++
				mu.Unlock()
				return
			}
			metrics.TrackedSnapshots.WithLabelValues("ok").Inc()
		}(loc)
	}
	wg.Wait()

	s.log.Debug().Int("failures", failures).Msg("weather tracking job completed")
	return failures
}

// Stop stops the scheduler and cancels any future runs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
