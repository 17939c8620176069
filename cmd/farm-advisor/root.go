package main

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/i474232898/farm-advisor/internal/config"
	"github.com/i474232898/farm-advisor/internal/crop"
	"github.com/i474232898/farm-advisor/internal/logging"
	"github.com/i474232898/farm-advisor/internal/store"
	"github.com/i474232898/farm-advisor/internal/weather"
	"github.com/i474232898/farm-advisor/internal/weather/providers"
)

// app holds what every subcommand needs once configuration is loaded.
type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var cfgFile string

	root := &cobra.Command{
		Use:           "farm-advisor",
		Short:         "Crop recommendations and weather advice for farmers",
		Long:          "Ranks crops for a farm profile and turns weather provider data into daily forecasts, alerts and irrigation advice.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile != "" {
				if err := os.Setenv(config.ConfigPathEnvVar, cfgFile); err != nil {
					return err
				}
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
			a.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")

	root.AddCommand(
		newServeCmd(a),
		newRecommendCmd(a),
		newWeatherCmd(a),
	)
	return root
}

// engine loads the crop model, falling back to rules if it cannot be read.
func (a *app) engine() *crop.Engine {
	model, err := crop.LoadLinearModel(a.cfg.Model.Path)
	if err != nil {
		return crop.NewEngine(crop.Unloaded{Reason: err})
	}
	logging.Info().Str("path", a.cfg.Model.Path).Msg("crop model loaded")
	return crop.NewEngine(model)
}

// provider builds the configured weather adapter.
func (a *app) provider() (weather.Provider, error) {
	w := a.cfg.Weather
	return providers.New(w.Provider, providers.Options{
		Client:     &http.Client{Timeout: w.HTTPTimeout},
		APIKey:     w.APIKey(),
		BaseURL:    w.BaseURL(),
		MaxRetries: w.MaxRetries,
		RateLimit:  w.RateLimit,
	})
}

// advisor builds a weather.Advisor; mem may be nil for one-shot commands.
func (a *app) advisor(mem *store.MemoryStore) (*weather.Advisor, error) {
	p, err := a.provider()
	if err != nil {
		return nil, err
	}

	opts := []weather.Option{
		weather.WithForecastCache(a.cfg.Weather.ForecastCacheSize, a.cfg.Weather.ForecastCacheTTL),
	}
	if mem != nil {
		opts = append(opts, weather.WithStore(mem))
	}
	return weather.NewAdvisor(p, opts...), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
