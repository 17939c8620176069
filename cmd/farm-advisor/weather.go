package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i474232898/farm-advisor/internal/weather"
)

func newWeatherCmd(a *app) *cobra.Command {
	var city, country string

	cmd := &cobra.Command{
		Use:   "weather",
		Short: "Query the configured weather provider",
	}
	cmd.PersistentFlags().StringVar(&city, "city", "", "city name (defaults to DEFAULT_CITY)")
	cmd.PersistentFlags().StringVar(&country, "country", "", "ISO country code")

	location := func() weather.Location {
		if city == "" {
			return a.cfg.Weather.DefaultLocation()
		}
		return weather.Location{City: city, Country: country}
	}

	// run builds a one-shot advisor and prints whatever fn returns.
	run := func(cmd *cobra.Command, fn func(context.Context, *weather.Advisor, weather.Location) (any, error)) error {
		advisor, err := a.advisor(nil)
		if err != nil {
			return err
		}
		out, err := fn(cmd.Context(), advisor, location())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), out)
	}

	current := &cobra.Command{
		Use:   "current",
		Short: "Print normalized current conditions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, adv *weather.Advisor, loc weather.Location) (any, error) {
				return adv.CurrentConditions(ctx, loc)
			})
		},
	}

	var days int
	forecast := &cobra.Command{
		Use:   "forecast",
		Short: "Print daily forecast summaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if days < 1 || days > 7 {
				return fmt.Errorf("--days must be between 1 and 7")
			}
			return run(cmd, func(ctx context.Context, adv *weather.Advisor, loc weather.Location) (any, error) {
				return adv.Forecast(ctx, loc, days)
			})
		},
	}
	forecast.Flags().IntVar(&days, "days", weather.DefaultForecastDays, "number of days (1-7)")

	alerts := &cobra.Command{
		Use:   "alerts",
		Short: "Print weather alerts and irrigation advice",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx context.Context, adv *weather.Advisor, loc weather.Location) (any, error) {
				return adv.Alerts(ctx, loc)
			})
		},
	}

	cmd.AddCommand(current, forecast, alerts)
	return cmd
}
