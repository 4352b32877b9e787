package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/matsuesunset/sunset-service/internal/adapter/openmeteo"
	"github.com/matsuesunset/sunset-service/internal/config"
	"github.com/matsuesunset/sunset-service/internal/forecast"
	"github.com/matsuesunset/sunset-service/internal/observability"
)

func forecastCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Fetch the sunset forecast from Open-Meteo (configured via environment)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return runForecast(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, date)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default: today in TIMEZONE)")
	return cmd
}

func runForecast(ctx context.Context, w, logw io.Writer, cfg *config.Config, date string) error {
	logger := observability.NewLoggerTo(logw, cfg)
	metrics := observability.NewUnregisteredMetrics()

	svc := forecast.New(openmeteo.NewClient(cfg, metrics, logger), openmeteo.Source, nil, cfg, logger, metrics)

	day := svc.Today()
	if date != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, date, svc.TimeZone())
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", date, err)
		}
		day = parsed
	}

	fc, err := svc.SunsetForecast(ctx, day)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fc)
}
