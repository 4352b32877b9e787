// Package forecast computes sunset forecasts for the configured observation
// point and keeps today's forecast fresh.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/matsuesunset/sunset-service/internal/config"
	"github.com/matsuesunset/sunset-service/internal/domain"
	"github.com/matsuesunset/sunset-service/internal/observability"
)

// Service computes authoritative sunset forecasts and ad-hoc estimates.
type Service struct {
	source    domain.HourlySource
	publisher domain.Publisher
	name      string
	location  domain.Location
	tz        *time.Location
	cacheTTL  time.Duration
	logger    *slog.Logger
	metrics   *observability.Metrics
	ready     atomic.Bool
}

// New creates a Service. sourceName is reported in every forecast. Pass a nil
// publisher to disable publishing.
func New(source domain.HourlySource, sourceName string, publisher domain.Publisher, cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		source:    source,
		publisher: publisher,
		name:      sourceName,
		location:  domain.Location{Lat: cfg.Lat, Lon: cfg.Lon},
		tz:        cfg.Location(),
		cacheTTL:  cfg.CacheTTL,
		logger:    logger,
		metrics:   metrics,
	}
}

// TimeZone is the zone forecast dates are interpreted in.
func (s *Service) TimeZone() *time.Location {
	return s.tz
}

// Today returns the current calendar date in the service time zone.
func (s *Service) Today() time.Time {
	return domain.Today(s.tz)
}

// CheckReadiness returns nil once at least one forecast has been computed.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("no forecast has been computed yet")
	}
	return nil
}

// SunsetForecast scores the hourly reading nearest to sunset on the calendar
// day containing date in the service time zone.
func (s *Service) SunsetForecast(ctx context.Context, date time.Time) (domain.SunsetForecast, error) {
	date = date.In(s.tz)
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, s.tz)
	sunset := domain.SunsetTime(day, s.location.Lat, s.location.Lon, s.tz)

	series, err := s.source.Hourly(ctx, day)
	if err != nil {
		s.metrics.ForecastRequests.WithLabelValues("error").Inc()
		return domain.SunsetForecast{}, fmt.Errorf("fetch hourly forecast: %w", err)
	}

	fc, err := domain.BuildSunsetForecast(s.location, day.Format(time.DateOnly), sunset, series, s.name, s.cacheTTL)
	if err != nil {
		s.metrics.ForecastRequests.WithLabelValues("error").Inc()
		return domain.SunsetForecast{}, err
	}

	s.metrics.ForecastRequests.WithLabelValues("success").Inc()
	s.metrics.ScoreDistribution.Observe(float64(fc.Score))
	s.ready.Store(true)
	s.logger.Debug("sunset forecast computed",
		"date", fc.Date,
		"sunset", fc.SunsetJST,
		"hourly_timestamp", fc.HourlyTimestamp,
		"score", fc.Score,
	)

	s.publish(ctx, fc)
	return fc, nil
}

// Estimate scores a caller-supplied reading without any I/O.
func (s *Service) Estimate(r domain.ForecastReading) domain.Estimate {
	s.metrics.EstimateRequests.Inc()
	return domain.NewEstimate(r)
}

// publish hands the forecast to the publisher. Failures are logged and
// counted but never fail the forecast.
func (s *Service) publish(ctx context.Context, fc domain.SunsetForecast) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, fc); err != nil {
		s.metrics.PublishErrors.Inc()
		s.logger.Warn("publish forecast failed", "date", fc.Date, "error", err)
		return
	}
	s.metrics.PublishedEvents.Inc()
}
