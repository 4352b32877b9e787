package openmeteo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matsuesunset/sunset-service/internal/config"
	"github.com/matsuesunset/sunset-service/internal/domain"
	"github.com/matsuesunset/sunset-service/internal/observability"
)

// Source is the value reported in SunsetForecast.Source.
const Source = "open-meteo"

// hourLayout is the local-time format Open-Meteo uses when a timezone is requested.
const hourLayout = "2006-01-02T15:04"

const (
	endpointForecast   = "forecast"
	endpointAirQuality = "air_quality"
)

// Client implements domain.HourlySource using the Open-Meteo forecast and
// air-quality APIs.
type Client struct {
	httpClient    *http.Client
	forecastURL   string
	airQualityURL string
	lat           float64
	lon           float64
	loc           *time.Location
	metrics       *observability.Metrics
	logger        *slog.Logger
}

// NewClient creates an Open-Meteo client for the configured observation point.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.UpstreamTimeout,
		},
		forecastURL:   cfg.ForecastBaseURL,
		airQualityURL: cfg.AirQualityBaseURL,
		lat:           cfg.Lat,
		lon:           cfg.Lon,
		loc:           cfg.Location(),
		metrics:       metrics,
		logger:        logger,
	}
}

// Hourly fetches cloud cover and humidity from the forecast API and PM2.5
// from the air-quality API, joined on the forecast's timestamps.
func (c *Client) Hourly(ctx context.Context, date time.Time) (domain.HourlySeries, error) {
	day := date.Format(time.DateOnly)

	var fc forecastResponse
	params := c.commonParams(day)
	params.Set("hourly", "cloudcover,relativehumidity_2m")
	if err := c.get(ctx, c.forecastURL, params, endpointForecast, &fc); err != nil {
		return domain.HourlySeries{}, err
	}

	var aq airQualityResponse
	params = c.commonParams(day)
	params.Set("hourly", "pm2_5")
	if err := c.get(ctx, c.airQualityURL, params, endpointAirQuality, &aq); err != nil {
		return domain.HourlySeries{}, err
	}

	return c.join(fc, aq)
}

func (c *Client) commonParams(day string) url.Values {
	return url.Values{
		"latitude":   {strconv.FormatFloat(c.lat, 'f', -1, 64)},
		"longitude":  {strconv.FormatFloat(c.lon, 'f', -1, 64)},
		"timezone":   {c.loc.String()},
		"start_date": {day},
		"end_date":   {day},
	}
}

func (c *Client) get(ctx context.Context, base string, params url.Values, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	err = c.do(req, endpoint, out)
	c.metrics.UpstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.UpstreamRequests.WithLabelValues(endpoint, "error").Inc()
		c.logger.Warn("open-meteo request failed", "endpoint", endpoint, "error", err)
		return err
	}
	c.metrics.UpstreamRequests.WithLabelValues(endpoint, "success").Inc()
	return nil
}

func (c *Client) do(req *http.Request, endpoint string, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("open-meteo %s error: status %d: %s", endpoint, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

// join aligns PM2.5 values onto the forecast timestamps. Hours missing from
// the air-quality feed become absent readings.
func (c *Client) join(fc forecastResponse, aq airQualityResponse) (domain.HourlySeries, error) {
	pmByTime := make(map[string]*float64, len(aq.Hourly.Time))
	for i, ts := range aq.Hourly.Time {
		if i < len(aq.Hourly.PM25) {
			pmByTime[ts] = aq.Hourly.PM25[i]
		}
	}

	n := len(fc.Hourly.Time)
	series := domain.HourlySeries{
		Times:         make([]time.Time, n),
		CloudCoverPct: make([]*float64, n),
		HumidityPct:   make([]*float64, n),
		PM25:          make([]*float64, n),
	}
	for i, raw := range fc.Hourly.Time {
		ts, err := time.ParseInLocation(hourLayout, raw, c.loc)
		if err != nil {
			return domain.HourlySeries{}, fmt.Errorf("parse hourly time %q: %w", raw, err)
		}
		series.Times[i] = ts
		if i < len(fc.Hourly.CloudCover) {
			series.CloudCoverPct[i] = fc.Hourly.CloudCover[i]
		}
		if i < len(fc.Hourly.RelativeHumidity) {
			series.HumidityPct[i] = fc.Hourly.RelativeHumidity[i]
		}
		series.PM25[i] = pmByTime[raw]
	}
	return series, nil
}

// Open-Meteo API response types. Null values decode to nil pointers.

type forecastResponse struct {
	Hourly struct {
		Time             []string   `json:"time"`
		CloudCover       []*float64 `json:"cloudcover"`
		RelativeHumidity []*float64 `json:"relativehumidity_2m"`
	} `json:"hourly"`
}

type airQualityResponse struct {
	Hourly struct {
		Time []string   `json:"time"`
		PM25 []*float64 `json:"pm2_5"`
	} `json:"hourly"`
}
