package domain

import (
	"context"
	"time"
)

// HourlySource provides the hourly forecast for one calendar day.
type HourlySource interface {
	// Hourly returns cloud cover, humidity and PM2.5 for every hour of date.
	Hourly(ctx context.Context, date time.Time) (HourlySeries, error)
}

// Publisher receives every computed sunset forecast.
type Publisher interface {
	Publish(ctx context.Context, forecast SunsetForecast) error
}
