package domain

import (
	"time"

	"github.com/nathan-osman/go-sunrise"
)

// SunsetTime returns the astronomical sunset for the given calendar date at
// lat/lon, expressed in loc.
func SunsetTime(date time.Time, lat, lon float64, loc *time.Location) time.Time {
	_, set := sunrise.SunriseSunset(lat, lon, date.Year(), date.Month(), date.Day())
	return set.In(loc)
}

// Today returns the current calendar date in loc, at midnight.
func Today(loc *time.Location) time.Time {
	now := clock.Now().In(loc)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
}
