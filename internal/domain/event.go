package domain

import (
	"context"
	"time"
)

// DefaultStartTime is used when an event has no start_time set.
const DefaultStartTime = "19:00"

// Venue is a participating bar. Event capacity is the sum of available
// spots across venues; it is never stored on the event itself.
type Venue struct {
	ID             string `json:"id"`
	EventID        string `json:"event_id"`
	Name           string `json:"name"`
	AvailableSpots int    `json:"available_spots"`
}

// Event represents a bar-hopping event
// swagger:model Event
type Event struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	City                string    `json:"city"`
	Date                time.Time `json:"date"`
	StartTime           string    `json:"start_time"` // "HH:MM", may be empty
	EndTime             string    `json:"end_time"`
	IsCanceled          bool      `json:"is_canceled"`
	CapacityWarningSent bool      `json:"capacity_warning_sent"`
	Venues              []*Venue  `json:"venues"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// TotalCapacity sums available spots across the event's venues.
func (e *Event) TotalCapacity() int {
	total := 0
	for _, v := range e.Venues {
		total += v.AvailableSpots
	}
	return total
}

// StartsAt returns the event's start instant in the given location,
// combining the event date with its start time (default 19:00).
func (e *Event) StartsAt(loc *time.Location) time.Time {
	start := e.StartTime
	if start == "" {
		start = DefaultStartTime
	}
	hour, minute := 19, 0
	if t, err := time.Parse("15:04", start); err == nil {
		hour, minute = t.Hour(), t.Minute()
	}
	d := e.Date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc)
}

// HeldBefore reports whether the event date falls strictly before the given
// day. Both sides are compared at day granularity (midnight-normalized).
func (e *Event) HeldBefore(now time.Time, loc *time.Location) bool {
	n := now.In(loc)
	today := time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, loc)
	d := e.Date.In(loc)
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return day.Before(today)
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	GetByID(ctx context.Context, id string) (*Event, error)
	// CountRegistered counts registrations in status "registered" for the event.
	CountRegistered(ctx context.Context, eventID string) (int, error)
	// SetCapacityWarningSent flips the one-shot warning latch. Returns true
	// if this call set it, false if it was already set.
	SetCapacityWarningSent(ctx context.Context, eventID string) (bool, error)
}
