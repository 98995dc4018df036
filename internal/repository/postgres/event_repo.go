package postgres

import (
	"context"
	"database/sql"
	"errors"

	"barhopregistration/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT id, name, city, date, start_time, end_time, is_canceled, capacity_warning_sent, created_at, updated_at
		FROM events
		WHERE id = $1
	`
	e := &domain.Event{}
	var startTime, endTime sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.Name, &e.City, &e.Date, &startTime, &endTime,
		&e.IsCanceled, &e.CapacityWarningSent, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	e.StartTime = startTime.String
	e.EndTime = endTime.String

	venues, err := r.listVenues(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Venues = venues
	return e, nil
}

func (r *eventRepository) listVenues(ctx context.Context, eventID string) ([]*domain.Venue, error) {
	query := `
		SELECT id, event_id, name, available_spots
		FROM venues
		WHERE event_id = $1
		ORDER BY name
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var venues []*domain.Venue
	for rows.Next() {
		v := &domain.Venue{}
		if err := rows.Scan(&v.ID, &v.EventID, &v.Name, &v.AvailableSpots); err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if venues == nil {
		venues = []*domain.Venue{}
	}
	return venues, nil
}

func (r *eventRepository) CountRegistered(ctx context.Context, eventID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM registrations
		WHERE event_id = $1 AND status = 'registered'
	`
	var count int
	if err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *eventRepository) SetCapacityWarningSent(ctx context.Context, eventID string) (bool, error) {
	// Conditional update keeps the latch one-shot under concurrent confirmations.
	query := `
		UPDATE events
		SET capacity_warning_sent = TRUE, updated_at = NOW()
		WHERE id = $1 AND capacity_warning_sent = FALSE
	`
	res, err := r.DB.ExecContext(ctx, query, eventID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
