package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotaworks-dev/staffhub/backend/internal/domain"
)

// Location coordinates are stored as nullable lat/lng columns and break tiers
// as a JSONB array, so a location without GPS or without an override stays a
// plain NULL rather than a sentinel value.

func (r *Repository) CreateLocation(location *domain.Location) error {
	tiers, err := json.Marshal(location.BreakTiers)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO locations (organization_id, name, latitude, longitude, clock_in_radius_metres, break_tiers)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_active, created_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var lat, lng *float64
	if location.Coordinates != nil {
		lat = &location.Coordinates.Latitude
		lng = &location.Coordinates.Longitude
	}

	args := []any{location.OrganizationID, location.Name, lat, lng, location.ClockInRadiusMetres, tiers}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&location.ID, &location.IsActive, &location.CreatedAt, &location.Version); err != nil {
		return err
	}

	return nil
}

func scanLocation(scan func(dst ...any) error) (*domain.Location, error) {
	location := &domain.Location{}
	var lat, lng sql.NullFloat64
	var tiers []byte

	dst := []any{
		&location.ID,
		&location.OrganizationID,
		&location.Name,
		&lat,
		&lng,
		&location.ClockInRadiusMetres,
		&tiers,
		&location.IsActive,
		&location.CreatedAt,
		&location.Version,
	}
	if err := scan(dst...); err != nil {
		return nil, err
	}

	if lat.Valid && lng.Valid {
		location.Coordinates = &domain.Coordinates{Latitude: lat.Float64, Longitude: lng.Float64}
	}
	if len(tiers) > 0 {
		if err := json.Unmarshal(tiers, &location.BreakTiers); err != nil {
			return nil, err
		}
	}

	return location, nil
}

func (r *Repository) GetLocationByID(id int64) (*domain.Location, error) {
	query := `
		SELECT id, organization_id, name, latitude, longitude, clock_in_radius_metres, break_tiers, is_active, created_at, version
		FROM locations WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	row := r.dbpool.QueryRowContext(ctx, query, id)
	return scanLocation(row.Scan)
}

func (r *Repository) GetAllLocations(organizationID int64) ([]*domain.Location, error) {
	query := `
		SELECT id, organization_id, name, latitude, longitude, clock_in_radius_metres, break_tiers, is_active, created_at, version
		FROM locations WHERE organization_id = $1
		ORDER BY name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := make([]*domain.Location, 0)
	for rows.Next() {
		location, err := scanLocation(rows.Scan)
		if err != nil {
			return nil, err
		}
		locations = append(locations, location)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return locations, nil
}

func (r *Repository) UpdateLocation(location *domain.Location) error {
	tiers, err := json.Marshal(location.BreakTiers)
	if err != nil {
		return err
	}

	query := `
		UPDATE locations
		SET
			name = $1,
			latitude = $2,
			longitude = $3,
			clock_in_radius_metres = $4,
			break_tiers = $5,
			is_active = $6,
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var lat, lng *float64
	if location.Coordinates != nil {
		lat = &location.Coordinates.Latitude
		lng = &location.Coordinates.Longitude
	}

	args := []any{location.Name, lat, lng, location.ClockInRadiusMetres, tiers, location.IsActive, location.ID, location.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&location.Version); err != nil {
		return err
	}

	return nil
}
