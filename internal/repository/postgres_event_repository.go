package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventColumns = `id, tenant_id, title, host, description, start_date, end_date,
	COALESCE(location_name, '') as location_name, COALESCE(location_map_link, '') as location_map_link,
	COALESCE(city, '') as city, COALESCE(event_type, '') as event_type,
	COALESCE(price, 0)::text as price, COALESCE(packages, '[]'::jsonb) as packages,
	COALESCE(images, '{}') as images, created_at, updated_at`

// PostgresEventRepository implements EventRepository using PostgreSQL
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a new PostgresEventRepository
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

func (r *PostgresEventRepository) scanEvent(row pgx.Row) (*domain.Event, error) {
	event := &domain.Event{}
	var price string
	err := row.Scan(
		&event.ID,
		&event.TenantID,
		&event.Title,
		&event.Host,
		&event.Description,
		&event.StartDate,
		&event.EndDate,
		&event.LocationName,
		&event.LocationMapLink,
		&event.City,
		&event.EventType,
		&price,
		&event.Packages,
		&event.Images,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	event.Price = parseDecimal(price)
	return event, nil
}

func (r *PostgresEventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]*domain.Event, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		event, err := r.scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// Create stores a new event
func (r *PostgresEventRepository) Create(ctx context.Context, event *domain.Event) error {
	query := `
		INSERT INTO events (id, tenant_id, title, host, description, start_date, end_date, location_name,
			location_map_link, city, event_type, price, packages, images, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.TenantID,
		event.Title,
		event.Host,
		event.Description,
		event.StartDate,
		event.EndDate,
		nullStringOrValue(event.LocationName),
		nullStringOrValue(event.LocationMapLink),
		nullStringOrValue(event.City),
		nullStringOrValue(event.EventType),
		event.Price.String(),
		event.Packages,
		event.Images,
		event.CreatedAt,
		event.UpdatedAt,
	)
	return err
}

// GetByID retrieves an event of a tenant
func (r *PostgresEventRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE tenant_id = $1 AND id = $2`
	return r.scanEvent(r.pool.QueryRow(ctx, query, tenantID, id))
}

// List retrieves events with pagination and search
func (r *PostgresEventRepository) List(ctx context.Context, tenantID string, page, limit int, search string) ([]*domain.Event, int, error) {
	whereClause := "WHERE tenant_id = $1"
	args := []interface{}{tenantID}
	argIndex := 2

	if search != "" {
		whereClause += fmt.Sprintf(` AND (title ILIKE $%[1]d ESCAPE '\' OR host ILIKE $%[1]d ESCAPE '\' OR city ILIKE $%[1]d ESCAPE '\')`, argIndex)
		args = append(args, containsPattern(search))
		argIndex++
	}

	var totalCount int
	if err := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM events %s", whereClause), args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM events
		%s
		ORDER BY start_date DESC
		LIMIT $%d OFFSET $%d
	`, eventColumns, whereClause, argIndex, argIndex+1)
	args = append(args, limit, pageOffset(page, limit))

	events, err := r.queryEvents(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return events, totalCount, nil
}

// ListUpcoming retrieves events starting at or after from, excluding one event
func (r *PostgresEventRepository) ListUpcoming(ctx context.Context, tenantID string, from time.Time, excludeID string, limit int) ([]*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + ` FROM events
		WHERE tenant_id = $1 AND start_date >= $2 AND id <> $3
		ORDER BY start_date ASC
		LIMIT $4
	`
	return r.queryEvents(ctx, query, tenantID, from, excludeID, limit)
}

// Update updates an event
func (r *PostgresEventRepository) Update(ctx context.Context, event *domain.Event) error {
	query := `
		UPDATE events
		SET title = $3, host = $4, description = $5, start_date = $6, end_date = $7, location_name = $8,
		    location_map_link = $9, city = $10, event_type = $11, price = $12, packages = $13, updated_at = $14
		WHERE tenant_id = $1 AND id = $2
	`
	event.UpdatedAt = time.Now()
	result, err := r.pool.Exec(ctx, query,
		event.TenantID,
		event.ID,
		event.Title,
		event.Host,
		event.Description,
		event.StartDate,
		event.EndDate,
		nullStringOrValue(event.LocationName),
		nullStringOrValue(event.LocationMapLink),
		nullStringOrValue(event.City),
		nullStringOrValue(event.EventType),
		event.Price.String(),
		event.Packages,
		event.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendImages appends image URLs and returns the full image list
func (r *PostgresEventRepository) AppendImages(ctx context.Context, tenantID, id string, urls []string) ([]string, error) {
	query := `
		UPDATE events
		SET images = COALESCE(images, '{}') || $3::text[], updated_at = NOW()
		WHERE tenant_id = $1 AND id = $2
		RETURNING images
	`
	var images []string
	err := r.pool.QueryRow(ctx, query, tenantID, id, urls).Scan(&images)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return images, nil
}

// Delete removes an event
func (r *PostgresEventRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM events WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
