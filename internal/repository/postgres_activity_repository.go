package repository

import (
	"context"
	"errors"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresActivityRepository implements ActivityRepository using PostgreSQL
type PostgresActivityRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresActivityRepository creates a new PostgresActivityRepository
func NewPostgresActivityRepository(pool *pgxpool.Pool) *PostgresActivityRepository {
	return &PostgresActivityRepository{pool: pool}
}

// Create appends an activity
func (r *PostgresActivityRepository) Create(ctx context.Context, a *domain.Activity) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO activities (id, tenant_id, type, message, subject_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.TenantID, string(a.Type), a.Message, nullStringOrValue(a.SubjectID), a.CreatedAt)
	return err
}

// ListRecent retrieves the newest activities of a tenant
func (r *PostgresActivityRepository) ListRecent(ctx context.Context, tenantID string, limit int) ([]*domain.Activity, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, tenant_id, type, message, COALESCE(subject_id, '') as subject_id, created_at
		FROM activities
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, tenantID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]*domain.Activity, 0)
	for rows.Next() {
		a := &domain.Activity{}
		var activityType string
		if err := rows.Scan(&a.ID, &a.TenantID, &activityType, &a.Message, &a.SubjectID, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Type = domain.ActivityType(activityType)
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

const upsertSettingsQuery = `
	INSERT INTO app_settings (tenant_id, document, updated_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (tenant_id) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at
`

// PostgresSettingsRepository implements SettingsRepository using a JSONB document per tenant
type PostgresSettingsRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSettingsRepository creates a new PostgresSettingsRepository
func NewPostgresSettingsRepository(pool *pgxpool.Pool) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{pool: pool}
}

// Get retrieves the settings document of a tenant
func (r *PostgresSettingsRepository) Get(ctx context.Context, tenantID string) (*domain.AppSettings, error) {
	settings := &domain.AppSettings{}
	err := r.pool.QueryRow(ctx, `SELECT document, updated_at FROM app_settings WHERE tenant_id = $1`, tenantID).
		Scan(settings, &settings.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	settings.TenantID = tenantID
	return settings, nil
}

// Upsert stores the settings document of a tenant
func (r *PostgresSettingsRepository) Upsert(ctx context.Context, settings *domain.AppSettings) error {
	_, err := r.pool.Exec(ctx, upsertSettingsQuery, settings.TenantID, settings, settings.UpdatedAt)
	return err
}
