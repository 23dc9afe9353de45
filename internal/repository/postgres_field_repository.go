package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fieldColumns = `id, tenant_id, label, type, required, step, sort_order,
	COALESCE(placeholder, '') as placeholder, COALESCE(options, '{}') as options,
	enabled, created_at, updated_at`

// PostgresFieldRepository implements FieldRepository using PostgreSQL
type PostgresFieldRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresFieldRepository creates a new PostgresFieldRepository
func NewPostgresFieldRepository(pool *pgxpool.Pool) *PostgresFieldRepository {
	return &PostgresFieldRepository{pool: pool}
}

func (r *PostgresFieldRepository) scanField(row pgx.Row) (*domain.FieldDefinition, error) {
	field := &domain.FieldDefinition{}
	var fieldType string
	err := row.Scan(
		&field.ID,
		&field.TenantID,
		&field.Label,
		&fieldType,
		&field.Required,
		&field.Step,
		&field.Order,
		&field.Placeholder,
		&field.Options,
		&field.Enabled,
		&field.CreatedAt,
		&field.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	field.Type = domain.FieldType(fieldType)
	return field, nil
}

// Create stores a new field definition
func (r *PostgresFieldRepository) Create(ctx context.Context, field *domain.FieldDefinition) error {
	query := `
		INSERT INTO registration_fields (id, tenant_id, label, type, required, step, sort_order, placeholder, options, enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.pool.Exec(ctx, query,
		field.ID,
		field.TenantID,
		field.Label,
		string(field.Type),
		field.Required,
		field.Step,
		field.Order,
		nullStringOrValue(field.Placeholder),
		field.Options,
		field.Enabled,
		field.CreatedAt,
		field.UpdatedAt,
	)
	return err
}

// GetByID retrieves a field definition of a tenant
func (r *PostgresFieldRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.FieldDefinition, error) {
	query := `SELECT ` + fieldColumns + ` FROM registration_fields WHERE tenant_id = $1 AND id = $2`
	return r.scanField(r.pool.QueryRow(ctx, query, tenantID, id))
}

// ListByTenant retrieves every definition of a tenant ordered by order
func (r *PostgresFieldRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.FieldDefinition, error) {
	query := `SELECT ` + fieldColumns + ` FROM registration_fields WHERE tenant_id = $1 ORDER BY sort_order ASC, label ASC`
	rows, err := r.pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := make([]*domain.FieldDefinition, 0)
	for rows.Next() {
		field, err := r.scanField(rows)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, rows.Err()
}

// Update updates a field definition
func (r *PostgresFieldRepository) Update(ctx context.Context, field *domain.FieldDefinition) error {
	query := `
		UPDATE registration_fields
		SET label = $3, type = $4, required = $5, step = $6, sort_order = $7, placeholder = $8,
		    options = $9, enabled = $10, updated_at = $11
		WHERE tenant_id = $1 AND id = $2
	`
	field.UpdatedAt = time.Now()
	result, err := r.pool.Exec(ctx, query,
		field.TenantID,
		field.ID,
		field.Label,
		string(field.Type),
		field.Required,
		field.Step,
		field.Order,
		nullStringOrValue(field.Placeholder),
		field.Options,
		field.Enabled,
		field.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a field definition
func (r *PostgresFieldRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM registration_fields WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
