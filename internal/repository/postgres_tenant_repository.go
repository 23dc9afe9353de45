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

// PostgresTenantRepository implements TenantRepository using PostgreSQL
type PostgresTenantRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTenantRepository creates a new PostgresTenantRepository
func NewPostgresTenantRepository(pool *pgxpool.Pool) *PostgresTenantRepository {
	return &PostgresTenantRepository{pool: pool}
}

// CreateWithAdmin stores a tenant, its first admin and its default settings in one transaction
func (r *PostgresTenantRepository) CreateWithAdmin(ctx context.Context, tenant *domain.Tenant, admin *domain.Admin, settings *domain.AppSettings) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO tenants (id, organization_name, contact_person, email, phone, package, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		tenant.ID,
		tenant.OrganizationName,
		tenant.ContactPerson,
		tenant.Email,
		nullStringOrValue(tenant.Phone),
		tenant.Package,
		tenant.CreatedAt,
		tenant.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert tenant: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO admins (id, email, password_hash, role, tenant_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`,
		admin.ID,
		admin.Email,
		admin.PasswordHash,
		admin.Role,
		admin.TenantID,
		admin.CreatedAt,
		admin.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert admin: %w", err)
	}

	_, err = tx.Exec(ctx, upsertSettingsQuery, settings.TenantID, settings, settings.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert settings: %w", err)
	}

	return tx.Commit(ctx)
}

// GetByID retrieves a tenant by ID
func (r *PostgresTenantRepository) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	query := `
		SELECT id, organization_name, contact_person, email, COALESCE(phone, '') as phone, package, created_at, updated_at
		FROM tenants
		WHERE id = $1
	`
	tenant := &domain.Tenant{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&tenant.ID,
		&tenant.OrganizationName,
		&tenant.ContactPerson,
		&tenant.Email,
		&tenant.Phone,
		&tenant.Package,
		&tenant.CreatedAt,
		&tenant.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return tenant, nil
}

const adminColumns = `id, email, password_hash, role, tenant_id, last_login_at, created_at, updated_at`

// PostgresAdminRepository implements AdminRepository using PostgreSQL
type PostgresAdminRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAdminRepository creates a new PostgresAdminRepository
func NewPostgresAdminRepository(pool *pgxpool.Pool) *PostgresAdminRepository {
	return &PostgresAdminRepository{pool: pool}
}

func (r *PostgresAdminRepository) scanAdmin(row pgx.Row) (*domain.Admin, error) {
	admin := &domain.Admin{}
	err := row.Scan(
		&admin.ID,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Role,
		&admin.TenantID,
		&admin.LastLoginAt,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return admin, nil
}

// GetByID retrieves an admin by user ID
func (r *PostgresAdminRepository) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE id = $1`
	return r.scanAdmin(r.pool.QueryRow(ctx, query, id))
}

// GetByEmail retrieves an admin by email, case-insensitively
func (r *PostgresAdminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	query := `SELECT ` + adminColumns + ` FROM admins WHERE lower(email) = lower($1)`
	return r.scanAdmin(r.pool.QueryRow(ctx, query, email))
}

// UpdateLastLogin stamps a successful sign-in
func (r *PostgresAdminRepository) UpdateLastLogin(ctx context.Context, id string) error {
	now := time.Now()
	_, err := r.pool.Exec(ctx, `UPDATE admins SET last_login_at = $2, updated_at = $2 WHERE id = $1`, id, now)
	return err
}
