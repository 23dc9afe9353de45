package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const guestColumns = `id, tenant_id, first_name, last_name, email, COALESCE(phone, '') as phone,
	COALESCE(company_or_individual, '') as company_or_individual,
	COALESCE(guest_category, '') as guest_category,
	COALESCE(dietary_restrictions, '') as dietary_restrictions,
	status, COALESCE(amount_paid, 0)::text as amount_paid,
	COALESCE(custom_fields, '{}'::jsonb) as custom_fields,
	checked_in_at, registered_at, updated_at`

// PostgresGuestRepository implements GuestRepository using PostgreSQL
type PostgresGuestRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresGuestRepository creates a new PostgresGuestRepository
func NewPostgresGuestRepository(pool *pgxpool.Pool) *PostgresGuestRepository {
	return &PostgresGuestRepository{pool: pool}
}

func (r *PostgresGuestRepository) scanGuest(row pgx.Row) (*domain.Guest, error) {
	guest := &domain.Guest{}
	var status, amountPaid string
	err := row.Scan(
		&guest.ID,
		&guest.TenantID,
		&guest.FirstName,
		&guest.LastName,
		&guest.Email,
		&guest.Phone,
		&guest.CompanyOrIndividual,
		&guest.GuestCategory,
		&guest.DietaryRestrictions,
		&status,
		&amountPaid,
		&guest.CustomFields,
		&guest.CheckedInAt,
		&guest.RegisteredAt,
		&guest.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	guest.Status = domain.GuestStatus(status)
	guest.AmountPaid = parseDecimal(amountPaid)
	if guest.CustomFields == nil {
		guest.CustomFields = map[string]interface{}{}
	}
	return guest, nil
}

// Create stores a new guest
func (r *PostgresGuestRepository) Create(ctx context.Context, guest *domain.Guest) error {
	query := `
		INSERT INTO guests (id, tenant_id, first_name, last_name, email, phone, company_or_individual,
			guest_category, dietary_restrictions, status, amount_paid, custom_fields, checked_in_at,
			registered_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.pool.Exec(ctx, query,
		guest.ID,
		guest.TenantID,
		guest.FirstName,
		guest.LastName,
		guest.Email,
		nullStringOrValue(guest.Phone),
		nullStringOrValue(guest.CompanyOrIndividual),
		nullStringOrValue(guest.GuestCategory),
		nullStringOrValue(guest.DietaryRestrictions),
		string(guest.Status),
		guest.AmountPaid.String(),
		guest.CustomFields,
		guest.CheckedInAt,
		guest.RegisteredAt,
		guest.UpdatedAt,
	)
	return err
}

// GetByID retrieves a guest of a tenant
func (r *PostgresGuestRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Guest, error) {
	query := `SELECT ` + guestColumns + ` FROM guests WHERE tenant_id = $1 AND id = $2`
	return r.scanGuest(r.pool.QueryRow(ctx, query, tenantID, id))
}

// FindByEmail retrieves the first guest of a tenant with the email, case-insensitively
func (r *PostgresGuestRepository) FindByEmail(ctx context.Context, tenantID, email string) (*domain.Guest, error) {
	query := `SELECT ` + guestColumns + ` FROM guests
		WHERE tenant_id = $1 AND lower(email) = lower($2)
		ORDER BY registered_at ASC
		LIMIT 1`
	return r.scanGuest(r.pool.QueryRow(ctx, query, tenantID, email))
}

// List retrieves guests with filters and pagination
func (r *PostgresGuestRepository) List(ctx context.Context, tenantID string, filter GuestFilter) ([]*domain.Guest, int, error) {
	// Build WHERE clause
	whereClause := "WHERE tenant_id = $1"
	args := []interface{}{tenantID}
	argIndex := 2

	if filter.Status != "" {
		whereClause += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, filter.Status)
		argIndex++
	}

	if filter.TicketType != "" {
		if filter.TicketType == domain.DefaultTicketType {
			whereClause += fmt.Sprintf(" AND COALESCE(NULLIF(guest_category, ''), $%d) = $%d", argIndex, argIndex)
		} else {
			whereClause += fmt.Sprintf(" AND guest_category = $%d", argIndex)
		}
		args = append(args, filter.TicketType)
		argIndex++
	}

	if filter.Search != "" {
		whereClause += fmt.Sprintf(` AND (first_name ILIKE $%[1]d ESCAPE '\' OR last_name ILIKE $%[1]d ESCAPE '\'
			OR email ILIKE $%[1]d ESCAPE '\' OR company_or_individual ILIKE $%[1]d ESCAPE '\'
			OR (first_name || ' ' || last_name) ILIKE $%[1]d ESCAPE '\')`, argIndex)
		args = append(args, containsPattern(filter.Search))
		argIndex++
	}

	if len(filter.IDs) > 0 {
		whereClause += fmt.Sprintf(" AND id = ANY($%d)", argIndex)
		args = append(args, filter.IDs)
		argIndex++
	}

	// Count total records
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM guests %s", whereClause)
	var totalCount int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM guests %s ORDER BY registered_at DESC`, guestColumns, whereClause)
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filter.Limit, pageOffset(filter.Page, filter.Limit))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	guests := make([]*domain.Guest, 0)
	for rows.Next() {
		guest, err := r.scanGuest(rows)
		if err != nil {
			return nil, 0, err
		}
		guests = append(guests, guest)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return guests, totalCount, nil
}

// Update updates a guest
func (r *PostgresGuestRepository) Update(ctx context.Context, guest *domain.Guest) error {
	query := `
		UPDATE guests
		SET first_name = $3, last_name = $4, email = $5, phone = $6, company_or_individual = $7,
		    guest_category = $8, dietary_restrictions = $9, status = $10, amount_paid = $11,
		    custom_fields = $12, checked_in_at = $13, updated_at = $14
		WHERE tenant_id = $1 AND id = $2
	`
	result, err := r.pool.Exec(ctx, query,
		guest.TenantID,
		guest.ID,
		guest.FirstName,
		guest.LastName,
		guest.Email,
		nullStringOrValue(guest.Phone),
		nullStringOrValue(guest.CompanyOrIndividual),
		nullStringOrValue(guest.GuestCategory),
		nullStringOrValue(guest.DietaryRestrictions),
		string(guest.Status),
		guest.AmountPaid.String(),
		guest.CustomFields,
		guest.CheckedInAt,
		guest.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete hard deletes a guest
func (r *PostgresGuestRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM guests WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByStatus counts the guests of a tenant per status
func (r *PostgresGuestRepository) CountByStatus(ctx context.Context, tenantID string) (map[domain.GuestStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM guests WHERE tenant_id = $1 GROUP BY status`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.GuestStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[domain.GuestStatus(status)] = count
	}
	return counts, rows.Err()
}
