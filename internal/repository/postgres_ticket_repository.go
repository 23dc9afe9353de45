package repository

import (
	"context"
	"errors"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresTicketRepository implements TicketRepository using PostgreSQL
type PostgresTicketRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketRepository creates a new PostgresTicketRepository
func NewPostgresTicketRepository(pool *pgxpool.Pool) *PostgresTicketRepository {
	return &PostgresTicketRepository{pool: pool}
}

// Upsert inserts a ticket or updates the one with the same merchant reference.
// Empty buyer and event columns never overwrite stored values.
func (r *PostgresTicketRepository) Upsert(ctx context.Context, t *domain.Ticket) error {
	query := `
		INSERT INTO tickets (merchant_reference, tenant_id, event_id, full_name, email, phone, quantities,
			order_tracking_id, amount, currency, description, status, provider, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (merchant_reference) DO UPDATE SET
			tenant_id = COALESCE(EXCLUDED.tenant_id, tickets.tenant_id),
			event_id = COALESCE(EXCLUDED.event_id, tickets.event_id),
			full_name = COALESCE(EXCLUDED.full_name, tickets.full_name),
			email = COALESCE(EXCLUDED.email, tickets.email),
			phone = COALESCE(EXCLUDED.phone, tickets.phone),
			quantities = COALESCE(EXCLUDED.quantities, tickets.quantities),
			order_tracking_id = COALESCE(EXCLUDED.order_tracking_id, tickets.order_tracking_id),
			amount = EXCLUDED.amount,
			currency = EXCLUDED.currency,
			description = COALESCE(EXCLUDED.description, tickets.description),
			status = EXCLUDED.status,
			provider = EXCLUDED.provider,
			metadata = COALESCE(EXCLUDED.metadata, tickets.metadata),
			updated_at = EXCLUDED.updated_at
	`
	var quantities, metadata interface{}
	if len(t.Quantities) > 0 {
		quantities = t.Quantities
	}
	if len(t.Metadata) > 0 {
		metadata = t.Metadata
	}
	_, err := r.pool.Exec(ctx, query,
		t.MerchantReference,
		nullStringOrValue(t.TenantID),
		nullStringOrValue(t.EventID),
		nullStringOrValue(t.FullName),
		nullStringOrValue(t.Email),
		nullStringOrValue(t.Phone),
		quantities,
		nullStringOrValue(t.OrderTrackingID),
		t.Amount.String(),
		t.Currency,
		nullStringOrValue(t.Description),
		t.Status,
		t.Provider,
		metadata,
		t.CreatedAt,
		t.UpdatedAt,
	)
	return err
}

// GetByMerchantReference retrieves a ticket by merchant reference
func (r *PostgresTicketRepository) GetByMerchantReference(ctx context.Context, reference string) (*domain.Ticket, error) {
	query := `
		SELECT merchant_reference, COALESCE(tenant_id, '') as tenant_id, COALESCE(event_id, '') as event_id,
		       COALESCE(full_name, '') as full_name, COALESCE(email, '') as email, COALESCE(phone, '') as phone,
		       COALESCE(quantities, '{}'::jsonb) as quantities, COALESCE(order_tracking_id, '') as order_tracking_id,
		       amount::text, currency, COALESCE(description, '') as description, status, provider,
		       COALESCE(metadata, '{}'::jsonb) as metadata, created_at, updated_at
		FROM tickets
		WHERE merchant_reference = $1
	`
	t := &domain.Ticket{}
	var amount string
	err := r.pool.QueryRow(ctx, query, reference).Scan(
		&t.MerchantReference,
		&t.TenantID,
		&t.EventID,
		&t.FullName,
		&t.Email,
		&t.Phone,
		&t.Quantities,
		&t.OrderTrackingID,
		&amount,
		&t.Currency,
		&t.Description,
		&t.Status,
		&t.Provider,
		&t.Metadata,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	t.Amount = parseDecimal(amount)
	return t, nil
}
