package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const campaignColumns = `id, tenant_id, name, type, status, COALESCE(audience, '') as audience, message,
	COALESCE(image_url, '') as image_url, scheduled_at, sent, delivered, opened, clicked, sent_at,
	created_at, updated_at`

// PostgresCampaignRepository implements CampaignRepository using PostgreSQL
type PostgresCampaignRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresCampaignRepository creates a new PostgresCampaignRepository
func NewPostgresCampaignRepository(pool *pgxpool.Pool) *PostgresCampaignRepository {
	return &PostgresCampaignRepository{pool: pool}
}

func (r *PostgresCampaignRepository) scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	campaign := &domain.Campaign{}
	var campaignType, status string
	err := row.Scan(
		&campaign.ID,
		&campaign.TenantID,
		&campaign.Name,
		&campaignType,
		&status,
		&campaign.Audience,
		&campaign.Message,
		&campaign.ImageURL,
		&campaign.ScheduledAt,
		&campaign.Sent,
		&campaign.Delivered,
		&campaign.Opened,
		&campaign.Clicked,
		&campaign.SentAt,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	campaign.Type = domain.CampaignType(campaignType)
	campaign.Status = domain.CampaignStatus(status)
	return campaign, nil
}

// Create stores a new campaign
func (r *PostgresCampaignRepository) Create(ctx context.Context, c *domain.Campaign) error {
	query := `
		INSERT INTO campaigns (id, tenant_id, name, type, status, audience, message, image_url, scheduled_at,
			sent, delivered, opened, clicked, sent_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := r.pool.Exec(ctx, query,
		c.ID, c.TenantID, c.Name, string(c.Type), string(c.Status),
		nullStringOrValue(c.Audience), c.Message, nullStringOrValue(c.ImageURL), c.ScheduledAt,
		c.Sent, c.Delivered, c.Opened, c.Clicked, c.SentAt, c.CreatedAt, c.UpdatedAt,
	)
	return err
}

// GetByID retrieves a campaign of a tenant
func (r *PostgresCampaignRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE tenant_id = $1 AND id = $2`
	return r.scanCampaign(r.pool.QueryRow(ctx, query, tenantID, id))
}

// List retrieves campaigns with optional status and type filters
func (r *PostgresCampaignRepository) List(ctx context.Context, tenantID string, status, campaignType string, page, limit int) ([]*domain.Campaign, int, error) {
	whereClause := "WHERE tenant_id = $1"
	args := []interface{}{tenantID}
	argIndex := 2

	if status != "" {
		whereClause += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, status)
		argIndex++
	}
	if campaignType != "" {
		whereClause += fmt.Sprintf(" AND type = $%d", argIndex)
		args = append(args, campaignType)
		argIndex++
	}

	var totalCount int
	if err := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM campaigns %s", whereClause), args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM campaigns
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, campaignColumns, whereClause, argIndex, argIndex+1)
	args = append(args, limit, pageOffset(page, limit))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	campaigns := make([]*domain.Campaign, 0)
	for rows.Next() {
		campaign, err := r.scanCampaign(rows)
		if err != nil {
			return nil, 0, err
		}
		campaigns = append(campaigns, campaign)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return campaigns, totalCount, nil
}

// Update updates a campaign
func (r *PostgresCampaignRepository) Update(ctx context.Context, c *domain.Campaign) error {
	query := `
		UPDATE campaigns
		SET name = $3, type = $4, status = $5, audience = $6, message = $7, image_url = $8, scheduled_at = $9,
		    sent = $10, delivered = $11, opened = $12, clicked = $13, sent_at = $14, updated_at = $15
		WHERE tenant_id = $1 AND id = $2
	`
	result, err := r.pool.Exec(ctx, query,
		c.TenantID, c.ID, c.Name, string(c.Type), string(c.Status),
		nullStringOrValue(c.Audience), c.Message, nullStringOrValue(c.ImageURL), c.ScheduledAt,
		c.Sent, c.Delivered, c.Opened, c.Clicked, c.SentAt, c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a campaign
func (r *PostgresCampaignRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM campaigns WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
