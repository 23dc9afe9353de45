package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const roomColumns = `id, tenant_id, name, current_count, max_capacity, created_at, updated_at`

// PostgresRoomRepository implements RoomRepository using PostgreSQL
type PostgresRoomRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRoomRepository creates a new PostgresRoomRepository
func NewPostgresRoomRepository(pool *pgxpool.Pool) *PostgresRoomRepository {
	return &PostgresRoomRepository{pool: pool}
}

func (r *PostgresRoomRepository) scanRoom(row pgx.Row) (*domain.Room, error) {
	room := &domain.Room{}
	err := row.Scan(&room.ID, &room.TenantID, &room.Name, &room.Current, &room.Max, &room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return room, nil
}

// Create stores a new room
func (r *PostgresRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	query := `
		INSERT INTO rooms (id, tenant_id, name, current_count, max_capacity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query, room.ID, room.TenantID, room.Name, room.Current, room.Max, room.CreatedAt, room.UpdatedAt)
	return err
}

// GetByID retrieves a room of a tenant
func (r *PostgresRoomRepository) GetByID(ctx context.Context, tenantID, id string) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE tenant_id = $1 AND id = $2`
	return r.scanRoom(r.pool.QueryRow(ctx, query, tenantID, id))
}

// ListByTenant retrieves every room of a tenant ordered by name
func (r *PostgresRoomRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Room, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+roomColumns+` FROM rooms WHERE tenant_id = $1 ORDER BY name ASC`, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]*domain.Room, 0)
	for rows.Next() {
		room, err := r.scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// Update updates a room
func (r *PostgresRoomRepository) Update(ctx context.Context, room *domain.Room) error {
	room.UpdatedAt = time.Now()
	result, err := r.pool.Exec(ctx, `
		UPDATE rooms SET name = $3, current_count = $4, max_capacity = $5, updated_at = $6
		WHERE tenant_id = $1 AND id = $2
	`, room.TenantID, room.ID, room.Name, room.Current, room.Max, room.UpdatedAt)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a room
func (r *PostgresRoomRepository) Delete(ctx context.Context, tenantID, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM rooms WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
