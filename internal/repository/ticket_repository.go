package repository

import (
	"context"

	"github.com/AkiliNova/in-vent/internal/domain"
)

// TicketRepository defines the interface for paid ticket orders
type TicketRepository interface {
	// Upsert inserts a ticket or updates the one with the same merchant reference
	Upsert(ctx context.Context, ticket *domain.Ticket) error
	// GetByMerchantReference retrieves a ticket by merchant reference
	GetByMerchantReference(ctx context.Context, reference string) (*domain.Ticket, error)
}
