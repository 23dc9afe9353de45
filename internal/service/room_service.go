package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/repository"
	"github.com/google/uuid"
)

// RoomService defines room and zone management
type RoomService interface {
	ListRooms(ctx context.Context, tenantID string) ([]*domain.Room, error)
	CreateRoom(ctx context.Context, tenantID string, req *dto.CreateRoomRequest) (*domain.Room, error)
	UpdateRoom(ctx context.Context, tenantID, id string, req *dto.UpdateRoomRequest) (*domain.Room, error)
	DeleteRoom(ctx context.Context, tenantID, id string) error
}

type roomService struct {
	roomRepo repository.RoomRepository
}

// NewRoomService creates a new RoomService
func NewRoomService(roomRepo repository.RoomRepository) RoomService {
	return &roomService{roomRepo: roomRepo}
}

func (s *roomService) ListRooms(ctx context.Context, tenantID string) ([]*domain.Room, error) {
	rooms, err := s.roomRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if rooms == nil {
		rooms = []*domain.Room{}
	}
	return rooms, nil
}

func (s *roomService) CreateRoom(ctx context.Context, tenantID string, req *dto.CreateRoomRequest) (*domain.Room, error) {
	now := time.Now()
	room := &domain.Room{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      strings.TrimSpace(req.Name),
		Current:   req.Current,
		Max:       req.Max,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := validateRoom(room); err != nil {
		return nil, err
	}
	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func (s *roomService) UpdateRoom(ctx context.Context, tenantID, id string, req *dto.UpdateRoomRequest) (*domain.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}

	if req.Name != nil {
		room.Name = strings.TrimSpace(*req.Name)
	}
	if req.Current != nil {
		room.Current = *req.Current
	}
	if req.Max != nil {
		room.Max = *req.Max
	}
	if err := validateRoom(room); err != nil {
		return nil, err
	}
	room.UpdatedAt = time.Now()

	if err := s.roomRepo.Update(ctx, room); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

func (s *roomService) DeleteRoom(ctx context.Context, tenantID, id string) error {
	if err := s.roomRepo.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoomNotFound
		}
		return err
	}
	return nil
}

// validateRoom allows current above max; headcounts are entered by hand
func validateRoom(room *domain.Room) error {
	switch {
	case room.Name == "":
		return invalid("Room name is required")
	case room.Max <= 0:
		return invalid("Max capacity must be greater than 0")
	case room.Current < 0:
		return invalid("Current count cannot be negative")
	}
	return nil
}
