package service

import (
	"context"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/repository"
)

// RecentActivityLimit is the number of activities shown on the dashboard
const RecentActivityLimit = 5

// DashboardService defines the admin overview and activity feed
type DashboardService interface {
	// Dashboard returns guest totals, room occupancy and the newest activities
	Dashboard(ctx context.Context, tenantID string) (*dto.DashboardResponse, error)
	// Activities returns the newest activities of a tenant
	Activities(ctx context.Context, tenantID string, query *dto.ListActivitiesQuery) ([]*domain.Activity, error)
}

type dashboardService struct {
	guestRepo    repository.GuestRepository
	roomRepo     repository.RoomRepository
	activityRepo repository.ActivityRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	guestRepo repository.GuestRepository,
	roomRepo repository.RoomRepository,
	activityRepo repository.ActivityRepository,
) DashboardService {
	return &dashboardService{
		guestRepo:    guestRepo,
		roomRepo:     roomRepo,
		activityRepo: activityRepo,
	}
}

// Dashboard returns guest totals, room occupancy and the newest activities
func (s *dashboardService) Dashboard(ctx context.Context, tenantID string) (*dto.DashboardResponse, error) {
	counts, err := s.guestRepo.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	rooms, err := s.roomRepo.ListByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	activities, err := s.activityRepo.ListRecent(ctx, tenantID, RecentActivityLimit)
	if err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []*domain.Activity{}
	}

	totals := dto.GuestTotals{
		CheckedIn: counts[domain.GuestStatusCheckedIn],
		Pending:   counts[domain.GuestStatusPending],
		Flagged:   counts[domain.GuestStatusFlagged],
		NoShow:    counts[domain.GuestStatusNoShow],
	}
	for _, n := range counts {
		totals.Total += n
	}

	occupancy := make([]dto.RoomOccupancy, 0, len(rooms))
	for _, r := range rooms {
		occupancy = append(occupancy, dto.RoomOccupancy{
			ID:      r.ID,
			Name:    r.Name,
			Current: r.Current,
			Max:     r.Max,
			Percent: r.OccupancyPercent(),
		})
	}

	return &dto.DashboardResponse{
		Guests:           totals,
		Rooms:            occupancy,
		RecentActivities: activities,
	}, nil
}

// Activities returns the newest activities of a tenant
func (s *dashboardService) Activities(ctx context.Context, tenantID string, query *dto.ListActivitiesQuery) ([]*domain.Activity, error) {
	query.SetDefaults()
	activities, err := s.activityRepo.ListRecent(ctx, tenantID, query.Limit)
	if err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []*domain.Activity{}
	}
	return activities, nil
}
