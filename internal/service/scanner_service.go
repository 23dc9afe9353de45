package service

import (
	"context"
	"fmt"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/repository"
	"github.com/AkiliNova/in-vent/internal/session"
	"github.com/AkiliNova/in-vent/pkg/kafka"
	"github.com/AkiliNova/in-vent/pkg/logger"
	"github.com/AkiliNova/in-vent/pkg/telemetry"
	"go.uber.org/zap"
)

// DefaultScanLogLimit is the page size of the scan log
const DefaultScanLogLimit = 50

// ScannerService defines the door check-in flow
type ScannerService interface {
	// Scan resolves a scanned ticket and checks the guest in when allowed.
	// Failures are reported as flagged results, never as errors.
	Scan(ctx context.Context, sess *session.TenantSession, raw string) *domain.ScanResult
	// Session returns the scan tally of the caller's session
	Session(ctx context.Context, sess *session.TenantSession) (*domain.ScannerSession, error)
	// Log returns the newest scan attempts of a tenant
	Log(ctx context.Context, tenantID string, limit int) ([]*domain.ScanLogEntry, error)
}

type scannerService struct {
	guestRepo    repository.GuestRepository
	activityRepo repository.ActivityRepository
	scanLog      repository.ScanLogRepository
	store        session.Store
	producer     kafka.Producer
	metrics      *telemetry.Metrics
	now          func() time.Time
}

// NewScannerService creates a new ScannerService
func NewScannerService(
	guestRepo repository.GuestRepository,
	activityRepo repository.ActivityRepository,
	scanLog repository.ScanLogRepository,
	store session.Store,
	producer kafka.Producer,
	metrics *telemetry.Metrics,
) ScannerService {
	return &scannerService{
		guestRepo:    guestRepo,
		activityRepo: activityRepo,
		scanLog:      scanLog,
		store:        store,
		producer:     producer,
		metrics:      metrics,
		now:          time.Now,
	}
}

// Scan resolves a scanned ticket and checks the guest in when allowed
func (s *scannerService) Scan(ctx context.Context, sess *session.TenantSession, raw string) *domain.ScanResult {
	start := time.Now()
	tenantID := sess.Tenant()
	guestID := domain.ParseTicket(raw)

	result := s.resolve(ctx, tenantID, guestID)

	s.metrics.RecordCheckIn(ctx, tenantID, string(result.Outcome), time.Since(start))
	s.track(ctx, sess, raw, result)

	if result.Outcome == domain.ScanOutcomeSuccess {
		publish(ctx, s.producer, dto.TopicGuestCheckedIn, &dto.GuestCheckedInEvent{
			EventType:   "guest.checked_in",
			TenantID:    tenantID,
			GuestID:     result.GuestID,
			SessionID:   sess.SessionID,
			TicketType:  result.TicketType,
			IsVIP:       result.IsVIP,
			CheckedInAt: *result.CheckedInAt,
			Timestamp:   result.ScannedAt,
		})
		recordActivity(ctx, s.activityRepo, tenantID, domain.ActivityCheckedIn,
			fmt.Sprintf("%s checked in", result.Name), result.GuestID)
	}
	return result
}

func (s *scannerService) resolve(ctx context.Context, tenantID, guestID string) *domain.ScanResult {
	now := s.now()
	if guestID == "" {
		return domain.FlaggedScan(guestID, domain.ReasonTicketNotFound, now)
	}

	guest, err := s.guestRepo.GetByID(ctx, tenantID, guestID)
	if err != nil {
		logger.ErrorCtx(ctx, "scan lookup failed", zap.String("guest_id", guestID), zap.Error(err))
		return domain.FlaggedScan(guestID, err.Error(), now)
	}
	if guest == nil {
		return domain.FlaggedScan(guestID, domain.ReasonTicketNotFound, now)
	}
	if guest.IsCheckedIn() {
		return domain.NewScanResult(guest, domain.ScanOutcomeDuplicate, now)
	}

	if err := guest.TransitionTo(domain.GuestStatusCheckedIn, now); err != nil {
		return domain.FlaggedScan(guestID, err.Error(), now)
	}
	if err := s.guestRepo.Update(ctx, guest); err != nil {
		logger.ErrorCtx(ctx, "scan check-in failed", zap.String("guest_id", guestID), zap.Error(err))
		return domain.FlaggedScan(guestID, err.Error(), now)
	}
	return domain.NewScanResult(guest, domain.ScanOutcomeSuccess, now)
}

// track logs every attempt. Only check-ins count towards the session tally.
func (s *scannerService) track(ctx context.Context, sess *session.TenantSession, raw string, result *domain.ScanResult) {
	if ttl := sess.ExpiresAt.Sub(s.now()); ttl > 0 && result.Outcome == domain.ScanOutcomeSuccess {
		if err := s.store.RecordScan(ctx, sess.SessionID, result, ttl); err != nil {
			logger.WarnCtx(ctx, "failed to record scan in session", zap.Error(err))
		}
	}

	if s.scanLog == nil {
		return
	}
	entry := &domain.ScanLogEntry{
		TenantID:  sess.Tenant(),
		SessionID: sess.SessionID,
		ScannedBy: sess.UserID,
		Raw:       raw,
		GuestID:   result.GuestID,
		Outcome:   result.Outcome,
		Reason:    result.Reason,
		ScannedAt: result.ScannedAt,
	}
	if err := s.scanLog.Append(ctx, entry); err != nil {
		logger.WarnCtx(ctx, "failed to append scan log", zap.Error(err))
	}
}

// Session returns the scan tally of the caller's session
func (s *scannerService) Session(ctx context.Context, sess *session.TenantSession) (*domain.ScannerSession, error) {
	return s.store.ScannerSession(ctx, sess.SessionID)
}

// Log returns the newest scan attempts of a tenant
func (s *scannerService) Log(ctx context.Context, tenantID string, limit int) ([]*domain.ScanLogEntry, error) {
	if limit <= 0 {
		limit = DefaultScanLogLimit
	}
	if s.scanLog == nil {
		return []*domain.ScanLogEntry{}, nil
	}
	return s.scanLog.Recent(ctx, tenantID, limit)
}
