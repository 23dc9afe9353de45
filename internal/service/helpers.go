package service

import (
	"context"
	"math"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/AkiliNova/in-vent/internal/repository"
	"github.com/AkiliNova/in-vent/pkg/kafka"
	"github.com/AkiliNova/in-vent/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// publish sends a domain event; a broker failure never fails the request
func publish(ctx context.Context, producer kafka.Producer, topic string, msg kafka.Message) {
	if producer == nil {
		return
	}
	if err := producer.Publish(ctx, topic, msg); err != nil {
		logger.WarnCtx(ctx, "failed to publish event",
			zap.String("topic", topic),
			zap.String("key", msg.Key()),
			zap.Error(err),
		)
	}
}

// recordActivity appends to the tenant's activity feed; failures are logged only
func recordActivity(ctx context.Context, repo repository.ActivityRepository, tenantID string, typ domain.ActivityType, message, subjectID string) {
	if repo == nil {
		return
	}
	activity := &domain.Activity{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Type:      typ,
		Message:   message,
		SubjectID: subjectID,
		CreatedAt: time.Now(),
	}
	if err := repo.Create(ctx, activity); err != nil {
		logger.WarnCtx(ctx, "failed to record activity",
			zap.String("type", string(typ)),
			zap.String("subject_id", subjectID),
			zap.Error(err),
		)
	}
}

func totalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
