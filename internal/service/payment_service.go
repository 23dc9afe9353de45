package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/gateway"
	"github.com/AkiliNova/in-vent/internal/repository"
	"github.com/AkiliNova/in-vent/pkg/kafka"
	"github.com/AkiliNova/in-vent/pkg/logger"
	"github.com/AkiliNova/in-vent/pkg/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultCurrency is charged when none is configured
const DefaultCurrency = "KES"

// PaymentConfig holds the checkout settings
type PaymentConfig struct {
	Currency    string
	CallbackURL string
}

// PaymentService defines ticket checkout through a hosted payment page
type PaymentService interface {
	// Checkout prices the order and opens a payment with the gateway
	Checkout(ctx context.Context, tenantID, eventID string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
	// HandleResponse verifies the order the gateway redirected back with
	HandleResponse(ctx context.Context, query *dto.PaymentResponseQuery) (*dto.PaymentResultResponse, error)
}

type paymentService struct {
	eventRepo    repository.EventRepository
	ticketRepo   repository.TicketRepository
	activityRepo repository.ActivityRepository
	gateway      gateway.PaymentGateway
	producer     kafka.Producer
	metrics      *telemetry.Metrics
	config       PaymentConfig
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	eventRepo repository.EventRepository,
	ticketRepo repository.TicketRepository,
	activityRepo repository.ActivityRepository,
	paymentGateway gateway.PaymentGateway,
	producer kafka.Producer,
	metrics *telemetry.Metrics,
	config PaymentConfig,
) PaymentService {
	if config.Currency == "" {
		config.Currency = DefaultCurrency
	}
	return &paymentService{
		eventRepo:    eventRepo,
		ticketRepo:   ticketRepo,
		activityRepo: activityRepo,
		gateway:      paymentGateway,
		producer:     producer,
		metrics:      metrics,
		config:       config,
	}
}

// Checkout prices the order and opens a payment with the gateway
func (s *paymentService) Checkout(ctx context.Context, tenantID, eventID string, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if !req.AgreeTerms {
		return nil, invalid("Accept terms first")
	}

	event, err := s.eventRepo.GetByID(ctx, tenantID, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	total, err := OrderTotal(event, req.Quantities)
	if err != nil {
		return nil, err
	}
	if !total.IsPositive() {
		return nil, invalid("Select at least one ticket")
	}

	reference := uuid.New().String()
	first, last := splitName(req.FullName)
	description := fmt.Sprintf("Tickets for %s", event.Title)

	created, err := s.gateway.CreatePayment(ctx, &gateway.CreatePaymentRequest{
		MerchantReference: reference,
		Amount:            total,
		Currency:          s.config.Currency,
		Description:       description,
		Email:             req.Email,
		Phone:             req.Phone,
		FirstName:         first,
		LastName:          last,
		CallbackURL:       s.config.CallbackURL,
	})
	if err != nil {
		logger.ErrorCtx(ctx, "payment initialization failed",
			zap.String("provider", s.gateway.Name()),
			zap.String("event_id", eventID),
			zap.Error(err),
		)
		s.metrics.RecordPayment(ctx, s.gateway.Name(), domain.PaymentStatusFailed)
		return nil, fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	if created.MerchantReference != "" {
		reference = created.MerchantReference
	}

	now := time.Now()
	ticket := &domain.Ticket{
		MerchantReference: reference,
		TenantID:          tenantID,
		EventID:           eventID,
		FullName:          strings.TrimSpace(req.FullName),
		Email:             req.Email,
		Phone:             req.Phone,
		Quantities:        req.Quantities,
		OrderTrackingID:   created.OrderTrackingID,
		Amount:            total,
		Currency:          s.config.Currency,
		Description:       description,
		Status:            domain.PaymentStatusPending,
		Provider:          s.gateway.Name(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.ticketRepo.Upsert(ctx, ticket); err != nil {
		logger.WarnCtx(ctx, "failed to store pending ticket",
			zap.String("merchant_reference", reference),
			zap.Error(err),
		)
	}
	s.metrics.RecordPayment(ctx, s.gateway.Name(), domain.PaymentStatusPending)

	return &dto.CheckoutResponse{
		IframeURL:         created.IframeURL,
		MerchantReference: reference,
		Amount:            total,
		Currency:          s.config.Currency,
	}, nil
}

// HandleResponse verifies the order the gateway redirected back with
func (s *paymentService) HandleResponse(ctx context.Context, query *dto.PaymentResponseQuery) (*dto.PaymentResultResponse, error) {
	trackingID := strings.TrimSpace(query.OrderTrackingID)
	reference := strings.TrimSpace(query.OrderMerchantReference)
	if trackingID == "" || reference == "" {
		return nil, invalid("Missing payment reference")
	}

	result := &dto.PaymentResultResponse{
		MerchantReference: reference,
		OrderTrackingID:   trackingID,
	}

	status, err := s.gateway.VerifyPayment(ctx, trackingID)
	if err != nil {
		logger.ErrorCtx(ctx, "payment verification failed",
			zap.String("provider", s.gateway.Name()),
			zap.String("order_tracking_id", trackingID),
			zap.Error(err),
		)
		s.metrics.RecordPayment(ctx, s.gateway.Name(), domain.PaymentStatusFailed)
		result.Status = domain.PaymentStatusFailed
		result.Message = err.Error()
		return result, nil
	}

	result.Status = status.Status
	result.Message = status.Message
	s.metrics.RecordPayment(ctx, s.gateway.Name(), status.Status)
	if status.Status != domain.PaymentStatusCompleted {
		return result, nil
	}

	ticket, err := s.ticketRepo.GetByMerchantReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if ticket != nil && ticket.Status == domain.PaymentStatusCompleted {
		result.Ticket = ticket
		return result, nil
	}
	if ticket == nil {
		ticket = &domain.Ticket{
			MerchantReference: reference,
			Provider:          s.gateway.Name(),
			CreatedAt:         time.Now(),
		}
	}

	ticket.OrderTrackingID = trackingID
	ticket.Amount = status.Amount
	if status.Currency != "" {
		ticket.Currency = status.Currency
	}
	if status.Description != "" {
		ticket.Description = status.Description
	}
	ticket.Status = domain.PaymentStatusCompleted
	ticket.UpdatedAt = time.Now()

	if err := s.ticketRepo.Upsert(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to store ticket: %w", err)
	}

	logger.InfoCtx(ctx, "ticket issued",
		zap.String("merchant_reference", reference),
		zap.String("order_tracking_id", trackingID),
	)
	publish(ctx, s.producer, dto.TopicTicketIssued, &dto.TicketIssuedEvent{
		EventType:         "ticket.issued",
		TenantID:          ticket.TenantID,
		EventID:           ticket.EventID,
		MerchantReference: reference,
		OrderTrackingID:   trackingID,
		Email:             ticket.Email,
		Amount:            ticket.Amount,
		Currency:          ticket.Currency,
		Timestamp:         ticket.UpdatedAt,
	})
	if ticket.TenantID != "" {
		recordActivity(ctx, s.activityRepo, ticket.TenantID, domain.ActivityTicketIssued,
			fmt.Sprintf("Ticket paid: %s %s", ticket.Currency, ticket.Amount.StringFixed(2)), reference)
	}

	result.Ticket = ticket
	return result, nil
}

// OrderTotal sums qty × package price, falling back to the event price when nothing is selected
func OrderTotal(event *domain.Event, quantities map[string]int) (decimal.Decimal, error) {
	total := decimal.Zero
	for name, qty := range quantities {
		if qty < 0 {
			return decimal.Zero, invalid("Ticket quantities cannot be negative")
		}
		if qty == 0 {
			continue
		}
		price, ok := event.PackagePrice(name)
		if !ok {
			return decimal.Zero, invalid("Unknown ticket package " + name)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(qty))))
	}
	if total.IsZero() {
		return event.Price, nil
	}
	return total, nil
}

func splitName(full string) (string, string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], parts[1]
	}
}
