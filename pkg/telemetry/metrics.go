package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricOpts holds options for creating metrics
type MetricOpts struct {
	Name        string
	Description string
	Unit        string
}

// Counter wraps an OTel counter
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a counter on the global meter
func NewCounter(opts MetricOpts) (*Counter, error) {
	counter, err := GetMeter().Int64Counter(
		opts.Name,
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	)
	if err != nil {
		return nil, err
	}
	return &Counter{counter: counter}, nil
}

// Add increments the counter by value
func (c *Counter) Add(ctx context.Context, value int64, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

// Inc increments the counter by 1
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// Histogram wraps an OTel histogram
type Histogram struct {
	histogram metric.Float64Histogram
}

// NewHistogram creates a histogram on the global meter, with explicit buckets when given
func NewHistogram(opts MetricOpts, boundaries ...float64) (*Histogram, error) {
	hopts := []metric.Float64HistogramOption{
		metric.WithDescription(opts.Description),
		metric.WithUnit(opts.Unit),
	}
	if len(boundaries) > 0 {
		hopts = append(hopts, metric.WithExplicitBucketBoundaries(boundaries...))
	}
	histogram, err := GetMeter().Float64Histogram(opts.Name, hopts...)
	if err != nil {
		return nil, err
	}
	return &Histogram{histogram: histogram}, nil
}

// Record records a value in the histogram
func (h *Histogram) Record(ctx context.Context, value float64, attrs ...attribute.KeyValue) {
	h.histogram.Record(ctx, value, metric.WithAttributes(attrs...))
}

// Metrics holds the business instruments recorded by the services
type Metrics struct {
	GuestsRegistered *Counter
	CheckIns         *Counter
	ScanLatency      *Histogram
	CampaignMessages *Counter
	Payments         *Counter
	ExportRows       *Counter
}

// NewMetrics creates every business instrument on the global meter
func NewMetrics() (*Metrics, error) {
	var errs []error
	counter := func(name, desc string) *Counter {
		c, err := NewCounter(MetricOpts{Name: name, Description: desc, Unit: "1"})
		errs = append(errs, err)
		return c
	}

	m := &Metrics{
		GuestsRegistered: counter("invent.guests.registered", "Guests registered through the public form"),
		CheckIns:         counter("invent.checkins", "Scanner check-in attempts by outcome"),
		CampaignMessages: counter("invent.campaign.messages", "Campaign messages sent"),
		Payments:         counter("invent.payments", "Payment attempts by status"),
		ExportRows:       counter("invent.export.rows", "Guest rows written to exports"),
	}

	scan, err := NewHistogram(MetricOpts{
		Name:        "invent.scan.duration",
		Description: "Time to resolve a scanned ticket",
		Unit:        "ms",
	}, 1, 5, 10, 25, 50, 100, 250, 500, 1000)
	errs = append(errs, err)
	m.ScanLatency = scan

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordCheckIn counts one scan with its outcome and latency
func (m *Metrics) RecordCheckIn(ctx context.Context, tenantID, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{TenantIDAttr(tenantID), ScanOutcomeAttr(outcome)}
	m.CheckIns.Inc(ctx, attrs...)
	m.ScanLatency.Record(ctx, float64(elapsed.Microseconds())/1000, attrs...)
}

// RecordManualCheckIn counts a check-in toggled from the guest table, labelled with the resulting status
func (m *Metrics) RecordManualCheckIn(ctx context.Context, tenantID, status string) {
	if m == nil {
		return
	}
	m.CheckIns.Inc(ctx, TenantIDAttr(tenantID), ScanOutcomeAttr(ScanOutcomeManual), GuestStatusAttr(status))
}

// RecordRegistration counts one registered guest
func (m *Metrics) RecordRegistration(ctx context.Context, tenantID, category string) {
	if m == nil {
		return
	}
	m.GuestsRegistered.Inc(ctx, TenantIDAttr(tenantID), GuestCategoryAttr(category))
}

// RecordCampaignSend counts the messages delivered by one campaign send
func (m *Metrics) RecordCampaignSend(ctx context.Context, tenantID, audience string, sent int) {
	if m == nil {
		return
	}
	m.CampaignMessages.Add(ctx, int64(sent), TenantIDAttr(tenantID), AudienceAttr(audience))
}

// RecordPayment counts one payment attempt
func (m *Metrics) RecordPayment(ctx context.Context, provider, status string) {
	if m == nil {
		return
	}
	m.Payments.Inc(ctx, PaymentProviderAttr(provider), PaymentStatusAttr(status))
}

// RecordExport counts exported guest rows
func (m *Metrics) RecordExport(ctx context.Context, tenantID string, rows int) {
	if m == nil {
		return
	}
	m.ExportRows.Add(ctx, int64(rows), TenantIDAttr(tenantID))
}

// Attribute keys shared by spans and metrics
const (
	AttrTenantID        = "tenant.id"
	AttrEventID         = "event.id"
	AttrGuestID         = "guest.id"
	AttrGuestStatus     = "guest.status"
	AttrGuestCategory   = "guest.category"
	AttrScanOutcome     = "scan.outcome"
	AttrAudience        = "campaign.audience"
	AttrPaymentProvider = "payment.provider"
	AttrPaymentStatus   = "payment.status"
)

// ScanOutcomeManual labels check-ins toggled by hand rather than scanned
const ScanOutcomeManual = "manual"

func TenantIDAttr(tenantID string) attribute.KeyValue {
	return attribute.String(AttrTenantID, tenantID)
}

func EventIDAttr(eventID string) attribute.KeyValue {
	return attribute.String(AttrEventID, eventID)
}

func GuestIDAttr(guestID string) attribute.KeyValue {
	return attribute.String(AttrGuestID, guestID)
}

func GuestStatusAttr(status string) attribute.KeyValue {
	return attribute.String(AttrGuestStatus, status)
}

func GuestCategoryAttr(category string) attribute.KeyValue {
	return attribute.String(AttrGuestCategory, category)
}

func ScanOutcomeAttr(outcome string) attribute.KeyValue {
	return attribute.String(AttrScanOutcome, outcome)
}

func AudienceAttr(audience string) attribute.KeyValue {
	return attribute.String(AttrAudience, audience)
}

func PaymentProviderAttr(provider string) attribute.KeyValue {
	return attribute.String(AttrPaymentProvider, provider)
}

func PaymentStatusAttr(status string) attribute.KeyValue {
	return attribute.String(AttrPaymentStatus, status)
}
