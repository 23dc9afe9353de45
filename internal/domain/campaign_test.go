package domain

import (
	"testing"
	"time"
)

func TestCampaignStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from CampaignStatus
		to   CampaignStatus
		want bool
	}{
		{CampaignStatusDraft, CampaignStatusScheduled, true},
		{CampaignStatusDraft, CampaignStatusSending, true},
		{CampaignStatusDraft, CampaignStatusSent, true},
		{CampaignStatusScheduled, CampaignStatusDraft, true},
		{CampaignStatusScheduled, CampaignStatusSent, true},
		{CampaignStatusSending, CampaignStatusSent, true},
		{CampaignStatusSending, CampaignStatusDraft, false},
		{CampaignStatusSent, CampaignStatusDraft, false},
		{CampaignStatusSent, CampaignStatusSending, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Errorf("%s -> %s: expected %v, got %v", tt.from, tt.to, tt.want, got)
		}
	}

	if !CampaignStatusSent.IsTerminal() {
		t.Error("Expected sent to be terminal")
	}
}

func TestCampaign_MarkSent(t *testing.T) {
	now := time.Now()
	c := &Campaign{Status: CampaignStatusDraft, Opened: 4, Clicked: 2}

	if err := c.MarkSent(150, now); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if c.Sent != 150 || c.Delivered != 150 {
		t.Errorf("Expected sent=delivered=150, got %d/%d", c.Sent, c.Delivered)
	}
	if c.Opened != 0 || c.Clicked != 0 {
		t.Errorf("Expected opened=clicked=0, got %d/%d", c.Opened, c.Clicked)
	}
	if c.SentAt == nil {
		t.Error("Expected sent_at to be set")
	}

	if err := c.MarkSent(150, now); err != ErrInvalidCampaignTransition {
		t.Errorf("Expected ErrInvalidCampaignTransition on second send, got %v", err)
	}
}

func TestAudienceCount(t *testing.T) {
	tests := map[string]int{"all": 1200, "checked-in": 847, "pending": 353, "vip": 150}
	for value, want := range tests {
		got, ok := AudienceCount(value)
		if !ok || got != want {
			t.Errorf("AudienceCount(%s) = %d,%v want %d", value, got, ok, want)
		}
	}
	if _, ok := AudienceCount("speakers"); ok {
		t.Error("Expected unknown audience to be rejected")
	}
}

func TestRoom_OccupancyPercent(t *testing.T) {
	tests := []struct {
		current, max, want int
	}{
		{50, 100, 50},
		{1, 3, 33},
		{0, 0, 0},
		{120, 100, 120},
	}
	for _, tt := range tests {
		r := &Room{Current: tt.current, Max: tt.max}
		if got := r.OccupancyPercent(); got != tt.want {
			t.Errorf("OccupancyPercent(%d/%d) = %d, want %d", tt.current, tt.max, got, tt.want)
		}
	}
}
