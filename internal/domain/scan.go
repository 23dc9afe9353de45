package domain

import (
	"strings"
	"time"
)

// TicketPrefix prefixes guest ids inside QR payloads
const TicketPrefix = "ticket:"

// ReasonTicketNotFound is reported for scans of unknown ids
const ReasonTicketNotFound = "Ticket not found"

// MaxRecentScans bounds the per-session recent scan list
const MaxRecentScans = 5

// TicketPayload builds the QR payload for a guest id
func TicketPayload(guestID string) string {
	return TicketPrefix + guestID
}

// ParseTicket extracts the guest id from a raw id or a ticket payload
func ParseTicket(raw string) string {
	raw = strings.TrimSpace(raw)
	return strings.TrimSpace(strings.TrimPrefix(raw, TicketPrefix))
}

// ScanOutcome is the result class of a scan
type ScanOutcome string

const (
	ScanOutcomeSuccess   ScanOutcome = "success"
	ScanOutcomeDuplicate ScanOutcome = "duplicate"
	ScanOutcomeFlagged   ScanOutcome = "flagged"
)

// ScanResult is what the scanner shows for one attempt
type ScanResult struct {
	GuestID     string      `json:"guest_id"`
	Outcome     ScanOutcome `json:"outcome"`
	Reason      string      `json:"reason,omitempty"`
	Name        string      `json:"name,omitempty"`
	Email       string      `json:"email,omitempty"`
	TicketType  string      `json:"ticket_type,omitempty"`
	IsVIP       bool        `json:"is_vip"`
	CheckedInAt *time.Time  `json:"checked_in_at,omitempty"`
	ScannedAt   time.Time   `json:"scanned_at"`
}

// NewScanResult fills the guest details of a result
func NewScanResult(g *Guest, outcome ScanOutcome, scannedAt time.Time) *ScanResult {
	return &ScanResult{
		GuestID:     g.ID,
		Outcome:     outcome,
		Name:        g.Name(),
		Email:       g.Email,
		TicketType:  g.TicketType(),
		IsVIP:       g.IsVIP(),
		CheckedInAt: g.CheckedInAt,
		ScannedAt:   scannedAt,
	}
}

// FlaggedScan builds a result for a scan that could not check anyone in
func FlaggedScan(guestID, reason string, scannedAt time.Time) *ScanResult {
	return &ScanResult{
		GuestID:   guestID,
		Outcome:   ScanOutcomeFlagged,
		Reason:    reason,
		ScannedAt: scannedAt,
	}
}

// ScannerSession is the running tally of one admin session at the scanner
type ScannerSession struct {
	ScanCount int64         `json:"scan_count"`
	Recent    []*ScanResult `json:"recent"`
}

// ScanLogEntry is one scan attempt kept in the append-only scan log
type ScanLogEntry struct {
	TenantID  string      `json:"tenant_id" bson:"tenant_id"`
	SessionID string      `json:"session_id,omitempty" bson:"session_id,omitempty"`
	ScannedBy string      `json:"scanned_by,omitempty" bson:"scanned_by,omitempty"`
	Raw       string      `json:"raw" bson:"raw"`
	GuestID   string      `json:"guest_id" bson:"guest_id"`
	Outcome   ScanOutcome `json:"outcome" bson:"outcome"`
	Reason    string      `json:"reason,omitempty" bson:"reason,omitempty"`
	ScannedAt time.Time   `json:"scanned_at" bson:"scanned_at"`
}
