package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/AkiliNova/in-vent/internal/dto"
	"github.com/AkiliNova/in-vent/internal/export"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestGuest(id, email string, status domain.GuestStatus) *domain.Guest {
	now := time.Now()
	g := &domain.Guest{
		ID:            id,
		TenantID:      testTenant,
		FirstName:     "Guest",
		LastName:      id,
		Email:         email,
		GuestCategory: domain.CategoryGuest,
		Status:        status,
		AmountPaid:    decimal.Zero,
		CustomFields:  map[string]interface{}{},
		RegisteredAt:  now,
		UpdatedAt:     now,
	}
	if status == domain.GuestStatusCheckedIn {
		g.CheckedInAt = &now
	}
	return g
}

func TestGuestService_ListAndGet(t *testing.T) {
	guests := newFakeGuestRepo(
		newTestGuest("g1", "one@example.com", domain.GuestStatusPending),
		newTestGuest("g2", "two@example.com", domain.GuestStatusCheckedIn),
		newTestGuest("g3", "three@example.com", domain.GuestStatusPending),
	)
	svc := NewGuestService(guests, newFakeFieldRepo(), &fakeActivityRepo{}, nil)
	ctx := context.Background()

	resp, err := svc.ListGuests(ctx, testTenant, &dto.ListGuestsQuery{Status: "pending", Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, 1, resp.Page)
	require.Len(t, resp.Guests, 1)
	assert.Equal(t, domain.CategoryGuest, resp.Guests[0].TicketType)

	g, err := svc.GetGuest(ctx, testTenant, "g2")
	require.NoError(t, err)
	assert.Equal(t, "two@example.com", g.Email)

	_, err = svc.GetGuest(ctx, "other-tenant", "g2")
	assert.ErrorIs(t, err, ErrGuestNotFound)
}

func TestGuestService_UpdateGuest(t *testing.T) {
	guests := newFakeGuestRepo(
		newTestGuest("g1", "one@example.com", domain.GuestStatusPending),
		newTestGuest("g2", "two@example.com", domain.GuestStatusPending),
	)
	svc := NewGuestService(guests, newFakeFieldRepo(), &fakeActivityRepo{}, nil)
	ctx := context.Background()

	t.Run("email taken by another guest", func(t *testing.T) {
		email := "TWO@example.com"
		_, err := svc.UpdateGuest(ctx, testTenant, "g1", &dto.UpdateGuestRequest{Email: &email})
		assert.ErrorIs(t, err, ErrDuplicateGuest)
	})

	t.Run("same email with different case", func(t *testing.T) {
		email := "ONE@example.com"
		g, err := svc.UpdateGuest(ctx, testTenant, "g1", &dto.UpdateGuestRequest{Email: &email})
		require.NoError(t, err)
		assert.Equal(t, "ONE@example.com", g.Email)
	})

	t.Run("status through the table", func(t *testing.T) {
		status := string(domain.GuestStatusNoShow)
		paid := decimal.NewFromInt(1500)
		g, err := svc.UpdateGuest(ctx, testTenant, "g1", &dto.UpdateGuestRequest{Status: &status, AmountPaid: &paid})
		require.NoError(t, err)
		assert.Equal(t, domain.GuestStatusNoShow, g.Status)
		assert.True(t, guests.stored("g1").AmountPaid.Equal(paid))

		flagged := string(domain.GuestStatusFlagged)
		_, err = svc.UpdateGuest(ctx, testTenant, "g1", &dto.UpdateGuestRequest{Status: &flagged})
		var vErr *ValidationError
		assert.ErrorAs(t, err, &vErr)
	})

	t.Run("checked in stamps the time", func(t *testing.T) {
		status := string(domain.GuestStatusCheckedIn)
		g, err := svc.UpdateGuest(ctx, testTenant, "g2", &dto.UpdateGuestRequest{Status: &status})
		require.NoError(t, err)
		assert.NotNil(t, g.CheckedInAt)
	})

	t.Run("missing guest", func(t *testing.T) {
		name := "X"
		_, err := svc.UpdateGuest(ctx, testTenant, "nope", &dto.UpdateGuestRequest{FirstName: &name})
		assert.ErrorIs(t, err, ErrGuestNotFound)
	})
}

func TestGuestService_ToggleCheckIn(t *testing.T) {
	guests := newFakeGuestRepo(newTestGuest("g1", "one@example.com", domain.GuestStatusFlagged))
	activities := &fakeActivityRepo{}
	svc := NewGuestService(guests, newFakeFieldRepo(), activities, nil)
	ctx := context.Background()

	g, err := svc.ToggleCheckIn(ctx, testTenant, "g1")
	require.NoError(t, err)
	assert.Equal(t, domain.GuestStatusCheckedIn, g.Status)
	require.NotNil(t, g.CheckedInAt)

	g, err = svc.ToggleCheckIn(ctx, testTenant, "g1")
	require.NoError(t, err)
	assert.Equal(t, domain.GuestStatusPending, g.Status)
	assert.Nil(t, g.CheckedInAt)
	assert.Nil(t, guests.stored("g1").CheckedInAt)

	assert.Equal(t, []domain.ActivityType{domain.ActivityCheckedIn, domain.ActivityCheckInUndone}, activities.types())
}

func TestGuestService_DeleteGuest(t *testing.T) {
	guests := newFakeGuestRepo(newTestGuest("g1", "one@example.com", domain.GuestStatusPending))
	svc := NewGuestService(guests, newFakeFieldRepo(), &fakeActivityRepo{}, nil)
	ctx := context.Background()

	require.NoError(t, svc.DeleteGuest(ctx, testTenant, "g1"))
	assert.ErrorIs(t, svc.DeleteGuest(ctx, testTenant, "g1"), ErrGuestNotFound)
}

func TestGuestService_ExportGuests(t *testing.T) {
	g1 := newTestGuest("g1", "one@example.com", domain.GuestStatusPending)
	g1.CustomFields = map[string]interface{}{"org": "Acme"}
	g2 := newTestGuest("g2", "two@example.com", domain.GuestStatusCheckedIn)
	guests := newFakeGuestRepo(g1, g2)
	fields := newFakeFieldRepo(&domain.FieldDefinition{ID: "org", TenantID: testTenant, Label: "Organisation", Type: domain.FieldTypeText, Step: 1, Enabled: true})
	svc := NewGuestService(guests, fields, &fakeActivityRepo{}, nil)
	ctx := context.Background()

	file, err := svc.ExportGuests(ctx, testTenant, []string{"g1"})
	require.NoError(t, err)
	assert.Equal(t, 1, file.Rows)
	assert.Equal(t, export.ContentType, file.ContentType)
	assert.Contains(t, file.Filename, ".xlsx")

	book, err := excelize.OpenReader(bytes.NewReader(file.Content))
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Organisation", rows[0][len(rows[0])-1])
	assert.Equal(t, "Acme", rows[1][len(rows[1])-1])

	all, err := svc.ExportGuests(ctx, testTenant, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, all.Rows)
}
