package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/AkiliNova/in-vent/internal/domain"
	"github.com/AkiliNova/in-vent/internal/gateway"
	"github.com/AkiliNova/in-vent/internal/repository"
	"github.com/AkiliNova/in-vent/internal/uploader"
	"github.com/AkiliNova/in-vent/pkg/kafka"
)

// In-memory fakes of the repositories and remote collaborators.
// Records are copied in and out so services only see what they persisted.

var errBoom = errors.New("boom")

type fakeTenantRepo struct {
	mu        sync.Mutex
	tenants   map[string]*domain.Tenant
	admins    *fakeAdminRepo
	settings  *fakeSettingsRepo
	createErr error
}

func newFakeTenantRepo(admins *fakeAdminRepo, settings *fakeSettingsRepo) *fakeTenantRepo {
	return &fakeTenantRepo{tenants: map[string]*domain.Tenant{}, admins: admins, settings: settings}
}

func (r *fakeTenantRepo) add(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tenants[id] = &domain.Tenant{ID: id, OrganizationName: "Org " + id}
}

func (r *fakeTenantRepo) CreateWithAdmin(ctx context.Context, tenant *domain.Tenant, admin *domain.Admin, settings *domain.AppSettings) error {
	if r.createErr != nil {
		return r.createErr
	}
	if r.admins != nil {
		if existing, _ := r.admins.GetByEmail(ctx, admin.Email); existing != nil {
			return repository.ErrDuplicateEmail
		}
		r.admins.add(admin)
	}
	if r.settings != nil {
		_ = r.settings.Upsert(ctx, settings)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t := *tenant
	r.tenants[tenant.ID] = &t
	return nil
}

func (r *fakeTenantRepo) GetByID(ctx context.Context, id string) (*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tenants[id]
	if !ok {
		return nil, nil
	}
	out := *t
	return &out, nil
}

type fakeAdminRepo struct {
	mu         sync.Mutex
	admins     map[string]*domain.Admin
	lastLogins map[string]int
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{admins: map[string]*domain.Admin{}, lastLogins: map[string]int{}}
}

func (r *fakeAdminRepo) add(a *domain.Admin) {
	r.mu.Lock()
	defer r.mu.Unlock()
	admin := *a
	r.admins[a.ID] = &admin
}

func (r *fakeAdminRepo) GetByID(ctx context.Context, id string) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.admins[id]
	if !ok {
		return nil, nil
	}
	out := *a
	return &out, nil
}

func (r *fakeAdminRepo) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.admins {
		if strings.EqualFold(a.Email, email) {
			out := *a
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeAdminRepo) UpdateLastLogin(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastLogins[id]++
	return nil
}

type fakeFieldRepo struct {
	mu     sync.Mutex
	fields map[string]*domain.FieldDefinition
}

func newFakeFieldRepo(defs ...*domain.FieldDefinition) *fakeFieldRepo {
	r := &fakeFieldRepo{fields: map[string]*domain.FieldDefinition{}}
	for _, d := range defs {
		_ = r.Create(context.Background(), d)
	}
	return r
}

func (r *fakeFieldRepo) Create(ctx context.Context, field *domain.FieldDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f := *field
	r.fields[field.ID] = &f
	return nil
}

func (r *fakeFieldRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.FieldDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fields[id]
	if !ok || f.TenantID != tenantID {
		return nil, nil
	}
	out := *f
	return &out, nil
}

func (r *fakeFieldRepo) ListByTenant(ctx context.Context, tenantID string) ([]*domain.FieldDefinition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.FieldDefinition
	for _, f := range r.fields {
		if f.TenantID == tenantID {
			c := *f
			out = append(out, &c)
		}
	}
	return domain.SortFields(out), nil
}

func (r *fakeFieldRepo) Update(ctx context.Context, field *domain.FieldDefinition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.fields[field.ID]
	if !ok || existing.TenantID != field.TenantID {
		return repository.ErrNotFound
	}
	f := *field
	r.fields[field.ID] = &f
	return nil
}

func (r *fakeFieldRepo) Delete(ctx context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.fields[id]
	if !ok || existing.TenantID != tenantID {
		return repository.ErrNotFound
	}
	delete(r.fields, id)
	return nil
}

type fakeGuestRepo struct {
	mu        sync.Mutex
	guests    map[string]*domain.Guest
	getErr    error
	updateErr error
	updates   int
}

func newFakeGuestRepo(guests ...*domain.Guest) *fakeGuestRepo {
	r := &fakeGuestRepo{guests: map[string]*domain.Guest{}}
	for _, g := range guests {
		_ = r.Create(context.Background(), g)
	}
	return r
}

func (r *fakeGuestRepo) Create(ctx context.Context, guest *domain.Guest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := *guest
	r.guests[guest.ID] = &g
	return nil
}

func (r *fakeGuestRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	g, ok := r.guests[id]
	if !ok || g.TenantID != tenantID {
		return nil, nil
	}
	out := *g
	return &out, nil
}

func (r *fakeGuestRepo) FindByEmail(ctx context.Context, tenantID, email string) (*domain.Guest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, g := range r.guests {
		if g.TenantID == tenantID && strings.EqualFold(g.Email, email) {
			out := *g
			return &out, nil
		}
	}
	return nil, nil
}

func (r *fakeGuestRepo) List(ctx context.Context, tenantID string, filter repository.GuestFilter) ([]*domain.Guest, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := map[string]bool{}
	for _, id := range filter.IDs {
		ids[id] = true
	}
	var matched []*domain.Guest
	for _, g := range r.guests {
		if g.TenantID != tenantID {
			continue
		}
		if len(ids) > 0 && !ids[g.ID] {
			continue
		}
		if filter.Status != "" && string(g.Status) != filter.Status {
			continue
		}
		if filter.TicketType != "" && g.TicketType() != filter.TicketType {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(g.Name()+" "+g.Email), strings.ToLower(filter.Search)) {
			continue
		}
		c := *g
		matched = append(matched, &c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].RegisteredAt.After(matched[j].RegisteredAt) })

	total := len(matched)
	if filter.Limit > 0 {
		start := (filter.Page - 1) * filter.Limit
		if start > total {
			start = total
		}
		end := start + filter.Limit
		if end > total {
			end = total
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (r *fakeGuestRepo) Update(ctx context.Context, guest *domain.Guest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	existing, ok := r.guests[guest.ID]
	if !ok || existing.TenantID != guest.TenantID {
		return repository.ErrNotFound
	}
	g := *guest
	r.guests[guest.ID] = &g
	r.updates++
	return nil
}

func (r *fakeGuestRepo) Delete(ctx context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.guests[id]
	if !ok || existing.TenantID != tenantID {
		return repository.ErrNotFound
	}
	delete(r.guests, id)
	return nil
}

func (r *fakeGuestRepo) CountByStatus(ctx context.Context, tenantID string) (map[domain.GuestStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := map[domain.GuestStatus]int{}
	for _, g := range r.guests {
		if g.TenantID == tenantID {
			counts[g.Status]++
		}
	}
	return counts, nil
}

func (r *fakeGuestRepo) stored(id string) *domain.Guest {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.guests[id]
	if !ok {
		return nil
	}
	out := *g
	return &out
}

type fakeActivityRepo struct {
	mu         sync.Mutex
	activities []*domain.Activity
}

func (r *fakeActivityRepo) Create(ctx context.Context, activity *domain.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := *activity
	r.activities = append(r.activities, &a)
	return nil
}

func (r *fakeActivityRepo) ListRecent(ctx context.Context, tenantID string, limit int) ([]*domain.Activity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Activity
	for i := len(r.activities) - 1; i >= 0 && len(out) < limit; i-- {
		if r.activities[i].TenantID == tenantID {
			a := *r.activities[i]
			out = append(out, &a)
		}
	}
	return out, nil
}

func (r *fakeActivityRepo) types() []domain.ActivityType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.ActivityType, 0, len(r.activities))
	for _, a := range r.activities {
		out = append(out, a.Type)
	}
	return out
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings map[string]*domain.AppSettings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: map[string]*domain.AppSettings{}}
}

func (r *fakeSettingsRepo) Get(ctx context.Context, tenantID string) (*domain.AppSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[tenantID]
	if !ok {
		return nil, nil
	}
	out := *s
	return &out, nil
}

func (r *fakeSettingsRepo) Upsert(ctx context.Context, settings *domain.AppSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := *settings
	r.settings[settings.TenantID] = &s
	return nil
}

type fakeCampaignRepo struct {
	mu        sync.Mutex
	campaigns map[string]*domain.Campaign
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{campaigns: map[string]*domain.Campaign{}}
}

func (r *fakeCampaignRepo) Create(ctx context.Context, campaign *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *campaign
	r.campaigns[campaign.ID] = &c
	return nil
}

func (r *fakeCampaignRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok || c.TenantID != tenantID {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (r *fakeCampaignRepo) List(ctx context.Context, tenantID string, status, campaignType string, page, limit int) ([]*domain.Campaign, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Campaign
	for _, c := range r.campaigns {
		if c.TenantID != tenantID {
			continue
		}
		if status != "" && string(c.Status) != status {
			continue
		}
		if campaignType != "" && string(c.Type) != campaignType {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeCampaignRepo) Update(ctx context.Context, campaign *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.campaigns[campaign.ID]; !ok {
		return repository.ErrNotFound
	}
	c := *campaign
	r.campaigns[campaign.ID] = &c
	return nil
}

func (r *fakeCampaignRepo) Delete(ctx context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok || c.TenantID != tenantID {
		return repository.ErrNotFound
	}
	delete(r.campaigns, id)
	return nil
}

type fakeRoomRepo struct {
	mu    sync.Mutex
	rooms map[string]*domain.Room
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: map[string]*domain.Room{}}
}

func (r *fakeRoomRepo) Create(ctx context.Context, room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c := *room
	r.rooms[room.ID] = &c
	return nil
}

func (r *fakeRoomRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rooms[id]
	if !ok || c.TenantID != tenantID {
		return nil, nil
	}
	out := *c
	return &out, nil
}

func (r *fakeRoomRepo) ListByTenant(ctx context.Context, tenantID string) ([]*domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Room
	for _, c := range r.rooms {
		if c.TenantID == tenantID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeRoomRepo) Update(ctx context.Context, room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[room.ID]; !ok {
		return repository.ErrNotFound
	}
	c := *room
	r.rooms[room.ID] = &c
	return nil
}

func (r *fakeRoomRepo) Delete(ctx context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rooms[id]
	if !ok || c.TenantID != tenantID {
		return repository.ErrNotFound
	}
	delete(r.rooms, id)
	return nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string]*domain.Event
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	r := &fakeEventRepo{events: map[string]*domain.Event{}}
	for _, e := range events {
		_ = r.Create(context.Background(), e)
	}
	return r
}

func (r *fakeEventRepo) Create(ctx context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := *event
	e.Images = append([]string{}, event.Images...)
	r.events[event.ID] = &e
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, tenantID, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.TenantID != tenantID {
		return nil, nil
	}
	out := *e
	out.Images = append([]string{}, e.Images...)
	return &out, nil
}

func (r *fakeEventRepo) List(ctx context.Context, tenantID string, page, limit int, search string) ([]*domain.Event, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Event
	for _, e := range r.events {
		if e.TenantID == tenantID && strings.Contains(strings.ToLower(e.Title), strings.ToLower(search)) {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, len(out), nil
}

func (r *fakeEventRepo) ListUpcoming(ctx context.Context, tenantID string, from time.Time, excludeID string, limit int) ([]*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Event
	for _, e := range r.events {
		if e.TenantID == tenantID && e.ID != excludeID && e.IsUpcoming(from) {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		return repository.ErrNotFound
	}
	e := *event
	r.events[event.ID] = &e
	return nil
}

func (r *fakeEventRepo) AppendImages(ctx context.Context, tenantID, id string, urls []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	e.Images = append(e.Images, urls...)
	return append([]string{}, e.Images...), nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, tenantID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.TenantID != tenantID {
		return repository.ErrNotFound
	}
	delete(r.events, id)
	return nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*domain.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}}
}

func (r *fakeTicketRepo) Upsert(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := *ticket
	r.tickets[ticket.MerchantReference] = &t
	return nil
}

func (r *fakeTicketRepo) GetByMerchantReference(ctx context.Context, reference string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tickets[reference]
	if !ok {
		return nil, nil
	}
	out := *t
	return &out, nil
}

type fakeScanLog struct {
	mu      sync.Mutex
	entries []*domain.ScanLogEntry
}

func (r *fakeScanLog) Append(ctx context.Context, entry *domain.ScanLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := *entry
	r.entries = append(r.entries, &e)
	return nil
}

func (r *fakeScanLog) Recent(ctx context.Context, tenantID string, limit int) ([]*domain.ScanLogEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.ScanLogEntry
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].TenantID == tenantID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

type published struct {
	topic string
	msg   kafka.Message
}

type fakeProducer struct {
	mu       sync.Mutex
	messages []published
	err      error
}

func (p *fakeProducer) Publish(ctx context.Context, topic string, msg kafka.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, published{topic: topic, msg: msg})
	return nil
}

func (p *fakeProducer) Close() {}

func (p *fakeProducer) topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.messages))
	for _, m := range p.messages {
		out = append(out, m.topic)
	}
	return out
}

type fakeGateway struct {
	created   []*gateway.CreatePaymentRequest
	createErr error
	status    *gateway.PaymentStatus
	verifyErr error
}

func (g *fakeGateway) CreatePayment(ctx context.Context, req *gateway.CreatePaymentRequest) (*gateway.CreatePaymentResponse, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created = append(g.created, req)
	return &gateway.CreatePaymentResponse{
		IframeURL:       "https://pay.example.com/frame/" + req.MerchantReference,
		OrderTrackingID: "track-" + req.MerchantReference,
	}, nil
}

func (g *fakeGateway) VerifyPayment(ctx context.Context, orderTrackingID string) (*gateway.PaymentStatus, error) {
	if g.verifyErr != nil {
		return nil, g.verifyErr
	}
	return g.status, nil
}

func (g *fakeGateway) Name() string { return "fake" }

type fakeUploader struct {
	folders []string
	err     error
}

func (u *fakeUploader) Upload(ctx context.Context, folder string, files []uploader.File) ([]string, error) {
	if u.err != nil {
		return nil, u.err
	}
	u.folders = append(u.folders, folder)
	urls := make([]string, 0, len(files))
	for _, f := range files {
		urls = append(urls, "https://cdn.example.com/"+folder+"/"+f.Name)
	}
	return urls, nil
}
