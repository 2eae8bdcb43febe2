package management

import (
	"context"
	"fmt"
	"testing"
	"time"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"
	"crm_backend/internal/leads/transport"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	leads      map[uuid.UUID]repository.Lead
	activities []repository.CreateActivityParams
	nextCode   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{leads: map[uuid.UUID]repository.Lead{}}
}

func (f *fakeRepo) Create(ctx context.Context, params repository.CreateLeadParams) (repository.Lead, error) {
	f.nextCode++
	lead := repository.Lead{
		ID:               uuid.New(),
		Code:             codeFor(f.nextCode),
		Name:             params.Name,
		Email:            params.Email,
		Phone:            params.Phone,
		MessagingHandle:  params.MessagingHandle,
		Sources:          params.Sources,
		ProductInterests: params.ProductInterests,
		Tags:             params.Tags,
		Stage:            params.Stage,
		AssignedUserID:   params.AssignedUserID,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	f.leads[lead.ID] = lead
	return lead, nil
}

func codeFor(n int) string {
	return fmt.Sprintf("LD-%04d", n)
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (f *fakeRepo) List(ctx context.Context, params repository.ListParams) ([]repository.Lead, int, error) {
	items := make([]repository.Lead, 0, len(f.leads))
	for _, lead := range f.leads {
		if params.Stage != nil && lead.Stage != *params.Stage {
			continue
		}
		items = append(items, lead)
	}
	return items, len(items), nil
}

func (f *fakeRepo) Update(ctx context.Context, id uuid.UUID, params repository.UpdateLeadParams) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	if params.Name != nil {
		lead.Name = *params.Name
	}
	if params.EmailSet {
		lead.Email = params.Email
	}
	if params.Phone != nil {
		lead.Phone = *params.Phone
		lead.MessagingHandle = params.MessagingHandle
	}
	if params.Sources != nil {
		lead.Sources = params.Sources
	}
	if params.AssignedUserIDSet {
		lead.AssignedUserID = params.AssignedUserID
	}
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) UpdateRating(ctx context.Context, id uuid.UUID, rating *int) (repository.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return repository.Lead{}, repository.ErrNotFound
	}
	lead.Rating = rating
	f.leads[id] = lead
	return lead, nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := f.leads[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.leads, id)
	return nil
}

func (f *fakeRepo) CreateActivity(ctx context.Context, params repository.CreateActivityParams) (repository.Activity, error) {
	f.activities = append(f.activities, params)
	return repository.Activity{ID: uuid.New(), Type: params.Type}, nil
}

type recordingBus struct {
	published []events.Event
}

func (b *recordingBus) Publish(ctx context.Context, event events.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(eventName string, handler events.Handler) {}

func newTestService() (*Service, *fakeRepo, *recordingBus) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	return NewService(repo, bus, logger.New("development")), repo, bus
}

func TestCreateNormalizesPhoneAndDefaultsStage(t *testing.T) {
	svc, _, bus := newTestService()

	resp, err := svc.Create(context.Background(), uuid.New(), transport.CreateLeadRequest{
		Name:    "Dana Fischer",
		Phone:   "(212) 555-0175",
		Sources: []string{"referral", "website"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Phone != "+12125550175" {
		t.Fatalf("expected normalized phone, got %q", resp.Phone)
	}
	if resp.MessagingHandle == nil || *resp.MessagingHandle != "12125550175" {
		t.Fatalf("expected derived messaging handle, got %v", resp.MessagingHandle)
	}
	if resp.Stage != domain.StageNew {
		t.Fatalf("new leads must start at stage new, got %q", resp.Stage)
	}
	if len(resp.Sources) != 2 {
		t.Fatalf("expected both sources kept, got %v", resp.Sources)
	}
	if len(bus.published) != 1 || bus.published[0].EventName() != "leads.created" {
		t.Fatalf("expected one created event, got %v", bus.published)
	}
}

func TestCreateRejectsInvalidPhone(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), uuid.New(), transport.CreateLeadRequest{
		Name:    "Bad Phone",
		Phone:   "12",
		Sources: []string{"website"},
	})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreatePublicRecordsIntakeMessage(t *testing.T) {
	svc, repo, _ := newTestService()

	resp, err := svc.CreatePublic(context.Background(), transport.PublicLeadRequest{
		Name:    "Walk In",
		Phone:   "+12125550175",
		Source:  "website",
		Message: "please call after 5pm",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AssignedUserID != nil {
		t.Fatal("public intake must never assign an owner")
	}
	if len(repo.activities) != 1 {
		t.Fatalf("expected the intake message as a ledger entry, got %d", len(repo.activities))
	}
	if repo.activities[0].Type != repository.ActivityTypeNote {
		t.Fatalf("expected a note entry, got %q", repo.activities[0].Type)
	}
	if repo.activities[0].CreatedBy != uuid.Nil {
		t.Fatal("public intake entries have no acting user")
	}
}

func TestAssignRecordsHandover(t *testing.T) {
	svc, repo, bus := newTestService()
	actor := uuid.New()
	newOwner := uuid.New()

	created, err := svc.Create(context.Background(), actor, transport.CreateLeadRequest{
		Name:    "Dana Fischer",
		Phone:   "+12125550175",
		Sources: []string{"referral"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	resp, err := svc.Assign(context.Background(), created.ID, actor, &newOwner)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AssignedUserID == nil || *resp.AssignedUserID != newOwner {
		t.Fatal("expected lead assigned to the new owner")
	}

	if len(repo.activities) != 1 {
		t.Fatalf("expected one assignment entry, got %d", len(repo.activities))
	}
	entry := repo.activities[0]
	if entry.Type != repository.ActivityTypeAssignmentChange {
		t.Fatalf("expected assignment_change, got %q", entry.Type)
	}
	if entry.Metadata["from"] != nil {
		t.Fatalf("expected nil previous owner, got %v", entry.Metadata["from"])
	}
	if entry.Metadata["to"] != newOwner.String() {
		t.Fatalf("expected new owner in metadata, got %v", entry.Metadata["to"])
	}

	var sawAssigned bool
	for _, e := range bus.published {
		if e.EventName() == "leads.assigned" {
			sawAssigned = true
		}
	}
	if !sawAssigned {
		t.Fatal("expected an assigned event")
	}
}

func TestRateBoundsAndClear(t *testing.T) {
	svc, _, _ := newTestService()
	created, err := svc.Create(context.Background(), uuid.New(), transport.CreateLeadRequest{
		Name:    "Dana Fischer",
		Phone:   "+12125550175",
		Sources: []string{"referral"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	six := 6
	if _, err := svc.Rate(context.Background(), created.ID, &six); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for out-of-range rating, got %v", err)
	}

	four := 4
	rated, err := svc.Rate(context.Background(), created.ID, &four)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rated.Rating == nil || *rated.Rating != 4 {
		t.Fatalf("expected rating 4, got %v", rated.Rating)
	}

	cleared, err := svc.Rate(context.Background(), created.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cleared.Rating != nil {
		t.Fatal("nil rating must clear the stored value")
	}
}

func TestListRejectsUnknownStageFilter(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.List(context.Background(), transport.ListLeadsRequest{Stage: "archived"})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteMissingLead(t *testing.T) {
	svc, _, _ := newTestService()

	err := svc.Delete(context.Background(), uuid.New())
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
