package pipeline

import (
	"context"
	"errors"
	"testing"

	"crm_backend/internal/events"
	"crm_backend/internal/leads/domain"
	"crm_backend/internal/leads/repository"
	"crm_backend/platform/apperr"
	"crm_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeRepo struct {
	lead repository.Lead

	getErr      error
	updateErr   error
	activityErr error

	updateCalls   int
	activityCalls int
	lastActivity  repository.CreateActivityParams
}

func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (repository.Lead, error) {
	if f.getErr != nil {
		return repository.Lead{}, f.getErr
	}
	return f.lead, nil
}

func (f *fakeRepo) UpdateStage(ctx context.Context, id uuid.UUID, stage string) (repository.Lead, error) {
	f.updateCalls++
	if f.updateErr != nil {
		return repository.Lead{}, f.updateErr
	}
	updated := f.lead
	updated.Stage = stage
	f.lead = updated
	return updated, nil
}

func (f *fakeRepo) CreateActivity(ctx context.Context, params repository.CreateActivityParams) (repository.Activity, error) {
	f.activityCalls++
	f.lastActivity = params
	if f.activityErr != nil {
		return repository.Activity{}, f.activityErr
	}
	return repository.Activity{
		ID:          uuid.New(),
		LeadID:      params.LeadID,
		CreatedBy:   params.CreatedBy,
		Type:        params.Type,
		Description: params.Description,
		Metadata:    params.Metadata,
	}, nil
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

func (b *recordingBus) count(name string) int {
	n := 0
	for _, e := range b.published {
		if e.EventName() == name {
			n++
		}
	}
	return n
}

func newTestService(repo *fakeRepo) (*Service, *recordingBus) {
	bus := &recordingBus{}
	return NewService(repo, bus, logger.New("development")), bus
}

func testLead(stage string) repository.Lead {
	return repository.Lead{
		ID:    uuid.New(),
		Code:  "LD-0001",
		Name:  "Dana Fischer",
		Phone: "+12125550175",
		Stage: stage,
	}
}

func TestChangeStageRejectsUnknownStage(t *testing.T) {
	repo := &fakeRepo{lead: testLead(domain.StageNew)}
	svc, bus := newTestService(repo)

	_, err := svc.ChangeStage(context.Background(), repo.lead.ID, uuid.New(), "archived")
	if err == nil {
		t.Fatal("expected error for unknown stage")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got kind %v", apperr.GetKind(err))
	}
	if repo.updateCalls != 0 || repo.activityCalls != 0 {
		t.Fatalf("unknown stage must be rejected before any write, got %d updates %d activities", repo.updateCalls, repo.activityCalls)
	}
	if len(bus.published) != 0 {
		t.Fatalf("expected no events, got %d", len(bus.published))
	}
}

func TestChangeStageLeadNotFound(t *testing.T) {
	repo := &fakeRepo{getErr: repository.ErrNotFound}
	svc, _ := newTestService(repo)

	_, err := svc.ChangeStage(context.Background(), uuid.New(), uuid.New(), domain.StageContacted)
	if !apperr.Is(err, apperr.KindNotFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestChangeStageStoreUnavailable(t *testing.T) {
	repo := &fakeRepo{getErr: errors.New("connection refused")}
	svc, _ := newTestService(repo)

	_, err := svc.ChangeStage(context.Background(), uuid.New(), uuid.New(), domain.StageContacted)
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable error, got %v", err)
	}
}

func TestChangeStageSameStageIsNoOp(t *testing.T) {
	repo := &fakeRepo{lead: testLead(domain.StageQualified)}
	svc, bus := newTestService(repo)

	resp, err := svc.ChangeStage(context.Background(), repo.lead.ID, uuid.New(), domain.StageQualified)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Changed {
		t.Fatal("same-stage change must report Changed=false")
	}
	if resp.Activity != nil {
		t.Fatal("same-stage change must not produce an activity")
	}
	if repo.updateCalls != 0 {
		t.Fatalf("same-stage change must not write, got %d updates", repo.updateCalls)
	}
	if repo.activityCalls != 0 {
		t.Fatalf("same-stage change must not append to the ledger, got %d", repo.activityCalls)
	}
	if len(bus.published) != 0 {
		t.Fatalf("same-stage change must not publish events, got %d", len(bus.published))
	}
}

func TestChangeStageRecordsTransition(t *testing.T) {
	repo := &fakeRepo{lead: testLead(domain.StageNew)}
	svc, bus := newTestService(repo)
	actor := uuid.New()

	resp, err := svc.ChangeStage(context.Background(), repo.lead.ID, actor, domain.StageContacted)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Changed {
		t.Fatal("expected Changed=true")
	}
	if resp.Lead.Stage != domain.StageContacted {
		t.Fatalf("expected stage %q, got %q", domain.StageContacted, resp.Lead.Stage)
	}
	if resp.Lead.StageLabel != "Contacted" {
		t.Fatalf("expected label Contacted, got %q", resp.Lead.StageLabel)
	}
	if resp.Activity == nil {
		t.Fatal("expected an activity entry")
	}

	if repo.lastActivity.Type != repository.ActivityTypeStageChange {
		t.Fatalf("expected stage_change activity, got %q", repo.lastActivity.Type)
	}
	if got := repo.lastActivity.Metadata["old_stage"]; got != domain.StageNew {
		t.Fatalf("expected old_stage %q, got %v", domain.StageNew, got)
	}
	if got := repo.lastActivity.Metadata["new_stage"]; got != domain.StageContacted {
		t.Fatalf("expected new_stage %q, got %v", domain.StageContacted, got)
	}
	if repo.lastActivity.CreatedBy != actor {
		t.Fatal("activity must record the acting user")
	}

	if bus.count("leads.stage.changed") != 1 {
		t.Fatalf("expected one stage change event, got %d", bus.count("leads.stage.changed"))
	}
	if bus.count("leads.won") != 0 {
		t.Fatal("non-won transition must not publish a won event")
	}
}

func TestChangeStageSurvivesLedgerFailure(t *testing.T) {
	repo := &fakeRepo{
		lead:        testLead(domain.StageProposal),
		activityErr: errors.New("insert failed"),
	}
	svc, bus := newTestService(repo)

	resp, err := svc.ChangeStage(context.Background(), repo.lead.ID, uuid.New(), domain.StageNegotiation)
	if err != nil {
		t.Fatalf("stage change must stand when the ledger append fails, got %v", err)
	}
	if !resp.Changed {
		t.Fatal("expected Changed=true")
	}
	if resp.Activity != nil {
		t.Fatal("failed append must surface as a nil activity")
	}
	if repo.lead.Stage != domain.StageNegotiation {
		t.Fatalf("stage write must persist, got %q", repo.lead.Stage)
	}
	if bus.count("leads.stage.changed") != 1 {
		t.Fatal("stage change event must still publish after a ledger failure")
	}
}

func TestChangeStagePublishesWonOncePerEntry(t *testing.T) {
	repo := &fakeRepo{lead: testLead(domain.StageNegotiation)}
	svc, bus := newTestService(repo)
	actor := uuid.New()

	if _, err := svc.ChangeStage(context.Background(), repo.lead.ID, actor, domain.StageWon); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bus.count("leads.won") != 1 {
		t.Fatalf("expected one won event, got %d", bus.count("leads.won"))
	}

	// Repeating the request while already won is a no-op and must not
	// publish a second celebration.
	if _, err := svc.ChangeStage(context.Background(), repo.lead.ID, actor, domain.StageWon); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bus.count("leads.won") != 1 {
		t.Fatalf("repeat won request must not publish again, got %d", bus.count("leads.won"))
	}

	// Reopening and winning again is a fresh transition into won.
	if _, err := svc.ChangeStage(context.Background(), repo.lead.ID, actor, domain.StageNegotiation); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.ChangeStage(context.Background(), repo.lead.ID, actor, domain.StageWon); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bus.count("leads.won") != 2 {
		t.Fatalf("re-entering won must publish again, got %d", bus.count("leads.won"))
	}
}
