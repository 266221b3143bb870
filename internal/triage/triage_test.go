package triage_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/praxislaw/docket/internal/cases"
	"github.com/praxislaw/docket/internal/classify"
	"github.com/praxislaw/docket/internal/emails"
	"github.com/praxislaw/docket/internal/review"
	"github.com/praxislaw/docket/internal/triage"
	"github.com/praxislaw/docket/pkg/middleware"
	"github.com/praxislaw/docket/pkg/pagination"
)

type fakeEmails struct {
	byID       map[uuid.UUID]emails.Email
	unassigned []emails.Email
}

func (f *fakeEmails) Handler() *emails.Handler { return nil }

func (f *fakeEmails) List(context.Context, pagination.PageRequest, emails.Filters) (*pagination.PageResult[emails.Email], error) {
	return nil, errors.New("not implemented")
}

func (f *fakeEmails) Find(_ context.Context, id uuid.UUID) (*emails.Email, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, emails.ErrNotFound
	}
	return &e, nil
}

func (f *fakeEmails) Import(context.Context, emails.ImportCommand) (*emails.Email, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeEmails) ByParticipants(context.Context, []string) ([]emails.Email, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeEmails) UnassignedForClient(context.Context, uuid.UUID) ([]emails.Email, error) {
	return f.unassigned, nil
}

type fakeCases struct {
	active  []cases.Case
	sources []cases.GlobalSource
}

func (f *fakeCases) Handler() *cases.Handler { return nil }

func (f *fakeCases) List(context.Context, pagination.PageRequest, cases.Filters) (*pagination.PageResult[cases.Case], error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCases) Find(context.Context, uuid.UUID) (*cases.Case, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCases) Create(context.Context, cases.CreateCommand) (*cases.Case, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCases) Update(context.Context, uuid.UUID, cases.UpdateCommand) (*cases.Case, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCases) Archive(context.Context, uuid.UUID) (*cases.Case, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCases) AddActor(context.Context, uuid.UUID, cases.AddActorCommand) (*cases.Actor, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCases) RemoveActor(context.Context, uuid.UUID, uuid.UUID) error {
	return errors.New("not implemented")
}

func (f *fakeCases) ActiveForClient(context.Context, uuid.UUID) ([]cases.Case, error) {
	return f.active, nil
}

func (f *fakeCases) ListSources(context.Context, string) ([]cases.GlobalSource, error) {
	return f.sources, nil
}

func (f *fakeCases) CreateSource(context.Context, cases.CreateSourceCommand) (*cases.GlobalSource, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeCases) DeleteSource(context.Context, uuid.UUID) error {
	return errors.New("not implemented")
}

type fakeReview struct {
	enqueued []review.EnqueueCommand
}

func (f *fakeReview) Handler() *review.Handler { return nil }

func (f *fakeReview) Enqueue(_ context.Context, cmd review.EnqueueCommand) (*review.PendingClassification, error) {
	f.enqueued = append(f.enqueued, cmd)
	return &review.PendingClassification{EmailID: cmd.EmailID}, nil
}

func (f *fakeReview) List(context.Context, pagination.PageRequest, review.Filters) (*pagination.PageResult[review.PendingClassification], error) {
	return nil, errors.New("not implemented")
}

func (f *fakeReview) Find(context.Context, uuid.UUID) (*review.PendingClassification, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeReview) Assign(context.Context, uuid.UUID, review.AssignCommand) (*review.PendingClassification, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeReview) BulkAssign(context.Context, review.BulkAssignCommand) (*review.BulkResult, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeReview) Dismiss(context.Context, uuid.UUID, review.DismissCommand) (*review.PendingClassification, error) {
	return nil, errors.New("not implemented")
}

func newService(emailSys *fakeEmails, caseSys *fakeCases, reviewSys *fakeReview) triage.System {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := classify.NewEngine(classify.DefaultConfig(), nil, logger)
	return triage.New(nil, engine, emailSys, caseSys, reviewSys, logger)
}

func TestClassifyEmailEnqueuesReview(t *testing.T) {
	clientID := uuid.New()
	caseID := uuid.New()
	emailID := uuid.New()

	emailSys := &fakeEmails{byID: map[uuid.UUID]emails.Email{
		emailID: {
			ID:            emailID,
			ClientID:      clientID,
			SenderAddress: "maria@client.ro",
			Subject:       "Documente",
		},
	}}
	caseSys := &fakeCases{active: []cases.Case{
		{
			ID:       caseID,
			ClientID: clientID,
			Status:   cases.StatusActive,
			Actors:   []cases.Actor{{Email: "maria@client.ro"}},
		},
		{ID: uuid.New(), ClientID: clientID, Status: cases.StatusActive},
	}}
	reviewSys := &fakeReview{}

	sys := newService(emailSys, caseSys, reviewSys)

	result, err := sys.ClassifyEmail(context.Background(), emailID)
	if err != nil {
		t.Fatalf("ClassifyEmail() error = %v", err)
	}

	// Actor match alone scores below the review threshold.
	if !result.NeedsReview {
		t.Error("NeedsReview = false, want true for actor-only match")
	}
	if result.SuggestedCaseID == nil || *result.SuggestedCaseID != caseID {
		t.Errorf("SuggestedCaseID = %v, want %s", result.SuggestedCaseID, caseID)
	}

	if len(reviewSys.enqueued) != 1 {
		t.Fatalf("enqueued = %d, want 1", len(reviewSys.enqueued))
	}
	cmd := reviewSys.enqueued[0]
	if cmd.EmailID != emailID {
		t.Errorf("enqueued EmailID = %s, want %s", cmd.EmailID, emailID)
	}
	if cmd.SuggestedCaseID == nil || *cmd.SuggestedCaseID != caseID {
		t.Errorf("enqueued SuggestedCaseID = %v, want %s", cmd.SuggestedCaseID, caseID)
	}
}

func TestClassifyEmailRejectsForeignFirm(t *testing.T) {
	clientID := uuid.New()
	emailID := uuid.New()

	emailSys := &fakeEmails{byID: map[uuid.UUID]emails.Email{
		emailID: {
			ID:            emailID,
			ClientID:      clientID,
			FirmID:        "firm-a",
			SenderAddress: "maria@client.ro",
		},
	}}
	reviewSys := &fakeReview{}

	sys := newService(emailSys, &fakeCases{}, reviewSys)

	ctx := middleware.WithIdentity(context.Background(), middleware.Identity{
		Subject: "lawyer-1",
		FirmID:  "firm-b",
	})

	_, err := sys.ClassifyEmail(ctx, emailID)
	if !errors.Is(err, triage.ErrForbidden) {
		t.Errorf("ClassifyEmail() error = %v, want ErrForbidden", err)
	}
	if len(reviewSys.enqueued) != 0 {
		t.Errorf("enqueued = %d, want 0 after tenancy rejection", len(reviewSys.enqueued))
	}
}

func TestClassifyEmailCarriesFirmToQueue(t *testing.T) {
	clientID := uuid.New()
	emailID := uuid.New()

	emailSys := &fakeEmails{byID: map[uuid.UUID]emails.Email{
		emailID: {
			ID:            emailID,
			ClientID:      clientID,
			FirmID:        "firm-a",
			SenderAddress: "necunoscut@extern.ro",
		},
	}}
	reviewSys := &fakeReview{}

	sys := newService(emailSys, &fakeCases{}, reviewSys)

	ctx := middleware.WithIdentity(context.Background(), middleware.Identity{
		Subject: "lawyer-1",
		FirmID:  "firm-a",
	})

	if _, err := sys.ClassifyEmail(ctx, emailID); err != nil {
		t.Fatalf("ClassifyEmail() error = %v", err)
	}

	if len(reviewSys.enqueued) != 1 {
		t.Fatalf("enqueued = %d, want 1", len(reviewSys.enqueued))
	}
	if got := reviewSys.enqueued[0].FirmID; got != "firm-a" {
		t.Errorf("enqueued FirmID = %q, want firm-a", got)
	}
}

func TestClassifyEmailNotFound(t *testing.T) {
	sys := newService(&fakeEmails{byID: map[uuid.UUID]emails.Email{}}, &fakeCases{}, &fakeReview{})

	_, err := sys.ClassifyEmail(context.Background(), uuid.New())
	if !errors.Is(err, emails.ErrNotFound) {
		t.Errorf("ClassifyEmail() error = %v, want ErrNotFound", err)
	}
}

func TestClassifyClientEnqueuesEachReview(t *testing.T) {
	clientID := uuid.New()
	caseID := uuid.New()

	emailSys := &fakeEmails{unassigned: []emails.Email{
		{
			ID:            uuid.New(),
			ClientID:      clientID,
			SenderAddress: "maria@client.ro",
			Subject:       "Documente",
		},
		{
			ID:            uuid.New(),
			ClientID:      clientID,
			SenderAddress: "spam@unknown.xyz",
			Subject:       "Oferta",
		},
	}}
	caseSys := &fakeCases{active: []cases.Case{
		{
			ID:       caseID,
			ClientID: clientID,
			Status:   cases.StatusActive,
			Actors:   []cases.Actor{{Email: "maria@client.ro"}}},
	}}
	reviewSys := &fakeReview{}

	sys := newService(emailSys, caseSys, reviewSys)

	batch, err := sys.ClassifyClient(context.Background(), clientID)
	if err != nil {
		t.Fatalf("ClassifyClient() error = %v", err)
	}

	if len(batch.Results) != 2 {
		t.Fatalf("Results = %d, want 2", len(batch.Results))
	}
	if batch.Unclassified != 1 {
		t.Errorf("Unclassified = %d, want 1", batch.Unclassified)
	}

	// Both outcomes need review: one low-confidence suggestion, one with no
	// matching case at all.
	if len(reviewSys.enqueued) != 2 {
		t.Fatalf("enqueued = %d, want 2", len(reviewSys.enqueued))
	}
}
