package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-portal/internal/domain"
	"github.com/spec-kit/complaint-portal/internal/events"
	"github.com/spec-kit/complaint-portal/internal/repository"
	apperrors "github.com/spec-kit/complaint-portal/pkg/util"
)

// StatusUpdatePolicy decides whether an authenticated caller may change a
// complaint's status. The current policy allows any authenticated caller to
// change any complaint; it exists as a seam so ownership or role checks can
// be added without restructuring the service.
type StatusUpdatePolicy func(actorEmail string, complaint *domain.Complaint) error

// AllowAnyAuthenticated is the default single-tenant moderation policy.
func AllowAnyAuthenticated(string, *domain.Complaint) error {
	return nil
}

// ComplaintService owns complaint records and enforces the status
// transition policy.
type ComplaintService struct {
	complaints   repository.ComplaintRepository
	users        repository.UserRepository
	cache        repository.ComplaintCache
	dispatcher   events.Dispatcher
	updatePolicy StatusUpdatePolicy
}

// ComplaintDependencies bundles collaborator requirements.
type ComplaintDependencies struct {
	ComplaintRepo repository.ComplaintRepository
	UserRepo      repository.UserRepository
	Cache         repository.ComplaintCache
	Dispatcher    events.Dispatcher
	UpdatePolicy  StatusUpdatePolicy
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	policy := deps.UpdatePolicy
	if policy == nil {
		policy = AllowAnyAuthenticated
	}
	return &ComplaintService{
		complaints:   deps.ComplaintRepo,
		users:        deps.UserRepo,
		cache:        deps.Cache,
		dispatcher:   deps.Dispatcher,
		updatePolicy: policy,
	}
}

// Create records a new complaint for the verified caller. The owner is
// resolved from the identity claim, never from caller-supplied input.
func (s *ComplaintService) Create(ctx context.Context, ownerEmail, text string) (*domain.Complaint, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidationError("text is a required field", nil)
	}

	owner, err := s.users.GetByEmail(ctx, ownerEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Valid token, deleted account. Stateless verification cannot
			// catch this earlier.
			return nil, apperrors.NewUnauthorized("unauthorized")
		}
		return nil, apperrors.NewInternalError(err)
	}

	complaint := &domain.Complaint{
		OwnerID: owner.ID,
		Text:    text,
		Status:  domain.ComplaintStatusPending,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.invalidateCache(ctx)
	s.publish(ctx, events.Event{
		Type:       events.EventComplaintCreated,
		ActorEmail: ownerEmail,
		Payload: events.ComplaintCreatedPayload{
			ComplaintID: complaint.ID,
			OwnerID:     complaint.OwnerID,
			TextPreview: preview(complaint.Text),
		},
	})
	return complaint, nil
}

// List returns every complaint, newest first. This is a shared triage view:
// all authenticated callers see all complaints.
func (s *ComplaintService) List(ctx context.Context) ([]domain.Complaint, error) {
	if s.cache != nil {
		if complaints, ok := s.cache.GetList(ctx); ok {
			return complaints, nil
		}
	}

	complaints, err := s.complaints.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if s.cache != nil {
		s.cache.SetList(ctx, complaints)
	}
	return complaints, nil
}

// UpdateStatus moves a complaint to the given status. Membership in the
// status enumeration is the only transition rule; any status may move to
// any other, including itself. Racing updates are last-write-wins.
func (s *ComplaintService) UpdateStatus(ctx context.Context, actorEmail, id, newStatus string) (*domain.Complaint, error) {
	if id == "" || newStatus == "" {
		return nil, apperrors.NewValidationError("id and process_status are required fields", nil)
	}
	status := domain.ComplaintStatus(newStatus)
	if !status.IsValid() {
		return nil, apperrors.NewValidationError(
			"process_status must be one of: pending, in-progress, resolved, rejected", nil)
	}

	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint not found", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	if err := s.updatePolicy(actorEmail, complaint); err != nil {
		return nil, err
	}

	oldStatus := complaint.Status
	updated, err := s.complaints.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint not found", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.invalidateCache(ctx)
	s.publish(ctx, events.Event{
		Type:       events.EventComplaintStatusChanged,
		ActorEmail: actorEmail,
		Payload: events.ComplaintStatusChangedPayload{
			ComplaintID: updated.ID,
			OldStatus:   oldStatus,
			NewStatus:   updated.Status,
		},
	})
	return updated, nil
}

func (s *ComplaintService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (s *ComplaintService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.ID = uuid.NewString()
	event.Timestamp = time.Now()
	_ = s.dispatcher.Publish(ctx, event)
}

func preview(text string) string {
	const max = 80
	if len(text) <= max {
		return text
	}
	return text[:max]
}
