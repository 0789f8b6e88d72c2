package ledger

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/davideparisimodena/careconnect/internal/model"
	"github.com/davideparisimodena/careconnect/internal/notification"
	"github.com/davideparisimodena/careconnect/internal/repository"
	"github.com/davideparisimodena/careconnect/internal/service/event"
	apperrors "github.com/davideparisimodena/careconnect/pkg/errors"
	"github.com/davideparisimodena/careconnect/pkg/logger"
	"github.com/davideparisimodena/careconnect/pkg/metrics"
)

// Service is the request ledger: it owns the request lifecycle
// (open -> claimed, terminal) and the claim transition.
type Service struct {
	requestRepo repository.RequestRepository
	userRepo    repository.UserRepository
	events      *event.Service
	notifier    notification.Notifier
	logger      *logger.Logger
	metrics     *metrics.Metrics
}

func NewService(
	requestRepo repository.RequestRepository,
	userRepo repository.UserRepository,
	events *event.Service,
	notifier notification.Notifier,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		requestRepo: requestRepo,
		userRepo:    userRepo,
		events:      events,
		notifier:    notifier,
		logger:      logger,
		metrics:     metrics,
	}
}

// Submit creates an open request for the patient. The optional target
// professional id is parsed leniently: anything that is not a positive
// integer resolving to an existing professional degrades to "no target".
// That degradation is policy, not an error.
func (s *Service) Submit(ctx context.Context, patientID int64, req *model.CreateRequestRequest) (*model.Request, error) {
	if strings.TrimSpace(req.Category) == "" ||
		strings.TrimSpace(req.Description) == "" ||
		strings.TrimSpace(req.City) == "" {
		return nil, apperrors.Validation("category, description and city are required")
	}

	request := &model.Request{
		PatientID:            patientID,
		Category:             req.Category,
		Description:          req.Description,
		City:                 req.City,
		TargetProfessionalID: s.resolveTarget(ctx, req.TargetProfessionalID),
	}

	if err := s.requestRepo.Create(ctx, request); err != nil {
		return nil, apperrors.Storage(err)
	}

	s.metrics.RequestsSubmitted.Inc()
	if err := s.events.Emit(ctx, model.EventRequestCreated, request); err != nil {
		s.logger.Error(err, "failed to emit request created event", "request_id", request.ID)
	}

	return request, nil
}

func (s *Service) resolveTarget(ctx context.Context, raw string) *int64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}

	if _, err := s.userRepo.GetProfessional(ctx, id); err != nil {
		return nil
	}
	return &id
}

// ListOpen returns the open pool visible to a professional: public
// requests in their city plus requests targeted at them from anywhere.
// Exclusive entries come first, newest first within each group.
func (s *Service) ListOpen(ctx context.Context, city string, professionalID int64) ([]*model.OpenRequest, error) {
	requests, err := s.requestRepo.ListOpenFor(ctx, city, professionalID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return requests, nil
}

// Claim atomically assigns an open request to the professional. Exactly
// one of any set of concurrent claimers wins; the rest get NotAvailable.
func (s *Service) Claim(ctx context.Context, requestID, professionalID int64, city string) (*model.Request, error) {
	request, err := s.requestRepo.Claim(ctx, requestID, professionalID, city)
	if err != nil {
		if errors.Is(err, repository.ErrNotAvailable) {
			s.metrics.ClaimAttempts.WithLabelValues("not_available").Inc()
			if _, getErr := s.requestRepo.Get(ctx, requestID); errors.Is(getErr, repository.ErrNotFound) {
				return nil, apperrors.NotFound("request")
			}
			return nil, apperrors.NotAvailable("request is not available")
		}
		s.metrics.ClaimAttempts.WithLabelValues("error").Inc()
		return nil, apperrors.Storage(err)
	}

	s.metrics.ClaimAttempts.WithLabelValues("success").Inc()
	if err := s.events.Emit(ctx, model.EventRequestClaimed, request); err != nil {
		s.logger.Error(err, "failed to emit request claimed event", "request_id", request.ID)
	}

	s.notifyPatient(ctx, request, professionalID)

	return request, nil
}

// notifyPatient emails the patient that their request was taken in
// charge. Best effort: a delivery failure never fails the claim.
func (s *Service) notifyPatient(ctx context.Context, request *model.Request, professionalID int64) {
	patient, err := s.userRepo.Get(ctx, request.PatientID)
	if err != nil || patient.Email == nil {
		return
	}
	professional, err := s.userRepo.Get(ctx, professionalID)
	if err != nil {
		return
	}

	if err := s.notifier.NotifyClaim(ctx, *patient.Email, professional.Username, request); err != nil {
		s.logger.Error(err, "failed to send claim notification", "request_id", request.ID)
	}
}

// HistoryFor returns the patient's requests, newest first.
func (s *Service) HistoryFor(ctx context.Context, patientID int64) ([]*model.Request, error) {
	requests, err := s.requestRepo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return requests, nil
}

// ClaimsFor returns the requests a professional has taken in charge,
// newest first.
func (s *Service) ClaimsFor(ctx context.Context, professionalID int64) ([]*model.Request, error) {
	requests, err := s.requestRepo.ListByProfessional(ctx, professionalID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return requests, nil
}
