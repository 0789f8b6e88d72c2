package conversation

import (
	"context"
	"errors"
	"strings"

	"github.com/davideparisimodena/careconnect/internal/model"
	"github.com/davideparisimodena/careconnect/internal/repository"
	"github.com/davideparisimodena/careconnect/internal/service/event"
	apperrors "github.com/davideparisimodena/careconnect/pkg/errors"
	"github.com/davideparisimodena/careconnect/pkg/logger"
	"github.com/davideparisimodena/careconnect/pkg/metrics"
)

// Service is the conversation store: an append-only message log per
// claimed request.
type Service struct {
	messageRepo repository.MessageRepository
	requestRepo repository.RequestRepository
	events      *event.Service
	logger      *logger.Logger
	metrics     *metrics.Metrics
}

func NewService(
	messageRepo repository.MessageRepository,
	requestRepo repository.RequestRepository,
	events *event.Service,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		messageRepo: messageRepo,
		requestRepo: requestRepo,
		events:      events,
		logger:      logger,
		metrics:     metrics,
	}
}

// Channels lists the claimed requests the user may chat on.
func (s *Service) Channels(ctx context.Context, userID int64, role string) ([]*model.ChatChannel, error) {
	channels, err := s.messageRepo.ChannelsFor(ctx, userID, role)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return channels, nil
}

// History returns the message log in creation order. A zero or unknown
// request id yields an empty history, not an error.
func (s *Service) History(ctx context.Context, requestID int64) ([]*model.Message, error) {
	if requestID <= 0 {
		return []*model.Message{}, nil
	}

	messages, err := s.messageRepo.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if messages == nil {
		messages = []*model.Message{}
	}
	return messages, nil
}

// Send appends a message and returns the updated history. Empty content
// or an unknown request is a soft no-op returning the current history.
func (s *Service) Send(ctx context.Context, requestID, senderID int64, content string) ([]*model.Message, error) {
	if requestID <= 0 || strings.TrimSpace(content) == "" {
		return s.History(ctx, requestID)
	}

	if _, err := s.requestRepo.Get(ctx, requestID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.History(ctx, requestID)
		}
		return nil, apperrors.Storage(err)
	}

	message := &model.Message{
		RequestID: requestID,
		SenderID:  senderID,
		Content:   content,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, apperrors.Storage(err)
	}

	s.metrics.MessagesSent.Inc()
	if err := s.events.Emit(ctx, model.EventMessageSent, message); err != nil {
		s.logger.Error(err, "failed to emit message sent event", "request_id", requestID)
	}

	return s.History(ctx, requestID)
}
