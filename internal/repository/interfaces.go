package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/davideparisimodena/careconnect/internal/model"
)

// Sentinel errors surfaced by repository implementations. Services map
// them onto the application error taxonomy.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("record already exists")
	ErrNotAvailable = errors.New("record not available")
)

// UserRepository owns the users table.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Get(ctx context.Context, id int64) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetProfessional(ctx context.Context, id int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	ListProfessionals(ctx context.Context) ([]*model.ProfessionalListing, error)
	ListProfessionalsByQualification(ctx context.Context, city string, qualifications []string) ([]*model.ProfessionalListing, error)
}

// RequestRepository owns the requests table and is the sole writer of
// status and professional_id.
type RequestRepository interface {
	Create(ctx context.Context, request *model.Request) error
	Get(ctx context.Context, id int64) (*model.Request, error)
	ListOpenFor(ctx context.Context, city string, professionalID int64) ([]*model.OpenRequest, error)
	// Claim performs the atomic open->claimed transition. It succeeds only
	// when the request is still open and the professional is eligible;
	// otherwise it returns ErrNotAvailable without touching the row.
	Claim(ctx context.Context, requestID, professionalID int64, city string) (*model.Request, error)
	ListByPatient(ctx context.Context, patientID int64) ([]*model.Request, error)
	ListByProfessional(ctx context.Context, professionalID int64) ([]*model.Request, error)
}

// MessageRepository owns the messages table and only ever appends.
type MessageRepository interface {
	Create(ctx context.Context, message *model.Message) error
	ListByRequest(ctx context.Context, requestID int64) ([]*model.Message, error)
	ChannelsFor(ctx context.Context, userID int64, role string) ([]*model.ChatChannel, error)
}

// OutboxRepository owns the outbox_events table.
type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string, processedAt *time.Time) error
	MarkRetry(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string, retryAt time.Time, retryCount int) error
}
