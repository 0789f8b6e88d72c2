package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/davideparisimodena/careconnect/internal/model"
	"github.com/davideparisimodena/careconnect/internal/repository"
)

type messageRepository struct {
	BaseRepository
}

func NewMessageRepository(base BaseRepository) repository.MessageRepository {
	return &messageRepository{base}
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	query := `
		INSERT INTO messages (request_id, sender_id, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	message.CreatedAt = time.Now()

	err := r.db.QueryRowxContext(ctx, query,
		message.RequestID,
		message.SenderID,
		message.Content,
		message.CreatedAt,
	).Scan(&message.ID)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

func (r *messageRepository) ListByRequest(ctx context.Context, requestID int64) ([]*model.Message, error) {
	query := `
		SELECT * FROM messages
		WHERE request_id = $1
		ORDER BY id ASC
	`

	var messages []*model.Message
	if err := r.db.SelectContext(ctx, &messages, query, requestID); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	return messages, nil
}

func (r *messageRepository) ChannelsFor(ctx context.Context, userID int64, role string) ([]*model.ChatChannel, error) {
	column := "patient_id"
	if role == model.RoleProfessional {
		column = "professional_id"
	}

	query := fmt.Sprintf(`
		SELECT id AS request_id,
		       category || ' (ID: ' || id || ')' AS label
		FROM requests
		WHERE %s = $1 AND status = $2
		ORDER BY id DESC
	`, column)

	var channels []*model.ChatChannel
	if err := r.db.SelectContext(ctx, &channels, query, userID, model.RequestStatusClaimed); err != nil {
		return nil, fmt.Errorf("failed to list chat channels: %w", err)
	}

	return channels, nil
}
