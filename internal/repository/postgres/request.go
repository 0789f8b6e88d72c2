package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/davideparisimodena/careconnect/internal/model"
	"github.com/davideparisimodena/careconnect/internal/repository"
)

type requestRepository struct {
	BaseRepository
}

func NewRequestRepository(base BaseRepository) repository.RequestRepository {
	return &requestRepository{base}
}

func (r *requestRepository) Create(ctx context.Context, request *model.Request) error {
	query := `
		INSERT INTO requests (
			patient_id, professional_id, target_professional_id,
			category, description, city, status, created_at, updated_at
		) VALUES ($1, NULL, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	request.Status = model.RequestStatusOpen
	request.ProfessionalID = nil
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt

	err := r.db.QueryRowxContext(ctx, query,
		request.PatientID,
		request.TargetProfessionalID,
		request.Category,
		request.Description,
		request.City,
		request.Status,
		request.CreatedAt,
		request.UpdatedAt,
	).Scan(&request.ID)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	return nil
}

func (r *requestRepository) Get(ctx context.Context, id int64) (*model.Request, error) {
	query := `SELECT * FROM requests WHERE id = $1`

	var request model.Request
	if err := r.db.GetContext(ctx, &request, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	return &request, nil
}

func (r *requestRepository) ListOpenFor(ctx context.Context, city string, professionalID int64) ([]*model.OpenRequest, error) {
	query := `
		SELECT r.id,
		       u.username AS patient_username,
		       r.category,
		       r.description,
		       r.city,
		       (r.target_professional_id = $1) IS TRUE AS exclusive
		FROM requests r
		JOIN users u ON r.patient_id = u.id
		WHERE r.status = $2
		  AND ((r.city = $3 AND r.target_professional_id IS NULL) OR r.target_professional_id = $1)
		ORDER BY (r.target_professional_id IS NULL), r.id DESC
	`

	var requests []*model.OpenRequest
	if err := r.db.SelectContext(ctx, &requests, query, professionalID, model.RequestStatusOpen, city); err != nil {
		return nil, fmt.Errorf("failed to list open requests: %w", err)
	}

	return requests, nil
}

// Claim transitions the request open->claimed as a single conditional
// update. Two professionals racing for the same row hit the database's
// row lock; exactly one update matches, the other sees zero rows.
func (r *requestRepository) Claim(ctx context.Context, requestID, professionalID int64, city string) (*model.Request, error) {
	query := `
		UPDATE requests
		SET status = $1, professional_id = $2, updated_at = $3
		WHERE id = $4
		  AND status = $5
		  AND ((city = $6 AND target_professional_id IS NULL) OR target_professional_id = $2)
		RETURNING *
	`

	var request model.Request
	err := r.db.GetContext(ctx, &request, query,
		model.RequestStatusClaimed,
		professionalID,
		time.Now(),
		requestID,
		model.RequestStatusOpen,
		city,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotAvailable
		}
		return nil, fmt.Errorf("failed to claim request: %w", err)
	}

	return &request, nil
}

func (r *requestRepository) ListByPatient(ctx context.Context, patientID int64) ([]*model.Request, error) {
	query := `
		SELECT * FROM requests
		WHERE patient_id = $1
		ORDER BY id DESC
	`

	var requests []*model.Request
	if err := r.db.SelectContext(ctx, &requests, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list patient requests: %w", err)
	}

	return requests, nil
}

func (r *requestRepository) ListByProfessional(ctx context.Context, professionalID int64) ([]*model.Request, error) {
	query := `
		SELECT * FROM requests
		WHERE professional_id = $1
		ORDER BY id DESC
	`

	var requests []*model.Request
	if err := r.db.SelectContext(ctx, &requests, query, professionalID); err != nil {
		return nil, fmt.Errorf("failed to list professional requests: %w", err)
	}

	return requests, nil
}
