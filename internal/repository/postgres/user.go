package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/davideparisimodena/careconnect/internal/model"
	"github.com/davideparisimodena/careconnect/internal/repository"
)

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (
			username, password_hash, role, city, lat, lon, bio,
			qualification, years_experience, hourly_rate,
			email, address, age, clinical_history, detailed_experience,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id
	`

	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	err := r.db.QueryRowxContext(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.City,
		user.Lat,
		user.Lon,
		user.Bio,
		user.Qualification,
		user.YearsExperience,
		user.HourlyRate,
		user.Email,
		user.Address,
		user.Age,
		user.ClinicalHistory,
		user.DetailedExperience,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT * FROM users WHERE id = $1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT * FROM users WHERE LOWER(username) = LOWER($1)`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &user, nil
}

func (r *userRepository) GetProfessional(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT * FROM users WHERE id = $1 AND role = $2`

	var user model.User
	if err := r.db.GetContext(ctx, &user, query, id, model.RoleProfessional); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get professional: %w", err)
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users SET
			password_hash = $1,
			bio = $2,
			email = $3,
			address = $4,
			age = $5,
			clinical_history = $6,
			qualification = $7,
			years_experience = $8,
			hourly_rate = $9,
			detailed_experience = $10,
			updated_at = $11
		WHERE id = $12
	`

	result, err := r.db.ExecContext(ctx, query,
		user.PasswordHash,
		user.Bio,
		user.Email,
		user.Address,
		user.Age,
		user.ClinicalHistory,
		user.Qualification,
		user.YearsExperience,
		user.HourlyRate,
		user.DetailedExperience,
		time.Now(),
		user.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *userRepository) ListProfessionals(ctx context.Context) ([]*model.ProfessionalListing, error) {
	query := `
		SELECT id, username, city, bio, lat, lon, qualification, years_experience, hourly_rate
		FROM users
		WHERE role = $1
		ORDER BY username
	`

	var pros []*model.ProfessionalListing
	if err := r.db.SelectContext(ctx, &pros, query, model.RoleProfessional); err != nil {
		return nil, fmt.Errorf("failed to list professionals: %w", err)
	}

	return pros, nil
}

func (r *userRepository) ListProfessionalsByQualification(ctx context.Context, city string, qualifications []string) ([]*model.ProfessionalListing, error) {
	query := `
		SELECT id, username, city, bio, lat, lon, qualification, years_experience, hourly_rate
		FROM users
		WHERE role = $1 AND city = $2 AND qualification = ANY($3)
		ORDER BY hourly_rate NULLS LAST, username
	`

	var pros []*model.ProfessionalListing
	if err := r.db.SelectContext(ctx, &pros, query, model.RoleProfessional, city, pq.Array(qualifications)); err != nil {
		return nil, fmt.Errorf("failed to list professionals by qualification: %w", err)
	}

	return pros, nil
}
