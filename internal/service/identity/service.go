package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/davideparisimodena/careconnect/internal/model"
	"github.com/davideparisimodena/careconnect/internal/repository"
	apperrors "github.com/davideparisimodena/careconnect/pkg/errors"
	"github.com/davideparisimodena/careconnect/pkg/security"
)

// Service is the identity store: registration, authentication and
// profile updates for patients and professionals.
type Service struct {
	userRepo repository.UserRepository
	hasher   security.PasswordHasher
}

func NewService(userRepo repository.UserRepository, hasher security.PasswordHasher) *Service {
	return &Service{
		userRepo: userRepo,
		hasher:   hasher,
	}
}

// Register creates a new user. Usernames are unique case-insensitively;
// patient registrations drop professional-only fields.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, apperrors.Validation("username and password are required")
	}
	if req.Role != model.RolePatient && req.Role != model.RoleProfessional {
		return nil, apperrors.Validation("role must be patient or professional")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation("password does not meet requirements")
	}

	coords := model.CityCoords[req.City]

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         req.Role,
		City:         req.City,
		Lat:          coords.Lat,
		Lon:          coords.Lon,
	}
	if req.Bio != "" {
		user.Bio = &req.Bio
	}

	if req.Role == model.RoleProfessional {
		if req.Qualification != "" {
			user.Qualification = &req.Qualification
		}
		years := req.YearsExperience
		rate := req.HourlyRate
		user.YearsExperience = &years
		user.HourlyRate = &rate
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.DuplicateUsername(username)
		}
		return nil, apperrors.Storage(err)
	}

	return user, nil
}

// Authenticate verifies credentials. All failure modes collapse into the
// same opaque authentication error: callers never learn whether the user
// exists, has no hash, or supplied a bad password.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, apperrors.Authentication()
	}

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.Authentication()
		}
		return nil, apperrors.Storage(err)
	}

	if user.PasswordHash == "" {
		return nil, apperrors.Authentication()
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.Authentication()
	}

	return user, nil
}

// Get returns the user with the given id.
func (s *Service) Get(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.userRepo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("user")
		}
		return nil, apperrors.Storage(err)
	}
	return user, nil
}

// UpdateProfile applies the role-conditional field set and rehashes the
// credential only when a non-empty new password is supplied.
func (s *Service) UpdateProfile(ctx context.Context, userID int64, req *model.UpdateProfileRequest) error {
	user, err := s.userRepo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("user")
		}
		return apperrors.Storage(err)
	}

	if req.NewPassword != "" {
		hash, err := s.hasher.Hash(req.NewPassword)
		if err != nil {
			return apperrors.Validation("password does not meet requirements")
		}
		user.PasswordHash = hash
	}

	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.Email != nil {
		user.Email = req.Email
	}
	if req.Address != nil {
		user.Address = req.Address
	}
	if req.Age != nil {
		user.Age = req.Age
	}

	switch user.Role {
	case model.RolePatient:
		if req.ClinicalHistory != nil {
			user.ClinicalHistory = req.ClinicalHistory
		}
	case model.RoleProfessional:
		if req.Qualification != nil {
			user.Qualification = req.Qualification
		}
		if req.YearsExperience != nil {
			user.YearsExperience = req.YearsExperience
		}
		if req.HourlyRate != nil {
			user.HourlyRate = req.HourlyRate
		}
		if req.DetailedExperience != nil {
			user.DetailedExperience = req.DetailedExperience
		}
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("user")
		}
		return apperrors.Storage(err)
	}
	return nil
}
