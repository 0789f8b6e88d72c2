package directory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/davideparisimodena/careconnect/internal/model"
	"github.com/davideparisimodena/careconnect/internal/repository"
	"github.com/davideparisimodena/careconnect/internal/service/taxonomy"
	apperrors "github.com/davideparisimodena/careconnect/pkg/errors"
)

const landingCacheKey = "landing_professionals"

// Service serves the public read projections over the identity store.
// Ledger projections live in the ledger service and are never cached;
// only the landing listing gets a short TTL here.
type Service struct {
	userRepo repository.UserRepository
	taxonomy *taxonomy.Service
	cache    *cache.Cache
}

func NewService(userRepo repository.UserRepository, taxonomySvc *taxonomy.Service, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &Service{
		userRepo: userRepo,
		taxonomy: taxonomySvc,
		cache:    cache.New(cacheTTL, 2*cacheTTL),
	}
}

// LandingProfessionals returns the public professional listing used by
// the marketplace landing page.
func (s *Service) LandingProfessionals(ctx context.Context) ([]*model.ProfessionalListing, error) {
	if cached, ok := s.cache.Get(landingCacheKey); ok {
		return cached.([]*model.ProfessionalListing), nil
	}

	pros, err := s.userRepo.ListProfessionals(ctx)
	if err != nil {
		return nil, apperrors.Storage(err)
	}

	s.cache.SetDefault(landingCacheKey, pros)
	return pros, nil
}

// MatchingProfessionals returns the professionals in a city whose
// qualification serves the given category.
func (s *Service) MatchingProfessionals(ctx context.Context, city, category string) ([]*model.ProfessionalListing, error) {
	roles, err := s.taxonomy.QualifyingRoles(category)
	if err != nil {
		return nil, err
	}

	pros, err := s.userRepo.ListProfessionalsByQualification(ctx, city, roles)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return pros, nil
}
