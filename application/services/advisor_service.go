package services

import (
	"context"

	"go.uber.org/zap"

	"crossroads-backend/application/ports"
	"crossroads-backend/domain/core/entities"
)

// AdvisorService manages the per-user advisor profile that personalizes
// prompt generation.
type AdvisorService struct {
	advisors ports.AdvisorRepository
	logger   *zap.Logger
}

// NewAdvisorService creates an advisor service.
func NewAdvisorService(advisors ports.AdvisorRepository, logger *zap.Logger) *AdvisorService {
	return &AdvisorService{advisors: advisors, logger: logger}
}

// GetProfile loads the user's advisor profile. Returns (nil, nil) when the
// user has not configured one.
func (s *AdvisorService) GetProfile(ctx context.Context, userID string) (*entities.AdvisorProfile, error) {
	return s.advisors.GetByUserID(ctx, userID)
}

// SaveProfile replaces the user's advisor profile.
func (s *AdvisorService) SaveProfile(ctx context.Context, userID, name, style string, traits []string) (*entities.AdvisorProfile, error) {
	profile, err := entities.NewAdvisorProfile(userID, name, style, traits)
	if err != nil {
		return nil, err
	}
	if err := s.advisors.Save(ctx, profile); err != nil {
		return nil, err
	}
	s.logger.Info("Advisor profile saved", zap.String("userID", userID))
	return profile, nil
}
