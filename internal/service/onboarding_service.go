package service

import (
	"context"

	"github.com/pedrorichil/aprovaia/internal/adaptive"
	"github.com/pedrorichil/aprovaia/internal/repository"
)

type OnboardingService struct {
	Users  *repository.UserRepository
	Seeder *adaptive.Seeder
}

func NewOnboardingService(users *repository.UserRepository, seeder *adaptive.Seeder) *OnboardingService {
	return &OnboardingService{Users: users, Seeder: seeder}
}

type OnboardingInput struct {
	Goal          string                    `json:"goal" binding:"required"`
	Proficiencies []adaptive.SelfAssessment `json:"proficiencies" binding:"required"`
}

// Complete records the student's goal and seeds the initial proficiency map.
// Seeding never overwrites records, so the call can be repeated safely.
func (s *OnboardingService) Complete(ctx context.Context, userID, profileID string, input OnboardingInput) error {
	if err := s.Users.UpdateGoal(ctx, userID, input.Goal); err != nil {
		return err
	}
	return s.Seeder.Seed(ctx, profileID, input.Proficiencies)
}
