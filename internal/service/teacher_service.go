package service

import (
	"context"
	"errors"
	"log"
	"math"

	"github.com/pedrorichil/aprovaia/internal/cache"
	"github.com/pedrorichil/aprovaia/internal/models"
	"github.com/pedrorichil/aprovaia/internal/repository"
)

var ErrStudentNotFound = errors.New("student not found in this organization")

const difficultTopicsLimit = 3

// TeacherService serves the class-level aggregates for teachers of a tenant.
type TeacherService struct {
	Users       *repository.UserRepository
	Answers     *repository.AnswerRepository
	Proficiency *repository.ProficiencyRepository
	Cache       cache.DashboardCache
}

func NewTeacherService(
	users *repository.UserRepository,
	answers *repository.AnswerRepository,
	proficiency *repository.ProficiencyRepository,
	dashboardCache cache.DashboardCache,
) *TeacherService {
	return &TeacherService{
		Users:       users,
		Answers:     answers,
		Proficiency: proficiency,
		Cache:       dashboardCache,
	}
}

// Dashboard aggregates the tenant's student performance. Results are cached
// for a few minutes; cache failures fall through to the live computation.
func (s *TeacherService) Dashboard(ctx context.Context, teacherProfileID, tenantID string) (*models.TeacherDashboard, error) {
	if s.Cache != nil {
		if cached, err := s.Cache.Get(ctx, teacherProfileID); err != nil {
			log.Printf("Dashboard cache read failed: %v", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	students, err := s.Users.FindStudentsByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return &models.TeacherDashboard{MostDifficultTopics: []models.TopicAverage{}}, nil
	}

	profileIDs := make([]string, len(students))
	for i, student := range students {
		profileIDs[i] = student.Profile.ID
	}

	average, err := s.Answers.AverageCorrectness(ctx, profileIDs)
	if err != nil {
		return nil, err
	}
	topics, err := s.Proficiency.HardestTopics(ctx, profileIDs, difficultTopicsLimit)
	if err != nil {
		return nil, err
	}
	for i := range topics {
		topics[i].Average = round2(topics[i].Average)
	}
	if topics == nil {
		topics = []models.TopicAverage{}
	}

	dashboard := &models.TeacherDashboard{
		ClassAverageScore:   round2(average),
		MostDifficultTopics: topics,
		Engagement: models.Engagement{
			ActiveStudents: len(profileIDs),
			TotalStudents:  len(profileIDs),
		},
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, teacherProfileID, dashboard); err != nil {
			log.Printf("Dashboard cache write failed: %v", err)
		}
	}
	return dashboard, nil
}

// StudentDetails returns one student's profile, proficiency map and recent
// errors, scoped to the teacher's tenant.
func (s *TeacherService) StudentDetails(ctx context.Context, studentProfileID, tenantID string) (*models.StudentDetails, error) {
	user, err := s.Users.FindByProfileID(ctx, studentProfileID)
	if err != nil {
		return nil, err
	}
	if user == nil || user.TenantID != tenantID {
		return nil, ErrStudentNotFound
	}

	records, err := s.Proficiency.ListByProfile(ctx, studentProfileID)
	if err != nil {
		return nil, err
	}
	recentErrors, err := s.Answers.FindRecentErrors(ctx, studentProfileID, 5)
	if err != nil {
		return nil, err
	}

	return &models.StudentDetails{
		Profile:        user.Profile,
		ProficiencyMap: records,
		RecentErrors:   recentErrors,
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
