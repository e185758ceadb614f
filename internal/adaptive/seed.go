package adaptive

import "context"

// Self-assessment levels reported during onboarding.
const (
	LevelBeginner     = "iniciante"
	LevelIntermediate = "intermediario"
	LevelAdvanced     = "avancado"
)

var levelScores = map[string]float64{
	LevelBeginner:     0.2,
	LevelIntermediate: 0.5,
	LevelAdvanced:     0.8,
}

const defaultSeedScore = 0.5

// SeedScore maps a self-reported level to the initial proficiency score.
// Unknown levels fall back to the intermediate seed.
func SeedScore(level string) float64 {
	if score, ok := levelScores[level]; ok {
		return score
	}
	return defaultSeedScore
}

// SelfAssessment is one topic/level pair reported during onboarding.
type SelfAssessment struct {
	Topic string `json:"topic"`
	Level string `json:"level"`
}

// Seeder writes the onboarding proficiency seeds. Seeding never overwrites an
// existing record, so repeating the onboarding call is harmless.
type Seeder struct {
	store ProficiencyStore
}

func NewSeeder(store ProficiencyStore) *Seeder {
	return &Seeder{store: store}
}

func (s *Seeder) Seed(ctx context.Context, profileID string, assessments []SelfAssessment) error {
	for _, a := range assessments {
		if err := s.store.SeedIfAbsent(ctx, profileID, a.Topic, SeedScore(a.Level)); err != nil {
			return err
		}
	}
	return nil
}
