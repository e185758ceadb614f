package adaptive

import (
	"context"
	"errors"

	"github.com/pedrorichil/aprovaia/internal/models"
)

// ErrNoQuestions means no question is available for the student. It is an
// empty-result condition, not a system fault.
var ErrNoQuestions = errors.New("no question available")

// ErrQuestionMissing marks an answer that references a question which does
// not exist. It is a data-integrity fault and must not be retried.
var ErrQuestionMissing = errors.New("answer references unknown question")

// ProficiencyStore is the persistence contract for proficiency records.
type ProficiencyStore interface {
	// Get returns the current score for (profileID, topic) and whether a
	// record exists.
	Get(ctx context.Context, profileID, topic string) (float64, bool, error)
	// Upsert writes the score, creating the record if absent.
	Upsert(ctx context.Context, profileID, topic string, score float64) error
	// SeedIfAbsent creates the record with the given score only when no
	// record exists yet. Calling it again is a no-op.
	SeedIfAbsent(ctx context.Context, profileID, topic string, score float64) error
	// ScoresByProfile returns all known topic scores for a profile.
	ScoresByProfile(ctx context.Context, profileID string) (map[string]float64, error)
}

// QuestionCatalog is the read-only view of the question bank used by the
// selector.
type QuestionCatalog interface {
	ListTopics(ctx context.Context) ([]string, error)
	// NextUnanswered returns a question in the given topic the student has
	// not answered yet, or any unanswered question when topic is empty.
	// It returns (nil, nil) when none remains.
	NextUnanswered(ctx context.Context, profileID, topic string) (*models.Question, error)
}

// Classifier labels the likely cause of a wrong answer. Implementations must
// bound the call with a timeout; any failure is recovered by the updater with
// a placeholder result.
type Classifier interface {
	Classify(ctx context.Context, question *models.Question, selectedOption string) (*models.ErrorAnalysis, error)
}

// AnswerArchive attaches the analysis payload to a stored answer. The payload
// is write-once: implementations must not overwrite an existing analysis.
type AnswerArchive interface {
	AttachAnalysis(ctx context.Context, answerID string, analysis *models.ErrorAnalysis) error
}

// FallbackAnalysis is the degraded placeholder stored when the classifier
// fails or times out.
func FallbackAnalysis() *models.ErrorAnalysis {
	return &models.ErrorAnalysis{
		ErrorType:        models.ErrorTypeAnalysisFailed,
		BriefExplanation: "Não foi possível realizar a análise da sua resposta no momento.",
		DetailedFeedback: "Ocorreu um erro ao tentar se comunicar com o serviço de IA. Tente novamente mais tarde.",
	}
}
