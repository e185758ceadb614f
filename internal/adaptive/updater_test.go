package adaptive

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/pedrorichil/aprovaia/internal/models"
)

type fakeArchive struct {
	attached map[string]*models.ErrorAnalysis
	err      error
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{attached: make(map[string]*models.ErrorAnalysis)}
}

func (a *fakeArchive) AttachAnalysis(_ context.Context, answerID string, analysis *models.ErrorAnalysis) error {
	if a.err != nil {
		return a.err
	}
	if _, ok := a.attached[answerID]; !ok {
		a.attached[answerID] = analysis
	}
	return nil
}

type fakeClassifier struct {
	result *models.ErrorAnalysis
	err    error
	calls  int
}

func (c *fakeClassifier) Classify(_ context.Context, _ *models.Question, _ string) (*models.ErrorAnalysis, error) {
	c.calls++
	return c.result, c.err
}

func answer(id string, isCorrect bool) *models.StudentAnswer {
	return &models.StudentAnswer{
		ID:             id,
		ProfileID:      "student-1",
		QuestionID:     "q1",
		SelectedOption: "B",
		IsCorrect:      isCorrect,
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRecordAnswerEMAConvergence(t *testing.T) {
	store := newFakeStore()
	updater := NewUpdater(store, newFakeArchive(), nil)
	q := question("q1", "Algebra")
	ctx := context.Background()

	// From 0.0, one correct answer lands on 0.2, the next on 0.36.
	if err := updater.RecordAnswer(ctx, answer("a1", true), q); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	score, _, _ := store.Get(ctx, "student-1", "Algebra")
	if !almostEqual(score, 0.2) {
		t.Errorf("Expected score 0.2 after first correct answer, got %v", score)
	}

	if err := updater.RecordAnswer(ctx, answer("a2", true), q); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	score, _, _ = store.Get(ctx, "student-1", "Algebra")
	if !almostEqual(score, (0.2*4+1.0)/5) {
		t.Errorf("Expected score 0.36 after second correct answer, got %v", score)
	}
}

func TestRecordAnswerComposesRepeatedEMA(t *testing.T) {
	store := newFakeStore()
	store.set("student-1", "Algebra", 0.55)
	updater := NewUpdater(store, newFakeArchive(), nil)
	q := question("q1", "Algebra")
	ctx := context.Background()

	first := (0.55*4 + 1.0) / 5
	second := (first*4 + 1.0) / 5

	updater.RecordAnswer(ctx, answer("a1", true), q)
	score, _, _ := store.Get(ctx, "student-1", "Algebra")
	if !almostEqual(score, first) {
		t.Errorf("Expected %v after first update, got %v", first, score)
	}

	updater.RecordAnswer(ctx, answer("a2", true), q)
	score, _, _ = store.Get(ctx, "student-1", "Algebra")
	if !almostEqual(score, second) {
		t.Errorf("Expected %v after second update, got %v", second, score)
	}
}

func TestRecordAnswerScoreStaysInRange(t *testing.T) {
	store := newFakeStore()
	classifier := &fakeClassifier{result: &models.ErrorAnalysis{ErrorType: "inattention"}}
	updater := NewUpdater(store, newFakeArchive(), classifier)
	q := question("q1", "Algebra")
	ctx := context.Background()

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		if err := updater.RecordAnswer(ctx, answer("a", rng.Intn(2) == 0), q); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		score, _, _ := store.Get(ctx, "student-1", "Algebra")
		if score < 0.0 || score > 1.0 {
			t.Fatalf("Score %v out of [0,1] after %d updates", score, i+1)
		}
	}
}

func TestRecordAnswerWrongAnswerStoresClassification(t *testing.T) {
	store := newFakeStore()
	archive := newFakeArchive()
	classifier := &fakeClassifier{result: &models.ErrorAnalysis{
		ErrorType:        "conceptual_confusion",
		BriefExplanation: "Conceitos trocados.",
	}}
	updater := NewUpdater(store, archive, classifier)
	ctx := context.Background()

	if err := updater.RecordAnswer(ctx, answer("a1", false), question("q1", "Algebra")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if classifier.calls != 1 {
		t.Errorf("Expected classifier to be called once, got %d", classifier.calls)
	}
	analysis := archive.attached["a1"]
	if analysis == nil || analysis.ErrorType != "conceptual_confusion" {
		t.Errorf("Expected stored classification, got %+v", analysis)
	}
	score, _, _ := store.Get(ctx, "student-1", "Algebra")
	if !almostEqual(score, (0.0*4+0.2)/5) {
		t.Errorf("Expected score 0.04 after wrong answer, got %v", score)
	}
}

func TestRecordAnswerClassifierFailureDegrades(t *testing.T) {
	store := newFakeStore()
	store.set("student-1", "Algebra", 0.5)
	archive := newFakeArchive()
	classifier := &fakeClassifier{err: context.DeadlineExceeded}
	updater := NewUpdater(store, archive, classifier)
	ctx := context.Background()

	if err := updater.RecordAnswer(ctx, answer("a1", false), question("q1", "Algebra")); err != nil {
		t.Fatalf("Classifier failure must not fail the update, got %v", err)
	}

	analysis := archive.attached["a1"]
	if analysis == nil || analysis.ErrorType != models.ErrorTypeAnalysisFailed {
		t.Errorf("Expected placeholder analysis, got %+v", analysis)
	}
	score, _, _ := store.Get(ctx, "student-1", "Algebra")
	if !almostEqual(score, (0.5*4+0.2)/5) {
		t.Errorf("Expected score to still update to 0.44, got %v", score)
	}
}

func TestRecordAnswerCorrectSkipsClassifier(t *testing.T) {
	archive := newFakeArchive()
	classifier := &fakeClassifier{}
	updater := NewUpdater(newFakeStore(), archive, classifier)

	if err := updater.RecordAnswer(context.Background(), answer("a1", true), question("q1", "Algebra")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if classifier.calls != 0 {
		t.Errorf("Expected classifier not to be called for correct answers, got %d calls", classifier.calls)
	}
	if len(archive.attached) != 0 {
		t.Errorf("Expected no analysis attached for correct answers")
	}
}

func TestRecordAnswerMissingQuestion(t *testing.T) {
	updater := NewUpdater(newFakeStore(), newFakeArchive(), nil)
	err := updater.RecordAnswer(context.Background(), answer("a1", true), nil)
	if !errors.Is(err, ErrQuestionMissing) {
		t.Errorf("Expected ErrQuestionMissing, got %v", err)
	}
}

func TestRecordAnswerPersistenceFailureIsFatal(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("write failed")
	updater := NewUpdater(store, newFakeArchive(), nil)

	if err := updater.RecordAnswer(context.Background(), answer("a1", true), question("q1", "Algebra")); err == nil {
		t.Error("Expected persistence failure to propagate for retry")
	}

	archive := newFakeArchive()
	archive.err = errors.New("write failed")
	updater = NewUpdater(newFakeStore(), archive, &fakeClassifier{result: &models.ErrorAnalysis{}})
	if err := updater.RecordAnswer(context.Background(), answer("a1", false), question("q1", "Algebra")); err == nil {
		t.Error("Expected analysis write failure to propagate for retry")
	}
}

func TestSeedScoreMapping(t *testing.T) {
	testCases := []struct {
		level    string
		expected float64
	}{
		{LevelBeginner, 0.2},
		{LevelIntermediate, 0.5},
		{LevelAdvanced, 0.8},
		{"something-else", 0.5},
	}
	for _, tc := range testCases {
		if got := SeedScore(tc.level); !almostEqual(got, tc.expected) {
			t.Errorf("SeedScore(%q) = %v, expected %v", tc.level, got, tc.expected)
		}
	}
}

func TestSeedIsIdempotent(t *testing.T) {
	store := newFakeStore()
	seeder := NewSeeder(store)
	ctx := context.Background()

	assessments := []SelfAssessment{
		{Topic: "Algebra", Level: LevelBeginner},
		{Topic: "History", Level: LevelAdvanced},
	}
	if err := seeder.Seed(ctx, "student-1", assessments); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// A later answer moves the score; re-seeding must not reset it.
	updater := NewUpdater(store, newFakeArchive(), nil)
	updater.RecordAnswer(ctx, answer("a1", true), question("q1", "Algebra"))
	moved, _, _ := store.Get(ctx, "student-1", "Algebra")

	if err := seeder.Seed(ctx, "student-1", assessments); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	score, _, _ := store.Get(ctx, "student-1", "Algebra")
	if !almostEqual(score, moved) {
		t.Errorf("Re-seeding overwrote the score: expected %v, got %v", moved, score)
	}
	score, _, _ = store.Get(ctx, "student-1", "History")
	if !almostEqual(score, 0.8) {
		t.Errorf("Expected History seed 0.8, got %v", score)
	}
}
