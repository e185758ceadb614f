package service

import (
	"context"
	"errors"
	"testing"

	"github.com/pedrorichil/aprovaia/internal/models"
)

type fakeQuestions struct {
	questions map[string]*models.Question
}

func (f *fakeQuestions) FindByID(_ context.Context, id string) (*models.Question, error) {
	return f.questions[id], nil
}

type fakeAnswers struct {
	stored map[string]*models.StudentAnswer
}

func newFakeAnswers() *fakeAnswers {
	return &fakeAnswers{stored: make(map[string]*models.StudentAnswer)}
}

func (f *fakeAnswers) Create(_ context.Context, answer *models.StudentAnswer) error {
	f.stored[answer.ID] = answer
	return nil
}

func (f *fakeAnswers) FindByID(_ context.Context, id string) (*models.StudentAnswer, error) {
	return f.stored[id], nil
}

func (f *fakeAnswers) Delete(_ context.Context, id string) error {
	delete(f.stored, id)
	return nil
}

type fakeQueue struct {
	enqueued []string
	err      error
}

func (f *fakeQueue) EnqueueAnalysis(answerID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.enqueued = append(f.enqueued, answerID)
	return "job-1", nil
}

func testQuestion() *models.Question {
	return &models.Question{
		ID:            "q1",
		Topic:         "Algebra",
		Subject:       "Matemática",
		CorrectOption: "B",
		Options:       map[string]string{"A": "Errada", "B": "Certa"},
	}
}

func TestSubmitAnswerGradesAndEnqueues(t *testing.T) {
	answers := newFakeAnswers()
	queue := &fakeQueue{}
	svc := NewStudentService(
		&fakeQuestions{questions: map[string]*models.Question{"q1": testQuestion()}},
		answers, nil, nil, nil, queue,
	)

	result, err := svc.SubmitAnswer(context.Background(), "student-1", SubmitAnswerInput{
		QuestionID:     "q1",
		SelectedOption: "B",
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.IsCorrect || result.CorrectOption != "B" {
		t.Errorf("Expected correct grading, got %+v", result)
	}
	if len(queue.enqueued) != 1 || queue.enqueued[0] != result.AnswerID {
		t.Errorf("Expected analysis job for %s, got %v", result.AnswerID, queue.enqueued)
	}
	if answers.stored[result.AnswerID] == nil {
		t.Error("Expected the answer to be persisted")
	}
}

func TestSubmitAnswerUnknownQuestion(t *testing.T) {
	svc := NewStudentService(
		&fakeQuestions{questions: map[string]*models.Question{}},
		newFakeAnswers(), nil, nil, nil, &fakeQueue{},
	)

	_, err := svc.SubmitAnswer(context.Background(), "student-1", SubmitAnswerInput{
		QuestionID:     "missing",
		SelectedOption: "A",
	})
	if !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("Expected ErrQuestionNotFound, got %v", err)
	}
}

func TestSubmitAnswerEnqueueFailureRollsBack(t *testing.T) {
	answers := newFakeAnswers()
	queue := &fakeQueue{err: errors.New("broker down")}
	svc := NewStudentService(
		&fakeQuestions{questions: map[string]*models.Question{"q1": testQuestion()}},
		answers, nil, nil, nil, queue,
	)

	_, err := svc.SubmitAnswer(context.Background(), "student-1", SubmitAnswerInput{
		QuestionID:     "q1",
		SelectedOption: "B",
	})
	if err == nil {
		t.Fatal("Expected enqueue failure to surface")
	}
	// The stored answer must be gone so a client retry cannot create a
	// duplicate event that double-applies the proficiency update.
	if len(answers.stored) != 0 {
		t.Errorf("Expected the answer to be rolled back, still stored: %v", answers.stored)
	}
}

func TestAnswerAnalysisOwnership(t *testing.T) {
	answers := newFakeAnswers()
	answers.stored["a1"] = &models.StudentAnswer{ID: "a1", ProfileID: "student-1"}
	svc := NewStudentService(
		&fakeQuestions{questions: map[string]*models.Question{}},
		answers, nil, nil, nil, &fakeQueue{},
	)
	ctx := context.Background()

	if _, err := svc.AnswerAnalysis(ctx, "student-2", "a1"); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Expected ErrNotOwner for another student's answer, got %v", err)
	}
	if _, err := svc.AnswerAnalysis(ctx, "student-1", "missing"); !errors.Is(err, ErrAnswerNotFound) {
		t.Errorf("Expected ErrAnswerNotFound, got %v", err)
	}
	answer, err := svc.AnswerAnalysis(ctx, "student-1", "a1")
	if err != nil || answer == nil {
		t.Fatalf("Expected the owner to read the answer, got %v", err)
	}
}
