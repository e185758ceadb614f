package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/pedrorichil/aprovaia/internal/adaptive"
	"github.com/pedrorichil/aprovaia/internal/models"
)

var (
	ErrQuestionNotFound = errors.New("question not found")
	ErrAnswerNotFound   = errors.New("answer not found")
	ErrNotOwner         = errors.New("answer belongs to another student")
)

// Persistence and queue contracts consumed by the student flow. Satisfied by
// the repository and event packages.
type questionFinder interface {
	FindByID(ctx context.Context, id string) (*models.Question, error)
}

type answerStore interface {
	Create(ctx context.Context, answer *models.StudentAnswer) error
	FindByID(ctx context.Context, id string) (*models.StudentAnswer, error)
	Delete(ctx context.Context, id string) error
}

type progressReader interface {
	ListByProfile(ctx context.Context, profileID string) ([]models.ProficiencyRecord, error)
}

type analysisQueue interface {
	EnqueueAnalysis(answerID string) (string, error)
}

// StudentService drives the assessment loop: next question, answer
// submission and the asynchronous analysis job behind it.
type StudentService struct {
	Questions   questionFinder
	Answers     answerStore
	Proficiency progressReader
	Selector    *adaptive.Selector
	Updater     *adaptive.Updater
	Publisher   analysisQueue
}

func NewStudentService(
	questions questionFinder,
	answers answerStore,
	proficiency progressReader,
	selector *adaptive.Selector,
	updater *adaptive.Updater,
	publisher analysisQueue,
) *StudentService {
	return &StudentService{
		Questions:   questions,
		Answers:     answers,
		Proficiency: proficiency,
		Selector:    selector,
		Updater:     updater,
		Publisher:   publisher,
	}
}

// Progress returns the student's proficiency map, strongest topics first.
func (s *StudentService) Progress(ctx context.Context, profileID string) ([]models.ProficiencyRecord, error) {
	return s.Proficiency.ListByProfile(ctx, profileID)
}

// NextQuestion picks the next question for the student. Returns
// adaptive.ErrNoQuestions when the student has exhausted the catalog.
func (s *StudentService) NextQuestion(ctx context.Context, profileID string) (*models.Question, error) {
	return s.Selector.SelectNext(ctx, profileID)
}

type SubmitAnswerInput struct {
	QuestionID     string `json:"question_id" binding:"required"`
	SelectedOption string `json:"selected_option" binding:"required"`
	TimeTakenMs    int    `json:"time_taken_ms"`
}

type SubmitAnswerResult struct {
	AnswerID      string `json:"answer_id"`
	IsCorrect     bool   `json:"is_correct"`
	CorrectOption string `json:"correct_option"`
}

// SubmitAnswer grades the answer against the key, stores the event and
// enqueues the analysis job. The proficiency update itself happens on the
// worker so AI latency never delays the acknowledgement.
func (s *StudentService) SubmitAnswer(ctx context.Context, profileID string, input SubmitAnswerInput) (*SubmitAnswerResult, error) {
	question, err := s.Questions.FindByID(ctx, input.QuestionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	answer := &models.StudentAnswer{
		ID:             uuid.NewString(),
		ProfileID:      profileID,
		QuestionID:     question.ID,
		SelectedOption: input.SelectedOption,
		IsCorrect:      question.Grade(input.SelectedOption),
		TimeTakenMs:    input.TimeTakenMs,
		AnsweredAt:     time.Now().UTC(),
	}
	if err := s.Answers.Create(ctx, answer); err != nil {
		return nil, err
	}

	if _, err := s.Publisher.EnqueueAnalysis(answer.ID); err != nil {
		// Roll the stored answer back: a client retry after the 500 would
		// otherwise create a duplicate event and double-apply the EMA.
		if delErr := s.Answers.Delete(ctx, answer.ID); delErr != nil {
			log.Printf("Failed to roll back answer %s after enqueue failure: %v", answer.ID, delErr)
		}
		return nil, err
	}

	return &SubmitAnswerResult{
		AnswerID:      answer.ID,
		IsCorrect:     answer.IsCorrect,
		CorrectOption: question.CorrectOption,
	}, nil
}

// AnswerAnalysis returns the AI analysis for one of the student's own
// answers.
func (s *StudentService) AnswerAnalysis(ctx context.Context, profileID, answerID string) (*models.StudentAnswer, error) {
	answer, err := s.Answers.FindByID(ctx, answerID)
	if err != nil {
		return nil, err
	}
	if answer == nil {
		return nil, ErrAnswerNotFound
	}
	if answer.ProfileID != profileID {
		return nil, ErrNotOwner
	}
	return answer, nil
}

// ProcessAnalysis is the worker-side handler for an analysis job: it reloads
// the answer and question and applies the proficiency update.
func (s *StudentService) ProcessAnalysis(ctx context.Context, answerID string) error {
	answer, err := s.Answers.FindByID(ctx, answerID)
	if err != nil {
		return err
	}
	if answer == nil {
		return ErrAnswerNotFound
	}

	question, err := s.Questions.FindByID(ctx, answer.QuestionID)
	if err != nil {
		return err
	}

	return s.Updater.RecordAnswer(ctx, answer, question)
}
