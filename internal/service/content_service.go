package service

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"github.com/pedrorichil/aprovaia/internal/ai"
	"github.com/pedrorichil/aprovaia/internal/event"
	"github.com/pedrorichil/aprovaia/internal/models"
	"github.com/pedrorichil/aprovaia/internal/repository"
	"github.com/pedrorichil/aprovaia/internal/vector"
)

// ContentService manages the question bank: direct uploads and the
// exam-ingestion pipeline that extracts, structures and vectorizes questions
// from exam PDFs.
type ContentService struct {
	Questions *repository.QuestionRepository
	AI        *ai.Client
	Vectors   *vector.ChromaClient
}

func NewContentService(questions *repository.QuestionRepository, aiClient *ai.Client, vectors *vector.ChromaClient) *ContentService {
	return &ContentService{Questions: questions, AI: aiClient, Vectors: vectors}
}

type CreateQuestionInput struct {
	Content       string            `json:"content" binding:"required"`
	Options       map[string]string `json:"options" binding:"required"`
	CorrectOption string            `json:"correct_option" binding:"required"`
	Subject       string            `json:"subject" binding:"required"`
	Topic         string            `json:"topic" binding:"required"`
	Source        string            `json:"source"`
}

// CreateQuestion stores a question and indexes its embedding. The question
// id doubles as the vector id so the two stores stay linked.
func (s *ContentService) CreateQuestion(ctx context.Context, input CreateQuestionInput) (*models.Question, error) {
	embedding, err := s.AI.Embed(ctx, input.Content)
	if err != nil {
		return nil, fmt.Errorf("generate question embedding: %w", err)
	}

	question := &models.Question{
		ID:            uuid.NewString(),
		Content:       input.Content,
		Options:       input.Options,
		CorrectOption: input.CorrectOption,
		Subject:       input.Subject,
		Topic:         input.Topic,
		Source:        input.Source,
	}
	question.VectorID = question.ID

	if err := s.Questions.Create(ctx, question); err != nil {
		return nil, err
	}
	if err := s.indexQuestion(ctx, question, embedding); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *ContentService) indexQuestion(ctx context.Context, question *models.Question, embedding []float32) error {
	metadata := map[string]string{
		"subject": question.Subject,
		"topic":   question.Topic,
		"source":  question.Source,
	}
	if err := s.Vectors.UpsertQuestion(ctx, question.ID, embedding, metadata); err != nil {
		return err
	}
	return s.Questions.UpdateVectorID(ctx, question.ID, question.ID)
}

// SimilarQuestions returns questions semantically close to the given one,
// restricted to the same subject. Used to build variations of a question a
// student struggled with.
func (s *ContentService) SimilarQuestions(ctx context.Context, questionID string, limit int) ([]models.Question, error) {
	question, err := s.Questions.FindByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, nil
	}

	embedding, err := s.AI.Embed(ctx, question.Content)
	if err != nil {
		return nil, fmt.Errorf("embed question for similarity search: %w", err)
	}
	// Ask for one extra so the question itself can be dropped from the hits.
	ids, err := s.Vectors.QuerySimilar(ctx, embedding, limit+1, question.Subject)
	if err != nil {
		return nil, err
	}

	similar := make([]models.Question, 0, limit)
	for _, id := range ids {
		if id == question.ID || len(similar) == limit {
			continue
		}
		match, err := s.Questions.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if match != nil {
			similar = append(similar, *match)
		}
	}
	return similar, nil
}

// UpdateAnswerKey sets the correct option for a question. Returns nil when
// the question does not exist.
func (s *ContentService) UpdateAnswerKey(ctx context.Context, questionID, correctOption string) (*models.Question, error) {
	return s.Questions.UpdateAnswerKey(ctx, questionID, correctOption)
}

// IngestExam is the worker-side handler for an exam job: extract the PDF
// text, structure it into questions via the AI service and index each one.
// A question that fails to embed is skipped, not fatal, matching the
// best-effort nature of bulk ingestion.
func (s *ContentService) IngestExam(ctx context.Context, job event.ExamJob) error {
	defer os.Remove(job.FilePath)

	text, err := extractPDFText(job.FilePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Exam file %s is gone, skipping", job.FilePath)
			return nil
		}
		return fmt.Errorf("extract exam text: %w", err)
	}
	if text == "" {
		log.Printf("Exam file %s has no extractable text", job.FilePath)
		return nil
	}

	drafts, err := s.AI.StructureExam(ctx, text)
	if err != nil {
		return fmt.Errorf("structure exam: %w", err)
	}

	source := fmt.Sprintf("%s %d", job.Contest, job.Year)
	for _, draft := range drafts {
		question := &models.Question{
			ID:      uuid.NewString(),
			Content: draft.Content,
			Options: draft.Options,
			Subject: draft.Subject,
			Topic:   draft.Topic,
			Source:  source,
		}
		if err := s.Questions.Create(ctx, question); err != nil {
			log.Printf("Failed to store extracted question: %v", err)
			continue
		}

		embedding, err := s.AI.Embed(ctx, question.Content)
		if err != nil {
			log.Printf("Failed to embed question %s: %v", question.ID, err)
			continue
		}
		if err := s.indexQuestion(ctx, question, embedding); err != nil {
			log.Printf("Failed to index question %s: %v", question.ID, err)
		}
	}
	return nil
}

func extractPDFText(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var text string
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text += content
	}
	return text, nil
}
