package service

import (
	"context"

	"github.com/pedrorichil/aprovaia/internal/models"
	"github.com/pedrorichil/aprovaia/internal/repository"
)

// Catalog combines the question and answer repositories into the read-only
// view the question selector consumes.
type Catalog struct {
	Questions *repository.QuestionRepository
	Answers   *repository.AnswerRepository
}

func NewCatalog(questions *repository.QuestionRepository, answers *repository.AnswerRepository) *Catalog {
	return &Catalog{Questions: questions, Answers: answers}
}

func (c *Catalog) ListTopics(ctx context.Context) ([]string, error) {
	return c.Questions.ListTopics(ctx)
}

func (c *Catalog) NextUnanswered(ctx context.Context, profileID, topic string) (*models.Question, error) {
	answered, err := c.Answers.AnsweredQuestionIDs(ctx, profileID)
	if err != nil {
		return nil, err
	}
	return c.Questions.FindFirstExcluding(ctx, topic, answered)
}
