package adaptive

import (
	"context"
	"math/rand"
	"sort"

	"github.com/pedrorichil/aprovaia/internal/models"
)

// exploitProbability is how often the selector targets the student's weakest
// topic. The remaining probability mass picks a uniformly random known topic
// so stronger topics keep resurfacing.
const exploitProbability = 0.8

// Selector picks the next question for a student from their proficiency
// snapshot and answer history. It has no side effects.
type Selector struct {
	store   ProficiencyStore
	catalog QuestionCatalog

	randFloat func() float64
	randIntn  func(n int) int
}

func NewSelector(store ProficiencyStore, catalog QuestionCatalog) *Selector {
	// Package-level rand is internally locked; SelectNext runs on concurrent
	// request goroutines, so a private rand.Rand would race.
	return &Selector{
		store:     store,
		catalog:   catalog,
		randFloat: rand.Float64,
		randIntn:  rand.Intn,
	}
}

// SelectNext returns the next question for the student, or ErrNoQuestions
// when every catalog question has already been answered (or the catalog is
// empty).
func (s *Selector) SelectNext(ctx context.Context, profileID string) (*models.Question, error) {
	targetTopic, err := s.pickTopic(ctx, profileID)
	if err != nil {
		return nil, err
	}

	if targetTopic != "" {
		question, err := s.catalog.NextUnanswered(ctx, profileID, targetTopic)
		if err != nil {
			return nil, err
		}
		if question != nil {
			return question, nil
		}
	}

	// The target topic is exhausted (or unknown): any unanswered question.
	question, err := s.catalog.NextUnanswered(ctx, profileID, "")
	if err != nil {
		return nil, err
	}
	if question == nil {
		return nil, ErrNoQuestions
	}
	return question, nil
}

func (s *Selector) pickTopic(ctx context.Context, profileID string) (string, error) {
	scores, err := s.store.ScoresByProfile(ctx, profileID)
	if err != nil {
		return "", err
	}

	if len(scores) > 0 {
		topics := sortedTopics(scores)
		if s.randFloat() < exploitProbability {
			return weakestTopic(scores, topics), nil
		}
		return topics[s.randIntn(len(topics))], nil
	}

	// New student: no proficiency map yet, explore the whole catalog.
	topics, err := s.catalog.ListTopics(ctx)
	if err != nil {
		return "", err
	}
	if len(topics) == 0 {
		return "", ErrNoQuestions
	}
	return topics[s.randIntn(len(topics))], nil
}

// weakestTopic returns the topic with the lowest score. Ties break on the
// lexicographically smallest topic name so the choice is deterministic.
func weakestTopic(scores map[string]float64, sorted []string) string {
	weakest := sorted[0]
	for _, topic := range sorted[1:] {
		if scores[topic] < scores[weakest] {
			weakest = topic
		}
	}
	return weakest
}

func sortedTopics(scores map[string]float64) []string {
	topics := make([]string, 0, len(scores))
	for topic := range scores {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}
