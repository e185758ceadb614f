package adaptive

import (
	"context"
	"log"
	"sync"

	"github.com/pedrorichil/aprovaia/internal/models"
)

const (
	// emaWeight keeps four parts of the previous estimate per observation,
	// so a single answer moves the score by at most 0.2.
	emaWeight = 4.0

	outcomeCorrect   = 1.0
	outcomeIncorrect = 0.2
)

// Updater applies a graded answer to the student's proficiency estimate for
// the question's topic. It runs off the request path, driven by the analysis
// queue consumer; redelivery is safe because the previous score is re-read
// from the store on every attempt.
type Updater struct {
	store      ProficiencyStore
	archive    AnswerArchive
	classifier Classifier

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewUpdater(store ProficiencyStore, archive AnswerArchive, classifier Classifier) *Updater {
	return &Updater{
		store:      store,
		archive:    archive,
		classifier: classifier,
		locks:      make(map[string]*sync.Mutex),
	}
}

// RecordAnswer enriches a wrong answer with the AI error classification and
// updates the proficiency record for (answer.ProfileID, question.Topic).
// Classifier failures degrade to a stored placeholder and never abort the
// update; a store write failure aborts so the job can be redelivered.
func (u *Updater) RecordAnswer(ctx context.Context, answer *models.StudentAnswer, question *models.Question) error {
	if question == nil {
		return ErrQuestionMissing
	}

	if !answer.IsCorrect {
		analysis := u.classifyError(ctx, answer, question)
		if err := u.archive.AttachAnalysis(ctx, answer.ID, analysis); err != nil {
			return err
		}
	}

	return u.applyOutcome(ctx, answer.ProfileID, question.Topic, answer.IsCorrect)
}

func (u *Updater) classifyError(ctx context.Context, answer *models.StudentAnswer, question *models.Question) *models.ErrorAnalysis {
	if u.classifier == nil {
		return FallbackAnalysis()
	}
	analysis, err := u.classifier.Classify(ctx, question, answer.SelectedOption)
	if err != nil || analysis == nil {
		log.Printf("Error classification unavailable for answer %s: %v", answer.ID, err)
		return FallbackAnalysis()
	}
	return analysis
}

func (u *Updater) applyOutcome(ctx context.Context, profileID, topic string, isCorrect bool) error {
	// Updates for the same (profile, topic) must not interleave: the EMA is
	// not commutative, so the read-modify-write is serialized per key.
	lock := u.recordLock(profileID + "\x00" + topic)
	lock.Lock()
	defer lock.Unlock()

	previous, _, err := u.store.Get(ctx, profileID, topic)
	if err != nil {
		return err
	}

	outcome := outcomeIncorrect
	if isCorrect {
		outcome = outcomeCorrect
	}
	score := (previous*emaWeight + outcome) / (emaWeight + 1)

	return u.store.Upsert(ctx, profileID, topic, score)
}

func (u *Updater) recordLock(key string) *sync.Mutex {
	u.mu.Lock()
	defer u.mu.Unlock()
	lock, ok := u.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		u.locks[key] = lock
	}
	return lock
}
