package adaptive

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/pedrorichil/aprovaia/internal/models"
)

type fakeStore struct {
	scores map[string]map[string]float64
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{scores: make(map[string]map[string]float64)}
}

func (s *fakeStore) set(profileID, topic string, score float64) {
	if s.scores[profileID] == nil {
		s.scores[profileID] = make(map[string]float64)
	}
	s.scores[profileID][topic] = score
}

func (s *fakeStore) Get(_ context.Context, profileID, topic string) (float64, bool, error) {
	if s.err != nil {
		return 0, false, s.err
	}
	score, ok := s.scores[profileID][topic]
	return score, ok, nil
}

func (s *fakeStore) Upsert(_ context.Context, profileID, topic string, score float64) error {
	if s.err != nil {
		return s.err
	}
	s.set(profileID, topic, score)
	return nil
}

func (s *fakeStore) SeedIfAbsent(_ context.Context, profileID, topic string, score float64) error {
	if s.err != nil {
		return s.err
	}
	if _, ok := s.scores[profileID][topic]; !ok {
		s.set(profileID, topic, score)
	}
	return nil
}

func (s *fakeStore) ScoresByProfile(_ context.Context, profileID string) (map[string]float64, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make(map[string]float64, len(s.scores[profileID]))
	for topic, score := range s.scores[profileID] {
		out[topic] = score
	}
	return out, nil
}

type fakeCatalog struct {
	questions []*models.Question
	answered  map[string]bool
	requested []string
}

func newFakeCatalog(questions ...*models.Question) *fakeCatalog {
	return &fakeCatalog{questions: questions, answered: make(map[string]bool)}
}

func (c *fakeCatalog) ListTopics(_ context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var topics []string
	for _, q := range c.questions {
		if !seen[q.Topic] {
			seen[q.Topic] = true
			topics = append(topics, q.Topic)
		}
	}
	return topics, nil
}

func (c *fakeCatalog) NextUnanswered(_ context.Context, _ string, topic string) (*models.Question, error) {
	c.requested = append(c.requested, topic)
	for _, q := range c.questions {
		if c.answered[q.ID] {
			continue
		}
		if topic == "" || q.Topic == topic {
			return q, nil
		}
	}
	return nil, nil
}

func question(id, topic string) *models.Question {
	return &models.Question{ID: id, Topic: topic, Subject: "Geral", CorrectOption: "A"}
}

func newTestSelector(store ProficiencyStore, catalog QuestionCatalog, randFloat float64, randIntn int) *Selector {
	s := NewSelector(store, catalog)
	s.randFloat = func() float64 { return randFloat }
	s.randIntn = func(n int) int { return randIntn % n }
	return s
}

func TestSelectNextNewStudent(t *testing.T) {
	catalog := newFakeCatalog(
		question("q1", "Algebra"), question("q2", "Algebra"),
		question("q3", "History"), question("q4", "History"),
	)

	// A student with no proficiency map must still get a question from one
	// of the catalog topics, whatever the random draw.
	for intn := 0; intn < 2; intn++ {
		selector := newTestSelector(newFakeStore(), catalog, 0.5, intn)
		q, err := selector.SelectNext(context.Background(), "student-1")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if q.Topic != "Algebra" && q.Topic != "History" {
			t.Errorf("Expected a catalog topic, got %q", q.Topic)
		}
	}
}

func TestSelectNextTargetsWeakestTopic(t *testing.T) {
	store := newFakeStore()
	store.set("student-1", "Algebra", 0.9)
	store.set("student-1", "History", 0.1)
	store.set("student-1", "Law", 0.5)

	catalog := newFakeCatalog(
		question("q1", "Algebra"), question("q2", "History"), question("q3", "Law"),
	)
	selector := newTestSelector(store, catalog, 0.0, 0) // always exploit

	q, err := selector.SelectNext(context.Background(), "student-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if q.Topic != "History" {
		t.Errorf("Expected weakest topic History, got %q", q.Topic)
	}
}

func TestSelectNextWeakestTieBreaksOnTopicName(t *testing.T) {
	store := newFakeStore()
	store.set("student-1", "History", 0.3)
	store.set("student-1", "Algebra", 0.3)

	catalog := newFakeCatalog(question("q1", "Algebra"), question("q2", "History"))
	selector := newTestSelector(store, catalog, 0.0, 0)

	q, err := selector.SelectNext(context.Background(), "student-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if q.Topic != "Algebra" {
		t.Errorf("Expected tie to break on topic name (Algebra), got %q", q.Topic)
	}
}

func TestSelectNextExploresKnownTopics(t *testing.T) {
	store := newFakeStore()
	store.set("student-1", "Algebra", 0.1)
	store.set("student-1", "History", 0.9)

	catalog := newFakeCatalog(question("q1", "Algebra"), question("q2", "History"))
	// Random draw above the exploit probability, index 1 of the sorted
	// topics: the strong topic must be reachable.
	selector := newTestSelector(store, catalog, 0.95, 1)

	q, err := selector.SelectNext(context.Background(), "student-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if q.Topic != "History" {
		t.Errorf("Expected explored topic History, got %q", q.Topic)
	}
}

func TestSelectNextFallsBackToOtherTopics(t *testing.T) {
	store := newFakeStore()
	store.set("student-1", "Algebra", 0.1)

	catalog := newFakeCatalog(
		question("q1", "Algebra"), question("q2", "History"),
	)
	catalog.answered["q1"] = true

	selector := newTestSelector(store, catalog, 0.0, 0)
	q, err := selector.SelectNext(context.Background(), "student-1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if q.ID != "q2" {
		t.Errorf("Expected fallback to q2, got %q", q.ID)
	}
}

func TestSelectNextNeverRepeatsAnsweredQuestions(t *testing.T) {
	store := newFakeStore()
	store.set("student-1", "Algebra", 0.2)
	store.set("student-1", "History", 0.6)

	catalog := newFakeCatalog(
		question("q1", "Algebra"), question("q2", "Algebra"),
		question("q3", "History"), question("q4", "History"),
	)
	selector := NewSelector(store, catalog) // real randomness

	seen := make(map[string]bool)
	for i := 0; i < 4; i++ {
		q, err := selector.SelectNext(context.Background(), "student-1")
		if err != nil {
			t.Fatalf("Unexpected error on draw %d: %v", i, err)
		}
		if seen[q.ID] {
			t.Fatalf("Question %q returned twice", q.ID)
		}
		seen[q.ID] = true
		catalog.answered[q.ID] = true
	}

	if _, err := selector.SelectNext(context.Background(), "student-1"); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("Expected ErrNoQuestions after exhausting the catalog, got %v", err)
	}
}

func TestSelectNextEmptyCatalog(t *testing.T) {
	selector := NewSelector(newFakeStore(), newFakeCatalog())
	if _, err := selector.SelectNext(context.Background(), "student-1"); !errors.Is(err, ErrNoQuestions) {
		t.Errorf("Expected ErrNoQuestions for empty catalog, got %v", err)
	}
}

// staticCatalog is safe for concurrent reads, unlike fakeCatalog which
// records the requested topics.
type staticCatalog struct {
	topics   []string
	question *models.Question
}

func (c *staticCatalog) ListTopics(_ context.Context) ([]string, error) {
	return c.topics, nil
}

func (c *staticCatalog) NextUnanswered(_ context.Context, _, _ string) (*models.Question, error) {
	return c.question, nil
}

func TestSelectNextConcurrentRequests(t *testing.T) {
	store := newFakeStore()
	store.set("student-1", "Algebra", 0.2)
	store.set("student-1", "History", 0.7)

	catalog := &staticCatalog{
		topics:   []string{"Algebra", "History"},
		question: question("q1", "Algebra"),
	}
	selector := NewSelector(store, catalog)

	// Selection runs on parallel request goroutines sharing one selector;
	// every draw must come back clean.
	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				q, err := selector.SelectNext(context.Background(), "student-1")
				if err != nil || q == nil {
					errs <- err
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Fatalf("Concurrent SelectNext failed: %v", err)
	}
}

func TestSelectNextPropagatesStoreError(t *testing.T) {
	store := newFakeStore()
	store.err = errors.New("mongo down")

	selector := NewSelector(store, newFakeCatalog(question("q1", "Algebra")))
	if _, err := selector.SelectNext(context.Background(), "student-1"); err == nil {
		t.Error("Expected store error to propagate")
	}
}
