package models

type Question struct {
	ID            string            `bson:"_id,omitempty" json:"id"`
	Content       string            `bson:"content" json:"content"`
	Options       map[string]string `bson:"options" json:"options"`
	CorrectOption string            `bson:"correct_option" json:"correct_option"`
	Subject       string            `bson:"subject" json:"subject"`
	Topic         string            `bson:"topic" json:"topic"`
	Source        string            `bson:"source,omitempty" json:"source,omitempty"`
	VectorID      string            `bson:"vector_id,omitempty" json:"vector_id,omitempty"`
}

// Grade reports whether the selected option matches the answer key.
func (q *Question) Grade(selectedOption string) bool {
	return q.CorrectOption != "" && q.CorrectOption == selectedOption
}

// QuestionDraft is a question as extracted from an exam document, before it
// has been persisted or given an answer key.
type QuestionDraft struct {
	Subject string            `json:"subject"`
	Topic   string            `json:"topic"`
	Content string            `json:"content"`
	Options map[string]string `json:"options"`
}
