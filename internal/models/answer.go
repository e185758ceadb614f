package models

import "time"

// ErrorAnalysis is the structured result of the AI error classification for a
// wrong answer. ErrorTypeAnalysisFailed marks the degraded placeholder stored
// when the classifier is unavailable.
type ErrorAnalysis struct {
	ErrorType        string `bson:"error_type" json:"error_type"`
	BriefExplanation string `bson:"brief_explanation" json:"brief_explanation"`
	DetailedFeedback string `bson:"detailed_feedback" json:"detailed_feedback"`
}

const ErrorTypeAnalysisFailed = "analysis_failed"

type StudentAnswer struct {
	ID             string         `bson:"_id,omitempty" json:"id"`
	ProfileID      string         `bson:"profile_id" json:"profile_id"`
	QuestionID     string         `bson:"question_id" json:"question_id"`
	SelectedOption string         `bson:"selected_option" json:"selected_option"`
	IsCorrect      bool           `bson:"is_correct" json:"is_correct"`
	TimeTakenMs    int            `bson:"time_taken_ms,omitempty" json:"time_taken_ms,omitempty"`
	AIAnalysis     *ErrorAnalysis `bson:"ai_analysis,omitempty" json:"ai_analysis,omitempty"`
	AnsweredAt     time.Time      `bson:"answered_at" json:"answered_at"`
}
