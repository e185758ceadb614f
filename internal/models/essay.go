package models

// EssayCriterion is one of the five grading criteria. JSON keys follow the
// contract the frontend already consumes.
type EssayCriterion struct {
	Name     string  `json:"nome"`
	Score    float64 `json:"nota"`
	Feedback string  `json:"feedback"`
}

type EssayGrade struct {
	GeneralFeedback string           `json:"feedback_geral"`
	TotalScore      float64          `json:"nota_total"`
	Criteria        []EssayCriterion `json:"criterios"`
}
