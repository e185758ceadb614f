package models

import "time"

// ProficiencyRecord is the per-(profile, topic) proficiency estimate, a [0,1]
// exponential moving average over answer correctness. At most one record
// exists per (profile_id, topic) pair.
type ProficiencyRecord struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	ProfileID   string    `bson:"profile_id" json:"profile_id"`
	Topic       string    `bson:"topic" json:"topic"`
	Score       float64   `bson:"proficiency_score" json:"proficiency_score"`
	LastUpdated time.Time `bson:"last_updated" json:"last_updated"`
}
