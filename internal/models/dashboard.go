package models

type TopicAverage struct {
	Topic   string  `json:"topic"`
	Average float64 `json:"average"`
}

type Engagement struct {
	ActiveStudents int `json:"active_students"`
	TotalStudents  int `json:"total_students"`
}

type TeacherDashboard struct {
	ClassAverageScore   float64        `json:"class_average_score"`
	MostDifficultTopics []TopicAverage `json:"most_difficult_topics"`
	Engagement          Engagement     `json:"engagement"`
}

type StudentDetails struct {
	Profile        Profile             `json:"profile"`
	ProficiencyMap []ProficiencyRecord `json:"proficiency_map"`
	RecentErrors   []StudentAnswer     `json:"recent_errors"`
}
