package models

import "time"

type UserRole string

const (
	RoleStudent UserRole = "student"
	RoleTeacher UserRole = "teacher"
	RoleAdmin   UserRole = "admin"
)

type Tenant struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Profile carries the student-facing identity. It is embedded in the user
// document but keeps its own ID because answers and proficiency records are
// keyed by profile, not by user.
type Profile struct {
	ID          string `bson:"id" json:"id"`
	FullName    string `bson:"full_name" json:"full_name"`
	CurrentGoal string `bson:"current_goal,omitempty" json:"current_goal,omitempty"`
}

type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	TenantID     string    `bson:"tenant_id" json:"tenant_id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	Role         UserRole  `bson:"role" json:"role"`
	Profile      Profile   `bson:"profile" json:"profile"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
}
