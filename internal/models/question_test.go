package models

import "testing"

func TestQuestionGrade(t *testing.T) {
	question := &Question{
		CorrectOption: "b",
		Options: map[string]string{
			"a": "Errada",
			"b": "Certa",
			"c": "Errada",
		},
	}

	tests := []struct {
		name     string
		selected string
		want     bool
	}{
		{"correct option", "b", true},
		{"wrong option", "a", false},
		{"case differs", "B", false},
		{"unknown option", "z", false},
		{"empty selection", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := question.Grade(tt.selected); got != tt.want {
				t.Errorf("Grade(%q) = %v, want %v", tt.selected, got, tt.want)
			}
		})
	}
}

func TestQuestionGradeWithoutAnswerKey(t *testing.T) {
	question := &Question{Options: map[string]string{"a": "Única"}}
	if question.Grade("a") {
		t.Error("A question without an answer key must never grade as correct")
	}
	if question.Grade("") {
		t.Error("Empty selection must never grade as correct")
	}
}
