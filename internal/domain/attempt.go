package domain

import (
	"context"
	"time"
)

// QuizAttempt is one graded submission by a student.
type QuizAttempt struct {
	ID         string     `json:"id"`
	Student    string     `json:"student"`
	QuizID     string     `json:"quiz_id,omitempty"`
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
	Score      int        `json:"score"`
	Total      int        `json:"total"`
	TakenAt    time.Time  `json:"taken_at"`
}

// StudentActivity is a student's (possibly filtered) history with its mean score.
type StudentActivity struct {
	Student      string        `json:"student"`
	Attempts     []QuizAttempt `json:"attempts"`
	AverageScore float64       `json:"average_score"`
}

// DashboardSummary aggregates activity across every student.
type DashboardSummary struct {
	RegisteredStudents int     `json:"registered_students"`
	TotalQuizzes       int     `json:"total_quizzes"`
	AverageScore       float64 `json:"average_score"`
	PopularTopic       string  `json:"popular_topic"`
}

// AttemptRepository stores quiz history per student.
type AttemptRepository interface {
	RegisterStudent(ctx context.Context, student string) error
	StudentExists(ctx context.Context, student string) (bool, error)
	CreateAttempt(ctx context.Context, attempt *QuizAttempt) error
	GetAttemptsByStudent(ctx context.Context, student string) ([]QuizAttempt, error)
	// ListStudents returns students in registration order.
	ListStudents(ctx context.Context) ([]string, error)
}
