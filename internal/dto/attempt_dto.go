package dto

import "edututor/internal/domain"

// RegisterStudentRequest registers a student before their first quiz
type RegisterStudentRequest struct {
	Name string `json:"name"`
}

// SubmitAttemptRequest carries a taken quiz and the student's selections,
// one per question in order. An unanswered question has an empty selection.
type SubmitAttemptRequest struct {
	QuizID     string             `json:"quiz_id"`
	Topic      string             `json:"topic"`
	Difficulty string             `json:"difficulty"`
	Questions  []QuestionResponse `json:"questions"`
	Selections []string           `json:"selections"`
}

// AttemptHistoryResponse lists a student's attempts in recording order
type AttemptHistoryResponse struct {
	Student  string               `json:"student"`
	Attempts []domain.QuizAttempt `json:"attempts"`
}

// ActivityResponse is the educator's view of per-student activity
type ActivityResponse struct {
	Topic    string                   `json:"topic,omitempty"`
	Students []domain.StudentActivity `json:"students"`
}
