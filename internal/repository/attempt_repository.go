package repository

import (
	"context"
	"strings"
	"sync"

	"edututor/internal/domain"
)

// memoryAttemptRepository implements domain.AttemptRepository in process memory.
// History lives as long as the process does.
type memoryAttemptRepository struct {
	mu       sync.RWMutex
	students []string
	attempts map[string][]domain.QuizAttempt
}

// NewMemoryAttemptRepository creates an empty in-memory attempt repository.
func NewMemoryAttemptRepository() domain.AttemptRepository {
	return &memoryAttemptRepository{attempts: make(map[string][]domain.QuizAttempt)}
}

func (r *memoryAttemptRepository) RegisterStudent(ctx context.Context, student string) error {
	student = strings.TrimSpace(student)
	if student == "" {
		return domain.NewInvalidRequestError(domain.ValidationErrors{domain.NewMissingFieldError("student")})
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registerLocked(student)
	return nil
}

func (r *memoryAttemptRepository) registerLocked(student string) {
	if _, ok := r.attempts[student]; ok {
		return
	}
	r.attempts[student] = nil
	r.students = append(r.students, student)
}

func (r *memoryAttemptRepository) StudentExists(ctx context.Context, student string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.attempts[strings.TrimSpace(student)]
	return ok, nil
}

// CreateAttempt appends attempt to its student's history, registering the student if needed.
func (r *memoryAttemptRepository) CreateAttempt(ctx context.Context, attempt *domain.QuizAttempt) error {
	if attempt == nil {
		return domain.NewInternalError("attempt is nil", nil)
	}
	student := strings.TrimSpace(attempt.Student)
	if student == "" {
		return domain.NewInvalidRequestError(domain.ValidationErrors{domain.NewMissingFieldError("student")})
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registerLocked(student)
	stored := *attempt
	stored.Student = student
	r.attempts[student] = append(r.attempts[student], stored)
	return nil
}

// GetAttemptsByStudent returns a copy of the student's history in recording order.
func (r *memoryAttemptRepository) GetAttemptsByStudent(ctx context.Context, student string) ([]domain.QuizAttempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	history, ok := r.attempts[strings.TrimSpace(student)]
	if !ok {
		return nil, domain.NewNotFoundError("student not found: " + student)
	}
	out := make([]domain.QuizAttempt, len(history))
	copy(out, history)
	return out, nil
}

func (r *memoryAttemptRepository) ListStudents(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.students))
	copy(out, r.students)
	return out, nil
}
