package validation

import (
	"strings"
	"unicode/utf8"

	"edututor/internal/domain"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateQuizRequest checks topic, difficulty and question count.
func (v *Validator) ValidateQuizRequest(topic, difficulty string, count int) domain.ValidationErrors {
	var errors domain.ValidationErrors

	trimmed := strings.TrimSpace(topic)
	if trimmed == "" {
		errors = append(errors, domain.NewMissingFieldError("topic"))
	} else if n := utf8.RuneCountInString(trimmed); n > domain.MaxTopicLength {
		errors = append(errors, domain.NewOutOfRangeError("topic", n, 1, domain.MaxTopicLength))
	}

	if strings.TrimSpace(difficulty) == "" {
		errors = append(errors, domain.NewMissingFieldError("difficulty"))
	} else if _, ok := domain.ParseDifficulty(difficulty); !ok {
		errors = append(errors, domain.NewInvalidFormatError("difficulty", difficulty))
	}

	if count < domain.MinQuestions || count > domain.MaxQuestions {
		errors = append(errors, domain.NewOutOfRangeError("num_questions", count, domain.MinQuestions, domain.MaxQuestions))
	}

	return errors
}

// BuildQuizRequest validates raw input and returns the normalized request.
func (v *Validator) BuildQuizRequest(topic, difficulty string, count int) (domain.QuizRequest, error) {
	if errs := v.ValidateQuizRequest(topic, difficulty, count); len(errs) > 0 {
		return domain.QuizRequest{}, domain.NewInvalidRequestError(errs)
	}
	d, _ := domain.ParseDifficulty(difficulty)
	return domain.QuizRequest{Topic: strings.TrimSpace(topic), Difficulty: d, Count: count}, nil
}

// ValidateStudentName checks a student identifier.
func (v *Validator) ValidateStudentName(name string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		errors = append(errors, domain.NewMissingFieldError("student"))
	} else if n := utf8.RuneCountInString(trimmed); n > 64 {
		errors = append(errors, domain.NewOutOfRangeError("student", n, 1, 64))
	}
	return errors
}
