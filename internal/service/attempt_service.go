package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"edututor/internal/domain"
	"edututor/internal/logger"
	"edututor/internal/util"
	"edututor/internal/validation"

	"go.uber.org/zap"
)

// CSVTimestampLayout is the timestamp format of exported attempts.
const CSVTimestampLayout = "2006-01-02 15:04:05"

var csvHeader = []string{"Student", "Topic", "Score", "Difficulty", "Timestamp"}

// AttemptSubmission is a taken quiz with the student's selected option per question.
type AttemptSubmission struct {
	QuizID     string
	Topic      string
	Difficulty string
	Questions  []domain.Question
	Selections []string
}

// AttemptService records graded quiz attempts and reports on them.
type AttemptService interface {
	RegisterStudent(ctx context.Context, name string) error
	SubmitAttempt(ctx context.Context, student string, sub AttemptSubmission) (*domain.QuizAttempt, error)
	History(ctx context.Context, student string) ([]domain.QuizAttempt, error)
	Activity(ctx context.Context, topicFilter string) ([]domain.StudentActivity, error)
	Dashboard(ctx context.Context) (*domain.DashboardSummary, error)
	ExportCSV(ctx context.Context, w io.Writer) error
}

type attemptService struct {
	repo      domain.AttemptRepository
	validator *validation.Validator
	now       func() time.Time
}

// NewAttemptService creates a new instance of attemptService
func NewAttemptService(repo domain.AttemptRepository) AttemptService {
	return &attemptService{
		repo:      repo,
		validator: validation.NewValidator(),
		now:       time.Now,
	}
}

func (s *attemptService) RegisterStudent(ctx context.Context, name string) error {
	if errs := s.validator.ValidateStudentName(name); len(errs) > 0 {
		return domain.NewInvalidRequestError(errs)
	}
	if err := s.repo.RegisterStudent(ctx, strings.TrimSpace(name)); err != nil {
		return err
	}
	logger.Get().Info("Student registered", zap.String("student", strings.TrimSpace(name)))
	return nil
}

// SubmitAttempt grades selections against the quiz answers by exact match.
func (s *attemptService) SubmitAttempt(ctx context.Context, student string, sub AttemptSubmission) (*domain.QuizAttempt, error) {
	errs := s.validator.ValidateStudentName(student)
	if strings.TrimSpace(sub.Topic) == "" {
		errs = append(errs, domain.NewMissingFieldError("topic"))
	}
	difficulty, ok := domain.ParseDifficulty(sub.Difficulty)
	if !ok {
		errs = append(errs, domain.NewInvalidFormatError("difficulty", sub.Difficulty))
	}
	if len(sub.Questions) == 0 {
		errs = append(errs, domain.NewMissingFieldError("questions"))
	}
	if len(sub.Selections) > len(sub.Questions) {
		errs = append(errs, domain.NewOutOfRangeError("selections", len(sub.Selections), 0, len(sub.Questions)))
	}
	if len(errs) > 0 {
		return nil, domain.NewInvalidRequestError(errs)
	}

	score := 0
	for i, q := range sub.Questions {
		if i < len(sub.Selections) && sub.Selections[i] == q.Answer {
			score++
		}
	}

	attempt := &domain.QuizAttempt{
		ID:         util.NewULID(),
		Student:    strings.TrimSpace(student),
		QuizID:     sub.QuizID,
		Topic:      strings.TrimSpace(sub.Topic),
		Difficulty: difficulty,
		Score:      score,
		Total:      len(sub.Questions),
		TakenAt:    s.now(),
	}
	if err := s.repo.CreateAttempt(ctx, attempt); err != nil {
		return nil, err
	}
	logger.Get().Info("Quiz attempt recorded",
		zap.String("student", attempt.Student),
		zap.String("topic", attempt.Topic),
		zap.Int("score", score),
		zap.Int("total", attempt.Total),
	)
	return attempt, nil
}

func (s *attemptService) History(ctx context.Context, student string) ([]domain.QuizAttempt, error) {
	student = strings.TrimSpace(student)
	exists, err := s.repo.StudentExists(ctx, student)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.NewNotFoundError("student not found: " + student)
	}
	return s.repo.GetAttemptsByStudent(ctx, student)
}

// Activity returns each student's attempts whose topic contains topicFilter,
// ignoring case. Students without a matching attempt are left out.
func (s *attemptService) Activity(ctx context.Context, topicFilter string) ([]domain.StudentActivity, error) {
	students, err := s.repo.ListStudents(ctx)
	if err != nil {
		return nil, err
	}
	filter := strings.ToLower(strings.TrimSpace(topicFilter))

	activity := make([]domain.StudentActivity, 0, len(students))
	for _, student := range students {
		history, err := s.repo.GetAttemptsByStudent(ctx, student)
		if err != nil {
			return nil, err
		}
		var (
			matched []domain.QuizAttempt
			scores  []int
		)
		for _, a := range history {
			if filter == "" || strings.Contains(strings.ToLower(a.Topic), filter) {
				matched = append(matched, a)
				scores = append(scores, a.Score)
			}
		}
		if len(matched) == 0 {
			continue
		}
		activity = append(activity, domain.StudentActivity{
			Student:      student,
			Attempts:     matched,
			AverageScore: util.Round(util.Mean(scores), 2),
		})
	}
	return activity, nil
}

// Dashboard aggregates every recorded attempt. The popular topic is the first
// topic, in recording order, to reach the highest attempt count.
func (s *attemptService) Dashboard(ctx context.Context) (*domain.DashboardSummary, error) {
	students, err := s.repo.ListStudents(ctx)
	if err != nil {
		return nil, err
	}

	var (
		scores []int
		topics []string
		counts = make(map[string]int)
	)
	for _, student := range students {
		history, err := s.repo.GetAttemptsByStudent(ctx, student)
		if err != nil {
			return nil, err
		}
		for _, a := range history {
			scores = append(scores, a.Score)
			if _, ok := counts[a.Topic]; !ok {
				topics = append(topics, a.Topic)
			}
			counts[a.Topic]++
		}
	}

	popular, best := "", 0
	for _, topic := range topics {
		if counts[topic] > best {
			popular, best = topic, counts[topic]
		}
	}

	return &domain.DashboardSummary{
		RegisteredStudents: len(students),
		TotalQuizzes:       len(scores),
		AverageScore:       util.Round(util.Mean(scores), 2),
		PopularTopic:       popular,
	}, nil
}

// ExportCSV writes one row per attempt, grouped by student in registration order.
func (s *attemptService) ExportCSV(ctx context.Context, w io.Writer) error {
	students, err := s.repo.ListStudents(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return domain.NewInternalError("failed to write CSV header", err)
	}
	for _, student := range students {
		history, err := s.repo.GetAttemptsByStudent(ctx, student)
		if err != nil {
			return err
		}
		for _, a := range history {
			row := []string{
				student,
				a.Topic,
				strconv.Itoa(a.Score),
				string(a.Difficulty),
				a.TakenAt.Format(CSVTimestampLayout),
			}
			if err := cw.Write(row); err != nil {
				return domain.NewInternalError("failed to write CSV row", err)
			}
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return domain.NewInternalError("failed to flush CSV", err)
	}
	return nil
}
