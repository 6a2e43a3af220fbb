package service

import (
	"context"
	"time"

	"edututor/internal/config"
	"edututor/internal/domain"
	"edututor/internal/dto"
	"edututor/internal/logger"
	"edututor/internal/quizgen"
	"edututor/internal/util"
	"edututor/internal/validation"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// minNewTokens is the floor of the completion budget for any attempt.
const minNewTokens = 64

// QuizService defines the interface for quiz generation
type QuizService interface {
	// GenerateQuiz returns up to req.Count validated questions.
	GenerateQuiz(ctx context.Context, req domain.QuizRequest) (*domain.Quiz, error)
	// Generate validates raw input and returns the questions with their answers.
	Generate(ctx context.Context, topic, difficulty string, count int) (*dto.GenerateQuizResponse, error)
}

// quizService implements QuizService
type quizService struct {
	host      domain.ModelHost
	cfg       config.GenerationConfig
	cache     *QuizCache
	validator *validation.Validator
	group     singleflight.Group
	now       func() time.Time
}

// NewQuizService creates a new instance of quizService. cache may be nil.
func NewQuizService(host domain.ModelHost, cfg config.GenerationConfig, cache *QuizCache) QuizService {
	return &quizService{
		host:      host,
		cfg:       cfg,
		cache:     cache,
		validator: validation.NewValidator(),
		now:       time.Now,
	}
}

// Generate implements QuizService
func (s *quizService) Generate(ctx context.Context, topic, difficulty string, count int) (*dto.GenerateQuizResponse, error) {
	req, err := s.validator.BuildQuizRequest(topic, difficulty, count)
	if err != nil {
		return nil, err
	}
	quiz, err := s.GenerateQuiz(ctx, req)
	if err != nil {
		return nil, err
	}
	return dto.NewGenerateQuizResponse(quiz), nil
}

// GenerateQuiz implements QuizService
func (s *quizService) GenerateQuiz(ctx context.Context, req domain.QuizRequest) (*domain.Quiz, error) {
	req, err := s.validator.BuildQuizRequest(req.Topic, string(req.Difficulty), req.Count)
	if err != nil {
		return nil, err
	}

	if s.cache == nil {
		return s.generate(ctx, req)
	}

	if quiz, ok := s.cache.Get(ctx, req); ok {
		logger.Get().Debug("Quiz served from cache", zap.String("topic", req.Topic), zap.String("quizID", quiz.ID))
		return quiz, nil
	}

	// The shared run is detached from any single caller; each caller still
	// waits under its own deadline.
	ch := s.group.DoChan(req.Key(), func() (interface{}, error) {
		sharedCtx, cancel := s.sharedContext(ctx)
		defer cancel()

		quiz, err := s.generate(sharedCtx, req)
		if err != nil {
			return nil, err
		}
		if len(quiz.Questions) == req.Count {
			s.cache.Set(sharedCtx, req, quiz)
		}
		return quiz, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		quiz := res.Val.(*domain.Quiz)
		if res.Shared {
			quiz = cloneQuiz(quiz)
		}
		return quiz, nil
	case <-ctx.Done():
		logger.Get().Warn("Deadline reached while waiting for quiz generation",
			zap.String("topic", req.Topic),
			zap.Error(ctx.Err()))
		return nil, domain.NewGenerationError(nil, ctx.Err())
	}
}

func (s *quizService) sharedContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx := context.WithoutCancel(parent)
	if s.cfg.RequestTimeout > 0 {
		return context.WithTimeout(ctx, s.cfg.RequestTimeout)
	}
	return context.WithCancel(ctx)
}

// generate runs the attempt loop: a standard prompt first, then reinforced
// prompts while nothing was accepted, or supplement prompts for the missing
// count. Accepted items only ever grow across attempts.
func (s *quizService) generate(ctx context.Context, req domain.QuizRequest) (*domain.Quiz, error) {
	log := logger.Get().With(
		zap.String("topic", req.Topic),
		zap.String("difficulty", string(req.Difficulty)),
		zap.Int("count", req.Count),
	)

	var (
		accepted []domain.Question
		attempts []domain.GenerationAttempt
		seen     = make(map[string]struct{})
		kind     = domain.PromptStandard
	)

	for retry := 0; retry <= s.cfg.MaxRetries; retry++ {
		if retry > 0 && ctx.Err() != nil {
			log.Warn("Deadline reached, no further generation attempts", zap.Int("retry", retry), zap.Error(ctx.Err()))
			break
		}

		want := req.Count - len(accepted)
		prompt := quizgen.BuildPrompt(quizgen.PromptInput{
			Request: req,
			Kind:    kind,
			Want:    want,
			Avoid:   prompts(accepted),
		})

		// The call itself is not cut short by the caller; its result is
		// dropped below if the deadline passed while it ran.
		raw, err := s.host.Complete(context.WithoutCancel(ctx), prompt, s.limits(want))
		if err != nil {
			log.Error("Model completion failed", zap.Int("retry", retry), zap.String("kind", string(kind)), zap.Error(err))
			if domain.CodeOf(err) == domain.CodeModelUnavailable {
				return nil, err
			}
			return nil, domain.NewModelUnavailableError(err)
		}

		attempt := domain.GenerationAttempt{Retry: retry, Kind: kind, Requested: want, Raw: raw}
		if ctx.Err() != nil {
			attempt.Discarded = true
			attempts = append(attempts, attempt)
			log.Warn("Discarding completion that finished after the deadline", zap.Int("retry", retry))
			break
		}

		items, diag := quizgen.ParseItems(raw)
		for _, item := range items {
			key := domain.Normalize(item.Question.Prompt)
			if _, dup := seen[key]; dup {
				diag.Accepted--
				diag.Reject(item.Block, item.Number, domain.RejectDuplicateQuestion, item.Question.Prompt)
				continue
			}
			seen[key] = struct{}{}
			accepted = append(accepted, item.Question)
		}
		attempt.Diagnostics = diag
		attempts = append(attempts, attempt)

		log.Info("Quiz generation attempt",
			zap.Int("retry", retry),
			zap.String("kind", string(kind)),
			zap.Int("requested", want),
			zap.Int("blocks", diag.Blocks),
			zap.Int("accepted", diag.Accepted),
			zap.Int("rejected", diag.Rejected()),
			zap.Int("total", len(accepted)),
		)
		log.Debug("Raw model output", zap.Int("retry", retry), zap.String("raw", raw), zap.Any("rejections", diag.Rejections))

		if len(accepted) >= req.Count {
			break
		}
		if len(accepted) == 0 {
			kind = domain.PromptReinforced
		} else {
			kind = domain.PromptSupplement
		}
	}

	if len(accepted) == 0 {
		log.Error("Quiz generation produced no valid questions", zap.Int("attempts", len(attempts)))
		return nil, domain.NewGenerationError(attempts, ctx.Err())
	}
	if len(accepted) > req.Count {
		accepted = accepted[:req.Count]
	}
	if len(accepted) < req.Count {
		log.Warn("Returning partial quiz", zap.Int("accepted", len(accepted)))
	}

	return &domain.Quiz{
		ID:          util.NewULID(),
		Topic:       req.Topic,
		Difficulty:  req.Difficulty,
		Questions:   accepted,
		GeneratedAt: s.now(),
	}, nil
}

// limits scales the token budget with the number of questions still wanted.
func (s *quizService) limits(want int) domain.CompletionLimits {
	lo := minNewTokens
	if s.cfg.MaxTokens < lo {
		lo = s.cfg.MaxTokens
	}
	return domain.CompletionLimits{
		MaxNewTokens: util.Clamp(s.cfg.TokensPerQuestion*want, lo, s.cfg.MaxTokens),
		Temperature:  s.cfg.Temperature,
		Stop:         s.cfg.Stop,
	}
}

func prompts(questions []domain.Question) []string {
	if len(questions) == 0 {
		return nil
	}
	out := make([]string, len(questions))
	for i, q := range questions {
		out[i] = q.Prompt
	}
	return out
}

func cloneQuiz(q *domain.Quiz) *domain.Quiz {
	c := *q
	c.Questions = make([]domain.Question, len(q.Questions))
	for i, question := range q.Questions {
		question.Options = append([]string(nil), question.Options...)
		c.Questions[i] = question
	}
	return &c
}
