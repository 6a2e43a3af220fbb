package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"edututor/internal/cache"
	"edututor/internal/domain"
	"edututor/internal/logger"

	"go.uber.org/zap"
)

// QuizCache memoizes complete quizzes per normalized request. Cache failures
// are logged and treated as misses so generation never depends on Redis.
type QuizCache struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewQuizCache returns nil when caching is disabled.
func NewQuizCache(c domain.Cache, ttl time.Duration) *QuizCache {
	if c == nil || ttl <= 0 {
		return nil
	}
	return &QuizCache{cache: c, ttl: ttl}
}

// Get returns the cached quiz for req, if any.
func (c *QuizCache) Get(ctx context.Context, req domain.QuizRequest) (*domain.Quiz, bool) {
	key := cache.QuizKey(req)
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Warn("QuizCache: lookup failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var quiz domain.Quiz
	if err := json.Unmarshal([]byte(data), &quiz); err != nil {
		logger.Get().Warn("QuizCache: dropping undecodable entry", zap.String("key", key), zap.Error(err))
		_ = c.cache.Delete(ctx, key)
		return nil, false
	}
	if len(quiz.Questions) != req.Count {
		return nil, false
	}
	return &quiz, true
}

// Set stores quiz under req's key.
func (c *QuizCache) Set(ctx context.Context, req domain.QuizRequest, quiz *domain.Quiz) {
	key := cache.QuizKey(req)
	data, err := json.Marshal(quiz)
	if err != nil {
		logger.Get().Error("QuizCache: failed to marshal quiz", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.cache.Set(ctx, key, string(data), c.ttl); err != nil {
		logger.Get().Warn("QuizCache: failed to store quiz", zap.String("key", key), zap.Error(err))
	}
}
