package cache

import (
	"strings"
	"testing"

	"edututor/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	tests := []struct {
		name        string
		serviceName string
		objectType  string
		identifier  string
		paramsKey   []string
		expectedKey string
	}{
		{"without paramsKey", "quizgen", "quiz", "123", nil, "edututor:quizgen:quiz:123"},
		{"with empty paramsKey", "quizgen", "quiz", "123", []string{}, "edututor:quizgen:quiz:123"},
		{"with one paramsKey", "quizgen", "quiz", "abc", []string{"easy"}, "edututor:quizgen:quiz:abc:easy"},
		{"with multiple paramsKey", "quizgen", "quiz", "abc", []string{"hard", "5"}, "edututor:quizgen:quiz:abc:hard_5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expectedKey, GenerateCacheKey(tt.serviceName, tt.objectType, tt.identifier, tt.paramsKey...))
		})
	}
}

func TestQuizKey(t *testing.T) {
	a := QuizKey(domain.QuizRequest{Topic: "Photosynthesis", Difficulty: domain.DifficultyEasy, Count: 3})
	b := QuizKey(domain.QuizRequest{Topic: "  photosynthesis ", Difficulty: domain.DifficultyEasy, Count: 3})
	c := QuizKey(domain.QuizRequest{Topic: "Photosynthesis", Difficulty: domain.DifficultyHard, Count: 3})

	assert.Equal(t, a, b, "topic is normalized")
	assert.NotEqual(t, a, c)
	assert.True(t, strings.HasPrefix(a, "edututor:quizgen:quiz:"))
	assert.True(t, strings.HasSuffix(a, ":easy_3"))
	assert.NotContains(t, a, "hotosynthesis")
}
