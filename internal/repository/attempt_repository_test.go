package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"edututor/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryAttemptRepository_RegisterStudent(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAttemptRepository()

	require.NoError(t, repo.RegisterStudent(ctx, "alice"))
	require.NoError(t, repo.RegisterStudent(ctx, " bob "))
	require.NoError(t, repo.RegisterStudent(ctx, "alice"))

	students, err := repo.ListStudents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, students)

	exists, err := repo.StudentExists(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.StudentExists(ctx, "carol")
	require.NoError(t, err)
	assert.False(t, exists)

	err = repo.RegisterStudent(ctx, "  ")
	assert.True(t, errors.Is(err, domain.ErrInvalidRequest))
}

func TestMemoryAttemptRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAttemptRepository()
	now := time.Now()

	first := &domain.QuizAttempt{ID: "1", Student: "alice", Topic: "Algebra", Difficulty: domain.DifficultyEasy, Score: 2, Total: 3, TakenAt: now}
	second := &domain.QuizAttempt{ID: "2", Student: "alice", Topic: "Biology", Difficulty: domain.DifficultyHard, Score: 1, Total: 3, TakenAt: now.Add(time.Minute)}
	require.NoError(t, repo.CreateAttempt(ctx, first))
	require.NoError(t, repo.CreateAttempt(ctx, second))

	history, err := repo.GetAttemptsByStudent(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "1", history[0].ID)
	assert.Equal(t, "2", history[1].ID)

	// The returned slice is a copy
	history[0].Score = 99
	again, _ := repo.GetAttemptsByStudent(ctx, "alice")
	assert.Equal(t, 2, again[0].Score)

	students, _ := repo.ListStudents(ctx)
	assert.Equal(t, []string{"alice"}, students, "Submitting registers the student")
}

func TestMemoryAttemptRepository_UnknownStudent(t *testing.T) {
	repo := NewMemoryAttemptRepository()
	_, err := repo.GetAttemptsByStudent(context.Background(), "ghost")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestMemoryAttemptRepository_RegisteredWithoutAttempts(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAttemptRepository()
	require.NoError(t, repo.RegisterStudent(ctx, "dana"))

	history, err := repo.GetAttemptsByStudent(ctx, "dana")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestMemoryAttemptRepository_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryAttemptRepository()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			student := fmt.Sprintf("s%d", i%4)
			_ = repo.CreateAttempt(ctx, &domain.QuizAttempt{ID: fmt.Sprint(i), Student: student, Topic: "Math", Score: 1, Total: 1})
		}(i)
	}
	wg.Wait()

	students, _ := repo.ListStudents(ctx)
	assert.Len(t, students, 4)
	total := 0
	for _, s := range students {
		h, err := repo.GetAttemptsByStudent(ctx, s)
		require.NoError(t, err)
		total += len(h)
	}
	assert.Equal(t, 20, total)
}
