package util

import (
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClamp(t *testing.T) {
	assert.Equal(t, 64, Clamp(10, 64, 1024))
	assert.Equal(t, 400, Clamp(400, 64, 1024))
	assert.Equal(t, 1024, Clamp(5000, 64, 1024))
}

func TestRoundAndMean(t *testing.T) {
	assert.Equal(t, 2.33, Round(Mean([]int{2, 2, 3}), 2))
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 1.5, Round(1.5, 2))
}

func TestNewULID(t *testing.T) {
	a := NewULID()
	b := NewULID()

	_, err := ulid.Parse(a)
	require.NoError(t, err)
	assert.Len(t, a, 26)
	assert.Less(t, a, b, "ULIDs are monotonic")
}
