package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"edututor/internal/domain"
)

const (
	GlobalKeyPrefix = "edututor"
)

// GenerateCacheKey joins prefix, service, object type and identifier with ":".
// Extra params are joined by "_" and appended as a final segment.
func GenerateCacheKey(serviceName, objectType, identifier string, paramsKey ...string) string {
	baseKey := strings.Join([]string{GlobalKeyPrefix, serviceName, objectType, identifier}, ":")
	if len(paramsKey) > 0 {
		return strings.Join([]string{baseKey, strings.Join(paramsKey, "_")}, ":")
	}
	return baseKey
}

// QuizKey is the cache key of a generated quiz. The normalized topic is hashed
// so arbitrary user text never ends up in a key.
func QuizKey(req domain.QuizRequest) string {
	sum := sha256.Sum256([]byte(domain.Normalize(req.Topic)))
	return GenerateCacheKey("quizgen", "quiz", hex.EncodeToString(sum[:8]), string(req.Difficulty), strconv.Itoa(req.Count))
}
