package domain

import (
	"strconv"
	"strings"
	"time"
)

// Difficulty is the requested hardness of a quiz.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Quiz size bounds and option count
const (
	MinQuestions    = 1
	MaxQuestions    = 10
	OptionsPerItem  = 4
	MaxTopicLength  = 100
	optionLetterSet = "ABCD"
)

// ParseDifficulty accepts a difficulty in any letter case.
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	return d, d.Valid()
}

// Valid reports whether d is one of the supported difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// QuizRequest asks for Count questions about Topic.
type QuizRequest struct {
	Topic      string
	Difficulty Difficulty
	Count      int
}

// Key identifies requests that should produce interchangeable quizzes.
func (r QuizRequest) Key() string {
	return Normalize(r.Topic) + "|" + string(r.Difficulty) + "|" + strconv.Itoa(r.Count)
}

// Question is one validated multiple-choice item.
type Question struct {
	Prompt  string   `json:"question"`
	Options []string `json:"options"`
	Answer  string   `json:"answer"`
}

// AnswerIndex returns the position of the answer among the options, or -1.
func (q Question) AnswerIndex() int {
	for i, opt := range q.Options {
		if opt == q.Answer {
			return i
		}
	}
	return -1
}

// AnswerLetter returns the option letter of the answer, or "" when unresolved.
func (q Question) AnswerLetter() string {
	idx := q.AnswerIndex()
	if idx < 0 {
		return ""
	}
	return OptionLetter(idx)
}

// Quiz is an ordered set of validated questions.
type Quiz struct {
	ID          string     `json:"id"`
	Topic       string     `json:"topic"`
	Difficulty  Difficulty `json:"difficulty"`
	Questions   []Question `json:"questions"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// Answers returns the answer strings parallel to Questions.
func (q *Quiz) Answers() []string {
	answers := make([]string, len(q.Questions))
	for i, question := range q.Questions {
		answers[i] = question.Answer
	}
	return answers
}

// OptionLetter maps 0..3 to A..D.
func OptionLetter(idx int) string {
	if idx < 0 || idx >= len(optionLetterSet) {
		return ""
	}
	return optionLetterSet[idx : idx+1]
}

// OptionIndex maps A..D (any case) to 0..3, or -1.
func OptionIndex(letter string) int {
	if len(letter) != 1 {
		return -1
	}
	return strings.IndexByte(optionLetterSet, strings.ToUpper(letter)[0])
}

// Normalize lowercases s, collapses whitespace runs to one space and trims.
func Normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// CollapseSpace joins s onto a single line with single spaces.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
