package quizgen

import (
	"fmt"
	"strings"

	"edututor/internal/domain"
)

// Format renders q in the canonical shape the prompt asks for.
func Format(q domain.Question, number int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Q%d: %s\n", number, q.Prompt)
	for i, opt := range q.Options {
		fmt.Fprintf(&b, "%s) %s\n", domain.OptionLetter(i), opt)
	}
	fmt.Fprintf(&b, "Answer: %s\n", q.AnswerLetter())
	return b.String()
}

// FormatQuiz renders every question, numbered from 1 and separated by a blank line.
func FormatQuiz(questions []domain.Question) string {
	blocks := make([]string, len(questions))
	for i, q := range questions {
		blocks[i] = Format(q, i+1)
	}
	return strings.Join(blocks, "\n")
}
