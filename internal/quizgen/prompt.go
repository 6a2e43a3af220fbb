package quizgen

import (
	"fmt"
	"strings"

	"edututor/internal/domain"
)

// exampleItem is the single literal item shown to the model. It is off-topic
// for any realistic request so that copying it is easy to spot.
const exampleItem = `Q1: Which planet is known as the Red Planet?
A) Venus
B) Mars
C) Jupiter
D) Saturn
Answer: B`

var difficultyHints = map[domain.Difficulty]string{
	domain.DifficultyEasy:   "basic recall of core facts and definitions",
	domain.DifficultyMedium: "understanding and applying the main concepts",
	domain.DifficultyHard:   "multi-step reasoning, edge cases and less common details",
}

// PromptInput parameterizes BuildPrompt.
type PromptInput struct {
	Request domain.QuizRequest
	Kind    domain.PromptKind
	// Want is the number of items to ask for. Defaults to Request.Count.
	Want int
	// Avoid lists already accepted question texts for supplement prompts.
	Avoid []string
}

// BuildPrompt renders the instruction sent to the model for one attempt.
func BuildPrompt(in PromptInput) string {
	want := in.Want
	if want <= 0 {
		want = in.Request.Count
	}
	noun := "questions"
	if want == 1 {
		noun = "question"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert teacher writing a multiple-choice quiz.\n")
	fmt.Fprintf(&b, "Topic: %s\n", strings.TrimSpace(in.Request.Topic))
	fmt.Fprintf(&b, "Difficulty: %s (%s)\n", in.Request.Difficulty, difficultyHints[in.Request.Difficulty])

	switch in.Kind {
	case domain.PromptSupplement:
		fmt.Fprintf(&b, "Write exactly %d new %s about %q at %s difficulty.\n", want, noun, in.Request.Topic, in.Request.Difficulty)
		if len(in.Avoid) > 0 {
			b.WriteString("Do not repeat or rephrase any of these existing questions:\n")
			for _, q := range in.Avoid {
				fmt.Fprintf(&b, "- %s\n", q)
			}
		}
	default:
		fmt.Fprintf(&b, "Write exactly %d %s about %q at %s difficulty.\n", want, noun, in.Request.Topic, in.Request.Difficulty)
	}

	b.WriteString("\nEach question must follow this exact format:\n")
	b.WriteString("- a question line starting with Q<number>: (Q1:, Q2:, ...)\n")
	b.WriteString("- four option lines starting with A), B), C) and D)\n")
	b.WriteString("- an answer line of the form Answer: <letter>, where <letter> is A, B, C or D\n")
	b.WriteString("- the four options must be different from each other and exactly one must be correct\n")
	b.WriteString("\nExample of one question:\n")
	b.WriteString(exampleItem)
	b.WriteString("\n\n")

	if in.Kind == domain.PromptReinforced {
		b.WriteString("Your previous reply could not be read. Follow these rules strictly:\n")
		b.WriteString("1. Start every question with Q and its number followed by a colon.\n")
		b.WriteString("2. Put every option on its own line, labelled A) to D). Never skip option D).\n")
		b.WriteString("3. Give the answer as a single letter, for example: Answer: C\n")
		b.WriteString("4. Leave one blank line between questions.\n")
		b.WriteString("5. Do not use markdown, numbering other than Q<number>:, or headings.\n\n")
	}

	b.WriteString("Do not write any introduction, commentary or explanation before or after the questions. ")
	b.WriteString("Do not copy the example question.\n")
	fmt.Fprintf(&b, "Output only the %d %s.\n", want, noun)
	return b.String()
}
