package dto

import "edututor/internal/domain"

// GenerateQuizRequest is the body of the quiz generation endpoints
// @Description Request body for generating a quiz
type GenerateQuizRequest struct {
	Topic        string `json:"topic"`
	Difficulty   string `json:"difficulty"`
	NumQuestions int    `json:"num_questions"`
}

// QuestionResponse represents one multiple-choice question
// @Description Question with its four options and correct answer
type QuestionResponse struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}

// GenerateQuizResponse holds the questions and the parallel list of answers
type GenerateQuizResponse struct {
	Questions []QuestionResponse `json:"questions"`
	Answers   []string           `json:"answers"`
}

// NewGenerateQuizResponse projects a quiz onto the API shape.
func NewGenerateQuizResponse(quiz *domain.Quiz) *GenerateQuizResponse {
	resp := &GenerateQuizResponse{
		Questions: make([]QuestionResponse, len(quiz.Questions)),
		Answers:   quiz.Answers(),
	}
	for i, q := range quiz.Questions {
		options := make([]string, len(q.Options))
		copy(options, q.Options)
		resp.Questions[i] = QuestionResponse{Question: q.Prompt, Options: options, Answer: q.Answer}
	}
	return resp
}

// ToDomainQuestions converts submitted questions back to domain questions.
func ToDomainQuestions(questions []QuestionResponse) []domain.Question {
	out := make([]domain.Question, len(questions))
	for i, q := range questions {
		out[i] = domain.Question{Prompt: q.Question, Options: q.Options, Answer: q.Answer}
	}
	return out
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error string `json:"error"`
}
