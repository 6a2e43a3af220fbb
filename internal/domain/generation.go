package domain

import "context"

// CompletionLimits bounds a single model completion.
type CompletionLimits struct {
	MaxNewTokens int
	Temperature  float64
	Stop         []string
}

// ModelHost is a loaded causal language model treated as a text-to-text function.
// Complete returns only the newly generated text, never the prompt echo.
type ModelHost interface {
	Complete(ctx context.Context, prompt string, limits CompletionLimits) (string, error)
}

// RejectReason classifies why a candidate block was dropped.
type RejectReason string

const (
	RejectNoItems           RejectReason = "no_items"
	RejectEmptyQuestion     RejectReason = "empty_question"
	RejectMissingOptions    RejectReason = "missing_options"
	RejectOptionLetter      RejectReason = "option_letter_out_of_range"
	RejectDuplicateLetter   RejectReason = "duplicate_option_letter"
	RejectEmptyOption       RejectReason = "empty_option"
	RejectDuplicateOption   RejectReason = "duplicate_option"
	RejectMissingAnswer     RejectReason = "missing_answer"
	RejectAnswerLetter      RejectReason = "answer_letter_out_of_range"
	RejectDuplicateQuestion RejectReason = "duplicate_question"
)

// Rejection records one dropped block.
type Rejection struct {
	Block  int          `json:"block"`  // 1-based ordinal in the response, 0 when no block exists
	Number string       `json:"number"` // question number as emitted by the model
	Reason RejectReason `json:"reason"`
	Detail string       `json:"detail,omitempty"`
}

// Diagnostics summarizes one parse of a model response.
type Diagnostics struct {
	Blocks     int         `json:"blocks"`
	Accepted   int         `json:"accepted"`
	Rejections []Rejection `json:"rejections"`
}

// Rejected returns the number of dropped blocks.
func (d Diagnostics) Rejected() int {
	return len(d.Rejections)
}

// Reject appends a rejection.
func (d *Diagnostics) Reject(block int, number string, reason RejectReason, detail string) {
	d.Rejections = append(d.Rejections, Rejection{Block: block, Number: number, Reason: reason, Detail: detail})
}

// PromptKind selects the prompt variant used for an attempt.
type PromptKind string

const (
	PromptStandard   PromptKind = "standard"
	PromptReinforced PromptKind = "reinforced"
	PromptSupplement PromptKind = "supplement"
)

// GenerationAttempt is the record of one model call inside a quiz generation.
type GenerationAttempt struct {
	Retry       int         `json:"retry"`
	Kind        PromptKind  `json:"kind"`
	Requested   int         `json:"requested"`
	Raw         string      `json:"raw"`
	Diagnostics Diagnostics `json:"diagnostics"`
	Discarded   bool        `json:"discarded,omitempty"`
}
