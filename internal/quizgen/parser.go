package quizgen

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"edututor/internal/domain"
)

var (
	thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)
	// Bullets, quote markers, headings and rules the model puts in front of anchors.
	// A lone * is a bullet only when followed by space, so **bold** survives.
	leadingMarks = regexp.MustCompile(`^(?:(?:[-•>#]+|\*{3,}|\*(?:\s|$))\s*)+`)
	// **Q1:** / **A)** / **Answer:** with the bold wrapping only the label
	boldLabel = regexp.MustCompile(`^\*\*\s*((?i:q(?:uestion)?\s*\d+\s*[:.)]?|\d+[.)]|\(?[a-z]\)|[a-d][.:]|(?:correct\s+)?answer\s*[:\-]?))\s*\*\*`)
	// Q1: / Q1. / Question 1: / 1. / 1)
	questionAnchor = regexp.MustCompile(`(?i)^(?:q(?:uestion)?\s*(\d+)\s*(?:[:.)]\s*|$)|(\d+)[.)](?:\s+|$))(.*)$`)
	// A) / a) / (A)
	optionAnchor = regexp.MustCompile(`^\(?([A-Za-z])\)\s*(.*)$`)
	// A. / A: followed by text, restricted to the four valid letters
	optionAnchorAlt = regexp.MustCompile(`^([A-Da-d])[.:]\s+(.*)$`)
	// Answer: B / Correct answer - b
	answerLine = regexp.MustCompile(`(?i)^(?:correct\s+)?answer\s*[:\-]\s*(.*)$`)
)

type rawOption struct {
	letter string
	lines  []string
}

type candidate struct {
	ordinal  int
	number   string
	question []string
	options  []rawOption
	answer   string
	// answerPending is set when "Answer:" was followed by nothing on its line.
	answerPending bool
	answerSeen    bool
	problem       *domain.Rejection
}

func (c *candidate) fail(reason domain.RejectReason, detail string) {
	if c.problem == nil {
		c.problem = &domain.Rejection{Block: c.ordinal, Number: c.number, Reason: reason, Detail: detail}
	}
}

func (c *candidate) addOption(letter, text string) {
	for _, opt := range c.options {
		if opt.letter == letter {
			c.fail(domain.RejectDuplicateLetter, fmt.Sprintf("option %s repeated", letter))
			return
		}
	}
	c.options = append(c.options, rawOption{letter: letter, lines: []string{text}})
}

func (c *candidate) addText(text string) {
	switch {
	case c.answerPending:
		c.answer = text
		c.answerPending = false
	case c.answerSeen:
		// trailing explanation after the answer line
	case len(c.options) > 0:
		last := &c.options[len(c.options)-1]
		last.lines = append(last.lines, text)
	default:
		c.question = append(c.question, text)
	}
}

// Item is an accepted question together with where it appeared in the response.
type Item struct {
	Block    int
	Number   string
	Question domain.Question
}

// Parse segments raw model output into candidate blocks on question anchors,
// validates each one and returns the accepted questions in emitted order
// together with the reason for every rejected block. Parse is pure.
func Parse(raw string) (domain.Quiz, domain.Diagnostics) {
	items, diag := ParseItems(raw)
	quiz := domain.Quiz{}
	for _, item := range items {
		quiz.Questions = append(quiz.Questions, item.Question)
	}
	return quiz, diag
}

// ParseItems is Parse keeping the block ordinal and emitted number of each item.
func ParseItems(raw string) ([]Item, domain.Diagnostics) {
	var (
		diag       domain.Diagnostics
		candidates []*candidate
		current    *candidate
	)

	for _, line := range strings.Split(cleanResponse(raw), "\n") {
		line = cleanLine(line)
		if line == "" {
			continue
		}

		if m := questionAnchor.FindStringSubmatch(line); m != nil {
			number := m[1]
			if number == "" {
				number = m[2]
			}
			current = &candidate{ordinal: len(candidates) + 1, number: number}
			candidates = append(candidates, current)
			if text := unwrapBold(strings.TrimSpace(m[3])); text != "" {
				current.question = append(current.question, text)
			}
			continue
		}
		if current == nil {
			// preamble before the first question
			continue
		}

		if m := answerLine.FindStringSubmatch(line); m != nil {
			if current.answerSeen {
				continue
			}
			current.answerSeen = true
			current.answer = strings.TrimSpace(m[1])
			current.answerPending = current.answer == ""
			continue
		}

		if letter, text, ok := matchOption(line); ok && !current.answerSeen {
			if domain.OptionIndex(letter) < 0 {
				if len(current.options) == 0 {
					current.addText(line)
					continue
				}
				current.fail(domain.RejectOptionLetter, fmt.Sprintf("option letter %s", letter))
				continue
			}
			current.addOption(letter, text)
			continue
		}

		current.addText(line)
	}

	var items []Item
	diag.Blocks = len(candidates)
	for _, c := range candidates {
		q, rej := c.resolve()
		if rej != nil {
			diag.Rejections = append(diag.Rejections, *rej)
			continue
		}
		items = append(items, Item{Block: c.ordinal, Number: c.number, Question: q})
	}
	diag.Accepted = len(items)

	if len(candidates) == 0 {
		diag.Reject(0, "", domain.RejectNoItems, "no question anchors found")
	}
	return items, diag
}

// resolve applies item validation and maps the answer letter to its option.
func (c *candidate) resolve() (domain.Question, *domain.Rejection) {
	reject := func(reason domain.RejectReason, detail string) (domain.Question, *domain.Rejection) {
		return domain.Question{}, &domain.Rejection{Block: c.ordinal, Number: c.number, Reason: reason, Detail: detail}
	}

	if c.problem != nil {
		return domain.Question{}, c.problem
	}

	prompt := domain.CollapseSpace(strings.Join(c.question, " "))
	if prompt == "" {
		return reject(domain.RejectEmptyQuestion, "")
	}
	if len(c.options) < domain.OptionsPerItem {
		return reject(domain.RejectMissingOptions, fmt.Sprintf("found %d of %d options", len(c.options), domain.OptionsPerItem))
	}

	options := make([]string, domain.OptionsPerItem)
	for _, opt := range c.options {
		text := domain.CollapseSpace(strings.Join(opt.lines, " "))
		if text == "" {
			return reject(domain.RejectEmptyOption, fmt.Sprintf("option %s is empty", opt.letter))
		}
		options[domain.OptionIndex(opt.letter)] = text
	}

	if !c.answerSeen || c.answer == "" {
		return reject(domain.RejectMissingAnswer, "")
	}
	letter := answerToken(c.answer)
	idx := domain.OptionIndex(letter)
	if idx < 0 {
		return reject(domain.RejectAnswerLetter, fmt.Sprintf("answer %q", c.answer))
	}

	seen := make(map[string]string, len(options))
	for i, opt := range options {
		key := domain.Normalize(opt)
		if prev, dup := seen[key]; dup {
			return reject(domain.RejectDuplicateOption, fmt.Sprintf("options %s and %s are identical", prev, domain.OptionLetter(i)))
		}
		seen[key] = domain.OptionLetter(i)
	}

	return domain.Question{Prompt: prompt, Options: options, Answer: options[idx]}, nil
}

func matchOption(line string) (letter, text string, ok bool) {
	if m := optionAnchor.FindStringSubmatch(line); m != nil {
		return strings.ToUpper(m[1]), unwrapBold(strings.TrimSpace(m[2])), true
	}
	if m := optionAnchorAlt.FindStringSubmatch(line); m != nil {
		return strings.ToUpper(m[1]), unwrapBold(strings.TrimSpace(m[2])), true
	}
	return "", "", false
}

// answerToken strips wrappers such as backticks or parentheses and returns
// the leading alphanumeric run in upper case.
func answerToken(s string) string {
	isAlnum := func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }
	s = strings.TrimLeftFunc(s, func(r rune) bool { return !isAlnum(r) })
	if end := strings.IndexFunc(s, func(r rune) bool { return !isAlnum(r) }); end >= 0 {
		s = s[:end]
	}
	return strings.ToUpper(s)
}

func cleanResponse(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	return thinkBlock.ReplaceAllString(raw, "\n")
}

// cleanLine drops markdown decoration around a line's anchor. Bold markers
// inside question or option text are content and are kept.
func cleanLine(line string) string {
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "```") {
		return ""
	}
	line = leadingMarks.ReplaceAllString(line, "")
	line = boldLabel.ReplaceAllString(line, "$1 ")
	line = unwrapBold(strings.TrimSpace(line))
	return strings.TrimSpace(line)
}

// unwrapBold removes a ** pair enclosing the whole line. When the inner text
// holds further ** markers it is only unwrapped if it starts with an anchor,
// so a line such as "**x** or **y**" is left alone.
func unwrapBold(line string) string {
	inner, ok := strings.CutPrefix(line, "**")
	if !ok {
		return line
	}
	inner, ok = strings.CutSuffix(inner, "**")
	inner = strings.TrimSpace(inner)
	if !ok || inner == "" {
		return line
	}
	if strings.Contains(inner, "**") && !isAnchor(inner) {
		return line
	}
	return inner
}

func isAnchor(line string) bool {
	if questionAnchor.MatchString(line) || answerLine.MatchString(line) {
		return true
	}
	_, _, ok := matchOption(line)
	return ok
}
