package main

import (
	"fmt"
	"io"

	"edututor/internal/domain"

	"github.com/fatih/color"
)

var (
	questionColor = color.New(color.Bold)
	answerColor   = color.New(color.FgGreen, color.Bold)
	rejectColor   = color.New(color.FgRed)
	dimColor      = color.New(color.FgHiBlack)
)

func disableColor() {
	color.NoColor = true
}

func printQuestions(w io.Writer, questions []domain.Question) {
	for i, q := range questions {
		questionColor.Fprintf(w, "Q%d: %s\n", i+1, q.Prompt)
		for j, opt := range q.Options {
			line := fmt.Sprintf("  %s) %s", domain.OptionLetter(j), opt)
			if opt == q.Answer {
				answerColor.Fprintln(w, line)
				continue
			}
			fmt.Fprintln(w, line)
		}
		fmt.Fprintln(w)
	}
}

func printDiagnostics(w io.Writer, diag domain.Diagnostics) {
	dimColor.Fprintf(w, "blocks=%d accepted=%d rejected=%d\n", diag.Blocks, diag.Accepted, diag.Rejected())
	for _, r := range diag.Rejections {
		number := r.Number
		if number == "" {
			number = "-"
		}
		rejectColor.Fprintf(w, "  block %d (Q%s): %s", r.Block, number, r.Reason)
		if r.Detail != "" {
			rejectColor.Fprintf(w, " %s", r.Detail)
		}
		fmt.Fprintln(w)
	}
}
