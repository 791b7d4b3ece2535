// Package entry turns one chat line into an expense record.
package entry

import (
	"fmt"
	"strings"

	"despesas/internal/classifier"
	"despesas/internal/core"
)

// Separator divides item, amount and description in a free-text entry.
const Separator = " - "

// maxSegments keeps a description that itself contains Separator in one piece.
const maxSegments = 3

// Parse reads "ITEM - AMOUNT[ - DESCRIPTION]" and returns a classified
// expense dated today. The amount is rounded to cents so every store keeps
// the same value. Every failure wraps core.ErrFormat.
func Parse(raw string, today core.Date) (core.Expense, error) {
	parts := splitRight(strings.TrimSpace(raw), Separator, maxSegments)
	if len(parts) < 2 {
		return core.Expense{}, core.ErrFormat
	}

	item := strings.TrimSpace(parts[0])
	if item == "" {
		return core.Expense{}, fmt.Errorf("%w: %w", core.ErrFormat, core.ErrEmptyItem)
	}

	amount, err := core.ParseAmount(parts[1])
	if err != nil {
		return core.Expense{}, fmt.Errorf("%w: amount %q: %w", core.ErrFormat, parts[1], err)
	}

	var description string
	if len(parts) == maxSegments {
		description = strings.TrimSpace(parts[2])
	}

	return core.Expense{
		Date:        today,
		Item:        item,
		Amount:      amount.Round(2),
		Category:    classifier.Classify(item),
		Description: description,
	}, nil
}

// splitRight splits s around sep starting from the right, returning at most n
// segments; the leftmost segment keeps any remaining separators.
func splitRight(s, sep string, n int) []string {
	var tail []string
	for len(tail) < n-1 {
		i := strings.LastIndex(s, sep)
		if i < 0 {
			break
		}
		tail = append(tail, s[i+len(sep):])
		s = s[:i]
	}
	out := make([]string, 0, len(tail)+1)
	out = append(out, s)
	for i := len(tail) - 1; i >= 0; i-- {
		out = append(out, tail[i])
	}
	return out
}
