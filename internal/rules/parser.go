package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/biirving/focus/internal/models"
)

// Set is an immutable snapshot of a parsed rule document: the full text is
// passed through unchanged as classifier policy context, the budgets are the
// structured constraints extracted from it. Rule sets are built fully before
// being published and replaced wholesale, never patched in place.
type Set struct {
	Text    string
	Budgets []models.BudgetRule
}

// Warning records one skipped rule line. Parse warnings never fail the
// document; the remaining valid rules stay usable.
type Warning struct {
	Line   int
	Text   string
	Reason string
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: %s (%q)", w.Line, w.Reason, w.Text)
}

var (
	// listItemRe matches a logical list item and captures its body.
	listItemRe = regexp.MustCompile(`^\s*[-*]\s+(.+)$`)

	// budgetRe matches a well-formed annotation like "(max 15 min per hour)"
	// or "(max 10 min)". The window unit defaults to hour when omitted.
	budgetRe = regexp.MustCompile(`(?i)\(\s*max\s+(\d+)\s*min(?:utes?)?(?:\s+per\s+([a-z]+))?\s*\)`)

	// budgetMarkerRe loosely detects an attempted annotation so malformed
	// ones can be reported instead of silently ignored.
	budgetMarkerRe = regexp.MustCompile(`(?i)\(\s*max\b[^)]*\)`)
)

// windowMinutesFor maps an annotation unit to a sliding-window length.
func windowMinutesFor(unit string) (int, bool) {
	switch strings.ToLower(unit) {
	case "", "hour", "hr":
		return 60, true
	case "day":
		return 1440, true
	}
	return 0, false
}

// Parse extracts time-budget rules from free-form rule text. The text itself
// is carried through untouched. Parsing is idempotent: the same input always
// yields the same canonically ordered budget set.
func Parse(text string) (*Set, []Warning) {
	var budgets []models.BudgetRule
	var warnings []Warning

	for i, line := range strings.Split(text, "\n") {
		marker := budgetMarkerRe.FindStringIndex(line)
		if marker == nil {
			continue
		}
		lineNo := i + 1

		item := listItemRe.FindStringSubmatch(line)
		if item == nil {
			warnings = append(warnings, Warning{
				Line:   lineNo,
				Text:   strings.TrimSpace(line),
				Reason: "budget annotation outside a list item",
			})
			continue
		}

		m := budgetRe.FindStringSubmatchIndex(item[1])
		if m == nil {
			warnings = append(warnings, Warning{
				Line:   lineNo,
				Text:   strings.TrimSpace(line),
				Reason: "malformed budget annotation",
			})
			continue
		}

		body := item[1]
		maxMinutes, err := strconv.Atoi(group(body, m, 1))
		if err != nil || maxMinutes <= 0 {
			warnings = append(warnings, Warning{
				Line:   lineNo,
				Text:   strings.TrimSpace(line),
				Reason: "invalid minute count",
			})
			continue
		}

		window, ok := windowMinutesFor(group(body, m, 2))
		if !ok {
			warnings = append(warnings, Warning{
				Line:   lineNo,
				Text:   strings.TrimSpace(line),
				Reason: fmt.Sprintf("unknown budget unit %q", group(body, m, 2)),
			})
			continue
		}

		subject := strings.TrimSpace(body[:m[0]])
		subject = strings.TrimRight(subject, " \t:-–")
		if subject == "" {
			warnings = append(warnings, Warning{
				Line:   lineNo,
				Text:   strings.TrimSpace(line),
				Reason: "budget annotation has no subject",
			})
			continue
		}

		budgets = append(budgets, models.BudgetRule{
			Subject:       subject,
			MaxMinutes:    maxMinutes,
			WindowMinutes: window,
		})
	}

	// Canonical order so identical text always yields an identical set.
	sort.Slice(budgets, func(i, j int) bool {
		if budgets[i].Subject != budgets[j].Subject {
			return budgets[i].Subject < budgets[j].Subject
		}
		return budgets[i].MaxMinutes < budgets[j].MaxMinutes
	})

	return &Set{Text: text, Budgets: budgets}, warnings
}

// group extracts a submatch by index, returning "" for absent groups.
func group(s string, m []int, n int) string {
	if m[2*n] < 0 {
		return ""
	}
	return s[m[2*n]:m[2*n+1]]
}
