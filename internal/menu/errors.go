package menu

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const maxSuggestions = 3

// LookupError reports a label missing from the visible menu.
type LookupError struct {
	Label string
	// Labels lists every visible label in display order.
	Labels []string
	// Suggestions holds the closest visible labels, best first.
	Suggestions []string
}

func newLookupError(label string, labels []string) *LookupError {
	return &LookupError{Label: label, Labels: labels, Suggestions: suggest(label, labels)}
}

func (e *LookupError) Error() string {
	msg := fmt.Sprintf("menu item %q not found; visible: %s", e.Label, strings.Join(e.Labels, ", "))
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, " or "))
	}
	return msg
}

func suggest(label string, labels []string) []string {
	ranks := fuzzy.RankFindNormalizedFold(label, labels)
	sort.Stable(ranks)
	var out []string
	for _, r := range ranks {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, r.Target)
	}
	return out
}
