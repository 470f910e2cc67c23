// Package spellcheck ranks "did you mean" candidates by edit distance.
package spellcheck

import (
	"sort"
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// MaxSuggestions bounds the result of Suggest.
const MaxSuggestions = 3

type suggestion struct {
	name     string
	distance int
}

// Distance is the case-insensitive edit distance between a and b.
func Distance(a, b string) int {
	return levenshtein.DistanceForStrings(
		[]rune(strings.ToLower(a)),
		[]rune(strings.ToLower(b)),
		levenshtein.DefaultOptionsWithSub,
	)
}

// Suggest returns up to MaxSuggestions candidates close to token, nearest first.
// Exact matches are not suggestions.
func Suggest(token string, from []string) []string {
	if token == "" || len(from) == 0 {
		return nil
	}

	maxDistance := max(3, len([]rune(token))/2)

	seen := make(map[string]bool, len(from))
	var suggestions []suggestion

	for _, name := range from {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		dist := Distance(token, name)
		if dist > 0 && dist <= maxDistance {
			suggestions = append(suggestions, suggestion{name: name, distance: dist})
		}
	}

	// Sort by distance (ascending), then alphabetically for stability
	sort.Slice(suggestions, func(i, j int) bool {
		if suggestions[i].distance != suggestions[j].distance {
			return suggestions[i].distance < suggestions[j].distance
		}
		return suggestions[i].name < suggestions[j].name
	})

	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}

	result := make([]string, len(suggestions))
	for i, s := range suggestions {
		result[i] = s.name
	}
	return result
}
