package intelligence

import (
	"context"
	"strings"
	"unicode"

	"github.com/alexanderramin/timebox/internal/domain"
)

var physicalWords = []string{
	"run", "running", "jog", "gym", "workout", "exercise", "walk", "walking",
	"yoga", "swim", "swimming", "bike", "cycling", "stretch", "stretching",
	"hike", "lift", "lifting", "training", "sport", "tennis", "climb",
}

var leisureWords = []string{
	"break", "rest", "lunch", "dinner", "breakfast", "meal", "coffee", "nap",
	"read", "reading", "movie", "tv", "game", "games", "gaming", "music",
	"relax", "leisure", "friends", "family", "hobby", "play", "netflix",
}

// stopWords are ignored when matching an activity against goal text.
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "of": true,
	"to": true, "for": true, "on": true, "in": true, "with": true, "my": true,
	"at": true, "work": true,
}

// KeywordClassifier is a deterministic ClassifyService used when no model
// is configured. A shared word with a top goal wins over the keyword lists.
type KeywordClassifier struct{}

func (KeywordClassifier) Classify(_ context.Context, req ClassifyRequest) (*ClassifyResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &ClassifyResult{Category: ClassifyByKeywords(req.Activity, req.TopGoals)}, nil
}

// ClassifyByKeywords returns the category for activity given the user's goals.
func ClassifyByKeywords(activity string, goals []string) domain.ActivityType {
	words := tokenize(activity)

	goalWords := make(map[string]bool)
	for _, g := range goals {
		for _, w := range tokenize(g) {
			goalWords[w] = true
		}
	}
	for _, w := range words {
		if goalWords[w] {
			return domain.ActivityTopGoal
		}
	}
	if containsAny(words, physicalWords) {
		return domain.ActivityPhysical
	}
	if containsAny(words, leisureWords) {
		return domain.ActivityLeisure
	}
	return domain.ActivityDefault
}

func tokenize(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len(f) > 1 && !stopWords[f] {
			out = append(out, f)
		}
	}
	return out
}

func containsAny(words, list []string) bool {
	for _, w := range words {
		for _, k := range list {
			if w == k {
				return true
			}
		}
	}
	return false
}
