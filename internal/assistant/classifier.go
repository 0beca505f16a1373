package assistant

import "strings"

// QueryKind is the result of classifying a user query.
type QueryKind int

const (
	// KindSubstantive queries run the full search + generation pipeline.
	KindSubstantive QueryKind = iota
	// KindGreeting queries short-circuit to the canned greeting reply.
	KindGreeting
)

// greetingVocabulary is the fixed set of greeting phrases. Matching is by
// substring over the normalized query, so "hi-fi speakers" classifies as a
// greeting too. That false positive is a known, deliberate simplification
// kept for compatibility with the original behavior.
var greetingVocabulary = []string{
	"hi",
	"hii",
	"hello",
	"hey",
	"good morning",
	"good evening",
	"good afternoon",
}

// Classify decides whether a raw query is a greeting or a substantive
// question. Total over all input: the empty string is substantive because it
// contains no greeting substring.
func Classify(raw string) QueryKind {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	for _, greeting := range greetingVocabulary {
		if strings.Contains(normalized, greeting) {
			return KindGreeting
		}
	}
	return KindSubstantive
}
