package intake

import (
	"slices"
	"strings"
)

// Satisfies reports whether value is an acceptable answer for q. A false
// result only disallows advancing; it is never surfaced as an error.
func Satisfies(q Question, value Value, recorded bool) bool {
	if !recorded {
		return false
	}
	switch q.Kind {
	case KindShortText, KindLongText:
		return strings.TrimSpace(value.Text) != ""
	case KindInteger:
		return value.Number >= q.MinValue
	case KindSingleChoice:
		return slices.Contains(q.Options, value.Text)
	case KindMultiChoice:
		if len(value.List) == 0 {
			return false
		}
		for _, item := range value.List {
			if !slices.Contains(q.Options, item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Answered reports whether the recorded answer for q satisfies validation.
func Answered(q Question, answers Answers) bool {
	value, ok := answers[q.ID]
	return Satisfies(q, value, ok)
}

// Complete reports whether every visible question has a satisfying answer.
func Complete(questions []Question, answers Answers) bool {
	for _, q := range VisibleQuestions(questions, answers) {
		if !Answered(q, answers) {
			return false
		}
	}
	return true
}
