package intake

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Value is a recorded answer. Exactly one representation is meaningful,
// determined by the question kind: Text for text and single-choice answers,
// Number for integers, List for multi-choice selections.
type Value struct {
	Kind   Kind
	Text   string
	Number int64
	List   []string
}

// TextValue builds a value for text and single-choice questions.
func TextValue(kind Kind, text string) Value {
	return Value{Kind: kind, Text: text}
}

// NumberValue builds a value for integer questions.
func NumberValue(n int64) Value {
	return Value{Kind: KindInteger, Number: n}
}

// ListValue builds a value for multi-choice questions.
func ListValue(selected []string) Value {
	return Value{Kind: KindMultiChoice, List: append([]string(nil), selected...)}
}

// MarshalJSON emits the backend wire form: a bare string, number, or array,
// matching what the collaborator endpoint expects for `responses`.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindInteger:
		return json.Marshal(v.Number)
	case KindMultiChoice:
		if v.List == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.List)
	default:
		return json.Marshal(v.Text)
	}
}

// UnmarshalJSON recovers a value from the wire form by sniffing the JSON
// type; the owning question's kind is re-attached when the session is bound
// to its catalog.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*v = Value{}
		return nil
	}
	switch trimmed[0] {
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*v = Value{Kind: KindMultiChoice, List: list}
		return nil
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*v = Value{Kind: KindShortText, Text: text}
		return nil
	default:
		var n int64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("answer value must be a string, number, or string array: %w", err)
		}
		*v = Value{Kind: KindInteger, Number: n}
		return nil
	}
}

// Answers maps question IDs to recorded values. It is the single source of
// truth for one intake session and never holds entries for questions outside
// the catalog.
type Answers map[string]Value

// Text returns the text answer for id, or "" when absent. Safe for use in
// visibility predicates against unanswered questions.
func (a Answers) Text(id string) string {
	if a == nil {
		return ""
	}
	return a[id].Text
}

// Number returns the numeric answer for id, or 0 when absent.
func (a Answers) Number(id string) int64 {
	if a == nil {
		return 0
	}
	return a[id].Number
}

// List returns the multi-choice answer for id, or nil when absent.
func (a Answers) List(id string) []string {
	if a == nil {
		return nil
	}
	return a[id].List
}

// Has reports whether an answer is recorded for id.
func (a Answers) Has(id string) bool {
	_, ok := a[id]
	return ok
}

// Clone returns an independent copy.
func (a Answers) Clone() Answers {
	if a == nil {
		return nil
	}
	out := make(Answers, len(a))
	for id, v := range a {
		if v.List != nil {
			v.List = append([]string(nil), v.List...)
		}
		out[id] = v
	}
	return out
}

// VisibleQuestions returns the subsequence of questions whose visibility
// predicate is absent or satisfied by the current answers. Pure and total:
// output order is catalog order and the same answers always produce the same
// sequence.
func VisibleQuestions(questions []Question, answers Answers) []Question {
	visible := make([]Question, 0, len(questions))
	for _, q := range questions {
		if q.Visible == nil || q.Visible(answers) {
			visible = append(visible, q)
		}
	}
	return visible
}
