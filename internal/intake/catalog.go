// Package intake implements the branching intake questionnaire: a static
// question catalog, conditional visibility, answer validation, a step cursor
// over the visible questions, and pure derivation of the household profile
// consumed by the rest of the application.
package intake

import "fmt"

// Kind identifies the input type of a question.
type Kind string

const (
	KindShortText    Kind = "short_text"
	KindLongText     Kind = "long_text"
	KindInteger      Kind = "integer"
	KindSingleChoice Kind = "single_choice"
	KindMultiChoice  Kind = "multi_choice"
)

// Question is an immutable catalog entry.
type Question struct {
	ID          string   `json:"id"`
	Prompt      string   `json:"prompt"`
	Placeholder string   `json:"placeholder,omitempty"`
	Kind        Kind     `json:"kind"`
	Options     []string `json:"options,omitempty"`
	// Visible decides whether the question applies given the answers
	// recorded so far. A nil predicate means always visible. Predicates
	// must tolerate unanswered references (treated as not satisfied).
	Visible func(Answers) bool `json:"-"`
	// MinValue is the lower bound for integer answers.
	MinValue int64 `json:"min_value,omitempty"`
}

// Question IDs of the active catalog.
const (
	QuestionName            = "name"
	QuestionFamilySize      = "familySize"
	QuestionDisplacement    = "displacement_status"
	QuestionIncomeChange    = "income_change"
	QuestionHasChildren     = "hasChildren"
	QuestionSchoolStatus    = "school_status"
	QuestionHasInsurance    = "hasInsurance"
	QuestionClaimStatus     = "insurance_claim_status"
	QuestionCaregivingNeeds = "caregiving_needs"
	QuestionHousingBudget   = "housing_budget"
)

// Option strings referenced by derivation rules.
const (
	AnswerYes     = "Yes"
	AnswerNo      = "No"
	InsuranceNone = "No"
)

var catalog = []Question{
	{
		ID:          QuestionName,
		Prompt:      "What is your name?",
		Placeholder: "Enter your full name",
		Kind:        KindShortText,
	},
	{
		ID:          QuestionFamilySize,
		Prompt:      "How many people are in your household?",
		Placeholder: "Number of people",
		Kind:        KindInteger,
		MinValue:    1,
	},
	{
		ID:     QuestionDisplacement,
		Prompt: "What best describes your current displacement status?",
		Kind:   KindSingleChoice,
		Options: []string{
			"Evacuated",
			"Returned home",
			"Relocated temporarily",
			"Relocated permanently",
			"Unsure",
		},
	},
	{
		ID:     QuestionIncomeChange,
		Prompt: "Has your income changed due to the fire?",
		Kind:   KindSingleChoice,
		Options: []string{
			"No change",
			"Reduced hours",
			"Temporarily laid off",
			"Job lost",
			"Self-employed revenue loss",
		},
	},
	{
		ID:      QuestionHasChildren,
		Prompt:  "Do you have children or dependents?",
		Kind:    KindSingleChoice,
		Options: []string{AnswerYes, AnswerNo},
	},
	{
		ID:     QuestionSchoolStatus,
		Prompt: "What is your children's current school status?",
		Kind:   KindSingleChoice,
		Options: []string{
			"No disruption",
			"Enrolled but disrupted",
			"Transferring",
			"Online/temporary",
		},
		Visible: func(a Answers) bool {
			return a.Text(QuestionHasChildren) == AnswerYes
		},
	},
	{
		ID:     QuestionHasInsurance,
		Prompt: "Do you have homeowners or renters insurance?",
		Kind:   KindSingleChoice,
		Options: []string{
			"Yes - Homeowners",
			"Yes - Renters",
			InsuranceNone,
		},
	},
	{
		ID:     QuestionClaimStatus,
		Prompt: "What is your insurance claim status?",
		Kind:   KindSingleChoice,
		Options: []string{
			"Not filed",
			"Filed – pending",
			"Approved",
			"Denied",
			"Don't know",
		},
		Visible: func(a Answers) bool {
			answer := a.Text(QuestionHasInsurance)
			return answer != "" && answer != InsuranceNone
		},
	},
	{
		ID:     QuestionCaregivingNeeds,
		Prompt: "Do you have caregiving or health constraints?",
		Kind:   KindMultiChoice,
		Options: []string{
			"Elder care",
			"Disability support",
			"Health constraints",
			"None",
		},
	},
	{
		ID:          QuestionHousingBudget,
		Prompt:      "What is your monthly housing budget (USD)?",
		Placeholder: "e.g., 1500",
		Kind:        KindInteger,
		MinValue:    0,
	},
}

// Catalog returns the full, statically-ordered question list.
func Catalog() []Question {
	out := make([]Question, len(catalog))
	copy(out, catalog)
	return out
}

// ValidateCatalog checks the structural invariants of a catalog: unique IDs
// and non-empty options for choice kinds. The built-in catalog is verified
// in tests; custom catalogs should be checked at construction.
func ValidateCatalog(questions []Question) error {
	seen := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if q.ID == "" {
			return fmt.Errorf("question with empty id")
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = struct{}{}
		switch q.Kind {
		case KindSingleChoice, KindMultiChoice:
			if len(q.Options) == 0 {
				return fmt.Errorf("question %q requires options", q.ID)
			}
		case KindShortText, KindLongText, KindInteger:
		default:
			return fmt.Errorf("question %q has unknown kind %q", q.ID, q.Kind)
		}
	}
	return nil
}

// QuestionByID finds a catalog entry by ID.
func QuestionByID(questions []Question, id string) (Question, bool) {
	for _, q := range questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
