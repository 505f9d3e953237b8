package intake

import (
	"strings"
	"time"
)

// Profile is the normalized household record derived from a completed answer
// set. It is created exactly once per submission and consumed read-only by
// every dashboard page; re-running intake supersedes it rather than mutating
// it. Consumers must tolerate absent optional fields.
type Profile struct {
	Name                 string   `json:"name"`
	FamilySize           int64    `json:"familySize"`
	HasChildren          bool     `json:"hasChildren"`
	SchoolStatus         string   `json:"schoolStatus,omitempty"`
	HousingStatus        string   `json:"housingStatus,omitempty"`
	NeedsHousing         bool     `json:"needsHousing"`
	NeedsEmployment      bool     `json:"needsEmployment"`
	HasInsurance         bool     `json:"hasInsurance"`
	InsuranceType        string   `json:"insuranceType,omitempty"`
	InsuranceClaimStatus string   `json:"insuranceClaimStatus,omitempty"`
	CaregivingNeeds      []string `json:"caregivingNeeds"`
	HousingBudget        int64    `json:"housingBudget"`
	AdditionalInfo       string   `json:"additionalInfo,omitempty"`
	CompletedAt          string   `json:"completedAt"`
}

// needsHousingStatuses is the fixed "needs relocation" set: displacement
// stages where the household does not have settled housing.
var needsHousingStatuses = map[string]bool{
	"Evacuated":             true,
	"Relocated temporarily": true,
}

// needsEmploymentChanges is the fixed "negative income impact" set.
var needsEmploymentChanges = map[string]bool{
	"Reduced hours":              true,
	"Temporarily laid off":       true,
	"Job lost":                   true,
	"Self-employed revenue loss": true,
}

// DeriveProfile maps a completed answer set to the household profile. Pure:
// the only non-determinism is the completion timestamp, taken from now.
// Derivation reads answers directly, so answers hidden by a later visibility
// change (e.g. children's questions after hasChildren flips to "No") no
// longer influence the flags that gate them.
func DeriveProfile(answers Answers, now time.Time) Profile {
	insurance := answers.Text(QuestionHasInsurance)
	caregiving := answers.List(QuestionCaregivingNeeds)
	if caregiving == nil {
		caregiving = []string{}
	}

	return Profile{
		Name:                 answers.Text(QuestionName),
		FamilySize:           answers.Number(QuestionFamilySize),
		HasChildren:          answers.Text(QuestionHasChildren) == AnswerYes,
		SchoolStatus:         passThroughIf(answers, QuestionSchoolStatus, answers.Text(QuestionHasChildren) == AnswerYes),
		HousingStatus:        answers.Text(QuestionDisplacement),
		NeedsHousing:         needsHousingStatuses[answers.Text(QuestionDisplacement)],
		NeedsEmployment:      needsEmploymentChanges[answers.Text(QuestionIncomeChange)],
		HasInsurance:         strings.HasPrefix(insurance, AnswerYes),
		InsuranceType:        insurance,
		InsuranceClaimStatus: passThroughIf(answers, QuestionClaimStatus, insurance != "" && insurance != InsuranceNone),
		CaregivingNeeds:      append([]string(nil), caregiving...),
		HousingBudget:        answers.Number(QuestionHousingBudget),
		CompletedAt:          now.UTC().Format(time.RFC3339),
	}
}

// passThroughIf copies a stored answer only while its gating condition still
// holds, so stale answers behind a collapsed branch never leak into the
// profile.
func passThroughIf(answers Answers, questionID string, gate bool) string {
	if !gate {
		return ""
	}
	return answers.Text(questionID)
}
