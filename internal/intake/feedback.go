package intake

import "fmt"

// FeedbackFor returns the canned acknowledgment shown after answering a
// question. This is a static lookup, not an inference step; unknown question
// IDs fall back to a default message.
func FeedbackFor(questionID string, value Value) string {
	switch questionID {
	case QuestionName:
		return fmt.Sprintf("Thank you, %s. I'm here to help guide you.", value.Text)
	case QuestionFamilySize:
		if value.Number > 1 {
			return fmt.Sprintf("Thanks — we'll consider all %d household members.", value.Number)
		}
		return "Got it. We'll tailor support to your situation."
	case QuestionHasChildren:
		if value.Text == AnswerYes {
			return "Understood. We'll include school and childcare resources."
		}
		return "Okay. We'll focus on your specific recovery needs."
	case QuestionDisplacement:
		return fmt.Sprintf("Thanks. We'll align guidance to your displacement stage (%s).", value.Text)
	case QuestionIncomeChange:
		return fmt.Sprintf("Thanks. We'll prioritize resources for your income change (%s).", value.Text)
	case QuestionSchoolStatus:
		return fmt.Sprintf("Thanks. We'll include school continuity guidance (%s).", value.Text)
	case QuestionHasInsurance:
		return "Thanks. Insurance guidance will reflect your coverage."
	case QuestionClaimStatus:
		return "Thanks. We'll tailor next steps to your claim status."
	case QuestionCaregivingNeeds:
		return "Thanks. We'll factor caregiving and health constraints in recommendations."
	case QuestionHousingBudget:
		return "Thanks. We'll filter housing options to your budget."
	default:
		return "Thanks for sharing — this helps us support you."
	}
}
