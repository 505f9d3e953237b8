package intake

import (
	"strings"
	"testing"
)

func TestFeedbackLookup(t *testing.T) {
	t.Parallel()

	got := FeedbackFor(QuestionName, TextValue(KindShortText, "Ada"))
	if !strings.Contains(got, "Ada") {
		t.Fatalf("name feedback should echo the answer, got %q", got)
	}

	single := FeedbackFor(QuestionFamilySize, NumberValue(1))
	multi := FeedbackFor(QuestionFamilySize, NumberValue(4))
	if single == multi {
		t.Fatal("familySize feedback should distinguish singles from larger households")
	}
	if !strings.Contains(multi, "4") {
		t.Fatalf("familySize feedback should include the count, got %q", multi)
	}

	yes := FeedbackFor(QuestionHasChildren, TextValue(KindSingleChoice, AnswerYes))
	no := FeedbackFor(QuestionHasChildren, TextValue(KindSingleChoice, AnswerNo))
	if yes == no {
		t.Fatal("hasChildren feedback should branch on the answer")
	}

	if FeedbackFor("unknown_question", Value{}) == "" {
		t.Fatal("unknown questions must fall back to the default message")
	}
}
