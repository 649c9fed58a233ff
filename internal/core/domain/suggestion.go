package domain

// SuggestedQuestion is a canned question offered before the user types one.
type SuggestedQuestion struct {
	ID       string
	Text     string
	Category string
}

var suggestedQuestions = []SuggestedQuestion{
	{ID: "1", Text: "What is the revenue trend over the past 3 years?", Category: "financial"},
	{ID: "2", Text: "What are the major financial risks?", Category: "risks"},
	{ID: "3", Text: "Can you summarize the executive summary?", Category: "overview"},
	{ID: "4", Text: "What are the key performance metrics?", Category: "metrics"},
}

// SuggestedQuestions returns the canned questions in display order.
func SuggestedQuestions() []SuggestedQuestion {
	return append([]SuggestedQuestion(nil), suggestedQuestions...)
}

// Suggestion returns the n-th suggested question, counting from 1.
func Suggestion(n int) (SuggestedQuestion, bool) {
	if n < 1 || n > len(suggestedQuestions) {
		return SuggestedQuestion{}, false
	}
	return suggestedQuestions[n-1], true
}
