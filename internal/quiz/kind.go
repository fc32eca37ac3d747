package quiz

import (
	"strings"
)

type QuestionType string

const (
	// MultipleChoice has exactly one correct option.
	MultipleChoice QuestionType = "MultipleChoice"
	// MultipleCheckbox may have several correct options.
	MultipleCheckbox QuestionType = "MultipleCheckbox"
	// TrueFalse carries two options, one marked correct.
	TrueFalse QuestionType = "TrueFalse"
	// ShortAnswer is free text reviewed by a human; never auto-graded.
	ShortAnswer QuestionType = "ShortAnswer"
)

var AllQuestionTypes = []QuestionType{
	MultipleChoice,
	MultipleCheckbox,
	TrueFalse,
	ShortAnswer,
}

func (t QuestionType) IsValid() bool {
	for _, v := range AllQuestionTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Gradable reports whether responses of this type contribute to the score.
func (t QuestionType) Gradable() bool {
	return t != ShortAnswer
}

// ParseQuestionType normalizes a free-form type string into a QuestionType.
// Matching is case-insensitive with all whitespace removed, and accepts the
// short-answer aliases (including the misspelling) found in legacy import
// documents. Returns false for anything unrecognized.
func ParseQuestionType(raw string) (QuestionType, bool) {
	norm := strings.ToLower(strings.Join(strings.Fields(raw), ""))
	switch norm {
	case "multiplechoice":
		return MultipleChoice, true
	case "multiplecheckbox":
		return MultipleCheckbox, true
	case "truefalse":
		return TrueFalse, true
	case "shortanswer", "usershortanswer", "usershortanwswer":
		return ShortAnswer, true
	}
	return "", false
}
