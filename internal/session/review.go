package session

// OptionVerdict classifies one option in review mode.
type OptionVerdict string

const (
	// VerdictCorrect marks the question's correct answer, selected or not.
	VerdictCorrect OptionVerdict = "correct"
	// VerdictIncorrectSelection marks the user's pick when it was wrong.
	VerdictIncorrectSelection OptionVerdict = "incorrect_selection"
	// VerdictUnselected marks every other option.
	VerdictUnselected OptionVerdict = "unselected"
)

// ClassifyOption derives the review verdict for a single option. It is a
// pure function of the three strings; callers recompute on every render
// rather than caching.
func ClassifyOption(option, selected, correct string) OptionVerdict {
	switch {
	case option == correct:
		return VerdictCorrect
	case option == selected:
		return VerdictIncorrectSelection
	default:
		return VerdictUnselected
	}
}

// QuestionReview pairs a question with the verdict of each of its options.
type QuestionReview struct {
	Question Question
	Selected string
	Answered bool
	Correct  bool
	Verdicts []OptionVerdict
}

// Review classifies every option of every question. Only available once the
// session is Submitted; before that it returns nil.
func (c *Controller) Review() []QuestionReview {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateSubmitted {
		return nil
	}

	reviews := make([]QuestionReview, len(c.questions))
	for i, q := range c.questions {
		selected, answered := c.answers[q.ID]
		review := QuestionReview{
			Question: q,
			Selected: selected,
			Answered: answered,
			Correct:  answered && selected == q.CorrectAnswer,
			Verdicts: make([]OptionVerdict, len(q.Options)),
		}
		for j, option := range q.Options {
			review.Verdicts[j] = ClassifyOption(option, selected, q.CorrectAnswer)
		}
		reviews[i] = review
	}
	return reviews
}
