package litquiz

// Tier is the qualitative band a score falls in
type Tier string

const (
	TierExcellent  Tier = "excellent"
	TierGood       Tier = "good"
	TierPractice   Tier = "needs_practice"
	TierStruggling Tier = "struggling"
)

// MaxTakeaways caps how many mistake explanations become takeaways
const MaxTakeaways = 5

// MasteredTakeaway is the single takeaway shown when there are no mistakes
const MasteredTakeaway = "Great job! You've mastered this chapter. Consider moving to the next one."

var tierText = map[Tier]struct{ title, subtitle string }{
	TierExcellent:  {"Excellent Performance!", "You have a strong grasp of this chapter."},
	TierGood:       {"Good Job!", "Review the mistakes to improve further."},
	TierPractice:   {"Keep Practicing!", "Focus on the keywords and explanations below."},
	TierStruggling: {"Don't Give Up!", "Review this chapter and try again."},
}

// TierFor maps a percentage to its tier
func TierFor(percent int) Tier {
	switch {
	case percent >= 80:
		return TierExcellent
	case percent >= 60:
		return TierGood
	case percent >= 40:
		return TierPractice
	default:
		return TierStruggling
	}
}

// Title returns the headline shown for the tier
func (t Tier) Title() string { return tierText[t].title }

// Subtitle returns the line shown under the headline
func (t Tier) Subtitle() string { return tierText[t].subtitle }

// Mistake is a wrongly answered question
type Mistake struct {
	QuestionIndex  int    `json:"question_index"`
	Question       string `json:"question"`
	SelectedOption string `json:"selected_option"`
	CorrectOption  string `json:"correct_option"`
	Explanation    string `json:"explanation"`
}

// Results summarises a completed session
type Results struct {
	Stats
	Total     int       `json:"total"`
	Percent   int       `json:"percent"`
	Tier      Tier      `json:"tier"`
	Title     string    `json:"title"`
	Subtitle  string    `json:"subtitle"`
	Keywords  []string  `json:"keywords"`
	Mistakes  []Mistake `json:"mistakes"`
	Takeaways []string  `json:"takeaways"`
}

func computeResults(quiz *Quiz, answers []*AnswerEntry) Results {
	total := len(quiz.Questions)
	stats := tally(answers)
	percent := percentOf(stats.Correct, total)
	tier := TierFor(percent)

	r := Results{
		Stats:    stats,
		Total:    total,
		Percent:  percent,
		Tier:     tier,
		Title:    tier.Title(),
		Subtitle: tier.Subtitle(),
		Keywords: []string{},
		Mistakes: []Mistake{},
	}

	seen := make(map[string]bool)
	for i, a := range answers {
		if a == nil {
			continue
		}
		if a.Keyword != "" && !seen[a.Keyword] {
			seen[a.Keyword] = true
			r.Keywords = append(r.Keywords, a.Keyword)
		}
		if a.Skipped || a.IsCorrect {
			continue
		}
		r.Mistakes = append(r.Mistakes, Mistake{
			QuestionIndex:  i,
			Question:       a.Question,
			SelectedOption: optionText(a.Options, a.Selected),
			CorrectOption:  optionText(a.Options, a.Correct),
			Explanation:    a.Explanation,
		})
	}

	if len(r.Mistakes) == 0 {
		r.Takeaways = []string{MasteredTakeaway}
		return r
	}
	for _, m := range r.Mistakes {
		if len(r.Takeaways) == MaxTakeaways {
			break
		}
		r.Takeaways = append(r.Takeaways, m.Explanation)
	}
	return r
}
