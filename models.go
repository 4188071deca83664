package litquiz

import "fmt"

// Category selects which prompt template a chapter is generated with
type Category string

const (
	CategoryNarrative Category = "prose-narrative"
	CategoryPoetry    Category = "poetry"
)

// DefaultQuestionCount is used when a request does not ask for a specific size
const DefaultQuestionCount = 15

// MaxQuestionCount bounds how many questions a single request may ask for
const MaxQuestionCount = 30

// ChapterRef identifies a chapter in the static catalog
type ChapterRef struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Collection string   `json:"book"`
	Section    string   `json:"type"` // prose, poetry or story
	Category   Category `json:"category"`
}

// ReferenceText is the pre-extracted material a quiz is grounded in
type ReferenceText struct {
	BookExcerpt    string `json:"book_content"`
	PriorQuestions string `json:"pyq_content"`
}

// QuizRequest represents a request to generate a quiz for one chapter
type QuizRequest struct {
	ChapterID     string `json:"chapter_id"`
	Credential    string `json:"credential"`
	QuestionCount int    `json:"question_count,omitempty"`
}

// Count returns the requested question count, falling back to the default
// when it is unset or out of bounds.
func (r QuizRequest) Count() int {
	if r.QuestionCount <= 0 || r.QuestionCount > MaxQuestionCount {
		return DefaultQuestionCount
	}
	return r.QuestionCount
}

// Question represents a single multiple choice question
type Question struct {
	ID          int      `json:"id"`
	Text        string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"` // 0-based index into Options
	Explanation string   `json:"explanation"`
	Keyword     string   `json:"keyword"`
}

// CorrectOption returns the text of the correct option
func (q Question) CorrectOption() string {
	return optionText(q.Options, q.Correct)
}

// Quiz is the validated result of a generation request
type Quiz struct {
	ChapterID string     `json:"chapter_id,omitempty"`
	Model     string     `json:"model,omitempty"`
	Questions []Question `json:"questions"`
}

// Validate checks that the quiz has questions and that every question has
// exactly four options with Correct pointing at one of them
func (quiz *Quiz) Validate() error {
	if quiz == nil || len(quiz.Questions) == 0 {
		return ErrEmptyQuiz
	}
	for i, q := range quiz.Questions {
		if len(q.Options) != optionsPerQuestion {
			return fmt.Errorf("%w: question %d has %d options", ErrMalformedQuestion, i+1, len(q.Options))
		}
		if q.Correct < 0 || q.Correct >= len(q.Options) {
			return fmt.Errorf("%w: question %d has correct index %d", ErrMalformedQuestion, i+1, q.Correct)
		}
	}
	return nil
}

func optionText(options []string, i int) string {
	if i < 0 || i >= len(options) {
		return ""
	}
	return options[i]
}
