package litquiz

import (
	"errors"
	"fmt"
	"math"
)

// SessionStatus is the state of a quiz session
type SessionStatus string

const (
	StatusIdle       SessionStatus = "idle"
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
)

var (
	// ErrInvalidTransition is returned when an action is not allowed in the
	// session's current state.
	ErrInvalidTransition = errors.New("action not allowed in current session state")
	// ErrAlreadyAnswered is returned when the current question already has an entry.
	ErrAlreadyAnswered = errors.New("question already answered")
	// ErrNotAnswered is returned when advancing past an unanswered question.
	ErrNotAnswered = errors.New("question has not been answered or skipped")
	// ErrOptionOutOfRange is returned for a selection outside the options.
	ErrOptionOutOfRange = errors.New("selected option out of range")
	// ErrEmptyQuiz is returned when starting a session without questions.
	ErrEmptyQuiz = errors.New("quiz has no questions")
)

// AnswerEntry records what happened to one question. Skipped entries carry
// only the keyword.
type AnswerEntry struct {
	Skipped     bool     `json:"skipped,omitempty"`
	Selected    int      `json:"selected"`
	Correct     int      `json:"correct"`
	IsCorrect   bool     `json:"is_correct"`
	Question    string   `json:"question,omitempty"`
	Options     []string `json:"options,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Keyword     string   `json:"keyword,omitempty"`
}

// SessionState is the serialisable form of a Session
type SessionState struct {
	Status       SessionStatus  `json:"status"`
	Quiz         *Quiz          `json:"quiz,omitempty"`
	CurrentIndex int            `json:"current_index"`
	Answers      []*AnswerEntry `json:"answers,omitempty"`
}

// Stats are the running tallies of a session
type Stats struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Skipped   int `json:"skipped"`
}

// Session drives one user's run through a quiz. It is not safe for
// concurrent use.
type Session struct {
	state   SessionState
	results *Results
}

// NewSession returns an idle session
func NewSession() *Session {
	return &Session{state: SessionState{Status: StatusIdle}}
}

// RestoreSession rebuilds a session from a saved state
func RestoreSession(state SessionState) (*Session, error) {
	s := &Session{state: state}
	switch state.Status {
	case StatusIdle, "":
		s.state = SessionState{Status: StatusIdle}
	case StatusInProgress, StatusCompleted:
		if err := state.Quiz.Validate(); err != nil {
			return nil, err
		}
		if len(state.Answers) != len(state.Quiz.Questions) {
			return nil, fmt.Errorf("session has %d answers for %d questions", len(state.Answers), len(state.Quiz.Questions))
		}
		if state.CurrentIndex < 0 || state.CurrentIndex >= len(state.Quiz.Questions) {
			return nil, fmt.Errorf("session index %d out of range", state.CurrentIndex)
		}
		if state.Status == StatusCompleted {
			r := computeResults(state.Quiz, state.Answers)
			s.results = &r
		}
	default:
		return nil, fmt.Errorf("unknown session status %q", state.Status)
	}
	return s, nil
}

// State returns a copy of the session state suitable for storage
func (s *Session) State() SessionState {
	st := s.state
	st.Answers = append([]*AnswerEntry(nil), s.state.Answers...)
	return st
}

// Status returns the current state
func (s *Session) Status() SessionStatus {
	return s.state.Status
}

// CurrentIndex returns the 0-based index of the current question
func (s *Session) CurrentIndex() int {
	return s.state.CurrentIndex
}

// Total returns the number of questions in the active quiz
func (s *Session) Total() int {
	if s.state.Quiz == nil {
		return 0
	}
	return len(s.state.Quiz.Questions)
}

// CurrentQuestion returns the question being shown
func (s *Session) CurrentQuestion() (Question, bool) {
	if s.state.Status != StatusInProgress {
		return Question{}, false
	}
	return s.state.Quiz.Questions[s.state.CurrentIndex], true
}

// CurrentAnswer returns the entry recorded for the current question, if any
func (s *Session) CurrentAnswer() (AnswerEntry, bool) {
	if s.state.Status == StatusIdle {
		return AnswerEntry{}, false
	}
	entry := s.state.Answers[s.state.CurrentIndex]
	if entry == nil {
		return AnswerEntry{}, false
	}
	return *entry, true
}

// Start begins a quiz. Only valid from Idle. Quizzes that fail Validate are
// rejected.
func (s *Session) Start(quiz *Quiz) error {
	if s.state.Status != StatusIdle {
		return fmt.Errorf("start: %w", ErrInvalidTransition)
	}
	if err := quiz.Validate(); err != nil {
		return err
	}
	s.state = SessionState{
		Status:       StatusInProgress,
		Quiz:         quiz,
		CurrentIndex: 0,
		Answers:      make([]*AnswerEntry, len(quiz.Questions)),
	}
	s.results = nil
	return nil
}

// Answer records a selection for the current question without advancing
func (s *Session) Answer(selected int) (AnswerEntry, error) {
	q, err := s.unansweredQuestion("answer")
	if err != nil {
		return AnswerEntry{}, err
	}
	if selected < 0 || selected >= len(q.Options) {
		return AnswerEntry{}, ErrOptionOutOfRange
	}
	entry := &AnswerEntry{
		Selected:    selected,
		Correct:     q.Correct,
		IsCorrect:   selected == q.Correct,
		Question:    q.Text,
		Options:     q.Options,
		Explanation: q.Explanation,
		Keyword:     q.Keyword,
	}
	s.state.Answers[s.state.CurrentIndex] = entry
	return *entry, nil
}

// Skip records the current question as skipped without advancing
func (s *Session) Skip() error {
	q, err := s.unansweredQuestion("skip")
	if err != nil {
		return err
	}
	s.state.Answers[s.state.CurrentIndex] = &AnswerEntry{Skipped: true, Keyword: q.Keyword}
	return nil
}

// Advance moves to the next question, or completes the quiz after the last
// one. The current question must have been answered or skipped.
func (s *Session) Advance() error {
	if s.state.Status != StatusInProgress {
		return fmt.Errorf("advance: %w", ErrInvalidTransition)
	}
	if s.state.Answers[s.state.CurrentIndex] == nil {
		return ErrNotAnswered
	}
	if s.state.CurrentIndex == len(s.state.Quiz.Questions)-1 {
		s.state.Status = StatusCompleted
		r := computeResults(s.state.Quiz, s.state.Answers)
		s.results = &r
		return nil
	}
	s.state.CurrentIndex++
	return nil
}

// Reset discards the quiz and answers and returns to Idle
func (s *Session) Reset() {
	s.state = SessionState{Status: StatusIdle}
	s.results = nil
}

// Stats returns the tallies over the answers recorded so far
func (s *Session) Stats() Stats {
	return tally(s.state.Answers)
}

// Results returns the summary of a completed session
func (s *Session) Results() (Results, bool) {
	if s.state.Status != StatusCompleted || s.results == nil {
		return Results{}, false
	}
	return *s.results, true
}

func (s *Session) unansweredQuestion(action string) (Question, error) {
	if s.state.Status != StatusInProgress {
		return Question{}, fmt.Errorf("%s: %w", action, ErrInvalidTransition)
	}
	if s.state.Answers[s.state.CurrentIndex] != nil {
		return Question{}, ErrAlreadyAnswered
	}
	return s.state.Quiz.Questions[s.state.CurrentIndex], nil
}

// tally counts skips separately; an entry is incorrect only when it was
// answered and wrong.
func tally(answers []*AnswerEntry) Stats {
	var st Stats
	for _, a := range answers {
		switch {
		case a == nil:
		case a.Skipped:
			st.Skipped++
		case a.IsCorrect:
			st.Correct++
		default:
			st.Incorrect++
		}
	}
	return st
}

func percentOf(correct, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}
