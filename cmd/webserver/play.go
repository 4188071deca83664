package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"litquiz"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "litquiz-session"
	stateKey    = "play"
)

// questionView is a question as shown before it is answered
type questionView struct {
	ID       int      `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type sessionView struct {
	Status       litquiz.SessionStatus `json:"status"`
	ChapterID    string                `json:"chapter_id,omitempty"`
	CurrentIndex int                   `json:"current_index"`
	Total        int                   `json:"total"`
	Question     *questionView         `json:"question,omitempty"`
	Answer       *litquiz.AnswerEntry  `json:"answer,omitempty"`
	Stats        litquiz.Stats         `json:"stats"`
}

type startRequest struct {
	litquiz.GenerateQuizRequest
	Quiz *litquiz.Quiz `json:"quiz,omitempty"`
}

type answerRequest struct {
	Selected *int `json:"selected"`
}

// loadSession returns the play session stored for this browser. Unreadable
// or inconsistent state starts over from idle.
func (s *Server) loadSession(r *http.Request) (*sessions.Session, *litquiz.Session) {
	sess, err := s.store.Get(r, sessionName)
	if err != nil {
		litquiz.VerboseLog("Discarding unreadable session: %v", err)
	}

	raw, ok := sess.Values[stateKey].(string)
	if !ok || raw == "" {
		return sess, litquiz.NewSession()
	}
	var state litquiz.SessionState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		log.Printf("Failed to decode play state: %v", err)
		return sess, litquiz.NewSession()
	}
	play, err := litquiz.RestoreSession(state)
	if err != nil {
		log.Printf("Failed to restore play state: %v", err)
		return sess, litquiz.NewSession()
	}
	return sess, play
}

func (s *Server) saveSession(w http.ResponseWriter, r *http.Request, sess *sessions.Session, play *litquiz.Session) bool {
	data, err := json.Marshal(play.State())
	if err != nil {
		log.Printf("Failed to encode play state: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save session"})
		return false
	}
	sess.Values[stateKey] = string(data)
	if err := sess.Save(r, w); err != nil {
		log.Printf("Session save error: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save session"})
		return false
	}
	return true
}

func viewOf(play *litquiz.Session) sessionView {
	state := play.State()
	v := sessionView{
		Status:       state.Status,
		CurrentIndex: state.CurrentIndex,
		Total:        play.Total(),
		Stats:        play.Stats(),
	}
	if state.Quiz != nil {
		v.ChapterID = state.Quiz.ChapterID
	}
	if q, ok := play.CurrentQuestion(); ok {
		v.Question = &questionView{ID: q.ID, Question: q.Text, Options: q.Options}
	}
	if a, ok := play.CurrentAnswer(); ok {
		v.Answer = &a
	}
	return v
}

// writePlayError maps session errors to HTTP statuses
func writePlayError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, litquiz.ErrInvalidTransition),
		errors.Is(err, litquiz.ErrAlreadyAnswered),
		errors.Is(err, litquiz.ErrNotAnswered):
		status = http.StatusConflict
	case errors.Is(err, litquiz.ErrOptionOutOfRange),
		errors.Is(err, litquiz.ErrEmptyQuiz),
		errors.Is(err, litquiz.ErrMalformedQuestion):
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	_, play := s.loadSession(r)
	writeJSON(w, http.StatusOK, viewOf(play))
}

// handleStart begins a quiz. The body either carries a quiz returned by
// /generate-quiz or the fields needed to generate one.
func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	sess, play := s.loadSession(r)
	if play.Status() != litquiz.StatusIdle {
		writePlayError(w, litquiz.ErrInvalidTransition)
		return
	}

	quiz := req.Quiz
	if quiz == nil {
		var err error
		quiz, err = s.generate(r.Context(), req.GenerateQuizRequest)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": failureMessage(err)})
			return
		}
	}

	if err := play.Start(quiz); err != nil {
		writePlayError(w, err)
		return
	}
	if !s.saveSession(w, r, sess, play) {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(play))
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Selected == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "selected is required"})
		return
	}

	sess, play := s.loadSession(r)
	if _, err := play.Answer(*req.Selected); err != nil {
		writePlayError(w, err)
		return
	}
	if !s.saveSession(w, r, sess, play) {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(play))
}

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	sess, play := s.loadSession(r)
	if err := play.Skip(); err != nil {
		writePlayError(w, err)
		return
	}
	if !s.saveSession(w, r, sess, play) {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(play))
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	sess, play := s.loadSession(r)
	if err := play.Advance(); err != nil {
		writePlayError(w, err)
		return
	}
	if !s.saveSession(w, r, sess, play) {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(play))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sess, play := s.loadSession(r)
	play.Reset()
	if !s.saveSession(w, r, sess, play) {
		return
	}
	writeJSON(w, http.StatusOK, viewOf(play))
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	_, play := s.loadSession(r)
	results, ok := play.Results()
	if !ok {
		writePlayError(w, litquiz.ErrInvalidTransition)
		return
	}
	writeJSON(w, http.StatusOK, results)
}
