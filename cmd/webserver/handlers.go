package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"litquiz"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func (s *Server) handleChapters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"collections": litquiz.AllChapters(),
	})
}

// handleGenerateQuiz always answers 200; success and failure are carried in
// the body.
func (s *Server) handleGenerateQuiz(w http.ResponseWriter, r *http.Request) {
	var req litquiz.GenerateQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusOK, litquiz.GenerateQuizResponse{Error: "Invalid request body"})
		return
	}

	quiz, err := s.generate(r.Context(), req)
	if err != nil {
		writeJSON(w, http.StatusOK, litquiz.GenerateQuizResponse{Error: failureMessage(err)})
		return
	}
	writeJSON(w, http.StatusOK, litquiz.GenerateQuizResponse{Success: true, Quiz: quiz})
}

func (s *Server) generate(ctx context.Context, req litquiz.GenerateQuizRequest) (*litquiz.Quiz, error) {
	count := req.QuestionCount
	if count == 0 {
		count = s.questionCount
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.generator.GenerateQuiz(ctx, litquiz.QuizRequest{
		ChapterID:     req.ChapterID,
		Credential:    req.Key(),
		QuestionCount: count,
	})
}

// failureMessage hides the cause of generation failures from the caller;
// the generator has already logged it.
func failureMessage(err error) string {
	switch {
	case errors.Is(err, litquiz.ErrMissingChapterID):
		return "No chapter ID provided"
	case errors.Is(err, litquiz.ErrMissingCredential):
		return "No API key provided"
	default:
		return litquiz.GenerationFailedMessage
	}
}
