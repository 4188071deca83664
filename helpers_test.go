package litquiz

import (
	"context"
	"fmt"
	"sync"
)

type fakeResult struct {
	text string
	err  error
}

// fakeBackend answers per model from a fixed table and records every call
type fakeBackend struct {
	mu      sync.Mutex
	results map[string]fakeResult
	calls   []string
	prompts []string
	closed  bool
}

func (b *fakeBackend) Generate(ctx context.Context, model, prompt string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, model)
	b.prompts = append(b.prompts, prompt)
	r, ok := b.results[model]
	if !ok {
		return "", fmt.Errorf("unexpected model %s", model)
	}
	return r.text, r.err
}

func (b *fakeBackend) Close() error {
	b.closed = true
	return nil
}

func factoryFor(b *fakeBackend) BackendFactory {
	return func(ctx context.Context, credential string) (Backend, error) {
		return b, nil
	}
}

const validQuizJSON = `{
  "questions": [
    {"id": 1, "question": "Who wrote the letter to God?", "options": ["Lencho", "The postmaster", "Lencho's wife", "A clerk"], "correct": 0, "explanation": "Lencho wrote the letter.", "keyword": "Faith"},
    {"id": 2, "question": "What destroyed the crop?", "options": ["Locusts", "Flood", "Hailstorm", "Drought"], "correct": 2, "explanation": "A hailstorm destroyed the crop.", "keyword": "Hailstorm"}
  ]
}`

func sampleQuiz(n int) *Quiz {
	quiz := &Quiz{ChapterID: "ff_p1"}
	for i := 0; i < n; i++ {
		quiz.Questions = append(quiz.Questions, Question{
			ID:          i + 1,
			Text:        fmt.Sprintf("Question %d?", i+1),
			Options:     []string{"A", "B", "C", "D"},
			Correct:     0,
			Explanation: fmt.Sprintf("Explanation %d", i+1),
			Keyword:     fmt.Sprintf("Keyword %d", i+1),
		})
	}
	return quiz
}
