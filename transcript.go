package litquiz

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TranscriptLogger writes every model interaction of one generation to its
// own file. Credentials are never written.
type TranscriptLogger struct {
	file         *os.File
	path         string
	mu           sync.Mutex
	generationID string
}

// NewTranscriptLogger creates dir/<generationID>.log and writes a header
func NewTranscriptLogger(dir, generationID string, chapter ChapterRef, ref ReferenceText, questionCount int) (*TranscriptLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s.log", generationID))
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	tl := &TranscriptLogger{
		file:         file,
		path:         filename,
		generationID: generationID,
	}

	tl.Logf("=== Quiz Generation Log ===\n")
	tl.Logf("Generation ID: %s\n", generationID)
	tl.Logf("Chapter: %s (%s, %s)\n", chapter.Name, chapter.ID, chapter.Category)
	tl.Logf("Book: %s\n", chapter.Collection)
	tl.Logf("Number of Questions: %d\n", questionCount)
	tl.Logf("Book Content Length: %d characters\n", len(ref.BookExcerpt))
	tl.Logf("PYQ Content Length: %d characters\n", len(ref.PriorQuestions))
	tl.Logf("Started: %s\n", time.Now().Format(time.RFC3339))
	tl.Logf("========================\n\n")

	return tl, nil
}

// Path returns the transcript file name
func (tl *TranscriptLogger) Path() string {
	return tl.path
}

// Logf writes a formatted log entry with timestamp
func (tl *TranscriptLogger) Logf(format string, args ...interface{}) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.write(format, args...)
}

func (tl *TranscriptLogger) write(format string, args ...interface{}) {
	if tl.file == nil {
		return
	}
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(tl.file, "[%s] %s", timestamp, fmt.Sprintf(format, args...))
	tl.file.Sync()
}

// LogLLMRequest logs a prompt sent to a model
func (tl *TranscriptLogger) LogLLMRequest(model, prompt string) {
	tl.Logf("=== LLM REQUEST (%s) ===\n", model)
	tl.Logf("Prompt:\n%s\n", prompt)
	tl.Logf("=====================\n\n")
}

// LogLLMResponse logs a model's raw response
func (tl *TranscriptLogger) LogLLMResponse(model, response string) {
	tl.Logf("=== LLM RESPONSE (%s) ===\n", model)
	tl.Logf("Response:\n%s\n", response)
	tl.Logf("======================\n\n")
}

// LogModelFailure logs a failed attempt and what the chain did about it
func (tl *TranscriptLogger) LogModelFailure(model, action string, err error) {
	if err != nil {
		tl.Logf("Model %s: %s - %v\n", model, action, err)
		return
	}
	tl.Logf("Model %s: %s\n", model, action)
}

// LogOutcome logs the final result of the generation
func (tl *TranscriptLogger) LogOutcome(quiz *Quiz, err error) {
	if err != nil {
		tl.Logf("Generation failed: %v\n", err)
		return
	}
	tl.Logf("Generated %d questions with %s\n", len(quiz.Questions), quiz.Model)
}

// Close closes the log file
func (tl *TranscriptLogger) Close() error {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if tl.file == nil {
		return nil
	}
	tl.write("=== Quiz Generation Complete ===\n")
	tl.write("Completed: %s\n", time.Now().Format(time.RFC3339))
	tl.write("=============================\n")
	err := tl.file.Close()
	tl.file = nil
	return err
}
