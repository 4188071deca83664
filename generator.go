package litquiz

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
)

// QuizGenerator turns a chapter into a quiz: it builds the prompt, runs the
// model chain and extracts the result.
type QuizGenerator struct {
	refs          ReferenceStore
	chain         *ModelChain
	newBackend    BackendFactory
	transcriptDir string
}

// GeneratorOption configures a QuizGenerator
type GeneratorOption func(*QuizGenerator)

// WithTranscriptDir enables per-generation transcript files under dir
func WithTranscriptDir(dir string) GeneratorOption {
	return func(g *QuizGenerator) {
		g.transcriptDir = dir
	}
}

// NewQuizGenerator creates a new quiz generator. refs may be nil, in which
// case prompts are built without reference text.
func NewQuizGenerator(refs ReferenceStore, chain *ModelChain, newBackend BackendFactory, opts ...GeneratorOption) *QuizGenerator {
	if refs == nil {
		refs = NewContentTable(nil)
	}
	g := &QuizGenerator{
		refs:       refs,
		chain:      chain,
		newBackend: newBackend,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateQuiz generates a quiz for one chapter. A nil quiz is always
// accompanied by an error; callers should report GenerationFailedMessage and
// let the user try again.
func (g *QuizGenerator) GenerateQuiz(ctx context.Context, req QuizRequest) (*Quiz, error) {
	if strings.TrimSpace(req.ChapterID) == "" {
		return nil, ErrMissingChapterID
	}
	credential := strings.TrimSpace(req.Credential)
	if credential == "" {
		return nil, ErrMissingCredential
	}
	chapter, ok := ChapterInfo(req.ChapterID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownChapter, req.ChapterID)
	}

	count := req.Count()
	ref := g.refs.ChapterContext(chapter.ID)
	log.Printf("Starting quiz generation for %s (%s), target questions: %d", chapter.Name, chapter.ID, count)
	if ref.BookExcerpt == "" {
		log.Printf("No book content available for %s", chapter.ID)
	} else {
		VerboseLog("Book content: %d characters", len(ref.BookExcerpt))
	}
	if ref.PriorQuestions == "" {
		VerboseLog("No PYQ content available for %s", chapter.ID)
	} else {
		VerboseLog("PYQ content: %d characters", len(ref.PriorQuestions))
	}

	prompt := BuildPrompt(chapter, ref, count)

	var transcript *TranscriptLogger
	if g.transcriptDir != "" {
		var err error
		transcript, err = NewTranscriptLogger(g.transcriptDir, uuid.NewString(), chapter, ref, count)
		if err != nil {
			// Continue without a transcript rather than failing
			log.Printf("Failed to create transcript for %s: %v", chapter.ID, err)
		} else {
			defer transcript.Close()
		}
	}

	quiz, err := g.generate(ctx, credential, prompt, transcript)
	if transcript != nil {
		transcript.LogOutcome(quiz, err)
	}
	if err != nil {
		log.Printf("Error generating quiz for %s: %v", chapter.ID, err)
		return nil, err
	}

	quiz.ChapterID = chapter.ID
	if len(quiz.Questions) != count {
		log.Printf("Model %s returned %d questions, %d requested", quiz.Model, len(quiz.Questions), count)
	}
	log.Printf("Quiz generation complete: %d questions for %s", len(quiz.Questions), chapter.Name)
	return quiz, nil
}

func (g *QuizGenerator) generate(ctx context.Context, credential string, prompt Prompt, transcript *TranscriptLogger) (*Quiz, error) {
	backend, err := g.newBackend(ctx, credential)
	if err != nil {
		return nil, fmt.Errorf("failed to create model backend: %w", err)
	}
	defer backend.Close()

	completion, err := g.chain.Execute(ctx, backend, prompt.String(), transcript)
	if err != nil {
		return nil, fmt.Errorf("failed to generate quiz: %w", err)
	}

	quiz, err := ExtractQuiz(completion.Text)
	if err != nil {
		return nil, err
	}
	quiz.Model = completion.Model
	return quiz, nil
}
