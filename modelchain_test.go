package litquiz

import (
	"context"
	"errors"
	"os"
	"reflect"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

var quotaErr = &googleapi.Error{Code: 429, Message: "Resource has been exhausted"}

func TestModelChainQuotaThenSuccess(t *testing.T) {
	backend := &fakeBackend{results: map[string]fakeResult{
		"m1": {err: quotaErr},
		"m2": {text: validQuizJSON},
		"m3": {text: validQuizJSON},
	}}
	chain := NewModelChain([]string{"m1", "m2", "m3"})

	completion, err := chain.Execute(context.Background(), backend, "prompt", nil)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if completion.Model != "m2" {
		t.Fatalf("expected m2 to answer, got %s", completion.Model)
	}
	if !reflect.DeepEqual(backend.calls, []string{"m1", "m2"}) {
		t.Fatalf("expected m3 never to be called, got calls %v", backend.calls)
	}
}

func TestModelChainAllQuota(t *testing.T) {
	backend := &fakeBackend{results: map[string]fakeResult{
		"m1": {err: quotaErr},
		"m2": {err: &openai.APIError{HTTPStatusCode: 404, Message: "gone"}},
		"m3": {err: quotaErr},
	}}
	chain := NewModelChain([]string{"m1", "m2", "m3"})

	completion, err := chain.Execute(context.Background(), backend, "prompt", nil)
	if completion != nil {
		t.Fatalf("expected no completion, got %+v", completion)
	}
	var transient *TransientModelError
	if !errors.As(err, &transient) || transient.Model != "m3" {
		t.Fatalf("expected transient error from m3, got %v", err)
	}
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}
	if len(backend.calls) != 3 {
		t.Fatalf("expected every candidate to be tried, got %v", backend.calls)
	}
}

func TestModelChainFatalStops(t *testing.T) {
	backend := &fakeBackend{results: map[string]fakeResult{
		"m1": {err: &googleapi.Error{Code: 400, Message: "API key not valid"}},
		"m2": {text: validQuizJSON},
	}}
	chain := NewModelChain([]string{"m1", "m2"})

	_, err := chain.Execute(context.Background(), backend, "prompt", nil)
	var fatal *FatalModelError
	if !errors.As(err, &fatal) || fatal.Model != "m1" {
		t.Fatalf("expected fatal error from m1, got %v", err)
	}
	if !reflect.DeepEqual(backend.calls, []string{"m1"}) {
		t.Fatalf("expected chain to stop after m1, got %v", backend.calls)
	}
}

func TestModelChainEmptyResponses(t *testing.T) {
	backend := &fakeBackend{results: map[string]fakeResult{
		"m1": {text: ""},
		"m2": {text: "  \n "},
	}}
	chain := NewModelChain([]string{"m1", "m2"})

	_, err := chain.Execute(context.Background(), backend, "prompt", nil)
	if !errors.Is(err, ErrNoUsableModel) {
		t.Fatalf("expected ErrNoUsableModel, got %v", err)
	}
}

func TestModelChainNoModels(t *testing.T) {
	_, err := NewModelChain(nil).Execute(context.Background(), &fakeBackend{}, "prompt", nil)
	if !errors.Is(err, ErrNoModels) {
		t.Fatalf("expected ErrNoModels, got %v", err)
	}
}

func TestModelChainCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	backend := &fakeBackend{results: map[string]fakeResult{"m1": {text: validQuizJSON}}}
	_, err := NewModelChain([]string{"m1"}).Execute(ctx, backend, "prompt", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(backend.calls) != 0 {
		t.Fatalf("expected no calls, got %v", backend.calls)
	}
}

func TestModelChainWritesTranscript(t *testing.T) {
	chapter, _ := ChapterInfo("ff_p1")
	logger, err := NewTranscriptLogger(t.TempDir(), "gen-1", chapter, ReferenceText{BookExcerpt: "abc"}, 2)
	if err != nil {
		t.Fatalf("failed to create transcript: %v", err)
	}

	backend := &fakeBackend{results: map[string]fakeResult{
		"m1": {err: quotaErr},
		"m2": {text: validQuizJSON},
	}}
	if _, err := NewModelChain([]string{"m1", "m2"}).Execute(context.Background(), backend, "the prompt", logger); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	path := logger.Path()
	if err := logger.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read transcript: %v", err)
	}
	text := string(data)
	for _, want := range []string{"A Letter to God", "LLM REQUEST (m1)", "retrying next model", "LLM RESPONSE (m2)", "Book Content Length: 3"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected transcript to contain %q, got:\n%s", want, text)
		}
	}
}
