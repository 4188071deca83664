package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"litquiz"
)

func testQuiz(n int) *litquiz.Quiz {
	quiz := &litquiz.Quiz{ChapterID: "ff_p7"}
	for i := 0; i < n; i++ {
		quiz.Questions = append(quiz.Questions, litquiz.Question{
			ID:          i + 1,
			Text:        fmt.Sprintf("Question %d?", i+1),
			Options:     []string{"one", "two", "three", "four"},
			Correct:     0,
			Explanation: fmt.Sprintf("Explanation %d", i+1),
			Keyword:     fmt.Sprintf("kw%d", i+1),
		})
	}
	return quiz
}

func newTestPlayer(input string, source func(ctx context.Context) (*litquiz.Quiz, error)) (*player, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return &player{
		in:      bufio.NewScanner(strings.NewReader(input)),
		out:     out,
		session: litquiz.NewSession(),
		source:  source,
	}, out
}

func TestPlayerRunsQuiz(t *testing.T) {
	calls := 0
	p, out := newTestPlayer("a\nx\nB\ns\nn\n", func(ctx context.Context) (*litquiz.Quiz, error) {
		calls++
		return testQuiz(3), nil
	})
	chapter, _ := litquiz.ChapterInfo("ff_p7")

	if err := p.run(context.Background(), chapter); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected one generation, got %d", calls)
	}

	text := out.String()
	for _, want := range []string{
		"Madam Rides the Bus",
		"✅ Correct!",
		"Please enter A, B, C, D or S",
		"❌ Incorrect. The correct answer is A) one",
		"⏭️ Skipped. Keyword: kw3",
		"Question 3/3   ✅ 1  ❌ 1  ⏭️ 0",
		"Don't Give Up!",
		"Score: 1/3 (33%)",
		"Correct: 1  Incorrect: 1  Skipped: 1",
		"Keywords to remember: kw1, kw2, kw3",
		"Your answer: two",
		"• Explanation 2",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, text)
		}
	}
}

func TestPlayerRetry(t *testing.T) {
	calls := 0
	p, out := newTestPlayer("a\ny\na\nn\n", func(ctx context.Context) (*litquiz.Quiz, error) {
		calls++
		return testQuiz(1), nil
	})

	if err := p.run(context.Background(), litquiz.ChapterRef{Name: "Test"}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected retry to regenerate, got %d generations", calls)
	}
	if strings.Count(out.String(), "Excellent Performance!") != 2 {
		t.Fatalf("expected two result screens, got:\n%s", out.String())
	}
}

func TestPlayerGenerationFailure(t *testing.T) {
	p, out := newTestPlayer("n\n", func(ctx context.Context) (*litquiz.Quiz, error) {
		return nil, errors.New("quota")
	})

	if err := p.run(context.Background(), litquiz.ChapterRef{Name: "Test"}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !strings.Contains(out.String(), litquiz.GenerationFailedMessage) {
		t.Fatalf("expected failure message, got:\n%s", out.String())
	}
	if p.session.Status() != litquiz.StatusIdle {
		t.Fatalf("expected session to stay idle, got %s", p.session.Status())
	}
}

func TestPlayerStopsAtEndOfInput(t *testing.T) {
	p, _ := newTestPlayer("a\n", func(ctx context.Context) (*litquiz.Quiz, error) {
		return testQuiz(3), nil
	})
	if err := p.run(context.Background(), litquiz.ChapterRef{Name: "Test"}); err != nil {
		t.Fatalf("expected clean exit, got %v", err)
	}
	if p.session.CurrentIndex() != 1 {
		t.Fatalf("expected to stop on question 2, got %d", p.session.CurrentIndex())
	}
}

func TestChaptersCommand(t *testing.T) {
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetArgs([]string{"chapters"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("chapters failed: %v", err)
	}
	for _, want := range []string{"First Flight", "[poetry]", "ff_po1", "fp_10"} {
		if !strings.Contains(out.String(), want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out.String())
		}
	}
}

func TestGenerateRejectsBadKey(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"generate", "--config", t.TempDir() + "/none.yaml", "--chapter", "ff_p1", "--api-key", "sk-not-gemini"})

	err := cmd.Execute()
	if !errors.Is(err, litquiz.ErrInvalidCredential) {
		t.Fatalf("expected ErrInvalidCredential, got %v", err)
	}
}

func TestPlayerRejectsMalformedQuiz(t *testing.T) {
	p, _ := newTestPlayer("a\n", func(ctx context.Context) (*litquiz.Quiz, error) {
		quiz := testQuiz(1)
		quiz.Questions[0].Options = append(quiz.Questions[0].Options, "five", "six")
		return quiz, nil
	})
	err := p.run(context.Background(), litquiz.ChapterRef{Name: "Test"})
	if !errors.Is(err, litquiz.ErrMalformedQuestion) {
		t.Fatalf("expected ErrMalformedQuestion, got %v", err)
	}
}
