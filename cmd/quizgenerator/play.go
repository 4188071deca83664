package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"litquiz"

	"github.com/spf13/cobra"
)

const optionLetters = "ABCD"

func newPlayCmd() *cobra.Command {
	var (
		chapterID    string
		numQuestions int
	)

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a chapter quiz interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			chapter, ok := litquiz.ChapterInfo(chapterID)
			if !ok {
				printChapters(cmd.OutOrStdout())
				return fmt.Errorf("%w: %q", litquiz.ErrUnknownChapter, chapterID)
			}
			credential, err := credentialFor(cfg.Generation.Provider)
			if err != nil {
				return err
			}
			if numQuestions == 0 {
				numQuestions = cfg.Generation.QuestionCount
			}

			generate, closeSource, err := newQuizSource(cfg)
			if err != nil {
				return err
			}
			defer closeSource()

			p := &player{
				in:      bufio.NewScanner(cmd.InOrStdin()),
				out:     cmd.OutOrStdout(),
				session: litquiz.NewSession(),
				source: func(ctx context.Context) (*litquiz.Quiz, error) {
					ctx, cancel := context.WithTimeout(ctx, cfg.GenerationTimeout())
					defer cancel()
					return generate(ctx, litquiz.QuizRequest{
						ChapterID:     chapter.ID,
						Credential:    credential,
						QuestionCount: numQuestions,
					})
				},
			}
			return p.run(cmd.Context(), chapter)
		},
	}

	cmd.Flags().StringVar(&chapterID, "chapter", "", "Chapter ID (see the chapters command)")
	cmd.Flags().IntVar(&numQuestions, "questions", 0, "Number of questions to generate (default from config)")
	addGenerationFlags(cmd)
	return cmd
}

// player runs one user through quizzes on the terminal
type player struct {
	in      *bufio.Scanner
	out     io.Writer
	session *litquiz.Session
	source  func(ctx context.Context) (*litquiz.Quiz, error)
}

var errQuit = errors.New("quit")

// run plays quizzes for the chapter until the user declines a retry or
// input ends.
func (p *player) run(ctx context.Context, chapter litquiz.ChapterRef) error {
	for {
		fmt.Fprintf(p.out, "🎯 %s (%s)\n", chapter.Name, chapter.Collection)
		fmt.Fprintln(p.out, "⏳ Generating questions... (this may take a moment)")
		fmt.Fprintln(p.out)

		quiz, err := p.source(ctx)
		if err != nil {
			log.Printf("Failed to generate quiz: %v", err)
			fmt.Fprintf(p.out, "❌ %s\n", litquiz.GenerationFailedMessage)
		} else if err := p.session.Start(quiz); err != nil {
			return err
		} else {
			if err := p.playQuestions(); err != nil {
				if errors.Is(err, errQuit) {
					return nil
				}
				return err
			}
			p.showResults()
		}

		if !p.confirm("Try again with new questions? (y/N): ") {
			return nil
		}
		p.session.Reset()
	}
}

func (p *player) playQuestions() error {
	for p.session.Status() == litquiz.StatusInProgress {
		q, _ := p.session.CurrentQuestion()
		stats := p.session.Stats()

		fmt.Fprintf(p.out, "Question %d/%d   ✅ %d  ❌ %d  ⏭️ %d\n",
			p.session.CurrentIndex()+1, p.session.Total(), stats.Correct, stats.Incorrect, stats.Skipped)
		fmt.Fprintf(p.out, "%s\n\n", q.Text)
		for i, option := range q.Options {
			fmt.Fprintf(p.out, "%c) %s\n", optionLetters[i], option)
		}
		fmt.Fprintln(p.out)

		choice, ok := p.prompt("Your answer (A/B/C/D, S to skip): ", func(s string) bool {
			return s == "S" || (len(s) == 1 && strings.Contains(optionLetters, s))
		})
		if !ok {
			return errQuit
		}

		if choice == "S" {
			if err := p.session.Skip(); err != nil {
				return err
			}
			fmt.Fprintf(p.out, "⏭️ Skipped. Keyword: %s\n", q.Keyword)
		} else {
			entry, err := p.session.Answer(strings.Index(optionLetters, choice))
			if err != nil {
				return err
			}
			p.showFeedback(entry)
		}

		if err := p.session.Advance(); err != nil {
			return err
		}
		fmt.Fprintln(p.out)
		fmt.Fprintln(p.out, strings.Repeat("─", 50))
		fmt.Fprintln(p.out)
	}
	return nil
}

func (p *player) showFeedback(entry litquiz.AnswerEntry) {
	if entry.IsCorrect {
		fmt.Fprintln(p.out, "✅ Correct!")
	} else {
		fmt.Fprintf(p.out, "❌ Incorrect. The correct answer is %c) %s\n",
			optionLetters[entry.Correct], entry.Options[entry.Correct])
	}
	fmt.Fprintf(p.out, "💡 Explanation: %s\n", entry.Explanation)
	fmt.Fprintf(p.out, "🔑 Keyword: %s\n", entry.Keyword)
}

func (p *player) showResults() {
	results, ok := p.session.Results()
	if !ok {
		return
	}

	fmt.Fprintf(p.out, "🎉 %s\n", results.Title)
	fmt.Fprintln(p.out, results.Subtitle)
	fmt.Fprintf(p.out, "\n📊 Score: %d/%d (%d%%)\n", results.Correct, results.Total, results.Percent)
	fmt.Fprintf(p.out, "   Correct: %d  Incorrect: %d  Skipped: %d\n", results.Correct, results.Incorrect, results.Skipped)

	if len(results.Keywords) > 0 {
		fmt.Fprintf(p.out, "\n🔑 Keywords to remember: %s\n", strings.Join(results.Keywords, ", "))
	}
	if len(results.Mistakes) > 0 {
		fmt.Fprintln(p.out, "\n📝 Review your mistakes:")
		for _, m := range results.Mistakes {
			fmt.Fprintf(p.out, "  Q%d. %s\n", m.QuestionIndex+1, m.Question)
			fmt.Fprintf(p.out, "      Your answer: %s\n", m.SelectedOption)
			fmt.Fprintf(p.out, "      Correct answer: %s\n", m.CorrectOption)
		}
	}
	fmt.Fprintln(p.out, "\n📚 Key takeaways:")
	for _, t := range results.Takeaways {
		fmt.Fprintf(p.out, "  • %s\n", t)
	}
	fmt.Fprintln(p.out)
}

// prompt reads lines until valid accepts one. It returns false when input ends.
func (p *player) prompt(text string, valid func(string) bool) (string, bool) {
	for {
		fmt.Fprint(p.out, text)
		if !p.in.Scan() {
			return "", false
		}
		answer := strings.ToUpper(strings.TrimSpace(p.in.Text()))
		if valid(answer) {
			return answer, true
		}
		fmt.Fprintln(p.out, "Please enter A, B, C, D or S")
	}
}

func (p *player) confirm(text string) bool {
	fmt.Fprint(p.out, text)
	if !p.in.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(p.in.Text()))
	return answer == "y" || answer == "yes"
}
