package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"litquiz"

	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var (
		chapterID    string
		numQuestions int
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a quiz for one chapter and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if chapterID == "" {
				return litquiz.ErrMissingChapterID
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

			litquiz.VerboseLog("Starting quiz generation for chapter: %s", chapterID)
			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.GenerationTimeout())
			defer cancel()

			quiz, err := generate(ctx, litquiz.QuizRequest{
				ChapterID:     chapterID,
				Credential:    credential,
				QuestionCount: numQuestions,
			})
			if err != nil {
				log.Printf("Failed to generate quiz: %v", err)
				return fmt.Errorf("%s", litquiz.GenerationFailedMessage)
			}

			output, err := json.MarshalIndent(quiz, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal quiz: %w", err)
			}

			if outputFile != "" {
				if err := os.WriteFile(outputFile, output, 0644); err != nil {
					return fmt.Errorf("failed to write output file: %w", err)
				}
				log.Printf("Quiz saved to: %s", outputFile)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(output))
			return nil
		},
	}

	cmd.Flags().StringVar(&chapterID, "chapter", "", "Chapter ID (see the chapters command)")
	cmd.Flags().IntVar(&numQuestions, "questions", 0, "Number of questions to generate (default from config)")
	cmd.Flags().StringVar(&outputFile, "output", "", "Output file for quiz JSON (default: stdout)")
	addGenerationFlags(cmd)
	return cmd
}
