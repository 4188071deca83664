package main

import (
	"fmt"
	"io"

	"litquiz"

	"github.com/spf13/cobra"
)

func newChaptersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chapters",
		Short: "List the chapters quizzes can be generated for",
		RunE: func(cmd *cobra.Command, args []string) error {
			printChapters(cmd.OutOrStdout())
			return nil
		},
	}
}

func printChapters(out io.Writer) {
	for _, collection := range litquiz.AllChapters() {
		fmt.Fprintf(out, "📚 %s\n", collection.Name)
		section := ""
		for _, ch := range collection.Chapters {
			if ch.Section != section {
				section = ch.Section
				fmt.Fprintf(out, "  [%s]\n", section)
			}
			fmt.Fprintf(out, "    %-8s %s\n", ch.ID, ch.Name)
		}
		fmt.Fprintln(out)
	}
}
