package main

import (
	"fmt"

	"litquiz"

	"github.com/spf13/cobra"
)

func newImportContentCmd() *cobra.Command {
	var (
		inputFile string
		dbPath    string
	)

	cmd := &cobra.Command{
		Use:   "import-content",
		Short: "Load pre-extracted chapter content from JSON into SQLite",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if inputFile == "" {
				inputFile = cfg.Content.JSONPath
			}
			if dbPath == "" {
				dbPath = cfg.Content.DBPath
			}
			if dbPath == "" {
				return fmt.Errorf("no database path: set --db or content.db_path")
			}

			content, err := litquiz.ReadContentFile(inputFile)
			if err != nil {
				return err
			}

			db, err := litquiz.OpenContentDB(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.CreateTables(); err != nil {
				return err
			}
			imported, err := db.ImportContent(content)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d chapters from %s into %s\n", imported, len(content), inputFile, dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputFile, "input", "", "chapters_content.json to import (default from config)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database to write (default from config)")
	return cmd
}
