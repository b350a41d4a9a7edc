package cli

import (
	"fmt"

	"github.com/lazypower/kinship/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "kinship",
	Short: "Personal relationship tracker with a closeness score",
	Long:  "Kinship keeps a local record of the people you care about and a closeness score that grows with logged interactions and decays with silence. Single Go binary, local SQLite.",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(remindCmd)
	rootCmd.AddCommand(rolloverCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

// openDB opens the database at the default path.
func openDB() (*store.DB, error) {
	path, err := store.DefaultDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve db path: %w", err)
	}
	db, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return db, nil
}
