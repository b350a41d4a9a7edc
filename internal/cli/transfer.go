package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/lazypower/kinship/internal/store"
	"github.com/spf13/cobra"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all people as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		people, err := db.ListPeople("name")
		if err != nil {
			return fmt.Errorf("list people: %w", err)
		}
		if people == nil {
			people = []store.Person{}
		}

		out := os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				return fmt.Errorf("create %s: %w", exportOut, err)
			}
			defer f.Close()
			out = f
		}

		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(people); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		if exportOut != "" {
			fmt.Fprintf(os.Stderr, "exported %d people to %s\n", len(people), exportOut)
		}
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all people from a JSON export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}

		var people []store.Person
		if err := json.Unmarshal(raw, &people); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.ReplaceAllPeople(people); err != nil {
			return fmt.Errorf("import: %w", err)
		}

		fmt.Printf("imported %d people\n", len(people))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to file instead of stdout")
}
