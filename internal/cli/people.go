package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/lazypower/kinship/internal/store"
	"github.com/spf13/cobra"
)

var listSort string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List people with their closeness scores",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		people, err := db.ListPeople(listSort)
		if err != nil {
			return fmt.Errorf("list people: %w", err)
		}
		if len(people) == 0 {
			fmt.Fprintln(os.Stderr, "no people yet; try: kinship add <name>")
			return nil
		}

		for _, p := range people {
			last := p.LastInteractionDate
			if last == "" {
				last = "never"
			}
			fmt.Printf("%-20s %s %3d (floor %d)  last: %s\n",
				p.Name, hearts(p.FriendScore), p.FriendScore, p.Floor, last)
		}
		return nil
	},
}

// hearts renders a score as ten hearts, one filled per ten points.
func hearts(friendScore int) string {
	filled := (friendScore + 5) / 10
	if filled > 10 {
		filled = 10
	}
	var b strings.Builder
	for i := 0; i < 10; i++ {
		if i < filled {
			b.WriteString("♥")
		} else {
			b.WriteString("♡")
		}
	}
	return b.String()
}

var (
	addBirthday string
	addNickname string
	addTags     []string
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a person",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		p := store.Person{
			Name:         args[0],
			Birthday:     addBirthday,
			Nickname:     addNickname,
			RelationTags: addTags,
		}
		if err := db.CreatePerson(&p); err != nil {
			return fmt.Errorf("add person: %w", err)
		}

		fmt.Printf("added %s (%s), score %d\n", p.Name, p.ID, p.FriendScore)
		return nil
	},
}

func init() {
	listCmd.Flags().StringVarP(&listSort, "sort", "s", "", "Sort: last_interaction (default), score, name")
	addCmd.Flags().StringVarP(&addBirthday, "birthday", "b", "", "Birthday (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addNickname, "nickname", "", "Nickname")
	addCmd.Flags().StringSliceVarP(&addTags, "tag", "t", nil, "Relationship tags")
}

// findPerson resolves an argument to a person by ID, exact name, or
// unique name prefix.
func findPerson(db *store.DB, arg string) (*store.Person, error) {
	if p, err := db.GetPerson(arg); err != nil {
		return nil, err
	} else if p != nil {
		return p, nil
	}

	people, err := db.ListPeople("name")
	if err != nil {
		return nil, err
	}

	var matches []store.Person
	for _, p := range people {
		if p.Name == arg {
			return &p, nil
		}
		if strings.HasPrefix(strings.ToLower(p.Name), strings.ToLower(arg)) {
			matches = append(matches, p)
		}
	}
	switch len(matches) {
	case 1:
		return &matches[0], nil
	case 0:
		return nil, fmt.Errorf("no person matching %q", arg)
	default:
		return nil, fmt.Errorf("%q is ambiguous (%d matches)", arg, len(matches))
	}
}
