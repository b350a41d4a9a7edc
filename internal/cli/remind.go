package cli

import (
	"fmt"
	"time"

	"github.com/lazypower/kinship/internal/engine"
	"github.com/lazypower/kinship/internal/notify"
	"github.com/lazypower/kinship/internal/store"
	"github.com/spf13/cobra"
)

var remindDecay bool

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Print the current reminder batch",
	Long:  "Remind scans for birthdays within the next seven days and contacts quiet for three weeks or more. It prints the batch without consuming the once-per-day notification marker.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		eng := newEngine(db)
		if remindDecay {
			if updated, err := eng.DecayAll(); err != nil {
				return fmt.Errorf("decay: %w", err)
			} else if updated > 0 {
				fmt.Printf("decay: updated %d people\n", updated)
			}
		}

		msgs := eng.ScanReminders(time.Now())
		if len(msgs) == 0 {
			fmt.Println("nothing to remind")
			return nil
		}
		for _, m := range msgs {
			fmt.Println(m)
		}
		return nil
	},
}

// newEngine builds an engine on the system clock with log-only
// notifications, for one-shot CLI use.
func newEngine(db *store.DB) *engine.Engine {
	return engine.New(db, notify.Log{})
}

func init() {
	remindCmd.Flags().BoolVar(&remindDecay, "decay", false, "Apply elapsed-day decay before scanning")
}
