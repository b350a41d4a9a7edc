package cli

import (
	"fmt"
	"time"

	"github.com/lazypower/kinship/internal/score"
	"github.com/lazypower/kinship/internal/store"
	"github.com/spf13/cobra"
)

var (
	logCalled bool
	logTalked bool
	logPlayed bool
)

var logCmd = &cobra.Command{
	Use:   "log <person>",
	Short: "Log today's interactions with a person",
	Long:  "Log records interaction flags in today's ledger. The score itself only moves at the day rollover, when the finished day's ledger is converted into score boosts.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !logCalled && !logTalked && !logPlayed {
			return fmt.Errorf("nothing to log: pass --called, --talked, or --played")
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		p, err := findPerson(db, args[0])
		if err != nil {
			return err
		}

		day := score.DayKey(time.Now())
		fields := map[string]bool{
			store.ActionCalled: logCalled,
			store.ActionTalked: logTalked,
			store.ActionPlayed: logPlayed,
		}
		for field, on := range fields {
			if !on {
				continue
			}
			if err := db.ToggleAction(day, p.ID, field, true); err != nil {
				return fmt.Errorf("log %s: %w", field, err)
			}
		}

		actions, err := db.LedgerFor(day)
		if err != nil {
			return err
		}
		fmt.Printf("logged for %s on %s: +%d at next rollover\n",
			p.Name, day, score.ActionDelta(actions[p.ID]))
		return nil
	},
}

var rolloverCmd = &cobra.Command{
	Use:   "rollover",
	Short: "Apply a pending day rollover now",
	Long:  "Rollover checks whether the calendar date has advanced past the active ledger day and, if so, converts that day's logged actions into score changes. Normally the serve poller does this on its own.",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		eng := newEngine(db)
		applied, err := eng.CheckRollover()
		if err != nil {
			return fmt.Errorf("rollover: %w", err)
		}
		if applied {
			fmt.Println("rollover applied")
		} else {
			fmt.Println("nothing to roll over")
		}
		return nil
	},
}

func init() {
	logCmd.Flags().BoolVar(&logCalled, "called", false, "Got in touch (+5)")
	logCmd.Flags().BoolVar(&logTalked, "talked", false, "Had a conversation (+10)")
	logCmd.Flags().BoolVar(&logPlayed, "played", false, "Spent time together (+20)")
}
