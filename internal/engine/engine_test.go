package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/lazypower/kinship/internal/score"
	"github.com/lazypower/kinship/internal/store"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type recordingNotifier struct {
	titles []string
	bodies []string
}

func (n *recordingNotifier) Notify(title, body string) {
	n.titles = append(n.titles, title)
	n.bodies = append(n.bodies, body)
}

func testEngine(t *testing.T, now time.Time) (*Engine, *fakeClock, *recordingNotifier) {
	t.Helper()
	db, err := store.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clock := &fakeClock{now: now}
	notifier := &recordingNotifier{}
	eng := New(db, notifier)
	eng.Clock = clock
	return eng, clock, notifier
}

func localDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestCheckRolloverFirstRun(t *testing.T) {
	eng, _, _ := testEngine(t, localDay(2024, 2, 1))

	applied, err := eng.CheckRollover()
	if err != nil {
		t.Fatalf("CheckRollover: %v", err)
	}
	if applied {
		t.Error("first run should adopt today without a transition")
	}

	day, _ := eng.DB.GetState(store.StateActiveDay)
	if day != "2024-02-01" {
		t.Errorf("active day = %q, want 2024-02-01", day)
	}
}

func TestCheckRolloverSameDayNoop(t *testing.T) {
	eng, _, _ := testEngine(t, localDay(2024, 2, 1))

	eng.CheckRollover()
	applied, err := eng.CheckRollover()
	if err != nil {
		t.Fatalf("CheckRollover: %v", err)
	}
	if applied {
		t.Error("same day should be a no-op")
	}
}

func TestRolloverConvertsLedger(t *testing.T) {
	eng, clock, _ := testEngine(t, localDay(2024, 2, 1))
	eng.CheckRollover()

	p := store.Person{Name: "Aiko"} // score defaults to 20
	eng.DB.CreatePerson(&p)
	eng.DB.ToggleAction("2024-02-01", p.ID, store.ActionTalked, true)
	eng.DB.ToggleAction("2024-02-01", p.ID, store.ActionPlayed, true)

	clock.now = localDay(2024, 2, 2)
	applied, err := eng.CheckRollover()
	if err != nil {
		t.Fatalf("CheckRollover: %v", err)
	}
	if !applied {
		t.Fatal("expected transition to apply")
	}

	got, _ := eng.DB.GetPerson(p.ID)
	if got.FriendScore != 50 {
		t.Errorf("friendScore = %d, want 20+10+20 = 50", got.FriendScore)
	}
	if got.LastInteractionDate != "2024-02-01" {
		t.Errorf("lastInteractionDate = %q, want the day the actions happened", got.LastInteractionDate)
	}

	ledger, _ := eng.DB.LedgerFor("2024-02-01")
	if len(ledger) != 0 {
		t.Errorf("old ledger = %v, want cleared", ledger)
	}
	day, _ := eng.DB.GetState(store.StateActiveDay)
	if day != "2024-02-02" {
		t.Errorf("active day = %q, want 2024-02-02", day)
	}
}

func TestRolloverClampsAtHundred(t *testing.T) {
	eng, clock, _ := testEngine(t, localDay(2024, 2, 1))
	eng.CheckRollover()

	p := store.Person{Name: "Mina", FriendScore: 95}
	eng.DB.CreatePerson(&p)
	eng.DB.ToggleAction("2024-02-01", p.ID, store.ActionPlayed, true)

	clock.now = localDay(2024, 2, 2)
	eng.CheckRollover()

	got, _ := eng.DB.GetPerson(p.ID)
	if got.FriendScore != 100 {
		t.Errorf("friendScore = %d, want clamped 100", got.FriendScore)
	}
}

func TestRolloverIgnoresUntoggledRows(t *testing.T) {
	eng, clock, _ := testEngine(t, localDay(2024, 2, 1))
	eng.CheckRollover()

	p := store.Person{Name: "Ken", FriendScore: 20}
	eng.DB.CreatePerson(&p)
	// Toggled on, then off again: the row exists but all flags are false.
	eng.DB.ToggleAction("2024-02-01", p.ID, store.ActionCalled, true)
	eng.DB.ToggleAction("2024-02-01", p.ID, store.ActionCalled, false)

	clock.now = localDay(2024, 2, 2)
	if _, err := eng.CheckRollover(); err != nil {
		t.Fatalf("CheckRollover: %v", err)
	}

	got, _ := eng.DB.GetPerson(p.ID)
	if got.FriendScore != 20 {
		t.Errorf("friendScore = %d, want unchanged 20", got.FriendScore)
	}
	if got.LastInteractionDate != "" {
		t.Errorf("lastInteractionDate = %q, want untouched", got.LastInteractionDate)
	}
}

func TestRolloverSkipsDeletedPerson(t *testing.T) {
	eng, clock, _ := testEngine(t, localDay(2024, 2, 1))
	eng.CheckRollover()

	eng.DB.ToggleAction("2024-02-01", "ghost", store.ActionPlayed, true)

	clock.now = localDay(2024, 2, 2)
	applied, err := eng.CheckRollover()
	if err != nil {
		t.Fatalf("CheckRollover: %v", err)
	}
	if !applied {
		t.Error("transition should still apply")
	}
}

func TestRolloverMultiplePeople(t *testing.T) {
	eng, clock, _ := testEngine(t, localDay(2024, 2, 1))
	eng.CheckRollover()

	a := store.Person{Name: "A", FriendScore: 20}
	b := store.Person{Name: "B", FriendScore: 60}
	eng.DB.CreatePerson(&a)
	eng.DB.CreatePerson(&b)
	eng.DB.ToggleAction("2024-02-01", a.ID, store.ActionCalled, true)
	eng.DB.ToggleAction("2024-02-01", b.ID, store.ActionTalked, true)

	clock.now = localDay(2024, 2, 2)
	eng.CheckRollover()

	gotA, _ := eng.DB.GetPerson(a.ID)
	gotB, _ := eng.DB.GetPerson(b.ID)
	if gotA.FriendScore != 25 {
		t.Errorf("A = %d, want 25", gotA.FriendScore)
	}
	if gotB.FriendScore != 70 {
		t.Errorf("B = %d, want 70", gotB.FriendScore)
	}
}

func TestDecayAll(t *testing.T) {
	now := localDay(2024, 6, 10)
	eng, _, _ := testEngine(t, now)

	// 19 days quiet: 5 past grace.
	stale := store.Person{Name: "Stale", FriendScore: 40, LastInteractionDate: "2024-05-22"}
	// Within grace: untouched.
	fresh := store.Person{Name: "Fresh", FriendScore: 40, LastInteractionDate: score.DayKey(now.AddDate(0, 0, -3))}
	// Unparseable date: skipped for decay.
	broken := store.Person{Name: "Broken", FriendScore: 40, LastInteractionDate: "junk"}
	eng.DB.CreatePerson(&stale)
	eng.DB.CreatePerson(&fresh)
	eng.DB.CreatePerson(&broken)

	updated, err := eng.DecayAll()
	if err != nil {
		t.Fatalf("DecayAll: %v", err)
	}
	if updated != 1 {
		t.Errorf("updated = %d, want 1", updated)
	}

	got, _ := eng.DB.GetPerson(stale.ID)
	if got.FriendScore != 35 {
		t.Errorf("stale = %d, want 35", got.FriendScore)
	}
	got, _ = eng.DB.GetPerson(fresh.ID)
	if got.FriendScore != 40 {
		t.Errorf("fresh = %d, want unchanged 40", got.FriendScore)
	}
	got, _ = eng.DB.GetPerson(broken.ID)
	if got.FriendScore != 40 {
		t.Errorf("broken = %d, want unchanged 40", got.FriendScore)
	}
}

func TestDecayAllPersistsFloor(t *testing.T) {
	eng, _, _ := testEngine(t, localDay(2024, 6, 10))

	p := store.Person{Name: "High", FriendScore: 95}
	eng.DB.CreatePerson(&p)

	if _, err := eng.DecayAll(); err != nil {
		t.Fatalf("DecayAll: %v", err)
	}

	got, _ := eng.DB.GetPerson(p.ID)
	if got.Floor != 70 {
		t.Errorf("floor = %d, want 70 persisted", got.Floor)
	}
	if got.FriendScore != 95 {
		t.Errorf("friendScore = %d, want unchanged with no interaction date", got.FriendScore)
	}
}

func TestScanReminders(t *testing.T) {
	now := localDay(2024, 6, 10)
	eng, _, _ := testEngine(t, now)

	soon := store.Person{Name: "Haruto", Birthday: "1994-06-13"}
	quiet := store.Person{Name: "Mina", LastInteractionDate: "2024-05-16"}
	fine := store.Person{Name: "Ken", Birthday: "1990-12-25", LastInteractionDate: score.DayKey(now.AddDate(0, 0, -2))}
	badDates := store.Person{Name: "Sora", Birthday: "junk", LastInteractionDate: "junk"}
	eng.DB.CreatePerson(&soon)
	eng.DB.CreatePerson(&quiet)
	eng.DB.CreatePerson(&fine)
	eng.DB.CreatePerson(&badDates)

	msgs := eng.ScanReminders(now)
	if len(msgs) != 2 {
		t.Fatalf("msgs = %v, want 2", msgs)
	}

	batch := strings.Join(msgs, "\n")
	if !strings.Contains(batch, "Haruto") || !strings.Contains(batch, "3 days") {
		t.Errorf("missing birthday message: %v", msgs)
	}
	if !strings.Contains(batch, "Mina") || !strings.Contains(batch, "25 days") {
		t.Errorf("missing staleness message: %v", msgs)
	}
}

func TestScanRemindersBirthdayWindow(t *testing.T) {
	now := localDay(2024, 6, 10)
	eng, _, _ := testEngine(t, now)

	past := store.Person{Name: "Past", Birthday: "1990-06-09"}       // yesterday
	edge := store.Person{Name: "Edge", Birthday: "1990-06-17"}       // exactly 7 days
	beyond := store.Person{Name: "Beyond", Birthday: "1990-06-18"}   // 8 days
	today := store.Person{Name: "Today", Birthday: "1990-06-10"}     // 0 days
	eng.DB.CreatePerson(&past)
	eng.DB.CreatePerson(&edge)
	eng.DB.CreatePerson(&beyond)
	eng.DB.CreatePerson(&today)

	batch := strings.Join(eng.ScanReminders(now), "\n")
	if strings.Contains(batch, "Past") {
		t.Error("yesterday's birthday should not fire")
	}
	if !strings.Contains(batch, "Edge") {
		t.Error("a birthday exactly 7 days out should fire")
	}
	if strings.Contains(batch, "Beyond") {
		t.Error("a birthday 8 days out should not fire")
	}
	if !strings.Contains(batch, "Today") {
		t.Error("today's birthday should fire with 0 days")
	}
}

func TestRunRemindersOncePerDay(t *testing.T) {
	now := localDay(2024, 6, 10)
	eng, clock, notifier := testEngine(t, now)

	p := store.Person{Name: "Mina", LastInteractionDate: "2024-05-01"}
	eng.DB.CreatePerson(&p)

	if err := eng.RunReminders(); err != nil {
		t.Fatalf("RunReminders: %v", err)
	}
	if len(notifier.bodies) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifier.bodies))
	}

	// Same day again: the marker suppresses a second delivery.
	if err := eng.RunReminders(); err != nil {
		t.Fatalf("second RunReminders: %v", err)
	}
	if len(notifier.bodies) != 1 {
		t.Errorf("notifications = %d, want still 1", len(notifier.bodies))
	}

	// Next day: a fresh scan fires again.
	clock.now = localDay(2024, 6, 11)
	if err := eng.RunReminders(); err != nil {
		t.Fatalf("next-day RunReminders: %v", err)
	}
	if len(notifier.bodies) != 2 {
		t.Errorf("notifications = %d, want 2", len(notifier.bodies))
	}
}

func TestRunRemindersMarksEvenWhenQuiet(t *testing.T) {
	now := localDay(2024, 6, 10)
	eng, _, notifier := testEngine(t, now)

	if err := eng.RunReminders(); err != nil {
		t.Fatalf("RunReminders: %v", err)
	}
	if len(notifier.bodies) != 0 {
		t.Errorf("notifications = %d, want 0 with nothing to say", len(notifier.bodies))
	}

	marker, _ := eng.DB.GetState(store.StateLastReminderCheck)
	if marker != "2024-06-10" {
		t.Errorf("marker = %q, want set even with an empty batch", marker)
	}
}
