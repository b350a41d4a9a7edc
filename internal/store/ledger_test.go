package store

import (
	"testing"
)

func TestToggleAction(t *testing.T) {
	db := testDB(t)

	if err := db.ToggleAction("2024-02-01", "p1", ActionCalled, true); err != nil {
		t.Fatalf("ToggleAction: %v", err)
	}

	ledger, err := db.LedgerFor("2024-02-01")
	if err != nil {
		t.Fatalf("LedgerFor: %v", err)
	}
	if !ledger["p1"].Called {
		t.Error("expected called=true")
	}
	if ledger["p1"].Talked || ledger["p1"].Played {
		t.Error("other flags should stay false")
	}
}

func TestToggleActionAccumulates(t *testing.T) {
	db := testDB(t)

	db.ToggleAction("2024-02-01", "p1", ActionCalled, true)
	db.ToggleAction("2024-02-01", "p1", ActionTalked, true)
	db.ToggleAction("2024-02-01", "p1", ActionPlayed, true)

	ledger, _ := db.LedgerFor("2024-02-01")
	a := ledger["p1"]
	if !a.Called || !a.Talked || !a.Played {
		t.Errorf("actions = %+v, want all set", a)
	}
}

func TestToggleActionOff(t *testing.T) {
	db := testDB(t)

	db.ToggleAction("2024-02-01", "p1", ActionTalked, true)
	db.ToggleAction("2024-02-01", "p1", ActionTalked, false)

	ledger, _ := db.LedgerFor("2024-02-01")
	if ledger["p1"].Talked {
		t.Error("expected talked=false after untoggle")
	}
}

func TestToggleActionUnknownField(t *testing.T) {
	db := testDB(t)

	if err := db.ToggleAction("2024-02-01", "p1", "hugged", true); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestLedgerForEmptyDay(t *testing.T) {
	db := testDB(t)

	ledger, err := db.LedgerFor("2024-02-01")
	if err != nil {
		t.Fatalf("LedgerFor: %v", err)
	}
	if len(ledger) != 0 {
		t.Errorf("ledger = %v, want empty", ledger)
	}
}

func TestLedgerDaysAreIndependent(t *testing.T) {
	db := testDB(t)

	db.ToggleAction("2024-02-01", "p1", ActionTalked, true)
	db.ToggleAction("2024-02-02", "p1", ActionPlayed, true)

	day1, _ := db.LedgerFor("2024-02-01")
	day2, _ := db.LedgerFor("2024-02-02")

	if !day1["p1"].Talked || day1["p1"].Played {
		t.Errorf("day1 = %+v", day1["p1"])
	}
	if !day2["p1"].Played || day2["p1"].Talked {
		t.Errorf("day2 = %+v", day2["p1"])
	}
}

func TestClearLedger(t *testing.T) {
	db := testDB(t)

	db.ToggleAction("2024-02-01", "p1", ActionTalked, true)
	db.ToggleAction("2024-02-02", "p2", ActionCalled, true)

	if err := db.ClearLedger("2024-02-01"); err != nil {
		t.Fatalf("ClearLedger: %v", err)
	}

	day1, _ := db.LedgerFor("2024-02-01")
	if len(day1) != 0 {
		t.Errorf("day1 = %v, want cleared", day1)
	}
	day2, _ := db.LedgerFor("2024-02-02")
	if len(day2) != 1 {
		t.Errorf("day2 = %v, want untouched", day2)
	}
}

func TestDayActionsAny(t *testing.T) {
	if (DayActions{}).Any() {
		t.Error("empty actions should not be Any")
	}
	if !(DayActions{Played: true}).Any() {
		t.Error("played should be Any")
	}
}
