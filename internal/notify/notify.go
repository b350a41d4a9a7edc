// Package notify delivers best-effort local alerts. Delivery failures
// are swallowed; a missed reminder must never break the session.
package notify

import (
	"log"
	"os/exec"
)

// Notifier is the sink for reminder batches.
type Notifier interface {
	Notify(title, body string)
}

// Desktop sends notifications via notify-send when available and falls
// back to the process log when it is not.
type Desktop struct{}

// Notify implements Notifier. Errors from the desktop tool are logged
// and otherwise ignored.
func (Desktop) Notify(title, body string) {
	if title == "" && body == "" {
		return
	}
	path, err := exec.LookPath("notify-send")
	if err != nil {
		log.Printf("notify: %s: %s", title, body)
		return
	}
	if err := exec.Command(path, title, body).Run(); err != nil {
		log.Printf("notify: notify-send failed: %v", err)
		log.Printf("notify: %s: %s", title, body)
	}
}

// Log writes notifications to the process log. Used when no desktop
// environment is present and in tests.
type Log struct{}

func (Log) Notify(title, body string) {
	log.Printf("notify: %s: %s", title, body)
}
