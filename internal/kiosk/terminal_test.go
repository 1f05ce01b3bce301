package kiosk

import (
	"bytes"
	"strings"
	"testing"
)

func TestTerminalSurface(t *testing.T) {
	var out bytes.Buffer
	term := NewTerminal(&out)

	term.Show(Notification{ID: 1, Level: LevelSuccess, Text: "Welcome, Jane"})
	term.SetBadgeStatus(true)
	term.SetBadgeStatus(true)
	term.Navigate("/dashboard/")
	if term.Live() != 1 {
		t.Fatalf("expected one live notification")
	}
	term.Remove(1)
	if term.Live() != 0 {
		t.Fatalf("notification not removed")
	}

	printed := out.String()
	if !strings.Contains(printed, "Welcome, Jane") || !strings.Contains(printed, "/dashboard/") {
		t.Fatalf("unexpected output %q", printed)
	}
	if strings.Count(printed, "badge login") != 1 {
		t.Fatalf("unchanged status printed twice: %q", printed)
	}
}
