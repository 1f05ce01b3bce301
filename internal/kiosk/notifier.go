package kiosk

import (
	"fmt"
	"time"
)

// Notification timing.
const (
	EntranceDuration = 300 * time.Millisecond
	VisibleDuration  = 3000 * time.Millisecond
	ExitDuration     = 300 * time.Millisecond
	RedirectDelay    = 1500 * time.Millisecond
)

// Fixed user-facing texts.
const (
	MessageBadgeNotRecognized = "Badge not recognized"
	MessageConnectionError    = "Connection error, please scan again"
)

// Level classifies a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// Phase is the lifecycle stage of a displayed notification.
type Phase string

const (
	PhaseEntering Phase = "entering"
	PhaseVisible  Phase = "visible"
	PhaseExiting  Phase = "exiting"
)

// Notification is one message on the kiosk surface.
type Notification struct {
	ID    int
	Level Level
	Text  string
}

// Surface renders notifications and navigation for an operator.
type Surface interface {
	Show(n Notification)
	SetPhase(id int, phase Phase)
	Remove(id int)
	Navigate(url string)
	SetBadgeStatus(enabled bool)
}

// Scheduler runs f after d on the goroutine that owns the Notifier.
type Scheduler interface {
	After(d time.Duration, f func())
}

// Notifier turns scan results into timed notifications.
type Notifier struct {
	surface Surface
	sched   Scheduler
	nextID  int
}

// NewNotifier creates a notifier.
func NewNotifier(surface Surface, sched Scheduler) *Notifier {
	return &Notifier{surface: surface, sched: sched}
}

// Render displays the outcome of a relayed scan.
func (n *Notifier) Render(result ScanResult) {
	if !result.Success {
		text := result.Message
		if text == "" {
			text = MessageBadgeNotRecognized
		}
		n.notify(LevelError, text)
		return
	}

	welcome := "Welcome"
	if result.EmployeeName != "" {
		welcome = "Welcome, " + result.EmployeeName
	}
	n.notify(LevelSuccess, welcome)
	if result.Action != "" {
		n.notify(LevelInfo, fmt.Sprintf("Work order %s %s", result.WorkOrderNumber, result.Action.PastTense()))
	}
	if result.RedirectURL != "" {
		target := result.RedirectURL
		n.sched.After(RedirectDelay, func() { n.surface.Navigate(target) })
	}
}

// RenderTransportFailure displays the fixed relay failure message.
func (n *Notifier) RenderTransportFailure() {
	n.notify(LevelError, MessageConnectionError)
}

func (n *Notifier) notify(level Level, text string) {
	n.nextID++
	id := n.nextID
	n.surface.Show(Notification{ID: id, Level: level, Text: text})
	n.sched.After(EntranceDuration, func() {
		n.surface.SetPhase(id, PhaseVisible)
		n.sched.After(VisibleDuration, func() {
			n.surface.SetPhase(id, PhaseExiting)
			n.sched.After(ExitDuration, func() {
				n.surface.Remove(id)
			})
		})
	})
}
