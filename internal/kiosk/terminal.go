package kiosk

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"go.uber.org/zap"

	"github.com/spec-kit/mes-service/internal/domain"
)

var levelColors = map[Level]text.Colors{
	LevelSuccess: {text.FgHiGreen, text.Bold},
	LevelInfo:    {text.FgHiCyan},
	LevelError:   {text.FgHiRed, text.Bold},
}

// Terminal is a Surface that prints to a text stream.
type Terminal struct {
	out     io.Writer
	live    map[int]Notification
	enabled *bool
}

// NewTerminal creates a terminal surface writing to out.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out, live: make(map[int]Notification)}
}

// Show implements Surface.
func (t *Terminal) Show(n Notification) {
	t.live[n.ID] = n
	label := levelColors[n.Level].Sprintf("%-7s", strings.ToUpper(string(n.Level)))
	fmt.Fprintf(t.out, "%s %s\n", label, n.Text)
}

// SetPhase implements Surface.
func (t *Terminal) SetPhase(int, Phase) {}

// Remove implements Surface.
func (t *Terminal) Remove(id int) {
	delete(t.live, id)
}

// Navigate implements Surface.
func (t *Terminal) Navigate(url string) {
	fmt.Fprintf(t.out, "%s %s\n", text.FgHiBlack.Sprint("OPEN   "), url)
}

// SetBadgeStatus implements Surface. Only changes are printed.
func (t *Terminal) SetBadgeStatus(enabled bool) {
	if t.enabled != nil && *t.enabled == enabled {
		return
	}
	t.enabled = &enabled
	state := text.FgHiRed.Sprint("disabled")
	if enabled {
		state = text.FgHiGreen.Sprint("enabled")
	}
	fmt.Fprintf(t.out, "badge login %s\n", state)
}

// Live returns the number of notifications still on screen.
func (t *Terminal) Live() int {
	return len(t.live)
}

// ReadInput feeds lines from r to the agent until r is exhausted or ctx is
// cancelled. "arm <work order> <start|pause|stop>" arms an action; any other
// line is a badge scan. Malformed arm commands are logged and skipped.
func ReadInput(ctx context.Context, r io.Reader, agent *Agent) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 || !strings.EqualFold(fields[0], "arm") {
			agent.Scan(ctx, line)
			continue
		}
		if len(fields) != 3 {
			agent.logger.Warn("usage: arm <work order> <start|pause|stop>")
			continue
		}
		action, ok := domain.ParseWorkOrderAction(strings.ToLower(fields[2]))
		if !ok {
			agent.logger.Warn("unknown action", zap.String("action", fields[2]))
			continue
		}
		agent.Arm(fields[1], action)
	}
	return scanner.Err()
}
