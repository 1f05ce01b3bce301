package kiosk

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/mes-service/internal/domain"
)

func startAgent(t *testing.T, relay *fakeRelay) (*Agent, *recordingSurface) {
	t.Helper()
	surface := newRecordingSurface(nil)
	agent := NewAgent(AgentConfig{MinScanLength: 8, ArmTimeout: 30 * time.Second, RelayTimeout: time.Second}, relay, surface, nil)
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- agent.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-errCh
	})
	return agent, surface
}

func waitFor(t *testing.T, surface *recordingSurface, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for !cond() {
		select {
		case <-surface.changed:
		case <-deadline:
			t.Fatalf("condition not met in time")
		}
	}
}

func TestAgentRelaysCompleteScansOnce(t *testing.T) {
	relay := &fakeRelay{respond: func(req RelayRequest) (ScanResult, error) {
		return ScanResult{Success: true, EmployeeName: "Jane", Action: domain.WorkOrderAction(req.Action), WorkOrderNumber: req.WorkOrderID}, nil
	}}
	agent, surface := startAgent(t, relay)
	ctx := context.Background()

	agent.Arm("WO-2024-001", domain.WorkOrderActionStart)
	agent.Scan(ctx, "ABC")
	agent.Scan(ctx, "ABCDEFGH")

	waitFor(t, surface, func() bool { return len(surface.ofKind("show")) == 2 })
	sent := relay.sent()
	if len(sent) != 1 {
		t.Fatalf("expected one relay call, got %+v", sent)
	}
	if sent[0] != (RelayRequest{UID: "ABCDEFGH", WorkOrderID: "WO-2024-001", Action: "start"}) {
		t.Fatalf("unexpected request %+v", sent[0])
	}
	shows := surface.ofKind("show")
	if !strings.Contains(shows[1].text, "WO-2024-001") || !strings.Contains(shows[1].text, "started") {
		t.Fatalf("unexpected action notification %q", shows[1].text)
	}
}

func TestAgentTransportFailure(t *testing.T) {
	relay := &fakeRelay{respond: func(RelayRequest) (ScanResult, error) {
		return ScanResult{}, ErrTransport
	}}
	agent, surface := startAgent(t, relay)

	agent.Scan(context.Background(), "12345678")

	waitFor(t, surface, func() bool { return len(surface.ofKind("show")) == 1 })
	show := surface.ofKind("show")[0]
	if show.level != LevelError || show.text != MessageConnectionError {
		t.Fatalf("unexpected notification %+v", show)
	}
}

func TestAgentInFlightRelayKeepsCapturedContext(t *testing.T) {
	release := make(chan struct{})
	relay := &fakeRelay{}
	relay.respond = func(req RelayRequest) (ScanResult, error) {
		if req.UID == "FIRST-SCAN" {
			<-release
		}
		return ScanResult{Success: true, EmployeeName: req.UID}, nil
	}
	agent, surface := startAgent(t, relay)
	ctx := context.Background()

	agent.Arm("WO-A", domain.WorkOrderActionStart)
	agent.Scan(ctx, "FIRST-SCAN")
	agent.Arm("WO-B", domain.WorkOrderActionPause)
	agent.Scan(ctx, "SECOND-SCAN")

	waitFor(t, surface, func() bool { return len(surface.ofKind("show")) == 1 })
	close(release)
	waitFor(t, surface, func() bool { return len(surface.ofKind("show")) == 2 })

	byUID := map[string]RelayRequest{}
	for _, req := range relay.sent() {
		byUID[req.UID] = req
	}
	if byUID["FIRST-SCAN"].WorkOrderID != "WO-A" || byUID["SECOND-SCAN"].WorkOrderID != "WO-B" {
		t.Fatalf("contexts mixed up: %+v", byUID)
	}
}

func TestAgentReportsBadgeStatus(t *testing.T) {
	relay := &fakeRelay{enabled: true}
	_, surface := startAgent(t, relay)
	waitFor(t, surface, func() bool { return len(surface.ofKind("status")) == 1 })
	if got := surface.ofKind("status")[0].text; got != "enabled" {
		t.Fatalf("unexpected status %q", got)
	}
}

func TestReadInputArmsAndScans(t *testing.T) {
	relay := &fakeRelay{}
	agent, surface := startAgent(t, relay)

	input := "arm WO-2024-0003 START\narm broken\n0400\n04005E6F7G8H\n"
	if err := ReadInput(context.Background(), strings.NewReader(input), agent); err != nil && !errors.Is(err, context.Canceled) {
		t.Fatalf("read input: %v", err)
	}

	waitFor(t, surface, func() bool { return len(surface.ofKind("show")) == 1 })
	sent := relay.sent()
	if len(sent) != 1 || sent[0] != (RelayRequest{UID: "04005E6F7G8H", WorkOrderID: "WO-2024-0003", Action: "start"}) {
		t.Fatalf("unexpected relays %+v", sent)
	}
}
