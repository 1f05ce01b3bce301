package kiosk

import (
	"strings"
	"testing"
	"time"

	"github.com/spec-kit/mes-service/internal/domain"
)

func TestConsumeIgnoresPartialScans(t *testing.T) {
	s := NewSession(8, 0)
	s.Arm("WO-2024-0003", domain.WorkOrderActionStart, time.Now())

	for n := 0; n < 8; n++ {
		if _, ok := s.Consume(strings.Repeat("A", n)); ok {
			t.Fatalf("scan of length %d relayed", n)
		}
		if _, _, armed := s.Armed(); !armed {
			t.Fatalf("scan of length %d cleared the armed action", n)
		}
	}
}

func TestConsumeCapturesAndClears(t *testing.T) {
	s := NewSession(8, 0)
	s.Arm("WO-2024-001", domain.WorkOrderActionStart, time.Now())

	req, ok := s.Consume("ABCDEFGH")
	if !ok {
		t.Fatalf("full scan ignored")
	}
	want := RelayRequest{UID: "ABCDEFGH", WorkOrderID: "WO-2024-001", Action: "start"}
	if req != want {
		t.Fatalf("unexpected request %+v", req)
	}
	if _, _, armed := s.Armed(); armed {
		t.Fatalf("armed action not cleared")
	}

	req, ok = s.Consume("12345678")
	if !ok || req != (RelayRequest{UID: "12345678"}) {
		t.Fatalf("expected plain login request, got %+v", req)
	}
}

func TestArmTwiceLastWins(t *testing.T) {
	s := NewSession(8, 0)
	now := time.Now()
	s.Arm("WO-2024-0003", domain.WorkOrderActionStart, now)
	s.Arm("WO-2024-0006", domain.WorkOrderActionStop, now)

	req, _ := s.Consume("04001A2B3C4D")
	if req.WorkOrderID != "WO-2024-0006" || req.Action != "stop" {
		t.Fatalf("expected second arm, got %+v", req)
	}
}

func TestConsumeTrimsReaderTerminator(t *testing.T) {
	s := NewSession(8, 0)
	req, ok := s.Consume("04001A2B3C4D\r\n")
	if !ok || req.UID != "04001A2B3C4D" {
		t.Fatalf("unexpected request %+v", req)
	}
	if _, ok := s.Consume("1234567\n"); ok {
		t.Fatalf("terminator counted towards length")
	}
}

func TestExpire(t *testing.T) {
	s := NewSession(8, 30*time.Second)
	armedAt := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	s.Arm("WO-2024-0003", domain.WorkOrderActionPause, armedAt)

	if s.Expire(armedAt.Add(29 * time.Second)) {
		t.Fatalf("expired early")
	}
	if !s.Expire(armedAt.Add(30 * time.Second)) {
		t.Fatalf("did not expire")
	}
	if _, _, armed := s.Armed(); armed {
		t.Fatalf("still armed after expiry")
	}
}

func TestConsumeCountsCharactersNotBytes(t *testing.T) {
	s := NewSession(8, 0)
	// Seven characters, fourteen bytes.
	if _, ok := s.Consume("ÄÖÜäöüß"); ok {
		t.Fatalf("seven character scan relayed")
	}
	req, ok := s.Consume("ÄÖÜäöüßé")
	if !ok || req.UID != "ÄÖÜäöüßé" {
		t.Fatalf("eight character scan not relayed: %+v %v", req, ok)
	}
}
