package kiosk

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spec-kit/mes-service/internal/domain"
)

// DefaultMinScanLength is the shortest identifier treated as a full scan.
const DefaultMinScanLength = 8

// RelayRequest is the body posted to the scan endpoint.
type RelayRequest struct {
	UID         string `json:"uid"`
	WorkOrderID string `json:"workOrderId,omitempty"`
	Action      string `json:"action,omitempty"`
}

type scanContext struct {
	workOrderID string
	action      domain.WorkOrderAction
	armedAt     time.Time
}

// Session holds the single pending work order action of a kiosk. It is owned
// by one goroutine and is not safe for concurrent use.
type Session struct {
	minLength  int
	armTimeout time.Duration
	pending    *scanContext
}

// NewSession creates an empty session. A non-positive minLength falls back to
// DefaultMinScanLength; a non-positive armTimeout never expires.
func NewSession(minLength int, armTimeout time.Duration) *Session {
	if minLength <= 0 {
		minLength = DefaultMinScanLength
	}
	return &Session{minLength: minLength, armTimeout: armTimeout}
}

// Arm binds the next scan to action on workOrderID, replacing any pending one.
func (s *Session) Arm(workOrderID string, action domain.WorkOrderAction, now time.Time) {
	s.pending = &scanContext{workOrderID: workOrderID, action: action, armedAt: now}
}

// Armed reports the pending work order action, if any.
func (s *Session) Armed() (workOrderID string, action domain.WorkOrderAction, ok bool) {
	if s.pending == nil {
		return "", "", false
	}
	return s.pending.workOrderID, s.pending.action, true
}

// Consume turns a scanned identifier into a relay request. Identifiers shorter
// than the minimum are partial reader input: they are ignored and leave the
// pending action in place. Otherwise the pending action is captured and
// cleared before the request is returned.
func (s *Session) Consume(uid string) (RelayRequest, bool) {
	uid = strings.TrimSpace(uid)
	if utf8.RuneCountInString(uid) < s.minLength {
		return RelayRequest{}, false
	}
	req := RelayRequest{UID: uid}
	if s.pending != nil {
		req.WorkOrderID = s.pending.workOrderID
		req.Action = string(s.pending.action)
		s.pending = nil
	}
	return req, true
}

// Expire clears a pending action armed longer than the arm timeout ago and
// reports whether it did.
func (s *Session) Expire(now time.Time) bool {
	if s.pending == nil || s.armTimeout <= 0 {
		return false
	}
	if now.Sub(s.pending.armedAt) < s.armTimeout {
		return false
	}
	s.pending = nil
	return true
}
