package kiosk

import (
	"context"
	"sort"
	"sync"
	"time"
)

type fakeTimer struct {
	at  time.Duration
	seq int
	f   func()
}

// fakeScheduler runs callbacks when Advance moves its virtual clock past them.
type fakeScheduler struct {
	now    time.Duration
	seq    int
	timers []fakeTimer
}

func (s *fakeScheduler) After(d time.Duration, f func()) {
	s.seq++
	s.timers = append(s.timers, fakeTimer{at: s.now + d, seq: s.seq, f: f})
}

func (s *fakeScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		sort.Slice(s.timers, func(i, j int) bool {
			if s.timers[i].at != s.timers[j].at {
				return s.timers[i].at < s.timers[j].at
			}
			return s.timers[i].seq < s.timers[j].seq
		})
		if len(s.timers) == 0 || s.timers[0].at > target {
			break
		}
		next := s.timers[0]
		s.timers = s.timers[1:]
		s.now = next.at
		next.f()
	}
	s.now = target
}

type surfaceEvent struct {
	kind  string
	id    int
	level Level
	text  string
	at    time.Duration
}

// recordingSurface stores every surface call. clock may be nil.
type recordingSurface struct {
	mu      sync.Mutex
	clock   *fakeScheduler
	events  []surfaceEvent
	changed chan struct{}
}

func newRecordingSurface(clock *fakeScheduler) *recordingSurface {
	return &recordingSurface{clock: clock, changed: make(chan struct{}, 128)}
}

func (r *recordingSurface) record(e surfaceEvent) {
	r.mu.Lock()
	if r.clock != nil {
		e.at = r.clock.now
	}
	r.events = append(r.events, e)
	r.mu.Unlock()
	select {
	case r.changed <- struct{}{}:
	default:
	}
}

func (r *recordingSurface) Show(n Notification) {
	r.record(surfaceEvent{kind: "show", id: n.ID, level: n.Level, text: n.Text})
}

func (r *recordingSurface) SetPhase(id int, phase Phase) {
	r.record(surfaceEvent{kind: "phase:" + string(phase), id: id})
}

func (r *recordingSurface) Remove(id int) {
	r.record(surfaceEvent{kind: "remove", id: id})
}

func (r *recordingSurface) Navigate(url string) {
	r.record(surfaceEvent{kind: "navigate", text: url})
}

func (r *recordingSurface) SetBadgeStatus(enabled bool) {
	state := "disabled"
	if enabled {
		state = "enabled"
	}
	r.record(surfaceEvent{kind: "status", text: state})
}

func (r *recordingSurface) ofKind(kind string) []surfaceEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []surfaceEvent
	for _, e := range r.events {
		if e.kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// fakeRelay records requests and answers from a scripted function.
type fakeRelay struct {
	mu       sync.Mutex
	requests []RelayRequest
	respond  func(RelayRequest) (ScanResult, error)
	enabled  bool
}

func (f *fakeRelay) Scan(_ context.Context, req RelayRequest) (ScanResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	respond := f.respond
	f.mu.Unlock()
	if respond == nil {
		return ScanResult{Success: true}, nil
	}
	return respond(req)
}

func (f *fakeRelay) Status(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled
}

func (f *fakeRelay) sent() []RelayRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RelayRequest(nil), f.requests...)
}
