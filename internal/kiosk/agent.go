package kiosk

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/mes-service/internal/domain"
)

// AgentConfig tunes the kiosk event loop.
type AgentConfig struct {
	MinScanLength      int
	ArmTimeout         time.Duration
	RelayTimeout       time.Duration
	StatusPollInterval time.Duration
}

// Agent is the kiosk event loop. Scans, arm commands, relay responses, timers
// and status polls all run as events on one goroutine, so the Session and the
// Notifier are never touched concurrently.
type Agent struct {
	cfg      AgentConfig
	relay    Relay
	surface  Surface
	session  *Session
	notifier *Notifier
	logger   *zap.Logger
	events   chan func()
	done     chan struct{}
	now      func() time.Time
}

// NewAgent wires a session and notifier around relay and surface.
func NewAgent(cfg AgentConfig, relay Relay, surface Surface, logger *zap.Logger) *Agent {
	if cfg.RelayTimeout <= 0 {
		cfg.RelayTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Agent{
		cfg:     cfg,
		relay:   relay,
		surface: surface,
		session: NewSession(cfg.MinScanLength, cfg.ArmTimeout),
		logger:  logger,
		events:  make(chan func(), 64),
		done:    make(chan struct{}),
		now:     time.Now,
	}
	a.notifier = NewNotifier(surface, loopScheduler{a})
	return a
}

// Run processes events until ctx is cancelled.
func (a *Agent) Run(ctx context.Context) error {
	defer close(a.done)

	expiry := time.NewTicker(time.Second)
	defer expiry.Stop()

	var poll <-chan time.Time
	if a.cfg.StatusPollInterval > 0 {
		ticker := time.NewTicker(a.cfg.StatusPollInterval)
		defer ticker.Stop()
		poll = ticker.C
	}
	a.checkStatus(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-a.events:
			fn()
		case now := <-expiry.C:
			if a.session.Expire(now) {
				a.logger.Info("armed action expired")
			}
		case <-poll:
			a.checkStatus(ctx)
		}
	}
}

// Scan submits a raw identifier read from the badge reader.
func (a *Agent) Scan(ctx context.Context, uid string) {
	a.post(func() { a.handleScan(ctx, uid) })
}

// Arm binds the next scan to an action on a work order.
func (a *Agent) Arm(workOrderID string, action domain.WorkOrderAction) {
	a.post(func() {
		a.session.Arm(workOrderID, action, a.now())
		a.logger.Info("action armed", zap.String("work_order", workOrderID), zap.String("action", string(action)))
	})
}

func (a *Agent) handleScan(ctx context.Context, uid string) {
	req, ok := a.session.Consume(uid)
	if !ok {
		a.logger.Debug("partial scan ignored", zap.Int("length", len(uid)))
		return
	}
	go func() {
		relayCtx, cancel := context.WithTimeout(ctx, a.cfg.RelayTimeout)
		defer cancel()
		result, err := a.relay.Scan(relayCtx, req)
		a.post(func() {
			if err != nil {
				a.logger.Warn("scan relay failed", zap.Error(err))
				a.notifier.RenderTransportFailure()
				return
			}
			a.notifier.Render(result)
		})
	}()
}

func (a *Agent) checkStatus(ctx context.Context) {
	go func() {
		statusCtx, cancel := context.WithTimeout(ctx, a.cfg.RelayTimeout)
		defer cancel()
		enabled := a.relay.Status(statusCtx)
		a.post(func() { a.surface.SetBadgeStatus(enabled) })
	}()
}

// post queues fn on the loop. Events posted after Run returned are dropped.
func (a *Agent) post(fn func()) {
	select {
	case a.events <- fn:
	case <-a.done:
	}
}

type loopScheduler struct{ a *Agent }

func (s loopScheduler) After(d time.Duration, f func()) {
	time.AfterFunc(d, func() { s.a.post(f) })
}
