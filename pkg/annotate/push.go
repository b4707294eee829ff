package annotate

import (
	"context"
	"fmt"
	"sync"
)

// Push channel event names.
const (
	PushReady    = "message"
	PushRefresh  = "refresh"
	PushRegister = "register"
)

// PushEvent is one frame on the notification channel.
type PushEvent struct {
	Event string `json:"event"`
	Data  string `json:"data,omitempty"`
}

// PushChannel is an open notification connection.
type PushChannel interface {
	// Receive blocks until the next event arrives or the channel fails.
	Receive(ctx context.Context) (PushEvent, error)
	// Register announces userName so the service routes refresh signals here.
	Register(ctx context.Context, userName string) error
	Close() error
}

// PushDialer opens notification connections.
type PushDialer interface {
	Dial(ctx context.Context) (PushChannel, error)
}

// RefreshFunc runs when the service signals new annotations for userName.
type RefreshFunc func(ctx context.Context, userName string)

// PushListener owns at most one notification channel at a time.
type PushListener struct {
	dialer    PushDialer
	onRefresh RefreshFunc
	logger    Logger

	mu      sync.Mutex
	gen     uint64
	channel PushChannel
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewPushListener(dialer PushDialer, onRefresh RefreshFunc, logger Logger) *PushListener {
	return &PushListener{dialer: dialer, onRefresh: onRefresh, logger: logger}
}

// Connect replaces any open channel with a new one bound to userName.
// A Close or another Connect issued while the dial is in flight wins: the
// freshly dialed channel is then closed instead of installed.
func (l *PushListener) Connect(ctx context.Context, userName string) error {
	return l.connect(ctx, userName, l.begin())
}

// begin invalidates every pending dial and returns the new generation.
func (l *PushListener) begin() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.gen++
	return l.gen
}

func (l *PushListener) connect(ctx context.Context, userName string, gen uint64) error {
	if !l.release(gen) {
		return nil
	}

	ch, err := l.dialer.Dial(ctx)
	if err != nil {
		return fmt.Errorf("%w: dial push channel: %v", ErrNetwork, err)
	}

	l.mu.Lock()
	if l.gen != gen {
		l.mu.Unlock()
		l.logger.Debug("PushListener", "Dropping superseded push channel", map[string]interface{}{"user": userName})
		_ = ch.Close()
		return nil
	}
	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	l.channel = ch
	l.cancel = cancel
	l.done = done
	l.mu.Unlock()

	l.logger.Info("PushListener", "Push channel connected", map[string]interface{}{"user": userName})
	go l.run(loopCtx, ch, userName, done)
	return nil
}

// Connected reports whether a channel is currently open.
func (l *PushListener) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.channel != nil
}

// Close tears down the open channel, if any, waits for its reader to exit
// and abandons any dial still in flight.
func (l *PushListener) Close() {
	l.release(l.begin())
}

// release shuts the open channel down while gen is still current. It reports
// false, touching nothing, once a later Connect or Close took over.
func (l *PushListener) release(gen uint64) bool {
	l.mu.Lock()
	if l.gen != gen {
		l.mu.Unlock()
		return false
	}
	ch, cancel, done := l.channel, l.cancel, l.done
	l.channel, l.cancel, l.done = nil, nil, nil
	l.mu.Unlock()

	if ch == nil {
		return true
	}
	cancel()
	if err := ch.Close(); err != nil {
		l.logger.Debug("PushListener", "Push channel close error", map[string]interface{}{"error": err.Error()})
	}
	<-done
	return true
}

func (l *PushListener) run(ctx context.Context, ch PushChannel, userName string, done chan struct{}) {
	defer close(done)

	for {
		ev, err := ch.Receive(ctx)
		if err != nil {
			if ctx.Err() == nil {
				l.logger.Warn("PushListener", "Push channel closed", map[string]interface{}{
					"user":  userName,
					"error": err.Error(),
				})
				l.detach(ch)
			}
			return
		}

		switch ev.Event {
		case PushReady:
			if err := ch.Register(ctx, userName); err != nil {
				l.logger.Warn("PushListener", "Failed to register user", map[string]interface{}{
					"user":  userName,
					"error": err.Error(),
				})
			}
		case PushRefresh:
			l.logger.Debug("PushListener", "Refresh signal received", map[string]interface{}{"user": userName})
			l.onRefresh(ctx, userName)
		default:
			l.logger.Debug("PushListener", "Ignoring push event", map[string]interface{}{"event": ev.Event})
		}
	}
}

// detach forgets ch after the remote end dropped it, so Connected reports false.
func (l *PushListener) detach(ch PushChannel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.channel != ch {
		return
	}
	l.cancel()
	_ = ch.Close()
	l.channel, l.cancel, l.done = nil, nil, nil
}
