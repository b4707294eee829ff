package annotate

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// SessionState is the lifecycle of a sign-in session.
type SessionState int

const (
	StateSignedOut SessionState = iota
	StateSigningIn
	StateActive
)

func (s SessionState) String() string {
	switch s {
	case StateSigningIn:
		return "signing_in"
	case StateActive:
		return "active"
	default:
		return "signed_out"
	}
}

// SyncReport summarizes one fetch-merge-acknowledge cycle.
type SyncReport struct {
	Fetched      int
	Appended     int
	Skipped      int
	MergeFailed  int
	Acknowledged int
	AckFailed    int
}

// Session is the sync controller: it owns the signed-in user and the push
// channel, and drives fetch-merge-acknowledge cycles against the remote.
type Session struct {
	store       *Store
	merger      *Merger
	sharer      *Sharer
	remote      Remote
	push        *PushListener
	player      Player
	view        View
	logger      Logger
	syncTimeout time.Duration

	mu          sync.RWMutex
	userName    string
	state       SessionState
	clock       TimeUpdate
	lastReport  SyncReport
	unsubscribe func()
}

// NewSession wires the engine. A nil dialer runs without a push channel and
// a zero syncTimeout disables the per-cycle deadline.
func NewSession(store *Store, remote Remote, dialer PushDialer, player Player, view View, logger Logger, syncTimeout time.Duration) *Session {
	if view == nil {
		view = nopView{}
	}
	if logger == nil {
		logger = nopLogger{}
	}

	s := &Session{
		store:       store,
		merger:      NewMerger(store),
		sharer:      NewSharer(store, remote, logger),
		remote:      remote,
		player:      player,
		view:        view,
		logger:      logger,
		syncTimeout: syncTimeout,
	}
	if dialer != nil {
		s.push = NewPushListener(dialer, s.handleRefresh, logger)
	}
	s.unsubscribe = player.SubscribeTime(s.onTime)
	return s
}

func (s *Session) UserName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userName
}

func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Clock returns the last time update received from the player.
func (s *Session) Clock() TimeUpdate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clock
}

// PushConnected reports whether the notification channel is open.
func (s *Session) PushConnected() bool {
	return s.push != nil && s.push.Connected()
}

// LastReport returns the outcome of the most recent sync cycle.
func (s *Session) LastReport() SyncReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastReport
}

func (s *Session) onTime(u TimeUpdate) {
	s.mu.Lock()
	s.clock = u
	s.mu.Unlock()
}

// SignIn makes userName the active user. Cached annotations are projected
// before any network call; then one sync cycle runs and the push channel opens.
// A failed cycle or dial is returned but leaves the user signed in.
func (s *Session) SignIn(ctx context.Context, userName string) error {
	if userName == "" {
		return fmt.Errorf("%w: empty user name", ErrSignedOut)
	}

	s.mu.Lock()
	s.userName = userName
	s.state = StateSigningIn
	s.mu.Unlock()

	s.logger.Info("Session", "Signing in", map[string]interface{}{"user": userName})

	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("Session", "Failed to project cached annotations", map[string]interface{}{"error": err.Error()})
	}

	_, syncErr := s.fetchMergeAcknowledge(ctx, userName)

	// Reserving the dial under s.mu orders it against SignOut, whose Close
	// then supersedes it.
	s.mu.Lock()
	if s.userName != userName {
		s.mu.Unlock()
		return syncErr
	}
	var gen uint64
	if s.push != nil {
		gen = s.push.begin()
	}
	s.mu.Unlock()

	var connectErr error
	if s.push != nil {
		connectErr = s.push.connect(ctx, userName, gen)
	}
	if connectErr != nil {
		s.logger.Warn("Session", "Push channel unavailable", map[string]interface{}{
			"user":  userName,
			"error": connectErr.Error(),
		})
	}

	s.mu.Lock()
	if s.userName == userName {
		s.state = StateActive
	}
	s.mu.Unlock()

	return errors.Join(syncErr, connectErr)
}

// SignOut clears the user and closes the push channel. Stored annotations are kept.
func (s *Session) SignOut() {
	s.mu.Lock()
	user := s.userName
	s.userName = ""
	s.state = StateSignedOut
	s.mu.Unlock()

	if s.push != nil {
		s.push.Close()
	}
	s.logger.Info("Session", "Signed out", map[string]interface{}{"user": user})
}

// Close signs out and stops listening to the player.
func (s *Session) Close() {
	s.SignOut()
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Sync runs one fetch-merge-acknowledge cycle for the signed-in user.
func (s *Session) Sync(ctx context.Context) (SyncReport, error) {
	user := s.UserName()
	if user == "" {
		return SyncReport{}, ErrSignedOut
	}
	return s.fetchMergeAcknowledge(ctx, user)
}

// Save stores content at the player's current time for the current URL.
func (s *Session) Save(ctx context.Context, content string) error {
	if s.UserName() == "" {
		return ErrSignedOut
	}
	url := s.player.CurrentURL()
	if err := s.merger.MergeLocal(ctx, url, content, s.Clock().CurrentTime); err != nil {
		s.logger.Error("Session", "Failed to save annotation", map[string]interface{}{"url": url, "error": err.Error()})
		return err
	}
	return s.Refresh(ctx)
}

// Share sends the current URL's annotations to targetUser.
// Each request carries the signed-in user (see WithUser) as the sender.
func (s *Session) Share(ctx context.Context, targetUser string) (int, error) {
	user := s.UserName()
	if user == "" {
		return 0, ErrSignedOut
	}
	if targetUser == "" {
		return 0, errors.New("share target user is required")
	}
	return s.sharer.ShareResource(WithUser(ctx, user), s.player.CurrentURL(), targetUser)
}

// Refresh projects the stored annotations of the current URL onto the view.
func (s *Session) Refresh(ctx context.Context) error {
	url := s.player.CurrentURL()
	annotations, err := s.store.ReadResource(ctx, url)
	if err != nil {
		return err
	}
	s.view.Render(url, annotations)
	return nil
}

// Seek moves the player to seconds.
func (s *Session) Seek(seconds float64) error {
	if seconds < 0 {
		return fmt.Errorf("seek target %v is negative", seconds)
	}
	return s.player.Seek(seconds)
}

func (s *Session) handleRefresh(ctx context.Context, userName string) {
	if s.UserName() != userName {
		return
	}
	if _, err := s.fetchMergeAcknowledge(ctx, userName); err != nil {
		s.logger.Warn("Session", "Push-triggered sync failed", map[string]interface{}{"user": userName, "error": err.Error()})
	}
}

func (s *Session) fetchMergeAcknowledge(ctx context.Context, userName string) (SyncReport, error) {
	var report SyncReport

	if s.syncTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.syncTimeout)
		defer cancel()
	}

	fetched, err := s.remote.Matching(ctx, userName)
	if err != nil {
		err = asNetworkError(err)
		s.logger.Error("Session", "Failed to fetch matching annotations", map[string]interface{}{"user": userName, "error": err.Error()})
		return report, fmt.Errorf("fetch matching annotations for %s: %w", userName, err)
	}
	report.Fetched = len(fetched)

	var (
		wg     sync.WaitGroup
		ackMu  sync.Mutex
		errs   []error
		ackErr []error
	)

	for _, a := range fetched {
		result, err := s.merger.MergeServerAnnotation(ctx, a)
		switch {
		case err != nil:
			report.MergeFailed++
			errs = append(errs, fmt.Errorf("merge %s: %w", a.ID, err))
			s.logger.Error("Session", "Failed to merge annotation", map[string]interface{}{"id": a.ID, "url": a.URL, "error": err.Error()})
		case result == MergeSkipped:
			report.Skipped++
		default:
			report.Appended++
		}

		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			err := s.remote.Delete(ctx, id)
			ackMu.Lock()
			defer ackMu.Unlock()
			if err != nil && !errors.Is(err, ErrNotFound) {
				report.AckFailed++
				ackErr = append(ackErr, fmt.Errorf("acknowledge %s: %w", id, err))
				s.logger.Warn("Session", "Failed to acknowledge annotation", map[string]interface{}{"id": id, "error": err.Error()})
				return
			}
			report.Acknowledged++
		}(a.ID)
	}

	if err := s.Refresh(ctx); err != nil {
		errs = append(errs, err)
	}

	wg.Wait()
	errs = append(errs, ackErr...)

	s.mu.Lock()
	s.lastReport = report
	s.mu.Unlock()

	s.logger.Info("Session", "Sync cycle finished", map[string]interface{}{
		"user":         userName,
		"fetched":      report.Fetched,
		"appended":     report.Appended,
		"skipped":      report.Skipped,
		"merge_failed": report.MergeFailed,
		"acknowledged": report.Acknowledged,
		"ack_failed":   report.AckFailed,
	})
	return report, errors.Join(errs...)
}

func asNetworkError(err error) error {
	if errors.Is(err, ErrNetwork) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}

type nopView struct{}

func (nopView) Render(string, []Annotation) {}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
