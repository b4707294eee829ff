// Package player provides a simulated playback clock that stands in for a
// host video player.
package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"video-annotate/pkg/annotate"
)

var ErrOutOfRange = errors.New("seek position out of range")

// Clock is a playable timeline bound to one resource URL at a time.
type Clock struct {
	mu       sync.Mutex
	url      string
	position float64
	duration float64
	playing  bool

	nextID     int
	timeSubs   map[int]func(annotate.TimeUpdate)
	navigation map[int]func(url string)
}

var _ annotate.Player = (*Clock)(nil)

// NewClock opens url paused at 0. duration is in seconds; zero means unknown
// (no upper bound on seek and playback never ends).
func NewClock(url string, duration float64) *Clock {
	return &Clock{
		url:        url,
		duration:   duration,
		timeSubs:   make(map[int]func(annotate.TimeUpdate)),
		navigation: make(map[int]func(string)),
	}
}

func (c *Clock) CurrentURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.url
}

func (c *Clock) Position() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *Clock) Playing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

func (c *Clock) Play() {
	c.mu.Lock()
	c.playing = true
	c.mu.Unlock()
}

func (c *Clock) Pause() {
	c.mu.Lock()
	c.playing = false
	c.mu.Unlock()
}

// SubscribeTime registers fn for time updates. Callbacks run on the goroutine
// that advanced the clock.
func (c *Clock) SubscribeTime(fn func(annotate.TimeUpdate)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.timeSubs[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.timeSubs, id)
			c.mu.Unlock()
		})
	}
}

// OnNavigate registers fn to run after the clock switches to another URL.
func (c *Clock) OnNavigate(fn func(url string)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.navigation[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.navigation, id)
		c.mu.Unlock()
	}
}

func (c *Clock) Seek(seconds float64) error {
	c.mu.Lock()
	if seconds < 0 || (c.duration > 0 && seconds > c.duration) {
		c.mu.Unlock()
		return fmt.Errorf("%w: %.2f", ErrOutOfRange, seconds)
	}
	c.position = seconds
	update, subs := c.snapshotLocked()
	c.mu.Unlock()

	emit(subs, update)
	return nil
}

// Navigate switches to url, paused at 0.
func (c *Clock) Navigate(url string, duration float64) {
	c.mu.Lock()
	c.url = url
	c.duration = duration
	c.position = 0
	c.playing = false
	update, subs := c.snapshotLocked()
	nav := make([]func(string), 0, len(c.navigation))
	for _, fn := range c.navigation {
		nav = append(nav, fn)
	}
	c.mu.Unlock()

	emit(subs, update)
	for _, fn := range nav {
		fn(url)
	}
}

// Advance moves a playing clock forward by d, stopping at the end, and
// notifies subscribers. A paused clock still notifies.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	if c.playing {
		c.position += d.Seconds()
		if c.duration > 0 && c.position >= c.duration {
			c.position = c.duration
			c.playing = false
		}
	}
	update, subs := c.snapshotLocked()
	c.mu.Unlock()

	emit(subs, update)
}

// Run advances the clock every tick until ctx is done, like a player's
// timeupdate event.
func (c *Clock) Run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Advance(tick)
		}
	}
}

func (c *Clock) snapshotLocked() (annotate.TimeUpdate, []func(annotate.TimeUpdate)) {
	subs := make([]func(annotate.TimeUpdate), 0, len(c.timeSubs))
	for _, fn := range c.timeSubs {
		subs = append(subs, fn)
	}
	return annotate.TimeUpdate{CurrentTime: c.position, TotalTime: c.duration}, subs
}

func emit(subs []func(annotate.TimeUpdate), update annotate.TimeUpdate) {
	for _, fn := range subs {
		fn(update)
	}
}
