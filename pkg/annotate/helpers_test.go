package annotate_test

import (
	"context"
	"errors"
	"sync"

	"video-annotate/pkg/annotate"
)

type mapKV struct {
	mu       sync.Mutex
	data     map[string][]byte
	sets     int
	failSets map[int]bool
}

func newMapKV() *mapKV {
	return &mapKV{data: make(map[string][]byte), failSets: make(map[int]bool)}
}

func (m *mapKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *mapKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.failSets[m.sets] {
		return errors.New("quota exceeded")
	}
	m.data[key] = append([]byte(nil), value...)
	return nil
}

type fakeRemote struct {
	mu        sync.Mutex
	matching  map[string][]annotate.RemoteAnnotation
	fetchErr  error
	fetches   []string
	deletes   []string
	deleteErr map[string]error
	shares    []sharedCall
	shareErr  error
	hang      bool
}

type sharedCall struct {
	URL        string
	Annotation annotate.Annotation
	Target     string
	SharedBy   string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		matching:  make(map[string][]annotate.RemoteAnnotation),
		deleteErr: make(map[string]error),
	}
}

func (f *fakeRemote) Matching(ctx context.Context, user string) ([]annotate.RemoteAnnotation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches = append(f.fetches, user)
	if f.hang {
		f.mu.Unlock()
		<-ctx.Done()
		f.mu.Lock()
		return nil, ctx.Err()
	}
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.matching[user], nil
}

func (f *fakeRemote) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return f.deleteErr[id]
}

func (f *fakeRemote) Share(ctx context.Context, url string, a annotate.Annotation, target string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.shareErr != nil {
		return f.shareErr
	}
	sharedBy, _ := annotate.UserFromContext(ctx)
	f.shares = append(f.shares, sharedCall{URL: url, Annotation: a, Target: target, SharedBy: sharedBy})
	return nil
}

func (f *fakeRemote) fetchCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.fetches...)
}

func (f *fakeRemote) deleteCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deletes...)
}

type fakeChannel struct {
	events     chan annotate.PushEvent
	closed     chan struct{}
	once       sync.Once
	mu         sync.Mutex
	registered []string
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{events: make(chan annotate.PushEvent, 8), closed: make(chan struct{})}
}

func (c *fakeChannel) Receive(ctx context.Context) (annotate.PushEvent, error) {
	select {
	case ev := <-c.events:
		return ev, nil
	case <-c.closed:
		return annotate.PushEvent{}, errors.New("channel closed")
	case <-ctx.Done():
		return annotate.PushEvent{}, ctx.Err()
	}
}

func (c *fakeChannel) Register(_ context.Context, user string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.registered = append(c.registered, user)
	return nil
}

func (c *fakeChannel) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeChannel) isClosed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

func (c *fakeChannel) registrations() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.registered...)
}

type fakeDialer struct {
	mu       sync.Mutex
	channels []*fakeChannel
	err      error
}

func (d *fakeDialer) Dial(context.Context) (annotate.PushChannel, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	ch := newFakeChannel()
	d.channels = append(d.channels, ch)
	return ch, nil
}

// gatedDialer blocks every Dial until release is closed.
type gatedDialer struct {
	fakeDialer
	entered chan struct{}
	release chan struct{}
}

func newGatedDialer() *gatedDialer {
	return &gatedDialer{entered: make(chan struct{}, 8), release: make(chan struct{})}
}

func (d *gatedDialer) Dial(ctx context.Context) (annotate.PushChannel, error) {
	d.entered <- struct{}{}
	select {
	case <-d.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return d.fakeDialer.Dial(ctx)
}

func (d *fakeDialer) all() []*fakeChannel {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*fakeChannel(nil), d.channels...)
}

func (d *fakeDialer) last() *fakeChannel {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.channels) == 0 {
		return nil
	}
	return d.channels[len(d.channels)-1]
}

type fakePlayer struct {
	mu       sync.Mutex
	url      string
	listener func(annotate.TimeUpdate)
	seeks    []float64
}

func (p *fakePlayer) CurrentURL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

func (p *fakePlayer) SubscribeTime(fn func(annotate.TimeUpdate)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.listener = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		p.listener = nil
	}
}

func (p *fakePlayer) Seek(seconds float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seeks = append(p.seeks, seconds)
	return nil
}

func (p *fakePlayer) tick(current, total float64) {
	p.mu.Lock()
	fn := p.listener
	p.mu.Unlock()
	if fn != nil {
		fn(annotate.TimeUpdate{CurrentTime: current, TotalTime: total})
	}
}

type recordingView struct {
	mu      sync.Mutex
	renders int
	url     string
	last    []annotate.Annotation
}

func (v *recordingView) Render(url string, annotations []annotate.Annotation) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.renders++
	v.url = url
	v.last = append([]annotate.Annotation(nil), annotations...)
}

func (v *recordingView) snapshot() (int, []annotate.Annotation) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renders, append([]annotate.Annotation(nil), v.last...)
}
