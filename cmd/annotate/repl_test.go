package main

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"video-annotate/pkg/annotate"
	"video-annotate/pkg/kv"
	"video-annotate/pkg/player"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRemote struct {
	mu      sync.Mutex
	shared  []annotate.Annotation
	senders []string
}

func (s *stubRemote) Matching(context.Context, string) ([]annotate.RemoteAnnotation, error) {
	return nil, nil
}

func (s *stubRemote) Delete(context.Context, string) error { return nil }

func (s *stubRemote) Share(ctx context.Context, _ string, a annotate.Annotation, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sender, _ := annotate.UserFromContext(ctx)
	s.shared = append(s.shared, a)
	s.senders = append(s.senders, sender)
	return nil
}

func newTestRepl(t *testing.T) (*repl, *stubRemote, *bytes.Buffer) {
	t.Helper()
	color.NoColor = true

	out := &bytes.Buffer{}
	store := annotate.NewStore(kv.NewMemoryStore())
	remote := &stubRemote{}
	clock := player.NewClock("videoA", 120)
	session := annotate.NewSession(store, remote, nil, clock, newTerminalView(out), nil, 0)
	t.Cleanup(session.Close)
	require.NoError(t, session.SignIn(context.Background(), "alice"))

	return &repl{session: session, clock: clock, store: store, out: out}, remote, out
}

func TestReplNoteAtSeekPosition(t *testing.T) {
	r, _, out := newTestRepl(t)
	ctx := context.Background()

	require.NoError(t, r.execute(ctx, "seek 12.5"))
	require.NoError(t, r.execute(ctx, "note   the twist"))

	entry, err := r.store.ReadResource(ctx, "videoA")
	require.NoError(t, err)
	assert.Equal(t, []annotate.Annotation{{Content: "the twist", Time: 12.5}}, entry)
	assert.Contains(t, out.String(), "[0:12.5] the twist")
}

func TestReplShare(t *testing.T) {
	r, remote, out := newTestRepl(t)
	ctx := context.Background()

	require.NoError(t, r.execute(ctx, "note first"))
	require.NoError(t, r.execute(ctx, "seek 3"))
	require.NoError(t, r.execute(ctx, "note second"))
	require.NoError(t, r.execute(ctx, "share bob"))

	assert.Len(t, remote.shared, 2)
	assert.Contains(t, out.String(), "Shared 2 annotation(s) with bob")
}

func TestReplShareAfterSwitchingUser(t *testing.T) {
	r, remote, _ := newTestRepl(t)
	ctx := context.Background()

	require.NoError(t, r.execute(ctx, "note hello"))
	require.NoError(t, r.execute(ctx, "signin bob"))
	require.NoError(t, r.execute(ctx, "share carol"))

	assert.Equal(t, []string{"bob"}, remote.senders)
}

func TestReplOpenSwitchesVideo(t *testing.T) {
	r, _, out := newTestRepl(t)
	ctx := context.Background()

	require.NoError(t, r.execute(ctx, "open videoB 300"))
	require.NoError(t, r.execute(ctx, "note on b"))

	entry, err := r.store.ReadResource(ctx, "videoB")
	require.NoError(t, err)
	assert.Len(t, entry, 1)
	assert.Equal(t, "videoB", r.clock.CurrentURL())
	assert.Contains(t, out.String(), "videoB (1)")
}

func TestReplErrors(t *testing.T) {
	r, _, _ := newTestRepl(t)
	ctx := context.Background()

	tests := []string{"note", "share", "seek soon", "seek -4", "open", "open videoC long", "dance"}
	for _, line := range tests {
		t.Run(line, func(t *testing.T) {
			assert.Error(t, r.execute(ctx, line))
		})
	}

	assert.NoError(t, r.execute(ctx, "   "))
	assert.ErrorIs(t, r.execute(ctx, "quit"), errQuit)
}

func TestReplSignOutBlocksNotes(t *testing.T) {
	r, _, out := newTestRepl(t)
	ctx := context.Background()

	require.NoError(t, r.execute(ctx, "signout"))
	assert.ErrorIs(t, r.execute(ctx, "note nope"), annotate.ErrSignedOut)

	require.NoError(t, r.execute(ctx, "status"))
	assert.Contains(t, out.String(), "(signed out)")
}
