package server

import (
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"

	"video-annotate/internal/bootstrap"
	"video-annotate/internal/config"
	"video-annotate/pkg/annotate"
	"video-annotate/pkg/kv"
	"video-annotate/pkg/player"
	"video-annotate/pkg/push"
	"video-annotate/pkg/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) (string, *bootstrap.Container) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		App: config.AppConfig{
			Environment:        "test",
			LogFilePath:        filepath.Join(dir, "server.log"),
			PushLogFilePath:    filepath.Join(dir, "push.log"),
			CorsAllowedOrigins: "*",
		},
	}

	container := bootstrap.NewContainer(nil, cfg)
	require.NoError(t, container.NotificationService.Start())
	srv := New(cfg, container)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go srv.GetApp().Listener(ln)

	t.Cleanup(func() {
		_ = srv.Shutdown(context.Background())
		container.Close()
	})
	return ln.Addr().String(), container
}

func newClientSession(addr, user string, clock *player.Clock) (*annotate.Session, *annotate.Store) {
	store := annotate.NewStore(kv.NewMemoryStore())
	client := remote.NewClient("http://"+addr+"/api/annotation/v1", remote.WithSharedBy(user))
	dialer := push.NewDialer("ws://"+addr+"/api/ws", 2*time.Second)
	return annotate.NewSession(store, client, dialer, clock, nil, nil, 5*time.Second), store
}

func TestShareReachesSignedInRecipient(t *testing.T) {
	addr, container := startServer(t)
	ctx := context.Background()

	bobSession, bobStore := newClientSession(addr, "bob", player.NewClock("videoA", 0))
	defer bobSession.Close()
	require.NoError(t, bobSession.SignIn(ctx, "bob"))
	require.True(t, bobSession.PushConnected())
	require.Eventually(t, func() bool { return container.WebSocketHub.ClientCount("bob") == 1 }, 2*time.Second, 10*time.Millisecond)

	aliceClock := player.NewClock("videoA", 0)
	aliceSession, _ := newClientSession(addr, "alice", aliceClock)
	defer aliceSession.Close()
	require.NoError(t, aliceSession.SignIn(ctx, "alice"))

	require.NoError(t, aliceClock.Seek(4))
	require.NoError(t, aliceSession.Save(ctx, "look here"))
	require.NoError(t, aliceClock.Seek(9.5))
	require.NoError(t, aliceSession.Save(ctx, "and here"))

	sent, err := aliceSession.Share(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	// The push refresh makes bob pull both without calling Sync.
	require.Eventually(t, func() bool {
		entry, err := bobStore.ReadResource(ctx, "videoA")
		return err == nil && len(entry) == 2
	}, 5*time.Second, 20*time.Millisecond)

	entry, err := bobStore.ReadResource(ctx, "videoA")
	require.NoError(t, err)
	assert.ElementsMatch(t, []annotate.Annotation{{Content: "look here", Time: 4}, {Content: "and here", Time: 9.5}}, entry)

	// Everything bob pulled was acknowledged.
	require.Eventually(t, func() bool {
		report, err := bobSession.Sync(ctx)
		return err == nil && report.Fetched == 0
	}, 5*time.Second, 50*time.Millisecond)
}

func TestOfflineRecipientGetsSharesOnSignIn(t *testing.T) {
	addr, _ := startServer(t)
	ctx := context.Background()

	client := remote.NewClient("http://" + addr + "/api/annotation/v1")
	require.NoError(t, client.Share(ctx, "videoB", annotate.Annotation{Content: "queued", Time: 1}, "carol"))

	carol, store := newClientSession(addr, "carol", player.NewClock("videoB", 0))
	defer carol.Close()
	require.NoError(t, carol.SignIn(ctx, "carol"))

	entry, err := store.ReadResource(ctx, "videoB")
	require.NoError(t, err)
	assert.Equal(t, []annotate.Annotation{{Content: "queued", Time: 1}}, entry)
	assert.Equal(t, annotate.SyncReport{Fetched: 1, Appended: 1, Acknowledged: 1}, carol.LastReport())
}
