package handler

import (
	"context"
	"net"
	"net/http/httptest"
	"testing"
	"time"

	"video-annotate/internal/pkg/logger"
	internalWS "video-annotate/internal/websocket"
	"video-annotate/pkg/annotate"
	"video-annotate/pkg/push"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startPushServer(t *testing.T) (*internalWS.Hub, string) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	hub := internalWS.NewHub(nil, logger.NewNopLogger())
	go hub.Run(ctx)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	NewPushHandler(hub, logger.NewNopLogger()).RegisterRoutes(app.Group("/api"))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go app.Listener(ln)

	t.Cleanup(func() {
		_ = app.Shutdown()
		cancel()
	})
	return hub, "ws://" + ln.Addr().String() + "/api/ws"
}

func TestPushHandshakeAndRefresh(t *testing.T) {
	hub, url := startPushServer(t)
	ctx := context.Background()

	ch, err := push.NewDialer(url, 2*time.Second).Dial(ctx)
	require.NoError(t, err)
	defer ch.Close()

	ready, err := ch.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, annotate.PushReady, ready.Event)

	require.NoError(t, ch.Register(ctx, "bob"))
	require.Eventually(t, func() bool { return hub.ClientCount("bob") == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Refresh("bob")

	ev, err := ch.Receive(ctx)
	require.NoError(t, err)
	assert.Equal(t, annotate.PushRefresh, ev.Event)
}

func TestClosedConnectionIsUnregistered(t *testing.T) {
	hub, url := startPushServer(t)
	ctx := context.Background()

	ch, err := push.NewDialer(url, 2*time.Second).Dial(ctx)
	require.NoError(t, err)
	_, err = ch.Receive(ctx)
	require.NoError(t, err)
	require.NoError(t, ch.Register(ctx, "bob"))
	require.Eventually(t, func() bool { return hub.ClientCount("bob") == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, ch.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount("bob") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestPlainRequestRequiresUpgrade(t *testing.T) {
	hub := internalWS.NewHub(nil, logger.NewNopLogger())
	app := fiber.New()
	NewPushHandler(hub, logger.NewNopLogger()).RegisterRoutes(app.Group("/api"))

	resp, err := app.Test(httptest.NewRequest("GET", "/api/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUpgradeRequired, resp.StatusCode)
}
