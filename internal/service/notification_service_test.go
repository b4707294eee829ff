package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"video-annotate/internal/pkg/logger"
	"video-annotate/internal/repository/memory"
	"video-annotate/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDelivery struct {
	mu    sync.Mutex
	users []string
}

func (d *recordingDelivery) Refresh(userName string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users = append(d.users, userName)
}

func (d *recordingDelivery) snapshot() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.users...)
}

func TestShareEventReachesDelivery(t *testing.T) {
	bus := events.NewChannelBus()
	defer bus.Close()

	delivery := &recordingDelivery{}
	notifier := NewNotificationService(bus, delivery, logger.NewNopLogger())
	require.NoError(t, notifier.Start())

	svc := NewAnnotationService(memory.NewSharedAnnotationRepository(0), bus, logger.NewNopLogger())
	_, err := svc.Share(context.Background(), shareRequest("bob", 3))
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		got := delivery.snapshot()
		return len(got) == 1 && got[0] == "bob"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHandleEventIgnoresIncompleteEvents(t *testing.T) {
	delivery := &recordingDelivery{}
	notifier := NewNotificationService(nil, delivery, logger.NewNopLogger())

	tests := []events.BaseEvent{
		{Type: "SOMETHING_ELSE", Data: map[string]interface{}{"target_user": "bob"}},
		{Type: events.AnnotationShared, Data: map[string]interface{}{}},
		{Type: events.AnnotationShared, Data: map[string]interface{}{"target_user": 42}},
	}
	for _, evt := range tests {
		assert.NoError(t, notifier.handleEvent(context.Background(), evt))
	}
	assert.Empty(t, delivery.snapshot())
}
