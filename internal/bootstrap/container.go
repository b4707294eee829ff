package bootstrap

import (
	"context"
	"log"

	"video-annotate/internal/config"
	"video-annotate/internal/controller"
	"video-annotate/internal/handler"
	"video-annotate/internal/pkg/logger"
	"video-annotate/internal/repository/contract"
	"video-annotate/internal/repository/implementation"
	"video-annotate/internal/repository/memory"
	"video-annotate/internal/service"
	"video-annotate/internal/websocket"
	"video-annotate/pkg/events"

	pktNats "video-annotate/pkg/nats"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AnnotationController controller.IAnnotationController

	// WebSockets & Notification
	PushHandler         *handler.PushHandler
	WebSocketHub        *websocket.Hub
	NotificationService *service.NotificationService

	Logger logger.ILogger

	publisher  events.Publisher
	subscriber events.Subscriber
	rdb        *redis.Client
	stopHub    context.CancelFunc
}

// NewContainer wires the service. db may be nil, in which case pending
// shares live in memory. NATS and redis are optional: without NATS events
// travel over an in-process bus, without redis the hub only reaches local
// connections.
func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.IsProduction())

	// 1. Repository
	var repo contract.SharedAnnotationRepository
	if db != nil {
		repo = implementation.NewSharedAnnotationRepository(db)
	} else {
		log.Println("[WARN] No database configured, pending shares are kept in memory")
		repo = memory.NewSharedAnnotationRepository(cfg.App.PendingTTL)
	}

	// 2. Event Bus
	publisher, subscriber := newEventBus(cfg.App.NatsURL)

	// 3. Redis
	rdb := newRedisClient(cfg.App.RedisURL)

	// 4. WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.PushLogFilePath)
	wsHub := websocket.NewHub(rdb, wsLogger)
	hubCtx, stopHub := context.WithCancel(context.Background())
	go wsHub.Run(hubCtx)

	// 5. Services
	annotationService := service.NewAnnotationService(repo, publisher, sysLogger)
	notificationService := service.NewNotificationService(subscriber, wsHub, sysLogger)

	return &Container{
		AnnotationController: controller.NewAnnotationController(annotationService),
		PushHandler:          handler.NewPushHandler(wsHub, wsLogger),
		WebSocketHub:         wsHub,
		NotificationService:  notificationService,
		Logger:               sysLogger,
		publisher:            publisher,
		subscriber:           subscriber,
		rdb:                  rdb,
		stopHub:              stopHub,
	}
}

func newEventBus(natsURL string) (events.Publisher, events.Subscriber) {
	if natsURL != "" {
		pub, pubErr := pktNats.NewPublisher(natsURL)
		sub, subErr := pktNats.NewSubscriber(natsURL)
		if pubErr == nil && subErr == nil {
			return pub, sub
		}
		log.Printf("[WARN] Failed to connect to NATS (publisher: %v, subscriber: %v), using in-process bus", pubErr, subErr)
		if pub != nil {
			pub.Close()
		}
		if sub != nil {
			sub.Close()
		}
	}
	bus := events.NewChannelBus()
	return bus, bus
}

func newRedisClient(url string) *redis.Client {
	if url == "" {
		return nil
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: url}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v, push fan-out stays local", err)
		rdb.Close()
		return nil
	}
	return rdb
}

// Close releases background resources in reverse order of creation.
func (c *Container) Close() {
	c.subscriber.Close()
	c.publisher.Close()
	c.stopHub()
	if c.rdb != nil {
		c.rdb.Close()
	}
	_ = c.Logger.Sync()
}
