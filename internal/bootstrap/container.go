package bootstrap

import (
	"context"
	"log"
	"time"

	"my-notes-be/internal/config"
	"my-notes-be/internal/controller"
	"my-notes-be/internal/handler"
	"my-notes-be/internal/pkg/logger"
	"my-notes-be/internal/pkg/mailer"
	"my-notes-be/internal/pkg/serverutils"
	"my-notes-be/internal/repository"
	"my-notes-be/internal/repository/memory"
	"my-notes-be/internal/repository/unitofwork"
	"my-notes-be/internal/service"
	"my-notes-be/internal/websocket"
	pktNats "my-notes-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const noteEventsTopic = "note-events"

type Container struct {
	// Controllers
	NoteController controller.INoteController
	UserController controller.IUserController

	// Background services, run by main.go
	ConsumerService service.IConsumerService

	// WebSockets and notifications
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	// Shared auth middleware, applied by route registration
	JwtMiddleware fiber.Handler
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)

	// NATS is an optional mirror of the note event stream; the app runs
	// fully without it.
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis, used for cross-instance websocket fanout when configured
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// Sessions and auth
	tokenTTL := time.Duration(cfg.Auth.TokenTTLHour) * time.Hour
	sessionRepo := memory.NewSessionRepository(tokenTTL)
	jwtMiddleware := serverutils.NewJwtMiddleware(cfg.Auth.JwtSecret, sessionRepo)

	// Services
	publisherService := service.NewPublisherService(pubSub, noteEventsTopic)
	attachmentService := service.NewAttachmentService(uowFactory, cfg.Upload.MaxFileAmount, cfg.Upload.MaxFileSizeMb)
	noteService := service.NewNoteService(uowFactory, attachmentService, publisherService, natsPub, sysLogger)
	userService := service.NewUserService(uowFactory, sessionRepo, emailService, cfg.Auth.JwtSecret, tokenTTL, sysLogger)
	authService := service.NewAuthService(uowFactory)

	// Notification pipeline
	notifRepo := repository.NewNotificationRepository(db)
	consumerService := service.NewConsumerService(pubSub, noteEventsTopic, notifRepo, wsHub, wsLogger)

	notifService := service.NewNotificationService(notifRepo, natsSub, wsLogger)
	if natsSub != nil {
		go notifService.StartAudit()
	}

	notifHandler := handler.NewNotificationHandler(notifService, wsHub, cfg.Auth.JwtSecret, wsLogger)

	return &Container{
		NoteController:      controller.NewNoteController(noteService, authService, jwtMiddleware),
		UserController:      controller.NewUserController(userService, jwtMiddleware),
		ConsumerService:     consumerService,
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
		JwtMiddleware:       jwtMiddleware,
	}
}
