package app

import (
	"time"

	"backend/internal/app/attachment"
	"backend/internal/app/avatar"
	"backend/internal/app/channel"
	"backend/internal/app/directmessage"
	"backend/internal/app/embedding"
	"backend/internal/app/health"
	"backend/internal/app/message"
	"backend/internal/app/reaction"
	"backend/internal/app/search"
	"backend/internal/app/user"
	"backend/internal/config"
	"backend/internal/db"
	"backend/internal/db/seeder"
	"backend/internal/gateways/websocket"
	"backend/internal/jobs"
	"backend/internal/providers/fishaudio"
	"backend/internal/providers/minio"
	"backend/internal/providers/openai"
	"backend/internal/providers/redis"
	"backend/internal/router"
	"backend/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Application struct {
	Router *router.Router
	DB     *gorm.DB
	Queue  *jobs.Queue
	Bus    *utils.EventBus
}

func Bootstrap(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	dbConn, err := db.Connect(cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(dbConn, logger); err != nil {
		return nil, err
	}

	seed := seeder.NewSeeder(dbConn, logger)
	if err := seed.Seed(); err != nil {
		logger.Warn("Failed to run seeders", zap.Error(err))
	}

	redisProvider := redis.NewRedisProvider(cfg.RedisURL, logger, cfg.RedisTTL)
	minioProvider, err := minio.NewMinioProvider(cfg, logger)
	if err != nil {
		logger.Warn("Failed to initialize MinIO provider", zap.Error(err))
		minioProvider = nil
	}
	eventBus := utils.NewEventBus()
	queue := jobs.NewQueue(cfg.JobWorkers, logger)

	openaiClient := openai.NewClient(cfg.OpenAI, logger)

	userRepo := user.NewRepository(dbConn)
	channelRepo := channel.NewRepository(dbConn)
	messageRepo := message.NewRepository(dbConn)
	dmRepo := directmessage.NewRepository(dbConn)
	embeddingRepo := embedding.NewRepository(dbConn)
	reactionRepo := reaction.NewRepository(dbConn)
	attachmentRepo := attachment.NewRepository(dbConn)
	searchRepo := search.NewRepository(dbConn)

	userService := user.NewService(userRepo, redisProvider, logger)
	channelService := channel.NewService(channelRepo)
	messageService := message.NewService(messageRepo, userRepo, redisProvider, eventBus, logger)
	dmService := directmessage.NewService(dmRepo, userRepo, eventBus, logger)
	embeddingService := embedding.NewService(embeddingRepo, openaiClient, messageRepo, dmRepo, logger)
	reactionService := reaction.NewService(reactionRepo, eventBus, logger)
	searchService := search.NewService(searchRepo, userRepo, channelRepo, logger)

	var speech avatar.Speech
	if cfg.FishAudio.APIKey != "" {
		speech = fishaudio.NewClient(cfg.FishAudio, logger)
	}
	var blobs avatar.Blobs
	if minioProvider != nil {
		blobs = minioProvider
	}
	avatarService := avatar.NewService(
		userRepo,
		messageRepo,
		dmRepo,
		openaiClient,
		embeddingService,
		openaiClient,
		speech,
		blobs,
		eventBus,
		cfg.AvatarTopK,
		logger,
	)

	var attachmentService attachment.Service
	if minioProvider != nil {
		attachmentService = attachment.NewService(attachmentRepo, minioProvider, logger)
	}

	dispatcher := avatar.NewDispatcher(avatarService, embeddingService, queue, logger)
	dispatcher.Register(eventBus)

	hub := websocket.NewHub(logger)
	hub.Attach(eventBus)

	queue.Start()
	go eventBus.Run()
	go hub.Run()

	// One backfill pass shortly after boot picks up messages written
	// before the index existed, then hourly passes catch stragglers.
	backfill := embedding.NewBackfillJob(embeddingService, messageRepo, dmRepo, queue, 100, logger)
	queue.RunAfter(10*time.Second, backfill)
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			queue.RunAfter(0, backfill)
		}
	}()

	healthHandler := health.NewHandler(&utils.HealthChecker{
		DB:    dbConn,
		Redis: redisProvider.Client,
	})
	userHandler := user.NewHandler(userService)
	channelHandler := channel.NewHandler(channelService)
	messageHandler := message.NewHandler(messageService)
	dmHandler := directmessage.NewHandler(dmService)
	reactionHandler := reaction.NewHandler(reactionService)
	searchHandler := search.NewHandler(searchService)

	r := router.NewRouter(logger)

	r.RegisterHealthRoutes(healthHandler)
	r.RegisterWebSocketRoutes(hub)
	r.RegisterUserRoutes(userHandler)
	r.RegisterChannelRoutes(channelHandler)
	r.RegisterMessageRoutes(messageHandler)
	r.RegisterDirectMessageRoutes(dmHandler)
	r.RegisterReactionRoutes(reactionHandler)
	r.RegisterSearchRoutes(searchHandler)

	if attachmentService != nil {
		attachmentHandler := attachment.NewHandler(attachmentService)
		r.RegisterAttachmentRoutes(attachmentHandler)
	}

	return &Application{
		Router: r,
		DB:     dbConn,
		Queue:  queue,
		Bus:    eventBus,
	}, nil
}
