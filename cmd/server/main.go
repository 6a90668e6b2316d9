package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/srijan008/MedGamma-Server/config"
	"github.com/srijan008/MedGamma-Server/internal/application"
	"github.com/srijan008/MedGamma-Server/internal/auth"
	"github.com/srijan008/MedGamma-Server/internal/domain"
	"github.com/srijan008/MedGamma-Server/internal/handler"
	"github.com/srijan008/MedGamma-Server/internal/infrastructure/cache"
	"github.com/srijan008/MedGamma-Server/internal/infrastructure/llm"
	"github.com/srijan008/MedGamma-Server/internal/infrastructure/mq"
	"github.com/srijan008/MedGamma-Server/internal/infrastructure/notify"
	"github.com/srijan008/MedGamma-Server/internal/infrastructure/persistence/db"
	"github.com/srijan008/MedGamma-Server/internal/infrastructure/persistence/model"
	pgrepo "github.com/srijan008/MedGamma-Server/internal/infrastructure/persistence/repository"
	"github.com/srijan008/MedGamma-Server/internal/infrastructure/repository"
	"github.com/srijan008/MedGamma-Server/internal/infrastructure/search"
	"github.com/srijan008/MedGamma-Server/internal/infrastructure/vector"
	"github.com/srijan008/MedGamma-Server/internal/ingest"
	"github.com/srijan008/MedGamma-Server/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	if _, err := logging.Init(cfg.Environment); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.L().Sync()
	log := logging.L()

	// Postgres
	pg, err := db.NewPostgresDB(cfg.Postgres)
	if err != nil {
		log.Fatal("connect postgres", zap.Error(err))
	}
	defer pg.Close()
	if err := pg.CreateTables(
		&model.SessionModel{},
		&model.MessageModel{},
		&model.AlertModel{},
		&model.UserModel{},
	); err != nil {
		log.Fatal("migrate tables", zap.Error(err))
	}

	// Redis cache. Optional: the chat repository works straight off postgres
	// when the cache is down.
	var redisClient *redis.Client
	var chatRepo domain.ChatRepository = pgrepo.NewChatRepository(pg.DB)
	redisCache, err := cache.NewRedisCache(&cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, serving history from postgres only", zap.Error(err))
	} else {
		defer redisCache.Close()
		redisClient = redisCache.Client()
		chatRepo = repository.NewCachedChatRepository(chatRepo, redisCache)
	}

	// Model client and retrieval stores.
	llmClient := llm.NewClient(cfg.LLM)
	vectorStore, err := vector.NewStore(cfg.Vector.Path, cfg.Vector.Dimensions)
	if err != nil {
		log.Fatal("open vector store", zap.Error(err))
	}
	defer vectorStore.Close()
	webSearch := search.NewDuckDuckGo(cfg.Search)

	// Alerting.
	notifier := notify.NewTwilioNotifier(cfg.Twilio)
	alertRepo := pgrepo.NewAlertRepository(pg.DB)
	alertService := application.NewAlertService(alertRepo, notifier)
	summarizer := application.NewSummarizer(chatRepo, llmClient)

	// Event dispatch runs through RocketMQ when configured, otherwise through
	// in-process goroutines.
	var dispatcher domain.EventDispatcher
	producer, err := mq.InitProducer(&cfg.RocketMQ)
	if err != nil {
		log.Fatal("init rocketmq producer", zap.Error(err))
	}
	if producer != nil {
		defer producer.Shutdown()
		dispatcher = producer

		consumer, err := mq.InitConsumer(&cfg.RocketMQ, alertService, summarizer)
		if err != nil {
			log.Fatal("init rocketmq consumer", zap.Error(err))
		}
		defer consumer.Shutdown()
	} else {
		dispatcher = application.NewAsyncDispatcher(alertService, summarizer)
	}

	chatService := application.NewChatService(
		chatRepo,
		llmClient,
		vectorStore,
		webSearch,
		application.NewRouter(llmClient),
		dispatcher,
		cfg.Vector.TopK,
	)
	ingestService := ingest.NewService(chatRepo, llmClient, vectorStore)

	var authService *auth.AuthService
	if cfg.Auth.Enabled {
		authService = auth.NewAuthService(
			pgrepo.NewUserRepository(pg.DB),
			auth.NewBcryptService(),
			auth.NewJWTService(cfg.Auth.JwtSecret, cfg.Auth.Expire_Access_H),
		)
	}

	if cfg.Environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	handler.RegisterRoutes(engine, cfg, redisClient, &handler.Services{
		Chats:     chatService,
		Documents: ingestService,
		Alerts:    alertService,
		Auth:      authService,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	go func() {
		log.Info("server listening",
			zap.String("name", cfg.ServerName),
			zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}
}
