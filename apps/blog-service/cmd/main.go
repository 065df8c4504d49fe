package main

import (
	"context"
	stdlog "log"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"blog-platform/apps/blog-service/dao"
	"blog-platform/apps/blog-service/handler"
	"blog-platform/apps/blog-service/service"
	"blog-platform/pkg/auth"
	"blog-platform/pkg/config"
	"blog-platform/pkg/database"
	"blog-platform/pkg/kafka"
	"blog-platform/pkg/lifecycle"
	"blog-platform/pkg/logger"
	"blog-platform/pkg/middleware"
	"blog-platform/pkg/redis"
	"blog-platform/pkg/server"
	"blog-platform/pkg/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	kratosLog := logger.NewKratosLogger(log)

	ctx := context.Background()
	log.Info(ctx, "Starting blog service",
		logger.F("version", cfg.App.Version),
		logger.F("env", cfg.App.Env))

	// 链路追踪
	if cfg.Telemetry.Enabled {
		err := telemetry.InitGlobal(&telemetry.Config{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Env,
			SampleRate:     cfg.Telemetry.SampleRate,
		})
		if err != nil {
			log.Fatal(ctx, "Failed to initialize telemetry", logger.F("error", err.Error()))
		}
	}

	// MongoDB
	db, err := database.NewMongoDB(cfg.Database.MongoDB.URI, cfg.Database.MongoDB.DBName)
	if err != nil {
		log.Fatal(ctx, "Failed to connect to MongoDB", logger.F("error", err.Error()))
	}

	// Redis
	redisClient := redis.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	// Kafka可选，未启用时事件发布静默跳过
	var producer *kafka.Producer
	if cfg.Kafka.Enabled {
		producer, err = kafka.InitProducer(cfg.Kafka.Brokers)
		if err != nil {
			log.Fatal(ctx, "Failed to initialize Kafka producer", logger.F("error", err.Error()))
		}
	}

	// DAO层
	blogDAO := dao.NewBlogDAO(db)
	commentDAO := dao.NewCommentDAO(db)
	passcodeDAO := dao.NewPasscodeDAO(db)

	indexCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := blogDAO.EnsureIndexes(indexCtx); err != nil {
		log.Fatal(ctx, "Failed to ensure blog indexes", logger.F("error", err.Error()))
	}
	if err := commentDAO.EnsureIndexes(indexCtx); err != nil {
		log.Fatal(ctx, "Failed to ensure comment indexes", logger.F("error", err.Error()))
	}

	// 服务层
	blogSvc := service.NewBlogService(blogDAO, redisClient, producer, cfg.Kafka.Topic, log)
	commentSvc := service.NewCommentService(commentDAO, blogDAO, redisClient, producer, cfg.Kafka.Topic, log)
	passcodeSvc := service.NewPasscodeService(passcodeDAO, cfg.Auth.AdminToken, log)

	// HTTP层
	gate := middleware.NewAccessGate(kratosLog, auth.NewStaticVerifier(cfg.Auth.AdminToken))
	httpHandler := handler.NewHTTPHandler(blogSvc, commentSvc, passcodeSvc, gate, cfg.IsProduction(), log)

	engine := server.NewGinEngine(cfg.Server.Mode)
	loggingMW := middleware.NewLoggingMiddleware(kratosLog)
	engine.Use(loggingMW.GinRecovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORS())
	engine.Use(loggingMW.GinLogging())
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.App.Name))
	}
	httpHandler.RegisterRoutes(engine)

	httpServer := server.NewHTTPServer(engine, cfg.Server.Addr, cfg.Server.Timeout, kratosLog)

	// 生命周期管理，优先级越小越早启动、越晚停止
	lm := lifecycle.NewManager(kratosLog)
	lm.AddHook(lifecycle.Hook{
		Name:     "http-server",
		Priority: 10,
		OnStart:  httpServer.Start,
		OnStop:   httpServer.Stop,
	})
	lm.AddHook(lifecycle.Hook{
		Name:     "kafka-producer",
		Priority: 20,
		OnStop: func(ctx context.Context) error {
			if producer != nil {
				return producer.Close()
			}
			return nil
		},
	})
	lm.AddHook(lifecycle.Hook{
		Name:     "redis",
		Priority: 30,
		OnStop: func(ctx context.Context) error {
			return redisClient.Close()
		},
	})
	lm.AddHook(lifecycle.Hook{
		Name:     "mongodb",
		Priority: 40,
		OnStop: func(ctx context.Context) error {
			return db.Close()
		},
	})
	lm.AddHook(lifecycle.Hook{
		Name:     "telemetry",
		Priority: 50,
		OnStop: func(ctx context.Context) error {
			if cfg.Telemetry.Enabled {
				return telemetry.ShutdownGlobal(ctx)
			}
			return nil
		},
	})

	if err := lm.Start(); err != nil {
		log.Fatal(ctx, "Failed to start service", logger.F("error", err.Error()))
	}

	log.Info(ctx, "Blog service started", logger.F("addr", cfg.Server.Addr))

	lm.Wait()

	if err := lm.Stop(); err != nil {
		log.Error(ctx, "Shutdown finished with errors", logger.F("error", err.Error()))
	}
	log.Info(ctx, "Blog service stopped")
}
