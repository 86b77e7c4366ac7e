package http

import (
	"context"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo/readpref"

	"twutter/internal/cache"
	"twutter/internal/config"
	"twutter/internal/database"
	"twutter/internal/handler"
	"twutter/internal/queue"
	"twutter/internal/redis"
	"twutter/internal/repository"
	"twutter/internal/service"
	"twutter/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database
	client, db, err := database.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Printf("[Server] Mongo disconnect failed: %v", err)
		}
	}()

	if err := database.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// 3. Optional: activity stream and leaderboard workers
	var publisher queue.Publisher = queue.NopPublisher{}
	var leaderboard cache.Leaderboard
	var manager *worker.Manager

	if cfg.RedisEnabled() {
		redisClient, err := redis.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisClient.Close()

		publisher = queue.NewPublisher(redisClient.Client)
		leaderboard = cache.NewLeaderboard(redisClient.Client)

		workerCfg := worker.DefaultManagerConfig()
		workerCfg.WorkerCount = cfg.WorkerCount
		manager = worker.NewManager(
			queue.NewConsumer(redisClient.Client),
			worker.NewHandler(leaderboard),
			workerCfg,
		)
		if err := manager.Start(ctx); err != nil {
			return fmt.Errorf("failed to start workers: %w", err)
		}
		defer manager.Stop()
	} else {
		log.Println("[Server] REDIS_URL not set, activity stream and author stats disabled")
	}

	// 4. Optional: avatar storage
	var uploader handler.AvatarUploader
	if cfg.MediaEnabled() {
		store, err := service.NewR2Store(ctx, cfg)
		if err != nil {
			return err
		}
		uploader = service.NewMediaService(store, cfg.R2PublicURL)
	} else {
		log.Println("[Server] R2 not configured, avatar upload disabled")
	}

	// 5. Services and handlers
	feedService := service.NewFeedService(postRepo, commentRepo)
	postService := service.NewPostService(postRepo, userRepo, publisher)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo, publisher)
	userService := service.NewUserService(userRepo, publisher)
	searchService := service.NewSearchService(postRepo, userRepo)
	statsService := service.NewStatsService(leaderboard)

	router := NewRouter(RouterConfig{
		PostHandler:    handler.NewPostHandler(feedService, postService),
		CommentHandler: handler.NewCommentHandler(commentService),
		UserHandler:    handler.NewUserHandler(userService),
		SearchHandler:  handler.NewSearchHandler(searchService),
		MediaHandler:   handler.NewMediaHandler(uploader),
		StatsHandler:   handler.NewStatsHandler(statsService),
		HealthCheck: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// 6. Serve until interrupted
	srv := &stdhttp.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[Server] Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("[Server] Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
