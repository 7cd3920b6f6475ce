/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tieubaoca/ayuroot-be/config"
	"github.com/tieubaoca/ayuroot-be/database"
	"github.com/tieubaoca/ayuroot-be/handler"
	"github.com/tieubaoca/ayuroot-be/middleware"
	"github.com/tieubaoca/ayuroot-be/observability"
	"github.com/tieubaoca/ayuroot-be/relay"
	"github.com/tieubaoca/ayuroot-be/repository"
	"github.com/tieubaoca/ayuroot-be/service"
)

const shutdownTimeout = 10 * time.Second

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP server",
	Long:  `Starts the server that handles chat, medicine and lifestyle requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServer(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
}

// serverDeps is everything the router needs. UserService and ChatRepo are
// nil when MongoDB is not configured, LifestyleService when no model script
// is set.
type serverDeps struct {
	cfg              *config.Config
	chatService      service.ChatService
	userService      service.UserService
	medicineService  service.MedicineService
	lifestyleService service.LifestyleService
	encoder          *relay.Encoder
	metrics          *observability.Metrics
	gatherer         prometheus.Gatherer
}

func runServer(ctx context.Context, cfg *config.Config) error {
	var closers []func() error
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn().Err(err).Msg("Shutdown cleanup failed")
			}
		}
	}()

	ai := make(map[string]service.AIService, 4)
	for use, model := range map[string]string{
		"chat":      cfg.AI.Models.Chat,
		"stream":    cfg.AI.Models.Stream,
		"medicine":  cfg.AI.Models.Medicine,
		"lifestyle": cfg.AI.Models.Lifestyle,
	} {
		svc, closeFn, err := newAIService(ctx, cfg, model)
		if err != nil {
			return err
		}
		closers = append(closers, closeFn)
		ai[use] = svc
	}

	var (
		userRepo     repository.UserRepo
		chatRepo     repository.ChatRepo
		medicineRepo repository.MedicineRepo
	)
	if cfg.MongoDB.URI != "" {
		connector := database.NewMongoConnector(cfg.MongoDB.URI, cfg.MongoDB.ConnectTimeout)
		db, err := connector.Database(ctx, cfg.MongoDB.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		closers = append(closers, func() error { return connector.Disconnect(context.Background()) })

		if userRepo, err = repository.NewUserRepo(ctx, db); err != nil {
			return err
		}
		if chatRepo, err = repository.NewChatRepo(ctx, db); err != nil {
			return err
		}
		medicineRepo = repository.NewMedicineRepo(db)
	} else {
		log.Warn().Msg("MongoDB is not configured; signup, login and chat history are disabled")
	}

	cache, err := database.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
	if err != nil {
		return err
	}
	if cache != nil {
		if err := cache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("Redis is unreachable; medicine cache lookups will fail over to the model")
		}
		closers = append(closers, cache.Close)
	}

	deps := serverDeps{
		cfg:              cfg,
		chatService:      service.NewChatService(ai["chat"], ai["stream"], chatRepo, cfg.AI.Timeout),
		medicineService:  service.NewMedicineService(ai["medicine"], medicineRepo, cacheOrNil(cache), cfg.AI.Timeout),
		encoder:  relay.NewEncoder(cfg.Stream.ChunkSize, cfg.Stream.ChunkDelay),
		metrics:  observability.NewMetrics(prometheus.DefaultRegisterer),
		gatherer: prometheus.DefaultGatherer,
	}
	model, err := lifestyleModel(cfg.Lifestyle)
	if err != nil {
		return err
	}
	if model != nil {
		deps.lifestyleService = service.NewLifestyleService(model, ai["lifestyle"], cfg.AI.Timeout)
	} else {
		log.Warn().Msg("lifestyle.script is not set; /api/v1/lifestyle is disabled")
	}
	if userRepo != nil {
		deps.userService = service.NewUserService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           setupRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("app is running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// lifestyleModel returns nil when no script is configured. A configured
// script that does not exist fails startup.
func lifestyleModel(cfg config.LifestyleConfig) (service.LifestyleModel, error) {
	if cfg.Script == "" {
		return nil, nil
	}
	if _, err := os.Stat(cfg.Script); err != nil {
		return nil, fmt.Errorf("lifestyle model script: %w", err)
	}
	return service.NewProcessModel(cfg.Command, []string{cfg.Script}, cfg.Timeout), nil
}

// cacheOrNil keeps a nil *RedisCache from becoming a non-nil interface.
func cacheOrNil(c *database.RedisCache) service.Cache {
	if c == nil {
		return nil
	}
	return c
}

func setupRouter(d serverDeps) *gin.Engine {
	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	corsHandler := handler.NewCorsHandler(d.cfg.AllowedOrigins())
	wsService := service.NewWebSocketService(d.chatService, d.encoder, d.metrics, d.cfg.AllowedOrigins())
	chatHandler := handler.NewChatHandler(d.chatService, wsService, d.encoder, d.metrics, d.cfg.FrontendURL)
	medicineHandler := handler.NewMedicineHandler(d.medicineService)

	router := gin.New()
	if err := router.SetTrustedProxies(d.cfg.TrustedProxies); err != nil {
		log.Error().Err(err).Msg("Invalid trusted proxies; using the socket peer address")
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery(), middleware.RequestLogger())
	router.Use(corsHandler.CorsMiddleware)

	router.GET("/health", handler.HandleHealth)
	if d.gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.gatherer, promhttp.HandlerOpts{})))
	}

	var limited []gin.HandlerFunc
	if d.cfg.RateLimit.Enabled {
		limiter := middleware.NewIPRateLimiter(d.cfg.RateLimit.RequestsPerMinute, d.cfg.RateLimit.Burst)
		limited = append(limited, limiter.Middleware())
		// every socket message is a model call
		wsService.SetRateLimiter(limiter)
	}
	// aiRoute puts the rate limiter in front of handlers that call the model.
	aiRoute := func(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
		return append(slices.Clone(limited), handlers...)
	}

	apiV1 := router.Group("/api/v1")
	optionalAuth := middleware.OptionalAuth(d.cfg.Auth.JWTSecret)

	chatRoutes := apiV1.Group("/chat")
	{
		chatRoutes.POST("", aiRoute(optionalAuth, chatHandler.HandleChat)...)
		chatRoutes.POST("/stream", aiRoute(optionalAuth, chatHandler.HandleChatStream)...)
		chatRoutes.GET("/ws", optionalAuth, chatHandler.HandleChatWebsocket)
		chatRoutes.GET("/history", middleware.AuthMiddleware(d.cfg.Auth.JWTSecret), chatHandler.HandleChatHistory)
	}

	apiV1.POST("/medicine/recommend", aiRoute(medicineHandler.HandleRecommend)...)
	if d.lifestyleService != nil {
		lifestyleHandler := handler.NewLifestyleHandler(d.lifestyleService)
		apiV1.POST("/lifestyle", aiRoute(lifestyleHandler.HandleLifestyle)...)
	}

	if d.userService != nil {
		loginHandler := handler.NewLoginHandler(d.userService, d.cfg.Auth.CookieTTL, false)
		apiV1.POST("/signup", loginHandler.HandleSignup)
		apiV1.POST("/login", loginHandler.HandleLogin)
	}

	return router
}
