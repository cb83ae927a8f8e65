package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dentalclinic/internal/auth"
	"dentalclinic/internal/config"
	"dentalclinic/internal/database"
	"dentalclinic/internal/handlers"
	"dentalclinic/internal/jobs"
	"dentalclinic/internal/mediator"
	"dentalclinic/internal/realtime"
	"dentalclinic/internal/repositories"
	"dentalclinic/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Chạy API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()
			return serve(cfg, log)
		},
	}
}

func serve(cfg *config.Config, log *zap.Logger) error {
	log.Info("starting server", zap.Int("port", cfg.App.Port))
	loc := cfg.App.Location()

	// =========================================================================
	// Database
	// =========================================================================
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer database.Close(db)

	// Auto migrate trong development mode
	if cfg.App.IsDevelopment() {
		if err := database.AutoMigrate(db); err != nil {
			log.Warn("auto migrate failed", zap.Error(err))
		} else {
			log.Info("database auto migration completed")
		}
	}

	repos := repositories.New(db)

	// =========================================================================
	// Realtime: websocket hub, thêm Centrifugo nếu có cấu hình
	// =========================================================================
	var hub *realtime.Hub
	var publishers []realtime.Publisher
	if cfg.Realtime.Enabled {
		hub = realtime.NewHub(realtime.NewConnectionRegistry(), log.Named("realtime"), realtime.HubOptions{
			SendBuffer:   cfg.Realtime.SendBuffer,
			PingInterval: cfg.Realtime.PingInterval,
			WriteTimeout: cfg.Realtime.WriteTimeout,
			CheckOrigin:  originChecker(cfg.CORS.AllowedOrigins),
		})
		publishers = append(publishers, hub)
	}
	if cfg.Centrifugo.Enabled() {
		publishers = append(publishers, realtime.NewCentrifugoClient(cfg.Centrifugo.URL, cfg.Centrifugo.APIKey, log))
		log.Info("centrifugo publisher initialized", zap.String("url", cfg.Centrifugo.URL))
	}

	var publisher realtime.Publisher = realtime.NewNoopPublisher()
	if len(publishers) > 0 {
		publisher = realtime.NewMultiPublisher(publishers...)
	} else {
		log.Warn("realtime disabled, notifications are stored only")
	}

	// =========================================================================
	// Mediator & Services
	// =========================================================================
	m := mediator.New(
		mediator.Logging(log.Named("mediator")),
		auth.Authorization(),
		mediator.Validation(validator.New()),
	)

	jwtService := auth.NewJWTService(cfg.JWT)
	svc := services.New(m, services.Deps{
		Repos:     repos,
		JWT:       jwtService,
		Publisher: publisher,
		Logger:    log,
		Location:  loc,
	})
	log.Info("services initialized", zap.Int("handlers", m.Count()))

	// =========================================================================
	// Scheduler
	// =========================================================================
	var scheduler *jobs.Scheduler
	if cfg.Scheduler.Enabled {
		scheduler = jobs.NewScheduler(svc.Promotions, loc, log.Named("jobs"))
		if err := scheduler.RegisterPromotionExpiry(cfg.Scheduler.PromotionExpiryAt); err != nil {
			return fmt.Errorf("register promotion expiry job: %w", err)
		}
		scheduler.Start()
		log.Info("scheduler started", zap.String("promotion_expiry_at", cfg.Scheduler.PromotionExpiryAt))
	}

	// =========================================================================
	// HTTP Server
	// =========================================================================
	router := handlers.NewRouter(handlers.RouterDeps{
		AppName:        cfg.App.Name,
		Production:     cfg.App.IsProduction(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Mediator:       m,
		Auth:           svc.Auth,
		Hub:            hub,
		Health:         func(ctx context.Context) error { return database.Ping(ctx, db) },
		Logger:         log,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.Int("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// =========================================================================
	// Graceful Shutdown
	// =========================================================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-errCh:
		log.Error("server failed", zap.Error(err))
		shutdown(nil, scheduler, log)
		return err
	}

	shutdown(srv, scheduler, log)
	return nil
}

func shutdown(srv *http.Server, scheduler *jobs.Scheduler, log *zap.Logger) {
	log.Info("shutting down server...")

	if scheduler != nil {
		scheduler.Stop()
	}

	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}

	log.Info("server exited")
}

// originChecker websocket chỉ nhận origin nằm trong danh sách CORS
func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return nil
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

