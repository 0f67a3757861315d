package main

import (
	"context"
	"eld-trip-planner/internal/api"
	"eld-trip-planner/internal/app"
	"eld-trip-planner/internal/config"
	"eld-trip-planner/internal/services"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// main is the application composition root.
// It wires concrete adapters behind ports, schedules cache warming, and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	// Warming only pays off when estimates are cached.
	if a.EstimateCache != nil && cfg.WarmSchedule != "" {
		c, err := startWarmer(ctx, a, cfg)
		if err != nil {
			log.Fatal(err)
		}
		defer c.Stop()
	}

	router := api.NewRouter(a.Planner, a.Repo, a.Renderer)

	// Timeouts are tuned for cold-cache planning (external API latency).
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown err=%v", err)
		}
	}()

	log.Printf("Server listening addr=:%s", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func startWarmer(ctx context.Context, a *app.App, cfg config.Config) (*cron.Cron, error) {
	warmer, err := services.NewCacheWarmer(a.Estimator, a.Repo, services.PopularRoutes, cfg.WarmLimit)
	if err != nil {
		return nil, err
	}

	c := cron.New()
	_, err = c.AddFunc(cfg.WarmSchedule, func() {
		n, err := warmer.Warm(ctx)
		if err != nil {
			log.Printf("cache warm failed err=%v", err)
			return
		}
		log.Printf("cache warmed routes=%d", n)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("cache warmer scheduled schedule=%q limit=%d", cfg.WarmSchedule, cfg.WarmLimit)
	return c, nil
}
