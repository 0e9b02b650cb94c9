package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GoSim-25-26J-441/tee-designer/config"
	"github.com/GoSim-25-26J-441/tee-designer/internal/bootstrap"
	"github.com/GoSim-25-26J-441/tee-designer/internal/designer/service"
	redisstore "github.com/GoSim-25-26J-441/tee-designer/internal/storage/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	service.SetLogLevel(cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var client *redis.Client
	if bootstrap.NeedsRedis(cfg.Store.Backend, cfg.Submit.Transport) {
		client, err = redisstore.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer client.Close()
	}

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, bootstrap.StoreOptions{Redis: client})
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()

	deps, err := bootstrap.BuildDesignerDeps(cfg, store, client)
	if err != nil {
		log.Fatalf("designer: %v", err)
	}

	sessions := service.NewManager(deps, cfg.Designer.SessionIdleTTL)
	if err := sessions.Start(); err != nil {
		log.Fatalf("session sweeper: %v", err)
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:   "tee-designer",
		Version:       cfg.App.Version,
		CORSOrigins:   cfg.Server.CORSOrigins,
		Store:         deps.Persistence,
		Sessions:      sessions,
		MaxUploadSize: 10 << 20,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("listening on :%s (store=%s, transport=%s)", cfg.Server.Port, cfg.Store.Backend, cfg.Submit.Transport)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// close SSE streams before draining connections
	sessions.Stop(shutdownCtx)
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
