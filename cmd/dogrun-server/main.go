package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kanelabs/dogrun-engine/internal/api"
	"github.com/kanelabs/dogrun-engine/internal/config"
	"github.com/kanelabs/dogrun-engine/internal/db"
	"github.com/kanelabs/dogrun-engine/internal/engine"
)

func main() {
	var (
		tickPeriod         = flag.Duration("tick-period", 0, "internal tick period (e.g. 50ms); 0 selects external tick mode")
		configFile         = flag.String("config-file", "", "path to the game config JSON file (required)")
		wwwRoot            = flag.String("www-root", "", "path to the static client directory to serve at /dashboard (required)")
		randomizeSpawnFlag = flag.Bool("randomize-spawn-points", false, "spawn new dogs at a random point on a random road instead of the first road's start")
	)
	flag.Parse()

	if *configFile == "" {
		log.Fatal("FATAL: --config-file is required")
	}
	if *wwwRoot == "" {
		log.Fatal("FATAL: --www-root is required")
	}

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		log.Fatal("FATAL: DB_URL environment variable is not set")
	}

	resolved, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	game := engine.NewGame(engine.Config{
		DefaultDogSpeed:    resolved.DefaultDogSpeed,
		DefaultBagCapacity: resolved.DefaultBagCapacity,
		DogRetirementTime:  resolved.DogRetirementTime,
		RandomizeSpawn:     *randomizeSpawnFlag,
	})
	game.LootGenConfig = resolved.LootGenConfig
	for _, m := range resolved.Maps {
		if err := game.AddMap(m); err != nil {
			log.Fatalf("FATAL: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := db.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	defer store.Close()
	if err := store.InitSchema(ctx); err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	hub := api.NewHub()
	go hub.Run()

	onTick := func(elapsed time.Duration, retired []string) {
		for _, token := range retired {
			rec, ok := game.Retire(token)
			if !ok {
				continue
			}
			if err := store.RecordRetired(ctx, rec.UserName, rec.Score, rec.PlayingTimeMs); err != nil {
				log.Printf("failed to persist retired player %q: %v", rec.UserName, err)
			}
		}
		hub.BroadcastTick(api.TickSummary{
			ElapsedMs:    elapsed.Milliseconds(),
			RetiredCount: len(retired),
			SessionCount: len(game.Sessions),
		})
	}

	scheduler := engine.NewScheduler(game, *tickPeriod, onTick)
	go scheduler.Run(ctx)

	router := api.SetupRouter(game, scheduler, store, hub, *wwwRoot)
	srv := &http.Server{
		Addr:         ":" + getEnvOrDefault("PORT", "8080"),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("dogrun-engine listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
	cancel()
}

func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
