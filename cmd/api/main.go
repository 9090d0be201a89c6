package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"filmgate.io/internal/auth"
	"filmgate.io/internal/config"
	"filmgate.io/internal/film"
	"filmgate.io/internal/httpapi"
	"filmgate.io/internal/obs"
	"filmgate.io/internal/store/pg"
)

var (
	version = "1.0.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var (
		db        *sql.DB
		authStore auth.Store
		films     film.Service
	)
	if cfg.PGDSN != "" {
		db, err = sql.Open("pgx", cfg.PGDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)

		authStore = auth.NewPGStore(db)
		films = pg.NewFilmStore(db)
	} else {
		log.Printf("FILMGATE_PG_DSN not set, using in-memory stores")
		authStore = auth.NewInMemory()
		films = film.NewInMemory()
	}

	var ready httpapi.ReadyProbe
	if db != nil {
		ready = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return db.PingContext(ctx)
		}
	}

	tokens := auth.NewService(authStore, cfg)
	resolver := auth.NewResolver(cfg, authStore)
	internalOnly := auth.NewInternalOnlyResolver(cfg)

	api := httpapi.New(ready, version, tokens, resolver, internalOnly, films)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting filmgate-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if db != nil {
		_ = db.Close()
	}
	log.Println("Stopped")
}
