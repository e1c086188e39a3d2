// FILE: chesscore/cmd/chess-server/main.go
// Package main runs the chess rules server: a REST API over in-memory games
// with an optional SQLite audit log.
package main

import (
	"context"
	"crypto/rand"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chesscore/cmd/chess-server/cli"
	"chesscore/internal/server/http"
	"chesscore/internal/server/processor"
	"chesscore/internal/server/service"
	"chesscore/internal/server/storage"

	"github.com/apex/log"
	"github.com/apex/log/handlers/text"
)

const (
	gracefulShutdownTimeout = time.Second * 5
)

func main() {
	log.SetHandler(text.New(os.Stderr))

	if len(os.Args) > 1 && os.Args[1] == "db" {
		if err := cli.Run(os.Args[2:]); err != nil {
			log.WithError(err).Fatal("db command failed")
		}
		os.Exit(0)
	}

	var (
		apiHost     = flag.String("api-host", "localhost", "API server host")
		apiPort     = flag.Int("api-port", 8080, "API server port")
		dev         = flag.Bool("dev", false, "Development mode (relaxed rate limits, fixed seat secret)")
		storagePath = flag.String("storage-path", "", "Path to SQLite audit log (disabled if empty)")
		pidPath     = flag.String("pid", "", "Optional path to write PID file")
		pidLock     = flag.Bool("pid-lock", false, "Lock PID file to allow only one instance (requires -pid)")
		logLevel    = flag.String("log-level", "info", "Log level: debug, info, warn, error")
		accessLog   = flag.Bool("access-log", true, "Log every HTTP request")
		seatTTL     = flag.Duration("seat-ttl", service.DefaultSeatTTL, "Lifetime of seat tokens")
	)
	flag.Parse()

	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		log.WithError(err).Fatal("bad -log-level")
	}
	log.SetLevel(level)

	if *pidLock && *pidPath == "" {
		log.Fatal("-pid-lock flag requires the -pid flag to be set")
	}

	if *pidPath != "" {
		pf, err := acquirePIDFile(*pidPath, *pidLock)
		if err != nil {
			log.WithError(err).Fatal("failed to manage PID file")
		}
		defer pf.Release()
		log.WithFields(log.Fields{"path": *pidPath, "lock": *pidLock}).Info("PID file created")
	}

	// 1. Storage (optional)
	var store *storage.Store
	if *storagePath != "" {
		store, err = storage.NewStore(*storagePath, *dev)
		if err != nil {
			log.WithError(err).Fatal("failed to initialize storage")
		}
		if err := store.InitDB(); err != nil {
			log.WithError(err).Fatal("failed to initialize schema")
		}
		log.WithField("path", *storagePath).Info("audit log enabled")
	} else {
		log.Info("audit log disabled (use -storage-path to enable)")
	}

	// Seat tokens only need to outlive the process
	var seatSecret []byte
	if *dev {
		seatSecret = []byte("dev-secret-minimum-32-characters-long")
		log.Warn("using fixed seat secret (dev mode)")
	} else {
		seatSecret = make([]byte, 32)
		if _, err := rand.Read(seatSecret); err != nil {
			log.WithError(err).Fatal("failed to generate seat secret")
		}
	}

	// 2. Service, owning games and storage
	svc := service.New(store, service.Config{
		SeatSecret: seatSecret,
		SeatTTL:    *seatTTL,
	})

	// 3. Processor
	proc := processor.New(svc)

	// 4. HTTP
	app := http.NewFiberApp(proc, svc, http.Config{DevMode: *dev, AccessLog: *accessLog})

	apiAddr := fmt.Sprintf("%s:%d", *apiHost, *apiPort)

	go func() {
		rate := 10
		if *dev {
			rate = 20
		}
		log.WithFields(log.Fields{
			"addr":       "http://" + apiAddr,
			"games":      "http://" + apiAddr + "/api/v1/games",
			"health":     "http://" + apiAddr + "/health",
			"rate_limit": fmt.Sprintf("%d req/s per IP", rate),
		}).Info("chess API server starting")

		if err := app.Listen(apiAddr); err != nil {
			log.WithError(err).Error("API server listen error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer shutdownCancel()

	// Release long-poll waiters before the HTTP server drains
	if err = svc.Shutdown(gracefulShutdownTimeout); err != nil {
		log.WithError(err).Warn("service shutdown")
	}

	if err = app.ShutdownWithContext(shutdownCtx); err != nil {
		log.WithError(err).Warn("server forced to shutdown")
	}

	log.Info("server exited")
}
