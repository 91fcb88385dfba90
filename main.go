package main

import (
	"context"
	"flag"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"studystream/handlers"
	"studystream/internal/database"
	"studystream/services/accounts"
	"studystream/services/playlist"
	"studystream/services/schedules"
	"studystream/services/sessions"
	"studystream/utils"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	var (
		dataDir     string
		listenAddr  string
		playlistAPI string
	)
	flag.StringVar(&dataDir, "data-dir", getenv("STUDYSTREAM_DATA_DIR", "./data"), "directory for the database, sessions, and logs")
	flag.StringVar(&listenAddr, "listen", getenv("STUDYSTREAM_LISTEN", ":8590"), "HTTP listen address")
	flag.StringVar(&playlistAPI, "playlist-api", getenv("STUDYSTREAM_PLAYLIST_API", ""), "base URL of the playlist metadata API (required)")
	flag.Parse()

	if playlistAPI == "" {
		log.Fatal("missing playlist metadata API: pass -playlist-api URL or set STUDYSTREAM_PLAYLIST_API")
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatalf("create data dir: %v", err)
	}

	// Rotated file log alongside stderr.
	logWriter := io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   filepath.Join(dataDir, "studystream.log"),
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
	})
	slog.SetDefault(slog.New(slog.NewTextHandler(logWriter, nil)))
	log.SetOutput(logWriter)

	db, err := database.NewDB(database.Config{DatabasePath: filepath.Join(dataDir, "studystream.db")})
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	sessionsSvc, err := sessions.NewService(dataDir, sessions.DefaultSessionDuration)
	if err != nil {
		log.Fatalf("init sessions: %v", err)
	}

	accountsSvc := accounts.NewService(db.Users)
	schedulesSvc := schedules.NewService(db.Schedules)
	source := playlist.NewClient(playlistAPI, nil)

	router := utils.NewRouter()
	handlers.RegisterRoutes(router,
		handlers.NewAuthHandler(accountsSvc, sessionsSvc),
		handlers.NewSchedulesHandler(source, schedulesSvc),
		sessionsSvc,
	)

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("server listening on %s", listenAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-done
	log.Println("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = srv.Close()
	}
	log.Println("server stopped")
}
