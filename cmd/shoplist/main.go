package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/shoplist/internal/backup"
	"github.com/dukerupert/shoplist/internal/database"
	"github.com/dukerupert/shoplist/internal/logging"
	"github.com/dukerupert/shoplist/internal/remote"
	"github.com/dukerupert/shoplist/internal/server"
)

const flushInterval = 30 * time.Second

func main() {
	logger := logging.Setup(os.Getenv("SHOPLIST_LOG_LEVEL"))

	port := os.Getenv("SHOPLIST_PORT")
	if port == "" {
		port = "8080"
	}

	dbPath := os.Getenv("SHOPLIST_DB_PATH")
	if dbPath == "" {
		dbPath = "shoplist.db"
	}

	remoteURL := os.Getenv("SHOPLIST_REMOTE_URL")

	backupCfg := backup.Config{
		S3: backup.S3Config{
			Endpoint:  os.Getenv("SHOPLIST_S3_ENDPOINT"),
			Bucket:    os.Getenv("SHOPLIST_S3_BUCKET"),
			Region:    os.Getenv("SHOPLIST_S3_REGION"),
			AccessKey: os.Getenv("SHOPLIST_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("SHOPLIST_S3_SECRET_KEY"),
		},
		Passphrase: os.Getenv("SHOPLIST_BACKUP_PASSPHRASE"),
	}

	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	srv := server.New(db, remoteURL, backupCfg, logger)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Replays the offline queue whenever the remote comes back.
	if remoteURL != "" {
		client := remote.NewClient(remoteURL, logger.With("component", "flush"))
		go flushLoop(ctx, srv, client, logger)
	}

	go func() {
		fmt.Printf("shoplist running at http://localhost:%s\n", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

// flushLoop periodically replays queued offline ops once the remote is
// reachable again. A failed flush leaves the queue intact for the next tick.
func flushLoop(ctx context.Context, srv *server.Server, client *remote.Client, logger *slog.Logger) {
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if len(srv.Store().Pending()) == 0 {
				continue
			}
			if !client.Online() {
				continue
			}
			if err := srv.Store().Flush(ctx, client.Send); err != nil {
				logger.Warn("background flush failed", "error", err)
			} else {
				logger.Info("offline queue flushed")
			}
		}
	}
}
