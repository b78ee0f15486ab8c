package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/Mega-Barrel/youtube-profile-stats/fetcher"
	"github.com/Mega-Barrel/youtube-profile-stats/handler"
	"github.com/Mega-Barrel/youtube-profile-stats/model"
	"github.com/Mega-Barrel/youtube-profile-stats/storage"
	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

func main() {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(os.Stderr))

	// optional, the environment itself takes precedence
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Error("unable to load .env file", err)
		os.Exit(1)
	}

	apiKey := getParam("YOUTUBE_API_KEY", "")
	if apiKey == "" {
		logger.Error("missing youtube api key", errors.New("YOUTUBE_API_KEY is not set"))
		os.Exit(1)
	}

	postgres, err := storage.NewPostgres(storage.PostgresInfo{
		Host:     getParam("POSTGRES_HOST", "localhost"),
		Port:     getParam("POSTGRES_PORT", "5432"),
		User:     getParam("POSTGRES_USER", "ytstats"),
		Password: getParam("POSTGRES_PASSWORD", "ytstats"),
		Database: getParam("POSTGRES_DB", "ytstats"),
	})
	if err != nil {
		logger.Error("unable to connect to postgres", err)
		os.Exit(1)
	}
	trackedRepo := storage.NewPostgresTrackedChannelRepository(postgres)
	recordRepo := storage.NewPostgresChannelRecordRepository(postgres)
	gateway := storage.NewGateway(trackedRepo, recordRepo, logger)

	yt := fetcher.NewYoutube(apiKey, logger)
	watcher := fetcher.NewWatcher(yt, gateway, recordRepo, logger)

	// handles on the command line mean a one-shot run
	if len(os.Args) > 1 {
		os.Exit(watchOnce(ctx, watcher, os.Args[1:], logger))
	}

	fetchInterval, err := time.ParseDuration(getParam("FETCH_INTERVAL", "1h"))
	if err != nil {
		logger.Error("unable to parse fetch interval", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(ctx)
	go watcher.Run(ctx, fetchInterval)
	logger.Info("watch service started")

	port, err := strconv.Atoi(getParam("API_PORT", "8080"))
	if err != nil {
		logger.Error("invalid port", err)
		os.Exit(1)
	}
	go http.ListenAndServe(fmt.Sprintf(":%d", port), handler.NewServer(handler.NewChannelAPI(trackedRepo, recordRepo, logger), logger))
	logger.Info("http server started")

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt)
	<-done
	cancel()

	logger.Info("service stopped")
}

func watchOnce(ctx context.Context, watcher *fetcher.Watcher, args []string, logger *slog.Logger) int {
	failed := 0
	for _, arg := range args {
		handle := model.NewHandle(arg)
		if handle.IsEmpty() {
			logger.Error("skipping empty handle", errors.New("handle is empty"))
			failed++
			continue
		}
		if err := watcher.Watch(ctx, handle); err != nil {
			logger.Error("channel watch failed", err, slog.String("handle", string(handle)))
			failed++
		}
	}

	fmt.Println("Finished executing script")
	if failed > 0 {
		return 1
	}

	return 0
}

func getParam(param, def string) string {
	if val, ok := os.LookupEnv(param); ok {
		return val
	}
	return def
}
