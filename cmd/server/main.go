// cmd/server/main.go
package main

import (
	"context"
	"net/http"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/huehuehyu/leastcount/internal/auth"
	"github.com/huehuehyu/leastcount/internal/config"
	"github.com/huehuehyu/leastcount/internal/database"
	"github.com/huehuehyu/leastcount/internal/handlers"
	"github.com/huehuehyu/leastcount/internal/history"
	"github.com/huehuehyu/leastcount/internal/middleware"
	"github.com/huehuehyu/leastcount/internal/room"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	if cfg.PrivateKeyPath != "" && cfg.PublicKeyPath != "" {
		err = auth.InitFromPath(cfg.PrivateKeyPath, cfg.PublicKeyPath, cfg.TokenExpireTime)
	} else {
		err = auth.Init(cfg.TokenExpireTime)
	}
	if err != nil {
		logger.Fatalf("init auth: %v", err)
	}

	rooms := room.NewStore(logger)
	srv := handlers.NewServer(rooms, logger)
	srv.TurnDuration = cfg.TurnTimeout
	srv.DefaultScoreLimit = cfg.DefaultScoreLimit

	if cfg.RedisAddr != "" {
		pub, err := history.New(cfg.RedisAddr, cfg.HistoryQueue, logger)
		if err != nil {
			logger.Fatalf("connect history redis: %v", err)
		}
		defer pub.Close()
		srv.History = pub
		logger.Infof("action history enabled via %s", cfg.RedisAddr)
	}

	if cfg.DatabaseURL != "" {
		results, err := database.Connect(context.Background(), cfg.DatabaseURL, logger)
		if err != nil {
			logger.Fatalf("connect database: %v", err)
		}
		defer results.Close()
		srv.Results = results
		logger.Info("match result persistence enabled")
	}

	logMW := middleware.LogMiddleware(logger)

	mux := http.NewServeMux()

	// room endpoints
	mux.Handle("/room/create", logMW(http.HandlerFunc(srv.CreateRoomHandler)))
	mux.Handle("/room/join", logMW(http.HandlerFunc(srv.JoinRoomHandler)))
	mux.Handle("/room/list", logMW(http.HandlerFunc(srv.ListRoomsHandler)))
	mux.Handle("GET /room/{id}", logMW(http.HandlerFunc(srv.GetRoomHandler)))

	// room websocket
	mux.Handle("GET /room/ws/{id}", http.HandlerFunc(srv.RoomWSHandler))

	logger.Infof("Running on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		logger.Fatalf("server exited: %v", err)
	}
}
