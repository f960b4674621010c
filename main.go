package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snowarena/game"
	"snowarena/server"
)

// SnowArena 入口：加载地图，启动 HTTP + WebSocket 服务与默认房间
func main() {
	cfg, err := server.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if err := server.InitLogger(cfg.LogFile, cfg.LogLevel, cfg.LogStdout); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	// 地图只在启动时加载并校验一次
	tm, err := cfg.LoadMap()
	if err != nil {
		server.Log.Fatalf("load map: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rm := server.NewRoomManager(ctx, tm, game.DefaultRegistry(), cfg.WorldConfig())
	// 先预创建一个默认房间，便于快速试跑
	_ = rm.GetOrCreateRoom(server.DefaultRoom)

	srv := &http.Server{Addr: cfg.Addr, Handler: rm.Routes(cfg.StaticDir)}

	go func() {
		server.Log.Infof("SnowArena listening on %s (map %dx%d)", cfg.Addr, tm.Cols(), tm.Rows())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	<-ctx.Done()
	server.Log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
