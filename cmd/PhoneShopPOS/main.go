package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	https_server "github.com/Sunly24/Phone-Shop-POS-sub004/api/http"
	"github.com/Sunly24/Phone-Shop-POS-sub004/internal/config"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/redis"
	"github.com/Sunly24/Phone-Shop-POS-sub004/pkg/zlog"
)

func main() {
	conf := config.GetConfig()
	host := conf.MainConfig.Host
	port := conf.MainConfig.Port

	zlog.Init(conf.LogConfig.LogPath)

	if err := https_server.Scheduler.Start(); err != nil {
		zlog.Error("scheduler failed to start: " + err.Error())
	}

	go func() {
		addr := fmt.Sprintf("%s:%d", host, port)
		zlog.Info(fmt.Sprintf("server starting, listening on %s", addr))
		// Plain HTTP for now. Switch to GE.RunTLS once certificates are in place.
		if err := https_server.GE.Run(addr); err != nil {
			zlog.Fatal("server failed to start: " + err.Error())
			return
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server ...")
	https_server.Scheduler.Stop()
	if err := redis.Close(); err != nil {
		zlog.Error("redis close: " + err.Error())
	}
	zlog.Sync()
	zlog.Info("server stopped")
}
