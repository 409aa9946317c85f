package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"library-api/internal/platform/auth"
	"library-api/internal/platform/config"
	"library-api/internal/platform/db"
	"library-api/internal/platform/logging"
	"library-api/internal/server"
)

// @title        Library API
// @version      1.0
// @BasePath     /api
// @securityDefinitions.apikey Bearer
// @in           header
// @name         Authorization
func main() {
	// 設定読み込み
	path := os.Getenv("LIBRARY_CONFIG")
	if path == "" {
		path = config.DefaultPath
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	if err := logging.Setup(cfg.Log); err != nil {
		logrus.WithError(err).Fatal("setup logging")
	}
	logrus.WithFields(logrus.Fields{"mode": cfg.Mode, "version": cfg.Version}).Info("starting library-api")

	conn, err := db.Connect(cfg.DB)
	if err != nil {
		logrus.WithError(err).Fatal("connect db")
	}
	defer conn.Close()
	logrus.WithFields(logrus.Fields{"driver": cfg.DB.Driver, "dbname": cfg.DB.DBName}).Info("connected to DB")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(ctx, conn); err != nil {
		cancel()
		logrus.WithError(err).Fatal("migrate")
	}
	authSvc := auth.NewService(conn, cfg.Auth)
	if cfg.Auth.Enabled {
		if err := authSvc.EnsureAdmin(ctx, cfg.Auth.AdminID, cfg.Auth.AdminPassword); err != nil {
			cancel()
			logrus.WithError(err).Fatal("bootstrap admin")
		}
	}
	cancel()

	if cfg.Mode == config.ModeRelease {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           server.NewRouter(cfg, conn, authSvc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		var err error
		if cfg.TLSEnabled() {
			logrus.Infof("listening on https://%s", cfg.HTTP.Addr)
			err = srv.ListenAndServeTLS(cfg.Certificate.Cert, cfg.Certificate.Key)
		} else {
			logrus.Infof("listening on http://%s", cfg.HTTP.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("listen")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down...")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("shutdown")
	}
}
