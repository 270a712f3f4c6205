package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"

	"github.com/kartclub/kartapi/config"
	"github.com/kartclub/kartapi/db"
	"github.com/kartclub/kartapi/handlers"
	applog "github.com/kartclub/kartapi/logger"
	mw "github.com/kartclub/kartapi/middleware"
)

func main() {
	cfg := config.Load()
	logger, err := applog.New(cfg.Debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	bdb := db.Setup(cfg)
	defer bdb.Close()

	if err := db.CreateTables(context.Background(), bdb); err != nil {
		logger.Fatal("create tables failed", zap.Error(err))
	}

	h := handlers.New(bdb, cfg.JWTKey())

	e := echo.New()
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod: true,
		LogURI:    true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.Int("status", v.Status),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			switch {
			case v.Status >= 500:
				logger.Error("http request", fields...)
			case v.Status >= 400:
				logger.Warn("http request", fields...)
			default:
				logger.Info("http request", fields...)
			}
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"*", "Authorization"},
		AllowCredentials: true,
	}))

	// Public
	api := e.Group("/api")
	api.POST("/rounds", h.CreateRound)
	api.GET("/rounds/:roundId", h.GetRound)
	api.POST("/rounds/:roundId/races/:raceIndex", h.SaveRace)
	api.POST("/rounds/:roundId/complete", h.CompleteRound)
	api.POST("/rounds/:roundId/overtime", h.SaveOvertime)
	api.GET("/players", h.ListPlayers)
	api.GET("/players/:playerId", h.GetPlayer)
	api.GET("/tracks", h.ListTracks)
	api.GET("/leaderboard", h.Leaderboard)

	// Admin – signin is public, everything else requires a valid JWT
	e.POST("/admin/signin", h.Signin)
	admin := e.Group("/admin", mw.JWT(cfg.JWTKey()))
	admin.GET("/players", h.AdminListPlayers)
	admin.POST("/players", h.CreatePlayer)
	admin.PATCH("/players/:playerId", h.UpdatePlayer)
	admin.DELETE("/players/:playerId", h.DeletePlayer)
	admin.POST("/tracks", h.CreateTrack)
	admin.GET("/rounds", h.AdminListRounds)
	admin.PATCH("/rounds/:roundId", h.UpdateRound)
	admin.DELETE("/rounds/:roundId", h.DeleteRound)

	if cfg.Debug {
		logger.Info("starting server", zap.String("mode", "debug"), zap.String("addr", cfg.Port))
		if err := e.Start(cfg.Port); err != nil {
			logger.Fatal("server exited", zap.Error(err))
		}
		return
	}

	autoTLS := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		Cache:      autocert.DirCache(".cache"),
		HostPolicy: autocert.HostWhitelist(cfg.TLSDomains...),
	}

	s := &http.Server{
		Addr:         ":443",
		Handler:      e,
		TLSConfig:    autoTLS.TLSConfig(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  15 * time.Second,
	}

	if err := s.ListenAndServeTLS("", ""); err != http.ErrServerClosed {
		logger.Error("tls server exited", zap.Error(err))
		os.Exit(1)
	}
}
