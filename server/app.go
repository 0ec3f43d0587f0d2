package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hygio/config"
	"hygio/internal/alerts"
	"hygio/internal/api"
	"hygio/internal/auth"
	"hygio/internal/blob"
	"hygio/internal/db"
	"hygio/internal/health"
	"hygio/internal/logs"
	"hygio/internal/middleware"
	"hygio/internal/models"
	"hygio/internal/records"
	"hygio/internal/repo"
	"hygio/internal/watchdog"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type App struct {
	cfg        *config.Config
	db         *gorm.DB
	Router     *mux.Router
	httpServer *http.Server
	watchdog   *watchdog.Watchdog

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg

	/* 1) Логи */
	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	/* 2) DB — хэндл один, живёт столько же, сколько процесс;
	   никакой ленивой инициализации по первому обращению */
	d, err := db.Open(a.cfg.Database.Driver, a.cfg.Database.DSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	a.db = d

	if err := a.db.AutoMigrate(
		&models.Identity{},
		&models.TemperatureRecord{},
		&models.Equipment{},
		&models.MediaRecord{},
		&models.Alert{},
	); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	/* 3) Blob-хранилище */
	blobs, err := blob.New(context.Background(), a.cfg)
	if err != nil {
		log.Fatalf("blob store init failed: %v", err)
	}

	/* 4) Хранилища и менеджеры */
	idents := repo.NewIdentityStore(a.db)
	temps := repo.NewTemperatureStore(a.db)
	equips := repo.NewEquipmentStore(a.db)
	media := repo.NewMediaStore(a.db)
	alertStore := repo.NewAlertStore(a.db)

	secret := []byte(a.cfg.Auth.JWTSecret)
	h := &api.Handler{
		Auth:         auth.NewService(idents, secret, a.cfg.Auth.TokenTTL),
		Temperatures: records.NewTemperatures(temps, idents),
		Equipments:   records.NewEquipments(equips),
		Media:        records.NewMedia(media, idents, blobs),
		Alerts:       alerts.New(alertStore),
	}

	/* 5) Watchdog ежедневной проверки */
	loc, err := time.LoadLocation(a.cfg.Watchdog.Timezone)
	if err != nil {
		log.Fatalf("bad watchdog timezone %q: %v", a.cfg.Watchdog.Timezone, err)
	}
	a.watchdog = watchdog.New(idents, temps, alertStore, loc, a.cfg.Watchdog.Hour)

	/* 6) Router + middleware */
	a.Router = mux.NewRouter().StrictSlash(true)
	a.Router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
	)

	/* 7) Health */
	health.RegisterRoutesWithDB(a.Router, a.db) // /healthz, /readyz

	api.RegisterRoutes(a.Router, h, secret)

	/* (необязательно) вывести известные маршруты в лог при старте */
	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		log.Printf("route: %-6v %s", methods, path)
		return nil
	})
}

// RunComplianceCheck — ручной одноразовый прогон за конкретный день
// (для оперативного перезапуска с CLI). Повторный прогон безопасен.
func (a *App) RunComplianceCheck(day time.Time) error {
	rep, err := a.watchdog.RunDailyCheck(context.Background(), day)
	if rep != nil {
		logs.Logger.Infof("compliance check day=%s checked=%d alerted=%d skipped=%d",
			rep.Day, rep.Checked, rep.Alerted, rep.Skipped)
	}
	return err
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return fmt.Errorf("server not initialized")
	}

	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		logs.Logger.Infof("shutdown signal: %s", s)
		a.cancel()
	}()

	if a.cfg.Watchdog.Enabled {
		a.watchdog.Start()
	}

	// Жёсткие таймауты — это важно для production
	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logs.Logger.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Logger.Fatalf("http server error: %v", err)
		}
	}()

	<-a.ctx.Done()

	if a.cfg.Watchdog.Enabled {
		a.watchdog.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("http shutdown: %v", err)
	}
	return nil
}
