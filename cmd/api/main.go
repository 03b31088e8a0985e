package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	contestrepo "github.com/quillhaven/contest-registry/internal/contest/repo"
	"github.com/quillhaven/contest-registry/internal/router"
	userrepo "github.com/quillhaven/contest-registry/internal/user/repo"
	"github.com/quillhaven/contest-registry/pkg/database"
	"github.com/quillhaven/contest-registry/pkg/queue"
	"github.com/quillhaven/contest-registry/pkg/utilities"
)

func main() {
	// load .env file if present so os.Getenv picks values from it
	// this is best-effort: if no .env exists, continue (use defaults or real env)
	_ = godotenv.Load()

	// init logger
	lg, err := utilities.InitLogger(utilities.LogConfigFromEnv())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Sync()

	sugar := lg.Sugar()
	sugar.Info("starting contest-registry")

	// init db
	cfg := database.ConfigFromEnv()
	sqlDB, err := database.Connect(cfg)
	if err != nil {
		sugar.Fatalf("db connect: %v", err)
	}
	defer sqlDB.Close()

	// wrap with sqlx for convenience in repos/services
	sqlxDB := sqlx.NewDb(sqlDB, "postgres")
	defer sqlxDB.Close()

	// ensure schema (users first, contest_participants references it)
	initCtx, cancelInit := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancelInit()
	if err := userrepo.NewUserRepo(sqlxDB).EnsureTable(initCtx); err != nil {
		sugar.Fatalf("ensure users table: %v", err)
	}
	if err := contestrepo.NewContestRepo(sqlxDB).EnsureTable(initCtx); err != nil {
		sugar.Fatalf("ensure contest tables: %v", err)
	}

	// init mail queue client; notification delivery is best-effort so an
	// unreachable queue at boot is a warning, not a startup failure
	mailCfg := queue.ConfigFromEnv()
	mail, err := queue.Connect(mailCfg)
	if err != nil {
		sugar.Warnf("mail queue unreachable at startup: %v", err)
		mail = queue.NewClient(mailCfg)
	}
	defer mail.Close()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = "0.0.0.0:8080"
	}

	// mount http server
	handler := router.RegisterRoutes(sugar, sqlxDB, mail, mailCfg)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// run server in background
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			sugar.Fatalf("http server failed: %v", err)
		}
	}()

	sugar.Infow("service is running; press Ctrl+C to stop", "addr", addr)

	<-ctx.Done()

	sugar.Info("shutting down")

	// give a short grace period for cleanup
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// ping db once more
	if err := sqlDB.PingContext(doneCtx); err != nil {
		sugar.Warnf("db ping on shutdown failed: %v", err)
	}

	// shutdown http server
	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
}
