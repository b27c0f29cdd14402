package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"accountd/internal/config"
	"accountd/internal/mailer"
	"accountd/internal/observability/logging"
	"accountd/internal/observability/metrics"
	"accountd/internal/observability/middleware"
	"accountd/internal/service"
	impl "accountd/internal/service/impl"
	"accountd/internal/store"
	httpx "accountd/internal/transport/http"
	"accountd/pkg/db"
)

func main() {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	logger := logging.NewLogger(logging.Config{
		ServiceName: "accountd",
		Environment: env,
		Level:       os.Getenv("LOG_LEVEL"),
	})

	slog.SetDefault(logger)

	logger.Info("starting service")

	cfg := config.Load()
	metrics.MustRegister("accountd")

	gdb, err := db.OpenGorm(db.Config{DSN: cfg.DatabaseURL, LogSQL: cfg.LogSQL})
	if err != nil {
		logger.Error("gorm open", "error", err)
		os.Exit(1)
	}

	st := store.New(gdb)

	pw := impl.NewPasswordServiceArgon2id()

	ts := impl.NewTokenServiceHS256(impl.TokenConfig{
		Issuer:     cfg.Issuer,
		Audience:   cfg.Audience,
		AccessTTL:  cfg.AccessTTL,
		SigningKey: []byte(cfg.SigningKey),
	})

	var mail service.EmailService
	if cfg.PostmarkServerToken != "" {
		mail, err = mailer.NewPostmarkMailer(mailer.Config{
			ServerToken:  cfg.PostmarkServerToken,
			AccountToken: cfg.PostmarkAccountToken,
			From:         cfg.MailFrom,
		})
		if err != nil {
			logger.Error("postmark mailer", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Warn("no postmark token configured, using dev log mailer")
		mail = mailer.NewLogMailer()
	}

	as := impl.NewAuthServiceImpl(st, pw, ts, impl.NewDigitCodeGenerator(), mail, cfg.CodeTTL)

	mux := httpx.NewRouter(as, ts, httpx.RouterConfig{CORSOrigins: cfg.CORSOrigins})

	handler := middleware.WithRequestAndTrace(middleware.WithMetrics(mux))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("account service listening", "addr", srv.Addr, "issuer", cfg.Issuer)
	if err := srv.ListenAndServe(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
