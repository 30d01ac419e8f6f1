package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Werneck0live/company-registration/internal/admin"
	"github.com/Werneck0live/company-registration/internal/broker"
	"github.com/Werneck0live/company-registration/internal/config"
	"github.com/Werneck0live/company-registration/internal/handlers"
	"github.com/Werneck0live/company-registration/internal/lookup"
	"github.com/Werneck0live/company-registration/internal/session"
	"github.com/Werneck0live/company-registration/internal/submit"
	"github.com/Werneck0live/company-registration/internal/utils"
	"github.com/Werneck0live/company-registration/internal/validation"
)

type submitter interface {
	handlers.Submitter
	Close() error
}

// cmd/api/main.go
func main() {
	// HOOK: tarefa administrativa avulsa
	task := flag.String("task", "", "admin task: precheck")
	file := flag.String("file", "", "precheck: JSON array of forms (default: embedded sample)")
	flag.Parse()

	cfg, err := config.Load() // .env
	if err != nil {
		slog.Error("config_error", "err", err)
		os.Exit(2)
	}

	// Logger JSON "global" - permite usar slog.Info/slog.Error/Warn em qualquer lugar
	log := config.InitLogger(cfg.LogLevel)

	catalog, err := validation.LoadCatalog(cfg.Locale)
	if err != nil {
		log.Error("catalog_error", "err", err)
		os.Exit(2)
	}
	v := validation.New(cfg.FormPolicy, catalog)

	if *task != "" {
		switch *task {
		case "precheck":
			os.Exit(runPrecheck(*file, v, cfg, log))
		default:
			log.Error("unknown_admin_task", "task", *task)
			os.Exit(2)
		}
	}

	log.Info("starting", "port", cfg.Port, "policy", cfg.FormPolicy, "locale", cfg.Locale,
		"transport", cfg.SubmitTransport, "address_shape", cfg.Payload.Address, "fiscal_key", cfg.Payload.FiscalKey)

	sub, stopSub, err := newSubmitter(cfg, log)
	if err != nil {
		log.Error("submitter_error", "transport", cfg.SubmitTransport, "err", err)
		os.Exit(1)
	}
	defer stopSub()

	// publisher (Rabbit)
	pub, err := broker.NewPublisher(cfg.RabbitURI, cfg.RabbitQueue)
	if err != nil {
		log.Error("rabbitmq_connect_error", "err", err)
		os.Exit(1)
	}
	defer pub.Close()

	h := handlers.NewCompanyHandler(v, cfg.Payload, sub, pub, lookup.NewClient(cfg.ZipcloudURL, cfg.LookupTimeout), log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = utils.JSONSerializer{}
	e.HTTPErrorHandler = utils.HTTPErrorHandler
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.CORS())
	e.Use(utils.EchoRequestLogger(log))
	h.Register(e)

	e.Server.ReadHeaderTimeout = cfg.ReadHeaderTimeout

	// sobe o servidor
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server_error", "err", err)
			os.Exit(1)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("graceful_shutdown_error", "err", err)
	}
	log.Info("stopped")
}

// newSubmitter monta o transporte escolhido. O retorno stop libera conexões e timers.
func newSubmitter(cfg *config.Config, log *slog.Logger) (submitter, func(), error) {
	switch cfg.SubmitTransport {
	case config.TransportNATS:
		c, err := submit.NewNATSClient(cfg.NATSURL, cfg.NATSSubject, cfg.SubmitTimeout)
		if err != nil {
			return nil, nil, err
		}
		return c, func() { _ = c.Close() }, nil

	default:
		sess := session.New(session.Config{
			BaseURL:  cfg.AuthBaseURL,
			Username: cfg.AuthUsername,
			Password: cfg.AuthPassword,
			Logger:   log,
		})
		// login antecipado; se falhar, Token tenta de novo no primeiro envio
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := sess.Initialize(ctx); err != nil {
			log.Warn("session_initialize_failed", "err", err)
		}
		cancel()

		c := submit.NewGraphQLClient(cfg.GraphQLURL, cfg.SubmitTimeout, sess)
		return c, func() {
			_ = c.Close()
			sess.Stop()
		}, nil
	}
}

func runPrecheck(path string, v *validation.Validator, cfg *config.Config, log *slog.Logger) int {
	data := admin.SampleForms
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			log.Error("precheck_read_error", "file", path, "err", err)
			return 2
		}
		data = b
	}

	sum, err := admin.PrecheckForms(data, v, cfg.Payload, log)
	if err != nil {
		log.Error("precheck_failed", "err", err)
		return 2
	}
	if !sum.OK() {
		return 1
	}
	return 0
}
