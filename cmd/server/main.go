package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/seamshq/go-seams/internal/api"
	"github.com/seamshq/go-seams/internal/config"
	"github.com/seamshq/go-seams/internal/mailer"
	"github.com/seamshq/go-seams/internal/persist"
	"github.com/seamshq/go-seams/internal/rt"
	"github.com/seamshq/go-seams/internal/scheduler"
	"github.com/seamshq/go-seams/internal/seams"
	"github.com/seamshq/go-seams/internal/stats"
	"github.com/seamshq/go-seams/internal/store"
	"github.com/seamshq/go-seams/internal/token"
)

const defaultSigningKey = "wT0phFUusHZIrDhL9bUKPUhwaxKhpi/SaI6PtgB+MgU="

type stringSliceFlag []string

func (s *stringSliceFlag) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSliceFlag) Set(value string) error {
	*s = append(*s, strings.Split(value, ",")...)
	return nil
}

var (
	addr           string
	dataFile       string
	signingKey     string
	staticDir      string
	smtpAddr       string
	smtpUser       string
	smtpPass       string
	smtpFrom       string
	bootstrap      bool
	allowedOrigins stringSliceFlag
)

func main() {
	flag.StringVar(&addr, "addr", "localhost:8000", "server address")
	flag.StringVar(&dataFile, "data-file", "seams.json", "path to the persisted workspace file")
	flag.StringVar(&signingKey, "signing-key", defaultSigningKey, "base64 encoded signing key")
	flag.StringVar(&staticDir, "static-dir", "static", "directory served at /static/ for profile photos")
	flag.StringVar(&smtpAddr, "smtp-addr", "", "SMTP server address for password reset email")
	flag.StringVar(&smtpUser, "smtp-user", "", "SMTP username")
	flag.StringVar(&smtpPass, "smtp-pass", "", "SMTP password")
	flag.StringVar(&smtpFrom, "smtp-from", "", "from address for password reset email")
	flag.BoolVar(&bootstrap, "bootstrap", false, "create the data file if it does not exist")
	flag.Var(&allowedOrigins, "allowed-origins", "comma-separated list of allowed origins for CORS")
	flag.Parse()

	logger := log.New(os.Stderr, "[seams] ", log.LstdFlags)

	cfg, err := config.NewConfig(addr, dataFile, signingKey, allowedOrigins)
	if err != nil {
		logger.Fatal("config:", err)
	}
	cfg.StaticDir = staticDir
	cfg.SMTPAddr = smtpAddr
	cfg.SMTPUser = smtpUser
	cfg.SMTPPass = smtpPass
	cfg.SMTPFrom = smtpFrom

	st := store.NewStore()
	gateway := persist.NewGateway(cfg.DataFile)
	if bootstrap {
		if err := gateway.Bootstrap(); err != nil {
			logger.Fatal("bootstrap data file:", err)
		}
	}
	if err := gateway.Load(st); err != nil {
		logger.Fatal("load data file:", err)
	}

	codec := token.NewCodec(cfg.SigningKey, st)
	sched := scheduler.New(logger)

	mux := http.NewServeMux()

	statsUpdater := stats.NewStatsUpdater(logger, mux)
	for _, m := range seams.Metrics {
		statsUpdater.RegisterMetric(m)
	}

	hub := rt.NewHub(logger)

	var mail mailer.Mailer
	if cfg.SMTPAddr != "" {
		mail = &mailer.SMTPMailer{
			Addr:     cfg.SMTPAddr,
			From:     cfg.SMTPFrom,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
		}
	} else {
		mail = &mailer.LogMailer{Log: logger}
	}

	if err := os.MkdirAll(cfg.StaticDir, 0o755); err != nil {
		logger.Fatal("create static dir:", err)
	}
	photos := &seams.PhotoStore{Dir: cfg.StaticDir, Client: http.DefaultClient}

	app := seams.New(logger, st, codec, gateway, sched, statsUpdater, hub, mail, photos)

	srv := api.NewServer(mux, logger, app, hub, cfg)

	statsUpdater.Run()
	defer statsUpdater.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigs:
		logger.Printf("received signal: %s\n", sig)
	case err := <-errCh:
		logger.Println("server:", err)
	}

	shutDownCtx, cancel := context.WithTimeout(
		context.Background(),
		10*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutDownCtx); err != nil {
		logger.Fatalln("HTTP server shutdown:", err)
	}

	logger.Println("stopping delayed jobs...")
	sched.Shutdown()

	logger.Println("closing websocket clients...")
	hub.Shutdown()

	logger.Println("shutdown complete")
}
