// Command teachassist runs the teaching-assistant background service: it
// opens the local database, applies migrations and keeps the calendar sync
// loop running until interrupted.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"teachassist/internal/calendar/google"
	"teachassist/internal/config"
	"teachassist/internal/errs"
	"teachassist/internal/migrate"
	"teachassist/internal/repository/sqlite"
	"teachassist/internal/sync"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main parses configuration, runs migrations, and starts the calendar sync
// loop until interrupted.
func main() {
	// Flags
	cfgPath := flag.String("config", defaultConfigPath(), "path to config file")
	authorize := flag.Bool("authorize", false, "run the interactive Google authorization flow and exit")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("config", *cfgPath),
	)

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	tz, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Fatal("load timezone", zap.String("timezone", cfg.Timezone), zap.Error(err))
	}

	// Context with OS signals
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	oauthCfg := google.OAuthConfig(cfg.Calendar.ClientID, cfg.Calendar.ClientSecret, cfg.Calendar.RedirectURL)
	if *authorize {
		if err := runAuthorize(ctx, oauthCfg, cfg.DataDir); err != nil {
			logger.Fatal("authorize", zap.Error(err))
		}
		logger.Info("authorization complete")
		return
	}

	// Database
	db, err := sqlite.Open(cfg.DataDir)
	if err != nil {
		logger.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	if err := migrate.Up(ctx, db.DB); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	// Repositories
	planRepo := sqlite.NewLessonPlanRepo(db)
	classRepo := sqlite.NewClassRepo(db)
	settingsRepo := sqlite.NewSettingsRepo(db)

	// Calendar provider
	tokens, err := google.LoadTokenSource(ctx, oauthCfg, cfg.DataDir)
	if err != nil {
		if errors.Is(err, errs.ErrNotAuthenticated) {
			logger.Fatal("no cached Google token; run with -authorize first")
		}
		logger.Fatal("load token", zap.Error(err))
	}
	provider, err := google.NewClient(ctx, tokens, cfg.Calendar.CalendarID)
	if err != nil {
		logger.Fatal("calendar client", zap.Error(err))
	}

	// Sync loop
	syncer := sync.New(
		provider,
		planRepo,
		classRepo,
		sync.NewSettingsLoader(settingsRepo),
		time.Duration(cfg.Calendar.SyncIntervalMinutes)*time.Minute,
		tz,
		logger,
	)
	if err := syncer.Start(ctx); err != nil {
		logger.Fatal("start sync", zap.Error(err))
	}

	<-ctx.Done()
	syncer.Stop()
	logger.Info("shutdown complete")
}

// runAuthorize prints the consent URL, reads the verification code from
// stdin and caches the exchanged token.
func runAuthorize(ctx context.Context, oauthCfg *oauth2.Config, dataDir string) error {
	url := oauthCfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Open the following link in your browser, then paste the code:\n%s\n> ", url)

	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		return errors.New("no code entered")
	}
	tok, err := oauthCfg.Exchange(ctx, sc.Text())
	if err != nil {
		return fmt.Errorf("exchange code: %w", err)
	}
	return google.SaveToken(dataDir, tok)
}

func defaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "teachassist.yaml"
	}
	return filepath.Join(base, "teachassist", "config.yaml")
}
