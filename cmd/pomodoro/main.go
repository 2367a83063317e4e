package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	adapthttp "pomodoro/internal/adapter/http"
	"pomodoro/internal/adapter/postgres"
	"pomodoro/internal/app"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

func main() {
	addr := env("ADDR", ":8080")
	webDir := env("WEB_DIR", "web")

	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := postgres.Open(connStr)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	defer func() { _ = db.Close() }()

	authSessionRepo := postgres.NewAuthSessionRepo(db)

	sessionSvc := app.NewSessionService(db, db, db)
	statsSvc := app.NewStatsService(db)
	taskSvc := app.NewTaskService(db)
	settingsSvc := app.NewSettingsService(db)
	authSvc := app.NewAuthService(db, authSessionRepo)

	oidcCfg, err := oidcFromEnv()
	if err != nil {
		log.Fatalf("oidc setup: %v", err)
	}

	go sweepExpiredSessions(authSvc)

	h := adapthttp.New(sessionSvc, statsSvc, taskSvc, settingsSvc, authSvc, oidcCfg, webDir).Handler()
	log.Printf("listening on %s", addr)
	if err := http.ListenAndServe(addr, h); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func oidcFromEnv() (adapthttp.OIDCConfig, error) {
	issuer := os.Getenv("OIDC_ISSUER")
	if issuer == "" {
		return adapthttp.OIDCConfig{}, nil
	}

	provider, err := oidc.NewProvider(context.Background(), issuer)
	if err != nil {
		return adapthttp.OIDCConfig{}, err
	}
	return adapthttp.OIDCConfig{
		Enabled:  true,
		Provider: provider,
		OAuth2Config: &oauth2.Config{
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
			Endpoint:     provider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
	}, nil
}

func sweepExpiredSessions(authSvc *app.AuthService) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := authSvc.DeleteExpiredSessions(ctx); err != nil {
			log.Printf("session sweep: %v", err)
		}
		cancel()
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
