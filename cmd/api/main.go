package main

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	"dog-registry/internal/adapters/auth/token"
	oaiclf "dog-registry/internal/adapters/classifier/openai"
	pg "dog-registry/internal/adapters/storage/postgres"
	"dog-registry/internal/config"
	"dog-registry/internal/platform/logger"
	"dog-registry/internal/router"
)

// @title Dog Registry API
// @version 1.0
// @description API del registro de perros con clasificación de seguridad.
// @BasePath /
func main() {
	log := logger.NewFromEnv()

	cfg, err := config.LoadAPI()
	if err != nil {
		log.Error("invalid config", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	var db *sql.DB
	if cfg.DBDSN != "" {
		db, err = pg.Open(cfg.DBDSN)
		if err != nil {
			log.Error("postgres connection failed", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
	} else {
		log.Warn("DB_DSN not set, using in-memory repos with sample data", nil)
	}

	tokenSvc := token.NewService(cfg.JWTSecret, cfg.TokenTTL)

	r := router.NewRouter(router.Options{
		AuthVerifier: tokenSvc,
		TokenIssuer:  tokenSvc,
		Predictor: oaiclf.NewClient(oaiclf.Config{
			APIKey: cfg.OpenAIKey,
			Model:  cfg.OpenAIModel,
		}),
		DB: db,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second, // la clasificación puede tardar
	}

	log.Info("starting server", map[string]any{"addr": srv.Addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
