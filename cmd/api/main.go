package main

import (
	"context"
	"net/http"
	"os"

	"iv-drip-calculator/internal/adapters/auth/remote"
	mem "iv-drip-calculator/internal/adapters/storage/memory"
	pg "iv-drip-calculator/internal/adapters/storage/postgres"
	"iv-drip-calculator/internal/config"
	"iv-drip-calculator/internal/domain/formulary"
	"iv-drip-calculator/internal/platform/logger"
	"iv-drip-calculator/internal/ports/auth"
	"iv-drip-calculator/internal/router"
)

func main() {
	log := logger.NewFromEnv()

	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	profiles, err := cfg.Profiles()
	if err != nil {
		log.Fatal().Err(err).Msg("build formulary")
	}

	var verifier auth.Verifier
	if v, ok := remote.NewFromEnv(); ok {
		verifier = v
		log.Info().Msg("auth: remote verifier enabled")
	} else {
		log.Warn().Msg("auth: no verifier configured, dev mode (X-Debug-User-ID)")
	}

	// Formulario: Postgres si hay DSN, si no memoria desde config.
	var formRepo formulary.Repository
	memRepo := mem.NewFormularyRepo(profiles)
	formRepo = memRepo

	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		db, err := pg.Open(dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("open postgres")
		}
		defer db.Close()
		formRepo = pg.NewFormularyRepo(db)
		log.Info().Msg("formulary: postgres")
	} else {
		log.Info().Int("drugs", len(profiles)).Msg("formulary: in-memory")

		// Hot-reload del formulario solo en modo memoria.
		if cfgPath != "" {
			go func() {
				err := config.Watch(context.Background(), cfgPath, log, func(c *config.Config) {
					ps, err := c.Profiles()
					if err != nil {
						log.Error().Err(err).Msg("config: invalid formulary on reload")
						return
					}
					memRepo.Replace(ps)
					log.Info().Int("drugs", len(ps)).Msg("formulary: replaced from config")
				})
				if err != nil {
					log.Error().Err(err).Msg("config: watch stopped")
				}
			}()
		}
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		Formulary:    formRepo,
	})

	addr := cfg.Server.Addr
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	log.Info().Str("addr", addr).Msg("starting server")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server error")
	}
}
