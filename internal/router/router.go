package router

import (
	"database/sql"
	"net/http"
	"os"

	mem "iv-drip-calculator/internal/adapters/storage/memory"
	pg "iv-drip-calculator/internal/adapters/storage/postgres"
	"iv-drip-calculator/internal/domain/calculations"
	"iv-drip-calculator/internal/domain/formulary"
	"iv-drip-calculator/internal/domain/sessions"
	"iv-drip-calculator/internal/middleware"
	"iv-drip-calculator/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

type Options struct {
	AuthVerifier auth.Verifier // puede ser nil (modo dev)

	// Opcional: repo de formulario ya construido (gana sobre DB).
	Formulary formulary.Repository

	// Opcional: si viene, el formulario se lee de Postgres.
	DB *sql.DB
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	formRepo := opts.Formulary
	if formRepo == nil {
		// Si no te pasan DB explícita, intenta por env (para dev/handoff)
		db := opts.DB
		if db == nil {
			if dsn := os.Getenv("DB_DSN"); dsn != "" {
				if opened, err := pg.Open(dsn); err == nil {
					db = opened
				}
			}
		}

		if db != nil {
			formRepo = pg.NewFormularyRepo(db)
		} else {
			formRepo = mem.NewFormularyRepo(formulary.DefaultProfiles())
		}
	}

	// Las sesiones son siempre in-memory: las selecciones no se persisten.
	formularySvc := formulary.NewService(formRepo)
	sessionsSvc := sessions.NewService(mem.NewSessionRepo(), formularySvc)

	// Rutas por módulo
	formulary.RegisterRoutes(r, formularySvc)
	calculations.RegisterRoutes(r, formularySvc)
	sessions.RegisterRoutes(r, sessionsSvc)

	return r
}
