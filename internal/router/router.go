package router

import (
	"context"
	"database/sql"
	"net/http"

	oaiclf "dog-registry/internal/adapters/classifier/openai"
	mem "dog-registry/internal/adapters/storage/memory"
	pg "dog-registry/internal/adapters/storage/postgres"
	"dog-registry/internal/domain/dogs"
	"dog-registry/internal/domain/users"
	"dog-registry/internal/middleware"
	"dog-registry/internal/ports/auth"
	"dog-registry/internal/ports/classifier"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "dog-registry/docs"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	TokenIssuer  auth.TokenIssuer
	Predictor    classifier.Predictor

	// Opcional: si viene, usa Postgres. Si no, in-memory con seed.
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

	var (
		dogRepo  dogs.Repository
		userRepo users.Repository
	)

	if opts.DB != nil {
		dogRepo = pg.NewDogsRepo(opts.DB)
		userRepo = pg.NewUsersRepo(opts.DB)
	} else {
		dogRepo = mem.NewDogRepo()
		userRepo = mem.NewUserRepo()
		// seed solo en memoria; en Postgres los datos ya viven en la DB
		_ = mem.Seed(context.Background(), dogRepo, userRepo)
	}

	predictor := opts.Predictor
	if predictor == nil {
		predictor = oaiclf.NewClient(oaiclf.Config{})
	}

	// Services por módulo
	dogsSvc := dogs.NewService(dogRepo, predictor)
	usersSvc := users.NewService(userRepo, opts.TokenIssuer)

	// Rutas por módulo
	users.RegisterRoutes(r, usersSvc)
	dogs.RegisterRoutes(r, dogsSvc)

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
