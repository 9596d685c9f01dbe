package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/imf-ops/gadget-api/internal/api/handlers"
	mw "github.com/imf-ops/gadget-api/internal/api/middleware"
	"github.com/imf-ops/gadget-api/internal/api/types"
	appErr "github.com/imf-ops/gadget-api/pkg/errors"
)

type Dependencies struct {
	Verifier       mw.TokenVerifier
	DB             handlers.Pinger
	AuthHandler    *handlers.AuthHandler
	GadgetsHandler *handlers.GadgetsHandler
	// DocsURL is where the Swagger UI loads doc.json from.
	DocsURL string
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS)
	r.Use(chimid.Compress(5))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeRouteError(w, http.StatusNotFound, appErr.New(appErr.CodeNotFound, "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeRouteError(w, http.StatusMethodNotAllowed, appErr.New(appErr.CodeInvalid, "method not allowed"))
	})

	hh := handlers.NewHealthHandler(dep.DB)
	r.Get("/healthz", hh.Liveness)
	r.Get("/readyz", hh.Readiness)

	docsURL := dep.DocsURL
	if docsURL == "" {
		docsURL = "/api-docs/doc.json"
	}
	r.Get("/api-docs/*", httpSwagger.Handler(httpSwagger.URL(docsURL)))

	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/register", dep.AuthHandler.Register)
		ar.Post("/login", dep.AuthHandler.Login)
	})

	r.Group(func(protected chi.Router) {
		protected.Use(mw.Auth(dep.Verifier))

		protected.Route("/gadgets", func(gr chi.Router) {
			gr.Get("/", dep.GadgetsHandler.List)
			gr.Post("/", dep.GadgetsHandler.Create)
			gr.Get("/{id}", dep.GadgetsHandler.Get)
			gr.Patch("/{id}", dep.GadgetsHandler.Update)
			gr.Delete("/{id}", dep.GadgetsHandler.Decommission)
			gr.Post("/{id}/deploy", dep.GadgetsHandler.Deploy)
			gr.Post("/{id}/self-destruct", dep.GadgetsHandler.SelfDestruct)
		})
	})

	return r
}

func writeRouteError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.APIResponse{Success: false, Error: types.FromAppError(err)})
}
