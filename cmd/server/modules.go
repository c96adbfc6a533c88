package main

import (
	"net/http"

	"github.com/JaimeStill/tally/internal/api"
	"github.com/JaimeStill/tally/internal/config"
	"github.com/JaimeStill/tally/internal/infrastructure"
	"github.com/JaimeStill/tally/pkg/handlers"
	"github.com/JaimeStill/tally/pkg/middleware"
	"github.com/JaimeStill/tally/pkg/module"
	"github.com/JaimeStill/tally/web/scalar"
)

type Modules struct {
	API    *module.Module
	Scalar *module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}

	scalarModule, err := scalar.NewModule(
		"/scalar",
		cfg.API.BasePath+"/openapi.json",
		cfg.API.OpenAPI.Title,
	)
	if err != nil {
		return nil, err
	}
	scalarModule.Use(middleware.Logger(infra.Logger))

	return &Modules{
		API:    apiModule,
		Scalar: scalarModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.Scalar)
}

type readiness struct {
	Status  string          `json:"status"`
	Systems map[string]bool `json:"systems"`
}

func buildRouter(infra *infrastructure.Infrastructure) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		body := readiness{
			Status: "ready",
			Systems: map[string]bool{
				"database": infra.Database.Ready(),
				"storage":  infra.Storage.Ready(),
			},
		}

		status := http.StatusOK
		if !infra.Lifecycle.Ready() {
			body.Status = "not ready"
			status = http.StatusServiceUnavailable
		}
		handlers.RespondJSON(w, status, body)
	})

	return router
}
