package api

import (
	"net/http"

	"github.com/JaimeStill/tally/internal/config"
	"github.com/JaimeStill/tally/pkg/openapi"
	"github.com/JaimeStill/tally/pkg/routes"
)

// Routes returns the route groups of every domain system. Ingestion routes
// share the /files prefix with the source file routes.
func Routes(domain *Domain, cfg *config.Config) []routes.Group {
	groups := []routes.Group{
		domain.SourceFiles.Handler().Routes(),
		domain.Identities.Handler().Routes(),
		domain.Records.Handler().Routes(),
	}
	return append(groups, domain.Ingestion.Handler(cfg.API.MaxUploadSizeBytes()).Routes()...)
}

func registerRoutes(mux *http.ServeMux, domain *Domain, cfg *config.Config) (int, error) {
	groups := Routes(domain, cfg)
	routes.Register(mux, groups...)

	spec, err := openapi.MarshalJSON(NewSpec(cfg))
	if err != nil {
		return 0, err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))

	return len(routes.Patterns(groups...)), nil
}
