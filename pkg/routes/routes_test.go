package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/tally/pkg/routes"
)

func mark(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Route", name)
		w.WriteHeader(http.StatusOK)
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux,
		routes.Group{
			Prefix: "/files",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: mark("list")},
				{Method: "GET", Pattern: "/{id}", Handler: mark("find")},
			},
		},
		routes.Group{
			Prefix: "/files",
			Routes: []routes.Route{
				{Method: "POST", Pattern: "/{id}/ingest", Handler: mark("ingest")},
			},
		},
	)

	tests := []struct {
		name   string
		method string
		path   string
		want   string
	}{
		{"list", "GET", "/files", "list"},
		{"find", "GET", "/files/123", "find"},
		{"second group under same prefix", "POST", "/files/123/ingest", "ingest"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Fatalf("status: got %d, want 200", rec.Code)
			}
			if got := rec.Header().Get("X-Route"); got != tt.want {
				t.Errorf("route: got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNestedGroups(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(mux, routes.Group{
		Prefix: "/identities",
		Children: []routes.Group{
			{
				Prefix: "/placeholders",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/{id}", Handler: mark("placeholder")},
				},
			},
			{
				Prefix: "/accounts",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "/{external_id}", Handler: mark("account")},
				},
			},
		},
	})

	for path, want := range map[string]string{
		"/identities/placeholders/abc": "placeholder",
		"/identities/accounts/111":     "account",
	} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))

		if got := rec.Header().Get("X-Route"); got != want {
			t.Errorf("%s: got route %q, want %q", path, got, want)
		}
	}
}

func TestPatterns(t *testing.T) {
	got := routes.Patterns(
		routes.Group{
			Prefix: "/records",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: mark("list")},
				{Method: "POST", Pattern: "/search", Handler: mark("search")},
			},
		},
		routes.Group{
			Prefix: "/identities",
			Children: []routes.Group{
				{
					Prefix: "/accounts",
					Routes: []routes.Route{
						{Method: "GET", Pattern: "/{external_id}", Handler: mark("account")},
					},
				},
			},
		},
	)

	want := []string{
		"GET /records",
		"POST /records/search",
		"GET /identities/accounts/{external_id}",
	}

	if len(got) != len(want) {
		t.Fatalf("patterns: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pattern %d: got %q, want %q", i, got[i], want[i])
		}
	}
}
