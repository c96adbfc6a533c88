package module_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/tally/pkg/module"
)

func write(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(body))
	}
}

func TestNewPrefixValidation(t *testing.T) {
	for _, prefix := range []string{"/api", "/scalar"} {
		if m := module.New(prefix, http.NewServeMux()); m.Prefix() != prefix {
			t.Errorf("prefix: got %s, want %s", m.Prefix(), prefix)
		}
	}

	tests := []struct {
		name   string
		prefix string
	}{
		{"empty", ""},
		{"no leading slash", "api"},
		{"nested path", "/api/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Error("expected panic for invalid prefix")
				}
			}()
			module.New(tt.prefix, http.NewServeMux())
		})
	}
}

func TestServeStripsPrefix(t *testing.T) {
	var paths []string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
	})

	m := module.New("/api", mux)

	var middlewareCalls int
	m.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			middlewareCalls++
			next.ServeHTTP(w, r)
		})
	})

	for _, p := range []string{"/api/records/abc", "/api"} {
		m.Serve(httptest.NewRecorder(), httptest.NewRequest("GET", p, nil))
	}

	if len(paths) != 2 || paths[0] != "/records/abc" || paths[1] != "/" {
		t.Errorf("inner paths: got %v, want [/records/abc /]", paths)
	}
	if middlewareCalls != 2 {
		t.Errorf("middleware calls: got %d, want 2", middlewareCalls)
	}
}

func TestRouterDispatch(t *testing.T) {
	apiMux := http.NewServeMux()
	apiMux.HandleFunc("GET /files", write("files"))

	scalarMux := http.NewServeMux()
	scalarMux.HandleFunc("GET /{$}", write("scalar"))

	router := module.NewRouter()
	router.Mount(module.New("/api", apiMux))
	router.Mount(module.New("/scalar", scalarMux))
	router.HandleNative("GET /healthz", write("ok"))

	tests := []struct {
		name     string
		path     string
		wantBody string
	}{
		{"api module", "/api/files", "files"},
		{"trailing slash normalized", "/api/files/", "files"},
		{"scalar module root", "/scalar", "scalar"},
		{"native fallback", "/healthz", "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest("GET", tt.path, nil))

			if rec.Code != http.StatusOK {
				t.Errorf("status: got %d, want 200", rec.Code)
			}
			if body := rec.Body.String(); body != tt.wantBody {
				t.Errorf("body: got %s, want %s", body, tt.wantBody)
			}
		})
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unmatched path: got %d, want 404", rec.Code)
	}
}

func TestRouterMount(t *testing.T) {
	router := module.NewRouter()
	router.Mount(module.New("/scalar", http.NewServeMux()))
	router.Mount(module.New("/api", http.NewServeMux()))

	prefixes := router.Prefixes()
	if len(prefixes) != 2 || prefixes[0] != "/api" || prefixes[1] != "/scalar" {
		t.Errorf("prefixes: got %v, want [/api /scalar]", prefixes)
	}

	defer func() {
		if recover() == nil {
			t.Error("mounting a duplicate prefix should panic")
		}
	}()
	router.Mount(module.New("/api", http.NewServeMux()))
}
