package openapi

import "net/http"

// Spec represents an OpenAPI 3.1 specification document.
type Spec struct {
	OpenAPI    string               `json:"openapi"`
	Info       *Info                `json:"info"`
	Servers    []*Server            `json:"servers,omitempty"`
	Tags       []*Tag               `json:"tags,omitempty"`
	Paths      map[string]*PathItem `json:"paths"`
	Components *Components          `json:"components,omitempty"`
}

// NewSpec creates a Spec with the given title, version, and default components.
func NewSpec(title, version string) *Spec {
	return &Spec{
		OpenAPI: "3.1.0",
		Info: &Info{
			Title:   title,
			Version: version,
		},
		Components: NewComponents(),
		Paths:      make(map[string]*PathItem),
	}
}

// AddServer appends a server URL to the spec.
func (s *Spec) AddServer(url string) {
	s.Servers = append(s.Servers, &Server{URL: url})
}

// AddTag declares an operation tag. Tags appear in declaration order.
func (s *Spec) AddTag(name, description string) {
	s.Tags = append(s.Tags, &Tag{Name: name, Description: description})
}

// AddPaths merges path items into the spec. A later item for an existing
// path replaces only the operations it sets.
func (s *Spec) AddPaths(paths map[string]*PathItem) {
	for path, item := range paths {
		existing, ok := s.Paths[path]
		if !ok {
			s.Paths[path] = item
			continue
		}
		if item.Get != nil {
			existing.Get = item.Get
		}
		if item.Post != nil {
			existing.Post = item.Post
		}
		if item.Put != nil {
			existing.Put = item.Put
		}
		if item.Delete != nil {
			existing.Delete = item.Delete
		}
	}
}

// SetDescription sets the API description in the info object.
func (s *Spec) SetDescription(desc string) {
	s.Info.Description = desc
}

// ServeSpec returns a handler that serves pre-serialized JSON spec bytes.
func ServeSpec(specBytes []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		w.Write(specBytes)
	}
}
