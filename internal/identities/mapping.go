package identities

import (
	"net/url"
	"strings"

	"github.com/JaimeStill/tally/pkg/query"
	"github.com/JaimeStill/tally/pkg/repository"
)

const placeholderColumns = "id, name, external_id, email, created_at"

const accountColumns = "id, external_id, first_name, last_name, email, role, created_at"

var placeholderProjection = query.
	NewProjectionMap("public", "placeholders", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("external_id", "ExternalID").
	Project("email", "Email").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for placeholder queries.
// ExternalID uses exact matching; Name uses case-insensitive contains matching.
type Filters struct {
	ExternalID *string `json:"external_id,omitempty"`
	Name       *string `json:"name,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("ExternalID", f.ExternalID).
		WhereContains("Name", f.Name)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if eid := strings.TrimSpace(values.Get("external_id")); eid != "" {
		f.ExternalID = &eid
	}

	if n := values.Get("name"); n != "" {
		f.Name = &n
	}

	return f
}

func scanPlaceholder(s repository.Scanner) (Placeholder, error) {
	var p Placeholder
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.ExternalID,
		&p.Email,
		&p.CreatedAt,
	)
	return p, err
}

func scanAccount(s repository.Scanner) (Account, error) {
	var a Account
	err := s.Scan(
		&a.ID,
		&a.ExternalID,
		&a.FirstName,
		&a.LastName,
		&a.Email,
		&a.Role,
		&a.CreatedAt,
	)
	return a, err
}
