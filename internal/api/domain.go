package api

import (
	"github.com/JaimeStill/tally/internal/config"
	"github.com/JaimeStill/tally/internal/identities"
	"github.com/JaimeStill/tally/internal/ingestion"
	"github.com/JaimeStill/tally/internal/records"
	"github.com/JaimeStill/tally/internal/sourcefiles"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	SourceFiles sourcefiles.System
	Identities  identities.System
	Records     records.System
	Ingestion   ingestion.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime, cfg *config.Config) *Domain {
	db := runtime.Database.Connection()

	filesSystem := sourcefiles.New(
		db,
		runtime.Storage,
		runtime.Logger,
		runtime.Pagination,
	)

	ingestionSystem := ingestion.New(
		filesSystem,
		ingestion.NewStore(db, cfg.Ingestion.ConflictRetries),
		cfg.Ingestion,
		runtime.Logger,
	)

	return &Domain{
		SourceFiles: filesSystem,
		Identities:  identities.New(db, runtime.Logger, runtime.Pagination),
		Records:     records.New(db, runtime.Logger, runtime.Pagination),
		Ingestion:   ingestionSystem,
	}
}
