package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/tally/internal/identities"
	"github.com/JaimeStill/tally/internal/sourcefiles"
)

type service struct {
	files        sourcefiles.System
	store        Store
	cfg          Config
	materializer *Materializer
	logger       *slog.Logger
}

// New creates the ingestion system. files provides source file metadata and
// payloads; store provides the transaction each run executes in.
func New(
	files sourcefiles.System,
	store Store,
	cfg Config,
	logger *slog.Logger,
) System {
	cfg.loadDefaults()
	return &service{
		files:        files,
		store:        store,
		cfg:          cfg,
		materializer: NewMaterializer(cfg.DateLayouts),
		logger:       logger.With("system", "ingestion"),
	}
}

func (s *service) Handler(maxUploadSize int64) *Handler {
	return NewHandler(s, s.logger, maxUploadSize)
}

func (s *service) Upload(ctx context.Context, cmd sourcefiles.CreateCommand) (*sourcefiles.SourceFile, error) {
	if _, err := DetectFormat(cmd.Filename); err != nil {
		return nil, err
	}
	return s.files.Create(ctx, cmd)
}

func (s *service) Ingest(ctx context.Context, id uuid.UUID) (*Result, error) {
	start := time.Now()

	file, err := s.files.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if file.Processed {
		return nil, sourcefiles.ErrAlreadyProcessed
	}

	data, err := s.files.Payload(ctx, file)
	if err != nil {
		return nil, err
	}

	table, err := Decode(data, file.Filename)
	if err != nil {
		return nil, err
	}

	if err := Validate(table); err != nil {
		return nil, err
	}

	s.logger.Info(
		"ingestion started",
		"file", id,
		"filename", file.Filename,
		"rows", len(table.Rows),
	)

	var result Result
	err = s.store.InTx(ctx, func(sess Session) error {
		r, err := s.run(ctx, sess, id, table)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		s.logger.Warn("ingestion aborted", "file", id, "error", err)
		return nil, err
	}

	result.DurationMS = time.Since(start).Milliseconds()

	s.logger.Info(
		"ingestion completed",
		"file", id,
		"records", result.RecordsCreated,
		"placeholders_created", result.PlaceholdersCreated,
		"duration", time.Since(start),
	)

	return &result, nil
}

// run materializes every row of table and closes the ledger for file.
// Any error rolls back the whole transaction.
func (s *service) run(ctx context.Context, sess Session, file uuid.UUID, table *Table) (Result, error) {
	result := Result{FileID: file}

	if _, err := sess.Claim(ctx, file); err != nil {
		return result, err
	}

	resolver := identities.NewResolver(sess.Identities(), s.cfg.PlaceholderName)

	for i, row := range table.Rows {
		line := table.Line(i)
		externalID, name := Subject(row)

		res, err := resolver.Resolve(ctx, externalID, name)
		if err != nil {
			return result, fmt.Errorf("row %d: %w", line, err)
		}

		if p, ok := res.(identities.Provisional); ok && p.Created {
			s.logger.Debug("placeholder created", "external_id", externalID, "id", p.Placeholder.ID)
		}

		rec, err := s.materializer.Build(line, row, res, file)
		if err != nil {
			return result, err
		}

		if _, err := sess.InsertRecord(ctx, rec); err != nil {
			return result, fmt.Errorf("row %d: insert record: %w", line, err)
		}

		result.add(res)
	}

	if err := sess.MarkProcessed(ctx, file, result.RecordsCreated); err != nil {
		return result, fmt.Errorf("mark processed: %w", err)
	}

	return result, nil
}

func (s *service) IngestBatch(ctx context.Context, files []uuid.UUID) []BatchItem {
	items := make([]BatchItem, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.MaxConcurrent)

	for i, id := range files {
		items[i].FileID = id

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				items[i].fail(err)
				return nil
			}

			result, err := s.Ingest(gctx, id)
			if err != nil {
				items[i].fail(err)
				return nil
			}

			items[i].Result = result
			items[i].Status = http.StatusOK
			return nil
		})
	}

	g.Wait()
	return items
}

func (b *BatchItem) fail(err error) {
	b.err = err
	b.Error = err.Error()
	b.Status = MapHTTPStatus(err)
}
