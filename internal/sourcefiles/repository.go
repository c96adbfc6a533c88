package sourcefiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/JaimeStill/tally/pkg/formatting"
	"github.com/JaimeStill/tally/pkg/pagination"
	"github.com/JaimeStill/tally/pkg/query"
	"github.com/JaimeStill/tally/pkg/repository"
	"github.com/JaimeStill/tally/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a source file repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "sourcefiles"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[SourceFile], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Filename")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count source files: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	files, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSourceFile)
	if err != nil {
		return nil, fmt.Errorf("query source files: %w", err)
	}

	result := pagination.NewPageResult(files, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*SourceFile, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	f, err := repository.QueryOne(ctx, r.db, q, args, scanSourceFile)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &f, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*SourceFile, error) {
	if len(cmd.Data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidFile)
	}

	id := uuid.New()
	key := r.storage.Key(id.String(), sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, cmd.Data, cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload source file blob: %w", err)
	}

	q := `
		INSERT INTO source_files(id, filename, content_type, size_bytes, storage_key, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + columns

	args := []any{
		id,
		cmd.Filename,
		cmd.ContentType,
		int64(len(cmd.Data)),
		key,
		cmd.UploadedBy,
	}

	f, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (SourceFile, error) {
		return repository.QueryOne(ctx, tx, q, args, scanSourceFile)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"source file registered",
		"id", f.ID,
		"filename", f.Filename,
		"size", formatting.FormatBytes(f.SizeBytes, 1),
	)
	return &f, nil
}

func (r *repo) Payload(ctx context.Context, file *SourceFile) ([]byte, error) {
	data, err := r.storage.Read(ctx, file.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: payload missing for %s", ErrNotFound, file.ID)
		}
		return nil, fmt.Errorf("read source file blob: %w", err)
	}
	return data, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	f, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM source_files WHERE id = $1",
			id,
		)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, f.StorageKey); delErr != nil && !errors.Is(delErr, storage.ErrNotFound) {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", f.StorageKey,
			"error", delErr,
		)
	}

	r.logger.Info("source file deleted", "id", id)
	return nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	return url.PathEscape(name)
}
