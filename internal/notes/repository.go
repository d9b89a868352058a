package notes

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/quadrant-labs/quadrant/pkg/pagination"
	"github.com/quadrant-labs/quadrant/pkg/repository"
	"github.com/quadrant-labs/quadrant/pkg/storage"
)

// snippetLength bounds how much of a related note's content is handed to
// the classification workflow per match.
const snippetLength = 240

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a note repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "notes"),
		pagination: pagination,
	}
}

func (r *repo) Handler(maxUploadSize int64) *Handler {
	return NewHandler(r, r.logger, r.pagination, maxUploadSize)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Note], error) {
	page.Normalize(r.pagination)

	where, args := filters.where(page.Search)

	countQ := "SELECT COUNT(*) FROM notes" + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count notes: %w", err)
	}

	pageQ := fmt.Sprintf(
		"SELECT %s FROM notes%s ORDER BY %s LIMIT $%d OFFSET $%d",
		noteColumns, where, orderClause(page.Sort), len(args)+1, len(args)+2,
	)
	pageArgs := append(args, page.PageSize, page.Offset())

	items, err := repository.QueryMany(ctx, r.db, pageQ, pageArgs, scanNote)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Note, error) {
	q := fmt.Sprintf("SELECT %s FROM notes WHERE id = $1", noteColumns)

	n, err := repository.QueryOne(ctx, r.db, q, []any{id}, scanNote)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &n, nil
}

// Content returns a note and its full text, recording the access against the
// note's usage counters. Counter updates are best-effort: a failed bump is
// logged and the content is still returned.
func (r *repo) Content(ctx context.Context, id uuid.UUID) (*Note, string, error) {
	n, err := r.Find(ctx, id)
	if err != nil {
		return nil, "", err
	}

	reader, err := r.storage.Download(ctx, n.StorageKey)
	if err != nil {
		return nil, "", fmt.Errorf("download note content: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", fmt.Errorf("read note content: %w", err)
	}

	bumpQ := `
		UPDATE notes
		SET access_count = access_count + 1, last_accessed_at = NOW()
		WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, bumpQ, id); err != nil {
		r.logger.Warn("access counter update failed", "id", id, "error", err)
	}

	return n, string(data), nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Note, error) {
	id := uuid.New()
	key := buildStorageKey(id, sanitizeFilename(cmd.Filename))

	if err := r.storage.Upload(ctx, key, bytes.NewReader(cmd.Data), cmd.ContentType); err != nil {
		return nil, fmt.Errorf("upload note blob: %w", err)
	}

	q := fmt.Sprintf(`
		INSERT INTO notes(id, filename, content_type, size_bytes, storage_key, word_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING %s`, noteColumns)

	insertArgs := []any{
		id,
		cmd.Filename,
		cmd.ContentType,
		int64(len(cmd.Data)),
		key,
		len(strings.Fields(string(cmd.Data))),
	}

	n, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Note, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanNote)
	})

	if err != nil {
		if delErr := r.storage.Delete(ctx, key); delErr != nil {
			r.logger.Warn("compensating blob delete failed", "key", key, "error", delErr)
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info("note created", "id", n.ID, "filename", n.Filename)
	return &n, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM notes WHERE id = $1",
			id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if delErr := r.storage.Delete(ctx, n.StorageKey); delErr != nil {
		r.logger.Warn(
			"blob delete failed after DB delete",
			"key", n.StorageKey,
			"error", delErr,
		)
	}

	r.logger.Info("note deleted", "id", id)
	return nil
}

// Related finds already-classified notes whose stored keywords overlap the
// given set and returns bounded content snippets. Only notes that have a
// verdict participate, so retrieval quality improves as the corpus is
// organized. Snippet download failures skip the note rather than failing
// the lookup.
func (r *repo) Related(ctx context.Context, keywords []string, limit int) ([]string, error) {
	if len(keywords) == 0 || limit < 1 {
		return nil, nil
	}

	q := `
		SELECT n.filename, n.storage_key
		FROM notes n
		JOIN verdicts v ON v.note_id = n.id
		WHERE v.keywords ?| $1
		ORDER BY n.updated_at DESC
		LIMIT $2`

	type match struct {
		filename   string
		storageKey string
	}

	matches, err := repository.QueryMany(ctx, r.db, q, []any{keywords, limit},
		func(s repository.Scanner) (match, error) {
			var m match
			err := s.Scan(&m.filename, &m.storageKey)
			return m, err
		})
	if err != nil {
		return nil, fmt.Errorf("query related notes: %w", err)
	}

	snippets := make([]string, 0, len(matches))
	for _, m := range matches {
		reader, err := r.storage.Download(ctx, m.storageKey)
		if err != nil {
			r.logger.Warn("related snippet download failed", "key", m.storageKey, "error", err)
			continue
		}

		data, err := io.ReadAll(io.LimitReader(reader, snippetLength))
		reader.Close()
		if err != nil {
			r.logger.Warn("related snippet read failed", "key", m.storageKey, "error", err)
			continue
		}

		snippets = append(snippets, fmt.Sprintf("%s: %s", m.filename, string(data)))
	}

	return snippets, nil
}

func buildStorageKey(id uuid.UUID, filename string) string {
	return fmt.Sprintf("notes/%s/%s", id, filename)
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	if name == "." || name == "" {
		name = "note"
	}
	return url.PathEscape(name)
}
