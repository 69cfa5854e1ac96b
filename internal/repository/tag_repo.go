package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-book-review/internal/model"
)

type TagRepository struct {
	pool *pgxpool.Pool
}

func NewTagRepository(pool *pgxpool.Pool) *TagRepository {
	return &TagRepository{pool: pool}
}

func (r *TagRepository) List(ctx context.Context) ([]model.Tag, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT uid, name, created_at FROM tags ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	return collectTags(rows)
}

func (r *TagRepository) ListByBook(ctx context.Context, bookUID string) ([]model.Tag, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.uid, t.name, t.created_at
		 FROM tags t
		 JOIN book_tags bt ON bt.tag_uid = t.uid
		 WHERE bt.book_uid = $1
		 ORDER BY t.name`, bookUID)
	if err != nil {
		return nil, fmt.Errorf("list tags by book: %w", err)
	}
	defer rows.Close()

	return collectTags(rows)
}

func (r *TagRepository) FindByUID(ctx context.Context, uid string) (model.Tag, error) {
	var t model.Tag
	err := r.pool.QueryRow(ctx,
		`SELECT uid, name, created_at FROM tags WHERE uid = $1`, uid).
		Scan(&t.UID, &t.Name, &t.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Tag{}, model.ErrTagNotFound
	}
	if err != nil {
		return model.Tag{}, fmt.Errorf("find tag by uid: %w", err)
	}
	return t, nil
}

func (r *TagRepository) FindByName(ctx context.Context, name string) (model.Tag, error) {
	var t model.Tag
	err := r.pool.QueryRow(ctx,
		`SELECT uid, name, created_at FROM tags WHERE lower(name) = lower($1)`,
		strings.TrimSpace(name)).
		Scan(&t.UID, &t.Name, &t.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Tag{}, model.ErrTagNotFound
	}
	if err != nil {
		return model.Tag{}, fmt.Errorf("find tag by name: %w", err)
	}
	return t, nil
}

func (r *TagRepository) Create(ctx context.Context, t model.Tag) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO tags (uid, name, created_at) VALUES ($1, $2, $3)`,
		t.UID, t.Name, t.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.ErrTagAlreadyExists
		}
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

func (r *TagRepository) Update(ctx context.Context, t model.Tag) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE tags SET name = $2 WHERE uid = $1`, t.UID, t.Name)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.ErrTagAlreadyExists
		}
		return fmt.Errorf("update tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTagNotFound
	}
	return nil
}

func (r *TagRepository) Delete(ctx context.Context, uid string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tags WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTagNotFound
	}
	return nil
}

// AttachToBook links a tag to a book; attaching the same tag twice is a no-op.
func (r *TagRepository) AttachToBook(ctx context.Context, bookUID string, tagUID string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO book_tags (book_uid, tag_uid) VALUES ($1, $2)
		 ON CONFLICT (book_uid, tag_uid) DO NOTHING`, bookUID, tagUID)
	if err != nil {
		return fmt.Errorf("attach tag to book: %w", err)
	}
	return nil
}

func collectTags(rows pgx.Rows) ([]model.Tag, error) {
	tags := make([]model.Tag, 0)
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.UID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
