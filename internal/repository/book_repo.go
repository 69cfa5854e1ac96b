package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-book-review/internal/model"
)

type BookRepository struct {
	pool *pgxpool.Pool
}

func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

const bookColumns = `uid, title, author, publisher, published_date, page_count, language, user_uid, created_at, updated_at`

func scanBook(row pgx.Row) (model.Book, error) {
	var b model.Book
	err := row.Scan(&b.UID, &b.Title, &b.Author, &b.Publisher, &b.PublishedDate,
		&b.PageCount, &b.Language, &b.UserUID, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *BookRepository) List(ctx context.Context) ([]model.Book, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	return collectBooks(rows)
}

func (r *BookRepository) ListByUser(ctx context.Context, userUID string) ([]model.Book, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+bookColumns+` FROM books WHERE user_uid = $1 ORDER BY created_at DESC`, userUID)
	if err != nil {
		return nil, fmt.Errorf("list books by user: %w", err)
	}
	defer rows.Close()

	return collectBooks(rows)
}

func (r *BookRepository) FindByUID(ctx context.Context, uid string) (model.Book, error) {
	b, err := scanBook(r.pool.QueryRow(ctx,
		`SELECT `+bookColumns+` FROM books WHERE uid = $1`, uid))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Book{}, model.ErrBookNotFound
	}
	if err != nil {
		return model.Book{}, fmt.Errorf("find book by uid: %w", err)
	}
	return b, nil
}

func (r *BookRepository) Create(ctx context.Context, b model.Book) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO books (uid, title, author, publisher, published_date, page_count, language, user_uid, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.UID, b.Title, b.Author, b.Publisher, b.PublishedDate, b.PageCount, b.Language,
		b.UserUID, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	return nil
}

func (r *BookRepository) Update(ctx context.Context, b model.Book) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE books SET title = $2, author = $3, publisher = $4, language = $5, updated_at = $6
		 WHERE uid = $1`,
		b.UID, b.Title, b.Author, b.Publisher, b.Language, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func (r *BookRepository) Delete(ctx context.Context, uid string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	return nil
}

func collectBooks(rows pgx.Rows) ([]model.Book, error) {
	books := make([]model.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		books = append(books, b)
	}
	return books, rows.Err()
}
