package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-book-review/internal/model"
)

type ReviewRepository struct {
	pool *pgxpool.Pool
}

func NewReviewRepository(pool *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{pool: pool}
}

const reviewColumns = `uid, rating, review_text, user_uid, book_uid, created_at, updated_at`

func scanReview(row pgx.Row) (model.Review, error) {
	var rv model.Review
	err := row.Scan(&rv.UID, &rv.Rating, &rv.ReviewText, &rv.UserUID, &rv.BookUID,
		&rv.CreatedAt, &rv.UpdatedAt)
	return rv, err
}

func (r *ReviewRepository) List(ctx context.Context) ([]model.Review, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	return collectReviews(rows)
}

func (r *ReviewRepository) ListByBook(ctx context.Context, bookUID string) ([]model.Review, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE book_uid = $1 ORDER BY created_at DESC`, bookUID)
	if err != nil {
		return nil, fmt.Errorf("list reviews by book: %w", err)
	}
	defer rows.Close()

	return collectReviews(rows)
}

func (r *ReviewRepository) ListByUser(ctx context.Context, userUID string) ([]model.Review, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE user_uid = $1 ORDER BY created_at DESC`, userUID)
	if err != nil {
		return nil, fmt.Errorf("list reviews by user: %w", err)
	}
	defer rows.Close()

	return collectReviews(rows)
}

func (r *ReviewRepository) FindByUID(ctx context.Context, uid string) (model.Review, error) {
	rv, err := scanReview(r.pool.QueryRow(ctx,
		`SELECT `+reviewColumns+` FROM reviews WHERE uid = $1`, uid))

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Review{}, model.ErrReviewNotFound
	}
	if err != nil {
		return model.Review{}, fmt.Errorf("find review by uid: %w", err)
	}
	return rv, nil
}

func (r *ReviewRepository) Create(ctx context.Context, rv model.Review) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO reviews (uid, rating, review_text, user_uid, book_uid, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rv.UID, rv.Rating, rv.ReviewText, rv.UserUID, rv.BookUID, rv.CreatedAt, rv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

func (r *ReviewRepository) Delete(ctx context.Context, uid string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE uid = $1`, uid)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}

func collectReviews(rows pgx.Rows) ([]model.Review, error) {
	reviews := make([]model.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}
