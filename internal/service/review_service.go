package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-book-review/internal/model"
)

type ReviewStore interface {
	List(ctx context.Context) ([]model.Review, error)
	ListByBook(ctx context.Context, bookUID string) ([]model.Review, error)
	ListByUser(ctx context.Context, userUID string) ([]model.Review, error)
	FindByUID(ctx context.Context, uid string) (model.Review, error)
	Create(ctx context.Context, rv model.Review) error
	Delete(ctx context.Context, uid string) error
}

type ReviewService struct {
	reviews ReviewStore
	books   BookStore
}

func NewReviewService(reviews ReviewStore, books BookStore) *ReviewService {
	return &ReviewService{reviews: reviews, books: books}
}

func (s *ReviewService) List(ctx context.Context) ([]model.Review, error) {
	return s.reviews.List(ctx)
}

func (s *ReviewService) ListByUser(ctx context.Context, userUID string) ([]model.Review, error) {
	return s.reviews.ListByUser(ctx, userUID)
}

func (s *ReviewService) Get(ctx context.Context, uid string) (model.Review, error) {
	return s.reviews.FindByUID(ctx, uid)
}

func (s *ReviewService) AddToBook(ctx context.Context, bookUID string, req model.ReviewCreateRequest, authorUID string) (model.Review, error) {
	if req.Rating < 1 || req.Rating > 5 || strings.TrimSpace(req.ReviewText) == "" {
		return model.Review{}, model.ErrInvalidInput
	}

	// Reviews must reference an existing book.
	if _, err := s.books.FindByUID(ctx, bookUID); err != nil {
		return model.Review{}, err
	}

	now := time.Now().UTC()
	review := model.Review{
		UID:        uuid.NewString(),
		Rating:     req.Rating,
		ReviewText: strings.TrimSpace(req.ReviewText),
		UserUID:    authorUID,
		BookUID:    bookUID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return model.Review{}, err
	}

	return review, nil
}

// Delete removes a review. Only the author or an admin may delete it.
func (s *ReviewService) Delete(ctx context.Context, uid string, requester model.User) error {
	review, err := s.reviews.FindByUID(ctx, uid)
	if err != nil {
		return err
	}

	if review.UserUID != requester.UID && requester.Role != "admin" {
		return model.ErrInsufficientPermissions
	}

	return s.reviews.Delete(ctx, uid)
}
