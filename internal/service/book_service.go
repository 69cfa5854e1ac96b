package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-book-review/internal/model"
)

type BookStore interface {
	List(ctx context.Context) ([]model.Book, error)
	ListByUser(ctx context.Context, userUID string) ([]model.Book, error)
	FindByUID(ctx context.Context, uid string) (model.Book, error)
	Create(ctx context.Context, b model.Book) error
	Update(ctx context.Context, b model.Book) error
	Delete(ctx context.Context, uid string) error
}

type BookService struct {
	books   BookStore
	reviews ReviewStore
	tags    TagStore
}

func NewBookService(books BookStore, reviews ReviewStore, tags TagStore) *BookService {
	return &BookService{books: books, reviews: reviews, tags: tags}
}

func (s *BookService) List(ctx context.Context) ([]model.Book, error) {
	return s.books.List(ctx)
}

func (s *BookService) ListByUser(ctx context.Context, userUID string) ([]model.Book, error) {
	return s.books.ListByUser(ctx, userUID)
}

// Get returns the book with its reviews and tags attached.
func (s *BookService) Get(ctx context.Context, uid string) (model.BookDetail, error) {
	book, err := s.books.FindByUID(ctx, uid)
	if err != nil {
		return model.BookDetail{}, err
	}

	reviews, err := s.reviews.ListByBook(ctx, uid)
	if err != nil {
		return model.BookDetail{}, err
	}

	tags, err := s.tags.ListByBook(ctx, uid)
	if err != nil {
		return model.BookDetail{}, err
	}

	return model.BookDetail{Book: book, Reviews: reviews, Tags: tags}, nil
}

func (s *BookService) Create(ctx context.Context, req model.BookCreateRequest, ownerUID string) (model.Book, error) {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Author) == "" {
		return model.Book{}, model.ErrInvalidInput
	}

	publishedDate, err := time.Parse("2006-01-02", strings.TrimSpace(req.PublishedDate))
	if err != nil {
		return model.Book{}, model.ErrInvalidInput
	}

	now := time.Now().UTC()
	book := model.Book{
		UID:           uuid.NewString(),
		Title:         strings.TrimSpace(req.Title),
		Author:        strings.TrimSpace(req.Author),
		Publisher:     strings.TrimSpace(req.Publisher),
		PublishedDate: publishedDate,
		PageCount:     req.PageCount,
		Language:      strings.TrimSpace(req.Language),
		UserUID:       ownerUID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.books.Create(ctx, book); err != nil {
		return model.Book{}, err
	}

	return book, nil
}

func (s *BookService) Update(ctx context.Context, uid string, req model.BookUpdateRequest) (model.Book, error) {
	book, err := s.books.FindByUID(ctx, uid)
	if err != nil {
		return model.Book{}, err
	}

	book.Title = strings.TrimSpace(req.Title)
	book.Author = strings.TrimSpace(req.Author)
	book.Publisher = strings.TrimSpace(req.Publisher)
	book.Language = strings.TrimSpace(req.Language)
	book.UpdatedAt = time.Now().UTC()

	if book.Title == "" || book.Author == "" {
		return model.Book{}, model.ErrInvalidInput
	}

	if err := s.books.Update(ctx, book); err != nil {
		return model.Book{}, err
	}

	return book, nil
}

func (s *BookService) Delete(ctx context.Context, uid string) error {
	return s.books.Delete(ctx, uid)
}
