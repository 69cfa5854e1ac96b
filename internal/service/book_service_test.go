package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-book-review/internal/model"
)

func newTestBookService() (*BookService, *fakeBookStore, *fakeReviewStore, *fakeTagStore) {
	books := newFakeBookStore()
	reviews := newFakeReviewStore()
	tags := newFakeTagStore()
	return NewBookService(books, reviews, tags), books, reviews, tags
}

func TestBookService_Create(t *testing.T) {
	svc, _, _, _ := newTestBookService()
	ctx := context.Background()

	book, err := svc.Create(ctx, model.BookCreateRequest{
		Title:         "The Go Programming Language",
		Author:        "Donovan & Kernighan",
		Publisher:     "Addison-Wesley",
		PublishedDate: "2015-10-26",
		PageCount:     380,
		Language:      "en",
	}, "owner-uid")
	require.NoError(t, err)

	assert.NotEmpty(t, book.UID)
	assert.Equal(t, "owner-uid", book.UserUID)
	assert.Equal(t, 2015, book.PublishedDate.Year())

	fetched, err := svc.Get(ctx, book.UID)
	require.NoError(t, err)
	assert.Equal(t, book.Title, fetched.Title)
	assert.Empty(t, fetched.Reviews)
	assert.Empty(t, fetched.Tags)
}

func TestBookService_Create_InvalidDate(t *testing.T) {
	svc, _, _, _ := newTestBookService()

	_, err := svc.Create(context.Background(), model.BookCreateRequest{
		Title:         "Broken",
		Author:        "Anon",
		PublishedDate: "26/10/2015",
	}, "owner-uid")
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestBookService_Update(t *testing.T) {
	svc, _, _, _ := newTestBookService()
	ctx := context.Background()

	book, err := svc.Create(ctx, model.BookCreateRequest{
		Title:         "Draft Title",
		Author:        "Anon",
		PublishedDate: "2020-01-01",
	}, "owner-uid")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, book.UID, model.BookUpdateRequest{
		Title:     "Final Title",
		Author:    "Anon",
		Publisher: "Self",
		Language:  "en",
	})
	require.NoError(t, err)
	assert.Equal(t, "Final Title", updated.Title)
	assert.True(t, updated.UpdatedAt.After(book.UpdatedAt) || updated.UpdatedAt.Equal(book.UpdatedAt))

	_, err = svc.Update(ctx, uuid.NewString(), model.BookUpdateRequest{Title: "x", Author: "y"})
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestBookService_Delete(t *testing.T) {
	svc, _, _, _ := newTestBookService()
	ctx := context.Background()

	book, err := svc.Create(ctx, model.BookCreateRequest{
		Title:         "Ephemeral",
		Author:        "Anon",
		PublishedDate: "2020-01-01",
	}, "owner-uid")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, book.UID))
	assert.ErrorIs(t, svc.Delete(ctx, book.UID), model.ErrBookNotFound)

	_, err = svc.Get(ctx, book.UID)
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestReviewService_AddAndDelete(t *testing.T) {
	books := newFakeBookStore()
	reviews := newFakeReviewStore()
	svc := NewReviewService(reviews, books)
	ctx := context.Background()

	book := seedBook(t, books)

	review, err := svc.AddToBook(ctx, book.UID, model.ReviewCreateRequest{
		Rating:     5,
		ReviewText: "A classic.",
	}, "author-uid")
	require.NoError(t, err)
	assert.Equal(t, book.UID, review.BookUID)

	_, err = svc.AddToBook(ctx, book.UID, model.ReviewCreateRequest{Rating: 6, ReviewText: "x"}, "author-uid")
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = svc.AddToBook(ctx, uuid.NewString(), model.ReviewCreateRequest{Rating: 3, ReviewText: "x"}, "author-uid")
	assert.ErrorIs(t, err, model.ErrBookNotFound)

	stranger := model.User{UID: "someone-else", Role: "user"}
	assert.ErrorIs(t, svc.Delete(ctx, review.UID, stranger), model.ErrInsufficientPermissions)

	admin := model.User{UID: "someone-else", Role: "admin"}
	require.NoError(t, svc.Delete(ctx, review.UID, admin))

	_, err = svc.Get(ctx, review.UID)
	assert.ErrorIs(t, err, model.ErrReviewNotFound)
}
