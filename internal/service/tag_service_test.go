package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-book-review/internal/model"
)

func seedBook(t *testing.T, books *fakeBookStore) model.Book {
	t.Helper()

	book := model.Book{
		UID:       uuid.NewString(),
		Title:     "The Go Programming Language",
		Author:    "Donovan & Kernighan",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, books.Create(context.Background(), book))
	return book
}

func TestTagService_AddToBook_ProcessesAllTags(t *testing.T) {
	books := newFakeBookStore()
	tags := newFakeTagStore()
	svc := NewTagService(tags, books)
	ctx := context.Background()

	book := seedBook(t, books)

	detail, err := svc.AddToBook(ctx, book.UID, model.TagAddRequest{
		Tags: []model.TagCreateRequest{
			{Name: "golang"},
			{Name: "programming"},
			{Name: "reference"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, detail.Tags, 3)

	names := make([]string, 0, len(detail.Tags))
	for _, tag := range detail.Tags {
		names = append(names, tag.Name)
	}
	assert.ElementsMatch(t, []string{"golang", "programming", "reference"}, names)
}

func TestTagService_AddToBook_ReusesExistingTags(t *testing.T) {
	books := newFakeBookStore()
	tags := newFakeTagStore()
	svc := NewTagService(tags, books)
	ctx := context.Background()

	book := seedBook(t, books)

	existing, err := svc.Create(ctx, model.TagCreateRequest{Name: "golang"})
	require.NoError(t, err)

	detail, err := svc.AddToBook(ctx, book.UID, model.TagAddRequest{
		Tags: []model.TagCreateRequest{{Name: "golang"}, {Name: "new-tag"}},
	})
	require.NoError(t, err)
	require.Len(t, detail.Tags, 2)

	for _, tag := range detail.Tags {
		if tag.Name == "golang" {
			assert.Equal(t, existing.UID, tag.UID)
		}
	}
}

func TestTagService_AddToBook_UnknownBook(t *testing.T) {
	svc := NewTagService(newFakeTagStore(), newFakeBookStore())

	_, err := svc.AddToBook(context.Background(), uuid.NewString(), model.TagAddRequest{
		Tags: []model.TagCreateRequest{{Name: "golang"}},
	})
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func TestTagService_Create_DuplicateName(t *testing.T) {
	svc := NewTagService(newFakeTagStore(), newFakeBookStore())
	ctx := context.Background()

	_, err := svc.Create(ctx, model.TagCreateRequest{Name: "golang"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, model.TagCreateRequest{Name: "golang"})
	assert.ErrorIs(t, err, model.ErrTagAlreadyExists)
}

func TestTagService_Update(t *testing.T) {
	tags := newFakeTagStore()
	svc := NewTagService(tags, newFakeBookStore())
	ctx := context.Background()

	tag, err := svc.Create(ctx, model.TagCreateRequest{Name: "golang"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, tag.UID, model.TagCreateRequest{Name: "go"})
	require.NoError(t, err)
	assert.Equal(t, "go", updated.Name)
	assert.Equal(t, tag.UID, updated.UID)

	_, err = svc.Update(ctx, uuid.NewString(), model.TagCreateRequest{Name: "missing"})
	assert.ErrorIs(t, err, model.ErrTagNotFound)
}
