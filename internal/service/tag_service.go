package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-book-review/internal/model"
)

type TagStore interface {
	List(ctx context.Context) ([]model.Tag, error)
	ListByBook(ctx context.Context, bookUID string) ([]model.Tag, error)
	FindByUID(ctx context.Context, uid string) (model.Tag, error)
	FindByName(ctx context.Context, name string) (model.Tag, error)
	Create(ctx context.Context, t model.Tag) error
	Update(ctx context.Context, t model.Tag) error
	Delete(ctx context.Context, uid string) error
	AttachToBook(ctx context.Context, bookUID string, tagUID string) error
}

type TagService struct {
	tags  TagStore
	books BookStore
}

func NewTagService(tags TagStore, books BookStore) *TagService {
	return &TagService{tags: tags, books: books}
}

func (s *TagService) List(ctx context.Context) ([]model.Tag, error) {
	return s.tags.List(ctx)
}

func (s *TagService) Create(ctx context.Context, req model.TagCreateRequest) (model.Tag, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Tag{}, model.ErrInvalidInput
	}

	tag := model.Tag{
		UID:       uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.tags.Create(ctx, tag); err != nil {
		return model.Tag{}, err
	}

	return tag, nil
}

// AddToBook attaches every submitted tag to the book, creating tags that do
// not exist yet by name. Returns the book with its full tag set.
func (s *TagService) AddToBook(ctx context.Context, bookUID string, req model.TagAddRequest) (model.BookDetail, error) {
	book, err := s.books.FindByUID(ctx, bookUID)
	if err != nil {
		return model.BookDetail{}, err
	}

	for _, item := range req.Tags {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}

		tag, err := s.tags.FindByName(ctx, name)
		if errors.Is(err, model.ErrTagNotFound) {
			tag = model.Tag{UID: uuid.NewString(), Name: name, CreatedAt: time.Now().UTC()}
			if createErr := s.tags.Create(ctx, tag); createErr != nil {
				// A concurrent attach may have created it; re-read by name.
				if !errors.Is(createErr, model.ErrTagAlreadyExists) {
					return model.BookDetail{}, createErr
				}
				if tag, err = s.tags.FindByName(ctx, name); err != nil {
					return model.BookDetail{}, err
				}
			}
		} else if err != nil {
			return model.BookDetail{}, err
		}

		if err := s.tags.AttachToBook(ctx, bookUID, tag.UID); err != nil {
			return model.BookDetail{}, err
		}
	}

	tags, err := s.tags.ListByBook(ctx, bookUID)
	if err != nil {
		return model.BookDetail{}, err
	}

	return model.BookDetail{Book: book, Tags: tags, Reviews: []model.Review{}}, nil
}

func (s *TagService) Update(ctx context.Context, uid string, req model.TagCreateRequest) (model.Tag, error) {
	tag, err := s.tags.FindByUID(ctx, uid)
	if err != nil {
		return model.Tag{}, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return model.Tag{}, model.ErrInvalidInput
	}

	tag.Name = name
	if err := s.tags.Update(ctx, tag); err != nil {
		return model.Tag{}, err
	}

	return tag, nil
}

func (s *TagService) Delete(ctx context.Context, uid string) error {
	return s.tags.Delete(ctx, uid)
}
