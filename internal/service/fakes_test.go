package service

import (
	"context"
	"strings"
	"sync"

	"go-book-review/internal/model"
)

// fakeUserStore is an in-memory UserStore keyed by lowercased email.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]model.User{}}
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[strings.ToLower(email)]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (s *fakeUserStore) FindByUID(_ context.Context, uid string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.UID == uid {
			return user, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *fakeUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.users[strings.ToLower(email)]
	return ok, nil
}

func (s *fakeUserStore) Create(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, ok := s.users[key]; ok {
		return model.ErrUserAlreadyExists
	}
	s.users[key] = u
	return nil
}

func (s *fakeUserStore) SetVerified(_ context.Context, uid string, verified bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, user := range s.users {
		if user.UID == uid {
			user.IsVerified = verified
			s.users[key] = user
			return nil
		}
	}
	return model.ErrUserNotFound
}

type fakeBookStore struct {
	mu    sync.Mutex
	books map[string]model.Book
}

func newFakeBookStore() *fakeBookStore {
	return &fakeBookStore{books: map[string]model.Book{}}
}

func (s *fakeBookStore) List(_ context.Context) ([]model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Book, 0, len(s.books))
	for _, b := range s.books {
		out = append(out, b)
	}
	return out, nil
}

func (s *fakeBookStore) ListByUser(_ context.Context, userUID string) ([]model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Book, 0)
	for _, b := range s.books {
		if b.UserUID == userUID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *fakeBookStore) FindByUID(_ context.Context, uid string) (model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[uid]
	if !ok {
		return model.Book{}, model.ErrBookNotFound
	}
	return b, nil
}

func (s *fakeBookStore) Create(_ context.Context, b model.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[b.UID] = b
	return nil
}

func (s *fakeBookStore) Update(_ context.Context, b model.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[b.UID]; !ok {
		return model.ErrBookNotFound
	}
	s.books[b.UID] = b
	return nil
}

func (s *fakeBookStore) Delete(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[uid]; !ok {
		return model.ErrBookNotFound
	}
	delete(s.books, uid)
	return nil
}

type fakeReviewStore struct {
	mu      sync.Mutex
	reviews map[string]model.Review
}

func newFakeReviewStore() *fakeReviewStore {
	return &fakeReviewStore{reviews: map[string]model.Review{}}
}

func (s *fakeReviewStore) List(_ context.Context) ([]model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Review, 0, len(s.reviews))
	for _, rv := range s.reviews {
		out = append(out, rv)
	}
	return out, nil
}

func (s *fakeReviewStore) ListByBook(_ context.Context, bookUID string) ([]model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Review, 0)
	for _, rv := range s.reviews {
		if rv.BookUID == bookUID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (s *fakeReviewStore) ListByUser(_ context.Context, userUID string) ([]model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Review, 0)
	for _, rv := range s.reviews {
		if rv.UserUID == userUID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (s *fakeReviewStore) FindByUID(_ context.Context, uid string) (model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rv, ok := s.reviews[uid]
	if !ok {
		return model.Review{}, model.ErrReviewNotFound
	}
	return rv, nil
}

func (s *fakeReviewStore) Create(_ context.Context, rv model.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[rv.UID] = rv
	return nil
}

func (s *fakeReviewStore) Delete(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reviews[uid]; !ok {
		return model.ErrReviewNotFound
	}
	delete(s.reviews, uid)
	return nil
}

type fakeTagStore struct {
	mu       sync.Mutex
	tags     map[string]model.Tag
	bookTags map[string]map[string]struct{}
}

func newFakeTagStore() *fakeTagStore {
	return &fakeTagStore{
		tags:     map[string]model.Tag{},
		bookTags: map[string]map[string]struct{}{},
	}
}

func (s *fakeTagStore) List(_ context.Context) ([]model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Tag, 0, len(s.tags))
	for _, t := range s.tags {
		out = append(out, t)
	}
	return out, nil
}

func (s *fakeTagStore) ListByBook(_ context.Context, bookUID string) ([]model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Tag, 0)
	for tagUID := range s.bookTags[bookUID] {
		out = append(out, s.tags[tagUID])
	}
	return out, nil
}

func (s *fakeTagStore) FindByUID(_ context.Context, uid string) (model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tags[uid]
	if !ok {
		return model.Tag{}, model.ErrTagNotFound
	}
	return t, nil
}

func (s *fakeTagStore) FindByName(_ context.Context, name string) (model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tags {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return model.Tag{}, model.ErrTagNotFound
}

func (s *fakeTagStore) Create(_ context.Context, t model.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.tags {
		if strings.EqualFold(existing.Name, t.Name) {
			return model.ErrTagAlreadyExists
		}
	}
	s.tags[t.UID] = t
	return nil
}

func (s *fakeTagStore) Update(_ context.Context, t model.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tags[t.UID]; !ok {
		return model.ErrTagNotFound
	}
	s.tags[t.UID] = t
	return nil
}

func (s *fakeTagStore) Delete(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tags[uid]; !ok {
		return model.ErrTagNotFound
	}
	delete(s.tags, uid)
	return nil
}

func (s *fakeTagStore) AttachToBook(_ context.Context, bookUID string, tagUID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bookTags[bookUID] == nil {
		s.bookTags[bookUID] = map[string]struct{}{}
	}
	s.bookTags[bookUID][tagUID] = struct{}{}
	return nil
}
