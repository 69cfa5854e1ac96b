//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-book-review/internal/blocklist"
	"go-book-review/internal/config"
	"go-book-review/internal/handler"
	"go-book-review/internal/middleware"
	"go-book-review/internal/model"
	"go-book-review/internal/router"
	"go-book-review/internal/service"
)

// memUserStore backs the auth service with an in-memory user table so the
// full HTTP stack can be exercised without Postgres.
type memUserStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]model.User{}}
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[strings.ToLower(email)]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return user, nil
}

func (s *memUserStore) FindByUID(_ context.Context, uid string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.UID == uid {
			return user, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *memUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.users[strings.ToLower(email)]
	return ok, nil
}

func (s *memUserStore) Create(_ context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, ok := s.users[key]; ok {
		return model.ErrUserAlreadyExists
	}
	s.users[key] = u
	return nil
}

func (s *memUserStore) SetVerified(_ context.Context, uid string, verified bool) error {
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

func (s *memUserStore) setVerified(email string, verified bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	user := s.users[key]
	user.IsVerified = verified
	s.users[key] = user
}

func (s *memUserStore) setRole(email string, role string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	user := s.users[key]
	user.Role = role
	s.users[key] = user
}

func (s *memUserStore) delete(email string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, strings.ToLower(email))
}

type memBookStore struct {
	mu    sync.Mutex
	books map[string]model.Book
}

func newMemBookStore() *memBookStore {
	return &memBookStore{books: map[string]model.Book{}}
}

func (s *memBookStore) List(_ context.Context) ([]model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Book, 0, len(s.books))
	for _, b := range s.books {
		out = append(out, b)
	}
	return out, nil
}

func (s *memBookStore) ListByUser(_ context.Context, userUID string) ([]model.Book, error) {
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

func (s *memBookStore) FindByUID(_ context.Context, uid string) (model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[uid]
	if !ok {
		return model.Book{}, model.ErrBookNotFound
	}
	return b, nil
}

func (s *memBookStore) Create(_ context.Context, b model.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[b.UID] = b
	return nil
}

func (s *memBookStore) Update(_ context.Context, b model.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[b.UID]; !ok {
		return model.ErrBookNotFound
	}
	s.books[b.UID] = b
	return nil
}

func (s *memBookStore) Delete(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[uid]; !ok {
		return model.ErrBookNotFound
	}
	delete(s.books, uid)
	return nil
}

type memReviewStore struct {
	mu      sync.Mutex
	reviews map[string]model.Review
}

func newMemReviewStore() *memReviewStore {
	return &memReviewStore{reviews: map[string]model.Review{}}
}

func (s *memReviewStore) List(_ context.Context) ([]model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Review, 0, len(s.reviews))
	for _, rv := range s.reviews {
		out = append(out, rv)
	}
	return out, nil
}

func (s *memReviewStore) ListByBook(_ context.Context, bookUID string) ([]model.Review, error) {
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

func (s *memReviewStore) ListByUser(_ context.Context, userUID string) ([]model.Review, error) {
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

func (s *memReviewStore) FindByUID(_ context.Context, uid string) (model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rv, ok := s.reviews[uid]
	if !ok {
		return model.Review{}, model.ErrReviewNotFound
	}
	return rv, nil
}

func (s *memReviewStore) Create(_ context.Context, rv model.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[rv.UID] = rv
	return nil
}

func (s *memReviewStore) Delete(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reviews[uid]; !ok {
		return model.ErrReviewNotFound
	}
	delete(s.reviews, uid)
	return nil
}

type memTagStore struct {
	mu       sync.Mutex
	tags     map[string]model.Tag
	bookTags map[string]map[string]struct{}
}

func newMemTagStore() *memTagStore {
	return &memTagStore{
		tags:     map[string]model.Tag{},
		bookTags: map[string]map[string]struct{}{},
	}
}

func (s *memTagStore) List(_ context.Context) ([]model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Tag, 0, len(s.tags))
	for _, t := range s.tags {
		out = append(out, t)
	}
	return out, nil
}

func (s *memTagStore) ListByBook(_ context.Context, bookUID string) ([]model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Tag, 0)
	for tagUID := range s.bookTags[bookUID] {
		out = append(out, s.tags[tagUID])
	}
	return out, nil
}

func (s *memTagStore) FindByUID(_ context.Context, uid string) (model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tags[uid]
	if !ok {
		return model.Tag{}, model.ErrTagNotFound
	}
	return t, nil
}

func (s *memTagStore) FindByName(_ context.Context, name string) (model.Tag, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tags {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}
	return model.Tag{}, model.ErrTagNotFound
}

func (s *memTagStore) Create(_ context.Context, t model.Tag) error {
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

func (s *memTagStore) Update(_ context.Context, t model.Tag) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tags[t.UID]; !ok {
		return model.ErrTagNotFound
	}
	s.tags[t.UID] = t
	return nil
}

func (s *memTagStore) Delete(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tags[uid]; !ok {
		return model.ErrTagNotFound
	}
	delete(s.tags, uid)
	return nil
}

func (s *memTagStore) AttachToBook(_ context.Context, bookUID string, tagUID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.bookTags[bookUID] == nil {
		s.bookTags[bookUID] = map[string]struct{}{}
	}
	s.bookTags[bookUID][tagUID] = struct{}{}
	return nil
}

// testEnv wires the full router against in-memory collaborators.
type testEnv struct {
	server *httptest.Server
	users  *memUserStore
	auth   *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		ServerPort:       "0",
		RequestTimeout:   10 * time.Second,
		JWTSecret:        "integration-test-secret",
		JWTAccessTTL:     time.Hour,
		JWTRefreshTTL:    48 * time.Hour,
		BlocklistTTL:     time.Hour,
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
	}

	users := newMemUserStore()
	books := newMemBookStore()
	reviews := newMemReviewStore()
	tags := newMemTagStore()
	bl := blocklist.NewMemory(cfg.BlocklistTTL)

	authService, err := service.NewAuthService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, users, bl)
	require.NoError(t, err)

	bookService := service.NewBookService(books, reviews, tags)
	reviewService := service.NewReviewService(reviews, books)
	tagService := service.NewTagService(tags, books)

	appRouter := router.New(cfg, middleware.NewAuthMiddleware(authService), router.Handlers{
		Auth:   handler.NewAuthHandler(authService, bookService, reviewService),
		Book:   handler.NewBookHandler(bookService),
		Review: handler.NewReviewHandler(reviewService),
		Tag:    handler.NewTagHandler(tagService),
	})

	server := httptest.NewServer(appRouter)
	t.Cleanup(server.Close)

	return &testEnv{server: server, users: users, auth: authService}
}

func (e *testEnv) signup(t *testing.T, email string, password string) {
	t.Helper()

	resp := e.doJSON(t, http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"username":   "reader",
		"first_name": "Ada",
		"last_name":  "Lovelace",
		"email":      email,
		"password":   password,
	}, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

// signupVerified registers a user and flips the verification flag the way the
// out-of-scope email flow would.
func (e *testEnv) signupVerified(t *testing.T, email string, password string) {
	t.Helper()
	e.signup(t, email, password)
	e.users.setVerified(email, true)
}

func (e *testEnv) login(t *testing.T, email string, password string) (string, string) {
	t.Helper()

	resp := e.doJSON(t, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed struct {
		Data struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.NotEmpty(t, parsed.Data.AccessToken)
	require.NotEmpty(t, parsed.Data.RefreshToken)

	return parsed.Data.AccessToken, parsed.Data.RefreshToken
}

func (e *testEnv) doJSON(t *testing.T, method string, path string, body any, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()

	var parsed struct {
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	require.NotNil(t, parsed.Error)
	return parsed.Error.Code
}
