package book

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expeditoe/backend/internal/httputil"
)

// fakeStore is an in-memory Store covering what the service tests exercise.
type fakeStore struct {
	users      map[uuid.UUID]bool
	categories map[int64]bool
	languages  map[int64]bool
	books      map[uuid.UUID]*Book
	adverts    map[uuid.UUID]*Advertisement
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      make(map[uuid.UUID]bool),
		categories: make(map[int64]bool),
		languages:  make(map[int64]bool),
		books:      make(map[uuid.UUID]*Book),
		adverts:    make(map[uuid.UUID]*Advertisement),
	}
}

func (f *fakeStore) Create(ctx context.Context, params CreateParams) (*Book, error) {
	b := &Book{
		ID:         uuid.New(),
		Name:       params.Name,
		Price:      params.Price,
		UserID:     params.UserID,
		CategoryID: params.CategoryID,
		LanguageID: params.LanguageID,
	}
	f.books[b.ID] = b
	return b, nil
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, ErrBookNotFound
	}
	return b, nil
}

func (f *fakeStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]Book, error) {
	var books []Book
	for _, b := range f.books {
		if b.UserID == userID {
			books = append(books, *b)
		}
	}
	return books, nil
}

func (f *fakeStore) Update(ctx context.Context, id uuid.UUID, params UpdateParams) error {
	b, ok := f.books[id]
	if !ok {
		return ErrBookNotFound
	}
	if params.Name != nil {
		b.Name = *params.Name
	}
	if params.Price != nil {
		b.Price = *params.Price
	}
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.books, id)
	return nil
}

func (f *fakeStore) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return f.users[id], nil
}

func (f *fakeStore) CategoryExists(ctx context.Context, id int64) (bool, error) {
	return f.categories[id], nil
}

func (f *fakeStore) LanguageExists(ctx context.Context, id int64) (bool, error) {
	return f.languages[id], nil
}

func (f *fakeStore) CreateCategory(ctx context.Context, name string) (*Category, error) {
	id := int64(len(f.categories) + 1)
	f.categories[id] = true
	return &Category{ID: id, Name: name}, nil
}

func (f *fakeStore) UpdateCategory(ctx context.Context, id int64, name string) error {
	if !f.categories[id] {
		return ErrCategoryNotFound
	}
	return nil
}

func (f *fakeStore) DeleteCategory(ctx context.Context, id int64) error {
	delete(f.categories, id)
	return nil
}

func (f *fakeStore) CreateAdvert(ctx context.Context, params AdvertParams) (*Advertisement, error) {
	a := &Advertisement{ID: uuid.New(), Name: params.Name}
	f.adverts[a.ID] = a
	return a, nil
}

func (f *fakeStore) GetAdvert(ctx context.Context, id uuid.UUID) (*Advertisement, error) {
	a, ok := f.adverts[id]
	if !ok {
		return nil, ErrAdvertNotFound
	}
	return a, nil
}

func (f *fakeStore) ListAdverts(ctx context.Context) ([]Advertisement, error) {
	var adverts []Advertisement
	for _, a := range f.adverts {
		adverts = append(adverts, *a)
	}
	return adverts, nil
}

func (f *fakeStore) UpdateAdvert(ctx context.Context, id uuid.UUID, params AdvertParams) error {
	if _, ok := f.adverts[id]; !ok {
		return ErrAdvertNotFound
	}
	return nil
}

func (f *fakeStore) DeleteAdvert(ctx context.Context, id uuid.UUID) error {
	delete(f.adverts, id)
	return nil
}

func (f *fakeStore) ListFavoriteBooks(ctx context.Context, userID uuid.UUID) ([]Book, error) {
	return nil, nil
}

func (f *fakeStore) ListPublishers(ctx context.Context) ([]Publisher, error) {
	return nil, nil
}

func seededStore() (*fakeStore, uuid.UUID) {
	store := newFakeStore()
	userID := uuid.New()
	store.users[userID] = true
	store.categories[1] = true
	store.languages[1] = true
	return store, userID
}

func requireNotFound(t *testing.T, err error, fragment string) {
	t.Helper()

	var appErr *httputil.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 404, appErr.Status)
	assert.Contains(t, appErr.Message, fragment)
}

func TestCreateBook(t *testing.T) {
	t.Parallel()

	store, userID := seededStore()
	svc := NewService(store)

	b, err := svc.CreateBook(context.Background(), CreateParams{
		Name:       "The Go Workshop",
		Price:      1500,
		UserID:     userID,
		CategoryID: 1,
		LanguageID: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "The Go Workshop", b.Name)
	assert.NotEqual(t, uuid.Nil, b.ID)
}

func TestCreateBook_DanglingReferences(t *testing.T) {
	t.Parallel()

	store, userID := seededStore()
	svc := NewService(store)

	ghostUser := uuid.New()
	_, err := svc.CreateBook(context.Background(), CreateParams{
		Name: "Orphan", UserID: ghostUser, CategoryID: 1, LanguageID: 1,
	})
	requireNotFound(t, err, "user with the id "+ghostUser.String())

	_, err = svc.CreateBook(context.Background(), CreateParams{
		Name: "Orphan", UserID: userID, CategoryID: 42, LanguageID: 1,
	})
	requireNotFound(t, err, "Category with the id 42")

	_, err = svc.CreateBook(context.Background(), CreateParams{
		Name: "Orphan", UserID: userID, CategoryID: 1, LanguageID: 42,
	})
	requireNotFound(t, err, "Language with the id 42")

	// Nothing was stored along the way.
	assert.Empty(t, store.books)
}

func TestGetBook_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeStore())

	id := uuid.New()
	_, err := svc.GetBook(context.Background(), id)
	requireNotFound(t, err, "Book with the id "+id.String())
}

func TestUpdateBook_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeStore())

	id := uuid.New()
	name := "Renamed"
	err := svc.UpdateBook(context.Background(), id, UpdateParams{Name: &name})
	requireNotFound(t, err, "Book with the id "+id.String())
}

func TestDeleteBook_Idempotent(t *testing.T) {
	t.Parallel()

	store, userID := seededStore()
	svc := NewService(store)

	b, err := svc.CreateBook(context.Background(), CreateParams{
		Name: "Short Lived", UserID: userID, CategoryID: 1, LanguageID: 1,
	})
	require.NoError(t, err)

	assert.NoError(t, svc.DeleteBook(context.Background(), b.ID))
	assert.NoError(t, svc.DeleteBook(context.Background(), b.ID))
	assert.NoError(t, svc.DeleteBook(context.Background(), uuid.New()))
}

func TestUpdateCategory_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeStore())

	err := svc.UpdateCategory(context.Background(), 7, "Sci-Fi")
	requireNotFound(t, err, "Category with the id 7")
}

func TestUpdateAdvert_NotFound(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeStore())

	id := uuid.New()
	err := svc.UpdateAdvert(context.Background(), id, AdvertParams{Name: "Spring Sale"})
	requireNotFound(t, err, "Advert with the id "+id.String())
}
