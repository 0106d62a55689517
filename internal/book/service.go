package book

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/expeditoe/backend/internal/httputil"
)

// Store is the persistence surface the catalog service needs. *Repository
// implements it; tests supply in-memory fakes.
type Store interface {
	Create(ctx context.Context, params CreateParams) (*Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Book, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Book, error)
	Update(ctx context.Context, id uuid.UUID, params UpdateParams) error
	Delete(ctx context.Context, id uuid.UUID) error

	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
	LanguageExists(ctx context.Context, id int64) (bool, error)

	CreateCategory(ctx context.Context, name string) (*Category, error)
	UpdateCategory(ctx context.Context, id int64, name string) error
	DeleteCategory(ctx context.Context, id int64) error

	CreateAdvert(ctx context.Context, params AdvertParams) (*Advertisement, error)
	GetAdvert(ctx context.Context, id uuid.UUID) (*Advertisement, error)
	ListAdverts(ctx context.Context) ([]Advertisement, error)
	UpdateAdvert(ctx context.Context, id uuid.UUID, params AdvertParams) error
	DeleteAdvert(ctx context.Context, id uuid.UUID) error

	ListFavoriteBooks(ctx context.Context, userID uuid.UUID) ([]Book, error)
	ListPublishers(ctx context.Context) ([]Publisher, error)
}

// Service enforces catalog business rules over a Store.
type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// CreateBook stores a new book after verifying its referenced user,
// category, and language all exist.
func (s *Service) CreateBook(ctx context.Context, params CreateParams) (*Book, error) {
	userOK, err := s.store.UserExists(ctx, params.UserID)
	if err != nil {
		return nil, err
	}
	if !userOK {
		return nil, httputil.NotFound(fmt.Sprintf("user with the id %s not found", params.UserID))
	}

	categoryOK, err := s.store.CategoryExists(ctx, params.CategoryID)
	if err != nil {
		return nil, err
	}
	if !categoryOK {
		return nil, httputil.NotFound(fmt.Sprintf("Category with the id %d not found", params.CategoryID))
	}

	languageOK, err := s.store.LanguageExists(ctx, params.LanguageID)
	if err != nil {
		return nil, err
	}
	if !languageOK {
		return nil, httputil.NotFound(fmt.Sprintf("Language with the id %d not found", params.LanguageID))
	}

	return s.store.Create(ctx, params)
}

func (s *Service) GetBook(ctx context.Context, id uuid.UUID) (*Book, error) {
	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, bookNotFound(id, err)
	}
	return b, nil
}

func (s *Service) ListBooks(ctx context.Context, userID uuid.UUID) ([]Book, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *Service) UpdateBook(ctx context.Context, id uuid.UUID, params UpdateParams) error {
	if err := s.store.Update(ctx, id, params); err != nil {
		return bookNotFound(id, err)
	}
	return nil
}

// DeleteBook is idempotent: deleting an absent book succeeds.
func (s *Service) DeleteBook(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

func (s *Service) CreateCategory(ctx context.Context, name string) (*Category, error) {
	return s.store.CreateCategory(ctx, name)
}

func (s *Service) UpdateCategory(ctx context.Context, id int64, name string) error {
	if err := s.store.UpdateCategory(ctx, id, name); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			return httputil.NotFound(fmt.Sprintf("Category with the id %d not found", id))
		}
		return err
	}
	return nil
}

func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	return s.store.DeleteCategory(ctx, id)
}

func (s *Service) CreateAdvert(ctx context.Context, params AdvertParams) (*Advertisement, error) {
	return s.store.CreateAdvert(ctx, params)
}

func (s *Service) GetAdvert(ctx context.Context, id uuid.UUID) (*Advertisement, error) {
	a, err := s.store.GetAdvert(ctx, id)
	if err != nil {
		return nil, advertNotFound(id, err)
	}
	return a, nil
}

func (s *Service) ListAdverts(ctx context.Context) ([]Advertisement, error) {
	return s.store.ListAdverts(ctx)
}

func (s *Service) UpdateAdvert(ctx context.Context, id uuid.UUID, params AdvertParams) error {
	if err := s.store.UpdateAdvert(ctx, id, params); err != nil {
		return advertNotFound(id, err)
	}
	return nil
}

func (s *Service) DeleteAdvert(ctx context.Context, id uuid.UUID) error {
	return s.store.DeleteAdvert(ctx, id)
}

func (s *Service) ListFavorites(ctx context.Context, userID uuid.UUID) ([]Book, error) {
	return s.store.ListFavoriteBooks(ctx, userID)
}

func (s *Service) ListPublishers(ctx context.Context) ([]Publisher, error) {
	return s.store.ListPublishers(ctx)
}

func bookNotFound(id uuid.UUID, err error) error {
	if errors.Is(err, ErrBookNotFound) {
		return httputil.NotFound(fmt.Sprintf("Book with the id %s not found", id))
	}
	return err
}

func advertNotFound(id uuid.UUID, err error) error {
	if errors.Is(err, ErrAdvertNotFound) {
		return httputil.NotFound(fmt.Sprintf("Advert with the id %s not found", id))
	}
	return err
}
