package book

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"github.com/expeditoe/backend/internal/database"
	"github.com/expeditoe/backend/internal/user"
)

var (
	ErrBookNotFound     = errors.New("book not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrLanguageNotFound = errors.New("language not found")
	ErrAdvertNotFound   = errors.New("advert not found")
)

// Repository handles book catalog persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// CreateParams carries the fields needed to persist a new book.
type CreateParams struct {
	Name             string
	Price            int64
	Description      *string
	CoverImage       string
	Tags             []string
	AdditionalImages []string
	FileURL          string
	UserID           uuid.UUID
	CategoryID       int64
	LanguageID       int64
}

func (r *Repository) Create(ctx context.Context, params CreateParams) (*Book, error) {
	dbBook := &database.Book{
		ID:               uuid.New(),
		Name:             params.Name,
		Price:            params.Price,
		Description:      params.Description,
		CoverImage:       params.CoverImage,
		Tags:             params.Tags,
		AdditionalImages: params.AdditionalImages,
		FileURL:          params.FileURL,
		UserID:           params.UserID,
		CategoryID:       params.CategoryID,
		LanguageID:       params.LanguageID,
	}

	_, err := r.db.NewInsert().
		Model(dbBook).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return mapDBBookToModel(dbBook), nil
}

// GetByID loads a book with its user, category, language, and favorites.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Book, error) {
	dbBook := new(database.Book)
	err := r.db.NewSelect().
		Model(dbBook).
		Relation("User").
		Relation("Category").
		Relation("Language").
		Relation("Favorites").
		Where("b.id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	return mapDBBookToModel(dbBook), nil
}

// ListByUser returns a user's books with their favorites loaded.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Book, error) {
	var dbBooks []database.Book
	err := r.db.NewSelect().
		Model(&dbBooks).
		Relation("User").
		Relation("Favorites").
		Where("b.user_id = ?", userID).
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	books := make([]Book, 0, len(dbBooks))
	for i := range dbBooks {
		books = append(books, *mapDBBookToModel(&dbBooks[i]))
	}
	return books, nil
}

// UpdateParams are the caller-editable book fields. Nil fields keep the
// stored value.
type UpdateParams struct {
	Name             *string
	Price            *int64
	Description      *string
	CoverImage       *string
	Tags             []string
	AdditionalImages []string
	FileURL          *string
	CategoryID       *int64
	LanguageID       *int64
}

// Update merges the provided fields over the existing row.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpdateParams) error {
	q := r.db.NewUpdate().
		Model((*database.Book)(nil)).
		Set("updated_at = NOW()").
		Where("id = ?", id)

	if params.Name != nil {
		q = q.Set("name = ?", *params.Name)
	}
	if params.Price != nil {
		q = q.Set("price = ?", *params.Price)
	}
	if params.Description != nil {
		q = q.Set("description = ?", *params.Description)
	}
	if params.CoverImage != nil {
		q = q.Set("cover_image = ?", *params.CoverImage)
	}
	if params.Tags != nil {
		q = q.Set("tags = ?", pgdialect.Array(params.Tags))
	}
	if params.AdditionalImages != nil {
		q = q.Set("additional_images = ?", pgdialect.Array(params.AdditionalImages))
	}
	if params.FileURL != nil {
		q = q.Set("file_url = ?", *params.FileURL)
	}
	if params.CategoryID != nil {
		q = q.Set("category_id = ?", *params.CategoryID)
	}
	if params.LanguageID != nil {
		q = q.Set("language_id = ?", *params.LanguageID)
	}

	result, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}

	return checkAffected(result, ErrBookNotFound)
}

// Delete removes a book. Deleting an absent id is not an error.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*database.Book)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return nil
}

// UserExists reports whether a user row exists.
func (r *Repository) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*database.User)(nil)).
		Where("id = ?", id).
		Exists(ctx)

	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}

// CategoryExists reports whether a category row exists.
func (r *Repository) CategoryExists(ctx context.Context, id int64) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*database.Category)(nil)).
		Where("id = ?", id).
		Exists(ctx)

	if err != nil {
		return false, fmt.Errorf("failed to check category: %w", err)
	}
	return exists, nil
}

// LanguageExists reports whether a language row exists.
func (r *Repository) LanguageExists(ctx context.Context, id int64) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*database.Language)(nil)).
		Where("id = ?", id).
		Exists(ctx)

	if err != nil {
		return false, fmt.Errorf("failed to check language: %w", err)
	}
	return exists, nil
}

func (r *Repository) CreateCategory(ctx context.Context, name string) (*Category, error) {
	dbCategory := &database.Category{Name: name}

	_, err := r.db.NewInsert().
		Model(dbCategory).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return mapDBCategoryToModel(dbCategory), nil
}

func (r *Repository) UpdateCategory(ctx context.Context, id int64, name string) error {
	result, err := r.db.NewUpdate().
		Model((*database.Category)(nil)).
		Set("name = ?", name).
		Set("updated_at = NOW()").
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}

	return checkAffected(result, ErrCategoryNotFound)
}

func (r *Repository) DeleteCategory(ctx context.Context, id int64) error {
	_, err := r.db.NewDelete().
		Model((*database.Category)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	return nil
}

// ListFavoriteBooks returns the books a user has favorited.
func (r *Repository) ListFavoriteBooks(ctx context.Context, userID uuid.UUID) ([]Book, error) {
	var dbBooks []database.Book
	err := r.db.NewSelect().
		Model(&dbBooks).
		Join("JOIN favorites AS f ON f.book_id = b.id").
		Where("f.user_id = ?", userID).
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list favorite books: %w", err)
	}

	books := make([]Book, 0, len(dbBooks))
	for i := range dbBooks {
		books = append(books, *mapDBBookToModel(&dbBooks[i]))
	}
	return books, nil
}

// ListPublishers returns every user holding the publisher role, with their
// books and each book's favorites.
func (r *Repository) ListPublishers(ctx context.Context) ([]Publisher, error) {
	var dbUsers []database.User
	err := r.db.NewSelect().
		Model(&dbUsers).
		Join("JOIN user_roles AS ur ON ur.user_id = u.id").
		Join("JOIN roles AS ro ON ro.id = ur.role_id").
		Where("ro.name = ?", "publisher").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list publishers: %w", err)
	}

	publishers := make([]Publisher, 0, len(dbUsers))
	for i := range dbUsers {
		books, err := r.ListByUser(ctx, dbUsers[i].ID)
		if err != nil {
			return nil, err
		}
		publishers = append(publishers, Publisher{
			User:  *mapDBUserToModel(&dbUsers[i]),
			Books: books,
		})
	}
	return publishers, nil
}

func checkAffected(result sql.Result, missing error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return missing
	}
	return nil
}

func mapDBBookToModel(dbb *database.Book) *Book {
	b := &Book{
		ID:               dbb.ID,
		Name:             dbb.Name,
		Price:            dbb.Price,
		ReadCount:        dbb.ReadCount,
		ViewCount:        dbb.ViewCount,
		Description:      dbb.Description,
		CoverImage:       dbb.CoverImage,
		Tags:             dbb.Tags,
		AdditionalImages: dbb.AdditionalImages,
		FileURL:          dbb.FileURL,
		UserID:           dbb.UserID,
		CategoryID:       dbb.CategoryID,
		LanguageID:       dbb.LanguageID,
		CreatedAt:        dbb.CreatedAt,
		UpdatedAt:        dbb.UpdatedAt,
	}

	if dbb.User != nil {
		b.User = mapDBUserToModel(dbb.User)
	}
	if dbb.Category != nil {
		b.Category = mapDBCategoryToModel(dbb.Category)
	}
	if dbb.Language != nil {
		b.Language = &Language{
			ID:        dbb.Language.ID,
			Name:      dbb.Language.Name,
			ISOCode:   dbb.Language.ISOCode,
			CreatedAt: dbb.Language.CreatedAt,
			UpdatedAt: dbb.Language.UpdatedAt,
		}
	}
	for _, f := range dbb.Favorites {
		b.Favorites = append(b.Favorites, Favorite{
			ID:        f.ID,
			UserID:    f.UserID,
			BookID:    f.BookID,
			CreatedAt: f.CreatedAt,
		})
	}

	return b
}

func mapDBCategoryToModel(dbc *database.Category) *Category {
	return &Category{
		ID:        dbc.ID,
		Name:      dbc.Name,
		CreatedAt: dbc.CreatedAt,
		UpdatedAt: dbc.UpdatedAt,
	}
}

func mapDBUserToModel(dbu *database.User) *user.User {
	return &user.User{
		ID:          dbu.ID,
		Name:        dbu.Name,
		Username:    dbu.Username,
		Email:       dbu.Email,
		ImageURL:    dbu.ImageURL,
		Country:     dbu.Country,
		IsSuspended: dbu.IsSuspended,
		CreatedAt:   dbu.CreatedAt,
		UpdatedAt:   dbu.UpdatedAt,
	}
}
