package book

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/expeditoe/backend/internal/database"
)

// AdvertParams carries the advertisement fields for create and update.
type AdvertParams struct {
	Name        string
	Description string
	Link        string
	AdImage     string
}

func (r *Repository) CreateAdvert(ctx context.Context, params AdvertParams) (*Advertisement, error) {
	dbAdvert := &database.Advertisement{
		ID:          uuid.New(),
		Name:        params.Name,
		Description: params.Description,
		Link:        params.Link,
		AdImage:     params.AdImage,
	}

	_, err := r.db.NewInsert().
		Model(dbAdvert).
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to create advert: %w", err)
	}

	return mapDBAdvertToModel(dbAdvert), nil
}

func (r *Repository) GetAdvert(ctx context.Context, id uuid.UUID) (*Advertisement, error) {
	dbAdvert := new(database.Advertisement)
	err := r.db.NewSelect().
		Model(dbAdvert).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAdvertNotFound
		}
		return nil, fmt.Errorf("failed to get advert: %w", err)
	}

	return mapDBAdvertToModel(dbAdvert), nil
}

func (r *Repository) ListAdverts(ctx context.Context) ([]Advertisement, error) {
	var dbAdverts []database.Advertisement
	err := r.db.NewSelect().
		Model(&dbAdverts).
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list adverts: %w", err)
	}

	adverts := make([]Advertisement, 0, len(dbAdverts))
	for i := range dbAdverts {
		adverts = append(adverts, *mapDBAdvertToModel(&dbAdverts[i]))
	}
	return adverts, nil
}

// UpdateAdvert merges non-empty fields over the existing row.
func (r *Repository) UpdateAdvert(ctx context.Context, id uuid.UUID, params AdvertParams) error {
	q := r.db.NewUpdate().
		Model((*database.Advertisement)(nil)).
		Set("updated_at = NOW()").
		Where("id = ?", id)

	if params.Name != "" {
		q = q.Set("name = ?", params.Name)
	}
	if params.Description != "" {
		q = q.Set("description = ?", params.Description)
	}
	if params.Link != "" {
		q = q.Set("link = ?", params.Link)
	}
	if params.AdImage != "" {
		q = q.Set("ad_image = ?", params.AdImage)
	}

	result, err := q.Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update advert: %w", err)
	}

	return checkAffected(result, ErrAdvertNotFound)
}

func (r *Repository) DeleteAdvert(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.NewDelete().
		Model((*database.Advertisement)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete advert: %w", err)
	}
	return nil
}

func mapDBAdvertToModel(dba *database.Advertisement) *Advertisement {
	return &Advertisement{
		ID:          dba.ID,
		Name:        dba.Name,
		Description: dba.Description,
		Link:        dba.Link,
		AdImage:     dba.AdImage,
		CreatedAt:   dba.CreatedAt,
		UpdatedAt:   dba.UpdatedAt,
	}
}
