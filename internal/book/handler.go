package book

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/expeditoe/backend/internal/httputil"
	"github.com/expeditoe/backend/internal/logging"
)

// Handler contains HTTP handlers for the book catalog.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateBookRequest is the create body for books.
type CreateBookRequest struct {
	Name             string    `json:"name"`
	Price            int64     `json:"price"`
	Description      *string   `json:"description"`
	CoverImage       string    `json:"coverImage"`
	Tags             []string  `json:"tags"`
	AdditionalImages []string  `json:"additionalImages"`
	FileURL          string    `json:"fileUrl"`
	UserID           uuid.UUID `json:"userId"`
	CategoryID       int64     `json:"categoryId"`
	LanguageID       int64     `json:"languageId"`
}

// UpdateBookRequest carries the book id plus the fields to merge.
type UpdateBookRequest struct {
	ID               uuid.UUID `json:"id"`
	Name             *string   `json:"name"`
	Price            *int64    `json:"price"`
	Description      *string   `json:"description"`
	CoverImage       *string   `json:"coverImage"`
	Tags             []string  `json:"tags"`
	AdditionalImages []string  `json:"additionalImages"`
	FileURL          *string   `json:"fileUrl"`
	CategoryID       *int64    `json:"categoryId"`
	LanguageID       *int64    `json:"languageId"`
}

// CategoryRequest is the create/update body for categories.
type CategoryRequest struct {
	Name string `json:"name"`
}

// AdvertRequest is the create/update body for advertisements.
type AdvertRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link"`
	AdImage     string `json:"adImage"`
}

// CreateBook stores a new book.
// @Summary      Create a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        request body CreateBookRequest true "Book"
// @Security     BearerAuth
// @Success      200 {object} map[string]any
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /v1/books [post]
func (h *Handler) CreateBook(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondAppError(w, httputil.BadRequest("invalid request body"))
		return
	}
	if req.Name == "" {
		httputil.RespondAppError(w, httputil.BadRequest("Name is required"))
		return
	}

	b, err := h.service.CreateBook(r.Context(), CreateParams{
		Name:             req.Name,
		Price:            req.Price,
		Description:      req.Description,
		CoverImage:       req.CoverImage,
		Tags:             req.Tags,
		AdditionalImages: req.AdditionalImages,
		FileURL:          req.FileURL,
		UserID:           req.UserID,
		CategoryID:       req.CategoryID,
		LanguageID:       req.LanguageID,
	})
	if err != nil {
		logger.Warn("book create failed", "user_id", req.UserID, "error", err.Error())
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, map[string]any{
		"book":    b,
		"message": "Book stored successfully",
	}, http.StatusOK)
}

// GetBook returns one book with its relations.
// @Summary      Fetch a book
// @Tags         books
// @Produce      json
// @Param        id path string true "Book ID"
// @Security     BearerAuth
// @Success      200 {object} map[string]any
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /v1/books/{id} [get]
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondAppError(w, httputil.BadRequest("Invalid book id"))
		return
	}

	b, err := h.service.GetBook(r.Context(), id)
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, map[string]any{
		"book":    b,
		"message": "Fetched book successfully",
	}, http.StatusOK)
}

// ListBooks returns a user's books.
// @Summary      List a user's books
// @Tags         books
// @Produce      json
// @Param        userId query string true "User ID"
// @Security     BearerAuth
// @Success      200 {object} map[string]any
// @Router       /v1/books [get]
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.URL.Query().Get("userId"))
	if err != nil {
		httputil.RespondAppError(w, httputil.BadRequest("Invalid user id"))
		return
	}

	books, err := h.service.ListBooks(r.Context(), userID)
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, map[string]any{
		"books":   books,
		"message": "Fetched all books successfully",
	}, http.StatusOK)
}

// UpdateBook merges the provided fields over an existing book.
// @Summary      Update a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        request body UpdateBookRequest true "Fields to merge"
// @Security     BearerAuth
// @Success      200 {object} map[string]string
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /v1/books [put]
func (h *Handler) UpdateBook(w http.ResponseWriter, r *http.Request) {
	var req UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondAppError(w, httputil.BadRequest("invalid request body"))
		return
	}
	if req.ID == uuid.Nil {
		httputil.RespondAppError(w, httputil.BadRequest("Invalid book id"))
		return
	}

	err := h.service.UpdateBook(r.Context(), req.ID, UpdateParams{
		Name:             req.Name,
		Price:            req.Price,
		Description:      req.Description,
		CoverImage:       req.CoverImage,
		Tags:             req.Tags,
		AdditionalImages: req.AdditionalImages,
		FileURL:          req.FileURL,
		CategoryID:       req.CategoryID,
		LanguageID:       req.LanguageID,
	})
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, map[string]string{"message": "Book updated successfully"}, http.StatusOK)
}

// DeleteBook removes a book. Deleting an absent book still succeeds.
// @Summary      Delete a book
// @Tags         books
// @Produce      json
// @Param        id path string true "Book ID"
// @Security     BearerAuth
// @Success      200 {object} map[string]string
// @Router       /v1/books/{id} [delete]
func (h *Handler) DeleteBook(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httputil.RespondAppError(w, httputil.BadRequest("Invalid book id"))
		return
	}

	if err := h.service.DeleteBook(r.Context(), id); err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, map[string]string{"message": "Book deleted successfully"}, http.StatusOK)
}

// CreateCategory creates a book category.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondAppError(w, httputil.BadRequest("invalid request body"))
		return
	}
	if req.Name == "" {
		httputil.RespondAppError(w, httputil.BadRequest("Name is required"))
		return
	}

	category, err := h.service.CreateCategory(r.Context(), req.Name)
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, map[string]any{
		"category": category,
		"message":  "Category created successfully",
	}, http.StatusOK)
}

// UpdateCategory renames a category.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := categoryIDParam(r)
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	var req CategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondAppError(w, httputil.BadRequest("invalid request body"))
		return
	}
	if req.Name == "" {
		httputil.RespondAppError(w, httputil.BadRequest("Name is required"))
		return
	}

	if err := h.service.UpdateCategory(r.Context(), id, req.Name); err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, map[string]string{"message": "Category updated successfully"}, http.StatusOK)
}

// DeleteCategory removes a category. Idempotent.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := categoryIDParam(r)
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, map[string]bool{"success": true}, http.StatusOK)
}

// CreateAdvert creates an advertisement.
func (h *Handler) CreateAdvert(w http.ResponseWriter, r *http.Request) {
	var req AdvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondAppError(w, httputil.BadRequest("invalid request body"))
		return
	}
	if req.Name == "" {
		httputil.RespondAppError(w, httputil.BadRequest("Name is required"))
		return
	}

	advert, err := h.service.CreateAdvert(r.Context(), AdvertParams{
		Name:        req.Name,
		Description: req.Description,
		Link:        req.Link,
		AdImage:     req.AdImage,
	})
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, map[string]any{
		"advert":  advert,
		"message": "Advert created successfully",
	}, http.StatusOK)
}

// GetAdvert returns one advertisement.
func (h *Handler) GetAdvert(w http.ResponseWriter, r *http.Request) {
	id, err := advertIDParam(r)
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	advert, err := h.service.GetAdvert(r.Context(), id)
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, map[string]any{
		"advert":  advert,
		"message": "Fetched advert successfully",
	}, http.StatusOK)
}

// ListAdverts returns all advertisements, newest first.
func (h *Handler) ListAdverts(w http.ResponseWriter, r *http.Request) {
	adverts, err := h.service.ListAdverts(r.Context())
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, map[string]any{
		"adverts": adverts,
		"message": "Fetched all adverts successfully",
	}, http.StatusOK)
}

// UpdateAdvert merges non-empty fields over an advertisement.
func (h *Handler) UpdateAdvert(w http.ResponseWriter, r *http.Request) {
	id, err := advertIDParam(r)
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	var req AdvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.RespondAppError(w, httputil.BadRequest("invalid request body"))
		return
	}

	err = h.service.UpdateAdvert(r.Context(), id, AdvertParams{
		Name:        req.Name,
		Description: req.Description,
		Link:        req.Link,
		AdImage:     req.AdImage,
	})
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	advert, err := h.service.GetAdvert(r.Context(), id)
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, map[string]any{
		"advert":  advert,
		"message": "Advert updated successfully",
	}, http.StatusOK)
}

// DeleteAdvert removes an advertisement. Idempotent.
func (h *Handler) DeleteAdvert(w http.ResponseWriter, r *http.Request) {
	id, err := advertIDParam(r)
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	if err := h.service.DeleteAdvert(r.Context(), id); err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, map[string]string{"message": "Advert deleted successfully"}, http.StatusOK)
}

// ListFavorites returns the books a user has favorited.
// @Summary      List a user's favorite books
// @Tags         books
// @Produce      json
// @Param        userId path string true "User ID"
// @Security     BearerAuth
// @Success      200 {object} map[string]any
// @Router       /v1/books/favorites/{userId} [get]
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userId"))
	if err != nil {
		httputil.RespondAppError(w, httputil.BadRequest("Invalid user id"))
		return
	}

	favorites, err := h.service.ListFavorites(r.Context(), userID)
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, map[string]any{"favorites": favorites}, http.StatusOK)
}

// ListPublishers returns users holding the publisher role with their books.
// @Summary      List publishers
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} map[string]any
// @Router       /v1/books/publishers/all [get]
func (h *Handler) ListPublishers(w http.ResponseWriter, r *http.Request) {
	publishers, err := h.service.ListPublishers(r.Context())
	if err != nil {
		httputil.RespondAppError(w, err)
		return
	}

	httputil.RespondJSON(w, map[string]any{"publishers": publishers}, http.StatusOK)
}

func categoryIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, httputil.BadRequest("Invalid category id")
	}
	return id, nil
}

func advertIDParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, httputil.BadRequest("Invalid advert id")
	}
	return id, nil
}
