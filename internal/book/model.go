package book

import (
	"time"

	"github.com/google/uuid"

	"github.com/expeditoe/backend/internal/user"
)

// Book is the domain view of a published title, with its relations loaded
// where the operation asks for them.
type Book struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Price            int64      `json:"price"`
	ReadCount        int64      `json:"readCount"`
	ViewCount        int64      `json:"viewCount"`
	Description      *string    `json:"description"`
	CoverImage       string     `json:"coverImage"`
	Tags             []string   `json:"tags"`
	AdditionalImages []string   `json:"additionalImages"`
	FileURL          string     `json:"fileUrl"`
	UserID           uuid.UUID  `json:"userId"`
	CategoryID       int64      `json:"categoryId"`
	LanguageID       int64      `json:"languageId"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`

	User      *user.User `json:"user,omitempty"`
	Category  *Category  `json:"category,omitempty"`
	Language  *Language  `json:"language,omitempty"`
	Favorites []Favorite `json:"favorites,omitempty"`
}

type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Language struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ISOCode   string    `json:"isoCode"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Advertisement struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Link        string    `json:"link"`
	AdImage     string    `json:"adImage"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Favorite struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	BookID    uuid.UUID `json:"bookId"`
	CreatedAt time.Time `json:"createdAt"`
}

// Publisher is a user holding the publisher role together with their books.
type Publisher struct {
	user.User
	Books []Book `json:"books"`
}
