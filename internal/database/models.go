package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the persisted user record. Reset token columns are nullable and
// must both be cleared when a reset code is consumed or found expired.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                  uuid.UUID  `bun:"id,pk,type:uuid"`
	Name                string     `bun:"name,notnull"`
	Username            *string    `bun:"username"`
	Email               string     `bun:"email,notnull,unique"`
	PasswordHash        string     `bun:"password_hash,notnull"`
	ImageURL            *string    `bun:"image_url"`
	Country             *string    `bun:"country"`
	IsSuspended         bool       `bun:"is_suspended,notnull,default:false"`
	ResetToken          *string    `bun:"reset_token"`
	ResetTokenCreatedAt *time.Time `bun:"reset_token_created_at"`
	CreatedAt           time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt           time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID               uuid.UUID `bun:"id,pk,type:uuid"`
	Name             string    `bun:"name,notnull"`
	Price            int64     `bun:"price,notnull"`
	ReadCount        int64     `bun:"read_count,notnull,default:0"`
	ViewCount        int64     `bun:"view_count,notnull,default:0"`
	Description      *string   `bun:"description"`
	CoverImage       string    `bun:"cover_image,notnull"`
	Tags             []string  `bun:"tags,array"`
	AdditionalImages []string  `bun:"additional_images,array"`
	FileURL          string    `bun:"file_url,notnull"`
	UserID           uuid.UUID `bun:"user_id,type:uuid,notnull"`
	CategoryID       int64     `bun:"category_id,notnull"`
	LanguageID       int64     `bun:"language_id,notnull"`
	CreatedAt        time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt        time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`

	User      *User       `bun:"rel:belongs-to,join:user_id=id"`
	Category  *Category   `bun:"rel:belongs-to,join:category_id=id"`
	Language  *Language   `bun:"rel:belongs-to,join:language_id=id"`
	Favorites []*Favorite `bun:"rel:has-many,join:id=book_id"`
}

type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type Language struct {
	bun.BaseModel `bun:"table:languages,alias:l"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull"`
	ISOCode   string    `bun:"iso_code,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type Advertisement struct {
	bun.BaseModel `bun:"table:advertisements,alias:a"`

	ID          uuid.UUID `bun:"id,pk,type:uuid"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description,notnull"`
	Link        string    `bun:"link,notnull"`
	AdImage     string    `bun:"ad_image,notnull"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type Favorite struct {
	bun.BaseModel `bun:"table:favorites,alias:f"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	UserID    uuid.UUID `bun:"user_id,type:uuid,notnull"`
	BookID    uuid.UUID `bun:"book_id,type:uuid,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`

	Book *Book `bun:"rel:belongs-to,join:book_id=id"`
}

type Role struct {
	bun.BaseModel `bun:"table:roles,alias:r"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Name        string    `bun:"name,notnull"`
	Description *string   `bun:"description"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

type UserRole struct {
	bun.BaseModel `bun:"table:user_roles,alias:ur"`

	UserID    uuid.UUID `bun:"user_id,pk,type:uuid"`
	RoleID    int64     `bun:"role_id,pk"`
	IsPrimary bool      `bun:"is_primary,notnull,default:false"`
}
