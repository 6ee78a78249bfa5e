package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a recipe entry authored by a user.
type Post struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Title        string    `db:"title" json:"title"`
	Description  string    `db:"description" json:"description"`
	PostImage    string    `db:"post_image" json:"post_image"`
	Portions     int       `db:"portions" json:"portions"`
	PrepTime     int       `db:"prep_time" json:"prep_time"` // minutes
	CookTime     int       `db:"cook_time" json:"cook_time"` // minutes
	TypeCategory string    `db:"type_category" json:"type_category"`

	// Ingredients and Preparation hold the author's markdown source;
	// the *HTML fields hold the sanitized rendering and are recomputed
	// by the service on every write.
	Ingredients     string `db:"ingredients" json:"ingredients"`
	IngredientsHTML string `db:"ingredients_html" json:"ingredients_html"`
	Preparation     string `db:"preparation" json:"preparation"`
	PreparationHTML string `db:"preparation_html" json:"preparation_html"`

	UserID     uuid.UUID `db:"user_id" json:"user_id"`
	DatePosted time.Time `db:"date_posted" json:"date_posted"`
}

// Comment belongs to a post. Disabled comments are hidden from regular
// listings but still visible to moderators.
type Comment struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Body      string    `db:"body" json:"body"`
	BodyHTML  string    `db:"body_html" json:"body_html"`
	Disabled  bool      `db:"disabled" json:"disabled"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	PostID    uuid.UUID `db:"post_id" json:"post_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Follow is a directed edge: follower subscribes to followed.
type Follow struct {
	FollowerID uuid.UUID `db:"follower_id" json:"follower_id"`
	FollowedID uuid.UUID `db:"followed_id" json:"followed_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// FavoritePost joins a user to a post they liked.
type FavoritePost struct {
	UserID  uuid.UUID `db:"user_id" json:"user_id"`
	PostID  uuid.UUID `db:"post_id" json:"post_id"`
	LikedAt time.Time `db:"liked_at" json:"liked_at"`
}
