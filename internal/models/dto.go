package models

import (
	"fmt"
	"time"
)

// APIBasePath prefixes every resource self-link.
const APIBasePath = "/api/v1"

// UserJSON is the API projection of a user. Email is only included when the
// requester is the user themselves or an administrator.
type UserJSON struct {
	URL           string    `json:"url"`
	Username      string    `json:"username"`
	Email         string    `json:"email,omitempty"`
	ImageFile     string    `json:"image_file"`
	Location      string    `json:"location"`
	AboutMe       string    `json:"about_me"`
	Confirmed     bool      `json:"confirmed"`
	LastSeen      time.Time `json:"last_seen"`
	CreatedAt     time.Time `json:"created_at"`
	PostsURL      string    `json:"posts_url"`
	FollowersURL  string    `json:"followers_url"`
	FollowedURL   string    `json:"followed_url"`
	PostCount     int64     `json:"post_count"`
	FollowerCount int64     `json:"follower_count"`
	FollowedCount int64     `json:"followed_count"`
}

// UserCounts carries the denormalized counts shown in UserJSON.
type UserCounts struct {
	Posts     int64
	Followers int64
	Followed  int64
}

// ConvertUserJSON builds the projection for u.
func ConvertUserJSON(u *User, counts UserCounts, includeEmail bool) UserJSON {
	out := UserJSON{
		URL:           fmt.Sprintf("%s/users/%s", APIBasePath, u.ID),
		Username:      u.Username,
		ImageFile:     u.ImageFile,
		Location:      u.Location,
		AboutMe:       u.AboutMe,
		Confirmed:     u.Confirmed,
		LastSeen:      u.LastSeen,
		CreatedAt:     u.CreatedAt,
		PostsURL:      fmt.Sprintf("%s/users/%s/posts", APIBasePath, u.ID),
		FollowersURL:  fmt.Sprintf("%s/users/%s/followers", APIBasePath, u.ID),
		FollowedURL:   fmt.Sprintf("%s/users/%s/followed", APIBasePath, u.ID),
		PostCount:     counts.Posts,
		FollowerCount: counts.Followers,
		FollowedCount: counts.Followed,
	}
	if includeEmail {
		out.Email = u.Email
	}
	return out
}

// PostJSON is the API projection of a recipe post.
type PostJSON struct {
	URL             string    `json:"url"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Image           string    `json:"image"`
	Portions        int       `json:"portions"`
	PrepTime        int       `json:"prep_time"`
	CookTime        int       `json:"cook_time"`
	TypeCategory    string    `json:"type_category"`
	Ingredients     string    `json:"ingredients"`
	IngredientsHTML string    `json:"ingredients_html"`
	Preparation     string    `json:"preparation"`
	PreparationHTML string    `json:"preparation_html"`
	DatePosted      time.Time `json:"date_posted"`
	AuthorURL       string    `json:"author_url"`
	CommentsURL     string    `json:"comments_url"`
	CommentCount    int64     `json:"comment_count"`
	FavoriteCount   int64     `json:"favorite_count"`
}

// PostCounts carries the denormalized counts shown in PostJSON.
type PostCounts struct {
	Comments  int64
	Favorites int64
}

// ConvertPostJSON builds the projection for p.
func ConvertPostJSON(p *Post, counts PostCounts) PostJSON {
	return PostJSON{
		URL:             fmt.Sprintf("%s/posts/%s", APIBasePath, p.ID),
		Title:           p.Title,
		Description:     p.Description,
		Image:           p.PostImage,
		Portions:        p.Portions,
		PrepTime:        p.PrepTime,
		CookTime:        p.CookTime,
		TypeCategory:    p.TypeCategory,
		Ingredients:     p.Ingredients,
		IngredientsHTML: p.IngredientsHTML,
		Preparation:     p.Preparation,
		PreparationHTML: p.PreparationHTML,
		DatePosted:      p.DatePosted,
		AuthorURL:       fmt.Sprintf("%s/users/%s", APIBasePath, p.UserID),
		CommentsURL:     fmt.Sprintf("%s/posts/%s/comments", APIBasePath, p.ID),
		CommentCount:    counts.Comments,
		FavoriteCount:   counts.Favorites,
	}
}

// CommentJSON is the API projection of a comment.
type CommentJSON struct {
	URL       string    `json:"url"`
	Body      string    `json:"body"`
	BodyHTML  string    `json:"body_html"`
	Disabled  bool      `json:"disabled"`
	CreatedAt time.Time `json:"created_at"`
	AuthorURL string    `json:"author_url"`
	PostURL   string    `json:"post_url"`
}

// ConvertCommentJSON builds the projection for c.
func ConvertCommentJSON(c *Comment) CommentJSON {
	return CommentJSON{
		URL:       fmt.Sprintf("%s/comments/%s", APIBasePath, c.ID),
		Body:      c.Body,
		BodyHTML:  c.BodyHTML,
		Disabled:  c.Disabled,
		CreatedAt: c.CreatedAt,
		AuthorURL: fmt.Sprintf("%s/users/%s", APIBasePath, c.UserID),
		PostURL:   fmt.Sprintf("%s/posts/%s", APIBasePath, c.PostID),
	}
}

// FollowJSON is the projection of a follow edge in follower/followed listings.
type FollowJSON struct {
	UserURL  string    `json:"user_url"`
	Username string    `json:"username"`
	Since    time.Time `json:"since"`
}
