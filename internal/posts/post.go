package posts

import "time"

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

func ValidStatus(status string) bool {
	return status == StatusDraft || status == StatusPublished
}

// Author is the populated slice of the referenced user document.
type Author struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// Category is the populated slice of the referenced category.
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Post struct {
	ID            int       `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Excerpt       string    `json:"excerpt,omitempty"`
	FeaturedImage string    `json:"featured_image,omitempty"`
	Author        Author    `json:"author"`
	Category      Category  `json:"category"`
	Tags          []string  `json:"tags"`
	Status        string    `json:"status"`
	Views         int       `json:"views"`
	Likes         int       `json:"likes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type Comment struct {
	ID        int       `json:"id"`
	PostID    int       `json:"post_id"`
	Author    Author    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
