package models

// Post is a feed entry, optionally scoped to a group.
type Post struct {
	PostID    string   `json:"post_id"`
	AuthorID  string   `json:"author_id"`
	Content   string   `json:"content"`
	ImageURL  string   `json:"image_url,omitempty"`
	GroupID   string   `json:"group_id,omitempty"`
	CreatedAt JSONTime `json:"created_at,omitempty"`
	UpdatedAt JSONTime `json:"updated_at,omitempty"`
}

// CreatePostRequest is the payload of POST /posts.
type CreatePostRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
	GroupID  string `json:"group_id,omitempty"`
}

// UpdatePostRequest is the payload of PUT /posts/{id}.
type UpdatePostRequest struct {
	Content  string `json:"content"`
	ImageURL string `json:"image_url,omitempty"`
}

// PostsResponse wraps list endpoints for posts.
type PostsResponse struct {
	Posts []Post `json:"posts"`
}

// PostResponse wraps single-post responses.
type PostResponse struct {
	Post Post `json:"post"`
}

// PostFilters narrows GET /posts. Zero values are omitted from the query.
type PostFilters struct {
	AuthorID string
	GroupID  string
}
