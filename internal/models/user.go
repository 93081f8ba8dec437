package models

// Friend is the listing shape returned by GET /users/{id}/friends.
type Friend struct {
	UserID       string `json:"user_id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	ProfileImage string `json:"profile_image,omitempty"`
}

// FullName joins the friend's first and last names for display.
func (f Friend) FullName() string {
	if f.LastName == "" {
		return f.FirstName
	}
	return f.FirstName + " " + f.LastName
}

// Profile is the viewer-editable profile record.
type Profile struct {
	UserID       string   `json:"user_id"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	Email        string   `json:"email"`
	Bio          string   `json:"bio,omitempty"`
	ProfileImage string   `json:"profile_image,omitempty"`
	CreatedAt    JSONTime `json:"created_at,omitempty"`
	UpdatedAt    JSONTime `json:"updated_at,omitempty"`
}

// FriendsResponse is the payload of GET /users/{id}/friends.
type FriendsResponse struct {
	Friends []Friend `json:"friends"`
}

// RegisterRequest captures registration input.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest captures login input.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}
