package models

// Group is a user-created community.
type Group struct {
	GroupID     string   `json:"group_id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	OwnerID     string   `json:"owner_id"`
	MemberCount int      `json:"member_count,omitempty"`
	CreatedAt   JSONTime `json:"created_at,omitempty"`
}

// CreateGroupRequest is the payload of POST /groups.
type CreateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UpdateGroupRequest is the payload of PUT /groups/{id}.
type UpdateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// GroupsResponse wraps GET /groups.
type GroupsResponse struct {
	Groups []Group `json:"groups"`
}

// GroupResponse wraps single-group responses.
type GroupResponse struct {
	Group Group `json:"group"`
}
