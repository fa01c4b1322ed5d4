package models

import "time"

// DefaultTagColor is applied when a tag is created without a color.
const DefaultTagColor = "#6366f1"

// Tag is a shared label attached to tasks; removing it from a task does not
// delete the tag itself.
type Tag struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type TagCreate struct {
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

type TagUpdate struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}
