package models

import "github.com/uptrace/bun"

// Track is a course players race on. Reference data, never owned by a round.
type Track struct {
	bun.BaseModel `bun:"table:tracks,alias:t"`

	ID       string  `bun:"id,pk,type:uuid" json:"id"`
	Name     string  `bun:"name,notnull,unique" json:"name"`
	ImageURL *string `bun:"image_url" json:"imageUrl,omitempty"`
}
