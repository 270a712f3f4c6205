package models

import "github.com/uptrace/bun"

// Player is a person who races in rounds.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID        string  `bun:"id,pk,type:uuid" json:"id"`
	Name      string  `bun:"name,notnull,unique" json:"name"`
	AvatarURL *string `bun:"avatar_url" json:"avatarUrl,omitempty"`
}
