package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Round is one play session of 2-4 players across 4 scored races plus an
// optional overtime decider.
type Round struct {
	bun.BaseModel `bun:"table:rounds,alias:rd"`

	ID             string    `bun:"id,pk,type:uuid" json:"id"`
	CreatedAt      time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	Status         string    `bun:"status,notnull,default:'DRAFT'" json:"status"`
	WinnerPlayerID *string   `bun:"winner_player_id,type:uuid" json:"winnerPlayerId,omitempty"`

	WinnerPlayer *Player       `bun:"rel:belongs-to,join:winner_player_id=id" json:"winnerPlayer,omitempty"`
	RoundPlayers []RoundPlayer `bun:"rel:has-many,join:id=round_id" json:"roundPlayers,omitempty"`
	Races        []Race        `bun:"rel:has-many,join:id=round_id" json:"races,omitempty"`
}

// RoundPlayer is a round membership row. Entry order is preserved via the
// autoincrement id.
type RoundPlayer struct {
	bun.BaseModel `bun:"table:round_players,alias:rp"`

	ID       int64  `bun:"id,pk,autoincrement" json:"-"`
	RoundID  string `bun:"round_id,notnull,type:uuid,unique:round_players_no_dupes" json:"roundId"`
	PlayerID string `bun:"player_id,notnull,type:uuid,unique:round_players_no_dupes" json:"playerId"`

	Player *Player `bun:"rel:belongs-to,join:player_id=id" json:"player,omitempty"`
}
