package models

import "github.com/uptrace/bun"

// OvertimeRaceIndex is the race_index stored for the single overtime race.
// Regular races use 1-4.
const OvertimeRaceIndex = 5

// Race is a single contest within a round.
type Race struct {
	bun.BaseModel `bun:"table:races,alias:rc"`

	ID         string `bun:"id,pk,type:uuid" json:"id"`
	RoundID    string `bun:"round_id,notnull,type:uuid,unique:races_no_dupes" json:"roundId"`
	RaceIndex  int    `bun:"race_index,notnull,unique:races_no_dupes" json:"raceIndex"`
	IsOvertime bool   `bun:"is_overtime,notnull,default:false" json:"isOvertime"`
	TrackID    string `bun:"track_id,notnull,type:uuid" json:"trackId"`

	Track   *Track       `bun:"rel:belongs-to,join:track_id=id" json:"track,omitempty"`
	Results []RaceResult `bun:"rel:has-many,join:id=race_id" json:"results,omitempty"`
}

// RaceResult is one player's finish in one race. PointsAwarded is nil for
// overtime results, which never score.
type RaceResult struct {
	bun.BaseModel `bun:"table:race_results,alias:rr"`

	ID             int64  `bun:"id,pk,autoincrement" json:"-"`
	RaceID         string `bun:"race_id,notnull,type:uuid,unique:race_results_no_dupes" json:"raceId"`
	PlayerID       string `bun:"player_id,notnull,type:uuid,unique:race_results_no_dupes" json:"playerId"`
	FinishPosition int    `bun:"finish_position,notnull" json:"finishPosition"`
	PointsAwarded  *int   `bun:"points_awarded" json:"pointsAwarded"`

	Player *Player `bun:"rel:belongs-to,join:player_id=id" json:"player,omitempty"`
}
