// cmd/seed/main.go
// Seeds the default players and the full track catalog. Safe to re-run:
// existing names are left alone.
//
// Usage:
//
//	go run ./cmd/seed
package main

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/kartclub/kartapi/config"
	bundb "github.com/kartclub/kartapi/db"
	"github.com/kartclub/kartapi/models"
)

var playerNames = []string{"Matt", "Jake", "Ian", "Sam"}

var trackNames = []string{
	"Mario Kart Stadium", "Water Park", "Sweet Sweet Canyon", "Thwomp Ruins",
	"Mario Circuit", "Toad Harbor", "Twisted Mansion", "Shy Guy Falls",
	"Sunshine Airport", "Dolphin Shoals", "Electrodrome", "Mount Wario",
	"Cloudtop Cruise", "Bone-Dry Dunes", "Bowser's Castle", "Rainbow Road",
	"Wii Moo Moo Meadows", "GBA Mario Circuit", "DS Cheep Cheep Beach",
	"N64 Toad's Turnpike", "GCN Dry Dry Desert", "SNES Donut Plains 3",
	"N64 Royal Raceway", "3DS DK Jungle", "DS Wario Stadium",
	"GCN Sherbet Land", "3DS Music Park", "N64 Yoshi Valley",
	"DS Tick-Tock Clock", "3DS Piranha Plant Slide", "Wii Grumble Volcano",
	"N64 Rainbow Road", "GCN Yoshi Circuit", "Excitebike Arena",
	"Dragon Driftway", "Mute City", "Wii Wario's Gold Mine",
	"SNES Rainbow Road", "Ice Ice Outpost", "Hyrule Circuit",
	"GCN Baby Park", "GBA Cheese Land", "Wild Woods", "Animal Crossing",
	"3DS Neo Bowser City", "GBA Ribbon Road", "Super Bell Subway", "Big Blue",
	"Tour Paris Promenade", "3DS Toad Circuit", "N64 Choco Mountain",
	"Wii Coconut Mall", "Tour Tokyo Blur", "DS Shroom Ridge",
	"GBA Sky Garden", "Ninja Hideaway", "Tour New York Minute",
	"SNES Mario Circuit 3", "N64 Kalimari Desert", "DS Waluigi Pinball",
	"Tour Sydney Sprint", "GBA Snow Land", "Wii Mushroom Gorge",
	"Sky-High Sundae", "Tour London Loop", "GBA Boo Lake",
	"3DS Rock Rock Mountain", "Wii Maple Treeway", "Berlin Byways",
	"DS Peach Gardens", "Merry Mountain", "3DS Rainbow Road",
	"Tour Amsterdam Drift", "GBA Riverside Park", "Wii DK Summit",
	"Yoshi's Island", "Tour Bangkok Rush", "DS Mario Circuit",
	"GCN Waluigi Stadium", "Tour Singapore Speedway", "Tour Athens Dash",
	"GCN Daisy Cruiser", "Wii Moonview Highway", "Squeaky Clean Sprint",
	"Tour Los Angeles Laps", "GBA Sunset Wilds", "Wii Koopa Cape",
	"Tour Vancouver Velocity", "Tour Rome Avanti", "GCN DK Mountain",
	"Wii Daisy Circuit", "Piranha Plant Cove", "Tour Madrid Drive",
	"3DS Rosalina's Ice World", "SNES Bowser Castle 3", "Wii Rainbow Road",
}

func main() {
	ctx := context.Background()

	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	if err := bundb.CreateTables(ctx, db); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	players := make([]models.Player, len(playerNames))
	for i, name := range playerNames {
		players[i] = models.Player{ID: uuid.NewString(), Name: name}
	}
	if _, err := db.NewInsert().Model(&players).
		On("CONFLICT (name) DO NOTHING").
		Exec(ctx); err != nil {
		log.Fatalf("seed players: %v", err)
	}

	tracks := make([]models.Track, len(trackNames))
	for i, name := range trackNames {
		tracks[i] = models.Track{ID: uuid.NewString(), Name: name}
	}
	if _, err := db.NewInsert().Model(&tracks).
		On("CONFLICT (name) DO NOTHING").
		Exec(ctx); err != nil {
		log.Fatalf("seed tracks: %v", err)
	}

	log.Printf("seeded %d players and %d tracks", len(players), len(tracks))
}
