package db

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/kartclub/kartapi/config"
	"github.com/kartclub/kartapi/models"
)

// Setup opens a PostgreSQL connection using the provided config.
func Setup(cfg *config.Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	db := bun.NewDB(sqldb, pgdialect.New())

	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}

	if err := db.PingContext(context.Background()); err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	return db
}

// CreateTables creates all tables in dependency order.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.Player)(nil),
		(*models.Track)(nil),
		(*models.Round)(nil),
		(*models.RoundPlayer)(nil),
		(*models.Race)(nil),
		(*models.RaceResult)(nil),
	}

	for _, model := range tables {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("creating table for %T: %w", model, err)
		}
	}

	constraints := []string{
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'rounds_status_valid') THEN ALTER TABLE rounds ADD CONSTRAINT rounds_status_valid CHECK (status IN ('DRAFT', 'COMPLETED', 'HIDDEN')); END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'round_players_round_fk') THEN ALTER TABLE round_players ADD CONSTRAINT round_players_round_fk FOREIGN KEY (round_id) REFERENCES rounds (id) ON DELETE CASCADE; END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'round_players_player_fk') THEN ALTER TABLE round_players ADD CONSTRAINT round_players_player_fk FOREIGN KEY (player_id) REFERENCES players (id) ON DELETE CASCADE; END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'rounds_winner_fk') THEN ALTER TABLE rounds ADD CONSTRAINT rounds_winner_fk FOREIGN KEY (winner_player_id) REFERENCES players (id) ON DELETE SET NULL; END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'races_round_fk') THEN ALTER TABLE races ADD CONSTRAINT races_round_fk FOREIGN KEY (round_id) REFERENCES rounds (id) ON DELETE CASCADE; END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'races_track_fk') THEN ALTER TABLE races ADD CONSTRAINT races_track_fk FOREIGN KEY (track_id) REFERENCES tracks (id); END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'race_results_race_fk') THEN ALTER TABLE race_results ADD CONSTRAINT race_results_race_fk FOREIGN KEY (race_id) REFERENCES races (id) ON DELETE CASCADE; END IF; END $$`,
		`DO $$ BEGIN IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'race_results_player_fk') THEN ALTER TABLE race_results ADD CONSTRAINT race_results_player_fk FOREIGN KEY (player_id) REFERENCES players (id) ON DELETE CASCADE; END IF; END $$`,
		// At most one overtime race per round.
		`CREATE UNIQUE INDEX IF NOT EXISTS races_one_overtime ON races (round_id) WHERE is_overtime`,
	}
	for _, stmt := range constraints {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("constraint: %v", err)
		}
	}

	return nil
}
