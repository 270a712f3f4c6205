// cmd/migrate/main.go
// Migrates data from the legacy MySQL kart tracker into the local PostgreSQL
// database.
//
// Usage:
//
//	MYSQL_DSN="user:pass@tcp(host:3306)/kartstats?parseTime=true" \
//	DB_PASS="pgpass" \
//	go run ./cmd/migrate
package main

import (
	"context"
	"database/sql"
	"log"

	_ "github.com/go-sql-driver/mysql"
	"github.com/uptrace/bun"

	"github.com/kartclub/kartapi/config"
	bundb "github.com/kartclub/kartapi/db"
	"github.com/kartclub/kartapi/models"
)

const batchSize = 500

func main() {
	ctx := context.Background()

	cfg := config.Load()

	// --- MySQL ---
	if cfg.MySQLDSN == "" {
		log.Fatal("MYSQL_DSN required, e.g.: user:pass@tcp(host:3306)/kartstats?parseTime=true")
	}
	myDB, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("open mysql: %v", err)
	}
	defer myDB.Close()
	myDB.SetMaxOpenConns(4)
	if err := myDB.PingContext(ctx); err != nil {
		log.Fatalf("ping mysql: %v", err)
	}
	log.Println("connected to MySQL")

	// --- PostgreSQL ---
	pgDB := bundb.Setup(cfg)
	defer pgDB.Close()
	log.Println("connected to PostgreSQL")

	// Create tables (idempotent)
	if err := bundb.CreateTables(ctx, pgDB); err != nil {
		log.Fatalf("create tables: %v", err)
	}

	// Disable FK enforcement so we can load in bulk without strict ordering
	if _, err := pgDB.ExecContext(ctx, "SET session_replication_role = 'replica'"); err != nil {
		log.Fatalf("disable FK: %v", err)
	}
	defer func() {
		if _, err := pgDB.ExecContext(ctx, "SET session_replication_role = 'origin'"); err != nil {
			log.Printf("re-enable FK: %v", err)
		}
	}()

	steps := []struct {
		name string
		fn   func() (int, error)
	}{
		{"players", func() (int, error) { return migratePlayers(ctx, myDB, pgDB) }},
		{"tracks", func() (int, error) { return migrateTracks(ctx, myDB, pgDB) }},
		{"rounds", func() (int, error) { return migrateRounds(ctx, myDB, pgDB) }},
		{"round_players", func() (int, error) { return migrateRoundPlayers(ctx, myDB, pgDB) }},
		{"races", func() (int, error) { return migrateRaces(ctx, myDB, pgDB) }},
		{"race_results", func() (int, error) { return migrateRaceResults(ctx, myDB, pgDB) }},
	}

	for _, s := range steps {
		n, err := s.fn()
		if err != nil {
			log.Fatalf("migrate %s: %v", s.name, err)
		}
		log.Printf("%-15s  %d rows migrated", s.name, n)
	}

	log.Println("migration complete")
}

// bulkInsert inserts a batch, skipping rows that already exist (idempotent re-runs).
func bulkInsert[T any](ctx context.Context, pgDB *bun.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := pgDB.NewInsert().Model(&rows).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

func nullStr(n sql.NullString) *string {
	if !n.Valid {
		return nil
	}
	return &n.String
}

func nullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

// --- per-table migrations ---

func migratePlayers(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx, "SELECT id, name, avatarUrl FROM players")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Player
	total := 0
	for rows.Next() {
		var (
			r      models.Player
			avatar sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Name, &avatar); err != nil {
			return total, err
		}
		r.AvatarURL = nullStr(avatar)
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateTracks(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx, "SELECT id, name, imageUrl FROM tracks")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Track
	total := 0
	for rows.Next() {
		var (
			r     models.Track
			image sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Name, &image); err != nil {
			return total, err
		}
		r.ImageURL = nullStr(image)
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateRounds(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		"SELECT id, createdAt, status, winnerPlayerId FROM rounds")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Round
	total := 0
	for rows.Next() {
		var (
			r      models.Round
			winner sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.CreatedAt, &r.Status, &winner); err != nil {
			return total, err
		}
		r.WinnerPlayerID = nullStr(winner)
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateRoundPlayers(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		"SELECT roundId, playerId FROM round_players ORDER BY id")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.RoundPlayer
	total := 0
	for rows.Next() {
		var r models.RoundPlayer
		if err := rows.Scan(&r.RoundID, &r.PlayerID); err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateRaces(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		"SELECT id, roundId, raceIndex, isOvertime, trackId FROM races")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.Race
	total := 0
	for rows.Next() {
		var r models.Race
		if err := rows.Scan(&r.ID, &r.RoundID, &r.RaceIndex, &r.IsOvertime, &r.TrackID); err != nil {
			return total, err
		}
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}

func migrateRaceResults(ctx context.Context, myDB *sql.DB, pgDB *bun.DB) (int, error) {
	rows, err := myDB.QueryContext(ctx,
		"SELECT raceId, playerId, finishPosition, pointsAwarded FROM race_results")
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var batch []models.RaceResult
	total := 0
	for rows.Next() {
		var (
			r      models.RaceResult
			points sql.NullInt64
		)
		if err := rows.Scan(&r.RaceID, &r.PlayerID, &r.FinishPosition, &points); err != nil {
			return total, err
		}
		r.PointsAwarded = nullInt(points)
		batch = append(batch, r)
		if len(batch) >= batchSize {
			if err := bulkInsert(ctx, pgDB, batch); err != nil {
				return total, err
			}
			total += len(batch)
			batch = batch[:0]
		}
	}
	if err := bulkInsert(ctx, pgDB, batch); err != nil {
		return total, err
	}
	return total + len(batch), rows.Err()
}
