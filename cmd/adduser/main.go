// cmd/adduser/main.go
// Creates or updates an admin API user in the database.
//
// Usage:
//
//	go run ./cmd/adduser -username matt -password testing
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/kartclub/kartapi/config"
	bundb "github.com/kartclub/kartapi/db"
	"github.com/kartclub/kartapi/handlers"
	"github.com/kartclub/kartapi/models"
)

func main() {
	username := flag.String("username", "", "username (required)")
	password := flag.String("password", "", "plain-text password (required)")
	flag.Parse()

	hash, err := handlers.HashPasswordForUser(*username, *password)
	if err != nil {
		log.Fatal(err)
	}

	cfg := config.Load()
	db := bundb.Setup(cfg)
	defer db.Close()

	user := &models.User{
		Username: *username,
		Password: hash,
	}

	_, err = db.NewInsert().Model(user).
		On("CONFLICT (username) DO UPDATE SET password = EXCLUDED.password").
		Exec(context.Background())
	if err != nil {
		log.Fatal("insert user:", err)
	}

	fmt.Printf("user %q saved\n", *username)
}
