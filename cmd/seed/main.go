package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the initial accounts. Usernames are taken from --users as
// comma-separated name:password pairs; a bare name gets its username as
// the password. The reserved superadmin account always receives the
// superadmin role.

var (
	dsn   = flag.String("dsn", os.Getenv("DATABASE_URL"), "Postgres DSN (default: env DATABASE_URL)")
	users = flag.String("users", "admin:ayyappa,superadmin", "Comma-separated username:password pairs")
)

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("--dsn not provided and DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}
	defer conn.Close()

	if err := conn.PingContext(ctx); err != nil {
		log.Fatal("Failed to reach database: ", err)
	}

	seeded := 0
	for _, pair := range strings.Split(*users, ",") {
		username, password, found := strings.Cut(strings.TrimSpace(pair), ":")
		if username == "" {
			continue
		}
		if !found {
			password = username
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("bcrypt error for %q: %v", username, err)
		}

		role := "member"
		if username == "superadmin" {
			role = "superadmin"
		}

		res, err := conn.ExecContext(ctx, `
			INSERT INTO app_auth.users (user_id, username, password_hash, role, created_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (username) DO NOTHING`,
			uuid.NewString(), username, string(hashed), role,
		)
		if err != nil {
			log.Fatalf("Failed to seed %q: %v", username, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			seeded++
		}
	}

	fmt.Printf("Users seeded successfully (%d new).\n", seeded)
}
