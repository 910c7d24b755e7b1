// Command seed bootstraps the database schema and the minimum rows the
// application needs on a fresh install: one admin credential, one
// discipline-office credential, and the headmaster row.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/sman1kwanyar/e-presensi-api/pkg/config"
	"github.com/sman1kwanyar/e-presensi-api/pkg/database"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS subjects (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS classes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		grade TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS teachers (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		nip TEXT NOT NULL DEFAULT '',
		subject_id TEXT,
		class_id TEXT,
		username TEXT,
		password_hash TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		nis TEXT NOT NULL,
		class_id TEXT NOT NULL,
		gender TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS attendance_records (
		id TEXT PRIMARY KEY,
		date DATE NOT NULL,
		day_name TEXT NOT NULL,
		period TEXT NOT NULL,
		teacher_id TEXT NOT NULL,
		subject_id TEXT NOT NULL,
		class_id TEXT NOT NULL,
		grade TEXT NOT NULL,
		journal TEXT NOT NULL,
		entries JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS violation_items (
		id TEXT PRIMARY KEY,
		description TEXT NOT NULL,
		category TEXT NOT NULL,
		points INT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS violation_records (
		id TEXT PRIMARY KEY,
		date DATE NOT NULL,
		student_id TEXT NOT NULL,
		violation_item_id TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		reporter TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS principal (
		id INT PRIMARY KEY,
		full_name TEXT NOT NULL,
		nip TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS credentials (
		id TEXT PRIMARY KEY,
		scope TEXT NOT NULL,
		username TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		UNIQUE (scope, username)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attendance_date ON attendance_records (date)`,
	`CREATE INDEX IF NOT EXISTS idx_violation_records_date ON violation_records (date)`,
	`CREATE INDEX IF NOT EXISTS idx_students_class ON students (class_id)`,
}

func main() {
	adminPassword := flag.String("admin-password", "", "initial admin password (required on first run)")
	disciplinePassword := flag.String("bk-password", "", "initial discipline-office password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Fatalf("failed to apply schema: %v", err)
		}
	}
	log.Println("schema applied")

	if err := seedCredential(ctx, db, "admin", "admin", *adminPassword); err != nil {
		log.Fatalf("failed to seed admin credential: %v", err)
	}
	if err := seedCredential(ctx, db, "discipline", "bk", *disciplinePassword); err != nil {
		log.Fatalf("failed to seed discipline credential: %v", err)
	}

	if _, err := db.ExecContext(ctx,
		`INSERT INTO principal (id, full_name, nip) VALUES (1, '', '') ON CONFLICT (id) DO NOTHING`,
	); err != nil {
		log.Fatalf("failed to seed principal row: %v", err)
	}

	log.Println("seed complete")
}

func seedCredential(ctx context.Context, db *sqlx.DB, scope, username, password string) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM credentials WHERE scope = $1`, scope); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if password == "" {
		return fmt.Errorf("no %s credentials exist; pass an initial password flag", scope)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO credentials (id, scope, username, password_hash) VALUES ($1, $2, $3, $4)`,
		uuid.NewString(), scope, username, string(hash),
	); err != nil {
		return err
	}
	log.Printf("seeded %s credential %q", scope, username)
	return nil
}
