package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/vncsmyrnk/clubvote/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/clubvote/internal/core/domain"
	"github.com/vncsmyrnk/clubvote/internal/core/services"
)

// Aligns election statuses with their date ranges. Run from cron; status
// stays fully manual unless an operator schedules this job.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var dbHost, dbPort, dbUser, dbPass, dbName string

	flag.StringVar(&dbHost, "db-host", os.Getenv("POSTGRES_HOST"), "Database host")
	flag.StringVar(&dbPort, "db-port", os.Getenv("POSTGRES_PORT"), "Database port")
	flag.StringVar(&dbUser, "db-user", os.Getenv("POSTGRES_USER"), "Database user")
	flag.StringVar(&dbPass, "db-pass", os.Getenv("POSTGRES_PASSWORD"), "Database password")
	flag.StringVar(&dbName, "db-name", os.Getenv("POSTGRES_DB"), "Database name")
	flag.Parse()

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPass, dbHost, dbPort, dbName)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	logger := slog.Default()
	electionRepo := postgres.NewElectionRepository(db)
	auditService := services.NewAuditService(postgres.NewAuditRepository(db), logger)
	electionService := services.NewElectionService(electionRepo, auditService, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	system := domain.Identity{ID: uuid.Nil, Email: "statussync@system", Role: domain.RoleAdmin}

	elections, err := electionService.List(ctx)
	if err != nil {
		log.Fatalf("Error listing elections: %v", err)
	}

	log.Println("Starting election status sync job...")

	synced := 0
	for _, election := range elections {
		before := election.Status
		after, err := electionService.SyncStatusToClock(ctx, system, election.ID)
		if err != nil {
			log.Fatalf("Error syncing election %s: %v", election.ID, err)
		}
		if after.Status != before {
			log.Printf("election %s: %s -> %s", election.ElectionCode, before, after.Status)
			synced++
		}
	}

	log.Printf("Election status sync completed successfully, %d updated.", synced)
}
