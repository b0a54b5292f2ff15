package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// Applies every *.up.sql migration in lexical order, or a single named
// migration when one is given as an argument.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	basePath := filepath.Join(".", "internal", "adapters", "repository", "postgres", "migrations")

	var only string
	if len(os.Args) > 1 {
		only = os.Args[1]
	}

	entries, err := os.ReadDir(basePath)
	if err != nil {
		log.Fatalf("failed to read migrations directory: %v", err)
	}

	applied := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), "up.sql") {
			continue
		}
		if only != "" && !strings.Contains(entry.Name(), only) {
			continue
		}

		content, err := os.ReadFile(filepath.Join(basePath, entry.Name()))
		if err != nil {
			log.Fatalf("failed to read migration %s: %v", entry.Name(), err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			log.Fatalf("failed to execute migration %s: %v", entry.Name(), err)
		}

		log.Printf("applied %s", entry.Name())
		applied++
	}

	if only != "" && applied == 0 {
		log.Fatal("migration file not found")
	}

	fmt.Printf("%d migration(s) executed successfully.\n", applied)
}

func dbConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		os.Getenv("POSTGRES_USER"),
		os.Getenv("POSTGRES_PASSWORD"),
		os.Getenv("POSTGRES_HOST"),
		os.Getenv("POSTGRES_PORT"),
		os.Getenv("POSTGRES_DB"),
	)
}
