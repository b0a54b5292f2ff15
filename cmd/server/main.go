package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/vncsmyrnk/clubvote/internal/adapters/handler/http"
	"github.com/vncsmyrnk/clubvote/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/clubvote/internal/core/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	db, err := sql.Open("postgres", dbConnString())
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}

	// Repositories
	electionRepo := postgres.NewElectionRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)
	codeRepo := postgres.NewVoterCodeRepository(db)
	ballotRepo := postgres.NewBallotRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Services
	auditService := services.NewAuditService(auditRepo, logger)
	authService := services.NewAuthService(userRepo, auditService, jwtSecret)
	electionService := services.NewElectionService(electionRepo, auditService, logger)
	eligibilityService := services.NewEligibilityService(electionRepo, registrationRepo, codeRepo, auditService, logger)
	ballotService := services.NewBallotService(electionRepo, ballotRepo, eligibilityService, auditService, logger)
	resultsService := services.NewResultsService(electionRepo, ballotRepo, logger)

	handler := http.NewHandler(authService, http.Handlers{
		Auth:          http.NewAuthHandler(authService),
		Elections:     http.NewElectionHandler(electionService),
		Registrations: http.NewRegistrationHandler(eligibilityService),
		Codes:         http.NewCodeHandler(eligibilityService),
		Votes:         http.NewVoteHandler(ballotService),
		Results:       http.NewResultsHandler(resultsService),
		Audit:         http.NewAuditHandler(auditService),
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	server := &stdhttp.Server{Addr: "0.0.0.0:" + port, Handler: handler}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	fmt.Println("Gracefully shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err)
	}
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
