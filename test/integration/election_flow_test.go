package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	handler "github.com/vncsmyrnk/clubvote/internal/adapters/handler/http"
	repo "github.com/vncsmyrnk/clubvote/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/clubvote/internal/core/domain"
	"github.com/vncsmyrnk/clubvote/internal/core/services"
)

type TestApp struct {
	DB          *sql.DB
	Server      *httptest.Server
	Client      *http.Client
	DBContainer testcontainers.Container
}

func setupTestApp(t *testing.T) *TestApp {
	ctx := context.Background()
	dbContainer, dbURL, err := setupPostgresContainer(ctx)
	require.NoError(t, err)

	db, err := sql.Open("postgres", dbURL)
	require.NoError(t, err)

	err = applyMigrations(db)
	require.NoError(t, err)

	electionRepo := repo.NewElectionRepository(db)
	regRepo := repo.NewRegistrationRepository(db)
	codeRepo := repo.NewVoterCodeRepository(db)
	ballotRepo := repo.NewBallotRepository(db)
	auditRepo := repo.NewAuditRepository(db)
	userRepo := repo.NewUserRepository(db)

	auditSvc := services.NewAuditService(auditRepo, nil)
	authSvc := services.NewAuthService(userRepo, auditSvc, "test-secret")
	electionSvc := services.NewElectionService(electionRepo, auditSvc, nil)
	eligibilitySvc := services.NewEligibilityService(electionRepo, regRepo, codeRepo, auditSvc, nil)
	ballotSvc := services.NewBallotService(electionRepo, ballotRepo, eligibilitySvc, auditSvc, nil)
	resultsSvc := services.NewResultsService(electionRepo, ballotRepo, nil)

	router := handler.NewHandler(authSvc, handler.Handlers{
		Auth:          handler.NewAuthHandler(authSvc),
		Elections:     handler.NewElectionHandler(electionSvc),
		Registrations: handler.NewRegistrationHandler(eligibilitySvc),
		Codes:         handler.NewCodeHandler(eligibilitySvc),
		Votes:         handler.NewVoteHandler(ballotSvc),
		Results:       handler.NewResultsHandler(resultsSvc),
		Audit:         handler.NewAuditHandler(auditSvc),
	})

	server := httptest.NewServer(router)

	return &TestApp{
		DB:          db,
		Server:      server,
		Client:      server.Client(),
		DBContainer: dbContainer,
	}
}

func (app *TestApp) createUserAndToken(t *testing.T, role domain.Role) (uuid.UUID, string, string) {
	t.Helper()

	userID := uuid.New()
	email := fmt.Sprintf("user-%s@example.com", userID)
	name := fmt.Sprintf("User %s", userID)
	_, err := app.DB.Exec(
		"INSERT INTO users (id, email, name, password_hash, role) VALUES ($1, $2, $3, $4, $5)",
		userID, email, name, "not-a-real-hash", string(role),
	)
	require.NoError(t, err)

	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"role":  string(role),
		"exp":   time.Now().Add(15 * time.Minute).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return userID, email, signedToken
}

func (app *TestApp) Teardown(t *testing.T) {
	app.Server.Close()
	app.DB.Close()
	if err := app.DBContainer.Terminate(context.Background()); err != nil {
		t.Logf("failed to terminate container: %v", err)
	}
}

func (app *TestApp) request(t *testing.T, method, path, token string, payload any) *http.Response {
	t.Helper()

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, app.Server.URL+path, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	}

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	return resp
}

func (app *TestApp) createElection(t *testing.T, adminToken string) domain.Election {
	t.Helper()

	resp := app.request(t, "POST", "/api/elections", adminToken, map[string]any{
		"title":      "Board Election",
		"start_date": time.Now().Add(24 * time.Hour),
		"end_date":   time.Now().Add(48 * time.Hour),
		"candidates": []map[string]string{{"name": "Alice"}, {"name": "Bob"}},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var election domain.Election
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&election))
	require.Len(t, election.Candidates, 2)
	return election
}

// approveVoter walks a voter through registration, review and code
// redemption, leaving them eligible to vote.
func (app *TestApp) approveVoter(t *testing.T, adminToken, voterToken, email string, electionID uuid.UUID) {
	t.Helper()

	resp := app.request(t, "POST", fmt.Sprintf("/api/elections/%s/registrations", electionID), voterToken,
		map[string]string{"name": "Member", "email": email})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var registration domain.VoterRegistration
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&registration))
	resp.Body.Close()

	resp = app.request(t, "PATCH", fmt.Sprintf("/api/registrations/%s", registration.ID), adminToken,
		map[string]string{"decision": "approved"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var reviewed domain.VoterRegistration
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&reviewed))
	resp.Body.Close()
	require.NotNil(t, reviewed.VoterCodeID)

	var code string
	err := app.DB.QueryRow("SELECT code FROM voter_codes WHERE id = $1", reviewed.VoterCodeID).Scan(&code)
	require.NoError(t, err)

	resp = app.request(t, "POST", "/api/codes/redeem", voterToken, map[string]string{"code": code})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func (app *TestApp) setStatus(t *testing.T, adminToken string, electionID uuid.UUID, status string) {
	t.Helper()
	resp := app.request(t, "PATCH", fmt.Sprintf("/api/elections/%s/status", electionID), adminToken,
		map[string]string{"status": status})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

// TestElectionFlow covers the whole lifecycle: create -> register ->
// approve -> redeem -> activate -> vote -> results -> duplicate rejected.
func TestElectionFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, _, adminToken := app.createUserAndToken(t, domain.RoleAdmin)
	voterID, voterEmail, voterToken := app.createUserAndToken(t, domain.RoleVoter)

	election := app.createElection(t, adminToken)
	app.approveVoter(t, adminToken, voterToken, voterEmail, election.ID)
	app.setStatus(t, adminToken, election.ID, "active")

	// Cast a ballot for Alice.
	resp := app.request(t, "POST", fmt.Sprintf("/api/elections/%s/votes", election.ID), voterToken,
		map[string]uuid.UUID{"candidate_id": election.Candidates[0].ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// The vote row carries the choice, the voter record carries the
	// identity; neither table holds both.
	var voteCount, recordCount int
	err := app.DB.QueryRow("SELECT COUNT(*) FROM votes WHERE election_id = $1 AND candidate_id = $2",
		election.ID, election.Candidates[0].ID).Scan(&voteCount)
	require.NoError(t, err)
	assert.Equal(t, 1, voteCount)

	err = app.DB.QueryRow("SELECT COUNT(*) FROM voter_records WHERE election_id = $1 AND voter_id = $2",
		election.ID, voterID).Scan(&recordCount)
	require.NoError(t, err)
	assert.Equal(t, 1, recordCount)

	// A second cast, even for another candidate, is a conflict.
	resp = app.request(t, "POST", fmt.Sprintf("/api/elections/%s/votes", election.ID), voterToken,
		map[string]uuid.UUID{"candidate_id": election.Candidates[1].ID})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	// The voter sees nothing until the election closes.
	resp = app.request(t, "GET", fmt.Sprintf("/api/elections/%s/results", election.ID), voterToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var hidden struct {
		Results map[string]int64 `json:"results"`
		Total   int64            `json:"total"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&hidden))
	resp.Body.Close()
	assert.Empty(t, hidden.Results)

	app.setStatus(t, adminToken, election.ID, "closed")

	resp = app.request(t, "GET", fmt.Sprintf("/api/elections/%s/results", election.ID), voterToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var final struct {
		Results map[string]int64 `json:"results"`
		Total   int64            `json:"total"`
		Winner  *uuid.UUID       `json:"winner"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&final))
	resp.Body.Close()

	assert.Equal(t, int64(1), final.Total)
	assert.Equal(t, int64(1), final.Results[election.Candidates[0].ID.String()])
	assert.Equal(t, int64(0), final.Results[election.Candidates[1].ID.String()])
	require.NotNil(t, final.Winner)
	assert.Equal(t, election.Candidates[0].ID, *final.Winner)
}

// TestConcurrentVotes hammers the cast endpoint with the same voter; the
// voter_records primary key must let exactly one ballot through.
func TestConcurrentVotes(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, _, adminToken := app.createUserAndToken(t, domain.RoleAdmin)
	_, voterEmail, voterToken := app.createUserAndToken(t, domain.RoleVoter)

	election := app.createElection(t, adminToken)
	app.approveVoter(t, adminToken, voterToken, voterEmail, election.ID)
	app.setStatus(t, adminToken, election.ID, "active")

	const attempts = 8
	statuses := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := app.request(t, "POST", fmt.Sprintf("/api/elections/%s/votes", election.ID), voterToken,
				map[string]uuid.UUID{"candidate_id": election.Candidates[i%2].ID})
			statuses[i] = resp.StatusCode
			resp.Body.Close()
		}(i)
	}
	wg.Wait()

	created, conflicts := 0, 0
	for _, status := range statuses {
		switch status {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
			conflicts++
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, conflicts)

	var total int
	err := app.DB.QueryRow("SELECT COUNT(*) FROM votes WHERE election_id = $1", election.ID).Scan(&total)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestDuplicateRegistration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, _, adminToken := app.createUserAndToken(t, domain.RoleAdmin)
	_, voterEmail, voterToken := app.createUserAndToken(t, domain.RoleVoter)

	election := app.createElection(t, adminToken)

	resp := app.request(t, "POST", fmt.Sprintf("/api/elections/%s/registrations", election.ID), voterToken,
		map[string]string{"name": "Member", "email": voterEmail})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	// Same email, different case.
	resp = app.request(t, "POST", fmt.Sprintf("/api/elections/%s/registrations", election.ID), voterToken,
		map[string]string{"name": "Member", "email": strings.ToUpper(voterEmail)})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	var count int
	err := app.DB.QueryRow("SELECT COUNT(*) FROM voter_registrations WHERE election_id = $1", election.ID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRedeemedCodeStaysBound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, _, adminToken := app.createUserAndToken(t, domain.RoleAdmin)
	_, voterEmail, voterToken := app.createUserAndToken(t, domain.RoleVoter)

	election := app.createElection(t, adminToken)
	app.approveVoter(t, adminToken, voterToken, voterEmail, election.ID)

	var isUsed bool
	var usedAt sql.NullTime
	err := app.DB.QueryRow(
		"SELECT is_used, used_at FROM voter_codes WHERE election_id = $1 AND email = $2",
		election.ID, strings.ToLower(voterEmail)).Scan(&isUsed, &usedAt)
	require.NoError(t, err)
	assert.True(t, isUsed)
	assert.True(t, usedAt.Valid)

	// Redemption does not revoke eligibility.
	resp := app.request(t, "GET", fmt.Sprintf("/api/elections/%s/my-ballot", election.ID), voterToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var ballot map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&ballot))
	resp.Body.Close()
	assert.False(t, ballot["has_voted"])
}
