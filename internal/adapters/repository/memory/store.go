// Package memory backs every repository port with in-process maps. It is
// the store used by unit tests and local development; the postgres adapter
// is its production counterpart and enforces the same uniqueness rules.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/clubvote/internal/core/domain"
)

type ballotKey struct {
	voterID    uuid.UUID
	electionID uuid.UUID
}

type Store struct {
	mu sync.RWMutex

	elections     map[uuid.UUID]domain.Election
	registrations map[uuid.UUID]domain.VoterRegistration
	codes         map[uuid.UUID]domain.VoterCode
	codesByValue  map[string]uuid.UUID
	votes         map[uuid.UUID]domain.Vote
	records       map[ballotKey]domain.VoterRecord
	audit         []domain.AuditEntry
	users         map[uuid.UUID]domain.User
}

func NewStore() *Store {
	return &Store{
		elections:     make(map[uuid.UUID]domain.Election),
		registrations: make(map[uuid.UUID]domain.VoterRegistration),
		codes:         make(map[uuid.UUID]domain.VoterCode),
		codesByValue:  make(map[string]uuid.UUID),
		votes:         make(map[uuid.UUID]domain.Vote),
		records:       make(map[ballotKey]domain.VoterRecord),
		users:         make(map[uuid.UUID]domain.User),
	}
}

// --- ElectionRepository ---

func (s *Store) Save(ctx context.Context, election *domain.Election) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elections[election.ID] = *election
	return nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	election, ok := s.elections[id]
	if !ok {
		return nil, domain.ErrElectionNotFound
	}
	return cloneElection(election), nil
}

func (s *Store) FindByCode(ctx context.Context, code string) (*domain.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, election := range s.elections {
		if election.ElectionCode == code {
			return cloneElection(election), nil
		}
	}
	return nil, domain.ErrElectionNotFound
}

func (s *Store) List(ctx context.Context) ([]*domain.Election, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	elections := make([]*domain.Election, 0, len(s.elections))
	for _, election := range s.elections {
		elections = append(elections, cloneElection(election))
	}
	sort.Slice(elections, func(i, j int) bool {
		return elections[i].CreatedAt.After(elections[j].CreatedAt)
	})
	return elections, nil
}

func (s *Store) CodeExists(ctx context.Context, code string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, election := range s.elections {
		if election.ElectionCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ElectionStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	election, ok := s.elections[id]
	if !ok {
		return domain.ErrElectionNotFound
	}
	election.Status = status
	s.elections[id] = election
	return nil
}

func (s *Store) UpdateRegistrationStatus(ctx context.Context, id uuid.UUID, status domain.RegistrationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	election, ok := s.elections[id]
	if !ok {
		return domain.ErrElectionNotFound
	}
	election.RegistrationStatus = status
	s.elections[id] = election
	return nil
}

func (s *Store) UpdateCandidateName(ctx context.Context, electionID, candidateID uuid.UUID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	election, ok := s.elections[electionID]
	if !ok {
		return domain.ErrElectionNotFound
	}
	for i := range election.Candidates {
		if election.Candidates[i].ID == candidateID {
			election.Candidates[i].Name = name
			s.elections[electionID] = election
			return nil
		}
	}
	return domain.ErrCandidateNotFound
}

// --- RegistrationRepository ---

func (s *Store) SaveRegistration(ctx context.Context, registration *domain.VoterRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.registrations {
		if existing.ElectionID == registration.ElectionID &&
			strings.EqualFold(existing.Email, registration.Email) &&
			existing.ID != registration.ID {
			return domain.ErrAlreadyRegistered
		}
	}
	s.registrations[registration.ID] = *registration
	return nil
}

func (s *Store) GetRegistrationByID(ctx context.Context, id uuid.UUID) (*domain.VoterRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	registration, ok := s.registrations[id]
	if !ok {
		return nil, domain.ErrRegistrationNotFound
	}
	clone := registration
	return &clone, nil
}

func (s *Store) FindByElectionAndEmail(ctx context.Context, electionID uuid.UUID, email string) (*domain.VoterRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, registration := range s.registrations {
		if registration.ElectionID == electionID && strings.EqualFold(registration.Email, email) {
			clone := registration
			return &clone, nil
		}
	}
	return nil, domain.ErrRegistrationNotFound
}

func (s *Store) ListRegistrationsByElection(ctx context.Context, electionID uuid.UUID) ([]*domain.VoterRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	registrations := make([]*domain.VoterRegistration, 0)
	for _, registration := range s.registrations {
		if registration.ElectionID == electionID {
			clone := registration
			registrations = append(registrations, &clone)
		}
	}
	sort.Slice(registrations, func(i, j int) bool {
		return registrations[i].SubmittedAt.Before(registrations[j].SubmittedAt)
	})
	return registrations, nil
}

func (s *Store) UpdateRegistration(ctx context.Context, registration *domain.VoterRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.registrations[registration.ID]; !ok {
		return domain.ErrRegistrationNotFound
	}
	s.registrations[registration.ID] = *registration
	return nil
}

// --- VoterCodeRepository ---

func (s *Store) SaveCode(ctx context.Context, code *domain.VoterCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.codesByValue[code.Code]; taken {
		return domain.ErrInvalidInput
	}
	s.codes[code.ID] = *code
	s.codesByValue[code.Code] = code.ID
	return nil
}

func (s *Store) GetCodeByID(ctx context.Context, id uuid.UUID) (*domain.VoterCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code, ok := s.codes[id]
	if !ok {
		return nil, domain.ErrCodeNotFound
	}
	clone := code
	return &clone, nil
}

func (s *Store) GetCodeByValue(ctx context.Context, value string) (*domain.VoterCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.codesByValue[value]
	if !ok {
		return nil, domain.ErrCodeNotFound
	}
	clone := s.codes[id]
	return &clone, nil
}

func (s *Store) ListCodesByElection(ctx context.Context, electionID uuid.UUID) ([]*domain.VoterCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codes := make([]*domain.VoterCode, 0)
	for _, code := range s.codes {
		if code.ElectionID == electionID {
			clone := code
			codes = append(codes, &clone)
		}
	}
	sort.Slice(codes, func(i, j int) bool {
		return codes[i].CreatedAt.Before(codes[j].CreatedAt)
	})
	return codes, nil
}

func (s *Store) VoterCodeExists(ctx context.Context, value string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.codesByValue[value]
	return ok, nil
}

func (s *Store) MarkUsed(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	code, ok := s.codes[id]
	if !ok {
		return domain.ErrCodeNotFound
	}
	code.IsUsed = true
	code.UsedAt = &usedAt
	s.codes[id] = code
	return nil
}

// --- BallotRepository ---

func (s *Store) SaveBallot(ctx context.Context, vote *domain.Vote, record *domain.VoterRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ballotKey{voterID: record.VoterID, electionID: record.ElectionID}
	if _, exists := s.records[key]; exists {
		return domain.ErrAlreadyVoted
	}
	s.votes[vote.ID] = *vote
	s.records[key] = *record
	return nil
}

func (s *Store) HasVoted(ctx context.Context, electionID, voterID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[ballotKey{voterID: voterID, electionID: electionID}]
	return ok, nil
}

func (s *Store) CountByCandidate(ctx context.Context, electionID uuid.UUID) (map[uuid.UUID]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[uuid.UUID]int64)
	for _, vote := range s.votes {
		if vote.ElectionID == electionID {
			counts[vote.CandidateID]++
		}
	}
	return counts, nil
}

// --- AuditRepository ---

func (s *Store) Append(ctx context.Context, entry *domain.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, *entry)
	return nil
}

func (s *Store) ListAudit(ctx context.Context, limit, offset int) ([]*domain.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]*domain.AuditEntry, 0, len(s.audit))
	for i := len(s.audit) - 1; i >= 0; i-- {
		clone := s.audit[i]
		entries = append(entries, &clone)
	}
	if offset >= len(entries) {
		return []*domain.AuditEntry{}, nil
	}
	entries = entries[offset:]
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

// --- UserRepository ---

func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = *user
	return nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			clone := user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := user
	return &clone, nil
}

func cloneElection(election domain.Election) *domain.Election {
	clone := election
	clone.Candidates = append([]domain.Candidate(nil), election.Candidates...)
	return &clone
}
