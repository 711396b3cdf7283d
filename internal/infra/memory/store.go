// Package memory provides an in-memory app.Store used by tests and by
// storeless demo runs of the service.
package memory

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"hatrean-quiz-service/internal/bank"
	"hatrean-quiz-service/internal/domain"
)

type profile struct {
	userID       string
	username     string
	totalScore   int
	totalQuizzes int
}

// Store keeps the whole quiz platform state in maps guarded by one mutex.
type Store struct {
	mu           sync.RWMutex
	now          func() time.Time
	categories   []domain.Category
	questions    map[string]domain.Question
	byCategory   map[string][]string
	sessions     map[string]domain.QuizSession // keyed by code
	participants map[string]domain.Participant // keyed by sessionID+userID
	attempts     map[string]domain.QuizAttempt
	profiles     map[string]*profile
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		now:          time.Now,
		questions:    make(map[string]domain.Question),
		byCategory:   make(map[string][]string),
		sessions:     make(map[string]domain.QuizSession),
		participants: make(map[string]domain.Participant),
		attempts:     make(map[string]domain.QuizAttempt),
		profiles:     make(map[string]*profile),
	}
}

// NewStoreFromBank seeds the store with the bank's catalog so category and
// session quizzes resolve against real rows.
func NewStoreFromBank(b *bank.Bank) *Store {
	s := NewStore()
	s.SeedCategories(b.Categories())
	s.SeedQuestions(b.All())
	return s
}

// SeedCategories replaces the category catalog.
func (s *Store) SeedCategories(categories []domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append([]domain.Category(nil), categories...)
}

// SeedQuestions adds questions, indexing them by category name and id.
func (s *Store) SeedQuestions(questions []domain.Question) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range questions {
		s.questions[q.ID] = q
		for _, c := range s.categories {
			if c.Name == q.Category || (q.CategoryID != "" && c.ID == q.CategoryID) {
				s.byCategory[c.ID] = append(s.byCategory[c.ID], q.ID)
				break
			}
		}
	}
}

// SeedSession registers a session under its (normalized) code.
func (s *Store) SeedSession(session domain.QuizSession) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = s.now()
	}
	session.Code = strings.ToUpper(session.Code)
	s.sessions[session.Code] = session
}

func (s *Store) GetCategories(_ context.Context) ([]domain.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Category(nil), s.categories...), nil
}

func (s *Store) QuestionsByCategory(_ context.Context, categoryID string) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byCategory[categoryID]
	questions := make([]domain.Question, 0, len(ids))
	for _, id := range ids {
		questions = append(questions, s.questions[id])
	}
	return questions, nil
}

func (s *Store) QuestionsByIDs(_ context.Context, ids []string) ([]domain.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	questions := make([]domain.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := s.questions[id]; ok {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

func (s *Store) SessionByCode(_ context.Context, code string) (domain.QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[strings.ToUpper(code)]
	if !ok {
		return domain.QuizSession{}, domain.ErrSessionNotFound
	}
	return session, nil
}

func (s *Store) ActiveSessions(_ context.Context) ([]domain.QuizSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessions := make([]domain.QuizSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		if session.Joinable() {
			sessions = append(sessions, session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})
	return sessions, nil
}

func (s *Store) RegisterParticipant(_ context.Context, sessionID, userID string) (domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionID + "|" + userID
	if existing, ok := s.participants[key]; ok {
		return existing, nil
	}
	participant := domain.Participant{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		UserID:    userID,
		JoinedAt:  s.now(),
	}
	s.participants[key] = participant
	return participant, nil
}

func (s *Store) SaveAttempt(_ context.Context, attempt domain.QuizAttempt) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if attempt.ID == "" {
		attempt.ID = uuid.NewString()
	}
	s.attempts[attempt.ID] = attempt
	return attempt.ID, nil
}

func (s *Store) LinkParticipantAttempt(_ context.Context, sessionID, userID, attemptID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := sessionID + "|" + userID
	participant, ok := s.participants[key]
	if !ok {
		return domain.ErrSessionNotFound
	}
	participant.AttemptID = attemptID
	s.participants[key] = participant
	return nil
}

func (s *Store) IncrementUserStats(_ context.Context, userID string, scoreDelta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		p = &profile{userID: userID, username: userID}
		s.profiles[userID] = p
	}
	p.totalScore += scoreDelta
	p.totalQuizzes++
	return nil
}

func (s *Store) Leaderboard(_ context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]domain.LeaderboardEntry, 0, len(s.profiles))
	for _, p := range s.profiles {
		avg := 0
		if p.totalQuizzes > 0 {
			avg = p.totalScore / p.totalQuizzes
		}
		entries = append(entries, domain.LeaderboardEntry{
			UserID:       p.userID,
			Username:     p.username,
			TotalScore:   p.totalScore,
			TotalQuizzes: p.totalQuizzes,
			AverageScore: avg,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalScore != entries[j].TotalScore {
			return entries[i].TotalScore > entries[j].TotalScore
		}
		return entries[i].Username < entries[j].Username
	})
	if limit > 0 && limit < len(entries) {
		entries = entries[:limit]
	}
	return entries, nil
}

// Participant returns a registration, for tests and the demo CLI.
func (s *Store) Participant(sessionID, userID string) (domain.Participant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.participants[sessionID+"|"+userID]
	return p, ok
}

// Attempt returns a persisted attempt by id.
func (s *Store) Attempt(id string) (domain.QuizAttempt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.attempts[id]
	return a, ok
}

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewSessionCode produces an 8-character join code.
func NewSessionCode() string {
	code := make([]byte, 8)
	for i := range code {
		code[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(code)
}
