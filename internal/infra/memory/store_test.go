package memory_test

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"hatrean-quiz-service/internal/bank"
	"hatrean-quiz-service/internal/domain"
	"hatrean-quiz-service/internal/infra/memory"
)

func TestSessionByCodeIsCaseInsensitive(t *testing.T) {
	store := memory.NewStore()
	store.SeedSession(domain.QuizSession{Code: "abcd1234", Status: domain.SessionWaiting})

	session, err := store.SessionByCode(context.Background(), "ABCD1234")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if session.Code != "ABCD1234" {
		t.Fatalf("code not normalized: %q", session.Code)
	}

	if _, err := store.SessionByCode(context.Background(), "NOPE0000"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestRegisterParticipantIdempotent(t *testing.T) {
	store := memory.NewStore()

	first, err := store.RegisterParticipant(context.Background(), "s1", "u1")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	second, err := store.RegisterParticipant(context.Background(), "s1", "u1")
	if err != nil {
		t.Fatalf("re-register failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("duplicate registration: %s vs %s", first.ID, second.ID)
	}

	other, err := store.RegisterParticipant(context.Background(), "s1", "u2")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if other.ID == first.ID {
		t.Fatalf("distinct users share a registration")
	}
}

func TestQuestionsByIDsSkipsMissing(t *testing.T) {
	b := bank.NewWithSource(bank.Catalog(), rand.NewSource(1))
	store := memory.NewStoreFromBank(b)

	questions, err := store.QuestionsByIDs(context.Background(), []string{"gk-1", "missing", "sci-2"})
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
}

func TestActiveSessionsFiltersTerminalStatuses(t *testing.T) {
	store := memory.NewStore()
	store.SeedSession(domain.QuizSession{Code: "WAITING1", Status: domain.SessionWaiting})
	store.SeedSession(domain.QuizSession{Code: "ACTIVE01", Status: domain.SessionActive})
	store.SeedSession(domain.QuizSession{Code: "DONE0001", Status: domain.SessionCompleted})
	store.SeedSession(domain.QuizSession{Code: "GONE0001", Status: domain.SessionCancelled})

	sessions, err := store.ActiveSessions(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 joinable sessions, got %d", len(sessions))
	}
	for _, s := range sessions {
		if !s.Joinable() {
			t.Fatalf("non-joinable session listed: %+v", s)
		}
	}
}

func TestLeaderboardOrdering(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	_ = store.IncrementUserStats(ctx, "alice", 30)
	_ = store.IncrementUserStats(ctx, "bob", 50)
	_ = store.IncrementUserStats(ctx, "bob", 10)
	_ = store.IncrementUserStats(ctx, "carol", 60)

	entries, err := store.Leaderboard(ctx, 2)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("limit ignored: %d entries", len(entries))
	}
	if entries[0].UserID != "bob" || entries[0].TotalScore != 60 || entries[0].TotalQuizzes != 2 {
		t.Fatalf("unexpected top entry: %+v", entries[0])
	}
	if entries[1].UserID != "carol" {
		t.Fatalf("expected carol second, got %+v", entries[1])
	}
	if entries[0].AverageScore != 30 {
		t.Fatalf("average not computed: %+v", entries[0])
	}
}

func TestNewSessionCodeShape(t *testing.T) {
	for i := 0; i < 20; i++ {
		code := memory.NewSessionCode()
		if len(code) != 8 {
			t.Fatalf("bad code length: %q", code)
		}
		for _, r := range code {
			if !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
				t.Fatalf("bad code character in %q", code)
			}
		}
	}
}
