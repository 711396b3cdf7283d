package app

import (
	"context"

	"hatrean-quiz-service/internal/domain"
)

// Store abstracts the quiz platform's backing store (Postgres in
// production, in-memory for tests and storeless demo runs).
type Store interface {
	GetCategories(ctx context.Context) ([]domain.Category, error)
	// QuestionsByCategory returns every question in the category; an empty
	// result is valid and distinct from a fetch error.
	QuestionsByCategory(ctx context.Context, categoryID string) ([]domain.Question, error)
	QuestionsByIDs(ctx context.Context, ids []string) ([]domain.Question, error)
	// SessionByCode looks up a session by its already-normalized code and
	// returns domain.ErrSessionNotFound when absent.
	SessionByCode(ctx context.Context, code string) (domain.QuizSession, error)
	ActiveSessions(ctx context.Context) ([]domain.QuizSession, error)
	// RegisterParticipant is idempotent: joining twice yields the same record.
	RegisterParticipant(ctx context.Context, sessionID, userID string) (domain.Participant, error)
	SaveAttempt(ctx context.Context, attempt domain.QuizAttempt) (string, error)
	LinkParticipantAttempt(ctx context.Context, sessionID, userID, attemptID string) error
	IncrementUserStats(ctx context.Context, userID string, scoreDelta int) error
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
}
