// Package postgres implements app.Store on top of a pgx connection pool.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"hatrean-quiz-service/internal/domain"
)

// Store runs plain SQL against the quiz platform schema created by the
// migrations package.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) GetCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, COALESCE(description, ''), COALESCE(icon, '') FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Icon); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *Store) QuestionsByCategory(ctx context.Context, categoryID string) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, category_id, category, question_text, options, correct_answer,
		        COALESCE(explanation, ''), difficulty, points
		 FROM questions WHERE category_id=$1`, categoryID)
	if err != nil {
		return nil, fmt.Errorf("questions by category: %w", err)
	}
	defer rows.Close()
	return scanQuestions(rows)
}

func (s *Store) QuestionsByIDs(ctx context.Context, ids []string) ([]domain.Question, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, category_id, category, question_text, options, correct_answer,
		        COALESCE(explanation, ''), difficulty, points
		 FROM questions WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("questions by ids: %w", err)
	}
	defer rows.Close()
	return scanQuestions(rows)
}

func scanQuestions(rows pgx.Rows) ([]domain.Question, error) {
	var questions []domain.Question
	for rows.Next() {
		var q domain.Question
		var options []byte
		if err := rows.Scan(&q.ID, &q.CategoryID, &q.Category, &q.Text, &options,
			&q.CorrectAnswer, &q.Explanation, &q.Difficulty, &q.Points); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal(options, &q.Options); err != nil {
			return nil, fmt.Errorf("unmarshal options: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *Store) SessionByCode(ctx context.Context, code string) (domain.QuizSession, error) {
	var session domain.QuizSession
	var questionIDs []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, code, title, status, COALESCE(time_limit, 0), question_ids,
		        COALESCE(max_participants, 0), created_at
		 FROM quiz_sessions WHERE code=$1`, code).
		Scan(&session.ID, &session.Code, &session.Title, &session.Status,
			&session.TimeLimitSeconds, &questionIDs, &session.MaxParticipants, &session.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizSession{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.QuizSession{}, fmt.Errorf("session by code: %w", err)
	}
	if len(questionIDs) > 0 {
		if err := json.Unmarshal(questionIDs, &session.QuestionIDs); err != nil {
			return domain.QuizSession{}, fmt.Errorf("unmarshal question ids: %w", err)
		}
	}
	return session, nil
}

func (s *Store) ActiveSessions(ctx context.Context) ([]domain.QuizSession, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, code, title, status, COALESCE(time_limit, 0), question_ids,
		        COALESCE(max_participants, 0), created_at
		 FROM quiz_sessions WHERE status IN ('waiting', 'active')
		 ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("active sessions: %w", err)
	}
	defer rows.Close()

	var sessions []domain.QuizSession
	for rows.Next() {
		var session domain.QuizSession
		var questionIDs []byte
		if err := rows.Scan(&session.ID, &session.Code, &session.Title, &session.Status,
			&session.TimeLimitSeconds, &questionIDs, &session.MaxParticipants, &session.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if len(questionIDs) > 0 {
			if err := json.Unmarshal(questionIDs, &session.QuestionIDs); err != nil {
				return nil, fmt.Errorf("unmarshal question ids: %w", err)
			}
		}
		sessions = append(sessions, session)
	}
	return sessions, rows.Err()
}

// RegisterParticipant inserts once per (session, user); a repeat join hits
// the conflict clause and returns the existing row unchanged.
func (s *Store) RegisterParticipant(ctx context.Context, sessionID, userID string) (domain.Participant, error) {
	participant := domain.Participant{SessionID: sessionID, UserID: userID}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO session_participants (session_id, user_id)
		 VALUES ($1, $2)
		 ON CONFLICT (session_id, user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		 RETURNING id, COALESCE(attempt_id::text, ''), joined_at`,
		sessionID, userID).
		Scan(&participant.ID, &participant.AttemptID, &participant.JoinedAt)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("register participant: %w", err)
	}
	return participant, nil
}

func (s *Store) SaveAttempt(ctx context.Context, attempt domain.QuizAttempt) (string, error) {
	answers, err := json.Marshal(attempt.Answers)
	if err != nil {
		return "", fmt.Errorf("marshal answers: %w", err)
	}
	var sessionID interface{}
	if attempt.SessionID != "" {
		sessionID = attempt.SessionID
	}

	var id string
	err = s.pool.QueryRow(ctx,
		`INSERT INTO quiz_attempts
		   (user_id, session_id, answers, score, total_questions, correct_count, time_taken, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		attempt.UserID, sessionID, answers, attempt.Score, attempt.TotalQuestions,
		attempt.CorrectCount, attempt.TimeTakenSeconds, attempt.CompletedAt).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("save attempt: %w", err)
	}
	return id, nil
}

func (s *Store) LinkParticipantAttempt(ctx context.Context, sessionID, userID, attemptID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE session_participants SET attempt_id=$3 WHERE session_id=$1 AND user_id=$2`,
		sessionID, userID, attemptID)
	if err != nil {
		return fmt.Errorf("link participant attempt: %w", err)
	}
	return nil
}

func (s *Store) IncrementUserStats(ctx context.Context, userID string, scoreDelta int) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO user_profiles (user_id, username, total_score, total_quizzes)
		 VALUES ($1, $1, $2, 1)
		 ON CONFLICT (user_id) DO UPDATE
		   SET total_score  = user_profiles.total_score + EXCLUDED.total_score,
		       total_quizzes = user_profiles.total_quizzes + 1`,
		userID, scoreDelta)
	if err != nil {
		return fmt.Errorf("increment user stats: %w", err)
	}
	return nil
}

func (s *Store) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, username, total_score, total_quizzes
		 FROM user_profiles ORDER BY total_score DESC, username ASC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Username, &e.TotalScore, &e.TotalQuizzes); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		if e.TotalQuizzes > 0 {
			e.AverageScore = e.TotalScore / e.TotalQuizzes
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
