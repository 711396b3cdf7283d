package domain

import "time"

// Question difficulty buckets.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Session lifecycle states. The admin subsystem owns transitions; this
// service only reads them.
const (
	SessionWaiting   = "waiting"
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionCancelled = "cancelled"
)

// Category groups questions for the browse screen and category quizzes.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// Question models an MCQ question. Immutable once loaded into a run.
type Question struct {
	ID            string            `json:"id"`
	CategoryID    string            `json:"categoryId,omitempty"`
	Category      string            `json:"category"`
	Text          string            `json:"text"`
	Options       map[string]string `json:"options"` // option key -> display text
	CorrectAnswer string            `json:"correctAnswer"`
	Explanation   string            `json:"explanation,omitempty"`
	Difficulty    string            `json:"difficulty"`
	Points        int               `json:"points"` // defaults to 10 if zero
}

// PointsOrDefault returns the question's point value, defaulting to 10.
func (q Question) PointsOrDefault() int {
	if q.Points > 0 {
		return q.Points
	}
	return 10
}

// QuizSession is an admin-created session joinable by code.
type QuizSession struct {
	ID               string    `json:"id"`
	Code             string    `json:"code"`
	Title            string    `json:"title"`
	Status           string    `json:"status"`
	TimeLimitSeconds int       `json:"timeLimitSeconds"` // per question; 0 means service default
	QuestionIDs      []string  `json:"questionIds"`
	MaxParticipants  int       `json:"maxParticipants,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// Joinable reports whether participants may still enter the session.
func (s QuizSession) Joinable() bool {
	return s.Status == SessionWaiting || s.Status == SessionActive
}

// Participant is a user's registration in a session. Registration is
// idempotent: re-joining returns the existing record.
type Participant struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId"`
	AttemptID string    `json:"attemptId,omitempty"`
	JoinedAt  time.Time `json:"joinedAt"`
}

// QuizAttempt is the write-once record of a completed run.
type QuizAttempt struct {
	ID               string            `json:"id"`
	UserID           string            `json:"userId"`
	SessionID        string            `json:"sessionId,omitempty"`
	Answers          map[string]string `json:"answers"` // question id -> chosen option key
	Score            int               `json:"score"`
	TotalQuestions   int               `json:"totalQuestions"`
	CorrectCount     int               `json:"correctCount"`
	TimeTakenSeconds int               `json:"timeTakenSeconds"`
	CompletedAt      time.Time         `json:"completedAt"`
}

// LeaderboardEntry is one row of the all-time score board.
type LeaderboardEntry struct {
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	TotalScore   int    `json:"totalScore"`
	TotalQuizzes int    `json:"totalQuizzes"`
	AverageScore int    `json:"averageScore"`
}
