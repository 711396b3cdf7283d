package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"hatrean-quiz-service/internal/bank"
	"hatrean-quiz-service/internal/domain"
	"hatrean-quiz-service/internal/engine"
)

// Quiz modes. Exactly one selector (category name, session code, or the
// instant flag) picks the question source for a run.
const (
	ModeInstant  = "instant"
	ModeCategory = "category"
	ModeSession  = "session"
)

// Options tunes quiz resolution. Zero values fall back to the platform
// defaults (10 category questions, 8 instant questions, 30s per question).
type Options struct {
	CategoryQuestionCount int
	InstantQuestionCount  int
	TimeLimitSeconds      int
	Feedback              bool
}

func (o Options) categoryCount() int {
	if o.CategoryQuestionCount > 0 {
		return o.CategoryQuestionCount
	}
	return 10
}

func (o Options) instantCount() int {
	if o.InstantQuestionCount > 0 {
		return o.InstantQuestionCount
	}
	return 8
}

func (o Options) timeLimit() int {
	if o.TimeLimitSeconds > 0 {
		return o.TimeLimitSeconds
	}
	return engine.DefaultTimeLimitSeconds
}

// ResolvedQuiz is a ready-to-run question list plus configuration.
type ResolvedQuiz struct {
	Mode             string
	Title            string
	Questions        []domain.Question
	TimeLimitSeconds int
	Feedback         bool
	// Session is set only for session quizzes.
	Session *domain.QuizSession
}

// QuizService contains the quiz-flow use cases: resolving a question source,
// joining sessions, and persisting finished runs. The store may be nil, in
// which case everything is served from the static bank and results are kept
// local only.
type QuizService struct {
	store Store
	bank  *bank.Bank
	opts  Options
	log   *logrus.Entry
}

func NewQuizService(store Store, b *bank.Bank, opts Options) *QuizService {
	if b == nil {
		b = bank.Default()
	}
	return &QuizService{
		store: store,
		bank:  b,
		opts:  opts,
		log:   logrus.WithField("component", "quiz"),
	}
}

// Feedback reports whether runs reveal answers before advancing.
func (s *QuizService) Feedback() bool {
	return s.opts.Feedback
}

// ResolveInstant draws a mixed sample across all categories.
func (s *QuizService) ResolveInstant(_ context.Context) (ResolvedQuiz, error) {
	questions := s.bank.SampleMixed(s.opts.instantCount())
	if len(questions) == 0 {
		return ResolvedQuiz{}, domain.ErrNoQuestions
	}
	return ResolvedQuiz{
		Mode:             ModeInstant,
		Title:            "Instant Quiz",
		Questions:        questions,
		TimeLimitSeconds: s.opts.timeLimit(),
		Feedback:         s.opts.Feedback,
	}, nil
}

// ResolveCategory draws a random sample from one named category. Store
// categories are preferred; when the store is absent, errors, or holds no
// questions for the category, the static bank fills in, and an unknown
// bank category falls back to a mixed sample.
func (s *QuizService) ResolveCategory(ctx context.Context, name string) (ResolvedQuiz, error) {
	count := s.opts.categoryCount()

	if s.store != nil {
		if questions, ok := s.storeCategoryQuestions(ctx, name, count); ok {
			return ResolvedQuiz{
				Mode:             ModeCategory,
				Title:            name,
				Questions:        questions,
				TimeLimitSeconds: s.opts.timeLimit(),
				Feedback:         s.opts.Feedback,
			}, nil
		}
	}

	questions := s.bank.SampleByCategory(name, count)
	if len(questions) == 0 {
		s.log.WithField("category", name).Info("category unknown, serving mixed sample")
		questions = s.bank.SampleMixed(count)
	}
	if len(questions) == 0 {
		return ResolvedQuiz{}, domain.ErrNoQuestions
	}
	return ResolvedQuiz{
		Mode:             ModeCategory,
		Title:            name,
		Questions:        questions,
		TimeLimitSeconds: s.opts.timeLimit(),
		Feedback:         s.opts.Feedback,
	}, nil
}

// storeCategoryQuestions fetches and samples a store category. ok is false
// whenever the bank should take over (unknown category, zero questions, or
// a store failure).
func (s *QuizService) storeCategoryQuestions(ctx context.Context, name string, count int) ([]domain.Question, bool) {
	categories, err := s.store.GetCategories(ctx)
	if err != nil {
		s.log.WithError(err).Warn("category fetch failed, falling back to bank")
		return nil, false
	}

	var category *domain.Category
	for i := range categories {
		if strings.EqualFold(categories[i].Name, name) {
			category = &categories[i]
			break
		}
	}
	if category == nil {
		return nil, false
	}

	pool, err := s.store.QuestionsByCategory(ctx, category.ID)
	if err != nil {
		s.log.WithError(err).WithField("category", name).Warn("question fetch failed, falling back to bank")
		return nil, false
	}
	if len(pool) == 0 {
		return nil, false
	}
	return bank.New(pool).SampleRandom(count), true
}

// ResolveSession turns a session code into a ready-to-run quiz and
// registers the user as a participant. Codes are case-insensitive.
func (s *QuizService) ResolveSession(ctx context.Context, code, userID string) (ResolvedQuiz, error) {
	if s.store == nil {
		return ResolvedQuiz{}, domain.ErrSessionNotFound
	}
	code = strings.ToUpper(strings.TrimSpace(code))

	session, err := s.store.SessionByCode(ctx, code)
	if err != nil {
		return ResolvedQuiz{}, err
	}
	if !session.Joinable() {
		return ResolvedQuiz{}, domain.ErrSessionNotActive
	}

	if _, err := s.store.RegisterParticipant(ctx, session.ID, userID); err != nil {
		return ResolvedQuiz{}, err
	}

	questions, err := s.sessionQuestions(ctx, session)
	if err != nil {
		return ResolvedQuiz{}, err
	}

	limit := session.TimeLimitSeconds
	if limit <= 0 {
		limit = s.opts.timeLimit()
	}
	return ResolvedQuiz{
		Mode:             ModeSession,
		Title:            session.Title,
		Questions:        questions,
		TimeLimitSeconds: limit,
		Feedback:         s.opts.Feedback,
		Session:          &session,
	}, nil
}

// sessionQuestions fetches the session's fixed list and restores the
// session's ordering; the store returns rows in its own order.
func (s *QuizService) sessionQuestions(ctx context.Context, session domain.QuizSession) ([]domain.Question, error) {
	if len(session.QuestionIDs) == 0 {
		return nil, domain.ErrNoQuestions
	}
	fetched, err := s.store.QuestionsByIDs(ctx, session.QuestionIDs)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Question, len(fetched))
	for _, q := range fetched {
		byID[q.ID] = q
	}
	ordered := make([]domain.Question, 0, len(session.QuestionIDs))
	for _, id := range session.QuestionIDs {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	if len(ordered) == 0 {
		return nil, domain.ErrNoQuestions
	}
	return ordered, nil
}

// Finish persists a completed run: the attempt record, the session
// participant link, and the user's aggregate stats. Persistence is
// best-effort; the returned attempt is always populated from the local
// summary so callers can show it even when the write failed.
func (s *QuizService) Finish(ctx context.Context, userID string, summary engine.Summary, session *domain.QuizSession) (domain.QuizAttempt, error) {
	attempt := domain.QuizAttempt{
		UserID:           userID,
		Answers:          summary.Answers,
		Score:            summary.Score,
		TotalQuestions:   summary.TotalQuestions,
		CorrectCount:     summary.CorrectCount,
		TimeTakenSeconds: summary.TimeTakenSeconds,
		CompletedAt:      time.Now().UTC(),
	}
	if session != nil {
		attempt.SessionID = session.ID
	}

	if s.store == nil {
		return attempt, nil
	}

	attemptID, err := s.store.SaveAttempt(ctx, attempt)
	if err != nil {
		s.log.WithError(err).WithField("user", userID).Warn("attempt save failed")
		return attempt, err
	}
	attempt.ID = attemptID

	if session != nil {
		if err := s.store.LinkParticipantAttempt(ctx, session.ID, userID, attemptID); err != nil {
			s.log.WithError(err).WithField("session", session.ID).Warn("participant link failed")
		}
	}
	if err := s.store.IncrementUserStats(ctx, userID, summary.Score); err != nil {
		s.log.WithError(err).WithField("user", userID).Warn("stats update failed")
	}
	return attempt, nil
}

// Categories lists the store's categories, falling back to the bank's when
// the store is absent, fails, or is empty.
func (s *QuizService) Categories(ctx context.Context) ([]domain.Category, error) {
	if s.store != nil {
		categories, err := s.store.GetCategories(ctx)
		if err == nil && len(categories) > 0 {
			return categories, nil
		}
		if err != nil {
			s.log.WithError(err).Warn("category fetch failed, serving bank categories")
		}
	}
	return s.bank.Categories(), nil
}

// ActiveSessions lists joinable sessions, newest first.
func (s *QuizService) ActiveSessions(ctx context.Context) ([]domain.QuizSession, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ActiveSessions(ctx)
}

// Leaderboard returns the all-time top profiles by total score.
func (s *QuizService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if s.store == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	return s.store.Leaderboard(ctx, limit)
}

// IsUserFacing reports whether err is one of the expected, displayable
// resolution outcomes rather than an infrastructure failure.
func IsUserFacing(err error) bool {
	return errors.Is(err, domain.ErrSessionNotFound) ||
		errors.Is(err, domain.ErrSessionNotActive) ||
		errors.Is(err, domain.ErrNoQuestions)
}
