// Package engine implements the timed quiz run state machine: question
// progression, per-question countdown, answer commits, and scoring.
package engine

import (
	"sync"
	"time"

	"hatrean-quiz-service/internal/domain"
)

// Phase is the run's lifecycle state.
type Phase string

const (
	PhaseNotStarted     Phase = "notStarted"
	PhaseInProgress     Phase = "inProgress"
	PhaseAnswerRevealed Phase = "answerRevealed"
	PhaseCompleted      Phase = "completed"
)

// DefaultTimeLimitSeconds is the per-question countdown when neither the
// session nor the config specifies one.
const DefaultTimeLimitSeconds = 30

// Config tunes a single run.
type Config struct {
	// TimeLimitSeconds is the countdown per question; 0 means the default.
	TimeLimitSeconds int
	// Feedback enables the reveal step: after each commit the run pauses in
	// PhaseAnswerRevealed until Advance. When false the run advances
	// immediately on commit.
	Feedback bool
}

// Snapshot is a read-only view of the run, safe to hand to transports.
type Snapshot struct {
	Phase        Phase
	Index        int
	Total        int
	TimeLeft     int
	Pending      string
	Score        int
	CorrectCount int
}

// Reveal describes the outcome of one committed answer.
type Reveal struct {
	QuestionID    string
	Chosen        string
	Correct       bool
	CorrectAnswer string
	Explanation   string
	Awarded       int
}

// Summary carries the final statistics of a completed or abandoned run.
type Summary struct {
	Score            int
	TotalQuestions   int
	CorrectCount     int
	Answers          map[string]string
	TimeTakenSeconds int
}

// Engine owns one QuizRunState. All transitions are serialized through an
// internal mutex; calls from the wrong phase are no-ops returning the
// current snapshot, so a timer tick racing a user submit can never commit
// the same question twice.
type Engine struct {
	mu  sync.Mutex
	now func() time.Time

	questions []domain.Question
	limit     int
	feedback  bool

	phase       Phase
	idx         int
	timeLeft    int
	pending     string
	answers     map[string]string
	score       int
	correct     int
	startedAt   time.Time
	completedAt time.Time
}

// New builds an engine for the given question list. The list must be
// non-empty; resolving it is the caller's job.
func New(questions []domain.Question, cfg Config) (*Engine, error) {
	return NewWithClock(questions, cfg, time.Now)
}

// NewWithClock is test-only for deterministic timestamps.
func NewWithClock(questions []domain.Question, cfg Config, now func() time.Time) (*Engine, error) {
	if len(questions) == 0 {
		return nil, domain.ErrNoQuestions
	}
	limit := cfg.TimeLimitSeconds
	if limit <= 0 {
		limit = DefaultTimeLimitSeconds
	}
	return &Engine{
		now:       now,
		questions: append([]domain.Question(nil), questions...),
		limit:     limit,
		feedback:  cfg.Feedback,
		phase:     PhaseNotStarted,
		timeLeft:  limit,
		answers:   make(map[string]string, len(questions)),
	}, nil
}

// TimeLimitSeconds returns the configured per-question countdown.
func (e *Engine) TimeLimitSeconds() int {
	return e.limit
}

// Total returns the number of questions in the run.
func (e *Engine) Total() int {
	return len(e.questions)
}

// Start begins the run. Valid only from PhaseNotStarted.
func (e *Engine) Start() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseNotStarted {
		return e.snapshotLocked()
	}
	e.phase = PhaseInProgress
	e.startedAt = e.now()
	e.timeLeft = e.limit
	return e.snapshotLocked()
}

// SelectAnswer records the pending (uncommitted) option. The last selection
// before submit wins. No-op outside PhaseInProgress.
func (e *Engine) SelectAnswer(option string) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseInProgress {
		return e.snapshotLocked()
	}
	if _, ok := e.questions[e.idx].Options[option]; !ok {
		return e.snapshotLocked()
	}
	e.pending = option
	return e.snapshotLocked()
}

// SubmitAnswer commits the pending selection for the current question,
// awards points, and either reveals the answer (feedback mode) or advances.
// The returned Reveal is nil when the call was a no-op.
func (e *Engine) SubmitAnswer() (Snapshot, *Reveal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseInProgress {
		return e.snapshotLocked(), nil
	}
	reveal := e.commitLocked()
	return e.snapshotLocked(), reveal
}

// Advance moves past a revealed answer. Valid only from PhaseAnswerRevealed.
func (e *Engine) Advance() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseAnswerRevealed {
		return e.snapshotLocked()
	}
	e.advanceLocked()
	return e.snapshotLocked()
}

// Tick decrements the countdown by one second. At zero it auto-submits with
// whatever selection exists (possibly none). No-op outside PhaseInProgress,
// which guards against a second tick firing before the phase changed.
func (e *Engine) Tick() (Snapshot, *Reveal) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase != PhaseInProgress {
		return e.snapshotLocked(), nil
	}
	if e.timeLeft > 0 {
		e.timeLeft--
	}
	if e.timeLeft > 0 {
		return e.snapshotLocked(), nil
	}
	reveal := e.commitLocked()
	return e.snapshotLocked(), reveal
}

// Exit abandons the run. Nothing is persisted for an abandoned run.
func (e *Engine) Exit() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.phase == PhaseCompleted {
		return e.snapshotLocked()
	}
	e.phase = PhaseCompleted
	e.completedAt = e.now()
	return e.snapshotLocked()
}

// Question returns the current question, stripped of its answer key so it
// can be sent to clients as-is.
func (e *Engine) Question() domain.Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	q := e.questions[e.idx]
	q.CorrectAnswer = ""
	q.Explanation = ""
	return q
}

// Snapshot returns the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Summary returns the run's final statistics.
func (e *Engine) Summary() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	answers := make(map[string]string, len(e.answers))
	for id, opt := range e.answers {
		answers[id] = opt
	}

	taken := 0
	if !e.startedAt.IsZero() {
		end := e.completedAt
		if end.IsZero() {
			end = e.now()
		}
		taken = int(end.Sub(e.startedAt) / time.Second)
	}

	return Summary{
		Score:            e.score,
		TotalQuestions:   len(e.questions),
		CorrectCount:     e.correct,
		Answers:          answers,
		TimeTakenSeconds: taken,
	}
}

// commitLocked commits the pending selection exactly once: an unanswered
// timeout leaves the answers map unset and counts as incorrect.
func (e *Engine) commitLocked() *Reveal {
	q := e.questions[e.idx]
	chosen := e.pending

	awarded := 0
	correct := false
	if chosen != "" {
		e.answers[q.ID] = chosen
		if chosen == q.CorrectAnswer {
			correct = true
			awarded = q.PointsOrDefault()
			e.score += awarded
			e.correct++
		}
	}

	reveal := &Reveal{
		QuestionID:    q.ID,
		Chosen:        chosen,
		Correct:       correct,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Awarded:       awarded,
	}

	if e.feedback {
		e.phase = PhaseAnswerRevealed
	} else {
		e.advanceLocked()
	}
	return reveal
}

func (e *Engine) advanceLocked() {
	e.pending = ""
	if e.idx+1 < len(e.questions) {
		e.idx++
		e.timeLeft = e.limit
		e.phase = PhaseInProgress
		return
	}
	e.phase = PhaseCompleted
	e.completedAt = e.now()
}

func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Phase:        e.phase,
		Index:        e.idx,
		Total:        len(e.questions),
		TimeLeft:     e.timeLeft,
		Pending:      e.pending,
		Score:        e.score,
		CorrectCount: e.correct,
	}
}
