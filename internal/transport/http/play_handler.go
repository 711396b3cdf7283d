package http

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"hatrean-quiz-service/internal/app"
	"hatrean-quiz-service/internal/domain"
	"hatrean-quiz-service/internal/engine"
)

const (
	initTimeout   = 10 * time.Second
	finishTimeout = 10 * time.Second
)

// PlayHandler drives one quiz run per websocket connection: it resolves the
// question source, owns the 1s ticker, and forwards client events into the
// engine.
type PlayHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
	log      *logrus.Entry
}

func NewPlayHandler(service *app.QuizService) *PlayHandler {
	return &PlayHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: logrus.WithField("component", "play"),
	}
}

type inboundMessage struct {
	Type   string `json:"type"`
	Option string `json:"option,omitempty"`
}

type outboundMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

type quizPayload struct {
	Mode           string `json:"mode"`
	Title          string `json:"title"`
	TotalQuestions int    `json:"totalQuestions"`
	TimeLimit      int    `json:"timeLimit"`
	Feedback       bool   `json:"feedback"`
}

type questionPayload struct {
	Index      int               `json:"index"`
	Total      int               `json:"total"`
	QuestionID string            `json:"questionId"`
	Text       string            `json:"text"`
	Options    map[string]string `json:"options"`
	Points     int               `json:"points"`
	TimeLeft   int               `json:"timeLeft"`
}

type tickPayload struct {
	TimeLeft int `json:"timeLeft"`
}

type revealPayload struct {
	QuestionID    string `json:"questionId"`
	Chosen        string `json:"chosen,omitempty"`
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
	Awarded       int    `json:"awarded"`
	Score         int    `json:"score"`
}

type completedPayload struct {
	Score            int     `json:"score"`
	TotalQuestions   int     `json:"totalQuestions"`
	CorrectCount     int     `json:"correctCount"`
	Accuracy         float64 `json:"accuracy"`
	TimeTakenSeconds int     `json:"timeTakenSeconds"`
	SaveFailed       bool    `json:"saveFailed"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ServePlay upgrades the request and runs the quiz loop until completion,
// exit, or disconnect.
func (h *PlayHandler) ServePlay(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	category := r.URL.Query().Get("category")
	sessionCode := r.URL.Query().Get("session")
	instant := r.URL.Query().Get("mode") == "instant"

	selectors := 0
	for _, set := range []bool{category != "", sessionCode != "", instant} {
		if set {
			selectors++
		}
	}
	if userID == "" || selectors != 1 {
		http.Error(w, "userId and exactly one of category, session, or mode=instant required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	initCtx, cancel := context.WithTimeout(r.Context(), initTimeout)
	resolved, err := h.resolve(initCtx, category, sessionCode, instant, userID)
	cancel()
	if err != nil {
		_ = conn.WriteJSON(outboundMessage{Type: "error", Payload: errorForResolve(err)})
		return
	}

	eng, err := engine.New(resolved.Questions, engine.Config{
		TimeLimitSeconds: resolved.TimeLimitSeconds,
		Feedback:         resolved.Feedback,
	})
	if err != nil {
		_ = conn.WriteJSON(outboundMessage{Type: "error", Payload: errorForResolve(err)})
		return
	}

	send := make(chan outboundMessage, 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}()

	// push never blocks on a dead writer; a failed write closes writerDone
	// and everything still in flight is dropped.
	push := func(msg outboundMessage) {
		select {
		case send <- msg:
		case <-writerDone:
		}
	}

	done := make(chan struct{})
	tickerDone := make(chan struct{})
	close(tickerDone) // no ticker until start

	var finishOnce sync.Once
	finish := func() {
		finishOnce.Do(func() {
			summary := eng.Summary()
			// Persistence outlives the connection context on purpose: a
			// dropped socket right after the last answer must not lose the
			// attempt.
			ctx, cancel := context.WithTimeout(context.Background(), finishTimeout)
			defer cancel()
			_, err := h.service.Finish(ctx, userID, summary, resolved.Session)
			accuracy := 0.0
			if summary.TotalQuestions > 0 {
				accuracy = float64(summary.CorrectCount) / float64(summary.TotalQuestions)
			}
			push(outboundMessage{Type: "completed", Payload: completedPayload{
				Score:            summary.Score,
				TotalQuestions:   summary.TotalQuestions,
				CorrectCount:     summary.CorrectCount,
				Accuracy:         accuracy,
				TimeTakenSeconds: summary.TimeTakenSeconds,
				SaveFailed:       err != nil,
			}})
		})
	}

	// handleCommit fans out the consequences of one committed answer.
	handleCommit := func(snap engine.Snapshot, reveal *engine.Reveal) {
		if reveal == nil {
			return
		}
		if resolved.Feedback {
			push(outboundMessage{Type: "reveal", Payload: revealPayload{
				QuestionID:    reveal.QuestionID,
				Chosen:        reveal.Chosen,
				Correct:       reveal.Correct,
				CorrectAnswer: reveal.CorrectAnswer,
				Explanation:   reveal.Explanation,
				Awarded:       reveal.Awarded,
				Score:         snap.Score,
			}})
			return
		}
		switch snap.Phase {
		case engine.PhaseCompleted:
			finish()
		case engine.PhaseInProgress:
			push(outboundMessage{Type: "question", Payload: h.question(eng, snap)})
		}
	}

	push(outboundMessage{Type: "quiz", Payload: quizPayload{
		Mode:           resolved.Mode,
		Title:          resolved.Title,
		TotalQuestions: eng.Total(),
		TimeLimit:      eng.TimeLimitSeconds(),
		Feedback:       resolved.Feedback,
	}})

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			if eng.Snapshot().Phase != engine.PhaseNotStarted {
				continue
			}
			snap := eng.Start()
			push(outboundMessage{Type: "question", Payload: h.question(eng, snap)})
			tickerDone = h.startTicker(eng, done, push, handleCommit)
		case "select":
			eng.SelectAnswer(inbound.Option)
		case "submit":
			snap, reveal := eng.SubmitAnswer()
			handleCommit(snap, reveal)
		case "advance":
			if eng.Snapshot().Phase != engine.PhaseAnswerRevealed {
				continue
			}
			snap := eng.Advance()
			switch snap.Phase {
			case engine.PhaseCompleted:
				finish()
			case engine.PhaseInProgress:
				push(outboundMessage{Type: "question", Payload: h.question(eng, snap)})
			}
		case "exit":
			eng.Exit()
		default:
			push(outboundMessage{Type: "error", Payload: errorPayload{Code: "badMessage", Message: "unsupported message type"}})
		}
		if inbound.Type == "exit" {
			break
		}
	}

	close(done)
	<-tickerDone
	close(send)
	<-writerDone
}

// startTicker drives the per-question countdown until the run leaves
// PhaseInProgress for good or the connection goes away.
func (h *PlayHandler) startTicker(eng *engine.Engine, done <-chan struct{}, push func(outboundMessage), handleCommit func(engine.Snapshot, *engine.Reveal)) chan struct{} {
	tickerDone := make(chan struct{})
	go func() {
		defer close(tickerDone)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				snap, reveal := eng.Tick()
				if reveal != nil {
					handleCommit(snap, reveal)
				}
				if snap.Phase == engine.PhaseCompleted {
					return
				}
				if reveal == nil && snap.Phase == engine.PhaseInProgress {
					push(outboundMessage{Type: "tick", Payload: tickPayload{TimeLeft: snap.TimeLeft}})
				}
			}
		}
	}()
	return tickerDone
}

func (h *PlayHandler) resolve(ctx context.Context, category, sessionCode string, instant bool, userID string) (app.ResolvedQuiz, error) {
	switch {
	case instant:
		return h.service.ResolveInstant(ctx)
	case sessionCode != "":
		return h.service.ResolveSession(ctx, sessionCode, userID)
	default:
		return h.service.ResolveCategory(ctx, category)
	}
}

func (h *PlayHandler) question(eng *engine.Engine, snap engine.Snapshot) questionPayload {
	q := eng.Question()
	return questionPayload{
		Index:      snap.Index,
		Total:      snap.Total,
		QuestionID: q.ID,
		Text:       q.Text,
		Options:    q.Options,
		Points:     q.PointsOrDefault(),
		TimeLeft:   snap.TimeLeft,
	}
}

func errorForResolve(err error) errorPayload {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return errorPayload{Code: "sessionNotFound", Message: "Session not found. Please check the session code."}
	case errors.Is(err, domain.ErrSessionNotActive):
		return errorPayload{Code: "sessionNotActive", Message: "This session is not currently active."}
	case errors.Is(err, domain.ErrNoQuestions):
		return errorPayload{Code: "noQuestions", Message: "No questions found for this quiz."}
	default:
		return errorPayload{Code: "storeError", Message: "Failed to load quiz. Please try again."}
	}
}
