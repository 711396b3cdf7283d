package domain

import "errors"

var (
	// ErrSessionNotFound is returned when no session matches the given code.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrSessionNotActive is returned when the session exists but is
	// completed or cancelled.
	ErrSessionNotActive = errors.New("quiz session is not active")
	// ErrNoQuestions indicates a session or category resolved to zero questions.
	ErrNoQuestions = errors.New("no questions available")
)
