package session

import "errors"

var (
	// ErrInvalidStateTransition is returned when an operation is not
	// legal in the session's current lifecycle state. The state is
	// left unchanged.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrInvalidAnswerOption is returned when a submitted option is
	// outside {1,2,3,4}. The answer map is left unchanged.
	ErrInvalidAnswerOption = errors.New("invalid answer option")

	// ErrQuestionNotFound is returned when an answer is submitted for
	// a question number the active test does not contain.
	ErrQuestionNotFound = errors.New("question not found in test")

	// ErrSessionNotFound is returned by the manager for unknown or
	// already torn-down session ids.
	ErrSessionNotFound = errors.New("session not found")
)
