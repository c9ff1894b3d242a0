package model

import "errors"

var (
	// ErrDataUnavailable means the dataset file is missing, unreadable or malformed
	ErrDataUnavailable = errors.New("data unavailable")

	// ErrNoDocumentsProduced means filtering left nothing to index
	ErrNoDocumentsProduced = errors.New("no documents produced")

	// ErrExternalCallFailure wraps any failure of an embedding, store or model call
	ErrExternalCallFailure = errors.New("external call failed")

	ErrMissingAPIKey   = errors.New("api key not configured")
	ErrInvalidQuestion = errors.New("question is required")
	ErrUnknownSample   = errors.New("unknown sample question")
	ErrUnknownProvider = errors.New("unknown ai provider")
)
