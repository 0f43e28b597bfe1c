package store

import (
	"errors"
	"fmt"
)

// ErrNoSuggestions is returned inside a SuggestionError when the gateway
// answered successfully but with an empty list.
var ErrNoSuggestions = errors.New("suggestion service returned no suggestions")

// PersistenceError reports a failed remote write or bulk fetch. The local
// optimistic value is retained when one is returned from UpsertRecord; the
// caller decides whether to surface a retry affordance.
type PersistenceError struct {
	Op  string // "upsert" or "fetch"
	Key string // dateKey, empty for bulk fetches
	Err error
}

func (e *PersistenceError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("persistence %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("persistence %s failed for %s: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// SuggestionError reports that the AI suggestion service failed or returned
// nothing usable. No local state changes when one is returned.
type SuggestionError struct {
	Err error
}

func (e *SuggestionError) Error() string {
	return fmt.Sprintf("suggestion fetch failed: %v", e.Err)
}

func (e *SuggestionError) Unwrap() error { return e.Err }
