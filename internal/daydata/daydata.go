// daydata.go
//
// Massive Action Tracker (MAT) data service
// Copyright (c) 2026 TrueXpanse, LLC <support@truexpanse.com>

// Package daydata defines the day-record document: the full set of tracked
// sales activity for one user on one calendar date. The JSON layout matches
// the documents the web clients have always written, so rows persisted by
// earlier releases unmarshal unchanged.
package daydata

import (
	"fmt"
	"strings"
	"time"

	"github.com/truexpanse/mat-data-service/internal/types"
)

// TopTargetSlots is the fixed capacity of the daily top-targets list.
const TopTargetSlots = 6

// Goal is one entry in a day's goal list. Top-target slots are positional
// but each slot still carries a stable id.
type Goal struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// EventType discriminates calendar events.
type EventType string

const (
	EventAppointment EventType = "appointment"
	EventTask        EventType = "task"
)

// CalendarEvent is an appointment or task scheduled on the day.
type CalendarEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Title     string    `json:"title"`
	Time      string    `json:"time,omitempty"` // 24-hour HH:MM
	Contact   string    `json:"contact,omitempty"`
	Completed bool      `json:"completed"`
}

// AIChallenge is the AI-suggested challenge sub-record.
type AIChallenge struct {
	ChallengesAccepted bool                   `json:"challengesAccepted"`
	Challenges         types.FlexList[string] `json:"challenges"`
}

// DayRecord is one user's tracked activity for one calendar date.
type DayRecord struct {
	Events              []CalendarEvent        `json:"events"`
	TopTargets          []Goal                 `json:"topTargets"`
	MassiveGoals        []Goal                 `json:"massiveGoals"`
	WinsToday           types.FlexList[string] `json:"winsToday"`
	ProspectingContacts types.FlexList[string] `json:"prospectingContacts"`
	AIChallenge         AIChallenge            `json:"aiChallenge"`
	EODSubmitted        bool                   `json:"eodSubmitted"`
}

// New returns the canonical default empty record: empty sequences, the six
// top-target slots materialized with deterministic slot ids, eodSubmitted
// false. An absent stored row and an explicitly-empty row are equivalent
// for read purposes.
func New() DayRecord {
	targets := make([]Goal, TopTargetSlots)
	for i := range targets {
		targets[i] = Goal{ID: fmt.Sprintf("top-target-%d", i+1)}
	}
	return DayRecord{
		Events:              []CalendarEvent{},
		TopTargets:          targets,
		MassiveGoals:        []Goal{},
		WinsToday:           types.FlexList[string]{},
		ProspectingContacts: types.FlexList[string]{},
		AIChallenge:         AIChallenge{Challenges: types.FlexList[string]{}},
	}
}

// Clone returns a deep copy of the record. Callers mutate clones, never the
// slices held by a store's cache.
func (r DayRecord) Clone() DayRecord {
	out := r
	out.Events = append([]CalendarEvent{}, r.Events...)
	out.TopTargets = append([]Goal{}, r.TopTargets...)
	out.MassiveGoals = append([]Goal{}, r.MassiveGoals...)
	out.WinsToday = append(types.FlexList[string]{}, r.WinsToday...)
	out.ProspectingContacts = append(types.FlexList[string]{}, r.ProspectingContacts...)
	out.AIChallenge.Challenges = append(types.FlexList[string]{}, r.AIChallenge.Challenges...)
	return out
}

// Normalized returns a copy with nil sequences replaced by empty ones and
// the top-target list padded to its six slots. Rows written by old clients
// can be short or sparse; after normalization an explicitly-empty stored
// record is identical in content to the default record.
func (r DayRecord) Normalized() DayRecord {
	out := r.Clone()
	for len(out.TopTargets) < TopTargetSlots {
		out.TopTargets = append(out.TopTargets, Goal{ID: fmt.Sprintf("top-target-%d", len(out.TopTargets)+1)})
	}
	return out
}

// NormalizeGoalText is the comparison form used for legacy text matching of
// top targets: trimmed and case-folded.
func NormalizeGoalText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ValidateDateKey checks an ISO calendar date key (YYYY-MM-DD).
func ValidateDateKey(dateKey string) error {
	if _, err := time.Parse("2006-01-02", dateKey); err != nil {
		return fmt.Errorf("invalid date key %q: %w", dateKey, err)
	}
	return nil
}
